package config

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Codelsoft-Microservices/codelsoft-users/internal/models"
)

func testUser() models.UserPublic {
	return models.UserPublic{
		UUID:      "5f8d0d55-1b2c-4d3e-8f9a-0b1c2d3e4f50",
		Name:      "Ana",
		Lastname:  "Ruiz",
		Email:     "ana@x.io",
		Role:      models.RoleClient,
		CreatedAt: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

func TestNewJWTRequiresSecret(t *testing.T) {
	t.Parallel()

	_, err := NewJWT("", time.Hour)
	assert.Error(t, err)

	j, err := NewJWT("secret", 0)
	require.NoError(t, err)
	assert.Equal(t, 24*time.Hour, j.ttl)
}

func TestGenerateAndValidate(t *testing.T) {
	t.Parallel()
	j, err := NewJWT("secret", time.Hour)
	require.NoError(t, err)
	user := testUser()

	token, err := j.GenerateJWT(user)
	require.NoError(t, err)

	claims, err := j.ValidateJWT(token)
	require.NoError(t, err)
	assert.Equal(t, user.UUID, claims.UUID)
	assert.Equal(t, user.UUID, claims.Subject)
	assert.Equal(t, user.Email, claims.Email)
	assert.Equal(t, models.RoleClient, claims.Role)
	assert.False(t, claims.IsAdmin())
}

func TestValidateJWTFailures(t *testing.T) {
	t.Parallel()

	signer, err := NewJWT("secret", time.Hour)
	require.NoError(t, err)
	valid, err := signer.GenerateJWT(testUser())
	require.NoError(t, err)

	otherKey, err := NewJWT("another-secret", time.Hour)
	require.NoError(t, err)

	expired, err := NewJWT("secret", time.Hour)
	require.NoError(t, err)
	expired.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	expiredToken, err := expired.GenerateJWT(testUser())
	require.NoError(t, err)

	noRole := testUser()
	noRole.Role = "Invitado"
	badRoleToken, err := signer.GenerateJWT(noRole)
	require.NoError(t, err)

	noneToken, err := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{"uuid": "x", "role": "Administrador"}).
		SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	testCases := []struct {
		name          string
		validator     *JWT
		token         string
		expectedError error
	}{
		{name: "Wrong key", validator: otherKey, token: valid, expectedError: jwt.ErrSignatureInvalid},
		{name: "Expired", validator: signer, token: expiredToken, expectedError: jwt.ErrTokenExpired},
		{name: "Unknown role claim", validator: signer, token: badRoleToken, expectedError: jwt.ErrSignatureInvalid},
		{name: "Unsigned token", validator: signer, token: noneToken, expectedError: jwt.ErrSignatureInvalid},
		{name: "Garbage", validator: signer, token: "not.a.jwt", expectedError: jwt.ErrSignatureInvalid},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			claims, err := tc.validator.ValidateJWT(tc.token)

			assert.ErrorIs(t, err, tc.expectedError)
			assert.Nil(t, claims)
		})
	}
}
