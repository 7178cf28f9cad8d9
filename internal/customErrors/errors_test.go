package customerrors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"google.golang.org/grpc/codes"
)

func TestGetCodeAndMessage(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name            string
		err             error
		expectedCode    codes.Code
		expectedMessage string
	}{
		{name: "Invalid input", err: ErrRequiredFields, expectedCode: codes.InvalidArgument, expectedMessage: "all fields are required"},
		{name: "Missing token", err: ErrMissingToken, expectedCode: codes.Unauthenticated, expectedMessage: "missing authorization token"},
		{name: "Permission", err: ErrPermissionDenied, expectedCode: codes.PermissionDenied, expectedMessage: ErrPermissionDenied.Message},
		{name: "Not found", err: ErrUserNotFound, expectedCode: codes.NotFound, expectedMessage: "user not found"},
		{name: "Conflict", err: ErrEmailAlreadyExists, expectedCode: codes.AlreadyExists, expectedMessage: "user already exists"},
		{name: "Unavailable", err: ErrDbTimeout, expectedCode: codes.Unavailable, expectedMessage: "database timeout"},
		{name: "Wrapped sentinel", err: fmt.Errorf("lookup: %w", ErrUserNotFound), expectedCode: codes.NotFound, expectedMessage: "user not found"},
		{name: "Expired jwt", err: jwt.ErrTokenExpired, expectedCode: codes.Unauthenticated, expectedMessage: ErrInvalidToken.Message},
		{name: "Raw error", err: errors.New("pq: password authentication failed"), expectedCode: codes.Internal, expectedMessage: "internal server error"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tc.expectedCode, GetCode(tc.err))
			assert.Equal(t, tc.expectedMessage, GetMessage(tc.err))
		})
	}
}

func TestInternalKeepsCause(t *testing.T) {
	t.Parallel()
	cause := errors.New("disk full")

	err := Internal("internal server error", cause)

	assert.ErrorIs(t, err, cause)
	assert.ErrorIs(t, err, ErrInternalServer)
	assert.Contains(t, err.Error(), "disk full")
	assert.Equal(t, "internal server error", GetMessage(err))
}

func TestSentinelsCompareByKindAndMessage(t *testing.T) {
	t.Parallel()

	assert.ErrorIs(t, New(KindNotFound, "user not found"), ErrUserNotFound)
	assert.NotErrorIs(t, ErrNoActiveUsers, ErrUserNotFound)
	assert.Equal(t, "Conflict", KindConflict.String())
}
