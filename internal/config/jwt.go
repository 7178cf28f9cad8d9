package config

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/Codelsoft-Microservices/codelsoft-users/internal/models"
)

type Claims struct {
	UUID      string      `json:"uuid"`
	Name      string      `json:"name"`
	Lastname  string      `json:"lastname"`
	Email     string      `json:"email"`
	Role      models.Role `json:"role"`
	CreatedAt time.Time   `json:"createdAt"`
	jwt.RegisteredClaims
}

func (c *Claims) IsAdmin() bool {
	return c.Role == models.RoleAdmin
}

type Token interface {
	GenerateJWT(user models.UserPublic) (string, error)
	ValidateJWT(tokenString string) (*Claims, error)
}

type JWT struct {
	jwtSecret []byte
	ttl       time.Duration
	now       func() time.Time
}

func NewJWT(secret string, ttl time.Duration) (*JWT, error) {
	if secret == "" {
		return nil, errors.New("JWT_SECRET not defined")
	}
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}

	return &JWT{
		jwtSecret: []byte(secret),
		ttl:       ttl,
		now:       time.Now,
	}, nil
}

func (j *JWT) GenerateJWT(user models.UserPublic) (string, error) {
	now := j.now()
	claims := Claims{
		UUID:      user.UUID,
		Name:      user.Name,
		Lastname:  user.Lastname,
		Email:     user.Email,
		Role:      user.Role,
		CreatedAt: user.CreatedAt,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(j.ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			Subject:   user.UUID,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	tokenString, err := token.SignedString(j.jwtSecret)
	if err != nil {
		return "", err
	}

	return tokenString, nil
}

func (j *JWT) ValidateJWT(tokenString string) (*Claims, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		return j.jwtSecret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(j.now))

	switch {
	case errors.Is(err, jwt.ErrTokenExpired):
		return nil, jwt.ErrTokenExpired
	case err != nil, !token.Valid:
		return nil, jwt.ErrSignatureInvalid
	}

	if claims.UUID == "" || !claims.Role.Valid() {
		return nil, jwt.ErrSignatureInvalid
	}

	return claims, nil
}
