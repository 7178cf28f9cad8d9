package seed

import (
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/Codelsoft-Microservices/codelsoft-users/internal/config"
	"github.com/Codelsoft-Microservices/codelsoft-users/internal/models"
	"github.com/Codelsoft-Microservices/codelsoft-users/internal/users/repository"
)

//go:embed fixtures/users.json
var DefaultFixture []byte

var validate = validator.New()

type fixtureUser struct {
	UUID     string      `json:"uuid" validate:"required"`
	Name     string      `json:"name" validate:"required"`
	Lastname string      `json:"lastname" validate:"required"`
	Email    string      `json:"email" validate:"required,email"`
	Password string      `json:"password" validate:"required,max=72"`
	Role     models.Role `json:"role" validate:"required,oneof=Administrador Cliente"`
	IsActive bool        `json:"isActive"`
}

// Seed loads the fixture users into an empty store, hashing their
// passwords. A store that already holds users is left alone and Seed
// returns zero.
func Seed(ctx context.Context, repo repository.UserRepository, hasher config.Hasher, fixture io.Reader, logger *zap.Logger) (int, error) {
	existing, err := repo.FindAll(ctx)
	if err != nil {
		return 0, fmt.Errorf("checking existing users: %w", err)
	}
	if len(existing) > 0 {
		logger.Info("users already present, skipping seed", zap.Int("count", len(existing)))
		return 0, nil
	}

	var users []fixtureUser
	if err := json.NewDecoder(fixture).Decode(&users); err != nil {
		return 0, fmt.Errorf("decoding fixture: %w", err)
	}

	for i, u := range users {
		if err := validate.Struct(u); err != nil {
			return 0, fmt.Errorf("fixture entry %d: %w", i, err)
		}
	}

	// Fixture order is kept as creation order.
	base := time.Now().UTC().Add(-time.Duration(len(users)) * time.Millisecond)
	for i, u := range users {
		createdAt := base.Add(time.Duration(i) * time.Millisecond)

		hash, err := hasher.Hash(u.Password)
		if err != nil {
			return i, fmt.Errorf("hashing password for %s: %w", u.Email, err)
		}

		if err := repo.Insert(ctx, models.User{
			UUID:         u.UUID,
			Name:         u.Name,
			Lastname:     u.Lastname,
			Email:        u.Email,
			PasswordHash: hash,
			Role:         u.Role,
			IsActive:     u.IsActive,
			CreatedAt:    createdAt,
			UpdatedAt:    createdAt,
		}); err != nil {
			return i, fmt.Errorf("inserting %s: %w", u.Email, err)
		}
	}

	logger.Info("users seeded", zap.Int("count", len(users)))
	return len(users), nil
}
