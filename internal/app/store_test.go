package app

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Codelsoft-Microservices/codelsoft-users/internal/config"
	"github.com/Codelsoft-Microservices/codelsoft-users/internal/users/repository"
	"github.com/Codelsoft-Microservices/codelsoft-users/internal/users/service"
)

func TestOpenStoreMemory(t *testing.T) {
	t.Parallel()
	cfg := &config.Config{
		Database:   config.DatabaseConfig{Driver: config.StoreDriverMemory},
		BcryptCost: 4,
	}

	store, err := OpenStore(context.Background(), cfg, zap.NewNop())

	require.NoError(t, err)
	assert.IsType(t, &repository.MemoryRepository{}, store.Repo)
	assert.NoError(t, store.Repo.Ping(context.Background()))
	store.Close()
}

func TestMemoryStoreIssuesTokensForFixtureUsers(t *testing.T) {
	t.Parallel()
	cfg := &config.Config{
		Database:   config.DatabaseConfig{Driver: config.StoreDriverMemory},
		BcryptCost: 4,
	}
	store, err := OpenStore(context.Background(), cfg, zap.NewNop())
	require.NoError(t, err)
	defer store.Close()

	jwtCfg, err := config.NewJWT("store-test-secret", time.Hour)
	require.NoError(t, err)
	userService := service.NewUserService(store.Repo, jwtCfg, config.NewBcrypt(cfg.BcryptCost), cfg.Policy, nil, nil, zap.NewNop())

	token, err := userService.IssueToken(context.Background(), "admin@codelsoft.cl", "admin123")

	require.NoError(t, err)
	claims, err := jwtCfg.ValidateJWT(token)
	require.NoError(t, err)
	assert.Equal(t, "6f1c2b1e-3a55-4a4e-9d7b-0c1f2e3d4a01", claims.Subject)
}

func TestNewAppWithMemoryStoreSeedsFixture(t *testing.T) {
	t.Parallel()
	cfg := &config.Config{
		OpsPort:    "0",
		GRPC:       config.GRPCConfig{Port: "0"},
		Database:   config.DatabaseConfig{Driver: config.StoreDriverMemory},
		JWT:        config.JWTConfig{Secret: "app-test-secret"},
		BcryptCost: 4,
	}

	a, err := New(context.Background(), cfg, zap.NewNop())
	require.NoError(t, err)
	defer a.Close()

	users, err := a.store.Repo.FindAll(context.Background())
	require.NoError(t, err)
	assert.NotEmpty(t, users)
	assert.Nil(t, a.mq)
}

func TestNewAppRequiresSecret(t *testing.T) {
	t.Parallel()
	cfg := &config.Config{
		Database: config.DatabaseConfig{Driver: config.StoreDriverMemory},
	}

	_, err := New(context.Background(), cfg, zap.NewNop())

	assert.Error(t, err)
}
