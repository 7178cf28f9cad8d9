package app

import (
	"bytes"
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/Codelsoft-Microservices/codelsoft-users/internal/config"
	"github.com/Codelsoft-Microservices/codelsoft-users/internal/seed"
	"github.com/Codelsoft-Microservices/codelsoft-users/internal/users/repository"
)

// Store is the configured user repository together with whatever must be
// released when it is no longer needed.
type Store struct {
	Repo     repository.UserRepository
	postgres *config.Postgres
}

// OpenStore connects the configured driver. A memory store starts out
// loaded with the embedded fixture users.
func OpenStore(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*Store, error) {
	if cfg.Database.Driver == config.StoreDriverMemory {
		logger.Warn("using in-memory user store; data is lost on restart")
		repo := repository.NewMemoryRepository()
		if _, err := seed.Seed(ctx, repo, config.NewBcrypt(cfg.BcryptCost), bytes.NewReader(seed.DefaultFixture), logger); err != nil {
			return nil, fmt.Errorf("seeding memory store: %w", err)
		}
		return &Store{Repo: repo}, nil
	}

	pg := config.NewPostgres(cfg.Database, logger)
	if err := pg.InitDB(ctx); err != nil {
		return nil, err
	}

	return &Store{
		Repo:     repository.NewPostgresRepository(pg.Db),
		postgres: pg,
	}, nil
}

func (s *Store) Close() {
	if s.postgres != nil {
		s.postgres.CloseDB()
	}
}
