package config

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "github.com/lib/pq"
	"go.uber.org/zap"
)

type Postgres struct {
	Db        *sql.DB
	dbConnStr string
	logger    *zap.Logger
}

func NewPostgres(cfg DatabaseConfig, logger *zap.Logger) *Postgres {
	return &Postgres{
		Db:        nil,
		dbConnStr: cfg.ConnString(),
		logger:    logger,
	}
}

func (p *Postgres) InitDB(ctx context.Context) error {
	var err error

	p.Db, err = sql.Open("postgres", p.dbConnStr)
	if err != nil {
		return fmt.Errorf("connecting to database: %w", err)
	}

	p.Db.SetMaxOpenConns(25)
	p.Db.SetMaxIdleConns(10)
	p.Db.SetConnMaxLifetime(5 * time.Minute)

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err = p.Db.PingContext(ctx); err != nil {
		_ = p.Db.Close()
		p.Db = nil
		if strings.Contains(err.Error(), "certificate") {
			return fmt.Errorf("SSL verification failed: %w", err)
		}
		return fmt.Errorf("ping to database: %w", err)
	}

	p.logger.Info("connection to database established")
	return nil
}

func (p *Postgres) CloseDB() {
	if p.Db == nil {
		return
	}

	if err := p.Db.Close(); err != nil {
		p.logger.Warn("closing database connection", zap.Error(err))
		return
	}
	p.logger.Info("connection to database closed")
}
