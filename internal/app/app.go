package app

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/Codelsoft-Microservices/codelsoft-users/internal/config"
	"github.com/Codelsoft-Microservices/codelsoft-users/internal/events"
	"github.com/Codelsoft-Microservices/codelsoft-users/internal/metrics"
	"github.com/Codelsoft-Microservices/codelsoft-users/internal/ops"
	gRPC "github.com/Codelsoft-Microservices/codelsoft-users/internal/users/grpc"
	"github.com/Codelsoft-Microservices/codelsoft-users/internal/users/service"
	pb "github.com/Codelsoft-Microservices/codelsoft-users/rpc"
)

// App owns every long-lived component of the users service.
type App struct {
	cfg    *config.Config
	logger *zap.Logger

	store   *Store
	mq      *events.RabbitMQ
	grpcSrv *config.GRPCServer
	opsSrv  *ops.Server
}

func New(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*App, error) {
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	store, err := OpenStore(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}

	a := &App{cfg: cfg, logger: logger, store: store}

	var publisher events.Publisher = events.Nop{}
	if cfg.RabbitMQ.Enabled() {
		a.mq = events.NewRabbitMQ(cfg.RabbitMQ, logger)
		if err := a.mq.Connect(ctx); err != nil {
			a.Close()
			return nil, fmt.Errorf("connecting to rabbitmq: %w", err)
		}
		publisher = a.mq
	}

	jwtCfg, err := config.NewJWT(cfg.JWT.Secret, cfg.JWT.TTL)
	if err != nil {
		a.Close()
		return nil, err
	}

	userService := service.NewUserService(
		store.Repo,
		jwtCfg,
		config.NewBcrypt(cfg.BcryptCost),
		cfg.Policy,
		publisher,
		metrics.NewMutationCounter(registry),
		logger,
	)

	a.grpcSrv, err = config.NewGRPCServer(cfg.GRPC, logger, metrics.NewRPCHistogram(registry))
	if err != nil {
		a.Close()
		return nil, err
	}
	pb.RegisterUsersServer(a.grpcSrv.Server, gRPC.NewServer(userService))

	a.opsSrv = ops.NewServer(cfg.OpsPort, userService, registry, logger)

	return a, nil
}

// Run serves gRPC and ops traffic until ctx is cancelled or a signal
// arrives.
func (a *App) Run(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := a.grpcSrv.ListenAndServe(ctx); err != nil {
			return fmt.Errorf("grpc server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		if err := a.opsSrv.ListenAndServe(ctx); err != nil {
			return fmt.Errorf("ops server: %w", err)
		}
		return nil
	})

	if a.mq != nil {
		g.Go(func() error {
			a.mq.Run(ctx)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		a.logger.Error("users service returning an error", zap.Error(err))
		return err
	}

	a.logger.Info("users service gracefully stopped")
	return nil
}

func (a *App) Close() {
	if a.mq != nil {
		if err := a.mq.Close(); err != nil {
			a.logger.Warn("closing rabbitmq", zap.Error(err))
		}
	}
	if a.store != nil {
		a.store.Close()
	}
}
