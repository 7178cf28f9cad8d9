package config

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"errors"
	"fmt"
	"net"
	"os"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials"

	"github.com/Codelsoft-Microservices/codelsoft-users/internal/interceptors"
)

type GRPCServer struct {
	Server *grpc.Server
	cfg    GRPCConfig
	logger *zap.Logger
}

func NewGRPCServer(cfg GRPCConfig, logger *zap.Logger, latency *prometheus.HistogramVec) (*GRPCServer, error) {
	opts := []grpc.ServerOption{
		grpc.ChainUnaryInterceptor(
			interceptors.LoggingInterceptor(logger, latency),
			interceptors.RecoveryInterceptor(logger),
			interceptors.ErrorInterceptor(logger),
		),
	}

	if cfg.TLSEnabled() {
		creds, err := loadTLSCredentials(cfg)
		if err != nil {
			return nil, fmt.Errorf("loading TLS credentials: %w", err)
		}
		opts = append(opts, grpc.Creds(creds))
	} else {
		logger.Warn("gRPC server running without TLS")
	}

	if cfg.ShutdownTimeout <= 0 {
		cfg.ShutdownTimeout = 10 * time.Second
	}

	return &GRPCServer{
		Server: grpc.NewServer(opts...),
		cfg:    cfg,
		logger: logger,
	}, nil
}

// ListenAndServe serves on the configured port until ctx is cancelled,
// then shuts down gracefully.
func (s *GRPCServer) ListenAndServe(ctx context.Context) error {
	lis, err := net.Listen("tcp", ":"+s.cfg.Port)
	if err != nil {
		return err
	}
	return s.Serve(ctx, lis)
}

func (s *GRPCServer) Serve(ctx context.Context, lis net.Listener) error {
	serverErrors := make(chan error, 1)

	go func() {
		s.logger.Info("gRPC server listening", zap.String("addr", lis.Addr().String()))
		serverErrors <- s.Server.Serve(lis)
	}()

	select {
	case err := <-serverErrors:
		if errors.Is(err, grpc.ErrServerStopped) {
			return nil
		}
		return err

	case <-ctx.Done():
		s.logger.Info("starting graceful shutdown")
		s.GracefulShutdown(s.cfg.ShutdownTimeout)
		return nil
	}
}

func (s *GRPCServer) GracefulShutdown(timeout time.Duration) {
	stopped := make(chan struct{})
	go func() {
		s.Server.GracefulStop()
		close(stopped)
	}()

	timer := time.NewTimer(timeout)
	select {
	case <-timer.C:
		s.logger.Warn("timeout reached, forcing shutdown")
		s.Server.Stop()
	case <-stopped:
		timer.Stop()
		s.logger.Info("server stopped gracefully")
	}
}

func loadTLSCredentials(cfg GRPCConfig) (credentials.TransportCredentials, error) {
	serverCert, err := tls.LoadX509KeyPair(cfg.TLSCertFile, cfg.TLSKeyFile)
	if err != nil {
		return nil, err
	}

	tlsConfig := &tls.Config{
		Certificates: []tls.Certificate{serverCert},
		MinVersion:   tls.VersionTLS13,
	}

	if cfg.CACertFile != "" {
		caCert, err := os.ReadFile(cfg.CACertFile)
		if err != nil {
			return nil, err
		}

		certPool := x509.NewCertPool()
		if !certPool.AppendCertsFromPEM(caCert) {
			return nil, fmt.Errorf("no certificates found in %s", cfg.CACertFile)
		}

		tlsConfig.ClientAuth = tls.RequireAndVerifyClientCert
		tlsConfig.ClientCAs = certPool
	}

	return credentials.NewTLS(tlsConfig), nil
}
