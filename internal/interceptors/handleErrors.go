package interceptors

import (
	"context"

	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/status"

	customerrors "github.com/Codelsoft-Microservices/codelsoft-users/internal/customErrors"
)

// ErrorInterceptor turns handler errors into gRPC statuses. Internal
// faults are logged with their cause and reported with a generic message.
func ErrorInterceptor(logger *zap.Logger) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		resp, err := handler(ctx, req)
		if err != nil {
			return nil, handleGrpcError(logger, info.FullMethod, err)
		}
		return resp, nil
	}
}

func handleGrpcError(logger *zap.Logger, method string, err error) error {
	if _, ok := status.FromError(err); ok {
		return err
	}

	if customerrors.KindOf(err) == customerrors.KindInternal {
		logger.Error("internal error", zap.String("method", method), zap.Error(err))
	}

	return status.Error(customerrors.GetCode(err), customerrors.GetMessage(err))
}
