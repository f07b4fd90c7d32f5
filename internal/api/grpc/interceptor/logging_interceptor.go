package interceptor

import (
	"context"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/status"

	"sailing-club-backend/internal/logger"
)

// Logging returns a unary interceptor that logs each call with its status
// code and latency.
func Logging() grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req interface{}, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (interface{}, error) {
		started := time.Now()
		resp, err := handler(ctx, req)

		code := status.Code(err)
		args := []any{"method", info.FullMethod, "code", code.String(), "duration_ms", time.Since(started).Milliseconds()}
		if err != nil {
			logger.WarnContext(ctx, "gRPC call failed", append(args, "error", err)...)
		} else {
			logger.DebugContext(ctx, "gRPC call", args...)
		}
		return resp, err
	}
}
