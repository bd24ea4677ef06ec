package engine

import (
	"context"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"

	api "github.com/oshokin/alert-override/internal/api/grpc/alert"
	"github.com/oshokin/alert-override/internal/logger"
)

// logRequests tags the request logger with the method and reporter and logs
// the outcome of every unary call.
func logRequests(
	ctx context.Context,
	req any,
	info *grpc.UnaryServerInfo,
	handler grpc.UnaryHandler,
) (any, error) {
	ctx = logger.WithKV(logger.WithName(ctx, "grpc"), "method", info.FullMethod)

	if md, ok := metadata.FromIncomingContext(ctx); ok {
		if reporter := md.Get(api.ReporterMetadataKey); len(reporter) > 0 {
			ctx = logger.WithKV(ctx, "reporter", reporter[0])
		}
	}

	started := time.Now()
	resp, err := handler(ctx, req)

	if err != nil {
		logger.WarnKV(ctx, "Request failed", "code", status.Code(err).String(), "error", err)

		return resp, err
	}

	logger.DebugKV(ctx, "Request handled", "duration", time.Since(started).String())

	return resp, nil
}
