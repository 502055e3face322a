package middleware

import (
	"context"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/dtroode/postboard-server/internal/logger"
)

// RequestObserver records per-call metrics.
type RequestObserver interface {
	ObserveRequest(method, route string, status int, seconds float64)
}

// Logging is a unary interceptor that logs gRPC requests and results.
type Logging struct {
	logger   *logger.Logger
	observer RequestObserver
}

// NewLogging creates a new Logging middleware. observer may be nil.
func NewLogging(logger *logger.Logger, observer RequestObserver) *Logging {
	return &Logging{logger: logger, observer: observer}
}

// HandleGRPC logs method name, duration and status for each unary request.
func (l *Logging) HandleGRPC(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
	start := time.Now()

	resp, err := handler(ctx, req)

	duration := time.Since(start)

	statusCode := codes.OK
	if err != nil {
		if st, ok := status.FromError(err); ok {
			statusCode = st.Code()
		} else {
			statusCode = codes.Internal
		}
	}

	if l.observer != nil {
		l.observer.ObserveRequest("GRPC", info.FullMethod, int(statusCode), duration.Seconds())
	}

	fields := []any{
		"method", info.FullMethod,
		"duration_ms", duration.Milliseconds(),
		"status", statusCode.String(),
	}

	switch statusCode {
	case codes.OK:
		l.logger.Info("gRPC request completed", fields...)
	case codes.Internal, codes.Unknown, codes.Unavailable:
		l.logger.Error("gRPC request failed", append(fields, "error", err.Error())...)
	default:
		l.logger.Info("gRPC request completed", append(fields, "error", err.Error())...)
	}

	return resp, err
}
