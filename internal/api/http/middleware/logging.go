package middleware

import (
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/oklog/ulid/v2"

	"github.com/dtroode/postboard-server/internal/logger"
)

// RequestID tags every request with a ULID in the X-Request-Id header.
func RequestID() echo.MiddlewareFunc {
	return echomw.RequestIDWithConfig(echomw.RequestIDConfig{
		Generator: func() string {
			return ulid.Make().String()
		},
	})
}

// Logging logs method, path, status and duration of each request.
type Logging struct {
	logger *logger.Logger
}

// NewLogging creates a new Logging middleware.
func NewLogging(logger *logger.Logger) *Logging {
	return &Logging{logger: logger}
}

func (l *Logging) Handle(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		start := time.Now()
		req := c.Request()
		requestID := c.Response().Header().Get(echo.HeaderXRequestID)

		l.logger.Debug("HTTP request started",
			"request_id", requestID,
			"method", req.Method,
			"path", req.URL.Path)

		err := next(c)
		if err != nil {
			c.Error(err)
		}

		status := c.Response().Status
		attrs := []any{
			"request_id", requestID,
			"method", req.Method,
			"path", req.URL.Path,
			"status", status,
			"duration_ms", time.Since(start).Milliseconds(),
		}

		switch {
		case status >= 500:
			if err != nil {
				attrs = append(attrs, "error", err.Error())
			}
			l.logger.Error("HTTP request failed", attrs...)
		default:
			l.logger.Info("HTTP request completed", attrs...)
		}

		return err
	}
}
