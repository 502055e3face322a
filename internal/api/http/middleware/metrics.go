package middleware

import (
	"time"

	"github.com/labstack/echo/v4"
)

// RequestObserver records request outcomes.
type RequestObserver interface {
	ObserveRequest(method, route string, status int, seconds float64)
}

// Metrics reports every request to a RequestObserver, labelled by the
// matched route pattern rather than the raw path.
func Metrics(observer RequestObserver) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()

			err := next(c)
			if err != nil {
				c.Error(err)
			}

			route := c.Path()
			if route == "" {
				route = "unmatched"
			}
			observer.ObserveRequest(c.Request().Method, route, c.Response().Status, time.Since(start).Seconds())

			return err
		}
	}
}
