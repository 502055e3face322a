package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/dtroode/postboard-server/internal/apperrors"
	"github.com/dtroode/postboard-server/internal/logger"
)

type messageResponse struct {
	Message string `json:"message"`
}

func writeError(c echo.Context, err error) error {
	apiErr := apperrors.From(err)
	return c.JSON(apiErr.HTTPStatus, messageResponse{Message: apiErr.Message})
}

// ErrorHandler renders errors that escape handlers and middleware, including
// echo's own routing errors, as a JSON message body.
func ErrorHandler(log *logger.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		var httpErr *echo.HTTPError
		if errors.As(err, &httpErr) {
			message, ok := httpErr.Message.(string)
			if !ok {
				message = http.StatusText(httpErr.Code)
			}
			_ = c.JSON(httpErr.Code, messageResponse{Message: message})
			return
		}

		apiErr := apperrors.From(err)
		if apiErr.Kind == apperrors.KindInternal {
			log.Error("HTTP handler: unhandled error",
				"method", c.Request().Method,
				"path", c.Request().URL.Path,
				"error", err.Error())
		}
		_ = c.JSON(apiErr.HTTPStatus, messageResponse{Message: apiErr.Message})
	}
}

func errInvalidBody() error {
	return apperrors.NewErrBadRequest("invalid request body")
}

func errInvalidID(name string) error {
	return apperrors.NewErrBadRequest("invalid " + name)
}
