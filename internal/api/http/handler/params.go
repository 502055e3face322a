package handler

import (
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/dtroode/postboard-server/internal/apperrors"
	"github.com/dtroode/postboard-server/internal/model"
)

func pathID(c echo.Context) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return uuid.Nil, errInvalidID("id")
	}
	return id, nil
}

// queryID parses an optional uuid query parameter.
func queryID(c echo.Context, name string) (*uuid.UUID, error) {
	raw := c.QueryParam(name)
	if raw == "" {
		return nil, nil
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return nil, errInvalidID(name)
	}
	return &id, nil
}

// currentUser returns the identity the Access Guard attached to the request.
func currentUser(c echo.Context, contextManager model.ContextManager) (uuid.UUID, error) {
	userID, ok := contextManager.GetUserIDFromContext(c.Request().Context())
	if !ok {
		return uuid.Nil, apperrors.NewErrMissingAuthorizationToken()
	}
	return userID, nil
}
