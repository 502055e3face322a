package middleware

import (
	"context"

	"github.com/google/uuid"
	"github.com/grpc-ecosystem/go-grpc-middleware/v2/interceptors/auth"
	"google.golang.org/grpc/status"

	"github.com/dtroode/postboard-server/internal/apperrors"
	"github.com/dtroode/postboard-server/internal/logger"
	"github.com/dtroode/postboard-server/internal/model"
)

// TokenService resolves user ID from bearer tokens.
type TokenService interface {
	GetUserID(ctx context.Context, token string) (uuid.UUID, error)
}

// Authenticate validates bearer tokens and injects user ID into context.
type Authenticate struct {
	tokenService   TokenService
	contextManager model.ContextManager
	logger         *logger.Logger
}

// NewAuthenticate creates a new Authenticate middleware instance.
func NewAuthenticate(tokenService TokenService, contextManager model.ContextManager, logger *logger.Logger) *Authenticate {
	return &Authenticate{tokenService: tokenService, contextManager: contextManager, logger: logger}
}

// AuthFunc reads the bearer token from the "authorization" metadata,
// validates it and returns a context carrying the user ID.
func (m *Authenticate) AuthFunc(ctx context.Context) (context.Context, error) {
	userID, err := m.authenticateUser(ctx)
	if err != nil {
		apiErr := apperrors.From(err)
		m.logger.Debug("gRPC authentication failed", "error", apiErr.Message)
		return nil, status.Error(apiErr.GRPCCode, apiErr.Message)
	}

	return m.contextManager.SetUserIDToContext(ctx, userID), nil
}

func (m *Authenticate) authenticateUser(ctx context.Context) (uuid.UUID, error) {
	tokenString, err := auth.AuthFromMD(ctx, "bearer")
	if err != nil || tokenString == "" {
		return uuid.Nil, apperrors.NewErrMissingAuthorizationToken()
	}

	userID, err := m.tokenService.GetUserID(ctx, tokenString)
	if err != nil || userID == uuid.Nil {
		return uuid.Nil, apperrors.NewErrInvalidAuthorizationToken()
	}

	return userID, nil
}
