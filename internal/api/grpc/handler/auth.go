package handler

import (
	"context"

	"github.com/google/uuid"

	"github.com/dtroode/postboard-server/internal/api/grpc/authv1"
	"github.com/dtroode/postboard-server/internal/apperrors"
	"github.com/dtroode/postboard-server/internal/logger"
	"github.com/dtroode/postboard-server/internal/model"
)

// AuthService defines registration, login and password change.
type AuthService interface {
	Register(ctx context.Context, params model.RegisterParams) (model.Session, error)
	Login(ctx context.Context, email, password string) (model.Session, error)
	ChangePassword(ctx context.Context, userID uuid.UUID, currentPassword, newPassword string) error
}

// SessionService defines refresh token rotation and revocation.
type SessionService interface {
	Refresh(ctx context.Context, refreshToken string) (model.TokenPair, error)
	RevokeByToken(ctx context.Context, refreshToken string) error
}

// Auth handles gRPC endpoints for authentication.
type Auth struct {
	authv1.UnimplementedAuthServer
	authService    AuthService
	sessionService SessionService
	contextManager model.ContextManager
	logger         *logger.Logger
}

// NewAuth creates a new Auth handler.
func NewAuth(authService AuthService, sessionService SessionService, contextManager model.ContextManager, logger *logger.Logger) *Auth {
	return &Auth{
		authService:    authService,
		sessionService: sessionService,
		contextManager: contextManager,
		logger:         logger,
	}
}

// Register creates an account and opens its first session.
func (h *Auth) Register(ctx context.Context, req *authv1.RegisterRequest) (*authv1.SessionResponse, error) {
	h.logger.Debug("Auth handler: processing registration request", "email", req.Email)

	session, err := h.authService.Register(ctx, model.RegisterParams{
		Email:    req.Email,
		Password: req.Password,
		UserName: req.UserName,
	})
	if err != nil {
		h.logger.Error("Auth handler: registration failed",
			"email", req.Email,
			"error", err.Error())
		return nil, handleError(err)
	}

	h.logger.Info("Auth handler: registration completed", "user_id", session.UserID)

	return toSessionResponse(session), nil
}

// Login verifies credentials and opens a new session.
func (h *Auth) Login(ctx context.Context, req *authv1.LoginRequest) (*authv1.SessionResponse, error) {
	h.logger.Debug("Auth handler: processing login request", "email", req.Email)

	session, err := h.authService.Login(ctx, req.Email, req.Password)
	if err != nil {
		h.logger.Error("Auth handler: login failed",
			"email", req.Email,
			"error", err.Error())
		return nil, handleError(err)
	}

	h.logger.Info("Auth handler: login completed", "user_id", session.UserID)

	return toSessionResponse(session), nil
}

// Refresh exchanges a refresh token for a new pair.
func (h *Auth) Refresh(ctx context.Context, req *authv1.RefreshTokenRequest) (*authv1.TokenPairResponse, error) {
	h.logger.Debug("Auth handler: processing token refresh request")

	pair, err := h.sessionService.Refresh(ctx, req.RefreshToken)
	if err != nil {
		h.logger.Error("Auth handler: token refresh failed", "error", err.Error())
		return nil, handleError(err)
	}

	h.logger.Info("Auth handler: token refresh successful")

	return &authv1.TokenPairResponse{
		Token:        pair.AccessToken,
		RefreshToken: pair.RefreshToken,
	}, nil
}

// Logout revokes a refresh token.
func (h *Auth) Logout(ctx context.Context, req *authv1.RefreshTokenRequest) (*authv1.MessageResponse, error) {
	h.logger.Debug("Auth handler: processing logout request")

	if err := h.sessionService.RevokeByToken(ctx, req.RefreshToken); err != nil {
		h.logger.Error("Auth handler: logout failed", "error", err.Error())
		return nil, handleError(err)
	}

	h.logger.Info("Auth handler: logout successful")

	return &authv1.MessageResponse{Message: "User successfully logged out"}, nil
}

// ChangePassword replaces the password of the authenticated caller. The
// identity is put into ctx by the authentication interceptor.
func (h *Auth) ChangePassword(ctx context.Context, req *authv1.ChangePasswordRequest) (*authv1.MessageResponse, error) {
	userID, ok := h.contextManager.GetUserIDFromContext(ctx)
	if !ok {
		return nil, handleError(apperrors.NewErrMissingAuthorizationToken())
	}

	h.logger.Debug("Auth handler: processing password change request", "user_id", userID)

	if err := h.authService.ChangePassword(ctx, userID, req.CurrentPassword, req.NewPassword); err != nil {
		h.logger.Error("Auth handler: password change failed",
			"user_id", userID,
			"error", err.Error())
		return nil, handleError(err)
	}

	h.logger.Info("Auth handler: password changed", "user_id", userID)

	return &authv1.MessageResponse{Message: "Password changed successfully"}, nil
}

func toSessionResponse(session model.Session) *authv1.SessionResponse {
	return &authv1.SessionResponse{
		Token:        session.AccessToken,
		RefreshToken: session.RefreshToken,
		UserID:       session.UserID.String(),
	}
}
