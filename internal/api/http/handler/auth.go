package handler

import (
	"context"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

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

type registerRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	UserName string `json:"userName"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type refreshTokenRequest struct {
	RefreshToken string `json:"refreshToken"`
}

type changePasswordRequest struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
}

// Auth handles the /auth endpoints.
type Auth struct {
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
func (h *Auth) Register(c echo.Context) error {
	var req registerRequest
	if err := c.Bind(&req); err != nil {
		return writeError(c, errInvalidBody())
	}

	h.logger.Debug("Auth handler: processing registration request", "email", req.Email)

	session, err := h.authService.Register(c.Request().Context(), model.RegisterParams{
		Email:    req.Email,
		Password: req.Password,
		UserName: req.UserName,
	})
	if err != nil {
		h.logger.Error("Auth handler: registration failed",
			"email", req.Email,
			"error", err.Error())
		return writeError(c, err)
	}

	h.logger.Info("Auth handler: registration completed", "user_id", session.UserID)

	return c.JSON(http.StatusCreated, sessionResponse{
		Token:        session.AccessToken,
		RefreshToken: session.RefreshToken,
		ID:           session.UserID,
	})
}

// Login verifies credentials and opens a new session.
func (h *Auth) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return writeError(c, errInvalidBody())
	}

	h.logger.Debug("Auth handler: processing login request", "email", req.Email)

	session, err := h.authService.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		h.logger.Error("Auth handler: login failed",
			"email", req.Email,
			"error", err.Error())
		return writeError(c, err)
	}

	h.logger.Info("Auth handler: login completed", "user_id", session.UserID)

	return c.JSON(http.StatusOK, sessionResponse{
		Token:        session.AccessToken,
		RefreshToken: session.RefreshToken,
		ID:           session.UserID,
	})
}

// Refresh exchanges a refresh token for a new pair.
func (h *Auth) Refresh(c echo.Context) error {
	var req refreshTokenRequest
	if err := c.Bind(&req); err != nil {
		return writeError(c, errInvalidBody())
	}

	h.logger.Debug("Auth handler: processing token refresh request")

	pair, err := h.sessionService.Refresh(c.Request().Context(), req.RefreshToken)
	if err != nil {
		h.logger.Error("Auth handler: token refresh failed", "error", err.Error())
		return writeError(c, err)
	}

	h.logger.Info("Auth handler: token refresh successful")

	return c.JSON(http.StatusOK, tokenPairResponse{
		Token:        pair.AccessToken,
		RefreshToken: pair.RefreshToken,
	})
}

// Logout revokes a refresh token.
func (h *Auth) Logout(c echo.Context) error {
	var req refreshTokenRequest
	if err := c.Bind(&req); err != nil {
		return writeError(c, errInvalidBody())
	}

	h.logger.Debug("Auth handler: processing logout request")

	if err := h.sessionService.RevokeByToken(c.Request().Context(), req.RefreshToken); err != nil {
		h.logger.Error("Auth handler: logout failed", "error", err.Error())
		return writeError(c, err)
	}

	h.logger.Info("Auth handler: logout successful")

	return c.JSON(http.StatusOK, messageResponse{Message: "User successfully logged out"})
}

// ChangePassword replaces the password of the authenticated user.
func (h *Auth) ChangePassword(c echo.Context) error {
	userID, err := currentUser(c, h.contextManager)
	if err != nil {
		return writeError(c, err)
	}

	var req changePasswordRequest
	if err := c.Bind(&req); err != nil {
		return writeError(c, errInvalidBody())
	}

	h.logger.Debug("Auth handler: processing password change request", "user_id", userID)

	err = h.authService.ChangePassword(c.Request().Context(), userID, req.CurrentPassword, req.NewPassword)
	if err != nil {
		h.logger.Error("Auth handler: password change failed",
			"user_id", userID,
			"error", err.Error())
		return writeError(c, err)
	}

	h.logger.Info("Auth handler: password changed", "user_id", userID)

	return c.JSON(http.StatusOK, messageResponse{Message: "Password changed successfully"})
}
