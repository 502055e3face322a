package handler

import (
	"context"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/dtroode/postboard-server/internal/logger"
	"github.com/dtroode/postboard-server/internal/model"
	"github.com/dtroode/postboard-server/internal/service"
)

// UserService defines profile operations.
type UserService interface {
	List(ctx context.Context, filter model.UserFilter) ([]model.User, error)
	Get(ctx context.Context, id uuid.UUID) (model.User, error)
	Me(ctx context.Context, userID uuid.UUID) (model.User, error)
	EditProfile(ctx context.Context, actor, id uuid.UUID, patch service.ProfilePatch) (model.User, error)
	Delete(ctx context.Context, actor, id uuid.UUID) (model.User, error)
}

type updateProfileRequest struct {
	ID             *uuid.UUID `json:"_id"`
	Email          *string    `json:"email"`
	Password       *string    `json:"password"`
	UserName       *string    `json:"userName"`
	FirstName      *string    `json:"firstName"`
	LastName       *string    `json:"lastName"`
	Bio            *string    `json:"bio"`
	ProfilePicture *string    `json:"profilePicture"`
}

// User handles the /user endpoints.
type User struct {
	userService    UserService
	contextManager model.ContextManager
	logger         *logger.Logger
}

func NewUser(userService UserService, contextManager model.ContextManager, logger *logger.Logger) *User {
	return &User{
		userService:    userService,
		contextManager: contextManager,
		logger:         logger,
	}
}

func (h *User) List(c echo.Context) error {
	users, err := h.userService.List(c.Request().Context(), model.UserFilter{Email: c.QueryParam("email")})
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, mapSlice(users, newUserResponse))
}

func (h *User) Get(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return writeError(c, err)
	}

	user, err := h.userService.Get(c.Request().Context(), id)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, newUserResponse(user))
}

// Me returns the profile of the caller.
func (h *User) Me(c echo.Context) error {
	userID, err := currentUser(c, h.contextManager)
	if err != nil {
		return writeError(c, err)
	}

	user, err := h.userService.Me(c.Request().Context(), userID)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, newUserResponse(user))
}

func (h *User) Update(c echo.Context) error {
	userID, err := currentUser(c, h.contextManager)
	if err != nil {
		return writeError(c, err)
	}

	id, err := pathID(c)
	if err != nil {
		return writeError(c, err)
	}

	var req updateProfileRequest
	if err := c.Bind(&req); err != nil {
		return writeError(c, errInvalidBody())
	}

	user, err := h.userService.EditProfile(c.Request().Context(), userID, id, service.ProfilePatch{
		ID:             req.ID,
		Email:          req.Email,
		Password:       req.Password,
		UserName:       req.UserName,
		FirstName:      req.FirstName,
		LastName:       req.LastName,
		Bio:            req.Bio,
		ProfilePicture: req.ProfilePicture,
	})
	if err != nil {
		h.logger.Error("User handler: profile update failed", "user_id", userID, "target_id", id, "error", err.Error())
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, newUserResponse(user))
}

func (h *User) Delete(c echo.Context) error {
	userID, err := currentUser(c, h.contextManager)
	if err != nil {
		return writeError(c, err)
	}

	id, err := pathID(c)
	if err != nil {
		return writeError(c, err)
	}

	user, err := h.userService.Delete(c.Request().Context(), userID, id)
	if err != nil {
		h.logger.Error("User handler: delete failed", "user_id", userID, "target_id", id, "error", err.Error())
		return writeError(c, err)
	}

	h.logger.Info("User handler: account deleted", "user_id", userID)

	return c.JSON(http.StatusOK, newUserResponse(user))
}
