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

// PostService defines post operations.
type PostService interface {
	List(ctx context.Context, filter model.PostFilter) ([]model.Post, error)
	Get(ctx context.Context, id uuid.UUID) (model.Post, error)
	Publish(ctx context.Context, sender uuid.UUID, text, img string) (model.Post, error)
	Edit(ctx context.Context, actor, id uuid.UUID, patch service.PostPatch) (model.Post, error)
	Delete(ctx context.Context, actor, id uuid.UUID) (model.Post, error)
}

type createPostRequest struct {
	Text string `json:"text"`
	Img  string `json:"img"`
}

type updatePostRequest struct {
	Text   *string    `json:"text"`
	Img    *string    `json:"img"`
	Sender *uuid.UUID `json:"sender"`
}

// Post handles the /post endpoints.
type Post struct {
	postService    PostService
	contextManager model.ContextManager
	logger         *logger.Logger
}

func NewPost(postService PostService, contextManager model.ContextManager, logger *logger.Logger) *Post {
	return &Post{
		postService:    postService,
		contextManager: contextManager,
		logger:         logger,
	}
}

// List returns posts, optionally only those of ?sender=.
func (h *Post) List(c echo.Context) error {
	sender, err := queryID(c, "sender")
	if err != nil {
		return writeError(c, err)
	}

	posts, err := h.postService.List(c.Request().Context(), model.PostFilter{Sender: sender})
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, mapSlice(posts, newPostResponse))
}

func (h *Post) Get(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return writeError(c, err)
	}

	post, err := h.postService.Get(c.Request().Context(), id)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, newPostResponse(post))
}

// Create publishes a post on behalf of the authenticated user.
func (h *Post) Create(c echo.Context) error {
	userID, err := currentUser(c, h.contextManager)
	if err != nil {
		return writeError(c, err)
	}

	var req createPostRequest
	if err := c.Bind(&req); err != nil {
		return writeError(c, errInvalidBody())
	}

	post, err := h.postService.Publish(c.Request().Context(), userID, req.Text, req.Img)
	if err != nil {
		h.logger.Error("Post handler: create failed", "user_id", userID, "error", err.Error())
		return writeError(c, err)
	}

	h.logger.Info("Post handler: post created", "post_id", post.ID, "user_id", userID)

	return c.JSON(http.StatusCreated, newPostResponse(post))
}

func (h *Post) Update(c echo.Context) error {
	userID, err := currentUser(c, h.contextManager)
	if err != nil {
		return writeError(c, err)
	}

	id, err := pathID(c)
	if err != nil {
		return writeError(c, err)
	}

	var req updatePostRequest
	if err := c.Bind(&req); err != nil {
		return writeError(c, errInvalidBody())
	}

	post, err := h.postService.Edit(c.Request().Context(), userID, id, service.PostPatch{
		Text:   req.Text,
		Img:    req.Img,
		Sender: req.Sender,
	})
	if err != nil {
		h.logger.Error("Post handler: update failed", "post_id", id, "user_id", userID, "error", err.Error())
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, newPostResponse(post))
}

func (h *Post) Delete(c echo.Context) error {
	userID, err := currentUser(c, h.contextManager)
	if err != nil {
		return writeError(c, err)
	}

	id, err := pathID(c)
	if err != nil {
		return writeError(c, err)
	}

	post, err := h.postService.Delete(c.Request().Context(), userID, id)
	if err != nil {
		h.logger.Error("Post handler: delete failed", "post_id", id, "user_id", userID, "error", err.Error())
		return writeError(c, err)
	}

	h.logger.Info("Post handler: post deleted", "post_id", id, "user_id", userID)

	return c.JSON(http.StatusOK, newPostResponse(post))
}
