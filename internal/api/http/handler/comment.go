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

// CommentService defines comment operations.
type CommentService interface {
	List(ctx context.Context, filter model.CommentFilter) ([]model.Comment, error)
	Get(ctx context.Context, id uuid.UUID) (model.Comment, error)
	Add(ctx context.Context, sender, postID uuid.UUID, message string) (model.Comment, error)
	Edit(ctx context.Context, actor, id uuid.UUID, patch service.CommentPatch) (model.Comment, error)
	Delete(ctx context.Context, actor, id uuid.UUID) (model.Comment, error)
}

type createCommentRequest struct {
	PostID  uuid.UUID `json:"postId"`
	Message string    `json:"message"`
}

type updateCommentRequest struct {
	Message *string    `json:"message"`
	PostID  *uuid.UUID `json:"postId"`
	Sender  *uuid.UUID `json:"sender"`
}

// Comment handles the /comment endpoints.
type Comment struct {
	commentService CommentService
	contextManager model.ContextManager
	logger         *logger.Logger
}

func NewComment(commentService CommentService, contextManager model.ContextManager, logger *logger.Logger) *Comment {
	return &Comment{
		commentService: commentService,
		contextManager: contextManager,
		logger:         logger,
	}
}

// List returns comments filtered by ?postId= and ?sender=.
func (h *Comment) List(c echo.Context) error {
	postID, err := queryID(c, "postId")
	if err != nil {
		return writeError(c, err)
	}
	sender, err := queryID(c, "sender")
	if err != nil {
		return writeError(c, err)
	}

	comments, err := h.commentService.List(c.Request().Context(), model.CommentFilter{PostID: postID, Sender: sender})
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, mapSlice(comments, newCommentResponse))
}

func (h *Comment) Get(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return writeError(c, err)
	}

	comment, err := h.commentService.Get(c.Request().Context(), id)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, newCommentResponse(comment))
}

func (h *Comment) Create(c echo.Context) error {
	userID, err := currentUser(c, h.contextManager)
	if err != nil {
		return writeError(c, err)
	}

	var req createCommentRequest
	if err := c.Bind(&req); err != nil {
		return writeError(c, errInvalidBody())
	}

	comment, err := h.commentService.Add(c.Request().Context(), userID, req.PostID, req.Message)
	if err != nil {
		h.logger.Error("Comment handler: create failed", "user_id", userID, "error", err.Error())
		return writeError(c, err)
	}

	h.logger.Info("Comment handler: comment created", "comment_id", comment.ID, "post_id", comment.PostID)

	return c.JSON(http.StatusCreated, newCommentResponse(comment))
}

func (h *Comment) Update(c echo.Context) error {
	userID, err := currentUser(c, h.contextManager)
	if err != nil {
		return writeError(c, err)
	}

	id, err := pathID(c)
	if err != nil {
		return writeError(c, err)
	}

	var req updateCommentRequest
	if err := c.Bind(&req); err != nil {
		return writeError(c, errInvalidBody())
	}

	comment, err := h.commentService.Edit(c.Request().Context(), userID, id, service.CommentPatch{
		Message: req.Message,
		PostID:  req.PostID,
		Sender:  req.Sender,
	})
	if err != nil {
		h.logger.Error("Comment handler: update failed", "comment_id", id, "user_id", userID, "error", err.Error())
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, newCommentResponse(comment))
}

func (h *Comment) Delete(c echo.Context) error {
	userID, err := currentUser(c, h.contextManager)
	if err != nil {
		return writeError(c, err)
	}

	id, err := pathID(c)
	if err != nil {
		return writeError(c, err)
	}

	comment, err := h.commentService.Delete(c.Request().Context(), userID, id)
	if err != nil {
		h.logger.Error("Comment handler: delete failed", "comment_id", id, "user_id", userID, "error", err.Error())
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, newCommentResponse(comment))
}
