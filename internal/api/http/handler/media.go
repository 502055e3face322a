package handler

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/dtroode/postboard-server/internal/apperrors"
	"github.com/dtroode/postboard-server/internal/logger"
	"github.com/dtroode/postboard-server/internal/model"
	"github.com/dtroode/postboard-server/internal/service"
)

const mediaFormField = "file"

// MediaService defines image upload and retrieval.
type MediaService interface {
	Upload(ctx context.Context, owner uuid.UUID, filename, contentType string, size int64, body io.Reader) (service.MediaObject, error)
	Open(ctx context.Context, key string) (model.Object, error)
	Delete(ctx context.Context, actor uuid.UUID, key string) error
}

// Media handles the /media endpoints.
type Media struct {
	mediaService   MediaService
	contextManager model.ContextManager
	logger         *logger.Logger
}

func NewMedia(mediaService MediaService, contextManager model.ContextManager, logger *logger.Logger) *Media {
	return &Media{
		mediaService:   mediaService,
		contextManager: contextManager,
		logger:         logger,
	}
}

// Upload stores the multipart "file" field.
func (h *Media) Upload(c echo.Context) error {
	userID, err := currentUser(c, h.contextManager)
	if err != nil {
		return writeError(c, err)
	}

	file, err := c.FormFile(mediaFormField)
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			return writeError(c, apperrors.NewErrMissingField(mediaFormField))
		}
		return writeError(c, errInvalidBody())
	}

	src, err := file.Open()
	if err != nil {
		return writeError(c, apperrors.NewErrInternalServerError(err))
	}
	defer src.Close()

	obj, err := h.mediaService.Upload(c.Request().Context(), userID, file.Filename, file.Header.Get(echo.HeaderContentType), file.Size, src)
	if err != nil {
		h.logger.Error("Media handler: upload failed", "user_id", userID, "error", err.Error())
		return writeError(c, err)
	}

	return c.JSON(http.StatusCreated, mediaResponse{Key: obj.Key, URL: obj.URL})
}

// Download streams a stored image.
func (h *Media) Download(c echo.Context) error {
	obj, err := h.mediaService.Open(c.Request().Context(), c.Param("*"))
	if err != nil {
		return writeError(c, err)
	}
	defer obj.Body.Close()

	contentType := obj.ContentType
	if contentType == "" {
		contentType = echo.MIMEOctetStream
	}
	if obj.Size > 0 {
		c.Response().Header().Set(echo.HeaderContentLength, strconv.FormatInt(obj.Size, 10))
	}

	return c.Stream(http.StatusOK, contentType, obj.Body)
}

func (h *Media) Delete(c echo.Context) error {
	userID, err := currentUser(c, h.contextManager)
	if err != nil {
		return writeError(c, err)
	}

	if err := h.mediaService.Delete(c.Request().Context(), userID, c.Param("*")); err != nil {
		return writeError(c, err)
	}

	return c.NoContent(http.StatusNoContent)
}
