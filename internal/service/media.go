package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/dtroode/postboard-server/internal/apperrors"
	"github.com/dtroode/postboard-server/internal/logger"
	"github.com/dtroode/postboard-server/internal/model"
)

// MaxMediaSize bounds a single uploaded image.
const MaxMediaSize = 10 << 20

// MediaObject describes an uploaded image.
type MediaObject struct {
	Key string
	URL string
}

// Media stores post images in object storage under a per-user prefix.
type Media struct {
	storage   model.Storage
	publicURL string
	logger    *logger.Logger
}

func NewMedia(storage model.Storage, publicURL string, logger *logger.Logger) *Media {
	return &Media{storage: storage, publicURL: strings.TrimSuffix(publicURL, "/"), logger: logger}
}

// Upload stores an image owned by owner and returns where it can be fetched.
func (s *Media) Upload(ctx context.Context, owner uuid.UUID, filename, contentType string, size int64, body io.Reader) (MediaObject, error) {
	if !strings.HasPrefix(contentType, "image/") {
		return MediaObject{}, apperrors.NewErrBadRequest("only images can be uploaded")
	}
	if size <= 0 {
		return MediaObject{}, apperrors.NewErrBadRequest("file is empty")
	}
	if size > MaxMediaSize {
		return MediaObject{}, apperrors.NewErrBadRequest(fmt.Sprintf("file exceeds %d bytes", MaxMediaSize))
	}

	key := path.Join(owner.String(), uuid.NewString()+strings.ToLower(filepath.Ext(filename)))
	if err := s.storage.Upload(ctx, key, body, size, contentType); err != nil {
		return MediaObject{}, fmt.Errorf("failed to upload media: %w", err)
	}

	s.logger.Info("Media service: image uploaded", "key", key, "owner", owner, "size", size)

	return MediaObject{Key: key, URL: s.publicURL + "/" + key}, nil
}

// Open returns the stored object. The caller closes its body.
func (s *Media) Open(ctx context.Context, key string) (model.Object, error) {
	if !validKey(key) {
		return model.Object{}, apperrors.NewErrNotFound("media")
	}

	obj, err := s.storage.Download(ctx, key)
	if errors.Is(err, model.ErrNotFound) {
		return model.Object{}, apperrors.NewErrNotFound("media")
	}
	if err != nil {
		return model.Object{}, fmt.Errorf("failed to download media: %w", err)
	}
	return obj, nil
}

// Delete removes an image uploaded by actor.
func (s *Media) Delete(ctx context.Context, actor uuid.UUID, key string) error {
	if !validKey(key) {
		return apperrors.NewErrNotFound("media")
	}
	if !strings.HasPrefix(key, actor.String()+"/") {
		return apperrors.NewErrForbidden("you can only delete your own media")
	}

	exists, err := s.storage.Exists(ctx, key)
	if err != nil {
		return fmt.Errorf("failed to stat media: %w", err)
	}
	if !exists {
		return apperrors.NewErrNotFound("media")
	}

	if err := s.storage.Delete(ctx, key); err != nil {
		return fmt.Errorf("failed to delete media: %w", err)
	}

	s.logger.Info("Media service: image deleted", "key", key, "owner", actor)
	return nil
}

func validKey(key string) bool {
	owner, name, ok := strings.Cut(key, "/")
	if !ok || name == "" || strings.Contains(name, "/") {
		return false
	}
	_, err := uuid.Parse(owner)
	return err == nil
}
