package model

import (
	"context"
	"io"
)

// Storage keeps binary objects such as post images.
type Storage interface {
	Upload(ctx context.Context, key string, reader io.Reader, size int64, contentType string) error
	Download(ctx context.Context, key string) (Object, error)
	Delete(ctx context.Context, key string) error
	Exists(ctx context.Context, key string) (bool, error)
}

// Object is a downloaded object body with its metadata.
type Object struct {
	Body        io.ReadCloser
	Size        int64
	ContentType string
}
