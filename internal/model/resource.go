package model

import (
	"context"

	"github.com/google/uuid"
)

// Owned is implemented by every record that belongs to a user.
type Owned interface {
	OwnerID() uuid.UUID
}

// ResourceStore is the data access contract shared by posts, comments and
// user profiles. F is the entity-specific listing filter.
type ResourceStore[T any, F any] interface {
	List(ctx context.Context, filter F) ([]T, error)
	GetByID(ctx context.Context, id uuid.UUID) (T, error)
	Create(ctx context.Context, item T) (T, error)
	Update(ctx context.Context, item T) (T, error)
	Delete(ctx context.Context, id uuid.UUID) (T, error)
}
