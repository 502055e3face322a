package model

import (
	"time"

	"github.com/google/uuid"
)

// CommentStore persists comments.
type CommentStore = ResourceStore[Comment, CommentFilter]

// Comment is a message left by a user under a post.
type Comment struct {
	ID        uuid.UUID
	PostID    uuid.UUID
	Sender    uuid.UUID
	Message   string
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (c Comment) OwnerID() uuid.UUID {
	return c.Sender
}

// CommentFilter narrows comment listings.
type CommentFilter struct {
	PostID *uuid.UUID
	Sender *uuid.UUID
}
