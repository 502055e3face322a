package model

import (
	"time"

	"github.com/google/uuid"
)

// PostStore persists posts.
type PostStore = ResourceStore[Post, PostFilter]

// Post is a short text with an image, published by a user.
type Post struct {
	ID        uuid.UUID
	Text      string
	Img       string
	Sender    uuid.UUID
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (p Post) OwnerID() uuid.UUID {
	return p.Sender
}

// PostFilter narrows post listings.
type PostFilter struct {
	Sender *uuid.UUID
}
