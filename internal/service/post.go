package service

import (
	"context"

	"github.com/google/uuid"

	"github.com/dtroode/postboard-server/internal/apperrors"
	"github.com/dtroode/postboard-server/internal/logger"
	"github.com/dtroode/postboard-server/internal/model"
)

// PostPatch lists the fields a client asked to change. Nil means unchanged.
type PostPatch struct {
	Text   *string
	Img    *string
	Sender *uuid.UUID
}

// Posts manages posts.
type Posts struct {
	*Resource[model.Post, model.PostFilter]
}

func NewPosts(store model.PostStore, logger *logger.Logger) *Posts {
	return &Posts{Resource: NewResource(store, "post", OwnerOnly[model.Post]("post"), logger)}
}

// Publish creates a post authored by sender.
func (s *Posts) Publish(ctx context.Context, sender uuid.UUID, text, img string) (model.Post, error) {
	if text == "" {
		return model.Post{}, apperrors.NewErrMissingField("text")
	}
	if img == "" {
		return model.Post{}, apperrors.NewErrMissingField("img")
	}

	now := s.now()
	return s.Create(ctx, model.Post{
		ID:        uuid.New(),
		Text:      text,
		Img:       img,
		Sender:    sender,
		CreatedAt: now,
		UpdatedAt: now,
	})
}

// Edit applies patch to a post owned by actor. The author cannot change.
func (s *Posts) Edit(ctx context.Context, actor, id uuid.UUID, patch PostPatch) (model.Post, error) {
	return s.Update(ctx, actor, id, func(p *model.Post) error {
		if patch.Sender != nil && *patch.Sender != p.Sender {
			return apperrors.NewErrBadRequest("cannot change creator of the post")
		}
		if patch.Text != nil {
			if *patch.Text == "" {
				return apperrors.NewErrMissingField("text")
			}
			p.Text = *patch.Text
		}
		if patch.Img != nil {
			if *patch.Img == "" {
				return apperrors.NewErrMissingField("img")
			}
			p.Img = *patch.Img
		}
		p.UpdatedAt = s.now()
		return nil
	})
}
