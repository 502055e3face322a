package service

import (
	"context"

	"github.com/google/uuid"

	"github.com/dtroode/postboard-server/internal/apperrors"
	"github.com/dtroode/postboard-server/internal/logger"
	"github.com/dtroode/postboard-server/internal/model"
)

// CommentPatch lists the fields a client asked to change.
type CommentPatch struct {
	Message *string
	PostID  *uuid.UUID
	Sender  *uuid.UUID
}

// Comments manages comments.
type Comments struct {
	*Resource[model.Comment, model.CommentFilter]
}

func NewComments(store model.CommentStore, logger *logger.Logger) *Comments {
	return &Comments{Resource: NewResource(store, "comment", OwnerOnly[model.Comment]("comment"), logger)}
}

// Add creates a comment by sender under postID.
func (s *Comments) Add(ctx context.Context, sender, postID uuid.UUID, message string) (model.Comment, error) {
	if postID == uuid.Nil {
		return model.Comment{}, apperrors.NewErrMissingField("postId")
	}
	if message == "" {
		return model.Comment{}, apperrors.NewErrMissingField("message")
	}

	now := s.now()
	return s.Create(ctx, model.Comment{
		ID:        uuid.New(),
		PostID:    postID,
		Sender:    sender,
		Message:   message,
		CreatedAt: now,
		UpdatedAt: now,
	})
}

// Edit applies patch to a comment owned by actor.
func (s *Comments) Edit(ctx context.Context, actor, id uuid.UUID, patch CommentPatch) (model.Comment, error) {
	return s.Update(ctx, actor, id, func(c *model.Comment) error {
		if patch.Sender != nil && *patch.Sender != c.Sender {
			return apperrors.NewErrBadRequest("cannot change creator of the comment")
		}
		if patch.PostID != nil && *patch.PostID != c.PostID {
			return apperrors.NewErrBadRequest("cannot move comment to another post")
		}
		if patch.Message != nil {
			if *patch.Message == "" {
				return apperrors.NewErrMissingField("message")
			}
			c.Message = *patch.Message
		}
		c.UpdatedAt = s.now()
		return nil
	})
}
