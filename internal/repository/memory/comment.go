package memory

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/dtroode/postboard-server/internal/model"
)

var _ model.CommentStore = (*CommentRepository)(nil)

type CommentRepository struct {
	comments *collection[model.Comment]
}

func NewCommentRepository() *CommentRepository {
	return &CommentRepository{comments: newCollection(
		func(c model.Comment) uuid.UUID { return c.ID },
		func(c model.Comment) time.Time { return c.CreatedAt },
	)}
}

func (r *CommentRepository) List(ctx context.Context, filter model.CommentFilter) ([]model.Comment, error) {
	return r.comments.list(ctx, func(c model.Comment) bool {
		return (filter.PostID == nil || c.PostID == *filter.PostID) &&
			(filter.Sender == nil || c.Sender == *filter.Sender)
	})
}

func (r *CommentRepository) GetByID(ctx context.Context, id uuid.UUID) (model.Comment, error) {
	return r.comments.get(ctx, id)
}

func (r *CommentRepository) Create(ctx context.Context, comment model.Comment) (model.Comment, error) {
	return r.comments.create(ctx, comment)
}

func (r *CommentRepository) Update(ctx context.Context, comment model.Comment) (model.Comment, error) {
	return r.comments.update(ctx, comment)
}

func (r *CommentRepository) Delete(ctx context.Context, id uuid.UUID) (model.Comment, error) {
	return r.comments.delete(ctx, id)
}
