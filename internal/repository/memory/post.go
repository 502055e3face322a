package memory

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/dtroode/postboard-server/internal/model"
)

var _ model.PostStore = (*PostRepository)(nil)

type PostRepository struct {
	posts *collection[model.Post]
}

func NewPostRepository() *PostRepository {
	return &PostRepository{posts: newCollection(
		func(p model.Post) uuid.UUID { return p.ID },
		func(p model.Post) time.Time { return p.CreatedAt },
	)}
}

func (r *PostRepository) List(ctx context.Context, filter model.PostFilter) ([]model.Post, error) {
	return r.posts.list(ctx, func(p model.Post) bool {
		return filter.Sender == nil || p.Sender == *filter.Sender
	})
}

func (r *PostRepository) GetByID(ctx context.Context, id uuid.UUID) (model.Post, error) {
	return r.posts.get(ctx, id)
}

func (r *PostRepository) Create(ctx context.Context, post model.Post) (model.Post, error) {
	return r.posts.create(ctx, post)
}

func (r *PostRepository) Update(ctx context.Context, post model.Post) (model.Post, error) {
	return r.posts.update(ctx, post)
}

func (r *PostRepository) Delete(ctx context.Context, id uuid.UUID) (model.Post, error) {
	return r.posts.delete(ctx, id)
}
