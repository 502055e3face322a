package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/dtroode/postboard-server/internal/model"
)

var _ model.PostStore = (*PostRepository)(nil)

const postColumns = `id, text, img, sender, created_at, updated_at`

type PostRepository struct {
	db *Connection
}

func NewPostRepository(db *Connection) *PostRepository {
	return &PostRepository{
		db: db,
	}
}

func scanPost(row pgx.Row) (model.Post, error) {
	var post model.Post
	err := row.Scan(&post.ID, &post.Text, &post.Img, &post.Sender, &post.CreatedAt, &post.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return model.Post{}, model.ErrNotFound
	}
	return post, err
}

func (r *PostRepository) List(ctx context.Context, filter model.PostFilter) ([]model.Post, error) {
	query := `SELECT ` + postColumns + ` FROM posts
			  WHERE ($1::uuid IS NULL OR sender = $1)
			  ORDER BY created_at, id`

	rows, err := r.db.Query(ctx, query, filter.Sender)
	if err != nil {
		return nil, fmt.Errorf("failed to list posts: %w", err)
	}
	defer rows.Close()

	posts := []model.Post{}
	for rows.Next() {
		post, err := scanPost(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan post: %w", err)
		}
		posts = append(posts, post)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list posts: %w", err)
	}

	return posts, nil
}

func (r *PostRepository) GetByID(ctx context.Context, id uuid.UUID) (model.Post, error) {
	query := `SELECT ` + postColumns + ` FROM posts WHERE id = $1`

	post, err := scanPost(r.db.QueryRow(ctx, query, id))
	if err != nil && !errors.Is(err, model.ErrNotFound) {
		return model.Post{}, fmt.Errorf("failed to get post: %w", err)
	}
	return post, err
}

func (r *PostRepository) Create(ctx context.Context, post model.Post) (model.Post, error) {
	query := `INSERT INTO posts (id, text, img, sender, created_at, updated_at)
			  VALUES ($1, $2, $3, $4, $5, $6)
			  RETURNING ` + postColumns

	saved, err := scanPost(r.db.QueryRow(ctx, query,
		post.ID, post.Text, post.Img, post.Sender, post.CreatedAt, post.UpdatedAt,
	))
	if err != nil {
		if isUniqueViolation(err) {
			return model.Post{}, model.ErrConflict
		}
		return model.Post{}, fmt.Errorf("failed to create post: %w", err)
	}
	return saved, nil
}

func (r *PostRepository) Update(ctx context.Context, post model.Post) (model.Post, error) {
	query := `UPDATE posts SET text = $2, img = $3, updated_at = $4
			  WHERE id = $1
			  RETURNING ` + postColumns

	saved, err := scanPost(r.db.QueryRow(ctx, query, post.ID, post.Text, post.Img, post.UpdatedAt))
	if err != nil && !errors.Is(err, model.ErrNotFound) {
		return model.Post{}, fmt.Errorf("failed to update post: %w", err)
	}
	return saved, err
}

func (r *PostRepository) Delete(ctx context.Context, id uuid.UUID) (model.Post, error) {
	query := `DELETE FROM posts WHERE id = $1 RETURNING ` + postColumns

	deleted, err := scanPost(r.db.QueryRow(ctx, query, id))
	if err != nil && !errors.Is(err, model.ErrNotFound) {
		return model.Post{}, fmt.Errorf("failed to delete post: %w", err)
	}
	return deleted, err
}
