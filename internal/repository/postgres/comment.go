package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/dtroode/postboard-server/internal/model"
)

var _ model.CommentStore = (*CommentRepository)(nil)

const commentColumns = `id, post_id, sender, message, created_at, updated_at`

type CommentRepository struct {
	db *Connection
}

func NewCommentRepository(db *Connection) *CommentRepository {
	return &CommentRepository{
		db: db,
	}
}

func scanComment(row pgx.Row) (model.Comment, error) {
	var comment model.Comment
	err := row.Scan(
		&comment.ID, &comment.PostID, &comment.Sender, &comment.Message, &comment.CreatedAt, &comment.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return model.Comment{}, model.ErrNotFound
	}
	return comment, err
}

func (r *CommentRepository) List(ctx context.Context, filter model.CommentFilter) ([]model.Comment, error) {
	query := `SELECT ` + commentColumns + ` FROM comments
			  WHERE ($1::uuid IS NULL OR post_id = $1)
			    AND ($2::uuid IS NULL OR sender = $2)
			  ORDER BY created_at, id`

	rows, err := r.db.Query(ctx, query, filter.PostID, filter.Sender)
	if err != nil {
		return nil, fmt.Errorf("failed to list comments: %w", err)
	}
	defer rows.Close()

	comments := []model.Comment{}
	for rows.Next() {
		comment, err := scanComment(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan comment: %w", err)
		}
		comments = append(comments, comment)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list comments: %w", err)
	}

	return comments, nil
}

func (r *CommentRepository) GetByID(ctx context.Context, id uuid.UUID) (model.Comment, error) {
	query := `SELECT ` + commentColumns + ` FROM comments WHERE id = $1`

	comment, err := scanComment(r.db.QueryRow(ctx, query, id))
	if err != nil && !errors.Is(err, model.ErrNotFound) {
		return model.Comment{}, fmt.Errorf("failed to get comment: %w", err)
	}
	return comment, err
}

func (r *CommentRepository) Create(ctx context.Context, comment model.Comment) (model.Comment, error) {
	query := `INSERT INTO comments (id, post_id, sender, message, created_at, updated_at)
			  VALUES ($1, $2, $3, $4, $5, $6)
			  RETURNING ` + commentColumns

	saved, err := scanComment(r.db.QueryRow(ctx, query,
		comment.ID, comment.PostID, comment.Sender, comment.Message, comment.CreatedAt, comment.UpdatedAt,
	))
	if err != nil {
		if isUniqueViolation(err) {
			return model.Comment{}, model.ErrConflict
		}
		return model.Comment{}, fmt.Errorf("failed to create comment: %w", err)
	}
	return saved, nil
}

func (r *CommentRepository) Update(ctx context.Context, comment model.Comment) (model.Comment, error) {
	query := `UPDATE comments SET message = $2, updated_at = $3
			  WHERE id = $1
			  RETURNING ` + commentColumns

	saved, err := scanComment(r.db.QueryRow(ctx, query, comment.ID, comment.Message, comment.UpdatedAt))
	if err != nil && !errors.Is(err, model.ErrNotFound) {
		return model.Comment{}, fmt.Errorf("failed to update comment: %w", err)
	}
	return saved, err
}

func (r *CommentRepository) Delete(ctx context.Context, id uuid.UUID) (model.Comment, error) {
	query := `DELETE FROM comments WHERE id = $1 RETURNING ` + commentColumns

	deleted, err := scanComment(r.db.QueryRow(ctx, query, id))
	if err != nil && !errors.Is(err, model.ErrNotFound) {
		return model.Comment{}, fmt.Errorf("failed to delete comment: %w", err)
	}
	return deleted, err
}
