package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/dtroode/postboard-server/internal/model"
)

var (
	_ model.UserStore         = (*UserRepository)(nil)
	_ model.RefreshTokenStore = (*UserRepository)(nil)
)

const userColumns = `id, email, password_hash, user_name, first_name, last_name, bio, profile_picture,
	refresh_tokens, created_at, updated_at`

// UserRepository stores users and their refresh token digests in one row.
type UserRepository struct {
	db *Connection
}

func NewUserRepository(db *Connection) *UserRepository {
	return &UserRepository{
		db: db,
	}
}

func scanUser(row pgx.Row) (model.User, error) {
	var user model.User
	err := row.Scan(
		&user.ID, &user.Email, &user.PasswordHash, &user.UserName, &user.FirstName, &user.LastName,
		&user.Bio, &user.ProfilePicture, &user.RefreshTokens, &user.CreatedAt, &user.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return model.User{}, model.ErrNotFound
	}
	return user, err
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (model.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1`

	user, err := scanUser(r.db.QueryRow(ctx, query, email))
	if err != nil && !errors.Is(err, model.ErrNotFound) {
		return model.User{}, fmt.Errorf("failed to get user by email: %w", err)
	}
	return user, err
}

func (r *UserRepository) GetByID(ctx context.Context, id uuid.UUID) (model.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`

	user, err := scanUser(r.db.QueryRow(ctx, query, id))
	if err != nil && !errors.Is(err, model.ErrNotFound) {
		return model.User{}, fmt.Errorf("failed to get user by id: %w", err)
	}
	return user, err
}

func (r *UserRepository) List(ctx context.Context, filter model.UserFilter) ([]model.User, error) {
	query := `SELECT ` + userColumns + ` FROM users
			  WHERE ($1 = '' OR email = $1)
			  ORDER BY created_at, id`

	rows, err := r.db.Query(ctx, query, filter.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	defer rows.Close()

	users := []model.User{}
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		users = append(users, user)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}

	return users, nil
}

func (r *UserRepository) Create(ctx context.Context, user model.User) (model.User, error) {
	query := `INSERT INTO users (id, email, password_hash, user_name, first_name, last_name, bio,
			  profile_picture, refresh_tokens, created_at, updated_at)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
			  RETURNING ` + userColumns

	tokens := user.RefreshTokens
	if tokens == nil {
		tokens = []string{}
	}

	saved, err := scanUser(r.db.QueryRow(ctx, query,
		user.ID, user.Email, user.PasswordHash, user.UserName, user.FirstName, user.LastName, user.Bio,
		user.ProfilePicture, tokens, user.CreatedAt, user.UpdatedAt,
	))
	if err != nil {
		if isUniqueViolation(err) {
			return model.User{}, model.ErrConflict
		}
		return model.User{}, fmt.Errorf("failed to create user: %w", err)
	}

	return saved, nil
}

// Update stores profile fields only.
func (r *UserRepository) Update(ctx context.Context, user model.User) (model.User, error) {
	query := `UPDATE users
			  SET user_name = $2, first_name = $3, last_name = $4, bio = $5, profile_picture = $6, updated_at = $7
			  WHERE id = $1
			  RETURNING ` + userColumns

	saved, err := scanUser(r.db.QueryRow(ctx, query,
		user.ID, user.UserName, user.FirstName, user.LastName, user.Bio, user.ProfilePicture, user.UpdatedAt,
	))
	if err != nil && !errors.Is(err, model.ErrNotFound) {
		return model.User{}, fmt.Errorf("failed to update user: %w", err)
	}
	return saved, err
}

func (r *UserRepository) Delete(ctx context.Context, id uuid.UUID) (model.User, error) {
	query := `DELETE FROM users WHERE id = $1 RETURNING ` + userColumns

	deleted, err := scanUser(r.db.QueryRow(ctx, query, id))
	if err != nil && !errors.Is(err, model.ErrNotFound) {
		return model.User{}, fmt.Errorf("failed to delete user: %w", err)
	}
	return deleted, err
}

func (r *UserRepository) UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string) error {
	query := `UPDATE users SET password_hash = $2, updated_at = NOW() WHERE id = $1`

	return r.execOne(ctx, "update password", query, id, passwordHash)
}

func (r *UserRepository) AddRefreshToken(ctx context.Context, userID uuid.UUID, digest string) error {
	query := `UPDATE users SET refresh_tokens = array_append(refresh_tokens, $2) WHERE id = $1`

	return r.execOne(ctx, "add refresh token", query, userID, digest)
}

// RotateRefreshToken swaps presented for next in a single conditional
// statement. Row locking makes concurrent rotations of one token serialise,
// and only the first still finds presented in the array.
func (r *UserRepository) RotateRefreshToken(ctx context.Context, userID uuid.UUID, presented, next string) error {
	query := `UPDATE users
			  SET refresh_tokens = array_append(array_remove(refresh_tokens, $2), $3)
			  WHERE id = $1 AND $2 = ANY(refresh_tokens)`

	tag, err := r.db.Exec(ctx, query, userID, presented, next)
	if err != nil {
		return fmt.Errorf("failed to rotate refresh token: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrTokenNotFound
	}
	return nil
}

func (r *UserRepository) RemoveRefreshToken(ctx context.Context, userID uuid.UUID, digest string) (bool, error) {
	query := `UPDATE users
			  SET refresh_tokens = array_remove(refresh_tokens, $2)
			  WHERE id = $1 AND $2 = ANY(refresh_tokens)`

	tag, err := r.db.Exec(ctx, query, userID, digest)
	if err != nil {
		return false, fmt.Errorf("failed to remove refresh token: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

func (r *UserRepository) ClearRefreshTokens(ctx context.Context, userID uuid.UUID) error {
	query := `UPDATE users SET refresh_tokens = '{}' WHERE id = $1`

	return r.execOne(ctx, "clear refresh tokens", query, userID)
}

func (r *UserRepository) execOne(ctx context.Context, op, query string, args ...any) error {
	tag, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to %s: %w", op, err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrNotFound
	}
	return nil
}
