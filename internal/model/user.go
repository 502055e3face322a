package model

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// UserStore defines persistence operations for users.
//
// Update writes profile fields only. Email, password hash and refresh tokens
// change through dedicated operations.
type UserStore interface {
	ResourceStore[User, UserFilter]
	GetByEmail(ctx context.Context, email string) (User, error)
	UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string) error
}

// RefreshTokenStore maintains the set of live refresh token digests kept on
// every user record.
type RefreshTokenStore interface {
	AddRefreshToken(ctx context.Context, userID uuid.UUID, digest string) error
	// RotateRefreshToken replaces presented with next in a single step.
	// It returns ErrTokenNotFound when presented is not in the set.
	RotateRefreshToken(ctx context.Context, userID uuid.UUID, presented, next string) error
	RemoveRefreshToken(ctx context.Context, userID uuid.UUID, digest string) (bool, error)
	ClearRefreshTokens(ctx context.Context, userID uuid.UUID) error
}

// User represents a registered account together with its profile.
type User struct {
	ID             uuid.UUID
	Email          string
	PasswordHash   string
	UserName       string
	FirstName      string
	LastName       string
	Bio            string
	ProfilePicture string
	RefreshTokens  []string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// OwnerID reports the account itself as the owner of its profile.
func (u User) OwnerID() uuid.UUID {
	return u.ID
}

// UserFilter narrows user listings. Zero value matches everything.
type UserFilter struct {
	Email string
}
