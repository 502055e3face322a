package memory

import (
	"context"
	"slices"
	"sync"

	"github.com/google/uuid"

	"github.com/dtroode/postboard-server/internal/model"
)

var (
	_ model.UserStore         = (*UserRepository)(nil)
	_ model.RefreshTokenStore = (*UserRepository)(nil)
)

// UserRepository stores users and their refresh token sets. A single mutex
// serialises writes, which makes token rotation atomic.
type UserRepository struct {
	mu      sync.RWMutex
	users   map[uuid.UUID]model.User
	byEmail map[string]uuid.UUID
}

func NewUserRepository() *UserRepository {
	return &UserRepository{
		users:   make(map[uuid.UUID]model.User),
		byEmail: make(map[string]uuid.UUID),
	}
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (model.User, error) {
	if err := ctx.Err(); err != nil {
		return model.User{}, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.byEmail[email]
	if !ok {
		return model.User{}, model.ErrNotFound
	}
	return clone(r.users[id]), nil
}

func (r *UserRepository) GetByID(ctx context.Context, id uuid.UUID) (model.User, error) {
	if err := ctx.Err(); err != nil {
		return model.User{}, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	user, ok := r.users[id]
	if !ok {
		return model.User{}, model.ErrNotFound
	}
	return clone(user), nil
}

func (r *UserRepository) List(ctx context.Context, filter model.UserFilter) ([]model.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]model.User, 0, len(r.users))
	for _, user := range r.users {
		if filter.Email == "" || user.Email == filter.Email {
			result = append(result, clone(user))
		}
	}
	slices.SortFunc(result, func(a, b model.User) int {
		if cmp := a.CreatedAt.Compare(b.CreatedAt); cmp != 0 {
			return cmp
		}
		return slices.Compare(a.ID[:], b.ID[:])
	})
	return result, nil
}

func (r *UserRepository) Create(ctx context.Context, user model.User) (model.User, error) {
	if err := ctx.Err(); err != nil {
		return model.User{}, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byEmail[user.Email]; ok {
		return model.User{}, model.ErrConflict
	}
	if _, ok := r.users[user.ID]; ok {
		return model.User{}, model.ErrConflict
	}

	if user.RefreshTokens == nil {
		user.RefreshTokens = []string{}
	}
	user = clone(user)
	r.users[user.ID] = user
	r.byEmail[user.Email] = user.ID

	return clone(user), nil
}

// Update stores profile fields only.
func (r *UserRepository) Update(ctx context.Context, user model.User) (model.User, error) {
	return r.modify(ctx, user.ID, func(stored *model.User) error {
		stored.UserName = user.UserName
		stored.FirstName = user.FirstName
		stored.LastName = user.LastName
		stored.Bio = user.Bio
		stored.ProfilePicture = user.ProfilePicture
		stored.UpdatedAt = user.UpdatedAt
		return nil
	})
}

func (r *UserRepository) Delete(ctx context.Context, id uuid.UUID) (model.User, error) {
	if err := ctx.Err(); err != nil {
		return model.User{}, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	user, ok := r.users[id]
	if !ok {
		return model.User{}, model.ErrNotFound
	}
	delete(r.users, id)
	delete(r.byEmail, user.Email)

	return user, nil
}

func (r *UserRepository) UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string) error {
	_, err := r.modify(ctx, id, func(stored *model.User) error {
		stored.PasswordHash = passwordHash
		return nil
	})
	return err
}

func (r *UserRepository) AddRefreshToken(ctx context.Context, userID uuid.UUID, digest string) error {
	_, err := r.modify(ctx, userID, func(stored *model.User) error {
		stored.RefreshTokens = append(stored.RefreshTokens, digest)
		return nil
	})
	return err
}

func (r *UserRepository) RotateRefreshToken(ctx context.Context, userID uuid.UUID, presented, next string) error {
	_, err := r.modify(ctx, userID, func(stored *model.User) error {
		idx := slices.Index(stored.RefreshTokens, presented)
		if idx < 0 {
			return model.ErrTokenNotFound
		}
		stored.RefreshTokens = append(slices.Delete(stored.RefreshTokens, idx, idx+1), next)
		return nil
	})
	return err
}

func (r *UserRepository) RemoveRefreshToken(ctx context.Context, userID uuid.UUID, digest string) (bool, error) {
	removed := false
	_, err := r.modify(ctx, userID, func(stored *model.User) error {
		before := len(stored.RefreshTokens)
		stored.RefreshTokens = slices.DeleteFunc(stored.RefreshTokens, func(t string) bool { return t == digest })
		removed = len(stored.RefreshTokens) < before
		return nil
	})
	return removed, err
}

func (r *UserRepository) ClearRefreshTokens(ctx context.Context, userID uuid.UUID) error {
	_, err := r.modify(ctx, userID, func(stored *model.User) error {
		stored.RefreshTokens = []string{}
		return nil
	})
	return err
}

// Ping always succeeds.
func (r *UserRepository) Ping(context.Context) error {
	return nil
}

func (r *UserRepository) modify(ctx context.Context, id uuid.UUID, fn func(*model.User) error) (model.User, error) {
	if err := ctx.Err(); err != nil {
		return model.User{}, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	user, ok := r.users[id]
	if !ok {
		return model.User{}, model.ErrNotFound
	}

	user = clone(user)
	if err := fn(&user); err != nil {
		return model.User{}, err
	}
	r.users[id] = user

	return clone(user), nil
}

func clone(user model.User) model.User {
	user.RefreshTokens = slices.Clone(user.RefreshTokens)
	return user
}
