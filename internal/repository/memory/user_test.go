package memory

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dtroode/postboard-server/internal/model"
)

func newUser(email string) model.User {
	now := time.Now()
	return model.User{ID: uuid.New(), Email: email, PasswordHash: "hash", CreatedAt: now, UpdatedAt: now}
}

func TestUserRepository_CreateAndGet(t *testing.T) {
	ctx := context.Background()
	repo := NewUserRepository()
	u := newUser("a@b.com")

	saved, err := repo.Create(ctx, u)
	require.NoError(t, err)
	assert.Equal(t, u.ID, saved.ID)
	assert.Empty(t, saved.RefreshTokens)

	byEmail, err := repo.GetByEmail(ctx, "a@b.com")
	require.NoError(t, err)
	assert.Equal(t, u.ID, byEmail.ID)

	byID, err := repo.GetByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, "a@b.com", byID.Email)

	_, err = repo.GetByEmail(ctx, "missing@b.com")
	assert.ErrorIs(t, err, model.ErrNotFound)

	_, err = repo.Create(ctx, newUser("a@b.com"))
	assert.ErrorIs(t, err, model.ErrConflict)
}

func TestUserRepository_UpdateTouchesProfileOnly(t *testing.T) {
	ctx := context.Background()
	repo := NewUserRepository()
	u, err := repo.Create(ctx, newUser("a@b.com"))
	require.NoError(t, err)
	require.NoError(t, repo.AddRefreshToken(ctx, u.ID, "digest"))

	u.UserName = "alice"
	u.Bio = "hello"
	u.Email = "changed@b.com"
	u.PasswordHash = "changed"
	u.RefreshTokens = nil

	updated, err := repo.Update(ctx, u)
	require.NoError(t, err)
	assert.Equal(t, "alice", updated.UserName)
	assert.Equal(t, "hello", updated.Bio)
	assert.Equal(t, "a@b.com", updated.Email)
	assert.Equal(t, "hash", updated.PasswordHash)
	assert.Equal(t, []string{"digest"}, updated.RefreshTokens)
}

func TestUserRepository_ListAndDelete(t *testing.T) {
	ctx := context.Background()
	repo := NewUserRepository()
	a, err := repo.Create(ctx, newUser("a@b.com"))
	require.NoError(t, err)
	_, err = repo.Create(ctx, newUser("c@d.com"))
	require.NoError(t, err)

	all, err := repo.List(ctx, model.UserFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 2)

	filtered, err := repo.List(ctx, model.UserFilter{Email: "a@b.com"})
	require.NoError(t, err)
	require.Len(t, filtered, 1)
	assert.Equal(t, a.ID, filtered[0].ID)

	deleted, err := repo.Delete(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, a.ID, deleted.ID)

	_, err = repo.GetByEmail(ctx, "a@b.com")
	assert.ErrorIs(t, err, model.ErrNotFound)
	_, err = repo.Delete(ctx, a.ID)
	assert.ErrorIs(t, err, model.ErrNotFound)
}

func TestUserRepository_ListOrdersTiesByID(t *testing.T) {
	ctx := context.Background()
	repo := NewUserRepository()
	created := time.Now()

	ids := []uuid.UUID{
		uuid.MustParse("00000000-0000-0000-0000-000000000003"),
		uuid.MustParse("00000000-0000-0000-0000-000000000001"),
		uuid.MustParse("00000000-0000-0000-0000-000000000002"),
	}
	for i, id := range ids {
		_, err := repo.Create(ctx, model.User{ID: id, Email: fmt.Sprintf("u%d@b.com", i), CreatedAt: created})
		require.NoError(t, err)
	}

	for range 5 {
		all, err := repo.List(ctx, model.UserFilter{})
		require.NoError(t, err)
		require.Len(t, all, 3)
		assert.Equal(t, []uuid.UUID{ids[1], ids[2], ids[0]}, []uuid.UUID{all[0].ID, all[1].ID, all[2].ID})
	}
}

func TestUserRepository_RefreshTokens(t *testing.T) {
	ctx := context.Background()
	repo := NewUserRepository()
	u, err := repo.Create(ctx, newUser("a@b.com"))
	require.NoError(t, err)

	require.NoError(t, repo.AddRefreshToken(ctx, u.ID, "t1"))
	require.NoError(t, repo.AddRefreshToken(ctx, u.ID, "t2"))

	require.NoError(t, repo.RotateRefreshToken(ctx, u.ID, "t1", "t3"))
	stored, err := repo.GetByID(ctx, u.ID)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"t2", "t3"}, stored.RefreshTokens)

	err = repo.RotateRefreshToken(ctx, u.ID, "t1", "t4")
	assert.ErrorIs(t, err, model.ErrTokenNotFound)

	removed, err := repo.RemoveRefreshToken(ctx, u.ID, "t2")
	require.NoError(t, err)
	assert.True(t, removed)
	removed, err = repo.RemoveRefreshToken(ctx, u.ID, "t2")
	require.NoError(t, err)
	assert.False(t, removed)

	require.NoError(t, repo.ClearRefreshTokens(ctx, u.ID))
	stored, err = repo.GetByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Empty(t, stored.RefreshTokens)

	assert.ErrorIs(t, repo.AddRefreshToken(ctx, uuid.New(), "x"), model.ErrNotFound)
}

func TestUserRepository_ConcurrentRotationHasOneWinner(t *testing.T) {
	ctx := context.Background()
	repo := NewUserRepository()
	u, err := repo.Create(ctx, newUser("a@b.com"))
	require.NoError(t, err)
	require.NoError(t, repo.AddRefreshToken(ctx, u.ID, "shared"))

	const workers = 32
	var wins atomic.Int32
	var wg sync.WaitGroup
	for i := range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if repo.RotateRefreshToken(ctx, u.ID, "shared", fmt.Sprintf("next-%d", i)) == nil {
				wins.Add(1)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), wins.Load())
	stored, err := repo.GetByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Len(t, stored.RefreshTokens, 1)
}

func TestUserRepository_ReturnsCopies(t *testing.T) {
	ctx := context.Background()
	repo := NewUserRepository()
	u, err := repo.Create(ctx, newUser("a@b.com"))
	require.NoError(t, err)
	require.NoError(t, repo.AddRefreshToken(ctx, u.ID, "t1"))

	got, err := repo.GetByID(ctx, u.ID)
	require.NoError(t, err)
	got.RefreshTokens[0] = "tampered"

	again, err := repo.GetByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"t1"}, again.RefreshTokens)
}

func TestUserRepository_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewUserRepository().GetByID(ctx, uuid.New())
	assert.ErrorIs(t, err, context.Canceled)
}
