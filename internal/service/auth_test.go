package service

import (
	"context"
	"net/http"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/dtroode/postboard-server/internal/apperrors"
	"github.com/dtroode/postboard-server/internal/metrics"
	servermocks "github.com/dtroode/postboard-server/internal/mocks"
	"github.com/dtroode/postboard-server/internal/model"
	"github.com/dtroode/postboard-server/internal/password"
	"github.com/dtroode/postboard-server/internal/testutil"
)

type authDeps struct {
	users  *servermocks.UserStore
	hasher *servermocks.PasswordHasher
	tokens *servermocks.SessionIssuer
	events *eventLog
}

func newAuthUnderTest(t *testing.T, opts ...AuthOption) (*Auth, authDeps) {
	deps := authDeps{
		users:  servermocks.NewUserStore(t),
		hasher: servermocks.NewPasswordHasher(t),
		tokens: servermocks.NewSessionIssuer(t),
		events: &eventLog{},
	}
	opts = append([]AuthOption{WithAuthEvents(deps.events)}, opts...)
	return NewAuth(deps.users, deps.hasher, deps.tokens, testutil.MakeNoopLogger(), opts...), deps
}

func TestAuth_Register(t *testing.T) {
	ctx := context.Background()
	svc, deps := newAuthUnderTest(t)
	pair := model.TokenPair{AccessToken: "access", RefreshToken: "refresh"}

	deps.users.On("GetByEmail", ctx, "a@b.com").Return(model.User{}, model.ErrNotFound).Once()
	deps.hasher.On("Hash", "pw123456").Return("hashed", nil).Once()
	deps.users.On("Create", ctx, mock.MatchedBy(func(u model.User) bool {
		return u.Email == "a@b.com" && u.PasswordHash == "hashed" && u.UserName == "alice" && u.ID != uuid.Nil
	})).Return(func(_ context.Context, u model.User) (model.User, error) { return u, nil }).Once()
	deps.tokens.On("Issue", ctx, mock.AnythingOfType("uuid.UUID")).Return(pair, nil).Once()

	session, err := svc.Register(ctx, model.RegisterParams{Email: "a@b.com", Password: "pw123456", UserName: "alice"})
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, session.UserID)
	assert.Equal(t, pair, session.TokenPair)
	assert.Equal(t, []string{metrics.EventRegister}, deps.events.events)
}

func TestAuth_Register_Validation(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name   string
		params model.RegisterParams
	}{
		{"missing email", model.RegisterParams{Password: "pw"}},
		{"missing password", model.RegisterParams{Email: "a@b.com"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, _ := newAuthUnderTest(t)

			_, err := svc.Register(ctx, tt.params)
			assert.True(t, apperrors.IsKind(err, apperrors.KindBadRequest))
		})
	}
}

func TestAuth_Register_PasswordTooLong(t *testing.T) {
	ctx := context.Background()
	long := strings.Repeat("x", 80)

	users := servermocks.NewUserStore(t)
	users.On("GetByEmail", ctx, "a@b.com").Return(model.User{}, model.ErrNotFound).Once()
	svc := NewAuth(users, password.NewBcryptHasher(bcrypt.MinCost), servermocks.NewSessionIssuer(t), testutil.MakeNoopLogger())

	_, err := svc.Register(ctx, model.RegisterParams{Email: "a@b.com", Password: long})
	require.Error(t, err)
	assert.True(t, apperrors.IsKind(err, apperrors.KindBadRequest))
	assert.Equal(t, http.StatusBadRequest, apperrors.From(err).HTTPStatus)
	users.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestAuth_Register_IssueFailureRemovesUser(t *testing.T) {
	ctx := context.Background()
	svc, deps := newAuthUnderTest(t)

	var created model.User
	deps.users.On("GetByEmail", ctx, "a@b.com").Return(model.User{}, model.ErrNotFound).Once()
	deps.hasher.On("Hash", "pw123456").Return("hashed", nil).Once()
	deps.users.On("Create", ctx, mock.AnythingOfType("model.User")).
		Return(func(_ context.Context, u model.User) (model.User, error) {
			created = u
			return u, nil
		}).Once()
	deps.tokens.On("Issue", ctx, mock.AnythingOfType("uuid.UUID")).Return(model.TokenPair{}, assert.AnError).Once()
	deps.users.On("Delete", mock.Anything, mock.MatchedBy(func(id uuid.UUID) bool { return id == created.ID })).
		Return(model.User{}, nil).Once()

	_, err := svc.Register(ctx, model.RegisterParams{Email: "a@b.com", Password: "pw123456"})
	assert.ErrorIs(t, err, assert.AnError)
	assert.Empty(t, deps.events.events)
}

func TestAuth_Register_EmailTaken(t *testing.T) {
	ctx := context.Background()

	t.Run("found by lookup", func(t *testing.T) {
		svc, deps := newAuthUnderTest(t)
		deps.users.On("GetByEmail", ctx, "a@b.com").Return(model.User{ID: uuid.New()}, nil).Once()

		_, err := svc.Register(ctx, model.RegisterParams{Email: "a@b.com", Password: "pw"})
		assert.True(t, apperrors.IsKind(err, apperrors.KindConflict))
	})

	t.Run("lost insert race", func(t *testing.T) {
		svc, deps := newAuthUnderTest(t)
		deps.users.On("GetByEmail", ctx, "a@b.com").Return(model.User{}, model.ErrNotFound).Once()
		deps.hasher.On("Hash", "pw").Return("hashed", nil).Once()
		deps.users.On("Create", ctx, mock.Anything).Return(model.User{}, model.ErrConflict).Once()

		_, err := svc.Register(ctx, model.RegisterParams{Email: "a@b.com", Password: "pw"})
		assert.True(t, apperrors.IsKind(err, apperrors.KindConflict))
	})
}

func TestAuth_Login(t *testing.T) {
	ctx := context.Background()
	user := model.User{ID: uuid.New(), Email: "a@b.com", PasswordHash: "hashed"}
	pair := model.TokenPair{AccessToken: "access", RefreshToken: "refresh"}

	t.Run("success", func(t *testing.T) {
		svc, deps := newAuthUnderTest(t)
		deps.users.On("GetByEmail", ctx, user.Email).Return(user, nil).Once()
		deps.hasher.On("Verify", "pw", "hashed").Return(true).Once()
		deps.tokens.On("Issue", ctx, user.ID).Return(pair, nil).Once()

		session, err := svc.Login(ctx, user.Email, "pw")
		require.NoError(t, err)
		assert.Equal(t, user.ID, session.UserID)
		assert.Equal(t, pair, session.TokenPair)
		assert.Equal(t, []string{metrics.EventLogin}, deps.events.events)
	})

	t.Run("wrong password", func(t *testing.T) {
		svc, deps := newAuthUnderTest(t)
		deps.users.On("GetByEmail", ctx, user.Email).Return(user, nil).Once()
		deps.hasher.On("Verify", "nope", "hashed").Return(false).Once()

		_, err := svc.Login(ctx, user.Email, "nope")
		require.Error(t, err)
		assert.Equal(t, apperrors.NewErrInvalidCredentials().Message, apperrors.From(err).Message)
	})

	t.Run("unknown email gives the same error", func(t *testing.T) {
		svc, deps := newAuthUnderTest(t)
		deps.users.On("GetByEmail", ctx, "ghost@b.com").Return(model.User{}, model.ErrNotFound).Once()
		deps.hasher.On("Hash", mock.Anything).Return("placeholder", nil).Once()
		deps.hasher.On("Verify", "pw", "placeholder").Return(false).Once()

		_, err := svc.Login(ctx, "ghost@b.com", "pw")
		require.Error(t, err)
		assert.Equal(t, apperrors.NewErrInvalidCredentials().Message, apperrors.From(err).Message)
		assert.Equal(t, []string{metrics.EventLoginFailed}, deps.events.events)
	})

	t.Run("storage failure", func(t *testing.T) {
		svc, deps := newAuthUnderTest(t)
		deps.users.On("GetByEmail", ctx, user.Email).Return(model.User{}, assert.AnError).Once()

		_, err := svc.Login(ctx, user.Email, "pw")
		assert.ErrorIs(t, err, assert.AnError)
	})

	t.Run("missing fields", func(t *testing.T) {
		svc, _ := newAuthUnderTest(t)

		_, err := svc.Login(ctx, "", "pw")
		assert.True(t, apperrors.IsKind(err, apperrors.KindBadRequest))
		_, err = svc.Login(ctx, user.Email, "")
		assert.True(t, apperrors.IsKind(err, apperrors.KindBadRequest))
	})
}

func TestAuth_ChangePassword(t *testing.T) {
	ctx := context.Background()
	user := model.User{ID: uuid.New(), Email: "a@b.com", PasswordHash: "old-hash"}

	t.Run("success keeps sessions", func(t *testing.T) {
		svc, deps := newAuthUnderTest(t)
		deps.users.On("GetByID", ctx, user.ID).Return(user, nil).Once()
		deps.hasher.On("Verify", "old", "old-hash").Return(true).Once()
		deps.hasher.On("Hash", "new").Return("new-hash", nil).Once()
		deps.users.On("UpdatePassword", ctx, user.ID, "new-hash").Return(nil).Once()

		require.NoError(t, svc.ChangePassword(ctx, user.ID, "old", "new"))
		deps.tokens.AssertNotCalled(t, "RevokeAllForUser", mock.Anything, mock.Anything)
	})

	t.Run("success revokes sessions when enabled", func(t *testing.T) {
		svc, deps := newAuthUnderTest(t, WithSessionRevocationOnPasswordChange(true))
		deps.users.On("GetByID", ctx, user.ID).Return(user, nil).Once()
		deps.hasher.On("Verify", "old", "old-hash").Return(true).Once()
		deps.hasher.On("Hash", "new").Return("new-hash", nil).Once()
		deps.users.On("UpdatePassword", ctx, user.ID, "new-hash").Return(nil).Once()
		deps.tokens.On("RevokeAllForUser", ctx, user.ID).Return(nil).Once()

		require.NoError(t, svc.ChangePassword(ctx, user.ID, "old", "new"))
	})

	t.Run("wrong current password", func(t *testing.T) {
		svc, deps := newAuthUnderTest(t)
		deps.users.On("GetByID", ctx, user.ID).Return(user, nil).Once()
		deps.hasher.On("Verify", "guess", "old-hash").Return(false).Once()

		err := svc.ChangePassword(ctx, user.ID, "guess", "new")
		assert.True(t, apperrors.IsKind(err, apperrors.KindUnauthorized))
	})

	t.Run("unknown user", func(t *testing.T) {
		svc, deps := newAuthUnderTest(t)
		deps.users.On("GetByID", ctx, user.ID).Return(model.User{}, model.ErrNotFound).Once()

		err := svc.ChangePassword(ctx, user.ID, "old", "new")
		assert.True(t, apperrors.IsKind(err, apperrors.KindNotFound))
	})

	t.Run("new password too long", func(t *testing.T) {
		long := strings.Repeat("x", 80)
		users := servermocks.NewUserStore(t)
		hasher := password.NewBcryptHasher(bcrypt.MinCost)
		current, err := hasher.Hash("old")
		require.NoError(t, err)
		users.On("GetByID", ctx, user.ID).Return(model.User{ID: user.ID, PasswordHash: current}, nil).Once()
		svc := NewAuth(users, hasher, servermocks.NewSessionIssuer(t), testutil.MakeNoopLogger())

		err = svc.ChangePassword(ctx, user.ID, "old", long)
		assert.True(t, apperrors.IsKind(err, apperrors.KindBadRequest))
		users.AssertNotCalled(t, "UpdatePassword", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("invalid input", func(t *testing.T) {
		svc, _ := newAuthUnderTest(t)

		for _, pair := range [][2]string{{"", "new"}, {"old", ""}, {"same", "same"}} {
			err := svc.ChangePassword(ctx, user.ID, pair[0], pair[1])
			assert.True(t, apperrors.IsKind(err, apperrors.KindBadRequest), pair)
		}
	})
}
