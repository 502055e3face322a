package handler

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	apicontext "github.com/dtroode/postboard-server/internal/api/context"
	"github.com/dtroode/postboard-server/internal/api/grpc/authv1"
	"github.com/dtroode/postboard-server/internal/apperrors"
	"github.com/dtroode/postboard-server/internal/mocks"
	"github.com/dtroode/postboard-server/internal/model"
	"github.com/dtroode/postboard-server/internal/testutil"
)

type authFixture struct {
	auth     *mocks.AuthService
	sessions *mocks.SessionService
	handler  *Auth
}

func newAuthFixture(t *testing.T) authFixture {
	auth := mocks.NewAuthService(t)
	sessions := mocks.NewSessionService(t)
	return authFixture{
		auth:     auth,
		sessions: sessions,
		handler:  NewAuth(auth, sessions, apicontext.NewManager(), testutil.MakeNoopLogger()),
	}
}

func assertCode(t *testing.T, err error, want codes.Code) {
	t.Helper()
	st, ok := status.FromError(err)
	require.True(t, ok)
	assert.Equal(t, want, st.Code())
}

func TestAuth_Register(t *testing.T) {
	t.Parallel()

	f := newAuthFixture(t)
	userID := uuid.New()
	f.auth.On("Register", mock.Anything, model.RegisterParams{Email: "a@b.com", Password: "pw", UserName: "al"}).
		Return(model.Session{UserID: userID, TokenPair: model.TokenPair{AccessToken: "acc", RefreshToken: "ref"}}, nil)

	out, err := f.handler.Register(context.Background(), &authv1.RegisterRequest{Email: "a@b.com", Password: "pw", UserName: "al"})
	require.NoError(t, err)
	assert.Equal(t, "acc", out.Token)
	assert.Equal(t, "ref", out.RefreshToken)
	assert.Equal(t, userID.String(), out.UserID)
}

func TestAuth_Register_Conflict(t *testing.T) {
	t.Parallel()

	f := newAuthFixture(t)
	f.auth.On("Register", mock.Anything, mock.Anything).Return(model.Session{}, apperrors.NewErrEmailIsTaken("a@b.com"))

	out, err := f.handler.Register(context.Background(), &authv1.RegisterRequest{Email: "a@b.com", Password: "pw"})
	assert.Nil(t, out)
	assertCode(t, err, codes.AlreadyExists)
}

func TestAuth_Login(t *testing.T) {
	t.Parallel()

	f := newAuthFixture(t)
	f.auth.On("Login", mock.Anything, "a@b.com", "pw").
		Return(model.Session{UserID: uuid.New(), TokenPair: model.TokenPair{AccessToken: "acc", RefreshToken: "ref"}}, nil)

	out, err := f.handler.Login(context.Background(), &authv1.LoginRequest{Email: "a@b.com", Password: "pw"})
	require.NoError(t, err)
	assert.Equal(t, "acc", out.Token)
}

func TestAuth_Login_WrongPassword(t *testing.T) {
	t.Parallel()

	f := newAuthFixture(t)
	f.auth.On("Login", mock.Anything, "a@b.com", "bad").Return(model.Session{}, apperrors.NewErrInvalidCredentials())

	_, err := f.handler.Login(context.Background(), &authv1.LoginRequest{Email: "a@b.com", Password: "bad"})
	assertCode(t, err, codes.Unauthenticated)
}

func TestAuth_Refresh(t *testing.T) {
	t.Parallel()

	f := newAuthFixture(t)
	f.sessions.On("Refresh", mock.Anything, "old").Return(model.TokenPair{AccessToken: "acc2", RefreshToken: "ref2"}, nil)

	out, err := f.handler.Refresh(context.Background(), &authv1.RefreshTokenRequest{RefreshToken: "old"})
	require.NoError(t, err)
	assert.Equal(t, "acc2", out.Token)
	assert.Equal(t, "ref2", out.RefreshToken)
}

func TestAuth_Refresh_Reused(t *testing.T) {
	t.Parallel()

	f := newAuthFixture(t)
	f.sessions.On("Refresh", mock.Anything, "old").Return(model.TokenPair{}, apperrors.NewErrInvalidRefreshToken())

	_, err := f.handler.Refresh(context.Background(), &authv1.RefreshTokenRequest{RefreshToken: "old"})
	assertCode(t, err, codes.Unauthenticated)
}

func TestAuth_Logout(t *testing.T) {
	t.Parallel()

	f := newAuthFixture(t)
	f.sessions.On("RevokeByToken", mock.Anything, "ref").Return(nil)

	out, err := f.handler.Logout(context.Background(), &authv1.RefreshTokenRequest{RefreshToken: "ref"})
	require.NoError(t, err)
	assert.Equal(t, "User successfully logged out", out.Message)
}

func TestAuth_Logout_MissingToken(t *testing.T) {
	t.Parallel()

	f := newAuthFixture(t)
	f.sessions.On("RevokeByToken", mock.Anything, "").Return(apperrors.NewErrMissingField("refreshToken"))

	_, err := f.handler.Logout(context.Background(), &authv1.RefreshTokenRequest{})
	assertCode(t, err, codes.InvalidArgument)
}

func TestAuth_ChangePassword(t *testing.T) {
	t.Parallel()

	f := newAuthFixture(t)
	userID := uuid.New()
	ctx := apicontext.NewManager().SetUserIDToContext(context.Background(), userID)
	f.auth.On("ChangePassword", mock.Anything, userID, "old", "new").Return(nil)

	out, err := f.handler.ChangePassword(ctx, &authv1.ChangePasswordRequest{CurrentPassword: "old", NewPassword: "new"})
	require.NoError(t, err)
	assert.Equal(t, "Password changed successfully", out.Message)
}

func TestAuth_ChangePassword_Unauthenticated(t *testing.T) {
	t.Parallel()

	f := newAuthFixture(t)

	_, err := f.handler.ChangePassword(context.Background(), &authv1.ChangePasswordRequest{CurrentPassword: "old", NewPassword: "new"})
	assertCode(t, err, codes.Unauthenticated)
}
