package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/dtroode/postboard-server/internal/apperrors"
	"github.com/dtroode/postboard-server/internal/logger"
	"github.com/dtroode/postboard-server/internal/metrics"
	"github.com/dtroode/postboard-server/internal/model"
)

// SessionIssuer issues and revokes refresh-token backed sessions.
type SessionIssuer interface {
	Issue(ctx context.Context, userID uuid.UUID) (model.TokenPair, error)
	RevokeAllForUser(ctx context.Context, userID uuid.UUID) error
}

// Auth registers users, checks credentials and changes passwords.
type Auth struct {
	userStore    model.UserStore
	hasher       model.PasswordHasher
	tokenService SessionIssuer
	events       AuthEventRecorder
	logger       *logger.Logger
	now          func() time.Time

	revokeOnPasswordChange bool

	dummyOnce sync.Once
	dummyHash string
}

// AuthOption configures Auth.
type AuthOption func(*Auth)

// WithSessionRevocationOnPasswordChange makes ChangePassword end every
// session of the user.
func WithSessionRevocationOnPasswordChange(enabled bool) AuthOption {
	return func(a *Auth) {
		a.revokeOnPasswordChange = enabled
	}
}

// WithAuthEvents sets the recorder for session lifecycle events.
func WithAuthEvents(events AuthEventRecorder) AuthOption {
	return func(a *Auth) {
		if events != nil {
			a.events = events
		}
	}
}

func NewAuth(
	userStore model.UserStore,
	hasher model.PasswordHasher,
	tokenService SessionIssuer,
	logger *logger.Logger,
	opts ...AuthOption,
) *Auth {
	a := &Auth{
		userStore:    userStore,
		hasher:       hasher,
		tokenService: tokenService,
		events:       noopRecorder{},
		logger:       logger,
		now:          time.Now,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Register creates an account and opens its first session.
func (a *Auth) Register(ctx context.Context, params model.RegisterParams) (model.Session, error) {
	if params.Email == "" {
		return model.Session{}, apperrors.NewErrMissingField("email")
	}
	if params.Password == "" {
		return model.Session{}, apperrors.NewErrMissingField("password")
	}

	a.logger.Debug("Auth service: registering user", "email", params.Email)

	_, err := a.userStore.GetByEmail(ctx, params.Email)
	if err == nil {
		a.logger.Info("Auth service: user already exists", "email", params.Email)
		return model.Session{}, apperrors.NewErrEmailIsTaken(params.Email)
	}
	if !errors.Is(err, model.ErrNotFound) {
		return model.Session{}, fmt.Errorf("failed to get user by email: %w", err)
	}

	passwordHash, err := a.hasher.Hash(params.Password)
	if errors.Is(err, model.ErrPasswordTooLong) {
		return model.Session{}, errPasswordTooLong()
	}
	if err != nil {
		return model.Session{}, fmt.Errorf("failed to hash password: %w", err)
	}

	now := a.now()
	user, err := a.userStore.Create(ctx, model.User{
		ID:           uuid.New(),
		Email:        params.Email,
		PasswordHash: passwordHash,
		UserName:     params.UserName,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if errors.Is(err, model.ErrConflict) {
		return model.Session{}, apperrors.NewErrEmailIsTaken(params.Email)
	}
	if err != nil {
		return model.Session{}, fmt.Errorf("failed to create user: %w", err)
	}

	pair, err := a.tokenService.Issue(ctx, user.ID)
	if err != nil {
		a.logger.Error("Auth service: failed to issue tokens for new user",
			"user_id", user.ID,
			"error", err.Error())
		if _, delErr := a.userStore.Delete(context.WithoutCancel(ctx), user.ID); delErr != nil {
			a.logger.Error("Auth service: failed to remove user after token issue failure",
				"user_id", user.ID,
				"error", delErr.Error())
		}
		return model.Session{}, err
	}

	a.events.RecordAuthEvent(metrics.EventRegister)
	a.logger.Info("Auth service: user registered", "user_id", user.ID)

	return model.Session{UserID: user.ID, TokenPair: pair}, nil
}

// Login opens a new session for valid credentials. Unknown email and wrong
// password are indistinguishable to the caller.
func (a *Auth) Login(ctx context.Context, email, password string) (model.Session, error) {
	if email == "" {
		return model.Session{}, apperrors.NewErrMissingField("email")
	}
	if password == "" {
		return model.Session{}, apperrors.NewErrMissingField("password")
	}

	user, err := a.userStore.GetByEmail(ctx, email)
	if errors.Is(err, model.ErrNotFound) {
		a.hasher.Verify(password, a.placeholderHash())
		a.events.RecordAuthEvent(metrics.EventLoginFailed)
		return model.Session{}, apperrors.NewErrInvalidCredentials()
	}
	if err != nil {
		return model.Session{}, fmt.Errorf("failed to get user by email: %w", err)
	}

	if !a.hasher.Verify(password, user.PasswordHash) {
		a.events.RecordAuthEvent(metrics.EventLoginFailed)
		a.logger.Info("Auth service: wrong password", "user_id", user.ID)
		return model.Session{}, apperrors.NewErrInvalidCredentials()
	}

	pair, err := a.tokenService.Issue(ctx, user.ID)
	if err != nil {
		return model.Session{}, err
	}

	a.events.RecordAuthEvent(metrics.EventLogin)
	a.logger.Info("Auth service: user logged in", "user_id", user.ID)

	return model.Session{UserID: user.ID, TokenPair: pair}, nil
}

// ChangePassword replaces the password of an authenticated user after
// checking the current one.
func (a *Auth) ChangePassword(ctx context.Context, userID uuid.UUID, currentPassword, newPassword string) error {
	if currentPassword == "" {
		return apperrors.NewErrMissingField("currentPassword")
	}
	if newPassword == "" {
		return apperrors.NewErrMissingField("newPassword")
	}
	if currentPassword == newPassword {
		return apperrors.NewErrBadRequest("new password must differ from the current one")
	}

	user, err := a.userStore.GetByID(ctx, userID)
	if errors.Is(err, model.ErrNotFound) {
		return apperrors.NewErrNotFound("user")
	}
	if err != nil {
		return fmt.Errorf("failed to get user: %w", err)
	}

	if !a.hasher.Verify(currentPassword, user.PasswordHash) {
		a.logger.Info("Auth service: current password mismatch", "user_id", userID)
		return apperrors.NewErrUnauthorized("current password is incorrect")
	}

	passwordHash, err := a.hasher.Hash(newPassword)
	if errors.Is(err, model.ErrPasswordTooLong) {
		return errPasswordTooLong()
	}
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	err = a.userStore.UpdatePassword(ctx, userID, passwordHash)
	if errors.Is(err, model.ErrNotFound) {
		return apperrors.NewErrNotFound("user")
	}
	if err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}

	if a.revokeOnPasswordChange {
		if err := a.tokenService.RevokeAllForUser(ctx, userID); err != nil {
			return err
		}
	}

	a.events.RecordAuthEvent(metrics.EventPasswordChanged)
	a.logger.Info("Auth service: password changed",
		"user_id", userID,
		"sessions_revoked", a.revokeOnPasswordChange)

	return nil
}

func errPasswordTooLong() error {
	return apperrors.NewErrBadRequest("password is too long")
}

// placeholderHash gives unknown-email logins a hash to verify against so
// that they take as long as real ones.
func (a *Auth) placeholderHash() string {
	a.dummyOnce.Do(func() {
		hash, err := a.hasher.Hash(uuid.NewString())
		if err != nil {
			a.logger.Warn("Auth service: failed to prepare placeholder hash", "error", err.Error())
			return
		}
		a.dummyHash = hash
	})
	return a.dummyHash
}
