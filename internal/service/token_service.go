package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/dtroode/postboard-server/internal/apperrors"
	"github.com/dtroode/postboard-server/internal/logger"
	"github.com/dtroode/postboard-server/internal/metrics"
	"github.com/dtroode/postboard-server/internal/model"
)

// AuthEventRecorder counts session lifecycle events.
type AuthEventRecorder interface {
	RecordAuthEvent(event string)
}

type noopRecorder struct{}

func (noopRecorder) RecordAuthEvent(string) {}

// UserFinder looks up the owner of a token.
type UserFinder interface {
	GetByID(ctx context.Context, id uuid.UUID) (model.User, error)
}

// TokenService provides high-level operations for issuing, refreshing,
// and revoking tokens. It composes the TokenManager and RefreshTokenStore.
//
// Only digests of refresh tokens are persisted. A refresh token is usable
// while its digest is in the owner's set; presenting a correctly signed token
// that is not in the set is treated as reuse of a stolen token and ends every
// session of that user.
type TokenService struct {
	manager model.TokenManager
	users   UserFinder
	store   model.RefreshTokenStore
	events  AuthEventRecorder
	logger  *logger.Logger
}

func NewTokenService(
	manager model.TokenManager,
	users UserFinder,
	store model.RefreshTokenStore,
	events AuthEventRecorder,
	logger *logger.Logger,
) *TokenService {
	if events == nil {
		events = noopRecorder{}
	}
	return &TokenService{manager: manager, users: users, store: store, events: events, logger: logger}
}

// Issue creates a token pair and registers the refresh token for userID.
func (s *TokenService) Issue(ctx context.Context, userID uuid.UUID) (model.TokenPair, error) {
	pair, err := s.generatePair(userID)
	if err != nil {
		return model.TokenPair{}, err
	}

	if err := s.store.AddRefreshToken(ctx, userID, digest(pair.RefreshToken)); err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return model.TokenPair{}, apperrors.NewErrNotFound("user")
		}
		return model.TokenPair{}, fmt.Errorf("persist refresh: %w", err)
	}

	return pair, nil
}

// Refresh exchanges a live refresh token for a new pair. The presented token
// is consumed in the same store operation that registers its successor, so
// concurrent refreshes of one token yield at most one new pair.
func (s *TokenService) Refresh(ctx context.Context, presentedRefresh string) (model.TokenPair, error) {
	if presentedRefresh == "" {
		return model.TokenPair{}, apperrors.NewErrMissingField("refreshToken")
	}

	userID, _, err := s.manager.ParseRefreshToken(presentedRefresh)
	if err != nil {
		s.logger.Debug("Token service: refresh token rejected", "error", err.Error())
		return model.TokenPair{}, apperrors.NewErrInvalidRefreshToken()
	}

	if err := s.ensureUserExists(ctx, userID); err != nil {
		return model.TokenPair{}, err
	}

	pair, err := s.generatePair(userID)
	if err != nil {
		return model.TokenPair{}, err
	}

	err = s.store.RotateRefreshToken(ctx, userID, digest(presentedRefresh), digest(pair.RefreshToken))
	if errors.Is(err, model.ErrTokenNotFound) {
		s.logger.Warn("Token service: refresh token reuse detected, revoking all sessions",
			"user_id", userID)
		s.events.RecordAuthEvent(metrics.EventRefreshReuse)

		if err := s.store.ClearRefreshTokens(ctx, userID); err != nil {
			return model.TokenPair{}, fmt.Errorf("revoke sessions after reuse: %w", err)
		}
		return model.TokenPair{}, apperrors.NewErrInvalidRefreshToken()
	}
	if err != nil {
		return model.TokenPair{}, fmt.Errorf("rotate refresh: %w", err)
	}

	s.events.RecordAuthEvent(metrics.EventRefresh)
	s.logger.Debug("Token service: refresh token rotated", "user_id", userID)

	return pair, nil
}

// RevokeByToken removes a refresh token from its owner's set. Revoking a
// token that is no longer live is not an error.
func (s *TokenService) RevokeByToken(ctx context.Context, presentedRefresh string) error {
	if presentedRefresh == "" {
		return apperrors.NewErrMissingField("refreshToken")
	}

	userID, _, err := s.manager.ParseRefreshToken(presentedRefresh)
	if err != nil {
		return apperrors.NewErrInvalidRefreshToken()
	}

	if err := s.ensureUserExists(ctx, userID); err != nil {
		return err
	}

	removed, err := s.store.RemoveRefreshToken(ctx, userID, digest(presentedRefresh))
	if err != nil {
		return fmt.Errorf("revoke refresh: %w", err)
	}

	s.events.RecordAuthEvent(metrics.EventLogout)
	s.logger.Debug("Token service: refresh token revoked", "user_id", userID, "was_live", removed)

	return nil
}

// RevokeAllForUser ends every session of userID.
func (s *TokenService) RevokeAllForUser(ctx context.Context, userID uuid.UUID) error {
	if err := s.store.ClearRefreshTokens(ctx, userID); err != nil {
		return fmt.Errorf("revoke all refresh: %w", err)
	}
	return nil
}

// GetUserID verifies an access token and returns its subject.
func (s *TokenService) GetUserID(_ context.Context, token string) (uuid.UUID, error) {
	userID, err := s.manager.ParseAccessToken(token)
	if err != nil {
		return uuid.Nil, apperrors.NewErrInvalidAuthorizationToken()
	}
	return userID, nil
}

func (s *TokenService) generatePair(userID uuid.UUID) (model.TokenPair, error) {
	access, err := s.manager.GenerateAccessToken(userID)
	if err != nil {
		return model.TokenPair{}, fmt.Errorf("issue access: %w", err)
	}

	refresh, _, err := s.manager.GenerateRefreshToken(userID)
	if err != nil {
		return model.TokenPair{}, fmt.Errorf("issue refresh: %w", err)
	}

	return model.TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}

func (s *TokenService) ensureUserExists(ctx context.Context, userID uuid.UUID) error {
	_, err := s.users.GetByID(ctx, userID)
	if errors.Is(err, model.ErrNotFound) {
		s.logger.Info("Token service: token subject no longer exists", "user_id", userID)
		return apperrors.NewErrInvalidRefreshToken()
	}
	if err != nil {
		return fmt.Errorf("get token owner: %w", err)
	}
	return nil
}

func digest(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}
