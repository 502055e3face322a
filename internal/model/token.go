package model

import "github.com/google/uuid"

// TokenManager generates and validates access/refresh tokens.
type TokenManager interface {
	GenerateAccessToken(userID uuid.UUID) (string, error)
	GenerateRefreshToken(userID uuid.UUID) (token string, jti string, err error)
	ParseAccessToken(token string) (uuid.UUID, error)
	ParseRefreshToken(token string) (userID uuid.UUID, jti string, err error)
}

// TokenPair is issued on register, login and refresh.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
}

// Session is the result of a successful register or login.
type Session struct {
	UserID uuid.UUID
	TokenPair
}

// RegisterParams holds the fields accepted on registration.
type RegisterParams struct {
	Email    string
	Password string
	UserName string
}

// PasswordHasher produces and checks salted password hashes.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Verify(password, hash string) bool
}
