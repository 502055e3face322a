package model

import "errors"

var (
	ErrNotFound      = errors.New("not found")
	ErrConflict      = errors.New("already exists")
	ErrTokenNotFound = errors.New("refresh token not found")

	// ErrPasswordTooLong is returned by hashers that cap the input length.
	ErrPasswordTooLong = errors.New("password is too long")
)
