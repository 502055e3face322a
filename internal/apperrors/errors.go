// Package apperrors holds the error taxonomy shared by services and
// transports. Every APIError carries both the HTTP status and the gRPC code
// it maps to, so handlers never translate error kinds on their own.
package apperrors

import (
	"errors"
	"fmt"
	"net/http"

	"google.golang.org/grpc/codes"
)

// Kind classifies an APIError.
type Kind string

const (
	KindBadRequest   Kind = "bad_request"
	KindUnauthorized Kind = "unauthorized"
	KindForbidden    Kind = "forbidden"
	KindNotFound     Kind = "not_found"
	KindConflict     Kind = "conflict"
	KindInternal     Kind = "internal"
)

// APIError is an error that is safe to show to clients.
type APIError struct {
	Kind       Kind
	Message    string
	HTTPStatus int
	GRPCCode   codes.Code
	Err        error
}

func (e *APIError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *APIError) Unwrap() error {
	return e.Err
}

func newError(kind Kind, message string, err error) *APIError {
	apiErr := &APIError{Kind: kind, Message: message, Err: err}
	switch kind {
	case KindBadRequest:
		apiErr.HTTPStatus, apiErr.GRPCCode = http.StatusBadRequest, codes.InvalidArgument
	case KindUnauthorized:
		apiErr.HTTPStatus, apiErr.GRPCCode = http.StatusUnauthorized, codes.Unauthenticated
	case KindForbidden:
		apiErr.HTTPStatus, apiErr.GRPCCode = http.StatusForbidden, codes.PermissionDenied
	case KindNotFound:
		apiErr.HTTPStatus, apiErr.GRPCCode = http.StatusNotFound, codes.NotFound
	case KindConflict:
		apiErr.HTTPStatus, apiErr.GRPCCode = http.StatusConflict, codes.AlreadyExists
	default:
		apiErr.HTTPStatus, apiErr.GRPCCode = http.StatusInternalServerError, codes.Internal
	}
	return apiErr
}

// From returns err as an APIError, wrapping unknown errors as internal.
func From(err error) *APIError {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr
	}
	return NewErrInternalServerError(err)
}

// IsKind reports whether err is an APIError of the given kind.
func IsKind(err error, kind Kind) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Kind == kind
}

func NewErrBadRequest(message string) *APIError {
	return newError(KindBadRequest, message, nil)
}

func NewErrMissingField(field string) *APIError {
	return newError(KindBadRequest, fmt.Sprintf("%s is required", field), nil)
}

func NewErrUnauthorized(message string) *APIError {
	return newError(KindUnauthorized, message, nil)
}

func NewErrInvalidCredentials() *APIError {
	return newError(KindUnauthorized, "wrong email or password", nil)
}

func NewErrMissingAuthorizationToken() *APIError {
	return newError(KindUnauthorized, "missing authorization token", nil)
}

func NewErrInvalidAuthorizationToken() *APIError {
	return newError(KindUnauthorized, "invalid authorization token", nil)
}

func NewErrInvalidRefreshToken() *APIError {
	return newError(KindUnauthorized, "invalid refresh token", nil)
}

func NewErrForbidden(message string) *APIError {
	return newError(KindForbidden, message, nil)
}

func NewErrNotFound(what string) *APIError {
	return newError(KindNotFound, fmt.Sprintf("%s not found", what), nil)
}

func NewErrEmailIsTaken(email string) *APIError {
	return newError(KindConflict, fmt.Sprintf("email %s is already registered", email), nil)
}

func NewErrInternalServerError(err error) *APIError {
	return newError(KindInternal, "internal server error", err)
}
