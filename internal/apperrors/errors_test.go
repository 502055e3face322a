package apperrors

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"google.golang.org/grpc/codes"
)

func TestConstructors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		err        *APIError
		kind       Kind
		httpStatus int
		grpcCode   codes.Code
	}{
		{"bad request", NewErrMissingField("email"), KindBadRequest, http.StatusBadRequest, codes.InvalidArgument},
		{"credentials", NewErrInvalidCredentials(), KindUnauthorized, http.StatusUnauthorized, codes.Unauthenticated},
		{"refresh", NewErrInvalidRefreshToken(), KindUnauthorized, http.StatusUnauthorized, codes.Unauthenticated},
		{"forbidden", NewErrForbidden("nope"), KindForbidden, http.StatusForbidden, codes.PermissionDenied},
		{"not found", NewErrNotFound("post"), KindNotFound, http.StatusNotFound, codes.NotFound},
		{"conflict", NewErrEmailIsTaken("a@b.c"), KindConflict, http.StatusConflict, codes.AlreadyExists},
		{"internal", NewErrInternalServerError(assert.AnError), KindInternal, http.StatusInternalServerError, codes.Internal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.kind, tt.err.Kind)
			assert.Equal(t, tt.httpStatus, tt.err.HTTPStatus)
			assert.Equal(t, tt.grpcCode, tt.err.GRPCCode)
			assert.NotEmpty(t, tt.err.Message)
		})
	}
}

func TestFrom(t *testing.T) {
	t.Parallel()

	notFound := NewErrNotFound("comment")
	wrapped := fmt.Errorf("handler: %w", notFound)

	assert.Same(t, notFound, From(wrapped))
	assert.True(t, IsKind(wrapped, KindNotFound))

	internal := From(assert.AnError)
	assert.Equal(t, KindInternal, internal.Kind)
	assert.ErrorIs(t, internal, assert.AnError)
	assert.Equal(t, "internal server error", internal.Message)
}
