package context

import (
	"context"

	"github.com/google/uuid"
)

// userIDKey is the context key under which the authenticated user ID is kept.
// The unexported type keeps other packages from reading or overwriting it.
type userIDKey struct{}

// Manager represents a request context manager for user ID operations.
// It is shared by the HTTP and gRPC transports.
type Manager struct{}

// NewManager creates a new context manager instance.
//
// Returns a pointer to the newly created Manager instance.
func NewManager() *Manager {
	return &Manager{}
}

// SetUserIDToContext stores the authenticated user ID in the context.
//
// Parameters:
//   - ctx: The request context
//   - userID: The user UUID resolved from the access token
//
// Returns a derived context carrying the user ID.
func (m *Manager) SetUserIDToContext(ctx context.Context, userID uuid.UUID) context.Context {
	return context.WithValue(ctx, userIDKey{}, userID)
}

// GetUserIDFromContext retrieves the user ID stored by SetUserIDToContext.
//
// Parameters:
//   - ctx: The request context
//
// Returns the user UUID and a boolean indicating if an identity was found.
func (m *Manager) GetUserIDFromContext(ctx context.Context) (uuid.UUID, bool) {
	userID, ok := ctx.Value(userIDKey{}).(uuid.UUID)
	if !ok || userID == uuid.Nil {
		return uuid.Nil, false
	}
	return userID, true
}
