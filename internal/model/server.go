package model

import (
	"context"
	"net"

	"github.com/google/uuid"
)

// SecurityLayer opens the listener a server accepts connections on.
type SecurityLayer interface {
	Listen(protocol, addr string) (net.Listener, error)
}

// Server is a network front end with a managed lifecycle.
type Server interface {
	Start(securityLayer SecurityLayer) error
	Stop(ctx context.Context) error
	Address() string
}

// ContextManager carries the authenticated user through a request context.
// Both transports write it after the access token check and handlers read it.
type ContextManager interface {
	SetUserIDToContext(ctx context.Context, userID uuid.UUID) context.Context
	GetUserIDFromContext(ctx context.Context) (uuid.UUID, bool)
}

// Pinger reports backend availability for readiness checks.
type Pinger interface {
	Ping(ctx context.Context) error
}
