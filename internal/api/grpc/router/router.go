package router

import (
	"context"

	"github.com/grpc-ecosystem/go-grpc-middleware/v2/interceptors"
	"github.com/grpc-ecosystem/go-grpc-middleware/v2/interceptors/auth"
	"github.com/grpc-ecosystem/go-grpc-middleware/v2/interceptors/recovery"
	"github.com/grpc-ecosystem/go-grpc-middleware/v2/interceptors/selector"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/dtroode/postboard-server/internal/api/grpc/authv1"
	"github.com/dtroode/postboard-server/internal/api/grpc/codec"
	"github.com/dtroode/postboard-server/internal/api/grpc/handler"
	"github.com/dtroode/postboard-server/internal/api/grpc/middleware"
	"github.com/dtroode/postboard-server/internal/logger"
	"github.com/dtroode/postboard-server/internal/model"
	"github.com/dtroode/postboard-server/internal/service"
)

var (
	_ handler.AuthService     = (*service.Auth)(nil)
	_ handler.SessionService  = (*service.TokenService)(nil)
	_ middleware.TokenService = (*service.TokenService)(nil)
)

// Services groups what the gRPC surface delegates to.
type Services struct {
	Auth     handler.AuthService
	Sessions handler.SessionService
	Tokens   middleware.TokenService
}

// Router represents a gRPC router for the auth service.
// It manages gRPC service registration and interceptor configuration.
type Router struct {
	services       Services
	observer       middleware.RequestObserver
	contextManager model.ContextManager
	logger         *logger.Logger
}

// New creates new gRPC Router instance.
//
// Parameters:
//   - services: The auth and session services
//   - observer: Optional request metrics sink, may be nil
//   - contextManager: Stores the authenticated user ID in the call context
//   - logger: The logger for request logging
//
// Returns a pointer to the newly created Router instance.
func New(
	services Services,
	observer middleware.RequestObserver,
	contextManager model.ContextManager,
	logger *logger.Logger,
) *Router {
	return &Router{
		services:       services,
		observer:       observer,
		contextManager: contextManager,
		logger:         logger,
	}
}

// requiresAuth matches the methods that need a bearer access token.
func requiresAuth(_ context.Context, c interceptors.CallMeta) bool {
	return c.FullMethod() == authv1.Auth_ChangePassword_FullMethodName
}

// Register registers all gRPC services and interceptors.
//
// Returns the configured gRPC server instance.
func (r *Router) Register() *grpc.Server {
	logging := middleware.NewLogging(r.logger, r.observer)
	authenticate := middleware.NewAuthenticate(r.services.Tokens, r.contextManager, r.logger)

	recoverPanic := recovery.WithRecoveryHandler(func(p any) error {
		r.logger.Error("gRPC handler panicked", "panic", p)
		return status.Error(codes.Internal, "internal server error")
	})

	s := grpc.NewServer(
		grpc.ForceServerCodec(codec.JSON{}),
		grpc.ChainUnaryInterceptor(
			logging.HandleGRPC,
			recovery.UnaryServerInterceptor(recoverPanic),
			selector.UnaryServerInterceptor(
				auth.UnaryServerInterceptor(authenticate.AuthFunc),
				selector.MatchFunc(requiresAuth),
			),
		),
	)
	r.registerAuthRoutes(s)

	return s
}

func (r *Router) registerAuthRoutes(server *grpc.Server) {
	authHandler := handler.NewAuth(r.services.Auth, r.services.Sessions, r.contextManager, r.logger)
	authv1.RegisterAuthServer(server, authHandler)
}
