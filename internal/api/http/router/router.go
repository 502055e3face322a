package router

import (
	"net/http"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"github.com/dtroode/postboard-server/internal/api/http/handler"
	"github.com/dtroode/postboard-server/internal/api/http/middleware"
	"github.com/dtroode/postboard-server/internal/logger"
	"github.com/dtroode/postboard-server/internal/model"
	"github.com/dtroode/postboard-server/internal/service"
)

// mediaBodyLimit leaves room for multipart framing around the largest image.
const mediaBodyLimit = "11M"

// Services groups what the HTTP surface delegates to. Media is optional and
// its routes are not registered when nil.
type Services struct {
	Auth     handler.AuthService
	Sessions handler.SessionService
	Tokens   middleware.TokenService
	Posts    handler.PostService
	Comments handler.CommentService
	Users    handler.UserService
	Media    handler.MediaService
}

// Observability carries the metrics endpoint and readiness dependencies.
type Observability struct {
	Requests     middleware.RequestObserver
	Metrics      http.Handler
	Dependencies map[string]model.Pinger
}

// Router builds the echo instance serving the REST API.
type Router struct {
	services       Services
	observability  Observability
	contextManager model.ContextManager
	logger         *logger.Logger
}

// New creates new HTTP Router instance.
func New(services Services, observability Observability, contextManager model.ContextManager, logger *logger.Logger) *Router {
	return &Router{
		services:       services,
		observability:  observability,
		contextManager: contextManager,
		logger:         logger,
	}
}

// Register wires middleware and every route.
func (r *Router) Register() *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = handler.ErrorHandler(r.logger)

	logging := middleware.NewLogging(r.logger)
	authenticate := middleware.NewAuthenticate(r.services.Tokens, r.contextManager, r.logger)

	e.Use(
		echomw.Recover(),
		middleware.RequestID(),
		logging.Handle,
	)
	if r.observability.Requests != nil {
		e.Use(middleware.Metrics(r.observability.Requests))
	}

	r.registerHealthRoutes(e)
	r.registerAuthRoutes(e, authenticate)
	r.registerPostRoutes(e, authenticate)
	r.registerCommentRoutes(e, authenticate)
	r.registerUserRoutes(e, authenticate)
	r.registerMediaRoutes(e, authenticate)

	return e
}

func (r *Router) registerHealthRoutes(e *echo.Echo) {
	health := handler.NewHealth(r.observability.Dependencies, r.logger)
	e.GET("/healthz", health.Live)
	e.GET("/readyz", health.Ready)

	if r.observability.Metrics != nil {
		e.GET("/metrics", echo.WrapHandler(r.observability.Metrics))
	}
}

func (r *Router) registerAuthRoutes(e *echo.Echo, authenticate *middleware.Authenticate) {
	h := handler.NewAuth(r.services.Auth, r.services.Sessions, r.contextManager, r.logger)

	g := e.Group("/auth")
	g.POST("/register", h.Register)
	g.POST("/login", h.Login)
	g.POST("/refresh", h.Refresh)
	g.POST("/logout", h.Logout)
	g.POST("/changePassword", h.ChangePassword, authenticate.Handle)
}

func (r *Router) registerPostRoutes(e *echo.Echo, authenticate *middleware.Authenticate) {
	h := handler.NewPost(r.services.Posts, r.contextManager, r.logger)

	g := e.Group("/post")
	g.GET("", h.List)
	g.GET("/:id", h.Get)
	g.POST("", h.Create, authenticate.Handle)
	g.PUT("/:id", h.Update, authenticate.Handle)
	g.DELETE("/:id", h.Delete, authenticate.Handle)
}

func (r *Router) registerCommentRoutes(e *echo.Echo, authenticate *middleware.Authenticate) {
	h := handler.NewComment(r.services.Comments, r.contextManager, r.logger)

	g := e.Group("/comment")
	g.GET("", h.List)
	g.GET("/:id", h.Get)
	g.POST("", h.Create, authenticate.Handle)
	g.PUT("/:id", h.Update, authenticate.Handle)
	g.DELETE("/:id", h.Delete, authenticate.Handle)
}

func (r *Router) registerUserRoutes(e *echo.Echo, authenticate *middleware.Authenticate) {
	h := handler.NewUser(r.services.Users, r.contextManager, r.logger)

	g := e.Group("/user")
	g.GET("", h.List)
	g.GET("/me", h.Me, authenticate.Handle)
	g.GET("/:id", h.Get)
	g.PUT("/:id", h.Update, authenticate.Handle)
	g.DELETE("/:id", h.Delete, authenticate.Handle)
}

func (r *Router) registerMediaRoutes(e *echo.Echo, authenticate *middleware.Authenticate) {
	if r.services.Media == nil {
		return
	}
	h := handler.NewMedia(r.services.Media, r.contextManager, r.logger)

	g := e.Group("/media")
	g.POST("", h.Upload, echomw.BodyLimit(mediaBodyLimit), authenticate.Handle)
	g.GET("/*", h.Download)
	g.DELETE("/*", h.Delete, authenticate.Handle)
}

// compile-time checks that the services satisfy the handler contracts.
var (
	_ handler.AuthService    = (*service.Auth)(nil)
	_ handler.SessionService = (*service.TokenService)(nil)
	_ handler.PostService    = (*service.Posts)(nil)
	_ handler.CommentService = (*service.Comments)(nil)
	_ handler.UserService    = (*service.Users)(nil)
	_ handler.MediaService   = (*service.Media)(nil)
)
