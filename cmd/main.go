package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	apicontext "github.com/dtroode/postboard-server/internal/api/context"
	grpcrouter "github.com/dtroode/postboard-server/internal/api/grpc/router"
	grpcserver "github.com/dtroode/postboard-server/internal/api/grpc/server"
	httprouter "github.com/dtroode/postboard-server/internal/api/http/router"
	httpserver "github.com/dtroode/postboard-server/internal/api/http/server"
	"github.com/dtroode/postboard-server/internal/config"
	"github.com/dtroode/postboard-server/internal/logger"
	"github.com/dtroode/postboard-server/internal/metrics"
	"github.com/dtroode/postboard-server/internal/model"
	"github.com/dtroode/postboard-server/internal/password"
	"github.com/dtroode/postboard-server/internal/repository/memory"
	"github.com/dtroode/postboard-server/internal/repository/mongodb"
	"github.com/dtroode/postboard-server/internal/repository/postgres"
	"github.com/dtroode/postboard-server/internal/server"
	"github.com/dtroode/postboard-server/internal/service"
	storage "github.com/dtroode/postboard-server/internal/storage/minio"
	"github.com/dtroode/postboard-server/internal/token"
)

var (
	buildVersion = "N/A" // set by ldflags
	buildDate    = "N/A" // set by ldflags
	buildCommit  = "N/A" // set by ldflags
)

// userRepository is what both the auth flow and the token service need from
// the user store.
type userRepository interface {
	model.UserStore
	model.RefreshTokenStore
}

type stores struct {
	users    userRepository
	posts    model.PostStore
	comments model.CommentStore
	pingers  map[string]model.Pinger
	close    func(ctx context.Context) error
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT, os.Interrupt)
	defer stop()

	cfg, err := config.NewConfig()
	if err != nil {
		log.Fatalf("failed to parse config: %v", err)
	}
	logger := logger.New(cfg.LogLevel, cfg.LogFormat)

	st, err := openStores(ctx, cfg)
	if err != nil {
		logger.Fatal("failed to initialize storage", "driver", cfg.Database.Driver, "error", err)
	}
	logger.Info("storage initialized", "driver", cfg.Database.Driver)

	appMetrics := metrics.New()

	tokenManager := token.NewJWT(cfg.JWT.Secret, cfg.JWT.AccessTTL(), cfg.JWT.RefreshTTL())
	tokenService := service.NewTokenService(tokenManager, st.users, st.users, appMetrics, logger)
	authService := service.NewAuth(st.users, newHasher(cfg.Password), tokenService, logger,
		service.WithSessionRevocationOnPasswordChange(cfg.Auth.RevokeSessionsOnPasswordChange),
		service.WithAuthEvents(appMetrics),
	)
	ctxMgr := apicontext.NewManager()

	services := httprouter.Services{
		Auth:     authService,
		Sessions: tokenService,
		Tokens:   tokenService,
		Posts:    service.NewPosts(st.posts, logger),
		Comments: service.NewComments(st.comments, logger),
		Users:    service.NewUsers(st.users, logger),
	}

	if cfg.Storage.Enabled {
		mediaStorage, err := storage.Dial(ctx, storage.Options{
			Endpoint:  cfg.Storage.Endpoint,
			AccessKey: cfg.Storage.AccessKey,
			SecretKey: cfg.Storage.SecretKey,
			Bucket:    cfg.Storage.Bucket,
			UseSSL:    cfg.Storage.UseSSL,
		})
		if err != nil {
			logger.Fatal("failed to initialize media storage", "error", err)
		}
		services.Media = service.NewMedia(mediaStorage, cfg.Storage.PublicURL, logger)
		st.pingers["minio"] = mediaStorage
	}

	httpRouter := httprouter.New(services, httprouter.Observability{
		Requests:     appMetrics,
		Metrics:      appMetrics.Handler(),
		Dependencies: st.pingers,
	}, ctxMgr, logger)

	type listener struct {
		server model.Server
		layer  model.SecurityLayer
	}

	servers := []listener{{
		server: httpserver.NewHTTPServer(httpRouter.Register(), fmt.Sprintf(":%s", cfg.HTTP.Port)),
		layer:  securityLayer(cfg.HTTP.EnableHTTPS, cfg.HTTP.CertFileName, cfg.HTTP.PrivateKeyFileName),
	}}

	if cfg.GRPC.Enabled {
		grpcRouter := grpcrouter.New(grpcrouter.Services{
			Auth:     authService,
			Sessions: tokenService,
			Tokens:   tokenService,
		}, appMetrics, ctxMgr, logger)

		servers = append(servers, listener{
			server: grpcserver.NewGRPCServer(grpcRouter.Register(), fmt.Sprintf(":%s", cfg.GRPC.Port)),
			layer:  securityLayer(cfg.GRPC.EnableHTTPS, cfg.GRPC.CertFileName, cfg.GRPC.PrivateKeyFileName),
		})
	}

	var wg sync.WaitGroup
	for _, l := range servers {
		wg.Add(1)
		go func(s model.Server, sl model.SecurityLayer) {
			defer wg.Done()
			logger.Info("Starting server on", "address", s.Address())
			if err := s.Start(sl); err != nil {
				logger.Error("failed to start server", "error", err, "address", s.Address())
				stop()
			}
		}(l.server, l.layer)
	}

	logAppVersion()

	<-ctx.Done()
	logger.Info("received interruption signal, shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	for _, l := range servers {
		if err := l.server.Stop(shutdownCtx); err != nil {
			logger.Error("error during server shutdown", "error", err, "address", l.server.Address())
		}
	}

	wg.Wait()

	if err := st.close(shutdownCtx); err != nil {
		logger.Error("error closing storage", "error", err)
	}

	logger.Info("shutdown complete")
}

func openStores(ctx context.Context, cfg *config.Config) (*stores, error) {
	switch cfg.Database.Driver {
	case config.DriverPostgres:
		db, err := postgres.NewConnection(ctx, cfg.Database.DSN,
			postgres.WithMaxConns(cfg.Database.MaxConns),
			postgres.WithMaxConnIdleTime(cfg.Database.MaxConnIdleTime),
		)
		if err != nil {
			return nil, err
		}
		return &stores{
			users:    postgres.NewUserRepository(db),
			posts:    postgres.NewPostRepository(db),
			comments: postgres.NewCommentRepository(db),
			pingers:  map[string]model.Pinger{"postgres": db},
			close:    func(context.Context) error { return db.Close() },
		}, nil
	case config.DriverMongo:
		client, err := mongodb.NewClient(ctx, cfg.Mongo.URI, cfg.Mongo.Database)
		if err != nil {
			return nil, err
		}
		return &stores{
			users:    mongodb.NewUserRepository(client),
			posts:    mongodb.NewPostRepository(client),
			comments: mongodb.NewCommentRepository(client),
			pingers:  map[string]model.Pinger{"mongo": client},
			close:    client.Close,
		}, nil
	default:
		users := memory.NewUserRepository()
		return &stores{
			users:    users,
			posts:    memory.NewPostRepository(),
			comments: memory.NewCommentRepository(),
			pingers:  map[string]model.Pinger{"memory": users},
			close:    func(context.Context) error { return nil },
		}, nil
	}
}

func newHasher(cfg config.Password) *password.Hasher {
	if cfg.Algorithm == config.AlgorithmArgon2id {
		return password.NewArgon2idHasher(nil)
	}
	return password.NewBcryptHasher(cfg.BcryptCost)
}

func securityLayer(enableHTTPS bool, certFileName, privateKeyFileName string) model.SecurityLayer {
	if enableHTTPS {
		return server.NewTLSListener(certFileName, privateKeyFileName)
	}
	return server.NewPlainListener()
}

func logAppVersion() {
	tmpl := `
Build version: %s
Build date: %s
Build commit: %s
`

	fmt.Printf(tmpl, buildVersion, buildDate, buildCommit)
}
