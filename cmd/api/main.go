package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	httptransport "github.com/dodream/blog-api/internal/api/http"
	"github.com/dodream/blog-api/internal/api/http/handlers"
	"github.com/dodream/blog-api/internal/config"
	"github.com/dodream/blog-api/internal/events"
	"github.com/dodream/blog-api/internal/observability"
	"github.com/dodream/blog-api/internal/persistence"
	"github.com/dodream/blog-api/internal/repository"
	"github.com/dodream/blog-api/internal/service"
	"github.com/dodream/blog-api/internal/worker"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
	if err != nil {
		logger.Fatal("failed to connect postgres", zap.Error(err))
	}
	defer pg.Close()

	if cfg.Postgres.RunMigrations {
		if err := persistence.RunMigrations(ctx, pg.PoolHandle(), logger); err != nil {
			logger.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	redis := persistence.NewRedis(cfg.Redis, logger)
	defer redis.Close()

	var postRepo repository.PostRepository
	if pg.Enabled() {
		postRepo = repository.NewPostRepository(pg.PoolHandle())
	} else {
		postRepo = repository.NewMemoryPostRepository()
	}

	postCache := repository.NewNoopPostCache()
	if redis.Enabled() {
		postCache = repository.NewRedisPostCache(redis.Client, cfg.Redis.CacheTTL)
	}

	dispatcher := events.NewInMemoryDispatcher()
	worker.StartPostEventsWorker(service.NewPostEventListener(dispatcher, postCache, logger))

	authService, err := service.NewAuthService(*cfg, logger)
	if err != nil {
		logger.Fatal("failed to init auth service", zap.Error(err))
	}
	postService := service.NewPostService(service.PostDependencies{
		PostRepo:   postRepo,
		Cache:      postCache,
		Dispatcher: dispatcher,
		Logger:     logger,
	})

	app := httptransport.NewApp(httptransport.AppDependencies{
		Config:      cfg,
		Logger:      logger,
		Metrics:     observability.NewMetrics(),
		AuthService: authService,
		PostService: postService,
		Dependencies: map[string]handlers.Dependency{
			"postgres": pg,
			"redis":    redis,
		},
	})

	go func() {
		logger.Info("http server starting", zap.String("addr", cfg.App.Addr()), zap.String("prefix", cfg.App.APIPrefix))
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		logger.Warn("http shutdown", zap.Error(err))
	}
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
