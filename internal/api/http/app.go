package http

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/dodream/blog-api/internal/api/http/handlers"
	"github.com/dodream/blog-api/internal/auth"
	"github.com/dodream/blog-api/internal/config"
	"github.com/dodream/blog-api/internal/observability"
	"github.com/dodream/blog-api/internal/service"
)

// AppDependencies holds everything NewApp needs to serve requests.
type AppDependencies struct {
	Config       *config.Config
	Logger       *zap.Logger
	Metrics      *observability.Metrics
	AuthService  *service.AuthService
	PostService  *service.PostService
	Dependencies map[string]handlers.Dependency
}

// NewApp builds the fiber application with middlewares and routes attached.
func NewApp(deps AppDependencies) *fiber.App {
	cfg := deps.Config
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	app := fiber.New(fiber.Config{
		AppName:               cfg.App.Name,
		DisableStartupMessage: true,
	})

	RegisterMiddlewares(app, logger, deps.Metrics, MiddlewareConfig{
		Timeout:     cfg.App.RequestTimeout(),
		CORSOrigins: cfg.App.CORSOrigins,
	})

	tokens := deps.AuthService.TokenManager()
	RegisterRoutes(app, RouteConfig{
		APIPrefix:      cfg.App.APIPrefix,
		Health:         handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, deps.Metrics, deps.Dependencies),
		Auth:           handlers.NewAuthHandler(deps.AuthService),
		Posts:          handlers.NewPostsHandler(deps.PostService),
		AccessGuard:    auth.NewAccessGuard(tokens, logger),
		RefreshGuard:   auth.NewRefreshGuard(tokens, logger),
		LoginRateLimit: cfg.Auth.LoginRateLimit,
	})
	return app
}
