package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"

	"github.com/dodream/blog-api/internal/api/http/handlers"
	"github.com/dodream/blog-api/internal/auth"
	apperrors "github.com/dodream/blog-api/pkg/util"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	APIPrefix      string
	Health         *handlers.HealthHandler
	Auth           *handlers.AuthHandler
	Posts          *handlers.PostsHandler
	AccessGuard    *auth.Guard
	RefreshGuard   *auth.Guard
	LoginRateLimit int
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)
	app.Get("/health/metrics", cfg.Health.Metrics)

	api := app.Group(cfg.APIPrefix)

	authGroup := api.Group("/auth")
	authGroup.Post("/login", loginLimiter(cfg.LoginRateLimit), cfg.Auth.Login)
	authGroup.Post("/logout", cfg.Auth.Logout)
	authGroup.Post("/refresh", cfg.RefreshGuard.Handle, cfg.Auth.Refresh)
	authGroup.Get("/me", cfg.AccessGuard.Handle, cfg.Auth.Me)

	posts := api.Group("/posts")
	posts.Get("/", cfg.Posts.ListPosts)
	posts.Get("/categories", cfg.Posts.ListCategories)
	posts.Get("/tags", cfg.Posts.ListTags)
	posts.Get("/slug/:slug", cfg.Posts.GetPostBySlug)
	posts.Get("/:id", cfg.Posts.GetPost)
	posts.Post("/", cfg.AccessGuard.Handle, cfg.Posts.CreatePost)
	posts.Patch("/:id", cfg.AccessGuard.Handle, cfg.Posts.UpdatePost)
	posts.Delete("/:id", cfg.AccessGuard.Handle, cfg.Posts.DeletePost)
}

// loginLimiter caps login attempts per client IP per minute; limit <= 0 disables it.
func loginLimiter(limit int) fiber.Handler {
	if limit <= 0 {
		return func(c *fiber.Ctx) error { return c.Next() }
	}
	return limiter.New(limiter.Config{
		Max:        limit,
		Expiration: time.Minute,
		LimitReached: func(c *fiber.Ctx) error {
			return apperrors.NewTooManyRequests("too many login attempts, try again later")
		},
	})
}
