// Package router defines how HTTP routes are registered for the API.
package router

import (
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/iliyamo/blog-platform/internal/config"
	"github.com/iliyamo/blog-platform/internal/handler"
	"github.com/iliyamo/blog-platform/internal/middleware"
)

// Register wires all application routes onto the provided Echo instance.
// The auth group is rate limited; the public post reads sit behind the
// Redis response cache; every authenticated route shares the single
// RequireAuth guard so the check order is enforced uniformly.  The rdb
// client may be nil, in which case caching and rate limiting degrade to
// passthrough.
func Register(e *echo.Echo, cfg config.Config, rdb *redis.Client,
	a *handler.AuthHandler, p *handler.PostHandler, pr *handler.ProfileHandler) {

	e.GET("/healthz", handler.Health)

	limiter := middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb)
	cacheCfg := config.LoadCacheConfig()
	cache := middleware.NewRedisCache(cacheCfg, rdb)
	p.PurgeCache = middleware.NewCachePurge(cacheCfg, rdb)
	optional := middleware.CookieAuth(cfg.JWTSecret)
	required := middleware.RequireAuth(cfg.JWTSecret)

	// Session endpoints. Register and login issue the cookie; logout only
	// clears it; verify reports the state of the presented token.
	authGroup := e.Group("/auth", limiter)
	authGroup.POST("/register", a.Register)
	authGroup.POST("/login", a.Login)
	authGroup.POST("/logout", a.Logout)
	authGroup.GET("/verify", a.Verify, required)

	// Post endpoints. Reads are public; /my-posts is registered alongside
	// the slug route, Echo always prefers the static segment.
	posts := e.Group("/posts")
	posts.GET("", p.List, optional, cache)
	posts.GET("/my-posts", p.MyPosts, required)
	posts.GET("/:slug", p.GetBySlug, optional, cache)
	posts.POST("", p.Create, required)
	posts.PUT("/:slug", p.Update, required)
	posts.DELETE("/:slug", p.Delete, required)

	// Profile endpoints, always authenticated.
	profile := e.Group("/profile", required)
	profile.GET("", pr.Get)
	profile.PUT("", pr.Update)
}
