// Package server assembles the HTTP router from the configured services.
package server

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/postan/postan-api/handlers"
	"github.com/postan/postan-api/internal/config"
	"github.com/postan/postan-api/internal/media"
	"github.com/postan/postan-api/internal/pipeline"
	"github.com/postan/postan-api/internal/sessions"
	"github.com/postan/postan-api/internal/store"
	"github.com/postan/postan-api/internal/tokens"
	"github.com/postan/postan-api/internal/users"
	"github.com/postan/postan-api/internal/validation"
	"github.com/postan/postan-api/pkg/logger"
	"github.com/postan/postan-api/pkg/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
)

var startTime = time.Now()

// Check reports whether a dependency is usable.
type Check func(ctx context.Context) error

// Deps are the runtime services the router is built from. Store and
// Sessions are required; the rest are optional.
type Deps struct {
	Store    store.Store
	Sessions *sessions.Service
	Media    media.ObjectStore
	Redis    *redis.Client
	// Revocations holds access tokens ended by logout. Nil disables the
	// check.
	Revocations *sessions.Revocations
	// HashCost overrides the bcrypt cost, mainly for tests.
	HashCost int
	// Ready lists the dependency checks behind /ready.
	Ready map[string]Check
}

// NewRouter wires middleware, ops endpoints and the /api/v1 routes.
func NewRouter(cfg *config.Config, deps Deps) *gin.Engine {
	pipeline.SetExposeCause(cfg.Server.ExposeErrorCause)

	r := gin.New()
	r.Use(cors(), middleware.RequestID(), gin.Logger(), gin.Recovery())

	if cfg.RateLimit.Enabled {
		if cfg.RateLimit.UseRedis && deps.Redis != nil {
			win := time.Duration(cfg.RateLimit.WindowSeconds) * time.Second
			r.Use(middleware.RedisRateLimitMiddleware(deps.Redis, cfg.RateLimit.RPS, cfg.RateLimit.Burst, win))
		} else {
			r.Use(middleware.RateLimitMiddleware(cfg.RateLimit.RPS, cfg.RateLimit.Burst))
		}
	}

	r.GET("/health", func(c *gin.Context) {
		c.String(http.StatusOK, "healthy")
	})
	r.GET("/ready", readiness(deps.Ready))
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	handlers.RegisterSwagger(r)

	orch := validation.NewOrchestrator(deps.Store, cfg.Validation.PasswordMinLength)
	var revoked middleware.RevocationChecker
	if deps.Revocations != nil {
		revoked = deps.Revocations
	}
	auth := middleware.AuthMiddleware(tokens.NewVerifier(cfg), revoked)
	api := r.Group("/api/v1")

	usersSvc := users.NewService(deps.Store, orch, deps.HashCost)
	handlers.NewAuthHandler(cfg, usersSvc, deps.Sessions, deps.Revocations).Register(api)
	handlers.NewPostsHandler(deps.Store, orch).Register(api, auth)
	handlers.NewLikesHandler(deps.Store, orch).Register(api, auth)
	handlers.NewFollowingsHandler(deps.Store, orch).Register(api, auth)

	if deps.Media != nil {
		media.NewHandler(deps.Media).Register(api, auth)
	} else {
		logger.Warnf("media uploads disabled: no object store configured")
	}
	return r
}

func readiness(checks map[string]Check) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		ready := true
		deps := map[string]bool{}
		for name, check := range checks {
			err := check(ctx)
			deps[name] = err == nil
			if err != nil {
				logger.Warnf("ready: %s: %v", name, err)
				ready = false
			}
		}
		uptime := time.Since(startTime).Round(time.Second).String()
		if !ready {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "not_ready", "deps": deps, "uptime": uptime})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready", "deps": deps, "uptime": uptime})
	}
}

func cors() gin.HandlerFunc {
	return func(c *gin.Context) {
		h := c.Writer.Header()
		h.Set("Access-Control-Allow-Origin", "*")
		h.Set("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
		h.Set("Access-Control-Allow-Headers", "Origin, Content-Type, Accept, Authorization, X-Request-ID")
		h.Set("Access-Control-Expose-Headers", "Content-Length, X-Request-ID")
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusOK)
			return
		}
		c.Next()
	}
}
