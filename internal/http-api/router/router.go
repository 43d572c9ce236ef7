// Package router assembles the gin engine: global middleware, the health
// endpoint and every /api route group.
package router

import (
	"net/http"
	"time"

	"moviereviews/internal/http-api/handler"
	"moviereviews/internal/http-api/middleware"
	"moviereviews/internal/http-api/service"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const serviceName = "moviereviews-api"

// Services are the dependencies the handlers are built from.
type Services struct {
	Auth      service.AuthService
	Users     service.UserService
	Movies    service.MovieService
	Reviews   service.ReviewService
	Reactions service.ReactionService
}

// Options tune the engine. A nil Limiter disables rate limiting. With no
// TrustedProxies the client IP is the socket peer and X-Forwarded-For is
// ignored.
type Options struct {
	RequestTimeout time.Duration
	CORSOrigins    []string
	TrustedProxies []string
	Limiter        middleware.Limiter
	HealthChecks   map[string]handler.Checker
}

// New builds the engine. Every /api route sees OptionalAuth, so reads can
// report the caller's own reaction; writes additionally go through
// AuthMiddleware.
func New(svc Services, opts Options, logger *zap.Logger) *gin.Engine {
	r := gin.New()
	if err := r.SetTrustedProxies(opts.TrustedProxies); err != nil {
		logger.Error("invalid trusted proxies, trusting none", zap.Error(err))
		_ = r.SetTrustedProxies(nil)
	}
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger(logger))
	r.Use(middleware.Tracing(serviceName))
	r.Use(middleware.CORS(opts.CORSOrigins))
	if opts.Limiter != nil {
		r.Use(middleware.RateLimit(opts.Limiter, logger))
	}

	r.GET("/healthz", handler.NewHealthHandler(opts.HealthChecks).Health)

	api := r.Group("/api")
	api.Use(middleware.OptionalAuth(svc.Auth))
	requireAuth := middleware.AuthMiddleware(svc.Auth)

	handler.NewAuthHandler(svc.Auth, svc.Users, opts.RequestTimeout, logger).RegisterRoutes(api, requireAuth)
	handler.NewMovieHandler(svc.Movies, opts.RequestTimeout, logger).RegisterRoutes(api, requireAuth)
	handler.NewReviewHandler(svc.Reviews, opts.RequestTimeout, logger).RegisterRoutes(api, requireAuth)
	handler.NewReactionHandler(svc.Reactions, opts.RequestTimeout, logger).RegisterRoutes(api, requireAuth)

	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"detail": "Not found."})
	})
	return r
}
