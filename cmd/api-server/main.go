package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"moviereviews/database"
	"moviereviews/internal/config"
	"moviereviews/internal/http-api/handler"
	"moviereviews/internal/http-api/middleware"
	"moviereviews/internal/http-api/repository"
	"moviereviews/internal/http-api/router"
	"moviereviews/internal/http-api/service"
	"moviereviews/internal/logging"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const (
	shutdownTimeout    = 10 * time.Second
	tokenSweepInterval = time.Hour
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("could not load config: %v", err)
	}

	logger, err := logging.New(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		log.Fatalf("could not build logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	if err := run(cfg, logger); err != nil {
		logger.Fatal("api server stopped", zap.Error(err))
	}
}

func run(cfg *config.Config, logger *zap.Logger) error {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := database.OpenGorm(cfg, logger)
	if err != nil {
		return err
	}
	defer database.Close(db)

	if err := database.Migrate(db, logger); err != nil {
		return err
	}

	rdb := connectRedis(cfg, logger)
	if rdb != nil {
		defer rdb.Close()
	}

	// Repositories
	userRepo := repository.NewUserRepository(db)
	refreshTokenRepo := repository.NewRefreshTokenRepository(db)
	movieRepo := repository.NewMovieRepository(db)
	reviewRepo := repository.NewReviewRepository(db)
	reactionRepo := repository.NewReactionRepository(db)

	// Services
	services := router.Services{
		Auth:      service.NewAuthService(userRepo, refreshTokenRepo, cfg, logger.Named("auth")),
		Users:     service.NewUserService(userRepo, refreshTokenRepo, logger.Named("users")),
		Movies:    service.NewMovieService(movieRepo, cfg.PageSize, logger.Named("movies")),
		Reviews:   service.NewReviewService(reviewRepo, movieRepo, cfg.PageSize, logger.Named("reviews")),
		Reactions: service.NewReactionService(reactionRepo, reviewRepo, logger.Named("reactions")),
	}

	checks := map[string]handler.Checker{
		"postgres": func(ctx context.Context) error { return database.Ping(ctx, db) },
	}
	if rdb != nil {
		checks["redis"] = func(ctx context.Context) error { return rdb.Ping(ctx).Err() }
	}

	engine := router.New(services, router.Options{
		RequestTimeout: cfg.RequestTimeout,
		CORSOrigins:    cfg.CORSOrigins,
		TrustedProxies: cfg.TrustedProxies,
		Limiter:        newLimiter(cfg, rdb, logger),
		HealthChecks:   checks,
	}, logger)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler:           engine,
		ReadHeaderTimeout: 5 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go sweepRefreshTokens(ctx, refreshTokenRepo, logger)

	errChan := make(chan error, 1)
	go func() {
		logger.Info("api server listening", zap.String("addr", srv.Addr), zap.String("env", cfg.GoEnv))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- err
		}
	}()

	select {
	case <-ctx.Done():
		logger.Info("received shutdown signal")
	case err := <-errChan:
		return fmt.Errorf("listen: %w", err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	logger.Info("api server stopped gracefully")
	return nil
}

// connectRedis returns nil when REDIS_URL is unset or the server does not
// answer; rate limiting then stays in-process.
func connectRedis(cfg *config.Config, logger *zap.Logger) *redis.Client {
	if cfg.RedisURL == "" {
		return nil
	}
	opts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		logger.Warn("invalid REDIS_URL, continuing without redis", zap.Error(err))
		return nil
	}
	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		logger.Warn("redis unreachable, continuing without it", zap.String("addr", opts.Addr), zap.Error(err))
		client.Close()
		return nil
	}
	logger.Info("connected to redis", zap.String("addr", opts.Addr))
	return client
}

func newLimiter(cfg *config.Config, rdb *redis.Client, logger *zap.Logger) middleware.Limiter {
	if !cfg.RateLimitEnabled {
		return nil
	}
	local := middleware.NewLocalLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst)
	if rdb == nil {
		return local
	}
	return middleware.NewFallbackLimiter(
		middleware.NewRedisLimiter(rdb, cfg.RateLimitRPS, cfg.RateLimitBurst),
		local,
		logger.Named("ratelimit"),
	)
}

// sweepRefreshTokens deletes expired refresh tokens until ctx is done.
func sweepRefreshTokens(ctx context.Context, repo repository.RefreshTokenRepository, logger *zap.Logger) {
	ticker := time.NewTicker(tokenSweepInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			n, err := repo.DeleteExpired(ctx, now)
			if err != nil {
				logger.Warn("refresh token sweep failed", zap.Error(err))
				continue
			}
			if n > 0 {
				logger.Info("expired refresh tokens removed", zap.Int64("count", n))
			}
		}
	}
}
