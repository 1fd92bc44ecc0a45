// AngelaMos | 2026
// main.go

package main

import (
	"context"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/bhashai/gateway/internal/admin"
	"github.com/bhashai/gateway/internal/auth"
	"github.com/bhashai/gateway/internal/config"
	"github.com/bhashai/gateway/internal/contact"
	"github.com/bhashai/gateway/internal/core"
	"github.com/bhashai/gateway/internal/enterprise"
	"github.com/bhashai/gateway/internal/health"
	"github.com/bhashai/gateway/internal/middleware"
	"github.com/bhashai/gateway/internal/migrate"
	"github.com/bhashai/gateway/internal/server"
	"github.com/bhashai/gateway/internal/user"
	"github.com/bhashai/gateway/internal/voiceagent"
)

const (
	drainDelay = 5 * time.Second
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	flag.Parse()

	if err := run(*configPath); err != nil {
		slog.Error("application error", "error", err)
		os.Exit(1)
	}
}

//nolint:funlen // bootstrap code is inherently verbose
func run(configPath string) error {
	ctx, stop := signal.NotifyContext(
		context.Background(),
		syscall.SIGINT,
		syscall.SIGTERM,
	)
	defer stop()

	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	logger := setupLogger(cfg.Log)
	slog.SetDefault(logger)

	logger.Info("starting application",
		"name", cfg.App.Name,
		"version", cfg.App.Version,
		"environment", cfg.App.Environment,
	)

	var telemetry *core.Telemetry
	if cfg.Otel.Enabled {
		tel, telErr := core.NewTelemetry(ctx, cfg.Otel, cfg.App)
		if telErr != nil {
			logger.Warn("failed to initialize telemetry", "error", telErr)
		} else {
			telemetry = tel
			logger.Info("OpenTelemetry tracer initialized",
				"endpoint", cfg.Otel.Endpoint,
			)
		}
	}

	db, err := core.NewDatabase(ctx, cfg.Database)
	if err != nil {
		return err
	}
	logger.Info("database connected",
		"max_open_conns", cfg.Database.MaxOpenConns,
		"max_idle_conns", cfg.Database.MaxIdleConns,
	)

	if cfg.Database.AutoMigrate {
		migrator, migErr := migrate.New(db.DB, logger)
		if migErr != nil {
			return migErr
		}
		applied, migErr := migrator.Up(ctx)
		if migErr != nil {
			return migErr
		}
		logger.Info("schema up to date", "applied", len(applied))
	}

	redis, err := core.NewRedis(ctx, cfg.Redis)
	if err != nil {
		return err
	}
	logger.Info("redis connected",
		"pool_size", cfg.Redis.PoolSize,
	)

	jwtManager, err := auth.NewJWTManager(cfg.JWT)
	if err != nil {
		return err
	}
	logger.Info("JWT manager initialized",
		"algorithm", "HS256",
		"ttl", jwtManager.TTL(),
	)

	hasher, err := core.NewHasher(cfg.Security.BcryptCost)
	if err != nil {
		return err
	}

	store := db.Store()

	userSvc := user.NewService(user.NewRepository(store), hasher)
	userHandler := user.NewHandler(userSvc)

	enterpriseSvc := enterprise.NewService(
		enterprise.NewRepository(store),
		db.InTx,
		cfg.Trial.Days,
	)
	enterpriseHandler := enterprise.NewHandler(enterpriseSvc)

	authSvc := auth.NewService(
		jwtManager,
		userSvc,
		enterpriseSvc,
		auth.NewDenylist(redis.Client, cfg.JWT.ClockSkew),
		hasher,
	)
	authHandler := auth.NewHandler(authSvc, auth.HandlerOptions{
		SetCookie:    cfg.Security.AuthCookie,
		SecureCookie: cfg.IsProduction(),
	})

	agentSvc := voiceagent.NewService(
		voiceagent.NewRepository(store),
		db.InTx,
		voiceagent.TrialLimits{
			MaxAgents: cfg.Trial.MaxVoiceAgents,
			Languages: cfg.Trial.Languages,
		},
	)
	agentHandler := voiceagent.NewHandler(agentSvc)

	contactHandler := contact.NewHandler(
		contact.NewService(contact.NewRepository(store), agentSvc),
	)

	healthHandler := health.NewHandler(
		cfg.App.Version,
		5*time.Second,
		health.Dependency{Name: "database", Checker: db},
		health.Dependency{Name: "redis", Checker: redis},
	)

	adminHandler := admin.NewHandler(admin.HandlerConfig{
		Repo:       admin.NewRepository(store),
		DBStats:    db.Stats,
		RedisStats: redis.PoolStats,
		DBPing:     db.Ping,
		RedisPing:  redis.Ping,
	})

	srv := server.New(server.Config{
		ServerConfig:  cfg.Server,
		HealthHandler: healthHandler,
		Logger:        logger,
	})

	router := srv.Router()

	router.Use(middleware.RequestID)
	router.Use(middleware.Logger(logger))
	router.Use(middleware.Recoverer)
	router.Use(middleware.SecurityHeaders(cfg.IsProduction()))
	router.Use(middleware.CORS(cfg.CORS))

	healthHandler.RegisterRoutes(router)

	limiter := middleware.NewRateLimiter(redis.Client, middleware.RateLimitConfig{})
	tiered := limiter.Tiered(middleware.TiersFromConfig(cfg.RateLimit))
	verify := middleware.Authenticator(authSvc)

	authenticator := func(next http.Handler) http.Handler {
		return verify(tiered(next))
	}

	loginLimiter := middleware.NewRateLimiter(redis.Client, middleware.RateLimitConfig{
		Limit: middleware.PerMinute(
			cfg.RateLimit.TrialRequests,
			cfg.RateLimit.TrialBurst,
		),
		KeyFunc: middleware.KeyByIPAndEndpoint,
	}).Handler

	router.Route("/api", func(r chi.Router) {
		authHandler.RegisterRoutes(r, authenticator, loginLimiter)
		userHandler.RegisterRoutes(r, authenticator)
		enterpriseHandler.RegisterRoutes(r, authenticator)
		agentHandler.RegisterRoutes(r, authenticator, contactHandler.RegisterAgentRoutes)
		contactHandler.RegisterRoutes(r, authenticator)
		adminHandler.RegisterRoutes(r, authenticator)
	})

	errChan := make(chan error, 1)
	go func() {
		errChan <- srv.Start()
	}()

	select {
	case err := <-errChan:
		return err
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(
		context.Background(),
		cfg.Server.ShutdownTimeout+drainDelay+5*time.Second,
	)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx, drainDelay); err != nil {
		logger.Error("server shutdown error", "error", err)
	}

	if telemetry != nil {
		if err := telemetry.Shutdown(shutdownCtx); err != nil {
			logger.Error("telemetry shutdown error", "error", err)
		}
	}

	if err := redis.Close(); err != nil {
		logger.Error("redis close error", "error", err)
	}

	if err := db.Close(); err != nil {
		logger.Error("database close error", "error", err)
	}

	logger.Info("application stopped")
	return nil
}

func setupLogger(cfg config.LogConfig) *slog.Logger {
	var handler slog.Handler

	level := slog.LevelInfo
	switch cfg.Level {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}

	opts := &slog.HandlerOptions{Level: level}

	if cfg.Format == "json" {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}

	return slog.New(handler)
}
