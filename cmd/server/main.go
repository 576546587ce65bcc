package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/serialcheck/serialcheck-server/internal/auth"
	"github.com/serialcheck/serialcheck-server/internal/config"
	"github.com/serialcheck/serialcheck-server/internal/database"
	"github.com/serialcheck/serialcheck-server/internal/handler"
	"github.com/serialcheck/serialcheck-server/internal/jobs"
	"github.com/serialcheck/serialcheck-server/internal/middleware"
	"github.com/serialcheck/serialcheck-server/internal/redis"
	"github.com/serialcheck/serialcheck-server/internal/repository"
	"github.com/serialcheck/serialcheck-server/internal/service"
)

func main() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}

	setLogLevel(cfg.LogLevel)

	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("invalid config")
	}

	driver, dsn := cfg.DatabaseDriver()
	db, err := database.Connect(driver, dsn)
	if err != nil {
		log.Fatal().Err(err).Str("driver", driver).Msg("failed to connect to database")
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), config.DBPingTimeout)
	if err := db.Ping(ctx); err != nil {
		log.Fatal().Err(err).Msg("failed to ping database")
	}
	if err := db.EnsureSchema(ctx); err != nil {
		log.Fatal().Err(err).Msg("failed to create schema")
	}
	cancel()
	log.Info().Str("driver", driver).Msg("database connected")

	serialRepo := repository.NewSerialRepository(db.DB)
	adminRepo := repository.NewAdminRepository(db.DB)

	jwtManager := auth.NewJWTManager(cfg.JWTSecret, cfg.JWTExpiresIn)
	sessionService := service.NewSessionService(db.DB, adminRepo, jwtManager)

	if _, err := sessionService.EnsureDefaultAdmin(context.Background(), cfg.AdminUser, cfg.AdminPass, cfg.AdminPasswordHash); err != nil {
		log.Fatal().Err(err).Msg("failed to create default admin")
	}

	cleanupJob := jobs.NewCleanupJob(config.CleanupJobInterval)

	var limiterStore service.RateLimitStore
	if cfg.RedisURL != "" {
		redisClient, err := redis.NewClient(context.Background(), cfg.RedisURL)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to connect to redis")
		}
		defer redisClient.Close()
		limiterStore = service.NewRedisRateLimitStore(redisClient.Client)
		log.Info().Msg("redis connected, rate limits are shared")
	} else {
		memoryStore := service.NewMemoryRateLimitStore()
		cleanupJob.Add("rate limit windows", memoryStore.DeleteExpired)
		limiterStore = memoryStore
	}

	loginStore := service.NewMemoryRateLimitStore()
	cleanupJob.Add("login attempt windows", loginStore.DeleteExpired)

	limiter := service.NewRateLimiter(limiterStore, cfg.RateLimitMax, cfg.RateLimitWindow())
	lookupService := service.NewLookupService(serialRepo)
	maintenanceService := service.NewMaintenanceService(serialRepo, limiter)

	adminAuthMiddleware := middleware.NewAdminAuthMiddleware(sessionService)
	clientRateLimitMiddleware := middleware.NewClientRateLimitMiddleware(limiter)
	loginRateLimiter := middleware.NewLoginRateLimiter(loginStore)
	corsMiddleware := middleware.NewCORSMiddleware(cfg.CORSOrigins)
	bodyLimitMiddleware := middleware.NewBodyLimitMiddleware(cfg.JSONLimitBytes)
	securityHeadersMiddleware := middleware.NewSecurityHeadersMiddleware(cfg.IsProduction())

	publicHandler := handler.NewPublicHandler(lookupService, clientRateLimitMiddleware.Handler)
	adminHandler := handler.NewAdminHandler(
		sessionService, maintenanceService, adminAuthMiddleware.Handler, loginRateLimiter.Handler,
	)
	healthHandler := handler.NewHealthHandler(db)

	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.RequestLogger)
	r.Use(middleware.Recoverer)
	r.Use(chimiddleware.Timeout(config.ServerRequestTimeout))
	r.Use(corsMiddleware.Handler)
	r.Use(bodyLimitMiddleware.Handler)

	r.Method(http.MethodGet, "/health", healthHandler)

	r.Route("/api", func(r chi.Router) {
		r.Mount("/admin", adminHandler.Routes())
		r.Mount("/", publicHandler.Routes())
	})

	if cfg.StaticDir != "" {
		r.Group(func(r chi.Router) {
			r.Use(securityHeadersMiddleware.Handler)
			r.NotFound(handler.StaticFileServer(cfg.StaticDir, "/").ServeHTTP)
		})
		log.Info().Str("dir", cfg.StaticDir).Msg("serving admin console")
	}

	cleanupJob.Start()
	defer cleanupJob.Stop()

	server := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      r,
		ReadTimeout:  config.ServerReadTimeout,
		WriteTimeout: config.ServerWriteTimeout,
		IdleTimeout:  config.ServerIdleTimeout,
	}

	go func() {
		log.Info().Str("addr", cfg.Addr()).Msg("starting server")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("shutting down server")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), config.ServerShutdownTimeout)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server forced to shutdown")
	}

	log.Info().Msg("server stopped")
}

func setLogLevel(level string) {
	switch level {
	case "debug":
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	case "info":
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	case "warn":
		zerolog.SetGlobalLevel(zerolog.WarnLevel)
	case "error":
		zerolog.SetGlobalLevel(zerolog.ErrorLevel)
	default:
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}
}
