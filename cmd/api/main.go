package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"

	"github.com/jwalitptl/his-api/internal/cache"
	"github.com/jwalitptl/his-api/internal/config"
	"github.com/jwalitptl/his-api/internal/email"
	apikeyHandler "github.com/jwalitptl/his-api/internal/handler/apikey"
	authHandler "github.com/jwalitptl/his-api/internal/handler/auth"
	clientHandler "github.com/jwalitptl/his-api/internal/handler/client"
	dashboardHandler "github.com/jwalitptl/his-api/internal/handler/dashboard"
	enrollmentHandler "github.com/jwalitptl/his-api/internal/handler/enrollment"
	"github.com/jwalitptl/his-api/internal/handler/health"
	programHandler "github.com/jwalitptl/his-api/internal/handler/program"
	"github.com/jwalitptl/his-api/internal/handler/prometheus"
	"github.com/jwalitptl/his-api/internal/handler/public"
	userHandler "github.com/jwalitptl/his-api/internal/handler/user"
	"github.com/jwalitptl/his-api/internal/middleware"
	"github.com/jwalitptl/his-api/internal/repository/postgres"
	"github.com/jwalitptl/his-api/internal/router"
	apikeyService "github.com/jwalitptl/his-api/internal/service/apikey"
	authService "github.com/jwalitptl/his-api/internal/service/auth"
	clientService "github.com/jwalitptl/his-api/internal/service/client"
	dashboardService "github.com/jwalitptl/his-api/internal/service/dashboard"
	enrollmentService "github.com/jwalitptl/his-api/internal/service/enrollment"
	programService "github.com/jwalitptl/his-api/internal/service/program"
	userService "github.com/jwalitptl/his-api/internal/service/user"
	"github.com/jwalitptl/his-api/internal/tracing"
	"github.com/jwalitptl/his-api/pkg/auth"
	"github.com/jwalitptl/his-api/pkg/logger"
	"github.com/jwalitptl/his-api/pkg/messaging"
	"github.com/jwalitptl/his-api/pkg/messaging/redis"
	"github.com/jwalitptl/his-api/pkg/metrics"
	"github.com/jwalitptl/his-api/pkg/security"
)

func main() {
	logger.Setup(&logger.Config{Level: logger.InfoLevel, TimeFormat: time.RFC3339})

	// Load configuration. Missing Google credentials or session secret
	// stop the process here.
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	logger.Setup(&logger.Config{
		Level:      logger.ParseLevel(cfg.Logging.Level),
		TimeFormat: time.RFC3339,
		Console:    cfg.Logging.Console,
	})

	if cfg.Server.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := tracing.Setup(ctx, cfg.Tracing)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to set up tracing")
	}

	m := metrics.NewMetrics(cfg.Metrics.Namespace, "api")

	// Initialize database
	db, err := postgres.NewDB(ctx, cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer db.Close()

	if cfg.Database.AutoMigrate {
		if err := postgres.Migrate(ctx, db); err != nil {
			log.Fatal().Err(err).Msg("failed to apply migrations")
		}
	}

	// Page cache, optionally shared through Redis pub/sub
	var broker messaging.MessageBroker
	if cfg.Redis.Enabled {
		b, err := redis.NewRedisBroker(ctx, redis.Config{URL: cfg.Redis.URL}, m)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to connect to Redis")
		}
		broker = messaging.NewBrokerAdapter(b)
		defer broker.Close()
	}

	pageCache := cache.New(cache.Options{
		TTL:             cfg.Cache.TTL,
		CleanupInterval: cfg.Cache.CleanupInterval,
		Broker:          broker,
		Channel:         cfg.Redis.Channel,
		InstanceID:      uuid.NewString(),
		Metrics:         m,
	})
	if broker != nil {
		if err := pageCache.Listen(ctx); err != nil {
			log.Fatal().Err(err).Msg("failed to subscribe to cache invalidations")
		}
	}

	mailer, err := newMailer(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to configure mail")
	}

	// Initialize repositories
	base := postgres.NewBaseRepository(db, m)
	userRepo := postgres.NewUserRepository(base)
	facilityRepo := postgres.NewFacilityRepository(base)
	clientRepo := postgres.NewClientRepository(base)
	programRepo := postgres.NewProgramRepository(base)
	enrollmentRepo := postgres.NewEnrollmentRepository(base)
	apiKeyRepo := postgres.NewApiKeyRepository(base)
	dashboardRepo := postgres.NewDashboardRepository(base)

	// Initialize services
	tokens := auth.NewJWTService(cfg.Secrets.SessionSecret, cfg.Session.MaxAge)
	authSvc := authService.NewService(userRepo, facilityRepo, security.NewBcryptHasher(security.DefaultCost), tokens, mailer)
	apiKeySvc := apikeyService.NewService(apiKeyRepo, cfg.Secrets.MasterAPIKey, m)
	clientSvc := clientService.NewService(clientRepo, enrollmentRepo, pageCache, m)
	programSvc := programService.NewService(programRepo, pageCache)
	enrollmentSvc := enrollmentService.NewService(enrollmentRepo, clientRepo, programRepo, pageCache)
	dashboardSvc := dashboardService.NewService(dashboardRepo)
	userSvc := userService.NewService(userRepo)

	google := authService.NewGoogleProvider(
		cfg.Secrets.GoogleClientID,
		cfg.Secrets.GoogleClientSecret,
		cfg.OAuth.GoogleRedirectURL,
	)

	// Initialize middleware and handlers
	authMiddleware := middleware.NewAuthMiddleware(authSvc, apiKeySvc, cfg.Session.CookieName)
	promHandler := prometheus.New(prom.DefaultRegisterer, prom.DefaultGatherer, cfg.Metrics.Namespace)

	handlers := router.Handlers{
		Health: health.NewHandler(db),
		Auth: authHandler.NewHandler(authSvc, google, authHandler.CookieConfig{
			Name:   cfg.Session.CookieName,
			MaxAge: cfg.Session.MaxAge,
			Secure: cfg.Server.IsProduction(),
		}, cfg.OAuth.SuccessRedirect),
		Client:     clientHandler.NewHandler(clientSvc),
		Program:    programHandler.NewHandler(programSvc),
		Enrollment: enrollmentHandler.NewHandler(enrollmentSvc),
		Dashboard:  dashboardHandler.NewHandler(dashboardSvc),
		User:       userHandler.NewHandler(userSvc),
		APIKey:     apikeyHandler.NewHandler(apiKeySvc),
		Public:     public.NewHandler(clientSvc, programSvc),
	}

	corsConfig := middleware.DefaultCORSConfig()
	if len(cfg.CORS.AllowOrigins) > 0 {
		corsConfig.AllowOrigins = cfg.CORS.AllowOrigins
	}

	routerConfig := router.RouterConfig{
		ServiceName:    cfg.Tracing.ServiceName,
		RequestTimeout: cfg.Server.RequestTimeout,
		CORS:           corsConfig,
		Security:       middleware.DefaultSecurityConfig(cfg.Server.IsProduction()),
		SizeLimit:      middleware.DefaultSizeLimitConfig(),
	}
	if cfg.RateLimit.Enabled {
		routerConfig.RateLimit = &middleware.RateLimiterConfig{
			Rate:  rate.Limit(cfg.RateLimit.RPS),
			Burst: cfg.RateLimit.Burst,
		}
	}

	r := router.NewRouter(authMiddleware, pageCache, promHandler, handlers, routerConfig)
	r.Setup()

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      r.Engine(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		log.Info().Int("port", cfg.Server.Port).Str("environment", cfg.Server.Environment).Msg("starting server")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("failed to start server")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server forced to shutdown")
	}
	if err := shutdownTracing(shutdownCtx); err != nil {
		log.Warn().Err(err).Msg("failed to flush traces")
	}

	log.Info().Msg("server exited properly")
}

func newMailer(cfg *config.Config) (email.Service, error) {
	switch cfg.Mail.Provider {
	case "smtp":
		return email.NewSMTPSender(email.SMTPConfig{
			Host:     cfg.Mail.SMTPHost,
			Port:     cfg.Mail.SMTPPort,
			Username: cfg.Mail.SMTPUsername,
			Password: cfg.Secrets.SMTPPassword,
			From:     cfg.Mail.From,
		}), nil
	case "sendgrid":
		return email.NewSendGridSender(cfg.Secrets.SendGridAPIKey, cfg.Mail.FromName, cfg.Mail.From), nil
	case "none", "":
		return email.Noop{}, nil
	}
	return nil, fmt.Errorf("unknown mail provider %q", cfg.Mail.Provider)
}
