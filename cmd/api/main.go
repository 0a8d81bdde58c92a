package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/nats-io/nats.go"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/noah-isme/cssprep-api/internal/config"
	"github.com/noah-isme/cssprep-api/internal/database"
	"github.com/noah-isme/cssprep-api/internal/handler"
	"github.com/noah-isme/cssprep-api/internal/middleware"
	"github.com/noah-isme/cssprep-api/internal/repository"
	"github.com/noah-isme/cssprep-api/internal/router"
	"github.com/noah-isme/cssprep-api/internal/service"
	"github.com/noah-isme/cssprep-api/pkg/ai"
	"github.com/noah-isme/cssprep-api/pkg/essay"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	logger := newLogger(cfg)

	db, err := database.ConnectPostgres(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}

	if err := database.Migrate(db); err != nil {
		log.Fatalf("failed to migrate database: %v", err)
	}

	probes := map[string]handler.HealthProbe{
		"database": func(ctx context.Context) error {
			sqlDB, err := db.DB()
			if err != nil {
				return err
			}
			return sqlDB.PingContext(ctx)
		},
	}

	// Redis and NATS are optional: without them results are not cached and no events are published.
	var redisClient *redis.Client
	if cfg.RedisURL != "" {
		redisClient, err = database.ConnectRedis(context.Background(), cfg.RedisURL)
		if err != nil {
			log.Fatalf("failed to connect to redis: %v", err)
		}
		defer redisClient.Close()
		probes["redis"] = func(ctx context.Context) error { return redisClient.Ping(ctx).Err() }
	} else {
		logger.Warn().Msg("redis not configured, evaluation cache disabled")
	}

	var natsConn *nats.Conn
	if cfg.NATSURL != "" {
		natsConn, err = database.ConnectNATS(cfg.NATSURL, cfg.AppName, logger)
		if err != nil {
			log.Fatalf("failed to connect to nats: %v", err)
		}
		defer natsConn.Drain()
	}

	evaluator := essay.NewEvaluator(newAIClient(cfg, logger), essay.Config{
		AITimeout: cfg.AI.Timeout,
		Logger:    logger,
	})

	validate := validator.New(validator.WithRequiredStructEnabled())

	essayRepo := repository.NewEssayRepository(db)
	profileRepo := repository.NewProfileRepository(db)

	essayService := service.NewEssayService(essayRepo, profileRepo, evaluator, redisClient, natsConn, validate, logger, service.EssayServiceConfig{
		CacheTTL:     cfg.Essay.CacheTTL,
		EventSubject: cfg.NATSSubject,
	})
	profileService := service.NewProfileService(profileRepo, validate, logger)

	app := fiber.New(fiber.Config{
		AppName:      cfg.AppName,
		ServerHeader: cfg.AppName,
		BodyLimit:    1 << 20,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: cfg.AI.Timeout + 15*time.Second,
	})

	middleware.Register(app, middleware.Config{
		Logger:        &logger,
		AllowOrigins:  cfg.AllowOrigins,
		AccessLogging: !cfg.IsProduction(),
	})
	router.Register(app, cfg, router.Dependencies{
		EssayHandler:   handler.NewEssayHandler(essayService, logger),
		AdminHandler:   handler.NewAdminHandler(essayService, profileService, logger),
		ProfileHandler: handler.NewProfileHandler(profileService, logger),
		HealthProbes:   probes,
		JWTMiddleware:  middleware.JWTProtected(middleware.JWTConfig{Secret: cfg.JWTSecret, Issuer: cfg.JWTIssuer, Leeway: 30 * time.Second}),
	})

	go func() {
		if err := app.Listen(cfg.HTTPAddress()); err != nil {
			log.Fatalf("failed to start server: %v", err)
		}
	}()

	logger.Info().Str("address", cfg.HTTPAddress()).Bool("ai_enabled", cfg.AI.Enabled()).Msg("server started")
	waitForShutdown(app, cfg.AI.Timeout)
}

func newLogger(cfg config.Config) zerolog.Logger {
	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil || cfg.LogLevel == "" {
		level = zerolog.InfoLevel
	}

	return zerolog.New(os.Stdout).Level(level).With().
		Timestamp().
		Str("service", cfg.AppName).
		Str("env", cfg.AppEnv).
		Logger()
}

// newAIClient returns nil when no provider is configured; the evaluator then always falls back.
func newAIClient(cfg config.Config, logger zerolog.Logger) ai.Client {
	if !cfg.AI.Enabled() {
		logger.Warn().Msg("ai provider not configured, essays will be scored heuristically")
		return nil
	}

	client, err := ai.NewOpenAIClient(ai.OpenAIConfig{
		APIKey:      cfg.AI.APIKey,
		Model:       cfg.AI.Model,
		BaseURL:     cfg.AI.BaseURL,
		MaxTokens:   cfg.AI.MaxTokens,
		Temperature: cfg.AI.Temperature,
		JSONMode:    cfg.AI.JSONMode,
		Logger:      logger,
	})
	if err != nil {
		log.Fatalf("failed to create ai client: %v", err)
	}
	return client
}

func waitForShutdown(app *fiber.App, drain time.Duration) {
	shutdownCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-shutdownCtx.Done()

	// In-flight evaluations may still be waiting on the model.
	ctx, cancel := context.WithTimeout(context.Background(), drain+5*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(ctx); err != nil {
		log.Printf("graceful shutdown failed: %v", err)
	}

	log.Println("server stopped")
}
