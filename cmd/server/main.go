package main

import (
	"context"
	"database/sql"
	"errors"
	"log"
	"os"

	"github.com/fintrack/fintrack/internal/classify"
	"github.com/fintrack/fintrack/internal/command"
	"github.com/fintrack/fintrack/internal/config"
	"github.com/fintrack/fintrack/internal/events"
	"github.com/fintrack/fintrack/internal/handler"
	"github.com/fintrack/fintrack/internal/middleware"
	"github.com/fintrack/fintrack/internal/query"
	redisClient "github.com/fintrack/fintrack/internal/redis"
	"github.com/fintrack/fintrack/internal/repository"
	"github.com/fintrack/fintrack/internal/storage"
	"github.com/gin-gonic/gin"
	_ "github.com/lib/pq"
	"github.com/rs/zerolog"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()

	// Database connection
	db, err := sql.Open("postgres", cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		log.Fatalf("Failed to ping database: %v", err)
	}
	if err := storage.RunMigrations(db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	// Redis connection
	redis, err := redisClient.NewClient(cfg.RedisAddr, cfg.RedisDB)
	if err != nil {
		log.Fatalf("Failed to connect to Redis: %v", err)
	}
	defer redis.Close()

	// Event publisher plus a background audit consumer over the same stream
	publisher := events.NewPublisher(redis.Client, logger)

	auditCtx, stopAudit := context.WithCancel(context.Background())
	defer stopAudit()
	auditLog := logger.With().Str("component", "audit").Logger()
	auditTrail := events.NewSubscriber(redis.Client, logger, events.SubscriberConfig{
		Group:    "audit",
		Consumer: "server",
		Stream:   events.TransactionEventsStream,
		Handler: func(_ context.Context, event events.Event) error {
			auditLog.Info().
				Str("type", event.Type).
				Time("at", event.Timestamp).
				Interface("data", event.Data).
				Msg("transaction event")
			return nil
		},
	})
	go func() {
		if err := auditTrail.Start(auditCtx); err != nil && !errors.Is(err, context.Canceled) {
			logger.Error().Err(err).Msg("audit consumer stopped")
		}
	}()

	// Repositories: write store, read store with Redis-backed views
	userRepo := repository.NewUserRepository(db)
	writeRepo := repository.NewTransactionWriteRepository(db)
	readRepo := repository.NewTransactionReadRepository(db, redis.Client, logger)

	// Command + Query services
	userCmdSvc := command.NewUserCommandService(userRepo, publisher)
	txCmdSvc := command.NewTransactionCommandService(writeRepo, readRepo, publisher)
	txQrySvc := query.NewTransactionQueryService(readRepo)
	authQrySvc := query.NewAuthQueryService(userRepo, []byte(cfg.JWTSecret))

	// Category classifier behind the completion provider
	provider := classify.NewOpenAIProvider(cfg.OpenAIKey, cfg.OpenAIModel, logger)
	classifier := classify.New(provider)

	authHandler := handler.NewAuthHandler(userCmdSvc, authQrySvc)
	transactionHandler := handler.NewTransactionHandler(txCmdSvc, txQrySvc, classifier)

	// Setup router
	router := gin.Default()
	router.Use(middleware.LoggingMiddleware(logger))

	// Health check
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// Auth routes (no session required)
	auth := router.Group("/v1/auth")
	{
		auth.POST("/register", authHandler.Register)
		auth.POST("/login", authHandler.Login)
		auth.POST("/refresh", authHandler.RefreshToken)
	}

	// Transaction routes, all behind the session guard
	v1 := router.Group("/v1/transactions", middleware.AuthMiddleware([]byte(cfg.JWTSecret)))
	{
		v1.POST("", transactionHandler.AddTransaction)
		v1.GET("", transactionHandler.ListTransactions)
		v1.GET("/:id", transactionHandler.GetTransaction)
		v1.PUT("/:id", transactionHandler.UpdateTransaction)
		v1.DELETE("/:id", transactionHandler.DeleteTransaction)
		v1.POST("/category", transactionHandler.ClassifyTransaction)
	}

	log.Printf("fintrack server starting on port %s", cfg.Port)
	if err := router.Run(":" + cfg.Port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
