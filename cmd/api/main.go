package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/mealroute/hospital-meal-service/internal/adapters/cache"
	"github.com/mealroute/hospital-meal-service/internal/adapters/database"
	"github.com/mealroute/hospital-meal-service/internal/adapters/events"
	"github.com/mealroute/hospital-meal-service/internal/api/handlers"
	"github.com/mealroute/hospital-meal-service/internal/api/routes"
	"github.com/mealroute/hospital-meal-service/internal/application/services"
	"github.com/mealroute/hospital-meal-service/internal/domain/providers"
	"github.com/mealroute/hospital-meal-service/internal/domain/repositories"
	"github.com/mealroute/hospital-meal-service/internal/infrastructure/clients/postgres"
	"github.com/mealroute/hospital-meal-service/internal/infrastructure/clients/redis"
	"github.com/mealroute/hospital-meal-service/internal/infrastructure/observability"
	"github.com/mealroute/hospital-meal-service/pkg/config"
)

func main() {

	// Load configuration

	cfg, err := config.Load()

	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	observability.InitLogger("meal-api", cfg.Environment)

	if cfg.Auth.JWTSecret == "" {
		log.Fatal().Msg("JWT_SECRET must be set")
	}

	// Initialize database client
	pgClient, err := postgres.NewClient(&cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize PostgreSQL client")
	}
	defer pgClient.Close()
	log.Info().Msg("PostgreSQL client initialized")

	// Initialize Redis client
	redisClient, err := redis.NewClient(&cfg.Redis)
	if err != nil {
		// The API can serve requests without Redis; events and caching are lost.
		log.Warn().Err(err).Msg("failed to initialize Redis client, continuing without it")
		redisClient = nil
	} else {
		defer redisClient.Close()
		log.Info().Msg("Redis client initialized")
	}

	var cacheProvider providers.CacheProvider
	if redisClient != nil {
		cacheProvider = cache.NewRedisAdapter(redisClient)
	}

	// Initialize event bus for real-time updates
	var eventBus providers.EventBus
	if redisClient != nil {
		eventBus = events.NewRedisEventBus(redisClient)
		log.Info().Msg("event bus initialized")
	} else {
		eventBus = events.NewNoopEventBus()
		log.Warn().Msg("event bus disabled (Redis not available)")
	}

	// Initialize adapters

	var userAdapter repositories.UserRepository = database.NewUserAdapter(pgClient)
	if cacheProvider != nil {
		userAdapter = database.NewCachedUserAdapter(userAdapter, cacheProvider)
	}

	patientAdapter := database.NewPatientAdapter(pgClient)
	dietChartAdapter := database.NewDietChartAdapter(pgClient)
	deliveryAdapter := database.NewDeliveryAdapter(pgClient)

	// Initialize services

	notificationService := services.NewNotificationService(eventBus)
	authService := services.NewAuthService(userAdapter, cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)
	patientService := services.NewPatientService(patientAdapter)
	dietChartService := services.NewDietChartService(
		dietChartAdapter,
		patientAdapter,
		userAdapter,
		deliveryAdapter,
		notificationService,
	)
	workflowService := services.NewDeliveryWorkflowService(
		deliveryAdapter,
		userAdapter,
		notificationService,
		cfg.Workflow.AllowRevert,
	)

	// Initialize handlers

	authHandler := handlers.NewAuthHandler(authService)
	patientHandler := handlers.NewPatientHandler(patientService)
	dietChartHandler := handlers.NewDietChartHandler(dietChartService)
	deliveryHandler := handlers.NewDeliveryHandler(workflowService)
	userHandler := handlers.NewUserHandler(userAdapter)
	sseHandler := handlers.NewSSEHandler(eventBus)

	// Set up router

	router := routes.NewRouter(
		authHandler,
		patientHandler,
		dietChartHandler,
		deliveryHandler,
		userHandler,
		sseHandler,
		cfg.Auth.JWTSecret,
	)

	handler := router.SetupRoutes()

	// Create HTTP server
	serverAddr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	server := &http.Server{
		Addr:         serverAddr,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 0, // No write timeout, the API also serves SSE streams
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		log.Info().Str("addr", serverAddr).Msg("server starting")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server failed to start")
		}
	}()

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("server shutting down")

	// Graceful shutdown with timeout
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("error during server shutdown")
	}

	// Close event bus
	if err := eventBus.Close(); err != nil {
		log.Error().Err(err).Msg("error closing event bus")
	}

	log.Info().Msg("server stopped")
}
