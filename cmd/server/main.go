// @title Logistics Health Assessment API
// @version 1.0
// @description Hierarchical KPI assessment API - zone, region, city and branch supervisors submit monthly operations health surveys that are scored, aggregated and reviewed down the hierarchy

// @host localhost:8080
// @BasePath /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Enter your bearer token in the format: Bearer {token}

// Package main is the entry point for the assessment API server.
package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/arupmahatha-dtdc/logistics-health-assessment-system/internal/auth"
	"github.com/arupmahatha-dtdc/logistics-health-assessment-system/internal/config"
	"github.com/arupmahatha-dtdc/logistics-health-assessment-system/internal/database"
	"github.com/arupmahatha-dtdc/logistics-health-assessment-system/internal/handlers"
	"github.com/arupmahatha-dtdc/logistics-health-assessment-system/internal/hierarchy"
	"github.com/arupmahatha-dtdc/logistics-health-assessment-system/internal/middleware"
	"github.com/arupmahatha-dtdc/logistics-health-assessment-system/internal/repository"
	"github.com/arupmahatha-dtdc/logistics-health-assessment-system/internal/services"

	// Swagger docs
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/arupmahatha-dtdc/logistics-health-assessment-system/docs"
)

// Build-time variables (set via ldflags)
var (
	Version   = "0.1.0-dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Set Gin mode based on environment
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	// Initialize database connection
	ctx := context.Background()
	dbCfg := database.Config{
		URI:                    cfg.DatabaseURI,
		Database:               cfg.DatabaseName,
		MaxPoolSize:            100,
		MinPoolSize:            10,
		MaxConnIdleTime:        30 * time.Minute,
		ConnectTimeout:         10 * time.Second,
		ServerSelectionTimeout: 10 * time.Second,
	}

	dbClient, err := database.NewClient(dbCfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	// Initialize JWT service early (before defer) to avoid exitAfterDefer issue
	jwtCfg := auth.JWTConfig{
		PrivateKeyPath:     cfg.JWTPrivateKeyPath,
		PublicKeyPath:      cfg.JWTPublicKeyPath,
		AccessTokenExpiry:  cfg.AccessTokenExpiry,
		RefreshTokenExpiry: cfg.RefreshTokenExpiry,
		Issuer:             "logihealth-api",
	}

	jwtService, err := auth.NewJWTService(jwtCfg)
	if err != nil {
		if closeErr := dbClient.Close(ctx); closeErr != nil {
			log.Printf("Error closing database connection: %v", closeErr)
		}
		log.Fatalf("Failed to initialize JWT service: %v", err)
	}

	// Load the geographic hierarchy; without it org chains cannot be
	// validated, so the server refuses to start
	mappings, err := hierarchy.Load(cfg.MappingsPath)
	if err != nil {
		if closeErr := dbClient.Close(ctx); closeErr != nil {
			log.Printf("Error closing database connection: %v", closeErr)
		}
		log.Fatalf("Failed to load hierarchy mappings: %v", err)
	}

	defer func() {
		if closeErr := dbClient.Close(ctx); closeErr != nil {
			log.Printf("Error closing database connection: %v", closeErr)
		}
	}()

	// Ensure indexes
	log.Println("Creating database indexes...")
	if indexErr := dbClient.EnsureIndexes(ctx); indexErr != nil {
		log.Printf("Warning: Failed to create indexes: %v", indexErr)
	}

	// Seed bootstrap accounts
	log.Println("Seeding bootstrap accounts...")
	if seedErr := dbClient.SeedData(ctx); seedErr != nil {
		log.Printf("Warning: Failed to seed data: %v", seedErr)
	}

	// Initialize repositories
	userRepo := repository.NewUserRepository(dbClient)
	surveyRepo := repository.NewSurveyRepository(dbClient)
	taskRepo := repository.NewTaskRepository(dbClient)
	feedbackRepo := repository.NewFeedbackRepository(dbClient)
	commentRepo := repository.NewCommentRepository(dbClient)
	auditRepo := repository.NewAuditRepository(dbClient)

	// Initialize feedback client
	// #IMPLEMENTATION_DECISION: Use mock in development, HTTP client in production
	var feedbackClient services.FeedbackClient
	if cfg.IsDevelopment() || cfg.FeedbackAPIURL == "" {
		log.Println("Using mock feedback client in development mode")
		feedbackClient = services.NewMockFeedbackClient()
	} else {
		feedbackClient = services.NewHTTPFeedbackClient(
			cfg.FeedbackAPIURL,
			cfg.FeedbackAPIKey,
			cfg.FeedbackModel,
			cfg.FeedbackMaxRetries,
			cfg.FeedbackTimeout,
		)
	}

	// Initialize services
	auditService := services.NewAuditService(auditRepo)
	authService := services.NewAuthService(userRepo, jwtService, auditService)
	feedbackService := services.NewFeedbackService(feedbackClient, feedbackRepo)
	surveyService := services.NewSurveyService(dbClient, surveyRepo, feedbackService, auditService, mappings)
	taskService := services.NewTaskService(taskRepo, surveyRepo)
	commentService := services.NewCommentService(commentRepo, surveyRepo, userRepo)
	userService := services.NewUserService(userRepo, auditService, mappings, cfg.SuperAdminEmployeeID)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(authService)
	healthHandler := handlers.NewHealthHandler(dbClient, mappings, Version)
	frameworkHandler := handlers.NewFrameworkHandler()
	surveyHandler := handlers.NewSurveyHandler(surveyService, taskService, commentService, auditService, userRepo)
	userHandler := handlers.NewUserHandler(userService, userRepo)
	auditHandler := handlers.NewAuditHandler(auditService)

	// Create Gin router
	router := gin.New()

	// Apply global middleware
	router.Use(middleware.Recovery())
	router.Use(middleware.RequestID())
	router.Use(middleware.Logger())
	router.Use(middleware.CORS(cfg.AllowedOrigins))
	router.Use(middleware.SecureHeaders())
	router.Use(middleware.NewRateLimiter(cfg.RateLimitRequests, cfg.RateLimitWindow).RateLimit())

	// Register health routes (not under /api/v1)
	healthHandler.RegisterRoutes(router)

	// Register Swagger documentation route
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Create API v1 group
	apiV1 := router.Group("/api/v1")

	// Create auth middleware
	authMiddleware := middleware.AuthMiddleware(jwtService)
	assessmentLevel := middleware.RequireAssessmentLevel()

	// Register routes
	authHandler.RegisterRoutes(apiV1, authMiddleware)
	frameworkHandler.RegisterRoutes(apiV1, authMiddleware)
	surveyHandler.RegisterRoutes(apiV1, authMiddleware, assessmentLevel)
	userHandler.RegisterRoutes(apiV1, authMiddleware)
	auditHandler.RegisterRoutes(apiV1, authMiddleware)

	// Create HTTP server
	server := &http.Server{
		Addr:         ":" + cfg.ServerPort,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		log.Printf("Starting Logistics Health Assessment API server v%s on port %s", Version, cfg.ServerPort)
		log.Printf("Build: %s | Commit: %s", BuildTime, GitCommit)
		log.Printf("Environment: %s", cfg.Environment)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")

	// Create shutdown context with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	// Shutdown server gracefully
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server forced to shutdown: %v", err)
	}

	log.Println("Server shutdown complete")
}
