package main

import (
	"biometric-service/internal/handler"
	"biometric-service/internal/middleware"
	"biometric-service/pkg/config"
	"biometric-service/pkg/database"
	"biometric-service/pkg/jwtutil"
	"biometric-service/pkg/logger"
	"biometric-service/prometheus"

	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"
)

func main() {
	// Load configuration from .env file and environment variables
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize logger with config
	logger.InitLogger(cfg)
	log := logger.GetLogger()
	log.Info("Starting biometric record service...", zap.String("environment", cfg.Server.Env))

	// Initialize database
	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatal("Failed to initialize database", zap.Error(err))
	}
	log.Info("Database connection established")

	// Token service holds the signing key for the process lifetime
	tokens := jwtutil.New(&cfg.JWT)
	log.Info("Token service initialized")

	// Handlers
	authHandler := handler.NewAuthHandler(db, tokens)
	biometricHandler := handler.NewBiometricHandler(db)
	organizationHandler := handler.NewOrganizationHandler(db)
	auditHandler := handler.NewAuditHandler(db)

	// Initialize Echo framework
	e := echo.New()

	// Apply global middleware - order matters
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.CORS())
	e.Use(middleware.RequestIDMiddleware)
	e.Use(logger.Middleware(log))
	e.Use(prometheus.MetricsMiddleware())

	// Public routes - no authentication required
	e.GET("/health", handler.HealthCheck)
	e.GET("/metrics", handler.MetricsHandler)

	// Authentication routes
	auth := e.Group("/auth")
	auth.POST("/register", authHandler.Register)
	auth.POST("/token", authHandler.Login)

	// API routes - all require authentication
	api := e.Group("/api")
	api.Use(middleware.Auth(db, tokens))

	api.GET("/users/me", authHandler.Me)

	// Biometric records - tenant-scoped CRUD with audit side effects
	biometric := api.Group("/biometric")
	biometric.POST("", biometricHandler.Create)
	biometric.GET("", biometricHandler.List)
	biometric.GET("/analytics", biometricHandler.Analytics)
	biometric.GET("/access-logs", auditHandler.List)
	biometric.GET("/access-analytics", auditHandler.Summary)
	biometric.GET("/:id", biometricHandler.Get)
	biometric.PUT("/:id", biometricHandler.Update)
	biometric.DELETE("/:id", biometricHandler.Delete)

	// Organization management - admin only
	organizations := api.Group("/organizations")
	organizations.POST("", organizationHandler.Create)
	organizations.GET("", organizationHandler.List)
	organizations.GET("/:id", organizationHandler.Get)
	organizations.PUT("/:id", organizationHandler.Update)
	organizations.DELETE("/:id", organizationHandler.Delete)

	// Start server
	log.Info("Starting server", zap.String("port", cfg.Server.Port))
	if err := e.Start(":" + cfg.Server.Port); err != nil {
		log.Fatal("Failed to start server", zap.Error(err))
	}
}
