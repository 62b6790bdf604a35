package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Ariet2003/codigma-sub000/internal/config"
	"github.com/Ariet2003/codigma-sub000/internal/database"
	"github.com/Ariet2003/codigma-sub000/internal/handlers"
	"github.com/Ariet2003/codigma-sub000/internal/middleware"
	"github.com/Ariet2003/codigma-sub000/internal/routes"
	"github.com/Ariet2003/codigma-sub000/internal/seeds"
	"github.com/Ariet2003/codigma-sub000/internal/services"
	"github.com/Ariet2003/codigma-sub000/pkg/logger"
	"github.com/gin-gonic/gin"
)

func main() {
	// 0. Load Config & Initialize Logger
	config.LoadConfig()

	env := config.AppConfig.GoEnv
	logger.Init(env)
	logger.Info().Str("environment", env).Msg("Starting Codigma backend...")

	if env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// 1. Storage
	database.Connect()
	database.InitRedis()

	if err := database.Migrate(database.DB); err != nil {
		logger.Fatal().Err(err).Msg("Database migration failed")
	}
	if err := seeds.SeedSettings(database.DB); err != nil {
		logger.Fatal().Err(err).Msg("Failed to seed system settings")
	}

	// 2. Integrations
	handlers.InitOAuthConfig()
	handlers.RegisterValidators()
	services.InitJudge()
	if err := services.InitStorage(); err != nil {
		logger.Warn().Err(err).Msg("Report export disabled")
	}

	// 3. Setup Router
	r := gin.New()

	r.Use(middleware.LoggingMiddleware())
	r.Use(middleware.ErrorHandlerMiddleware())
	r.Use(gin.Recovery())
	r.Use(middleware.SecurityHeaders())
	r.Use(middleware.CORSMiddleware())
	r.Use(middleware.GeneralRateLimit())

	// 4. Register Routes
	api := r.Group("/api")
	{
		// Auth routes - no maintenance check (allow login even during maintenance)
		auth := api.Group("/auth")
		auth.Use(middleware.AuthRateLimit())
		routes.RegisterAuthRoutes(auth)

		// Public system status (for maintenance page)
		api.GET("/system/status", handlers.PublicGetSystemStatus)

		// Everything else goes through the maintenance check
		protected := api.Group("")
		protected.Use(middleware.OptionalAuthMiddleware(), middleware.MaintenanceMode())

		routes.RegisterTaskRoutes(protected)
		routes.RegisterHackathonRoutes(protected)
		routes.RegisterUserRoutes(protected)
		routes.RegisterAdminRoutes(api) // Admin routes bypass maintenance
	}

	// Health check with DB and Redis status
	r.GET("/health", func(c *gin.Context) {
		dbStatus := "ok"
		redisStatus := "ok"

		sqlDB, err := database.DB.DB()
		if err != nil || sqlDB.Ping() != nil {
			dbStatus = "error"
		}

		if database.Redis != nil {
			if _, err := database.Redis.Ping(c.Request.Context()).Result(); err != nil {
				redisStatus = "error"
			}
		} else {
			redisStatus = "not configured"
		}

		status := "ok"
		if dbStatus != "ok" || redisStatus == "error" {
			status = "degraded"
		}

		c.JSON(http.StatusOK, gin.H{
			"status": status,
			"checks": gin.H{
				"database": dbStatus,
				"redis":    redisStatus,
			},
		})
	})

	// Sitemap & SEO
	r.GET("/sitemap.xml", handlers.GenerateSitemap)
	r.GET("/robots.txt", handlers.GenerateRobotsTXT)

	// 5. Start Server with graceful shutdown
	port := config.AppConfig.Port

	// WriteTimeout leaves room for a submission that waits on every test case.
	srv := &http.Server{
		Addr:         ":" + port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 150 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info().Str("port", port).Str("env", env).Msg("Server starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("Shutting down server gracefully...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	logger.Info().Msg("Server exited gracefully")
}
