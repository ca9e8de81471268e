package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.uber.org/zap"

	"github.com/phishaware/backend/internal/audit"
	"github.com/phishaware/backend/internal/auth"
	"github.com/phishaware/backend/internal/cache"
	"github.com/phishaware/backend/internal/config"
	"github.com/phishaware/backend/internal/database"
	"github.com/phishaware/backend/internal/email"
	"github.com/phishaware/backend/internal/handlers"
	"github.com/phishaware/backend/internal/logger"
	"github.com/phishaware/backend/internal/metrics"
	"github.com/phishaware/backend/internal/middleware"
	"github.com/phishaware/backend/internal/repository"
	"github.com/phishaware/backend/internal/telemetry"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		// .env is optional; system environment is enough
	}

	cfg, err := config.Load()
	if err != nil {
		os.Stderr.WriteString("configuration error: " + err.Error() + "\n")
		os.Exit(1)
	}

	if err := logger.Initialize(cfg.LogLevel, cfg.LogFile); err != nil {
		os.Stderr.WriteString("failed to initialize logger: " + err.Error() + "\n")
		os.Exit(1)
	}
	defer logger.Close()

	logger.Log.Info("phishing awareness backend starting",
		zap.String("environment", cfg.Environment),
		zap.String("port", cfg.Port),
	)

	// Database
	if err := database.Initialize(); err != nil {
		logger.Log.Fatal("failed to initialize database", zap.Error(err))
	}
	defer database.Close()

	if err := database.Migrate(); err != nil {
		logger.Log.Fatal("failed to run migrations", zap.Error(err))
	}

	// Redis is optional; rate limiting and report caching degrade to no-ops
	if cfg.RedisHost != "" {
		redisClient, err := cache.NewRedisClient(cfg.RedisHost, cfg.RedisPort, cfg.RedisPassword)
		if err != nil {
			logger.Log.Warn("Redis unavailable, continuing without it", zap.Error(err))
		} else {
			defer redisClient.Close()
		}
	}

	// Tracing is optional
	tp, err := telemetry.InitTracer(telemetry.Config{
		ServiceName:  "phishaware-backend",
		Environment:  cfg.Environment,
		OTLPEndpoint: cfg.OTLPEndpoint,
		Enabled:      cfg.OTLPEndpoint != "",
		SamplingRate: 1.0,
	})
	if err != nil {
		logger.Log.Warn("failed to initialize tracing", zap.Error(err))
	}
	if tp != nil {
		defer func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := tp.Shutdown(ctx); err != nil {
				logger.Log.Warn("tracer shutdown failed", zap.Error(err))
			}
		}()
	}

	metrics.Initialize()

	repo := repository.NewEnrollmentRepository(database.DB)
	authService := auth.NewService(database.DB, cfg.JWTSecret, cfg.SessionExpiry)
	auditor := audit.NewRecorder(database.DB)

	h := handlers.NewHandlers(cfg, repo, authService, auditor)

	// SES mailer is optional in development; send endpoints fail politely
	// without it
	if cfg.SenderEmail != "" {
		mailer, err := email.NewMailer(cfg.AWSRegion, cfg.SenderEmail, cfg.SenderName, cfg.BaseURL)
		if err != nil {
			logger.Log.Warn("failed to initialize SES mailer", zap.Error(err))
		} else {
			h.SetMailer(mailer)
		}
	}

	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestIDMiddleware())
	r.Use(middleware.GinLoggerMiddleware())
	r.Use(middleware.MetricsMiddleware())
	r.Use(gzip.Gzip(gzip.DefaultCompression))
	if tp != nil {
		r.Use(otelgin.Middleware("phishaware-backend"))
	}

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = []string{"*"}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", "Authorization"}
	r.Use(cors.New(corsConfig))

	r.GET("/health", func(c *gin.Context) {
		dbStatus := "ok"
		if err := database.Health(); err != nil {
			dbStatus = "unreachable"
		}
		c.JSON(http.StatusOK, gin.H{
			"status":    "ok",
			"timestamp": time.Now().UTC(),
			"service":   "phishaware-backend",
			"database":  dbStatus,
		})
	})

	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Public tracking redirect. Rate limited since the token is the only
	// credential.
	r.GET("/t/:token",
		middleware.RedisRateLimitMiddleware(30, time.Minute),
		h.TrackClick,
	)

	api := r.Group("/api/v1")
	{
		authGroup := api.Group("/auth")
		{
			authGroup.POST("/register", h.Register)
			authGroup.POST("/login", h.Login)
			authGroup.GET("/me", h.AuthMiddleware(), h.Me)
		}

		// Public quiz endpoints, addressed by tracking token
		quizGroup := api.Group("/quiz")
		quizGroup.Use(middleware.RedisRateLimitMiddleware(60, time.Minute))
		{
			quizGroup.GET("/:token", h.GetQuiz)
			quizGroup.POST("/:token/submit", h.SubmitQuiz)
			quizGroup.GET("/:token/results", h.GetQuizResults)
		}

		api.GET("/templates", h.AuthMiddleware(), h.ListTemplates)

		campaigns := api.Group("/campaigns")
		{
			campaigns.Use(h.AuthMiddleware())
			campaigns.POST("", h.CreateCampaign)
			campaigns.GET("", h.ListCampaigns)
			campaigns.GET("/:id", h.GetCampaign)
			campaigns.DELETE("/:id", h.DeleteCampaign)
			campaigns.POST("/:id/enrollments", h.BulkEnroll)
			campaigns.POST("/:id/send", h.SendCampaign)
			campaigns.POST("/:id/test-email", h.SendTestEmail)
			campaigns.POST("/:id/recompute-scores", h.RecomputeScores)
			campaigns.GET("/:id/report", h.GetCampaignReport)
			campaigns.GET("/:id/report/departments", h.GetDepartmentBreakdown)
			campaigns.GET("/:id/roster", h.GetCampaignRoster)
		}

		employees := api.Group("/employees")
		{
			employees.Use(h.AuthMiddleware())
			employees.POST("", h.CreateEmployee)
			employees.GET("", h.ListEmployees)
		}

		enrollments := api.Group("/enrollments")
		{
			enrollments.Use(h.AuthMiddleware())
			enrollments.POST("/:id/score", h.ScoreEnrollment)
		}
	}

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: r,
	}

	go func() {
		logger.Log.Info("listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Log.Fatal("failed to start server", zap.Error(err))
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Log.Info("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Log.Fatal("server forced to shutdown", zap.Error(err))
	}

	logger.Log.Info("server exited")
}
