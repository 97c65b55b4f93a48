package main

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"github.com/katherineChen0/crosscoach/backend/internal/config"
	"github.com/katherineChen0/crosscoach/backend/internal/handlers"
	"github.com/katherineChen0/crosscoach/backend/internal/logger"
	"github.com/katherineChen0/crosscoach/backend/internal/middleware"
	"github.com/katherineChen0/crosscoach/backend/internal/repository"
	"github.com/katherineChen0/crosscoach/backend/internal/service"
	"github.com/katherineChen0/crosscoach/backend/pkg/openai"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the API server",
	Long:  `Start the HTTP API server and listen for requests.`,
	RunE:  runServe,
}

var (
	port string
)

func init() {
	serveCmd.Flags().StringVarP(&port, "port", "p", "", "Port to listen on (overrides config)")
}

func runServe(cmd *cobra.Command, args []string) error {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	// Override port from flag if provided
	if port != "" {
		cfg.Server.Port = port
	}

	logger.SetDefault(logger.NewSlogLogger(logger.Config{
		Level:  logger.ParseLevel(cfg.Log.Level),
		Format: cfg.Log.Format,
	}))
	log := logger.Default()

	log.Info("starting crosscoach API server",
		logger.String("env", cfg.Server.Env),
		logger.String("database", cfg.Database.Path),
	)

	// Open storage
	db, err := repository.Open(cfg.Database.Path)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	// Initialize repositories
	logRepo := repository.NewLogPointRepository(db)
	insightRepo := repository.NewInsightRepository(db)
	userRepo := repository.NewUserRepository(db)

	// Journal summarization is optional; without an API key the summary
	// endpoint serves truncated raw text
	var completer service.Completer
	if cfg.OpenAI.APIKey != "" {
		completer = openai.NewClient(cfg.OpenAI.APIKey, cfg.OpenAI.APIBase, cfg.OpenAI.Model, cfg.OpenAI.Timeout())
	} else {
		log.Warn("no OpenAI API key configured, journal summaries will use the fallback")
	}

	// Initialize services
	logService := service.NewLogService(logRepo, userRepo)
	analysisService := service.NewAnalysisService(logRepo, insightRepo, userRepo)
	summaryService := service.NewSummaryService(logRepo, completer, cfg.OpenAI.Timeout())

	// Initialize handlers
	logsHandler := handlers.NewLogsHandler(logService, summaryService)
	insightsHandler := handlers.NewInsightsHandler(analysisService, service.OptionsFromConfig(cfg.Analysis))

	// Set Gin mode based on environment
	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Initialize Gin router
	router := gin.New()
	router.Use(gin.Recovery())

	// Middleware
	router.Use(middleware.SecurityHeaders())
	router.Use(middleware.CORS())
	router.Use(middleware.Logger())
	router.Use(middleware.RateLimit())

	// Health check
	router.GET("/health", func(c *gin.Context) {
		if err := db.Ping(c.Request.Context()); err != nil {
			c.JSON(503, gin.H{"status": "degraded", "error": "database unreachable"})
			return
		}
		c.JSON(200, gin.H{
			"status": "ok",
			"env":    cfg.Server.Env,
		})
	})

	// API v1 routes
	v1 := router.Group("/api/v1")
	v1.Use(middleware.Identity())
	{
		// Log routes
		v1.GET("/logs", logsHandler.GetLogPoints)
		v1.POST("/logs", logsHandler.CreateLogPoint)

		// Journal routes
		v1.POST("/journal", logsHandler.CreateJournalEntry)
		v1.GET("/journal/summary", logsHandler.GetJournalSummary)

		// Insight routes
		v1.GET("/insights", insightsHandler.GetInsights)
		v1.POST("/insights/refresh", middleware.RateLimitRefresh(), insightsHandler.RefreshInsights)
	}

	log.Info("server listening", logger.String("port", cfg.Server.Port))
	if err := router.Run(":" + cfg.Server.Port); err != nil {
		return fmt.Errorf("failed to start server: %w", err)
	}

	return nil
}
