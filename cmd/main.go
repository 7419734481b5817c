package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/miguelsilvamatos98-commits/msm-ia-api/internal/entity"
	"github.com/miguelsilvamatos98-commits/msm-ia-api/internal/predictor/config"
	delivery "github.com/miguelsilvamatos98-commits/msm-ia-api/internal/predictor/delivery/http"
	"github.com/miguelsilvamatos98-commits/msm-ia-api/internal/predictor/repository"
	"github.com/miguelsilvamatos98-commits/msm-ia-api/internal/predictor/service"
	"github.com/miguelsilvamatos98-commits/msm-ia-api/pkg/logger"
	"github.com/miguelsilvamatos98-commits/msm-ia-api/pkg/sqlite"
	"github.com/miguelsilvamatos98-commits/msm-ia-api/pkg/telegram"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/spf13/cobra"
	"google.golang.org/genai"
)

var configPath string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Starts the prediction API",
	Run:   runServe,
}

func runServe(cmd *cobra.Command, args []string) {
	// Create a context that is canceled on interrupt signals
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Load configuration
	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize logger
	appLogger, err := logger.New(cfg.Logger.Level, cfg.Logger.Encoding)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer func() { _ = appLogger.Sync() }()

	appLogger.Info("Starting prediction API", logger.Field("name", cfg.App.Name))

	// Initialize the feedback ledger database
	db, err := sqlite.NewDB(sqlite.Config{
		Path:     cfg.Ledger.StoragePath,
		LogLevel: cfg.Ledger.LogLevel,
	})
	if err != nil {
		appLogger.Fatal("Failed to initialize ledger database", logger.ErrorField(err))
	}
	if sqlDB, err := db.DB.DB(); err == nil {
		defer sqlDB.Close()
	}
	if err := db.DB.AutoMigrate(&entity.FeedbackEvent{}); err != nil {
		appLogger.Fatal("Failed to migrate ledger schema", logger.ErrorField(err))
	}

	// Initialize the AI provider. A missing API key must not crash the
	// process: the prediction endpoint answers gateway_unavailable instead.
	var aiRepo repository.AIRepository
	switch {
	case cfg.Model.APIKey == "":
		appLogger.Warn("MODEL_API_KEY is not set, prediction endpoint will answer gateway_unavailable")
		aiRepo = repository.NewDisabledAIRepository()
	case cfg.Model.Provider == "gemini":
		genAiClient, err := genai.NewClient(context.Background(), &genai.ClientConfig{
			APIKey: cfg.Model.APIKey,
		})
		if err != nil {
			appLogger.Fatal("Failed to initialize Gemini AI client", logger.ErrorField(err))
		}
		aiRepo, err = repository.NewGeminiAIRepository(cfg, appLogger, genAiClient)
		if err != nil {
			appLogger.Fatal("Failed to initialize Gemini AI repository", logger.ErrorField(err))
		}
	case cfg.Model.Provider == "openai":
		aiRepo = repository.NewOpenAIRepository(cfg, appLogger)
	default:
		appLogger.Fatal("Invalid model provider specified in config", logger.StringField("provider", cfg.Model.Provider))
	}

	// Initialize the operator notifier
	telegramNotifier := telegram.NewDisabled()
	if cfg.Telegram.BotToken != "" {
		telegramNotifier, err = telegram.NewClient(cfg.Telegram.BotToken, cfg.Telegram.ChatID)
		if err != nil {
			appLogger.Fatal("Failed to initialize Telegram notifier", logger.ErrorField(err))
		}
	}

	// Initialize repositories and services
	feedbackRepo := repository.NewFeedbackRepository(db.DB)
	imageNormalizer := service.NewImageNormalizer(cfg.Image.MaxDimension)
	signalNormalizer := service.NewSignalNormalizer(cfg.Signal.NoSignalConfidenceCeiling, cfg.Signal.MaxReasonLength)
	predictionSvc := service.NewPredictionService(cfg, appLogger, aiRepo, imageNormalizer, signalNormalizer, telegramNotifier)
	feedbackSvc := service.NewFeedbackService(cfg, appLogger, feedbackRepo, telegramNotifier)

	// Initialize Echo server
	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())

	// Initialize handlers and routes
	healthHandler := delivery.NewHealthHandler(cfg)
	healthHandler.RegisterRoutes(e)

	apiV1 := e.Group("/api/v1")

	predictionHandler := delivery.NewPredictionHandler(predictionSvc, cfg, appLogger)
	predictionHandler.RegisterRoutes(apiV1.Group("/predict"))

	feedbackHandler := delivery.NewFeedbackHandler(feedbackSvc, appLogger)
	feedbackHandler.RegisterRoutes(apiV1.Group("/feedback"))

	// Start server
	go func() {
		addr := fmt.Sprintf(":%d", cfg.API.Port)
		appLogger.Info("HTTP server starting", logger.Field("address", addr))
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			appLogger.Error("HTTP server failed to start", logger.ErrorField(err))
			stop() // trigger shutdown
		}
	}()

	// Wait for shutdown signal
	<-ctx.Done()

	appLogger.Info("Shutting down server...")

	// Gracefully shutdown the server
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		appLogger.Fatal("Server forced to shutdown", logger.ErrorField(err))
	}

	appLogger.Info("Server exiting")
}

func main() {
	rootCmd := &cobra.Command{Use: "msm-ia-api"}

	serveCmd.Flags().StringVarP(&configPath, "config", "c", "configs/config.yaml", "Path to the configuration file")

	rootCmd.AddCommand(serveCmd)
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error executing msm-ia-api CLI: %s\n", err)
		os.Exit(1)
	}
}
