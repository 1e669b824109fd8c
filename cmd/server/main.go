package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"caseatlas-backend/config"
	"caseatlas-backend/handlers"
	"caseatlas-backend/logging"
	"caseatlas-backend/repository"
	"caseatlas-backend/service"
	"caseatlas-backend/storage"

	"github.com/gin-gonic/gin"
	"github.com/google/generative-ai-go/genai"
	"go.uber.org/zap"
	"google.golang.org/api/option"
)

func main() {
	foundEnv := config.LoadDotEnv()

	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	logger, err := logging.New(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		panic(err)
	}
	defer func() { _ = logger.Sync() }()

	if !foundEnv {
		logger.Warn("no .env file found, using environment variables")
	}

	ctx := context.Background()

	// Initialize database connection
	db, err := repository.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.Fatal("failed to initialize Postgres", zap.Error(err))
	}
	defer db.Close()
	logger.Info("postgres connection established")

	// Initialize storage
	caseStorage, err := storage.NewStorage(cfg.Storage)
	if err != nil {
		logger.Fatal("failed to initialize storage", zap.Error(err))
	}
	logger.Info("storage initialized", zap.String("type", string(cfg.Storage.Type)))

	// Initialize Gemini client
	geminiClient, err := initGemini(ctx, cfg, logger)
	if err != nil {
		logger.Fatal("failed to initialize Gemini", zap.Error(err))
	}
	defer geminiClient.Close()

	// Initialize repositories
	recordRepo := repository.NewCaseRecordRepository(db)
	jobRepo := repository.NewExtractionJobRepository(db)

	// Initialize services
	extractionService := service.NewExtractionService(
		service.ExtractionWithStorage(caseStorage),
		service.ExtractionWithCaseRecordRepository(recordRepo),
		service.ExtractionWithJobRepository(jobRepo),
		service.ExtractionWithExtractor(service.NewGeminiExtractor(
			geminiClient,
			cfg.GeminiModel,
			service.ExtractorWithLogger(logger.Named("gemini")),
		)),
		service.ExtractionWithLogger(logger.Named("extraction")),
	)

	batchService := service.NewBatchService(
		service.BatchWithExtractionService(extractionService),
		service.BatchWithConcurrency(cfg.BatchConcurrency),
		service.BatchWithLogger(logger.Named("batch")),
	)

	atlasService := service.NewAtlasService(
		service.AtlasWithRecords(recordRepo),
		service.AtlasWithLogger(logger.Named("atlas")),
	)

	// Setup Gin router
	r := gin.New()
	r.Use(handlers.Recovery(logger), handlers.RequestLogger(logger.Named("http")))

	handlers.RegisterRoutes(r,
		handlers.NewCaseHandler(extractionService, logger),
		handlers.NewFileHandler(extractionService, logger),
		handlers.NewBatchHandler(batchService, logger),
		handlers.NewAtlasHandler(atlasService, logger),
	)

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: r,
	}

	go func() {
		logger.Info("server starting", zap.String("port", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown failed", zap.Error(err))
	}
}

func initGemini(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*genai.Client, error) {
	if cfg.GeminiAPIKey == "" {
		logger.Warn("GEMINI_API_KEY not set")
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(cfg.GeminiAPIKey))
	if err != nil {
		return nil, err
	}

	logger.Info("gemini client initialized", zap.String("model", cfg.GeminiModel))
	return client, nil
}
