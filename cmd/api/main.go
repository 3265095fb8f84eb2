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

	"github.com/sabin/memeforge/internal/api"
	"github.com/sabin/memeforge/internal/config"
	"github.com/sabin/memeforge/internal/logger"
	"github.com/sabin/memeforge/internal/repository"
	"github.com/sabin/memeforge/internal/service"
	"github.com/sabin/memeforge/internal/storage"
)

func main() {
	// Support CONFIG_PATH environment variable for production deployments
	configPath := os.Getenv("CONFIG_PATH")
	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	appLogger := logger.NewDefault()
	logger.SetDefaultLogger(appLogger)
	defer logger.Sync()

	// Initialize database
	db, err := repository.InitDB(&cfg.Database)
	if err != nil {
		logger.Fatal("Failed to initialize database: %v", err)
	}
	generationRepo := repository.NewGenerationRepository(db)

	// Initialize object storage (local disk, MinIO, R2 or S3)
	objectStorage, err := storage.NewStorage(&storage.Config{
		Type:      storage.Type(cfg.Storage.Type),
		LocalDir:  cfg.Storage.LocalDir,
		Endpoint:  cfg.Storage.Endpoint,
		AccessKey: cfg.Storage.AccessKey,
		SecretKey: cfg.Storage.SecretKey,
		UseSSL:    cfg.Storage.UseSSL,
		Bucket:    cfg.Storage.Bucket,
		Region:    cfg.Storage.Region,
		PublicURL: cfg.Storage.PublicURL,
	})
	if err != nil {
		logger.Fatal("Failed to initialize storage: %v", err)
	}

	ctx := context.Background()
	if err := objectStorage.EnsureBucket(ctx); err != nil {
		logger.Fatal("Failed to ensure storage bucket: %v", err)
	}

	// Initialize services
	conceptService := service.NewConceptService(&service.ConceptConfig{
		Model:             cfg.Gemini.TextModel,
		APIKey:            cfg.Gemini.APIKey,
		BaseURL:           cfg.Gemini.BaseURL,
		Timeout:           cfg.Gemini.TextTimeout,
		MaxConcepts:       cfg.Generation.MaxConcepts,
		AspectRatioSuffix: cfg.Generation.AspectRatioSuffix,
	})

	imageService := service.NewImageService(&service.ImageConfig{
		Model:          cfg.Gemini.ImageModel,
		APIKey:         cfg.Gemini.APIKey,
		BaseURL:        cfg.Gemini.BaseURL,
		Timeout:        cfg.Gemini.ImageTimeout,
		PlaceholderURL: cfg.Generation.PlaceholderURL,
	})

	pipeline := service.NewPipelineService(conceptService, imageService, generationRepo)

	extractService := service.NewExtractService(&service.ExtractConfig{
		MaxFileBytes: cfg.Upload.MaxFileBytes,
	})

	// Setup router
	router := api.SetupRouter(&api.Dependencies{
		Pipeline:       pipeline,
		Extractor:      extractService,
		Storage:        objectStorage,
		GenerationRepo: generationRepo,
	}, cfg)

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: router,
	}

	go func() {
		logger.Info("Starting API server on port %d (mode=%s, text_model=%s, image_model=%s)",
			cfg.Server.Port, cfg.Server.Mode, cfg.Gemini.TextModel, cfg.Gemini.ImageModel)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	// Graceful shutdown with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Fatal("Server forced to shutdown: %v", err)
	}

	logger.Info("Server exited")
}
