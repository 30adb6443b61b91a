package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/studyshare/extraction-service/api/handlers"
	"github.com/studyshare/extraction-service/api/routes"
	"github.com/studyshare/extraction-service/config"
	"github.com/studyshare/extraction-service/internal/extractor"
	"github.com/studyshare/extraction-service/internal/ocr"
	"github.com/studyshare/extraction-service/internal/service/extraction"
	"github.com/studyshare/extraction-service/pkg/logger"
	"github.com/studyshare/extraction-service/pkg/queue"
	"github.com/studyshare/extraction-service/pkg/storage"
)

func main() {
	log, err := logger.NewLogger(
		logger.WithLevel("info"),
		logger.WithEncoding("json"),
		logger.WithOutputPaths([]string{"stdout", "logs/app.log"}),
	)
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	cfg, err := config.Load(os.Getenv("CONFIG_FILE"))
	if err != nil {
		log.Fatal("Failed to load configuration", logger.Error(err))
	}

	store, err := storage.New(cfg.Storage, log)
	if err != nil {
		log.Fatal("Failed to initialize storage", logger.Error(err))
	}

	q, err := queue.NewAsynqQueue(queue.Config{
		RedisAddr: cfg.Redis.Addr,
		RedisDB:   cfg.Redis.DB,
	})
	if err != nil {
		log.Fatal("Failed to initialize queue", logger.Error(err))
	}

	extractionService := extraction.NewService(
		buildExtractor(cfg, log), q, store, log,
		extraction.Config{MaxFileSize: cfg.Extraction.MaxUploadSize},
	)

	h := handlers.NewHandlers(extractionService, log)
	r := gin.New()
	r.Use(gin.Recovery())
	routes.SetupRoutes(r, h)

	srv := &http.Server{
		Addr:    cfg.Server.Addr,
		Handler: r,
	}

	go func() {
		log.Info("Server starting", logger.String("addr", cfg.Server.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("Server error", logger.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", logger.Error(err))
	}
}

func buildExtractor(cfg *config.Config, log logger.Logger) *extractor.Service {
	pipeline := ocr.NewPipeline(
		ocr.NewClient(cfg.OCR, log.Named("ocr-client")),
		cfg.OCR,
		cfg.Extraction.ChunkConcurrency,
		log.Named("ocr-pipeline"),
	)
	pageOCR := extractor.NewTesseractPageOCR(log.Named("local-ocr"), cfg.Extraction.TesseractLanguage)
	pdfExtractor := extractor.NewPDFExtractor(
		log.Named("pdf"), pageOCR,
		cfg.Extraction.LowTextThreshold, cfg.Extraction.FallbackMaxPages,
	)
	return extractor.NewService(log.Named("extractor"), pdfExtractor, pipeline)
}
