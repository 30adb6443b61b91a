package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/studyshare/extraction-service/config"
	"github.com/studyshare/extraction-service/internal/extractor"
	"github.com/studyshare/extraction-service/internal/ocr"
	"github.com/studyshare/extraction-service/internal/service/extraction"
	"github.com/studyshare/extraction-service/pkg/logger"
	"github.com/studyshare/extraction-service/pkg/queue"
	"github.com/studyshare/extraction-service/pkg/storage"
	"github.com/studyshare/extraction-service/pkg/worker"
)

func main() {
	log, err := logger.NewLogger(
		logger.WithLevel("info"),
		logger.WithEncoding("json"),
		logger.WithOutputPaths([]string{"stdout", "logs/worker.log"}),
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

	w, err := worker.NewExtractionWorker(&worker.Config{
		RedisAddr:   cfg.Redis.Addr,
		RedisDB:     cfg.Redis.DB,
		Concurrency: cfg.Redis.Concurrency,
	}, extractionService, log)
	if err != nil {
		log.Fatal("Failed to create extraction worker", logger.Error(err))
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := w.Start(ctx); err != nil {
		log.Fatal("Failed to start worker", logger.Error(err))
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan

	log.Info("Shutting down worker...")
	w.Stop()
	log.Info("Worker stopped")
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
