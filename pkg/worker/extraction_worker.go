package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/hibiken/asynq"

	"github.com/studyshare/extraction-service/internal/service/extraction"
	"github.com/studyshare/extraction-service/pkg/logger"
	"github.com/studyshare/extraction-service/pkg/queue"
)

// ExtractionWorker consumes extraction tasks from the queue and runs them
// through the extraction service.
type ExtractionWorker struct {
	BaseWorker
	service extraction.Service
}

func NewExtractionWorker(cfg *Config, svc extraction.Service, log logger.Logger) (*ExtractionWorker, error) {
	if cfg.Queues == nil {
		cfg.Queues = map[string]int{
			"critical": 6,
			"default":  3,
			"low":      1,
		}
	}

	server := asynq.NewServer(
		asynq.RedisClientOpt{Addr: cfg.RedisAddr, Password: cfg.RedisPassword, DB: cfg.RedisDB},
		asynq.Config{
			Concurrency: cfg.Concurrency,
			Queues:      cfg.Queues,
			RetryDelayFunc: func(n int, err error, task *asynq.Task) time.Duration {
				return time.Duration(n) * time.Minute
			},
		},
	)

	w := &ExtractionWorker{
		BaseWorker: BaseWorker{
			server:   server,
			mux:      asynq.NewServeMux(),
			logger:   log,
			stopChan: make(chan struct{}),
		},
		service: svc,
	}
	w.mux.HandleFunc(queue.TaskTypeExtraction, w.handleExtraction)
	return w, nil
}

func (w *ExtractionWorker) handleExtraction(ctx context.Context, t *asynq.Task) error {
	var task queue.Task
	if err := json.Unmarshal(t.Payload(), &task); err != nil {
		w.logger.Error("Failed to unmarshal task",
			logger.Error(err),
			logger.String("payload", string(t.Payload())),
		)
		return fmt.Errorf("failed to unmarshal task: %w", err)
	}

	w.logger.Info("Processing extraction task",
		logger.String("jobId", task.ID),
		logger.String("filename", task.Payload.FileName),
	)

	if task.ID == "" || task.Payload.FileKey == "" {
		return fmt.Errorf("invalid task data: missing required fields")
	}

	return w.service.HandleExtraction(ctx, &task)
}

func (w *ExtractionWorker) Start(ctx context.Context) error {
	go func() {
		if err := w.server.Run(w.mux); err != nil {
			w.logger.Error("Worker server stopped", logger.Error(err))
		}
	}()

	go func() {
		<-ctx.Done()
		w.Stop()
	}()

	return nil
}
