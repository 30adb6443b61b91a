package extraction

import (
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/studyshare/extraction-service/internal/models"
	"github.com/studyshare/extraction-service/pkg/logger"
	"github.com/studyshare/extraction-service/pkg/queue"
	"github.com/studyshare/extraction-service/pkg/storage"
)

// TextExtractor is the orchestrator boundary: it always returns text, never
// an error. Diagnostic messages stand in for content when extraction cannot
// succeed.
type TextExtractor interface {
	Extract(ctx context.Context, data []byte, fileName, mimeType string, docType models.DocumentType) string
}

type Config struct {
	MaxFileSize     int64
	RetentionPeriod time.Duration
	QueuePriority   int
}

type service struct {
	extractor TextExtractor
	queue     queue.Queue
	storage   storage.Storage
	validator *uploadValidator
	logger    logger.Logger
	cfg       Config
}

func NewService(extractor TextExtractor, q queue.Queue, store storage.Storage, log logger.Logger, cfg Config) Service {
	if cfg.MaxFileSize <= 0 {
		cfg.MaxFileSize = 50 * 1024 * 1024
	}
	if cfg.RetentionPeriod <= 0 {
		cfg.RetentionPeriod = 24 * time.Hour
	}
	return &service{
		extractor: extractor,
		queue:     q,
		storage:   store,
		validator: newUploadValidator(cfg.MaxFileSize),
		logger:    log,
		cfg:       cfg,
	}
}

func (s *service) CreateJob(ctx context.Context, file multipart.File, header *multipart.FileHeader, docType models.DocumentType) (*models.ExtractionJob, error) {
	mimeType, err := s.validator.validate(file, header)
	if err != nil {
		s.logger.Warn("Upload rejected",
			logger.String("filename", header.Filename),
			logger.Error(err),
		)
		return nil, err
	}

	jobID := uuid.New().String()
	fileKey := fmt.Sprintf("uploads/%s%s", jobID, filepath.Ext(header.Filename))

	if _, err := s.storage.Store(ctx, file, fileKey); err != nil {
		return nil, fmt.Errorf("failed to store upload: %w", err)
	}

	now := time.Now()
	task := &queue.Task{
		ID:       jobID,
		Type:     queue.TaskTypeExtraction,
		Priority: s.cfg.QueuePriority,
		Payload: queue.ExtractionPayload{
			FileKey:      fileKey,
			FileName:     header.Filename,
			MimeType:     mimeType,
			DocumentType: string(docType),
		},
		Metadata: map[string]string{
			"filename": header.Filename,
			"size":     fmt.Sprintf("%d", header.Size),
		},
		CreatedAt: now,
	}
	if err := s.queue.Enqueue(ctx, task); err != nil {
		// The stored upload would otherwise leak until retention cleanup.
		if delErr := s.storage.Delete(ctx, fileKey); delErr != nil {
			s.logger.Error("Failed to remove orphaned upload",
				logger.String("fileKey", fileKey),
				logger.Error(delErr),
			)
		}
		return nil, fmt.Errorf("failed to enqueue extraction: %w", err)
	}

	s.logger.Info("Extraction job created",
		logger.String("jobId", jobID),
		logger.String("filename", header.Filename),
		logger.String("documentType", string(docType)),
	)

	return &models.ExtractionJob{
		ID:           jobID,
		Status:       models.StatusPending,
		FileName:     header.Filename,
		DocumentType: docType,
		Metadata:     task.Metadata,
		CreatedAt:    now,
	}, nil
}

func (s *service) ExtractSync(ctx context.Context, file multipart.File, header *multipart.FileHeader, docType models.DocumentType) (string, error) {
	mimeType, err := s.validator.validate(file, header)
	if err != nil {
		return "", err
	}

	data, err := io.ReadAll(file)
	if err != nil {
		return "", fmt.Errorf("failed to read upload: %w", err)
	}

	return s.extractor.Extract(ctx, data, header.Filename, mimeType, docType), nil
}

func (s *service) HandleExtraction(ctx context.Context, task *queue.Task) error {
	if task == nil || task.ID == "" || task.Payload.FileKey == "" {
		return fmt.Errorf("invalid task: missing required data")
	}

	s.logger.Info("Processing extraction task",
		logger.String("jobId", task.ID),
		logger.String("filename", task.Payload.FileName),
	)

	reader, err := s.storage.Get(ctx, task.Payload.FileKey)
	if err != nil {
		return s.failJob(ctx, task, fmt.Errorf("failed to get upload: %w", err))
	}
	data, err := io.ReadAll(reader)
	reader.Close()
	if err != nil {
		return s.failJob(ctx, task, fmt.Errorf("failed to read upload: %w", err))
	}

	text := s.extractor.Extract(ctx, data, task.Payload.FileName,
		task.Payload.MimeType, models.ParseDocumentType(task.Payload.DocumentType))

	if err := s.queue.SaveFinalStatus(ctx, &queue.TaskStatus{
		TaskID:     task.ID,
		Status:     "completed",
		Progress:   1.0,
		Text:       text,
		StartedAt:  task.CreatedAt,
		FinishedAt: time.Now(),
	}); err != nil {
		return fmt.Errorf("failed to save result: %w", err)
	}

	// The stored upload is no longer needed once the text is saved.
	if err := s.storage.Delete(ctx, task.Payload.FileKey); err != nil {
		s.logger.Warn("Failed to delete processed upload",
			logger.String("fileKey", task.Payload.FileKey),
			logger.Error(err),
		)
	}

	s.logger.Info("Extraction task completed",
		logger.String("jobId", task.ID),
		logger.Int("textLength", len(text)),
	)
	return nil
}

func (s *service) failJob(ctx context.Context, task *queue.Task, cause error) error {
	if err := s.queue.SaveFinalStatus(ctx, &queue.TaskStatus{
		TaskID:     task.ID,
		Status:     "failed",
		Error:      cause.Error(),
		StartedAt:  task.CreatedAt,
		FinishedAt: time.Now(),
	}); err != nil {
		s.logger.Error("Failed to save failure status",
			logger.String("jobId", task.ID),
			logger.Error(err),
		)
	}
	return cause
}

func (s *service) GetJob(ctx context.Context, jobID string) (*models.ExtractionJob, error) {
	status, err := s.queue.GetTaskStatus(ctx, jobID)
	if err != nil {
		return nil, fmt.Errorf("failed to get job status: %w", err)
	}

	var jobStatus models.JobStatus
	switch status.Status {
	case "pending":
		jobStatus = models.StatusPending
	case "running":
		jobStatus = models.StatusRunning
	case "completed":
		jobStatus = models.StatusCompleted
	case "failed":
		jobStatus = models.StatusFailed
	case "cancelled":
		jobStatus = models.StatusCancelled
	default:
		jobStatus = models.StatusPending
	}

	return &models.ExtractionJob{
		ID:        status.TaskID,
		Status:    jobStatus,
		Progress:  status.Progress,
		Text:      status.Text,
		Error:     status.Error,
		CreatedAt: status.StartedAt,
		UpdatedAt: status.FinishedAt,
	}, nil
}

func (s *service) CancelJob(ctx context.Context, jobID string) error {
	if err := s.queue.CancelTask(ctx, jobID); err != nil {
		return fmt.Errorf("failed to cancel job: %w", err)
	}
	s.logger.Info("Job cancelled", logger.String("jobId", jobID))
	return nil
}

func (s *service) CleanupUploads(ctx context.Context) error {
	threshold := time.Now().Add(-s.cfg.RetentionPeriod)
	if err := s.storage.CleanupBefore(ctx, threshold); err != nil {
		return fmt.Errorf("failed to cleanup storage: %w", err)
	}
	s.logger.Info("Completed uploads cleanup", logger.Time("threshold", threshold))
	return nil
}
