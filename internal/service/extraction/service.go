package extraction

import (
	"context"
	"mime/multipart"

	"github.com/studyshare/extraction-service/internal/models"
	"github.com/studyshare/extraction-service/pkg/queue"
)

// Service is the job-facing surface of the extraction system: uploads come
// in, text comes out, either synchronously or through the queue.
type Service interface {
	// CreateJob validates and stores the upload and enqueues an extraction task.
	CreateJob(ctx context.Context, file multipart.File, header *multipart.FileHeader, docType models.DocumentType) (*models.ExtractionJob, error)
	// ExtractSync runs the extraction inline, for small files.
	ExtractSync(ctx context.Context, file multipart.File, header *multipart.FileHeader, docType models.DocumentType) (string, error)
	// HandleExtraction executes one queued task on the worker.
	HandleExtraction(ctx context.Context, task *queue.Task) error
	GetJob(ctx context.Context, jobID string) (*models.ExtractionJob, error)
	CancelJob(ctx context.Context, jobID string) error
	// CleanupUploads removes stored uploads older than the retention period.
	CleanupUploads(ctx context.Context) error
}
