package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/studyshare/extraction-service/internal/models"
	"github.com/studyshare/extraction-service/internal/service/extraction"
	"github.com/studyshare/extraction-service/pkg/logger"
)

type ExtractionHandler struct {
	service extraction.Service
	logger  logger.Logger
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

func NewExtractionHandler(service extraction.Service, log logger.Logger) *ExtractionHandler {
	return &ExtractionHandler{
		service: service,
		logger:  log,
	}
}

// Create accepts an upload and enqueues an extraction job.
func (h *ExtractionHandler) Create(c *gin.Context) {
	file, header, err := c.Request.FormFile("file")
	if err != nil {
		h.handleError(c, http.StatusBadRequest, "Invalid file upload", err)
		return
	}
	defer file.Close()

	docType := models.ParseDocumentType(c.PostForm("documentType"))

	job, err := h.service.CreateJob(c.Request.Context(), file, header, docType)
	if err != nil {
		h.handleError(c, http.StatusBadRequest, "Failed to create extraction job", err)
		return
	}

	c.JSON(http.StatusAccepted, gin.H{
		"jobId":        job.ID,
		"status":       string(job.Status),
		"filename":     job.FileName,
		"documentType": string(job.DocumentType),
		"createdAt":    job.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
	})
}

// ExtractSync runs the extraction inline and returns the text directly.
// Intended for small files where queueing adds no value.
func (h *ExtractionHandler) ExtractSync(c *gin.Context) {
	file, header, err := c.Request.FormFile("file")
	if err != nil {
		h.handleError(c, http.StatusBadRequest, "Invalid file upload", err)
		return
	}
	defer file.Close()

	docType := models.ParseDocumentType(c.PostForm("documentType"))

	text, err := h.service.ExtractSync(c.Request.Context(), file, header, docType)
	if err != nil {
		h.handleError(c, http.StatusBadRequest, "Failed to extract text", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"filename": header.Filename,
		"text":     text,
	})
}

// GetJob returns job status, plus the extracted text once completed.
func (h *ExtractionHandler) GetJob(c *gin.Context) {
	jobID := c.Param("jobId")
	if jobID == "" {
		h.handleError(c, http.StatusBadRequest, "Job ID is required", nil)
		return
	}

	job, err := h.service.GetJob(c.Request.Context(), jobID)
	if err != nil {
		h.handleError(c, http.StatusNotFound, "Failed to get job", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"jobId":     job.ID,
		"status":    string(job.Status),
		"progress":  job.Progress,
		"text":      job.Text,
		"error":     job.Error,
		"createdAt": job.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
		"updatedAt": job.UpdatedAt.Format("2006-01-02T15:04:05Z07:00"),
	})
}

// Cancel removes a pending job from the queue.
func (h *ExtractionHandler) Cancel(c *gin.Context) {
	jobID := c.Param("jobId")
	if jobID == "" {
		h.handleError(c, http.StatusBadRequest, "Job ID is required", nil)
		return
	}

	if err := h.service.CancelJob(c.Request.Context(), jobID); err != nil {
		h.handleError(c, http.StatusInternalServerError, "Failed to cancel job", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Job cancelled successfully",
		"jobId":   jobID,
	})
}

func (h *ExtractionHandler) handleError(c *gin.Context, status int, message string, err error) {
	h.logger.Error(message,
		logger.String("path", c.Request.URL.Path),
		logger.Error(err),
	)

	response := ErrorResponse{Message: message}
	if err != nil {
		response.Error = err.Error()
	}
	c.JSON(status, response)
}
