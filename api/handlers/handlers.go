package handlers

import (
	"github.com/studyshare/extraction-service/internal/service/extraction"
	"github.com/studyshare/extraction-service/pkg/logger"
)

type Handlers struct {
	Extraction *ExtractionHandler
}

func NewHandlers(extractionService extraction.Service, log logger.Logger) *Handlers {
	return &Handlers{
		Extraction: NewExtractionHandler(extractionService, log),
	}
}
