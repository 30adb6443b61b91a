package extractor

import (
	"context"
	"fmt"

	"github.com/studyshare/extraction-service/internal/models"
	"github.com/studyshare/extraction-service/pkg/logger"
)

// HandwritingExtractor runs the remote OCR pipeline for handwritten uploads.
type HandwritingExtractor interface {
	Extract(ctx context.Context, data []byte, fileName, mimeType string) (*models.ExtractionResult, error)
}

// Service routes an upload to the right extractor and always produces text.
// When extraction cannot succeed the returned text is a diagnostic message;
// callers never see an error from Extract.
type Service struct {
	logger      logger.Logger
	pdf         *PDFExtractor
	word        *WordExtractor
	powerPoint  *PowerPointExtractor
	plainText   *PlainTextExtractor
	handwriting HandwritingExtractor
}

func NewService(log logger.Logger, pdf *PDFExtractor, handwriting HandwritingExtractor) *Service {
	return &Service{
		logger:      log,
		pdf:         pdf,
		word:        NewWordExtractor(log),
		powerPoint:  NewPowerPointExtractor(log),
		plainText:   NewPlainTextExtractor(),
		handwriting: handwriting,
	}
}

func (s *Service) Extract(ctx context.Context, data []byte, fileName, mimeType string, docType models.DocumentType) (text string) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("Extraction panicked",
				logger.String("file", fileName),
				logger.String("mime_type", mimeType),
				logger.Any("panic", r),
			)
			text = extractionFailedMessage(fileName, fmt.Errorf("internal failure: %v", r))
		}
	}()

	if docType == models.DocumentTypeHandwritten {
		return s.extractHandwritten(ctx, data, fileName, mimeType)
	}

	var err error
	switch Classify(mimeType) {
	case StrategyPDF:
		text, err = s.pdf.Extract(ctx, data, fileName)
	case StrategyWord:
		text, err = s.word.Extract(data, fileName)
	case StrategyPowerPoint:
		text, err = s.powerPoint.Extract(data, fileName)
	case StrategyPlainText:
		text, err = s.plainText.Extract(data, fileName)
	case StrategyUnsupported:
		return unsupportedMessage(fileName, mimeType)
	}
	if err != nil {
		s.logger.Error("Extraction failed",
			logger.String("file", fileName),
			logger.String("mime_type", mimeType),
			logger.Error(err),
		)
		return extractionFailedMessage(fileName, err)
	}
	return text
}

func (s *Service) extractHandwritten(ctx context.Context, data []byte, fileName, mimeType string) string {
	result, err := s.handwriting.Extract(ctx, data, fileName, mimeType)
	if err != nil {
		s.logger.Error("Handwritten OCR failed",
			logger.String("file", fileName),
			logger.Error(err),
		)
		return extractionFailedMessage(fileName, err)
	}
	return result.Text
}
