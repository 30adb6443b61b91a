package extractor

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/studyshare/extraction-service/internal/models"
	"github.com/studyshare/extraction-service/pkg/logger"
)

type stubHandwriting struct {
	result *models.ExtractionResult
	err    error
	calls  int
}

func (s *stubHandwriting) Extract(ctx context.Context, data []byte, fileName, mimeType string) (*models.ExtractionResult, error) {
	s.calls++
	return s.result, s.err
}

func newTestService(hw HandwritingExtractor) *Service {
	log := logger.NewTestLogger()
	pdf := NewPDFExtractor(log, nil, 100, 3)
	return NewService(log, pdf, hw)
}

func TestServiceRoutesHandwritten(t *testing.T) {
	hw := &stubHandwriting{result: &models.ExtractionResult{Text: "recognized handwriting"}}
	s := newTestService(hw)

	text := s.Extract(context.Background(), []byte("image bytes"), "notes.jpg", "image/jpeg", models.DocumentTypeHandwritten)
	assert.Equal(t, "recognized handwriting", text)
	assert.Equal(t, 1, hw.calls)
}

func TestServiceHandwrittenFailureBecomesDiagnostic(t *testing.T) {
	hw := &stubHandwriting{err: errors.New("provider quota exceeded")}
	s := newTestService(hw)

	text := s.Extract(context.Background(), []byte("image bytes"), "notes.jpg", "image/jpeg", models.DocumentTypeHandwritten)
	assert.Contains(t, text, "notes.jpg")
	assert.Contains(t, text, "provider quota exceeded")
}

func TestServiceRoutesPlainText(t *testing.T) {
	s := newTestService(&stubHandwriting{})
	content := strings.Repeat("introductory chemistry lecture notes. ", 3)

	text := s.Extract(context.Background(), []byte(content), "notes.txt", "text/plain", models.DocumentTypeTyped)
	assert.Equal(t, content, text)
}

func TestServiceUnsupportedType(t *testing.T) {
	s := newTestService(&stubHandwriting{})

	text := s.Extract(context.Background(), []byte{0x01}, "movie.mp4", "video/mp4", models.DocumentTypeTyped)
	assert.Contains(t, text, "video/mp4")
	assert.Contains(t, text, "movie.mp4")
}

func TestServiceNeverPanics(t *testing.T) {
	s := newTestService(nil) // nil handwriting extractor would panic when dereferenced

	text := s.Extract(context.Background(), nil, "notes.jpg", "image/jpeg", models.DocumentTypeHandwritten)
	assert.Contains(t, text, "notes.jpg")
}
