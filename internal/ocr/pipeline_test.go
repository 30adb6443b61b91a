package ocr

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/color"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/disintegration/imaging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/studyshare/extraction-service/config"
	"github.com/studyshare/extraction-service/internal/models"
	"github.com/studyshare/extraction-service/pkg/logger"
)

type fakeSubmitter struct {
	mu      sync.Mutex
	calls   []string
	respond func(fileName string) (string, error)
}

func (f *fakeSubmitter) Submit(ctx context.Context, data []byte, fileName string) (string, error) {
	f.mu.Lock()
	f.calls = append(f.calls, fileName)
	f.mu.Unlock()
	return f.respond(fileName)
}

func testOCRConfig() config.OCRConfig {
	return config.OCRConfig{
		APIKey:             "key",
		EngineID:           2,
		EndpointURL:        "http://example.invalid",
		Language:           "eng",
		MaxPayloadBytes:    1 << 20,
		MaxPagesPerRequest: 3,
		RequestTimeout:     5 * time.Second,
	}
}

// newChunkedPipeline fakes the PDF splitting layer so tests need no real
// PDF fixtures: every chunk is chunkSize bytes and the document has
// totalPages pages.
func newChunkedPipeline(sub Submitter, totalPages, chunkSize int) *Pipeline {
	p := NewPipeline(sub, testOCRConfig(), 2, logger.NewTestLogger())
	p.pageCount = func(data []byte) (int, error) { return totalPages, nil }
	p.splitChunk = func(data []byte, pages models.PageRange) ([]byte, error) {
		return make([]byte, chunkSize), nil
	}
	return p
}

func oversizePDF() []byte {
	// Over the 1MiB ceiling so the chunking path engages.
	return make([]byte, 3_000_000)
}

func TestPipelineDirectSubmitUnderCeiling(t *testing.T) {
	sub := &fakeSubmitter{respond: func(string) (string, error) {
		return "--- Page 1 ---\nhandwritten text", nil
	}}
	p := NewPipeline(sub, testOCRConfig(), 2, logger.NewTestLogger())

	result, err := p.Extract(context.Background(), []byte("small"), "notes.pdf", "application/pdf")
	require.NoError(t, err)
	assert.Equal(t, "--- Page 1 ---\nhandwritten text", result.Text)
	assert.Len(t, sub.calls, 1)
}

func TestPipelineChunksOversizePDF(t *testing.T) {
	sub := &fakeSubmitter{respond: func(fileName string) (string, error) {
		return "text for " + fileName, nil
	}}
	p := newChunkedPipeline(sub, 10, 1024)

	result, err := p.Extract(context.Background(), oversizePDF(), "scan.pdf", "application/pdf")
	require.NoError(t, err)

	assert.Len(t, result.Chunks, 4)
	assert.Equal(t, []models.PageRange{
		{Start: 1, End: 3}, {Start: 4, End: 6}, {Start: 7, End: 9}, {Start: 10, End: 10},
	}, result.PagesCovered)

	// Reassembly is in page order regardless of completion order.
	first := strings.Index(result.Text, "=== Pages 1-3 ===")
	last := strings.Index(result.Text, "=== Pages 10-10 ===")
	assert.GreaterOrEqual(t, first, 0)
	assert.Greater(t, last, first)
}

func TestPipelinePartialFailureIsolation(t *testing.T) {
	sub := &fakeSubmitter{respond: func(fileName string) (string, error) {
		if strings.Contains(fileName, "pages-4-6") {
			return "", errors.New("request timed out")
		}
		return "recognized text", nil
	}}
	p := newChunkedPipeline(sub, 10, 1024)

	result, err := p.Extract(context.Background(), oversizePDF(), "scan.pdf", "application/pdf")
	require.NoError(t, err)

	assert.Contains(t, result.Text, "=== Pages 1-3 ===")
	assert.Contains(t, result.Text, "[Pages 4-6: Extraction failed - request timed out]")
	assert.Contains(t, result.Text, "=== Pages 7-9 ===")
	assert.Equal(t, models.ChunkStateFailed, result.Chunks[1].State)
	assert.NotContains(t, result.PagesCovered, models.PageRange{Start: 4, End: 6})
}

func TestPipelineSkipsOversizeChunk(t *testing.T) {
	sub := &fakeSubmitter{respond: func(string) (string, error) {
		return "recognized text", nil
	}}
	p := newChunkedPipeline(sub, 10, 2<<20) // every chunk still over the ceiling

	result, err := p.Extract(context.Background(), oversizePDF(), "scan.pdf", "application/pdf")
	require.NoError(t, err)

	assert.Empty(t, sub.calls, "oversize chunks must not be submitted")
	for _, chunk := range result.Chunks {
		assert.Equal(t, models.ChunkStateSkipped, chunk.State)
	}
	assert.Contains(t, result.Text, "[Pages 1-3: Skipped - ")
}

func TestPipelineProviderErrorAborts(t *testing.T) {
	sub := &fakeSubmitter{respond: func(string) (string, error) {
		return "", &ProviderError{StatusCode: 429, Message: "quota exceeded"}
	}}
	p := newChunkedPipeline(sub, 10, 1024)

	_, err := p.Extract(context.Background(), oversizePDF(), "scan.pdf", "application/pdf")
	var provErr *ProviderError
	require.ErrorAs(t, err, &provErr)
	assert.Equal(t, 429, provErr.StatusCode)
}

func TestPipelineCompressesOversizeImage(t *testing.T) {
	sub := &fakeSubmitter{respond: func(string) (string, error) {
		return "--- Page 1 ---\nhandwriting", nil
	}}
	p := NewPipeline(sub, testOCRConfig(), 2, logger.NewTestLogger())

	img := imaging.New(3000, 400, color.White)
	var buf bytes.Buffer
	require.NoError(t, imaging.Encode(&buf, img, imaging.BMP)) // uncompressed, well over 1MiB

	result, err := p.Extract(context.Background(), buf.Bytes(), "photo.bmp", "image/bmp")
	require.NoError(t, err)
	assert.Equal(t, "--- Page 1 ---\nhandwriting", result.Text)
	require.Len(t, sub.calls, 1)
}

func TestCompressImageDownscalesWideImages(t *testing.T) {
	img := imaging.New(3000, 600, color.NRGBA{R: 200, G: 200, B: 200, A: 255})
	var buf bytes.Buffer
	require.NoError(t, imaging.Encode(&buf, img, imaging.PNG))

	out, err := compressImage(buf.Bytes())
	require.NoError(t, err)

	decoded, _, err := image.Decode(bytes.NewReader(out))
	require.NoError(t, err)
	assert.Equal(t, 2400, decoded.Bounds().Dx())
}

func TestCompressImageNeverUpscales(t *testing.T) {
	img := imaging.New(800, 600, color.NRGBA{R: 10, G: 20, B: 30, A: 255})
	var buf bytes.Buffer
	require.NoError(t, imaging.Encode(&buf, img, imaging.PNG))

	out, err := compressImage(buf.Bytes())
	require.NoError(t, err)

	decoded, _, err := image.Decode(bytes.NewReader(out))
	require.NoError(t, err)
	assert.Equal(t, 800, decoded.Bounds().Dx())
}

func TestPipelineChunkNamesCarryPageRanges(t *testing.T) {
	sub := &fakeSubmitter{respond: func(string) (string, error) { return "text", nil }}
	p := newChunkedPipeline(sub, 6, 1024)

	_, err := p.Extract(context.Background(), oversizePDF(), "scan.pdf", "application/pdf")
	require.NoError(t, err)

	joined := fmt.Sprint(sub.calls)
	assert.Contains(t, joined, "pages-1-3")
	assert.Contains(t, joined, "pages-4-6")
}
