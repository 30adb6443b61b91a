package ocr

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/studyshare/extraction-service/config"
	"github.com/studyshare/extraction-service/internal/models"
	"github.com/studyshare/extraction-service/pkg/logger"
)

// Submitter sends one document or chunk to the remote OCR provider.
type Submitter interface {
	Submit(ctx context.Context, data []byte, fileName string) (string, error)
}

// Pipeline satisfies the remote provider's payload and page-count ceilings:
// oversized images are recompressed, oversized PDFs are split into page-range
// chunks that are submitted under a bounded concurrency limit and reassembled
// in page order. A failing chunk never aborts its siblings; only fatal
// provider errors abort the call.
type Pipeline struct {
	client      Submitter
	cfg         config.OCRConfig
	concurrency int
	logger      logger.Logger

	// Overridable in tests to avoid real PDF fixtures.
	splitChunk func(data []byte, pages models.PageRange) ([]byte, error)
	pageCount  func(data []byte) (int, error)
}

func NewPipeline(client Submitter, cfg config.OCRConfig, concurrency int, log logger.Logger) *Pipeline {
	if concurrency <= 0 {
		concurrency = 2
	}
	return &Pipeline{
		client:      client,
		cfg:         cfg,
		concurrency: concurrency,
		logger:      log,
		splitChunk:  buildChunk,
		pageCount:   countPages,
	}
}

func (p *Pipeline) Extract(ctx context.Context, data []byte, fileName, mimeType string) (*models.ExtractionResult, error) {
	if int64(len(data)) <= p.cfg.MaxPayloadBytes {
		return p.submitWhole(ctx, data, fileName)
	}

	switch {
	case strings.HasPrefix(mimeType, "image/"):
		return p.extractOversizeImage(ctx, data, fileName)
	case mimeType == "application/pdf":
		return p.extractOversizePDF(ctx, data, fileName)
	default:
		// No way to shrink other formats; the provider is the final arbiter.
		return p.submitWhole(ctx, data, fileName)
	}
}

func (p *Pipeline) submitWhole(ctx context.Context, data []byte, fileName string) (*models.ExtractionResult, error) {
	text, err := p.client.Submit(ctx, data, fileName)
	if err != nil {
		return nil, err
	}
	return &models.ExtractionResult{Text: text}, nil
}

// extractOversizeImage recompresses the image and retries the size check
// once. A still-oversized result is submitted anyway; compression is
// best-effort, not a guarantee.
func (p *Pipeline) extractOversizeImage(ctx context.Context, data []byte, fileName string) (*models.ExtractionResult, error) {
	compressed, err := compressImage(data)
	if err != nil {
		p.logger.Warn("Image compression failed, submitting original",
			logger.String("file", fileName),
			logger.Error(err),
		)
		return p.submitWhole(ctx, data, fileName)
	}

	if int64(len(compressed)) > p.cfg.MaxPayloadBytes {
		p.logger.Warn("Image still exceeds payload ceiling after compression, submitting anyway",
			logger.String("file", fileName),
			logger.Int("compressed_bytes", len(compressed)),
			logger.Int64("max_payload_bytes", p.cfg.MaxPayloadBytes),
		)
	}
	return p.submitWhole(ctx, compressed, fileName)
}

func (p *Pipeline) extractOversizePDF(ctx context.Context, data []byte, fileName string) (*models.ExtractionResult, error) {
	totalPages, err := p.pageCount(data)
	if err != nil {
		return nil, fmt.Errorf("cannot split %s: %w", fileName, err)
	}

	ranges := planChunks(totalPages, int64(len(data)), p.cfg.MaxPayloadBytes, p.cfg.MaxPagesPerRequest)
	if len(ranges) == 0 {
		return nil, fmt.Errorf("cannot split %s: document has no pages", fileName)
	}

	chunks := make([]models.ExtractionChunk, len(ranges))
	statuses := make([]models.ChunkStatus, len(ranges))
	texts := make([]string, len(ranges))
	for i, pages := range ranges {
		chunks[i] = models.ExtractionChunk{Pages: pages, Sequence: i}
		statuses[i] = models.ChunkStatus{Sequence: i, Pages: pages}
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.concurrency)
	for i := range chunks {
		g.Go(func() error {
			return p.processChunk(gctx, data, fileName, &chunks[i], &statuses[i], &texts[i])
		})
	}
	if err := g.Wait(); err != nil {
		// Only fatal provider errors (or cancellation) travel this path;
		// per-chunk failures are recorded in statuses instead.
		return nil, err
	}

	return p.assemble(statuses, texts), nil
}

func (p *Pipeline) processChunk(ctx context.Context, source []byte, fileName string, chunk *models.ExtractionChunk, status *models.ChunkStatus, text *string) error {
	data, err := p.splitChunk(source, chunk.Pages)
	if err != nil {
		p.logger.Warn("Failed to build chunk",
			logger.String("file", fileName),
			logger.String("pages", chunk.Pages.String()),
			logger.Error(err),
		)
		status.State = models.ChunkStateFailed
		status.Reason = err.Error()
		return nil
	}

	if int64(len(data)) > p.cfg.MaxPayloadBytes {
		p.logger.Warn("Chunk exceeds payload ceiling, skipping",
			logger.String("file", fileName),
			logger.String("pages", chunk.Pages.String()),
			logger.Int("chunk_bytes", len(data)),
		)
		status.State = models.ChunkStateSkipped
		status.Reason = fmt.Sprintf("chunk size %d exceeds the %d byte limit", len(data), p.cfg.MaxPayloadBytes)
		return nil
	}
	chunk.Data = data

	chunkName := fmt.Sprintf("%s.pages-%s.pdf", strings.TrimSuffix(fileName, ".pdf"), chunk.Pages)
	result, err := p.client.Submit(ctx, chunk.Data, chunkName)
	if err != nil {
		var provErr *ProviderError
		if errors.As(err, &provErr) {
			return err
		}
		p.logger.Warn("Chunk submission failed",
			logger.String("file", fileName),
			logger.String("pages", chunk.Pages.String()),
			logger.Error(err),
		)
		status.State = models.ChunkStateFailed
		status.Reason = err.Error()
		return nil
	}

	status.State = models.ChunkStateOK
	*text = result
	return nil
}

// assemble concatenates chunk results in page order. Failed and skipped
// chunks contribute an inline bracketed note instead of text, so the reader
// can see which page ranges are missing and why.
func (p *Pipeline) assemble(statuses []models.ChunkStatus, texts []string) *models.ExtractionResult {
	result := &models.ExtractionResult{Chunks: statuses}

	var sections []string
	for i, status := range statuses {
		switch status.State {
		case models.ChunkStateOK:
			sections = append(sections, fmt.Sprintf("=== Pages %s ===\n%s", status.Pages, texts[i]))
			result.PagesCovered = append(result.PagesCovered, status.Pages)
		case models.ChunkStateSkipped:
			sections = append(sections, fmt.Sprintf("[Pages %s: Skipped - %s]", status.Pages, status.Reason))
		default:
			sections = append(sections, fmt.Sprintf("[Pages %s: Extraction failed - %s]", status.Pages, status.Reason))
		}
	}

	result.Text = strings.Join(sections, "\n\n")
	return result
}
