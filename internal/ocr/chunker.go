package ocr

import (
	"bytes"
	"fmt"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"

	"github.com/studyshare/extraction-service/internal/models"
)

// planChunks partitions the pages of a document into consecutive ranges that
// respect the provider's payload and page-count ceilings. Pages per chunk is
// derived from the average page size; the last range may be shorter. The
// ranges cover every page exactly once, in order.
func planChunks(totalPages int, totalSize, maxPayloadBytes int64, maxPagesPerRequest int) []models.PageRange {
	if totalPages <= 0 {
		return nil
	}

	averageBytesPerPage := totalSize / int64(totalPages)
	pagesPerChunk := maxPagesPerRequest
	if averageBytesPerPage > 0 {
		if bySize := int(maxPayloadBytes / averageBytesPerPage); bySize < pagesPerChunk {
			pagesPerChunk = bySize
		}
	}
	if pagesPerChunk < 1 {
		pagesPerChunk = 1
	}

	var ranges []models.PageRange
	for start := 1; start <= totalPages; start += pagesPerChunk {
		end := start + pagesPerChunk - 1
		if end > totalPages {
			end = totalPages
		}
		ranges = append(ranges, models.PageRange{Start: start, End: end})
	}
	return ranges
}

func relaxedConfiguration() *model.Configuration {
	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed
	return conf
}

// buildChunk materializes a sub-document containing only the given page range.
func buildChunk(data []byte, pages models.PageRange) ([]byte, error) {
	var buf bytes.Buffer
	if err := api.Trim(bytes.NewReader(data), &buf, []string{pages.String()}, relaxedConfiguration()); err != nil {
		return nil, fmt.Errorf("failed to build chunk for pages %s: %w", pages, err)
	}
	return buf.Bytes(), nil
}

// countPages returns the page count of a PDF buffer.
func countPages(data []byte) (int, error) {
	n, err := api.PageCount(bytes.NewReader(data), relaxedConfiguration())
	if err != nil {
		return 0, fmt.Errorf("failed to count pages: %w", err)
	}
	return n, nil
}
