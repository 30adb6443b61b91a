package ocr

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/studyshare/extraction-service/internal/models"
)

func TestPlanChunksTenPageDocument(t *testing.T) {
	// 10 pages, 3MB total, 1MiB ceiling, 3 pages/request: average 300KB/page
	// allows 3 pages per chunk, capped by the page ceiling to 3.
	ranges := planChunks(10, 3_000_000, 1<<20, 3)

	assert.Equal(t, []models.PageRange{
		{Start: 1, End: 3},
		{Start: 4, End: 6},
		{Start: 7, End: 9},
		{Start: 10, End: 10},
	}, ranges)
}

func TestPlanChunksHeavyPagesFallToOne(t *testing.T) {
	// Average page size above the ceiling still yields one-page chunks.
	ranges := planChunks(4, 8<<20, 1<<20, 3)

	assert.Len(t, ranges, 4)
	for i, r := range ranges {
		assert.Equal(t, i+1, r.Start)
		assert.Equal(t, i+1, r.End)
	}
}

func TestPlanChunksCoverage(t *testing.T) {
	cases := []struct {
		totalPages int
		totalSize  int64
		maxPayload int64
		maxPages   int
	}{
		{1, 500, 1 << 20, 3},
		{7, 2_000_000, 1 << 20, 3},
		{25, 10_000_000, 1 << 20, 5},
		{100, 1 << 20, 1 << 20, 3},
	}

	for _, tc := range cases {
		ranges := planChunks(tc.totalPages, tc.totalSize, tc.maxPayload, tc.maxPages)

		next := 1
		for _, r := range ranges {
			assert.Equal(t, next, r.Start, "ranges must be consecutive with no gaps or overlaps")
			assert.GreaterOrEqual(t, r.End, r.Start)
			assert.LessOrEqual(t, r.Pages(), tc.maxPages, "no chunk may exceed the page ceiling")
			next = r.End + 1
		}
		assert.Equal(t, tc.totalPages+1, next, "ranges must cover every page exactly once")
	}
}

func TestPlanChunksNoPages(t *testing.T) {
	assert.Nil(t, planChunks(0, 0, 1<<20, 3))
}
