package models

import (
	"fmt"
	"time"
)

// DocumentType tells the orchestrator which extraction path to take.
type DocumentType string

const (
	DocumentTypeTyped       DocumentType = "typed"
	DocumentTypeHandwritten DocumentType = "handwritten"
)

// ParseDocumentType maps the caller-supplied string onto a known type.
// Anything unrecognized falls back to typed, matching the upload form default.
func ParseDocumentType(s string) DocumentType {
	if s == string(DocumentTypeHandwritten) {
		return DocumentTypeHandwritten
	}
	return DocumentTypeTyped
}

// SourceDocument is the immutable input to an extraction call.
type SourceDocument struct {
	Data     []byte
	FileName string
	MimeType string
	Type     DocumentType
}

// PageRange is an inclusive, 1-based span of pages.
type PageRange struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

func (r PageRange) String() string {
	return fmt.Sprintf("%d-%d", r.Start, r.End)
}

// Pages returns the number of pages covered by the range.
func (r PageRange) Pages() int {
	return r.End - r.Start + 1
}

// ChunkState records the outcome of a single chunk submission.
type ChunkState string

const (
	ChunkStateOK      ChunkState = "ok"
	ChunkStateFailed  ChunkState = "failed"
	ChunkStateSkipped ChunkState = "skipped-too-large"
)

// ExtractionChunk is a sub-document built to satisfy the remote provider's
// payload and page-count ceilings. It lives for a single pipeline call.
type ExtractionChunk struct {
	Data     []byte
	Pages    PageRange
	Sequence int
}

// ChunkStatus is the per-chunk entry of an ExtractionResult.
type ChunkStatus struct {
	Sequence int        `json:"sequence"`
	Pages    PageRange  `json:"pages"`
	State    ChunkState `json:"state"`
	Reason   string     `json:"reason,omitempty"`
}

// ExtractionResult is the merged output of a pipeline call. Immutable once
// returned to the caller.
type ExtractionResult struct {
	Text         string        `json:"text"`
	PagesCovered []PageRange   `json:"pagesCovered,omitempty"`
	Chunks       []ChunkStatus `json:"chunks,omitempty"`
}

// JobStatus values for extraction jobs.
type JobStatus string

const (
	StatusPending   JobStatus = "pending"
	StatusRunning   JobStatus = "running"
	StatusCompleted JobStatus = "completed"
	StatusFailed    JobStatus = "failed"
	StatusCancelled JobStatus = "cancelled"
)

// ExtractionJob tracks one queued extraction request.
type ExtractionJob struct {
	ID           string            `json:"id"`
	Status       JobStatus         `json:"status"`
	FileName     string            `json:"fileName"`
	DocumentType DocumentType      `json:"documentType"`
	Progress     float64           `json:"progress"`
	Text         string            `json:"text,omitempty"`
	Error        string            `json:"error,omitempty"`
	Metadata     map[string]string `json:"metadata,omitempty"`
	CreatedAt    time.Time         `json:"createdAt"`
	UpdatedAt    time.Time         `json:"updatedAt,omitempty"`
}
