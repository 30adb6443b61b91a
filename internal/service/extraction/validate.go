package extraction

import (
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strings"
)

// uploadValidator enforces the upload size ceiling and the extension/MIME
// allowlist before a file is stored or extracted.
type uploadValidator struct {
	maxFileSize  int64
	allowedTypes map[string][]string
}

func newUploadValidator(maxFileSize int64) *uploadValidator {
	return &uploadValidator{
		maxFileSize: maxFileSize,
		allowedTypes: map[string][]string{
			".pdf":  {"application/pdf"},
			".doc":  {"application/msword"},
			".docx": {"application/vnd.openxmlformats-officedocument.wordprocessingml.document", "application/zip"},
			".ppt":  {"application/vnd.ms-powerpoint"},
			".pptx": {"application/vnd.openxmlformats-officedocument.presentationml.presentation", "application/zip"},
			".txt":  {"text/plain"},
			".jpg":  {"image/jpeg"},
			".jpeg": {"image/jpeg"},
			".png":  {"image/png"},
			".tiff": {"image/tiff"},
		},
	}
}

// validate checks the upload and returns its declared or sniffed MIME type.
// The file position is restored to the start.
func (v *uploadValidator) validate(file multipart.File, header *multipart.FileHeader) (string, error) {
	if header.Size > v.maxFileSize {
		return "", fmt.Errorf("file size %d exceeds maximum limit of %d bytes", header.Size, v.maxFileSize)
	}

	ext := strings.ToLower(filepath.Ext(header.Filename))
	allowedMimes, ok := v.allowedTypes[ext]
	if !ok {
		return "", fmt.Errorf("unsupported file type: %s", ext)
	}

	sniffed, err := v.detectContentType(file)
	if err != nil {
		return "", err
	}

	// Accept when either the declared or the sniffed type matches the
	// allowlist, and normalize to the canonical type for the extension;
	// OOXML files sniff as generic zip, so the extension decides there.
	declared := header.Header.Get("Content-Type")
	for _, mime := range allowedMimes {
		if declared == mime || strings.HasPrefix(declared, mime+";") || strings.HasPrefix(sniffed, mime) {
			return allowedMimes[0], nil
		}
	}

	return "", fmt.Errorf("content type %s does not match extension %s", sniffed, ext)
}

func (v *uploadValidator) detectContentType(file multipart.File) (string, error) {
	buffer := make([]byte, 512)
	n, err := file.Read(buffer)
	if err != nil && err != io.EOF {
		return "", fmt.Errorf("failed to read file header: %w", err)
	}
	if _, err := file.Seek(0, io.SeekStart); err != nil {
		return "", fmt.Errorf("failed to reset file pointer: %w", err)
	}
	return http.DetectContentType(buffer[:n]), nil
}
