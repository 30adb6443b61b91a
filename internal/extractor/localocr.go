package extractor

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/otiai10/gosseract/v2"
	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"

	"github.com/studyshare/extraction-service/pkg/logger"
)

// TesseractPageOCR implements PageRecognizer with pdfcpu page-image
// extraction and local Tesseract recognition. Each page is processed
// independently; a failed page is logged and contributes no text.
type TesseractPageOCR struct {
	logger   logger.Logger
	language string
}

func NewTesseractPageOCR(log logger.Logger, language string) *TesseractPageOCR {
	if language == "" {
		language = "eng"
	}
	return &TesseractPageOCR{logger: log, language: language}
}

func (o *TesseractPageOCR) RecognizePages(ctx context.Context, pdfData []byte, maxPages int) (string, error) {
	if maxPages <= 0 {
		maxPages = 3
	}

	tempDir, err := os.MkdirTemp("", "page-ocr-*")
	if err != nil {
		return "", fmt.Errorf("failed to create temp dir: %w", err)
	}
	defer os.RemoveAll(tempDir)

	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed

	pageCount, err := api.PageCount(bytes.NewReader(pdfData), conf)
	if err != nil {
		return "", fmt.Errorf("failed to get page count: %w", err)
	}
	if pageCount < maxPages {
		maxPages = pageCount
	}

	sourcePath := filepath.Join(tempDir, "source.pdf")
	if err := os.WriteFile(sourcePath, pdfData, 0o600); err != nil {
		return "", fmt.Errorf("failed to write temp PDF: %w", err)
	}

	var sections []string
	for page := 1; page <= maxPages; page++ {
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		default:
		}

		pageText, err := o.recognizePage(sourcePath, tempDir, page)
		if err != nil {
			o.logger.Warn("Local OCR failed for page, skipping",
				logger.Int("page", page),
				logger.Error(err),
			)
			continue
		}
		if pageText == "" {
			continue
		}
		sections = append(sections, fmt.Sprintf("--- Page %d ---\n%s", page, pageText))
	}

	return strings.Join(sections, "\n\n"), nil
}

// recognizePage extracts the raster images of a single page into a scoped
// directory and runs Tesseract over each of them.
func (o *TesseractPageOCR) recognizePage(sourcePath, tempDir string, page int) (string, error) {
	pageDir := filepath.Join(tempDir, "page-"+strconv.Itoa(page))
	if err := os.Mkdir(pageDir, 0o700); err != nil {
		return "", fmt.Errorf("failed to create page dir: %w", err)
	}

	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed
	if err := api.ExtractImagesFile(sourcePath, pageDir, []string{strconv.Itoa(page)}, conf); err != nil {
		return "", fmt.Errorf("failed to extract page images: %w", err)
	}

	entries, err := os.ReadDir(pageDir)
	if err != nil {
		return "", fmt.Errorf("failed to list page images: %w", err)
	}
	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		if !entry.IsDir() {
			names = append(names, entry.Name())
		}
	}
	sort.Strings(names)

	client := gosseract.NewClient()
	defer client.Close()
	if err := client.SetLanguage(o.language); err != nil {
		return "", fmt.Errorf("failed to set OCR language: %w", err)
	}

	var parts []string
	for _, name := range names {
		imgData, err := os.ReadFile(filepath.Join(pageDir, name))
		if err != nil {
			o.logger.Warn("Failed to read page image, skipping",
				logger.Int("page", page),
				logger.String("image", name),
				logger.Error(err),
			)
			continue
		}
		if err := client.SetImageFromBytes(imgData); err != nil {
			o.logger.Warn("Failed to load page image into OCR, skipping",
				logger.Int("page", page),
				logger.String("image", name),
				logger.Error(err),
			)
			continue
		}
		text, err := client.Text()
		if err != nil {
			o.logger.Warn("OCR failed for page image, skipping",
				logger.Int("page", page),
				logger.String("image", name),
				logger.Error(err),
			)
			continue
		}
		if text = strings.TrimSpace(text); text != "" {
			parts = append(parts, text)
		}
	}

	return strings.Join(parts, "\n"), nil
}
