package extractor

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/ledongthuc/pdf"

	"github.com/studyshare/extraction-service/pkg/logger"
)

// PageRecognizer runs local OCR over the first pages of a PDF. Used as the
// low-text fallback when the embedded text layer yields almost nothing.
type PageRecognizer interface {
	RecognizePages(ctx context.Context, pdfData []byte, maxPages int) (string, error)
}

// PDFExtractor reads the embedded text layer of a PDF page by page. When the
// whole document yields fewer than lowTextThreshold characters it runs the
// fallback recognizer and adopts whichever result is longer.
type PDFExtractor struct {
	logger           logger.Logger
	fallback         PageRecognizer
	lowTextThreshold int
	fallbackMaxPages int
}

func NewPDFExtractor(log logger.Logger, fallback PageRecognizer, lowTextThreshold, fallbackMaxPages int) *PDFExtractor {
	if lowTextThreshold <= 0 {
		lowTextThreshold = 100
	}
	if fallbackMaxPages <= 0 {
		fallbackMaxPages = 3
	}
	return &PDFExtractor{
		logger:           log,
		fallback:         fallback,
		lowTextThreshold: lowTextThreshold,
		fallbackMaxPages: fallbackMaxPages,
	}
}

func (e *PDFExtractor) Extract(ctx context.Context, data []byte, fileName string) (text string, err error) {
	defer recoverToDiagnostic(fileName, &text, &err)

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return unreadablePDFMessage(fileName, err), nil
	}

	numPages := reader.NumPage()
	if numPages == 0 {
		return emptyPDFMessage(fileName), nil
	}

	var pages []string
	for i := 1; i <= numPages; i++ {
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		default:
		}

		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		pageText, err := page.GetPlainText(nil)
		if err != nil {
			e.logger.Warn("Failed to read PDF page text, skipping",
				logger.String("file", fileName),
				logger.Int("page", i),
				logger.Error(err),
			)
			continue
		}
		if pageText = strings.TrimSpace(pageText); pageText != "" {
			pages = append(pages, pageText)
		}
	}

	text = normalizeWhitespace(strings.Join(pages, "\n\n"))

	if title := documentTitle(reader, fileName); title != "" && text != "" {
		text = title + "\n\n" + text
	}

	if utf8.RuneCountInString(text) < e.lowTextThreshold && e.fallback != nil {
		ocrText, ocrErr := e.fallback.RecognizePages(ctx, data, e.fallbackMaxPages)
		if ocrErr != nil {
			e.logger.Warn("Local OCR fallback failed, keeping structured result",
				logger.String("file", fileName),
				logger.Error(ocrErr),
			)
		} else {
			text = adoptLonger(text, ocrText)
		}
	}

	if text == "" {
		return emptyPDFMessage(fileName), nil
	}
	return text, nil
}

// adoptLonger implements the fallback merge rule: the OCR result replaces the
// structured one only when it is strictly longer, so the adopted result never
// regresses below the raw extraction.
func adoptLonger(structured, ocr string) string {
	if utf8.RuneCountInString(ocr) > utf8.RuneCountInString(structured) {
		return ocr
	}
	return structured
}

// documentTitle returns the title from the PDF Info dictionary, or "" when it
// is absent or just repeats the filename.
func documentTitle(reader *pdf.Reader, fileName string) string {
	trailer := reader.Trailer()
	if trailer.IsNull() {
		return ""
	}
	info := trailer.Key("Info")
	if info.IsNull() {
		return ""
	}
	title := strings.TrimSpace(info.Key("Title").Text())

	base := strings.TrimSuffix(filepath.Base(fileName), filepath.Ext(fileName))
	if title == "" || strings.EqualFold(title, base) || strings.EqualFold(title, filepath.Base(fileName)) {
		return ""
	}
	return title
}
