package extractor

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/studyshare/extraction-service/pkg/logger"
)

const wordMinChars = 50

// WordExtractor pulls the text runs out of a DOCX package
// (word/document.xml), ignoring embedded images and formatting.
type WordExtractor struct {
	logger logger.Logger
}

func NewWordExtractor(log logger.Logger) *WordExtractor {
	return &WordExtractor{logger: log}
}

func (e *WordExtractor) Extract(data []byte, fileName string) (text string, err error) {
	defer recoverToDiagnostic(fileName, &text, &err)

	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return fmt.Sprintf("The document %q could not be opened (%v). It may be a legacy .doc file "+
			"or corrupted. Please download the file to view it.", fileName, err), nil
	}

	var raw string
	for _, f := range zr.File {
		if f.Name != "word/document.xml" {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return "", fmt.Errorf("failed to open word/document.xml: %w", err)
		}
		raw, err = wordMLText(rc)
		rc.Close()
		if err != nil {
			return "", fmt.Errorf("failed to parse word/document.xml: %w", err)
		}
		break
	}

	text = normalizeWhitespace(raw)
	if n := utf8.RuneCountInString(text); n < wordMinChars {
		return shortContentMessage(fileName, n), nil
	}
	return text, nil
}

// wordMLText walks WordprocessingML tokens, collecting the character data of
// <w:t> runs. Paragraph ends and explicit breaks become newlines, so table
// cells and list items stay on their own lines.
func wordMLText(r io.Reader) (string, error) {
	dec := xml.NewDecoder(r)
	var sb strings.Builder
	inText := false

	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", err
		}

		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "t":
				inText = true
			case "tab":
				sb.WriteByte(' ')
			case "br", "cr":
				sb.WriteByte('\n')
			}
		case xml.EndElement:
			switch t.Name.Local {
			case "t":
				inText = false
			case "p":
				sb.WriteByte('\n')
			}
		case xml.CharData:
			if inText {
				sb.Write(t)
			}
		}
	}

	return sb.String(), nil
}
