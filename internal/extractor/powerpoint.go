package extractor

import (
	"archive/zip"
	"bytes"
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"unicode/utf8"

	"github.com/studyshare/extraction-service/pkg/logger"
)

const powerPointMinChars = 10

var slideNameRe = regexp.MustCompile(`^ppt/slides/slide(\d+)\.xml$`)

// PowerPointExtractor collects the visible text runs of every slide in a
// PPTX package, in slide order.
type PowerPointExtractor struct {
	logger logger.Logger
}

func NewPowerPointExtractor(log logger.Logger) *PowerPointExtractor {
	return &PowerPointExtractor{logger: log}
}

func (e *PowerPointExtractor) Extract(data []byte, fileName string) (text string, err error) {
	defer recoverToDiagnostic(fileName, &text, &err)

	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return fmt.Sprintf("The presentation %q could not be opened (%v). It may be a legacy .ppt "+
			"file or corrupted. Please download the file to view it.", fileName, err), nil
	}

	type slide struct {
		number int
		file   *zip.File
	}
	var slides []slide
	for _, f := range zr.File {
		m := slideNameRe.FindStringSubmatch(f.Name)
		if m == nil {
			continue
		}
		n, _ := strconv.Atoi(m[1])
		slides = append(slides, slide{number: n, file: f})
	}
	sort.Slice(slides, func(i, j int) bool { return slides[i].number < slides[j].number })

	var sb bytes.Buffer
	for _, s := range slides {
		rc, err := s.file.Open()
		if err != nil {
			e.logger.Warn("Failed to open slide, skipping",
				logger.String("file", fileName),
				logger.Int("slide", s.number),
				logger.Error(err),
			)
			continue
		}
		slideText, err := wordMLText(rc)
		rc.Close()
		if err != nil {
			e.logger.Warn("Failed to parse slide, skipping",
				logger.String("file", fileName),
				logger.Int("slide", s.number),
				logger.Error(err),
			)
			continue
		}
		sb.WriteString(slideText)
		sb.WriteString("\n\n")
	}

	text = normalizeWhitespace(sb.String())
	if n := utf8.RuneCountInString(text); n < powerPointMinChars {
		return shortContentMessage(fileName, n), nil
	}
	return text, nil
}
