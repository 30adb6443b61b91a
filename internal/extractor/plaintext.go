package extractor

import (
	"strings"
	"unicode/utf8"
)

const plainTextMinChars = 50

// PlainTextExtractor decodes a buffer directly as UTF-8 text.
type PlainTextExtractor struct{}

func NewPlainTextExtractor() *PlainTextExtractor {
	return &PlainTextExtractor{}
}

func (e *PlainTextExtractor) Extract(data []byte, fileName string) (string, error) {
	text := string(data)
	if !utf8.ValidString(text) {
		text = strings.ToValidUTF8(text, "")
	}

	if n := utf8.RuneCountInString(text); n < plainTextMinChars {
		return shortContentMessage(fileName, n), nil
	}
	return text, nil
}
