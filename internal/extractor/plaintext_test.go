package extractor

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPlainTextExtractor(t *testing.T) {
	e := NewPlainTextExtractor()

	t.Run("returns long text verbatim", func(t *testing.T) {
		content := strings.Repeat("lecture notes on thermodynamics. ", 5)
		text, err := e.Extract([]byte(content), "notes.txt")
		assert.NoError(t, err)
		assert.Equal(t, content, text)
	})

	t.Run("short buffer yields diagnostic with character count", func(t *testing.T) {
		text, err := e.Extract([]byte("too short, sorry"), "tiny.txt")
		assert.NoError(t, err)
		assert.Contains(t, text, "very short or empty")
		assert.Contains(t, text, "16 characters")
		assert.Contains(t, text, "tiny.txt")
	})

	t.Run("invalid utf8 bytes are dropped", func(t *testing.T) {
		content := strings.Repeat("valid text segment here. ", 4)
		data := append([]byte(content), 0xff, 0xfe)
		text, err := e.Extract(data, "mixed.txt")
		assert.NoError(t, err)
		assert.Contains(t, text, "valid text segment here.")
		assert.NotContains(t, text, "\xff")
	})
}
