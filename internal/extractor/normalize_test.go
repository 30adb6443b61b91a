package extractor

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeWhitespace(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"collapses internal runs", "a   b\t\tc", "a b c"},
		{"collapses blank lines", "a\n\n\n\nb", "a\n\nb"},
		{"trims leading and trailing blanks", "\n\n  a  \n\n", "a"},
		{"keeps single blank line", "a\n\nb", "a\n\nb"},
		{"empty input", "", ""},
		{"whitespace only", "  \n\t\n  ", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, normalizeWhitespace(tt.in))
		})
	}
}

func TestNormalizeWhitespaceIdempotent(t *testing.T) {
	inputs := []string{
		"a   b\n\n\nc d\t e",
		"already normal\n\ntext",
		"",
	}
	for _, in := range inputs {
		once := normalizeWhitespace(in)
		assert.Equal(t, once, normalizeWhitespace(once))
	}
}
