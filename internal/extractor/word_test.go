package extractor

import (
	"archive/zip"
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/studyshare/extraction-service/pkg/logger"
)

func buildZip(t *testing.T, files map[string]string) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for name, content := range files {
		w, err := zw.Create(name)
		require.NoError(t, err)
		_, err = w.Write([]byte(content))
		require.NoError(t, err)
	}
	require.NoError(t, zw.Close())
	return buf.Bytes()
}

const wordDocumentXML = `<?xml version="1.0"?>
<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">
  <w:body>
    <w:p><w:r><w:t>Photosynthesis converts light energy into chemical energy.</w:t></w:r></w:p>
    <w:p><w:r><w:t>It takes place in the</w:t></w:r><w:r><w:t xml:space="preserve"> chloroplasts of plant cells.</w:t></w:r></w:p>
  </w:body>
</w:document>`

func TestWordExtractor(t *testing.T) {
	e := NewWordExtractor(logger.NewTestLogger())

	t.Run("extracts paragraph text", func(t *testing.T) {
		data := buildZip(t, map[string]string{"word/document.xml": wordDocumentXML})
		text, err := e.Extract(data, "biology.docx")
		assert.NoError(t, err)
		assert.Contains(t, text, "Photosynthesis converts light energy into chemical energy.")
		assert.Contains(t, text, "It takes place in the chloroplasts of plant cells.")
	})

	t.Run("paragraphs become separate lines", func(t *testing.T) {
		data := buildZip(t, map[string]string{"word/document.xml": wordDocumentXML})
		text, err := e.Extract(data, "biology.docx")
		assert.NoError(t, err)
		assert.NotContains(t, text, "energy.It takes")
	})

	t.Run("near-empty document yields diagnostic", func(t *testing.T) {
		doc := `<w:document xmlns:w="x"><w:body><w:p><w:r><w:t>hi</w:t></w:r></w:p></w:body></w:document>`
		data := buildZip(t, map[string]string{"word/document.xml": doc})
		text, err := e.Extract(data, "empty.docx")
		assert.NoError(t, err)
		assert.Contains(t, text, "very short or empty")
		assert.Contains(t, text, "empty.docx")
	})

	t.Run("not a zip yields diagnostic, not error", func(t *testing.T) {
		text, err := e.Extract([]byte("this is not a zip archive"), "legacy.doc")
		assert.NoError(t, err)
		assert.Contains(t, text, "legacy.doc")
		assert.Contains(t, text, "could not be opened")
	})
}
