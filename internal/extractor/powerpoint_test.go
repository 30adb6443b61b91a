package extractor

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/studyshare/extraction-service/pkg/logger"
)

func slideXML(text string) string {
	return fmt.Sprintf(`<p:sld xmlns:p="http://schemas.openxmlformats.org/presentationml/2006/main" xmlns:a="http://schemas.openxmlformats.org/drawingml/2006/main">
  <p:cSld><p:spTree><p:sp><p:txBody><a:p><a:r><a:t>%s</a:t></a:r></a:p></p:txBody></p:sp></p:spTree></p:cSld>
</p:sld>`, text)
}

func TestPowerPointExtractor(t *testing.T) {
	e := NewPowerPointExtractor(logger.NewTestLogger())

	t.Run("extracts slides in numeric order", func(t *testing.T) {
		data := buildZip(t, map[string]string{
			"ppt/slides/slide10.xml": slideXML("Slide ten content"),
			"ppt/slides/slide2.xml":  slideXML("Slide two content"),
			"ppt/slides/slide1.xml":  slideXML("Slide one content"),
			"ppt/media/image1.png":   "binary",
		})
		text, err := e.Extract(data, "deck.pptx")
		assert.NoError(t, err)

		one := strings.Index(text, "Slide one content")
		two := strings.Index(text, "Slide two content")
		ten := strings.Index(text, "Slide ten content")
		assert.GreaterOrEqual(t, one, 0)
		assert.Greater(t, two, one)
		assert.Greater(t, ten, two)
	})

	t.Run("near-empty deck yields diagnostic", func(t *testing.T) {
		data := buildZip(t, map[string]string{
			"ppt/slides/slide1.xml": slideXML("ok"),
		})
		text, err := e.Extract(data, "thin.pptx")
		assert.NoError(t, err)
		assert.Contains(t, text, "very short or empty")
		assert.Contains(t, text, "thin.pptx")
	})

	t.Run("not a zip yields diagnostic, not error", func(t *testing.T) {
		text, err := e.Extract([]byte("junk"), "legacy.ppt")
		assert.NoError(t, err)
		assert.Contains(t, text, "legacy.ppt")
	})
}
