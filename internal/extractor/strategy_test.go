package extractor

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		mimeType string
		want     Strategy
	}{
		{"application/pdf", StrategyPDF},
		{"application/vnd.openxmlformats-officedocument.wordprocessingml.document", StrategyWord},
		{"application/msword", StrategyWord},
		{"application/vnd.openxmlformats-officedocument.presentationml.presentation", StrategyPowerPoint},
		{"application/vnd.ms-powerpoint", StrategyPowerPoint},
		{"text/plain", StrategyPlainText},
		{"text/plain; charset=utf-8", StrategyPlainText},
		{"APPLICATION/PDF", StrategyPDF},
		{"image/jpeg", StrategyUnsupported},
		{"application/octet-stream", StrategyUnsupported},
		{"", StrategyUnsupported},
	}

	for _, tt := range tests {
		t.Run(tt.mimeType, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.mimeType))
		})
	}
}

func TestClassifyIsPure(t *testing.T) {
	for i := 0; i < 3; i++ {
		assert.Equal(t, StrategyPDF, Classify("application/pdf"))
	}
}
