package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.Equal(t, "localhost:6379", cfg.Redis.Addr)
	assert.Equal(t, 2, cfg.OCR.EngineID)
	assert.Equal(t, int64(1<<20), cfg.OCR.MaxPayloadBytes)
	assert.Equal(t, 3, cfg.OCR.MaxPagesPerRequest)
	assert.Equal(t, 30*time.Second, cfg.OCR.RequestTimeout)
	assert.Equal(t, 100, cfg.Extraction.LowTextThreshold)
	assert.Equal(t, 3, cfg.Extraction.FallbackMaxPages)
	assert.Equal(t, 2, cfg.Extraction.ChunkConcurrency)
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("OCR_API_KEY", "secret")
	t.Setenv("OCR_MAX_PAYLOAD_BYTES", "2097152")
	t.Setenv("EXTRACTION_LOW_TEXT_THRESHOLD", "250")
	t.Setenv("SERVER_ADDR", ":9999")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "secret", cfg.OCR.APIKey)
	assert.Equal(t, int64(2<<20), cfg.OCR.MaxPayloadBytes)
	assert.Equal(t, 250, cfg.Extraction.LowTextThreshold)
	assert.Equal(t, ":9999", cfg.Server.Addr)
}

func TestLoadRejectsInvalidCeilings(t *testing.T) {
	t.Setenv("OCR_MAX_PAYLOAD_BYTES", "-5")

	_, err := Load("")
	assert.Error(t, err)
}
