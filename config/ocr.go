package config

import (
	"fmt"
	"time"
)

// OCRConfig describes the remote OCR provider. Resolved once at startup;
// the pipeline treats it as read-only.
type OCRConfig struct {
	APIKey      string        `yaml:"apiKey"`
	EngineID    int           `yaml:"engineId"`
	EndpointURL string        `yaml:"endpointUrl"`
	Language    string        `yaml:"language"`
	// MaxPayloadBytes is the provider's hard request-size ceiling.
	MaxPayloadBytes int64 `yaml:"maxPayloadBytes"`
	// MaxPagesPerRequest is the provider's per-request page ceiling.
	MaxPagesPerRequest int           `yaml:"maxPagesPerRequest"`
	RequestTimeout     time.Duration `yaml:"requestTimeout"`
}

func defaultOCRConfig() OCRConfig {
	return OCRConfig{
		EngineID:           2, // engine tuned for handwriting
		EndpointURL:        "https://api.ocr.space/parse/image",
		Language:           "eng",
		MaxPayloadBytes:    1 << 20,
		MaxPagesPerRequest: 3,
		RequestTimeout:     30 * time.Second,
	}
}

func (c *OCRConfig) applyEnv() {
	setString(&c.APIKey, "OCR_API_KEY")
	setInt(&c.EngineID, "OCR_ENGINE_ID")
	setString(&c.EndpointURL, "OCR_ENDPOINT_URL")
	setString(&c.Language, "OCR_LANGUAGE")
	setInt64(&c.MaxPayloadBytes, "OCR_MAX_PAYLOAD_BYTES")
	setInt(&c.MaxPagesPerRequest, "OCR_MAX_PAGES_PER_REQUEST")
	setDuration(&c.RequestTimeout, "OCR_REQUEST_TIMEOUT")
}

func (c *OCRConfig) validate() error {
	if c.MaxPayloadBytes <= 0 {
		return fmt.Errorf("ocr: maxPayloadBytes must be positive, got %d", c.MaxPayloadBytes)
	}
	if c.MaxPagesPerRequest <= 0 {
		return fmt.Errorf("ocr: maxPagesPerRequest must be positive, got %d", c.MaxPagesPerRequest)
	}
	return nil
}
