package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config is the process-wide configuration, resolved once at startup and
// treated as read-only afterwards.
type Config struct {
	Server     ServerConfig     `yaml:"server"`
	Redis      RedisConfig      `yaml:"redis"`
	Storage    StorageConfig    `yaml:"storage"`
	OCR        OCRConfig        `yaml:"ocr"`
	Extraction ExtractionConfig `yaml:"extraction"`
}

type ServerConfig struct {
	Addr string `yaml:"addr"`
}

type RedisConfig struct {
	Addr        string `yaml:"addr"`
	DB          int    `yaml:"db"`
	Concurrency int    `yaml:"concurrency"`
}

type ExtractionConfig struct {
	// LowTextThreshold is the character count under which a structured PDF
	// result triggers the local OCR fallback. Tunable; the merge rule stays
	// "adopt the longer of the two".
	LowTextThreshold int `yaml:"lowTextThreshold"`
	// FallbackMaxPages caps how many pages the local OCR fallback rasterizes.
	FallbackMaxPages int `yaml:"fallbackMaxPages"`
	// ChunkConcurrency bounds concurrent chunk submissions to the remote OCR
	// provider.
	ChunkConcurrency int `yaml:"chunkConcurrency"`
	// MaxUploadSize is the request-level upload ceiling in bytes.
	MaxUploadSize int64 `yaml:"maxUploadSize"`
	// TesseractLanguage selects the local OCR language pack.
	TesseractLanguage string `yaml:"tesseractLanguage"`
}

// Load resolves configuration from an optional YAML file, a .env file and the
// process environment, in that order of increasing precedence.
func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		// A missing .env is fine; anything else is a real problem.
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	cfg := &Config{
		Server: ServerConfig{
			Addr: ":8080",
		},
		Redis: RedisConfig{
			Addr:        "localhost:6379",
			DB:          0,
			Concurrency: 5,
		},
		Storage:    defaultStorageConfig(),
		OCR:        defaultOCRConfig(),
		Extraction: ExtractionConfig{
			LowTextThreshold:  100,
			FallbackMaxPages:  3,
			ChunkConcurrency:  2,
			MaxUploadSize:     50 * 1024 * 1024,
			TesseractLanguage: "eng",
		},
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	}

	cfg.applyEnv()

	if err := cfg.OCR.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) applyEnv() {
	setString(&c.Server.Addr, "SERVER_ADDR")
	setString(&c.Redis.Addr, "REDIS_ADDR")
	setInt(&c.Redis.DB, "REDIS_DB")
	setInt(&c.Redis.Concurrency, "WORKER_CONCURRENCY")

	c.Storage.applyEnv()
	c.OCR.applyEnv()

	setInt(&c.Extraction.LowTextThreshold, "EXTRACTION_LOW_TEXT_THRESHOLD")
	setInt(&c.Extraction.FallbackMaxPages, "EXTRACTION_FALLBACK_MAX_PAGES")
	setInt(&c.Extraction.ChunkConcurrency, "EXTRACTION_CHUNK_CONCURRENCY")
	setInt64(&c.Extraction.MaxUploadSize, "EXTRACTION_MAX_UPLOAD_SIZE")
	setString(&c.Extraction.TesseractLanguage, "TESSERACT_LANGUAGE")
}

func setString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func setInt(dst *int, key string) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}

func setInt64(dst *int64, key string) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			*dst = n
		}
	}
}

func setBool(dst *bool, key string) {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			*dst = b
		}
	}
}

func setDuration(dst *time.Duration, key string) {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			*dst = d
		}
	}
}
