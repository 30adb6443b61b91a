package ocr

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/studyshare/extraction-service/config"
	"github.com/studyshare/extraction-service/pkg/logger"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	return NewClient(config.OCRConfig{
		APIKey:             "test-key",
		EngineID:           2,
		EndpointURL:        srv.URL,
		Language:           "eng",
		MaxPayloadBytes:    1 << 20,
		MaxPagesPerRequest: 3,
		RequestTimeout:     5 * time.Second,
	}, logger.NewTestLogger())
}

func TestClientSubmitMergesPages(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseMultipartForm(4<<20))
		assert.Equal(t, "test-key", r.FormValue("apikey"))
		assert.Equal(t, "2", r.FormValue("OCREngine"))
		assert.Equal(t, "eng", r.FormValue("language"))
		assert.Equal(t, "true", r.FormValue("detectOrientation"))
		assert.Equal(t, "true", r.FormValue("scale"))

		json.NewEncoder(w).Encode(map[string]any{
			"OCRExitCode": 1,
			"ParsedResults": []map[string]any{
				{"ParsedText": "first page of notes", "FileParseExitCode": 1},
				{"ParsedText": "second page of notes", "FileParseExitCode": 1},
			},
		})
	})

	text, err := client.Submit(context.Background(), []byte("pdf bytes"), "notes.pdf")
	require.NoError(t, err)
	assert.Contains(t, text, "--- Page 1 ---\nfirst page of notes")
	assert.Contains(t, text, "--- Page 2 ---\nsecond page of notes")
}

func TestClientSkipsFailedPages(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"OCRExitCode": 2,
			"ParsedResults": []map[string]any{
				{"ParsedText": "readable page content here", "FileParseExitCode": 1},
				{"ParsedText": "", "FileParseExitCode": 3, "ErrorMessage": "page could not be parsed"},
			},
		})
	})

	text, err := client.Submit(context.Background(), []byte("pdf bytes"), "notes.pdf")
	require.NoError(t, err)
	assert.Contains(t, text, "--- Page 1 ---")
	assert.NotContains(t, text, "--- Page 2 ---")
}

func TestClientLowTextIsSuccess(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"OCRExitCode": 1,
			"ParsedResults": []map[string]any{
				{"ParsedText": "  ", "FileParseExitCode": 1},
			},
		})
	})

	text, err := client.Submit(context.Background(), []byte("img"), "blank.jpg")
	require.NoError(t, err)
	assert.Equal(t, NoReadableTextMessage, text)
}

func TestClientProcessingErrorIsFatal(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"OCRExitCode":           99,
			"IsErroredOnProcessing": true,
			"ErrorMessage":          []string{"Unable to recognize the file type", "E216"},
		})
	})

	_, err := client.Submit(context.Background(), []byte("junk"), "junk.bin")
	var provErr *ProviderError
	require.ErrorAs(t, err, &provErr)
	assert.Contains(t, provErr.Message, "Unable to recognize the file type")
}

func TestClientAuthFailureIsFatal(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte("invalid api key"))
	})

	_, err := client.Submit(context.Background(), []byte("img"), "notes.jpg")
	var provErr *ProviderError
	require.ErrorAs(t, err, &provErr)
	assert.Equal(t, http.StatusUnauthorized, provErr.StatusCode)
}

func TestClientServerErrorIsTransient(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})

	_, err := client.Submit(context.Background(), []byte("img"), "notes.jpg")
	require.Error(t, err)
	var provErr *ProviderError
	assert.False(t, errors.As(err, &provErr), "transport failures must stay per-chunk, not fatal")
}

func TestErrorMessageUnmarshal(t *testing.T) {
	var m errorMessage
	require.NoError(t, json.Unmarshal([]byte(`"single error"`), &m))
	assert.Equal(t, errorMessage{"single error"}, m)

	require.NoError(t, json.Unmarshal([]byte(`["one","two"]`), &m))
	assert.Equal(t, "one; two", m.join())

	require.NoError(t, json.Unmarshal([]byte(`null`), &m))
	assert.Equal(t, "unknown provider error", m.join())
}
