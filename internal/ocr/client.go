package ocr

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/studyshare/extraction-service/config"
	"github.com/studyshare/extraction-service/pkg/logger"
)

// NoReadableTextMessage is returned when the provider parsed the document but
// found (almost) nothing. A successful-but-empty outcome, never an error.
const NoReadableTextMessage = "No readable text was found in this document. " +
	"The handwriting may be too faint or the image resolution too low. " +
	"Please try re-uploading a clearer scan or photo."

const minReadableChars = 10

// ProviderError is a fatal provider-level failure: invalid credentials,
// exhausted quota, or a processing-level error flag in the response body.
// It aborts the whole pipeline call, unlike per-chunk transport errors.
type ProviderError struct {
	StatusCode int
	Message    string
}

func (e *ProviderError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("OCR provider rejected the request (HTTP %d): %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("OCR provider failed to process the document: %s", e.Message)
}

// Client submits documents to the remote OCR provider and merges the per-page
// results into marked-up text.
type Client struct {
	cfg        config.OCRConfig
	httpClient *http.Client
	logger     logger.Logger
}

func NewClient(cfg config.OCRConfig, log logger.Logger) *Client {
	return &Client{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: cfg.RequestTimeout},
		logger:     log,
	}
}

type parsedResult struct {
	ParsedText        string       `json:"ParsedText"`
	FileParseExitCode int          `json:"FileParseExitCode"`
	ErrorMessage      errorMessage `json:"ErrorMessage"`
}

type ocrResponse struct {
	ParsedResults         []parsedResult `json:"ParsedResults"`
	OCRExitCode           int            `json:"OCRExitCode"`
	IsErroredOnProcessing bool           `json:"IsErroredOnProcessing"`
	ErrorMessage          errorMessage   `json:"ErrorMessage"`
}

// errorMessage tolerates the provider returning either a string or an array
// of strings in its error fields.
type errorMessage []string

func (m *errorMessage) UnmarshalJSON(data []byte) error {
	if len(data) == 0 || string(data) == "null" {
		*m = nil
		return nil
	}
	if data[0] == '[' {
		var list []string
		if err := json.Unmarshal(data, &list); err != nil {
			return err
		}
		*m = list
		return nil
	}
	var single string
	if err := json.Unmarshal(data, &single); err != nil {
		return err
	}
	*m = []string{single}
	return nil
}

func (m errorMessage) join() string {
	if len(m) == 0 {
		return "unknown provider error"
	}
	return strings.Join(m, "; ")
}

// Submit sends one document (or chunk) to the provider and returns the merged
// per-page text under "--- Page N ---" markers.
func (c *Client) Submit(ctx context.Context, data []byte, fileName string) (string, error) {
	body, contentType, err := c.buildRequestBody(data, fileName)
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.EndpointURL, body)
	if err != nil {
		return "", fmt.Errorf("failed to build OCR request: %w", err)
	}
	req.Header.Set("Content-Type", contentType)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("OCR request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read OCR response: %w", err)
	}

	switch resp.StatusCode {
	case http.StatusUnauthorized, http.StatusForbidden, http.StatusTooManyRequests:
		return "", &ProviderError{StatusCode: resp.StatusCode, Message: strings.TrimSpace(string(respBody))}
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", fmt.Errorf("OCR request returned HTTP %d", resp.StatusCode)
	}

	var parsed ocrResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return "", fmt.Errorf("malformed OCR response: %w", err)
	}
	return c.mergeResults(parsed, fileName)
}

func (c *Client) buildRequestBody(data []byte, fileName string) (*bytes.Buffer, string, error) {
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	part, err := writer.CreateFormFile("file", fileName)
	if err != nil {
		return nil, "", fmt.Errorf("failed to build multipart body: %w", err)
	}
	if _, err := part.Write(data); err != nil {
		return nil, "", fmt.Errorf("failed to write file payload: %w", err)
	}

	fields := map[string]string{
		"apikey":            c.cfg.APIKey,
		"language":          c.cfg.Language,
		"OCREngine":         strconv.Itoa(c.cfg.EngineID),
		"detectOrientation": "true",
		"scale":             "true",
		"isOverlayRequired": "false",
	}
	for name, value := range fields {
		if err := writer.WriteField(name, value); err != nil {
			return nil, "", fmt.Errorf("failed to write form field %s: %w", name, err)
		}
	}
	if err := writer.Close(); err != nil {
		return nil, "", fmt.Errorf("failed to finalize multipart body: %w", err)
	}
	return body, writer.FormDataContentType(), nil
}

func (c *Client) mergeResults(parsed ocrResponse, fileName string) (string, error) {
	if parsed.IsErroredOnProcessing {
		return "", &ProviderError{Message: parsed.ErrorMessage.join()}
	}
	// Exit code 1 is a full parse, 2 a partial one; everything else means the
	// provider could not process this submission.
	if parsed.OCRExitCode != 1 && parsed.OCRExitCode != 2 {
		return "", fmt.Errorf("OCR provider returned exit code %d: %s", parsed.OCRExitCode, parsed.ErrorMessage.join())
	}

	var sections []string
	for i, page := range parsed.ParsedResults {
		if page.FileParseExitCode != 1 {
			c.logger.Warn("OCR failed for page, skipping",
				logger.String("file", fileName),
				logger.Int("page", i+1),
				logger.String("reason", page.ErrorMessage.join()),
			)
			continue
		}
		if text := strings.TrimSpace(page.ParsedText); text != "" {
			sections = append(sections, fmt.Sprintf("--- Page %d ---\n%s", i+1, text))
		}
	}

	merged := strings.Join(sections, "\n\n")
	if utf8.RuneCountInString(merged) < minReadableChars {
		return NoReadableTextMessage, nil
	}
	return merged, nil
}
