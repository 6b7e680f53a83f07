// Package backend is the sole component that talks to the StudyMate service.
// Every operation performs exactly one request, normalizes the loosely
// shaped response into a fixed internal value, and reports failures as
// ordinary errors that never cross the UI boundary unhandled.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"github.com/averma/studymate/internal/guide"
)

const defaultTimeout = 90 * time.Second

// Sentinel failures the shell turns into user-visible messages.
var (
	ErrNoAnswer      = errors.New("backend returned no answer")
	ErrNoSummary     = errors.New("backend returned no summary")
	ErrEmptyDialogue = errors.New("backend returned an empty dialogue")
)

// Config describes how to reach the backend. Timeout bounds every request;
// there are no retries, a failed call is retried only by the user.
type Config struct {
	BaseURL    string
	Timeout    time.Duration
	HTTPClient *http.Client
}

// Client issues the five study-session operations against a backend base URL.
type Client struct {
	baseURL string
	client  *http.Client
}

// New builds a gateway client from config, falling back to the default
// request timeout when none is given.
func New(cfg Config) *Client {
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = defaultTimeout
		}
		httpClient = &http.Client{Timeout: timeout}
	}
	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		client:  httpClient,
	}
}

// UploadMaterial posts the document as a multipart upload and returns the
// backend's summary, which becomes the first assistant chat message.
func (c *Client) UploadMaterial(ctx context.Context, filename string, content io.Reader) (string, error) {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile("file", filename)
	if err != nil {
		return "", err
	}
	if _, err := io.Copy(part, content); err != nil {
		return "", err
	}
	if err := writer.Close(); err != nil {
		return "", err
	}

	body, err := c.post(ctx, "/upload-pdf", writer.FormDataContentType(), &buf)
	if err != nil {
		return "", err
	}
	summary := firstStringField(body, "summary", "message")
	if summary == "" {
		return "", ErrNoSummary
	}
	return summary, nil
}

// Ask submits one chat question. The answer is taken from the first present
// field in preference order.
func (c *Client) Ask(ctx context.Context, question string) (string, error) {
	payload, err := json.Marshal(map[string]string{"question": question})
	if err != nil {
		return "", err
	}
	body, err := c.post(ctx, "/ask", "application/json", bytes.NewReader(payload))
	if err != nil {
		return "", err
	}
	answer := firstStringField(body, "answer", "response")
	if answer == "" {
		return "", ErrNoAnswer
	}
	return answer, nil
}

// AudioDialogue requests a fresh teacher-student script. The response may be
// JSON or raw text; both are accepted.
func (c *Client) AudioDialogue(ctx context.Context) (string, error) {
	body, err := c.post(ctx, "/audio-dialogue", "application/json", nil)
	if err != nil {
		return "", err
	}
	return normalizeDialogue(body)
}

// StudyGuide requests the structured guide. Unparseable payloads degrade to
// a raw-text guide instead of failing the operation.
func (c *Client) StudyGuide(ctx context.Context) (guide.Guide, error) {
	body, err := c.post(ctx, "/study-guide", "application/json", nil)
	if err != nil {
		return guide.Guide{}, err
	}
	return normalizeGuide(body), nil
}

// AnalyzeVideo asks the backend for a transcript analysis of one video URL.
// Normalization never fails; only transport and HTTP errors are returned.
func (c *Client) AnalyzeVideo(ctx context.Context, videoURL string) (string, error) {
	payload, err := json.Marshal(map[string]string{"youtube_url": videoURL})
	if err != nil {
		return "", err
	}
	body, err := c.post(ctx, "/api/analyze/youtube", "application/json", bytes.NewReader(payload))
	if err != nil {
		return "", err
	}
	return normalizeAnalysis(body), nil
}

func (c *Client) post(ctx context.Context, path, contentType string, body io.Reader) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", contentType)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("HTTP error! status: %d", resp.StatusCode)
	}
	return data, nil
}
