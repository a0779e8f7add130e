package transcriber

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"strings"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

// Client posts audio to the provider's OpenAI-style transcription
// endpoint. The multipart field carrying the file is configurable because
// providers disagree on its name.
type Client struct {
	token     string
	baseURL   string
	fileField string
	model     string
	http      *http.Client
}

func NewClient(token, baseURL, fileField, model string) *Client {
	return &Client{
		token:     token,
		baseURL:   baseURL,
		fileField: fileField,
		model:     model,
		http: &http.Client{
			Timeout:   60 * time.Second,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
	}
}

// EstimatedWait reports "pending": provider latency is unbounded, so
// callers poll for the final transcript.
func (c *Client) EstimatedWait() string { return "pending" }

// endpoint derives the transcription URL from the configured base. A
// "/backend" segment is appended when the base does not already end with
// one; the provider exposes its API behind that prefix.
func (c *Client) endpoint() string {
	base := strings.TrimRight(c.baseURL, "/")
	if !strings.HasSuffix(base, "/backend") {
		base += "/backend"
	}
	return base + "/v1/audio/transcriptions"
}

func (c *Client) Transcribe(ctx context.Context, filename, contentType string, audio []byte) (string, error) {
	if c.token == "" {
		return "", ErrMissingToken
	}

	body := &bytes.Buffer{}
	w := multipart.NewWriter(body)
	part, err := createFormFile(w, c.fileField, filename, contentType)
	if err != nil {
		return "", fmt.Errorf("build multipart body: %w", err)
	}
	if _, err := part.Write(audio); err != nil {
		return "", fmt.Errorf("write audio part: %w", err)
	}
	if err := w.WriteField("model", c.model); err != nil {
		return "", fmt.Errorf("write model field: %w", err)
	}
	if err := w.Close(); err != nil {
		return "", fmt.Errorf("finalize multipart body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint(), body)
	if err != nil {
		return "", fmt.Errorf("build transcription request: %w", err)
	}
	req.Header.Set("Content-Type", w.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("x-api-key", c.token)

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 200))
		return "", fmt.Errorf("%w: status %d: %s", ErrUnavailable, resp.StatusCode, string(snippet))
	}

	// Providers answer with either {"text": ...} or {"transcription": ...}.
	var payload struct {
		Text          string `json:"text"`
		Transcription string `json:"transcription"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return "", fmt.Errorf("%w: decode response: %v", ErrUnavailable, err)
	}
	if payload.Text != "" {
		return payload.Text, nil
	}
	return payload.Transcription, nil
}

// createFormFile is multipart.Writer.CreateFormFile with an explicit part
// content type instead of the fixed application/octet-stream.
func createFormFile(w *multipart.Writer, field, filename, contentType string) (io.Writer, error) {
	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name=%q; filename=%q`, field, filename))
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	h.Set("Content-Type", contentType)
	return w.CreatePart(h)
}
