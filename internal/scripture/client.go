// Package scripture talks to the api.scripture.api.bible REST API.
package scripture

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

const DefaultBaseURL = "https://api.scripture.api.bible/v1"

// maxBodySize bounds how much of a response is read.
const maxBodySize = 1 << 20

// Doer sends HTTP requests. *http.Client satisfies it.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Verse is a single reference and its text.
type Verse struct {
	Reference string
	Text      string
}

type Client struct {
	baseURL string
	http    Doer
}

type Option func(*Client)

// WithBaseURL points the client at another API root, e.g. a test server.
func WithBaseURL(u string) Option {
	return func(c *Client) { c.baseURL = u }
}

func WithHTTPClient(d Doer) Option {
	return func(c *Client) { c.http = d }
}

func NewClient(opts ...Option) *Client {
	c := &Client{
		baseURL: DefaultBaseURL,
		http: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// FetchRandomVerse asks the API for one random verse of translation,
// restricted to scope ("ot", "nt" or "both"). Failures are a
// *TransportError when the exchange itself failed and an *APIError when
// the API answered with an error payload.
func (c *Client) FetchRandomVerse(ctx context.Context, apiKey, translation, scope string) (Verse, error) {
	var verse Verse

	params := url.Values{}
	params.Add("scope", scope)
	params.Add("random", "true")
	apiURL := c.baseURL + "/bibles/" + url.QueryEscape(translation) + "/verses?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, apiURL, nil)
	if err != nil {
		return verse, &TransportError{Err: fmt.Errorf("failed to create request: %w", err)}
	}
	req.Header.Set("api-key", apiKey)
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return verse, &TransportError{Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return verse, &TransportError{Err: fmt.Errorf("failed to read response: %w", err)}
	}

	// A body that is not a JSON object decodes to no fields at all.
	var payload map[string]json.RawMessage
	if err := json.Unmarshal(body, &payload); err != nil {
		payload = nil
	}

	if raw, ok := payload["error"]; ok && !isNull(raw) {
		return verse, &APIError{Message: rawText(raw), StatusCode: resp.StatusCode}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return verse, &TransportError{StatusCode: resp.StatusCode}
	}

	verse.Reference = rawText(payload["reference"])
	verse.Text = rawText(payload["text"])
	return verse, nil
}

func isNull(raw json.RawMessage) bool {
	return bytes.Equal(bytes.TrimSpace(raw), []byte("null"))
}

// rawText returns a JSON string's value, "" for null or absent values,
// and the compact JSON text of anything else.
func rawText(raw json.RawMessage) string {
	if len(raw) == 0 || isNull(raw) {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	var buf bytes.Buffer
	if err := json.Compact(&buf, raw); err != nil {
		return string(raw)
	}
	return buf.String()
}
