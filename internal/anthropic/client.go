package anthropic

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const (
	defaultAPIURL = "https://api.anthropic.com/v1/messages"
	apiVersion    = "2023-06-01"

	maxAttempts = 3
)

// ErrEmptyResponse is returned when the reply carries no text blocks.
var ErrEmptyResponse = errors.New("empty response content")

// APIError is a non-200 answer from the Messages API.
type APIError struct {
	Status  int
	Type    string
	Message string
}

func (e *APIError) Error() string {
	if e.Type == "" {
		return fmt.Sprintf("api error %d: %s", e.Status, e.Message)
	}
	return fmt.Sprintf("api error %d: %s: %s", e.Status, e.Type, e.Message)
}

// Retryable reports whether the request may succeed if sent again.
func (e *APIError) Retryable() bool {
	return e.Status == http.StatusTooManyRequests || e.Status == 529 || e.Status >= 500
}

// Client is a minimal Anthropic Messages API client. It satisfies llm.Completer.
type Client struct {
	apiKey  string
	model   string
	apiURL  string
	client  *http.Client
	backoff time.Duration
}

func NewClient(apiKey, model string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		apiKey:  apiKey,
		model:   model,
		apiURL:  defaultAPIURL,
		client:  &http.Client{Timeout: timeout},
		backoff: 500 * time.Millisecond,
	}
}

// SetTestTransport points the client at a test server instead of the real API.
func (c *Client) SetTestTransport(url string) {
	c.apiURL = url
	c.backoff = time.Millisecond
}

// Model returns the model identifier requests are sent with.
func (c *Client) Model() string {
	return c.model
}

type turn struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type messagesRequest struct {
	Model     string `json:"model"`
	MaxTokens int    `json:"max_tokens"`
	System    string `json:"system,omitempty"`
	Messages  []turn `json:"messages"`
}

type contentBlock struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

type messagesResponse struct {
	Content    []contentBlock `json:"content"`
	StopReason string         `json:"stop_reason"`
}

type errorBody struct {
	Error struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	} `json:"error"`
}

// Complete sends one user turn under a system prompt and returns the text of
// the reply. Rate-limit and overload answers are retried with a growing pause.
func (c *Client) Complete(ctx context.Context, system, user string, maxTokens int) (string, error) {
	body, err := json.Marshal(messagesRequest{
		Model:     c.model,
		MaxTokens: maxTokens,
		System:    system,
		Messages:  []turn{{Role: "user", Content: user}},
	})
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	var apiErr *APIError
	for attempt := 1; ; attempt++ {
		text, err := c.send(ctx, body)
		if err == nil {
			return text, nil
		}
		if !errors.As(err, &apiErr) || !apiErr.Retryable() || attempt == maxAttempts {
			return "", err
		}

		select {
		case <-ctx.Done():
			return "", fmt.Errorf("api call: %w", ctx.Err())
		case <-time.After(c.backoff * time.Duration(attempt)):
		}
	}
}

func (c *Client) send(ctx context.Context, body []byte) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.apiURL, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-api-key", c.apiKey)
	req.Header.Set("anthropic-version", apiVersion)

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("api call: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		apiErr := &APIError{Status: resp.StatusCode, Message: string(raw)}
		var eb errorBody
		if json.Unmarshal(raw, &eb) == nil && eb.Error.Type != "" {
			apiErr.Type, apiErr.Message = eb.Error.Type, eb.Error.Message
		}
		return "", apiErr
	}

	var mr messagesResponse
	if err := json.Unmarshal(raw, &mr); err != nil {
		return "", fmt.Errorf("unmarshal response: %w", err)
	}
	return mr.text()
}

// text joins every text block of the reply.
func (r messagesResponse) text() (string, error) {
	var b strings.Builder
	found := false
	for _, block := range r.Content {
		if block.Type == "text" || block.Type == "" {
			b.WriteString(block.Text)
			found = true
		}
	}
	if !found {
		return "", ErrEmptyResponse
	}
	return b.String(), nil
}
