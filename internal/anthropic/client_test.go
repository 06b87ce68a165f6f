package anthropic

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"
)

func TestComplete_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("x-api-key") != "test-key" {
			t.Errorf("expected x-api-key test-key, got %q", r.Header.Get("x-api-key"))
		}
		if r.Header.Get("anthropic-version") != "2023-06-01" {
			t.Errorf("expected anthropic-version 2023-06-01, got %q", r.Header.Get("anthropic-version"))
		}
		if r.Header.Get("Content-Type") != "application/json" {
			t.Errorf("expected Content-Type application/json, got %q", r.Header.Get("Content-Type"))
		}

		var req messagesRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("failed to decode request: %v", err)
		}
		if req.Model != "test-model" {
			t.Errorf("expected model test-model, got %q", req.Model)
		}
		if req.System != "you are a test" {
			t.Errorf("expected system prompt, got %q", req.System)
		}
		if len(req.Messages) != 1 || req.Messages[0].Role != "user" || req.Messages[0].Content != "hello" {
			t.Errorf("unexpected messages: %+v", req.Messages)
		}
		if req.MaxTokens != 100 {
			t.Errorf("expected max_tokens 100, got %d", req.MaxTokens)
		}

		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(map[string]any{
			"content":     []map[string]any{{"type": "text", "text": "world"}},
			"stop_reason": "end_turn",
		})
	}))
	defer server.Close()

	c := NewClient("test-key", "test-model", time.Second)
	c.SetTestTransport(server.URL)

	result, err := c.Complete(context.Background(), "you are a test", "hello", 100)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result != "world" {
		t.Errorf("expected 'world', got %q", result)
	}
}

func TestComplete_APIError(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(map[string]any{
			"error": map[string]any{
				"type":    "invalid_request_error",
				"message": "max_tokens is too large",
			},
		})
	}))
	defer server.Close()

	c := NewClient("test-key", "test-model", time.Second)
	c.SetTestTransport(server.URL)

	_, err := c.Complete(context.Background(), "", "hi", 100)
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected *APIError, got %v", err)
	}
	if apiErr.Status != http.StatusBadRequest || apiErr.Type != "invalid_request_error" {
		t.Errorf("unexpected api error %+v", apiErr)
	}
	if calls.Load() != 1 {
		t.Errorf("client errors must not be retried, got %d calls", calls.Load())
	}
}

func TestComplete_RetriesOverload(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(529)
			json.NewEncoder(w).Encode(map[string]any{
				"error": map[string]any{"type": "overloaded_error", "message": "Overloaded"},
			})
			return
		}
		json.NewEncoder(w).Encode(map[string]any{
			"content": []map[string]any{{"type": "text", "text": "ok"}},
		})
	}))
	defer server.Close()

	c := NewClient("test-key", "test-model", time.Second)
	c.SetTestTransport(server.URL)

	got, err := c.Complete(context.Background(), "", "hi", 100)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "ok" || calls.Load() != 3 {
		t.Errorf("expected ok after 3 calls, got %q after %d", got, calls.Load())
	}
}

func TestComplete_RetriesExhausted(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusTooManyRequests)
		w.Write([]byte("slow down"))
	}))
	defer server.Close()

	c := NewClient("test-key", "test-model", time.Second)
	c.SetTestTransport(server.URL)

	_, err := c.Complete(context.Background(), "", "hi", 100)
	var apiErr *APIError
	if !errors.As(err, &apiErr) || apiErr.Message != "slow down" {
		t.Fatalf("expected raw-body api error, got %v", err)
	}
	if calls.Load() != maxAttempts {
		t.Errorf("expected %d attempts, got %d", maxAttempts, calls.Load())
	}
}

func TestComplete_JoinsTextBlocks(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"content": []map[string]any{
				{"type": "text", "text": "{\"a\":"},
				{"type": "tool_use"},
				{"type": "text", "text": "1}"},
			},
		})
	}))
	defer server.Close()

	c := NewClient("test-key", "test-model", time.Second)
	c.SetTestTransport(server.URL)

	got, err := c.Complete(context.Background(), "", "hi", 100)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != `{"a":1}` {
		t.Errorf("expected joined text, got %q", got)
	}
}

func TestComplete_EmptyContent(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(map[string]any{
			"content":     []map[string]any{},
			"stop_reason": "end_turn",
		})
	}))
	defer server.Close()

	c := NewClient("test-key", "test-model", time.Second)
	c.SetTestTransport(server.URL)

	_, err := c.Complete(context.Background(), "", "hi", 100)
	if !errors.Is(err, ErrEmptyResponse) {
		t.Fatalf("expected ErrEmptyResponse, got %v", err)
	}
}

func TestComplete_Timeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	c := NewClient("test-key", "test-model", 50*time.Millisecond)
	c.SetTestTransport(server.URL)

	_, err := c.Complete(context.Background(), "", "hi", 100)
	if err == nil {
		t.Fatal("expected timeout error")
	}
}
