// Package llm defines the text-completion capability the assistant delegates
// generation to, plus helpers shared by every requester that expects a
// structured JSON answer back.
package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// Completer sends a system instruction and a single user turn to a language
// model and returns the text of its answer.
type Completer interface {
	Complete(ctx context.Context, system, user string, maxTokens int) (string, error)
}

// Error kinds. Requesters wrap failures in one of these so callers can log
// what went wrong before substituting a default.
var (
	ErrService   = errors.New("llm service error")
	ErrMalformed = errors.New("malformed llm response")
	ErrSchema    = errors.New("llm response violates schema")
)

// Kind returns a short label for the error kind of err.
func Kind(err error) string {
	switch {
	case err == nil:
		return "none"
	case errors.Is(err, context.DeadlineExceeded):
		return "timeout"
	case errors.Is(err, ErrService):
		return "service"
	case errors.Is(err, ErrMalformed):
		return "malformed"
	case errors.Is(err, ErrSchema):
		return "schema"
	default:
		return "unknown"
	}
}

// SchemaError reports a field that is missing or outside its declared range.
func SchemaError(field, format string, args ...any) error {
	return fmt.Errorf("%w: %s: %s", ErrSchema, field, fmt.Sprintf(format, args...))
}

// StripFence removes a surrounding markdown code fence (``` or ```json)
// from a model answer. Text without a leading fence is returned trimmed.
func StripFence(raw string) string {
	text := strings.TrimSpace(raw)
	if !strings.HasPrefix(text, "```") {
		return text
	}

	// Drop the opening fence line, whatever language tag it carries.
	if i := strings.IndexByte(text, '\n'); i >= 0 {
		text = text[i+1:]
	} else {
		return ""
	}

	text = strings.TrimSpace(text)
	text = strings.TrimSuffix(text, "```")
	return strings.TrimSpace(text)
}
