// Package extractor asks the language model for the emotional and relational
// signals in a user message.
package extractor

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/MikeSquared-Agency/buddy/internal/llm"
)

const maxTokens = 300

type Extractor struct {
	llm     llm.Completer
	logger  *slog.Logger
	timeout time.Duration
}

// New builds an Extractor. A zero timeout leaves the caller's deadline alone.
func New(completer llm.Completer, logger *slog.Logger, timeout time.Duration) *Extractor {
	return &Extractor{llm: completer, logger: logger, timeout: timeout}
}

// Extract analyzes text and returns validated signals. Errors wrap one of the
// llm error kinds.
func (e *Extractor) Extract(ctx context.Context, text string) (Signals, error) {
	if e.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.timeout)
		defer cancel()
	}

	e.logger.Debug("extracting signals", "text_len", len(text))

	raw, err := e.llm.Complete(ctx, systemPrompt, text, maxTokens)
	if err != nil {
		return Signals{}, fmt.Errorf("%w: signal extraction: %w", llm.ErrService, err)
	}

	var wire wireSignals
	if err := json.Unmarshal([]byte(llm.StripFence(raw)), &wire); err != nil {
		return Signals{}, fmt.Errorf("%w: parse signals: %w", llm.ErrMalformed, err)
	}

	signals, err := wire.signals()
	if err != nil {
		return Signals{}, err
	}

	e.logger.Debug("signals extracted",
		"emotion", signals.PrimaryEmotion,
		"intensity", signals.Intensity,
		"relationship", signals.Relationship,
	)
	return signals, nil
}

// ExtractOrDefault is Extract with the neutral fallback applied on failure.
func (e *Extractor) ExtractOrDefault(ctx context.Context, text string) Signals {
	signals, err := e.Extract(ctx, text)
	if err != nil {
		e.logger.Warn("signal extraction failed, using neutral default",
			"kind", llm.Kind(err),
			"error", err,
		)
		return DefaultSignals()
	}
	return signals
}
