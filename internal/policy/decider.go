// Package policy asks the language model how Buddy should respond to a
// message given the signals extracted from it.
package policy

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/MikeSquared-Agency/buddy/internal/extractor"
	"github.com/MikeSquared-Agency/buddy/internal/llm"
)

const maxTokens = 500

// Context is what the decider sees about a message.
type Context struct {
	UserMessage  string                 `json:"user_message"`
	Emotion      extractor.Emotion      `json:"emotion"`
	Relationship extractor.Relationship `json:"relationship"`
	ConflictRisk extractor.Risk         `json:"conflict_risk"`
	UserNeed     extractor.Need         `json:"user_need"`
	Intensity    int                    `json:"intensity"`
}

// NewContext pairs a message with its extracted signals.
func NewContext(message string, s extractor.Signals) Context {
	return Context{
		UserMessage:  message,
		Emotion:      s.PrimaryEmotion,
		Relationship: s.Relationship,
		ConflictRisk: s.ConflictRisk,
		UserNeed:     s.UserNeed,
		Intensity:    s.Intensity,
	}
}

type Decider struct {
	llm     llm.Completer
	logger  *slog.Logger
	timeout time.Duration
}

func New(completer llm.Completer, logger *slog.Logger, timeout time.Duration) *Decider {
	return &Decider{llm: completer, logger: logger, timeout: timeout}
}

// Decide returns a validated policy for c. Errors wrap one of the llm error kinds.
func (d *Decider) Decide(ctx context.Context, c Context) (Policy, error) {
	if d.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, d.timeout)
		defer cancel()
	}

	payload, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return Policy{}, fmt.Errorf("marshal policy context: %w", err)
	}

	raw, err := d.llm.Complete(ctx, systemPrompt, "Context:\n"+string(payload), maxTokens)
	if err != nil {
		return Policy{}, fmt.Errorf("%w: policy decision: %w", llm.ErrService, err)
	}

	var wire wirePolicy
	if err := json.Unmarshal([]byte(llm.StripFence(raw)), &wire); err != nil {
		return Policy{}, fmt.Errorf("%w: parse policy: %w", llm.ErrMalformed, err)
	}

	p, err := wire.policy()
	if err != nil {
		return Policy{}, err
	}

	d.logger.Debug("policy decided", "mode", p.Mode, "tone", p.Tone, "humor_level", p.HumorLevel)
	return p, nil
}

// DecideOrDefault is Decide with the chill companion fallback applied on failure.
func (d *Decider) DecideOrDefault(ctx context.Context, c Context) Policy {
	p, err := d.Decide(ctx, c)
	if err != nil {
		d.logger.Warn("policy decision failed, using fallback",
			"kind", llm.Kind(err),
			"error", err,
		)
		return DefaultPolicy()
	}
	return p
}
