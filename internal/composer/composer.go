// Package composer writes Buddy's reply from everything the earlier stages
// worked out about a message.
package composer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/MikeSquared-Agency/buddy/internal/extractor"
	"github.com/MikeSquared-Agency/buddy/internal/knowledge"
	"github.com/MikeSquared-Agency/buddy/internal/llm"
	"github.com/MikeSquared-Agency/buddy/internal/policy"
	"github.com/MikeSquared-Agency/buddy/internal/profile"
)

const (
	maxTokens    = 1000
	topGuidance  = 3
	sectionBreak = ""
)

var errEmptyReply = errors.New("empty reply")

// Input is everything a reply is composed from. Knowledge and Memory are
// optional.
type Input struct {
	UserMessage string
	Signals     extractor.Signals
	Policy      policy.Policy
	Knowledge   *knowledge.Record
	Memory      *profile.Memory
	Meta        map[string]string
}

type Composer struct {
	llm     llm.Completer
	logger  *slog.Logger
	timeout time.Duration
}

func New(completer llm.Completer, logger *slog.Logger, timeout time.Duration) *Composer {
	return &Composer{llm: completer, logger: logger, timeout: timeout}
}

// Compose asks the model for a reply. There is no fallback here; callers
// decide what to say when composition fails.
func (c *Composer) Compose(ctx context.Context, in Input) (string, error) {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	prompt := BuildContext(in)
	c.logger.Debug("composing reply", "prompt_len", len(prompt), "mode", in.Policy.Mode)

	raw, err := c.llm.Complete(ctx, systemPrompt, prompt, maxTokens)
	if err != nil {
		return "", fmt.Errorf("%w: compose: %w", llm.ErrService, err)
	}
	reply := strings.TrimSpace(raw)
	if reply == "" {
		return "", fmt.Errorf("%w: compose: %w", llm.ErrMalformed, errEmptyReply)
	}
	return reply, nil
}

// BuildContext renders the composition prompt.
func BuildContext(in Input) string {
	var b strings.Builder
	line := func(format string, args ...any) {
		fmt.Fprintf(&b, format, args...)
		b.WriteByte('\n')
	}

	line("=== USER MESSAGE ===")
	line("%s", in.UserMessage)
	line(sectionBreak)

	s := in.Signals
	line("=== SOCIAL ANALYSIS ===")
	line("Emotion: %s", s.PrimaryEmotion)
	line("Intensity: %d/10", s.Intensity)
	line("User Need: %s", s.UserNeed)
	line("Relationship: %s", s.Relationship)
	line("Conflict Risk: %s", s.ConflictRisk)
	line(sectionBreak)

	p := in.Policy
	line("=== BEHAVIOR POLICY (FOLLOW STRICTLY) ===")
	line("Mode: %s", p.Mode)
	line("Tone: %s", p.Tone)
	line("Humor Level: %d/3", p.HumorLevel)
	line("Message Length: %s", p.MessageLength)
	line("Initiative: %s", p.Initiative)
	line("Give Action Steps: %t", p.GiveActionSteps)
	line("Ask Follow-up: %t", p.AskFollowupQuestion)
	line(sectionBreak)

	if k := in.Knowledge; k != nil {
		line("=== CULTURAL CONTEXT (Indian Behavior Patterns) ===")
		if k.Scenario != "" {
			line("Scenario: %s", k.Scenario)
		}
		if len(k.TypicalEmotions) > 0 {
			line("Typical Emotions: %s", strings.Join(k.TypicalEmotions, ", "))
		}
		if len(k.Do) > 0 {
			line("\nDO:")
			for _, item := range first(k.Do, topGuidance) {
				line("  - %s", item)
			}
		}
		if len(k.Dont) > 0 {
			line("\nDON'T:")
			for _, item := range first(k.Dont, topGuidance) {
				line("  - %s", item)
			}
		}
		if k.Tone != nil {
			line("\nSuggested Tone: %s", *k.Tone)
		}
		if k.HumorAllowed != nil {
			line("Humor Allowed: %t", *k.HumorAllowed)
		}
		line(sectionBreak)
	}

	if m := in.Memory; m != nil {
		line("=== USER MEMORY ===")
		if len(m.LearnedPatterns) > 0 {
			names := make([]string, len(m.LearnedPatterns))
			for i, t := range m.LearnedPatterns {
				names[i] = string(t)
			}
			line("Learned Patterns: %s", strings.Join(names, ", "))
		}
		line("Interactions So Far: %d", m.InteractionCount)
		if m.Summary != "" {
			line("Recent Memory:\n%s", m.Summary)
		}
		line(sectionBreak)
	}

	if len(in.Meta) > 0 {
		line("=== REAL-WORLD CONTEXT ===")
		keys := make([]string, 0, len(in.Meta))
		for k := range in.Meta {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			if v := in.Meta[k]; k != "" && v != "" {
				line("%s: %s", capitalize(k), v)
			}
		}
		line(sectionBreak)
	}

	line("=== YOUR RESPONSE ===")
	b.WriteString("(Respond naturally as Buddy, following the policy and cultural context)")
	return b.String()
}

func capitalize(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	return string(unicode.ToUpper(r)) + s[size:]
}

func first(items []string, n int) []string {
	if len(items) > n {
		return items[:n]
	}
	return items
}
