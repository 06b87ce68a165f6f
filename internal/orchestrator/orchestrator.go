// Package orchestrator runs a chat turn end to end: memory, normalization,
// signal extraction, policy, knowledge, composition and learning.
package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime/debug"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/MikeSquared-Agency/buddy/internal/composer"
	"github.com/MikeSquared-Agency/buddy/internal/extractor"
	"github.com/MikeSquared-Agency/buddy/internal/hermes"
	"github.com/MikeSquared-Agency/buddy/internal/knowledge"
	"github.com/MikeSquared-Agency/buddy/internal/policy"
	"github.com/MikeSquared-Agency/buddy/internal/profile"
	"github.com/MikeSquared-Agency/buddy/internal/transcript"
	"github.com/MikeSquared-Agency/buddy/internal/traits"
)

var errEmptyInput = errors.New("empty input")

// Publisher sends events to the message bus.
type Publisher interface {
	Publish(subject string, data any) error
}

// Orchestrator sequences the stages of a chat turn. A nil learner runs every
// request without learning; a nil publisher skips trait events.
type Orchestrator struct {
	extractor *extractor.Extractor
	decider   *policy.Decider
	composer  *composer.Composer
	library   *knowledge.Library
	learner   *profile.Learner
	publisher Publisher
	logger    *slog.Logger
}

func New(ext *extractor.Extractor, dec *policy.Decider, comp *composer.Composer, lib *knowledge.Library, learner *profile.Learner, pub Publisher, logger *slog.Logger) *Orchestrator {
	return &Orchestrator{
		extractor: ext,
		decider:   dec,
		composer:  comp,
		library:   lib,
		learner:   learner,
		publisher: pub,
		logger:    logger,
	}
}

// LearningEnabled reports whether a profile store is wired in.
func (o *Orchestrator) LearningEnabled() bool {
	return o.learner != nil
}

// Process handles one turn. It never panics and always returns a reply; when
// something goes wrong the reply is a fixed fallback and Error is set.
func (o *Orchestrator) Process(ctx context.Context, req Request) (res Result) {
	start := time.Now()
	requestID := uuid.NewString()
	source := req.Source.normalize()
	logger := o.logger.With("request_id", requestID, "user_id", req.UserID, "source", source)

	defer func() {
		if r := recover(); r != nil {
			logger.Error("chat turn panicked", "panic", r, "stack", string(debug.Stack()))
			res = fallback(source, fmt.Errorf("internal error: %v", r))
		}
	}()

	res, err := o.run(ctx, logger, req, source)
	if err != nil {
		logger.Error("chat turn failed, sending fallback", "error", err, "duration_ms", time.Since(start).Milliseconds())
		return fallback(source, err)
	}

	logger.Info("chat turn complete",
		"mode", res.Mode,
		"emotion", res.Emotion,
		"learned", res.Learning != nil,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return res
}

func (o *Orchestrator) run(ctx context.Context, logger *slog.Logger, req Request, source Source) (Result, error) {
	meta := withPlace(req.Meta, req.Input)

	learning := o.learner != nil && req.UserID != ""
	var memory *profile.Memory
	if learning {
		m, err := o.learner.LoadContext(ctx, req.UserID)
		if err != nil {
			logger.Warn("profile store unavailable, continuing without learning", "error", err)
			learning = false
		} else {
			memory = &m
		}
	}

	text := req.Input
	if source == SourceChatExport {
		if normalized := transcript.Normalize(req.Input); normalized != "" {
			text = normalized
		} else {
			logger.Warn("chat export produced no messages, using raw input", "input_len", len(req.Input))
		}
	}
	if strings.TrimSpace(text) == "" {
		return Result{}, errEmptyInput
	}

	signals := o.extractor.ExtractOrDefault(ctx, text)
	pol := o.decider.DecideOrDefault(ctx, policy.NewContext(text, signals))

	var rec *knowledge.Record
	if r, ok := o.library.FindRelevant(text, signals); ok {
		rec = &r
	}

	reply, err := o.composer.Compose(ctx, composer.Input{
		UserMessage: text,
		Signals:     signals,
		Policy:      pol,
		Knowledge:   rec,
		Memory:      memory,
		Meta:        meta,
	})
	if err != nil {
		return Result{}, err
	}

	res := Result{
		Reply:        reply,
		Mode:         string(pol.Mode),
		Emotion:      string(signals.PrimaryEmotion),
		Intensity:    signals.Intensity,
		Relationship: string(signals.Relationship),
	}
	if learning {
		res.Learning = o.persist(ctx, logger, req.UserID, source, signals, pol, rec)
	}
	return res, nil
}

// persist records what this turn taught us. Failures are logged and never
// affect the reply. It returns the note announcing a newly learned trait.
func (o *Orchestrator) persist(ctx context.Context, logger *slog.Logger, userID string, source Source, s extractor.Signals, p policy.Policy, rec *knowledge.Record) *string {
	learned, _, err := o.learner.UpdateTraits(ctx, userID, s, p)
	if err != nil {
		logger.Warn("trait update failed", "error", err)
	}

	scenario := "unknown"
	if rec != nil && rec.Scenario != "" {
		scenario = rec.Scenario
	}
	if err := o.learner.LogInteraction(ctx, profile.Interaction{
		UserID:   userID,
		Scenario: scenario,
		Emotion:  string(s.PrimaryEmotion),
		Mode:     string(p.Mode),
		Metadata: map[string]any{
			"response_length": string(p.MessageLength),
			"humor_level":     p.HumorLevel,
			"source":          string(source),
		},
	}); err != nil {
		logger.Warn("interaction log failed", "error", err)
	}

	if len(learned) == 0 {
		return nil
	}

	if o.publisher != nil {
		names := make([]string, len(learned))
		for i, t := range learned {
			names[i] = string(t)
		}
		ev := hermes.TraitsLearnedEvent{UserID: userID, Traits: names, Timestamp: time.Now().UTC()}
		if err := o.publisher.Publish(hermes.SubjectTraitsLearned, ev); err != nil {
			logger.Warn("failed to publish learned traits", "error", err)
		}
	}

	note := traits.Adaptation(learned[0])
	return &note
}

// Learning reports what has been learned about a user. It never fails; when
// the store is missing or down the adaptations explain why.
func (o *Orchestrator) Learning(ctx context.Context, userID string) profile.Stats {
	empty := profile.Stats{
		UserID:          userID,
		Traits:          []traits.Trait{},
		CommonScenarios: []string{},
		CommonEmotions:  []string{},
	}

	if o.learner == nil {
		empty.AdaptationsLearned = []string{"Learning features require a profile store (currently unavailable)"}
		return empty
	}

	stats, err := o.learner.Stats(ctx, userID)
	if err != nil {
		o.logger.Warn("learning stats unavailable", "user_id", userID, "error", err)
		empty.AdaptationsLearned = []string{"Learning data temporarily unavailable"}
		return empty
	}
	return stats
}
