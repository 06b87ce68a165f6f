package profile

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/MikeSquared-Agency/buddy/internal/extractor"
	"github.com/MikeSquared-Agency/buddy/internal/policy"
	"github.com/MikeSquared-Agency/buddy/internal/traits"
)

const (
	summaryEvents = 5
	topN          = 3

	newUserSummary = "New user - no previous interactions"
)

// Learner reads and updates user profiles on top of a Store. Every store
// call runs under its own timeout.
type Learner struct {
	store   Store
	logger  *slog.Logger
	timeout time.Duration
	now     func() time.Time
}

func NewLearner(store Store, logger *slog.Logger, timeout time.Duration) *Learner {
	return &Learner{store: store, logger: logger, timeout: timeout, now: time.Now}
}

func (l *Learner) call(ctx context.Context, fn func(context.Context) error) error {
	if l.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, l.timeout)
		defer cancel()
	}
	return fn(ctx)
}

// ensure returns the user's profile, creating the default one on first contact.
func (l *Learner) ensure(ctx context.Context, userID string) (*Profile, error) {
	var p *Profile
	err := l.call(ctx, func(ctx context.Context) (err error) {
		p, err = l.store.FindProfile(ctx, userID)
		return err
	})
	if err == nil {
		return p, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return nil, fmt.Errorf("find profile: %w", err)
	}

	def := DefaultProfile(userID, l.now().UTC())
	if err := l.call(ctx, func(ctx context.Context) error { return l.store.CreateProfile(ctx, def) }); err != nil {
		return nil, fmt.Errorf("create profile: %w", err)
	}
	l.logger.Info("created profile", "user_id", userID)
	return &def, nil
}

// LoadContext loads the user's memory for this turn and records the visit.
func (l *Learner) LoadContext(ctx context.Context, userID string) (Memory, error) {
	p, err := l.ensure(ctx, userID)
	if err != nil {
		return Memory{}, err
	}

	if err := l.call(ctx, func(ctx context.Context) error {
		return l.store.RecordVisit(ctx, userID, l.now().UTC())
	}); err != nil {
		return Memory{}, fmt.Errorf("record visit: %w", err)
	}

	var events []TraitEvent
	if err := l.call(ctx, func(ctx context.Context) (err error) {
		events, err = l.store.RecentTraitEvents(ctx, userID, summaryEvents)
		return err
	}); err != nil {
		return Memory{}, fmt.Errorf("recent trait events: %w", err)
	}

	return Memory{
		LearnedPatterns:    slices.Clone(p.LearnedPatterns),
		InteractionCount:   p.InteractionCount + 1,
		Summary:            Summarize(events),
		Preferences:        p.Preferences,
		CommunicationStyle: p.CommunicationStyle,
	}, nil
}

// Summarize renders recent trait events, newest first, as a short list.
func Summarize(events []TraitEvent) string {
	if len(events) == 0 {
		return newUserSummary
	}
	lines := make([]string, 0, len(events))
	for _, ev := range events {
		names := make([]string, len(ev.Traits))
		for i, t := range ev.Traits {
			names[i] = string(t)
		}
		lines = append(lines, fmt.Sprintf("- %s (%d/10) with %s: %s",
			ev.Signals.PrimaryEmotion, ev.Signals.Intensity, ev.Signals.Relationship, strings.Join(names, ", ")))
	}
	return strings.Join(lines, "\n")
}

// UpdateTraits infers traits from a turn and merges them into the profile.
// When no trait fires nothing is written and updated is false. learned holds
// the traits the user did not have before.
func (l *Learner) UpdateTraits(ctx context.Context, userID string, s extractor.Signals, p policy.Policy) (learned []traits.Trait, updated bool, err error) {
	fired := traits.Infer(s, p)
	if len(fired) == 0 {
		return nil, false, nil
	}

	prof, err := l.ensure(ctx, userID)
	if err != nil {
		return nil, false, err
	}

	if err := l.call(ctx, func(ctx context.Context) error { return l.store.AddTraits(ctx, userID, fired) }); err != nil {
		return nil, false, fmt.Errorf("add traits: %w", err)
	}

	ev := TraitEvent{
		ID:         uuid.New(),
		UserID:     userID,
		Timestamp:  l.now().UTC(),
		Signals:    s,
		Mode:       p.Mode,
		HumorLevel: p.HumorLevel,
		Traits:     fired,
	}
	if err := l.call(ctx, func(ctx context.Context) error { return l.store.AppendTraitEvent(ctx, ev) }); err != nil {
		return nil, true, fmt.Errorf("append trait event: %w", err)
	}

	for _, t := range fired {
		if !slices.Contains(prof.LearnedPatterns, t) {
			learned = append(learned, t)
		}
	}

	l.logger.Info("traits updated", "user_id", userID, "fired", len(fired), "new", len(learned))
	return learned, true, nil
}

// LogInteraction appends in to the interaction log, filling in the id and
// timestamp when unset.
func (l *Learner) LogInteraction(ctx context.Context, in Interaction) error {
	if in.ID == uuid.Nil {
		in.ID = uuid.New()
	}
	if in.Timestamp.IsZero() {
		in.Timestamp = l.now().UTC()
	}
	if in.Scenario == "" {
		in.Scenario = "unknown"
	}
	if err := l.call(ctx, func(ctx context.Context) error { return l.store.InsertInteraction(ctx, in) }); err != nil {
		return fmt.Errorf("insert interaction: %w", err)
	}
	return nil
}

// UpdatePreferences replaces the user's preferences.
func (l *Learner) UpdatePreferences(ctx context.Context, userID string, prefs map[string]string) error {
	if _, err := l.ensure(ctx, userID); err != nil {
		return err
	}
	return l.call(ctx, func(ctx context.Context) error { return l.store.UpdatePreferences(ctx, userID, prefs) })
}

// Stats summarizes what has been learned about the user. An unknown user
// yields empty stats.
func (l *Learner) Stats(ctx context.Context, userID string) (Stats, error) {
	stats := Stats{
		UserID:             userID,
		Traits:             []traits.Trait{},
		CommonScenarios:    []string{},
		CommonEmotions:     []string{},
		AdaptationsLearned: []string{},
	}

	var p *Profile
	err := l.call(ctx, func(ctx context.Context) (err error) {
		p, err = l.store.FindProfile(ctx, userID)
		return err
	})
	switch {
	case errors.Is(err, ErrNotFound):
		return stats, nil
	case err != nil:
		return stats, fmt.Errorf("find profile: %w", err)
	}

	var scenarios, emotions []FieldCount
	if err := l.call(ctx, func(ctx context.Context) (err error) {
		scenarios, err = l.store.CountInteractionsBy(ctx, userID, FieldScenario)
		return err
	}); err != nil {
		return stats, fmt.Errorf("count scenarios: %w", err)
	}
	if err := l.call(ctx, func(ctx context.Context) (err error) {
		emotions, err = l.store.CountInteractionsBy(ctx, userID, FieldEmotion)
		return err
	}); err != nil {
		return stats, fmt.Errorf("count emotions: %w", err)
	}

	for _, c := range scenarios {
		stats.TotalInteractions += c.Count
	}
	stats.CommonScenarios = top(scenarios, topN)
	stats.CommonEmotions = top(emotions, topN)
	stats.Traits = append(stats.Traits, p.LearnedPatterns...)
	for _, t := range p.LearnedPatterns {
		stats.AdaptationsLearned = append(stats.AdaptationsLearned, traits.Adaptation(t))
	}
	return stats, nil
}

func top(counts []FieldCount, n int) []string {
	out := []string{}
	for i := 0; i < len(counts) && i < n; i++ {
		out = append(out, counts[i].Value)
	}
	return out
}
