//go:build integration

package mongostore

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/uuid"

	"github.com/MikeSquared-Agency/buddy/internal/extractor"
	"github.com/MikeSquared-Agency/buddy/internal/policy"
	"github.com/MikeSquared-Agency/buddy/internal/profile"
	"github.com/MikeSquared-Agency/buddy/internal/traits"
)

func setupTestStore(t *testing.T) *Store {
	t.Helper()
	uri := os.Getenv("MONGO_URI")
	if uri == "" {
		t.Skip("MONGO_URI not set, skipping integration test")
	}

	ctx := context.Background()
	s, err := New(ctx, uri, "buddy_ai_test")
	if err != nil {
		t.Fatalf("failed to connect: %v", err)
	}
	if err := s.EnsureIndexes(ctx); err != nil {
		t.Fatalf("failed to ensure indexes: %v", err)
	}

	t.Cleanup(func() {
		s.Close(context.Background())
	})
	return s
}

func testUser() string {
	return "integration-test-" + uuid.New().String()[:8]
}

func TestIntegration_ProfileLifecycle(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()
	userID := testUser()

	if _, err := s.FindProfile(ctx, userID); !errors.Is(err, profile.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if err := s.RecordVisit(ctx, userID, time.Now()); !errors.Is(err, profile.ErrNotFound) {
		t.Fatalf("expected ErrNotFound on visit to unknown user, got %v", err)
	}

	now := time.Now().UTC().Truncate(time.Millisecond)
	if err := s.CreateProfile(ctx, profile.DefaultProfile(userID, now)); err != nil {
		t.Fatalf("CreateProfile failed: %v", err)
	}
	// A second create must not reset the profile.
	if err := s.RecordVisit(ctx, userID, now); err != nil {
		t.Fatalf("RecordVisit failed: %v", err)
	}
	if err := s.CreateProfile(ctx, profile.DefaultProfile(userID, now)); err != nil {
		t.Fatalf("second CreateProfile failed: %v", err)
	}

	if err := s.AddTraits(ctx, userID, []traits.Trait{traits.HumorResponsive, traits.AvoidsConflict}); err != nil {
		t.Fatalf("AddTraits failed: %v", err)
	}
	if err := s.AddTraits(ctx, userID, []traits.Trait{traits.AvoidsConflict}); err != nil {
		t.Fatalf("AddTraits failed: %v", err)
	}

	p, err := s.FindProfile(ctx, userID)
	if err != nil {
		t.Fatalf("FindProfile failed: %v", err)
	}
	if p.InteractionCount != 1 {
		t.Errorf("expected interaction count 1, got %d", p.InteractionCount)
	}
	want := []traits.Trait{traits.AvoidsConflict, traits.HumorResponsive}
	if diff := cmp.Diff(want, p.LearnedPatterns); diff != "" {
		t.Errorf("learned patterns mismatch (-want +got):\n%s", diff)
	}
	if p.Preferences["language_mix"] != "hinglish" {
		t.Errorf("expected default preferences, got %v", p.Preferences)
	}

	prefs := map[string]string{"humor_level": "high"}
	if err := s.UpdatePreferences(ctx, userID, prefs); err != nil {
		t.Fatalf("UpdatePreferences failed: %v", err)
	}
	p, _ = s.FindProfile(ctx, userID)
	if diff := cmp.Diff(prefs, p.Preferences); diff != "" {
		t.Errorf("preferences mismatch (-want +got):\n%s", diff)
	}
}

func TestIntegration_TraitEvents(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()
	userID := testUser()
	base := time.Now().UTC().Truncate(time.Millisecond)

	for i := range 3 {
		ev := profile.TraitEvent{
			ID:         uuid.New(),
			UserID:     userID,
			Timestamp:  base.Add(time.Duration(i) * time.Minute),
			Signals:    extractor.DefaultSignals(),
			Mode:       policy.ModeChillCompanion,
			HumorLevel: i,
			Traits:     []traits.Trait{traits.HumorResponsive},
		}
		if err := s.AppendTraitEvent(ctx, ev); err != nil {
			t.Fatalf("AppendTraitEvent failed: %v", err)
		}
	}

	events, err := s.RecentTraitEvents(ctx, userID, 2)
	if err != nil {
		t.Fatalf("RecentTraitEvents failed: %v", err)
	}
	if len(events) != 2 {
		t.Fatalf("expected 2 events, got %d", len(events))
	}
	if events[0].HumorLevel != 2 || events[1].HumorLevel != 1 {
		t.Errorf("expected newest first, got humor levels %d, %d", events[0].HumorLevel, events[1].HumorLevel)
	}
	if events[0].Signals != extractor.DefaultSignals() {
		t.Errorf("signals did not round-trip: %+v", events[0].Signals)
	}
}

func TestIntegration_CountInteractions(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()
	userID := testUser()

	for _, scenario := range []string{"train_delay", "exam_anxiety", "train_delay"} {
		in := profile.Interaction{
			ID:        uuid.New(),
			UserID:    userID,
			Timestamp: time.Now().UTC(),
			Scenario:  scenario,
			Emotion:   "anxiety",
			Mode:      "practical_helper",
			Metadata:  map[string]any{"source": "text"},
		}
		if err := s.InsertInteraction(ctx, in); err != nil {
			t.Fatalf("InsertInteraction failed: %v", err)
		}
	}

	got, err := s.CountInteractionsBy(ctx, userID, profile.FieldScenario)
	if err != nil {
		t.Fatalf("CountInteractionsBy failed: %v", err)
	}
	want := []profile.FieldCount{{Value: "train_delay", Count: 2}, {Value: "exam_anxiety", Count: 1}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("counts mismatch (-want +got):\n%s", diff)
	}

	if _, err := s.CountInteractionsBy(ctx, userID, "user_id"); !errors.Is(err, profile.ErrUnknownField) {
		t.Errorf("expected ErrUnknownField, got %v", err)
	}
}
