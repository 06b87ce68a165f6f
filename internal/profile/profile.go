// Package profile keeps what Buddy learns about each user: a small profile,
// an audit trail of trait updates and an anonymous interaction log. Raw
// message text never reaches any of it.
package profile

import (
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/MikeSquared-Agency/buddy/internal/extractor"
	"github.com/MikeSquared-Agency/buddy/internal/policy"
	"github.com/MikeSquared-Agency/buddy/internal/traits"
)

var (
	ErrNotFound     = errors.New("profile not found")
	ErrUnknownField = errors.New("unknown interaction field")
)

// Fields interactions can be counted by.
const (
	FieldScenario = "scenario"
	FieldEmotion  = "emotion"
	FieldMode     = "mode"
)

// ValidField reports whether interactions can be grouped by field.
func ValidField(field string) bool {
	switch field {
	case FieldScenario, FieldEmotion, FieldMode:
		return true
	}
	return false
}

// Profile is the per-user record. LearnedPatterns only ever grows.
type Profile struct {
	UserID             string            `json:"user_id"`
	LearnedPatterns    []traits.Trait    `json:"learned_patterns"`
	InteractionCount   int               `json:"interaction_count"`
	Preferences        map[string]string `json:"preferences"`
	CommunicationStyle string            `json:"communication_style"`
	EmotionalBaseline  string            `json:"emotional_baseline"`
	CreatedAt          time.Time         `json:"created_at"`
	LastInteraction    time.Time         `json:"last_interaction"`
}

// DefaultPreferences are assigned to every new profile.
func DefaultPreferences() map[string]string {
	return map[string]string{
		"humor_level":     "medium",
		"response_length": "medium",
		"formality":       "casual",
		"language_mix":    "hinglish",
		"emoji_usage":     "moderate",
	}
}

// DefaultProfile is the profile created on first contact.
func DefaultProfile(userID string, now time.Time) Profile {
	return Profile{
		UserID:             userID,
		LearnedPatterns:    []traits.Trait{},
		Preferences:        DefaultPreferences(),
		CommunicationStyle: "casual",
		EmotionalBaseline:  "neutral",
		CreatedAt:          now,
		LastInteraction:    now,
	}
}

// TraitEvent records one trait update: the signals and policy that caused it
// and the traits that fired.
type TraitEvent struct {
	ID         uuid.UUID         `json:"id"`
	UserID     string            `json:"user_id"`
	Timestamp  time.Time         `json:"timestamp"`
	Signals    extractor.Signals `json:"signals"`
	Mode       policy.Mode       `json:"mode"`
	HumorLevel int               `json:"humor_level"`
	Traits     []traits.Trait    `json:"traits"`
}

// Interaction is one completed conversation turn, reduced to labels.
type Interaction struct {
	ID        uuid.UUID      `json:"id"`
	UserID    string         `json:"user_id"`
	Timestamp time.Time      `json:"timestamp"`
	Scenario  string         `json:"scenario"`
	Emotion   string         `json:"emotion"`
	Mode      string         `json:"mode"`
	Metadata  map[string]any `json:"metadata,omitempty"`
}

// FieldCount is one group of an aggregate count.
type FieldCount struct {
	Value string `json:"value"`
	Count int    `json:"count"`
}

// Memory is the slice of a profile the composer sees.
type Memory struct {
	LearnedPatterns    []traits.Trait    `json:"learned_patterns"`
	InteractionCount   int               `json:"interaction_count"`
	Summary            string            `json:"memory_summary"`
	Preferences        map[string]string `json:"preferences,omitempty"`
	CommunicationStyle string            `json:"communication_style,omitempty"`
}

// Stats summarizes what has been learned about a user.
type Stats struct {
	UserID             string         `json:"user_id"`
	TotalInteractions  int            `json:"total_interactions"`
	Traits             []traits.Trait `json:"traits"`
	CommonScenarios    []string       `json:"common_scenarios"`
	CommonEmotions     []string       `json:"common_emotions"`
	AdaptationsLearned []string       `json:"adaptations_learned"`
}
