package profile

import (
	"context"
	"time"

	"github.com/MikeSquared-Agency/buddy/internal/traits"
)

// Store persists profiles, trait events and interactions. Implementations
// must be safe for concurrent use.
type Store interface {
	// FindProfile returns ErrNotFound for an unknown user.
	FindProfile(ctx context.Context, userID string) (*Profile, error)
	// CreateProfile inserts p unless a profile for p.UserID already exists.
	CreateProfile(ctx context.Context, p Profile) error
	// RecordVisit increments the interaction count and stamps the visit time.
	RecordVisit(ctx context.Context, userID string, at time.Time) error
	// AddTraits unions ts into the user's learned patterns.
	AddTraits(ctx context.Context, userID string, ts []traits.Trait) error
	UpdatePreferences(ctx context.Context, userID string, prefs map[string]string) error

	AppendTraitEvent(ctx context.Context, ev TraitEvent) error
	// RecentTraitEvents returns up to limit events, newest first.
	RecentTraitEvents(ctx context.Context, userID string, limit int) ([]TraitEvent, error)

	InsertInteraction(ctx context.Context, in Interaction) error
	// CountInteractionsBy groups a user's interactions by field, most common
	// first. field must satisfy ValidField.
	CountInteractionsBy(ctx context.Context, userID, field string) ([]FieldCount, error)
}
