package store

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/MikeSquared-Agency/buddy/internal/extractor"
	"github.com/MikeSquared-Agency/buddy/internal/policy"
	"github.com/MikeSquared-Agency/buddy/internal/profile"
)

func (s *Store) AppendTraitEvent(ctx context.Context, ev profile.TraitEvent) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO trait_events (id, user_id, created_at, signals, mode, humor_level, traits)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		ev.ID, ev.UserID, ev.Timestamp, ev.Signals, string(ev.Mode), ev.HumorLevel, fromTraits(ev.Traits),
	)
	if err != nil {
		return fmt.Errorf("insert trait event: %w", err)
	}
	return nil
}

func (s *Store) RecentTraitEvents(ctx context.Context, userID string, limit int) ([]profile.TraitEvent, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, user_id, created_at, signals, mode, humor_level, traits
		FROM trait_events
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2`,
		userID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("query trait events: %w", err)
	}

	events, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (profile.TraitEvent, error) {
		var (
			ev      profile.TraitEvent
			signals extractor.Signals
			mode    string
			ts      []string
		)
		if err := row.Scan(&ev.ID, &ev.UserID, &ev.Timestamp, &signals, &mode, &ev.HumorLevel, &ts); err != nil {
			return ev, err
		}
		ev.Signals = signals
		ev.Mode = policy.Mode(mode)
		ev.Traits = toTraits(ts)
		return ev, nil
	})
	if err != nil {
		return nil, fmt.Errorf("scan trait events: %w", err)
	}
	return events, nil
}
