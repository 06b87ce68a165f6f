// Package store is the Postgres implementation of profile.Store.
package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/MikeSquared-Agency/buddy/internal/profile"
	"github.com/MikeSquared-Agency/buddy/internal/traits"
)

var _ profile.Store = (*Store)(nil)

type Store struct {
	pool *pgxpool.Pool
}

func New(ctx context.Context, databaseURL string) (*Store, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return &Store{pool: pool}, nil
}

func (s *Store) Close() {
	s.pool.Close()
}

const schema = `
CREATE TABLE IF NOT EXISTS user_profiles (
	user_id             TEXT PRIMARY KEY,
	learned_patterns    TEXT[] NOT NULL DEFAULT '{}',
	interaction_count   INTEGER NOT NULL DEFAULT 0,
	preferences         JSONB NOT NULL DEFAULT '{}',
	communication_style TEXT NOT NULL DEFAULT 'casual',
	emotional_baseline  TEXT NOT NULL DEFAULT 'neutral',
	created_at          TIMESTAMPTZ NOT NULL DEFAULT now(),
	last_interaction    TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS trait_events (
	id          UUID PRIMARY KEY,
	user_id     TEXT NOT NULL,
	created_at  TIMESTAMPTZ NOT NULL,
	signals     JSONB NOT NULL,
	mode        TEXT NOT NULL,
	humor_level INTEGER NOT NULL,
	traits      TEXT[] NOT NULL DEFAULT '{}'
);
CREATE INDEX IF NOT EXISTS trait_events_user_idx ON trait_events (user_id, created_at DESC);

CREATE TABLE IF NOT EXISTS interactions (
	id         UUID PRIMARY KEY,
	user_id    TEXT NOT NULL,
	created_at TIMESTAMPTZ NOT NULL,
	scenario   TEXT NOT NULL,
	emotion    TEXT NOT NULL,
	mode       TEXT NOT NULL,
	metadata   JSONB
);
CREATE INDEX IF NOT EXISTS interactions_user_idx ON interactions (user_id);
`

// EnsureSchema creates the tables Buddy needs if they are missing.
func (s *Store) EnsureSchema(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("ensure schema: %w", err)
	}
	return nil
}

func (s *Store) FindProfile(ctx context.Context, userID string) (*profile.Profile, error) {
	row := s.pool.QueryRow(ctx, `
		SELECT user_id, learned_patterns, interaction_count, preferences, communication_style,
			emotional_baseline, created_at, last_interaction
		FROM user_profiles WHERE user_id = $1`, userID)

	var (
		p        profile.Profile
		patterns []string
	)
	err := row.Scan(&p.UserID, &patterns, &p.InteractionCount, &p.Preferences, &p.CommunicationStyle,
		&p.EmotionalBaseline, &p.CreatedAt, &p.LastInteraction)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, profile.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("select profile: %w", err)
	}
	p.LearnedPatterns = toTraits(patterns)
	return &p, nil
}

func (s *Store) CreateProfile(ctx context.Context, p profile.Profile) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO user_profiles (user_id, learned_patterns, interaction_count, preferences,
			communication_style, emotional_baseline, created_at, last_interaction)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (user_id) DO NOTHING`,
		p.UserID, fromTraits(p.LearnedPatterns), p.InteractionCount, p.Preferences,
		p.CommunicationStyle, p.EmotionalBaseline, p.CreatedAt, p.LastInteraction,
	)
	if err != nil {
		return fmt.Errorf("insert profile: %w", err)
	}
	return nil
}

func (s *Store) RecordVisit(ctx context.Context, userID string, at time.Time) error {
	tag, err := s.pool.Exec(ctx, `
		UPDATE user_profiles SET interaction_count = interaction_count + 1, last_interaction = $2
		WHERE user_id = $1`,
		userID, at,
	)
	if err != nil {
		return fmt.Errorf("record visit: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return profile.ErrNotFound
	}
	return nil
}

func (s *Store) AddTraits(ctx context.Context, userID string, ts []traits.Trait) error {
	tag, err := s.pool.Exec(ctx, `
		UPDATE user_profiles
		SET learned_patterns = ARRAY(SELECT DISTINCT unnest(learned_patterns || $2::text[]) ORDER BY 1)
		WHERE user_id = $1`,
		userID, fromTraits(ts),
	)
	if err != nil {
		return fmt.Errorf("add traits: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return profile.ErrNotFound
	}
	return nil
}

func (s *Store) UpdatePreferences(ctx context.Context, userID string, prefs map[string]string) error {
	tag, err := s.pool.Exec(ctx, `
		UPDATE user_profiles SET preferences = $2 WHERE user_id = $1`,
		userID, prefs,
	)
	if err != nil {
		return fmt.Errorf("update preferences: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return profile.ErrNotFound
	}
	return nil
}

func toTraits(ss []string) []traits.Trait {
	out := make([]traits.Trait, len(ss))
	for i, s := range ss {
		out[i] = traits.Trait(s)
	}
	return out
}

func fromTraits(ts []traits.Trait) []string {
	out := make([]string, len(ts))
	for i, t := range ts {
		out[i] = string(t)
	}
	return out
}
