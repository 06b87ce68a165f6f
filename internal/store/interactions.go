package store

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/MikeSquared-Agency/buddy/internal/profile"
)

// columns maps the groupable fields onto their column names. Only these
// are ever interpolated into SQL.
var columns = map[string]string{
	profile.FieldScenario: "scenario",
	profile.FieldEmotion:  "emotion",
	profile.FieldMode:     "mode",
}

func (s *Store) InsertInteraction(ctx context.Context, in profile.Interaction) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO interactions (id, user_id, created_at, scenario, emotion, mode, metadata)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		in.ID, in.UserID, in.Timestamp, in.Scenario, in.Emotion, in.Mode, in.Metadata,
	)
	if err != nil {
		return fmt.Errorf("insert interaction: %w", err)
	}
	return nil
}

func (s *Store) CountInteractionsBy(ctx context.Context, userID, field string) ([]profile.FieldCount, error) {
	col, ok := columns[field]
	if !ok {
		return nil, fmt.Errorf("%w: %q", profile.ErrUnknownField, field)
	}

	rows, err := s.pool.Query(ctx, fmt.Sprintf(`
		SELECT %[1]s, count(*)
		FROM interactions
		WHERE user_id = $1
		GROUP BY %[1]s
		ORDER BY count(*) DESC, %[1]s`, col),
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("count interactions by %s: %w", field, err)
	}

	counts, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (profile.FieldCount, error) {
		var fc profile.FieldCount
		err := row.Scan(&fc.Value, &fc.Count)
		return fc, err
	})
	if err != nil {
		return nil, fmt.Errorf("scan interaction counts: %w", err)
	}
	return counts, nil
}
