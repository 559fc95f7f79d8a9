// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/taidase2077-blip/voting-system-backend/models"
)

// VotingControl reads the gate. Before the admin first touches it the gate
// is closed with no deadline.
func (q *Queries) VotingControl(ctx context.Context) (models.VotingControl, error) {
	var (
		c        models.VotingControl
		deadline sql.NullTime
		updated  time.Time
	)
	err := q.queryRow(ctx, `
		SELECT is_open, deadline, updated_at FROM voting_control WHERE id = 1
	`).Scan(&c.IsOpen, &deadline, &updated)
	if err == sql.ErrNoRows {
		return models.VotingControl{}, nil
	}
	if err != nil {
		return models.VotingControl{}, fmt.Errorf("failed to query voting control: %w", err)
	}

	if deadline.Valid {
		d := deadline.Time.UTC()
		c.Deadline = &d
	}
	updated = updated.UTC()
	c.UpdatedAt = &updated
	return c, nil
}

func (q *Queries) SetVotingOpen(ctx context.Context, open bool, now time.Time) error {
	_, err := q.exec(ctx, `
		INSERT INTO voting_control (id, is_open, deadline, updated_at)
		VALUES (1, $1, NULL, $2)
		ON CONFLICT (id) DO UPDATE SET is_open = EXCLUDED.is_open, updated_at = EXCLUDED.updated_at
	`, open, now.UTC())
	if err != nil {
		return fmt.Errorf("failed to update voting control: %w", err)
	}
	return nil
}

// SetDeadline stores deadline; nil clears it
func (q *Queries) SetDeadline(ctx context.Context, deadline *time.Time, now time.Time) error {
	var d sql.NullTime
	if deadline != nil {
		d = sql.NullTime{Time: deadline.UTC(), Valid: true}
	}

	_, err := q.exec(ctx, `
		INSERT INTO voting_control (id, is_open, deadline, updated_at)
		VALUES (1, FALSE, $1, $2)
		ON CONFLICT (id) DO UPDATE SET deadline = EXCLUDED.deadline, updated_at = EXCLUDED.updated_at
	`, d, now.UTC())
	if err != nil {
		return fmt.Errorf("failed to update voting deadline: %w", err)
	}
	return nil
}
