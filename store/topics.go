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

// DeleteTopics removes every topic together with the ballots cast on them.
// Topic ids restart at 1 after a reload, so old ballots would otherwise be
// attributed to the new topics.
func (q *Queries) DeleteTopics(ctx context.Context) error {
	if _, err := q.exec(ctx, `DELETE FROM ballot`); err != nil {
		return fmt.Errorf("failed to delete ballots: %w", err)
	}
	if _, err := q.exec(ctx, `DELETE FROM topic`); err != nil {
		return fmt.Errorf("failed to delete topics: %w", err)
	}
	return nil
}

func (q *Queries) InsertTopic(ctx context.Context, t models.Topic, now time.Time) error {
	_, err := q.exec(ctx, `
		INSERT INTO topic (id, text, active, created_at)
		VALUES ($1, $2, $3, $4)
	`, t.ID, t.Text, t.Active, now.UTC())
	if err != nil {
		return fmt.Errorf("failed to insert topic %d: %w", t.ID, err)
	}
	return nil
}

func (q *Queries) ListTopics(ctx context.Context) ([]models.Topic, error) {
	rows, err := q.query(ctx, `
		SELECT id, text, active, created_at FROM topic ORDER BY id
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query topics: %w", err)
	}
	defer rows.Close()

	topics := []models.Topic{}
	for rows.Next() {
		var t models.Topic
		if err := rows.Scan(&t.ID, &t.Text, &t.Active, &t.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan topic: %w", err)
		}
		t.CreatedAt = t.CreatedAt.UTC()
		topics = append(topics, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read topics: %w", err)
	}
	return topics, nil
}

func (q *Queries) TopicByID(ctx context.Context, id int64) (models.Topic, error) {
	var t models.Topic
	err := q.queryRow(ctx, `
		SELECT id, text, active, created_at FROM topic WHERE id = $1
	`, id).Scan(&t.ID, &t.Text, &t.Active, &t.CreatedAt)
	if err == sql.ErrNoRows {
		return models.Topic{}, ErrNotFound
	}
	if err != nil {
		return models.Topic{}, fmt.Errorf("failed to query topic %d: %w", id, err)
	}
	t.CreatedAt = t.CreatedAt.UTC()
	return t, nil
}

func (q *Queries) SetTopicActive(ctx context.Context, id int64, active bool) error {
	res, err := q.exec(ctx, `UPDATE topic SET active = $1 WHERE id = $2`, active, id)
	if err != nil {
		return fmt.Errorf("failed to update topic %d: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to update topic %d: %w", id, err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
