// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/taidase2077-blip/voting-system-backend/models"
)

// InsertBallot writes b unless a ballot already exists for the same
// household and topic. The uniqueness check and the insert are one statement,
// so concurrent submissions for the same pair cannot both land.
// inserted is false when the pair was already taken.
func (q *Queries) InsertBallot(ctx context.Context, b models.Ballot) (inserted bool, err error) {
	res, err := q.exec(ctx, `
		INSERT INTO ballot (id, household_code, topic_id, decision, cast_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (household_code, topic_id) DO NOTHING
	`, b.ID, b.HouseholdCode, b.TopicID, b.Decision, b.CastAt.UTC())
	if err != nil {
		return false, fmt.Errorf("failed to insert ballot: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to insert ballot: %w", err)
	}
	return n == 1, nil
}

func (q *Queries) BallotFor(ctx context.Context, householdCode string, topicID int64) (models.Ballot, error) {
	var b models.Ballot
	err := q.queryRow(ctx, `
		SELECT id, household_code, topic_id, decision, cast_at
		FROM ballot
		WHERE household_code = $1 AND topic_id = $2
	`, householdCode, topicID).Scan(&b.ID, &b.HouseholdCode, &b.TopicID, &b.Decision, &b.CastAt)
	if err == sql.ErrNoRows {
		return models.Ballot{}, ErrNotFound
	}
	if err != nil {
		return models.Ballot{}, fmt.Errorf("failed to query ballot: %w", err)
	}
	b.CastAt = b.CastAt.UTC()
	return b, nil
}

// BallotsForHousehold returns the household's ballots keyed by topic id
func (q *Queries) BallotsForHousehold(ctx context.Context, householdCode string) (map[int64]models.Ballot, error) {
	rows, err := q.query(ctx, `
		SELECT id, household_code, topic_id, decision, cast_at
		FROM ballot
		WHERE household_code = $1
	`, householdCode)
	if err != nil {
		return nil, fmt.Errorf("failed to query ballots: %w", err)
	}
	defer rows.Close()

	ballots := make(map[int64]models.Ballot)
	for rows.Next() {
		var b models.Ballot
		if err := rows.Scan(&b.ID, &b.HouseholdCode, &b.TopicID, &b.Decision, &b.CastAt); err != nil {
			return nil, fmt.Errorf("failed to scan ballot: %w", err)
		}
		b.CastAt = b.CastAt.UTC()
		ballots[b.TopicID] = b
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read ballots: %w", err)
	}
	return ballots, nil
}

// DecisionCounts aggregates the ballots on one topic. Shares come from the
// current registry; a household without a share, or one no longer
// registered, weighs 1.
type DecisionCounts struct {
	Agree         int
	Disagree      int
	AgreeShare    float64
	DisagreeShare float64
}

func (q *Queries) CountDecisions(ctx context.Context, topicID int64) (DecisionCounts, error) {
	rows, err := q.query(ctx, `
		SELECT b.decision, COUNT(*), COALESCE(SUM(COALESCE(h.share, 1)), 0)
		FROM ballot b
		LEFT JOIN household h ON h.code = b.household_code
		WHERE b.topic_id = $1
		GROUP BY b.decision
	`, topicID)
	if err != nil {
		return DecisionCounts{}, fmt.Errorf("failed to count ballots: %w", err)
	}
	defer rows.Close()

	var c DecisionCounts
	for rows.Next() {
		var (
			decision string
			count    int
			share    float64
		)
		if err := rows.Scan(&decision, &count, &share); err != nil {
			return DecisionCounts{}, fmt.Errorf("failed to scan ballot count: %w", err)
		}
		switch decision {
		case models.DecisionAgree:
			c.Agree, c.AgreeShare = count, share
		case models.DecisionDisagree:
			c.Disagree, c.DisagreeShare = count, share
		}
	}
	if err := rows.Err(); err != nil {
		return DecisionCounts{}, fmt.Errorf("failed to read ballot counts: %w", err)
	}
	return c, nil
}
