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

// DeleteHouseholds empties the registry
func (q *Queries) DeleteHouseholds(ctx context.Context) error {
	if _, err := q.exec(ctx, `DELETE FROM household`); err != nil {
		return fmt.Errorf("failed to delete households: %w", err)
	}
	return nil
}

func (q *Queries) InsertHousehold(ctx context.Context, h models.Household, now time.Time) error {
	var share sql.NullFloat64
	if h.Share != nil {
		share = sql.NullFloat64{Float64: *h.Share, Valid: true}
	}

	_, err := q.exec(ctx, `
		INSERT INTO household (code, share, created_at)
		VALUES ($1, $2, $3)
	`, h.Code, share, now.UTC())
	if err != nil {
		return fmt.Errorf("failed to insert household %q: %w", h.Code, err)
	}
	return nil
}

func (q *Queries) ListHouseholds(ctx context.Context) ([]models.Household, error) {
	rows, err := q.query(ctx, `SELECT code, share FROM household ORDER BY code`)
	if err != nil {
		return nil, fmt.Errorf("failed to query households: %w", err)
	}
	defer rows.Close()

	households := []models.Household{}
	for rows.Next() {
		h, err := scanHousehold(rows)
		if err != nil {
			return nil, err
		}
		households = append(households, h)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read households: %w", err)
	}
	return households, nil
}

// HouseholdByCode returns ErrNotFound for codes outside the current registry
func (q *Queries) HouseholdByCode(ctx context.Context, code string) (models.Household, error) {
	h, err := scanHousehold(q.queryRow(ctx, `
		SELECT code, share FROM household WHERE code = $1
	`, code))
	if err == sql.ErrNoRows {
		return models.Household{}, ErrNotFound
	}
	return h, err
}

// RegistrySize returns the number of households and the sum of their
// ownership shares, counting a missing share as 1.
func (q *Queries) RegistrySize(ctx context.Context) (count int, totalShare float64, err error) {
	err = q.queryRow(ctx, `
		SELECT COUNT(*), COALESCE(SUM(COALESCE(share, 1)), 0) FROM household
	`).Scan(&count, &totalShare)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to count households: %w", err)
	}
	return count, totalShare, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanHousehold(s scanner) (models.Household, error) {
	var (
		h     models.Household
		share sql.NullFloat64
	)
	if err := s.Scan(&h.Code, &share); err != nil {
		if err == sql.ErrNoRows {
			return models.Household{}, err
		}
		return models.Household{}, fmt.Errorf("failed to scan household: %w", err)
	}
	if share.Valid {
		v := share.Float64
		h.Share = &v
	}
	return h, nil
}
