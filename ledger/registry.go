// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package ledger

import (
	"context"
	"fmt"

	"github.com/taidase2077-blip/voting-system-backend/models"
	"github.com/taidase2077-blip/voting-system-backend/store"
	"github.com/taidase2077-blip/voting-system-backend/upload"
)

// LoadHouseholds replaces the whole registry with the rows of t. Nothing is
// written unless every row validates. Rows with a blank code are skipped.
func (s *Service) LoadHouseholds(ctx context.Context, t upload.Table) (int, error) {
	codeCol, ok := t.Column(upload.HouseholdCodeColumns...)
	if !ok {
		return 0, &ValidationError{Field: upload.HouseholdCodeColumns[0], Reason: "required column is missing"}
	}
	shareCol, hasShare := t.Column(upload.ShareColumns...)

	households := make([]models.Household, 0, len(t.Rows))
	seen := make(map[string]int, len(t.Rows))
	for i, row := range t.Rows {
		line := i + 2 // header is line 1
		code := t.Cell(row, codeCol)
		if code == "" {
			continue
		}
		if first, dup := seen[code]; dup {
			return 0, &ValidationError{
				Field:  upload.HouseholdCodeColumns[0],
				Reason: fmt.Sprintf("code %q on line %d duplicates line %d", code, line, first),
			}
		}
		seen[code] = line

		h := models.Household{Code: code}
		if hasShare {
			if raw := t.Cell(row, shareCol); raw != "" {
				share, err := upload.ParseShare(raw)
				if err != nil {
					return 0, &ValidationError{
						Field:  upload.ShareColumns[0],
						Reason: fmt.Sprintf("line %d: %v", line, err),
					}
				}
				h.Share = &share
			}
		}
		households = append(households, h)
	}

	now := s.clock.Now()
	err := s.store.InTx(ctx, func(q *store.Queries) error {
		if err := q.DeleteHouseholds(ctx); err != nil {
			return err
		}
		for _, h := range households {
			if err := q.InsertHousehold(ctx, h, now); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return 0, unavailable(err)
	}

	return len(households), nil
}

// LoadTopics replaces every topic, numbering the new ones from 1. Ballots on
// the previous topics are discarded with them.
func (s *Service) LoadTopics(ctx context.Context, t upload.Table) (int, error) {
	textCol, ok := t.Column(upload.TopicTextColumns...)
	if !ok {
		return 0, &ValidationError{Field: upload.TopicTextColumns[0], Reason: "required column is missing"}
	}

	var topics []models.Topic
	for _, row := range t.Rows {
		text := t.Cell(row, textCol)
		if text == "" {
			continue
		}
		topics = append(topics, models.Topic{
			ID:     int64(len(topics) + 1),
			Text:   text,
			Active: true,
		})
	}

	now := s.clock.Now()
	err := s.store.InTx(ctx, func(q *store.Queries) error {
		if err := q.DeleteTopics(ctx); err != nil {
			return err
		}
		for _, topic := range topics {
			if err := q.InsertTopic(ctx, topic, now); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return 0, unavailable(err)
	}

	return len(topics), nil
}
