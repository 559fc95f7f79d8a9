// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package ledger

import (
	"context"
	"errors"

	"github.com/taidase2077-blip/voting-system-backend/models"
	"github.com/taidase2077-blip/voting-system-backend/store"
)

// Tally counts the ballots on one topic straight from storage. Ratios use
// the current registry size as denominator and are 0 for an empty registry.
// The gate state plays no part.
func (s *Service) Tally(ctx context.Context, topicID int64) (models.TopicResult, error) {
	topic, err := s.store.TopicByID(ctx, topicID)
	if errors.Is(err, store.ErrNotFound) {
		return models.TopicResult{}, ErrInvalidTopic
	}
	if err != nil {
		return models.TopicResult{}, unavailable(err)
	}

	total, totalShare, err := s.store.RegistrySize(ctx)
	if err != nil {
		return models.TopicResult{}, unavailable(err)
	}
	return s.tally(ctx, topic, total, totalShare)
}

// TallyAll tallies every topic in id order against one registry count
func (s *Service) TallyAll(ctx context.Context) ([]models.TopicResult, error) {
	topics, err := s.store.ListTopics(ctx)
	if err != nil {
		return nil, unavailable(err)
	}
	total, totalShare, err := s.store.RegistrySize(ctx)
	if err != nil {
		return nil, unavailable(err)
	}

	results := make([]models.TopicResult, 0, len(topics))
	for _, topic := range topics {
		r, err := s.tally(ctx, topic, total, totalShare)
		if err != nil {
			return nil, err
		}
		results = append(results, r)
	}
	return results, nil
}

func (s *Service) tally(ctx context.Context, topic models.Topic, total int, totalShare float64) (models.TopicResult, error) {
	counts, err := s.store.CountDecisions(ctx, topic.ID)
	if err != nil {
		return models.TopicResult{}, unavailable(err)
	}

	r := models.TopicResult{
		TopicID:       topic.ID,
		Text:          topic.Text,
		Active:        topic.Active,
		AgreeCount:    counts.Agree,
		DisagreeCount: counts.Disagree,
		VotedCount:    counts.Agree + counts.Disagree,
		TotalEligible: total,
		AgreeShare:    counts.AgreeShare,
		DisagreeShare: counts.DisagreeShare,
		TotalShare:    totalShare,
	}
	if total > 0 {
		r.AgreeRatio = float64(counts.Agree) / float64(total)
		r.DisagreeRatio = float64(counts.Disagree) / float64(total)
	}
	return r, nil
}
