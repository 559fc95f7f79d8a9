// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package ledger

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/taidase2077-blip/voting-system-backend/models"
	"github.com/taidase2077-blip/voting-system-backend/store"
)

// Service owns the vote-once rule, the gate and the tallies.
// Conflict policy is first-write-wins: once a household has a ballot on a
// topic, later casts for that pair report already_voted and change nothing.
type Service struct {
	store *store.Store
	clock Clock
}

func NewService(s *store.Store, clock Clock) *Service {
	return &Service{store: s, clock: clock}
}

// Now is the canonical time used for ballots and deadlines
func (s *Service) Now() time.Time {
	return s.clock.Now()
}

func (s *Service) local(t time.Time) time.Time {
	return t.In(s.clock.Now().Location())
}

type CastResult struct {
	Outcome string // models.OutcomeAccepted or models.OutcomeAlreadyVoted
	Ballot  models.Ballot
}

// CastVote records decision for (code, topicID). Gates are checked in order:
// registered household, open gate, deadline, active topic. The insert itself
// is conditioned on the pair being free, inside the same transaction.
func (s *Service) CastVote(ctx context.Context, code string, topicID int64, decision string) (CastResult, error) {
	var result CastResult

	err := s.store.InTx(ctx, func(q *store.Queries) error {
		if _, err := q.HouseholdByCode(ctx, code); err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return ErrInvalidHousehold
			}
			return unavailable(err)
		}

		control, err := q.VotingControl(ctx)
		if err != nil {
			return unavailable(err)
		}
		now := s.clock.Now()
		if err := GateError(control, now); err != nil {
			return err
		}

		topic, err := q.TopicByID(ctx, topicID)
		if errors.Is(err, store.ErrNotFound) || (err == nil && !topic.Active) {
			return ErrInvalidTopic
		}
		if err != nil {
			return unavailable(err)
		}

		if !models.ValidDecision(decision) {
			return ErrInvalidDecision
		}

		b := models.Ballot{
			ID:            uuid.NewString(),
			HouseholdCode: code,
			TopicID:       topicID,
			Decision:      decision,
			CastAt:        now,
		}
		inserted, err := q.InsertBallot(ctx, b)
		if err != nil {
			return unavailable(err)
		}
		if inserted {
			result = CastResult{Outcome: models.OutcomeAccepted, Ballot: b}
			return nil
		}

		existing, err := q.BallotFor(ctx, code, topicID)
		if err != nil {
			return unavailable(err)
		}
		result = CastResult{Outcome: models.OutcomeAlreadyVoted, Ballot: existing}
		return nil
	})
	if err != nil {
		return CastResult{}, s.classify(err)
	}

	result.Ballot.CastAt = s.local(result.Ballot.CastAt)
	return result, nil
}

// GateError reports why the gate refuses ballots at now, or nil when open.
// The deadline is checked independently of the open flag.
func GateError(c models.VotingControl, now time.Time) error {
	if !c.IsOpen {
		return ErrVotingClosed
	}
	if c.Deadline != nil && now.After(*c.Deadline) {
		return ErrDeadlineExpired
	}
	return nil
}

// classify passes domain errors through and marks anything else as a
// storage failure
func (s *Service) classify(err error) error {
	var verr *ValidationError
	switch {
	case errors.Is(err, ErrInvalidHousehold),
		errors.Is(err, ErrInvalidTopic),
		errors.Is(err, ErrVotingClosed),
		errors.Is(err, ErrDeadlineExpired),
		errors.Is(err, ErrInvalidDecision),
		errors.Is(err, ErrStorageUnavailable),
		errors.As(err, &verr):
		return err
	}
	return unavailable(err)
}

// BallotSheet is the household's page: every active topic with the
// household's decision where one exists.
func (s *Service) BallotSheet(ctx context.Context, code string) (models.BallotSheet, error) {
	if _, err := s.store.HouseholdByCode(ctx, code); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return models.BallotSheet{}, ErrInvalidHousehold
		}
		return models.BallotSheet{}, unavailable(err)
	}

	control, err := s.store.VotingControl(ctx)
	if err != nil {
		return models.BallotSheet{}, unavailable(err)
	}
	topics, err := s.store.ListTopics(ctx)
	if err != nil {
		return models.BallotSheet{}, unavailable(err)
	}
	ballots, err := s.store.BallotsForHousehold(ctx, code)
	if err != nil {
		return models.BallotSheet{}, unavailable(err)
	}

	sheet := models.BallotSheet{
		HouseholdCode: code,
		VotingOpen:    GateError(control, s.clock.Now()) == nil,
		Topics:        []models.SheetItem{},
	}
	if control.Deadline != nil {
		d := s.local(*control.Deadline)
		sheet.Deadline = &d
	}
	for _, t := range topics {
		if !t.Active {
			continue
		}
		item := models.SheetItem{TopicID: t.ID, Text: t.Text}
		if b, ok := ballots[t.ID]; ok {
			castAt := s.local(b.CastAt)
			item.Decision = b.Decision
			item.CastAt = &castAt
		}
		sheet.Topics = append(sheet.Topics, item)
	}
	return sheet, nil
}

func (s *Service) Households(ctx context.Context) ([]models.Household, error) {
	households, err := s.store.ListHouseholds(ctx)
	if err != nil {
		return nil, unavailable(err)
	}
	return households, nil
}

func (s *Service) Topics(ctx context.Context) ([]models.Topic, error) {
	topics, err := s.store.ListTopics(ctx)
	if err != nil {
		return nil, unavailable(err)
	}
	for i := range topics {
		topics[i].CreatedAt = s.local(topics[i].CreatedAt)
	}
	return topics, nil
}

// SetTopicActive toggles whether a topic accepts ballots
func (s *Service) SetTopicActive(ctx context.Context, id int64, active bool) error {
	err := s.store.SetTopicActive(ctx, id, active)
	if errors.Is(err, store.ErrNotFound) {
		return ErrInvalidTopic
	}
	if err != nil {
		return unavailable(err)
	}
	return nil
}
