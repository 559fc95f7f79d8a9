// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package ledger

import (
	"context"
	"fmt"
	"time"

	"github.com/taidase2077-blip/voting-system-backend/models"
)

// DeadlinePresets are the quick choices offered to the admin, in minutes
var DeadlinePresets = []int{5, 10, 15, 20, 25, 30}

// Control returns the gate with times in the canonical zone
func (s *Service) Control(ctx context.Context) (models.VotingControl, error) {
	c, err := s.store.VotingControl(ctx)
	if err != nil {
		return models.VotingControl{}, unavailable(err)
	}
	if c.Deadline != nil {
		d := s.local(*c.Deadline)
		c.Deadline = &d
	}
	if c.UpdatedAt != nil {
		u := s.local(*c.UpdatedAt)
		c.UpdatedAt = &u
	}
	return c, nil
}

func (s *Service) SetOpen(ctx context.Context, open bool) (models.VotingControl, error) {
	if err := s.store.SetVotingOpen(ctx, open, s.clock.Now()); err != nil {
		return models.VotingControl{}, unavailable(err)
	}
	return s.Control(ctx)
}

// SetDeadline stores an absolute deadline; nil removes it
func (s *Service) SetDeadline(ctx context.Context, deadline *time.Time) (models.VotingControl, error) {
	if err := s.store.SetDeadline(ctx, deadline, s.clock.Now()); err != nil {
		return models.VotingControl{}, unavailable(err)
	}
	return s.Control(ctx)
}

// DeadlineIn sets the deadline minutes after now
func (s *Service) DeadlineIn(ctx context.Context, minutes int) (models.VotingControl, error) {
	if minutes <= 0 {
		return models.VotingControl{}, &ValidationError{
			Field:  "minutes_from_now",
			Reason: fmt.Sprintf("must be positive, got %d", minutes),
		}
	}
	deadline := s.clock.Now().Add(time.Duration(minutes) * time.Minute)
	return s.SetDeadline(ctx, &deadline)
}
