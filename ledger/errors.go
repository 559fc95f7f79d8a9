// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package ledger

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidHousehold   = errors.New("household code is not registered")
	ErrInvalidTopic       = errors.New("topic does not exist or is not active")
	ErrVotingClosed       = errors.New("voting is closed")
	ErrDeadlineExpired    = errors.New("voting deadline has passed")
	ErrInvalidDecision    = errors.New("decision must be agree or disagree")
	ErrStorageUnavailable = errors.New("storage unavailable")
)

// ValidationError rejects an upload as a whole
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Reason
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

// unavailable marks a storage failure as transient; callers may retry
func unavailable(err error) error {
	return fmt.Errorf("%w: %w", ErrStorageUnavailable, err)
}
