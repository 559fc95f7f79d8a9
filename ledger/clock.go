// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package ledger

import "time"

// Clock is the single time source for stored timestamps and deadline checks
type Clock interface {
	Now() time.Time
}

// ZoneClock reports wall time in one fixed zone, whatever the caller's zone
type ZoneClock struct {
	Loc *time.Location
}

func (c ZoneClock) Now() time.Time {
	return time.Now().In(c.Loc)
}
