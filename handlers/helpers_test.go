// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"testing"
	"time"

	"github.com/taidase2077-blip/voting-system-backend/ledger"
	"github.com/taidase2077-blip/voting-system-backend/metrics"
	"github.com/taidase2077-blip/voting-system-backend/store"
	"github.com/taidase2077-blip/voting-system-backend/testutil"
)

type testEnv struct {
	store   *store.Store
	ledger  *ledger.Service
	metrics *metrics.Metrics
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	loc, err := time.LoadLocation("Asia/Taipei")
	if err != nil {
		t.Fatalf("Failed to load zone: %v", err)
	}
	s := testutil.SetupTestStore(t)
	return &testEnv{
		store:   s,
		ledger:  ledger.NewService(s, ledger.ZoneClock{Loc: loc}),
		metrics: metrics.New(),
	}
}

// openWithHouseholds seeds codes, topics and an open gate with no deadline
func (e *testEnv) openWithHouseholds(t *testing.T, codes []string, topics ...string) {
	t.Helper()
	testutil.SeedHouseholds(t, e.store, codes...)
	testutil.SeedTopics(t, e.store, topics...)
	testutil.OpenVoting(t, e.store, nil)
}
