// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package models

import "time"

// Decision values
const (
	DecisionAgree    = "agree"
	DecisionDisagree = "disagree"
)

// Cast outcome values
const (
	OutcomeAccepted     = "accepted"
	OutcomeAlreadyVoted = "already_voted"
)

// ValidDecision reports whether d is one of the two ballot decisions
func ValidDecision(d string) bool {
	return d == DecisionAgree || d == DecisionDisagree
}

// Request types

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type CastVoteRequest struct {
	TopicID  int64  `json:"topic_id"`
	Decision string `json:"decision"`
}

type SetVotingOpenRequest struct {
	Open *bool `json:"open"`
}

// Either Deadline (RFC 3339) or MinutesFromNow must be set
type SetDeadlineRequest struct {
	Deadline       *time.Time `json:"deadline,omitempty"`
	MinutesFromNow int        `json:"minutes_from_now,omitempty"`
}

type SetTopicActiveRequest struct {
	Active *bool `json:"active"`
}

// Response types

type LoginResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

type UploadResponse struct {
	Count int `json:"count"`
}

type CastVoteResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
	Ballot  Ballot `json:"ballot"`
}

type VotingControlResponse struct {
	VotingControl
	Now           time.Time `json:"now"`
	DeadlineHuman string    `json:"deadline_human,omitempty"`
	Expired       bool      `json:"expired"`
	Presets       []int     `json:"deadline_presets"` // minutes offered as quick choices
}

// Domain types

type Household struct {
	Code  string   `json:"code"`
	Share *float64 `json:"share,omitempty"` // ownership fraction; nil counts as 1 in weighted sums
}

type Topic struct {
	ID        int64     `json:"id"`
	Text      string    `json:"text"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"created_at"`
}

type Ballot struct {
	ID            string    `json:"id"`
	HouseholdCode string    `json:"household_code"`
	TopicID       int64     `json:"topic_id"`
	Decision      string    `json:"decision"`
	CastAt        time.Time `json:"cast_at"`
}

type VotingControl struct {
	IsOpen    bool       `json:"is_open"`
	Deadline  *time.Time `json:"deadline,omitempty"`
	UpdatedAt *time.Time `json:"updated_at,omitempty"`
}

// TopicResult is the tally for one topic. Ratios are against every
// registered household, not against ballots cast.
type TopicResult struct {
	TopicID       int64   `json:"topic_id"`
	Text          string  `json:"text"`
	Active        bool    `json:"active"`
	AgreeCount    int     `json:"agree_count"`
	DisagreeCount int     `json:"disagree_count"`
	VotedCount    int     `json:"voted_count"`
	TotalEligible int     `json:"total_eligible"`
	AgreeRatio    float64 `json:"agree_ratio"`
	DisagreeRatio float64 `json:"disagree_ratio"`

	// Ownership-share weighted view
	AgreeShare    float64 `json:"agree_share"`
	DisagreeShare float64 `json:"disagree_share"`
	TotalShare    float64 `json:"total_share"`
}

// SheetItem is one topic as seen by a household on its voting page
type SheetItem struct {
	TopicID  int64      `json:"topic_id"`
	Text     string     `json:"text"`
	Decision string     `json:"decision,omitempty"`
	CastAt   *time.Time `json:"cast_at,omitempty"`
}

type BallotSheet struct {
	HouseholdCode string      `json:"household_code"`
	VotingOpen    bool        `json:"voting_open"`
	Deadline      *time.Time  `json:"deadline,omitempty"`
	DeadlineHuman string      `json:"deadline_human,omitempty"`
	Topics        []SheetItem `json:"topics"`
}

// Error response

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
