// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package models defines request, response, and domain types for the API.

# Request Types

  - LoginRequest: username, password
  - CastVoteRequest: topic_id, decision
  - SetVotingOpenRequest: open
  - SetDeadlineRequest: deadline or minutes_from_now
  - SetTopicActiveRequest: active

# Response Types

  - LoginResponse: token, expires_at
  - UploadResponse: count
  - CastVoteResponse: status (accepted / already_voted), message, ballot
  - VotingControlResponse: gate state plus server time
  - ErrorResponse: error, message

# Domain Types

  - Household: code and optional ownership share
  - Topic: sequential id, wording, active flag
  - Ballot: one decision by one household on one topic
  - VotingControl: open flag and optional deadline
  - TopicResult: counts and ratios for a topic
  - BallotSheet / SheetItem: a household's view of the open topics

# Constants

Decisions:

	DecisionAgree    = "agree"
	DecisionDisagree = "disagree"

Cast outcomes:

	OutcomeAccepted     = "accepted"
	OutcomeAlreadyVoted = "already_voted"
*/
package models
