// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package handlers contains the HTTP request handlers for the voting backend.

# Handler Types

Each handler is a struct holding the services it needs:

  - AdminHandler: admin login, issuing session tokens
  - RegistryHandler: household and topic uploads, listings, QR bundle
  - ControlHandler: voting gate and deadline
  - VotingHandler: household ballot sheet and casting
  - ResultsHandler: per-topic tallies

	voting := handlers.NewVotingHandler(ledgerService, m)

# Voting Flow

Each household receives a QR code linking to the vote page with its code:

	GET  /vote?vote=A-101  → GetBallotSheet (active topics, own decisions)
	POST /vote?vote=A-101  → CastVote {topic_id, decision}

A first ballot answers 201 with status "accepted". Casting again on the same
topic answers 200 with status "already_voted" and the stored ballot; the
original decision stands.

# Errors

Ledger errors map onto statuses in one place:

	unknown household or topic   404
	voting closed, deadline over 409
	bad decision, bad upload     400
	storage unavailable          503

# Admin Operations

Everything under /admin except /admin/login requires a session token (see
middleware.RequireAdmin). Uploads are multipart forms with a "file" field
holding a .csv or .xlsx sheet; a rejected upload leaves the existing data
untouched.
*/
package handlers
