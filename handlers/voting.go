// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/taidase2077-blip/voting-system-backend/ledger"
	"github.com/taidase2077-blip/voting-system-backend/metrics"
	"github.com/taidase2077-blip/voting-system-backend/middleware"
	"github.com/taidase2077-blip/voting-system-backend/models"
)

type VotingHandler struct {
	ledger  *ledger.Service
	metrics *metrics.Metrics
}

func NewVotingHandler(l *ledger.Service, m *metrics.Metrics) *VotingHandler {
	return &VotingHandler{ledger: l, metrics: m}
}

// householdCode reads the code carried by the QR link
func householdCode(r *http.Request) string {
	return strings.TrimSpace(r.URL.Query().Get("vote"))
}

// GetBallotSheet handles GET /vote?vote=<code>
func (h *VotingHandler) GetBallotSheet(w http.ResponseWriter, r *http.Request) {
	code := householdCode(r)
	if code == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "vote query parameter is required")
		return
	}

	sheet, err := h.ledger.BallotSheet(r.Context(), code)
	if err != nil {
		writeLedgerError(w, err)
		return
	}
	if sheet.Deadline != nil {
		sheet.DeadlineHuman = relative(*sheet.Deadline, h.ledger.Now())
	}

	middleware.JSONResponse(w, http.StatusOK, sheet)
}

// CastVote handles POST /vote?vote=<code>
func (h *VotingHandler) CastVote(w http.ResponseWriter, r *http.Request) {
	code := householdCode(r)
	if code == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "vote query parameter is required")
		return
	}

	var req models.CastVoteRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	result, err := h.ledger.CastVote(r.Context(), code, req.TopicID, req.Decision)
	if err != nil {
		h.metrics.RecordRejection(rejectionReason(err))
		slog.Info("ballot rejected", "household", code, "topic_id", req.TopicID, "error", err)
		writeLedgerError(w, err)
		return
	}

	if result.Outcome == models.OutcomeAlreadyVoted {
		h.metrics.RecordRejection(models.OutcomeAlreadyVoted)
		middleware.JSONResponse(w, http.StatusOK, models.CastVoteResponse{
			Status:  models.OutcomeAlreadyVoted,
			Message: "this household has already voted on this topic",
			Ballot:  result.Ballot,
		})
		return
	}

	h.metrics.RecordBallot(result.Ballot.Decision)
	slog.Info("ballot accepted", "household", code, "topic_id", req.TopicID, "decision", req.Decision)

	middleware.JSONResponse(w, http.StatusCreated, models.CastVoteResponse{
		Status:  models.OutcomeAccepted,
		Message: "vote recorded",
		Ballot:  result.Ballot,
	})
}
