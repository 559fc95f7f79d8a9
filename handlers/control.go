// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/taidase2077-blip/voting-system-backend/ledger"
	"github.com/taidase2077-blip/voting-system-backend/middleware"
	"github.com/taidase2077-blip/voting-system-backend/models"
)

type ControlHandler struct {
	ledger *ledger.Service
}

func NewControlHandler(l *ledger.Service) *ControlHandler {
	return &ControlHandler{ledger: l}
}

// GetVoting handles GET /admin/voting
func (h *ControlHandler) GetVoting(w http.ResponseWriter, r *http.Request) {
	c, err := h.ledger.Control(r.Context())
	if err != nil {
		writeLedgerError(w, err)
		return
	}
	h.respond(w, c)
}

// SetVoting handles PUT /admin/voting
func (h *ControlHandler) SetVoting(w http.ResponseWriter, r *http.Request) {
	var req models.SetVotingOpenRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
	if req.Open == nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "open is required")
		return
	}

	c, err := h.ledger.SetOpen(r.Context(), *req.Open)
	if err != nil {
		writeLedgerError(w, err)
		return
	}

	admin, _ := middleware.AdminFromContext(r.Context())
	slog.Info("voting gate changed", "open", c.IsOpen, "admin", admin)
	h.respond(w, c)
}

// SetDeadline handles PUT /admin/voting/deadline
func (h *ControlHandler) SetDeadline(w http.ResponseWriter, r *http.Request) {
	var req models.SetDeadlineRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	var (
		c   models.VotingControl
		err error
	)
	switch {
	case req.Deadline != nil && req.MinutesFromNow != 0:
		middleware.ErrorResponse(w, http.StatusBadRequest, "set either deadline or minutes_from_now, not both")
		return
	case req.Deadline != nil:
		c, err = h.ledger.SetDeadline(r.Context(), req.Deadline)
	case req.MinutesFromNow != 0:
		c, err = h.ledger.DeadlineIn(r.Context(), req.MinutesFromNow)
	default:
		middleware.ErrorResponse(w, http.StatusBadRequest, "deadline or minutes_from_now is required")
		return
	}
	if err != nil {
		writeLedgerError(w, err)
		return
	}

	slog.Info("voting deadline set", "deadline", c.Deadline)
	h.respond(w, c)
}

// ClearDeadline handles DELETE /admin/voting/deadline
func (h *ControlHandler) ClearDeadline(w http.ResponseWriter, r *http.Request) {
	c, err := h.ledger.SetDeadline(r.Context(), nil)
	if err != nil {
		writeLedgerError(w, err)
		return
	}

	slog.Info("voting deadline cleared")
	h.respond(w, c)
}

func (h *ControlHandler) respond(w http.ResponseWriter, c models.VotingControl) {
	now := h.ledger.Now()
	resp := models.VotingControlResponse{
		VotingControl: c,
		Now:           now,
		Presets:       ledger.DeadlinePresets,
	}
	if c.Deadline != nil {
		resp.DeadlineHuman = relative(*c.Deadline, now)
		resp.Expired = now.After(*c.Deadline)
	}
	middleware.JSONResponse(w, http.StatusOK, resp)
}

// relative renders t against now, e.g. "10 minutes from now" or "2 hours ago"
func relative(t, now time.Time) string {
	return humanize.RelTime(t, now, "ago", "from now")
}
