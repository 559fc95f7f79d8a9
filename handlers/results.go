// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"net/http"
	"strconv"

	"github.com/taidase2077-blip/voting-system-backend/ledger"
	"github.com/taidase2077-blip/voting-system-backend/middleware"
)

type ResultsHandler struct {
	ledger *ledger.Service
}

func NewResultsHandler(l *ledger.Service) *ResultsHandler {
	return &ResultsHandler{ledger: l}
}

// GetResults handles GET /admin/results
// Tallies are read live; closing the gate does not freeze them.
func (h *ResultsHandler) GetResults(w http.ResponseWriter, r *http.Request) {
	results, err := h.ledger.TallyAll(r.Context())
	if err != nil {
		writeLedgerError(w, err)
		return
	}
	middleware.JSONResponse(w, http.StatusOK, results)
}

// GetTopicResult handles GET /admin/results/{id}
func (h *ResultsHandler) GetTopicResult(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "topic id must be an integer")
		return
	}

	result, err := h.ledger.Tally(r.Context(), id)
	if err != nil {
		writeLedgerError(w, err)
		return
	}
	middleware.JSONResponse(w, http.StatusOK, result)
}
