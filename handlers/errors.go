// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/taidase2077-blip/voting-system-backend/ledger"
	"github.com/taidase2077-blip/voting-system-backend/middleware"
)

// writeLedgerError maps ledger errors onto HTTP statuses
func writeLedgerError(w http.ResponseWriter, err error) {
	var verr *ledger.ValidationError
	switch {
	case errors.Is(err, ledger.ErrInvalidHousehold),
		errors.Is(err, ledger.ErrInvalidTopic):
		middleware.ErrorResponse(w, http.StatusNotFound, err.Error())
	case errors.Is(err, ledger.ErrVotingClosed),
		errors.Is(err, ledger.ErrDeadlineExpired):
		middleware.ErrorResponse(w, http.StatusConflict, err.Error())
	case errors.Is(err, ledger.ErrInvalidDecision),
		errors.As(err, &verr):
		middleware.ErrorResponse(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, ledger.ErrStorageUnavailable):
		slog.Error("storage unavailable", "error", err)
		middleware.ErrorResponse(w, http.StatusServiceUnavailable, "storage unavailable, please retry")
	default:
		slog.Error("unexpected ledger error", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "internal error")
	}
}

// rejectionReason is the metrics label for a refused cast
func rejectionReason(err error) string {
	switch {
	case errors.Is(err, ledger.ErrInvalidHousehold):
		return "invalid_household"
	case errors.Is(err, ledger.ErrInvalidTopic):
		return "invalid_topic"
	case errors.Is(err, ledger.ErrVotingClosed):
		return "voting_closed"
	case errors.Is(err, ledger.ErrDeadlineExpired):
		return "deadline_expired"
	case errors.Is(err, ledger.ErrInvalidDecision):
		return "invalid_decision"
	case errors.Is(err, ledger.ErrStorageUnavailable):
		return "storage_unavailable"
	}
	return "other"
}
