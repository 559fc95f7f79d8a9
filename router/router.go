// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package router

import (
	"net/http"

	"github.com/taidase2077-blip/voting-system-backend/auth"
	"github.com/taidase2077-blip/voting-system-backend/cliparse"
	"github.com/taidase2077-blip/voting-system-backend/handlers"
	"github.com/taidase2077-blip/voting-system-backend/ledger"
	"github.com/taidase2077-blip/voting-system-backend/metrics"
	"github.com/taidase2077-blip/voting-system-backend/middleware"
)

func NewRouter(svc *ledger.Service, creds auth.Credentials, m *metrics.Metrics, cfg cliparse.Config) *http.ServeMux {
	mux := http.NewServeMux()
	sessions := auth.NewSessions(cfg.JWTSecret, cfg.SessionTTL)

	// Initialize handlers
	adminHandler := handlers.NewAdminHandler(creds, sessions)
	registryHandler := handlers.NewRegistryHandler(svc, m, cfg)
	controlHandler := handlers.NewControlHandler(svc)
	votingHandler := handlers.NewVotingHandler(svc, m)
	resultsHandler := handlers.NewResultsHandler(svc)

	public := func(h http.HandlerFunc) http.HandlerFunc {
		return middleware.Instrument(m, middleware.WithLogging(h))
	}
	admin := func(h http.HandlerFunc) http.HandlerFunc {
		return public(middleware.RequireAdmin(sessions, h))
	}

	// Health check
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})
	mux.Handle("GET /metrics", m.Handler())

	// Household voting (public, identified by the code in the QR link)
	mux.HandleFunc("GET /vote", public(votingHandler.GetBallotSheet))
	mux.HandleFunc("POST /vote", public(votingHandler.CastVote))

	mux.HandleFunc("POST /admin/login", public(adminHandler.Login))

	// Registry
	mux.HandleFunc("PUT /admin/households", admin(registryHandler.UploadHouseholds))
	mux.HandleFunc("GET /admin/households", admin(registryHandler.ListHouseholds))
	mux.HandleFunc("GET /admin/households/qrcodes.zip", admin(registryHandler.QRCodes))
	mux.HandleFunc("PUT /admin/topics", admin(registryHandler.UploadTopics))
	mux.HandleFunc("GET /admin/topics", admin(registryHandler.ListTopics))
	mux.HandleFunc("PATCH /admin/topics/{id}", admin(registryHandler.SetTopicActive))

	// Voting gate
	mux.HandleFunc("GET /admin/voting", admin(controlHandler.GetVoting))
	mux.HandleFunc("PUT /admin/voting", admin(controlHandler.SetVoting))
	mux.HandleFunc("PUT /admin/voting/deadline", admin(controlHandler.SetDeadline))
	mux.HandleFunc("DELETE /admin/voting/deadline", admin(controlHandler.ClearDeadline))

	// Results
	mux.HandleFunc("GET /admin/results", admin(resultsHandler.GetResults))
	mux.HandleFunc("GET /admin/results/{id}", admin(resultsHandler.GetTopicResult))

	// Root endpoint
	mux.HandleFunc("GET /{$}", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("voting-system API v1"))
	})

	return mux
}
