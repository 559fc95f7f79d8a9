// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package middleware provides HTTP middleware and helper functions.

# Request Logging and Metrics

Wrap handlers with request logging and Prometheus instrumentation:

	mux.HandleFunc("GET /vote", middleware.Instrument(m, middleware.WithLogging(handler)))

WithLogging logs request start (method, path, remote) and completion
(status, duration_ms). Instrument labels series with the route pattern
rather than the raw path.

# Admin Sessions

Admin routes require a session token from POST /admin/login:

	mux.HandleFunc("GET /admin/results", middleware.RequireAdmin(sessions, h.GetResults))

The token is read from "Authorization: Bearer <token>". Handlers can read
the admin's username with AdminFromContext.

# CORS Middleware

Enable cross-origin requests for frontend access:

	server := http.Server{
		Handler: middleware.CORS(mux),
	}

# JSON Helpers

	middleware.JSONResponse(w, http.StatusOK, data)
	middleware.ErrorResponse(w, http.StatusBadRequest, "message")

	var req models.CastVoteRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

# Client IP Extraction

	ip := middleware.GetClientIP(r)

Used in login audit logs.
*/
package middleware
