// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/taidase2077-blip/voting-system-backend/auth"
	"github.com/taidase2077-blip/voting-system-backend/middleware"
	"github.com/taidase2077-blip/voting-system-backend/models"
)

type AdminHandler struct {
	creds    auth.Credentials
	sessions *auth.Sessions
}

func NewAdminHandler(creds auth.Credentials, sessions *auth.Sessions) *AdminHandler {
	return &AdminHandler{creds: creds, sessions: sessions}
}

// Login handles POST /admin/login
func (h *AdminHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	if req.Username == "" || req.Password == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "username and password are required")
		return
	}

	if err := h.creds.Verify(req.Username, req.Password); err != nil {
		if !errors.Is(err, auth.ErrInvalidCredentials) {
			slog.Error("credential check failed", "error", err)
		}
		slog.Warn("admin login rejected", "username", req.Username, "remote", middleware.GetClientIP(r))
		middleware.ErrorResponse(w, http.StatusUnauthorized, "invalid credentials")
		return
	}

	token, expiresAt, err := h.sessions.Issue(req.Username)
	if err != nil {
		slog.Error("failed to issue session", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to create session")
		return
	}

	slog.Info("admin logged in", "username", req.Username, "remote", middleware.GetClientIP(r))

	middleware.JSONResponse(w, http.StatusOK, models.LoginResponse{
		Token:     token,
		ExpiresAt: expiresAt,
	})
}
