// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/dustin/go-humanize"

	"github.com/taidase2077-blip/voting-system-backend/cliparse"
	"github.com/taidase2077-blip/voting-system-backend/ledger"
	"github.com/taidase2077-blip/voting-system-backend/metrics"
	"github.com/taidase2077-blip/voting-system-backend/middleware"
	"github.com/taidase2077-blip/voting-system-backend/models"
	"github.com/taidase2077-blip/voting-system-backend/qrpack"
	"github.com/taidase2077-blip/voting-system-backend/upload"
)

// maxUploadBytes caps household and topic spreadsheets
const maxUploadBytes = 10 << 20

type RegistryHandler struct {
	ledger  *ledger.Service
	metrics *metrics.Metrics
	cfg     cliparse.Config
}

func NewRegistryHandler(l *ledger.Service, m *metrics.Metrics, cfg cliparse.Config) *RegistryHandler {
	return &RegistryHandler{ledger: l, metrics: m, cfg: cfg}
}

// UploadHouseholds handles PUT /admin/households
func (h *RegistryHandler) UploadHouseholds(w http.ResponseWriter, r *http.Request) {
	h.handleUpload(w, r, "households", h.ledger.LoadHouseholds)
}

// UploadTopics handles PUT /admin/topics
func (h *RegistryHandler) UploadTopics(w http.ResponseWriter, r *http.Request) {
	h.handleUpload(w, r, "topics", h.ledger.LoadTopics)
}

func (h *RegistryHandler) handleUpload(w http.ResponseWriter, r *http.Request, kind string,
	load func(context.Context, upload.Table) (int, error)) {

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		h.metrics.RecordUpload(kind, false)
		middleware.ErrorResponse(w, http.StatusBadRequest, "multipart form with a file field is required")
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		h.metrics.RecordUpload(kind, false)
		middleware.ErrorResponse(w, http.StatusBadRequest, "file is required")
		return
	}
	defer file.Close()

	table, err := upload.Parse(header.Filename, file)
	if err != nil {
		h.metrics.RecordUpload(kind, false)
		slog.Warn("upload rejected", "kind", kind, "file", header.Filename, "error", err)
		middleware.ErrorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	count, err := load(r.Context(), table)
	if err != nil {
		h.metrics.RecordUpload(kind, false)
		var verr *ledger.ValidationError
		if errors.As(err, &verr) {
			slog.Warn("upload rejected", "kind", kind, "file", header.Filename, "error", err)
		}
		writeLedgerError(w, err)
		return
	}

	h.metrics.RecordUpload(kind, true)
	admin, _ := middleware.AdminFromContext(r.Context())
	slog.Info("upload applied",
		"kind", kind,
		"file", header.Filename,
		"size", humanize.Bytes(uint64(header.Size)),
		"count", count,
		"admin", admin,
	)

	middleware.JSONResponse(w, http.StatusOK, models.UploadResponse{Count: count})
}

// ListHouseholds handles GET /admin/households
func (h *RegistryHandler) ListHouseholds(w http.ResponseWriter, r *http.Request) {
	households, err := h.ledger.Households(r.Context())
	if err != nil {
		writeLedgerError(w, err)
		return
	}
	middleware.JSONResponse(w, http.StatusOK, households)
}

// ListTopics handles GET /admin/topics
func (h *RegistryHandler) ListTopics(w http.ResponseWriter, r *http.Request) {
	topics, err := h.ledger.Topics(r.Context())
	if err != nil {
		writeLedgerError(w, err)
		return
	}
	middleware.JSONResponse(w, http.StatusOK, topics)
}

// SetTopicActive handles PATCH /admin/topics/{id}
func (h *RegistryHandler) SetTopicActive(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "topic id must be an integer")
		return
	}

	var req models.SetTopicActiveRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
	if req.Active == nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "active is required")
		return
	}

	if err := h.ledger.SetTopicActive(r.Context(), id, *req.Active); err != nil {
		writeLedgerError(w, err)
		return
	}

	slog.Info("topic toggled", "topic_id", id, "active", *req.Active)
	w.WriteHeader(http.StatusNoContent)
}

// QRCodes handles GET /admin/households/qrcodes.zip
func (h *RegistryHandler) QRCodes(w http.ResponseWriter, r *http.Request) {
	households, err := h.ledger.Households(r.Context())
	if err != nil {
		writeLedgerError(w, err)
		return
	}
	if len(households) == 0 {
		middleware.ErrorResponse(w, http.StatusNotFound, "no households registered")
		return
	}

	codes := make([]string, len(households))
	for i, hh := range households {
		codes[i] = hh.Code
	}

	// Build in memory so a rendering failure can still produce a JSON error
	var buf bytes.Buffer
	n, err := qrpack.WriteZip(&buf, h.cfg.VoteBaseURL, codes)
	if err != nil {
		slog.Error("failed to build qr bundle", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to build QR codes")
		return
	}

	slog.Info("qr bundle built",
		"households", humanize.Comma(int64(n)),
		"size", humanize.Bytes(uint64(buf.Len())),
	)

	w.Header().Set("Content-Type", "application/zip")
	w.Header().Set("Content-Disposition", `attachment; filename="household-qrcodes.zip"`)
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(buf.Bytes()); err != nil {
		slog.Warn("failed to send qr bundle", "error", err)
	}
}
