package api

import (
	"net/http"

	"github.com/erazemk/inventura/internal/metrics"
	"github.com/erazemk/inventura/internal/scan"
)

// SessionHandler exposes the counting session state machine. There is a
// single session per process: one user counts one location at a time.
type SessionHandler struct {
	Session *scan.Session
	Metrics *metrics.Metrics
}

type openSessionRequest struct {
	Location string `json:"location"`
}

type captureRequest struct {
	Code string `json:"code"`
}

type commitRequest struct {
	Quantity int `json:"quantity"`
}

// Get handles GET /api/session.
func (h *SessionHandler) Get(w http.ResponseWriter, r *http.Request) {
	jsonResponse(w, http.StatusOK, h.Session.Status())
}

// Open handles POST /api/session/open.
func (h *SessionHandler) Open(w http.ResponseWriter, r *http.Request) {
	var req openSessionRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.Session.Open(r.Context(), req.Location); err != nil {
		domainError(w, err)
		return
	}
	jsonResponse(w, http.StatusOK, h.Session.Status())
}

// Toggle handles POST /api/session/toggle.
func (h *SessionHandler) Toggle(w http.ResponseWriter, r *http.Request) {
	if err := h.Session.ToggleMode(r.Context()); err != nil {
		domainError(w, err)
		return
	}
	jsonResponse(w, http.StatusOK, h.Session.Status())
}

// Capture handles POST /api/session/code (manual code submission).
func (h *SessionHandler) Capture(w http.ResponseWriter, r *http.Request) {
	var req captureRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.Session.Capture(r.Context(), req.Code); err != nil {
		domainError(w, err)
		return
	}
	jsonResponse(w, http.StatusOK, h.Session.Status())
}

// Commit handles POST /api/session/quantity.
func (h *SessionHandler) Commit(w http.ResponseWriter, r *http.Request) {
	var req commitRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	location := h.Session.Status().Location
	if err := h.Session.Commit(r.Context(), req.Quantity); err != nil {
		domainError(w, err)
		return
	}
	h.Metrics.ScansTotal.WithLabelValues(location).Inc()

	jsonResponse(w, http.StatusOK, h.Session.Status())
}

// Close handles POST /api/session/close.
func (h *SessionHandler) Close(w http.ResponseWriter, r *http.Request) {
	if err := h.Session.Close(r.Context()); err != nil {
		domainError(w, err)
		return
	}
	jsonResponse(w, http.StatusOK, h.Session.Status())
}
