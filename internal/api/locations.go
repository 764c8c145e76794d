package api

import (
	"net/http"
	"strconv"

	"github.com/erazemk/inventura/internal/inventory"
	"github.com/erazemk/inventura/internal/label"
)

// LocationsHandler handles the location collection endpoints.
type LocationsHandler struct {
	Store *inventory.Store
}

type createLocationRequest struct {
	Name string `json:"name"`
}

// List handles GET /api/locations.
func (h *LocationsHandler) List(w http.ResponseWriter, r *http.Request) {
	jsonResponse(w, http.StatusOK, h.Store.Locations())
}

// Create handles POST /api/locations.
func (h *LocationsHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createLocationRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.Store.AddLocation(r.Context(), req.Name); err != nil {
		domainError(w, err)
		return
	}

	jsonResponse(w, http.StatusCreated, map[string]string{"name": req.Name})
}

// Delete handles DELETE /api/locations/{name}.
func (h *LocationsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.Store.DeleteLocation(r.Context(), r.PathValue("name")); err != nil {
		domainError(w, err)
		return
	}
	jsonResponse(w, http.StatusOK, map[string]string{"message": "location deleted"})
}

// Label handles GET /api/locations/{name}/label. It renders a printable QR
// label PNG for an existing location.
func (h *LocationsHandler) Label(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")
	if !h.Store.HasLocation(name) {
		jsonError(w, http.StatusNotFound, "location not found")
		return
	}

	size := label.DefaultSize
	if v := r.URL.Query().Get("size"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil {
			jsonError(w, http.StatusBadRequest, "invalid size")
			return
		}
		size = parsed
	}

	data, err := label.Generate(name, size)
	if err != nil {
		domainError(w, err)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "public, max-age=3600")
	w.Write(data)
}
