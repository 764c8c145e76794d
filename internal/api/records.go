package api

import (
	"net/http"
	"strconv"

	"github.com/erazemk/inventura/internal/inventory"
)

// RecordsHandler handles the count record endpoints.
type RecordsHandler struct {
	Store *inventory.Store
}

// List handles GET /api/records. An optional location query parameter
// restricts the result to one location. Records are returned newest first.
func (h *RecordsHandler) List(w http.ResponseWriter, r *http.Request) {
	records := h.Store.Items(r.URL.Query().Get("location"))
	jsonResponse(w, http.StatusOK, map[string]any{
		"count":   len(records),
		"records": records,
	})
}

// Delete handles DELETE /api/records/{id}.
func (h *RecordsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid record id")
		return
	}

	if err := h.Store.DeleteItem(r.Context(), id); err != nil {
		domainError(w, err)
		return
	}
	jsonResponse(w, http.StatusOK, map[string]string{"message": "record deleted"})
}
