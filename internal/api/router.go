package api

import (
	"net/http"

	"github.com/erazemk/inventura/internal/inventory"
	"github.com/erazemk/inventura/internal/metrics"
	"github.com/erazemk/inventura/internal/scan"
)

// NewRouter creates the API router with all endpoints registered.
func NewRouter(store *inventory.Store, session *scan.Session, m *metrics.Metrics) http.Handler {
	mux := http.NewServeMux()

	locationsHandler := &LocationsHandler{Store: store}
	recordsHandler := &RecordsHandler{Store: store}
	sessionHandler := &SessionHandler{Session: session, Metrics: m}
	exportHandler := &ExportHandler{Store: store, Metrics: m}

	mux.HandleFunc("GET /health", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/plain")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	// Locations.
	mux.HandleFunc("GET /api/locations", locationsHandler.List)
	mux.HandleFunc("POST /api/locations", locationsHandler.Create)
	mux.HandleFunc("DELETE /api/locations/{name}", locationsHandler.Delete)
	mux.HandleFunc("GET /api/locations/{name}/label", locationsHandler.Label)

	// Count records.
	mux.HandleFunc("GET /api/records", recordsHandler.List)
	mux.HandleFunc("DELETE /api/records/{id}", recordsHandler.Delete)

	// Counting session.
	mux.HandleFunc("GET /api/session", sessionHandler.Get)
	mux.HandleFunc("POST /api/session/open", sessionHandler.Open)
	mux.HandleFunc("POST /api/session/toggle", sessionHandler.Toggle)
	mux.HandleFunc("POST /api/session/code", sessionHandler.Capture)
	mux.HandleFunc("POST /api/session/quantity", sessionHandler.Commit)
	mux.HandleFunc("POST /api/session/close", sessionHandler.Close)

	// Export.
	mux.HandleFunc("GET /api/export", exportHandler.Get)

	return MetricsMiddleware(m)(mux)
}
