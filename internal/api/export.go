package api

import (
	"fmt"
	"net/http"
	"time"

	"github.com/erazemk/inventura/internal/export"
	"github.com/erazemk/inventura/internal/inventory"
	"github.com/erazemk/inventura/internal/metrics"
)

// utf8BOM is prepended to CSV downloads so spreadsheet tools detect UTF-8.
const utf8BOM = "\xef\xbb\xbf"

// ExportHandler produces downloadable export files.
type ExportHandler struct {
	Store   *inventory.Store
	Metrics *metrics.Metrics
}

// Get handles GET /api/export. Query parameters: location (empty for the
// full export) and format (csv, the default, or xlsx).
func (h *ExportHandler) Get(w http.ResponseWriter, r *http.Request) {
	location := r.URL.Query().Get("location")
	format := r.URL.Query().Get("format")
	if format == "" {
		format = "csv"
	}

	records := h.Store.Items(location)
	filename := export.Filename(location, format, time.Now())

	switch format {
	case "csv":
		body, err := export.FormatCSV(records, export.Header)
		if err != nil {
			domainError(w, err)
			return
		}
		w.Header().Set("Content-Type", "text/csv; charset=utf-8")
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
		w.Write([]byte(utf8BOM))
		w.Write([]byte(body))
	case "xlsx":
		body, err := export.FormatXLSX(records, export.Header)
		if err != nil {
			domainError(w, err)
			return
		}
		w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
		w.Write(body)
	default:
		jsonError(w, http.StatusBadRequest, "unsupported format")
		return
	}

	h.Metrics.ExportsTotal.WithLabelValues(format).Inc()
}
