// Package export serializes count records to delimited text and spreadsheet
// files for external processing.
package export

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/erazemk/inventura/internal/model"
)

// ErrNoData is returned when there are no records to export. Callers should
// check before offering an export rather than delivering an empty file.
var ErrNoData = errors.New("no records to export")

// Header is the fixed column order for exports.
var Header = []string{"Code", "Location", "Quantity", "Timestamp"}

// timeLayout renders timestamps with minute precision in local time.
const timeLayout = "2006-01-02 15:04"

// FormatCSV serializes records in their given order (the store supplies
// newest first; the formatter does not resort), one header row followed by
// one row per record. Fields are comma-joined verbatim: codes or locations
// containing commas corrupt the output, which is a documented constraint on
// input character sets, not something the formatter quotes around.
func FormatCSV(records []model.Record, header []string) (string, error) {
	if len(records) == 0 {
		return "", ErrNoData
	}

	var b strings.Builder
	b.WriteString(strings.Join(header, ","))
	b.WriteByte('\n')
	for _, r := range records {
		fmt.Fprintf(&b, "%s,%s,%d,%s\n",
			r.Code, r.Location, r.Quantity, r.CreatedAt.Local().Format(timeLayout))
	}
	return b.String(), nil
}

// Filename derives the download name for an export performed at time now.
// An empty location means the full export; otherwise the name embeds the
// two-digit year and month of the export time and the location label.
func Filename(location, extension string, now time.Time) string {
	if location == "" {
		return "inventura_all." + extension
	}
	return fmt.Sprintf("inventura_%s_%s.%s", now.Format("0601"), location, extension)
}
