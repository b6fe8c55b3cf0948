package report

import (
	"encoding/csv"
	"errors"
	"io"
	"strconv"
	"time"

	pkgerrors "github.com/pkg/errors"

	"github.com/trezcool/shule/core/student"
)

// ErrNothingToExport signals an empty record set; no CSV is produced and
// the caller informs the user instead of serving an empty file.
var ErrNothingToExport = errors.New("no student records to export")

// ExportColumns is the fixed projected column set of a CSV export.
var ExportColumns = []string{"name", "roll_number", "subject", "marks", "attendance", "created_at"}

// WriteCSV streams the given records as CSV: a header row then one row per
// record in input order. No aggregation or filtering is applied; ownership
// scoping is the caller's concern. Unusable marks/attendance serialize as
// empty fields.
func WriteCSV(w io.Writer, recs []student.ScoreRecord) error {
	if len(recs) == 0 {
		return ErrNothingToExport
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(ExportColumns); err != nil {
		return pkgerrors.Wrap(err, "writing CSV header")
	}
	for _, rec := range recs {
		row := []string{
			rec.Name,
			rec.RollNumber,
			rec.Subject,
			csvInt(rec.Marks.Int, rec.Marks.Valid),
			csvInt(rec.Attendance.Int, rec.Attendance.Valid),
			rec.CreatedAt.UTC().Format(time.RFC3339),
		}
		if err := cw.Write(row); err != nil {
			return pkgerrors.Wrap(err, "writing CSV row")
		}
	}
	cw.Flush()
	return pkgerrors.Wrap(cw.Error(), "flushing CSV")
}

func csvInt(v int, valid bool) string {
	if !valid {
		return ""
	}
	return strconv.Itoa(v)
}
