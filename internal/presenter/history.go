package presenter

import (
	"time"

	"github.com/sayah-app/sayah-go/internal/api"
)

// dateLayout mirrors an en-US locale date-time string.
const dateLayout = "1/2/2006, 3:04:05 PM"

// invalidDate is shown for timestamps that could not be parsed.
const invalidDate = "Invalid Date"

// HistoryRow is one line of the history list. The probability is deliberately
// not part of the row; selecting it opens the result view.
type HistoryRow struct {
	ID       string
	Label    string // upper-cased, e.g. "STREP"
	Date     string
	Severity Severity
	Entry    api.HistoryEntry
}

// NewHistoryRows builds rows in the server's order with dates in loc.
// A nil loc uses time.Local.
func NewHistoryRows(entries []api.HistoryEntry, loc *time.Location) []HistoryRow {
	if loc == nil {
		loc = time.Local
	}
	rows := make([]HistoryRow, 0, len(entries))
	for i := range entries {
		e := entries[i]
		row := HistoryRow{
			ID:       e.ID,
			Label:    upperCaser.String(string(e.Label)),
			Date:     invalidDate,
			Severity: SeverityClear,
			Entry:    e,
		}
		if !e.Timestamp.IsZero() {
			row.Date = e.Timestamp.In(loc).Format(dateLayout)
		}
		if e.Label.Positive() {
			row.Severity = SeverityUrgent
		}
		rows = append(rows, row)
	}
	return rows
}

// Open returns the result view for the row.
func (r HistoryRow) Open() ResultView {
	return NewResultViewFromHistory(&r.Entry)
}
