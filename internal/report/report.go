// Package report renders the tracked price changes into the final report
// and into rows for the storage sinks.
package report

import (
	"fmt"
	"strings"
	"time"

	"priceScope/internal/model"
	"priceScope/internal/pool"
	"priceScope/internal/tracker"
)

// Build renders the two-section text report: largest increases first,
// descending, then largest decreases, ascending.
func Build(tr *tracker.Tracker, count, year int) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Top %d NADAC per unit price increases of %d:\n", count, year)
	for _, entry := range tr.Most().Descending() {
		writeLine(&b, tr, entry)
	}

	b.WriteString("\n")

	fmt.Fprintf(&b, "Top %d NADAC per unit price decreases of %d:\n", count, year)
	for _, entry := range tr.Least().Ascending() {
		writeLine(&b, tr, entry)
	}

	return b.String()
}

func writeLine(b *strings.Builder, tr *tracker.Tracker, entry pool.Entry) {
	description, ok := tr.LookupDescription(entry.Code)
	if !ok {
		return
	}
	fmt.Fprintf(b, "%s: %s\n", formatChange(entry), description)
}

func formatChange(entry pool.Entry) string {
	if entry.Difference.Sign() >= 0 {
		return "$" + entry.Difference.StringFixed(2)
	}
	return "-$" + entry.Difference.Abs().StringFixed(2)
}

// Rows flattens the report into storable rows, ranked from most extreme.
func Rows(tr *tracker.Tracker, year int) []model.ReportRow {
	generatedAt := time.Now().UTC().Format(time.RFC3339)
	rows := make([]model.ReportRow, 0, tr.Most().Len()+tr.Least().Len())

	for rank, entry := range tr.Most().Descending() {
		rows = appendRow(rows, tr, entry, model.DirectionIncrease, rank+1, year, generatedAt)
	}
	for rank, entry := range tr.Least().Ascending() {
		rows = appendRow(rows, tr, entry, model.DirectionDecrease, rank+1, year, generatedAt)
	}

	return rows
}

func appendRow(rows []model.ReportRow, tr *tracker.Tracker, entry pool.Entry, direction string, rank, year int, generatedAt string) []model.ReportRow {
	description, ok := tr.LookupDescription(entry.Code)
	if !ok {
		return rows
	}
	return append(rows, model.ReportRow{
		Year:        year,
		Direction:   direction,
		Rank:        rank,
		Change:      formatChange(entry),
		Description: description,
		GeneratedAt: generatedAt,
	})
}
