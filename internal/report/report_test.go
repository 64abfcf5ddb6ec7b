package report

import (
	"testing"

	"github.com/shopspring/decimal"

	"priceScope/internal/model"
	"priceScope/internal/tracker"
)

func record(t *testing.T, tr *tracker.Tracker, description, start, end string) {
	t.Helper()
	s, err := decimal.NewFromString(start)
	if err != nil {
		t.Fatalf("parse %q: %v", start, err)
	}
	e, err := decimal.NewFromString(end)
	if err != nil {
		t.Fatalf("parse %q: %v", end, err)
	}
	tr.Record(description, s, e)
}

func buildTracker(t *testing.T) *tracker.Tracker {
	t.Helper()
	tr, err := tracker.New(2)
	if err != nil {
		t.Fatalf("new tracker: %v", err)
	}
	record(t, tr, "DRUG A", "1.00", "4.505")
	record(t, tr, "DRUG B", "1.00", "2.25")
	record(t, tr, "DRUG C", "5.00", "1.00")
	record(t, tr, "DRUG D", "2.00", "1.90")
	return tr
}

func TestBuildFormatsBothSections(t *testing.T) {
	got := Build(buildTracker(t), 2, 2023)

	want := "Top 2 NADAC per unit price increases of 2023:\n" +
		"$3.51: DRUG A\n" +
		"$1.25: DRUG B\n" +
		"\n" +
		"Top 2 NADAC per unit price decreases of 2023:\n" +
		"-$4.00: DRUG C\n" +
		"-$0.10: DRUG D\n"

	if got != want {
		t.Fatalf("report mismatch:\ngot:\n%s\nwant:\n%s", got, want)
	}
}

func TestRowsRanksFromMostExtreme(t *testing.T) {
	rows := Rows(buildTracker(t), 2023)

	if len(rows) != 4 {
		t.Fatalf("row count = %d, want 4", len(rows))
	}

	checks := []struct {
		direction   string
		rank        int
		change      string
		description string
	}{
		{model.DirectionIncrease, 1, "$3.51", "DRUG A"},
		{model.DirectionIncrease, 2, "$1.25", "DRUG B"},
		{model.DirectionDecrease, 1, "-$4.00", "DRUG C"},
		{model.DirectionDecrease, 2, "-$0.10", "DRUG D"},
	}
	for i, want := range checks {
		row := rows[i]
		if row.Direction != want.direction || row.Rank != want.rank ||
			row.Change != want.change || row.Description != want.description {
			t.Fatalf("row %d = %+v, want %+v", i, row, want)
		}
		if row.Year != 2023 {
			t.Fatalf("row %d year = %d, want 2023", i, row.Year)
		}
		if row.GeneratedAt == "" {
			t.Fatalf("row %d missing generated_at", i)
		}
	}
}
