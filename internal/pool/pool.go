package pool

import (
	"fmt"
	"sort"

	"github.com/shopspring/decimal"
)

// Mode controls which extreme a Pool retains.
type Mode int

const (
	// RetainLargest keeps the largest differences seen.
	RetainLargest Mode = iota
	// RetainSmallest keeps the smallest differences seen.
	RetainSmallest
)

// Entry pairs a price difference with its description code.
type Entry struct {
	Difference decimal.Decimal
	Code       int
}

// Outcome reports what Insert did. Evicted is set when a full pool dropped
// its weakest entry to make room; Replaced is set when an equal difference
// swapped its description code. At most one of the two is set.
type Outcome struct {
	Stored   bool
	Evicted  *Entry
	Replaced *Entry
}

// Pool retains the capacity most extreme differences inserted into it, each
// tagged with a description code. Differences are unique within a pool.
type Pool struct {
	mode     Mode
	capacity int
	entries  map[string]Entry

	// Bounds of the retained set, valid only while the pool is full.
	min decimal.Decimal
	max decimal.Decimal
}

// New builds a Pool with the given capacity and mode.
func New(capacity int, mode Mode) (*Pool, error) {
	if capacity <= 0 {
		return nil, fmt.Errorf("pool capacity must be greater than zero")
	}
	return &Pool{
		mode:     mode,
		capacity: capacity,
		entries:  make(map[string]Entry, capacity),
	}, nil
}

// Len returns the number of retained entries.
func (p *Pool) Len() int {
	return len(p.entries)
}

// Fits reports whether difference would be retained by Insert. Below
// capacity everything fits. Once full, a difference fits when it beats the
// relevant bound, or when it falls within [min, max] so that an equal
// retained difference can still have its code updated through Insert.
func (p *Pool) Fits(difference decimal.Decimal) bool {
	if len(p.entries) < p.capacity {
		return true
	}

	switch p.mode {
	case RetainLargest:
		if difference.GreaterThan(p.max) {
			return true
		}
	case RetainSmallest:
		if difference.LessThan(p.min) {
			return true
		}
	}

	return difference.GreaterThanOrEqual(p.min) && difference.LessThanOrEqual(p.max)
}

// Insert offers a difference/code pair to the pool. A pair that does not fit
// or that is already retained as-is leaves the pool untouched. Inserting a
// retained difference with a new code updates the association and reports
// the old one in Replaced. A genuine new key added at capacity evicts the
// smallest entry (RetainLargest) or the largest (RetainSmallest), reported
// in Evicted.
func (p *Pool) Insert(difference decimal.Decimal, code int) Outcome {
	if !p.Fits(difference) {
		return Outcome{}
	}

	key := difference.String()
	if existing, ok := p.entries[key]; ok {
		if existing.Code == code {
			return Outcome{}
		}
		p.entries[key] = Entry{Difference: difference, Code: code}
		return Outcome{Stored: true, Replaced: &existing}
	}

	p.entries[key] = Entry{Difference: difference, Code: code}

	var evicted *Entry
	if len(p.entries) > p.capacity {
		victim := p.victim()
		delete(p.entries, victim.Difference.String())
		evicted = &victim
	}

	if len(p.entries) == p.capacity {
		p.recomputeBounds()
	}

	return Outcome{Stored: true, Evicted: evicted}
}

// victim picks the entry a full pool drops: the smallest difference when
// retaining the largest values, the largest when retaining the smallest.
func (p *Pool) victim() Entry {
	sorted := p.Ascending()
	if p.mode == RetainLargest {
		return sorted[0]
	}
	return sorted[len(sorted)-1]
}

func (p *Pool) recomputeBounds() {
	sorted := p.Ascending()
	if len(sorted) == 0 {
		return
	}
	p.min = sorted[0].Difference
	p.max = sorted[len(sorted)-1].Difference
}

// Ascending returns a fresh snapshot of the retained entries ordered by
// ascending difference.
func (p *Pool) Ascending() []Entry {
	out := make([]Entry, 0, len(p.entries))
	for _, entry := range p.entries {
		out = append(out, entry)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Difference.LessThan(out[j].Difference)
	})
	return out
}

// Descending returns a fresh snapshot ordered by descending difference.
func (p *Pool) Descending() []Entry {
	asc := p.Ascending()
	for i, j := 0, len(asc)-1; i < j; i, j = i+1, j-1 {
		asc[i], asc[j] = asc[j], asc[i]
	}
	return asc
}
