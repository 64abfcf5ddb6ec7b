package tracker

import (
	"github.com/shopspring/decimal"

	"priceScope/internal/pool"
)

// Tracker maintains the N largest and N smallest price differences seen in
// a record stream, with descriptions interned through a shared registry.
// It is not safe for concurrent use; callers must feed records one at a
// time in stream order.
type Tracker struct {
	most     *pool.Pool
	least    *pool.Pool
	registry *Registry
}

// New builds a Tracker whose pools each retain capacity entries.
func New(capacity int) (*Tracker, error) {
	most, err := pool.New(capacity, pool.RetainLargest)
	if err != nil {
		return nil, err
	}
	least, err := pool.New(capacity, pool.RetainSmallest)
	if err != nil {
		return nil, err
	}
	return &Tracker{
		most:     most,
		least:    least,
		registry: NewRegistry(),
	}, nil
}

// Record offers one record's price change to the tracker. The difference is
// computed as end minus start with exact arithmetic. The most pool is tried
// first, then the least pool; a record that fits neither leaves no trace.
func (t *Tracker) Record(description string, start, end decimal.Decimal) {
	difference := end.Sub(start)
	if t.offer(t.most, t.least, difference, description) {
		return
	}
	t.offer(t.least, t.most, difference, description)
}

// offer interns the description and inserts the difference into target when
// it fits. A capacity eviction is re-offered once to the overflow pool.
func (t *Tracker) offer(target, overflow *pool.Pool, difference decimal.Decimal, description string) bool {
	if !target.Fits(difference) {
		return false
	}

	code := t.registry.Intern(description)
	out := target.Insert(difference, code)
	if !out.Stored {
		// The pair was already retained; drop the reference Intern added.
		t.registry.Release(code)
		return true
	}
	if out.Replaced != nil {
		t.registry.Release(out.Replaced.Code)
	}
	if out.Evicted != nil {
		t.transfer(overflow, *out.Evicted)
	}
	return true
}

// transfer re-offers an evicted entry to the opposite pool, handing over its
// description reference. An entry that cannot land, and anything the landing
// displaces, is released. There is no further cascading.
func (t *Tracker) transfer(dst *pool.Pool, entry pool.Entry) {
	if !dst.Fits(entry.Difference) {
		t.registry.Release(entry.Code)
		return
	}

	out := dst.Insert(entry.Difference, entry.Code)
	if !out.Stored {
		t.registry.Release(entry.Code)
		return
	}
	if out.Replaced != nil {
		t.registry.Release(out.Replaced.Code)
	}
	if out.Evicted != nil {
		t.registry.Release(out.Evicted.Code)
	}
}

// Most returns the pool of largest differences.
func (t *Tracker) Most() *pool.Pool {
	return t.most
}

// Least returns the pool of smallest differences.
func (t *Tracker) Least() *pool.Pool {
	return t.least
}

// LookupDescription resolves a description code from either pool.
func (t *Tracker) LookupDescription(code int) (string, bool) {
	return t.registry.Lookup(code)
}
