// Package alloc provides an opt-in allocation-site tracker used to
// localize corruption when reading foreign (untrusted) files. Go's
// garbage collector makes the tracker unnecessary for memory safety; it
// exists purely as a diagnostic a caller can enable (spec Design Notes
// §9: "keep only an opt-in diagnostic when reading foreign files").
package alloc

import (
	"sync"

	"github.com/nsavage/medio/errs"
)

// Site identifies one allocation: the site name (caller-supplied, e.g.
// "segment:tidx-buffer") and a monotonically increasing sequence number.
type Site struct {
	Name     string
	Sequence uint64
}

// Tracker records every tracked allocation, append-only, and detects
// double frees. Entries are never removed on free — only flagged — so
// that a second free of the same handle is diagnosable (spec §5: "the
// allocation tracker has its own mutex; entries are append-only").
type Tracker struct {
	mu      sync.Mutex
	sites   map[uint64]Site
	order   []uint64
	freed   map[uint64]bool
	nextSeq uint64
}

// NewTracker creates an empty tracker.
func NewTracker() *Tracker {
	return &Tracker{
		sites: make(map[uint64]Site),
		freed: make(map[uint64]bool),
	}
}

// Track records a new allocation identified by handle and returns the
// Site recorded for it. Tracking the same handle twice without an
// intervening Free is itself reported as a double allocation via
// errs.ErrDoubleFree, since it implies the previous handle was never
// released.
func (t *Tracker) Track(handle uint64, name string) (Site, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if _, exists := t.sites[handle]; exists {
		return Site{}, errs.ErrDoubleFree
	}

	t.nextSeq++
	s := Site{Name: name, Sequence: t.nextSeq}
	t.sites[handle] = s
	t.order = append(t.order, handle)

	return s, nil
}

// Free marks handle as released. A second Free of the same handle
// returns errs.ErrDoubleFree; a Free of a handle never Tracked returns
// errs.ErrUnknownAllocation.
func (t *Tracker) Free(handle uint64) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if _, exists := t.sites[handle]; !exists {
		return errs.ErrUnknownAllocation
	}
	if t.freed[handle] {
		return errs.ErrDoubleFree
	}
	t.freed[handle] = true

	return nil
}

// Leaks returns the sites for every tracked handle that has not been
// freed, in allocation order.
func (t *Tracker) Leaks() []Site {
	t.mu.Lock()
	defer t.mu.Unlock()

	out := make([]Site, 0, len(t.order))
	for _, h := range t.order {
		if !t.freed[h] {
			out = append(out, t.sites[h])
		}
	}

	return out
}

// Count returns the number of allocations tracked so far (freed or not).
func (t *Tracker) Count() int {
	t.mu.Lock()
	defer t.mu.Unlock()

	return len(t.order)
}

// Reset clears all tracked state, preserving map capacity.
func (t *Tracker) Reset() {
	t.mu.Lock()
	defer t.mu.Unlock()

	for k := range t.sites {
		delete(t.sites, k)
	}
	for k := range t.freed {
		delete(t.freed, k)
	}
	t.order = t.order[:0]
	t.nextSeq = 0
}
