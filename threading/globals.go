package threading

import (
	"sync"

	"github.com/nsavage/medio/section"
)

// TimezoneConstants mirrors the timezone fields of section.Section3,
// resolved once per session and shared read-only by every worker (spec
// §5: "Global tables (timezone...) are initialized once, read-only
// thereafter").
type TimezoneConstants struct {
	StandardAcronym string
	StandardName    string
	DaylightAcronym string
	UTCOffsetSeconds int32
	DSTStartTime    int64
	DSTEndTime      int64
}

// Globals is the per-thread state every entry point reads implicitly:
// password data, the behavior stack, shared timezone constants, and the
// last error recorded on this thread (spec §5: "Each thread has its own
// globals object (password data, behavior stack, timezone constants,
// last error)").
type Globals struct {
	Password  *section.PasswordData
	Behavior  *Stack
	Timezone  *TimezoneConstants
	LastError error
}

// NewGlobals returns a Globals with a fresh default-behavior stack.
func NewGlobals() *Globals {
	return &Globals{Behavior: NewStack(ReturnOnFail)}
}

// Propagate returns a child Globals for a worker launch: it shares the
// parent's password data and timezone constants (read-only, process-wide
// tables) but takes a snapshot of the behavior stack and starts with no
// last error, so child pushes/pops and failures never leak back to the
// parent (spec §5: "Worker launches copy/propagate the parent's globals
// to the child before the function body executes").
func (g *Globals) Propagate() *Globals {
	return &Globals{
		Password: g.Password,
		Behavior: g.Behavior.Snapshot(),
		Timezone: g.Timezone,
	}
}

// Table is the process-wide registry of per-thread Globals, keyed by a
// caller-assigned thread ID (spec §5: "the process maintains a
// pid-indexed table of these"; Go exposes no OS thread ID, so callers
// assign their own, typically a monotonically increasing worker index).
type Table struct {
	mu      sync.Mutex
	entries map[int64]*Globals
}

// NewTable returns an empty registry.
func NewTable() *Table {
	return &Table{entries: make(map[int64]*Globals)}
}

// Set records g as threadID's globals.
func (t *Table) Set(threadID int64, g *Globals) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.entries[threadID] = g
}

// Get returns threadID's globals and whether an entry exists.
func (t *Table) Get(threadID int64) (*Globals, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	g, ok := t.entries[threadID]

	return g, ok
}

// Delete removes threadID's entry, called when a worker thread exits.
func (t *Table) Delete(threadID int64) {
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.entries, threadID)
}
