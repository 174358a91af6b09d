// Package medio implements the Multiscale Electrophysiology Data (MED)
// format: a hierarchical, encrypted, compressed, time-indexed
// multichannel physiological data container (spec §1).
//
// # Core Features
//
//   - Two-level password scheme (Level 1 read access, Level 2 read/write
//     access, with Level 2 able to recover Level 1 from the universal
//     header's recovery block)
//   - Session/channel/segment aggregate hierarchy opened from a
//     directory tree
//   - A reference-channel-driven time-slice resolver converting between
//     µUTC time, sample number, and segment index
//   - A data-matrix engine producing typed, filtered, resampled,
//     multichannel output from an arbitrary time slice
//
// # Basic Usage
//
// Opening a session with a Level 1 password and pulling a matrix over an
// explicit time range:
//
//	import "github.com/nsavage/medio"
//
//	key, _ := medio.DeriveLevel1Key("my-password")
//	session, _ := medio.Open("/data/my-session.medd", key)
//	defer session.Close()
//
//	slice := medio.NewTimeSlice()
//	slice.StartTime = session.ReferenceChannel.Segments[0].Metadata.Header.FileStartTime
//	slice.EndTime = session.ReferenceChannel.Segments[0].Metadata.Header.FileEndTime
//
//	m, err := medio.GetMatrix(session, slice, medio.DefaultMatrixOptions())
//
// # Package Structure
//
// This package provides convenient top-level wrappers around the
// aesutil, section, aggregate, timeslice, and matrix packages,
// simplifying the most common use cases. For advanced usage and
// fine-grained control, use those packages directly.
package medio

import (
	"github.com/nsavage/medio/aesutil"
	"github.com/nsavage/medio/aggregate"
	"github.com/nsavage/medio/fps"
	"github.com/nsavage/medio/internal/alloc"
	"github.com/nsavage/medio/matrix"
	"github.com/nsavage/medio/msg"
	"github.com/nsavage/medio/section"
	"github.com/nsavage/medio/timeslice"
)

// Session is the opened session aggregate: channels, the chosen
// reference channel, and the key segments were opened with.
type Session = aggregate.Session

// TimeSlice selects a range of a session by time, sample number, or
// segment index, resolved against the session's reference channel.
type TimeSlice = timeslice.TimeSlice

// Matrix is the data-matrix engine's typed, multichannel output.
type Matrix = matrix.Matrix

// MatrixOptions configures a GetMatrix request: element type, layout,
// extent, scaling, filtering, interpolation, and optional trace
// side-products.
type MatrixOptions = matrix.Options

// MessageSink is the message/warning/error collaborator GetMatrix
// reports diagnostics through, such as the §4.4 notice that a
// sample-based slice spans channels of differing sampling frequency. The
// zero value is a no-op.
type MessageSink = msg.Sink

// DeriveLevel1Key derives the Level 1 (read) expanded key from a
// plaintext password.
//
// Parameters:
//   - password: The Level 1 passphrase as configured at session-creation
//     time.
//
// Returns:
//   - *aesutil.ExpandedKey: The expanded key, ready to pass to Open.
//   - error: An error if the derived key cannot be schedule-expanded.
//
// Example:
//
//	key, err := medio.DeriveLevel1Key("reader-password")
func DeriveLevel1Key(password string) (*aesutil.ExpandedKey, error) {
	return section.DeriveLevel1(password)
}

// DeriveLevel2Key derives the Level 2 (read/write) expanded key from a
// plaintext password.
//
// Parameters:
//   - password: The Level 2 passphrase as configured at session-creation
//     time.
//
// Returns:
//   - *aesutil.ExpandedKey: The expanded key, ready to pass to Open.
//   - error: An error if the derived key cannot be schedule-expanded.
//
// Example:
//
//	key, err := medio.DeriveLevel2Key("admin-password")
func DeriveLevel2Key(password string) (*aesutil.ExpandedKey, error) {
	return section.DeriveLevel2(password)
}

// RecoverLevel1Key recovers the Level 1 expanded key from a session's
// universal-header recovery block, given the Level 2 key (spec §3:
// "a Level 2 password additionally unlocks Level 1 access via an
// encrypted recovery block").
//
// Parameters:
//   - level2 : An expanded Level 2 key, as returned by DeriveLevel2Key.
//   - recoveryBlock: The 16-byte recovery block read from a session
//     file's universal header (section.UniversalHeader.PasswordValidation[2]).
//
// Returns:
//   - *aesutil.ExpandedKey: The recovered Level 1 key.
//   - error: An error if the recovered key cannot be schedule-expanded.
func RecoverLevel1Key(level2 *aesutil.ExpandedKey, recoveryBlock [16]byte) (*aesutil.ExpandedKey, error) {
	return section.RecoverLevel1FromRecoveryBlock(level2, recoveryBlock)
}

// Open opens the session rooted at sessionDir, validating key (if
// non-nil) against every channel's universal headers and selecting the
// highest-sampling-rate time-series channel as the reference channel.
//
// A nil key opens the session at level-0 (no-password) access; this only
// succeeds against channels whose files were written without
// password protection.
//
// Parameters:
//   - sessionDir: Path to a session directory (conventionally named
//     "<name>.medd"), containing one subdirectory per channel.
//   - key: An expanded Level 1 or Level 2 key, or nil for no-password
//     access.
//
// Returns:
//   - *Session: The opened session, with Channels and ReferenceChannel
//     populated.
//   - error: An error if sessionDir cannot be read, no channel validates
//     against key, or no time-series channel is found to serve as the
//     reference channel.
//
// Example:
//
//	session, err := medio.Open("/data/patient-001.medd", key)
func Open(sessionDir string, key *aesutil.ExpandedKey) (*Session, error) {
	return aggregate.OpenSession(sessionDir, key)
}

// NewTimeSlice returns an entirely unset time slice ready to have its
// Start/End fields assigned before passing to GetMatrix.
//
// Example:
//
//	slice := medio.NewTimeSlice()
//	slice.StartSample, slice.EndSample = 1000, 2000
func NewTimeSlice() TimeSlice {
	return timeslice.NewTimeSlice()
}

// DefaultMatrixOptions returns the zero-configuration matrix request:
// full double precision, Layout recorded as LayoutSampleMajor, no
// filter, linear interpolation, FillDiscontinuity set to FillNaN (see
// matrix.DiscontinuityFill for its effect).
//
// Example:
//
//	opts := medio.DefaultMatrixOptions()
//	opts.Filter = matrix.FilterLowpass
//	opts.FilterLowHz = 40
func DefaultMatrixOptions() MatrixOptions {
	return matrix.DefaultOptions()
}

// GetMatrix resolves slice against session's reference channel and
// returns a typed, multichannel matrix of every time-series channel's
// decoded, scaled, filtered, and resampled samples over that range (spec
// §4.5: "the data-matrix engine's single entry point").
//
// Parameters:
//   - session: A session opened via Open.
//   - slice: The time range to pull, as constructed via NewTimeSlice;
//     left entirely unset, it selects the session's entire duration.
//   - opts: Element type, layout, extent, filtering, and interpolation
//     configuration, as returned by DefaultMatrixOptions.
//
// Returns:
//   - *Matrix: One row of opts-derived cells per time-series channel.
//   - error: An error if slice is empty, resolves outside the session,
//     or any channel fails to decode.
//
// Example:
//
//	m, err := medio.GetMatrix(session, slice, medio.DefaultMatrixOptions())
func GetMatrix(session *Session, slice TimeSlice, opts MatrixOptions) (*Matrix, error) {
	return matrix.GetMatrix(session, slice, opts)
}

// AllocationTracker is an opt-in diagnostic recording which component
// files a session has opened and not yet closed, for localizing
// corruption when reading a foreign (untrusted) file tree.
type AllocationTracker = alloc.Tracker

// NewAllocationTracker creates an empty allocation tracker. Pass it to
// EnableAllocationTracking before opening any session to start recording.
//
// Example:
//
//	tracker := medio.NewAllocationTracker()
//	medio.EnableAllocationTracking(tracker)
//	session, _ := medio.Open(dir, key)
//	session.Close()
//	for _, leak := range tracker.Leaks() {
//	    log.Printf("never closed: %s (seq %d)", leak.Name, leak.Sequence)
//	}
func NewAllocationTracker() *AllocationTracker {
	return alloc.NewTracker()
}

// EnableAllocationTracking installs tracker so every component file
// opened afterward is recorded against it. Passing nil disables
// tracking again.
func EnableAllocationTracking(tracker *AllocationTracker) {
	fps.EnableTracking(tracker)
}
