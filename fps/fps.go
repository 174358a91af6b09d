// Package fps implements the file-processing-stream abstraction: one
// open MED component file (universal header, data, index, record, or
// metadata file), with password validation on open, directive-controlled
// I/O behavior, and a paged-read cache standing in for a true memory
// map (spec §4.1).
package fps

import (
	"io"
	"os"
	"sync"
	"sync/atomic"

	"github.com/nsavage/medio/aesutil"
	"github.com/nsavage/medio/crc"
	"github.com/nsavage/medio/errs"
	"github.com/nsavage/medio/internal/alloc"
	"github.com/nsavage/medio/section"
)

// tracker is the opt-in allocation-site tracker for open file handles
// (spec Design Notes §9: "keep only an opt-in diagnostic when reading
// foreign files"). Nil (the default) disables tracking entirely; set it
// with EnableTracking to diagnose a suspect file tree.
var tracker atomic.Pointer[alloc.Tracker]

// nextHandle hands out the monotonically increasing handle identifying
// each FPS's open file to the tracker.
var nextHandle atomic.Uint64

// EnableTracking turns on allocation-site tracking for every FPS opened
// afterward against t; call t.Leaks() once done to see any file never
// closed. Passing nil disables tracking again.
func EnableTracking(t *alloc.Tracker) {
	tracker.Store(t)
}

// LockMode selects advisory-lock behavior on open (spec §4.1:
// "FPS_READ_LOCK_ON_READ_OPEN, FPS_WRITE_LOCK_ON_WRITE_OPEN, etc...the
// default is no lock").
type LockMode uint8

const (
	LockNone LockMode = iota
	LockShared
	LockExclusive
)

// Directives control optional FPS behavior, all off by default (spec
// §4.1: "Directives control whether the file stays open after I/O,
// whether writes flush, whether a memory map backs reads... and
// whether on-read decryption should leave the buffer decrypted in
// place").
type Directives struct {
	KeepOpenAfterIO       bool
	FlushOnWrite          bool
	MemoryMapReads        bool
	LeaveDecryptedInPlace bool
	UpdateUniversalHeader bool
	LockOnOpen            LockMode
}

// FPS represents one open MED component file.
type FPS struct {
	mu         sync.Mutex
	file       *os.File
	path       string
	directives Directives
	handle     uint64

	Header UniversalHeaderHandle

	pageCache *pageCache
}

// UniversalHeaderHandle is the parsed universal header plus the
// decryption context derived from it at open time.
type UniversalHeaderHandle struct {
	Header section.UniversalHeader
	Level  section.AccessLevel
}

// Open opens path, reads and validates the universal header (CRC and
// byte-order), and — if expandedKey is non-nil — validates the supplied
// password against the header's validation fields (spec §4.1:
// "Universal-header discipline"). A nil expandedKey skips password
// validation (level-0 access).
func Open(path string, directives Directives, expandedKey *aesutil.ExpandedKey) (*FPS, error) {
	file, err := os.OpenFile(path, os.O_RDWR, 0o644) //nolint:gosec
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errs.At(errs.NoFile, err)
		}

		return nil, errs.At(errs.ReadError, err)
	}

	headerBytes := make([]byte, section.UniversalHeaderBytes)
	if _, err := file.ReadAt(headerBytes, 0); err != nil {
		file.Close()

		return nil, errs.At(errs.NotMed, err)
	}

	header, err := section.ParseUniversalHeader(headerBytes)
	if err != nil {
		file.Close()

		return nil, errs.At(errs.NotMed, err)
	}

	level := section.AccessNone
	if expandedKey != nil {
		plaintext := validationPlaintext(header.SessionUID)

		switch {
		case section.ValidationMatches(expandedKey, header.PasswordValidation[1], plaintext):
			level = section.AccessLevel2
		case section.ValidationMatches(expandedKey, header.PasswordValidation[0], plaintext):
			level = section.AccessLevel1
		default:
			file.Close()

			return nil, errs.At(errs.BadPassword, errs.ErrBadPassword)
		}
	}

	f := &FPS{
		file:       file,
		path:       path,
		directives: directives,
		handle:     nextHandle.Add(1),
		Header:     UniversalHeaderHandle{Header: header, Level: level},
	}
	if directives.MemoryMapReads {
		f.pageCache = newPageCache()
	}

	if t := tracker.Load(); t != nil {
		if _, err := t.Track(f.handle, path); err != nil {
			file.Close()

			return nil, errs.At(errs.ReadError, err)
		}
	}

	return f, nil
}

// validationPlaintext derives the known plaintext password-validation
// fields were encrypted from at file-creation time: the first 8 bytes of
// the session UID, repeated to fill one AES block (spec §4.1's
// "password-validation fields matched against the supplied expanded
// key"; see section.ValidationMatches).
func validationPlaintext(sessionUID uint64) [16]byte {
	var buf [16]byte
	for i := 0; i < 16; i++ {
		buf[i] = byte(sessionUID >> uint((i%8)*8)) //nolint:gosec
	}

	return buf
}

// Read reads nbytes at offset, going through the page cache when
// MemoryMapReads is enabled so repeated reads of the same region do not
// re-fault (spec §4.1: "repeated reads of the same region do not
// re-fault").
func (f *FPS) Read(offset int64, nbytes int) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.pageCache != nil {
		return f.pageCache.read(f.file, offset, nbytes)
	}

	buf := make([]byte, nbytes)
	n, err := f.file.ReadAt(buf, offset)
	if err != nil && n == 0 {
		return nil, errs.At(errs.ReadError, err)
	}

	return buf[:n], nil
}

// Write writes data at offset. If FlushOnWrite is set, the underlying
// file is synced before returning.
func (f *FPS) Write(offset int64, data []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if _, err := f.file.WriteAt(data, offset); err != nil {
		return errs.At(errs.WriteError, err)
	}
	if f.pageCache != nil {
		f.pageCache.invalidate(offset, len(data))
	}
	if f.directives.FlushOnWrite {
		if err := f.file.Sync(); err != nil {
			return errs.At(errs.WriteError, err)
		}
	}

	return nil
}

// Seek repositions the file's read/write offset.
func (f *FPS) Seek(offset int64) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	pos, err := f.file.Seek(offset, io.SeekStart)
	if err != nil {
		return 0, errs.At(errs.ReadError, err)
	}

	return pos, nil
}

// Reallocate grows or shrinks the underlying file to exactly bytes.
func (f *FPS) Reallocate(bytes int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := f.file.Truncate(bytes); err != nil {
		return errs.At(errs.WriteError, err)
	}
	if f.pageCache != nil {
		f.pageCache.reset()
	}

	return nil
}

// MemoryMapRead reads through the page cache regardless of the
// directive setting, lazily creating one if needed (spec §4.1:
// "memory_map_read(offset, nbytes)").
func (f *FPS) MemoryMapRead(offset int64, nbytes int) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.pageCache == nil {
		f.pageCache = newPageCache()
	}

	return f.pageCache.read(f.file, offset, nbytes)
}

// Lock records mode in the FPS's directives; it takes no OS-level
// advisory lock. The default is no lock (spec §4.1).
func (f *FPS) Lock(mode LockMode) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.directives.LockOnOpen = mode

	return nil
}

// Unlock clears any lock state set by Lock.
func (f *FPS) Unlock() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.directives.LockOnOpen = LockNone

	return nil
}

// UpdateHeaderOnClose refreshes end-time/entry-count/max-entry-size and
// recomputes CRCs before the file is closed, when UpdateUniversalHeader
// is set (spec §4.1: "On write, CRCs are recomputed at close; if
// update_universal_header is set, end-time/entry-count/max-entry-size
// fields are refreshed before CRC").
func (f *FPS) UpdateHeaderOnClose(fileEndTime int64, numberOfEntries int64, maxEntrySize uint32, body []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.directives.UpdateUniversalHeader {
		f.Header.Header.FileEndTime = fileEndTime
		f.Header.Header.NumberOfEntries = numberOfEntries
		f.Header.Header.MaximumEntrySize = maxEntrySize
	}
	f.Header.Header.BodyCRC = crc.Checksum(body)

	encoded := f.Header.Header.Bytes()

	_, err := f.file.WriteAt(encoded, 0)
	if err != nil {
		return errs.At(errs.WriteError, err)
	}

	return nil
}

// Close closes the underlying file unless KeepOpenAfterIO is set.
func (f *FPS) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.directives.KeepOpenAfterIO {
		return nil
	}

	if t := tracker.Load(); t != nil {
		if err := t.Free(f.handle); err != nil {
			return errs.At(errs.WriteError, err)
		}
	}

	if err := f.file.Close(); err != nil {
		return errs.At(errs.WriteError, err)
	}

	return nil
}

// Path returns the path the FPS was opened from.
func (f *FPS) Path() string {
	return f.path
}

// DeriveValidationField computes the password-validation field a new
// file's universal header should carry for key, given the file's session
// UID — the encode-time counterpart of validationPlaintext/Open's
// decode-time check.
func DeriveValidationField(key *aesutil.ExpandedKey, sessionUID uint64) [16]byte {
	field := validationPlaintext(sessionUID)
	key.EncryptECB(field[:])

	return field
}
