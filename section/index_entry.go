package section

import (
	"github.com/nsavage/medio/endian"
	"github.com/nsavage/medio/errs"
)

// TimeSeriesIndexEntry is one 24-byte stride of a time-series index file
// (spec §6: "file_offset i64, start_time i64, start_sample_number i64").
// A discontinuity at this block is encoded by negating FileOffset on
// disk; Offset/Discontinuity below expose the decoded form so callers
// never touch the sign trick directly (spec Design Notes §9).
type TimeSeriesIndexEntry struct {
	FileOffset       int64
	StartTime        int64
	StartSampleNumber int64
}

// Offset returns the true (always non-negative) file offset.
func (e TimeSeriesIndexEntry) Offset() uint64 {
	if e.FileOffset < 0 {
		return uint64(-e.FileOffset) //nolint:gosec
	}

	return uint64(e.FileOffset) //nolint:gosec
}

// Discontinuity reports whether this block begins a discontinuity.
func (e TimeSeriesIndexEntry) Discontinuity() bool {
	return e.FileOffset < 0
}

// ApplyDiscontinuity negates offset if discontinuous is true, producing
// the on-disk encoding (spec §3: "APPLY_DISCONTINUITY/REMOVE_DISCONTINUITY
// enforces this encoding").
func ApplyDiscontinuity(offset uint64, discontinuous bool) int64 {
	v := int64(offset) //nolint:gosec
	if discontinuous {
		return -v
	}

	return v
}

// RemoveDiscontinuity is the inverse of ApplyDiscontinuity: it returns the
// true offset and whether the stored value was negative.
func RemoveDiscontinuity(stored int64) (offset uint64, discontinuous bool) {
	if stored < 0 {
		return uint64(-stored), true //nolint:gosec
	}

	return uint64(stored), false //nolint:gosec
}

// IsSentinel reports whether this entry is the terminal sentinel that
// marks index-file end (spec §3: "A terminal sentinel entry marks file
// end"). The sentinel is the all-bits-one-free, all-zero entry; a real
// entry always carries a non-zero start time or sample number once any
// samples have been written, so all-zero is unambiguous at file end.
func (e TimeSeriesIndexEntry) IsSentinel() bool {
	return e.FileOffset == 0 && e.StartTime == 0 && e.StartSampleNumber == 0
}

// Parse decodes one TimeSeriesIndexEntry from exactly
// TimeSeriesIndexEntryBytes of data.
func (e *TimeSeriesIndexEntry) Parse(data []byte, engine endian.EndianEngine) error {
	if len(data) != TimeSeriesIndexEntryBytes {
		return errs.ErrInvalidIndexEntrySize
	}

	e.FileOffset = int64(engine.Uint64(data[0:8]))          //nolint:gosec
	e.StartTime = int64(engine.Uint64(data[8:16]))           //nolint:gosec
	e.StartSampleNumber = int64(engine.Uint64(data[16:24])) //nolint:gosec

	return nil
}

// Bytes serializes the entry.
func (e TimeSeriesIndexEntry) Bytes(engine endian.EndianEngine) []byte {
	b := make([]byte, TimeSeriesIndexEntryBytes)
	engine.PutUint64(b[0:8], uint64(e.FileOffset))          //nolint:gosec
	engine.PutUint64(b[8:16], uint64(e.StartTime))           //nolint:gosec
	engine.PutUint64(b[16:24], uint64(e.StartSampleNumber)) //nolint:gosec

	return b
}

// VideoIndexEntry is one 24-byte stride of a video index file (spec §6:
// "file_offset i64, start_time i64, start_frame u32, video_file_number
// u32").
type VideoIndexEntry struct {
	FileOffset      int64
	StartTime       int64
	StartFrame      uint32
	VideoFileNumber uint32
}

func (e *VideoIndexEntry) Parse(data []byte, engine endian.EndianEngine) error {
	if len(data) != VideoIndexEntryBytes {
		return errs.ErrInvalidIndexEntrySize
	}

	e.FileOffset = int64(engine.Uint64(data[0:8])) //nolint:gosec
	e.StartTime = int64(engine.Uint64(data[8:16])) //nolint:gosec
	e.StartFrame = engine.Uint32(data[16:20])
	e.VideoFileNumber = engine.Uint32(data[20:24])

	return nil
}

func (e VideoIndexEntry) Bytes(engine endian.EndianEngine) []byte {
	b := make([]byte, VideoIndexEntryBytes)
	engine.PutUint64(b[0:8], uint64(e.FileOffset)) //nolint:gosec
	engine.PutUint64(b[8:16], uint64(e.StartTime)) //nolint:gosec
	engine.PutUint32(b[16:20], e.StartFrame)
	engine.PutUint32(b[20:24], e.VideoFileNumber)

	return b
}

// RecordIndexEntry is one 24-byte stride of a record index file (spec
// §6: "file_offset i64, start_time i64, type_code u32, version u16,
// encryption_level i8, pad").
type RecordIndexEntry struct {
	FileOffset      int64
	StartTime       int64
	TypeCode        uint32
	Version         uint16
	EncryptionLevel int8
}

func (e *RecordIndexEntry) Parse(data []byte, engine endian.EndianEngine) error {
	if len(data) != RecordIndexEntryBytes {
		return errs.ErrInvalidIndexEntrySize
	}

	e.FileOffset = int64(engine.Uint64(data[0:8])) //nolint:gosec
	e.StartTime = int64(engine.Uint64(data[8:16])) //nolint:gosec
	e.TypeCode = engine.Uint32(data[16:20])
	e.Version = engine.Uint16(data[20:22])
	e.EncryptionLevel = int8(data[22]) //nolint:gosec
	// data[23] is padding.

	return nil
}

func (e RecordIndexEntry) Bytes(engine endian.EndianEngine) []byte {
	b := make([]byte, RecordIndexEntryBytes)
	engine.PutUint64(b[0:8], uint64(e.FileOffset)) //nolint:gosec
	engine.PutUint64(b[8:16], uint64(e.StartTime)) //nolint:gosec
	engine.PutUint32(b[16:20], e.TypeCode)
	engine.PutUint16(b[20:22], e.Version)
	b[22] = uint8(e.EncryptionLevel) //nolint:gosec

	return b
}
