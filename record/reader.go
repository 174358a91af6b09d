// Package record implements the record plane: typed, opaque-body
// annotations stored alongside time-series data, read by binary search
// on start-time and filtered by type code (spec §4.3).
package record

import (
	"iter"
	"sort"

	"github.com/nsavage/medio/endian"
	"github.com/nsavage/medio/errs"
	"github.com/nsavage/medio/section"
)

// Record is one decoded record: its header plus the opaque body bytes
// that follow it. The core never interprets Body; collaborator decoders
// registered for a specific TypeCode do that (spec §4.3: "the core
// dispatches to decoders by type code but treats each record body as
// opaque bytes").
type Record struct {
	Header section.RecordHeader
	Body   []byte
}

// TypeCode returns the record's type code.
func (r Record) TypeCode() uint32 { return r.Header.TypeCode }

// StartTime returns the record's start time in µUTC.
func (r Record) StartTime() int64 { return r.Header.StartTime }

// Index is a parsed record index file: an ordered list of
// RecordIndexEntry, terminated on disk by a zero sentinel, in ascending
// start-time order (spec §4.3: "the record index file stores
// {file_offset, start_time, type_code, version, encryption_level} per
// record, plus a terminal sentinel").
type Index struct {
	Entries []section.RecordIndexEntry
}

// ParseIndex decodes every RecordIndexEntryBytes stride of data up to
// (but excluding) the terminal all-zero sentinel entry.
func ParseIndex(data []byte, engine endian.EndianEngine) (Index, error) {
	if len(data)%section.RecordIndexEntryBytes != 0 {
		return Index{}, errs.At(errs.ReadError, errs.ErrInvalidIndexEntrySize)
	}

	var idx Index
	for off := 0; off+section.RecordIndexEntryBytes <= len(data); off += section.RecordIndexEntryBytes {
		var e section.RecordIndexEntry
		if err := e.Parse(data[off:off+section.RecordIndexEntryBytes], engine); err != nil {
			return Index{}, errs.At(errs.ReadError, err)
		}
		if e.FileOffset == 0 && e.StartTime == 0 && e.TypeCode == 0 {
			break // terminal sentinel
		}
		idx.Entries = append(idx.Entries, e)
	}

	return idx, nil
}

// Search returns the index of the first entry whose StartTime is >=
// startTime (spec §4.3: "records are read by binary search on
// start-time"). Returns len(idx.Entries) if no such entry exists.
func (idx Index) Search(startTime int64) int {
	return sort.Search(len(idx.Entries), func(i int) bool {
		return idx.Entries[i].StartTime >= startTime
	})
}

// TypeFilter is a nullable array of type codes selecting which records
// to include or exclude, matching spec §4.3: "a nullable type code
// filter array whose sign encodes include/exclude and whose terminator
// is the zero type code". A nil/empty filter matches everything.
//
// On disk the filter is a sequence of int64 entries: positive values
// name an include list, negative values (stored as their negated
// magnitude) name an exclude list, and the list never mixes the two —
// the sign of every non-terminal entry must agree. In memory this is
// modeled directly as Include/Exclude, one of which is always empty.
type TypeFilter struct {
	Include map[uint32]bool
	Exclude map[uint32]bool
}

// NewIncludeFilter builds a filter that passes only the given type codes.
func NewIncludeFilter(codes ...uint32) TypeFilter {
	m := make(map[uint32]bool, len(codes))
	for _, c := range codes {
		m[c] = true
	}

	return TypeFilter{Include: m}
}

// NewExcludeFilter builds a filter that passes every type code except
// the given ones.
func NewExcludeFilter(codes ...uint32) TypeFilter {
	m := make(map[uint32]bool, len(codes))
	for _, c := range codes {
		m[c] = true
	}

	return TypeFilter{Exclude: m}
}

// Allows reports whether typeCode passes the filter.
func (f TypeFilter) Allows(typeCode uint32) bool {
	if len(f.Include) > 0 {
		return f.Include[typeCode]
	}
	if len(f.Exclude) > 0 {
		return !f.Exclude[typeCode]
	}

	return true
}

// Reader reads records out of a densely packed record data file given
// its parsed index.
type Reader struct {
	Data   []byte
	Index  Index
	Engine endian.EndianEngine
}

// NewReader builds a Reader over a fully loaded record data file and its
// parsed index.
func NewReader(data []byte, idx Index, engine endian.EndianEngine) Reader {
	return Reader{Data: data, Index: idx, Engine: engine}
}

// At decodes the record at index entry i.
func (r Reader) At(i int) (Record, error) {
	if i < 0 || i >= len(r.Index.Entries) {
		return Record{}, errs.At(errs.ReadError, errs.ErrInvalidRecordHeaderSize)
	}

	entry := r.Index.Entries[i]
	off := int(entry.FileOffset) //nolint:gosec
	if off < 0 || off+section.RecordHeaderBytes > len(r.Data) {
		return Record{}, errs.At(errs.ReadError, errs.ErrInvalidRecordHeaderSize)
	}

	var h section.RecordHeader
	if err := h.Parse(r.Data[off:off+section.RecordHeaderBytes], r.Engine); err != nil {
		return Record{}, errs.At(errs.ReadError, err)
	}

	end := off + int(h.TotalRecordBytes) //nolint:gosec
	if end > len(r.Data) {
		return Record{}, errs.At(errs.ReadError, errs.ErrInvalidRecordHeaderSize)
	}

	return Record{Header: h, Body: r.Data[off+section.RecordHeaderBytes : end]}, nil
}

// FromTime iterates every record from the first whose start time is >=
// startTime onward, in ascending start-time order, passing each through
// filter (spec §4.3: "then filtered by a nullable type code filter
// array").
func (r Reader) FromTime(startTime int64, filter TypeFilter) iter.Seq2[int, Record] {
	return func(yield func(int, Record) bool) {
		for i := r.Index.Search(startTime); i < len(r.Index.Entries); i++ {
			if !filter.Allows(r.Index.Entries[i].TypeCode) {
				continue
			}

			rec, err := r.At(i)
			if err != nil {
				return
			}
			if !yield(i, rec) {
				return
			}
		}
	}
}

// All iterates every record in the file, in ascending start-time order,
// passing each through filter.
func (r Reader) All(filter TypeFilter) iter.Seq2[int, Record] {
	return r.FromTime(minInt64, filter)
}

const minInt64 = -1 << 63
