package record

import (
	"github.com/nsavage/medio/crc"
	"github.com/nsavage/medio/endian"
	"github.com/nsavage/medio/section"
)

// Writer appends records to an in-memory record data file, accumulating
// the parallel index entries as it goes.
type Writer struct {
	Engine endian.EndianEngine
	data   []byte
	index  Index
}

// NewWriter starts an empty record plane.
func NewWriter(engine endian.EndianEngine) *Writer {
	return &Writer{Engine: engine}
}

// Append writes one record (header + body), computing TotalRecordBytes
// and RecordCRC, and records the matching index entry.
func (w *Writer) Append(startTime int64, typeCode uint32, versionMajor, versionMinor uint8, level section.AccessLevel, body []byte) {
	total := section.RecordHeaderBytes + len(body)

	h := section.RecordHeader{
		TotalRecordBytes: uint32(total), //nolint:gosec
		StartTime:        startTime,
		TypeCode:         typeCode,
		VersionMajor:     versionMajor,
		VersionMinor:     versionMinor,
		EncryptionLevel:  level,
	}

	offset := int64(len(w.data)) //nolint:gosec

	buf := make([]byte, 0, total)
	buf = append(buf, h.Bytes(w.Engine)...)
	buf = append(buf, body...)
	h.RecordCRC = crc.Checksum(buf[section.RHCRCStartOffset:total])
	w.Engine.PutUint32(buf[section.RHRecordCRCOffset:section.RHRecordCRCOffset+4], h.RecordCRC)

	w.data = append(w.data, buf...)
	w.index.Entries = append(w.index.Entries, section.RecordIndexEntry{
		FileOffset:      offset,
		StartTime:       startTime,
		TypeCode:        typeCode,
		Version:         uint16(versionMajor)<<8 | uint16(versionMinor), //nolint:gosec
		EncryptionLevel: int8(level),                                   //nolint:gosec
	})
}

// Data returns the accumulated record data file body.
func (w *Writer) Data() []byte { return w.data }

// Index returns the accumulated record index.
func (w *Writer) Index() Index { return w.index }

// IndexBytes serializes the accumulated index, including the terminal
// all-zero sentinel entry (spec §4.3).
func (w *Writer) IndexBytes() []byte {
	out := make([]byte, 0, (len(w.index.Entries)+1)*section.RecordIndexEntryBytes)
	for _, e := range w.index.Entries {
		out = append(out, e.Bytes(w.Engine)...)
	}

	out = append(out, make([]byte, section.RecordIndexEntryBytes)...)

	return out
}
