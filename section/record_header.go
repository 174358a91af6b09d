package section

import (
	"github.com/nsavage/medio/crc"
	"github.com/nsavage/medio/endian"
	"github.com/nsavage/medio/errs"
)

// RecordHeader is the 24-byte header preceding every record body (spec
// §4.3: "record_CRC, total_record_bytes, start_time, type_code,
// version_major, version_minor, encryption_level").
type RecordHeader struct {
	RecordCRC       uint32
	TotalRecordBytes uint32
	StartTime       int64
	TypeCode        uint32
	VersionMajor    uint8
	VersionMinor    uint8
	EncryptionLevel AccessLevel
}

// Parse decodes a RecordHeader from exactly RecordHeaderBytes of data.
func (h *RecordHeader) Parse(data []byte, engine endian.EndianEngine) error {
	if len(data) != RecordHeaderBytes {
		return errs.ErrInvalidRecordHeaderSize
	}

	h.RecordCRC = engine.Uint32(data[RHRecordCRCOffset : RHRecordCRCOffset+4])
	h.TotalRecordBytes = engine.Uint32(data[RHTotalRecordBytesOffset : RHTotalRecordBytesOffset+4])
	h.StartTime = int64(engine.Uint64(data[RHStartTimeOffset : RHStartTimeOffset+8])) //nolint:gosec
	h.TypeCode = engine.Uint32(data[RHTypeCodeOffset : RHTypeCodeOffset+4])
	h.VersionMajor = data[RHVersionMajorOffset]
	h.VersionMinor = data[RHVersionMinorOffset]
	h.EncryptionLevel = AccessLevel(data[RHEncryptionLevelOffset])

	return nil
}

// Bytes serializes the header.
func (h *RecordHeader) Bytes(engine endian.EndianEngine) []byte {
	b := make([]byte, RecordHeaderBytes)

	engine.PutUint32(b[RHRecordCRCOffset:RHRecordCRCOffset+4], h.RecordCRC)
	engine.PutUint32(b[RHTotalRecordBytesOffset:RHTotalRecordBytesOffset+4], h.TotalRecordBytes)
	engine.PutUint64(b[RHStartTimeOffset:RHStartTimeOffset+8], uint64(h.StartTime)) //nolint:gosec
	engine.PutUint32(b[RHTypeCodeOffset:RHTypeCodeOffset+4], h.TypeCode)
	b[RHVersionMajorOffset] = h.VersionMajor
	b[RHVersionMinorOffset] = h.VersionMinor
	b[RHEncryptionLevelOffset] = uint8(h.EncryptionLevel)

	return b
}

// ValidateCRC checks RecordCRC against the record's body, which spans
// bytes RHCRCStartOffset..TotalRecordBytes of the full record (header +
// body), mirroring the block-header CRC convention.
func (h *RecordHeader) ValidateCRC(fullRecord []byte) error {
	if uint32(len(fullRecord)) < h.TotalRecordBytes { //nolint:gosec
		return errs.ErrInvalidRecordHeaderSize
	}
	if crc.Checksum(fullRecord[RHCRCStartOffset:h.TotalRecordBytes]) != h.RecordCRC {
		return errs.ErrInvalidRecordCRC
	}

	return nil
}

// ParseRecordHeader is a convenience free-function constructor.
func ParseRecordHeader(data []byte, engine endian.EndianEngine) (RecordHeader, error) {
	var h RecordHeader
	if err := h.Parse(data, engine); err != nil {
		return RecordHeader{}, err
	}

	return h, nil
}
