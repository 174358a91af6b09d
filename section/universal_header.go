package section

import (
	"bytes"

	"github.com/nsavage/medio/crc"
	"github.com/nsavage/medio/endian"
	"github.com/nsavage/medio/errs"
)

// UniversalHeader is the fixed 1024-byte structure that prefixes every
// MED file. Field layout and offsets are grounded on spec §6's exact
// byte map; parse/serialize idiom is grounded on
// section.NumericHeader.Parse/Bytes (fixed struct, engine-driven
// little/big-endian I/O, explicit offsets).
type UniversalHeader struct {
	HeaderCRC         uint32
	BodyCRC           uint32
	FileEndTime       int64
	NumberOfEntries   int64
	MaximumEntrySize  uint32
	SegmentNumber     int32
	TypeString        [UHTypeStringBytes]byte // NUL-terminated 4-char alias, e.g. "tdat"
	MEDMajor          uint8
	MEDMinor          uint8
	ByteOrder         uint8 // 0 = big-endian, 1 = little-endian
	SessionStartTime  int64
	FileStartTime     int64
	SessionName       [UHSessionNameBytes]byte
	ChannelName       [UHChannelNameBytes]byte
	AnonSubjectID     [UHAnonSubjectIDBytes]byte
	SessionUID        uint64
	ChannelUID        uint64
	SegmentUID        uint64
	FileUID           uint64
	ProvenanceUID     uint64
	PasswordValidation [3][16]byte
	Protected         [UHProtectedRegionBytes]byte
	Discretionary     [UHDiscretionaryBytes]byte
}

// Engine returns the endian engine implied by ByteOrder.
func (h *UniversalHeader) Engine() endian.EndianEngine {
	if h.ByteOrder == 0 {
		return endian.GetBigEndianEngine()
	}

	return endian.GetLittleEndianEngine()
}

// TypeAlias returns the 4-character type alias (e.g. "tdat", "tidx",
// "tmet", "rdat", "ridx") with its NUL terminator trimmed.
func (h *UniversalHeader) TypeAlias() string {
	n := bytes.IndexByte(h.TypeString[:], 0)
	if n < 0 {
		n = len(h.TypeString)
	}

	return string(h.TypeString[:n])
}

// SetTypeAlias stores a 4-character type alias, NUL-terminated.
func (h *UniversalHeader) SetTypeAlias(alias string) {
	var buf [UHTypeStringBytes]byte
	n := copy(buf[:UHTypeStringBytes-1], alias)
	buf[n] = 0
	h.TypeString = buf
}

// Parse decodes a UniversalHeader from exactly UniversalHeaderBytes of
// data. It validates the header CRC and the byte-order byte but does not
// validate the body CRC (the caller must do that once the full file is
// available) nor password fields (see fps for that check).
func (h *UniversalHeader) Parse(data []byte) error {
	if len(data) != UniversalHeaderBytes {
		return errs.ErrInvalidHeaderSize
	}

	// Byte order must be read before anything multi-byte; it lives at a
	// fixed single-byte offset so it needs no engine itself.
	order := data[UHByteOrderOffset]
	if order != 0 && order != 1 {
		return errs.ErrInvalidByteOrder
	}
	h.ByteOrder = order
	engine := h.Engine()

	h.HeaderCRC = engine.Uint32(data[UHHeaderCRCOffset : UHHeaderCRCOffset+4])
	if got := crc.Checksum(data[UHHeaderCRCStartOffset:UniversalHeaderBytes]); got != h.HeaderCRC {
		return errs.ErrInvalidHeaderCRC
	}

	h.BodyCRC = engine.Uint32(data[UHBodyCRCOffset : UHBodyCRCOffset+4])
	h.FileEndTime = int64(engine.Uint64(data[UHFileEndTimeOffset : UHFileEndTimeOffset+8])) //nolint:gosec
	h.NumberOfEntries = int64(engine.Uint64(data[UHNumberOfEntriesOffset : UHNumberOfEntriesOffset+8])) //nolint:gosec
	h.MaximumEntrySize = engine.Uint32(data[UHMaximumEntrySizeOffset : UHMaximumEntrySizeOffset+4])
	h.SegmentNumber = int32(engine.Uint32(data[UHSegmentNumberOffset : UHSegmentNumberOffset+4])) //nolint:gosec
	copy(h.TypeString[:], data[UHTypeStringOffset:UHTypeStringOffset+UHTypeStringBytes])
	h.MEDMajor = data[UHMEDMajorOffset]
	h.MEDMinor = data[UHMEDMinorOffset]
	h.SessionStartTime = int64(engine.Uint64(data[UHSessionStartTimeOffset : UHSessionStartTimeOffset+8])) //nolint:gosec
	h.FileStartTime = int64(engine.Uint64(data[UHFileStartTimeOffset : UHFileStartTimeOffset+8]))          //nolint:gosec
	copy(h.SessionName[:], data[UHSessionNameOffset:UHSessionNameOffset+UHSessionNameBytes])
	copy(h.ChannelName[:], data[UHChannelNameOffset:UHChannelNameOffset+UHChannelNameBytes])
	copy(h.AnonSubjectID[:], data[UHAnonSubjectIDOffset:UHAnonSubjectIDOffset+UHAnonSubjectIDBytes])
	h.SessionUID = engine.Uint64(data[UHSessionUIDOffset : UHSessionUIDOffset+8])
	h.ChannelUID = engine.Uint64(data[UHChannelUIDOffset : UHChannelUIDOffset+8])
	h.SegmentUID = engine.Uint64(data[UHSegmentUIDOffset : UHSegmentUIDOffset+8])
	h.FileUID = engine.Uint64(data[UHFileUIDOffset : UHFileUIDOffset+8])
	h.ProvenanceUID = engine.Uint64(data[UHProvenanceUIDOffset : UHProvenanceUIDOffset+8])
	copy(h.PasswordValidation[0][:], data[UHPasswordValidationOffset1:UHPasswordValidationOffset1+16])
	copy(h.PasswordValidation[1][:], data[UHPasswordValidationOffset2:UHPasswordValidationOffset2+16])
	copy(h.PasswordValidation[2][:], data[UHPasswordValidationOffset3:UHPasswordValidationOffset3+16])
	copy(h.Protected[:], data[UHProtectedRegionOffset:UHProtectedRegionOffset+UHProtectedRegionBytes])
	copy(h.Discretionary[:], data[UHDiscretionaryOffset:UHDiscretionaryOffset+UHDiscretionaryBytes])

	return nil
}

// ValidateBodyCRC checks the body CRC against the bytes that follow the
// header (spec invariant 1: "body CRC covers bytes 1024..EOF").
func (h *UniversalHeader) ValidateBodyCRC(body []byte) error {
	if crc.Checksum(body) != h.BodyCRC {
		return errs.ErrInvalidBodyCRC
	}

	return nil
}

// Bytes serializes the header, recomputing HeaderCRC over bytes 4..1024.
// BodyCRC must already be set by the caller (it depends on file content
// outside the header).
func (h *UniversalHeader) Bytes() []byte {
	b := make([]byte, UniversalHeaderBytes)
	engine := h.Engine()

	engine.PutUint32(b[UHBodyCRCOffset:UHBodyCRCOffset+4], h.BodyCRC)
	engine.PutUint64(b[UHFileEndTimeOffset:UHFileEndTimeOffset+8], uint64(h.FileEndTime)) //nolint:gosec
	engine.PutUint64(b[UHNumberOfEntriesOffset:UHNumberOfEntriesOffset+8], uint64(h.NumberOfEntries)) //nolint:gosec
	engine.PutUint32(b[UHMaximumEntrySizeOffset:UHMaximumEntrySizeOffset+4], h.MaximumEntrySize)
	engine.PutUint32(b[UHSegmentNumberOffset:UHSegmentNumberOffset+4], uint32(h.SegmentNumber)) //nolint:gosec
	copy(b[UHTypeStringOffset:UHTypeStringOffset+UHTypeStringBytes], h.TypeString[:])
	b[UHMEDMajorOffset] = h.MEDMajor
	b[UHMEDMinorOffset] = h.MEDMinor
	b[UHByteOrderOffset] = h.ByteOrder
	engine.PutUint64(b[UHSessionStartTimeOffset:UHSessionStartTimeOffset+8], uint64(h.SessionStartTime)) //nolint:gosec
	engine.PutUint64(b[UHFileStartTimeOffset:UHFileStartTimeOffset+8], uint64(h.FileStartTime))          //nolint:gosec
	copy(b[UHSessionNameOffset:UHSessionNameOffset+UHSessionNameBytes], h.SessionName[:])
	copy(b[UHChannelNameOffset:UHChannelNameOffset+UHChannelNameBytes], h.ChannelName[:])
	copy(b[UHAnonSubjectIDOffset:UHAnonSubjectIDOffset+UHAnonSubjectIDBytes], h.AnonSubjectID[:])
	engine.PutUint64(b[UHSessionUIDOffset:UHSessionUIDOffset+8], h.SessionUID)
	engine.PutUint64(b[UHChannelUIDOffset:UHChannelUIDOffset+8], h.ChannelUID)
	engine.PutUint64(b[UHSegmentUIDOffset:UHSegmentUIDOffset+8], h.SegmentUID)
	engine.PutUint64(b[UHFileUIDOffset:UHFileUIDOffset+8], h.FileUID)
	engine.PutUint64(b[UHProvenanceUIDOffset:UHProvenanceUIDOffset+8], h.ProvenanceUID)
	copy(b[UHPasswordValidationOffset1:UHPasswordValidationOffset1+16], h.PasswordValidation[0][:])
	copy(b[UHPasswordValidationOffset2:UHPasswordValidationOffset2+16], h.PasswordValidation[1][:])
	copy(b[UHPasswordValidationOffset3:UHPasswordValidationOffset3+16], h.PasswordValidation[2][:])
	copy(b[UHProtectedRegionOffset:UHProtectedRegionOffset+UHProtectedRegionBytes], h.Protected[:])
	copy(b[UHDiscretionaryOffset:UHDiscretionaryOffset+UHDiscretionaryBytes], h.Discretionary[:])

	h.HeaderCRC = crc.Checksum(b[UHHeaderCRCStartOffset:UniversalHeaderBytes])
	engine.PutUint32(b[UHHeaderCRCOffset:UHHeaderCRCOffset+4], h.HeaderCRC)

	return b
}

// ParseUniversalHeader is a convenience constructor mirroring
// ParseNumericHeader's free-function shape.
func ParseUniversalHeader(data []byte) (UniversalHeader, error) {
	var h UniversalHeader
	if err := h.Parse(data); err != nil {
		return UniversalHeader{}, err
	}

	return h, nil
}
