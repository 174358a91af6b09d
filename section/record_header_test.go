package section

import (
	"testing"

	"github.com/nsavage/medio/crc"
	"github.com/nsavage/medio/endian"
	"github.com/nsavage/medio/errs"
	"github.com/stretchr/testify/require"
)

func TestRecordHeader_RoundTrip(t *testing.T) {
	engine := endian.GetLittleEndianEngine()
	h := RecordHeader{
		TotalRecordBytes: RecordHeaderBytes + 16,
		StartTime:        1000,
		TypeCode:         0x53676d74, // "Sgmt"
		VersionMajor:     1,
		VersionMinor:     0,
		EncryptionLevel:  AccessNone,
	}

	encoded := h.Bytes(engine)
	require.Len(t, encoded, RecordHeaderBytes)

	decoded, err := ParseRecordHeader(encoded, engine)
	require.NoError(t, err)
	require.Equal(t, h, decoded)
}

func TestRecordHeader_ValidateCRC(t *testing.T) {
	engine := endian.GetLittleEndianEngine()
	body := []byte("0123456789abcdef")
	h := RecordHeader{TotalRecordBytes: uint32(RecordHeaderBytes + len(body))} //nolint:gosec

	full := append(h.Bytes(engine), body...)
	h.RecordCRC = crc.Checksum(full[RHCRCStartOffset:h.TotalRecordBytes])
	full = append(h.Bytes(engine), body...)

	require.NoError(t, h.ValidateCRC(full))

	full[len(full)-1] ^= 0xFF
	require.ErrorIs(t, h.ValidateCRC(full), errs.ErrInvalidRecordCRC)
}

func TestRecordHeader_RejectsBadSize(t *testing.T) {
	engine := endian.GetLittleEndianEngine()
	_, err := ParseRecordHeader(make([]byte, 10), engine)
	require.ErrorIs(t, err, errs.ErrInvalidRecordHeaderSize)
}
