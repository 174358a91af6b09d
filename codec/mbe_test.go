package codec

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMBE_RoundTrip(t *testing.T) {
	diffed := []int32{10, 12, -5, 0, 100, -100, 7}

	packed, min, bitWidth := EncodeMBE(diffed)
	require.True(t, bitWidth > 0 && bitWidth <= 32)

	decoded, err := DecodeMBE(packed, len(diffed), min, bitWidth)
	require.NoError(t, err)
	require.Equal(t, diffed, decoded)
}

func TestMBE_ConstantBlock(t *testing.T) {
	diffed := []int32{7, 7, 7, 7}

	packed, min, bitWidth := EncodeMBE(diffed)
	require.Equal(t, int32(7), min)

	decoded, err := DecodeMBE(packed, len(diffed), min, bitWidth)
	require.NoError(t, err)
	require.Equal(t, diffed, decoded)
}

func TestMBE_Empty(t *testing.T) {
	packed, min, bitWidth := EncodeMBE(nil)
	require.Nil(t, packed)
	require.Equal(t, int32(0), min)
	require.Equal(t, 0, bitWidth)
}

func TestBitsNeeded(t *testing.T) {
	require.Equal(t, 0, bitsNeeded(0))
	require.Equal(t, 1, bitsNeeded(1))
	require.Equal(t, 8, bitsNeeded(255))
	require.Equal(t, 9, bitsNeeded(256))
}

func TestBitWriterReader_RoundTrip(t *testing.T) {
	w := newBitWriter()
	w.writeBits(0b101, 3)
	w.writeBits(0b11111111, 8)
	w.writeBits(0b1, 1)
	data := w.bytes()

	r := newBitReader(data)
	v, err := r.readBits(3)
	require.NoError(t, err)
	require.Equal(t, uint64(0b101), v)

	v, err = r.readBits(8)
	require.NoError(t, err)
	require.Equal(t, uint64(0b11111111), v)

	v, err = r.readBits(1)
	require.NoError(t, err)
	require.Equal(t, uint64(1), v)
}
