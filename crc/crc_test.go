package crc_test

import (
	"testing"

	"github.com/nsavage/medio/crc"
	"github.com/stretchr/testify/require"
)

func TestChecksumKnownVector(t *testing.T) {
	require.Equal(t, uint32(0xCBF43926), crc.Checksum([]byte("123456789")))
}

func TestCombineMatchesDirectChecksum(t *testing.T) {
	a := []byte("the quick brown fox ")
	b := []byte("jumps over the lazy dog")

	combined := crc.Combine(crc.Checksum(a), crc.Checksum(b), int64(len(b)))
	require.Equal(t, crc.Checksum(append(append([]byte{}, a...), b...)), combined)
}

func TestUpdateIsIncrementalChecksum(t *testing.T) {
	data := []byte("abcdefghijklmnopqrstuvwxyz")

	direct := crc.Checksum(data)

	running := crc.StartValue
	for i := 0; i < len(data); i += 5 {
		end := i + 5
		if end > len(data) {
			end = len(data)
		}
		running = crc.Update(running, data[i:end])
	}

	require.Equal(t, direct, running)
}
