package codec

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRangeCoder_RoundTripUniformModel(t *testing.T) {
	symbols := []byte{0, 1, 2, 255, 128, 128, 128, 7, 200, 0, 0, 1}

	enc := newRangeEncoder()
	model := newStatsModel(1)
	for _, s := range symbols {
		model.encode(enc, s)
	}
	coded := enc.finish()

	decModel := newStatsModel(1)
	dec := newRangeDecoder(coded)
	for _, want := range symbols {
		got := decModel.decode(dec)
		require.Equal(t, want, got)
	}
}

func TestRangeCoder_RoundTripSkewedModel(t *testing.T) {
	// A long run of one symbol with occasional outliers exercises the
	// rescale path.
	var symbols []byte
	for i := 0; i < 2000; i++ {
		if i%97 == 0 {
			symbols = append(symbols, byte(i%256)) //nolint:gosec
		} else {
			symbols = append(symbols, 42)
		}
	}

	enc := newRangeEncoder()
	model := newStatsModel(24)
	for _, s := range symbols {
		model.encode(enc, s)
	}
	coded := enc.finish()

	decModel := newStatsModel(24)
	dec := newRangeDecoder(coded)
	for _, want := range symbols {
		got := decModel.decode(dec)
		require.Equal(t, want, got)
	}
}
