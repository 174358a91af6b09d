package matrix

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMatrix_SetChannelF64(t *testing.T) {
	m := NewMatrix(ElementF64, LayoutSampleMajor, []string{"a", "b"}, 3)

	require.NoError(t, m.SetChannel(0, []float64{1, 2, 3}))
	require.NoError(t, m.SetChannel(1, []float64{4, 5, 6}))

	got, err := m.ChannelF64(0)
	require.NoError(t, err)
	require.Equal(t, []float64{1, 2, 3}, got)
}

func TestMatrix_SetChannelSI16ClampsReservedCodes(t *testing.T) {
	m := NewMatrix(ElementSI16, LayoutSampleMajor, []string{"a"}, 3)

	require.NoError(t, m.SetChannel(0, []float64{math.NaN(), math.Inf(1), 5}))

	got, err := m.ChannelF64(0)
	require.NoError(t, err)
	require.Equal(t, float64(SI2NaN), got[0])
	require.Equal(t, float64(SI2PosInf), got[1])
	require.Equal(t, float64(5), got[2])
}

func TestMatrix_SetChannel_OutOfRangeIndex(t *testing.T) {
	m := NewMatrix(ElementF64, LayoutSampleMajor, []string{"a"}, 3)
	require.Error(t, m.SetChannel(5, []float64{1}))
}

func TestMatrix_RangesAndExtrema(t *testing.T) {
	m := NewMatrix(ElementF64, LayoutSampleMajor, []string{"a"}, 3)

	m.SetRange("a", -1, 9)
	require.Equal(t, [2]float64{-1, 9}, m.Ranges["a"])

	m.SetExtrema("a", Extrema{MinValue: -1, MinSample: 2, MaxValue: 9, MaxSample: 0})
	require.Equal(t, int64(2), m.Extrema["a"].MinSample)
}
