package matrix

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestClampSI4_MapsSpecialValues(t *testing.T) {
	require.Equal(t, SI4NaN, ClampSI4(math.NaN()))
	require.Equal(t, SI4NegInf, ClampSI4(math.Inf(-1)))
	require.Equal(t, SI4PosInf, ClampSI4(math.Inf(1)))
}

func TestClampSI4_PassesThroughOrdinaryValues(t *testing.T) {
	require.Equal(t, int32(42), ClampSI4(42.4))
	require.Equal(t, int32(-7), ClampSI4(-7.49))
}

func TestClampSI4_AvoidsCollidingWithReservedCodes(t *testing.T) {
	got := ClampSI4(float64(SI4NegInf))
	require.False(t, IsReservedSI4(got))

	got = ClampSI4(float64(SI4PosInf))
	require.False(t, IsReservedSI4(got))
}

func TestClampSI2_MapsSpecialValues(t *testing.T) {
	require.Equal(t, SI2NaN, ClampSI2(math.NaN()))
	require.Equal(t, SI2NegInf, ClampSI2(math.Inf(-1)))
	require.Equal(t, SI2PosInf, ClampSI2(math.Inf(1)))
}

func TestClampSI2_AvoidsCollidingWithReservedCodes(t *testing.T) {
	got := ClampSI2(40000) // out of SI2 range entirely
	require.False(t, IsReservedSI2(got))
	require.Equal(t, SI2PosInf-1, got)
}

func TestIsReservedSI4(t *testing.T) {
	require.True(t, IsReservedSI4(SI4NaN))
	require.True(t, IsReservedSI4(SI4NegInf))
	require.True(t, IsReservedSI4(SI4PosInf))
	require.False(t, IsReservedSI4(0))
}
