package filter

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDesignLowpass_DCGainIsUnity(t *testing.T) {
	for order := 1; order <= MaxOrder; order++ {
		c := DesignLowpass(order, 10, 1000)

		dc := 1.0
		for _, s := range c.Sections {
			dc *= (s.B0 + s.B1 + s.B2) / (1 + s.A1 + s.A2)
		}
		require.InDelta(t, 1.0, dc, 1e-6, "order %d", order)
	}
}

func TestDesignHighpass_NyquistGainIsUnity(t *testing.T) {
	for order := 1; order <= MaxOrder; order++ {
		c := DesignHighpass(order, 10, 1000)

		gain := 1.0
		for _, s := range c.Sections {
			gain *= (s.B0 - s.B1 + s.B2) / (1 - s.A1 + s.A2)
		}
		require.InDelta(t, 1.0, gain, 1e-6, "order %d", order)
	}
}

func TestDesignLowpass_OrderMatchesSectionCount(t *testing.T) {
	c := DesignLowpass(4, 10, 1000)
	require.Equal(t, 4, c.Order())

	c3 := DesignLowpass(3, 10, 1000)
	require.Equal(t, 3, c3.Order())
}

func TestDesignBandpass_CombinesSections(t *testing.T) {
	c := DesignBandpass(2, 5, 40, 1000)
	require.Equal(t, 4, c.Order())
}

func TestFiltFilt_AttenuatesHighFrequency(t *testing.T) {
	const n = 2000
	const fs = 1000.0

	samples := make([]float64, n)
	for i := range samples {
		tt := float64(i) / fs
		samples[i] = math.Sin(2*math.Pi*2*tt) + 0.5*math.Sin(2*math.Pi*200*tt)
	}

	c := DesignLowpass(4, 20, fs)
	out := FiltFilt(c, samples)

	require.Len(t, out, n)

	rms := func(s []float64) float64 {
		sum := 0.0
		for _, v := range s {
			sum += v * v
		}

		return math.Sqrt(sum / float64(len(s)))
	}

	require.Less(t, rms(out), rms(samples))
}

func TestFiltFilt_EmptyInput(t *testing.T) {
	c := DesignLowpass(2, 10, 1000)
	require.Empty(t, FiltFilt(c, nil))
}

func TestFiltFilt_ShortInputDoesNotPanic(t *testing.T) {
	c := DesignLowpass(6, 10, 1000)
	out := FiltFilt(c, []float64{1, 2, 3})
	require.Len(t, out, 3)
}
