package matrix

import (
	"math"
	"testing"

	"github.com/nsavage/medio/aggregate"
	"github.com/nsavage/medio/filter"
	"github.com/nsavage/medio/section"
	"github.com/nsavage/medio/timeslice"
	"github.com/stretchr/testify/require"
)

const noEntry = timeslice.SampleNumberNoEntry

func TestFlattenSamples_TrimsToBounds(t *testing.T) {
	blocks := []DecodedBlock{
		{StartSample: 0, Samples: []float64{1, 2, 3}},
		{StartSample: 3, Samples: []float64{4, 5, 6}},
	}

	got := flattenSamples(blocks, 2, 4)
	require.Equal(t, []float64{3, 4, 5}, got)
}

func TestFlattenSamples_Unbounded(t *testing.T) {
	blocks := []DecodedBlock{{StartSample: 0, Samples: []float64{1, 2, 3}}}

	got := flattenSamples(blocks, noEntry, noEntry)
	require.Equal(t, []float64{1, 2, 3}, got)
}

func TestBuildCascade_UnknownKindReturnsFalse(t *testing.T) {
	_, ok := buildCascade(Options{Filter: FilterNone}, 100)
	require.False(t, ok)
}

func TestBuildCascade_AntialiasDerivesCutoffFromInputRate(t *testing.T) {
	cascade, ok := buildCascade(Options{Filter: FilterAntialias}, 700)
	require.True(t, ok)
	require.NotEmpty(t, cascade.Sections)
}

func TestApplyFilter_NoneIsIdentity(t *testing.T) {
	samples := []float64{1, 2, 3, 4, 5}
	out := applyFilter(Options{Filter: FilterNone}, samples, 100)
	require.Equal(t, samples, out)
}

func TestApplyFilter_BandstopCombinesBothBranches(t *testing.T) {
	samples := make([]float64, 64)
	for i := range samples {
		samples[i] = math.Sin(float64(i) * 0.2)
	}

	out := applyFilter(Options{Filter: FilterBandstop, FilterLowHz: 5, FilterHighHz: 20}, samples, 100)
	require.Len(t, out, len(samples))
}

func TestHybridResample_SwitchesOnRatio(t *testing.T) {
	srcX := []float64{0, 1, 2, 3}
	srcY := []float64{0, 1, 4, 9}
	targetX := []float64{0, 0.5, 1, 1.5, 2}

	upsampled := hybridResample(srcX, srcY, targetX, 2.0, HybridAkimaLinearRatio, filter.UpsampleAkima)
	linear := hybridResample(srcX, srcY, targetX, 1.0, HybridAkimaLinearRatio, filter.UpsampleAkima)

	require.Len(t, upsampled, len(targetX))
	require.Len(t, linear, len(targetX))
	require.InDelta(t, 0.5, linear[1], 1e-9) // halfway between Y[0]=0 and Y[1]=1
}

func TestResampleChannel_InterpNonePadsWithNaN(t *testing.T) {
	out := resampleChannel([]float64{1, 2, 3}, 10, Options{Interpolator: InterpNone}, 5)
	require.Equal(t, []float64{1, 2, 3}, out[:3])
	require.True(t, math.IsNaN(out[3]))
	require.True(t, math.IsNaN(out[4]))
}

func TestResampleChannel_EmptyInputYieldsAllNaN(t *testing.T) {
	out := resampleChannel(nil, 10, Options{Interpolator: InterpLinear}, 3)
	for _, v := range out {
		require.True(t, math.IsNaN(v))
	}
}

func TestResampleChannel_LinearDownsamples(t *testing.T) {
	samples := []float64{0, 1, 2, 3, 4, 5, 6, 7, 8, 9}
	out := resampleChannel(samples, 10, Options{Interpolator: InterpLinear}, 5)
	require.Len(t, out, 5)
	require.InDelta(t, 0, out[0], 1e-9)
}

func TestResampleChannel_Binning(t *testing.T) {
	samples := []float64{1, 1, 3, 3, 5, 5}
	out := resampleChannel(samples, 6, Options{
		Interpolator:     InterpBinning,
		BinningEstimator: filter.CenterMean,
	}, 3)
	require.Len(t, out, 3)
}

func TestTraceStats_FindsMinMaxAndPositions(t *testing.T) {
	samples := []float64{3, -1, 7, 2}
	rng, ext := traceStats(samples)

	require.Equal(t, [2]float64{-1, 7}, rng)
	require.Equal(t, int64(1), ext.MinSample)
	require.Equal(t, int64(2), ext.MaxSample)
}

func TestTraceStats_EmptyYieldsZeroValue(t *testing.T) {
	rng, ext := traceStats(nil)
	require.Equal(t, [2]float64{}, rng)
	require.Equal(t, Extrema{}, ext)
}

func TestProcessChannel_NoSegmentsYieldsNaNRow(t *testing.T) {
	ch := &aggregate.Channel{Name: "eeg1"}
	ch.EphemeralMetadata.Section2.TimeSeries.SamplingFrequency = 256

	result := ProcessChannel(ch, nil, noEntry, noEntry, DefaultOptions(), 4)

	require.Equal(t, "eeg1", result.Name)
	require.NoError(t, result.Err)
	require.Len(t, result.Samples, 4)
	for _, v := range result.Samples {
		require.True(t, math.IsNaN(v))
	}
}

func TestProcessChannel_TraceStatsRequested(t *testing.T) {
	ch := &aggregate.Channel{Name: "eeg1", Kind: section.ChannelTimeSeries}
	ch.EphemeralMetadata.Section2.TimeSeries.SamplingFrequency = 0 // skip filter/resample, keep raw flatten path

	opts := Options{Element: ElementF64, Interpolator: InterpLinear, TraceRange: true, TraceExtrema: true}
	result := ProcessChannel(ch, nil, noEntry, noEntry, opts, 0)

	require.NoError(t, result.Err)
	require.True(t, result.HasRange)
	require.True(t, result.HasExtrema)
}
