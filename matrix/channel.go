package matrix

import (
	"math"

	"github.com/nsavage/medio/aesutil"
	"github.com/nsavage/medio/aggregate"
	"github.com/nsavage/medio/filter"
	"github.com/nsavage/medio/internal/pool"
	"github.com/nsavage/medio/timeslice"
)

// decodeChannel decodes every segment of ch whose sample span can
// intersect [startSample, endSample] and returns their decoded blocks
// in file (and therefore time) order (spec §4.5: "opens the channel's
// segments covering the slice, drives the codec to decode each block in
// turn").
func decodeChannel(ch *aggregate.Channel, key *aesutil.ExpandedKey, startSample, endSample int64) ([]DecodedBlock, error) {
	var out []DecodedBlock
	for _, seg := range ch.Segments {
		segStart, segEnd := seg.SampleSpan()
		if startSample != timeslice.SampleNumberNoEntry && segEnd < startSample {
			continue
		}
		if endSample != timeslice.SampleNumberNoEntry && segStart > endSample {
			break
		}

		blocks, err := DecodeSegment(seg, key, startSample, endSample)
		if err != nil {
			return nil, err
		}
		out = append(out, blocks...)
	}

	return out, nil
}

// flattenSamples concatenates every decoded block's samples, trimming
// to [startSample, endSample] where either bound is set.
func flattenSamples(blocks []DecodedBlock, startSample, endSample int64) []float64 {
	var out []float64
	for _, b := range blocks {
		for i, v := range b.Samples {
			sampleNum := b.StartSample + int64(i)
			if startSample != timeslice.SampleNumberNoEntry && sampleNum < startSample {
				continue
			}
			if endSample != timeslice.SampleNumberNoEntry && sampleNum > endSample {
				continue
			}
			out = append(out, v)
		}
	}

	return out
}

// defaultFilterOrder is used whenever Options.FilterOrder is left unset.
const defaultFilterOrder = 4

// buildCascade constructs the single cascade opts.Filter names, given
// the channel's own input sampling frequency (needed for
// FilterAntialias's auto-derived cutoff — spec §4.6: "an antialias
// filter whose cutoff is derived from the channel's own input
// frequency"). Bandstop is handled separately by applyFilter since it
// produces two parallel branches rather than one cascade.
func buildCascade(opts Options, inputFs float64) (filter.Cascade, bool) {
	order := opts.FilterOrder
	if order <= 0 {
		order = defaultFilterOrder
	}

	switch opts.Filter {
	case FilterLowpass:
		return filter.DesignLowpass(order, opts.FilterLowHz, inputFs), true
	case FilterHighpass:
		return filter.DesignHighpass(order, opts.FilterLowHz, inputFs), true
	case FilterBandpass:
		return filter.DesignBandpass(order, opts.FilterLowHz, opts.FilterHighHz, inputFs), true
	case FilterAntialias:
		return filter.DesignLowpass(order, inputFs/3.5, inputFs), true
	default:
		return filter.Cascade{}, false
	}
}

// applyFilter runs opts' configured filter stage over samples at
// inputFs, forward-backward to cancel phase shift (filter.FiltFilt).
// Bandstop is realized as its low-branch plus its high-branch, the
// standard parallel reconstruction of a notch from a lowpass and a
// highpass cascade (spec §4.6).
func applyFilter(opts Options, samples []float64, inputFs float64) []float64 {
	if opts.Filter == FilterBandstop {
		order := opts.FilterOrder
		if order <= 0 {
			order = defaultFilterOrder
		}

		low, high := filter.DesignBandstop(order, opts.FilterLowHz, opts.FilterHighHz, inputFs)
		lowOut := filter.FiltFilt(low, samples)
		highOut := filter.FiltFilt(high, samples)

		out := make([]float64, len(samples))
		for i := range out {
			out[i] = lowOut[i] + highOut[i]
		}

		return out
	}

	cascade, ok := buildCascade(opts, inputFs)
	if !ok {
		return samples
	}

	return filter.FiltFilt(cascade, samples)
}

// hybridResample realizes the two threshold-switched interpolator kinds
// (spec §4.6): above ratio, the named upsample kernel runs; at or below
// it, linear does — unlike filter.Resample, which only ever switches on
// whether targetX is literally shorter than srcX.
func hybridResample(srcX, srcY, targetX []float64, ratio, threshold float64, kind filter.UpsampleKind) []float64 {
	var interp filter.Interpolator
	if ratio > threshold {
		if kind == filter.UpsampleCubicSpline {
			interp = filter.NewCubicSpline(srcX, srcY)
		} else {
			interp = filter.NewAkima(srcX, srcY)
		}
	} else {
		interp = filter.Linear{X: srcX, Y: srcY}
	}

	out := make([]float64, len(targetX))
	for i, x := range targetX {
		out[i] = interp.At(x)
	}

	return out
}

// resampleChannel converts samples (at a uniform inputFs) to exactly
// outputCount cells, per opts.Interpolator. ExtentSampleCount callers
// (outputCount == len(samples)) and InterpNone requests skip
// interpolation entirely: the trace is truncated or NaN-padded to fit.
func resampleChannel(samples []float64, inputFs float64, opts Options, outputCount int) []float64 {
	if outputCount <= 0 {
		return nil
	}
	if len(samples) == 0 {
		out := make([]float64, outputCount)
		for i := range out {
			out[i] = math.NaN()
		}

		return out
	}
	if opts.Interpolator == InterpNone || outputCount == len(samples) {
		out := make([]float64, outputCount)
		n := copy(out, samples)
		for i := n; i < outputCount; i++ {
			out[i] = math.NaN()
		}

		return out
	}

	srcX := make([]float64, len(samples))
	for i := range srcX {
		srcX[i] = float64(i) / inputFs
	}
	duration := float64(len(samples)) / inputFs
	ratio := float64(outputCount) / float64(len(samples))

	if opts.Interpolator == InterpBinning {
		edges := make([]float64, outputCount+1)
		binWidth := duration / float64(outputCount)
		for i := range edges {
			edges[i] = float64(i) * binWidth
		}

		return filter.BinInterpolate(srcX, samples, edges, opts.BinningEstimator)
	}

	targetX := make([]float64, outputCount)
	if outputCount > 1 {
		step := duration / float64(outputCount-1)
		for i := range targetX {
			targetX[i] = float64(i) * step
		}
	}

	switch opts.Interpolator {
	case InterpLinear:
		lin := filter.Linear{X: srcX, Y: samples}
		out := make([]float64, len(targetX))
		for i, x := range targetX {
			out[i] = lin.At(x)
		}

		return out
	case InterpAkima:
		a := filter.NewAkima(srcX, samples)
		out := make([]float64, len(targetX))
		for i, x := range targetX {
			out[i] = a.At(x)
		}

		return out
	case InterpCubicSpline:
		s := filter.NewCubicSpline(srcX, samples)
		out := make([]float64, len(targetX))
		for i, x := range targetX {
			out[i] = s.At(x)
		}

		return out
	case InterpHybridAkimaLinear:
		return hybridResample(srcX, samples, targetX, ratio, HybridAkimaLinearRatio, filter.UpsampleAkima)
	case InterpHybridSplineLinear:
		return hybridResample(srcX, samples, targetX, ratio, HybridSplineLinearRatio, filter.UpsampleCubicSpline)
	default:
		return filter.Resample(srcX, samples, targetX, filter.UpsampleAkima)
	}
}

// traceStats finds the min/max value (and the sample index each
// occurred at) over samples — the shared computation behind
// Options.TraceRange and Options.TraceExtrema.
func traceStats(samples []float64) ([2]float64, Extrema) {
	if len(samples) == 0 {
		return [2]float64{}, Extrema{}
	}

	minV, maxV := samples[0], samples[0]
	minIdx, maxIdx := 0, 0
	for i, v := range samples {
		if v < minV {
			minV, minIdx = v, i
		}
		if v > maxV {
			maxV, maxIdx = v, i
		}
	}

	return [2]float64{minV, maxV}, Extrema{
		MinValue: minV, MinSample: int64(minIdx), //nolint:gosec
		MaxValue: maxV, MaxSample: int64(maxIdx), //nolint:gosec
	}
}

// ChannelResult is one channel's fully processed trace plus any
// requested range/extrema side-products, returned by ProcessChannel for
// the engine to write into the shared Matrix.
type ChannelResult struct {
	Name       string
	Samples    []float64
	Range      [2]float64
	HasRange   bool
	Extrema    Extrema
	HasExtrema bool
	Err        error

	// Release returns Samples' backing array to the shared float64 pool.
	// The caller must call it only after every byte of Samples has been
	// consumed (Matrix.SetChannel copies rather than aliasing, so the
	// engine calls Release right after that copy). Nil when there was
	// nothing to pool (an error result).
	Release func()
}

// ProcessChannel decodes, optionally scales and filters, computes any
// requested trace statistics, and resamples one channel's slice into
// opts' requested shape — the per-channel worker body the engine
// dispatches one of per channel (spec §4.5).
func ProcessChannel(ch *aggregate.Channel, key *aesutil.ExpandedKey, startSample, endSample int64, opts Options, outputCount int) ChannelResult {
	blocks, err := decodeChannel(ch, key, startSample, endSample)
	if err != nil {
		return ChannelResult{Name: ch.Name, Err: err}
	}

	samples := flattenSamples(blocks, startSample, endSample)

	if scale := opts.effectiveScale(); scale != 1.0 {
		for i := range samples {
			samples[i] *= scale
		}
	}

	inputFs := ch.SamplingFrequency()
	if opts.Filter != FilterNone && inputFs > 0 {
		samples = applyFilter(opts, samples, inputFs)
	}

	result := ChannelResult{Name: ch.Name}
	if opts.TraceRange || opts.TraceExtrema {
		rng, ext := traceStats(samples)
		result.Range, result.HasRange = rng, opts.TraceRange
		result.Extrema, result.HasExtrema = ext, opts.TraceExtrema
	}

	if inputFs > 0 {
		samples = resampleChannel(samples, inputFs, opts, outputCount)
	}

	pooled, release := pool.GetFloat64Slice(len(samples))
	copy(pooled, samples)
	result.Samples = pooled
	result.Release = release

	return result
}
