package filter

import "sort"

// TailMode controls how a windowed filter behaves once the window can
// no longer be centered on a full set of neighbors near the edges of
// the signal (spec §4.6: "truncate, extrapolate, or zero-pad the
// window at the edges").
type TailMode int

const (
	// TailTruncate shrinks the window near the edges to whatever
	// samples are actually available.
	TailTruncate TailMode = iota
	// TailExtrapolate repeats the nearest in-range sample to fill the
	// missing window positions.
	TailExtrapolate
	// TailZeroPad treats missing window positions as zero.
	TailZeroPad
)

// window returns the values the filter at center should see under mode,
// for a window of halfWidth samples on each side.
func window(samples []float64, center, halfWidth int, mode TailMode) []float64 {
	n := len(samples)
	lo, hi := center-halfWidth, center+halfWidth

	switch mode {
	case TailZeroPad:
		out := make([]float64, 2*halfWidth+1)
		for i := lo; i <= hi; i++ {
			if i >= 0 && i < n {
				out[i-lo] = samples[i]
			}
		}

		return out
	case TailExtrapolate:
		out := make([]float64, 2*halfWidth+1)
		for i := lo; i <= hi; i++ {
			j := i
			if j < 0 {
				j = 0
			}
			if j >= n {
				j = n - 1
			}
			out[i-lo] = samples[j]
		}

		return out
	default: // TailTruncate
		if lo < 0 {
			lo = 0
		}
		if hi >= n {
			hi = n - 1
		}

		return samples[lo : hi+1]
	}
}

// MovingAverage computes the centered windowed mean at every sample
// (spec §4.6: "moving average / quantile / noise-floor filters").
func MovingAverage(samples []float64, halfWidth int, mode TailMode) []float64 {
	out := make([]float64, len(samples))
	for i := range samples {
		w := window(samples, i, halfWidth, mode)
		sum := 0.0
		for _, v := range w {
			sum += v
		}
		out[i] = sum / float64(len(w))
	}

	return out
}

// MovingQuantile computes the centered windowed quantile (q in [0,1])
// at every sample, linearly interpolating between the two nearest
// ranks.
func MovingQuantile(samples []float64, halfWidth int, q float64, mode TailMode) []float64 {
	out := make([]float64, len(samples))
	for i := range samples {
		w := append([]float64(nil), window(samples, i, halfWidth, mode)...)
		sort.Float64s(w)
		out[i] = quantileOf(w, q)
	}

	return out
}

// quantileOf returns the q-quantile (q in [0,1]) of an already-sorted
// slice via linear interpolation between adjacent ranks.
func quantileOf(sorted []float64, q float64) float64 {
	if len(sorted) == 0 {
		return 0
	}
	if len(sorted) == 1 {
		return sorted[0]
	}
	if q <= 0 {
		return sorted[0]
	}
	if q >= 1 {
		return sorted[len(sorted)-1]
	}

	pos := q * float64(len(sorted)-1)
	lo := int(pos)
	frac := pos - float64(lo)
	if lo+1 >= len(sorted) {
		return sorted[lo]
	}

	return sorted[lo]*(1-frac) + sorted[lo+1]*frac
}

// NoiseFloor estimates the local noise floor at every sample as the
// windowed low quantile (q, typically small e.g. 0.1) of the signal,
// a robust low-percentile estimator that is insensitive to transient
// spikes the way a moving average is not.
func NoiseFloor(samples []float64, halfWidth int, q float64, mode TailMode) []float64 {
	return MovingQuantile(samples, halfWidth, q, mode)
}
