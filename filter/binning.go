package filter

import "sort"

// CenterEstimator selects how a bin's representative value is derived
// from the samples that fall inside it (spec §4.6: "binning
// interpolation with a midpoint, mean, median, or fastest center
// estimator").
type CenterEstimator int

const (
	CenterMidpoint CenterEstimator = iota
	CenterMean
	CenterMedian
	CenterFastest
)

// Bin holds the samples (and their original x-positions) that fell
// within one output bucket.
type Bin struct {
	X []float64
	Y []float64
}

// BinSamples partitions (x, y) into len(edges)-1 bins delimited by
// edges (ascending, each edges[i] is a bin's inclusive lower bound and
// edges[i+1] its exclusive upper bound).
func BinSamples(x, y []float64, edges []float64) []Bin {
	bins := make([]Bin, len(edges)-1)

	for i, xi := range x {
		idx := sort.Search(len(edges)-1, func(b int) bool { return edges[b+1] > xi })
		if idx >= len(bins) || xi < edges[0] {
			continue
		}
		bins[idx].X = append(bins[idx].X, xi)
		bins[idx].Y = append(bins[idx].Y, y[i])
	}

	return bins
}

// Estimate reduces a bin to a single representative value under
// estimator. An empty bin yields 0.
func Estimate(b Bin, estimator CenterEstimator) float64 {
	if len(b.Y) == 0 {
		return 0
	}

	switch estimator {
	case CenterMean:
		sum := 0.0
		for _, v := range b.Y {
			sum += v
		}

		return sum / float64(len(b.Y))
	case CenterMedian:
		sorted := append([]float64(nil), b.Y...)
		sort.Float64s(sorted)

		return quantileOf(sorted, 0.5)
	case CenterFastest:
		return b.Y[0] // first sample encountered, the cheapest estimator
	default: // CenterMidpoint
		return b.Y[len(b.Y)/2]
	}
}

// BinInterpolate bins (x, y) into len(edges)-1 buckets and reduces each
// to one value under estimator, the fixed-rate resampling path the
// data-matrix engine uses when a trace's native rate exceeds the
// requested output rate (spec §4.6).
func BinInterpolate(x, y, edges []float64, estimator CenterEstimator) []float64 {
	bins := BinSamples(x, y, edges)
	out := make([]float64, len(bins))

	for i, b := range bins {
		out[i] = Estimate(b, estimator)
	}

	return out
}
