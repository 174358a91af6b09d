package codec

import "math"

// GammaShape and GammaScale parameterize the gamma distribution VDS uses
// to model the residual-amplitude histogram when deciding how
// aggressively to quantize (spec §4.2: "A gamma-distribution CDF table
// ... drive[s] the lossy/lossless trade-off").
const (
	GammaShape = 2.0
	GammaScale = 1.0
)

// GammaCDF returns the regularized lower incomplete gamma function
// P(shape, x/scale), i.e. the CDF of a Gamma(shape, scale) distribution
// at x, via the standard series/continued-fraction split (Numerical
// Recipes' gammp).
func GammaCDF(shape, scale, x float64) float64 {
	if x <= 0 {
		return 0
	}

	xs := x / scale
	if xs < shape+1 {
		return gammaSeries(shape, xs)
	}

	return 1 - gammaContinuedFraction(shape, xs)
}

func gammaSeries(a, x float64) float64 {
	if x == 0 {
		return 0
	}

	gln := lgamma(a)
	ap := a
	sum := 1.0 / a
	del := sum
	for n := 0; n < 200; n++ {
		ap++
		del *= x / ap
		sum += del
		if math.Abs(del) < math.Abs(sum)*1e-12 {
			break
		}
	}

	return sum * math.Exp(-x+a*math.Log(x)-gln)
}

func gammaContinuedFraction(a, x float64) float64 {
	const tiny = 1e-300
	gln := lgamma(a)

	b := x + 1 - a
	c := 1 / tiny
	d := 1 / b
	h := d

	for i := 1; i < 200; i++ {
		an := -float64(i) * (float64(i) - a)
		b += 2
		d = an*d + b
		if math.Abs(d) < tiny {
			d = tiny
		}
		c = b + an/c
		if math.Abs(c) < tiny {
			c = tiny
		}
		d = 1 / d
		del := d * c
		h *= del
		if math.Abs(del-1) < 1e-12 {
			break
		}
	}

	return math.Exp(-x+a*math.Log(x)-gln) * h
}

func lgamma(x float64) float64 {
	v, _ := math.Lgamma(x)

	return v
}

// ThresholdMapEntries is the fixed size of the VDS threshold map (spec
// §4.2: "a 101-entry threshold-map table").
const ThresholdMapEntries = 101

// BuildThresholdMap returns a 101-entry table where entry i is the
// quantization step size corresponding to a VDS_threshold of i percent:
// step 0 is lossless (step size 0), and step 100 is the most aggressive
// quantization the gamma model allows for the given residual scale.
func BuildThresholdMap(residualScale float64) [ThresholdMapEntries]float64 {
	var table [ThresholdMapEntries]float64
	if residualScale <= 0 {
		return table
	}

	for i := 0; i < ThresholdMapEntries; i++ {
		p := float64(i) / float64(ThresholdMapEntries-1)
		// Invert the gamma CDF by bisection to find the quantile at p,
		// then scale it so larger thresholds widen the quantization step.
		table[i] = residualScale * gammaQuantile(p)
	}

	return table
}

func gammaQuantile(p float64) float64 {
	if p <= 0 {
		return 0
	}
	if p >= 1 {
		p = 1 - 1e-9
	}

	lo, hi := 0.0, 50.0
	for i := 0; i < 60; i++ {
		mid := (lo + hi) / 2
		if GammaCDF(GammaShape, GammaScale, mid) < p {
			lo = mid
		} else {
			hi = mid
		}
	}

	return (lo + hi) / 2
}

// vdsSubAlgorithm names which amplitude sub-codec VDS delegates its
// quantized residual to (spec §4.2: "Time and amplitude streams each
// pick their own sub-algorithm from {RED1, PRED1, MBE, RED2, PRED2}").
type vdsSubAlgorithm int

const (
	vdsSubRED1 vdsSubAlgorithm = iota
	vdsSubRED2
	vdsSubPRED1
	vdsSubPRED2
	vdsSubMBE
)

// EncodeVDS quantizes diffed using the step at thresholdMap[threshold]
// and entropy-codes the quantized residual with sub. threshold is
// clamped to [0, 100]; threshold 0 performs no quantization (lossless
// pass-through), matching "only used when VDS_threshold > 0".
func EncodeVDS(diffed []int32, thresholdMap [ThresholdMapEntries]float64, threshold int, overflowWidth int, sub vdsSubAlgorithm) []byte {
	if threshold < 0 {
		threshold = 0
	}
	if threshold > 100 {
		threshold = 100
	}

	step := thresholdMap[threshold]
	quantized := quantize(diffed, step)

	switch sub {
	case vdsSubRED2:
		return EncodeRED(quantized, overflowWidth, true)
	case vdsSubPRED1:
		return EncodePRED(quantized, overflowWidth, false)
	case vdsSubPRED2:
		return EncodePRED(quantized, overflowWidth, true)
	case vdsSubMBE:
		packed, _, _ := EncodeMBE(quantized)

		return packed
	default:
		return EncodeRED(quantized, overflowWidth, false)
	}
}

// DecodeVDS is the inverse of EncodeVDS for the RED/PRED sub-algorithms
// (MBE carries its own min/bitWidth header handled by the block layer,
// so it is decoded separately via DecodeMBE and then Dequantize).
func DecodeVDS(payload []byte, numSamples int, thresholdMap [ThresholdMapEntries]float64, threshold int, overflowWidth int, sub vdsSubAlgorithm) ([]int32, error) {
	var (
		quantized []int32
		err       error
	)

	switch sub {
	case vdsSubRED2:
		quantized, err = DecodeRED(payload, numSamples, overflowWidth, true)
	case vdsSubPRED1:
		quantized, err = DecodePRED(payload, numSamples, overflowWidth, false)
	case vdsSubPRED2:
		quantized, err = DecodePRED(payload, numSamples, overflowWidth, true)
	default:
		quantized, err = DecodeRED(payload, numSamples, overflowWidth, false)
	}
	if err != nil {
		return nil, err
	}

	if threshold < 0 {
		threshold = 0
	}
	if threshold > 100 {
		threshold = 100
	}

	return dequantize(quantized, thresholdMap[threshold]), nil
}

func quantize(samples []int32, step float64) []int32 {
	if step <= 0 {
		return samples
	}

	out := make([]int32, len(samples))
	for i, v := range samples {
		out[i] = int32(math.Round(float64(v) / step)) //nolint:gosec
	}

	return out
}

func dequantize(samples []int32, step float64) []int32 {
	if step <= 0 {
		return samples
	}

	out := make([]int32, len(samples))
	for i, v := range samples {
		out[i] = int32(math.Round(float64(v) * step)) //nolint:gosec
	}

	return out
}
