package codec

// Scale holds the per-block lossy-mode scale factors recorded in the
// parameter region (spec §4.2: "Lossy modes may additionally multiply
// amplitude by a per-block factor... the inverse scale is recorded in
// the parameter region").
type Scale struct {
	AmplitudeFactor float64 // 1.0 means no amplitude scaling.
	FrequencyFactor int     // 1 means no downsampling.
}

// NoScale is the identity scale, used by every lossless algorithm.
var NoScale = Scale{AmplitudeFactor: 1.0, FrequencyFactor: 1}

// ApplyAmplitudeScale multiplies samples by factor, rounding to the
// nearest integer, in preparation for amplitude encoding.
func ApplyAmplitudeScale(samples []float64, factor float64) []int32 {
	out := make([]int32, len(samples))
	for i, v := range samples {
		out[i] = int32(roundHalfAwayFromZero(v * factor)) //nolint:gosec
	}

	return out
}

// RestoreAmplitudeScale divides decoded samples by factor, converting
// back to floating point.
func RestoreAmplitudeScale(samples []int32, factor float64) []float64 {
	out := make([]float64, len(samples))
	if factor == 0 {
		factor = 1.0
	}
	for i, v := range samples {
		out[i] = float64(v) / factor
	}

	return out
}

// Downsample keeps every factor-th sample (factor >= 1). This package
// has no inverse; DecodeBlock returns the kept samples as they are.
func Downsample(samples []int32, factor int) []int32 {
	if factor <= 1 {
		return samples
	}

	out := make([]int32, 0, (len(samples)+factor-1)/factor)
	for i := 0; i < len(samples); i += factor {
		out = append(out, samples[i])
	}

	return out
}

func roundHalfAwayFromZero(v float64) float64 {
	if v >= 0 {
		return float64(int64(v + 0.5))
	}

	return float64(int64(v - 0.5))
}

// NativeUnits converts decoded raw amplitude values to native physical
// units using the metadata's amplitude-units factor, gated by an opt-in
// directive (spec §4.2: "Native-unit conversion on decode is governed by
// the metadata's amplitude-units factor and an opt-in directive").
func NativeUnits(samples []float64, unitsFactor float64, enabled bool) []float64 {
	if !enabled || unitsFactor == 0 {
		return samples
	}

	out := make([]float64, len(samples))
	for i, v := range samples {
		out[i] = v * unitsFactor
	}

	return out
}
