// Package codec implements the block-level amplitude encodings (RED1,
// RED2, PRED1, PRED2, MBE, VDS), derivative differencing, detrending,
// and scaling that together form the time-series compression pipeline.
package codec

// Trend is the intercept/gradient of the ordinary-least-squares fit of a
// block's samples against sample index, recorded in the parameter region
// so decode can add the trend back after the codec reconstructs the
// detrended residual (spec §4.2 parameter region: "intercept, gradient").
type Trend struct {
	Intercept float64
	Gradient  float64
}

// FitTrend computes the OLS intercept/gradient of samples against their
// index 0..len(samples)-1: one pass accumulates the sums, then the
// means and sum-of-products give the simple linear regression over
// (index, value) pairs.
func FitTrend(samples []float64) Trend {
	n := len(samples)
	if n == 0 {
		return Trend{}
	}
	if n == 1 {
		return Trend{Intercept: samples[0]}
	}

	var sumX, sumY, sumXY, sumX2 float64
	for i, y := range samples {
		x := float64(i)
		sumX += x
		sumY += y
		sumXY += x * y
		sumX2 += x * x
	}

	nf := float64(n)
	meanX := sumX / nf
	meanY := sumY / nf

	denom := sumX2 - nf*meanX*meanX
	if denom == 0 {
		return Trend{Intercept: meanY}
	}

	gradient := (sumXY - nf*meanX*meanY) / denom
	intercept := meanY - gradient*meanX

	return Trend{Intercept: intercept, Gradient: gradient}
}

// Remove subtracts the fitted trend line from samples in place, leaving
// the detrended residual the amplitude codec operates on.
func (t Trend) Remove(samples []float64) {
	for i := range samples {
		samples[i] -= t.Intercept + t.Gradient*float64(i)
	}
}

// Restore adds the trend line back to a decoded residual in place.
func (t Trend) Restore(samples []float64) {
	for i := range samples {
		samples[i] += t.Intercept + t.Gradient*float64(i)
	}
}
