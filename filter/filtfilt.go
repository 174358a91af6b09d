package filter

// EdgePadPoles sets the number of samples reflected onto each side of a signal
// before forward-backward filtering, expressed as a multiple of the
// cascade's pole count (spec §4.6: "pad = 3 × n_poles samples per
// side").
const EdgePadPoles = 3

// FiltFilt runs samples through the cascade forward, reverses, filters
// again, and reverses back, cancelling the net phase shift and
// approximately eliminating the filter's startup transient by
// reflecting pad samples onto each edge before the first pass (spec
// §4.6: "applied forward then backward... to produce zero net phase
// shift").
func FiltFilt(c Cascade, samples []float64) []float64 {
	if len(samples) == 0 || len(c.Sections) == 0 {
		out := make([]float64, len(samples))
		copy(out, samples)

		return out
	}

	pad := EdgePadPoles * c.Order()
	if pad > len(samples)-1 {
		pad = len(samples) - 1
	}
	if pad < 0 {
		pad = 0
	}

	padded := reflectPad(samples, pad)

	forward := c.Apply(padded)
	reverse(forward)

	backward := c.Apply(forward)
	reverse(backward)

	return backward[pad : len(backward)-pad]
}

// reflectPad extends samples by pad elements on each side using
// odd reflection about the edge sample, the standard boundary
// condition for zero-transient filtfilt.
func reflectPad(samples []float64, pad int) []float64 {
	n := len(samples)
	out := make([]float64, n+2*pad)

	for i := 0; i < pad; i++ {
		out[i] = 2*samples[0] - samples[pad-i]
	}
	copy(out[pad:pad+n], samples)
	for i := 0; i < pad; i++ {
		out[pad+n+i] = 2*samples[n-1] - samples[n-2-i]
	}

	return out
}

// reverse flips s in place.
func reverse(s []float64) {
	for i, j := 0, len(s)-1; i < j; i, j = i+1, j-1 {
		s[i], s[j] = s[j], s[i]
	}
}
