// Package filter implements the kernels the data-matrix engine applies
// per channel: Butterworth forward-backward filtering, moving-average/
// quantile/noise-floor smoothing, Akima/cubic-spline/binning
// interpolation (spec §4.6). No DSP library appears anywhere in the
// example corpus, so every kernel here is built directly on stdlib
// math.
package filter

// Biquad is one second-order IIR section in direct-form-II-transposed
// form, normalized so a0 = 1.
type Biquad struct {
	B0, B1, B2 float64
	A1, A2     float64
}

// biquadState holds the two delay registers direct-form-II-transposed
// needs between calls.
type biquadState struct {
	z1, z2 float64
}

// apply filters one sample through the section, updating state in
// place.
func (c Biquad) apply(st *biquadState, x float64) float64 {
	y := c.B0*x + st.z1
	st.z1 = c.B1*x - c.A1*y + st.z2
	st.z2 = c.B2*x - c.A2*y

	return y
}

// Cascade is an ordered sequence of second-order sections applied one
// after another, the standard realization of an order-N Butterworth
// filter as N/2 biquads (plus one first-order section for odd N).
type Cascade struct {
	Sections []Biquad
}

// Apply runs samples forward through every section in the cascade,
// returning a new slice the same length as samples.
func (c Cascade) Apply(samples []float64) []float64 {
	out := make([]float64, len(samples))
	states := make([]biquadState, len(c.Sections))

	for i, x := range samples {
		v := x
		for s, sec := range c.Sections {
			v = sec.apply(&states[s], v)
		}
		out[i] = v
	}

	return out
}

// Order returns the cascade's effective filter order: 2 per biquad
// section, 1 per first-order section (one with B2 and A2 both zero).
func (c Cascade) Order() int {
	n := 0
	for _, s := range c.Sections {
		if s.B2 == 0 && s.A2 == 0 {
			n++
		} else {
			n += 2
		}
	}

	return n
}
