package filter

import "math"

// Kind selects which frequency response a Butterworth design realizes
// (spec §4.6: "Butterworth low-pass, high-pass, band-pass, band-stop").
type Kind int

const (
	Lowpass Kind = iota
	Highpass
	Bandpass
	Bandstop
)

// MaxOrder is the highest Butterworth order the designer accepts (spec
// §4.6: "orders up to 10").
const MaxOrder = 10

// analogPoles returns the order left-half-plane poles of the normalized
// (unit cutoff) analog Butterworth prototype.
func analogPoles(order int) []complex128 {
	poles := make([]complex128, order)
	for k := 0; k < order; k++ {
		theta := math.Pi * (2*float64(k) + float64(order) + 1) / (2 * float64(order))
		poles[k] = complex(math.Cos(theta), math.Sin(theta))
	}

	return poles
}

// prewarp converts a digital cutoff frequency (Hz) to the equivalent
// analog frequency (rad/s) the bilinear transform requires to land the
// cutoff at the right place after discretization.
func prewarp(cutoffHz, sampleRate float64) float64 {
	return 2 * sampleRate * math.Tan(math.Pi*cutoffHz/sampleRate)
}

// pairPoles groups analog poles into conjugate pairs (and a single real
// pole for odd order), each pair destined for one biquad section.
func pairPoles(poles []complex128) [][]complex128 {
	used := make([]bool, len(poles))
	var pairs [][]complex128

	for i, p := range poles {
		if used[i] {
			continue
		}
		if math.Abs(imag(p)) < 1e-12 {
			pairs = append(pairs, []complex128{p})
			used[i] = true

			continue
		}
		for j := i + 1; j < len(poles); j++ {
			if !used[j] && math.Abs(real(poles[j])-real(p)) < 1e-9 && math.Abs(imag(poles[j])+imag(p)) < 1e-9 {
				pairs = append(pairs, []complex128{p, poles[j]})
				used[i], used[j] = true, true

				break
			}
		}
	}

	return pairs
}

// quadraticCoeffs expands a pole or conjugate pole pair (already scaled
// by the prewarped cutoff Ωc) into the analog denominator s^2 - b*s + c,
// with c=0, b=p for a lone real pole (first-order denominator s - b).
func quadraticCoeffs(pair []complex128, omega float64) (b, c float64) {
	if len(pair) == 1 {
		p := real(pair[0]) * omega

		return p, 0
	}

	p0 := pair[0] * complex(omega, 0)

	return 2 * real(p0), real(p0)*real(p0) + imag(p0)*imag(p0)
}

// lowpassBiquad bilinear-transforms one analog pole pair of a lowpass
// prototype (poles scaled by Ωc, no finite zeros) into a digital
// second-order section.
func lowpassBiquad(pair []complex128, omega, fs float64) Biquad {
	k := 2 * fs
	b, c := quadraticCoeffs(pair, omega)

	if len(pair) == 1 {
		a0 := k - b
		a1 := -k - b

		return Biquad{B0: 1 / a0, B1: 1 / a0, A1: a1 / a0}
	}

	a0 := k*k - b*k + c
	a1 := 2*c - 2*k*k
	a2 := k*k + b*k + c

	return Biquad{
		B0: c / a0,
		B1: 2 * c / a0,
		B2: c / a0,
		A1: a1 / a0,
		A2: a2 / a0,
	}
}

// highpassBiquad mirrors lowpassBiquad for the highpass prototype
// (s -> Ωc/s substitution: zeros move to the origin instead of
// infinity, so the numerator tracks s^2 rather than the constant term).
func highpassBiquad(pair []complex128, omega, fs float64) Biquad {
	k := 2 * fs

	if len(pair) == 1 {
		p := real(pair[0])
		a0 := omega - p*k

		return Biquad{B0: k / a0, B1: -k / a0, A1: (omega + p*k) / a0}
	}

	b, c := quadraticCoeffs(pair, omega)
	denom := k*k - b*k + c
	num := k * k

	return Biquad{
		B0: num / denom,
		B1: -2 * num / denom,
		B2: num / denom,
		A1: (2*c - 2*k*k) / denom,
		A2: (k*k + b*k + c) / denom,
	}
}

// DesignLowpass builds a DC-gain-normalized cascade realizing an
// order-N Butterworth lowpass with the given cutoff.
func DesignLowpass(order int, cutoffHz, sampleRate float64) Cascade {
	omega := prewarp(cutoffHz, sampleRate)
	pairs := pairPoles(analogPoles(order))

	sections := make([]Biquad, len(pairs))
	for i, pair := range pairs {
		sections[i] = lowpassBiquad(pair, omega, sampleRate)
	}

	return normalizeGain(Cascade{Sections: sections}, 1)
}

// DesignHighpass builds the highpass counterpart of DesignLowpass.
func DesignHighpass(order int, cutoffHz, sampleRate float64) Cascade {
	omega := prewarp(cutoffHz, sampleRate)
	pairs := pairPoles(analogPoles(order))

	sections := make([]Biquad, len(pairs))
	for i, pair := range pairs {
		sections[i] = highpassBiquad(pair, omega, sampleRate)
	}

	return normalizeGain(Cascade{Sections: sections}, -1)
}

// DesignBandpass realizes a bandpass response as a highpass-then-lowpass
// cascade (the highpass at lowHz removes the low end, the lowpass at
// highHz removes the high end), a practical substitute for the order-doubling analytic bandpass
// transform when sections are applied with filtfilt.
func DesignBandpass(order int, lowHz, highHz, sampleRate float64) Cascade {
	lp := DesignLowpass(order, highHz, sampleRate)
	hp := DesignHighpass(order, lowHz, sampleRate)

	return Cascade{Sections: append(append([]Biquad{}, hp.Sections...), lp.Sections...)}
}

// DesignBandstop returns the lowpass and highpass branches a band-stop
// response is built from (spec §4.6 lists band-stop as a response type;
// its parallel lowpass+highpass combination, rather than a single
// cascade, is left to the caller since a cascade can only express a
// series connection).
func DesignBandstop(order int, lowHz, highHz, sampleRate float64) (low, high Cascade) {
	return DesignLowpass(order, lowHz, sampleRate), DesignHighpass(order, highHz, sampleRate)
}

// normalizeGain scales the first section so the cascade's gain at z =
// evalAt (1 for DC, -1 for Nyquist) is exactly 1.
func normalizeGain(c Cascade, evalAt float64) Cascade {
	gain := 1.0
	for _, s := range c.Sections {
		num := s.B0 + evalAt*s.B1 + s.B2
		den := 1 + evalAt*s.A1 + s.A2
		if den != 0 {
			gain *= num / den
		}
	}
	if gain == 0 || math.IsNaN(gain) || len(c.Sections) == 0 {
		return c
	}

	c.Sections[0].B0 /= gain
	c.Sections[0].B1 /= gain
	c.Sections[0].B2 /= gain

	return c
}
