package filter

import "math"

// Interpolator evaluates an interpolated value at an arbitrary x
// between sample points (spec §4.6: "up-sampling uses Akima or cubic
// spline interpolation; down-sampling uses linear interpolation to
// avoid spline overshoot").
type Interpolator interface {
	At(x float64) float64
}

// Linear is a piecewise-linear interpolator, used for down-sampling.
type Linear struct {
	X, Y []float64
}

func (l Linear) At(x float64) float64 {
	i := segmentIndex(l.X, x)
	if i < 0 {
		return l.Y[0]
	}
	if i >= len(l.X)-1 {
		return l.Y[len(l.Y)-1]
	}

	t := (x - l.X[i]) / (l.X[i+1] - l.X[i])

	return l.Y[i] + t*(l.Y[i+1]-l.Y[i])
}

// segmentIndex returns the index i such that x[i] <= target < x[i+1],
// or -1 if target is before x[0].
func segmentIndex(x []float64, target float64) int {
	if len(x) == 0 || target < x[0] {
		return -1
	}
	for i := 0; i < len(x)-1; i++ {
		if target < x[i+1] {
			return i
		}
	}

	return len(x) - 1
}

// CubicSpline is a natural cubic spline (zero second derivative at both
// ends) through the given knots.
type CubicSpline struct {
	X, Y []float64
	m    []float64 // second derivatives at each knot
}

// NewCubicSpline precomputes the spline's second derivatives via the
// standard tridiagonal (Thomas algorithm) solve for natural boundary
// conditions.
func NewCubicSpline(x, y []float64) *CubicSpline {
	n := len(x)
	m := make([]float64, n)
	if n < 3 {
		return &CubicSpline{X: x, Y: y, m: m}
	}

	alpha := make([]float64, n)
	for i := 1; i < n-1; i++ {
		alpha[i] = 6*(y[i+1]-y[i])/(x[i+1]-x[i]) - 6*(y[i]-y[i-1])/(x[i]-x[i-1])
	}

	l := make([]float64, n)
	mu := make([]float64, n)
	z := make([]float64, n)
	l[0] = 1

	for i := 1; i < n-1; i++ {
		l[i] = 2*(x[i+1]-x[i-1]) - (x[i]-x[i-1])*mu[i-1]
		mu[i] = (x[i+1] - x[i]) / l[i]
		z[i] = (alpha[i] - (x[i]-x[i-1])*z[i-1]) / l[i]
	}
	l[n-1] = 1

	for j := n - 2; j >= 0; j-- {
		m[j] = z[j] - mu[j]*m[j+1]
	}

	return &CubicSpline{X: x, Y: y, m: m}
}

func (s *CubicSpline) At(x float64) float64 {
	i := segmentIndex(s.X, x)
	if i < 0 {
		return s.Y[0]
	}
	if i >= len(s.X)-1 {
		return s.Y[len(s.Y)-1]
	}

	h := s.X[i+1] - s.X[i]
	a := (s.X[i+1] - x) / h
	b := (x - s.X[i]) / h

	return a*s.Y[i] + b*s.Y[i+1] +
		((a*a*a-a)*s.m[i]+(b*b*b-b)*s.m[i+1])*(h*h)/6
}

// Akima is the Akima (1970) piecewise cubic interpolator, which
// suppresses the overshoot ordinary cubic splines produce near sharp
// changes in slope by weighting each knot's tangent toward whichever
// neighboring secant is locally more consistent.
type Akima struct {
	X, Y []float64
	t    []float64 // tangent slope at each knot
}

// NewAkima precomputes per-knot tangents from the Akima weighting rule.
func NewAkima(x, y []float64) *Akima {
	n := len(x)
	if n < 2 {
		return &Akima{X: x, Y: y, t: make([]float64, n)}
	}

	// Secant slopes, padded by two samples on each side via linear
	// extrapolation of the boundary secants (Akima's original
	// prescription for synthetic end slopes).
	m := make([]float64, n+3)
	for i := 0; i < n-1; i++ {
		m[i+2] = (y[i+1] - y[i]) / (x[i+1] - x[i])
	}
	m[1] = 2*m[2] - m[3]
	m[0] = 2*m[1] - m[2]
	m[n+1] = 2*m[n] - m[n-1]
	m[n+2] = 2*m[n+1] - m[n]

	t := make([]float64, n)
	for i := 0; i < n; i++ {
		w1 := math.Abs(m[i+3] - m[i+2])
		w2 := math.Abs(m[i+1] - m[i])
		if w1+w2 == 0 {
			t[i] = (m[i+1] + m[i+2]) / 2
		} else {
			t[i] = (w1*m[i+1] + w2*m[i+2]) / (w1 + w2)
		}
	}

	return &Akima{X: x, Y: y, t: t}
}

func (a *Akima) At(x float64) float64 {
	i := segmentIndex(a.X, x)
	if i < 0 {
		return a.Y[0]
	}
	if i >= len(a.X)-1 {
		return a.Y[len(a.Y)-1]
	}

	h := a.X[i+1] - a.X[i]
	dx := x - a.X[i]
	t := dx / h

	p0 := a.Y[i]
	p1 := a.t[i] * h
	p2 := 3*(a.Y[i+1]-a.Y[i]) - 2*a.t[i]*h - a.t[i+1]*h
	p3 := 2*(a.Y[i]-a.Y[i+1]) + a.t[i]*h + a.t[i+1]*h

	return p0 + p1*t + p2*t*t + p3*t*t*t
}

// UpsampleKind selects which interpolator Resample uses when
// up-sampling (spec §4.6: "up-sampling uses Akima or cubic spline").
type UpsampleKind int

const (
	UpsampleAkima UpsampleKind = iota
	UpsampleCubicSpline
)

// Resample evaluates srcY (sampled at srcX) at every point in targetX,
// using linear interpolation when targetX is coarser than srcX
// (down-sampling, avoiding spline overshoot) and the chosen upsample
// kernel otherwise (spec §4.6).
func Resample(srcX, srcY, targetX []float64, kind UpsampleKind) []float64 {
	var interp Interpolator

	if len(targetX) < len(srcX) {
		interp = Linear{X: srcX, Y: srcY}
	} else if kind == UpsampleCubicSpline {
		interp = NewCubicSpline(srcX, srcY)
	} else {
		interp = NewAkima(srcX, srcY)
	}

	out := make([]float64, len(targetX))
	for i, x := range targetX {
		out[i] = interp.At(x)
	}

	return out
}
