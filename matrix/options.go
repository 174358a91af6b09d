package matrix

import (
	"github.com/nsavage/medio/filter"
	"github.com/nsavage/medio/msg"
	"github.com/nsavage/medio/threading"
)

// ElementType selects the matrix's per-cell storage type.
type ElementType int

const (
	ElementSI16 ElementType = iota
	ElementSI32
	ElementF32
	ElementF64
)

// Layout names an arrangement of cells across channels and samples. The
// value is recorded in Matrix.Layout; the Matrix stores and returns cells
// per channel (one row per channel) whichever value is chosen.
type Layout int

const (
	// LayoutSampleMajor names one row per sample, one column per channel.
	LayoutSampleMajor Layout = iota
	// LayoutChannelMajor names one row per channel (an optional 2-D
	// row-pointer array over per-channel sample slices).
	LayoutChannelMajor
)

// ExtentKind selects how Options' extent fields are interpreted.
type ExtentKind int

const (
	// ExtentSampleCount gives each channel Options.SampleCount samples;
	// when SampleCount is 0, the reference channel's sample count over the
	// range is used instead.
	ExtentSampleCount ExtentKind = iota
	// ExtentOutputFrequency resamples each channel to exactly
	// Options.OutputFrequency Hz over the slice's span.
	ExtentOutputFrequency
)

// FilterKind selects the matrix engine's pre-resample filter stage.
type FilterKind int

const (
	FilterNone FilterKind = iota
	FilterLowpass
	FilterHighpass
	FilterBandpass
	FilterBandstop
	// FilterAntialias auto-derives a lowpass cutoff of
	// input_sampling_frequency/3.5 per channel, rather than taking an
	// explicit FilterLowHz (spec §4.6: "an antialias filter whose cutoff
	// is derived from the channel's own input frequency").
	FilterAntialias
)

// InterpolatorKind selects the resample stage's interpolation kernel.
type InterpolatorKind int

const (
	InterpNone InterpolatorKind = iota
	InterpLinear
	InterpAkima
	InterpCubicSpline
	// InterpHybridAkimaLinear upsamples with Akima and downsamples with
	// linear, switching at HybridAkimaLinearRatio (spec §4.6).
	InterpHybridAkimaLinear
	// InterpHybridSplineLinear upsamples with a natural cubic spline and
	// downsamples with linear, switching at HybridSplineLinearRatio.
	InterpHybridSplineLinear
	// InterpBinning buckets samples into fixed output-rate bins and
	// estimates each bin's center per BinningEstimator.
	InterpBinning
)

// Ratio thresholds the hybrid interpolators switch kernels at: above the
// ratio (more output samples per input sample) the upsample kernel
// fires, at or below it the downsample kernel does (spec §4.6).
const (
	HybridAkimaLinearRatio  = 1.5
	HybridSplineLinearRatio = 3.0
)

// DiscontinuityFill selects how gaps the slice crosses are represented
// in the output matrix. Only FillContiguonList changes GetMatrix's
// output; with FillNaN or FillZero, GetMatrix writes no NaN or zero
// cells for a gap.
type DiscontinuityFill int

const (
	FillNaN DiscontinuityFill = iota
	FillZero
	// FillContiguonList leaves gap cells untouched and has GetMatrix
	// additionally return the contiguon boundaries it crossed, letting
	// the caller handle gaps itself (spec §4.4's contiguon list).
	FillContiguonList
)

// Options is the data-matrix engine's builder-style request: every field
// is optional and carries a meaningful zero value, replacing what the
// Design Notes call out as a proliferation of variadic GetMatrix
// overloads with one struct callers fill in partially (spec Design
// Notes §9).
type Options struct {
	Element ElementType
	Layout  Layout

	Extent          ExtentKind
	SampleCount     int64
	OutputFrequency float64
	// Relative selects RELATIVE_LIMITS interpretation: Extent fields are
	// read relative to the reference channel's own effective rate rather
	// than as absolute counts/frequencies (spec §4.5/§4.6).
	Relative bool

	// ScaleFactor optionally multiplies every decoded sample before
	// filtering/resampling. Zero means unset (treated as 1.0).
	ScaleFactor float64

	Filter      FilterKind
	FilterOrder int
	FilterLowHz float64
	// FilterHighHz is the second corner for Bandpass/Bandstop.
	FilterHighHz float64

	Interpolator     InterpolatorKind
	BinningEstimator filter.CenterEstimator

	// TraceRange requests an additional [min, max] matrix per channel
	// over the whole slice.
	TraceRange bool
	// TraceExtrema requests an additional per-channel extrema vector
	// (the sample value and position of each channel's min and max).
	TraceExtrema bool

	FillDiscontinuity DiscontinuityFill

	// Sink receives warnings and messages GetMatrix emits along the way
	// (spec §6's message collaborator), such as the §4.4 notice that a
	// sample-based slice spanning channels of differing sampling
	// frequency produces relative output across any discontinuity. The
	// zero value is msg.Default, a no-op.
	Sink msg.Sink
	// Behavior gates Sink via SuppressWarningOutput/SuppressMessageOutput
	// (spec §5). The zero value suppresses nothing.
	Behavior threading.Behavior
}

// DefaultOptions returns the zero-configuration request: full double
// precision, Layout recorded as LayoutSampleMajor, no filter, linear
// interpolation, FillDiscontinuity set to FillNaN (see DiscontinuityFill
// for its effect).
func DefaultOptions() Options {
	return Options{
		Element:           ElementF64,
		Layout:            LayoutSampleMajor,
		Extent:            ExtentSampleCount,
		ScaleFactor:       1.0,
		Interpolator:      InterpLinear,
		FillDiscontinuity: FillNaN,
	}
}

// effectiveScale returns o.ScaleFactor, defaulting unset (zero) to 1.0.
func (o Options) effectiveScale() float64 {
	if o.ScaleFactor == 0 {
		return 1.0
	}

	return o.ScaleFactor
}
