package matrix

import (
	"github.com/nsavage/medio/errs"
	"github.com/nsavage/medio/timeslice"
)

// Extrema records where a channel's minimum and maximum sample occurred
// over a slice, alongside their values (spec §4.6: "optional per-channel
// trace ranges and trace extrema").
type Extrema struct {
	MinValue  float64
	MinSample int64
	MaxValue  float64
	MaxSample int64
}

// Matrix is the data-matrix engine's output: one row of NumSamples
// typed cells per channel, in whichever of the four element types the
// request asked for, plus the two optional per-channel side-products
// (spec §4.6).
//
// Layout is recorded as requested; no accessor in this package presents
// the cells by it. Storage is always channel-major internally, since
// building one channel at a time is how the engine's per-channel workers
// fill it in.
type Matrix struct {
	Element      ElementType
	Layout       Layout
	ChannelNames []string
	NumSamples   int

	si16 [][]int16
	si32 [][]int32
	f32  [][]float32
	f64  [][]float64

	Ranges  map[string][2]float64
	Extrema map[string]Extrema

	// Gaps holds the reference channel's contiguons over all of its
	// segments (they are not limited to the slice), populated
	// only when Options.FillDiscontinuity is FillContiguonList (spec
	// §4.4's contiguon list, left for the caller to handle itself rather
	// than having the engine pick a fill value).
	Gaps []timeslice.Contiguon
}

// NewMatrix allocates an uninitialized matrix for len(channelNames)
// channels of numSamples cells each, of the requested element type.
func NewMatrix(element ElementType, layout Layout, channelNames []string, numSamples int) *Matrix {
	m := &Matrix{
		Element:      element,
		Layout:       layout,
		ChannelNames: append([]string(nil), channelNames...),
		NumSamples:   numSamples,
	}

	n := len(channelNames)
	switch element {
	case ElementSI16:
		m.si16 = make([][]int16, n)
		for i := range m.si16 {
			m.si16[i] = make([]int16, numSamples)
		}
	case ElementSI32:
		m.si32 = make([][]int32, n)
		for i := range m.si32 {
			m.si32[i] = make([]int32, numSamples)
		}
	case ElementF32:
		m.f32 = make([][]float32, n)
		for i := range m.f32 {
			m.f32[i] = make([]float32, numSamples)
		}
	default:
		m.f64 = make([][]float64, n)
		for i := range m.f64 {
			m.f64[i] = make([]float64, numSamples)
		}
	}

	return m
}

func (m *Matrix) channelIndex(idx int) error {
	if idx < 0 || idx >= len(m.ChannelNames) {
		return errs.At(errs.ReadError, errs.ErrDoesNotExist)
	}

	return nil
}

// SetChannel writes samples (already filtered and resampled to
// m.NumSamples cells) into channel idx, converting to and clamping
// against the matrix's element type. Reserved sentinel collisions are
// resolved by ClampSI4/ClampSI2 (spec §6); float element types need no
// clamping since they carry NaN/Inf natively.
func (m *Matrix) SetChannel(idx int, samples []float64) error {
	if err := m.channelIndex(idx); err != nil {
		return err
	}

	n := len(samples)
	if n > m.NumSamples {
		n = m.NumSamples
	}

	switch m.Element {
	case ElementSI16:
		row := m.si16[idx]
		for i := 0; i < n; i++ {
			row[i] = ClampSI2(samples[i])
		}
	case ElementSI32:
		row := m.si32[idx]
		for i := 0; i < n; i++ {
			row[i] = ClampSI4(samples[i])
		}
	case ElementF32:
		row := m.f32[idx]
		for i := 0; i < n; i++ {
			row[i] = float32(samples[i])
		}
	default:
		copy(m.f64[idx], samples[:n])
	}

	return nil
}

// ChannelF64 returns channel idx's samples converted to float64,
// regardless of the matrix's underlying element type.
func (m *Matrix) ChannelF64(idx int) ([]float64, error) {
	if err := m.channelIndex(idx); err != nil {
		return nil, err
	}

	switch m.Element {
	case ElementSI16:
		row := m.si16[idx]
		out := make([]float64, len(row))
		for i, v := range row {
			out[i] = float64(v)
		}

		return out, nil
	case ElementSI32:
		row := m.si32[idx]
		out := make([]float64, len(row))
		for i, v := range row {
			out[i] = float64(v)
		}

		return out, nil
	case ElementF32:
		row := m.f32[idx]
		out := make([]float64, len(row))
		for i, v := range row {
			out[i] = float64(v)
		}

		return out, nil
	default:
		return m.f64[idx], nil
	}
}

// SetRange records the named channel's [min, max] trace range.
func (m *Matrix) SetRange(channel string, minVal, maxVal float64) {
	if m.Ranges == nil {
		m.Ranges = make(map[string][2]float64)
	}
	m.Ranges[channel] = [2]float64{minVal, maxVal}
}

// SetExtrema records the named channel's trace extrema.
func (m *Matrix) SetExtrema(channel string, e Extrema) {
	if m.Extrema == nil {
		m.Extrema = make(map[string]Extrema)
	}
	m.Extrema[channel] = e
}
