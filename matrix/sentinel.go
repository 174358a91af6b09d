package matrix

import "math"

// Reserved sentinel values for the two signed-integer matrix element
// types (spec §6): SI4 reserves the extremes of its range for NaN and
// the two infinities; SI2 does the same one size down. A decoded sample
// that would otherwise collide with one of these on write is clamped to
// the nearest non-reserved value — the matrix format has no separate
// validity bit per cell, so an out-of-range value must never be
// confused with a sentinel.
const (
	SI4NaN     int32 = -0x7FFFFFFF - 1 // 0x80000000
	SI4NegInf  int32 = -0x7FFFFFFF     // 0x80000001
	SI4PosInf  int32 = 0x7FFFFFFF

	SI2NaN    int16 = -0x8000 // 0x8000
	SI2NegInf int16 = -0x7FFF // 0x8001
	SI2PosInf int16 = 0x7FFF
)

// ClampSI4 converts v to the SI4 element range, mapping NaN/+Inf/-Inf to
// their reserved sentinels and clamping any in-range value that would
// otherwise collide with one of those three reserved codes.
func ClampSI4(v float64) int32 {
	switch {
	case math.IsNaN(v):
		return SI4NaN
	case math.IsInf(v, -1):
		return SI4NegInf
	case math.IsInf(v, 1):
		return SI4PosInf
	}

	r := math.Round(v)
	switch {
	case r <= float64(SI4NegInf):
		return SI4NegInf + 1
	case r >= float64(SI4PosInf):
		return SI4PosInf - 1
	default:
		return int32(r) //nolint:gosec
	}
}

// ClampSI2 is ClampSI4's SI2 counterpart.
func ClampSI2(v float64) int16 {
	switch {
	case math.IsNaN(v):
		return SI2NaN
	case math.IsInf(v, -1):
		return SI2NegInf
	case math.IsInf(v, 1):
		return SI2PosInf
	}

	r := math.Round(v)
	switch {
	case r <= float64(SI2NegInf):
		return SI2NegInf + 1
	case r >= float64(SI2PosInf):
		return SI2PosInf - 1
	default:
		return int16(r) //nolint:gosec
	}
}

// IsReservedSI4 reports whether v is one of the three reserved SI4
// sentinel codes.
func IsReservedSI4(v int32) bool {
	return v == SI4NaN || v == SI4NegInf || v == SI4PosInf
}

// IsReservedSI2 reports whether v is one of the three reserved SI2
// sentinel codes.
func IsReservedSI2(v int16) bool {
	return v == SI2NaN || v == SI2NegInf || v == SI2PosInf
}
