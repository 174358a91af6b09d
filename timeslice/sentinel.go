// Package timeslice implements the time-slice resolver: conversions
// between wall-clock µUTC, per-channel sample numbers, and segment
// ranges, plus contiguon (discontinuity-free interval) discovery (spec
// §4.4).
package timeslice

import "math"

// Sentinel values for an unresolved or boundary-valued TimeSlice field
// (spec §4.4).
const (
	BeginningOfTime             int64 = 0
	EndOfTime                   int64 = math.MaxInt64
	BeginningOfSampleNumbers    int64 = 0
	EndOfSampleNumbers          int64 = math.MaxInt64
	UUTCNoEntry                 int64 = math.MinInt64
	SampleNumberNoEntry         int64 = math.MinInt64
)

// isTimeUnset and isSampleUnset report whether v is the "caller did not specify this field"
// sentinel, as distinct from the BEGINNING_OF/END_OF range sentinels.
func isTimeUnset(v int64) bool   { return v == UUTCNoEntry }
func isSampleUnset(v int64) bool { return v == SampleNumberNoEntry }
