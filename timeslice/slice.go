package timeslice

// TimeSlice is a partially or fully specified selection window (spec
// §3: "{start_time, end_time} ∪ {start_sample, end_sample} ∪
// {start_segment, end_segment} with a 'conditioned' flag; any subset may
// be unset"). Unset time/sample fields carry UUTCNoEntry/
// SampleNumberNoEntry; unset segment fields carry -1.
type TimeSlice struct {
	StartTime    int64
	EndTime      int64
	StartSample  int64
	EndSample    int64
	StartSegment int
	EndSegment   int

	// Conditioned is the slice's 'conditioned' flag; no function in this
	// module sets or reads it.
	Conditioned bool
}

// NewTimeSlice returns an entirely unset slice, ready for
// Resolver.GetSegmentRange or matrix.GetMatrix.
func NewTimeSlice() TimeSlice {
	return TimeSlice{
		StartTime:    UUTCNoEntry,
		EndTime:      UUTCNoEntry,
		StartSample:  SampleNumberNoEntry,
		EndSample:    SampleNumberNoEntry,
		StartSegment: -1,
		EndSegment:   -1,
	}
}

// IsEmpty reports whether the slice selects no samples at all (spec §8:
// "Empty time slices return EMPTY_SLICE").
func (s TimeSlice) IsEmpty() bool {
	if !isSampleUnset(s.StartSample) && !isSampleUnset(s.EndSample) {
		return s.EndSample < s.StartSample
	}
	if !isTimeUnset(s.StartTime) && !isTimeUnset(s.EndTime) {
		return s.EndTime < s.StartTime
	}

	return false
}

// Contiguon is a maximal sample/time interval across which the
// reference channel has no discontinuity (spec §3, glossary).
type Contiguon struct {
	StartTime    int64
	EndTime      int64
	StartSample  int64
	EndSample    int64
	StartSegment int
	EndSegment   int
}
