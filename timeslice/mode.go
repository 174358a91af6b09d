package timeslice

// FindMode selects tie-breaking behavior for sample_number_for_uutc /
// uutc_for_sample_number when the target does not land exactly on a
// sample (spec §4.4).
type FindMode uint8

const (
	FindCurrent FindMode = iota
	FindPrevious
	FindNext
	FindClosest
	FindLastBefore
	FindFirstOnOrAfter
	FindLastOnOrBefore
	FindFirstAfter
)

// Relativity selects whether a resolved value is session-relative
// (ABSOLUTE) or segment-relative (RELATIVE) (spec §4.4).
type Relativity uint8

const (
	Absolute Relativity = iota
	Relative
)
