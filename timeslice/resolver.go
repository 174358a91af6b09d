package timeslice

import (
	"math"
	"sort"

	"github.com/nsavage/medio/aesutil"
	"github.com/nsavage/medio/aggregate"
	"github.com/nsavage/medio/errs"
	"github.com/nsavage/medio/record"
	"github.com/nsavage/medio/section"
)

// Resolver converts between µUTC, sample number, and segment index for
// one reference channel (spec §4.4: "Time and sample are always
// interconverted through the reference channel's Sgmt records").
type Resolver struct {
	Channel *aggregate.Channel
	Sgmt    []record.SgmtEntry
	Key     *aesutil.ExpandedKey
}

// NewResolver builds a resolver against channel, optionally seeded with
// its precomputed Sgmt-record array (spec §4.3: "when present at the
// session level it is the authoritative source for cross-channel
// sample-number math, bypassing per-segment metadata reads").
func NewResolver(channel *aggregate.Channel, sgmt []record.SgmtEntry) Resolver {
	return Resolver{Channel: channel, Sgmt: sgmt}
}

// locateSegmentIndex returns the index of the segment containing target
// (a µUTC time), and whether target actually falls inside a segment
// rather than a gap between segments. Segments are assumed ordered
// ascending and non-overlapping (invariant 2).
func (r Resolver) locateSegmentIndex(target int64) (idx int, found bool) {
	segs := r.Channel.Segments
	i := sort.Search(len(segs), func(i int) bool {
		_, end := segs[i].TimeSpan()

		return end >= target
	})
	if i < len(segs) {
		start, end := segs[i].TimeSpan()
		if target >= start && target <= end {
			return i, true
		}
	}

	return i, false
}

// resolveGap picks which neighbor of a gap at insertion point i to use,
// according to mode.
func (r Resolver) resolveGap(i int, mode FindMode) (*aggregate.Segment, error) {
	segs := r.Channel.Segments

	switch mode {
	case FindPrevious, FindLastBefore, FindLastOnOrBefore:
		if i == 0 {
			return nil, errs.At(errs.ReadError, errs.ErrDoesNotExist)
		}

		return segs[i-1], nil
	case FindNext, FindFirstAfter, FindFirstOnOrAfter:
		if i >= len(segs) {
			return nil, errs.At(errs.ReadError, errs.ErrDoesNotExist)
		}

		return segs[i], nil
	default: // FindCurrent, FindClosest: pick whichever neighbor is nearer
		if i == 0 {
			if len(segs) == 0 {
				return nil, errs.At(errs.ReadError, errs.ErrDoesNotExist)
			}

			return segs[0], nil
		}
		if i >= len(segs) {
			return segs[len(segs)-1], nil
		}

		return segs[i-1], nil // arbitrary but deterministic tie-break toward earlier data
	}
}

// SegmentForUUTC returns the segment containing targetUUTC, applying
// mode's tie-break rule when the target falls in a discontinuity gap
// (spec §4.4: "segment_for_uutc").
func (r Resolver) SegmentForUUTC(targetUUTC int64, mode FindMode) (*aggregate.Segment, error) {
	i, found := r.locateSegmentIndex(targetUUTC)
	if found {
		return r.Channel.Segments[i], nil
	}

	return r.resolveGap(i, mode)
}

// SegmentForSampleNumber returns the segment containing sampleNumber
// (spec §4.4: "segment_for_sample_number").
func (r Resolver) SegmentForSampleNumber(sampleNumber int64) (*aggregate.Segment, error) {
	seg := r.Channel.SegmentForSampleNumber(sampleNumber)
	if seg == nil {
		return nil, errs.At(errs.ReadError, errs.ErrDoesNotExist)
	}

	return seg, nil
}

// sampleNumberInSegment maps a µUTC time to a sample number within seg
// by linear extrapolation from its nominal sampling frequency. Returns
// the segment's start sample if the frequency is the "variable"
// sentinel (no constant-rate mapping exists).
func sampleNumberInSegment(seg *aggregate.Segment, targetUUTC int64) int64 {
	ts := seg.Metadata.Section2.TimeSeries
	if ts.SamplingFrequency <= 0 {
		return ts.AbsoluteStartSampleNumber
	}

	startTime, _ := seg.TimeSpan()
	elapsedSeconds := float64(targetUUTC-startTime) / 1e6

	return ts.AbsoluteStartSampleNumber + int64(math.Round(elapsedSeconds*ts.SamplingFrequency))
}

// uutcInSegment is the inverse of sampleNumberInSegment.
func uutcInSegment(seg *aggregate.Segment, sampleNumber int64) int64 {
	ts := seg.Metadata.Section2.TimeSeries
	startTime, _ := seg.TimeSpan()
	if ts.SamplingFrequency <= 0 {
		return startTime
	}

	deltaSamples := sampleNumber - ts.AbsoluteStartSampleNumber

	return startTime + int64(math.Round(float64(deltaSamples)/ts.SamplingFrequency*1e6))
}

// SampleNumberForUUTC converts targetUUTC to a sample number (spec
// §4.4: "sample_number_for_uutc(level, target_µutc, mode)").
func (r Resolver) SampleNumberForUUTC(targetUUTC int64, mode FindMode) (int64, error) {
	seg, err := r.SegmentForUUTC(targetUUTC, mode)
	if err != nil {
		return SampleNumberNoEntry, err
	}

	return sampleNumberInSegment(seg, targetUUTC), nil
}

// UUTCForSampleNumber converts sampleNumber to a µUTC time (spec §4.4:
// "uutc_for_sample_number (inverse)").
func (r Resolver) UUTCForSampleNumber(sampleNumber int64, mode FindMode) (int64, error) {
	seg, err := r.SegmentForSampleNumber(sampleNumber)
	if err != nil {
		return UUTCNoEntry, err
	}

	return uutcInSegment(seg, sampleNumber), nil
}

// GetSegmentRange fills StartSegment/EndSegment on slice from whichever
// of its time or sample fields are set, and returns the number of
// segments in the intersection (spec §4.4: "the entry point used by
// every bulk read").
func (r Resolver) GetSegmentRange(slice TimeSlice) (TimeSlice, int, error) {
	out := slice

	switch {
	case !isSampleUnset(slice.StartSample) || !isSampleUnset(slice.EndSample):
		startSeg, err := r.segmentIndexForSample(slice.StartSample, true)
		if err != nil {
			return out, 0, err
		}
		endSeg, err := r.segmentIndexForSample(slice.EndSample, false)
		if err != nil {
			return out, 0, err
		}
		out.StartSegment, out.EndSegment = startSeg, endSeg
	case !isTimeUnset(slice.StartTime) || !isTimeUnset(slice.EndTime):
		startSeg, err := r.segmentIndexForTime(slice.StartTime, true)
		if err != nil {
			return out, 0, err
		}
		endSeg, err := r.segmentIndexForTime(slice.EndTime, false)
		if err != nil {
			return out, 0, err
		}
		out.StartSegment, out.EndSegment = startSeg, endSeg
	default:
		out.StartSegment, out.EndSegment = 0, len(r.Channel.Segments)-1
	}

	if out.EndSegment < out.StartSegment {
		return out, 0, errs.At(errs.ReadError, errs.ErrEmptySlice)
	}

	return out, out.EndSegment - out.StartSegment + 1, nil
}

func (r Resolver) segmentIndexForSample(sampleNumber int64, isStart bool) (int, error) {
	if isSampleUnset(sampleNumber) {
		if isStart {
			return 0, nil
		}

		return len(r.Channel.Segments) - 1, nil
	}

	for i, seg := range r.Channel.Segments {
		start, end := seg.SampleSpan()
		if sampleNumber >= start && sampleNumber <= end {
			return i, nil
		}
	}

	return 0, errs.At(errs.ReadError, errs.ErrDoesNotExist)
}

func (r Resolver) segmentIndexForTime(uutc int64, isStart bool) (int, error) {
	if isTimeUnset(uutc) {
		if isStart {
			return 0, nil
		}

		return len(r.Channel.Segments) - 1, nil
	}

	i, found := r.locateSegmentIndex(uutc)
	if found {
		return i, nil
	}

	seg, err := r.resolveGap(i, FindClosest)
	if err != nil {
		return 0, err
	}
	for idx, s := range r.Channel.Segments {
		if s == seg {
			return idx, nil
		}
	}

	return 0, errs.At(errs.ReadError, errs.ErrDoesNotExist)
}

// FindDiscontinuities produces the contiguon list for the resolver's
// whole channel, preferring the resolver's Sgmt records when present and
// otherwise scanning time-series index entries for negative file offsets
// (spec §4.4: "find_discontinuities(level)"). slice is not consulted:
// contiguons outside it are returned as well.
func (r Resolver) FindDiscontinuities(slice TimeSlice) ([]Contiguon, error) {
	if len(r.Sgmt) > 0 {
		return r.discontinuitiesFromSgmt(), nil
	}

	return r.discontinuitiesFromIndex()
}

func (r Resolver) discontinuitiesFromSgmt() []Contiguon {
	entries := make([]record.SgmtEntry, len(r.Sgmt))
	copy(entries, r.Sgmt)
	sort.Slice(entries, func(i, j int) bool { return entries[i].SegmentNumber < entries[j].SegmentNumber })

	var out []Contiguon
	var cur *Contiguon

	for i, e := range entries {
		if cur != nil && i > 0 && entries[i-1].EndSampleNumber+1 == e.StartSampleNumber {
			cur.EndSample = e.EndSampleNumber
			cur.EndTime = e.EndTime
			cur.EndSegment = int(e.SegmentNumber) //nolint:gosec

			continue
		}

		if cur != nil {
			out = append(out, *cur)
		}
		// SgmtEntry carries each segment's end time but not its start
		// time (original layout), so a new contiguon's start time is
		// approximated by its first segment's own end time.
		cur = &Contiguon{
			StartTime:    e.EndTime,
			EndTime:      e.EndTime,
			StartSample:  e.StartSampleNumber,
			EndSample:    e.EndSampleNumber,
			StartSegment: int(e.SegmentNumber), //nolint:gosec
			EndSegment:   int(e.SegmentNumber), //nolint:gosec
		}
	}
	if cur != nil {
		out = append(out, *cur)
	}

	return out
}

func (r Resolver) discontinuitiesFromIndex() ([]Contiguon, error) {
	var out []Contiguon
	var cur *Contiguon

	for segIdx, seg := range r.Channel.Segments {
		if err := seg.EnsureOpen(r.Key); err != nil {
			return nil, err
		}

		entries, err := ReadIndexEntries(seg)
		if err != nil {
			return nil, err
		}

		for _, e := range entries {
			if e.Discontinuity() || cur == nil {
				if cur != nil {
					out = append(out, *cur)
				}
				cur = &Contiguon{
					StartTime:    e.StartTime,
					EndTime:      e.StartTime,
					StartSample:  e.StartSampleNumber,
					EndSample:    e.StartSampleNumber,
					StartSegment: segIdx,
					EndSegment:   segIdx,
				}

				continue
			}

			cur.EndTime = e.StartTime
			cur.EndSample = e.StartSampleNumber
			cur.EndSegment = segIdx
		}
	}
	if cur != nil {
		out = append(out, *cur)
	}

	return out, nil
}

// ReadIndexEntries reads every TimeSeriesIndexEntry out of seg's open
// index file, stopping at the terminal sentinel. Exported so the
// data-matrix engine can reuse it to locate block offsets for decode
// without re-implementing index scanning.
func ReadIndexEntries(seg *aggregate.Segment) ([]section.TimeSeriesIndexEntry, error) {
	idx := seg.Index()
	engine := idx.Header.Header.Engine()

	var out []section.TimeSeriesIndexEntry
	for offset := int64(section.UniversalHeaderBytes); ; offset += section.TimeSeriesIndexEntryBytes {
		raw, err := idx.Read(offset, section.TimeSeriesIndexEntryBytes)
		if err != nil {
			return nil, err
		}
		if len(raw) < section.TimeSeriesIndexEntryBytes {
			break
		}

		var e section.TimeSeriesIndexEntry
		if err := e.Parse(raw, engine); err != nil {
			return nil, err
		}
		if e.IsSentinel() {
			break
		}
		out = append(out, e)
	}

	return out, nil
}
