package aggregate

import (
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/nsavage/medio/aesutil"
	"github.com/nsavage/medio/errs"
	"github.com/nsavage/medio/section"
)

// Channel is one channel aggregate: a directory grouping segments plus
// ephemeral metadata plus channel-level records plus a precomputed
// Sgmt-record array (spec §3).
type Channel struct {
	Name string
	Kind section.ChannelKind
	Dir  string

	Segments []*Segment

	EphemeralMetadata section.Metadata
}

// OpenChannel scans channelDir for segment subdirectories named
// "<name>-NNNN<ext>", opens each in ascending segment-number order,
// validates invariant 2 (contiguous numbering from 1, non-overlapping
// monotonic sample ranges), and synthesizes the channel's ephemeral
// metadata.
func OpenChannel(channelDir, name string, kind section.ChannelKind, key *aesutil.ExpandedKey) (*Channel, error) {
	entries, err := os.ReadDir(channelDir)
	if err != nil {
		return nil, errs.At(errs.NoFile, err)
	}

	type numbered struct {
		number int
		dir    string
	}

	var found []numbered
	prefix := name + "-"
	for _, e := range entries {
		if !e.IsDir() || !strings.HasSuffix(e.Name(), SegmentDirExt) {
			continue
		}
		base := strings.TrimSuffix(e.Name(), SegmentDirExt)
		if !strings.HasPrefix(base, prefix) {
			continue
		}
		n, err := strconv.Atoi(strings.TrimPrefix(base, prefix))
		if err != nil {
			continue
		}
		found = append(found, numbered{number: n, dir: filepath.Join(channelDir, e.Name())})
	}

	sort.Slice(found, func(i, j int) bool { return found[i].number < found[j].number })

	segments := make([]*Segment, 0, len(found))
	for i, nf := range found {
		if nf.number != i+1 {
			return nil, errs.At(errs.ReadError, errs.ErrSegmentsNotContiguous)
		}

		seg, err := OpenSegment(nf.dir, name, nf.number, key)
		if err != nil {
			return nil, err
		}
		segments = append(segments, seg)
	}

	if err := validateSampleRanges(segments); err != nil {
		return nil, err
	}

	ch := &Channel{Name: name, Kind: kind, Dir: channelDir, Segments: segments}
	ch.EphemeralMetadata = SynthesizeChannelMetadata(segments)

	return ch, nil
}

// validateSampleRanges checks invariant 2: sample-number ranges are
// non-overlapping and monotonic across consecutive segments.
func validateSampleRanges(segments []*Segment) error {
	for i := 1; i < len(segments); i++ {
		_, prevEnd := segments[i-1].SampleSpan()
		start, _ := segments[i].SampleSpan()
		if start <= prevEnd {
			return errs.At(errs.ReadError, errs.ErrSampleRangeOverlap)
		}
	}

	return nil
}

// SamplingFrequency returns the channel's nominal sampling frequency, or
// section.VariableFrequency if its segments disagree.
func (c *Channel) SamplingFrequency() float64 {
	return c.EphemeralMetadata.Section2.TimeSeries.SamplingFrequency
}

// NumberOfSamples returns the channel's total sample count across all
// segments.
func (c *Channel) NumberOfSamples() int64 {
	return c.EphemeralMetadata.Section2.TimeSeries.NumberOfSamples
}

// SegmentForSampleNumber returns the segment containing sampleNumber, or
// nil if it falls outside every segment's span.
func (c *Channel) SegmentForSampleNumber(sampleNumber int64) *Segment {
	for _, seg := range c.Segments {
		start, end := seg.SampleSpan()
		if sampleNumber >= start && sampleNumber <= end {
			return seg
		}
	}

	return nil
}

// Close closes every segment's open file handles.
func (c *Channel) Close() error {
	var err error
	for _, seg := range c.Segments {
		if e := seg.Close(); e != nil && err == nil {
			err = e
		}
	}

	return err
}
