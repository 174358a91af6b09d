package matrix

import (
	"fmt"
	"math"

	"github.com/nsavage/medio/aggregate"
	"github.com/nsavage/medio/errs"
	"github.com/nsavage/medio/section"
	"github.com/nsavage/medio/threading"
	"github.com/nsavage/medio/timeslice"
)

// microsecondsPerSecond converts a µUTC span to seconds.
const microsecondsPerSecond = 1e6

// resolveTimeRange converts slice into an absolute µUTC [start, end]
// range via the reference channel's resolver, regardless of whether
// slice was originally expressed in time or sample-number terms (spec
// §4.4: "time and sample are always interconverted through the
// reference channel").
func resolveTimeRange(resolver timeslice.Resolver, slice timeslice.TimeSlice) (startTime, endTime int64, err error) {
	startTime, endTime = slice.StartTime, slice.EndTime

	if startTime == timeslice.UUTCNoEntry {
		if slice.StartSample != timeslice.SampleNumberNoEntry {
			if startTime, err = resolver.UUTCForSampleNumber(slice.StartSample, timeslice.FindCurrent); err != nil {
				return 0, 0, err
			}
		} else {
			startTime = timeslice.BeginningOfTime
		}
	}

	if endTime == timeslice.UUTCNoEntry {
		if slice.EndSample != timeslice.SampleNumberNoEntry {
			if endTime, err = resolver.UUTCForSampleNumber(slice.EndSample, timeslice.FindCurrent); err != nil {
				return 0, 0, err
			}
		} else {
			endTime = timeslice.EndOfTime
		}
	}

	if endTime < startTime {
		return 0, 0, errs.At(errs.ReadError, errs.ErrEmptySlice)
	}

	return startTime, endTime, nil
}

// channelSampleBounds converts an absolute µUTC range into ch's own
// sample-number bounds, since every channel keeps its own
// sample-number domain even though all channels share one wall clock
// (spec §4.4, §4.5).
func channelSampleBounds(ch *aggregate.Channel, startTime, endTime int64) (int64, int64, error) {
	r := timeslice.NewResolver(ch, nil)

	startSample := timeslice.SampleNumberNoEntry
	if startTime != timeslice.BeginningOfTime {
		s, err := r.SampleNumberForUUTC(startTime, timeslice.FindFirstOnOrAfter)
		if err != nil {
			return 0, 0, err
		}
		startSample = s
	}

	endSample := timeslice.SampleNumberNoEntry
	if endTime != timeslice.EndOfTime {
		s, err := r.SampleNumberForUUTC(endTime, timeslice.FindLastOnOrBefore)
		if err != nil {
			return 0, 0, err
		}
		endSample = s
	}

	return startSample, endSample, nil
}

// effectiveOutputCount determines how many cells each output channel
// row gets, per opts.Extent. Relative limits (opts.Relative) read
// Options.OutputFrequency as a fraction of the reference channel's own
// rate rather than an absolute Hz value, and Options.SampleCount as a
// fraction of the reference channel's native sample count over the
// range (spec §4.5/§4.6: "extent by sample count or output frequency,
// absolute or relative to the reference channel"). A fully unbounded
// range (an entirely unset TimeSlice, as NewTimeSlice returns it) derives its duration from the
// reference channel's own sample count rather than the
// BeginningOfTime/EndOfTime sentinels, which span the entire int64
// range and would otherwise overflow any duration-based computation.
func effectiveOutputCount(ref *aggregate.Channel, startTime, endTime int64, opts Options) int {
	refFs := ref.SamplingFrequency()

	var durationSec float64
	var refCount int
	if startTime == timeslice.BeginningOfTime && endTime == timeslice.EndOfTime {
		refCount = int(ref.NumberOfSamples())
		if refFs > 0 {
			durationSec = float64(refCount) / refFs
		}
	} else {
		durationSec = float64(endTime-startTime) / microsecondsPerSecond
		refCount = int(math.Round(durationSec*refFs)) + 1
	}

	switch opts.Extent {
	case ExtentOutputFrequency:
		freq := opts.OutputFrequency
		if opts.Relative {
			freq = refFs * opts.OutputFrequency
		}
		if freq <= 0 {
			freq = refFs
		}

		count := int(math.Round(durationSec * freq))
		if count < 1 {
			count = 1
		}

		return count
	default: // ExtentSampleCount
		if opts.SampleCount > 0 {
			if opts.Relative {
				return int(math.Round(float64(opts.SampleCount) * float64(refCount)))
			}

			return int(opts.SampleCount)
		}

		return refCount
	}
}

// warnIfSampleBasedAcrossVariableFrequency emits the §4.4 ordering
// warning when slice selected its range by sample number rather than
// time and at least one of channels samples at a different frequency
// than ref: sample-based slicing across varying frequencies treats the
// slice as relative, and any discontinuity the range crosses produces
// relative rather than absolute output (spec §4.4: "when sampling
// frequencies vary, sample-based slices are treated as relative and the
// library emits a warning... that any discontinuity will produce
// relative output").
func warnIfSampleBasedAcrossVariableFrequency(slice timeslice.TimeSlice, ref *aggregate.Channel, channels []*aggregate.Channel, opts Options) {
	sampleBased := slice.StartSample != timeslice.SampleNumberNoEntry || slice.EndSample != timeslice.SampleNumberNoEntry
	if !sampleBased {
		return
	}

	refFs := ref.SamplingFrequency()
	for _, ch := range channels {
		if ch.SamplingFrequency() != refFs {
			opts.Sink.Warn(opts.Behavior, fmt.Sprintf(
				"sample-based slice spans channel %q at %g Hz against reference %q at %g Hz: any discontinuity will produce relative output",
				ch.Name, ch.SamplingFrequency(), ref.Name, refFs))

			return
		}
	}
}

// GetMatrix resolves slice against session's reference channel, then
// decodes, filters, and resamples every time-series channel over that
// range through its own per-channel worker, joining the results into
// one Matrix (spec §4.5: "the data-matrix engine's single entry point";
// §4.5 "launch one worker per channel").
func GetMatrix(session *aggregate.Session, slice timeslice.TimeSlice, opts Options) (*Matrix, error) {
	ref := session.ReferenceChannel
	if ref == nil {
		return nil, errs.At(errs.ReadError, errs.ErrDoesNotExist)
	}

	resolver := timeslice.NewResolver(ref, nil)

	startTime, endTime, err := resolveTimeRange(resolver, slice)
	if err != nil {
		return nil, err
	}

	outputCount := effectiveOutputCount(ref, startTime, endTime, opts)

	var channels []*aggregate.Channel
	for _, ch := range session.Channels {
		if ch.Kind == section.ChannelTimeSeries {
			channels = append(channels, ch)
		}
	}

	warnIfSampleBasedAcrossVariableFrequency(slice, ref, channels, opts)

	names := make([]string, len(channels))
	for i, ch := range channels {
		names[i] = ch.Name
	}

	m := NewMatrix(opts.Element, opts.Layout, names, outputCount)

	results := make([]ChannelResult, len(channels))
	tasks := make([]threading.Task, len(channels))

	for i, ch := range channels {
		i, ch := i, ch
		tasks[i] = func(_ *threading.Globals, _ *threading.Worker) {
			startSample, endSample, err := channelSampleBounds(ch, startTime, endTime)
			if err != nil {
				results[i] = ChannelResult{Name: ch.Name, Err: err}
				return
			}

			results[i] = ProcessChannel(ch, session.Key, startSample, endSample, opts, outputCount)
		}
	}

	pool := threading.NewPool(0, nil)
	pool.Run(tasks)

	for i, r := range results {
		if r.Err != nil {
			return nil, r.Err
		}
		err := m.SetChannel(i, r.Samples)
		if r.Release != nil {
			r.Release()
		}
		if err != nil {
			return nil, err
		}
		if r.HasRange {
			m.SetRange(r.Name, r.Range[0], r.Range[1])
		}
		if r.HasExtrema {
			m.SetExtrema(r.Name, r.Extrema)
		}
	}

	if opts.FillDiscontinuity == FillContiguonList {
		gapSlice := timeslice.NewTimeSlice()
		gapSlice.StartTime, gapSlice.EndTime = startTime, endTime

		gaps, err := resolver.FindDiscontinuities(gapSlice)
		if err != nil {
			return nil, err
		}
		m.Gaps = gaps
	}

	return m, nil
}
