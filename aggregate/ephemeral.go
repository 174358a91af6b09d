package aggregate

import "github.com/nsavage/medio/section"

// SynthesizeChannelMetadata builds a channel's ephemeral metadata from
// the union of its segments' metadata (spec §3: "metadata at the
// session/channel level is ephemeral, synthesized from the union of its
// segments"; §9: "never persist it back to disk"). Segments must be in
// ascending segment-number order.
func SynthesizeChannelMetadata(segments []*Segment) section.Metadata {
	if len(segments) == 0 {
		return section.Metadata{}
	}

	freq := segments[0].Metadata.Section2.TimeSeries.SamplingFrequency
	variable := false

	var totalSamples int64
	for _, seg := range segments {
		ts := seg.Metadata.Section2.TimeSeries
		if ts.SamplingFrequency != freq {
			variable = true
		}
		totalSamples += ts.NumberOfSamples
	}

	if variable {
		freq = section.VariableFrequency
	}

	absoluteStart := segments[0].Metadata.Section2.TimeSeries.AbsoluteStartSampleNumber

	return section.NewEphemeralTimeSeries(freq, absoluteStart, totalSamples)
}

// SynthesizeSessionMetadata builds session-level ephemeral metadata from
// the union of its channels' (already-ephemeral) metadata. When channel
// sampling rates differ, the session-level frequency field is set to the
// "variable" sentinel (spec invariant 5: "Session-level ephemeral
// metadata with heterogeneous channel rates stores the sentinel
// 'variable' value in the frequency field").
func SynthesizeSessionMetadata(channels []*Channel) section.Metadata {
	timeSeries := make([]*Channel, 0, len(channels))
	for _, c := range channels {
		if c.Kind == section.ChannelTimeSeries {
			timeSeries = append(timeSeries, c)
		}
	}
	if len(timeSeries) == 0 {
		return section.Metadata{}
	}

	freq := timeSeries[0].EphemeralMetadata.Section2.TimeSeries.SamplingFrequency
	variable := false

	var maxSamples int64
	for _, c := range timeSeries {
		ts := c.EphemeralMetadata.Section2.TimeSeries
		if ts.SamplingFrequency != freq {
			variable = true
		}
		if ts.NumberOfSamples > maxSamples {
			maxSamples = ts.NumberOfSamples
		}
	}

	if variable {
		freq = section.VariableFrequency
	}

	return section.NewEphemeralTimeSeries(freq, 0, maxSamples)
}
