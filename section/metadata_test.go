package section

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMetadata_RoundTrip_TimeSeries(t *testing.T) {
	var m Metadata
	m.Section1.Level1PasswordHint = "pet's name"
	m.Section1.Level2PasswordHint = "admin hint"
	m.Section1.Section2EncryptionLevel = AccessLevel1
	m.Section1.TimeSeriesDataEncryptionLevel = AccessLevel2

	m.Section2.Kind = ChannelTimeSeries
	m.Section2.TimeSeries = TimeSeriesParams{
		SamplingFrequency:         5000,
		AbsoluteStartSampleNumber: 0,
		NumberOfSamples:           100000,
		NumberOfBlocks:            40,
		MaximumBlockBytes:         8192,
		MaximumBlockSamples:       5000,
		AmplitudeUnitsFactor:      1.0,
		AmplitudeUnitsDescription: "microvolts",
	}

	m.Section3 = Section3{
		RecordingTimeOffset:     0,
		UTCOffsetSeconds:        -18000,
		StandardTimezoneAcronym: "EST",
		StandardTimezoneName:    "Eastern Standard Time",
		SubjectName:             "anonymous",
		SubjectID:               "sub-001",
		Geotag:                  Geotag{Present: true, Latitude: 40.0, Longitude: -75.0},
	}

	payload := m.Bytes()
	require.Len(t, payload, MetadataPayloadBytes)

	var decoded Metadata
	require.NoError(t, decoded.Parse(payload))
	require.Equal(t, m.Section1, decoded.Section1)
	require.Equal(t, m.Section2, decoded.Section2)
	require.Equal(t, m.Section3, decoded.Section3)
}

func TestMetadata_RoundTrip_Video(t *testing.T) {
	var m Metadata
	m.Section2.Kind = ChannelVideo
	m.Section2.Video = VideoParams{
		FrameRate:                29.97,
		AbsoluteStartFrameNumber: 0,
		NumberOfFrames:           1800,
		HorizontalResolution:     1920,
		VerticalResolution:       1080,
	}

	payload := m.Bytes()
	var decoded Metadata
	require.NoError(t, decoded.Parse(payload))
	require.Equal(t, m.Section2, decoded.Section2)
}

func TestMetadata_RejectsBadSize(t *testing.T) {
	var m Metadata
	require.Error(t, m.Parse(make([]byte, 10)))
}

func TestNewEphemeralTimeSeries(t *testing.T) {
	m := NewEphemeralTimeSeries(VariableFrequency, 0, 5000)

	require.Equal(t, ChannelTimeSeries, m.Section2.Kind)
	require.Equal(t, VariableFrequency, m.Section2.TimeSeries.SamplingFrequency)
	require.Equal(t, int64(5000), m.Section2.TimeSeries.NumberOfSamples)
}
