package section

import (
	"math"

	"github.com/nsavage/medio/endian"
	"github.com/nsavage/medio/errs"
)

func math64bits(v float64) uint64      { return math.Float64bits(v) }
func math64frombits(b uint64) float64 { return math.Float64frombits(b) }

// ChannelKind discriminates the §2 recording-parameters union.
type ChannelKind uint8

const (
	ChannelTimeSeries ChannelKind = 1
	ChannelVideo      ChannelKind = 2
)

// VariableFrequency is the sentinel stored in a session-level ephemeral
// metadata frequency field when channels have heterogeneous sampling
// rates (spec invariant 5).
const VariableFrequency = -1.0

// Section1 carries password hints and the per-section encryption levels
// (spec §3: "§1 = password hints + encryption levels for §2/§3/data").
type Section1 struct {
	Level1PasswordHint string
	Level2PasswordHint string
	Section2EncryptionLevel AccessLevel
	Section3EncryptionLevel AccessLevel
	TimeSeriesDataEncryptionLevel AccessLevel
}

// TimeSeriesParams is the time-series variant of the §2 union (spec §3:
// "sampling frequency, absolute start sample, block statistics,
// amplitude units, etc.").
type TimeSeriesParams struct {
	SamplingFrequency   float64
	AbsoluteStartSampleNumber int64
	NumberOfSamples     int64
	NumberOfBlocks      int64
	MaximumBlockBytes   uint32
	MaximumBlockSamples uint32
	AmplitudeUnitsFactor float64
	AmplitudeUnitsDescription string
}

// VideoParams is the video variant of the §2 union.
type VideoParams struct {
	FrameRate           float64
	AbsoluteStartFrameNumber int64
	NumberOfFrames       int64
	HorizontalResolution uint32
	VerticalResolution   uint32
}

// Section2 is the discriminated union of recording parameters.
type Section2 struct {
	Kind       ChannelKind
	TimeSeries TimeSeriesParams
	Video      VideoParams
}

// Geotag is an optional WGS-84 location stamp.
type Geotag struct {
	Present   bool
	Latitude  float64
	Longitude float64
}

// Section3 carries timing and subject metadata (spec §3: "recording time
// offset, DST rules, UTC offset, subject identifiers, geotag").
type Section3 struct {
	RecordingTimeOffset int64
	DSTStartTime        int64
	DSTEndTime          int64
	UTCOffsetSeconds    int32
	StandardTimezoneAcronym string
	StandardTimezoneName    string
	DaylightTimezoneAcronym string
	SubjectName             string
	SubjectID               string
	Geotag                  Geotag
}

// Metadata is the decoded 15 KiB payload of a metadata file, preceded on
// disk by a UniversalHeader (spec §3: "Metadata file (16 KiB total):
// universal header + 15 KiB payload split into three
// encryption-addressable sections").
type Metadata struct {
	Header   UniversalHeader
	Section1 Section1
	Section2 Section2
	Section3 Section3
}

// Ephemeral-metadata-only construction: used by the aggregate layer to
// synthesize session/channel metadata from children at open time; it is
// never serialized to disk (spec §9: "never persist it back to disk").
func NewEphemeralTimeSeries(freq float64, absoluteStart, numSamples int64) Metadata {
	var m Metadata
	m.Section2.Kind = ChannelTimeSeries
	m.Section2.TimeSeries.SamplingFrequency = freq
	m.Section2.TimeSeries.AbsoluteStartSampleNumber = absoluteStart
	m.Section2.TimeSeries.NumberOfSamples = numSamples

	return m
}

// putString writes s at off, prefixed with its length as a uint16, and
// returns the offset just past it. The hint/name strings make the payload
// encoding variable-length; Bytes zero-pads it to MetadataPayloadBytes.
func putString(b []byte, off int, s string) int {
	n := len(s)
	engine := endian.GetLittleEndianEngine()
	engine.PutUint16(b[off:off+2], uint16(n)) //nolint:gosec
	copy(b[off+2:off+2+n], s)

	return off + 2 + n
}

func getString(b []byte, off int) (string, int, error) {
	if off+2 > len(b) {
		return "", 0, errs.ErrInvalidHeaderSize
	}
	engine := endian.GetLittleEndianEngine()
	n := int(engine.Uint16(b[off : off+2]))
	if off+2+n > len(b) {
		return "", 0, errs.ErrInvalidHeaderSize
	}

	return string(b[off+2 : off+2+n]), off + 2 + n, nil
}

// Bytes serializes the payload (not including the universal header) into
// exactly MetadataPayloadBytes, zero-padded.
func (m *Metadata) Bytes() []byte {
	b := make([]byte, MetadataPayloadBytes)
	engine := endian.GetLittleEndianEngine()
	off := 0

	b[off] = uint8(m.Section1.Section2EncryptionLevel)
	b[off+1] = uint8(m.Section1.Section3EncryptionLevel)
	b[off+2] = uint8(m.Section1.TimeSeriesDataEncryptionLevel)
	off += 3
	off = putString(b, off, m.Section1.Level1PasswordHint)
	off = putString(b, off, m.Section1.Level2PasswordHint)

	b[off] = uint8(m.Section2.Kind)
	off++
	switch m.Section2.Kind {
	case ChannelVideo:
		engine.PutUint64(b[off:off+8], math64bits(m.Section2.Video.FrameRate))
		off += 8
		engine.PutUint64(b[off:off+8], uint64(m.Section2.Video.AbsoluteStartFrameNumber)) //nolint:gosec
		off += 8
		engine.PutUint64(b[off:off+8], uint64(m.Section2.Video.NumberOfFrames)) //nolint:gosec
		off += 8
		engine.PutUint32(b[off:off+4], m.Section2.Video.HorizontalResolution)
		off += 4
		engine.PutUint32(b[off:off+4], m.Section2.Video.VerticalResolution)
		off += 4
	default: // ChannelTimeSeries and the ephemeral zero-value default.
		ts := m.Section2.TimeSeries
		engine.PutUint64(b[off:off+8], math64bits(ts.SamplingFrequency))
		off += 8
		engine.PutUint64(b[off:off+8], uint64(ts.AbsoluteStartSampleNumber)) //nolint:gosec
		off += 8
		engine.PutUint64(b[off:off+8], uint64(ts.NumberOfSamples)) //nolint:gosec
		off += 8
		engine.PutUint64(b[off:off+8], uint64(ts.NumberOfBlocks)) //nolint:gosec
		off += 8
		engine.PutUint32(b[off:off+4], ts.MaximumBlockBytes)
		off += 4
		engine.PutUint32(b[off:off+4], ts.MaximumBlockSamples)
		off += 4
		engine.PutUint64(b[off:off+8], math64bits(ts.AmplitudeUnitsFactor))
		off += 8
		off = putString(b, off, ts.AmplitudeUnitsDescription)
	}

	engine.PutUint64(b[off:off+8], uint64(m.Section3.RecordingTimeOffset)) //nolint:gosec
	off += 8
	engine.PutUint64(b[off:off+8], uint64(m.Section3.DSTStartTime)) //nolint:gosec
	off += 8
	engine.PutUint64(b[off:off+8], uint64(m.Section3.DSTEndTime)) //nolint:gosec
	off += 8
	engine.PutUint32(b[off:off+4], uint32(m.Section3.UTCOffsetSeconds)) //nolint:gosec
	off += 4
	off = putString(b, off, m.Section3.StandardTimezoneAcronym)
	off = putString(b, off, m.Section3.StandardTimezoneName)
	off = putString(b, off, m.Section3.DaylightTimezoneAcronym)
	off = putString(b, off, m.Section3.SubjectName)
	off = putString(b, off, m.Section3.SubjectID)

	if m.Section3.Geotag.Present {
		b[off] = 1
	}
	off++
	engine.PutUint64(b[off:off+8], math64bits(m.Section3.Geotag.Latitude))
	off += 8
	engine.PutUint64(b[off:off+8], math64bits(m.Section3.Geotag.Longitude))

	return b
}

// Parse decodes a Metadata payload (exactly MetadataPayloadBytes) in
// place, leaving m.Header untouched (the caller parses that separately
// via UniversalHeader.Parse).
func (m *Metadata) Parse(payload []byte) error {
	if len(payload) != MetadataPayloadBytes {
		return errs.ErrInvalidHeaderSize
	}
	engine := endian.GetLittleEndianEngine()
	off := 0

	m.Section1.Section2EncryptionLevel = AccessLevel(payload[off])
	m.Section1.Section3EncryptionLevel = AccessLevel(payload[off+1])
	m.Section1.TimeSeriesDataEncryptionLevel = AccessLevel(payload[off+2])
	off += 3

	var err error
	if m.Section1.Level1PasswordHint, off, err = getString(payload, off); err != nil {
		return err
	}
	if m.Section1.Level2PasswordHint, off, err = getString(payload, off); err != nil {
		return err
	}

	m.Section2.Kind = ChannelKind(payload[off])
	off++
	switch m.Section2.Kind {
	case ChannelVideo:
		m.Section2.Video.FrameRate = math64frombits(engine.Uint64(payload[off : off+8]))
		off += 8
		m.Section2.Video.AbsoluteStartFrameNumber = int64(engine.Uint64(payload[off : off+8])) //nolint:gosec
		off += 8
		m.Section2.Video.NumberOfFrames = int64(engine.Uint64(payload[off : off+8])) //nolint:gosec
		off += 8
		m.Section2.Video.HorizontalResolution = engine.Uint32(payload[off : off+4])
		off += 4
		m.Section2.Video.VerticalResolution = engine.Uint32(payload[off : off+4])
		off += 4
	default:
		ts := &m.Section2.TimeSeries
		ts.SamplingFrequency = math64frombits(engine.Uint64(payload[off : off+8]))
		off += 8
		ts.AbsoluteStartSampleNumber = int64(engine.Uint64(payload[off : off+8])) //nolint:gosec
		off += 8
		ts.NumberOfSamples = int64(engine.Uint64(payload[off : off+8])) //nolint:gosec
		off += 8
		ts.NumberOfBlocks = int64(engine.Uint64(payload[off : off+8])) //nolint:gosec
		off += 8
		ts.MaximumBlockBytes = engine.Uint32(payload[off : off+4])
		off += 4
		ts.MaximumBlockSamples = engine.Uint32(payload[off : off+4])
		off += 4
		ts.AmplitudeUnitsFactor = math64frombits(engine.Uint64(payload[off : off+8]))
		off += 8
		if ts.AmplitudeUnitsDescription, off, err = getString(payload, off); err != nil {
			return err
		}
	}

	m.Section3.RecordingTimeOffset = int64(engine.Uint64(payload[off : off+8])) //nolint:gosec
	off += 8
	m.Section3.DSTStartTime = int64(engine.Uint64(payload[off : off+8])) //nolint:gosec
	off += 8
	m.Section3.DSTEndTime = int64(engine.Uint64(payload[off : off+8])) //nolint:gosec
	off += 8
	m.Section3.UTCOffsetSeconds = int32(engine.Uint32(payload[off : off+4])) //nolint:gosec
	off += 4
	if m.Section3.StandardTimezoneAcronym, off, err = getString(payload, off); err != nil {
		return err
	}
	if m.Section3.StandardTimezoneName, off, err = getString(payload, off); err != nil {
		return err
	}
	if m.Section3.DaylightTimezoneAcronym, off, err = getString(payload, off); err != nil {
		return err
	}
	if m.Section3.SubjectName, off, err = getString(payload, off); err != nil {
		return err
	}
	if m.Section3.SubjectID, off, err = getString(payload, off); err != nil {
		return err
	}

	m.Section3.Geotag.Present = payload[off] != 0
	off++
	m.Section3.Geotag.Latitude = math64frombits(engine.Uint64(payload[off : off+8]))
	off += 8
	m.Section3.Geotag.Longitude = math64frombits(engine.Uint64(payload[off : off+8]))

	return nil
}
