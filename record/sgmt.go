package record

import (
	"math"

	"github.com/nsavage/medio/endian"
)

// SgmtTypeCode is the reserved type code for the Sgmt record (spec §4.3,
// glossary "Sgmt record"), grounded on the 4-character ASCII alias "Sgmt"
// packed little-endian into a uint32, matching the on-disk type-code
// convention used elsewhere for 4-character aliases.
const SgmtTypeCode uint32 = 0x746D6753

// FrequencyVariable marks a segment whose sampling frequency varies
// within the segment (mirrors section.VariableFrequency for the Sgmt
// record body).
const FrequencyVariable = -1.0

// SgmtEntry is one fixed 48-byte entry of a Sgmt record body: a
// segment's time/sample span and nominal sampling frequency (spec §4.3:
// "enumerates every segment's time/sample span and its nominal sampling
// frequency").
type SgmtEntry struct {
	EndTime                  int64
	StartSampleNumber        int64
	EndSampleNumber          int64
	SegmentUID                uint64
	SegmentNumber             int32
	AcquisitionChannelNumber  int32
	SamplingFrequency         float64
}

const sgmtEntryBytes = 48

// EncodeSgmtEntries packs a Sgmt record's body from one SgmtEntry per
// segment, in segment order.
func EncodeSgmtEntries(entries []SgmtEntry, engine endian.EndianEngine) []byte {
	out := make([]byte, len(entries)*sgmtEntryBytes)
	for i, e := range entries {
		b := out[i*sgmtEntryBytes : (i+1)*sgmtEntryBytes]
		engine.PutUint64(b[0:8], uint64(e.EndTime))           //nolint:gosec
		engine.PutUint64(b[8:16], uint64(e.StartSampleNumber)) //nolint:gosec
		engine.PutUint64(b[16:24], uint64(e.EndSampleNumber)) //nolint:gosec
		engine.PutUint64(b[24:32], e.SegmentUID)
		engine.PutUint32(b[32:36], uint32(e.SegmentNumber))            //nolint:gosec
		engine.PutUint32(b[36:40], uint32(e.AcquisitionChannelNumber)) //nolint:gosec
		engine.PutUint64(b[40:48], float64bits(e.SamplingFrequency))
	}

	return out
}

// DecodeSgmtEntries is the inverse of EncodeSgmtEntries. body's length
// must be a multiple of 48 bytes; any trailing bytes beyond the last
// whole entry (the optional per-segment description field, spec's
// original layout) are ignored.
func DecodeSgmtEntries(body []byte, engine endian.EndianEngine) []SgmtEntry {
	n := len(body) / sgmtEntryBytes
	out := make([]SgmtEntry, n)

	for i := range out {
		b := body[i*sgmtEntryBytes : (i+1)*sgmtEntryBytes]
		out[i] = SgmtEntry{
			EndTime:                  int64(engine.Uint64(b[0:8])),   //nolint:gosec
			StartSampleNumber:        int64(engine.Uint64(b[8:16])),  //nolint:gosec
			EndSampleNumber:          int64(engine.Uint64(b[16:24])), //nolint:gosec
			SegmentUID:               engine.Uint64(b[24:32]),
			SegmentNumber:            int32(engine.Uint32(b[32:36])), //nolint:gosec
			AcquisitionChannelNumber: int32(engine.Uint32(b[36:40])), //nolint:gosec
			SamplingFrequency:        float64frombits(engine.Uint64(b[40:48])),
		}
	}

	return out
}

func float64bits(v float64) uint64     { return math.Float64bits(v) }
func float64frombits(b uint64) float64 { return math.Float64frombits(b) }
