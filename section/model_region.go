package section

import "github.com/nsavage/medio/endian"

// ModelRegionBytes is the fixed size of a block's model region: the
// amplitude codec's per-block parameters that don't fit the parameter
// region's flag-keyed float32 list (spec §6 names a model_region_bytes
// field but leaves its contents algorithm-specific; this lays out the
// fields EncodeBlock/DecodeBlock actually need to round-trip: the
// derivative level every algorithm uses, and the MBE min/bit-width pair
// MBE needs in place of a parameter-region entry).
const ModelRegionBytes = 8

// ModelRegion carries the per-block amplitude-codec parameters that
// live outside the generic parameter region.
type ModelRegion struct {
	DerivativeLevel uint8
	MBEBitWidth     uint8
	VDSThreshold    uint8 // 0-100 threshold-map index (spec §4.2); 0 when the block's algorithm is not VDS.
	MBEMin          int32
}

// Bytes serializes the region to ModelRegionBytes bytes: level (1), MBE
// bit width (1), VDS threshold index (1), 1 byte padding, MBE min (4).
func (m ModelRegion) Bytes(engine endian.EndianEngine) []byte {
	b := make([]byte, ModelRegionBytes)
	b[0] = m.DerivativeLevel
	b[1] = m.MBEBitWidth
	b[2] = m.VDSThreshold
	engine.PutUint32(b[4:8], uint32(m.MBEMin)) //nolint:gosec

	return b
}

// ParseModelRegion is the inverse of Bytes.
func ParseModelRegion(data []byte, engine endian.EndianEngine) ModelRegion {
	var m ModelRegion
	if len(data) < ModelRegionBytes {
		return m
	}

	m.DerivativeLevel = data[0]
	m.MBEBitWidth = data[1]
	m.VDSThreshold = data[2]
	m.MBEMin = int32(engine.Uint32(data[4:8])) //nolint:gosec

	return m
}
