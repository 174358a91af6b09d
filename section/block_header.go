package section

import (
	"math"

	"github.com/nsavage/medio/endian"
	"github.com/nsavage/medio/errs"
)

func float32bits(v float32) uint32   { return math.Float32bits(v) }
func float32frombits(b uint32) float32 { return math.Float32frombits(b) }

// Parameter-flags bits (spec §4.2: "a 32-bit value follows, in the order
// intercept, gradient, amplitude_scale, frequency_scale, noise_scores").
const (
	ParamFlagIntercept uint32 = 1 << 0
	ParamFlagGradient  uint32 = 1 << 1
	ParamFlagAmplitudeScale uint32 = 1 << 2
	ParamFlagFrequencyScale uint32 = 1 << 3
	ParamFlagNoiseScores    uint32 = 1 << 4
)

// BlockHeader is the 56-byte fixed header at the start of every
// compressed block (spec §3, §6). Field layout and offsets are grounded
// on the exact byte map in spec §6; struct/Parse/Bytes shape is grounded
// on section.NumericHeader.
type BlockHeader struct {
	BlockCRC             uint32
	BlockFlags           uint32
	StartTime            int64
	AcquisitionChannel   int32
	TotalBlockBytes      uint32
	NumberOfSamples      uint32
	NumberOfRecords      uint16
	RecordRegionBytes    uint16
	ParameterFlags       uint32
	ParameterRegionBytes uint16
	ProtectedRegionBytes uint16
	DiscretionaryRegionBytes uint16
	ModelRegionBytes     uint16
	TotalHeaderBytes     uint32
}

// Validate enforces spec invariant 3: sample count is positive, declared
// region sizes sum to TotalHeaderBytes, and every region size is 4-byte
// aligned.
func (h *BlockHeader) Validate() error {
	if h.NumberOfSamples == 0 {
		return errs.ErrZeroSamples
	}

	regions := []uint32{
		uint32(h.RecordRegionBytes),
		uint32(h.ParameterRegionBytes),
		uint32(h.ProtectedRegionBytes),
		uint32(h.DiscretionaryRegionBytes),
		uint32(h.ModelRegionBytes),
	}
	for _, r := range regions {
		if r%BlockRegionAlignment != 0 {
			return errs.ErrMisalignedRegion
		}
	}

	sum := uint32(BlockFixedHeaderBytes)
	for _, r := range regions {
		sum += r
	}
	if sum != h.TotalHeaderBytes {
		return errs.ErrInvalidBlockHeaderSize
	}

	return nil
}

// Parse decodes a BlockHeader from exactly BlockFixedHeaderBytes of data
// using engine, validating the block-start UID and invariant 3.
func (h *BlockHeader) Parse(data []byte, engine endian.EndianEngine) error {
	if len(data) != BlockFixedHeaderBytes {
		return errs.ErrInvalidBlockHeaderSize
	}

	uid := engine.Uint64(data[BHBlockStartUIDOffset : BHBlockStartUIDOffset+8])
	if uid != BlockStartUID {
		return errs.ErrInvalidBlockStartUID
	}

	h.BlockCRC = engine.Uint32(data[BHBlockCRCOffset : BHBlockCRCOffset+4])
	h.BlockFlags = engine.Uint32(data[BHBlockFlagsOffset : BHBlockFlagsOffset+4])
	h.StartTime = int64(engine.Uint64(data[BHStartTimeOffset : BHStartTimeOffset+8])) //nolint:gosec
	h.AcquisitionChannel = int32(engine.Uint32(data[BHAcqChannelOffset : BHAcqChannelOffset+4])) //nolint:gosec
	h.TotalBlockBytes = engine.Uint32(data[BHTotalBlockBytesOffset : BHTotalBlockBytesOffset+4])
	h.NumberOfSamples = engine.Uint32(data[BHNumberOfSamplesOffset : BHNumberOfSamplesOffset+4])
	h.NumberOfRecords = engine.Uint16(data[BHNumberOfRecordsOffset : BHNumberOfRecordsOffset+2])
	h.RecordRegionBytes = engine.Uint16(data[BHRecordRegionBytesOffset : BHRecordRegionBytesOffset+2])
	h.ParameterFlags = engine.Uint32(data[BHParamFlagsOffset : BHParamFlagsOffset+4])
	h.ParameterRegionBytes = engine.Uint16(data[BHParamRegionBytesOffset : BHParamRegionBytesOffset+2])
	h.ProtectedRegionBytes = engine.Uint16(data[BHProtectedBytesOffset : BHProtectedBytesOffset+2])
	h.DiscretionaryRegionBytes = engine.Uint16(data[BHDiscretionaryBytesOffset : BHDiscretionaryBytesOffset+2])
	h.ModelRegionBytes = engine.Uint16(data[BHModelRegionBytesOffset : BHModelRegionBytesOffset+2])
	h.TotalHeaderBytes = engine.Uint32(data[BHTotalHeaderBytesOffset : BHTotalHeaderBytesOffset+4])

	return h.Validate()
}

// Bytes serializes the header. BlockCRC should be recomputed by the
// caller over bytes 12..TotalBlockBytes after the rest of the block is
// written, per spec invariant 3 (CRC-start offset = 12).
func (h *BlockHeader) Bytes(engine endian.EndianEngine) []byte {
	b := make([]byte, BlockFixedHeaderBytes)

	engine.PutUint64(b[BHBlockStartUIDOffset:BHBlockStartUIDOffset+8], BlockStartUID)
	engine.PutUint32(b[BHBlockCRCOffset:BHBlockCRCOffset+4], h.BlockCRC)
	engine.PutUint32(b[BHBlockFlagsOffset:BHBlockFlagsOffset+4], h.BlockFlags)
	engine.PutUint64(b[BHStartTimeOffset:BHStartTimeOffset+8], uint64(h.StartTime)) //nolint:gosec
	engine.PutUint32(b[BHAcqChannelOffset:BHAcqChannelOffset+4], uint32(h.AcquisitionChannel)) //nolint:gosec
	engine.PutUint32(b[BHTotalBlockBytesOffset:BHTotalBlockBytesOffset+4], h.TotalBlockBytes)
	engine.PutUint32(b[BHNumberOfSamplesOffset:BHNumberOfSamplesOffset+4], h.NumberOfSamples)
	engine.PutUint16(b[BHNumberOfRecordsOffset:BHNumberOfRecordsOffset+2], h.NumberOfRecords)
	engine.PutUint16(b[BHRecordRegionBytesOffset:BHRecordRegionBytesOffset+2], h.RecordRegionBytes)
	engine.PutUint32(b[BHParamFlagsOffset:BHParamFlagsOffset+4], h.ParameterFlags)
	engine.PutUint16(b[BHParamRegionBytesOffset:BHParamRegionBytesOffset+2], h.ParameterRegionBytes)
	engine.PutUint16(b[BHProtectedBytesOffset:BHProtectedBytesOffset+2], h.ProtectedRegionBytes)
	engine.PutUint16(b[BHDiscretionaryBytesOffset:BHDiscretionaryBytesOffset+2], h.DiscretionaryRegionBytes)
	engine.PutUint16(b[BHModelRegionBytesOffset:BHModelRegionBytesOffset+2], h.ModelRegionBytes)
	engine.PutUint32(b[BHTotalHeaderBytesOffset:BHTotalHeaderBytesOffset+4], h.TotalHeaderBytes)

	return b
}

// ParseBlockHeader is a convenience free-function constructor.
func ParseBlockHeader(data []byte, engine endian.EndianEngine) (BlockHeader, error) {
	var h BlockHeader
	if err := h.Parse(data, engine); err != nil {
		return BlockHeader{}, err
	}

	return h, nil
}

// ParameterRegion holds the decoded values of the block's parameter
// region, keyed by ParameterFlags bits (spec §4.2).
type ParameterRegion struct {
	Intercept       float32
	Gradient        float32
	AmplitudeScale  float32
	FrequencyScale  float32
	NoiseScores     float32
	HasIntercept, HasGradient, HasAmplitudeScale, HasFrequencyScale, HasNoiseScores bool
}

// Bytes serializes the parameter region: for each set bit in
// ParameterFlags, in ascending bit order, a 32-bit value follows.
func (p *ParameterRegion) Bytes(flags uint32, engine endian.EndianEngine) []byte {
	var out []byte
	put := func(v float32) {
		var tmp [4]byte
		engine.PutUint32(tmp[:], float32bits(v))
		out = append(out, tmp[:]...)
	}

	if flags&ParamFlagIntercept != 0 {
		put(p.Intercept)
	}
	if flags&ParamFlagGradient != 0 {
		put(p.Gradient)
	}
	if flags&ParamFlagAmplitudeScale != 0 {
		put(p.AmplitudeScale)
	}
	if flags&ParamFlagFrequencyScale != 0 {
		put(p.FrequencyScale)
	}
	if flags&ParamFlagNoiseScores != 0 {
		put(p.NoiseScores)
	}

	return out
}

// ParseParameterRegion decodes data according to the bits set in flags.
func ParseParameterRegion(data []byte, flags uint32, engine endian.EndianEngine) (ParameterRegion, error) {
	var p ParameterRegion
	off := 0

	next := func() (float32, error) {
		if off+4 > len(data) {
			return 0, errs.ErrInvalidBlockHeaderSize
		}
		v := float32frombits(engine.Uint32(data[off : off+4]))
		off += 4

		return v, nil
	}

	var err error
	if flags&ParamFlagIntercept != 0 {
		if p.Intercept, err = next(); err != nil {
			return p, err
		}
		p.HasIntercept = true
	}
	if flags&ParamFlagGradient != 0 {
		if p.Gradient, err = next(); err != nil {
			return p, err
		}
		p.HasGradient = true
	}
	if flags&ParamFlagAmplitudeScale != 0 {
		if p.AmplitudeScale, err = next(); err != nil {
			return p, err
		}
		p.HasAmplitudeScale = true
	}
	if flags&ParamFlagFrequencyScale != 0 {
		if p.FrequencyScale, err = next(); err != nil {
			return p, err
		}
		p.HasFrequencyScale = true
	}
	if flags&ParamFlagNoiseScores != 0 {
		if p.NoiseScores, err = next(); err != nil {
			return p, err
		}
		p.HasNoiseScores = true
	}

	return p, nil
}
