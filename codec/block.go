package codec

import (
	"github.com/nsavage/medio/errs"
	"github.com/nsavage/medio/format"
)

// EncodeOptions controls one block's amplitude-encoding pass.
type EncodeOptions struct {
	Algorithm     format.Algorithm
	Level         DerivativeLevel
	SearchLevel   bool // try all four derivative levels, keep the smallest
	Scale         Scale
	VDSThreshold  int // 0 disables VDS lossiness
	VDSThresholdMap [ThresholdMapEntries]float64
	VDSSubAlgorithm vdsSubAlgorithm
	FallThroughToBestEncoding bool
}

// EncodedBlock is the amplitude codec's output: the entropy-coded
// payload plus everything the model header needs to invert it.
type EncodedBlock struct {
	Payload       []byte
	Level         DerivativeLevel
	OverflowWidth int
	MBEMin        int32
	MBEBitWidth   int
	FellThroughToMBE bool
}

// EncodeBlock differences, optionally scales, and amplitude-encodes one
// block of samples per opts.Algorithm. The statistics models used by
// RED/PRED are constructed fresh for every call, so predictive state
// never leaks across blocks — the discontinuity reset the spec calls for
// on decode falls out of this for free rather than needing explicit
// state-clearing logic (spec §4.2: "the codec resets predictive state...
// when this [DISCONTINUITY] bit is seen on decode").
func EncodeBlock(samples []float64, opts EncodeOptions) (EncodedBlock, error) {
	scale := opts.Scale
	if scale == (Scale{}) {
		scale = NoScale
	}

	scaled := ApplyAmplitudeScale(samples, scale.AmplitudeFactor)
	if scale.FrequencyFactor > 1 {
		scaled = Downsample(scaled, scale.FrequencyFactor)
	}

	level := opts.Level
	if opts.SearchLevel {
		level = BestDerivativeLevel(scaled)
	}
	diffed := ApplyDerivative(scaled, level)

	result := EncodedBlock{Level: level}

	switch opts.Algorithm {
	case format.AlgorithmRED1:
		result.OverflowWidth = ChooseOverflowWidth(diffed)
		result.Payload = EncodeRED(diffed, result.OverflowWidth, false)
	case format.AlgorithmRED2:
		result.OverflowWidth = ChooseOverflowWidth(diffed)
		result.Payload = EncodeRED(diffed, result.OverflowWidth, true)
	case format.AlgorithmPRED1:
		result.OverflowWidth = ChooseOverflowWidth(diffed)
		result.Payload = EncodePRED(diffed, result.OverflowWidth, false)
	case format.AlgorithmPRED2:
		result.OverflowWidth = ChooseOverflowWidth(diffed)
		result.Payload = EncodePRED(diffed, result.OverflowWidth, true)
	case format.AlgorithmMBE:
		packed, min, bitWidth := EncodeMBE(diffed)
		result.Payload = packed
		result.MBEMin = min
		result.MBEBitWidth = bitWidth
	case format.AlgorithmVDS:
		result.OverflowWidth = ChooseOverflowWidth(diffed)
		result.Payload = EncodeVDS(diffed, opts.VDSThresholdMap, opts.VDSThreshold, result.OverflowWidth, opts.VDSSubAlgorithm)
	default:
		return EncodedBlock{}, errs.ErrUnknownAlgorithm
	}

	// Fall-through: when the nominal algorithm loses to MBE at the same
	// derivative level, emit MBE instead (spec §4.2: "if the resulting
	// size exceeds what MBE would produce for the same derivative level,
	// MBE is emitted instead").
	if opts.FallThroughToBestEncoding && opts.Algorithm != format.AlgorithmMBE && opts.Algorithm != format.AlgorithmVDS {
		packed, min, bitWidth := EncodeMBE(diffed)
		if len(packed) < len(result.Payload) {
			result.Payload = packed
			result.MBEMin = min
			result.MBEBitWidth = bitWidth
			result.FellThroughToMBE = true
		}
	}

	return result, nil
}

// DecodeOptions mirrors EncodeOptions for the decode path.
type DecodeOptions struct {
	Algorithm       format.Algorithm
	Level           DerivativeLevel
	NumSamples      int
	OverflowWidth   int
	MBEMin          int32
	MBEBitWidth     int
	Scale           Scale
	VDSThreshold    int
	VDSThresholdMap [ThresholdMapEntries]float64
	VDSSubAlgorithm vdsSubAlgorithm
}

// DecodeBlock is the inverse of EncodeBlock.
func DecodeBlock(payload []byte, opts DecodeOptions) ([]float64, error) {
	var (
		diffed []int32
		err    error
	)

	switch opts.Algorithm {
	case format.AlgorithmRED1:
		diffed, err = DecodeRED(payload, opts.NumSamples, opts.OverflowWidth, false)
	case format.AlgorithmRED2:
		diffed, err = DecodeRED(payload, opts.NumSamples, opts.OverflowWidth, true)
	case format.AlgorithmPRED1:
		diffed, err = DecodePRED(payload, opts.NumSamples, opts.OverflowWidth, false)
	case format.AlgorithmPRED2:
		diffed, err = DecodePRED(payload, opts.NumSamples, opts.OverflowWidth, true)
	case format.AlgorithmMBE:
		diffed, err = DecodeMBE(payload, opts.NumSamples, opts.MBEMin, opts.MBEBitWidth)
	case format.AlgorithmVDS:
		diffed, err = DecodeVDS(payload, opts.NumSamples, opts.VDSThresholdMap, opts.VDSThreshold, opts.OverflowWidth, opts.VDSSubAlgorithm)
	default:
		return nil, errs.ErrUnknownAlgorithm
	}
	if err != nil {
		return nil, err
	}

	restored := InvertDerivative(diffed, opts.Level)

	scale := opts.Scale
	if scale == (Scale{}) {
		scale = NoScale
	}

	return RestoreAmplitudeScale(restored, scale.AmplitudeFactor), nil
}
