package codec

import "github.com/nsavage/medio/errs"

// predContext selects which of the three statistics tables a sample is
// coded against, keyed by the sign of the preceding sample's derivative
// (spec §4.2: "three parallel statistics tables keyed by the sign of the
// preceding sample's derivative (nil / positive / negative)").
type predContext int

const (
	predContextNil predContext = iota
	predContextPositive
	predContextNegative
)

func contextFor(prevDelta int32) predContext {
	switch {
	case prevDelta > 0:
		return predContextPositive
	case prevDelta < 0:
		return predContextNegative
	default:
		return predContextNil
	}
}

// EncodePRED range-codes diffed using three context-selected adaptive
// models instead of RED's single model, exploiting local correlation
// between consecutive derivative signs.
func EncodePRED(diffed []int32, overflowWidth int, fastAdapt bool) []byte {
	increment := redIncrementRED1
	if fastAdapt {
		increment = redIncrementRED2
	}

	models := [3]*statsModel{
		newStatsModel(increment),
		newStatsModel(increment),
		newStatsModel(increment),
	}
	enc := newRangeEncoder()
	var overflow []byte
	var prevDelta int32

	for _, v := range diffed {
		model := models[contextFor(prevDelta)]
		if v >= -127 && v <= 127 {
			model.encode(enc, byte(int8(v))) //nolint:gosec
		} else {
			model.encode(enc, redEscape)
			overflow = putOverflow(overflow, v, overflowWidth)
		}
		prevDelta = v
	}

	coded := enc.finish()
	out := make([]byte, 0, 4+len(coded)+len(overflow))
	out = append(out, byte(len(coded)), byte(len(coded)>>8), byte(len(coded)>>16), byte(len(coded)>>24))
	out = append(out, coded...)
	out = append(out, overflow...)

	return out
}

// DecodePRED is the inverse of EncodePRED.
func DecodePRED(payload []byte, numSamples int, overflowWidth int, fastAdapt bool) ([]int32, error) {
	if len(payload) < 4 {
		return nil, errs.ErrInvalidBlockHeaderSize
	}
	codedLen := int(payload[0]) | int(payload[1])<<8 | int(payload[2])<<16 | int(payload[3])<<24
	if 4+codedLen > len(payload) {
		return nil, errs.ErrInvalidBlockHeaderSize
	}
	coded := payload[4 : 4+codedLen]
	overflow := payload[4+codedLen:]

	increment := redIncrementRED1
	if fastAdapt {
		increment = redIncrementRED2
	}

	models := [3]*statsModel{
		newStatsModel(increment),
		newStatsModel(increment),
		newStatsModel(increment),
	}
	dec := newRangeDecoder(coded)

	out := make([]int32, numSamples)
	overflowOff := 0
	var prevDelta int32

	for i := 0; i < numSamples; i++ {
		model := models[contextFor(prevDelta)]
		sym := model.decode(dec)

		var v int32
		if sym != redEscape {
			v = int32(int8(sym)) //nolint:gosec
		} else {
			if overflowOff+overflowWidth > len(overflow) {
				return nil, errs.ErrInvalidBlockHeaderSize
			}
			v = getOverflow(overflow[overflowOff:], overflowWidth)
			overflowOff += overflowWidth
		}

		out[i] = v
		prevDelta = v
	}

	return out, nil
}
