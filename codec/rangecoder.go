package codec

// rcTopValue is the renormalization threshold of the carryless range
// coder (Subbotin/LZMA style): range is kept above this by shifting out
// a byte at a time.
const rcTopValue = uint32(1) << 24

// rangeEncoder is a byte-oriented range encoder against an external
// cumulative-frequency model, grounded on the classic Subbotin carryless
// range coder used throughout LZMA-family compressors.
type rangeEncoder struct {
	low       uint64
	rng       uint32
	cache     byte
	cacheSize int64
	out       []byte
}

func newRangeEncoder() *rangeEncoder {
	return &rangeEncoder{rng: 0xFFFFFFFF, cache: 0xFF, cacheSize: 1}
}

func (e *rangeEncoder) shiftLow() {
	if uint32(e.low>>32) != 0 || e.low < 0xFF000000 {
		temp := e.cache
		for {
			e.out = append(e.out, temp+byte(e.low>>32)) //nolint:gosec
			temp = 0xFF
			e.cacheSize--
			if e.cacheSize == 0 {
				break
			}
		}
		e.cache = byte(e.low >> 24) //nolint:gosec
	}
	e.cacheSize++
	e.low = (e.low << 8) & 0xFFFFFFFF
}

// encodeSymbol codes one symbol given its cumulative frequency below it,
// its own frequency, and the model's total frequency.
func (e *rangeEncoder) encodeSymbol(cumFreq, freq, totFreq uint32) {
	r := e.rng / totFreq
	e.low += uint64(r) * uint64(cumFreq)
	e.rng = r * freq
	for e.rng < rcTopValue {
		e.rng <<= 8
		e.shiftLow()
	}
}

// finish flushes the remaining state and returns the encoded bytes. The
// first byte emitted is always the initial cache placeholder (0xFF with
// a zero carry) and is trimmed by the decoder's init, mirroring the
// well-known LZMA range-coder convention of a throwaway leading byte.
func (e *rangeEncoder) finish() []byte {
	for i := 0; i < 5; i++ {
		e.shiftLow()
	}

	return e.out[1:]
}

// rangeDecoder is the inverse of rangeEncoder.
type rangeDecoder struct {
	rng  uint32
	code uint32
	in   []byte
	pos  int
}

func newRangeDecoder(data []byte) *rangeDecoder {
	d := &rangeDecoder{rng: 0xFFFFFFFF, in: data}
	for i := 0; i < 4; i++ {
		d.code = (d.code << 8) | uint32(d.nextByte()) //nolint:gosec
	}

	return d
}

func (d *rangeDecoder) nextByte() byte {
	if d.pos >= len(d.in) {
		return 0
	}
	b := d.in[d.pos]
	d.pos++

	return b
}

// getFreq narrows the range by totFreq and returns the scaled code value
// the caller uses to look up which symbol occupies that slot.
func (d *rangeDecoder) getFreq(totFreq uint32) uint32 {
	d.rng /= totFreq
	v := d.code / d.rng
	if v >= totFreq {
		v = totFreq - 1
	}

	return v
}

// decodeSymbol commits to the symbol identified by cumFreq/freq (as
// returned by the model after a getFreq lookup) and renormalizes.
func (d *rangeDecoder) decodeSymbol(cumFreq, freq uint32) {
	d.code -= cumFreq * d.rng
	d.rng *= freq
	for d.rng < rcTopValue {
		d.code = (d.code << 8) | uint32(d.nextByte()) //nolint:gosec
		d.rng <<= 8
	}
}
