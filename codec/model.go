package codec

// statsModel is the adaptive 256-bin order-0 statistics table the RED
// and PRED algorithms range-code against (spec §4.2: "build a 256-bin
// statistics table of byte values in the differenced stream, range-code
// against that table"). Encoder and decoder evolve an identical model in
// lockstep symbol by symbol, so no table is ever transmitted.
type statsModel struct {
	freq      [256]uint32
	cumDirty  bool
	total     uint32
	increment uint32
	maxTotal  uint32
}

// newStatsModel returns a uniformly-initialized model. increment controls
// how fast the distribution adapts; RED1 uses 1 (the classic, gradual
// adaptation) and RED2 uses a larger increment so it converges — and
// therefore compresses well — in fewer symbols (spec §4.2: "RED2 is a
// faster rework").
func newStatsModel(increment uint32) *statsModel {
	m := &statsModel{increment: increment, maxTotal: 1 << 15}
	for i := range m.freq {
		m.freq[i] = 1
	}
	m.total = 256

	return m
}

// cumFreq returns the cumulative frequency of all symbols below sym.
func (m *statsModel) cumFreq(sym byte) uint32 {
	var c uint32
	for i := 0; i < int(sym); i++ {
		c += m.freq[i]
	}

	return c
}

// find locates the symbol whose [cumFreq, cumFreq+freq) range contains
// scaled, returning the symbol and its cumulative/own frequency.
func (m *statsModel) find(scaled uint32) (sym byte, cum, freq uint32) {
	var c uint32
	for i := 0; i < 256; i++ {
		f := m.freq[i]
		if scaled < c+f {
			return byte(i), c, f //nolint:gosec
		}
		c += f
	}

	return 255, c - m.freq[255], m.freq[255]
}

// update increments sym's frequency and rescales if the total would
// exceed maxTotal (precision ceiling of the range coder).
func (m *statsModel) update(sym byte) {
	m.freq[sym] += m.increment
	m.total += m.increment

	if m.total >= m.maxTotal {
		m.total = 0
		for i := range m.freq {
			m.freq[i] = (m.freq[i] + 1) / 2
			m.total += m.freq[i]
		}
	}
}

// encode codes sym through enc and updates the model.
func (m *statsModel) encode(enc *rangeEncoder, sym byte) {
	cum := m.cumFreq(sym)
	enc.encodeSymbol(cum, m.freq[sym], m.total)
	m.update(sym)
}

// decode reads one symbol from dec and updates the model.
func (m *statsModel) decode(dec *rangeDecoder) byte {
	scaled := dec.getFreq(m.total)
	sym, cum, freq := m.find(scaled)
	dec.decodeSymbol(cum, freq)
	m.update(sym)

	return sym
}
