// Package format defines the small enums shared across the MED on-disk
// structures: the block amplitude-encoding algorithm and the optional
// secondary payload compression layer (SPEC_FULL.md DOMAIN STACK).
package format

type (
	// Algorithm identifies which amplitude encoding a block uses. The six
	// values are mutually exclusive bits in the block header's flags word
	// (spec §4.2); Algorithm is the decoded, already-disambiguated form.
	Algorithm uint8

	// CompressionType identifies the optional secondary compression
	// applied to an already amplitude-encoded block payload, selected by
	// a reserved block-flag bit.
	CompressionType uint8
)

const (
	AlgorithmRED1 Algorithm = iota + 1
	AlgorithmRED2
	AlgorithmPRED1
	AlgorithmPRED2
	AlgorithmMBE
	AlgorithmVDS
)

const (
	CompressionNone CompressionType = 0x1 // CompressionNone represents no secondary compression.
	CompressionZstd CompressionType = 0x2 // CompressionZstd represents Zstandard compression.
	CompressionS2   CompressionType = 0x3 // CompressionS2 represents S2 compression.
	CompressionLZ4  CompressionType = 0x4 // CompressionLZ4 represents LZ4 compression.
)

func (a Algorithm) String() string {
	switch a {
	case AlgorithmRED1:
		return "RED1"
	case AlgorithmRED2:
		return "RED2"
	case AlgorithmPRED1:
		return "PRED1"
	case AlgorithmPRED2:
		return "PRED2"
	case AlgorithmMBE:
		return "MBE"
	case AlgorithmVDS:
		return "VDS"
	default:
		return "Unknown"
	}
}

func (c CompressionType) String() string {
	switch c {
	case CompressionNone:
		return "None"
	case CompressionZstd:
		return "Zstd"
	case CompressionS2:
		return "S2"
	case CompressionLZ4:
		return "LZ4"
	default:
		return "Unknown"
	}
}
