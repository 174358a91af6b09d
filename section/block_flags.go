package section

import (
	"github.com/nsavage/medio/errs"
	"github.com/nsavage/medio/format"
)

// Block flag bit masks (spec §4.2, §6). Algorithm bits are mutually
// exclusive; encryption and overflow bits compose with any algorithm.
const (
	BlockFlagRED1        uint32 = 1 << 0
	BlockFlagPRED1       uint32 = 1 << 1
	BlockFlagMBE         uint32 = 1 << 2
	BlockFlagVDS         uint32 = 1 << 3
	BlockFlagLevel1Enc   uint32 = 1 << 4
	BlockFlagLevel2Enc   uint32 = 1 << 5
	BlockFlagDiscontinuity uint32 = 1 << 6
	BlockFlag2ByteOverflow uint32 = 1 << 7
	BlockFlag3ByteOverflow uint32 = 1 << 8
	BlockFlagRED2        uint32 = 1 << 9
	BlockFlagPRED2       uint32 = 1 << 10
	BlockFlagSecondaryCompression uint32 = 1 << 11 // SPEC_FULL.md domain-stack extension

	// blockFlagCompressionTypeShift/Mask hold a 2-bit selector (bits
	// 12-13) naming which secondary codec compressed the payload when
	// BlockFlagSecondaryCompression is set (SPEC_FULL.md domain-stack
	// extension: there is no other field in the block header for this).
	blockFlagCompressionTypeShift = 12
	blockFlagCompressionTypeMask  = uint32(0x3) << blockFlagCompressionTypeShift

	blockFlagAlgorithmMask = BlockFlagRED1 | BlockFlagPRED1 | BlockFlagMBE | BlockFlagVDS | BlockFlagRED2 | BlockFlagPRED2
	blockFlagEncryptionMask = BlockFlagLevel1Enc | BlockFlagLevel2Enc
)

// AlgorithmFromFlags extracts the one set algorithm bit. Returns an error
// if zero or more than one algorithm bit is set.
func AlgorithmFromFlags(flags uint32) (format.Algorithm, error) {
	bits := flags & blockFlagAlgorithmMask
	switch bits {
	case BlockFlagRED1:
		return format.AlgorithmRED1, nil
	case BlockFlagRED2:
		return format.AlgorithmRED2, nil
	case BlockFlagPRED1:
		return format.AlgorithmPRED1, nil
	case BlockFlagPRED2:
		return format.AlgorithmPRED2, nil
	case BlockFlagMBE:
		return format.AlgorithmMBE, nil
	case BlockFlagVDS:
		return format.AlgorithmVDS, nil
	default:
		return 0, errs.ErrUnknownAlgorithm
	}
}

// FlagsForAlgorithm returns the single bit for alg, to be OR'd with the
// other block flags.
func FlagsForAlgorithm(alg format.Algorithm) uint32 {
	switch alg {
	case format.AlgorithmRED1:
		return BlockFlagRED1
	case format.AlgorithmRED2:
		return BlockFlagRED2
	case format.AlgorithmPRED1:
		return BlockFlagPRED1
	case format.AlgorithmPRED2:
		return BlockFlagPRED2
	case format.AlgorithmMBE:
		return BlockFlagMBE
	case format.AlgorithmVDS:
		return BlockFlagVDS
	default:
		return 0
	}
}

// EncryptionLevel returns the access level (0, 1, or 2) a block's flags
// require for decode. Level 1 and level 2 are mutually exclusive per
// spec §4.2 ("If LEVEL_1_ENCRYPTION or LEVEL_2_ENCRYPTION is set").
func EncryptionLevel(flags uint32) AccessLevel {
	switch flags & blockFlagEncryptionMask {
	case BlockFlagLevel2Enc:
		return AccessLevel2
	case BlockFlagLevel1Enc:
		return AccessLevel1
	default:
		return AccessNone
	}
}

// HasDiscontinuity reports whether the block starts a discontinuity
// (spec §4.2: "The first block after any gap sets the DISCONTINUITY
// bit").
func HasDiscontinuity(flags uint32) bool {
	return flags&BlockFlagDiscontinuity != 0
}

// OverflowWidth returns the escape-sequence byte width (2 or 3) declared
// by the overflow flags, or 0 if neither is set (1-byte payload symbols).
func OverflowWidth(flags uint32) int {
	switch {
	case flags&BlockFlag3ByteOverflow != 0:
		return 3
	case flags&BlockFlag2ByteOverflow != 0:
		return 2
	default:
		return 0
	}
}

// SecondaryCompressionFromFlags returns the codec the payload was
// compressed with, or format.CompressionNone if
// BlockFlagSecondaryCompression is not set.
func SecondaryCompressionFromFlags(flags uint32) format.CompressionType {
	if flags&BlockFlagSecondaryCompression == 0 {
		return format.CompressionNone
	}

	switch (flags & blockFlagCompressionTypeMask) >> blockFlagCompressionTypeShift {
	case 0:
		return format.CompressionZstd
	case 1:
		return format.CompressionS2
	case 2:
		return format.CompressionLZ4
	default:
		return format.CompressionNone
	}
}

// FlagsForSecondaryCompression returns the flag bits (the
// BlockFlagSecondaryCompression bit plus the 2-bit codec selector) for
// compressionType, or 0 for format.CompressionNone.
func FlagsForSecondaryCompression(compressionType format.CompressionType) uint32 {
	var sel uint32
	switch compressionType {
	case format.CompressionZstd:
		sel = 0
	case format.CompressionS2:
		sel = 1
	case format.CompressionLZ4:
		sel = 2
	default:
		return 0
	}

	return BlockFlagSecondaryCompression | (sel << blockFlagCompressionTypeShift)
}
