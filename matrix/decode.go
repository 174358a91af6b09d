// Package matrix implements the data-matrix engine: the entry point
// that turns a resolved time slice across one or more channels into a
// typed, optionally filtered and resampled sample matrix (spec §4.5,
// §4.6).
package matrix

import (
	"sort"

	"github.com/nsavage/medio/aesutil"
	"github.com/nsavage/medio/aggregate"
	"github.com/nsavage/medio/codec"
	"github.com/nsavage/medio/compress"
	"github.com/nsavage/medio/endian"
	"github.com/nsavage/medio/errs"
	"github.com/nsavage/medio/format"
	"github.com/nsavage/medio/section"
	"github.com/nsavage/medio/timeslice"
)

// vdsResidualScale is the fixed residual scale the threshold map is
// built from when decoding a VDS block. VDS is a lossy fallback
// algorithm a block only picks under explicit caller direction at
// encode time; the matrix engine does not yet plumb a per-channel
// residual scale through metadata, so it uses the same baseline
// EncodeBlock's caller would reach for absent other guidance.
const vdsResidualScale = 1.0

// DecodedBlock is one decoded block's samples plus the position they
// start at — the unit channel decode assembles into a contiguous
// per-channel stream.
type DecodedBlock struct {
	StartTime     int64
	StartSample   int64
	Samples       []float64
	Discontinuity bool
}

// DecodeSegment decodes every block in seg whose sample range can
// intersect [startSample, endSample] (either bound may be
// timeslice.SampleNumberNoEntry, meaning unbounded on that side), in
// file order (spec §4.5: "opens the channel's segments covering the
// slice, drives the codec to decode each block in turn").
func DecodeSegment(seg *aggregate.Segment, key *aesutil.ExpandedKey, startSample, endSample int64) ([]DecodedBlock, error) {
	if err := seg.EnsureOpen(key); err != nil {
		return nil, err
	}

	entries, err := timeslice.ReadIndexEntries(seg)
	if err != nil {
		return nil, err
	}

	data := seg.Data()
	engine := data.Header.Header.Engine()

	var out []DecodedBlock
	for i := findStartIndex(entries, startSample); i < len(entries); i++ {
		e := entries[i]
		if endSample != timeslice.SampleNumberNoEntry && e.StartSampleNumber > endSample {
			break
		}

		decoded, err := decodeBlockAt(data, engine, e.Offset(), key, data.Header.Level, seg.Metadata.Section1.TimeSeriesDataEncryptionLevel)
		if err != nil {
			return nil, err
		}

		out = append(out, DecodedBlock{
			StartTime:     e.StartTime,
			StartSample:   e.StartSampleNumber,
			Samples:       decoded,
			Discontinuity: e.Discontinuity(),
		})
	}

	return out, nil
}

// findStartIndex returns the index of the last index entry whose start
// sample is <= startSample — the block that may already contain it —
// or 0 if startSample is unbounded or precedes every entry.
func findStartIndex(entries []section.TimeSeriesIndexEntry, startSample int64) int {
	if startSample == timeslice.SampleNumberNoEntry {
		return 0
	}

	i := sort.Search(len(entries), func(i int) bool { return entries[i].StartSampleNumber > startSample })
	if i > 0 {
		i--
	}

	return i
}

// decodeBlockAt reads and decodes the single block starting at offset.
//
// Block flags sit at a fixed, never-encrypted offset so they can always
// be read first to decide whether the rest of the header needs
// decrypting (spec §4.2: "every byte from the number_of_samples field to
// the end of the block header... is encrypted" — the flags word at
// offset 12 precedes that range and is always plaintext). fps.Read never
// decrypts on its own (it is a raw byte reader), so that decryption, and
// any payload decryption the metadata's time_series_data_encryption_level
// calls for, happens here.
func decodeBlockAt(data blockReader, engine endian.EndianEngine, offset uint64, key *aesutil.ExpandedKey, accessLevel section.AccessLevel, payloadEncLevel section.AccessLevel) ([]float64, error) {
	headerBytes, err := data.Read(int64(offset), section.BlockFixedHeaderBytes) //nolint:gosec
	if err != nil {
		return nil, err
	}
	if len(headerBytes) != section.BlockFixedHeaderBytes {
		return nil, errs.At(errs.ReadError, errs.ErrInvalidBlockHeaderSize)
	}

	flags := engine.Uint32(headerBytes[section.BHBlockFlagsOffset : section.BHBlockFlagsOffset+4])
	headerLevel := section.EncryptionLevel(flags)
	if headerLevel != section.AccessNone {
		if key == nil || accessLevel < headerLevel {
			return nil, errs.AtOffset(errs.BadPassword, errs.ErrAccessDenied, "", int64(offset)) //nolint:gosec
		}
		key.DecryptECB(headerBytes[section.BHNumberOfSamplesOffset:])
	}

	header, err := section.ParseBlockHeader(headerBytes, engine)
	if err != nil {
		return nil, err
	}

	regionOff := offset + section.BlockFixedHeaderBytes
	regionOff += uint64(header.RecordRegionBytes) // records are not the codec's concern; see record package.

	var param section.ParameterRegion
	if header.ParameterRegionBytes > 0 {
		raw, err := data.Read(int64(regionOff), int(header.ParameterRegionBytes)) //nolint:gosec
		if err != nil {
			return nil, err
		}
		param, err = section.ParseParameterRegion(raw, header.ParameterFlags, engine)
		if err != nil {
			return nil, err
		}
	}
	regionOff += uint64(header.ParameterRegionBytes)
	regionOff += uint64(header.ProtectedRegionBytes)
	regionOff += uint64(header.DiscretionaryRegionBytes)

	var model section.ModelRegion
	if header.ModelRegionBytes > 0 {
		raw, err := data.Read(int64(regionOff), int(header.ModelRegionBytes)) //nolint:gosec
		if err != nil {
			return nil, err
		}
		model = section.ParseModelRegion(raw, engine)
	}
	regionOff += uint64(header.ModelRegionBytes)

	payloadLen := int(header.TotalBlockBytes) - int(header.TotalHeaderBytes)
	if payloadLen < 0 {
		return nil, errs.At(errs.ReadError, errs.ErrInvalidBlockHeaderSize)
	}
	payload, err := data.Read(int64(regionOff), payloadLen) //nolint:gosec
	if err != nil {
		return nil, err
	}

	// Payload encryption is governed purely by the channel metadata's
	// time_series_data_encryption_level, independent of the per-block
	// header-encryption flags checked above (spec §4.2).
	if payloadEncLevel != section.AccessNone {
		if key == nil || accessLevel < payloadEncLevel {
			return nil, errs.AtOffset(errs.BadPassword, errs.ErrAccessDenied, "", int64(offset)) //nolint:gosec
		}
		key.DecryptECB(payload)
	}

	if ct := section.SecondaryCompressionFromFlags(flags); ct != format.CompressionNone {
		dec, err := compress.GetCodec(ct)
		if err != nil {
			return nil, err
		}
		if payload, err = dec.Decompress(payload); err != nil {
			return nil, err
		}
	}

	algo, err := section.AlgorithmFromFlags(flags)
	if err != nil {
		return nil, err
	}

	scale := codec.NoScale
	if param.HasAmplitudeScale {
		scale.AmplitudeFactor = float64(param.AmplitudeScale)
	}
	if param.HasFrequencyScale && param.FrequencyScale > 1 {
		scale.FrequencyFactor = int(param.FrequencyScale)
	}

	opts := codec.DecodeOptions{
		Algorithm:     algo,
		Level:         codec.DerivativeLevel(model.DerivativeLevel),
		NumSamples:    int(header.NumberOfSamples),
		OverflowWidth: section.OverflowWidth(flags),
		MBEMin:        model.MBEMin,
		MBEBitWidth:   int(model.MBEBitWidth),
		Scale:         scale,
	}
	if algo == format.AlgorithmVDS {
		opts.VDSThreshold = int(model.VDSThreshold)
		opts.VDSThresholdMap = codec.BuildThresholdMap(vdsResidualScale)
	}

	return codec.DecodeBlock(payload, opts)
}

// blockReader is the subset of *fps.FPS the decode loop needs, kept
// narrow so tests can substitute an in-memory fake.
type blockReader interface {
	Read(offset int64, nbytes int) ([]byte, error)
}
