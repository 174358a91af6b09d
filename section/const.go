package section

// Fixed sizes and byte offsets, exact per spec §6 "External interfaces".
const (
	UniversalHeaderBytes = 1024
	PasswordDataBytes    = 384
	MetadataPayloadBytes = 15 * 1024
	MetadataFileBytes    = UniversalHeaderBytes + MetadataPayloadBytes // 16 KiB

	BlockFixedHeaderBytes = 56
	BlockStartUID         = uint64(0x0123456789ABCDEF)

	TimeSeriesIndexEntryBytes = 24
	VideoIndexEntryBytes      = 24
	RecordIndexEntryBytes     = 24
	RecordHeaderBytes         = 24

	// Universal header field offsets.
	UHHeaderCRCOffset           = 0
	UHBodyCRCOffset             = 4
	UHFileEndTimeOffset         = 8
	UHNumberOfEntriesOffset     = 16
	UHMaximumEntrySizeOffset    = 24
	UHSegmentNumberOffset       = 28
	UHTypeStringOffset          = 32
	UHTypeStringBytes           = 5
	UHMEDMajorOffset            = 37
	UHMEDMinorOffset            = 38
	UHByteOrderOffset           = 39
	UHSessionStartTimeOffset    = 40
	UHFileStartTimeOffset       = 48
	UHSessionNameOffset         = 56
	UHSessionNameBytes          = 256
	UHChannelNameOffset         = 312
	UHChannelNameBytes          = 256
	UHAnonSubjectIDOffset       = 568
	UHAnonSubjectIDBytes        = 256
	UHSessionUIDOffset          = 824
	UHChannelUIDOffset          = 832
	UHSegmentUIDOffset          = 840
	UHFileUIDOffset             = 848
	UHProvenanceUIDOffset       = 856
	UHPasswordValidationOffset1 = 864
	UHPasswordValidationOffset2 = 880
	UHPasswordValidationOffset3 = 896
	UHProtectedRegionOffset     = 912
	UHProtectedRegionBytes      = 56
	UHDiscretionaryOffset       = 968
	UHDiscretionaryBytes        = 56

	// Block fixed header field offsets.
	BHBlockStartUIDOffset     = 0
	BHBlockCRCOffset          = 8
	BHBlockFlagsOffset        = 12
	BHStartTimeOffset         = 16
	BHAcqChannelOffset        = 24
	BHTotalBlockBytesOffset   = 28
	BHNumberOfSamplesOffset   = 32
	BHNumberOfRecordsOffset   = 36
	BHRecordRegionBytesOffset = 38
	BHParamFlagsOffset        = 40
	BHParamRegionBytesOffset  = 44
	BHProtectedBytesOffset    = 46
	BHDiscretionaryBytesOffset = 48
	BHModelRegionBytesOffset  = 50
	BHTotalHeaderBytesOffset  = 52

	// CRC coverage start offsets (spec invariant 1 and 3).
	UHHeaderCRCStartOffset = UHBodyCRCOffset // bytes 4..1024
	UHBodyCRCStartOffset   = UniversalHeaderBytes
	BlockCRCStartOffset    = 12 // bytes 12..total_block_bytes

	// Record header field offsets.
	RHRecordCRCOffset       = 0
	RHTotalRecordBytesOffset = 4
	RHStartTimeOffset       = 8
	RHTypeCodeOffset        = 16
	RHVersionMajorOffset    = 20
	RHVersionMinorOffset    = 21
	RHEncryptionLevelOffset = 22
	RHCRCStartOffset        = RHTotalRecordBytesOffset

	// Alignment required of every block region size (spec invariant 3).
	BlockRegionAlignment = 4
)
