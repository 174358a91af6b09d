package aggregate

import (
	"fmt"

	"github.com/nsavage/medio/section"
)

// Filesystem extensions for each directory/file kind (spec §6:
// "<root>.medd/ (session) contains <name>.ticd/ (time-series channel)
// and <name>.vicd/ (video channel) subdirectories, optional <name>.recd/
// (records)... Inside a channel: <name>-NNNN.tisd/ per segment, each
// containing <name>-NNNN.tmet (metadata), <name>-NNNN.tdat (data),
// <name>-NNNN.tidx (index), and optional <name>-NNNN.rdat/.ridx").
const (
	SessionDirExt            = ".medd"
	TimeSeriesChannelDirExt   = ".ticd"
	VideoChannelDirExt        = ".vicd"
	RecordsDirExt             = ".recd"
	SegmentDirExt             = ".tisd"
	MetadataFileExt           = ".tmet"
	DataFileExt               = ".tdat"
	IndexFileExt              = ".tidx"
	RecordDataFileExt         = ".rdat"
	RecordIndexFileExt        = ".ridx"
)

// SessionDirName returns the session directory name for a session named
// name (e.g. "patient001" -> "patient001.medd").
func SessionDirName(name string) string {
	return name + SessionDirExt
}

// ChannelDirName returns the channel directory name for a channel named
// name, given its kind.
func ChannelDirName(name string, kind section.ChannelKind) string {
	if kind == section.ChannelVideo {
		return name + VideoChannelDirExt
	}

	return name + TimeSeriesChannelDirExt
}

// RecordsDirName returns a records directory name at channel or session
// level.
func RecordsDirName(name string) string {
	return name + RecordsDirExt
}

// SegmentSuffix zero-pads a segment number to 4 digits (spec §6:
// "Segment numbers are zero-padded to 4 digits").
func SegmentSuffix(segmentNumber int) string {
	return fmt.Sprintf("-%04d", segmentNumber)
}

// SegmentDirName returns the segment directory name for channelName's
// segmentNumber'th segment.
func SegmentDirName(channelName string, segmentNumber int) string {
	return channelName + SegmentSuffix(segmentNumber) + SegmentDirExt
}

// SegmentFileBase returns the shared basename (without extension) of
// every file inside one segment directory.
func SegmentFileBase(channelName string, segmentNumber int) string {
	return channelName + SegmentSuffix(segmentNumber)
}

// MetadataFileName, DataFileName, IndexFileName, RecordDataFileName, and
// RecordIndexFileName return the file name (not path) for each of a
// segment's component files.
func MetadataFileName(channelName string, segmentNumber int) string {
	return SegmentFileBase(channelName, segmentNumber) + MetadataFileExt
}

func DataFileName(channelName string, segmentNumber int) string {
	return SegmentFileBase(channelName, segmentNumber) + DataFileExt
}

func IndexFileName(channelName string, segmentNumber int) string {
	return SegmentFileBase(channelName, segmentNumber) + IndexFileExt
}

func RecordDataFileName(channelName string, segmentNumber int) string {
	return SegmentFileBase(channelName, segmentNumber) + RecordDataFileExt
}

func RecordIndexFileName(channelName string, segmentNumber int) string {
	return SegmentFileBase(channelName, segmentNumber) + RecordIndexFileExt
}
