package aggregate

import (
	"path/filepath"

	"github.com/nsavage/medio/aesutil"
	"github.com/nsavage/medio/fps"
	"github.com/nsavage/medio/section"
)

// Segment is one segment aggregate: a directory grouping one data file,
// one index file, a metadata file, and optional record files (spec §3).
// Data and index files are opened lazily, the first time a time slice
// actually touches this segment (spec §3 Lifecycles: "Segments are
// allocated lazily when first touched by a slice"); the metadata file is
// read eagerly at discovery time since ephemeral-metadata synthesis
// needs every segment's sample/time span up front.
type Segment struct {
	Number      int
	ChannelName string
	Dir         string

	Metadata section.Metadata

	dataPath        string
	indexPath       string
	recordDataPath  string
	recordIndexPath string

	data  *fps.FPS
	index *fps.FPS
}

// OpenSegment reads segmentDir's metadata file and records the other
// component file paths for lazy opening.
func OpenSegment(segmentDir, channelName string, number int, key *aesutil.ExpandedKey) (*Segment, error) {
	metaPath := filepath.Join(segmentDir, MetadataFileName(channelName, number))

	mf, err := fps.Open(metaPath, fps.Directives{}, key)
	if err != nil {
		return nil, err
	}
	defer mf.Close()

	payload, err := mf.Read(int64(section.UniversalHeaderBytes), section.MetadataPayloadBytes)
	if err != nil {
		return nil, err
	}

	var meta section.Metadata
	meta.Header = mf.Header.Header
	if err := meta.Parse(payload); err != nil {
		return nil, err
	}

	return &Segment{
		Number:          number,
		ChannelName:     channelName,
		Dir:             segmentDir,
		Metadata:        meta,
		dataPath:        filepath.Join(segmentDir, DataFileName(channelName, number)),
		indexPath:       filepath.Join(segmentDir, IndexFileName(channelName, number)),
		recordDataPath:  filepath.Join(segmentDir, RecordDataFileName(channelName, number)),
		recordIndexPath: filepath.Join(segmentDir, RecordIndexFileName(channelName, number)),
	}, nil
}

// EnsureOpen opens the segment's data and index files if not already
// open.
func (s *Segment) EnsureOpen(key *aesutil.ExpandedKey) error {
	if s.data == nil {
		data, err := fps.Open(s.dataPath, fps.Directives{}, key)
		if err != nil {
			return err
		}
		s.data = data
	}
	if s.index == nil {
		index, err := fps.Open(s.indexPath, fps.Directives{}, key)
		if err != nil {
			return err
		}
		s.index = index
	}

	return nil
}

// Data returns the segment's open data-file handle, or nil if not yet
// opened.
func (s *Segment) Data() *fps.FPS { return s.data }

// Index returns the segment's open index-file handle, or nil if not yet
// opened.
func (s *Segment) Index() *fps.FPS { return s.index }

// SampleSpan returns [startSample, endSample] inclusive for a
// time-series segment, derived from its metadata.
func (s *Segment) SampleSpan() (start, end int64) {
	ts := s.Metadata.Section2.TimeSeries
	start = ts.AbsoluteStartSampleNumber

	return start, start + ts.NumberOfSamples - 1
}

// TimeSpan returns [startTime, endTime] inclusive µUTC for this segment,
// taken from its universal header (spec §6: "file_start_time@48 i64",
// "file_end_time@8 i64").
func (s *Segment) TimeSpan() (start, end int64) {
	return s.Metadata.Header.FileStartTime, s.Metadata.Header.FileEndTime
}

// Close releases any open file handles. Safe to call on a segment whose
// data/index were never opened.
func (s *Segment) Close() error {
	var err error
	if s.data != nil {
		err = s.data.Close()
		s.data = nil
	}
	if s.index != nil {
		if e := s.index.Close(); e != nil && err == nil {
			err = e
		}
		s.index = nil
	}

	return err
}
