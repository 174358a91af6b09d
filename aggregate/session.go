package aggregate

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/nsavage/medio/aesutil"
	"github.com/nsavage/medio/errs"
	"github.com/nsavage/medio/internal/hash"
	"github.com/nsavage/medio/section"
)

// Session is the top-level aggregate: a directory grouping channels plus
// session-level records plus ephemeral metadata, and a chosen reference
// channel (spec §3).
type Session struct {
	Name string
	Dir  string

	Channels []*Channel

	// ReferenceChannel is the session-wide sample-numbering clock (spec
	// glossary: "the channel chosen (typically highest sampling rate) as
	// the session's sample-number clock").
	ReferenceChannel *Channel

	EphemeralMetadata section.Metadata

	// Key is the expanded password key segments were opened with, kept
	// so callers (e.g. the data-matrix engine) can lazily open a
	// segment's data/index files without re-deriving it.
	Key *aesutil.ExpandedKey

	// byNameHash indexes Channels by hash.ID(name) for O(1) lookup.
	// Channel names remain the source of truth; the hash only buckets
	// candidates, so a collision within a bucket falls back to a name
	// comparison.
	byNameHash map[uint64][]*Channel
}

// OpenSession scans sessionDir for time-series (".ticd") and video
// (".vicd") channel directories, opens each, and selects the
// highest-sampling-rate time-series channel as the reference channel.
func OpenSession(sessionDir string, key *aesutil.ExpandedKey) (*Session, error) {
	entries, err := os.ReadDir(sessionDir)
	if err != nil {
		return nil, errs.At(errs.NoFile, err)
	}

	var channels []*Channel
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}

		var kind section.ChannelKind
		var ext string
		switch {
		case strings.HasSuffix(e.Name(), TimeSeriesChannelDirExt):
			kind, ext = section.ChannelTimeSeries, TimeSeriesChannelDirExt
		case strings.HasSuffix(e.Name(), VideoChannelDirExt):
			kind, ext = section.ChannelVideo, VideoChannelDirExt
		default:
			continue
		}

		name := strings.TrimSuffix(e.Name(), ext)
		ch, err := OpenChannel(filepath.Join(sessionDir, e.Name()), name, kind, key)
		if err != nil {
			return nil, err
		}
		channels = append(channels, ch)
	}

	ref, err := selectReferenceChannel(channels)
	if err != nil {
		return nil, err
	}

	name := strings.TrimSuffix(filepath.Base(sessionDir), SessionDirExt)

	s := &Session{Name: name, Dir: sessionDir, Channels: channels, ReferenceChannel: ref, Key: key}
	s.indexChannelNames()
	s.EphemeralMetadata = SynthesizeSessionMetadata(channels)

	return s, nil
}

// indexChannelNames (re)builds byNameHash from Channels.
func (s *Session) indexChannelNames() {
	s.byNameHash = make(map[uint64][]*Channel, len(s.Channels))
	for _, c := range s.Channels {
		h := hash.ID(c.Name)
		s.byNameHash[h] = append(s.byNameHash[h], c)
	}
}

// selectReferenceChannel picks the time-series channel with the highest
// sampling frequency, breaking ties by first occurrence.
func selectReferenceChannel(channels []*Channel) (*Channel, error) {
	var best *Channel
	for _, c := range channels {
		if c.Kind != section.ChannelTimeSeries {
			continue
		}
		if best == nil || c.SamplingFrequency() > best.SamplingFrequency() {
			best = c
		}
	}

	if best == nil {
		return nil, errs.At(errs.ReadError, errs.ErrNoReferenceChannel)
	}

	return best, nil
}

// ChannelByName returns the channel named name, or nil if not present.
// Lookup goes through the hash-bucketed index built at open time rather
// than scanning Channels (spec §6: channel/session names are hashed to
// fast lookup keys in the session aggregate's channel map).
func (s *Session) ChannelByName(name string) *Channel {
	for _, c := range s.byNameHash[hash.ID(name)] {
		if c.Name == name {
			return c
		}
	}

	return nil
}

// Close closes every channel's open segments.
func (s *Session) Close() error {
	var err error
	for _, c := range s.Channels {
		if e := c.Close(); e != nil && err == nil {
			err = e
		}
	}

	return err
}
