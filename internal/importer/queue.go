package importer

import (
	"github.com/simonhull/aup/internal/sndfile"
	"github.com/simonhull/aup/internal/types"
)

// fileItem is one deferred materialization: append len samples to the
// clip (or the track's implied clip), read from path at origin, or
// silence when path is empty. format is the sample format the owning
// sequence declared when the item was appended.
type fileItem struct {
	track   *types.WaveTrack
	clip    *types.WaveClip
	path    string
	len     int64
	origin  int64
	channel int
	format  types.SampleFormat
}

// queue is the append-only list of deferred file items, drained strictly
// in document order. total is the progress denominator: the sum of every
// appended item's length.
type queue struct {
	items []fileItem
	total int64
}

// addFile appends one deferred item for the current track/clip context.
func (s *session) addFile(length int64, path string, origin int64, channel int) {
	s.queue.items = append(s.queue.items, fileItem{
		track:   s.waveTrack,
		clip:    s.clip,
		path:    path,
		len:     length,
		origin:  origin,
		channel: channel,
		format:  s.format,
	})

	s.queue.total += length
}

// drain materializes every queued item in order. The progress callback
// runs before each item and may stop the drain; cancellation from the
// context is observed between items, never mid-decode. Mutations already
// applied stay in place when the drain stops early.
func (s *session) drain(onProgress types.ProgressFunc) types.Status {
	var processed int64

	for _, fi := range s.queue.items {
		if s.ctx.Err() != nil {
			return types.StatusCancelled
		}
		if onProgress != nil {
			if st := onProgress(processed, s.queue.total); st != types.StatusSuccess {
				return st
			}
		}

		s.waveTrack = fi.track
		s.clip = fi.clip

		if fi.path == "" {
			s.addSilence(fi.len)
		} else {
			s.addSamples(fi)
		}

		processed += fi.len
	}

	return types.StatusSuccess
}

// target returns the clip samples are appended to: the item's own clip,
// or the track's rightmost clip for early project versions with a single
// implied clip.
func (s *session) target() *types.WaveClip {
	if s.clip != nil {
		return s.clip
	}
	if s.waveTrack != nil {
		return s.waveTrack.RightmostOrNewClip()
	}
	return nil
}

func (s *session) addSilence(length int64) {
	if c := s.target(); c != nil {
		c.AppendSilence(length)
	}
}

// addSamples decodes one referenced audio segment and appends it. Every
// failure here is soft: the declared length is appended as silence so
// total duration and downstream offsets are preserved, and the resource
// is released exactly once on every path.
func (s *session) addSamples(fi fileItem) {
	res, err := sndfile.Open(fi.path)
	if err != nil {
		s.warnf("decode", "failed to open %s, inserting silence", fi.path)
		s.addSilence(fi.len)
		return
	}
	defer res.Close()

	buf, err := sndfile.Decode(res, fi.format, fi.channel, int(fi.len), fi.origin)
	if err != nil {
		s.warnf("decode", "error while processing %s, inserting silence", fi.path)
		s.addSilence(fi.len)
		return
	}

	if c := s.target(); c != nil {
		c.Append(buf)
	}
}
