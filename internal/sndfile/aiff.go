package sndfile

import (
	"fmt"
	"os"

	"github.com/go-audio/aiff"
	"github.com/go-audio/audio"

	"github.com/simonhull/aup/internal/types"
)

// aiffResource adapts a go-audio AIFF decoder to the Resource contract.
// Like the WAV resource it is forward-only.
type aiffResource struct {
	f    *os.File
	d    *aiff.Decoder
	path string
	info Info
	pos  int64
}

func newAIFFResource(f *os.File, path string) (*aiffResource, error) {
	d := aiff.NewDecoder(f)
	if !d.IsValidFile() {
		return nil, &types.DecodeError{Path: path, What: "not a valid AIFF file"}
	}
	if err := d.FwdToPCM(); err != nil {
		return nil, &types.DecodeError{Path: path, What: "locate PCM data", Err: err}
	}

	channels := int(d.NumChans)
	bits := int(d.BitDepth)
	if channels == 0 || bits == 0 {
		return nil, &types.DecodeError{Path: path, What: "corrupt AIFF header"}
	}

	return &aiffResource{
		f:    f,
		d:    d,
		path: path,
		info: Info{
			Channels:   channels,
			SampleRate: d.SampleRate,
			Frames:     int64(d.NumSampleFrames),
			Integer:    true,
			BitDepth:   bits,
		},
	}, nil
}

func (r *aiffResource) Info() Info   { return r.info }
func (r *aiffResource) Path() string { return r.path }
func (r *aiffResource) Close() error { return r.f.Close() }

func (r *aiffResource) Seek(frame int64) error {
	if frame < r.pos {
		return fmt.Errorf("backward seek to frame %d not supported", frame)
	}
	if frame > r.info.Frames {
		return fmt.Errorf("seek to frame %d out of range (0..%d)", frame, r.info.Frames)
	}

	const chunk = 8192
	skip := make([]int32, chunk*r.info.Channels)
	for r.pos < frame {
		want := int(frame - r.pos)
		if want > chunk {
			want = chunk
		}
		n, err := r.readMSB(skip, want)
		if err != nil {
			return err
		}
		if n == 0 {
			return fmt.Errorf("seek past end of data at frame %d", r.pos)
		}
	}
	return nil
}

// readMSB reads interleaved frames as MSB-aligned int32 samples. AIFF
// samples are signed at every bit depth.
func (r *aiffResource) readMSB(dst []int32, frames int) (int, error) {
	buf := &audio.IntBuffer{
		Format:         &audio.Format{NumChannels: r.info.Channels, SampleRate: r.info.SampleRate},
		Data:           make([]int, frames*r.info.Channels),
		SourceBitDepth: r.info.BitDepth,
	}
	n, err := r.d.PCMBuffer(buf)
	if err != nil {
		return 0, err
	}

	got := n / r.info.Channels
	for i := 0; i < got*r.info.Channels; i++ {
		v := buf.Data[i]
		switch r.info.BitDepth {
		case 8:
			dst[i] = int32(v) << 24
		case 16:
			dst[i] = int32(v) << 16
		case 24:
			dst[i] = int32(v) << 8
		default:
			dst[i] = int32(v)
		}
	}
	r.pos += int64(got)
	return got, nil
}

func (r *aiffResource) ReadInt(dst []int32, frames int) (int, error) {
	return r.readMSB(dst, frames)
}

func (r *aiffResource) ReadShort(dst []int16, frames int) (int, error) {
	wide := make([]int32, frames*r.info.Channels)
	n, err := r.readMSB(wide, frames)
	if err != nil {
		return 0, err
	}
	for i := 0; i < n*r.info.Channels; i++ {
		dst[i] = int16(wide[i] >> 16)
	}
	return n, nil
}

func (r *aiffResource) ReadFloat(dst []float32, frames int) (int, error) {
	wide := make([]int32, frames*r.info.Channels)
	n, err := r.readMSB(wide, frames)
	if err != nil {
		return 0, err
	}
	for i := 0; i < n*r.info.Channels; i++ {
		dst[i] = float32(wide[i]) / 2147483648.0
	}
	return n, nil
}
