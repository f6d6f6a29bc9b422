package sndfile

import (
	stdbinary "encoding/binary"
	"fmt"
	"math"
	"os"

	"github.com/simonhull/aup/internal/binary"
	"github.com/simonhull/aup/internal/types"
)

// AU container magic. Audacity writes block files with the byte order of
// the saving host, so the magic appears either way round.
const (
	auMagicBig    = ".snd"
	auMagicLittle = "dns."
)

// AU encoding codes.
const (
	auEncodingInt16   = 3
	auEncodingInt32   = 5
	auEncodingFloat32 = 6
)

// auResource reads AU files, including the block files Audacity writes
// into the project data directory (which carry summary data between the
// header and the PCM payload; the header's data offset skips it).
type auResource struct {
	f          *os.File
	sr         *binary.SafeReader
	path       string
	info       Info
	encoding   uint32
	dataOffset int64
	pos        int64
}

func newAUResource(f *os.File, path string) (*auResource, error) {
	stat, err := f.Stat()
	if err != nil {
		return nil, &types.DecodeError{Path: path, What: "stat failed", Err: err}
	}

	sr := binary.NewSafeReader(f, stat.Size(), path)

	magic := make([]byte, 4)
	if err := sr.ReadAt(magic, 0, "AU magic"); err != nil {
		return nil, &types.DecodeError{Path: path, What: "read AU header", Err: err}
	}
	if string(magic) == auMagicLittle {
		sr.SetOrder(stdbinary.LittleEndian)
	}

	cr := binary.NewChainReader(binary.NewReader(sr, 4))
	dataOffset := binary.ReadChained[uint32](cr, "AU data offset")
	dataSize := binary.ReadChained[uint32](cr, "AU data size")
	encoding := binary.ReadChained[uint32](cr, "AU encoding")
	sampleRate := binary.ReadChained[uint32](cr, "AU sample rate")
	channels := binary.ReadChained[uint32](cr, "AU channel count")
	if err := cr.Error(); err != nil {
		return nil, &types.DecodeError{Path: path, What: "read AU header", Err: err}
	}

	var bytesPer int
	var integer bool
	var bits int
	switch encoding {
	case auEncodingInt16:
		bytesPer, integer, bits = 2, true, 16
	case auEncodingInt32:
		bytesPer, integer, bits = 4, true, 32
	case auEncodingFloat32:
		bytesPer, integer, bits = 4, false, 32
	default:
		return nil, &types.DecodeError{Path: path, What: fmt.Sprintf("unsupported AU encoding %d", encoding)}
	}

	if channels == 0 || dataOffset < 24 {
		return nil, &types.DecodeError{Path: path, What: "corrupt AU header"}
	}

	// A data size of 0xFFFFFFFF means "unknown"; derive from the file.
	payload := int64(dataSize)
	if dataSize == math.MaxUint32 || int64(dataOffset)+payload > stat.Size() {
		payload = stat.Size() - int64(dataOffset)
	}

	return &auResource{
		f:          f,
		sr:         sr,
		path:       path,
		encoding:   encoding,
		dataOffset: int64(dataOffset),
		info: Info{
			Channels:   int(channels),
			SampleRate: int(sampleRate),
			Frames:     payload / int64(bytesPer) / int64(channels),
			Integer:    integer,
			BitDepth:   bits,
		},
	}, nil
}

func (r *auResource) Info() Info   { return r.info }
func (r *auResource) Path() string { return r.path }
func (r *auResource) Close() error { return r.f.Close() }

func (r *auResource) Seek(frame int64) error {
	if frame < 0 || frame > r.info.Frames {
		return fmt.Errorf("seek to frame %d out of range (0..%d)", frame, r.info.Frames)
	}
	r.pos = frame
	return nil
}

// available clamps a request to the frames left in the file.
func (r *auResource) available(frames int) int {
	left := r.info.Frames - r.pos
	if int64(frames) > left {
		frames = int(left)
	}
	if frames < 0 {
		frames = 0
	}
	return frames
}

// readRaw reads n frames of raw payload starting at the current position.
func (r *auResource) readRaw(frames int) ([]byte, error) {
	bytesPer := r.info.BitDepth / 8
	stride := int64(bytesPer * r.info.Channels)
	buf := make([]byte, int64(frames)*stride)
	off := r.dataOffset + r.pos*stride
	if err := r.sr.ReadAt(buf, off, "AU samples"); err != nil {
		return nil, err
	}
	r.pos += int64(frames)
	return buf, nil
}

func (r *auResource) ReadInt(dst []int32, frames int) (int, error) {
	frames = r.available(frames)
	if frames == 0 {
		return 0, nil
	}
	buf, err := r.readRaw(frames)
	if err != nil {
		return 0, err
	}

	order := r.sr.Order()
	n := frames * r.info.Channels
	switch r.encoding {
	case auEncodingInt16:
		for i := 0; i < n; i++ {
			v := int16(order.Uint16(buf[i*2:]))
			dst[i] = int32(v) << 16
		}
	case auEncodingInt32:
		for i := 0; i < n; i++ {
			dst[i] = int32(order.Uint32(buf[i*4:]))
		}
	case auEncodingFloat32:
		for i := 0; i < n; i++ {
			f := math.Float32frombits(order.Uint32(buf[i*4:]))
			dst[i] = clampToInt32(f)
		}
	}
	return frames, nil
}

func (r *auResource) ReadShort(dst []int16, frames int) (int, error) {
	frames = r.available(frames)
	if frames == 0 {
		return 0, nil
	}

	if r.encoding == auEncodingInt16 {
		buf, err := r.readRaw(frames)
		if err != nil {
			return 0, err
		}
		order := r.sr.Order()
		for i := 0; i < frames*r.info.Channels; i++ {
			dst[i] = int16(order.Uint16(buf[i*2:]))
		}
		return frames, nil
	}

	wide := make([]int32, frames*r.info.Channels)
	n, err := r.ReadInt(wide, frames)
	if err != nil {
		return 0, err
	}
	for i := 0; i < n*r.info.Channels; i++ {
		dst[i] = int16(wide[i] >> 16)
	}
	return n, nil
}

func (r *auResource) ReadFloat(dst []float32, frames int) (int, error) {
	frames = r.available(frames)
	if frames == 0 {
		return 0, nil
	}
	buf, err := r.readRaw(frames)
	if err != nil {
		return 0, err
	}

	order := r.sr.Order()
	n := frames * r.info.Channels
	switch r.encoding {
	case auEncodingInt16:
		for i := 0; i < n; i++ {
			dst[i] = float32(int16(order.Uint16(buf[i*2:]))) / 32768.0
		}
	case auEncodingInt32:
		for i := 0; i < n; i++ {
			dst[i] = float32(int32(order.Uint32(buf[i*4:]))) / 2147483648.0
		}
	case auEncodingFloat32:
		for i := 0; i < n; i++ {
			dst[i] = math.Float32frombits(order.Uint32(buf[i*4:]))
		}
	}
	return frames, nil
}

func clampToInt32(f float32) int32 {
	v := float64(f) * 2147483647.0
	if v > 2147483647.0 {
		return math.MaxInt32
	}
	if v < -2147483648.0 {
		return math.MinInt32
	}
	return int32(v)
}
