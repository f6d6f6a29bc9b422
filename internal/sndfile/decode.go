package sndfile

import (
	"fmt"

	"github.com/simonhull/aup/internal/types"
)

// Decode reads frames samples of the given channel from res, starting at
// frame origin, converted to the requested sample format.
//
// The conversion path is chosen in priority order, each step more general
// and more costly than the last:
//
//  1. mono integer source, int16 target: direct copy
//  2. mono integer source, int24 target: read wide, shift away the
//     low-order padding byte
//  3. int16 target from a source with <=16 native bits: bulk 16-bit read,
//     then de-interleave the requested channel
//  4. anything else: bulk normalized float read, then dithered
//     format-converting stride copy
//
// A short read at any stage is an error; the caller substitutes silence
// for the full declared length rather than keeping a partial segment.
// Decode never closes res.
func Decode(res Resource, format types.SampleFormat, channel int, frames int, origin int64) (*types.SampleBuffer, error) {
	info := res.Info()
	path := res.Path()

	if channel < 0 || channel >= info.Channels {
		return nil, &types.DecodeError{
			Path: path,
			What: fmt.Sprintf("channel %d out of range (source has %d)", channel, info.Channels),
		}
	}

	if origin > 0 {
		if err := res.Seek(origin); err != nil {
			return nil, &types.DecodeError{Path: path, What: fmt.Sprintf("seek to frame %d failed", origin), Err: err}
		}
	}

	shortRead := func(got int) *types.DecodeError {
		return &types.DecodeError{
			Path: path,
			What: fmt.Sprintf("unable to read %d samples (got %d)", frames, got),
		}
	}

	switch {
	case info.Channels == 1 && format == types.Int16 && info.Integer:
		// Source and target are both integer; read directly, no
		// conversion needed.
		buf := types.NewSampleBuffer(types.Int16, frames)
		n, err := res.ReadShort(buf.I16, frames)
		if err != nil {
			return nil, &types.DecodeError{Path: path, What: "read failed", Err: err}
		}
		if n != frames {
			return nil, shortRead(n)
		}
		return buf, nil

	case info.Channels == 1 && format == types.Int24 && info.Integer:
		buf := types.NewSampleBuffer(types.Int24, frames)
		n, err := res.ReadInt(buf.I32, frames)
		if err != nil {
			return nil, &types.DecodeError{Path: path, What: "read failed", Err: err}
		}
		if n != frames {
			return nil, shortRead(n)
		}
		// The wide read aligns the 3 significant bytes high; we want
		// them in the 3 least significant bytes.
		for i := range buf.I32 {
			buf.I32[i] >>= 8
		}
		return buf, nil

	case format == types.Int16 && info.BitDepth <= 16:
		// Common case: a 16-bit (or smaller) source feeding a 16-bit
		// target. Read native 16-bit data and pick out the channel.
		tmp := make([]int16, frames*info.Channels)
		n, err := res.ReadShort(tmp, frames)
		if err != nil {
			return nil, &types.DecodeError{Path: path, What: "read failed", Err: err}
		}
		if n != frames {
			return nil, shortRead(n)
		}
		buf := types.NewSampleBuffer(types.Int16, frames)
		for i := 0; i < frames; i++ {
			buf.I16[i] = tmp[i*info.Channels+channel]
		}
		return buf, nil

	default:
		// Let the resource normalize to floats and convert to whatever
		// format the sequence wants.
		tmp := make([]float32, frames*info.Channels)
		n, err := res.ReadFloat(tmp, frames)
		if err != nil {
			return nil, &types.DecodeError{Path: path, What: "read failed", Err: err}
		}
		if n != frames {
			return nil, shortRead(n)
		}
		buf := types.NewSampleBuffer(format, frames)
		CopySamples(buf, tmp[channel:], info.Channels)
		return buf, nil
	}
}
