// Package sndfile reads samples from the audio resources a legacy project
// references: block files in the project data directory (AU) and external
// alias files (WAV, AIFF).
//
// A Resource exposes the minimal read/seek/convert contract the importer
// needs. Integer reads are MSB-aligned the way libsndfile's were: a 16-bit
// source sample read as a 32-bit int occupies the two most significant
// bytes. The decoder's 24-bit path relies on this alignment when it shifts
// the padding byte away.
package sndfile

import (
	"fmt"
	"os"

	"github.com/simonhull/aup/internal/types"
)

// Info describes a resource's native storage.
type Info struct {
	Channels   int
	SampleRate int
	Frames     int64
	Integer    bool // integer PCM subtype
	BitDepth   int  // native bits per sample
}

// Resource is an open audio source. Reads are sequential and interleaved;
// Seek repositions to an absolute frame. Implementations return the number
// of whole frames read and no error on a short read; the decoder decides
// whether a short read is fatal for the item.
type Resource interface {
	Info() Info
	Path() string

	// Seek positions the next read at the given absolute frame.
	Seek(frame int64) error

	// ReadShort reads up to frames interleaved frames as int16 samples.
	// dst must hold at least frames*Channels values.
	ReadShort(dst []int16, frames int) (int, error)

	// ReadInt reads up to frames interleaved frames as MSB-aligned int32
	// samples.
	ReadInt(dst []int32, frames int) (int, error)

	// ReadFloat reads up to frames interleaved frames as normalized
	// float32 samples.
	ReadFloat(dst []float32, frames int) (int, error)

	Close() error
}

// Open sniffs the file's magic bytes and returns the matching resource
// reader.
func Open(path string) (Resource, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &types.DecodeError{Path: path, What: "open failed", Err: err}
	}

	magic := make([]byte, 12)
	if _, err := f.ReadAt(magic, 0); err != nil {
		f.Close()
		return nil, &types.DecodeError{Path: path, What: "read header failed", Err: err}
	}

	switch {
	case string(magic[:4]) == auMagicBig || string(magic[:4]) == auMagicLittle:
		r, err := newAUResource(f, path)
		if err != nil {
			f.Close()
			return nil, err
		}
		return r, nil

	case string(magic[:4]) == "RIFF" && string(magic[8:12]) == "WAVE":
		r, err := newWAVResource(f, path)
		if err != nil {
			f.Close()
			return nil, err
		}
		return r, nil

	case string(magic[:4]) == "FORM" && (string(magic[8:12]) == "AIFF" || string(magic[8:12]) == "AIFC"):
		r, err := newAIFFResource(f, path)
		if err != nil {
			f.Close()
			return nil, err
		}
		return r, nil
	}

	f.Close()
	return nil, &types.DecodeError{Path: path, What: fmt.Sprintf("unrecognized audio format %q", magic[:4])}
}
