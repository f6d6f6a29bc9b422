package sndfile

import (
	"github.com/simonhull/aup/internal/types"
)

// ditherState is a small deterministic PRNG used to generate triangular
// dither noise when narrowing floats to integer sample formats. A fixed
// seed keeps conversions reproducible.
type ditherState struct {
	state uint32
	prev  float32
}

func newDitherState() *ditherState {
	return &ditherState{state: 0x12345678}
}

// next returns a uniform value in [0, 1).
func (d *ditherState) next() float32 {
	// xorshift32
	x := d.state
	x ^= x << 13
	x ^= x >> 17
	x ^= x << 5
	d.state = x
	return float32(x>>8) / (1 << 24)
}

// triangular returns high-passed triangular noise in (-1, 1), measured in
// quantization steps.
func (d *ditherState) triangular() float32 {
	r := d.next()
	v := r - d.prev
	d.prev = r
	return v
}

// CopySamples converts interleaved normalized float samples in src to the
// format of dst, visiting every stride-th sample. dst.Len() samples are
// written; src must hold at least (dst.Len()-1)*stride+1 values.
//
// Narrowing to an integer format applies triangular dither before
// rounding, and the result is clamped to the target range.
func CopySamples(dst *types.SampleBuffer, src []float32, stride int) {
	n := dst.Len()
	switch dst.Format {
	case types.Float:
		for i := 0; i < n; i++ {
			dst.F32[i] = src[i*stride]
		}
	case types.Int16:
		d := newDitherState()
		for i := 0; i < n; i++ {
			v := src[i*stride]*32767 + d.triangular()
			dst.I16[i] = int16(clampRound(v, -32768, 32767))
		}
	case types.Int24:
		d := newDitherState()
		for i := 0; i < n; i++ {
			v := src[i*stride]*8388607 + d.triangular()
			dst.I32[i] = clampRound(v, -8388608, 8388607)
		}
	}
}

// clampRound rounds v to the nearest integer and clamps to [lo, hi].
func clampRound(v float32, lo, hi int32) int32 {
	var r int32
	if v >= 0 {
		r = int32(v + 0.5)
	} else {
		r = int32(v - 0.5)
	}
	if r < lo {
		return lo
	}
	if r > hi {
		return hi
	}
	return r
}
