package types

// SampleBuffer holds a run of decoded mono samples in one of the legacy
// sample formats. Exactly one of the slices is populated, matching Format.
//
// Int24 samples occupy the low three bytes of each int32 word.
type SampleBuffer struct {
	Format SampleFormat
	I16    []int16
	I32    []int32
	F32    []float32
}

// NewSampleBuffer allocates a buffer for n samples of the given format.
func NewSampleBuffer(format SampleFormat, n int) *SampleBuffer {
	b := &SampleBuffer{Format: format}
	switch format {
	case Int16:
		b.I16 = make([]int16, n)
	case Int24:
		b.I32 = make([]int32, n)
	default:
		b.F32 = make([]float32, n)
	}
	return b
}

// Len returns the number of samples in the buffer.
func (b *SampleBuffer) Len() int {
	switch b.Format {
	case Int16:
		return len(b.I16)
	case Int24:
		return len(b.I32)
	default:
		return len(b.F32)
	}
}

// Float32 returns the samples normalized to [-1, 1] as float32. The Float
// format returns the underlying slice; integer formats allocate.
func (b *SampleBuffer) Float32() []float32 {
	switch b.Format {
	case Int16:
		out := make([]float32, len(b.I16))
		for i, v := range b.I16 {
			out[i] = float32(v) / 32768.0
		}
		return out
	case Int24:
		out := make([]float32, len(b.I32))
		for i, v := range b.I32 {
			out[i] = float32(v) / 8388608.0
		}
		return out
	default:
		return b.F32
	}
}
