package types

// TrackData holds the attributes shared by every track variant.
type TrackData struct {
	Name      string
	Height    int
	Minimized bool
	Selected  bool
}

// TrackName returns the track's display name.
func (d *TrackData) TrackName() string { return d.Name }

// Track is the closed set of track variants a project can contain.
//
// Only the four concrete types in this package implement it; the importer
// dispatches on them with type switches rather than re-dispatching through
// a generic handler reference.
type Track interface {
	TrackName() string
	isTrack()
}

// Entity is the closed set of model nodes a dispatcher frame can own:
// the four track variants, clips, and envelopes. Tags that are consumed
// inline own nothing.
type Entity interface {
	isEntity()
}

func (*WaveTrack) isEntity() {}

func (*LabelTrack) isEntity() {}

func (*NoteTrack) isEntity() {}

func (*TimeTrack) isEntity() {}

func (*WaveClip) isEntity() {}

func (*Envelope) isEntity() {}

// WaveTrack is an audio track holding an ordered list of clips.
type WaveTrack struct {
	TrackData
	Rate    float64
	Gain    float64
	Pan     float64
	Channel int
	Linked  bool
	Mute    bool
	Solo    bool
	Clips   []*WaveClip
}

func (*WaveTrack) isTrack() {}

// NewClip appends a fresh clip to the track and returns it.
func (t *WaveTrack) NewClip() *WaveClip {
	c := &WaveClip{}
	t.Clips = append(t.Clips, c)
	return c
}

// RightmostOrNewClip returns the last clip, creating one if the track has
// none. Early project files had a single implied clip per track; audio
// content directly under a wavetrack tag lands here.
func (t *WaveTrack) RightmostOrNewClip() *WaveClip {
	if len(t.Clips) == 0 {
		return t.NewClip()
	}
	return t.Clips[len(t.Clips)-1]
}

// Len returns the total number of samples across all clips.
func (t *WaveTrack) Len() int64 {
	var n int64
	for _, c := range t.Clips {
		n += c.Len()
	}
	return n
}

// WaveClip is a time-positioned, append-only run of audio samples.
// Nested clips represent cut-lines: audio temporarily removed from the
// parent clip and preserved for restoration.
type WaveClip struct {
	Offset     float64
	ColorIndex int

	// Sequence storage parameters, bound when the clip's sequence tag
	// is parsed.
	Format     SampleFormat
	MaxSamples int64
	NumSamples int64

	CutLines []*WaveClip

	envelope *Envelope
	samples  []float32
}

// Envelope returns the clip's gain envelope, creating it on first use.
func (c *WaveClip) Envelope() *Envelope {
	if c.envelope == nil {
		c.envelope = &Envelope{}
	}
	return c.envelope
}

// HasEnvelope reports whether an envelope was ever attached.
func (c *WaveClip) HasEnvelope() bool { return c.envelope != nil }

// AddCutLine appends a nested cut-line clip and returns it.
func (c *WaveClip) AddCutLine() *WaveClip {
	cl := &WaveClip{}
	c.CutLines = append(c.CutLines, cl)
	return cl
}

// Append adds decoded samples to the end of the clip.
func (c *WaveClip) Append(buf *SampleBuffer) {
	c.samples = append(c.samples, buf.Float32()...)
}

// AppendSilence adds n zero samples to the end of the clip.
func (c *WaveClip) AppendSilence(n int64) {
	c.samples = append(c.samples, make([]float32, n)...)
}

// Len returns the number of samples appended so far.
func (c *WaveClip) Len() int64 { return int64(len(c.samples)) }

// Samples returns the clip's normalized sample data. The returned slice
// must not be modified.
func (c *WaveClip) Samples() []float32 { return c.samples }

// Label is a single point or region annotation on a label track.
type Label struct {
	T0    float64
	T1    float64
	Title string
}

// LabelTrack is a track of text annotations.
type LabelTrack struct {
	TrackData
	Labels []Label
}

func (*LabelTrack) isTrack() {}

// NoteTrack is a MIDI track. The importer only carries it when MIDI
// support is enabled; its content is kept as the raw attribute set of the
// originating tag.
type NoteTrack struct {
	TrackData
	Attrs map[string]string
}

func (*NoteTrack) isTrack() {}

// TimeTrack is a tempo/speed envelope track. A project holds at most one.
type TimeTrack struct {
	TrackData
	RangeLower     float64
	RangeUpper     float64
	DisplayLog     bool
	InterpolateLog bool

	envelope *Envelope
}

func (*TimeTrack) isTrack() {}

// Envelope returns the time track's envelope, creating it on first use.
func (t *TimeTrack) Envelope() *Envelope {
	if t.envelope == nil {
		t.envelope = &Envelope{}
	}
	return t.envelope
}

// ControlPoint is a single timestamp/value pair on an envelope.
type ControlPoint struct {
	T   float64
	Val float64
}

// Envelope is a piecewise time-varying scalar curve defined by ordered
// control points.
type Envelope struct {
	Points []ControlPoint
}

// AddPoint appends a control point to the envelope.
func (e *Envelope) AddPoint(t, val float64) {
	e.Points = append(e.Points, ControlPoint{T: t, Val: val})
}
