package aup

import (
	"github.com/simonhull/aup/internal/types"
)

// Track is the closed set of track variants a reconstructed project can
// contain: *WaveTrack, *LabelTrack, *NoteTrack, *TimeTrack.
type Track = types.Track

// WaveTrack is an audio track holding an ordered list of clips.
type WaveTrack = types.WaveTrack

// WaveClip is a time-positioned, append-only run of audio samples.
type WaveClip = types.WaveClip

// LabelTrack is a track of text annotations.
type LabelTrack = types.LabelTrack

// Label is a single point or region annotation on a label track.
type Label = types.Label

// NoteTrack is a MIDI track, imported only with WithMIDI.
type NoteTrack = types.NoteTrack

// TimeTrack is a tempo/speed envelope track. A project holds at most one.
type TimeTrack = types.TimeTrack

// Envelope is a piecewise time-varying scalar curve.
type Envelope = types.Envelope

// ControlPoint is a single timestamp/value pair on an envelope.
type ControlPoint = types.ControlPoint

// SampleFormat identifies the numeric encoding of a clip's samples.
type SampleFormat = types.SampleFormat

// Sample formats a sequence may declare.
const (
	Int16 = types.Int16
	Int24 = types.Int24
	Float = types.Float
)

// SampleBuffer holds one run of decoded samples in a single format.
type SampleBuffer = types.SampleBuffer
