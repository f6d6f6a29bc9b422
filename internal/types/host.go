package types

// TrackStore is the host's persistent track container. Reconstructed
// tracks are committed to it only after a fully successful import.
type TrackStore interface {
	// AddTrack transfers ownership of a reconstructed track to the host.
	AddTrack(t Track)

	// HasTimeTrack reports whether the host already holds a time track.
	// A project can hold at most one; imported duplicates are dropped.
	HasTimeTrack() bool

	// IsEmpty reports whether the host holds no tracks.
	IsEmpty() bool
}

// TrackFactory constructs new empty wave tracks with the host's current
// default settings (rate, format).
type TrackFactory interface {
	NewWaveTrack() *WaveTrack
}

// ViewState receives the project document's optional view and selection
// attributes. The importer only applies them when the host project was
// pristine at import start; setters are never called for absent fields.
type ViewState interface {
	SetRate(rate float64)
	SetSnapTo(on bool)
	SetSelectionFormat(name string)
	SetAudioTimeFormat(name string)
	SetFrequencyFormat(name string)
	SetBandwidthFormat(name string)
	SetVPos(pos int)
	SetScroll(h float64)
	SetZoom(zoom float64)
	SetSel0(t float64)
	SetSel1(t float64)
}

// Host is everything the importer needs from the application it imports
// into.
type Host interface {
	TrackStore
	TrackFactory
	ViewState

	// IsDirty reports whether the host project has unsaved changes.
	// Together with IsEmpty it decides whether view/selection attributes
	// from the document may be applied at all.
	IsDirty() bool
}

// TagSink receives the project's metadata tags.
type TagSink interface {
	SetTag(name, value string)
}

// ProgressFunc is called before each deferred file item is materialized,
// with the number of samples processed so far and the fixed total. The
// returned status controls the drain: StatusSuccess continues, anything
// else stops it immediately and becomes the import's outcome.
type ProgressFunc func(processed, total int64) Status
