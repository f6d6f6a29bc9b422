package aup

import (
	"sort"

	"github.com/simonhull/aup/internal/types"
)

// DefaultRate is the sample rate new projects and wave tracks start
// with, in Hz.
const DefaultRate = 44100

// Project is a self-contained in-memory Host implementation.
//
// It holds the committed track list, the view and selection scalars the
// document may set, and a dirty flag. Use it when there is no real
// application to import into, or as the reference for wiring a real one:
//
//	project := aup.NewProject()
//	tags := aup.TagMap{}
//	result, err := handle.Import(ctx, project, tags, nil)
type Project struct {
	// Committed tracks, in import order.
	Tracks []Track

	// Rate is the project sample rate, also used for new wave tracks.
	Rate float64

	// View and selection state, populated from the document when the
	// project was pristine at import start.
	SnapTo          bool
	SelectionFormat string
	AudioTimeFormat string
	FrequencyFormat string
	BandwidthFormat string
	VPos            int
	Scroll          float64
	Zoom            float64
	Sel0            float64
	Sel1            float64

	dirty bool
}

// NewProject returns an empty, clean project with default settings.
func NewProject() *Project {
	return &Project{Rate: DefaultRate}
}

// AddTrack transfers ownership of a reconstructed track to the project.
func (p *Project) AddTrack(t Track) {
	p.Tracks = append(p.Tracks, t)
}

// HasTimeTrack reports whether the project already holds a time track.
func (p *Project) HasTimeTrack() bool {
	for _, t := range p.Tracks {
		if _, isTime := t.(*TimeTrack); isTime {
			return true
		}
	}
	return false
}

// IsEmpty reports whether the project holds no tracks.
func (p *Project) IsEmpty() bool {
	return len(p.Tracks) == 0
}

// NewWaveTrack constructs an empty wave track with the project's current
// default settings.
func (p *Project) NewWaveTrack() *WaveTrack {
	return &WaveTrack{Rate: p.Rate}
}

// IsDirty reports whether the project has unsaved changes.
func (p *Project) IsDirty() bool {
	return p.dirty
}

// MarkDirty flags the project as having unsaved changes, which makes a
// later Import skip the document's view and selection attributes.
func (p *Project) MarkDirty() {
	p.dirty = true
}

// SetRate sets the project sample rate.
func (p *Project) SetRate(rate float64) { p.Rate = rate }

// SetSnapTo sets the selection snapping mode.
func (p *Project) SetSnapTo(on bool) { p.SnapTo = on }

// SetSelectionFormat sets the selection display format by name.
func (p *Project) SetSelectionFormat(name string) { p.SelectionFormat = name }

// SetAudioTimeFormat sets the audio time display format by name.
func (p *Project) SetAudioTimeFormat(name string) { p.AudioTimeFormat = name }

// SetFrequencyFormat sets the frequency display format by name.
func (p *Project) SetFrequencyFormat(name string) { p.FrequencyFormat = name }

// SetBandwidthFormat sets the bandwidth display format by name.
func (p *Project) SetBandwidthFormat(name string) { p.BandwidthFormat = name }

// SetVPos sets the vertical scroll position.
func (p *Project) SetVPos(pos int) { p.VPos = pos }

// SetScroll sets the horizontal scroll position in seconds.
func (p *Project) SetScroll(h float64) { p.Scroll = h }

// SetZoom sets the horizontal zoom level.
func (p *Project) SetZoom(zoom float64) { p.Zoom = zoom }

// SetSel0 sets the selection start in seconds.
func (p *Project) SetSel0(t float64) { p.Sel0 = t }

// SetSel1 sets the selection end in seconds.
func (p *Project) SetSel1(t float64) { p.Sel1 = t }

var _ types.Host = (*Project)(nil)

// TagMap is a TagSink that keeps the last value set for each tag name.
type TagMap map[string]string

// SetTag stores value under name, replacing any earlier value.
func (m TagMap) SetTag(name, value string) {
	m[name] = value
}

// Names returns the stored tag names in sorted order.
func (m TagMap) Names() []string {
	names := make([]string, 0, len(m))
	for n := range m {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

var _ types.TagSink = (TagMap)(nil)
