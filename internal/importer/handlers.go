package importer

import (
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/simonhull/aup/internal/types"
	"github.com/simonhull/aup/internal/validate"
	"github.com/simonhull/aup/internal/xmlfile"
)

// handleProject binds the root tag. At least three of the version,
// audacityversion and projname attributes must be present; files with
// fewer are not recognizable project documents. The projname attribute
// also locates the project data directory and builds the file map used to
// resolve block file references.
func (s *session) handleProject(attrs []xmlfile.Attr) bool {
	required := 0

	for _, a := range attrs {
		value, err := validate.String(a.Name, a.Value)
		if err != nil {
			s.fail(err)
			return false
		}

		switch a.Name {
		case "vpos":
			n, err := validate.Int(a.Name, a.Value)
			if err != nil {
				s.fail(err)
				return false
			}
			s.attrs.vpos.set(n)

		case "h":
			d, err := validate.Double(a.Name, a.Value)
			if err != nil {
				s.fail(err)
				return false
			}
			s.attrs.h.set(d)

		case "zoom":
			d, err := validate.Double(a.Name, a.Value)
			if err != nil {
				s.fail(err)
				return false
			}
			s.attrs.zoom.set(d)

		case "sel0":
			d, err := validate.Double(a.Name, a.Value)
			if err != nil {
				s.fail(err)
				return false
			}
			s.attrs.sel0.set(d)

		case "sel1":
			d, err := validate.Double(a.Name, a.Value)
			if err != nil {
				s.fail(err)
				return false
			}
			s.attrs.sel1.set(d)

		case "rate":
			d, err := validate.Double(a.Name, a.Value)
			if err != nil {
				s.fail(err)
				return false
			}
			s.attrs.rate.set(d)

		case "snapto":
			s.attrs.snapto.set(validate.Bool(a.Value))

		case "selectionformat":
			s.attrs.selectionformat.set(value)

		case "audiotimeformat":
			s.attrs.audiotimeformat.set(value)

		case "frequencyformat":
			s.attrs.frequencyformat.set(value)

		case "bandwidthformat":
			s.attrs.bandwidthformat.set(value)

		case "version":
			required++

		case "audacityversion":
			required++

		case "projname":
			required++
			if !s.resolveDataDir(value) {
				return false
			}
		}
	}

	if required < 3 {
		s.errorf("not a recognizable project file: missing required project attributes")
		return false
	}

	return true
}

// resolveDataDir locates the auxiliary data directory named by the project
// and builds the base-name to path map for block file lookup. The declared
// name is tried first; unzipped projects transferred between platforms can
// end up with a mangled directory name, so the project file's own name
// with a "-data" suffix is the fallback.
func (s *session) resolveDataDir(projName string) bool {
	base := s.opts.DataDir
	if base == "" {
		base = filepath.Dir(s.path)
	}

	dir := ""
	if projName != "" {
		d := filepath.Join(base, projName)
		if fi, err := os.Stat(d); err == nil && fi.IsDir() {
			dir = d
		}
	}
	if dir == "" {
		alt := strings.TrimSuffix(filepath.Base(s.path), filepath.Ext(s.path)) + "-data"
		d := filepath.Join(base, alt)
		if fi, err := os.Stat(d); err == nil && fi.IsDir() {
			dir = d
		}
	}
	if dir == "" {
		s.errorf("couldn't find the project data folder %q", projName)
		return false
	}

	s.dataDir = dir

	// Hash every file under the data directory by bare name. Block file
	// tags store only the base name; the on-disk layout nests files in
	// e00/d00-style subdirectories.
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			s.fileMap[filepath.Base(path)] = path
		}
		return nil
	})
	if err != nil {
		s.errorf("couldn't read the project data folder %q: %v", dir, err)
		return false
	}

	return true
}

func (s *session) handleLabelTrack(attrs []xmlfile.Attr) (types.Entity, bool) {
	t := &types.LabelTrack{}

	for _, a := range attrs {
		switch a.Name {
		case "name":
			v, err := validate.String(a.Name, a.Value)
			if err != nil {
				s.fail(err)
				return nil, false
			}
			t.Name = v
		case "height":
			n, err := validate.Int(a.Name, a.Value)
			if err != nil {
				s.fail(err)
				return nil, false
			}
			t.Height = n
		case "minimized":
			t.Minimized = intFlag(a.Value)
		case "isSelected":
			t.Selected = intFlag(a.Value)
		case "numlabels":
			if _, err := validate.Int(a.Name, a.Value); err != nil {
				s.fail(err)
				return nil, false
			}
		}
	}

	s.tracks = append(s.tracks, t)
	return t, true
}

func (s *session) handleNoteTrack(attrs []xmlfile.Attr) (types.Entity, bool, bool) {
	if !s.opts.MIDI {
		s.warn("parse", "MIDI tracks found in project file, but MIDI support is not enabled, bypassing track")
		return nil, true, true
	}

	t := &types.NoteTrack{Attrs: make(map[string]string, len(attrs))}

	for _, a := range attrs {
		v, err := validate.String(a.Name, a.Value)
		if err != nil {
			s.fail(err)
			return nil, false, false
		}
		switch a.Name {
		case "name":
			t.Name = v
		case "height":
			n, err := validate.Int(a.Name, a.Value)
			if err != nil {
				s.fail(err)
				return nil, false, false
			}
			t.Height = n
		case "minimized":
			t.Minimized = intFlag(a.Value)
		case "isSelected":
			t.Selected = intFlag(a.Value)
		default:
			t.Attrs[a.Name] = v
		}
	}

	s.tracks = append(s.tracks, t)
	return t, false, true
}

func (s *session) handleTimeTrack(attrs []xmlfile.Attr) (types.Entity, bool) {
	// A project holds at most one time track. A duplicate's subtree is
	// still parsed, but with no owner its envelope and control points
	// fall through without effect.
	if s.host.HasTimeTrack() || s.hasTimeTrack() {
		s.warn("parse", "the project already has a time track, bypassing imported time track")
		return nil, true
	}

	t := &types.TimeTrack{}

	for _, a := range attrs {
		switch a.Name {
		case "name":
			v, err := validate.String(a.Name, a.Value)
			if err != nil {
				s.fail(err)
				return nil, false
			}
			t.Name = v
		case "height":
			n, err := validate.Int(a.Name, a.Value)
			if err != nil {
				s.fail(err)
				return nil, false
			}
			t.Height = n
		case "minimized":
			t.Minimized = intFlag(a.Value)
		case "rangelower":
			d, err := validate.SignedDouble(a.Name, a.Value)
			if err != nil {
				s.fail(err)
				return nil, false
			}
			t.RangeLower = d
		case "rangeupper":
			d, err := validate.SignedDouble(a.Name, a.Value)
			if err != nil {
				s.fail(err)
				return nil, false
			}
			t.RangeUpper = d
		case "displaylog":
			t.DisplayLog = intFlag(a.Value)
		case "interpolatelog":
			t.InterpolateLog = intFlag(a.Value)
		}
	}

	s.tracks = append(s.tracks, t)
	return t, true
}

func (s *session) hasTimeTrack() bool {
	for _, t := range s.tracks {
		if _, isTime := t.(*types.TimeTrack); isTime {
			return true
		}
	}
	return false
}

func (s *session) handleWaveTrack(attrs []xmlfile.Attr) (types.Entity, bool) {
	t := s.host.NewWaveTrack()

	for _, a := range attrs {
		switch a.Name {
		case "name":
			v, err := validate.String(a.Name, a.Value)
			if err != nil {
				s.fail(err)
				return nil, false
			}
			t.Name = v
		case "height":
			n, err := validate.Int(a.Name, a.Value)
			if err != nil {
				s.fail(err)
				return nil, false
			}
			t.Height = n
		case "channel":
			n, err := validate.Int(a.Name, a.Value)
			if err != nil {
				s.fail(err)
				return nil, false
			}
			t.Channel = n
		case "rate":
			d, err := validate.Double(a.Name, a.Value)
			if err != nil {
				s.fail(err)
				return nil, false
			}
			t.Rate = d
		case "gain":
			d, err := validate.SignedDouble(a.Name, a.Value)
			if err != nil {
				s.fail(err)
				return nil, false
			}
			t.Gain = d
		case "pan":
			d, err := validate.SignedDouble(a.Name, a.Value)
			if err != nil {
				s.fail(err)
				return nil, false
			}
			t.Pan = d
		case "linked":
			t.Linked = intFlag(a.Value)
		case "mute":
			t.Mute = intFlag(a.Value)
		case "solo":
			t.Solo = intFlag(a.Value)
		case "minimized":
			t.Minimized = intFlag(a.Value)
		case "isSelected":
			t.Selected = intFlag(a.Value)
		}
	}

	s.tracks = append(s.tracks, t)
	s.waveTrack = t

	// No active clip yet. Early project versions had a single implied
	// clip per track; one is created when its content shows up.
	s.clip = nil

	return t, true
}

// handleTags consumes legacy whole-project metadata stored as attributes
// of the tags element itself. The obsolete id3v2 flag is dropped, the
// track attribute becomes TRACKNUMBER, and every other name is
// upper-cased.
func (s *session) handleTags(attrs []xmlfile.Attr) bool {
	for _, a := range attrs {
		if a.Value == "" {
			continue
		}
		if _, err := validate.String("tags", a.Name); err != nil {
			s.fail(err)
			return false
		}
		v, err := validate.String(a.Name, a.Value)
		if err != nil {
			s.fail(err)
			return false
		}

		var n string
		switch a.Name {
		case "id3v2":
			continue
		case "track":
			n = "TRACKNUMBER"
		default:
			n = strings.ToUpper(a.Name)
		}

		s.tags.SetTag(n, v)
	}

	return true
}

func (s *session) handleTag(attrs []xmlfile.Attr) bool {
	if s.parent != "tags" {
		s.errorf("misplaced %q tag", s.current)
		return false
	}

	var n, v string
	for _, a := range attrs {
		value, err := validate.String(a.Name, a.Value)
		if err != nil {
			s.fail(err)
			return false
		}
		switch a.Name {
		case "name":
			n = value
		case "value":
			v = value
		}
	}

	// Obsolete, but must be recognized and dropped.
	if n != "id3v2" {
		s.tags.SetTag(n, v)
	}

	return true
}

func (s *session) handleLabel(attrs []xmlfile.Attr) bool {
	if s.parent != "labeltrack" {
		s.errorf("misplaced %q tag", s.current)
		return false
	}

	t, isLabelTrack := s.top().owner.(*types.LabelTrack)
	if !isLabelTrack {
		s.errorf("misplaced %q tag", s.current)
		return false
	}

	var l types.Label
	for _, a := range attrs {
		switch a.Name {
		case "t":
			d, err := validate.SignedDouble(a.Name, a.Value)
			if err != nil {
				s.fail(err)
				return false
			}
			l.T0 = d
		case "t1":
			d, err := validate.SignedDouble(a.Name, a.Value)
			if err != nil {
				s.fail(err)
				return false
			}
			l.T1 = d
		case "title":
			v, err := validate.String(a.Name, a.Value)
			if err != nil {
				s.fail(err)
				return false
			}
			l.Title = v
		}
	}

	t.Labels = append(t.Labels, l)
	return true
}

func (s *session) handleWaveClip(attrs []xmlfile.Attr) (types.Entity, bool) {
	var clip *types.WaveClip

	switch s.parent {
	case "wavetrack":
		t, isTrack := s.top().owner.(*types.WaveTrack)
		if !isTrack {
			s.errorf("misplaced %q tag", s.current)
			return nil, false
		}
		clip = t.NewClip()
	case "waveclip":
		// Nested wave clips are cut lines.
		parent, isClip := s.top().owner.(*types.WaveClip)
		if !isClip {
			s.errorf("misplaced %q tag", s.current)
			return nil, false
		}
		clip = parent.AddCutLine()
	default:
		s.errorf("misplaced %q tag", s.current)
		return nil, false
	}

	for _, a := range attrs {
		switch a.Name {
		case "offset":
			d, err := validate.SignedDouble(a.Name, a.Value)
			if err != nil {
				s.fail(err)
				return nil, false
			}
			clip.Offset = d
		case "colorindex":
			n, err := validate.Int(a.Name, a.Value)
			if err != nil {
				s.fail(err)
				return nil, false
			}
			clip.ColorIndex = n
		}
	}

	s.clip = clip
	return clip, true
}

func (s *session) handleEnvelope(attrs []xmlfile.Attr) (types.Entity, bool) {
	var env *types.Envelope

	switch s.parent {
	case "timetrack":
		// A bypassed time track leaves its frame ownerless; the
		// envelope and its control points are bypassed with it.
		if t, isTime := s.top().owner.(*types.TimeTrack); isTime {
			env = t.Envelope()
		}
	case "wavetrack":
		// Single implied clip of early project versions.
		if s.waveTrack != nil {
			env = s.waveTrack.RightmostOrNewClip().Envelope()
		}
	case "waveclip":
		if c, isClip := s.top().owner.(*types.WaveClip); isClip {
			env = c.Envelope()
		}
	}

	for _, a := range attrs {
		if a.Name == "numpoints" {
			if _, err := validate.Int(a.Name, a.Value); err != nil {
				s.fail(err)
				return nil, false
			}
		}
	}

	if env == nil {
		return nil, true
	}
	return env, true
}

func (s *session) handleControlPoint(attrs []xmlfile.Attr) bool {
	if s.parent != "envelope" {
		s.errorf("misplaced %q tag", s.current)
		return false
	}

	env, isEnv := s.top().owner.(*types.Envelope)
	if !isEnv {
		// Envelope of a bypassed time track.
		return true
	}

	var t, val float64
	for _, a := range attrs {
		switch a.Name {
		case "t":
			d, err := validate.SignedDouble(a.Name, a.Value)
			if err != nil {
				s.fail(err)
				return false
			}
			t = d
		case "val":
			d, err := validate.SignedDouble(a.Name, a.Value)
			if err != nil {
				s.fail(err)
				return false
			}
			val = d
		}
	}

	env.AddPoint(t, val)
	return true
}

// handleSequence binds a clip's sample storage parameters. The sample
// format set here is the one every block file of the sequence decodes to.
func (s *session) handleSequence(attrs []xmlfile.Attr) bool {
	for _, a := range attrs {
		switch a.Name {
		case "maxsamples":
			n, err := validate.MaxSamples(a.Name, a.Value)
			if err != nil {
				s.fail(err)
				return false
			}
			if s.clip != nil {
				s.clip.MaxSamples = n
			}
		case "sampleformat":
			f, err := validate.SampleFormat(a.Name, a.Value)
			if err != nil {
				s.fail(err)
				return false
			}
			s.format = f
			if s.clip != nil {
				s.clip.Format = f
			}
		case "numsamples":
			n, err := validate.Int64(a.Name, a.Value)
			if err != nil {
				s.fail(err)
				return false
			}
			if s.clip != nil {
				s.clip.NumSamples = n
			}
		}
	}

	return true
}

func (s *session) handleWaveBlock(attrs []xmlfile.Attr) bool {
	for _, a := range attrs {
		if a.Name == "start" {
			// Long clips need counts past 2^31.
			if _, err := validate.Int64(a.Name, a.Value); err != nil {
				s.fail(err)
				return false
			}
		}
	}

	return true
}

func (s *session) handleSimpleBlockFile(attrs []xmlfile.Attr) bool {
	var filename string
	var length int64

	for _, a := range attrs {
		switch {
		case strings.EqualFold(a.Name, "filename"):
			name, err := validate.FileString(a.Name, a.Value)
			if err != nil {
				// Not fatal; the block degrades to silence below.
				continue
			}
			if path, found := s.fileMap[name]; found {
				filename = path
			} else {
				s.warnf("resolve", "missing project file %q, inserting silence instead", name)
			}
		case a.Name == "len":
			n, err := validate.Int64(a.Name, a.Value)
			if err != nil || n <= 0 {
				s.errorf("missing or invalid simpleblockfile 'len' attribute")
				return false
			}
			length = n
		}
	}

	s.addFile(length, filename, 0, 0)
	return true
}

func (s *session) handleSilentBlockFile(attrs []xmlfile.Attr) bool {
	var length int64

	for _, a := range attrs {
		if a.Name == "len" {
			n, err := validate.Int64(a.Name, a.Value)
			if err != nil || n <= 0 {
				s.errorf("missing or invalid silentblockfile 'len' attribute")
				return false
			}
			length = n
		}
	}

	s.addFile(length, "", 0, 0)
	return true
}

// handlePCMAliasBlockFile resolves a reference into an arbitrary external
// audio file with an offset and channel. The reference is appended to the
// queue even when the file cannot be resolved, so the silence substitute
// keeps the declared length.
func (s *session) handlePCMAliasBlockFile(attrs []xmlfile.Attr) bool {
	var filename string
	var start, length int64
	var channel int

	for _, a := range attrs {
		switch {
		case strings.EqualFold(a.Name, "aliasfile"):
			if path, err := validate.PathName(a.Name, a.Value); err == nil {
				filename = path
			} else if path, err := validate.FileName(s.dataDir, a.Name, a.Value); err == nil {
				// The alias may have moved into the data directory.
				filename = path
			} else if err := validate.PathString(a.Name, a.Value); err == nil {
				// Well-formed but nonexistent.
				s.warnf("resolve", "missing alias file %q, inserting silence instead", a.Value)
			}
		case strings.EqualFold(a.Name, "aliasstart"):
			n, err := validate.Int64(a.Name, a.Value)
			if err != nil {
				s.errorf("missing or invalid pcmaliasblockfile 'aliasstart' attribute")
				return false
			}
			start = n
		case strings.EqualFold(a.Name, "aliaslen"):
			n, err := validate.Int64(a.Name, a.Value)
			if err != nil || n <= 0 {
				s.errorf("missing or invalid pcmaliasblockfile 'aliaslen' attribute")
				return false
			}
			length = n
		case strings.EqualFold(a.Name, "aliaschannel"):
			n, err := validate.Int(a.Name, a.Value)
			if err != nil {
				s.errorf("missing or invalid pcmaliasblockfile 'aliaschannel' attribute")
				return false
			}
			channel = n
		}
	}

	s.addFile(length, filename, start, channel)
	return true
}

// intFlag interprets the 0/1 numeric booleans of track attributes.
func intFlag(value string) bool {
	return value == "1"
}
