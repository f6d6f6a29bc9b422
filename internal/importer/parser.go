// Package importer reconstructs an in-memory track/clip/sample graph from
// the tag stream of a legacy project document.
//
// Parsing is two-phase: the tag dispatcher builds the structural graph and
// appends every audio-bearing leaf to a deferred queue, then the queue is
// drained through the sample decoder with progress reporting. Missing or
// unreadable referenced audio degrades to silence of the declared length;
// structural corruption fails the whole import.
package importer

import (
	"github.com/simonhull/aup/internal/types"
	"github.com/simonhull/aup/internal/xmlfile"
)

// tagKind enumerates every tag a project document may contain. Dispatch is
// closed over this set; any other tag name is document corruption.
type tagKind int

const (
	tagProject tagKind = iota
	tagLabelTrack
	tagNoteTrack
	tagTimeTrack
	tagWaveTrack
	tagTags
	tagTag
	tagLabel
	tagWaveClip
	tagSequence
	tagWaveBlock
	tagEnvelope
	tagControlPoint
	tagSimpleBlockFile
	tagSilentBlockFile
	tagPCMAliasBlockFile
)

var tagKinds = map[string]tagKind{
	"project":           tagProject,
	"audacityproject":   tagProject,
	"labeltrack":        tagLabelTrack,
	"notetrack":         tagNoteTrack,
	"timetrack":         tagTimeTrack,
	"wavetrack":         tagWaveTrack,
	"tags":              tagTags,
	"tag":               tagTag,
	"label":             tagLabel,
	"waveclip":          tagWaveClip,
	"sequence":          tagSequence,
	"waveblock":         tagWaveBlock,
	"envelope":          tagEnvelope,
	"controlpoint":      tagControlPoint,
	"simpleblockfile":   tagSimpleBlockFile,
	"silentblockfile":   tagSilentBlockFile,
	"pcmaliasblockfile": tagPCMAliasBlockFile,
}

// frame is one level of the open-tag stack. owner points at the model
// entity that gives context to descendant tags, or nil when the tag was
// consumed inline. drop marks a subtree being skipped wholesale (a note
// track without MIDI support); a bypassed time track instead keeps a nil
// owner so its envelope and control points fall through individually.
type frame struct {
	parent string
	tag    string
	owner  types.Entity
	drop   bool
}

func (s *session) top() *frame {
	return &s.stack[len(s.stack)-1]
}

// StartTag routes one opening tag to its structural handler. Once a hard
// error has been recorded no entity is created or mutated again, but the
// stream still runs to completion so the element stack unwinds.
func (s *session) StartTag(name string, attrs []xmlfile.Attr) {
	if s.status != types.StatusSuccess {
		return
	}

	if len(s.stack) > 0 && s.top().drop {
		s.stack = append(s.stack, frame{parent: s.current, tag: name, drop: true})
		s.current = name
		return
	}

	s.parent = s.current
	s.current = name

	kind, known := tagKinds[name]
	if !known {
		s.errorf("unrecognized tag %q", name)
		return
	}

	var owner types.Entity
	var drop, ok bool

	switch kind {
	case tagProject:
		ok = s.handleProject(attrs)
	case tagLabelTrack:
		owner, ok = s.handleLabelTrack(attrs)
	case tagNoteTrack:
		owner, drop, ok = s.handleNoteTrack(attrs)
	case tagTimeTrack:
		owner, ok = s.handleTimeTrack(attrs)
	case tagWaveTrack:
		owner, ok = s.handleWaveTrack(attrs)
	case tagTags:
		ok = s.handleTags(attrs)
	case tagTag:
		ok = s.handleTag(attrs)
	case tagLabel:
		ok = s.handleLabel(attrs)
	case tagWaveClip:
		owner, ok = s.handleWaveClip(attrs)
	case tagSequence:
		ok = s.handleSequence(attrs)
	case tagWaveBlock:
		ok = s.handleWaveBlock(attrs)
	case tagEnvelope:
		owner, ok = s.handleEnvelope(attrs)
	case tagControlPoint:
		ok = s.handleControlPoint(attrs)
	case tagSimpleBlockFile:
		ok = s.handleSimpleBlockFile(attrs)
	case tagSilentBlockFile:
		ok = s.handleSilentBlockFile(attrs)
	case tagPCMAliasBlockFile:
		ok = s.handlePCMAliasBlockFile(attrs)
	}

	if !ok {
		// The handler recorded a specific error; keep the first one.
		s.errorf("malformed %q tag", name)
		return
	}

	s.stack = append(s.stack, frame{parent: s.parent, tag: s.current, owner: owner, drop: drop})
}

// EndTag pops the matching frame and restores the tag context from the new
// top of stack.
func (s *session) EndTag(name string) {
	if s.status != types.StatusSuccess {
		return
	}
	if len(s.stack) == 0 {
		return
	}

	top := *s.top()

	// Leaving a clip restores it as the current append target, so block
	// files after a nested cut-line land in the right place.
	if !top.drop && name == "waveclip" {
		if c, isClip := top.owner.(*types.WaveClip); isClip {
			s.clip = c
		}
	}

	s.stack = s.stack[:len(s.stack)-1]

	if len(s.stack) > 0 {
		t := s.top()
		s.parent = t.parent
		s.current = t.tag
	} else {
		s.parent = ""
		s.current = ""
	}
}
