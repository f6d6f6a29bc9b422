package importer

import (
	"context"
	"fmt"
	"os"

	"github.com/simonhull/aup/internal/types"
	"github.com/simonhull/aup/internal/xmlfile"
)

// Options carries the per-import settings the caller chose.
type Options struct {
	// DataDir overrides the directory the project data folder is looked
	// up in; empty means the project file's own directory.
	DataDir string

	// MIDI enables note track import; without it note track subtrees are
	// bypassed with a warning.
	MIDI bool
}

// Result is the outcome of one import.
type Result struct {
	Status   types.Status
	Warnings []types.Warning

	// Message is the first hard error, or the first warning when the
	// import succeeded with warnings. Empty on a clean success.
	Message string
}

// session is the state of one in-flight import. Nothing here is shared;
// every import owns its own stack, file map and queue.
type session struct {
	ctx  context.Context
	path string
	opts Options

	host types.Host
	tags types.TagSink

	dataDir string
	fileMap map[string]string

	stack   []frame
	parent  string
	current string

	tracks    []types.Track
	waveTrack *types.WaveTrack
	clip      *types.WaveClip
	format    types.SampleFormat

	attrs projectAttrs
	queue queue

	status   types.Status
	firstErr error
	warnings []types.Warning
}

// fail records a hard error. The first one wins; the whole import is
// marked failed and every later tag event becomes a no-op.
func (s *session) fail(err error) {
	if s.firstErr == nil {
		s.firstErr = err
	}
	s.status = types.StatusFailed
}

func (s *session) errorf(format string, args ...any) {
	s.fail(fmt.Errorf(format, args...))
}

// warn records a soft warning. Warnings never stop the import.
func (s *session) warn(stage, msg string) {
	s.warnings = append(s.warnings, types.Warning{Stage: stage, Message: msg})
}

func (s *session) warnf(stage, format string, args ...any) {
	s.warn(stage, fmt.Sprintf(format, args...))
}

// Run imports the project document at path into host. The returned error
// is non-nil exactly when the result status is StatusFailed; warnings and
// cancellation are reported through the Result alone.
func Run(ctx context.Context, path string, host types.Host, tags types.TagSink, onProgress types.ProgressFunc, opts Options) (*Result, error) {
	s := &session{
		ctx:     ctx,
		path:    path,
		opts:    opts,
		host:    host,
		tags:    tags,
		fileMap: make(map[string]string),
		format:  types.Int16,
		status:  types.StatusSuccess,
	}

	// Whether view and selection attributes may be applied at all is
	// decided by the host's state before anything is imported.
	pristine := !host.IsDirty() && host.IsEmpty()

	f, err := os.Open(path)
	if err != nil {
		err = fmt.Errorf("opening project file: %w", err)
		return &Result{Status: types.StatusFailed, Message: err.Error()}, err
	}

	parseErr := xmlfile.Parse(f, s)
	f.Close()

	if parseErr != nil {
		s.tracks = nil
		serr := &types.SyntaxError{Path: path, Err: parseErr}
		return &Result{Status: types.StatusFailed, Warnings: s.warnings, Message: serr.Error()}, serr
	}

	if s.status != types.StatusSuccess {
		s.tracks = nil
		return &Result{Status: types.StatusFailed, Warnings: s.warnings, Message: s.firstErr.Error()}, s.firstErr
	}

	if st := s.drain(onProgress); st != types.StatusSuccess {
		s.tracks = nil
		if st == types.StatusFailed {
			err := fmt.Errorf("import stopped by progress callback")
			return &Result{Status: st, Warnings: s.warnings, Message: err.Error()}, err
		}
		return &Result{Status: st, Warnings: s.warnings}, nil
	}

	for _, t := range s.tracks {
		s.host.AddTrack(t)
	}
	s.tracks = nil

	// Never clobber view or selection state the user may already have
	// set up.
	if pristine {
		s.attrs.apply(s.host)
	}

	res := &Result{Status: types.StatusSuccess, Warnings: s.warnings}
	if len(s.warnings) > 0 {
		res.Message = s.warnings[0].String()
	}
	return res, nil
}
