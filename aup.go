package aup

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/simonhull/aup/internal/importer"
	"github.com/simonhull/aup/internal/types"
)

// ImportHandle represents a project file that passed the signature check
// and is ready to import.
//
// Open only sniffs the file signature; nothing is parsed until Import is
// called. A handle holds no file descriptor and does not need closing.
//
//	handle, err := aup.Open("mix.aup")
//	if err != nil {
//		return err
//	}
//	result, err := handle.Import(ctx, project, tags, nil)
type ImportHandle struct {
	// Path to the project file
	Path string

	opts           importer.Options
	ignoreWarnings bool
}

// Result is the outcome of one import: the final status, the warnings
// collected along the way, and a single user-facing message (the first
// hard error, or the first warning on a success with warnings).
type Result = importer.Result

// sniffSize is how much of the file the signature check reads. The root
// element always appears this early in real project files.
const sniffSize = 256

// Open checks that path is an importable project file and returns a
// handle for it.
//
// Projects saved by Audacity 1.0 or earlier use a binary format this
// package cannot read; Open rejects them with a *LegacyProjectError whose
// message names the upgrade path. Anything that is not an XML document
// with a project root element is rejected with *UnsupportedFormatError.
//
// Options customize the import:
//
//	handle, err := aup.Open("mix.aup",
//	    aup.WithDataDir("/backups/projects"),
//	    aup.WithMIDI(),
//	)
func Open(path string, opts ...Option) (*ImportHandle, error) {
	options := defaultOptions()
	for _, opt := range opts {
		opt(options)
	}

	if err := sniff(path); err != nil {
		return nil, err
	}

	return &ImportHandle{
		Path: path,
		opts: importer.Options{
			DataDir: options.dataDir,
			MIDI:    options.midi,
		},
		ignoreWarnings: options.ignoreWarnings,
	}, nil
}

// sniff reads the first bytes of the file and decides whether it is an
// importable project document.
func sniff(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open file: %w", err)
	}
	defer f.Close()

	buf := make([]byte, sniffSize)
	n, err := f.Read(buf)
	if err != nil && n == 0 {
		return fmt.Errorf("read file: %w", err)
	}
	buf = buf[:n]

	if bytes.HasPrefix(buf, []byte("AudacityProject")) {
		return &LegacyProjectError{Path: path}
	}

	if bytes.HasPrefix(buf, []byte("<?xml")) &&
		(bytes.Contains(buf, []byte("<audacityproject")) ||
			bytes.Contains(buf, []byte("<project"))) {
		return nil
	}

	return &UnsupportedFormatError{
		Path:   path,
		Reason: "not an Audacity project document",
	}
}

// OpenContext opens a project file with context support for cancellation.
//
// This is a thin wrapper around Open() that checks context before the
// signature read. Import itself takes its own context.
func OpenContext(ctx context.Context, path string, opts ...Option) (*ImportHandle, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	return Open(path, opts...)
}

// OpenMany opens multiple project files concurrently.
//
// Files are sniffed in parallel using up to runtime.NumCPU() goroutines.
// Results are returned in the same order as the input paths. If any file
// fails the signature check, the whole call fails.
//
//	handles, err := aup.OpenMany(ctx, paths...)
//	if err != nil {
//		log.Fatal(err)
//	}
func OpenMany(ctx context.Context, paths ...string) ([]*ImportHandle, error) {
	if len(paths) == 0 {
		return nil, nil
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.NumCPU())

	results := make([]*ImportHandle, len(paths))

	for i, path := range paths {
		i, path := i, path
		g.Go(func() error {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}

			handle, err := Open(path)
			if err != nil {
				return fmt.Errorf("%s: %w", path, err)
			}

			results[i] = handle
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return results, nil
}

// Import parses the project document and reconstructs its tracks into
// host.
//
// The import runs in two phases on the calling goroutine: a structural
// parse of the document, then materialization of the referenced sample
// data. onProgress (optional) is called before each materialization step
// with the running sample count and the fixed total; returning anything
// but StatusSuccess stops the import with that status. ctx cancellation
// is observed between steps.
//
// Missing or unreadable referenced audio never fails the import: the
// affected segment becomes silence of its declared length and a Warning
// is collected. Structural corruption fails the whole import; no tracks
// are committed and the returned error is non-nil exactly when the
// result status is StatusFailed.
//
// View and selection attributes from the document are applied to host
// only when the host was pristine (no tracks, no unsaved changes) when
// Import started.
func (h *ImportHandle) Import(ctx context.Context, host Host, tags TagSink, onProgress ProgressFunc) (*Result, error) {
	result, err := importer.Run(ctx, h.Path, host, tags, onProgress, h.opts)

	if h.ignoreWarnings && result != nil {
		result.Warnings = nil
		if result.Status == types.StatusSuccess {
			result.Message = ""
		}
	}

	return result, err
}
