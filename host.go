package aup

import (
	"github.com/simonhull/aup/internal/types"
)

// Host is everything the importer needs from the application it imports
// into. See internal/types.Host for the contract of each embedded
// interface; the Project type in this package is a ready-made in-memory
// implementation.
type Host = types.Host

// TrackStore is the host's persistent track container.
type TrackStore = types.TrackStore

// TrackFactory constructs new empty wave tracks.
type TrackFactory = types.TrackFactory

// ViewState receives the document's optional view and selection
// attributes.
type ViewState = types.ViewState

// TagSink receives the project's metadata tags.
type TagSink = types.TagSink

// ProgressFunc is called before each deferred materialization step with
// the running sample count and the fixed total. Return StatusSuccess to
// continue, StatusCancelled or StatusFailed to stop the import with that
// outcome.
type ProgressFunc = types.ProgressFunc

// Status is the final outcome of an import.
type Status = types.Status

// Import outcomes.
const (
	StatusSuccess   = types.StatusSuccess
	StatusFailed    = types.StatusFailed
	StatusCancelled = types.StatusCancelled
)
