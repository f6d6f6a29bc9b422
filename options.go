package aup

// Option configures behavior when opening project files.
//
// Options use the functional options pattern:
//
//	handle, err := aup.Open("mix.aup",
//	    aup.WithDataDir("/backups/projects"),
//	    aup.WithMIDI(),
//	)
type Option func(*openOptions)

// openOptions holds configuration for opening project files.
type openOptions struct {
	dataDir        string // Where to look for the project data folder
	midi           bool   // Import note tracks instead of bypassing them
	ignoreWarnings bool   // Suppress all warnings
}

// defaultOptions returns the default configuration.
func defaultOptions() *openOptions {
	return &openOptions{}
}

// WithDataDir overrides where the project data folder is looked up.
//
// By default the data folder is resolved next to the project file: first
// by the name the document declares, then by the project file's own name
// with a "-data" suffix. Use this option when the .aup file has been
// separated from its data folder.
//
// Example:
//
//	handle, err := aup.Open("mix.aup", aup.WithDataDir("/backups/projects"))
func WithDataDir(dir string) Option {
	return func(o *openOptions) {
		o.dataDir = dir
	}
}

// WithMIDI enables note track import.
//
// By default note tracks found in the document are bypassed with a
// warning, matching hosts without MIDI support. With this option their
// attributes are carried through as NoteTrack entries.
func WithMIDI() Option {
	return func(o *openOptions) {
		o.midi = true
	}
}

// WithIgnoreWarnings suppresses all warnings.
//
// By default warnings about non-fatal issues (missing block files,
// unreadable alias files) are collected in Result.Warnings. This option
// discards them. Silence substitution still happens; only the reporting
// is dropped.
func WithIgnoreWarnings() Option {
	return func(o *openOptions) {
		o.ignoreWarnings = true
	}
}
