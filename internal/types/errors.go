package types

import "fmt"

// LegacyProjectError is returned when the file carries the pre-3.0
// "AudacityProject" binary-era signature. These projects cannot be read
// directly; the user must upgrade them with an older Audacity first.
type LegacyProjectError struct {
	Path string
}

func (e *LegacyProjectError) Error() string {
	return fmt.Sprintf("%s: this project was saved by Audacity version 1.0 or earlier; "+
		"open and re-save it with a version of Audacity prior to 3.0.0, then import it again", e.Path)
}

// UnsupportedFormatError is returned when the file is not a recognizable
// AUP project document.
type UnsupportedFormatError struct {
	Path   string
	Reason string
}

func (e *UnsupportedFormatError) Error() string {
	return fmt.Sprintf("%s: unsupported format: %s", e.Path, e.Reason)
}

// InvalidAttributeError is returned by attribute validation when a raw
// attribute value fails its well-formedness rule.
//
// The caller decides severity: structural fields treat it as fatal, audio
// source fields degrade to a warning plus silence substitution.
type InvalidAttributeError struct {
	Attr   string
	Value  string
	Reason string
}

func (e *InvalidAttributeError) Error() string {
	return fmt.Sprintf("invalid %q attribute: %s", e.Attr, e.Reason)
}

// SyntaxError is returned when the project document is not well-formed XML.
type SyntaxError struct {
	Path string
	Err  error
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("%s: malformed project document: %v", e.Path, e.Err)
}

func (e *SyntaxError) Unwrap() error {
	return e.Err
}

// DecodeError is returned when samples cannot be read from a referenced
// audio resource. It is always a soft failure: the importer substitutes
// silence of the declared length and continues.
type DecodeError struct {
	Path string
	What string
	Err  error
}

func (e *DecodeError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Path, e.What, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Path, e.What)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

// Warning represents a non-fatal issue encountered during an import.
//
// Warnings indicate problems that don't stop the import but may mean the
// reconstructed project is incomplete. Examples include:
//   - A referenced block file missing from the project data directory
//   - An alias file that cannot be opened or read
//   - A note track dropped because MIDI support is unavailable
//
// The affected audio segment is always replaced with silence of its
// declared length, so total duration and downstream offsets are preserved.
type Warning struct {
	// Stage where the warning occurred
	Stage string // "parse", "resolve", "decode"

	// Warning message
	Message string
}

// String returns a human-readable warning message.
func (w Warning) String() string {
	return fmt.Sprintf("%s: %s", w.Stage, w.Message)
}
