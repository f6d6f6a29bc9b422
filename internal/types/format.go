// Package types provides the core data structures for reconstructed
// Audacity projects.
//
// This package defines the track/clip/sample model the importer builds,
// the sample format codes used by legacy project files, and the host
// interfaces the importer commits its results to.
package types

// SampleFormat identifies the in-memory sample representation requested by
// a clip's sequence. The numeric values are the exact codes legacy project
// files store in the sequence "sampleformat" attribute, so they are part of
// the wire format and must not be renumbered.
type SampleFormat int

const (
	// Int16 is 16-bit signed integer samples.
	Int16 SampleFormat = 0x00020001
	// Int24 is 24-bit signed integer samples carried in 32-bit words.
	Int24 SampleFormat = 0x00040001
	// Float is 32-bit normalized floating point samples.
	Float SampleFormat = 0x0004000F
)

// Valid reports whether f is one of the known sample format codes.
func (f SampleFormat) Valid() bool {
	switch f {
	case Int16, Int24, Float:
		return true
	default:
		return false
	}
}

// String returns the conventional name for the format.
func (f SampleFormat) String() string {
	switch f {
	case Int16:
		return "int16"
	case Int24:
		return "int24"
	case Float:
		return "float32"
	default:
		return "unknown"
	}
}

// Status is the final outcome of an import, and also the control signal a
// progress callback returns to the deferred-queue drain.
type Status int

const (
	// StatusSuccess means the import completed; as a progress signal it
	// means "continue".
	StatusSuccess Status = iota
	// StatusFailed means a hard error was recorded; as a progress signal
	// it aborts the drain and fails the import.
	StatusFailed
	// StatusCancelled means the user cancelled; no tracks are committed.
	StatusCancelled
)

// String returns the status name.
func (s Status) String() string {
	switch s {
	case StatusSuccess:
		return "success"
	case StatusFailed:
		return "failed"
	case StatusCancelled:
		return "cancelled"
	default:
		return "unknown"
	}
}
