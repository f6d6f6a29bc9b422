package aup

import (
	"github.com/simonhull/aup/internal/types"
)

// LegacyProjectError is an alias to types.LegacyProjectError.
// Re-exporting from internal/types to keep the public API in one place.
type LegacyProjectError = types.LegacyProjectError

// UnsupportedFormatError is an alias to types.UnsupportedFormatError.
// Re-exporting from internal/types to keep the public API in one place.
type UnsupportedFormatError = types.UnsupportedFormatError

// InvalidAttributeError is an alias to types.InvalidAttributeError.
// Re-exporting from internal/types to keep the public API in one place.
type InvalidAttributeError = types.InvalidAttributeError

// SyntaxError is an alias to types.SyntaxError.
// Re-exporting from internal/types to keep the public API in one place.
type SyntaxError = types.SyntaxError

// DecodeError is an alias to types.DecodeError.
// Re-exporting from internal/types to keep the public API in one place.
type DecodeError = types.DecodeError

// Warning is an alias to types.Warning.
// Re-exporting from internal/types to keep the public API in one place.
type Warning = types.Warning
