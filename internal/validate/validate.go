// Package validate checks the well-formedness of raw attribute values from
// legacy project documents.
//
// Attribute values come straight from an untrusted XML file and are used in
// numeric fields, file lookups and path resolution, so every validator here
// is strict: numeric kinds reject anything but plain decimal text, and the
// file/path kinds reject control characters, separators, and traversal
// segments before any filesystem access happens.
package validate

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/simonhull/aup/internal/types"
)

// maxStringLength caps any attribute value. Legacy writers never produce
// values this long; anything larger is corruption.
const maxStringLength = 2048

// MaxSamples bounds for the sequence block size. The range is generous but
// closed on both ends: values at exactly 1024 and 64*1024*1024 are valid.
const (
	MinSequenceBlockSize = 1024
	MaxSequenceBlockSize = 64 * 1024 * 1024
)

func invalid(attr, value, reason string) *types.InvalidAttributeError {
	return &types.InvalidAttributeError{Attr: attr, Value: value, Reason: reason}
}

// Int parses a non-negative 32-bit integer attribute.
func Int(attr, value string) (int, error) {
	n, err := strconv.ParseInt(value, 10, 32)
	if err != nil {
		return 0, invalid(attr, value, "not an integer")
	}
	if n < 0 {
		return 0, invalid(attr, value, "must not be negative")
	}
	return int(n), nil
}

// Int64 parses a non-negative 64-bit sample count attribute.
func Int64(attr, value string) (int64, error) {
	n, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return 0, invalid(attr, value, "not an integer")
	}
	if n < 0 {
		return 0, invalid(attr, value, "must not be negative")
	}
	return n, nil
}

// MaxSamples parses the sequence block size attribute, which must lie in
// [MinSequenceBlockSize, MaxSequenceBlockSize].
func MaxSamples(attr, value string) (int64, error) {
	n, err := Int64(attr, value)
	if err != nil {
		return 0, err
	}
	if n < MinSequenceBlockSize || n > MaxSequenceBlockSize {
		return 0, invalid(attr, value, "outside the valid block size range")
	}
	return n, nil
}

// Double parses a non-negative floating point attribute. Legacy files
// written under some locales use a comma decimal separator; both forms are
// accepted.
func Double(attr, value string) (float64, error) {
	v := strings.ReplaceAll(value, ",", ".")
	d, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, invalid(attr, value, "not a number")
	}
	if d < 0 {
		return 0, invalid(attr, value, "must not be negative")
	}
	return d, nil
}

// SignedDouble parses a floating point attribute that may be negative
// (clip offsets, envelope values).
func SignedDouble(attr, value string) (float64, error) {
	v := strings.ReplaceAll(value, ",", ".")
	d, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, invalid(attr, value, "not a number")
	}
	return d, nil
}

// Bool interprets a boolean attribute: the literal "on" is true, anything
// else is false. Legacy writers never emitted other spellings.
func Bool(value string) bool {
	return value == "on"
}

// String validates a free-form string attribute: bounded length, no NUL or
// other control characters.
func String(attr, value string) (string, error) {
	if len(value) > maxStringLength {
		return "", invalid(attr, value, "value too long")
	}
	for _, r := range value {
		if r < 0x20 || r == 0x7f {
			return "", invalid(attr, value, "contains control characters")
		}
	}
	return value, nil
}

// FileString validates a bare file name: a safe string with no path
// separators and no traversal segments.
func FileString(attr, value string) (string, error) {
	if _, err := String(attr, value); err != nil {
		return "", err
	}
	if value == "" {
		return "", invalid(attr, value, "empty file name")
	}
	if strings.ContainsAny(value, `/\`) {
		return "", invalid(attr, value, "contains path separators")
	}
	if value == "." || value == ".." {
		return "", invalid(attr, value, "not a file name")
	}
	return value, nil
}

// FileName validates a bare file name and confirms the named file exists
// inside dir, returning the joined path.
func FileName(dir, attr, value string) (string, error) {
	name, err := FileString(attr, value)
	if err != nil {
		return "", err
	}
	path := filepath.Join(dir, name)
	if fi, err := os.Stat(path); err != nil || fi.IsDir() {
		return "", invalid(attr, value, "no such file")
	}
	return path, nil
}

// PathName validates a path to an existing file. Relative values resolve
// against the working directory; alias references written on another
// machine are often relative.
func PathName(attr, value string) (string, error) {
	if err := PathString(attr, value); err != nil {
		return "", err
	}
	if fi, err := os.Stat(value); err != nil || fi.IsDir() {
		return "", invalid(attr, value, "no such file")
	}
	return value, nil
}

// PathString validates that a value is a well-formed path string without
// checking the filesystem.
func PathString(attr, value string) error {
	if _, err := String(attr, value); err != nil {
		return err
	}
	if value == "" {
		return invalid(attr, value, "empty path")
	}
	return nil
}

// SampleFormat parses the sequence sample format code, which must map to a
// known format.
func SampleFormat(attr, value string) (types.SampleFormat, error) {
	n, err := Int(attr, value)
	if err != nil {
		return 0, err
	}
	f := types.SampleFormat(n)
	if !f.Valid() {
		return 0, invalid(attr, value, "unknown sample format code")
	}
	return f, nil
}
