package vecpack

import (
	"errors"
	"fmt"

	"github.com/hupe1980/vecpack/blobstore"
	"github.com/hupe1980/vecpack/internal/record"
	"github.com/hupe1980/vecpack/internal/source"
	"github.com/hupe1980/vecpack/internal/tensor"
)

var (
	// ErrNotFound is matched by MissingFileError.
	ErrNotFound = blobstore.ErrNotFound
	// ErrUnsupportedFormat is matched by UnsupportedFormatError.
	ErrUnsupportedFormat = source.ErrUnsupportedFormat
	// ErrAlreadyExists is matched by AlreadyExistsError.
	ErrAlreadyExists = errors.New("output already exists")
)

// MissingFileError indicates an input entry that does not exist.
type MissingFileError struct {
	Input string
	cause error
}

func (e *MissingFileError) Error() string {
	return fmt.Sprintf("input file %q does not exist", e.Input)
}

func (e *MissingFileError) Unwrap() error { return e.cause }

// UnsupportedFormatError indicates an input whose extension is not recognized.
type UnsupportedFormatError struct {
	Input string
	cause error
}

func (e *UnsupportedFormatError) Error() string {
	return fmt.Sprintf("%s: %v", e.Input, e.cause)
}

func (e *UnsupportedFormatError) Unwrap() error { return e.cause }

// AlreadyExistsError indicates an output collision without overwrite.
//
// Path is the first artifact found to exist. When another input of the same
// run maps to the same artifacts, ClaimedBy names it.
type AlreadyExistsError struct {
	Input     string
	Path      string
	ClaimedBy string
	cause     error
}

func (e *AlreadyExistsError) Error() string {
	if e.ClaimedBy != "" {
		return fmt.Sprintf("%s: output %q is also produced by %q", e.Input, e.Path, e.ClaimedBy)
	}
	return fmt.Sprintf("%s: output %q already exists, use overwrite to replace it", e.Input, e.Path)
}

func (e *AlreadyExistsError) Unwrap() error { return e.cause }

// ReadError wraps an I/O failure while reading an input or an artifact.
type ReadError struct {
	Input string
	// Path is the blob being read. It equals Input for input reads.
	Path  string
	cause error
}

func (e *ReadError) Error() string {
	if e.Path != "" && e.Path != e.Input {
		return fmt.Sprintf("%s: read %s: %v", e.Input, e.Path, e.cause)
	}
	return fmt.Sprintf("%s: read: %v", e.Input, e.cause)
}

func (e *ReadError) Unwrap() error { return e.cause }

// WriteError wraps an I/O failure while writing an artifact.
type WriteError struct {
	Input string
	Path  string
	cause error
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("%s: write %s: %v", e.Input, e.Path, e.cause)
}

func (e *WriteError) Unwrap() error { return e.cause }

// DimensionMismatchError indicates vectors of different lengths in one file.
//
// Row is the 0-based index of the first offending record among the valid
// records of the file; Line is its 1-based line number in the input.
type DimensionMismatchError struct {
	Input    string
	Row      int
	Line     int
	Expected int
	Actual   int
	cause    error
}

func (e *DimensionMismatchError) Error() string {
	return fmt.Sprintf("%s: line %d: vector has %d dimensions, expected %d", e.Input, e.Line, e.Actual, e.Expected)
}

func (e *DimensionMismatchError) Unwrap() error { return e.cause }

// VerifyError indicates an artifact whose read-back does not match what was written.
type VerifyError struct {
	Input  string
	Path   string
	Reason string
	cause  error
}

func (e *VerifyError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: verify %s: %s: %v", e.Input, e.Path, e.Reason, e.cause)
	}
	return fmt.Sprintf("%s: verify %s: %s", e.Input, e.Path, e.Reason)
}

func (e *VerifyError) Unwrap() error { return e.cause }

func translateBuildError(input string, batch *record.Batch, err error) error {
	var dm *tensor.DimensionMismatchError
	if errors.As(err, &dm) {
		return &DimensionMismatchError{
			Input:    input,
			Row:      dm.Row,
			Line:     batch.LineOf(dm.Row),
			Expected: dm.Expected,
			Actual:   dm.Actual,
			cause:    err,
		}
	}
	return err
}
