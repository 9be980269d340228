package record

import (
	"errors"
	"fmt"
)

var (
	// ErrMalformed indicates a line that is not a JSON object.
	ErrMalformed = errors.New("malformed JSON entry")
	// ErrInvalidVector indicates a missing, empty or non-numeric vector.
	ErrInvalidVector = errors.New("invalid vector entry")
	// ErrMissingDocID indicates a record without a docid.
	ErrMissingDocID = errors.New("missing docid")
	// ErrInvalidDocID indicates a docid that is not a string.
	ErrInvalidDocID = errors.New("invalid docid")
)

// NotAvailable stands in for a docid that could not be read.
const NotAvailable = "N/A"

// SkipError describes why a line was dropped.
type SkipError struct {
	// Line is the 1-based line number within the input file.
	Line int
	// DocID is the record's docid when it was a string, NotAvailable otherwise.
	DocID string
	Err   error
}

func (e *SkipError) Error() string {
	return fmt.Sprintf("line %d (docid %s): %v", e.Line, e.DocID, e.Err)
}

func (e *SkipError) Unwrap() error {
	return e.Err
}
