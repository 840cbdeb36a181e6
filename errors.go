package boxbulk

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrFileNotFound is returned when the bulk source file doesn't exist.
	ErrFileNotFound = errors.New("file not found")
	// ErrParse is returned when the bulk source file contains a malformed row.
	ErrParse = errors.New("parse error")
	// ErrSchemaMismatch is returned when required columns are absent from the input header.
	ErrSchemaMismatch = errors.New("schema mismatch")
	// ErrIO is returned when a report can't be written to its destination.
	ErrIO = errors.New("io error")
	// ErrMissingField marks a record that lacks a value for a required field.
	ErrMissingField = errors.New("missing required field")
	// ErrKindMismatch is returned when a record is passed to a mapper of another kind.
	ErrKindMismatch = errors.New("record kind mismatch")
)

// SchemaMismatchError lists the required columns absent from an input header.
type SchemaMismatchError struct {
	Kind    Kind
	Missing []string
}

func (e *SchemaMismatchError) Error() string {
	return fmt.Sprintf("%s: %s input lacks required columns: %s", ErrSchemaMismatch, e.Kind, strings.Join(e.Missing, ", "))
}

// Unwrap makes errors.Is(err, ErrSchemaMismatch) hold.
func (e *SchemaMismatchError) Unwrap() error {
	return ErrSchemaMismatch
}

// ParseError describes a malformed record of the bulk source. Line is the 1-based number of
// the record in the input (the header is not counted), 0 if the error isn't bound to a record.
type ParseError struct {
	Path string
	Line int
	Err  error
}

func (e *ParseError) Error() string {
	if e.Line == 0 {
		return fmt.Sprintf("%s: %s: %v", ErrParse, e.Path, e.Err)
	}
	return fmt.Sprintf("%s: %s record %d: %v", ErrParse, e.Path, e.Line, e.Err)
}

// Is makes errors.Is(err, ErrParse) hold.
func (e *ParseError) Is(target error) bool {
	return target == ErrParse
}

// Unwrap returns the underlying parse error.
func (e *ParseError) Unwrap() error {
	return e.Err
}
