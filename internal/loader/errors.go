package loader

import (
	"errors"
	"fmt"
)

// NotFoundError means the source could not be opened.
type NotFoundError struct {
	Source string
	Err    error
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("source %s not found: %v", e.Source, e.Err)
}

func (e *NotFoundError) Unwrap() error { return e.Err }

// ParseError means the document was readable but not a valid events
// document. Index is -1 for document-level problems.
type ParseError struct {
	Source string
	Index  int
	Field  string
	Err    error
}

func (e *ParseError) Error() string {
	switch {
	case e.Index < 0:
		return fmt.Sprintf("failed to parse %s: %v", e.Source, e.Err)
	case e.Field == "":
		return fmt.Sprintf("failed to parse %s: event %d: %v", e.Source, e.Index, e.Err)
	default:
		return fmt.Sprintf("failed to parse %s: event %d: %s: %v", e.Source, e.Index, e.Field, e.Err)
	}
}

func (e *ParseError) Unwrap() error { return e.Err }

func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}

func IsParse(err error) bool {
	var pe *ParseError
	return errors.As(err, &pe)
}
