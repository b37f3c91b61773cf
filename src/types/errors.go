package types

import (
	"errors"
	"fmt"
)

// ParseError reports a malformed or missing field in an input row.
type ParseError struct {
	Line   int    // 1-based; the header is line 1
	Column string // empty when the whole row is bad
	Value  string
	Err    error
}

func (e *ParseError) Error() string {
	switch {
	case e.Column == "":
		return fmt.Sprintf("line %d: %v", e.Line, e.Err)
	case e.Value == "":
		return fmt.Sprintf("line %d: column %q: %v", e.Line, e.Column, e.Err)
	default:
		return fmt.Sprintf("line %d: column %q: invalid value %q: %v", e.Line, e.Column, e.Value, e.Err)
	}
}

func (e *ParseError) Unwrap() error { return e.Err }

// EmptyInputError is returned when there are no groups to plot.
type EmptyInputError struct{}

func (EmptyInputError) Error() string { return "no block data found for plotting" }

// FilesystemError wraps an unreadable input or unwritable output path.
type FilesystemError struct {
	Op   string // "open", "read", "write"
	Path string
	Err  error
}

func (e *FilesystemError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *FilesystemError) Unwrap() error { return e.Err }

// IsEmptyInput reports whether err (or anything it wraps) is an EmptyInputError.
func IsEmptyInput(err error) bool {
	var e EmptyInputError
	return errors.As(err, &e)
}
