package feed

import (
	"errors"
	"fmt"
)

var (
	// ErrEmptyFeed is returned when the source answers with an empty body.
	ErrEmptyFeed = errors.New("empty feed")
	// ErrUnsupportedFormat is returned for a declared format with no parser.
	ErrUnsupportedFormat = errors.New("unsupported feed format")

	errNonPositiveInterval = errors.New("sync interval must be positive")
)

// FormatError reports a feed whose record boundaries cannot be located.
type FormatError struct {
	Format Format
	Reason string
	Err    error
}

func (e *FormatError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s feed: %s: %v", e.Format, e.Reason, e.Err)
	}
	return fmt.Sprintf("%s feed: %s", e.Format, e.Reason)
}

func (e *FormatError) Unwrap() error {
	return e.Err
}

func formatErr(f Format, reason string, err error) *FormatError {
	return &FormatError{Format: f, Reason: reason, Err: err}
}
