package parser

import (
	"errors"
	"fmt"

	errs "github.com/c360/jobmap/errors"
)

// Common parsing errors
var (
	ErrEmptyInput         = errors.New("empty input")
	ErrMalformedStructure = errors.New("malformed structure")
	ErrEmptyKey           = errors.New("empty key")
)

// ParseError describes a failed parse. Err is one of the sentinels above.
// Pos is the rune offset in the original input, or -1 when unknown.
type ParseError struct {
	Pos     int
	Key     string
	Message string
	Err     error
}

func (e *ParseError) Error() string {
	msg := e.Message
	if msg == "" {
		msg = e.Err.Error()
	}
	if e.Pos >= 0 {
		msg = fmt.Sprintf("%s at position %d", msg, e.Pos)
	}
	if e.Key != "" {
		msg = fmt.Sprintf("%s (key %q)", msg, e.Key)
	}
	return msg
}

// Unwrap exposes both the specific sentinel and errors.ErrParsingFailed, so
// errs.IsInvalid reports true for every parse failure.
func (e *ParseError) Unwrap() []error {
	return []error{e.Err, errs.ErrParsingFailed}
}
