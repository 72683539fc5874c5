package template

import (
	"errors"
	"fmt"
)

// Parse failures
var (
	ErrUnexpectedEndOfInput = errors.New("unexpected end of input")
	ErrMissingPathMarker    = errors.New("path marker not found")
)

// ParseError reports where template parsing stopped. It unwraps to one of the
// Err* sentinels above.
type ParseError struct {
	Err  error
	Line int
}

func (e *ParseError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("line %d: %v", e.Line, e.Err)
	}
	return e.Err.Error()
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// GenerateError wraps a filesystem failure while writing a template
type GenerateError struct {
	Path string
	Err  error
}

func (e *GenerateError) Error() string {
	return fmt.Sprintf("failed to generate %s: %v", e.Path, e.Err)
}

func (e *GenerateError) Unwrap() error {
	return e.Err
}
