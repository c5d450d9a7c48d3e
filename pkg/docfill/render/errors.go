package render

import (
	"fmt"
	"strings"
)

// UnterminatedPlaceholderError reports an opening delimiter that is never
// closed before the end of the markup.
type UnterminatedPlaceholderError struct {
	// Offset is the byte offset of the text element holding the opening delimiter.
	Offset int
	// Fragment is the beginning of the text accumulated from that element on.
	Fragment string
}

func (e *UnterminatedPlaceholderError) Error() string {
	return fmt.Sprintf("unterminated placeholder at offset %d near %q: missing %q", e.Offset, e.Fragment, CloseDelim)
}

// MissingValueError lists placeholders that had no value during a strict fill.
type MissingValueError struct {
	Names []string
}

func (e *MissingValueError) Error() string {
	return fmt.Sprintf("no value for placeholder(s): %s", strings.Join(e.Names, ", "))
}

// MalformedMarkupError reports filled markup that no longer parses as XML.
type MalformedMarkupError struct {
	Cause error
}

func (e *MalformedMarkupError) Error() string {
	return fmt.Sprintf("filled markup is not well-formed: %v", e.Cause)
}

func (e *MalformedMarkupError) Unwrap() error {
	return e.Cause
}
