// Package docfill provides custom error types for better error handling and reporting.
package docfill

import (
	"errors"
	"fmt"
	"strings"

	"github.com/benjaminschreck/go-docfill/pkg/docfill/render"
)

// Remediation hints attached to fatal errors.
const (
	HintResaveTemplate = "open the template in Word, use Save As -> .docx, then upload it again"
	HintCheckData      = "check that your data matches the template placeholders"
)

// UnterminatedPlaceholderError reports an opening delimiter that is never closed.
type UnterminatedPlaceholderError = render.UnterminatedPlaceholderError

// DocumentError represents a structural problem with a template package:
// missing file, not a zip archive, no document part.
type DocumentError struct {
	Operation string
	Path      string
	Cause     error
	Hint      string
}

func (e *DocumentError) Error() string {
	var msg string
	switch {
	case e.Path != "" && e.Cause != nil:
		msg = fmt.Sprintf("document error during %s of '%s': %v", e.Operation, e.Path, e.Cause)
	case e.Path != "":
		msg = fmt.Sprintf("document error during %s of '%s'", e.Operation, e.Path)
	case e.Cause != nil:
		msg = fmt.Sprintf("document error during %s: %v", e.Operation, e.Cause)
	default:
		msg = fmt.Sprintf("document error during %s", e.Operation)
	}
	if e.Hint != "" {
		msg += " (" + e.Hint + ")"
	}
	return msg
}

func (e *DocumentError) Unwrap() error {
	return e.Cause
}

// NewDocumentError creates a new document error
func NewDocumentError(operation, path string, cause error) error {
	return &DocumentError{
		Operation: operation,
		Path:      path,
		Cause:     cause,
	}
}

// RenderError is returned when filling a template part fails.
type RenderError struct {
	Part  string
	Cause error
	Hint  string
}

func (e *RenderError) Error() string {
	msg := "render error"
	if e.Part != "" {
		msg += " in " + e.Part
	}
	msg += ": " + e.Cause.Error()
	if e.Hint != "" {
		msg += "\n" + e.Hint
	}
	return msg
}

func (e *RenderError) Unwrap() error {
	return e.Cause
}

// ConvertError is returned when converting a filled document to another
// format fails.
type ConvertError struct {
	Format Format
	Stage  string
	Cause  error
}

func (e *ConvertError) Error() string {
	return fmt.Sprintf("convert to %s failed during %s: %v", e.Format, e.Stage, e.Cause)
}

func (e *ConvertError) Unwrap() error {
	return e.Cause
}

// MultiError collects multiple errors
type MultiError struct {
	errors []error
}

// NewMultiError creates a new multi-error collector
func NewMultiError() *MultiError {
	return &MultiError{
		errors: make([]error, 0),
	}
}

// Add adds an error to the collection (ignores nil errors)
func (m *MultiError) Add(err error) {
	if err != nil {
		m.errors = append(m.errors, err)
	}
}

// Len returns the number of errors
func (m *MultiError) Len() int {
	return len(m.errors)
}

// Err returns the multi-error or nil if empty
func (m *MultiError) Err() error {
	if len(m.errors) == 0 {
		return nil
	}
	if len(m.errors) == 1 {
		return m.errors[0]
	}
	return m
}

func (m *MultiError) Error() string {
	if len(m.errors) == 0 {
		return "no errors"
	}
	if len(m.errors) == 1 {
		return m.errors[0].Error()
	}

	parts := []string{fmt.Sprintf("%d errors occurred:", len(m.errors))}
	for i, err := range m.errors {
		parts = append(parts, fmt.Sprintf("  [%d] %v", i+1, err))
	}
	return strings.Join(parts, "\n")
}

// Unwrap exposes the collected errors to errors.Is and errors.As.
func (m *MultiError) Unwrap() []error {
	return m.errors
}

// ContextError adds context to an existing error
type ContextError struct {
	Operation string
	Context   map[string]interface{}
	Cause     error
}

func (e *ContextError) Error() string {
	var contextParts []string
	for k, v := range e.Context {
		contextParts = append(contextParts, fmt.Sprintf("%s=%v", k, v))
	}

	if len(contextParts) > 0 {
		return fmt.Sprintf("%s [%s]: %v", e.Operation, strings.Join(contextParts, ", "), e.Cause)
	}
	return fmt.Sprintf("%s: %v", e.Operation, e.Cause)
}

func (e *ContextError) Unwrap() error {
	return e.Cause
}

// WithContext wraps an error with additional context
func WithContext(err error, operation string, context map[string]interface{}) error {
	if err == nil {
		return nil
	}
	return &ContextError{
		Operation: operation,
		Context:   context,
		Cause:     err,
	}
}

// IsDocumentError checks if err is or wraps a document error
func IsDocumentError(err error) bool {
	var target *DocumentError
	return errors.As(err, &target)
}

// IsRenderError checks if err is or wraps a render error
func IsRenderError(err error) bool {
	var target *RenderError
	return errors.As(err, &target)
}

// IsConvertError checks if err is or wraps a conversion error
func IsConvertError(err error) bool {
	var target *ConvertError
	return errors.As(err, &target)
}

// IsUnterminatedPlaceholder checks if err is or wraps an unterminated placeholder error
func IsUnterminatedPlaceholder(err error) bool {
	var target *UnterminatedPlaceholderError
	return errors.As(err, &target)
}
