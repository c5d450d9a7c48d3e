package docfill

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/benjaminschreck/go-docfill/pkg/docfill/render"
)

func TestDocumentError(t *testing.T) {
	tests := []struct {
		name string
		err  *DocumentError
		want string
	}{
		{
			name: "path and cause",
			err:  &DocumentError{Operation: "validate", Path: "a.docx", Cause: errors.New("bad")},
			want: "document error during validate of 'a.docx': bad",
		},
		{
			name: "with hint",
			err:  &DocumentError{Operation: "parse", Path: "a.docx", Cause: errors.New("bad"), Hint: HintResaveTemplate},
			want: "document error during parse of 'a.docx': bad (" + HintResaveTemplate + ")",
		},
		{
			name: "cause only",
			err:  &DocumentError{Operation: "read", Cause: errors.New("eof")},
			want: "document error during read: eof",
		},
		{
			name: "operation only",
			err:  &DocumentError{Operation: "open"},
			want: "document error during open",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("Error() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestRenderError(t *testing.T) {
	cause := &render.MissingValueError{Names: []string{"rent"}}
	err := &RenderError{Part: DocumentPart, Cause: cause, Hint: HintCheckData}

	msg := err.Error()
	if !strings.Contains(msg, "word/document.xml") || !strings.Contains(msg, "rent") || !strings.Contains(msg, HintCheckData) {
		t.Errorf("unexpected message %q", msg)
	}

	var missing *render.MissingValueError
	if !errors.As(err, &missing) {
		t.Error("RenderError should unwrap to its cause")
	}
}

func TestErrorPredicates(t *testing.T) {
	unterminated := &UnterminatedPlaceholderError{Offset: 3, Fragment: "{{x"}

	wrapped := fmt.Errorf("outer: %w", WithContext(unterminated, "normalize", map[string]interface{}{"part": "p"}))
	if !IsUnterminatedPlaceholder(wrapped) {
		t.Error("IsUnterminatedPlaceholder should see through wrapping")
	}
	if IsDocumentError(wrapped) || IsRenderError(wrapped) || IsConvertError(wrapped) {
		t.Error("unrelated predicates matched")
	}
	if !IsConvertError(&ConvertError{Format: FormatPDF, Stage: "chrome", Cause: errors.New("x")}) {
		t.Error("IsConvertError() = false")
	}
}

func TestMultiError(t *testing.T) {
	m := NewMultiError()
	if m.Err() != nil {
		t.Error("empty MultiError should return nil")
	}

	docErr := NewDocumentError("open", "a.docx", errors.New("gone"))
	m.Add(nil)
	m.Add(docErr)
	if m.Err() != docErr {
		t.Error("single error should be returned as is")
	}

	m.Add(errors.New("second"))
	if m.Len() != 2 {
		t.Errorf("Len() = %d, want 2", m.Len())
	}
	if !strings.Contains(m.Error(), "2 errors occurred") {
		t.Errorf("Error() = %q", m.Error())
	}
	if !IsDocumentError(m.Err()) {
		t.Error("MultiError should expose its errors to errors.As")
	}
}

func TestWithContext(t *testing.T) {
	if WithContext(nil, "op", nil) != nil {
		t.Error("WithContext(nil) should be nil")
	}
	err := WithContext(errors.New("boom"), "generate", map[string]interface{}{"index": 2})
	if err.Error() != "generate [index=2]: boom" {
		t.Errorf("Error() = %q", err.Error())
	}
}
