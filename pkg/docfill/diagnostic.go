package docfill

import "fmt"

// DiagnosticCode classifies a non-fatal problem found while generating a report.
type DiagnosticCode int

const (
	// DiagUnresolved: a placeholder had no matching form-data key and was left blank.
	DiagUnresolved DiagnosticCode = iota
	// DiagUnterminated: an unclosed placeholder was merged up to the end of a part.
	DiagUnterminated
	// DiagConversion: the document converter skipped or approximated content.
	DiagConversion
)

func (c DiagnosticCode) String() string {
	switch c {
	case DiagUnresolved:
		return "unresolved"
	case DiagUnterminated:
		return "unterminated"
	case DiagConversion:
		return "conversion"
	default:
		return "unknown"
	}
}

// Diagnostic is a warning returned alongside a result instead of being
// written to a global log.
type Diagnostic struct {
	Code        DiagnosticCode
	Placeholder string
	Message     string
	// Keys lists the available form-data keys for DiagUnresolved.
	Keys []string
}

func (d Diagnostic) String() string {
	if d.Placeholder != "" {
		return fmt.Sprintf("%s: %s (%s)", d.Code, d.Message, d.Placeholder)
	}
	return fmt.Sprintf("%s: %s", d.Code, d.Message)
}

// FilterDiagnostics returns the diagnostics carrying code.
func FilterDiagnostics(diags []Diagnostic, code DiagnosticCode) []Diagnostic {
	var out []Diagnostic
	for _, d := range diags {
		if d.Code == code {
			out = append(out, d)
		}
	}
	return out
}
