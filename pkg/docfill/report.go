package docfill

import (
	"fmt"
	"os"
	"strings"
)

// Format is an output format of a generated report.
type Format string

const (
	FormatDOCX     Format = "docx"
	FormatPDF      Format = "pdf"
	FormatMarkdown Format = "md"
)

// ParseFormat accepts a format name or file extension. The empty string
// means DOCX.
func ParseFormat(s string) (Format, error) {
	switch strings.TrimPrefix(strings.ToLower(strings.TrimSpace(s)), ".") {
	case "", "docx", "word":
		return FormatDOCX, nil
	case "pdf":
		return FormatPDF, nil
	case "md", "markdown":
		return FormatMarkdown, nil
	default:
		return "", fmt.Errorf("unsupported format %q (want docx, pdf or md)", s)
	}
}

// Extension returns the file extension without the dot.
func (f Format) Extension() string {
	return string(f)
}

// ContentType returns the MIME type of the format.
func (f Format) ContentType() string {
	switch f {
	case FormatPDF:
		return "application/pdf"
	case FormatMarkdown:
		return "text/markdown; charset=utf-8"
	default:
		return "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	}
}

// DefaultDocType is the document type used when a request names none.
const DefaultDocType = "lease"

// Request describes one report to generate.
type Request struct {
	TemplatePath string
	FormData     FormData
	Format       Format
	// DocType is the folder and filename prefix used by Report.Save.
	DocType string
}

// Report is a generated document.
type Report struct {
	Format  Format
	DocType string
	Data    []byte
	// Placeholders lists the template placeholders in document order.
	Placeholders []string
	// Values maps each placeholder to the text that was inserted.
	Values      map[string]string
	Diagnostics []Diagnostic
}

// Unresolved returns the placeholders that had no matching form-data key.
func (r *Report) Unresolved() []string {
	var names []string
	for _, d := range FilterDiagnostics(r.Diagnostics, DiagUnresolved) {
		names = append(names, d.Placeholder)
	}
	return names
}

// Save writes the report under baseDir using SavePath and returns the path.
func (r *Report) Save(baseDir, label string) (string, error) {
	docType := r.DocType
	if docType == "" {
		docType = DefaultDocType
	}
	path, err := SavePath(baseDir, docType, r.Format.Extension(), label)
	if err != nil {
		return "", err
	}
	if err := os.WriteFile(path, r.Data, 0o644); err != nil {
		return "", fmt.Errorf("failed to write report: %w", err)
	}
	return path, nil
}
