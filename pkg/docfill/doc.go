// Package docfill fills Word (DOCX) templates with form data.
//
// Templates carry placeholders written as {{ name }}. Word frequently splits
// such a placeholder across several runs while editing, so a template is
// first normalized: split placeholders are merged back into a single text
// element, then the placeholder names are extracted.
//
// # Quick Start
//
//	engine := docfill.New()
//
//	data, err := docfill.LoadFormData("answers.json")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	report, err := engine.Generate(ctx, docfill.Request{
//	    TemplatePath: "lease.docx",
//	    FormData:     data,
//	    Format:       docfill.FormatPDF,
//	    DocType:      "lease",
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	path, err := report.Save("generated", "Lease")
//
// # Key resolution
//
// Form keys come from an upstream form system and rarely match placeholder
// names verbatim. Each placeholder is looked up under a fixed sequence of
// normalized spellings (exact, lowercase, alphanumeric, camelCase, ...); see
// Resolve. A placeholder with no matching key is left blank and reported as
// a Diagnostic on the Report, never as an error.
//
// # Errors
//
// Structural template problems are *DocumentError values with a remediation
// hint. Fill failures are *RenderError, conversion failures *ConvertError,
// and an opening {{ that is never closed is an *UnterminatedPlaceholderError
// unless Config.AllowUnterminated is set.
//
// # Architecture
//
//   - render: pure markup helpers (run merging, placeholder extraction, slot filling)
//   - convert: DOCX body to HTML and Markdown
//   - pdf: HTML to PDF through headless Chrome or a native canvas fallback
package docfill
