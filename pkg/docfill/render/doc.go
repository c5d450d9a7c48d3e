// Package render provides the pure markup helpers used to fill DOCX templates.
//
// Everything in this package works on the raw WordprocessingML text of a
// template part (word/document.xml, headers, footers) and never touches the
// zip container, the form data or the logger. The functions are synchronous,
// hold no shared state and can be called from any number of goroutines.
//
// # Structure Organization
//
//   - scan.go: locating <w:t> text elements inside a markup string
//   - merge.go: Merge / MergeLenient, repairing placeholders that Word split
//     across several runs
//   - extract.go: Extract, listing the unique placeholder names of a part
//   - fill.go: Fill, substituting resolved values into placeholder slots
//
// # Run Merging
//
// Word frequently splits a typed placeholder into several runs, for example
// when spell checking or a formatting change happens mid-token:
//
//	<w:r><w:t>Hello {{na</w:t></w:r><w:r><w:rPr><w:b/></w:rPr><w:t>me}}!</w:t></w:r>
//
// Merge rewrites this into a single text element that keeps the attributes of
// the element where the token started:
//
//	<w:r><w:t>Hello {{name}}!</w:t></w:r>
//
// All markup outside the merged region is preserved byte for byte.
//
// # Delimiters
//
// OpenDelim and CloseDelim are a fixed contract shared by every stage of the
// pipeline. They are not configurable.
package render
