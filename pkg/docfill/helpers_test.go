package docfill

import (
	"archive/zip"
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const wordNS = "http://schemas.openxmlformats.org/wordprocessingml/2006/main"

// documentXML wraps paragraphs in a minimal document part.
func documentXML(paragraphs ...string) string {
	return fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8" standalone="yes"?>`+
		`<w:document xmlns:w="%s"><w:body>%s</w:body></w:document>`, wordNS, strings.Join(paragraphs, ""))
}

// headerXML wraps paragraphs in a header or footer part.
func headerXML(root string, paragraphs ...string) string {
	return fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8" standalone="yes"?>`+
		`<w:%s xmlns:w="%s">%s</w:%s>`, root, wordNS, strings.Join(paragraphs, ""), root)
}

// para builds a paragraph with one run per text; each text becomes its own
// <w:t>, the way Word splits a placeholder that was edited in pieces.
func para(texts ...string) string {
	var b strings.Builder
	b.WriteString("<w:p>")
	for _, text := range texts {
		b.WriteString(`<w:r><w:t xml:space="preserve">` + text + `</w:t></w:r>`)
	}
	b.WriteString("</w:p>")
	return b.String()
}

// createTestDocx builds a DOCX package in memory. extra adds or overrides parts.
func createTestDocx(t *testing.T, document string, extra map[string]string) []byte {
	t.Helper()

	parts := map[string]string{
		"[Content_Types].xml": `<?xml version="1.0" encoding="UTF-8"?>` +
			`<Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types">` +
			`<Default Extension="xml" ContentType="application/xml"/></Types>`,
		"_rels/.rels": `<?xml version="1.0" encoding="UTF-8"?>` +
			`<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">` +
			`<Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/officeDocument" Target="word/document.xml"/>` +
			`</Relationships>`,
		DocumentPart: document,
	}
	for name, content := range extra {
		parts[name] = content
	}

	// deterministic order with the document after the package metadata
	order := []string{"_rels/.rels", "[Content_Types].xml", DocumentPart}
	for name := range extra {
		if name != DocumentPart && name != "_rels/.rels" && name != "[Content_Types].xml" {
			order = append(order, name)
		}
	}

	buf := new(bytes.Buffer)
	w := zip.NewWriter(buf)
	for _, name := range order {
		f, err := w.Create(name)
		if err != nil {
			t.Fatal(err)
		}
		if _, err := f.Write([]byte(parts[name])); err != nil {
			t.Fatal(err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

// writeTemplate writes a test DOCX into dir and returns its path.
func writeTemplate(t *testing.T, dir, name, document string, extra map[string]string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, createTestDocx(t, document, extra), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

// readPart returns one part of a generated DOCX.
func readPart(t *testing.T, docx []byte, part string) string {
	t.Helper()
	dr, err := NewDocxReaderFromBytes(docx)
	if err != nil {
		t.Fatalf("generated package is not a valid DOCX: %v", err)
	}
	content, err := dr.GetPart(part)
	if err != nil {
		t.Fatal(err)
	}
	return string(content)
}
