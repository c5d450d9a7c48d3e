package docfill

import (
	"archive/zip"
	"bytes"
	"fmt"
	"io"
	"sort"

	"github.com/bmatcuk/doublestar/v4"
)

const (
	// DocumentPart is the main body part of a DOCX package.
	DocumentPart = "word/document.xml"

	contentTypesPart    = "[Content_Types].xml"
	headerFooterPattern = "word/{header,footer}*.xml"
)

// DocxReader handles reading DOCX packages
type DocxReader struct {
	reader *zip.Reader
	Parts  map[string]*zip.File
}

// NewDocxReader creates a new DOCX reader
func NewDocxReader(r io.ReaderAt, size int64) (*DocxReader, error) {
	zipReader, err := zip.NewReader(r, size)
	if err != nil {
		return nil, fmt.Errorf("failed to read zip file: %w", err)
	}

	dr := &DocxReader{
		reader: zipReader,
		Parts:  make(map[string]*zip.File),
	}

	for _, file := range zipReader.File {
		dr.Parts[file.Name] = file
	}

	if _, ok := dr.Parts[DocumentPart]; !ok {
		return nil, fmt.Errorf("not a valid DOCX file: missing %s", DocumentPart)
	}

	return dr, nil
}

// NewDocxReaderFromBytes creates a DOCX reader over an in-memory package.
func NewDocxReaderFromBytes(content []byte) (*DocxReader, error) {
	return NewDocxReader(bytes.NewReader(content), int64(len(content)))
}

// GetPart retrieves the content of a specific part
func (dr *DocxReader) GetPart(partName string) ([]byte, error) {
	file, ok := dr.Parts[partName]
	if !ok {
		return nil, fmt.Errorf("part %s not found", partName)
	}

	rc, err := file.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open part %s: %w", partName, err)
	}
	defer rc.Close()

	content, err := io.ReadAll(rc)
	if err != nil {
		return nil, fmt.Errorf("failed to read part %s: %w", partName, err)
	}

	return content, nil
}

// ListParts returns a list of all part names in the DOCX
func (dr *DocxReader) ListParts() []string {
	parts := make([]string, 0, len(dr.Parts))
	for name := range dr.Parts {
		parts = append(parts, name)
	}
	sort.Strings(parts)
	return parts
}

// TemplateParts returns the parts that may hold placeholders: the document
// body first, then headers and footers in name order.
func (dr *DocxReader) TemplateParts() []string {
	parts := []string{DocumentPart}
	for _, name := range dr.ListParts() {
		if ok, _ := doublestar.Match(headerFooterPattern, name); ok {
			parts = append(parts, name)
		}
	}
	return parts
}

// WriteDocx writes a copy of the package with the given parts replaced.
// [Content_Types].xml goes first; the other parts keep their source order
// and compression methods.
func (dr *DocxReader) WriteDocx(w io.Writer, replacements map[string][]byte) error {
	zw := zip.NewWriter(w)

	for _, file := range dr.orderedFiles() {
		header := &zip.FileHeader{
			Name:     file.Name,
			Method:   file.Method,
			Modified: file.Modified,
		}
		fw, err := zw.CreateHeader(header)
		if err != nil {
			return fmt.Errorf("failed to create %s: %w", file.Name, err)
		}

		if content, ok := replacements[file.Name]; ok {
			if _, err := fw.Write(content); err != nil {
				return fmt.Errorf("failed to write %s: %w", file.Name, err)
			}
			continue
		}

		fr, err := file.Open()
		if err != nil {
			return fmt.Errorf("failed to open %s: %w", file.Name, err)
		}
		_, err = io.Copy(fw, fr)
		fr.Close()
		if err != nil {
			return fmt.Errorf("failed to copy %s: %w", file.Name, err)
		}
	}

	if err := zw.Close(); err != nil {
		return fmt.Errorf("failed to close zip writer: %w", err)
	}
	return nil
}

func (dr *DocxReader) orderedFiles() []*zip.File {
	files := make([]*zip.File, 0, len(dr.reader.File))
	if ct, ok := dr.Parts[contentTypesPart]; ok {
		files = append(files, ct)
	}
	for _, file := range dr.reader.File {
		if file.Name != contentTypesPart {
			files = append(files, file)
		}
	}
	return files
}
