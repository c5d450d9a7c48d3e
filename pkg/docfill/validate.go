package docfill

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
)

// MinTemplateSize is the smallest file accepted as a template. Anything
// smaller cannot be a DOCX package.
const MinTemplateSize = 100

var zipSignature = []byte{'P', 'K', 0x03, 0x04}

// ValidateTemplateFile runs the structural checks on a template before any
// work is done: the file exists, is a regular file of a plausible size and
// starts with a zip local file header. It returns the file info on success.
func ValidateTemplateFile(path string) (os.FileInfo, error) {
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, NewDocumentError("lookup", path, errors.New("template not found"))
		}
		return nil, NewDocumentError("lookup", path, err)
	}

	if !info.Mode().IsRegular() || info.Size() < MinTemplateSize {
		return nil, &DocumentError{
			Operation: "validate",
			Path:      path,
			Cause:     fmt.Errorf("template appears invalid or too small (size=%d)", info.Size()),
			Hint:      HintResaveTemplate,
		}
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, NewDocumentError("open", path, err)
	}
	defer f.Close()

	header := make([]byte, len(zipSignature))
	if _, err := io.ReadFull(f, header); err != nil {
		return nil, &DocumentError{Operation: "validate", Path: path, Cause: err, Hint: HintResaveTemplate}
	}
	if !bytes.Equal(header, zipSignature) {
		return nil, &DocumentError{
			Operation: "validate",
			Path:      path,
			Cause:     errors.New("file does not appear to be a ZIP archive (missing PK header)"),
			Hint:      HintResaveTemplate,
		}
	}

	return info, nil
}

// OpenTemplate validates and opens a template package from disk.
func OpenTemplate(path string) (*DocxReader, []byte, error) {
	if _, err := ValidateTemplateFile(path); err != nil {
		return nil, nil, err
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, NewDocumentError("read", path, err)
	}

	reader, err := NewDocxReaderFromBytes(content)
	if err != nil {
		return nil, nil, &DocumentError{Operation: "parse", Path: path, Cause: err, Hint: HintResaveTemplate}
	}
	return reader, content, nil
}
