package docfill

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// DefaultFilenameLabel is used by SavePath when label is empty.
const DefaultFilenameLabel = "Lease"

// SavePath picks the output file for a report:
//
//	<baseDir>/<docType>/<docType>_<label>_<n>.<format>
//
// n starts at the number of *.<format> files already in the folder plus one
// and is bumped until the name is free. The folder is created.
func SavePath(baseDir, docType, format, label string) (string, error) {
	docType = strings.TrimSpace(docType)
	if docType == "" {
		return "", errors.New("document type cannot be empty")
	}
	if strings.ContainsAny(docType, `/\`) || docType == "." || docType == ".." {
		return "", fmt.Errorf("invalid document type %q", docType)
	}
	format = strings.TrimPrefix(strings.ToLower(strings.TrimSpace(format)), ".")
	if format == "" {
		return "", errors.New("format cannot be empty")
	}
	if label == "" {
		label = DefaultFilenameLabel
	}

	folder := filepath.Join(baseDir, docType)
	if err := os.MkdirAll(folder, 0o755); err != nil {
		return "", fmt.Errorf("failed to create output folder: %w", err)
	}

	existing, err := doublestar.Glob(os.DirFS(folder), "*."+format)
	if err != nil {
		return "", fmt.Errorf("failed to list output folder: %w", err)
	}

	for n := len(existing) + 1; ; n++ {
		name := fmt.Sprintf("%s_%s_%d.%s", docType, label, n, format)
		candidate := filepath.Join(folder, name)
		_, err := os.Stat(candidate)
		if errors.Is(err, os.ErrNotExist) {
			return candidate, nil
		}
		if err != nil {
			return "", fmt.Errorf("failed to check %s: %w", candidate, err)
		}
	}
}
