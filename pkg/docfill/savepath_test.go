package docfill

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSavePath(t *testing.T) {
	base := t.TempDir()

	first, err := SavePath(base, "lease", "pdf", "")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(base, "lease", "lease_Lease_1.pdf"), first)

	info, err := os.Stat(filepath.Join(base, "lease"))
	require.NoError(t, err)
	assert.True(t, info.IsDir())

	// not written yet, so the same name comes back
	again, err := SavePath(base, "lease", "pdf", "")
	require.NoError(t, err)
	assert.Equal(t, first, again)

	require.NoError(t, os.WriteFile(first, []byte("x"), 0o644))
	second, err := SavePath(base, "lease", ".PDF", "")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(base, "lease", "lease_Lease_2.pdf"), second)

	// other formats do not count
	docx, err := SavePath(base, "lease", "docx", "Contract")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(base, "lease", "lease_Contract_1.docx"), docx)
}

func TestSavePath_BumpsPastExisting(t *testing.T) {
	base := t.TempDir()
	folder := filepath.Join(base, "lease")
	require.NoError(t, os.MkdirAll(folder, 0o755))

	// one pdf present, but its name is the one the count would pick next
	require.NoError(t, os.WriteFile(filepath.Join(folder, "lease_Lease_2.pdf"), []byte("x"), 0o644))

	got, err := SavePath(base, "lease", "pdf", "Lease")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(folder, "lease_Lease_3.pdf"), got)
}

func TestSavePath_Invalid(t *testing.T) {
	base := t.TempDir()
	for _, tc := range []struct{ docType, format string }{
		{"", "pdf"},
		{"../escape", "pdf"},
		{"..", "pdf"},
		{"lease", ""},
	} {
		_, err := SavePath(base, tc.docType, tc.format, "")
		assert.Error(t, err, "SavePath(%q, %q)", tc.docType, tc.format)
	}
}
