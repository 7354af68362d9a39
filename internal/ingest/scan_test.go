package ingest

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func touch(t *testing.T, dir, name string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("x"), 0o644))
}

func TestScanFolder(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir, "9354302576.pdf")
	touch(t, dir, "DEL_8800112233.PDF")
	touch(t, dir, "notes.txt")
	require.NoError(t, os.Mkdir(filepath.Join(dir, "subdir"), 0o755))

	docs, err := ScanFolder(dir, nil, nil)
	require.NoError(t, err)
	require.Len(t, docs, 2)

	// Sorted by filename; extension matching is case-insensitive.
	assert.Equal(t, "9354302576.pdf", docs[0].Name)
	assert.Equal(t, "9354302576", docs[0].FileID)
	assert.Equal(t, filepath.Join(dir, "9354302576.pdf"), docs[0].Path)
	assert.False(t, docs[0].ModTime.IsZero())

	assert.Equal(t, "DEL_8800112233.PDF", docs[1].Name)
	assert.Equal(t, "8800112233", docs[1].FileID)
}

func TestScanFolderCustomExtensions(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir, "scan.tiff")
	touch(t, dir, "doc.pdf")

	docs, err := ScanFolder(dir, []string{".tiff"}, nil)
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Equal(t, "scan.tiff", docs[0].Name)
}

func TestScanFolderMissing(t *testing.T) {
	_, err := ScanFolder(filepath.Join(t.TempDir(), "nope"), nil, nil)
	assert.Error(t, err)
}

func TestByID(t *testing.T) {
	docs := []Document{
		{Name: "a.pdf", FileID: "111"},
		{Name: "b.pdf", FileID: "111"},
		{Name: "c.pdf", FileID: ""},
	}
	m := ByID(docs)
	require.Len(t, m, 1)
	assert.Equal(t, "b.pdf", m["111"].Name)
}

func TestIDs(t *testing.T) {
	docs := []Document{{FileID: "111"}, {FileID: "222"}}
	assert.Equal(t, []string{"111", "222"}, IDs(docs))
}
