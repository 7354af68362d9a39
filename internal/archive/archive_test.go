package archive

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/freightdesk/podrec/constants"
	"github.com/freightdesk/podrec/internal/ingest"
	"github.com/freightdesk/podrec/internal/manifest"
)

var fixedNow = time.Date(2024, time.March, 10, 12, 0, 0, 0, time.UTC)

func newTestArchiver(root string, opts Options) *Archiver {
	a := NewArchiver(root, opts, nil)
	a.now = func() time.Time { return fixedNow }
	return a
}

func TestParseMode(t *testing.T) {
	for _, valid := range []string{"by-date", "by-customer", "by-status"} {
		m, err := ParseMode(valid)
		require.NoError(t, err)
		assert.Equal(t, Mode(valid), m)
	}
	_, err := ParseMode("by-vibes")
	assert.Error(t, err)
}

func TestDestinationByDate(t *testing.T) {
	a := newTestArchiver("/archive", Options{
		Mode: ModeByDate,
		Records: map[string]manifest.Record{
			"12345": {InvoiceNumber: "12345", Date: "2024-01-15"},
		},
	})
	doc := ingest.Document{Name: "12345.pdf", FileID: "12345", ModTime: fixedNow}

	assert.Equal(t, filepath.Join("/archive", "2024", "01", "15", "12345.pdf"), a.Destination(doc))
}

func TestDestinationByDateFallsBackToModTime(t *testing.T) {
	a := newTestArchiver("/archive", Options{Mode: ModeByDate})
	doc := ingest.Document{
		Name:    "unknown.pdf",
		FileID:  "unknown",
		ModTime: time.Date(2023, time.December, 31, 8, 0, 0, 0, time.UTC),
	}

	assert.Equal(t, filepath.Join("/archive", "2023", "12", "31", "unknown.pdf"), a.Destination(doc))
}

func TestDestinationByCustomer(t *testing.T) {
	a := newTestArchiver("/archive", Options{
		Mode: ModeByCustomer,
		Records: map[string]manifest.Record{
			"12345": {InvoiceNumber: "12345", Customer: "ACME, Inc.", Date: "2024-01-15"},
		},
	})
	doc := ingest.Document{Name: "12345.pdf", FileID: "12345"}

	assert.Equal(t, filepath.Join("/archive", "ACME Inc", "2024-01", "12345.pdf"), a.Destination(doc))
}

func TestDestinationByCustomerUnknown(t *testing.T) {
	a := newTestArchiver("/archive", Options{Mode: ModeByCustomer})
	doc := ingest.Document{Name: "x.pdf", FileID: "x"}

	assert.Equal(t, filepath.Join("/archive", "Unknown", "2024-03", "x.pdf"), a.Destination(doc))
}

func TestDestinationByStatus(t *testing.T) {
	statuses := map[string]constants.ResolutionStatus{
		"closed":  constants.ResolutionClosed,
		"ready":   constants.ResolutionReadyToClose,
		"issues":  constants.ResolutionHasIssues,
		"pending": constants.ResolutionPendingPOD,
	}
	a := newTestArchiver("/archive", Options{Mode: ModeByStatus, Statuses: statuses})

	tests := []struct {
		fileID string
		bucket string
	}{
		{"closed", "Completed"},
		{"ready", "Completed"},
		{"issues", "Issues"},
		{"pending", "Pending"},
		{"nosuch", "Unknown"},
	}
	for _, tt := range tests {
		doc := ingest.Document{Name: tt.fileID + ".pdf", FileID: tt.fileID}
		assert.Equal(t,
			filepath.Join("/archive", tt.bucket, "2024-03", tt.fileID+".pdf"),
			a.Destination(doc))
	}
}

func TestSanitizeFolderName(t *testing.T) {
	assert.Equal(t, "ACME Inc", sanitizeFolderName(" ACME, Inc. "))
	assert.Equal(t, "AB-C_D", sanitizeFolderName(`A/B-C_D\`))
	assert.Equal(t, "", sanitizeFolderName("..."))
	long := sanitizeFolderName("A Very Long Customer Name That Keeps Going And Going And Going")
	assert.Len(t, long, 50)
}

func writeTestFile(t *testing.T, dir, name string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte("pod content"), 0o644))
	return path
}

func TestRunDryRun(t *testing.T) {
	src := t.TempDir()
	root := t.TempDir()
	path := writeTestFile(t, src, "12345.pdf")

	a := newTestArchiver(root, Options{Mode: ModeByDate, DryRun: true})
	entries, failures := a.Run([]ingest.Document{{Path: path, Name: "12345.pdf", FileID: "12345", ModTime: fixedNow}})

	require.Empty(t, failures)
	require.Len(t, entries, 1)
	assert.Equal(t, "Would move", entries[0].Action)
	assert.FileExists(t, path)
	assert.NoDirExists(t, filepath.Join(root, "2024"))
}

func TestRunDryRunCopy(t *testing.T) {
	src := t.TempDir()
	path := writeTestFile(t, src, "12345.pdf")

	a := newTestArchiver(t.TempDir(), Options{Mode: ModeByDate, DryRun: true, Copy: true})
	entries, failures := a.Run([]ingest.Document{{Path: path, Name: "12345.pdf", FileID: "12345", ModTime: fixedNow}})

	require.Empty(t, failures)
	require.Len(t, entries, 1)
	assert.Equal(t, "Would copy", entries[0].Action)
}

func TestRunCopy(t *testing.T) {
	src := t.TempDir()
	root := t.TempDir()
	path := writeTestFile(t, src, "12345.pdf")

	a := newTestArchiver(root, Options{Mode: ModeByDate, Copy: true})
	entries, failures := a.Run([]ingest.Document{{Path: path, Name: "12345.pdf", FileID: "12345", ModTime: fixedNow}})

	require.Empty(t, failures)
	require.Len(t, entries, 1)
	assert.Equal(t, "Copied", entries[0].Action)
	assert.FileExists(t, path)

	dest := filepath.Join(root, "2024", "03", "10", "12345.pdf")
	assert.Equal(t, dest, entries[0].Destination)
	data, err := os.ReadFile(dest)
	require.NoError(t, err)
	assert.Equal(t, "pod content", string(data))
}

func TestRunMove(t *testing.T) {
	src := t.TempDir()
	root := t.TempDir()
	path := writeTestFile(t, src, "12345.pdf")

	a := newTestArchiver(root, Options{Mode: ModeByDate})
	entries, failures := a.Run([]ingest.Document{{Path: path, Name: "12345.pdf", FileID: "12345", ModTime: fixedNow}})

	require.Empty(t, failures)
	require.Len(t, entries, 1)
	assert.Equal(t, "Moved", entries[0].Action)
	assert.NoFileExists(t, path)
	assert.FileExists(t, filepath.Join(root, "2024", "03", "10", "12345.pdf"))
}

func TestRunCollectsFailures(t *testing.T) {
	src := t.TempDir()
	root := t.TempDir()
	good := writeTestFile(t, src, "good.pdf")
	missing := filepath.Join(src, "missing.pdf")

	a := newTestArchiver(root, Options{Mode: ModeByDate, Copy: true})
	entries, failures := a.Run([]ingest.Document{
		{Path: missing, Name: "missing.pdf", FileID: "missing", ModTime: fixedNow},
		{Path: good, Name: "good.pdf", FileID: "good", ModTime: fixedNow},
	})

	require.Len(t, failures, 1)
	assert.Equal(t, "missing", failures[0].DeliveryID)
	assert.Error(t, failures[0].Err)
	require.Len(t, entries, 1)
	assert.Equal(t, "good", entries[0].DeliveryID)
}
