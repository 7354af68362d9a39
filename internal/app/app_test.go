package app

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/freightdesk/podrec/constants"
	"github.com/freightdesk/podrec/internal/common"
	"github.com/freightdesk/podrec/internal/issues"
	"github.com/freightdesk/podrec/internal/report"
)

func writeManifestFile(t *testing.T, rows [][]string) string {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()

	sheet := f.GetSheetName(0)
	headers := []string{"Invoice Number", "Delivery ID", "Delivery Date", "Customer Name", "Status"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		require.NoError(t, f.SetCellValue(sheet, cell, h))
	}
	for r, row := range rows {
		for c, v := range row {
			cell, _ := excelize.CoordinatesToCellName(c+1, r+2)
			require.NoError(t, f.SetCellValue(sheet, cell, v))
		}
	}

	path := filepath.Join(t.TempDir(), "manifest.xlsx")
	require.NoError(t, f.SaveAs(path))
	return path
}

// testConfig wires a manifest, a POD folder and an output folder for one
// run. PODs named after the given ids are created on disk.
func testConfig(t *testing.T, manifestRows [][]string, podNames []string) *common.Config {
	t.Helper()
	podFolder := t.TempDir()
	for _, name := range podNames {
		require.NoError(t, os.WriteFile(filepath.Join(podFolder, name), []byte("pod"), 0o644))
	}

	return &common.Config{
		Paths: common.PathsConfig{
			PODFolder:     podFolder,
			ManifestPath:  writeManifestFile(t, manifestRows),
			OutputFolder:  t.TempDir(),
			ArchiveFolder: t.TempDir(),
		},
		Manifest: common.ManifestConfig{
			Columns:    common.DefaultColumns,
			Extensions: []string{"pdf"},
		},
		Matching: common.MatchingConfig{DateToleranceDays: 2, CustomerMatchThreshold: 80},
	}
}

var testManifestRows = [][]string{
	{"11111111", "", "2024-01-15", "ACME Corporation", ""},
	{"22222222", "", "2024-01-16", "Global Traders", ""},
	{"33333333", "", "2024-01-17", "Zenith Freight", ""},
	{"44444444", "", "2024-01-18", "ACME Corporation", "Closed"},
}

var testPODNames = []string{"11111111.pdf", "33333333.pdf", "44444444.pdf", "99999999.pdf"}

func TestRunCheck(t *testing.T) {
	cfg := testConfig(t, testManifestRows, testPODNames)

	res, err := RunCheck(context.Background(), cfg, CheckOptions{}, nil)
	require.NoError(t, err)

	assert.Equal(t, 3, res.Present)
	assert.Equal(t, 1, res.Missing)
	assert.Equal(t, 1, res.Extra)
	assert.Empty(t, res.MatchPaths)

	require.Contains(t, res.ReportPaths, "xlsx")
	for _, path := range res.ReportPaths {
		assert.FileExists(t, path)
	}
}

func TestRunCheckExtraRowLabel(t *testing.T) {
	cfg := testConfig(t, testManifestRows, testPODNames)

	res, err := RunCheck(context.Background(), cfg, CheckOptions{}, nil)
	require.NoError(t, err)

	rows, err := report.ReadSection(res.ReportPaths["xlsx"], ColDeliveryID)
	require.NoError(t, err)

	var extra map[string]string
	for _, row := range rows {
		if row[ColDeliveryID] == "99999999" {
			extra = row
		}
	}
	require.NotNil(t, extra)
	assert.Equal(t, "Extra (No Manifest)", extra[ColStatus])
	assert.Equal(t, "99999999.pdf", extra["Filename"])
	assert.Equal(t, "N/A (not in manifest)", extra["Customer"])
}

func TestRunStatusJoinsReports(t *testing.T) {
	cfg := testConfig(t, testManifestRows, testPODNames)

	check, err := RunCheck(context.Background(), cfg, CheckOptions{}, nil)
	require.NoError(t, err)

	issueList := []issues.Issue{{
		DeliveryID: "33333333",
		Type:       issues.TypeDateMismatch,
		Severity:   constants.SeverityHigh,
		Details:    "Date differs by 10 days",
		Expected:   "2024-01-17",
		Found:      "2024-01-27",
	}}
	issuesPath := filepath.Join(cfg.Paths.OutputFolder, "pod_issues_report.xlsx")
	require.NoError(t, buildIssuesReport(issueList, 3).SaveXLSX(issuesPath))

	res, err := RunStatus(context.Background(), cfg, StatusOptions{
		CheckReportPath:  check.ReportPaths["xlsx"],
		IssuesReportPath: issuesPath,
	}, nil)
	require.NoError(t, err)

	require.Len(t, res.Resolutions, 4)
	byID := map[string]constants.ResolutionStatus{}
	for _, r := range res.Resolutions {
		byID[r.DeliveryID] = r.Status
	}
	assert.Equal(t, constants.ResolutionReadyToClose, byID["11111111"])
	assert.Equal(t, constants.ResolutionPendingPOD, byID["22222222"])
	assert.Equal(t, constants.ResolutionHasIssues, byID["33333333"])
	assert.Equal(t, constants.ResolutionClosed, byID["44444444"])

	assert.Equal(t, 4, res.Summary.Total)
	assert.Equal(t, 3, res.Summary.Received)
	assert.Equal(t, 1, res.Summary.Missing)
	assert.Equal(t, 1, res.Summary.HasIssues)
	assert.Equal(t, 1, res.Summary.ReadyToClose)
	assert.Equal(t, 1, res.Summary.Closed)

	require.Contains(t, res.ReportPaths, "xlsx")
	assert.FileExists(t, res.ReportPaths["xlsx"])
}

func TestRunStatusWithoutUpstreamReports(t *testing.T) {
	cfg := testConfig(t, testManifestRows, testPODNames)

	res, err := RunStatus(context.Background(), cfg, StatusOptions{}, nil)
	require.NoError(t, err)

	for _, r := range res.Resolutions {
		if r.DeliveryID == "44444444" {
			assert.Equal(t, constants.ResolutionClosed, r.Status)
		} else {
			assert.Equal(t, constants.ResolutionUnknown, r.Status)
		}
	}
}

func TestLoadIssuesReportRoundTrip(t *testing.T) {
	issueList := []issues.Issue{
		{
			DeliveryID: "12345",
			Type:       issues.TypeDateMismatch,
			Severity:   constants.SeverityHigh,
			Details:    "Date differs by 10 days",
			Expected:   "2024-01-15",
			Found:      "2024-01-25",
		},
		{
			DeliveryID: "67890",
			Type:       issues.TypeStampCheck,
			Severity:   constants.SeverityLow,
			Details:    "No signature markers detected",
			Expected:   "Signature or stamp",
			Found:      "No signature text found",
		},
	}
	path := filepath.Join(t.TempDir(), "pod_issues_report.xlsx")
	require.NoError(t, buildIssuesReport(issueList, 2).SaveXLSX(path))

	got, err := LoadIssuesReport(path)
	require.NoError(t, err)
	assert.Equal(t, issueList, got)
}

func TestRunCheckMissingManifest(t *testing.T) {
	cfg := testConfig(t, testManifestRows, nil)
	cfg.Paths.ManifestPath = filepath.Join(t.TempDir(), "nope.xlsx")

	_, err := RunCheck(context.Background(), cfg, CheckOptions{}, nil)
	assert.Error(t, err)
}
