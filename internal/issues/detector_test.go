package issues

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/freightdesk/podrec/constants"
	"github.com/freightdesk/podrec/internal/fields"
	"github.com/freightdesk/podrec/internal/manifest"
)

func detect(t *testing.T, text string, rec manifest.Record) []Issue {
	t.Helper()
	return NewDetector(Options{}).Detect(fields.Parse(text, nil), rec)
}

func TestDetectCleanDocument(t *testing.T) {
	rec := manifest.Record{
		InvoiceNumber: "12345",
		Date:          "2024-01-15",
		Customer:      "ACME Corporation",
	}
	got := detect(t, "Delivered to ACME CORPORATION on 15/01/2024\nReceived by driver", rec)
	assert.Empty(t, got)
}

func TestDetectMissingDate(t *testing.T) {
	rec := manifest.Record{InvoiceNumber: "12345", Date: "2024-01-15", Customer: "ACME Corporation"}
	got := detect(t, "Delivered to ACME CORPORATION\nReceived by driver", rec)

	require.Len(t, got, 1)
	assert.Equal(t, TypeDateMissing, got[0].Type)
	assert.Equal(t, constants.SeverityMedium, got[0].Severity)
	assert.Equal(t, "2024-01-15", got[0].Expected)
	assert.Equal(t, "Not found", got[0].Found)
	assert.Equal(t, "12345", got[0].DeliveryID)
	assert.True(t, got[0].NeedsAction())
}

func TestDetectDateMismatchSeverity(t *testing.T) {
	rec := manifest.Record{Date: "2024-01-15", Customer: "ACME Corporation"}

	// 5 days out: past tolerance, inside the severe gap.
	got := detect(t, "ACME CORPORATION delivery signed 20/01/2024", rec)
	require.Len(t, got, 1)
	assert.Equal(t, TypeDateMismatch, got[0].Type)
	assert.Equal(t, constants.SeverityMedium, got[0].Severity)
	assert.Equal(t, "Date differs by 5 days", got[0].Details)
	assert.Equal(t, "2024-01-20", got[0].Found)

	// 10 days out: severe.
	got = detect(t, "ACME CORPORATION delivery signed 25/01/2024", rec)
	require.Len(t, got, 1)
	assert.Equal(t, constants.SeverityHigh, got[0].Severity)
	assert.Equal(t, "Date differs by 10 days", got[0].Details)
}

func TestDetectDateWithinTolerance(t *testing.T) {
	rec := manifest.Record{Date: "2024-01-15", Customer: "ACME Corporation"}
	got := detect(t, "ACME CORPORATION delivery signed 17/01/2024", rec)
	assert.Empty(t, got)
}

func TestDetectUnparseableManifestDateSkipsDateCheck(t *testing.T) {
	rec := manifest.Record{Date: "", Customer: "ACME Corporation"}
	got := detect(t, "ACME CORPORATION delivery signed by driver", rec)
	assert.Empty(t, got)
}

func TestDetectCustomerMismatch(t *testing.T) {
	rec := manifest.Record{Date: "2024-01-15", Customer: "Zenith Freight Partners"}
	got := detect(t, "goods accepted and signed on 15/01/2024", rec)

	require.Len(t, got, 1)
	assert.Equal(t, TypeCustomerMismatch, got[0].Type)
	assert.Equal(t, constants.SeverityHigh, got[0].Severity)
	assert.Equal(t, "ZENITH FREIGHT PARTNERS", got[0].Expected)
	assert.Contains(t, got[0].Details, "Best match:")
	assert.Contains(t, got[0].Found, "No match found")
}

func TestDetectCustomerExactContainmentPasses(t *testing.T) {
	rec := manifest.Record{Date: "2024-01-15", Customer: "acme corporation"}
	got := detect(t, "Delivered to ACME CORPORATION signed 15/01/2024", rec)
	assert.Empty(t, got)
}

func TestDetectCustomerNearMatchPasses(t *testing.T) {
	// One dropped letter still clears the fuzzy threshold.
	rec := manifest.Record{Date: "2024-01-15", Customer: "ACME Corporation"}
	got := detect(t, "Delivered to ACME CORPORTION signed 15/01/2024", rec)
	assert.Empty(t, got)
}

func TestDetectStampCheck(t *testing.T) {
	rec := manifest.Record{Date: "2024-01-15", Customer: "ACME Corporation"}
	got := detect(t, "ACME CORPORATION delivery completed 15/01/2024", rec)

	require.Len(t, got, 1)
	assert.Equal(t, TypeStampCheck, got[0].Type)
	assert.Equal(t, constants.SeverityLow, got[0].Severity)
	assert.Equal(t, "No signature markers detected", got[0].Details)
	assert.False(t, got[0].NeedsAction())
}

func TestDetectFailedExtraction(t *testing.T) {
	rec := manifest.Record{InvoiceNumber: "12345", Date: "2024-01-15", Customer: "ACME Corporation"}
	got := NewDetector(Options{}).Detect(fields.Parse("", nil), rec)
	assert.Nil(t, got)
}

func TestSort(t *testing.T) {
	list := []Issue{
		{DeliveryID: "B", Severity: constants.SeverityLow},
		{DeliveryID: "C", Severity: constants.SeverityHigh},
		{DeliveryID: "A", Severity: constants.SeverityMedium},
		{DeliveryID: "A", Severity: constants.SeverityHigh},
	}
	Sort(list)

	assert.Equal(t, []Issue{
		{DeliveryID: "A", Severity: constants.SeverityHigh},
		{DeliveryID: "C", Severity: constants.SeverityHigh},
		{DeliveryID: "A", Severity: constants.SeverityMedium},
		{DeliveryID: "B", Severity: constants.SeverityLow},
	}, list)
}

func TestCounts(t *testing.T) {
	list := []Issue{
		{Type: TypeDateMismatch, Severity: constants.SeverityHigh},
		{Type: TypeDateMismatch, Severity: constants.SeverityMedium},
		{Type: TypeStampCheck, Severity: constants.SeverityLow},
	}
	bySeverity, byType := Counts(list)

	assert.Equal(t, map[constants.Severity]int{
		constants.SeverityHigh:   1,
		constants.SeverityMedium: 1,
		constants.SeverityLow:    1,
	}, bySeverity)
	assert.Equal(t, map[string]int{TypeDateMismatch: 2, TypeStampCheck: 1}, byType)
}
