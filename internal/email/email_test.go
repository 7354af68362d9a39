package email

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/freightdesk/podrec/constants"
	"github.com/freightdesk/podrec/internal/issues"
)

var testIssues = []issues.Issue{
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
		Type:       issues.TypeCustomerMismatch,
		Severity:   constants.SeverityMedium,
		Details:    "Best match: 40%",
		Expected:   "ACME CORPORATION",
	},
}

func TestParseTemplate(t *testing.T) {
	for _, valid := range []string{"missing", "quality", "resolution", "summary"} {
		tmpl, ok := ParseTemplate(valid)
		assert.True(t, ok)
		assert.Equal(t, Template(valid), tmpl)
	}
	_, ok := ParseTemplate("casual")
	assert.False(t, ok)
}

func TestParseGroupBy(t *testing.T) {
	for _, valid := range []string{"by-business", "by-type"} {
		g, ok := ParseGroupBy(valid)
		assert.True(t, ok)
		assert.Equal(t, GroupBy(valid), g)
	}
	_, ok := ParseGroupBy("by-driver")
	assert.False(t, ok)
}

func TestRenderQuality(t *testing.T) {
	group := Group{Name: "ACME Corporation", Issues: testIssues}
	draft := Render(TemplateQuality, "Alice", group, SummaryVars{})

	assert.Equal(t, "POD Quality Issues Requiring Attention - 2 Item(s)", draft.Subject)
	assert.Equal(t, 2, draft.IssueCount)
	assert.Contains(t, draft.Body, "Dear Alice,")
	assert.Contains(t, draft.Body, "- Delivery ID: 12345 | Issue: Date Mismatch | Severity: High")
	assert.Contains(t, draft.Body, "- Delivery ID: 67890 | Issue: Customer Mismatch | Severity: Medium")
	assert.Contains(t, draft.Body, "Delivery: 12345")
	assert.Contains(t, draft.Body, "  Found: 2024-01-25")
	assert.Contains(t, draft.Body, "  Found: N/A")
	assert.NotContains(t, draft.Body, "{")
}

func TestRenderMissing(t *testing.T) {
	group := Group{Name: "ACME Corporation", Issues: testIssues[:1]}
	draft := Render(TemplateMissing, "Bob", group, SummaryVars{})

	assert.Equal(t, "Action Required: Missing POD Documentation - 1 Delivery(ies)", draft.Subject)
	assert.Contains(t, draft.Body, "missing Proof of Delivery (POD) documentation")
}

func TestRenderSummary(t *testing.T) {
	group := Group{Name: "ACME Corporation", Issues: testIssues}
	vars := SummaryVars{Total: 10, Received: 7, Missing: 3, Issues: 2}
	draft := Render(TemplateSummary, "Team", group, vars)

	assert.Contains(t, draft.Subject, "Weekly POD Status Summary - ")
	assert.Contains(t, draft.Body, "- Total Deliveries: 10")
	assert.Contains(t, draft.Body, "- PODs Received: 7")
	assert.Contains(t, draft.Body, "- PODs Missing: 3")
	assert.Contains(t, draft.Body, "- Issues Found: 2")
}

func TestRenderUnknownTemplateFallsBackToQuality(t *testing.T) {
	draft := Render(Template("nope"), "Team", Group{Name: "G", Issues: testIssues}, SummaryVars{})
	assert.Contains(t, draft.Subject, "POD Quality Issues")
}

func TestGroupIssuesByType(t *testing.T) {
	groups := GroupIssues(testIssues, GroupByType, nil)

	require.Len(t, groups, 2)
	assert.Equal(t, issues.TypeCustomerMismatch, groups[0].Name)
	assert.Equal(t, issues.TypeDateMismatch, groups[1].Name)
	assert.Len(t, groups[0].Issues, 1)
}

func TestGroupIssuesByBusiness(t *testing.T) {
	businessFor := func(id string) string {
		if id == "12345" {
			return "ACME Corporation"
		}
		return ""
	}
	groups := GroupIssues(testIssues, GroupByBusiness, businessFor)

	require.Len(t, groups, 2)
	assert.Equal(t, "ACME Corporation", groups[0].Name)
	assert.Equal(t, "Unknown Business", groups[1].Name)
}

func TestGroupIssuesNilResolver(t *testing.T) {
	groups := GroupIssues(testIssues, GroupByBusiness, nil)

	require.Len(t, groups, 1)
	assert.Equal(t, "Unknown Business", groups[0].Name)
	assert.Len(t, groups[0].Issues, 2)
}

func TestWriteDrafts(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "drafts")
	contacts := map[string]Contact{
		"ACME Corporation": {Name: "Alice", Email: "alice@acme.example"},
	}
	d := NewDrafter(TemplateQuality, contacts, nil)
	d.now = func() time.Time { return time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC) }

	groups := []Group{
		{Name: "ACME Corporation", Issues: testIssues},
		{Name: "Empty Group"},
	}
	drafts, err := d.WriteDrafts(groups, SummaryVars{}, dir)
	require.NoError(t, err)
	require.Len(t, drafts, 1)

	draft := drafts[0]
	assert.Equal(t, "alice@acme.example", draft.Contact.Email)
	assert.Equal(t, filepath.Join(dir, "email_ACME Corporation_20240310_120000.txt"), draft.Path)

	data, err := os.ReadFile(draft.Path)
	require.NoError(t, err)
	content := string(data)
	assert.True(t, strings.HasPrefix(content, "TO: alice@acme.example\nSUBJECT: POD Quality Issues Requiring Attention - 2 Item(s)\n"))
	assert.Contains(t, content, strings.Repeat("-", 50))
	assert.Contains(t, content, "Dear Alice,")
}

func TestWriteDraftsDefaultContact(t *testing.T) {
	dir := t.TempDir()
	d := NewDrafter(TemplateMissing, nil, nil)

	drafts, err := d.WriteDrafts([]Group{{Name: "No Contact Ltd", Issues: testIssues[:1]}}, SummaryVars{}, dir)
	require.NoError(t, err)
	require.Len(t, drafts, 1)
	assert.Equal(t, "Team", drafts[0].Contact.Name)
	assert.Contains(t, drafts[0].Body, "Dear Team,")
}

func TestSafeFileName(t *testing.T) {
	assert.Equal(t, "ACME Inc", safeFileName("ACME, Inc."))
	assert.Len(t, safeFileName("A Business Name Longer Than Thirty Characters"), 30)
}
