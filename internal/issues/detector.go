// Package issues runs per-document quality checks over parsed fields: date
// mismatch, customer mismatch and missing signature markers. It reuses the
// field-extraction primitives but applies simpler single-pass rules than the
// full reconciliation comparator, and grades findings by severity.
package issues

import (
	"fmt"
	"sort"
	"strings"

	"github.com/freightdesk/podrec/constants"
	"github.com/freightdesk/podrec/internal/fields"
	"github.com/freightdesk/podrec/internal/fuzzy"
	"github.com/freightdesk/podrec/internal/manifest"
	"github.com/freightdesk/podrec/internal/reconcile"
)

// Issue type labels as they appear in reports.
const (
	TypeDateMissing      = "Date Issue"
	TypeDateMismatch     = "Date Mismatch"
	TypeCustomerMismatch = "Customer Mismatch"
	TypeStampCheck       = "Stamp Check"
)

// severeDateGapDays is the day difference past which a date mismatch is
// graded High instead of Medium.
const severeDateGapDays = 7

// lowConfidenceScore is the fuzzy score floor below which a customer
// mismatch is graded High.
const lowConfidenceScore = 50

// Issue is one detected problem on one document.
type Issue struct {
	DeliveryID string
	Type       string
	Severity   constants.Severity
	Details    string
	Expected   string
	Found      string
}

// NeedsAction reports whether the issue requires follow-up. Low-severity
// findings are informational only.
func (i Issue) NeedsAction() bool {
	return i.Severity == constants.SeverityHigh || i.Severity == constants.SeverityMedium
}

// Options carries detection tolerances; zero values fall back to the same
// defaults the comparator uses.
type Options struct {
	DateToleranceDays int
	CustomerThreshold int
}

type Detector struct {
	opts Options
}

func NewDetector(opts Options) *Detector {
	if opts.DateToleranceDays <= 0 {
		opts.DateToleranceDays = 2
	}
	if opts.CustomerThreshold <= 0 {
		opts.CustomerThreshold = 80
	}
	return &Detector{opts: opts}
}

// Detect runs all checks for one document and returns zero or more issues.
// A failed extraction yields no issues here; the reconciliation report
// already surfaces those as Error verdicts.
func (d *Detector) Detect(bag fields.FieldBag, rec manifest.Record) []Issue {
	if bag.Failed() {
		return nil
	}

	var found []Issue
	deliveryID := rec.Key()

	if iss, ok := d.checkDate(bag, rec); ok {
		iss.DeliveryID = deliveryID
		found = append(found, iss)
	}
	if iss, ok := d.checkCustomer(bag, rec); ok {
		iss.DeliveryID = deliveryID
		found = append(found, iss)
	}
	if iss, ok := checkStamp(bag); ok {
		iss.DeliveryID = deliveryID
		found = append(found, iss)
	}
	return found
}

// checkDate compares the first parseable document date against the manifest
// date. Only the first candidate decides the verdict; later candidates are
// boilerplate dates far more often than the delivery date.
func (d *Detector) checkDate(bag fields.FieldBag, rec manifest.Record) (Issue, bool) {
	expected, ok := reconcile.ParseManifestDate(rec.Date)
	if !ok {
		return Issue{}, false
	}

	if len(bag.Dates) == 0 {
		return Issue{
			Type:     TypeDateMissing,
			Severity: constants.SeverityMedium,
			Details:  "No date found in document",
			Expected: expected.Format("2006-01-02"),
			Found:    "Not found",
		}, true
	}

	first := bag.Dates[0]
	diff := int(first.Sub(expected).Hours() / 24)
	if diff < 0 {
		diff = -diff
	}
	if diff <= d.opts.DateToleranceDays {
		return Issue{}, false
	}

	severity := constants.SeverityMedium
	if diff > severeDateGapDays {
		severity = constants.SeverityHigh
	}
	return Issue{
		Type:     TypeDateMismatch,
		Severity: severity,
		Details:  fmt.Sprintf("Date differs by %d days", diff),
		Expected: expected.Format("2006-01-02"),
		Found:    first.Format("2006-01-02"),
	}, true
}

// checkCustomer looks for the manifest customer in the document text: exact
// uppercase containment first, then the best fuzzy score over 2-4 word
// windows.
func (d *Detector) checkCustomer(bag fields.FieldBag, rec manifest.Record) (Issue, bool) {
	customer := strings.ToUpper(strings.TrimSpace(rec.Customer))
	if customer == "" {
		return Issue{}, false
	}
	if strings.Contains(strings.ToUpper(bag.RawText), customer) {
		return Issue{}, false
	}

	best := 0
	words := strings.Fields(bag.RawText)
	for i := range words {
		for j := i + 1; j <= i+4 && j <= len(words); j++ {
			segment := strings.ToUpper(strings.Join(words[i:j], " "))
			if r := fuzzy.Ratio(customer, segment); r > best {
				best = r
			}
		}
	}
	if best >= d.opts.CustomerThreshold {
		return Issue{}, false
	}

	severity := constants.SeverityMedium
	if best < lowConfidenceScore {
		severity = constants.SeverityHigh
	}
	return Issue{
		Type:     TypeCustomerMismatch,
		Severity: severity,
		Details:  fmt.Sprintf("Best match: %d%%", best),
		Expected: customer,
		Found:    fmt.Sprintf("No match found (best: %d%%)", best),
	}, true
}

// checkStamp flags documents with no signature markers in the text. A weak
// heuristic, hence Low severity.
func checkStamp(bag fields.FieldBag) (Issue, bool) {
	if bag.HasSignature {
		return Issue{}, false
	}
	return Issue{
		Type:     TypeStampCheck,
		Severity: constants.SeverityLow,
		Details:  "No signature markers detected",
		Expected: "Signature or stamp",
		Found:    "No signature text found",
	}, true
}

// Sort orders issues for reporting: severity first (High, Medium, Low),
// then delivery id.
func Sort(list []Issue) {
	sort.SliceStable(list, func(i, j int) bool {
		if list[i].Severity != list[j].Severity {
			return list[i].Severity.SortRank() < list[j].Severity.SortRank()
		}
		return list[i].DeliveryID < list[j].DeliveryID
	})
}

// Counts tallies issues by severity and by type for report summaries.
func Counts(list []Issue) (bySeverity map[constants.Severity]int, byType map[string]int) {
	bySeverity = make(map[constants.Severity]int)
	byType = make(map[string]int)
	for _, iss := range list {
		bySeverity[iss.Severity]++
		byType[iss.Type]++
	}
	return bySeverity, byType
}
