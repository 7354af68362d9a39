// Package reconcile scores parsed document fields against manifest records.
// Compare is a pure function: it performs no I/O and mutates neither
// argument.
package reconcile

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/freightdesk/podrec/constants"
	"github.com/freightdesk/podrec/internal/fields"
	"github.com/freightdesk/podrec/internal/fuzzy"
	"github.com/freightdesk/podrec/internal/manifest"
)

const totalChecks = 3

// manifestDateFormats are tried in order against the first whitespace-
// separated token of the manifest's date cell; the first that parses wins.
var manifestDateFormats = []string{"2006-01-02", "02/01/2006", "01/02/2006"}

// Options carries the comparison tolerances. Zero values fall back to the
// defaults (2 days, threshold 80, fuzzy enabled).
type Options struct {
	DateToleranceDays int
	CustomerThreshold int
	// FuzzyDisabled degrades the customer check to a distinct
	// capability-unavailable issue instead of a mismatch.
	FuzzyDisabled bool
}

// Comparator evaluates the three content checks (identifier, date, customer)
// for one document against one manifest record.
type Comparator struct {
	opts Options
}

func NewComparator(opts Options) *Comparator {
	if opts.DateToleranceDays <= 0 {
		opts.DateToleranceDays = 2
	}
	if opts.CustomerThreshold <= 0 {
		opts.CustomerThreshold = 80
	}
	return &Comparator{opts: opts}
}

// Verdict is the scored outcome of comparing one document against its
// manifest record. Immutable once produced.
type Verdict struct {
	InvoiceMatch    bool
	DeliveryIDMatch bool
	IDMatch         bool // invoice or delivery id matched
	DateMatch       bool
	CustomerMatch   bool

	Overall constants.OverallMatch
	// Score is passed checks over three, as an integer percentage:
	// always one of 0, 33, 67, 100.
	Score  int
	Issues []string

	// Values actually compared, for reporting.
	DocInvoice    string
	DocDeliveryID string
	DocDate       string
	DocCustomer   string

	ManifestInvoice    string
	ManifestDeliveryID string
	ManifestDate       string
	ManifestCustomer   string
}

// ErrorVerdict builds the verdict for a document whose extraction failed:
// no checks attempted, score zero.
func ErrorVerdict(rec manifest.Record, reason string) Verdict {
	return Verdict{
		Overall:            constants.MatchError,
		Issues:             []string{reason},
		ManifestInvoice:    rec.InvoiceNumber,
		ManifestDeliveryID: rec.DeliveryID,
		ManifestDate:       rec.Date,
		ManifestCustomer:   rec.Customer,
	}
}

// Compare evaluates exactly three independent checks; Score and Overall
// derive solely from how many pass.
func (c *Comparator) Compare(bag fields.FieldBag, rec manifest.Record) Verdict {
	if bag.Failed() {
		return ErrorVerdict(rec, bag.Error)
	}

	v := Verdict{
		Issues:             []string{},
		ManifestInvoice:    rec.InvoiceNumber,
		ManifestDeliveryID: rec.DeliveryID,
		ManifestDate:       rec.Date,
		ManifestCustomer:   rec.Customer,
	}

	passed := 0
	if c.checkID(&v, bag, rec) {
		passed++
	}
	if c.checkDate(&v, bag, rec) {
		passed++
	}
	if c.checkCustomer(&v, bag, rec) {
		passed++
	}

	v.Score = int(math.Round(float64(passed) / totalChecks * 100))
	switch {
	case passed == totalChecks:
		v.Overall = constants.MatchYes
	case passed == totalChecks-1:
		v.Overall = constants.MatchPartial
	default:
		v.Overall = constants.MatchNo
	}
	return v
}

// checkID tests the primary key (invoice) and only on a miss the fallback
// key (delivery id). Matching is exact or substring in either direction:
// OCR and varying ID representations commonly drop leading zeros or pick up
// prefix noise, and exact-only matching over-reports false mismatches.
func (c *Comparator) checkID(v *Verdict, bag fields.FieldBag, rec manifest.Record) bool {
	if rec.InvoiceNumber != "" {
		if cand, ok := matchID(rec.InvoiceNumber, bag.InvoiceNumbers); ok {
			v.InvoiceMatch = true
			v.IDMatch = true
			v.DocInvoice = cand
			return true
		}
	}
	if rec.DeliveryID != "" {
		if cand, ok := matchID(rec.DeliveryID, bag.DeliveryIDs); ok {
			v.DeliveryIDMatch = true
			v.IDMatch = true
			v.DocDeliveryID = cand
			return true
		}
	}

	v.DocInvoice = firstOr(bag.InvoiceNumbers, "")
	v.DocDeliveryID = firstOr(bag.DeliveryIDs, "")
	if rec.InvoiceNumber != "" {
		v.Issues = append(v.Issues, fmt.Sprintf("Invoice mismatch: document has %s, expected %s",
			firstOr(bag.InvoiceNumbers, "none"), rec.InvoiceNumber))
	} else if rec.DeliveryID != "" {
		v.Issues = append(v.Issues, fmt.Sprintf("Delivery ID mismatch: document has %s, expected %s",
			firstOr(bag.DeliveryIDs, "none"), rec.DeliveryID))
	}
	return false
}

// matchID returns the first candidate equal to id or containing/contained by
// it. Exact matches are preferred over partial ones.
func matchID(id string, candidates []string) (string, bool) {
	for _, cand := range candidates {
		if cand == id {
			return cand, true
		}
	}
	for _, cand := range candidates {
		if strings.Contains(cand, id) || strings.Contains(id, cand) {
			return cand, true
		}
	}
	return "", false
}

func (c *Comparator) checkDate(v *Verdict, bag fields.FieldBag, rec manifest.Record) bool {
	if len(bag.Dates) == 0 {
		v.Issues = append(v.Issues, "No date found in document")
		return false
	}
	if rec.Date == "" {
		return false // nothing to compare against; not an issue on its own
	}

	expected, ok := ParseManifestDate(rec.Date)
	if !ok {
		v.Issues = append(v.Issues, "Could not parse manifest date: "+rec.Date)
		return false
	}

	for _, d := range bag.Dates {
		if absDays(d, expected) <= c.opts.DateToleranceDays {
			v.DateMatch = true
			v.DocDate = d.Format("2006-01-02")
			return true
		}
	}

	v.DocDate = bag.Dates[0].Format("2006-01-02")
	v.Issues = append(v.Issues, fmt.Sprintf("Date mismatch: document has %s, expected %s",
		v.DocDate, expected.Format("2006-01-02")))
	return false
}

func (c *Comparator) checkCustomer(v *Verdict, bag fields.FieldBag, rec manifest.Record) bool {
	if rec.Customer == "" {
		return true // nothing to verify
	}
	if c.opts.FuzzyDisabled {
		v.Issues = append(v.Issues, "Customer matching not available")
		return false
	}

	bestScore := 0
	bestMatch := ""
	for _, m := range bag.CustomerMatches {
		if m.Known == rec.Customer && m.Score > bestScore {
			bestScore = m.Score
			bestMatch = m.Fragment
		}
	}
	if bag.RawText != "" {
		if ratio := fuzzy.PartialRatio(rec.Customer, bag.RawText); ratio > bestScore {
			bestScore = ratio
			bestMatch = fmt.Sprintf("Found in text (score: %d%%)", ratio)
		}
	}

	if bestScore >= c.opts.CustomerThreshold {
		v.CustomerMatch = true
		v.DocCustomer = bestMatch
		return true
	}

	if bestMatch == "" {
		bestMatch = "Not found"
	}
	v.DocCustomer = bestMatch
	v.Issues = append(v.Issues, fmt.Sprintf("Customer mismatch: best match score %d%%, expected %s",
		bestScore, rec.Customer))
	return false
}

// ParseManifestDate parses the manifest's date cell: the first whitespace-
// separated token is tried against the fixed format list so datetime cells
// ("2024-01-15 00:00:00") still resolve.
func ParseManifestDate(s string) (time.Time, bool) {
	tok := s
	if f := strings.Fields(s); len(f) > 0 {
		tok = f[0]
	}
	for _, layout := range manifestDateFormats {
		if t, err := time.ParseInLocation(layout, tok, time.UTC); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

func absDays(a, b time.Time) int {
	d := int(a.Sub(b).Hours() / 24)
	if d < 0 {
		return -d
	}
	return d
}

func firstOr(s []string, fallback string) string {
	if len(s) > 0 {
		return s[0]
	}
	return fallback
}
