package fields

import (
	"path/filepath"
	"regexp"
	"sort"
	"strings"
)

var (
	digitRunRe = regexp.MustCompile(`\d+`)

	// Keyword-anchored invoice patterns. Tried first; the plain digit-run
	// pattern is only a fallback when neither anchored form matches.
	invoiceAnchoredRes = []*regexp.Regexp{
		regexp.MustCompile(`(?i)(?:invoice|inv)\.?\s*(?:no|number|#)?[:\s#]*(\d{4,10})`),
		regexp.MustCompile(`(?i)(?:bill|receipt)[:\s#]*(\d{4,10})`),
	}
	invoicePlainRe = regexp.MustCompile(`\b(\d{4,10})\b`)

	deliveryIDRe = regexp.MustCompile(`\b(\d{8,15})\b`)
)

// ParseFilenameID extracts the document identifier from a filename: the
// longest digit run in the stem, ties broken by first occurrence. Handles
// names like 9354302576.pdf and DEL_9354302576.pdf. A stem with no digits is
// returned as-is.
//
// This is a documented heuristic, not a guarantee: incidental digit runs in a
// filename can be picked over the real identifier.
func ParseFilenameID(filename string) string {
	stem := strings.TrimSuffix(filepath.Base(filename), filepath.Ext(filename))
	runs := digitRunRe.FindAllString(stem, -1)
	if len(runs) == 0 {
		return stem
	}
	best := runs[0]
	for _, r := range runs[1:] {
		if len(r) > len(best) {
			best = r
		}
	}
	return best
}

// InvoiceNumbers extracts candidate invoice numbers (the primary matching
// key) from document text: 4-10 digit runs anchored on invoice-ish keywords,
// or any 4-10 digit run when no anchored match exists. Candidates are
// deduplicated and ordered longest-first; incidental numbers in boilerplate
// tend to be short, so length is used as a likelihood proxy.
func InvoiceNumbers(text string) []string {
	var found []string
	for _, re := range invoiceAnchoredRes {
		for _, m := range re.FindAllStringSubmatch(text, -1) {
			found = append(found, m[1])
		}
	}
	if len(found) == 0 {
		for _, m := range invoicePlainRe.FindAllStringSubmatch(text, -1) {
			found = append(found, m[1])
		}
	}
	return dedupeLongestFirst(found)
}

// DeliveryIDs extracts candidate delivery/tracking numbers (the fallback
// matching key): 8-15 digit runs, keyword-agnostic, deduplicated and ordered
// longest-first.
func DeliveryIDs(text string) []string {
	var found []string
	for _, m := range deliveryIDRe.FindAllStringSubmatch(text, -1) {
		found = append(found, m[1])
	}
	return dedupeLongestFirst(found)
}

// dedupeLongestFirst removes duplicates keeping first occurrence, then sorts
// by descending length. The sort is stable so equal-length candidates keep
// their order of appearance.
func dedupeLongestFirst(in []string) []string {
	out := make([]string, 0, len(in))
	seen := make(map[string]struct{}, len(in))
	for _, s := range in {
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return len(out[i]) > len(out[j])
	})
	return out
}
