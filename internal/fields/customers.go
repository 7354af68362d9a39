package fields

import (
	"regexp"
	"strings"

	"github.com/freightdesk/podrec/internal/fuzzy"
)

// LabelExtracted marks a customer candidate that came from a labeled field
// in the document rather than a fuzzy match against a known customer.
const LabelExtracted = "_extracted_"

// extractionThreshold is the minimum window score for a fuzzy candidate to be
// kept at parse time. The comparator applies its own (higher) threshold.
const extractionThreshold = 70

var customerLabelRes = []*regexp.Regexp{
	regexp.MustCompile(`(?:Customer|Consignee|Delivered to|Receiver|Ship to|Bill to)[:\s]+([A-Z][a-zA-Z\s&.,]+?)(\n|$)`),
	regexp.MustCompile(`(?:Name|Company)[:\s]+([A-Z][a-zA-Z\s&.,]+?)(\n|$)`),
}

// CustomerMatch is one candidate customer-name fragment found in a document.
type CustomerMatch struct {
	// Known is the known-customer name this fragment was matched against,
	// or LabelExtracted for label-anchored captures.
	Known    string
	Fragment string
	Score    int
}

// CustomerMatches combines two extraction strategies into one candidate list:
// fuzzy 2-4 word windows scored against each known customer, and
// label-anchored captures ("Customer:", "Consignee:", ...).
func CustomerMatches(text string, knownCustomers []string) []CustomerMatch {
	matches := []CustomerMatch{}

	words := strings.Fields(text)
	for _, customer := range knownCustomers {
		for n := 2; n <= 4; n++ {
			for i := 0; i+n <= len(words); i++ {
				phrase := strings.Join(words[i:i+n], " ")
				if score := fuzzy.Ratio(customer, phrase); score >= extractionThreshold {
					matches = append(matches, CustomerMatch{Known: customer, Fragment: phrase, Score: score})
				}
			}
		}
	}

	for _, re := range customerLabelRes {
		for _, m := range re.FindAllStringSubmatch(text, -1) {
			clean := strings.TrimRight(strings.TrimSpace(m[1]), ".,")
			if len(clean) > 3 {
				matches = append(matches, CustomerMatch{Known: LabelExtracted, Fragment: clean, Score: 100})
			}
		}
	}

	return matches
}
