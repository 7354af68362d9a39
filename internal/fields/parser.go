// Package fields turns raw extracted document text into a structured bag of
// candidate fields: identifiers, dates, customer-name fragments and a
// signature-presence flag. Extraction is heuristic by design; candidates are
// scored and filtered downstream by the comparator.
package fields

import (
	"strings"
	"time"
)

// ErrSentinelPrefix marks extractor output that is an error message rather
// than document text. Parse treats such text as a failed extraction.
const ErrSentinelPrefix = "[OCR Error"

var signatureKeywords = []string{"signature", "signed", "received by", "receiver", "sign here"}

// FieldBag is the parser output for one document. All slices are non-nil:
// absent or failed extraction yields empty candidate lists, and downstream
// comparison treats "no candidates" as a no-match condition, not an error.
type FieldBag struct {
	// RawText is the text the candidates were extracted from; the
	// comparator's whole-text customer check reads it.
	RawText         string
	InvoiceNumbers  []string
	DeliveryIDs     []string
	Dates           []time.Time
	CustomerMatches []CustomerMatch
	HasSignature    bool
	ExtractedAt     time.Time

	// Error is set when the text was empty or an extractor error sentinel;
	// the candidate lists are empty in that case.
	Error string
}

// Failed reports whether the underlying extraction failed.
func (b FieldBag) Failed() bool {
	return b.Error != ""
}

// Parse extracts all available candidate fields from document text.
// knownCustomers feeds the fuzzy customer-name strategy and may be nil.
func Parse(text string, knownCustomers []string) FieldBag {
	bag := FieldBag{
		RawText:         text,
		InvoiceNumbers:  []string{},
		DeliveryIDs:     []string{},
		Dates:           []time.Time{},
		CustomerMatches: []CustomerMatch{},
		ExtractedAt:     time.Now(),
	}

	if text == "" {
		bag.Error = "no text extracted"
		return bag
	}
	if strings.HasPrefix(text, ErrSentinelPrefix) {
		bag.Error = text
		return bag
	}

	bag.InvoiceNumbers = InvoiceNumbers(text)
	bag.DeliveryIDs = DeliveryIDs(text)
	bag.Dates = Dates(text)
	bag.CustomerMatches = CustomerMatches(text, knownCustomers)
	bag.HasSignature = HasSignature(text)
	return bag
}

// HasSignature reports whether any signature marker keyword appears in the
// text. A presence heuristic only; it does not verify anything.
func HasSignature(text string) bool {
	lower := strings.ToLower(text)
	for _, kw := range signatureKeywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}
