// Package manifest loads the expected-delivery manifest from its
// source-of-record spreadsheet and standardizes its columns. Records are
// read-only to the rest of the system: reconciliation never mutates the
// manifest.
package manifest

import "strings"

// Canonical field names the loader maps spreadsheet columns onto.
const (
	FieldInvoiceNumber = "invoice_number"
	FieldDeliveryID    = "delivery_id"
	FieldDate          = "date"
	FieldCustomer      = "customer"
	FieldStatus        = "status"
)

// Record is one expected delivery.
type Record struct {
	// InvoiceNumber is the primary matching key.
	InvoiceNumber string
	// DeliveryID is the fallback key, used when the invoice number is
	// absent or unmatched.
	DeliveryID string
	// Date is kept as read from the sheet; parsing happens at comparison
	// time so an unparseable date is an issue on that record, not a load
	// failure.
	Date     string
	Customer string
	// Status is the free-text lifecycle label maintained outside this
	// system ("Closed", "In Transit", ...).
	Status string
	// Row is the 1-based spreadsheet row the record came from.
	Row int
}

// Key returns the identifier used for presence matching: primary key first,
// fallback second. Empty when the record is not reconcilable.
func (r Record) Key() string {
	if r.InvoiceNumber != "" {
		return r.InvoiceNumber
	}
	return r.DeliveryID
}

// Reconcilable reports whether the record has at least one identifier.
func (r Record) Reconcilable() bool {
	return r.InvoiceNumber != "" || r.DeliveryID != ""
}

// StatusClosed reports whether the record's own status already marks it
// finished, case-insensitively.
func (r Record) StatusClosed() bool {
	switch strings.ToLower(strings.TrimSpace(r.Status)) {
	case "closed", "complete", "resolved":
		return true
	}
	return false
}

// Customers returns the distinct customer names across records, in order of
// first appearance. Used to seed fuzzy customer-name extraction.
func Customers(records []Record) []string {
	var out []string
	seen := map[string]struct{}{}
	for _, r := range records {
		if r.Customer == "" {
			continue
		}
		if _, ok := seen[r.Customer]; ok {
			continue
		}
		seen[r.Customer] = struct{}{}
		out = append(out, r.Customer)
	}
	return out
}

// ByKey indexes records by their presence key. Later rows win on duplicate
// keys, mirroring how duplicates are treated as a data-quality warning
// rather than an error.
func ByKey(records []Record) map[string]Record {
	m := make(map[string]Record, len(records))
	for _, r := range records {
		if k := r.Key(); k != "" {
			m[k] = r
		}
	}
	return m
}
