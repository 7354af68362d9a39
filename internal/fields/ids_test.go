package fields

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseFilenameID(t *testing.T) {
	tests := []struct {
		filename string
		want     string
	}{
		{"9354302576.pdf", "9354302576"},
		{"DEL_9354302576.pdf", "9354302576"},
		{"POD_12_9354302576_final.pdf", "9354302576"},
		{"scan_12_34.pdf", "12"}, // tie on length keeps the first run
		{"receipt.pdf", "receipt"},
		{"/some/dir/INV-4412.PDF", "4412"},
	}
	for _, tt := range tests {
		t.Run(tt.filename, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseFilenameID(tt.filename))
		})
	}
}

func TestInvoiceNumbersAnchored(t *testing.T) {
	text := "Invoice #12345\nTotal due: 999.00\nThanks"
	assert.Equal(t, []string{"12345"}, InvoiceNumbers(text))
}

func TestInvoiceNumbersAnchoredBeatsPlain(t *testing.T) {
	// 777777 is a plain digit run, but an anchored match exists so the
	// plain fallback never fires.
	text := "Invoice No: 12345 ref 777777"
	assert.Equal(t, []string{"12345"}, InvoiceNumbers(text))
}

func TestInvoiceNumbersFallback(t *testing.T) {
	text := "ref 4567 code 123456"
	assert.Equal(t, []string{"123456", "4567"}, InvoiceNumbers(text))
}

func TestInvoiceNumbersDeduped(t *testing.T) {
	text := "Invoice 5555 duplicate invoice 5555"
	assert.Equal(t, []string{"5555"}, InvoiceNumbers(text))
}

func TestInvoiceNumbersNone(t *testing.T) {
	assert.Empty(t, InvoiceNumbers("no numbers here"))
}

func TestDeliveryIDs(t *testing.T) {
	text := "shipment 12345678 tracking 123456789012345 qty 123"
	assert.Equal(t, []string{"123456789012345", "12345678"}, DeliveryIDs(text))
}

func TestDeliveryIDsIgnoresOverlongRuns(t *testing.T) {
	assert.Empty(t, DeliveryIDs("card 1234567890123456"))
}

func TestDedupeLongestFirstStable(t *testing.T) {
	got := dedupeLongestFirst([]string{"1111", "2222", "333333", "1111"})
	assert.Equal(t, []string{"333333", "1111", "2222"}, got)
}
