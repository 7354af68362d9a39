package fields

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseExtractsAllFields(t *testing.T) {
	text := "Invoice: 12345\nDelivered to: ACME Corporation\nDate: 15/01/2024\nReceived by: J. Smith"
	bag := Parse(text, []string{"ACME Corporation"})

	assert.False(t, bag.Failed())
	assert.Equal(t, text, bag.RawText)
	assert.Contains(t, bag.InvoiceNumbers, "12345")
	require.Len(t, bag.Dates, 1)
	assert.Equal(t, time.Date(2024, time.January, 15, 0, 0, 0, 0, time.UTC), bag.Dates[0])
	assert.True(t, bag.HasSignature)
	assert.NotEmpty(t, bag.CustomerMatches)
}

func TestParseEmptyText(t *testing.T) {
	bag := Parse("", nil)

	assert.True(t, bag.Failed())
	assert.Equal(t, "no text extracted", bag.Error)
	assert.NotNil(t, bag.InvoiceNumbers)
	assert.NotNil(t, bag.DeliveryIDs)
	assert.NotNil(t, bag.Dates)
	assert.NotNil(t, bag.CustomerMatches)
	assert.Empty(t, bag.InvoiceNumbers)
}

func TestParseErrorSentinel(t *testing.T) {
	bag := Parse("[OCR Error: tesseract not found]", nil)

	assert.True(t, bag.Failed())
	assert.Equal(t, "[OCR Error: tesseract not found]", bag.Error)
	assert.Empty(t, bag.InvoiceNumbers)
	assert.Empty(t, bag.Dates)
}

func TestHasSignature(t *testing.T) {
	assert.True(t, HasSignature("RECEIVED BY: driver"))
	assert.True(t, HasSignature("Signature: ________"))
	assert.True(t, HasSignature("please sign here"))
	assert.False(t, HasSignature("plain delivery note"))
}
