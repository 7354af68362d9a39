// Package extract defines the text-producer boundary. Extraction mechanics
// (OCR, text layers) live behind TextExtractor; failures surface as explicit
// errors at this boundary and are never silently treated as empty text.
package extract

import (
	"context"
	"time"
)

// TextExtractor turns a document file into raw text.
type TextExtractor interface {
	Extract(ctx context.Context, path string) (Result, error)
}

type Result struct {
	Text     string
	Pages    int
	Method   string // "pdf-text" | "pdf-ocr"
	Duration time.Duration
	Warnings []string
}
