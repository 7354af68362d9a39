package extract

import (
	"context"

	"github.com/freightdesk/podrec/internal/ocr"
)

// OCRAdapter exposes an ocr.Extractor as a TextExtractor.
type OCRAdapter struct {
	e *ocr.Extractor
}

func NewOCRAdapter(e *ocr.Extractor) *OCRAdapter {
	return &OCRAdapter{e: e}
}

func (a *OCRAdapter) Extract(ctx context.Context, path string) (Result, error) {
	r, err := a.e.Extract(ctx, path)
	return Result{
		Text:     r.Text,
		Pages:    r.Pages,
		Method:   r.Method,
		Duration: r.Duration,
		Warnings: r.Warnings,
	}, err
}
