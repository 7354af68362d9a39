// Package app wires the packages under internal/ into the runnable tools.
// Each Run* function is one tool's full flow; the cmd binaries parse flags
// and call in here, and the workflow runner chains the same functions
// in-process.
package app

import (
	"log/slog"

	"github.com/freightdesk/podrec/internal/common"
	"github.com/freightdesk/podrec/internal/extract"
	"github.com/freightdesk/podrec/internal/ocr"
)

// Report column names, shared between the writers and the tools that read
// reports back.
const (
	ColDeliveryID = "Delivery ID"
	ColStatus     = "Status"

	ColIssueType     = "Issue Type"
	ColSeverity      = "Severity"
	ColDetails       = "Details"
	ColExpectedValue = "Expected Value"
	ColDocumentValue = "Document Value"
	ColNeedsAction   = "Needs Action"

	ColPODReceived      = "POD Received"
	ColHasIssues        = "Has Issues"
	ColIssueDetails     = "Issue Details"
	ColResolutionStatus = "Resolution Status"
	ColReadyToClose     = "Ready to Close"
)

func newExtractor(cfg *common.Config, logger *slog.Logger) extract.TextExtractor {
	return extract.NewOCRAdapter(ocr.NewExtractor(ocr.Config{
		Pdftotext: cfg.OCR.Pdftotext,
		Pdftoppm:  cfg.OCR.Pdftoppm,
		Tesseract: cfg.OCR.Tesseract,
		DPI:       cfg.OCR.DPI,
		MaxPages:  cfg.OCR.MaxPages,
		UseOCR:    cfg.OCR.UseOCR,
	}, logger))
}

func yesNo(b bool) string {
	if b {
		return "Yes"
	}
	return "No"
}
