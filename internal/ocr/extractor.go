// Package ocr extracts text from POD documents by shelling out to poppler
// (pdftotext, pdftoppm) and tesseract. It is one implementation of the text
// producer behind extract.TextExtractor; the rest of the system only
// reconciles whatever text comes out.
package ocr

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

// minTextLayerChars is the shortest pdftotext output we accept as a real
// text layer; anything shorter is treated as a scanned document.
const minTextLayerChars = 50

type Config struct {
	Pdftotext string // binary name or absolute path; if empty -> "pdftotext"
	Pdftoppm  string // binary name or absolute path; if empty -> "pdftoppm"
	Tesseract string // binary name or absolute path; if empty -> "tesseract"

	TesseractLang string // default "eng"
	DPI           int    // rasterization DPI for scanned PDFs, default 300
	MaxPages      int    // 0 = no limit

	// UseOCR prefers rasterize+tesseract over the PDF text layer; when
	// false, OCR only runs if the text layer comes up short.
	UseOCR bool
}

type Result struct {
	Text     string
	Pages    int
	Method   string // "pdf-text" | "pdf-ocr"
	Duration time.Duration
	Warnings []string
}

type Extractor struct {
	cfg    Config
	runner Runner
	logger *slog.Logger
}

func NewExtractor(cfg Config, logger *slog.Logger) *Extractor {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.Pdftotext == "" {
		cfg.Pdftotext = "pdftotext"
	}
	if cfg.Pdftoppm == "" {
		cfg.Pdftoppm = "pdftoppm"
	}
	if cfg.Tesseract == "" {
		cfg.Tesseract = "tesseract"
	}
	if cfg.TesseractLang == "" {
		cfg.TesseractLang = "eng"
	}
	if cfg.DPI <= 0 {
		cfg.DPI = 300
	}
	return &Extractor{cfg: cfg, runner: execRunner{}, logger: logger}
}

// Extract pulls text from the document at path. The text layer is tried
// first unless UseOCR is set; OCR is the fallback either way, so a scanned
// document with no text layer still yields something.
func (e *Extractor) Extract(ctx context.Context, path string) (Result, error) {
	start := time.Now()
	e.logger.Debug("starting text extraction", "path", path, "use_ocr", e.cfg.UseOCR)

	if !e.cfg.UseOCR {
		text, pages, warns, err := e.pdfToText(ctx, path)
		if err == nil && len(strings.TrimSpace(text)) > minTextLayerChars {
			return Result{
				Text:     strings.TrimSpace(text),
				Pages:    pages,
				Method:   "pdf-text",
				Duration: time.Since(start),
				Warnings: warns,
			}, nil
		}
	}

	text, pages, warns, err := e.pdfToOCR(ctx, path)
	if err == nil {
		return Result{
			Text:     strings.TrimSpace(text),
			Pages:    pages,
			Method:   "pdf-ocr",
			Duration: time.Since(start),
			Warnings: warns,
		}, nil
	}
	ocrErr := err

	// OCR failed; the text layer is the last resort even in OCR mode.
	text, pages, warns2, err := e.pdfToText(ctx, path)
	if err != nil {
		return Result{Duration: time.Since(start), Warnings: append(warns, warns2...)},
			fmt.Errorf("ocr failed (%v); pdftotext failed: %w", ocrErr, err)
	}
	warns = append(warns, warns2...)
	warns = append(warns, "ocr failed, used text layer: "+ocrErr.Error())
	return Result{
		Text:     strings.TrimSpace(text),
		Pages:    pages,
		Method:   "pdf-text",
		Duration: time.Since(start),
		Warnings: warns,
	}, nil
}

// Available probes the external binaries. Used for capability reporting at
// startup; a missing toolchain degrades extraction, it does not abort runs.
func (e *Extractor) Available(ctx context.Context) (bool, string) {
	out, _, err := e.runner.Run(ctx, e.cfg.Tesseract, "--version")
	if err != nil {
		return false, "tesseract not found: install tesseract-ocr"
	}
	version := strings.TrimSpace(strings.SplitN(string(out), "\n", 2)[0])
	if _, _, err := e.runner.Run(ctx, e.cfg.Pdftoppm, "-v"); err != nil {
		return false, "pdftoppm not found: install poppler-utils"
	}
	return true, version + " available"
}

func (e *Extractor) pdfToText(ctx context.Context, path string) (text string, pages int, warnings []string, err error) {
	// pdftotext -layout -enc UTF-8 -eol unix <path> -
	out, errb, err := e.runner.Run(ctx, e.cfg.Pdftotext, "-layout", "-enc", "UTF-8", "-eol", "unix", path, "-")
	if err != nil {
		return "", 0, []string{string(errb)}, err
	}
	text = string(out)
	// A form-feed \f is used as page separator by default
	pages = 1 + strings.Count(text, "\f")
	return text, pages, nil, nil
}

func (e *Extractor) pdfToOCR(ctx context.Context, path string) (text string, pages int, warnings []string, err error) {
	tmpDir, err := os.MkdirTemp("", "podrec-pp-*")
	if err != nil {
		return "", 0, nil, err
	}
	defer func() {
		if rerr := os.RemoveAll(tmpDir); rerr != nil {
			e.logger.Warn("remove temp dir", "dir", tmpDir, "error", rerr)
		}
	}()

	prefix := filepath.Join(tmpDir, "page")
	// pdftoppm -r 300 -png <in.pdf> <tmp/page>
	_, errb, err := e.runner.Run(ctx, e.cfg.Pdftoppm, "-r", fmt.Sprintf("%d", e.cfg.DPI), "-png", path, prefix)
	if err != nil {
		return "", 0, []string{string(errb)}, err
	}

	// collect generated pngs (prefix-1.png, prefix-2.png, ...)
	matches, _ := filepath.Glob(prefix + "-*.png")
	sort.Strings(matches)
	if e.cfg.MaxPages > 0 && len(matches) > e.cfg.MaxPages {
		matches = matches[:e.cfg.MaxPages]
	}
	if len(matches) == 0 {
		return "", 0, []string{"pdftoppm produced no images"}, fmt.Errorf("no pages rendered")
	}

	var b strings.Builder
	var warns []string
	for _, img := range matches {
		txt, w, err := e.tesseractOCR(ctx, img)
		if err != nil {
			warns = append(warns, err.Error())
			continue
		}
		if b.Len() > 0 {
			b.WriteString("\n\f\n") // keep a clear page break marker
		}
		b.WriteString(txt)
		warns = append(warns, w...)
	}
	pages = len(matches)
	return b.String(), pages, warns, nil
}

func (e *Extractor) tesseractOCR(ctx context.Context, path string) (string, []string, error) {
	// tesseract <file> stdout -l <lang>
	out, errb, err := e.runner.Run(ctx, e.cfg.Tesseract, path, "stdout", "-l", e.cfg.TesseractLang)
	if err != nil {
		return "", []string{string(errb)}, fmt.Errorf("tesseract: %w", err)
	}
	return string(out), nil, nil
}
