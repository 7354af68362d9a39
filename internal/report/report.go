// Package report renders tabular reports with a summary header to Markdown,
// CSV, XLSX and HTML. Every tool's output goes through the same Report shape
// so the downstream tools can read each other's spreadsheets back.
package report

import (
	"encoding/csv"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Fill colors shared across formats (RGB hex, no alpha).
const (
	ColorHeader = "366092"
	ColorGreen  = "C6EFCE"
	ColorRed    = "FFC7CE"
	ColorYellow = "FFEB9C"
)

// Stat is one summary line; order is preserved in output.
type Stat struct {
	Label string
	Value string
}

// Report is a summary block plus one data table.
type Report struct {
	Title       string
	GeneratedAt time.Time
	Summary     []Stat
	Columns     []string
	Rows        [][]string

	// FillFor returns a row background color (one of the Color constants)
	// or "" for no fill. Nil means no row styling.
	FillFor func(row []string) string
}

func New(title string) *Report {
	return &Report{Title: title, GeneratedAt: time.Now()}
}

// AddStat appends a summary line, formatting the value with %v.
func (r *Report) AddStat(label string, value any) {
	r.Summary = append(r.Summary, Stat{Label: label, Value: fmt.Sprintf("%v", value)})
}

// Column returns the index of the named column, or -1.
func (r *Report) Column(name string) int {
	for i, c := range r.Columns {
		if c == name {
			return i
		}
	}
	return -1
}

func cellOr(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return row[idx]
}

// Markdown renders the full report as a Markdown document.
func (r *Report) Markdown() string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", r.Title)
	fmt.Fprintf(&b, "**Generated:** %s\n\n", r.GeneratedAt.Format("2006-01-02 15:04:05"))

	if len(r.Summary) > 0 {
		b.WriteString("## Summary\n\n")
		b.WriteString("| Metric | Value |\n")
		b.WriteString("|--------|-------|\n")
		for _, s := range r.Summary {
			fmt.Fprintf(&b, "| %s | %s |\n", s.Label, mdCell(s.Value))
		}
		b.WriteString("\n")
	}

	b.WriteString("## Details\n\n")
	if len(r.Rows) == 0 {
		b.WriteString("*No data available*\n")
		return b.String()
	}

	b.WriteString("| " + strings.Join(r.Columns, " | ") + " |\n")
	b.WriteString("|" + strings.Repeat("---|", len(r.Columns)) + "\n")
	for _, row := range r.Rows {
		cells := make([]string, len(r.Columns))
		for i := range r.Columns {
			cells[i] = mdCell(cellOr(row, i))
		}
		b.WriteString("| " + strings.Join(cells, " | ") + " |\n")
	}
	b.WriteString("\n")
	return b.String()
}

func mdCell(s string) string {
	if s == "" {
		return "-"
	}
	s = strings.ReplaceAll(s, "|", "\\|")
	return strings.ReplaceAll(s, "\n", " ")
}

// SaveMarkdown writes the Markdown rendering to path.
func (r *Report) SaveMarkdown(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, []byte(r.Markdown()), 0o644)
}

// SaveCSV writes the data table (header plus rows, no summary) to path.
func (r *Report) SaveCSV(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(r.Columns); err != nil {
		return err
	}
	for _, row := range r.Rows {
		cells := make([]string, len(r.Columns))
		for i := range r.Columns {
			cells[i] = cellOr(row, i)
		}
		if err := w.Write(cells); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

// SaveAll writes the report in every supported format next to basePath
// (extension replaced per format). Per-format failures are logged and
// collected; the first set of paths that did save is returned.
func (r *Report) SaveAll(basePath string, logger *slog.Logger) (map[string]string, []error) {
	if logger == nil {
		logger = slog.Default()
	}
	stem := strings.TrimSuffix(basePath, filepath.Ext(basePath))

	saved := make(map[string]string)
	var errs []error
	save := func(format, ext string, fn func(string) error) {
		path := stem + ext
		if err := fn(path); err != nil {
			logger.Warn("report save failed", "format", format, "path", path, "error", err)
			errs = append(errs, fmt.Errorf("save %s: %w", format, err))
			return
		}
		saved[format] = path
	}

	save("md", ".md", r.SaveMarkdown)
	save("csv", ".csv", r.SaveCSV)
	save("xlsx", ".xlsx", r.SaveXLSX)
	save("html", ".html", r.SaveHTML)
	return saved, errs
}
