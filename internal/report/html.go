package report

import (
	"fmt"
	"html"
	"os"
	"path/filepath"
	"strings"
)

const htmlStyle = `body { font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, sans-serif; margin: 40px; background: #f5f5f5; }
.container { max-width: 1200px; margin: 0 auto; background: white; padding: 30px; border-radius: 8px; box-shadow: 0 2px 4px rgba(0,0,0,0.1); }
h1 { color: #333; border-bottom: 2px solid #366092; padding-bottom: 10px; }
h2 { color: #366092; margin-top: 30px; }
.generated { color: #666; font-size: 14px; }
table { border-collapse: collapse; width: 100%; margin: 20px 0; }
th { background: #366092; color: white; padding: 12px; text-align: left; }
td { padding: 10px; border-bottom: 1px solid #ddd; }
tr:hover { background: #f9f9f9; }
.summary-table { width: auto; }
.summary-table td { padding: 8px 20px 8px 0; }
.status-present { background: #c6efce; }
.status-missing { background: #ffc7ce; }
.status-extra { background: #ffeb9c; }
.match-yes { color: #006600; font-weight: bold; }
.match-no { color: #cc0000; }
.match-partial { color: #cc6600; }`

// SaveHTML writes a standalone HTML page. Rows get a status class from the
// Status column; Match columns get colored per value.
func (r *Report) SaveHTML(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}

	var b strings.Builder
	b.WriteString("<!DOCTYPE html>\n<html lang=\"en\">\n<head>\n")
	b.WriteString("<meta charset=\"UTF-8\">\n")
	b.WriteString("<meta name=\"viewport\" content=\"width=device-width, initial-scale=1.0\">\n")
	fmt.Fprintf(&b, "<title>%s</title>\n", html.EscapeString(r.Title))
	fmt.Fprintf(&b, "<style>\n%s\n</style>\n</head>\n<body>\n<div class=\"container\">\n", htmlStyle)
	fmt.Fprintf(&b, "<h1>%s</h1>\n", html.EscapeString(r.Title))
	fmt.Fprintf(&b, "<p class=\"generated\">Generated: %s</p>\n", r.GeneratedAt.Format("2006-01-02 15:04:05"))

	if len(r.Summary) > 0 {
		b.WriteString("<h2>Summary</h2>\n<table class=\"summary-table\">\n")
		for _, s := range r.Summary {
			fmt.Fprintf(&b, "<tr><td><strong>%s</strong></td><td>%s</td></tr>\n",
				html.EscapeString(s.Label), html.EscapeString(htmlCell(s.Value)))
		}
		b.WriteString("</table>\n")
	}

	if len(r.Rows) > 0 {
		statusIdx := r.Column("Status")

		b.WriteString("<h2>Details</h2>\n<table>\n<thead>\n<tr>\n")
		for _, col := range r.Columns {
			fmt.Fprintf(&b, "<th>%s</th>\n", html.EscapeString(col))
		}
		b.WriteString("</tr>\n</thead>\n<tbody>\n")

		for _, row := range r.Rows {
			fmt.Fprintf(&b, "<tr class=\"%s\">\n", rowClass(cellOr(row, statusIdx)))
			for i, col := range r.Columns {
				val := htmlCell(cellOr(row, i))
				fmt.Fprintf(&b, "<td class=\"%s\">%s</td>\n", cellClass(col, val), html.EscapeString(val))
			}
			b.WriteString("</tr>\n")
		}
		b.WriteString("</tbody>\n</table>\n")
	}

	b.WriteString("</div>\n</body>\n</html>\n")
	return os.WriteFile(path, []byte(b.String()), 0o644)
}

func htmlCell(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

func rowClass(status string) string {
	switch strings.ToLower(status) {
	case "present":
		return "status-present"
	case "missing":
		return "status-missing"
	case "extra", "extra (no manifest)":
		return "status-extra"
	}
	return ""
}

func cellClass(column, value string) string {
	if !strings.Contains(column, "Match") {
		return ""
	}
	switch value {
	case "Yes":
		return "match-yes"
	case "No":
		return "match-no"
	case "Partial":
		return "match-partial"
	}
	return ""
}
