// Package email renders issue follow-up emails from fixed templates and
// writes them as draft text files for human review. Nothing is ever sent.
package email

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/freightdesk/podrec/internal/issues"
)

// GroupBy selects how issues are bundled into drafts.
type GroupBy string

const (
	GroupByBusiness GroupBy = "by-business"
	GroupByType     GroupBy = "by-type"
)

// ParseGroupBy validates a group-by flag value.
func ParseGroupBy(s string) (GroupBy, bool) {
	switch GroupBy(s) {
	case GroupByBusiness, GroupByType:
		return GroupBy(s), true
	}
	return "", false
}

// Contact is one recipient looked up by business name.
type Contact struct {
	Name  string
	Email string
}

// Draft is one rendered email.
type Draft struct {
	Group      string
	Contact    Contact
	Subject    string
	Body       string
	IssueCount int
	Path       string
}

// Group bundles issues for a single draft.
type Group struct {
	Name   string
	Issues []issues.Issue
}

// GroupIssues bundles issues per the chosen mode. by-business groups by the
// issue's customer lookup (callers pass a resolver; a nil resolver puts
// everything under one bucket), by-type groups by issue type. Group order is
// deterministic.
func GroupIssues(list []issues.Issue, mode GroupBy, businessFor func(deliveryID string) string) []Group {
	buckets := make(map[string][]issues.Issue)
	for _, iss := range list {
		key := ""
		switch mode {
		case GroupByType:
			key = iss.Type
			if key == "" {
				key = "Unknown"
			}
		default:
			if businessFor != nil {
				key = businessFor(iss.DeliveryID)
			}
			if key == "" {
				key = "Unknown Business"
			}
		}
		buckets[key] = append(buckets[key], iss)
	}

	names := make([]string, 0, len(buckets))
	for name := range buckets {
		names = append(names, name)
	}
	sort.Strings(names)

	groups := make([]Group, 0, len(names))
	for _, name := range names {
		groups = append(groups, Group{Name: name, Issues: buckets[name]})
	}
	return groups
}

// SummaryVars feed the summary template's stanza; other templates ignore
// them.
type SummaryVars struct {
	Total    int
	Received int
	Missing  int
	Issues   int
}

// Render fills a template for one group of issues.
func Render(tmpl Template, contactName string, group Group, vars SummaryVars) Draft {
	t, ok := templates[tmpl]
	if !ok {
		t = templates[TemplateQuality]
	}

	repl := strings.NewReplacer(
		"{contact_name}", contactName,
		"{count}", fmt.Sprintf("%d", len(group.Issues)),
		"{issue_list}", issueList(group.Issues),
		"{issue_details}", issueDetails(group.Issues),
		"{date}", time.Now().Format("2006-01-02"),
		"{total}", fmt.Sprintf("%d", vars.Total),
		"{received}", fmt.Sprintf("%d", vars.Received),
		"{missing}", fmt.Sprintf("%d", vars.Missing),
		"{issues}", fmt.Sprintf("%d", vars.Issues),
	)
	return Draft{
		Group:      group.Name,
		Subject:    repl.Replace(t.subject),
		Body:       repl.Replace(t.body),
		IssueCount: len(group.Issues),
	}
}

func issueList(list []issues.Issue) string {
	var lines []string
	for _, iss := range list {
		line := "- Delivery ID: " + iss.DeliveryID
		if iss.Type != "" {
			line += " | Issue: " + iss.Type
		}
		if iss.Severity != "" {
			line += " | Severity: " + string(iss.Severity)
		}
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n")
}

func issueDetails(list []issues.Issue) string {
	var lines []string
	for _, iss := range list {
		lines = append(lines,
			"Delivery: "+iss.DeliveryID,
			"  Type: "+orNA(iss.Type),
			"  Severity: "+orNA(string(iss.Severity)),
			"  Details: "+orNA(iss.Details),
			"  Expected: "+orNA(iss.Expected),
			"  Found: "+orNA(iss.Found),
			"",
		)
	}
	return strings.Join(lines, "\n")
}

func orNA(s string) string {
	if s == "" {
		return "N/A"
	}
	return s
}

// Drafter renders grouped issues and writes draft files.
type Drafter struct {
	template Template
	contacts map[string]Contact
	logger   *slog.Logger
	now      func() time.Time
}

func NewDrafter(tmpl Template, contacts map[string]Contact, logger *slog.Logger) *Drafter {
	if logger == nil {
		logger = slog.Default()
	}
	if contacts == nil {
		contacts = map[string]Contact{}
	}
	return &Drafter{template: tmpl, contacts: contacts, logger: logger, now: time.Now}
}

// WriteDrafts renders one draft per group into draftsDir as a .txt file with
// a TO/SUBJECT header, ready for pasting into a mail client.
func (d *Drafter) WriteDrafts(groups []Group, vars SummaryVars, draftsDir string) ([]Draft, error) {
	if err := os.MkdirAll(draftsDir, 0o755); err != nil {
		return nil, err
	}

	var drafts []Draft
	for _, g := range groups {
		if len(g.Issues) == 0 {
			continue
		}
		contact, ok := d.contacts[g.Name]
		if !ok {
			contact = Contact{Name: "Team"}
		}
		if contact.Name == "" {
			contact.Name = "Team"
		}

		draft := Render(d.template, contact.Name, g, vars)
		draft.Contact = contact
		draft.Path = filepath.Join(draftsDir,
			fmt.Sprintf("email_%s_%s.txt", safeFileName(g.Name), d.now().Format("20060102_150405")))

		var b strings.Builder
		fmt.Fprintf(&b, "TO: %s\n", contact.Email)
		fmt.Fprintf(&b, "SUBJECT: %s\n", draft.Subject)
		b.WriteString(strings.Repeat("-", 50) + "\n\n")
		b.WriteString(draft.Body)

		if err := os.WriteFile(draft.Path, []byte(b.String()), 0o644); err != nil {
			return drafts, fmt.Errorf("write draft for %s: %w", g.Name, err)
		}
		d.logger.Info("draft created", "group", g.Name, "path", draft.Path, "issues", draft.IssueCount)
		drafts = append(drafts, draft)
	}
	return drafts, nil
}

// safeFileName strips a group name to alphanumerics plus space, dash and
// underscore, capped at 30 characters.
func safeFileName(name string) string {
	var b strings.Builder
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == ' ', r == '-', r == '_':
			b.WriteRune(r)
		}
	}
	s := b.String()
	if len(s) > 30 {
		s = s[:30]
	}
	return s
}
