package app

import (
	"context"
	"log/slog"
	"path/filepath"
	"strconv"
	"time"

	"github.com/freightdesk/podrec/internal/common"
	"github.com/freightdesk/podrec/internal/email"
	"github.com/freightdesk/podrec/internal/manifest"
	"github.com/freightdesk/podrec/internal/report"
)

// EmailOptions tune one draft-generation run.
type EmailOptions struct {
	IssuesReportPath string
	ContactsPath     string
	Template         email.Template
	GroupBy          email.GroupBy
}

// EmailResult carries the outcome of one draft-generation run.
type EmailResult struct {
	LogPaths    map[string]string
	DraftsDir   string
	DraftsCount int
}

// RunEmail turns an issues report into per-group draft emails plus a log
// report. Drafts are text files only; nothing is sent.
func RunEmail(ctx context.Context, cfg *common.Config, opts EmailOptions, logger *slog.Logger) (EmailResult, error) {
	if logger == nil {
		logger = slog.Default()
	}
	var res EmailResult

	if err := ctx.Err(); err != nil {
		return res, err
	}
	if opts.Template == "" {
		opts.Template = email.TemplateQuality
	}
	if opts.GroupBy == "" {
		opts.GroupBy = email.GroupByBusiness
	}

	issueList, err := LoadIssuesReport(opts.IssuesReportPath)
	if err != nil {
		return res, err
	}
	logger.Info("issues loaded", "path", opts.IssuesReportPath, "count", len(issueList))

	contacts := map[string]email.Contact{}
	if opts.ContactsPath != "" {
		contacts, err = email.LoadContacts(opts.ContactsPath)
		if err != nil {
			return res, err
		}
		logger.Info("contacts loaded", "path", opts.ContactsPath, "count", len(contacts))
	}

	// by-business grouping resolves the customer through the manifest when
	// one is configured; without it everything lands in one bucket.
	var businessFor func(string) string
	if opts.GroupBy == email.GroupByBusiness && cfg.Paths.ManifestPath != "" {
		records, _, err := manifest.NewLoader(cfg.Manifest.Columns, logger).Load(cfg.Paths.ManifestPath)
		if err != nil {
			return res, err
		}
		byKey := manifest.ByKey(records)
		businessFor = func(deliveryID string) string {
			return byKey[deliveryID].Customer
		}
	}

	groups := email.GroupIssues(issueList, opts.GroupBy, businessFor)
	logger.Info("issues grouped", "groups", len(groups), "mode", string(opts.GroupBy))

	res.DraftsDir = filepath.Join(cfg.Paths.OutputFolder, "email_drafts")
	drafter := email.NewDrafter(opts.Template, contacts, logger)
	drafts, err := drafter.WriteDrafts(groups, email.SummaryVars{
		Total:  len(issueList),
		Issues: len(issueList),
	}, res.DraftsDir)
	if err != nil {
		return res, err
	}
	res.DraftsCount = len(drafts)

	rep := buildEmailLog(drafts, opts)
	base := cfg.OutputPath("pod_email_log", "xlsx")
	paths, saveErrs := rep.SaveAll(base, logger)
	if len(paths) == 0 && len(saveErrs) > 0 {
		return res, saveErrs[0]
	}
	res.LogPaths = paths
	return res, nil
}

func buildEmailLog(drafts []email.Draft, opts EmailOptions) *report.Report {
	rep := report.New("Email Log")
	rep.Columns = []string{"Group", "Contact Name", "Contact Email", "Subject", "Issue Count", "Draft File"}

	covered := 0
	for _, d := range drafts {
		covered += d.IssueCount
		rep.Rows = append(rep.Rows, []string{
			d.Group, d.Contact.Name, d.Contact.Email, d.Subject,
			strconv.Itoa(d.IssueCount), d.Path,
		})
	}

	rep.AddStat("Emails Generated", len(drafts))
	rep.AddStat("Total Issues Covered", covered)
	rep.AddStat("Template Used", string(opts.Template))
	rep.AddStat("Generated", time.Now().Format("2006-01-02 15:04:05"))
	return rep
}
