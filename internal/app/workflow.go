package app

import (
	"context"
	"log/slog"
	"time"

	"github.com/freightdesk/podrec/internal/common"
	"github.com/freightdesk/podrec/internal/email"
)

// WorkflowOptions tune the daily workflow run.
type WorkflowOptions struct {
	Deep         bool
	ContactsPath string
	Template     email.Template
}

// StepResult records one workflow step's outcome.
type StepResult struct {
	Name     string
	Skipped  bool
	Err      error
	Duration time.Duration
}

// RunWorkflow chains the daily sequence: presence check, issue detection,
// status consolidation and email drafts. Steps run in-process and feed each
// other's reports; a failed step is recorded and the remaining steps still
// run with whatever inputs exist.
func RunWorkflow(ctx context.Context, cfg *common.Config, opts WorkflowOptions, logger *slog.Logger) []StepResult {
	if logger == nil {
		logger = slog.Default()
	}
	var steps []StepResult
	record := func(name string, skipped bool, err error, started time.Time) {
		steps = append(steps, StepResult{Name: name, Skipped: skipped, Err: err, Duration: time.Since(started)})
		if err != nil {
			logger.Error("workflow step failed", "step", name, "error", err)
		}
	}

	started := time.Now()
	checkRes, err := RunCheck(ctx, cfg, CheckOptions{Deep: opts.Deep}, logger)
	record("pod-check", false, err, started)
	checkReport := checkRes.ReportPaths["xlsx"]

	started = time.Now()
	issuesRes, err := RunIssues(ctx, cfg, logger)
	record("pod-issues", false, err, started)
	issuesReport := issuesRes.ReportPaths["xlsx"]

	started = time.Now()
	_, err = RunStatus(ctx, cfg, StatusOptions{
		CheckReportPath:  checkReport,
		IssuesReportPath: issuesReport,
	}, logger)
	record("pod-status", false, err, started)

	started = time.Now()
	if issuesReport == "" {
		record("pod-email", true, nil, started)
		logger.Info("email step skipped, no issues report")
	} else {
		_, err = RunEmail(ctx, cfg, EmailOptions{
			IssuesReportPath: issuesReport,
			ContactsPath:     opts.ContactsPath,
			Template:         opts.Template,
			GroupBy:          email.GroupByBusiness,
		}, logger)
		record("pod-email", false, err, started)
	}

	return steps
}
