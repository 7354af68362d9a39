package app

import (
	"context"
	"log/slog"
	"time"

	"github.com/freightdesk/podrec/constants"
	"github.com/freightdesk/podrec/internal/common"
	"github.com/freightdesk/podrec/internal/issues"
	"github.com/freightdesk/podrec/internal/manifest"
	"github.com/freightdesk/podrec/internal/report"
	"github.com/freightdesk/podrec/internal/status"
)

// StatusOptions point at the upstream reports to join in. Either may be
// empty; the consolidator then treats those signals as unknown.
type StatusOptions struct {
	CheckReportPath  string
	IssuesReportPath string
}

// StatusResult carries the outcome of one consolidation run.
type StatusResult struct {
	ReportPaths map[string]string
	Resolutions []status.Resolution
	Summary     status.Summary
}

// RunStatus joins the manifest with presence and issue reports into the
// per-delivery resolution report.
func RunStatus(ctx context.Context, cfg *common.Config, opts StatusOptions, logger *slog.Logger) (StatusResult, error) {
	if logger == nil {
		logger = slog.Default()
	}
	var res StatusResult

	if err := ctx.Err(); err != nil {
		return res, err
	}

	records, warnings, err := manifest.NewLoader(cfg.Manifest.Columns, logger).Load(cfg.Paths.ManifestPath)
	if err != nil {
		return res, err
	}
	for _, w := range warnings {
		logger.Warn("manifest warning", "warning", w)
	}

	presence := map[string]constants.PresenceStatus{}
	if opts.CheckReportPath != "" {
		presence, err = loadPresenceReport(opts.CheckReportPath)
		if err != nil {
			return res, err
		}
		logger.Info("check report loaded", "path", opts.CheckReportPath, "records", len(presence))
	}

	var issueList []issues.Issue
	if opts.IssuesReportPath != "" {
		issueList, err = LoadIssuesReport(opts.IssuesReportPath)
		if err != nil {
			return res, err
		}
		logger.Info("issues report loaded", "path", opts.IssuesReportPath, "records", len(issueList))
	}

	res.Resolutions = status.Consolidate(records, presence, status.IndexIssues(issueList))
	res.Summary = status.Summarize(res.Resolutions)

	rep := buildStatusReport(res.Resolutions, res.Summary)
	base := cfg.OutputPath("pod_status_report", "xlsx")
	paths, saveErrs := rep.SaveAll(base, logger)
	if len(paths) == 0 && len(saveErrs) > 0 {
		return res, saveErrs[0]
	}
	res.ReportPaths = paths

	logger.Info("status consolidation complete",
		"deliveries", res.Summary.Total,
		"ready_to_close", res.Summary.ReadyToClose,
		"has_issues", res.Summary.HasIssues,
	)
	return res, nil
}

// loadPresenceReport reads a check report back into a delivery-id to status
// map.
func loadPresenceReport(path string) (map[string]constants.PresenceStatus, error) {
	rows, err := report.ReadSection(path, ColDeliveryID)
	if err != nil {
		return nil, err
	}
	presence := make(map[string]constants.PresenceStatus, len(rows))
	for _, row := range rows {
		id := row[ColDeliveryID]
		if id == "" {
			continue
		}
		presence[id] = constants.PresenceStatus(row[ColStatus])
	}
	return presence, nil
}

// LoadIssuesReport reads an issues report back into issue rows. Shared with
// the email tool.
func LoadIssuesReport(path string) ([]issues.Issue, error) {
	rows, err := report.ReadSection(path, ColDeliveryID)
	if err != nil {
		return nil, err
	}
	var out []issues.Issue
	for _, row := range rows {
		id := row[ColDeliveryID]
		if id == "" {
			continue
		}
		out = append(out, issues.Issue{
			DeliveryID: id,
			Type:       row[ColIssueType],
			Severity:   constants.Severity(row[ColSeverity]),
			Details:    row[ColDetails],
			Expected:   row[ColExpectedValue],
			Found:      row[ColDocumentValue],
		})
	}
	return out, nil
}

func buildStatusReport(resolutions []status.Resolution, sum status.Summary) *report.Report {
	rep := report.New("POD Status")
	rep.Columns = []string{
		ColDeliveryID, "Customer", "Delivery Date", ColPODReceived,
		ColHasIssues, ColIssueDetails, ColSeverity, ColResolutionStatus, ColReadyToClose,
	}
	for _, r := range resolutions {
		rep.Rows = append(rep.Rows, []string{
			r.DeliveryID, r.Customer, r.Date, string(r.PODReceived),
			yesNo(r.HasIssues), r.IssueDetails, string(r.Severity),
			string(r.Status), yesNo(r.ReadyToClose),
		})
	}

	rep.AddStat("Total Deliveries", sum.Total)
	rep.AddStat("PODs Received", sum.Received)
	rep.AddStat("PODs Missing", sum.Missing)
	rep.AddStat("Has Issues", sum.HasIssues)
	rep.AddStat("Ready to Close", sum.ReadyToClose)
	rep.AddStat("Already Closed", sum.Closed)
	rep.AddStat("Generated", time.Now().Format("2006-01-02 15:04:05"))

	readyIdx := rep.Column(ColReadyToClose)
	statusIdx := rep.Column(ColResolutionStatus)
	rep.FillFor = func(row []string) string {
		if row[readyIdx] == "Yes" {
			return report.ColorGreen
		}
		switch constants.ResolutionStatus(row[statusIdx]) {
		case constants.ResolutionHasIssues:
			return report.ColorRed
		case constants.ResolutionPendingPOD:
			return report.ColorYellow
		}
		return ""
	}
	return rep
}
