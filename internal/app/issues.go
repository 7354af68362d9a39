package app

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/freightdesk/podrec/constants"
	"github.com/freightdesk/podrec/internal/common"
	"github.com/freightdesk/podrec/internal/extract"
	"github.com/freightdesk/podrec/internal/fields"
	"github.com/freightdesk/podrec/internal/ingest"
	"github.com/freightdesk/podrec/internal/issues"
	"github.com/freightdesk/podrec/internal/manifest"
	"github.com/freightdesk/podrec/internal/report"
)

// IssuesResult carries the outcome of one quality-check run.
type IssuesResult struct {
	ReportPaths map[string]string
	Analyzed    int
	Issues      []issues.Issue
}

// RunIssues extracts text from every manifest-matched document and runs the
// issue detector over it, writing the issues report.
func RunIssues(ctx context.Context, cfg *common.Config, logger *slog.Logger) (IssuesResult, error) {
	if logger == nil {
		logger = slog.Default()
	}
	var res IssuesResult

	records, warnings, err := manifest.NewLoader(cfg.Manifest.Columns, logger).Load(cfg.Paths.ManifestPath)
	if err != nil {
		return res, err
	}
	for _, w := range warnings {
		logger.Warn("manifest warning", "warning", w)
	}
	byKey := manifest.ByKey(records)

	docs, err := ingest.ScanFolder(cfg.Paths.PODFolder, cfg.Manifest.Extensions, logger)
	if err != nil {
		return res, err
	}

	extractor := newExtractor(cfg, logger)
	detector := issues.NewDetector(issues.Options{
		DateToleranceDays: cfg.Matching.DateToleranceDays,
		CustomerThreshold: cfg.Matching.CustomerMatchThreshold,
	})
	knownCustomers := manifest.Customers(records)

	var all []issues.Issue
	for _, doc := range docs {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		rec, ok := byKey[doc.FileID]
		if !ok {
			continue
		}
		res.Analyzed++

		bag := extractBag(ctx, extractor, doc, knownCustomers, cfg.OCR.ExtractTimeout, logger)
		all = append(all, detector.Detect(bag, rec)...)
	}
	issues.Sort(all)
	res.Issues = all

	rep := buildIssuesReport(all, res.Analyzed)
	base := cfg.OutputPath("pod_issues_report", "xlsx")
	paths, saveErrs := rep.SaveAll(base, logger)
	if len(paths) == 0 && len(saveErrs) > 0 {
		return res, saveErrs[0]
	}
	res.ReportPaths = paths

	logger.Info("issue detection complete", "analyzed", res.Analyzed, "issues", len(all))
	return res, nil
}

func extractBag(ctx context.Context, extractor extract.TextExtractor, doc ingest.Document, knownCustomers []string, timeout time.Duration, logger *slog.Logger) fields.FieldBag {
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}
	out, err := extractor.Extract(ctx, doc.Path)
	if err != nil {
		logger.Warn("extraction failed", "file", doc.Name, "error", err)
		return fields.Parse("", nil)
	}
	return fields.Parse(out.Text, knownCustomers)
}

func buildIssuesReport(all []issues.Issue, analyzed int) *report.Report {
	rep := report.New("POD Issues")
	rep.Columns = []string{
		ColDeliveryID, ColIssueType, ColSeverity, ColDetails,
		ColExpectedValue, ColDocumentValue, ColNeedsAction,
	}
	for _, iss := range all {
		rep.Rows = append(rep.Rows, []string{
			iss.DeliveryID, iss.Type, string(iss.Severity), iss.Details,
			iss.Expected, iss.Found, yesNo(iss.NeedsAction()),
		})
	}

	bySeverity, byType := issues.Counts(all)
	rep.AddStat("PODs Analyzed", analyzed)
	rep.AddStat("Total Issues", len(all))
	rep.AddStat("High Severity", bySeverity[constants.SeverityHigh])
	rep.AddStat("Medium Severity", bySeverity[constants.SeverityMedium])
	rep.AddStat("Low Severity", bySeverity[constants.SeverityLow])
	for _, t := range []string{issues.TypeDateMissing, issues.TypeDateMismatch, issues.TypeCustomerMismatch, issues.TypeStampCheck} {
		if n := byType[t]; n > 0 {
			rep.AddStat(fmt.Sprintf("%s Issues", t), n)
		}
	}
	rep.AddStat("Generated", time.Now().Format("2006-01-02 15:04:05"))

	sevIdx := rep.Column(ColSeverity)
	rep.FillFor = func(row []string) string {
		switch constants.Severity(row[sevIdx]) {
		case constants.SeverityHigh:
			return report.ColorRed
		case constants.SeverityMedium:
			return report.ColorYellow
		case constants.SeverityLow:
			return report.ColorGreen
		}
		return ""
	}
	return rep
}
