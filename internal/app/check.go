package app

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/freightdesk/podrec/constants"
	"github.com/freightdesk/podrec/internal/common"
	"github.com/freightdesk/podrec/internal/ingest"
	"github.com/freightdesk/podrec/internal/manifest"
	"github.com/freightdesk/podrec/internal/pipeline"
	"github.com/freightdesk/podrec/internal/reconcile"
	"github.com/freightdesk/podrec/internal/report"
	"github.com/freightdesk/podrec/internal/store"
)

// CheckOptions tune one presence-check run.
type CheckOptions struct {
	// Deep also runs the per-document content comparison (extract, parse,
	// compare) over every present document and writes a match report.
	Deep bool
}

// CheckResult carries the paths of the generated reports.
type CheckResult struct {
	ReportPaths map[string]string
	MatchPaths  map[string]string
	Present     int
	Missing     int
	Extra       int
}

// RunCheck compares the manifest against the scanned POD folder and writes
// the presence report; with Deep it also content-matches every present
// document.
func RunCheck(ctx context.Context, cfg *common.Config, opts CheckOptions, logger *slog.Logger) (CheckResult, error) {
	if logger == nil {
		logger = slog.Default()
	}
	var res CheckResult

	records, warnings, err := manifest.NewLoader(cfg.Manifest.Columns, logger).Load(cfg.Paths.ManifestPath)
	if err != nil {
		return res, err
	}
	for _, w := range warnings {
		logger.Warn("manifest warning", "warning", w)
	}

	docs, err := ingest.ScanFolder(cfg.Paths.PODFolder, cfg.Manifest.Extensions, logger)
	if err != nil {
		return res, err
	}
	byID := ingest.ByID(docs)
	byKey := manifest.ByKey(records)

	manifestIDs := make([]string, 0, len(records))
	for _, rec := range records {
		manifestIDs = append(manifestIDs, rec.Key())
	}
	sets := reconcile.Diff(reconcile.NewSet(manifestIDs), reconcile.NewSet(ingest.IDs(docs)))
	res.Present, res.Missing, res.Extra = len(sets.Present), len(sets.Missing), len(sets.Extra)

	rep := buildCheckReport(records, byID, sets)
	base := cfg.OutputPath("pod_check_report", "xlsx")
	paths, saveErrs := rep.SaveAll(base, logger)
	if len(paths) == 0 && len(saveErrs) > 0 {
		return res, saveErrs[0]
	}
	res.ReportPaths = paths
	logger.Info("presence check complete",
		"manifest", len(records),
		"present", res.Present,
		"missing", res.Missing,
		"extra", res.Extra,
	)

	if !opts.Deep {
		return res, nil
	}

	matchRep, _, err := runDeepMatch(ctx, cfg, docs, byKey, records, logger)
	if err != nil {
		return res, err
	}

	matchBase := cfg.OutputPath("pod_match_report", "xlsx")
	matchPaths, matchErrs := matchRep.SaveAll(matchBase, logger)
	if len(matchPaths) == 0 && len(matchErrs) > 0 {
		return res, matchErrs[0]
	}
	res.MatchPaths = matchPaths
	return res, nil
}

func buildCheckReport(records []manifest.Record, byID map[string]ingest.Document, sets reconcile.PresenceSets) *report.Report {
	rep := report.New("POD Check")
	rep.Columns = []string{ColDeliveryID, ColStatus, "Filename", "Manifest Date", "Customer"}

	type row struct {
		cells  []string
		status constants.PresenceStatus
	}
	var rows []row

	for _, rec := range records {
		id := rec.Key()
		if id == "" {
			continue
		}
		switch {
		case sets.Present.Has(id):
			name := ""
			if doc, ok := byID[id]; ok {
				name = doc.Name
			}
			rows = append(rows, row{
				cells:  []string{id, string(constants.PresencePresent), name, rec.Date, rec.Customer},
				status: constants.PresencePresent,
			})
		case sets.Missing.Has(id):
			rows = append(rows, row{
				cells:  []string{id, string(constants.PresenceMissing), "", rec.Date, rec.Customer},
				status: constants.PresenceMissing,
			})
		}
	}

	extraIDs := make([]string, 0, len(sets.Extra))
	for id := range sets.Extra {
		extraIDs = append(extraIDs, id)
	}
	sort.Strings(extraIDs)
	for _, id := range extraIDs {
		name := ""
		if doc, ok := byID[id]; ok {
			name = doc.Name
		}
		rows = append(rows, row{
			cells:  []string{id, string(constants.PresenceExtra), name, "N/A", "N/A (not in manifest)"},
			status: constants.PresenceExtra,
		})
	}

	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].status != rows[j].status {
			return rows[i].status.SortRank() < rows[j].status.SortRank()
		}
		return rows[i].cells[0] < rows[j].cells[0]
	})
	for _, r := range rows {
		rep.Rows = append(rep.Rows, r.cells)
	}

	total := len(sets.Present) + len(sets.Missing)
	rep.AddStat("Total in Manifest", total)
	rep.AddStat("PODs Present", len(sets.Present))
	rep.AddStat("PODs Missing", len(sets.Missing))
	rep.AddStat("Extra PODs", len(sets.Extra))
	if total > 0 {
		rep.AddStat("Match Rate", fmt.Sprintf("%.1f%%", float64(len(sets.Present))/float64(total)*100))
	} else {
		rep.AddStat("Match Rate", "N/A")
	}
	rep.AddStat("Generated", time.Now().Format("2006-01-02 15:04:05"))

	statusIdx := rep.Column(ColStatus)
	rep.FillFor = func(row []string) string {
		switch constants.PresenceStatus(row[statusIdx]) {
		case constants.PresencePresent:
			return report.ColorGreen
		case constants.PresenceMissing:
			return report.ColorRed
		case constants.PresenceExtra:
			return report.ColorYellow
		}
		return ""
	}
	return rep
}

// runDeepMatch content-compares every manifest-matched document and records
// the run in the history store when one is configured.
func runDeepMatch(ctx context.Context, cfg *common.Config, docs []ingest.Document, byKey map[string]manifest.Record, records []manifest.Record, logger *slog.Logger) (*report.Report, pipeline.Stats, error) {
	started := time.Now()

	comparator := reconcile.NewComparator(reconcile.Options{
		DateToleranceDays: cfg.Matching.DateToleranceDays,
		CustomerThreshold: cfg.Matching.CustomerMatchThreshold,
	})
	proc := pipeline.NewProcessor(newExtractor(cfg, logger), comparator,
		manifest.Customers(records), cfg.OCR.ExtractTimeout, logger)

	results, stats, err := proc.Run(ctx, docs, byKey)
	if err != nil {
		return nil, stats, err
	}

	rep := report.New("POD Match")
	rep.Columns = []string{
		ColDeliveryID, "Filename", "Overall Match", "Match Score",
		"ID Match", "Date Match", "Customer Match", "Issues",
	}
	for _, r := range results {
		rep.Rows = append(rep.Rows, []string{
			r.Record.Key(),
			r.Doc.Name,
			string(r.Verdict.Overall),
			fmt.Sprintf("%d", r.Verdict.Score),
			yesNo(r.Verdict.IDMatch),
			yesNo(r.Verdict.DateMatch),
			yesNo(r.Verdict.CustomerMatch),
			strings.Join(r.Verdict.Issues, "; "),
		})
	}
	rep.AddStat("Documents Analyzed", stats.Analyzed)
	rep.AddStat("Full Matches", stats.Matched)
	rep.AddStat("Partial Matches", stats.Partial)
	rep.AddStat("No Match", stats.NoMatch)
	rep.AddStat("Errors", stats.Errored)
	rep.AddStat("Generated", time.Now().Format("2006-01-02 15:04:05"))

	overallIdx := rep.Column("Overall Match")
	rep.FillFor = func(row []string) string {
		switch constants.OverallMatch(row[overallIdx]) {
		case constants.MatchYes:
			return report.ColorGreen
		case constants.MatchPartial:
			return report.ColorYellow
		case constants.MatchNo, constants.MatchError:
			return report.ColorRed
		}
		return ""
	}

	if err := recordMatchRun(ctx, cfg, "podcheck", started, results, stats, logger); err != nil {
		logger.Warn("run history not recorded", "error", err)
	}
	return rep, stats, nil
}

func recordMatchRun(ctx context.Context, cfg *common.Config, tool string, started time.Time, results []pipeline.DocResult, stats pipeline.Stats, logger *slog.Logger) error {
	hist, err := store.Open(ctx, cfg.Store.DBPath, logger)
	if err != nil {
		return err
	}
	defer hist.Close()

	verdicts := make([]store.VerdictRow, 0, len(results))
	for _, r := range results {
		verdicts = append(verdicts, store.VerdictRow{
			DeliveryID: r.Record.Key(),
			File:       r.Doc.Name,
			Overall:    string(r.Verdict.Overall),
			Score:      r.Verdict.Score,
			Issues:     r.Verdict.Issues,
		})
	}
	_, err = hist.RecordRun(ctx, store.Run{
		Tool:       tool,
		StartedAt:  started,
		FinishedAt: time.Now(),
		Analyzed:   stats.Analyzed,
		Matched:    stats.Matched,
		Errored:    stats.Errored,
	}, verdicts)
	return err
}
