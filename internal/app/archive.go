package app

import (
	"context"
	"log/slog"
	"time"

	"github.com/freightdesk/podrec/constants"
	"github.com/freightdesk/podrec/internal/archive"
	"github.com/freightdesk/podrec/internal/common"
	"github.com/freightdesk/podrec/internal/ingest"
	"github.com/freightdesk/podrec/internal/manifest"
	"github.com/freightdesk/podrec/internal/report"
)

// ArchiveOptions tune one archive run.
type ArchiveOptions struct {
	Mode             archive.Mode
	Copy             bool
	DryRun           bool
	StatusReportPath string // feeds by-status mode
}

// ArchiveResult carries the outcome of one archive run.
type ArchiveResult struct {
	LogPaths  map[string]string
	Processed int
	Errors    int
}

// RunArchive files the POD folder's documents into the archive tree and
// writes the archive log report.
func RunArchive(ctx context.Context, cfg *common.Config, opts ArchiveOptions, logger *slog.Logger) (ArchiveResult, error) {
	if logger == nil {
		logger = slog.Default()
	}
	var res ArchiveResult

	if err := ctx.Err(); err != nil {
		return res, err
	}

	docs, err := ingest.ScanFolder(cfg.Paths.PODFolder, cfg.Manifest.Extensions, logger)
	if err != nil {
		return res, err
	}

	archOpts := archive.Options{Mode: opts.Mode, Copy: opts.Copy, DryRun: opts.DryRun}

	switch opts.Mode {
	case archive.ModeByDate, archive.ModeByCustomer:
		if cfg.Paths.ManifestPath != "" {
			records, warnings, err := manifest.NewLoader(cfg.Manifest.Columns, logger).Load(cfg.Paths.ManifestPath)
			if err != nil {
				return res, err
			}
			for _, w := range warnings {
				logger.Warn("manifest warning", "warning", w)
			}
			archOpts.Records = manifest.ByKey(records)
		} else if opts.Mode == archive.ModeByCustomer {
			logger.Warn("by-customer mode works best with a manifest")
		}
	case archive.ModeByStatus:
		if opts.StatusReportPath != "" {
			archOpts.Statuses, err = loadStatusReport(opts.StatusReportPath)
			if err != nil {
				return res, err
			}
		} else {
			logger.Warn("by-status mode works best with a status report")
		}
	}

	entries, failures := archive.NewArchiver(cfg.Paths.ArchiveFolder, archOpts, logger).Run(docs)
	res.Processed = len(entries)
	res.Errors = len(failures)

	rep := buildArchiveLog(entries, failures, opts)
	base := cfg.OutputPath("pod_archive_log", "xlsx")
	paths, saveErrs := rep.SaveAll(base, logger)
	if len(paths) == 0 && len(saveErrs) > 0 {
		return res, saveErrs[0]
	}
	res.LogPaths = paths
	return res, nil
}

// loadStatusReport reads a status report back into a delivery-id to
// resolution-status map.
func loadStatusReport(path string) (map[string]constants.ResolutionStatus, error) {
	rows, err := report.ReadSection(path, ColDeliveryID)
	if err != nil {
		return nil, err
	}
	statuses := make(map[string]constants.ResolutionStatus, len(rows))
	for _, row := range rows {
		id := row[ColDeliveryID]
		if id == "" {
			continue
		}
		statuses[id] = constants.ResolutionStatus(row[ColResolutionStatus])
	}
	return statuses, nil
}

func buildArchiveLog(entries []archive.Entry, failures []archive.Failure, opts ArchiveOptions) *report.Report {
	rep := report.New("Archive Log")
	rep.Columns = []string{ColDeliveryID, "Source", "Destination", "Action", "Archive Date"}
	for _, e := range entries {
		rep.Rows = append(rep.Rows, []string{
			e.DeliveryID, e.Source, e.Destination, e.Action,
			e.ArchivedAt.Format("2006-01-02 15:04:05"),
		})
	}
	for _, f := range failures {
		rep.Rows = append(rep.Rows, []string{
			f.DeliveryID, f.Source, "", "Error: " + f.Err.Error(), "",
		})
	}

	action := "Move"
	if opts.Copy {
		action = "Copy"
	}
	rep.AddStat("Files Processed", len(entries))
	rep.AddStat("Errors", len(failures))
	rep.AddStat("Mode", string(opts.Mode))
	rep.AddStat("Action", action)
	rep.AddStat("Dry Run", yesNo(opts.DryRun))
	rep.AddStat("Generated", time.Now().Format("2006-01-02 15:04:05"))

	actionIdx := rep.Column("Action")
	rep.FillFor = func(row []string) string {
		if len(row[actionIdx]) >= 5 && row[actionIdx][:5] == "Error" {
			return report.ColorRed
		}
		return ""
	}
	return rep
}
