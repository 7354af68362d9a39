// podarchive files processed POD documents into an archive tree organized by
// date, customer or resolution status, and writes an archive log report.
package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"

	"github.com/freightdesk/podrec/internal/app"
	"github.com/freightdesk/podrec/internal/archive"
	"github.com/freightdesk/podrec/internal/common"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	var (
		folder       = flag.String("folder", "", "source POD folder (default $POD_FOLDER)")
		archiveRoot  = flag.String("archive", "", "archive root folder (default $POD_ARCHIVE)")
		manifest     = flag.String("manifest", "", "manifest spreadsheet, feeds by-date and by-customer modes")
		output       = flag.String("output", "", "output folder for the log report (default $POD_OUTPUT)")
		settings     = flag.String("settings", "", "optional JSON settings file")
		mode         = flag.String("mode", "by-date", "archive mode: by-date, by-customer or by-status")
		statusReport = flag.String("status-report", "", "path to a pod_status report (feeds by-status mode)")
		copyFiles    = flag.Bool("copy", false, "copy files instead of moving them")
		dryRun       = flag.Bool("dry-run", false, "resolve destinations without touching files")
	)
	flag.Parse()

	cfg := common.LoadConfig()
	if *settings != "" {
		if err := common.ApplySettingsFile(cfg, *settings); err != nil {
			logger.Error("invalid settings file", "path", *settings, "error", err)
			os.Exit(2)
		}
	}
	if *folder != "" {
		cfg.Paths.PODFolder = *folder
	}
	if *archiveRoot != "" {
		cfg.Paths.ArchiveFolder = *archiveRoot
	}
	if *manifest != "" {
		cfg.Paths.ManifestPath = *manifest
	}
	if *output != "" {
		cfg.Paths.OutputFolder = *output
	}

	m, err := archive.ParseMode(*mode)
	if err != nil {
		logger.Error("invalid mode", "error", err)
		os.Exit(2)
	}
	if cfg.Paths.PODFolder == "" {
		logger.Error("source folder is required (-folder or $POD_FOLDER)")
		os.Exit(2)
	}
	if st, err := os.Stat(cfg.Paths.PODFolder); err != nil || !st.IsDir() {
		logger.Error("source folder not found", "path", cfg.Paths.PODFolder)
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	res, err := app.RunArchive(ctx, cfg, app.ArchiveOptions{
		Mode:             m,
		Copy:             *copyFiles,
		DryRun:           *dryRun,
		StatusReportPath: *statusReport,
	}, logger)
	if err != nil {
		logger.Error("archive failed", "error", err)
		os.Exit(1)
	}
	logger.Info("done",
		"log", res.LogPaths["xlsx"],
		"processed", res.Processed,
		"errors", res.Errors,
	)
}
