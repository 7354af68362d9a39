// podstatus joins the manifest with the latest check and issues reports into
// one per-delivery resolution report, flagging deliveries ready to close.
package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"

	"github.com/freightdesk/podrec/internal/app"
	"github.com/freightdesk/podrec/internal/common"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	var (
		manifest     = flag.String("manifest", "", "manifest spreadsheet (default $POD_MANIFEST)")
		output       = flag.String("output", "", "output folder for reports (default $POD_OUTPUT)")
		settings     = flag.String("settings", "", "optional JSON settings file")
		checkReport  = flag.String("check-report", "", "path to a pod_check report (xlsx)")
		issuesReport = flag.String("issues-report", "", "path to a pod_issues report (xlsx)")
	)
	flag.Parse()

	cfg := common.LoadConfig()
	if *settings != "" {
		if err := common.ApplySettingsFile(cfg, *settings); err != nil {
			logger.Error("invalid settings file", "path", *settings, "error", err)
			os.Exit(2)
		}
	}
	if *manifest != "" {
		cfg.Paths.ManifestPath = *manifest
	}
	if *output != "" {
		cfg.Paths.OutputFolder = *output
	}
	if cfg.Paths.ManifestPath == "" {
		logger.Error("manifest path is required (-manifest or $POD_MANIFEST)")
		os.Exit(2)
	}
	if _, err := os.Stat(cfg.Paths.ManifestPath); err != nil {
		logger.Error("manifest file not found", "path", cfg.Paths.ManifestPath)
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	res, err := app.RunStatus(ctx, cfg, app.StatusOptions{
		CheckReportPath:  *checkReport,
		IssuesReportPath: *issuesReport,
	}, logger)
	if err != nil {
		logger.Error("status consolidation failed", "error", err)
		os.Exit(1)
	}
	logger.Info("done",
		"report", res.ReportPaths["xlsx"],
		"deliveries", res.Summary.Total,
		"ready_to_close", res.Summary.ReadyToClose,
	)
}
