// podcheck compares scanned POD documents against the delivery manifest and
// reports which are present, missing or unexpected. With -deep it also
// content-matches each document's extracted fields against its manifest row.
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
		folder   = flag.String("folder", "", "POD folder (default $POD_FOLDER)")
		manifest = flag.String("manifest", "", "manifest spreadsheet (default $POD_MANIFEST)")
		output   = flag.String("output", "", "output folder for reports (default $POD_OUTPUT)")
		settings = flag.String("settings", "", "optional JSON settings file")
		deep     = flag.Bool("deep", false, "also run per-document content matching")
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
	if *manifest != "" {
		cfg.Paths.ManifestPath = *manifest
	}
	if *output != "" {
		cfg.Paths.OutputFolder = *output
	}
	if err := cfg.Validate(); err != nil {
		logger.Error("configuration invalid", "error", err)
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	res, err := app.RunCheck(ctx, cfg, app.CheckOptions{Deep: *deep}, logger)
	if err != nil {
		logger.Error("check failed", "error", err)
		os.Exit(1)
	}
	logger.Info("done",
		"report", res.ReportPaths["xlsx"],
		"present", res.Present,
		"missing", res.Missing,
		"extra", res.Extra,
	)
	if *deep {
		logger.Info("match report", "report", res.MatchPaths["xlsx"])
	}
}
