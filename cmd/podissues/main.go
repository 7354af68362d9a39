// podissues runs per-document quality checks (date mismatch, customer
// mismatch, missing signature markers) over the POD folder and writes the
// issues report.
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
		useOCR   = flag.Bool("ocr", false, "prefer OCR over the PDF text layer")
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
	if *useOCR {
		cfg.OCR.UseOCR = true
	}
	if err := cfg.Validate(); err != nil {
		logger.Error("configuration invalid", "error", err)
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	res, err := app.RunIssues(ctx, cfg, logger)
	if err != nil {
		logger.Error("issue detection failed", "error", err)
		os.Exit(1)
	}
	logger.Info("done",
		"report", res.ReportPaths["xlsx"],
		"analyzed", res.Analyzed,
		"issues", len(res.Issues),
	)
}
