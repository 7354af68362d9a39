// podrun chains the daily reconciliation workflow in one process: presence
// check, issue detection, status consolidation and email drafts, each step
// feeding the next step's reports.
package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"

	"github.com/freightdesk/podrec/internal/app"
	"github.com/freightdesk/podrec/internal/common"
	"github.com/freightdesk/podrec/internal/email"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	var (
		folder       = flag.String("folder", "", "POD folder (default $POD_FOLDER)")
		manifest     = flag.String("manifest", "", "manifest spreadsheet (default $POD_MANIFEST)")
		output       = flag.String("output", "", "output folder for reports (default $POD_OUTPUT)")
		settings     = flag.String("settings", "", "optional JSON settings file")
		contacts     = flag.String("contacts", "", "business contacts spreadsheet for email drafts")
		deep         = flag.Bool("deep", false, "run content matching in the check step")
		templateName = flag.String("template", "quality", "email template for the drafts step")
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
	tmpl, ok := email.ParseTemplate(*templateName)
	if !ok {
		logger.Error("unknown template", "template", *templateName)
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	logger.Info("workflow started",
		"folder", cfg.Paths.PODFolder,
		"manifest", cfg.Paths.ManifestPath,
		"output", cfg.Paths.OutputFolder,
	)

	steps := app.RunWorkflow(ctx, cfg, app.WorkflowOptions{
		Deep:         *deep,
		ContactsPath: *contacts,
		Template:     tmpl,
	}, logger)

	failed := false
	for _, step := range steps {
		switch {
		case step.Skipped:
			logger.Info("step skipped", "step", step.Name)
		case step.Err != nil:
			failed = true
			logger.Error("step failed", "step", step.Name, "error", step.Err, "elapsed_ms", step.Duration.Milliseconds())
		default:
			logger.Info("step ok", "step", step.Name, "elapsed_ms", step.Duration.Milliseconds())
		}
	}
	if failed {
		os.Exit(1)
	}
}
