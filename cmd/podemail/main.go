// podemail turns an issues report into draft follow-up emails, one per
// customer or issue type. Drafts are written as text files for review; no
// mail is ever sent.
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
		issuesReport = flag.String("issues-report", "", "path to a pod_issues report (xlsx, required)")
		contacts     = flag.String("contacts", "", "business contacts spreadsheet")
		manifest     = flag.String("manifest", "", "manifest spreadsheet, resolves customers for by-business grouping")
		output       = flag.String("output", "", "output folder for drafts and log (default $POD_OUTPUT)")
		settings     = flag.String("settings", "", "optional JSON settings file")
		templateName = flag.String("template", "quality", "template: missing, quality, resolution or summary")
		groupBy      = flag.String("group-by", "by-business", "grouping: by-business or by-type")
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

	if *issuesReport == "" {
		logger.Error("-issues-report is required")
		os.Exit(2)
	}
	if _, err := os.Stat(*issuesReport); err != nil {
		logger.Error("issues report not found", "path", *issuesReport)
		os.Exit(2)
	}
	tmpl, ok := email.ParseTemplate(*templateName)
	if !ok {
		logger.Error("unknown template", "template", *templateName)
		os.Exit(2)
	}
	grouping, ok := email.ParseGroupBy(*groupBy)
	if !ok {
		logger.Error("unknown grouping", "group_by", *groupBy)
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	res, err := app.RunEmail(ctx, cfg, app.EmailOptions{
		IssuesReportPath: *issuesReport,
		ContactsPath:     *contacts,
		Template:         tmpl,
		GroupBy:          grouping,
	}, logger)
	if err != nil {
		logger.Error("email generation failed", "error", err)
		os.Exit(1)
	}
	logger.Info("done",
		"log", res.LogPaths["xlsx"],
		"drafts", res.DraftsCount,
		"drafts_dir", res.DraftsDir,
	)
}
