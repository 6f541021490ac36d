package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/jobsift/jobsift/internal/model"
	"github.com/jobsift/jobsift/internal/report"
	"github.com/jobsift/jobsift/internal/store"
)

var (
	dryRun  bool
	noStore bool
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the pipeline once",
	Long:  "Collects from every configured source, filters, dedupes, scores and reports new matches, then exits.",
	RunE:  runRun,
}

func init() {
	runCmd.Flags().BoolVar(&dryRun, "dry-run", false, "log matches only, nothing persisted and no external reports")
	runCmd.Flags().BoolVar(&noStore, "no-store", false, "ignore prior history and persist nothing (deliberate reset runs)")
	rootCmd.AddCommand(runCmd)
}

func runRun(cmd *cobra.Command, args []string) error {
	logger := setupLogger(debug)

	cfg, err := loadConfig(cfgPath)
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger.Info("config loaded",
		"sources", cfg.Sources.Count(),
		"role_keywords", len(cfg.Profile.RoleKeywords),
		"max_age_days", cfg.Profile.MaxAgeDays,
		"reports", cfg.Report.Types,
	)

	var seenStore model.SeenStore
	if dryRun || noStore {
		logger.Info("seen index disabled for this run", "dry_run", dryRun, "no_store", noStore)
		seenStore = store.NewNopStore()
	} else {
		sqlStore, err := store.NewSQLiteStore(cfg.Store.Path)
		if err != nil {
			logger.Error("failed to open store", "error", err)
			os.Exit(1)
		}
		defer sqlStore.Close()
		seenStore = sqlStore
	}

	httpClient := &http.Client{Timeout: 30 * time.Second}

	var reporters []model.Reporter
	if dryRun {
		reporters = []model.Reporter{report.NewLogReporter(logger)}
	} else {
		reporters = setupReporters(cfg, httpClient, logger)
	}

	p := buildPipeline(cfg, seenStore, reporters, httpClient, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := p.Run(ctx); err != nil {
		logger.Error("run failed", "error", err)
		os.Exit(1)
	}
	return nil
}
