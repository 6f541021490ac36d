package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/jobsift/jobsift/internal/scheduler"
	"github.com/jobsift/jobsift/internal/store"
)

var daemonCmd = &cobra.Command{
	Use:   "daemon",
	Short: "Run the pipeline on a schedule",
	Long:  "Runs one pass immediately, then on the configured cron schedule; blocks until SIGINT/SIGTERM.",
	RunE:  runDaemon,
}

func init() {
	rootCmd.AddCommand(daemonCmd)
}

func runDaemon(cmd *cobra.Command, args []string) error {
	logger := setupLogger(debug)

	cfg, err := loadConfig(cfgPath)
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger.Info("config loaded",
		"sources", cfg.Sources.Count(),
		"schedule", cfg.Daemon.Schedule,
		"reports", cfg.Report.Types,
	)

	sqlStore, err := store.NewSQLiteStore(cfg.Store.Path)
	if err != nil {
		logger.Error("failed to open store", "error", err)
		os.Exit(1)
	}
	defer sqlStore.Close()

	httpClient := &http.Client{Timeout: 30 * time.Second}
	reporters := setupReporters(cfg, httpClient, logger)
	p := buildPipeline(cfg, sqlStore, reporters, httpClient, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	sched := scheduler.New(p, cfg.Daemon.Schedule, logger)
	if err := sched.Run(ctx); err != nil {
		logger.Error("daemon error", "error", err)
		os.Exit(1)
	}

	logger.Info("goodbye")
	return nil
}
