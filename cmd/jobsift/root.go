package main

import (
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/jobsift/jobsift/internal/adapter"
	"github.com/jobsift/jobsift/internal/collector"
	"github.com/jobsift/jobsift/internal/config"
	"github.com/jobsift/jobsift/internal/fit"
	"github.com/jobsift/jobsift/internal/model"
	"github.com/jobsift/jobsift/internal/pipeline"
	"github.com/jobsift/jobsift/internal/ratelimit"
	"github.com/jobsift/jobsift/internal/report"
	"github.com/jobsift/jobsift/internal/retry"
)

var (
	cfgPath string
	debug   bool
)

var rootCmd = &cobra.Command{
	Use:   "jobsift",
	Short: "Personal job search pipeline",
	Long:  "Jobsift collects postings from job boards, filters and scores them against your profile, and reports only the new matches.",
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgPath, "config", "c", "", "path to config file (default: JOBSIFT_CONFIG env var or ./config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")
}

// loadConfig resolves the config path and parses it.
// Priority: explicit path arg > JOBSIFT_CONFIG env var > "./config.yaml"
func loadConfig(path string) (*config.Config, error) {
	if path == "" {
		if env := os.Getenv("JOBSIFT_CONFIG"); env != "" {
			path = env
		} else {
			path = "config.yaml"
		}
	}
	return config.Load(path)
}

func setupLogger(dbg bool) *slog.Logger {
	logLevel := slog.LevelInfo
	if dbg {
		logLevel = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel}))
}

// buildSources wires every configured board behind its decorators: rate
// limiting innermost, retry outermost. The limiter keys on the board family
// so every board of one backend shares a request budget.
func buildSources(cfg *config.Config, httpClient *http.Client, logger *slog.Logger) []model.Source {
	limiter := ratelimit.NewBoardRateLimiter(cfg.RateLimit.MinDelay, cfg.RateLimit.SourceOverrides)

	var sources []model.Source
	add := func(src model.Source, board string) {
		limited := ratelimit.NewRateLimitedSource(src, limiter, board)
		sources = append(sources, retry.NewRetrySource(limited, 2, 5*time.Second, logger))
		logger.Debug("registered source", "source", src.Name(), "board", board)
	}

	for _, b := range cfg.Sources.Greenhouse {
		add(adapter.NewGreenhouseSource(b.Company, b.Board, httpClient), "greenhouse")
	}
	for _, l := range cfg.Sources.Lever {
		add(adapter.NewLeverSource(l.Company, l.Site, httpClient), "lever")
	}
	for _, w := range cfg.Sources.Workday {
		add(adapter.NewWorkdaySource(w.Company, w.Host, w.Tenant, w.Site, w.SearchText, w.MaxPages, httpClient), "workday")
	}
	if cfg.Sources.RemoteOK.Enabled {
		add(adapter.NewRemoteOKSource(httpClient), "remoteok")
	}
	return sources
}

func setupReporters(cfg *config.Config, httpClient *http.Client, logger *slog.Logger) []model.Reporter {
	var reporters []model.Reporter
	for _, typ := range cfg.Report.Types {
		switch typ {
		case "log":
			reporters = append(reporters, report.NewLogReporter(logger))
		case "markdown":
			reporters = append(reporters, report.NewMarkdownReporter(cfg.Report.Dir, logger))
		case "slack":
			logger.Info("using slack reporter")
			reporters = append(reporters, report.NewSlackReporter(cfg.Report.WebhookURL, httpClient, logger))
		}
	}
	return reporters
}

func buildPipeline(cfg *config.Config, seenStore model.SeenStore, reporters []model.Reporter, httpClient *http.Client, logger *slog.Logger) *pipeline.Pipeline {
	sources := buildSources(cfg, httpClient, logger)
	col := collector.New(sources, cfg.Collector.SourceTimeout, cfg.Collector.MaxConcurrent, logger)
	return pipeline.New(col, fit.NewNopEstimator(), seenStore, reporters, cfg, logger)
}
