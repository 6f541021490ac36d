package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jobsift/jobsift/internal/review"
	"github.com/jobsift/jobsift/internal/store"
)

var reviewLimit int

var reviewCmd = &cobra.Command{
	Use:   "review",
	Short: "Review recent matches interactively (TUI)",
	Long:  "Browse recent listings, tag them applied/skipped/interviewing, and open postings in the browser.",
	RunE:  runReview,
}

func init() {
	reviewCmd.Flags().IntVar(&reviewLimit, "limit", 50, "how many recent listings to load")
	rootCmd.AddCommand(reviewCmd)
}

// No logger here: the TUI runs on the alt screen and any log line printed
// before it starts corrupts the display.
func runReview(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cfgPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	sqlStore, err := store.NewSQLiteStore(cfg.Store.Path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to open store: %v\n", err)
		os.Exit(1)
	}
	defer sqlStore.Close()

	entries, err := sqlStore.Recent(reviewLimit)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load recent listings: %v\n", err)
		os.Exit(1)
	}

	return review.Run(entries, sqlStore)
}
