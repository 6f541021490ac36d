package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/jobsift/jobsift/internal/model"
	"github.com/jobsift/jobsift/internal/store"
)

var statusLimit int

var tableHeaderStyle = lipgloss.NewStyle().Bold(true)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show tracked listings and their statuses",
	Long:  "Prints per-status counts from the seen index plus the most recent listings.",
	RunE:  runStatus,
}

func init() {
	statusCmd.Flags().IntVar(&statusLimit, "limit", 10, "how many recent listings to show")
	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, args []string) error {
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

	counts, err := sqlStore.CountsByStatus()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to count listings: %v\n", err)
		os.Exit(1)
	}

	total := 0
	for _, n := range counts {
		total += n
	}
	fmt.Printf("%d listings tracked in %s\n\n", total, cfg.Store.Path)

	for _, st := range []model.Status{model.StatusNew, model.StatusApplied, model.StatusInterviewing, model.StatusSkipped} {
		fmt.Printf("  %-14s %d\n", st, counts[st])
	}

	entries, err := sqlStore.Recent(statusLimit)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load recent listings: %v\n", err)
		os.Exit(1)
	}
	if len(entries) == 0 {
		return nil
	}

	fmt.Println()
	header := fmt.Sprintf("%-40s %-20s %-7s %-13s %s", "Title", "Company", "Score", "Status", "First Seen")
	fmt.Println(tableHeaderStyle.Render(header))
	fmt.Println(strings.Repeat("─", 92))
	for _, e := range entries {
		fmt.Printf("%-40s %-20s %5.0f   %-13s %s\n",
			truncate(e.Title, 40), truncate(e.Company, 20), e.Score, e.Status, e.FirstSeen.Format("2006-01-02"))
	}

	return nil
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	if max <= 3 {
		return s[:max]
	}
	return s[:max-3] + "..."
}
