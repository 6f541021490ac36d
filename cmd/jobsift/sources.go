package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

var sourcesCmd = &cobra.Command{
	Use:   "sources",
	Short: "List configured sources",
	Long:  "Prints every job board the pipeline will collect from, per the loaded config.",
	RunE:  runSources,
}

func init() {
	rootCmd.AddCommand(sourcesCmd)
}

func runSources(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cfgPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	header := fmt.Sprintf("%-25s %-12s %s", "Company", "Board", "Details")
	fmt.Println(tableHeaderStyle.Render(header))
	fmt.Println(strings.Repeat("─", 60))

	for _, b := range cfg.Sources.Greenhouse {
		fmt.Printf("%-25s %-12s %s\n", b.Company, "greenhouse", b.Board)
	}
	for _, l := range cfg.Sources.Lever {
		fmt.Printf("%-25s %-12s %s\n", l.Company, "lever", l.Site)
	}
	for _, w := range cfg.Sources.Workday {
		fmt.Printf("%-25s %-12s %s\n", w.Company, "workday", w.Host)
	}
	if cfg.Sources.RemoteOK.Enabled {
		fmt.Printf("%-25s %-12s %s\n", "RemoteOK", "remoteok", "api.remoteok.com")
	}

	fmt.Printf("\nTotal: %d sources\n", cfg.Sources.Count())
	return nil
}
