package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jobsift/jobsift/internal/store"
)

var resetYes bool

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Wipe the seen-listing history",
	Long:  "Deletes every tracked listing and status so the next run reports everything as new.",
	RunE:  runReset,
}

func init() {
	resetCmd.Flags().BoolVar(&resetYes, "yes", false, "confirm the wipe")
	rootCmd.AddCommand(resetCmd)
}

func runReset(cmd *cobra.Command, args []string) error {
	if !resetYes {
		fmt.Println("This deletes the full seen history. Re-run with --yes to confirm.")
		return nil
	}

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

	if err := sqlStore.Clear(); err != nil {
		fmt.Fprintf(os.Stderr, "failed to clear store: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Cleared %s\n", cfg.Store.Path)
	return nil
}
