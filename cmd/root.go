package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/Tiliavir/productivity-tracker/internal/config"
	"github.com/Tiliavir/productivity-tracker/internal/logger"
	"github.com/Tiliavir/productivity-tracker/internal/storage"
	"github.com/Tiliavir/productivity-tracker/internal/tracker"
)

var (
	rootDataDir string
	rootDebug   bool

	cfg config.Config
	trk *tracker.Tracker
)

var rootCmd = &cobra.Command{
	Use:   "ptt",
	Short: "Productivity Tracker – hourly notes, breaks, tasks and status reports",
	Long: `ptt is a single-binary, file-based productivity tracker.
All data is stored as human-readable text files in ~/.productivity_tracker/.`,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
}

// Execute is the entry point called from main.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&rootDataDir, "data-dir", "", "Data directory (default ~/.productivity_tracker)")
	rootCmd.PersistentFlags().BoolVar(&rootDebug, "debug", false, "Mirror diagnostic logging to stderr")

	rootCmd.AddCommand(logCmd)
	rootCmd.AddCommand(eventsCmd)
	rootCmd.AddCommand(taskCmd)
	rootCmd.AddCommand(breakCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(reportCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(clearCmd)
	rootCmd.AddCommand(outlookCmd)
}

// setup resolves the data directory, loads config, starts logging and opens
// the tracker. It runs before every subcommand.
func setup(cmd *cobra.Command, args []string) error {
	dir := rootDataDir
	if dir == "" {
		base, err := storage.BaseDir()
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(2)
		}
		dir = base
	}

	var cfgErr error
	cfg, cfgErr = config.Load(dir)

	if err := logger.Init(logger.Config{Debug: rootDebug || cfg.Debug, Dir: dir}); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: file logging disabled: %v\n", err)
	}
	if cfgErr != nil {
		logger.Warn("using default config", "err", cfgErr)
	}

	trk = tracker.Open(tracker.Options{Dir: dir, BreakTypes: cfg.BreakTypes})
	return nil
}
