package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write snapshot files into the data directory",
}

var exportHourlyCmd = &cobra.Command{
	Use:   "hourly",
	Short: "Export today's hourly notes",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return reportPath(trk.ExportHourlyToday(), "hourly logs (today)")
	},
}

var exportWeeklyCmd = &cobra.Command{
	Use:   "weekly",
	Short: "Export the last 7 days with a JSONL section of hourly notes",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return reportPath(trk.ExportWeekly(), "weekly logs")
	},
}

var exportBundleCmd = &cobra.Command{
	Use:   "bundle",
	Short: "Bundle this week's files with an analysis prompt",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return reportPath(trk.ExportBundle(), "analysis bundle")
	},
}

func init() {
	exportCmd.AddCommand(exportHourlyCmd, exportWeeklyCmd, exportBundleCmd)
}

// reportPath prints where an export went. An empty path means nothing was
// written, either for lack of data or because the write failed.
func reportPath(path, what string) error {
	if path == "" {
		fmt.Fprintf(os.Stderr, "Nothing exported for %s (no data, or the file could not be written).\n", what)
		os.Exit(1)
	}
	fmt.Printf("Exported %s to %s\n", what, path)
	return nil
}
