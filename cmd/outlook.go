package cmd

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/Tiliavir/productivity-tracker/internal/calendar"
	"github.com/Tiliavir/productivity-tracker/internal/timecalc"
)

var (
	outlookSyncFrom   string
	outlookSyncTo     string
	outlookSyncDate   string
	outlookSyncDryRun bool
	outlookSyncTZ     string
)

var outlookCmd = &cobra.Command{
	Use:   "outlook",
	Short: "Outlook calendar integration",
}

var outlookSyncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Import Outlook meetings as MEETING events",
	Args:  cobra.NoArgs,
	RunE:  runOutlookSync,
}

func init() {
	outlookSyncCmd.Flags().StringVar(&outlookSyncFrom, "from", "", "Start date (YYYY-MM-DD); required when --to is specified")
	outlookSyncCmd.Flags().StringVar(&outlookSyncTo, "to", "", "End date (YYYY-MM-DD); defaults to today")
	outlookSyncCmd.Flags().StringVar(&outlookSyncDate, "date", "", "Sync a specific date (YYYY-MM-DD)")
	outlookSyncCmd.Flags().BoolVar(&outlookSyncDryRun, "dry-run", false, "Print planned imports without writing")
	outlookSyncCmd.Flags().StringVar(&outlookSyncTZ, "timezone", "", "IANA timezone for event times (default from config)")
	outlookCmd.AddCommand(outlookSyncCmd)
}

// syncRange resolves the --date / --from / --to flags into a local range.
// Without flags the range is today.
func syncRange(now time.Time, date, fromStr, toStr string) (time.Time, time.Time, error) {
	const layout = "2006-01-02"
	switch {
	case date != "":
		d, err := time.ParseInLocation(layout, date, time.Local)
		if err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("invalid --date value %q: %w", date, err)
		}
		return timecalc.StartOfDay(d), timecalc.EndOfDay(d), nil

	case fromStr != "" || toStr != "":
		if fromStr == "" {
			return time.Time{}, time.Time{}, fmt.Errorf("--from is required when --to is specified")
		}
		from, err := time.ParseInLocation(layout, fromStr, time.Local)
		if err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("invalid --from value %q: %w", fromStr, err)
		}
		to := now
		if toStr != "" {
			to, err = time.ParseInLocation(layout, toStr, time.Local)
			if err != nil {
				return time.Time{}, time.Time{}, fmt.Errorf("invalid --to value %q: %w", toStr, err)
			}
		}
		if to.Before(from) {
			return time.Time{}, time.Time{}, fmt.Errorf("--to must not be before --from")
		}
		return timecalc.StartOfDay(from), timecalc.EndOfDay(to), nil
	}
	return timecalc.StartOfDay(now), timecalc.EndOfDay(now), nil
}

func runOutlookSync(cmd *cobra.Command, args []string) error {
	from, to, err := syncRange(time.Now(), outlookSyncDate, outlookSyncFrom, outlookSyncTo)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	timezone := outlookSyncTZ
	if timezone == "" {
		timezone = cfg.Outlook.Timezone
	}

	dryTag := ""
	if outlookSyncDryRun {
		dryTag = " [dry-run]"
	}
	fmt.Printf("Syncing Outlook events (%s → %s)%s...\n",
		from.Format("2006-01-02"), to.Format("2006-01-02"), dryTag)
	fmt.Println()

	ctx := context.Background()

	auth := calendar.NewAuthenticator(trk.Dir(), cfg.Outlook.TenantID, cfg.Outlook.ClientID, os.Stdout)
	httpClient, err := auth.HTTPClient(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Authentication failed: %v\n", err)
		os.Exit(1)
	}

	client := calendar.NewClient(httpClient, "")
	events, err := client.GetCalendarView(ctx, from, to, timezone)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to fetch calendar events: %v\n", err)
		os.Exit(1)
	}

	result := calendar.Import(trk.EventLog(), events, calendar.ImportOptions{
		Timezone: timezone,
		DryRun:   outlookSyncDryRun,
		Out:      os.Stdout,
	})

	fmt.Println()
	fmt.Println("Summary:")
	fmt.Printf("  %d imported\n", result.Imported)
	fmt.Printf("  %d skipped\n", result.Skipped)
	fmt.Printf("  %d filtered\n", result.Filtered)
	if result.Errors > 0 {
		fmt.Printf("  %d errors\n", result.Errors)
		os.Exit(2)
	}
	return nil
}
