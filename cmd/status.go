package cmd

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/Tiliavir/productivity-tracker/internal/model"
	"github.com/Tiliavir/productivity-tracker/internal/timecalc"
)

var statusExportOnly bool

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show today's overview, or save a daily/weekly status",
	Args:  cobra.NoArgs,
	RunE:  runStatus,
}

var statusDailyCmd = &cobra.Command{
	Use:   "daily <text...>",
	Short: "Save (or only export) the daily status",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runStatusSave("daily", strings.Join(args, " "))
	},
}

var statusWeeklyCmd = &cobra.Command{
	Use:   "weekly <text...>",
	Short: "Save (or only export) the weekly status",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runStatusSave("weekly", strings.Join(args, " "))
	},
}

func init() {
	statusCmd.PersistentFlags().BoolVar(&statusExportOnly, "export-only", false, "Write a snapshot without recording the status")
	statusCmd.AddCommand(statusDailyCmd, statusWeeklyCmd)
}

func runStatusSave(which, text string) error {
	var path string
	switch {
	case which == "daily" && statusExportOnly:
		path = trk.ExportDailyStatus(text)
	case which == "daily":
		path = trk.SaveDailyStatus(text)
	case statusExportOnly:
		path = trk.ExportWeeklyStatus(text)
	default:
		path = trk.SaveWeeklyStatus(text)
	}
	return reportPath(path, which+" status")
}

func runStatus(cmd *cobra.Command, args []string) error {
	fmt.Print(overview(trk.Events(), trk.ActiveBreaks(), trk.Tasks(), time.Now()))
	return nil
}

// overview summarises today: hourly notes, open breaks, open tasks and the
// most recent event.
func overview(events []model.Event, active []model.BreakEntry, tasks []model.Task, now time.Time) string {
	var b strings.Builder

	hourly := 0
	for _, e := range events {
		if e.Kind == model.KindHourly && timecalc.SameDay(now, e.Timestamp) {
			hourly++
		}
	}
	fmt.Fprintf(&b, "Today: %d hourly note(s).\n", hourly)

	if len(active) == 0 {
		b.WriteString("No active break.\n")
	}
	for _, br := range active {
		fmt.Fprintf(&b, "On %s break since %s (%s)\n",
			br.Category, br.Start.Local().Format("15:04"),
			timecalc.FormatDurationHHMMSS(now.Sub(br.Start)))
	}

	open := 0
	for _, t := range tasks {
		if !t.Done {
			open++
		}
	}
	fmt.Fprintf(&b, "Tasks: %d open, %d done.\n", open, len(tasks)-open)

	if len(events) > 0 {
		last := events[len(events)-1]
		fmt.Fprintf(&b, "Last event: %s\n", formatEvent(last))
	}
	return b.String()
}
