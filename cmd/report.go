package cmd

import (
	"fmt"
	"sort"
	"time"

	"github.com/spf13/cobra"

	"github.com/Tiliavir/productivity-tracker/internal/export"
	"github.com/Tiliavir/productivity-tracker/internal/model"
	"github.com/Tiliavir/productivity-tracker/internal/timecalc"
)

var reportFormat string

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Show an aggregated report of the last 7 days",
	Args:  cobra.NoArgs,
	RunE:  runReport,
}

func init() {
	reportCmd.Flags().StringVar(&reportFormat, "format", "md", "Output format: md, csv, json")
}

// weekReport aggregates the last seven days.
type weekReport struct {
	Kinds      []string
	KindCounts map[string]int
	Categories []string
	BreakTime  map[string]time.Duration
	TotalBreak time.Duration
}

func buildReport(events []model.Event, breaks []model.BreakEntry, now time.Time) weekReport {
	cutoff := now.Add(-export.Week)
	r := weekReport{KindCounts: map[string]int{}, BreakTime: map[string]time.Duration{}}

	for _, e := range events {
		if e.Timestamp.Before(cutoff) {
			continue
		}
		if _, seen := r.KindCounts[e.Kind]; !seen {
			r.Kinds = append(r.Kinds, e.Kind)
		}
		r.KindCounts[e.Kind]++
	}
	sort.Strings(r.Kinds)

	for _, b := range breaks {
		if b.Start.Before(cutoff) {
			continue
		}
		end := now
		if b.End != nil {
			end = *b.End
		}
		if _, seen := r.BreakTime[b.Category]; !seen {
			r.Categories = append(r.Categories, b.Category)
		}
		r.BreakTime[b.Category] += end.Sub(b.Start)
		r.TotalBreak += end.Sub(b.Start)
	}
	sort.Strings(r.Categories)
	return r
}

func runReport(cmd *cobra.Command, args []string) error {
	now := time.Now()
	r := buildReport(trk.Events(), trk.Breaks(), now)

	switch reportFormat {
	case "csv":
		fmt.Println("section,name,value")
		for _, k := range r.Kinds {
			fmt.Printf("events,%s,%d\n", csvEscape(k), r.KindCounts[k])
		}
		for _, c := range r.Categories {
			fmt.Printf("break_minutes,%s,%d\n", csvEscape(c), int64(r.BreakTime[c].Minutes()))
		}
	case "json":
		fmt.Println("{")
		fmt.Printf("  \"generated\": %q,\n", timecalc.FormatISO(now))
		fmt.Println("  \"events\": {")
		for i, k := range r.Kinds {
			fmt.Printf("    %q: %d%s\n", k, r.KindCounts[k], comma(i, len(r.Kinds)))
		}
		fmt.Println("  },")
		fmt.Println("  \"break_minutes\": {")
		for i, c := range r.Categories {
			fmt.Printf("    %q: %d%s\n", c, int64(r.BreakTime[c].Minutes()), comma(i, len(r.Categories)))
		}
		fmt.Println("  },")
		fmt.Printf("  \"total_break_minutes\": %d\n", int64(r.TotalBreak.Minutes()))
		fmt.Println("}")
	default: // md
		fmt.Println("Last 7 days")
		fmt.Println("--------------------------------")
		for _, k := range r.Kinds {
			fmt.Printf("%-20s%d\n", k, r.KindCounts[k])
		}
		fmt.Println("--------------------------------")
		for _, c := range r.Categories {
			fmt.Printf("%-20s%s\n", c, timecalc.FormatDuration(r.BreakTime[c]))
		}
		fmt.Printf("%-20s%s\n", "Total breaks", timecalc.FormatDuration(r.TotalBreak))
	}
	return nil
}

func comma(i, n int) string {
	if i == n-1 {
		return ""
	}
	return ","
}
