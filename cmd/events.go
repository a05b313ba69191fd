package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/Tiliavir/productivity-tracker/internal/eventlog"
	"github.com/Tiliavir/productivity-tracker/internal/export"
	"github.com/Tiliavir/productivity-tracker/internal/model"
	"github.com/Tiliavir/productivity-tracker/internal/timecalc"
)

var (
	eventsToday  bool
	eventsWeek   bool
	eventsKind   string
	eventsFormat string
)

var (
	timeStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))

	kindColors = map[string]lipgloss.Color{
		model.KindHourly:       lipgloss.Color("39"),
		model.KindDailyStatus:  lipgloss.Color("220"),
		model.KindWeeklyStatus: lipgloss.Color("78"),
		model.KindBreakStart:   lipgloss.Color("203"),
		model.KindBreakEnd:     lipgloss.Color("203"),
		model.KindBreakWarn:    lipgloss.Color("203"),
		model.KindBreakRandom:  lipgloss.Color("203"),
		model.KindExport:       lipgloss.Color("141"),
		model.KindTask:         lipgloss.Color("245"),
		model.KindMeeting:      lipgloss.Color("75"),
	}
)

var eventsCmd = &cobra.Command{
	Use:   "events",
	Short: "List recorded events",
	Args:  cobra.NoArgs,
	RunE:  runEvents,
}

func init() {
	eventsCmd.Flags().BoolVar(&eventsToday, "today", false, "Show today's events only")
	eventsCmd.Flags().BoolVar(&eventsWeek, "week", false, "Show the last 7 days only")
	eventsCmd.Flags().StringVar(&eventsKind, "kind", "", "Show events of this kind only")
	eventsCmd.Flags().StringVar(&eventsFormat, "format", "text", "Output format: text, csv, json")
}

func runEvents(cmd *cobra.Command, args []string) error {
	events := filterEvents(trk.Events(), time.Now(), eventsToday, eventsWeek, strings.ToUpper(eventsKind))

	switch eventsFormat {
	case "json":
		data, err := json.MarshalIndent(eventRecords(events), "", "  ")
		if err != nil {
			fmt.Fprintln(os.Stderr, "error encoding JSON:", err)
			os.Exit(2)
		}
		fmt.Println(string(data))
	case "csv":
		printCSV(events)
	default:
		if len(events) == 0 {
			fmt.Println("No events found.")
			return nil
		}
		for _, e := range events {
			fmt.Println(styleEvent(e))
		}
	}
	return nil
}

// filterEvents keeps events matching the day/week window and kind. An empty
// kind matches every kind.
func filterEvents(events []model.Event, now time.Time, today, week bool, kind string) []model.Event {
	var out []model.Event
	for _, e := range events {
		if today && !timecalc.SameDay(now, e.Timestamp) {
			continue
		}
		if week && e.Timestamp.Before(now.Add(-export.Week)) {
			continue
		}
		if kind != "" && e.Kind != kind {
			continue
		}
		out = append(out, e)
	}
	return out
}

// formatEvent renders an event exactly as it is stored.
func formatEvent(e model.Event) string {
	return eventlog.EncodeLine(e)
}

// styleEvent renders an event with its timestamp dimmed and its kind colored.
func styleEvent(e model.Event) string {
	kind := lipgloss.NewStyle().Bold(true)
	if c, ok := kindColors[e.Kind]; ok {
		kind = kind.Foreground(c)
	}
	return timeStyle.Render(timecalc.FormatLocal(e.Timestamp)) + "  " +
		kind.Render(fmt.Sprintf("%-13s", e.Kind)) + "  " + e.Text
}

type eventRecord struct {
	Timestamp string `json:"timestamp"`
	Kind      string `json:"kind"`
	Text      string `json:"text"`
}

func eventRecords(events []model.Event) []eventRecord {
	out := make([]eventRecord, 0, len(events))
	for _, e := range events {
		out = append(out, eventRecord{
			Timestamp: timecalc.FormatISO(e.Timestamp),
			Kind:      e.Kind,
			Text:      e.Text,
		})
	}
	return out
}

func printCSV(events []model.Event) {
	fmt.Println("timestamp,kind,text")
	for _, e := range events {
		fmt.Printf("%s,%s,%s\n",
			csvEscape(timecalc.FormatLocal(e.Timestamp)),
			csvEscape(e.Kind),
			csvEscape(e.Text),
		)
	}
}

// csvEscape wraps a field in quotes if it contains a comma, quote, or newline.
func csvEscape(s string) string {
	if !strings.ContainsAny(s, ",\"\n\r") {
		return s
	}
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}
