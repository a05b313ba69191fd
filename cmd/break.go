package cmd

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/Tiliavir/productivity-tracker/internal/model"
	"github.com/Tiliavir/productivity-tracker/internal/timecalc"
)

var breakCmd = &cobra.Command{
	Use:   "break",
	Short: "Track breaks",
}

var breakStartCmd = &cobra.Command{
	Use:   "start [category]",
	Short: "Start a break (default: first configured category)",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runBreakStart,
}

var breakEndCmd = &cobra.Command{
	Use:   "end [category]",
	Short: "End the most recent open break of a category",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runBreakEnd,
}

var breakRandomCmd = &cobra.Command{
	Use:   "random",
	Short: "Record a short break of a random category",
	Args:  cobra.NoArgs,
	RunE:  runBreakRandom,
}

var breakListCmd = &cobra.Command{
	Use:   "list",
	Short: "List breaks",
	Args:  cobra.NoArgs,
	RunE:  runBreakList,
}

func init() {
	breakCmd.AddCommand(breakStartCmd, breakEndCmd, breakRandomCmd, breakListCmd)
}

// breakCategory returns the category argument or the first preset.
func breakCategory(args []string) string {
	if len(args) > 0 && strings.TrimSpace(args[0]) != "" {
		return strings.TrimSpace(args[0])
	}
	return trk.BreakTypes()[0]
}

func runBreakStart(cmd *cobra.Command, args []string) error {
	b := trk.StartBreak(breakCategory(args))
	fmt.Printf("Started %s break at %s\n", b.Category, b.Start.Format("15:04:05"))
	return nil
}

func runBreakEnd(cmd *cobra.Command, args []string) error {
	category := breakCategory(args)
	b, ok := trk.EndBreak(category)
	if !ok {
		fmt.Fprintf(os.Stderr, "No active %s break to end.\n", category)
		os.Exit(1)
	}
	elapsed := int64(b.End.Sub(b.Start).Seconds())
	fmt.Printf("Ended %s break. Elapsed: %s\n", b.Category, formatElapsed(elapsed))
	return nil
}

func runBreakRandom(cmd *cobra.Command, args []string) error {
	b := trk.RandomBreak()
	fmt.Printf("Random break: %s (%s–%s)\n", b.Category, b.Start.Format("15:04"), b.End.Format("15:04"))
	return nil
}

func runBreakList(cmd *cobra.Command, args []string) error {
	breaks := trk.Breaks()
	if len(breaks) == 0 {
		fmt.Println("No breaks recorded.")
		return nil
	}
	now := time.Now()
	for _, b := range breaks {
		fmt.Println(formatBreak(b, now))
	}
	return nil
}

// formatBreak renders one break; open breaks show their running time.
func formatBreak(b model.BreakEntry, now time.Time) string {
	start := timecalc.FormatLocal(b.Start)
	if b.Active() {
		elapsed := int64(now.Sub(b.Start).Seconds())
		return fmt.Sprintf("%-10s %s – ongoing (%s)", b.Category, start, formatElapsed(elapsed))
	}
	elapsed := int64(b.End.Sub(b.Start).Seconds())
	return fmt.Sprintf("%-10s %s – %s (%s)", b.Category, start, b.End.Local().Format("15:04:05"), formatElapsed(elapsed))
}

func formatElapsed(seconds int64) string {
	h := seconds / 3600
	m := (seconds % 3600) / 60
	s := seconds % 60
	if h > 0 {
		return fmt.Sprintf("%dh %dm %ds", h, m, s)
	}
	if m > 0 {
		return fmt.Sprintf("%dm %ds", m, s)
	}
	return fmt.Sprintf("%ds", s)
}
