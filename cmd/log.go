package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Tiliavir/productivity-tracker/internal/eventlog"
	"github.com/Tiliavir/productivity-tracker/internal/model"
)

var logKind string

var logCmd = &cobra.Command{
	Use:   "log <text...>",
	Short: "Record an hourly note (or an event of another kind)",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runLog,
}

func init() {
	logCmd.Flags().StringVar(&logKind, "kind", model.KindHourly, "Event kind")
}

func runLog(cmd *cobra.Command, args []string) error {
	kind, err := normalizeKind(logKind)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	e := trk.Log(kind, strings.Join(args, " "))
	fmt.Println(formatEvent(e))
	return nil
}

// normalizeKind upper-cases a kind and rejects values that would not survive
// a round trip through the log file.
func normalizeKind(kind string) (string, error) {
	kind = strings.ToUpper(strings.TrimSpace(kind))
	switch {
	case kind == "":
		return "", fmt.Errorf("--kind must not be empty")
	case strings.Contains(kind, eventlog.Separator):
		return "", fmt.Errorf("--kind %q must not contain %q", kind, eventlog.Separator)
	case strings.ContainsAny(kind, "\r\n"):
		return "", fmt.Errorf("--kind must be a single line")
	}
	return kind, nil
}
