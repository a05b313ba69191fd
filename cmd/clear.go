package cmd

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

var clearYes bool

var clearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete all logs, tasks and status files",
	Args:  cobra.NoArgs,
	RunE:  runClear,
}

func init() {
	clearCmd.Flags().BoolVar(&clearYes, "yes", false, "Skip the confirmation prompt")
}

func runClear(cmd *cobra.Command, args []string) error {
	if !clearYes && !confirm(cmd.InOrStdin(), cmd.OutOrStdout(),
		fmt.Sprintf("This deletes all logs, tasks and status files in %s. Type 'yes' to continue: ", trk.Dir())) {
		fmt.Println("Aborted.")
		return nil
	}
	marker := trk.ClearAll()
	if marker == "" {
		fmt.Fprintln(os.Stderr, "Data cleared, but the marker file could not be written.")
		os.Exit(2)
	}
	fmt.Printf("All data cleared. Marker written to %s\n", marker)
	return nil
}

// confirm asks prompt on out and reports whether the answer is "yes".
func confirm(in io.Reader, out io.Writer, prompt string) bool {
	fmt.Fprint(out, prompt)
	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && line == "" {
		return false
	}
	return strings.EqualFold(strings.TrimSpace(line), "yes")
}
