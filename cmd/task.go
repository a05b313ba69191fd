package cmd

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Tiliavir/productivity-tracker/internal/model"
	"github.com/Tiliavir/productivity-tracker/internal/tasks"
)

var taskParent int

var taskCmd = &cobra.Command{
	Use:   "task",
	Short: "Manage the task tree",
}

var taskAddCmd = &cobra.Command{
	Use:   "add <name...>",
	Short: "Add a task, optionally below a parent",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runTaskAdd,
}

var taskDoneCmd = &cobra.Command{
	Use:   "done <id>",
	Short: "Mark a task as done",
	Args:  cobra.ExactArgs(1),
	RunE:  func(cmd *cobra.Command, args []string) error { return runTaskToggle(args[0], true) },
}

var taskUndoCmd = &cobra.Command{
	Use:   "undo <id>",
	Short: "Mark a task as open again",
	Args:  cobra.ExactArgs(1),
	RunE:  func(cmd *cobra.Command, args []string) error { return runTaskToggle(args[0], false) },
}

var taskListCmd = &cobra.Command{
	Use:   "list",
	Short: "Show the task tree",
	Args:  cobra.NoArgs,
	RunE:  runTaskList,
}

func init() {
	taskAddCmd.Flags().IntVar(&taskParent, "parent", -1, "ID of the parent task")
	taskCmd.AddCommand(taskAddCmd, taskDoneCmd, taskUndoCmd, taskListCmd)
}

func runTaskAdd(cmd *cobra.Command, args []string) error {
	var parent *int
	if cmd.Flags().Changed("parent") {
		parent = &taskParent
	}
	t, err := trk.AddTask(strings.TrimSpace(strings.Join(args, " ")), parent)
	switch {
	case errors.Is(err, tasks.ErrNotFound):
		fmt.Fprintf(os.Stderr, "No task with ID %d.\n", taskParent)
		os.Exit(1)
	case errors.Is(err, tasks.ErrEmptyName), errors.Is(err, tasks.ErrInvalidName):
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	if err != nil {
		return err
	}
	fmt.Printf("Added task %d: %s\n", t.ID, t.Name)
	return nil
}

func runTaskToggle(arg string, done bool) error {
	id, err := strconv.Atoi(arg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "invalid task ID %q\n", arg)
		os.Exit(1)
	}
	if err := trk.ToggleTask(id, done); err != nil {
		if errors.Is(err, tasks.ErrNotFound) {
			fmt.Fprintf(os.Stderr, "No task with ID %d.\n", id)
			os.Exit(1)
		}
		return err
	}
	state := "open"
	if done {
		state = "done"
	}
	fmt.Printf("Task %d marked %s.\n", id, state)
	return nil
}

func runTaskList(cmd *cobra.Command, args []string) error {
	lines := taskTree(trk.WalkTasks)
	if len(lines) == 0 {
		fmt.Println("No tasks.")
		return nil
	}
	for _, l := range lines {
		fmt.Println(l)
	}
	return nil
}

// taskTree renders the forest produced by walk, two spaces per level.
func taskTree(walk func(func(model.Task, int))) []string {
	var lines []string
	walk(func(t model.Task, depth int) {
		mark := " "
		if t.Done {
			mark = "x"
		}
		lines = append(lines, fmt.Sprintf("%s[%s] %d  %s", strings.Repeat("  ", depth), mark, t.ID, t.Name))
	})
	return lines
}
