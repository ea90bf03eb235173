package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var toggleCmd = &cobra.Command{
	Use:     "toggle [timer]",
	Aliases: []string{"t", "start", "stop"},
	Short:   "Start or pause a timer",
	Long: `Start a paused timer or pause a running one. Starting a timer pauses
whichever timer was running before.

Examples:
  weektrack toggle abc123
  weektrack t "Deep work"`,
	Args: cobra.ExactArgs(1),
	RunE: runToggle,
}

func runToggle(cmd *cobra.Command, args []string) error {
	a, err := openApp(cmd.Context(), false)
	if err != nil {
		return err
	}
	defer closeApp(a)

	before, err := resolveTimer(a.Tracker, args[0])
	if err != nil {
		return err
	}

	previous, hadRunning := a.Tracker.Running()
	a.Tracker.ToggleTimer(before.ID)
	after, _ := a.Tracker.Timer(before.ID)

	switch {
	case before.Finished() && !after.IsRunning:
		fmt.Printf("✓ \"%s\" already reached its goal. Edit it or archive the week to start again.\n", after.Title)
	case after.IsRunning:
		if hadRunning && previous.ID != after.ID {
			fmt.Printf("⏸  Paused \"%s\"\n", previous.Title)
		}
		fmt.Printf("▶  Started \"%s\" (%s)\n", after.Title, after.Display())
	default:
		fmt.Printf("⏸  Paused \"%s\" (%s)\n", after.Title, after.Display())
	}
	return nil
}
