package cli

import (
	"fmt"
	"strings"

	"github.com/existflow/weektrack/internal/model"
	"github.com/spf13/cobra"
)

var listCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List timers",
	Long: `List all timers with their progress for the current week.

Examples:
  weektrack list
  weektrack ls`,
	RunE: runList,
}

func runList(cmd *cobra.Command, args []string) error {
	a, err := openApp(cmd.Context(), false)
	if err != nil {
		return err
	}
	defer closeApp(a)

	timers := a.Tracker.Timers()
	if len(timers) == 0 {
		fmt.Println("No timers yet. Add one with: weektrack add \"Deep work\" --goal 10h")
		return nil
	}

	var done int64
	for _, t := range timers {
		done += t.CompletedSeconds()
	}

	fmt.Printf("\n⏱  This week (%s tracked, %s)\n", model.FormatHours(done), a.Tracker.Scope())
	fmt.Println(strings.Repeat("─", 64))
	for _, t := range timers {
		printTimer(t)
	}
	fmt.Println()
	return nil
}

func printTimer(t model.Timer) {
	// Status icon
	icon := "⏸"
	switch {
	case t.IsRunning:
		icon = "▶"
	case t.Finished():
		icon = "✓"
	}

	title := t.Title
	if len(title) > 28 {
		title = title[:25] + "..."
	}

	detail := "stopwatch"
	if t.IsGoal() {
		detail = fmt.Sprintf("%3.0f%% of %s", t.Progress()*100, model.FormatHours(t.TotalSeconds))
	}

	fmt.Printf("  %s  %-8s  %-28s  %9s  %s\n", icon, shortID(t.ID), title, t.Display(), detail)
}
