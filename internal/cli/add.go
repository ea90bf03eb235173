package cli

import (
	"fmt"
	"strings"

	"github.com/existflow/weektrack/internal/model"
	"github.com/spf13/cobra"
)

var addCmd = &cobra.Command{
	Use:   "add [title]",
	Short: "Add a new timer",
	Long: `Add a goal (counts down from a weekly target) or a stopwatch (counts up).

Examples:
  weektrack add "Deep work" --goal 10h
  weektrack add "Reading" --goal 90m --color "#FF6B6B"
  weektrack add "Side project" --stopwatch`,
	Args: cobra.MinimumNArgs(1),
	RunE: runAdd,
}

var (
	addGoal      string
	addStopwatch bool
	addColor     string
	addSize      string
)

func init() {
	addCmd.Flags().StringVarP(&addGoal, "goal", "g", "", "Weekly target (e.g. 10h, 1h30m, 45)")
	addCmd.Flags().BoolVarP(&addStopwatch, "stopwatch", "s", false, "Create a stopwatch instead of a goal")
	addCmd.Flags().StringVarP(&addColor, "color", "c", "#4ECDC4", "Display color")
	addCmd.Flags().StringVar(&addSize, "size", "md", "Display size (sm, md, lg)")
}

func runAdd(cmd *cobra.Command, args []string) error {
	title := strings.TrimSpace(strings.Join(args, " "))
	if title == "" {
		return fmt.Errorf("title required")
	}

	nt := model.NewTimer{
		Type:  model.TypeStopwatch,
		Title: title,
		Color: addColor,
		Size:  addSize,
	}

	switch {
	case addStopwatch && addGoal != "":
		return fmt.Errorf("cannot use both --goal and --stopwatch")
	case !addStopwatch:
		if addGoal == "" {
			return fmt.Errorf("a goal needs a target, e.g. --goal 5h (or use --stopwatch)")
		}
		total, err := model.ParseDuration(addGoal)
		if err != nil {
			return err
		}
		nt.Type = model.TypeGoal
		nt.TotalSeconds = total
	}

	a, err := openApp(cmd.Context(), false)
	if err != nil {
		return err
	}
	defer closeApp(a)

	t := a.Tracker.AddTimer(nt)

	if t.IsGoal() {
		fmt.Printf("✓ Added goal \"%s\" (%s) [%s]\n", t.Title, model.FormatHours(t.TotalSeconds), shortID(t.ID))
	} else {
		fmt.Printf("✓ Added stopwatch \"%s\" [%s]\n", t.Title, shortID(t.ID))
	}
	return nil
}
