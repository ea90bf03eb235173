package cli

import (
	"fmt"

	"github.com/existflow/weektrack/internal/model"
	"github.com/spf13/cobra"
)

var editCmd = &cobra.Command{
	Use:   "edit [timer]",
	Short: "Edit a timer",
	Long: `Change a timer's title, times or appearance. Values are applied as
given: changing --total does not recompute the remaining time.

Examples:
  weektrack edit abc123 --title "Writing"
  weektrack edit abc123 --total 8h --remaining 8h`,
	Args: cobra.ExactArgs(1),
	RunE: runEdit,
}

var (
	editTitle     string
	editTotal     string
	editRemaining string
	editElapsed   string
	editColor     string
	editSize      string
)

func init() {
	editCmd.Flags().StringVar(&editTitle, "title", "", "New title")
	editCmd.Flags().StringVar(&editTotal, "total", "", "New weekly target")
	editCmd.Flags().StringVar(&editRemaining, "remaining", "", "New remaining time")
	editCmd.Flags().StringVar(&editElapsed, "elapsed", "", "New elapsed time")
	editCmd.Flags().StringVar(&editColor, "color", "", "New display color")
	editCmd.Flags().StringVar(&editSize, "size", "", "New display size")
}

// durationFlag parses a duration flag if it was set. "0" clears the value.
func durationFlag(cmd *cobra.Command, name, value string) (*int64, error) {
	if !cmd.Flags().Changed(name) {
		return nil, nil
	}
	var secs int64
	if value != "0" {
		parsed, err := model.ParseDuration(value)
		if err != nil {
			return nil, fmt.Errorf("--%s: %w", name, err)
		}
		secs = parsed
	}
	return &secs, nil
}

func runEdit(cmd *cobra.Command, args []string) error {
	var update model.TimerUpdate
	var err error

	if cmd.Flags().Changed("title") {
		update.Title = &editTitle
	}
	if cmd.Flags().Changed("color") {
		update.Color = &editColor
	}
	if cmd.Flags().Changed("size") {
		update.Size = &editSize
	}
	if update.TotalSeconds, err = durationFlag(cmd, "total", editTotal); err != nil {
		return err
	}
	if update.RemainingSeconds, err = durationFlag(cmd, "remaining", editRemaining); err != nil {
		return err
	}
	if update.ElapsedSeconds, err = durationFlag(cmd, "elapsed", editElapsed); err != nil {
		return err
	}

	if update.Empty() {
		return fmt.Errorf("nothing to change, see 'weektrack edit --help'")
	}

	a, err := openApp(cmd.Context(), false)
	if err != nil {
		return err
	}
	defer closeApp(a)

	t, err := resolveTimer(a.Tracker, args[0])
	if err != nil {
		return err
	}

	a.Tracker.UpdateTimer(t.ID, update)

	after, _ := a.Tracker.Timer(t.ID)
	fmt.Printf("✓ Updated \"%s\" [%s]\n", after.Title, shortID(after.ID))
	return nil
}
