package cli

import (
	"fmt"

	"github.com/existflow/weektrack/internal/model"
	"github.com/spf13/cobra"
)

var logCmd = &cobra.Command{
	Use:   "log [timer] [duration]",
	Short: "Log time tracked elsewhere",
	Long: `Record time spent without running the timer. Goals count down by the
amount, stopwatches count up.

Examples:
  weektrack log abc123 45
  weektrack log "Deep work" 1h30m`,
	Args: cobra.ExactArgs(2),
	RunE: runLog,
}

func runLog(cmd *cobra.Command, args []string) error {
	secs, err := model.ParseDuration(args[1])
	if err != nil {
		return err
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

	if err := a.Tracker.DeductTime(t.ID, secs); err != nil {
		return err
	}

	after, _ := a.Tracker.Timer(t.ID)
	fmt.Printf("✓ Logged %s to \"%s\" (now %s)\n", model.FormatHours(secs), after.Title, after.Display())
	if after.Finished() {
		fmt.Println("🎉 Goal reached!")
	}
	return nil
}
