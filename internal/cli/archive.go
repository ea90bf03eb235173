package cli

import (
	"fmt"

	"github.com/existflow/weektrack/internal/model"
	"github.com/spf13/cobra"
)

var archiveCmd = &cobra.Command{
	Use:   "archive",
	Short: "Close the week",
	Long: `Save a snapshot of every timer to the history and reset all timers for
a new week. Titles, targets and colors are kept.`,
	RunE: runArchive,
}

var archiveForce bool

func init() {
	archiveCmd.Flags().BoolVarP(&archiveForce, "force", "f", false, "Skip confirmation")
}

func runArchive(cmd *cobra.Command, args []string) error {
	a, err := openApp(cmd.Context(), false)
	if err != nil {
		return err
	}
	defer closeApp(a)

	if len(a.Tracker.Timers()) == 0 {
		fmt.Println("No timers to archive.")
		return nil
	}

	if !archiveForce && !confirm("Archive this week and reset all timers?") {
		fmt.Println("Cancelled.")
		return nil
	}

	record := a.Tracker.ArchiveWeek()
	fmt.Printf("📦 Archived %d timers (%s tracked). Timers reset for the new week.\n",
		len(record.Timers), model.FormatHours(record.TotalCompleted()))
	return nil
}
