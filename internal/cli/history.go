package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/existflow/weektrack/internal/model"
	"github.com/spf13/cobra"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show archived weeks",
	Long: `Show archived weeks, most recent first.

Examples:
  weektrack history
  weektrack history -n 3 --detail`,
	RunE: runHistory,
}

var (
	historyLimit  int
	historyDetail bool
)

func init() {
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 10, "Number of weeks to show (0 for all)")
	historyCmd.Flags().BoolVarP(&historyDetail, "detail", "d", false, "Show every timer in each week")
}

func runHistory(cmd *cobra.Command, args []string) error {
	a, err := openApp(cmd.Context(), false)
	if err != nil {
		return err
	}
	defer closeApp(a)

	history := a.Tracker.History()
	if len(history) == 0 {
		fmt.Println("No archived weeks yet. Close a week with: weektrack archive")
		return nil
	}
	if historyLimit > 0 && len(history) > historyLimit {
		history = history[:historyLimit]
	}

	fmt.Println()
	for _, h := range history {
		printWeek(h, time.Now())
	}
	return nil
}

func printWeek(h model.WeekHistory, now time.Time) {
	var goals, met int
	for _, e := range h.Timers {
		if e.Type == model.TypeGoal {
			goals++
			if e.CompletedSeconds >= e.TotalSeconds {
				met++
			}
		}
	}

	fmt.Printf("📅 %s (%s)  %s tracked, %d/%d goals met\n",
		h.WeekStart.Local().Format("Mon Jan 2, 2006"),
		humanize.RelTime(h.WeekStart, now, "ago", "from now"),
		model.FormatHours(h.TotalCompleted()), met, goals)

	if !historyDetail {
		return
	}
	fmt.Println(strings.Repeat("─", 64))
	for _, e := range h.Timers {
		target := ""
		if e.Type == model.TypeGoal {
			target = "/ " + model.FormatHours(e.TotalSeconds)
		}
		fmt.Printf("    %-30s  %8s %s\n", e.Title, model.FormatHours(e.CompletedSeconds), target)
	}
	fmt.Println()
}
