package cli

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/existflow/weektrack/internal/logger"
	"github.com/existflow/weektrack/internal/model"
	"github.com/existflow/weektrack/internal/tracker"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Run timers headless",
	Long: `Keep the running timer ticking without the TUI and, if auto_archive is
enabled, close the week on the configured schedule. Stops on Ctrl+C.`,
	RunE: runWatch,
}

var watchQuiet bool

func init() {
	watchCmd.Flags().BoolVarP(&watchQuiet, "quiet", "q", false, "Do not print the running timer")
}

func runWatch(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := openApp(ctx, true)
	if err != nil {
		return err
	}
	defer closeApp(a)

	engine := tracker.NewEngine(a.Tracker)
	engine.SetOnTick(func() {
		if watchQuiet {
			return
		}
		if t, ok := a.Tracker.Running(); ok {
			fmt.Printf("\r▶  %-30s %10s", t.Title, t.Display())
		}
	})

	var scheduler *tracker.Scheduler
	if cfg.AutoArchive {
		scheduler, err = tracker.NewScheduler(a.Tracker, cfg.ArchiveSchedule)
		if err != nil {
			return err
		}
		scheduler.SetOnArchive(func(h model.WeekHistory) {
			fmt.Printf("\n📦 Week archived (%s tracked)\n", model.FormatHours(h.TotalCompleted()))
		})
		fmt.Printf("Next archive: %s\n", scheduler.Next(time.Now()).Format("Mon Jan 2 15:04"))
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return engine.Run(gctx)
	})
	if scheduler != nil {
		g.Go(func() error {
			return scheduler.Run(gctx)
		})
	}

	fmt.Println("Watching timers. Press Ctrl+C to stop.")
	logger.Info("Watch started", logger.F("autoArchive", cfg.AutoArchive))

	err = g.Wait()
	fmt.Println()
	return err
}
