package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/existflow/weektrack/internal/app"
	"github.com/existflow/weektrack/internal/logger"
	"github.com/existflow/weektrack/internal/model"
	"github.com/existflow/weektrack/internal/remote"
	"github.com/existflow/weektrack/internal/tracker"
	"github.com/spf13/cobra"
)

// openApp loads state from the active store. exclusive takes the
// single-instance lock even when signed in, for long-running front ends.
func openApp(ctx context.Context, exclusive bool) (*app.App, error) {
	client, err := remote.NewClient()
	if err != nil {
		return nil, err
	}

	a, err := app.New(ctx, app.Options{
		Config:    cfg,
		Remote:    client,
		Exclusive: exclusive,
	})
	if errors.Is(err, app.ErrLocked) && !exclusive {
		return nil, fmt.Errorf("%w; make the change there or quit it first", err)
	}
	if err != nil {
		return nil, err
	}

	if a.LoadErr != nil {
		fmt.Fprintf(os.Stderr, "⚠️  Could not load saved timers (%v); starting empty.\n", a.LoadErr)
	}
	return a, nil
}

// closeApp flushes pending writes before the process exits
func closeApp(a *app.App) {
	if err := a.Close(); err != nil {
		logger.Error("Failed to close app", logger.Err(err))
	}
}

// resolveTimer finds a timer by exact id, unique id prefix or unique
// case-insensitive title
func resolveTimer(tr *tracker.Tracker, ref string) (model.Timer, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return model.Timer{}, fmt.Errorf("timer id or title required")
	}

	if t, ok := tr.Timer(ref); ok {
		return t, nil
	}

	var byPrefix, byTitle []model.Timer
	for _, t := range tr.Timers() {
		if strings.HasPrefix(t.ID, ref) {
			byPrefix = append(byPrefix, t)
		}
		if strings.EqualFold(t.Title, ref) {
			byTitle = append(byTitle, t)
		}
	}

	switch {
	case len(byPrefix) == 1:
		return byPrefix[0], nil
	case len(byPrefix) > 1:
		return model.Timer{}, fmt.Errorf("%q matches %d timers, use a longer id", ref, len(byPrefix))
	case len(byTitle) == 1:
		return byTitle[0], nil
	case len(byTitle) > 1:
		return model.Timer{}, fmt.Errorf("%d timers are titled %q, use the id", len(byTitle), ref)
	}
	return model.Timer{}, fmt.Errorf("timer not found: %s", ref)
}

// contextWithTimeout bounds a single network call made by a command
func contextWithTimeout(cmd *cobra.Command, d time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(cmd.Context(), d)
}

// shortID returns the first eight characters of an id
func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

// confirm asks a yes/no question on stdin
func confirm(prompt string) bool {
	fmt.Print(prompt + " [y/N]: ")
	reader := bufio.NewReader(os.Stdin)
	answer, _ := reader.ReadString('\n')
	answer = strings.TrimSpace(answer)
	return answer == "y" || answer == "Y"
}

// readLine prompts and reads one trimmed line from stdin
func readLine(reader *bufio.Reader, prompt string) string {
	fmt.Print(prompt)
	line, _ := reader.ReadString('\n')
	return strings.TrimSpace(line)
}
