// Package app wires configuration, storage and the tracker together for the
// CLI and TUI front ends.
package app

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/existflow/weektrack/internal/config"
	"github.com/existflow/weektrack/internal/db"
	"github.com/existflow/weektrack/internal/logger"
	"github.com/existflow/weektrack/internal/persist"
	"github.com/existflow/weektrack/internal/remote"
	"github.com/existflow/weektrack/internal/tracker"
	"github.com/gofrs/flock"
	"go.uber.org/multierr"
)

var _ persist.RemoteStore = (*remote.Client)(nil)

// ErrLocked is returned while another process holds the data directory
var ErrLocked = errors.New("weektrack is already running (TUI or watch) on this data directory")

// Options controls how an App is assembled
type Options struct {
	Config *config.Config
	// Remote is the sync client; when it holds a session the remote strategy
	// is used instead of local storage
	Remote *remote.Client
	// Exclusive takes the single-instance lock even with remote storage, for
	// long-running front ends. Local storage always takes it.
	Exclusive bool
	// TrackerOptions are passed through to tracker.New
	TrackerOptions []tracker.Option
}

// App holds the application state and dependencies
type App struct {
	Config  *config.Config
	Tracker *tracker.Tracker
	Remote  *remote.Client
	DB      *db.DB
	DataDir string

	// LoadErr is the error from the initial load, if any. The tracker starts
	// empty in that case but is still usable.
	LoadErr error

	lockFile *flock.Flock
}

// New creates a new application instance and loads the persisted state
func New(ctx context.Context, opts Options) (*App, error) {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	if cfg.DataDir == "" {
		return nil, fmt.Errorf("no data directory configured")
	}

	// Ensure data directory exists
	if err := os.MkdirAll(cfg.DataDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	a := &App{
		Config:  cfg,
		Remote:  opts.Remote,
		DataDir: cfg.DataDir,
	}

	// Local storage rewrites the whole timer list on every change, so only one
	// process may write it at a time
	if opts.Exclusive || !a.signedIn() {
		if err := a.acquireLock(); err != nil {
			return nil, err
		}
	}

	strategy, err := a.selectStrategy()
	if err != nil {
		a.releaseLock()
		return nil, err
	}

	a.Tracker = tracker.New(strategy, opts.TrackerOptions...)
	a.LoadErr = a.Tracker.Load(ctx)
	return a, nil
}

// selectStrategy picks remote storage when signed in, local otherwise
func (a *App) selectStrategy() (persist.Strategy, error) {
	if a.signedIn() {
		server, user := a.Remote.GetStatus()
		logger.Info("Using remote storage", logger.F("server", server), logger.F("user", user))
		return persist.NewRemote(a.Remote), nil
	}

	database, err := db.Open(filepath.Join(a.DataDir, "weektrack.db"))
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	a.DB = database
	return persist.NewLocal(database), nil
}

func (a *App) signedIn() bool {
	return a.Remote != nil && a.Remote.IsLoggedIn()
}

// acquireLock acquires an exclusive file lock to prevent multiple instances
func (a *App) acquireLock() error {
	lockPath := filepath.Join(a.DataDir, "weektrack.lock")
	a.lockFile = flock.New(lockPath)

	locked, err := a.lockFile.TryLock()
	if err != nil {
		return fmt.Errorf("failed to acquire lock: %w", err)
	}

	if !locked {
		return ErrLocked
	}

	return nil
}

// releaseLock releases the file lock
func (a *App) releaseLock() {
	if a.lockFile != nil {
		a.lockFile.Unlock()
	}
}

// Close flushes pending writes and cleans up application resources
func (a *App) Close() error {
	var err error

	if a.Tracker != nil {
		a.Tracker.Close()
	}

	if a.DB != nil {
		if cerr := a.DB.Close(); cerr != nil {
			err = multierr.Append(err, fmt.Errorf("failed to close database: %w", cerr))
		}
	}

	a.releaseLock()
	return err
}
