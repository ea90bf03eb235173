package persist

import (
	"context"
	"fmt"

	"github.com/existflow/weektrack/internal/model"
	"github.com/existflow/weektrack/internal/wire"
	"go.uber.org/multierr"
)

// RemoteStore is the identity-scoped storage collaborator, implemented by
// remote.Client
type RemoteStore interface {
	LoadTimers(ctx context.Context) ([]model.Timer, error)
	LoadHistory(ctx context.Context) ([]model.WeekHistory, error)
	SaveTimer(ctx context.Context, t model.Timer) error
	RemoveTimer(ctx context.Context, id string) error
	PatchTimer(ctx context.Context, id string, fields map[string]any) error
	AppendHistory(ctx context.Context, h model.WeekHistory) error
}

// Remote writes one record per user action and never persists ticks. Every
// toggle stores last_tick_at, which is enough for any reader to reconstruct
// running time on load.
type Remote struct {
	store RemoteStore
}

// NewRemote creates a remote strategy over store
func NewRemote(store RemoteStore) *Remote {
	return &Remote{store: store}
}

// Scope returns ScopeRemote
func (r *Remote) Scope() Scope {
	return ScopeRemote
}

// Load reads timers and history for the signed-in identity
func (r *Remote) Load(ctx context.Context) (Snapshot, error) {
	timers, err := r.store.LoadTimers(ctx)
	if err != nil {
		return Snapshot{}, fmt.Errorf("failed to load timers: %w", err)
	}
	history, err := r.store.LoadHistory(ctx)
	if err != nil {
		return Snapshot{}, fmt.Errorf("failed to load history: %w", err)
	}
	return Snapshot{Timers: timers, History: history}, nil
}

// Commit maps the change to the matching remote call
func (r *Remote) Commit(ctx context.Context, c Change) error {
	switch c.Kind {
	case ChangeTick:
		return nil
	case ChangeAdd:
		return r.store.SaveTimer(ctx, c.Timer)
	case ChangeDelete:
		return r.store.RemoveTimer(ctx, c.TimerID)
	case ChangeUpdate, ChangeToggle, ChangeDeduct, ChangeFinish:
		if len(c.Fields) == 0 {
			return nil
		}
		return r.store.PatchTimer(ctx, c.TimerID, wire.TimerFields(c.Timer, c.Fields...))
	case ChangeArchive:
		return r.archive(ctx, c)
	default:
		return fmt.Errorf("unknown change kind %d", c.Kind)
	}
}

// archive appends the history record, then resets each timer individually.
// A failing item does not stop the rest; all failures are returned together.
func (r *Remote) archive(ctx context.Context, c Change) error {
	var errs error
	if c.Archived != nil {
		if err := r.store.AppendHistory(ctx, *c.Archived); err != nil {
			errs = multierr.Append(errs, fmt.Errorf("append history %s: %w", c.Archived.ID, err))
		}
	}

	for _, t := range c.Timers {
		fields := wire.TimerFields(t, model.ProgressFields...)
		if err := r.store.PatchTimer(ctx, t.ID, fields); err != nil {
			errs = multierr.Append(errs, fmt.Errorf("reset timer %s: %w", t.ID, err))
		}
	}
	return errs
}
