package persist

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/existflow/weektrack/internal/logger"
	"github.com/existflow/weektrack/internal/model"
)

// Keys used in the local state table
const (
	KeyTimers  = "timers"
	KeyHistory = "history"
)

// StateStore is a durable key/value store, implemented by db.DB
type StateStore interface {
	GetState(ctx context.Context, key string) (string, bool, error)
	PutStates(ctx context.Context, values map[string]string) error
	DeleteState(ctx context.Context, keys ...string) error
}

// Local keeps the whole timer and history collections on this device and
// rewrites them after every change, ticks included.
type Local struct {
	store StateStore
}

// NewLocal creates a local strategy over store
func NewLocal(store StateStore) *Local {
	return &Local{store: store}
}

// Scope returns ScopeLocal
func (l *Local) Scope() Scope {
	return ScopeLocal
}

// Load reads both collections. A corrupt collection is discarded and treated
// as empty rather than failing the load.
func (l *Local) Load(ctx context.Context) (Snapshot, error) {
	var snap Snapshot

	if err := l.loadKey(ctx, KeyTimers, &snap.Timers); err != nil {
		return Snapshot{}, err
	}
	if err := l.loadKey(ctx, KeyHistory, &snap.History); err != nil {
		return Snapshot{}, err
	}
	return snap, nil
}

func (l *Local) loadKey(ctx context.Context, key string, dst any) error {
	raw, ok, err := l.store.GetState(ctx, key)
	if err != nil {
		return err
	}
	if !ok || raw == "" {
		return nil
	}

	if err := json.Unmarshal([]byte(raw), dst); err != nil {
		logger.Warn("Discarding corrupt local state", logger.F("key", key), logger.Err(err))
		if err := l.store.DeleteState(ctx, key); err != nil {
			logger.Warn("Failed to remove corrupt local state", logger.F("key", key), logger.Err(err))
		}
		return nil
	}
	return nil
}

// Commit rewrites the timer collection, and the history on archive
func (l *Local) Commit(ctx context.Context, c Change) error {
	timers := c.Timers
	if timers == nil {
		timers = []model.Timer{}
	}
	data, err := json.Marshal(timers)
	if err != nil {
		return fmt.Errorf("failed to encode timers: %w", err)
	}
	values := map[string]string{KeyTimers: string(data)}

	if c.Kind == ChangeArchive {
		history := c.History
		if history == nil {
			history = []model.WeekHistory{}
		}
		data, err := json.Marshal(history)
		if err != nil {
			return fmt.Errorf("failed to encode history: %w", err)
		}
		values[KeyHistory] = string(data)
	}

	return l.store.PutStates(ctx, values)
}
