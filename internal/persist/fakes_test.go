package persist

import (
	"context"
	"errors"
	"sync"

	"github.com/existflow/weektrack/internal/model"
)

type patchCall struct {
	id     string
	fields map[string]any
}

type fakeRemoteStore struct {
	mu       sync.Mutex
	timers   []model.Timer
	history  []model.WeekHistory
	saved    []model.Timer
	removed  []string
	patches  []patchCall
	appended []model.WeekHistory

	loadErr  error
	failIDs  map[string]bool
	failHist bool
}

func (f *fakeRemoteStore) LoadTimers(ctx context.Context) ([]model.Timer, error) {
	if f.loadErr != nil {
		return nil, f.loadErr
	}
	return f.timers, nil
}

func (f *fakeRemoteStore) LoadHistory(ctx context.Context) ([]model.WeekHistory, error) {
	return f.history, nil
}

func (f *fakeRemoteStore) SaveTimer(ctx context.Context, t model.Timer) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.saved = append(f.saved, t)
	return nil
}

func (f *fakeRemoteStore) RemoveTimer(ctx context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.removed = append(f.removed, id)
	return nil
}

func (f *fakeRemoteStore) PatchTimer(ctx context.Context, id string, fields map[string]any) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.patches = append(f.patches, patchCall{id: id, fields: fields})
	if f.failIDs[id] {
		return errors.New("network down")
	}
	return nil
}

func (f *fakeRemoteStore) AppendHistory(ctx context.Context, h model.WeekHistory) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failHist {
		return errors.New("network down")
	}
	f.appended = append(f.appended, h)
	return nil
}

// recordingStrategy remembers every committed change
type recordingStrategy struct {
	mu      sync.Mutex
	changes []Change
	fail    func(Change) error
}

func (r *recordingStrategy) Scope() Scope { return ScopeLocal }

func (r *recordingStrategy) Load(ctx context.Context) (Snapshot, error) {
	return Snapshot{}, nil
}

func (r *recordingStrategy) Commit(ctx context.Context, c Change) error {
	r.mu.Lock()
	r.changes = append(r.changes, c)
	r.mu.Unlock()
	if r.fail != nil {
		return r.fail(c)
	}
	return nil
}

func (r *recordingStrategy) kinds() []ChangeKind {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]ChangeKind, 0, len(r.changes))
	for _, c := range r.changes {
		out = append(out, c.Kind)
	}
	return out
}
