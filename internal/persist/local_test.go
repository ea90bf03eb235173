package persist

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/existflow/weektrack/internal/db"
	"github.com/existflow/weektrack/internal/model"
)

func openStore(t *testing.T) *db.DB {
	t.Helper()
	store, err := db.Open(filepath.Join(t.TempDir(), "local.db"))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestLocal_EmptyLoad(t *testing.T) {
	l := NewLocal(openStore(t))

	snap, err := l.Load(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(snap.Timers) != 0 || len(snap.History) != 0 {
		t.Errorf("snap = %+v, want empty", snap)
	}
}

func TestLocal_CommitAndLoad(t *testing.T) {
	l := NewLocal(openStore(t))
	ctx := context.Background()

	timer := model.Timer{ID: "t1", Type: model.TypeGoal, Title: "Work", TotalSeconds: 3600, RemainingSeconds: 3000}
	timer.Start(1_000_000)

	if err := l.Commit(ctx, Change{Kind: ChangeTick, Timers: []model.Timer{timer}}); err != nil {
		t.Fatal(err)
	}

	snap, err := l.Load(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(snap.Timers) != 1 {
		t.Fatalf("timers = %d, want 1", len(snap.Timers))
	}
	got := snap.Timers[0]
	if got.RemainingSeconds != 3000 || !got.IsRunning || got.LastTickAt == nil || *got.LastTickAt != 1_000_000 {
		t.Errorf("timer = %+v", got)
	}
	if len(snap.History) != 0 {
		t.Errorf("non-archive change wrote history: %+v", snap.History)
	}
}

func TestLocal_ArchiveWritesHistory(t *testing.T) {
	l := NewLocal(openStore(t))
	ctx := context.Background()

	record := model.WeekHistory{ID: "h1", Timers: []model.SnapshotEntry{{Title: "Work", CompletedSeconds: 60}}}
	err := l.Commit(ctx, Change{
		Kind:     ChangeArchive,
		Archived: &record,
		Timers:   []model.Timer{{ID: "t1"}},
		History:  []model.WeekHistory{record},
	})
	if err != nil {
		t.Fatal(err)
	}

	snap, err := l.Load(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(snap.History) != 1 || snap.History[0].ID != "h1" {
		t.Errorf("history = %+v", snap.History)
	}
}

func TestLocal_CorruptSnapshotIsDiscarded(t *testing.T) {
	store := openStore(t)
	ctx := context.Background()

	err := store.PutStates(ctx, map[string]string{
		KeyTimers:  `[{"id": "t1", "title": `,
		KeyHistory: `[]`,
	})
	if err != nil {
		t.Fatal(err)
	}

	l := NewLocal(store)
	snap, err := l.Load(ctx)
	if err != nil {
		t.Fatalf("corrupt state must not fail the load: %v", err)
	}
	if len(snap.Timers) != 0 {
		t.Errorf("timers = %+v, want empty", snap.Timers)
	}

	if _, ok, _ := store.GetState(ctx, KeyTimers); ok {
		t.Error("corrupt snapshot was not removed")
	}
}
