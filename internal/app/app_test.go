package app

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/existflow/weektrack/internal/config"
	"github.com/existflow/weektrack/internal/model"
	"github.com/existflow/weektrack/internal/persist"
	"github.com/existflow/weektrack/internal/remote"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg := config.DefaultConfig()
	cfg.DataDir = t.TempDir()
	return cfg
}

func TestNew_LocalWhenSignedOut(t *testing.T) {
	cfg := testConfig(t)
	client := remote.NewClientAt(filepath.Join(cfg.DataDir, "remote.json"))

	a, err := New(context.Background(), Options{Config: cfg, Remote: client})
	if err != nil {
		t.Fatal(err)
	}
	defer a.Close()

	if a.Tracker.Scope() != persist.ScopeLocal {
		t.Errorf("Scope = %s, want local", a.Tracker.Scope())
	}
	if a.DB == nil {
		t.Error("local database not opened")
	}
	if a.LoadErr != nil {
		t.Errorf("LoadErr = %v", a.LoadErr)
	}
}

func TestNew_StatePersistsAcrossRuns(t *testing.T) {
	cfg := testConfig(t)

	first, err := New(context.Background(), Options{Config: cfg})
	if err != nil {
		t.Fatal(err)
	}
	added := first.Tracker.AddTimer(model.NewTimer{Type: model.TypeGoal, Title: "Work", TotalSeconds: 3600})
	if err := first.Close(); err != nil {
		t.Fatal(err)
	}

	second, err := New(context.Background(), Options{Config: cfg})
	if err != nil {
		t.Fatal(err)
	}
	defer second.Close()

	got, ok := second.Tracker.Timer(added.ID)
	if !ok || got.Title != "Work" || got.RemainingSeconds != 3600 {
		t.Errorf("reloaded timer = %+v, found %v", got, ok)
	}
}

func TestNew_ExclusiveLock(t *testing.T) {
	cfg := testConfig(t)

	first, err := New(context.Background(), Options{Config: cfg, Exclusive: true})
	if err != nil {
		t.Fatal(err)
	}

	if _, err := New(context.Background(), Options{Config: cfg, Exclusive: true}); err == nil {
		t.Error("second exclusive instance started")
	}

	if err := first.Close(); err != nil {
		t.Fatal(err)
	}

	again, err := New(context.Background(), Options{Config: cfg, Exclusive: true})
	if err != nil {
		t.Fatalf("lock not released: %v", err)
	}
	again.Close()
}

func TestNew_LocalWritersAreSerialized(t *testing.T) {
	cfg := testConfig(t)
	ctx := context.Background()

	watcher, err := New(ctx, Options{Config: cfg, Exclusive: true})
	if err != nil {
		t.Fatal(err)
	}
	sw := watcher.Tracker.AddTimer(model.NewTimer{Type: model.TypeStopwatch, Title: "Focus"})
	watcher.Tracker.ToggleTimer(sw.ID)

	// a one-shot command must not load and rewrite the list underneath it
	if _, err := New(ctx, Options{Config: cfg}); !errors.Is(err, ErrLocked) {
		t.Fatalf("one-shot New while locked = %v, want ErrLocked", err)
	}

	watcher.Tracker.Tick()
	if err := watcher.Close(); err != nil {
		t.Fatal(err)
	}

	cli, err := New(ctx, Options{Config: cfg})
	if err != nil {
		t.Fatalf("one-shot New after close: %v", err)
	}
	added := cli.Tracker.AddTimer(model.NewTimer{Type: model.TypeGoal, Title: "Added from CLI", TotalSeconds: 600})
	if err := cli.Close(); err != nil {
		t.Fatal(err)
	}

	again, err := New(ctx, Options{Config: cfg, Exclusive: true})
	if err != nil {
		t.Fatal(err)
	}
	defer again.Close()
	if _, ok := again.Tracker.Timer(added.ID); !ok {
		t.Error("timer added from the one-shot command was lost")
	}
	if _, ok := again.Tracker.Timer(sw.ID); !ok {
		t.Error("stopwatch from the long-running instance was lost")
	}
}

func TestNew_OneShotBlocksLongRunning(t *testing.T) {
	cfg := testConfig(t)
	ctx := context.Background()

	cli, err := New(ctx, Options{Config: cfg})
	if err != nil {
		t.Fatal(err)
	}
	defer cli.Close()

	if _, err := New(ctx, Options{Config: cfg, Exclusive: true}); !errors.Is(err, ErrLocked) {
		t.Errorf("exclusive New during one-shot = %v, want ErrLocked", err)
	}
}
