package db

import (
	"context"
	"path/filepath"
	"testing"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Failed to open database: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func TestState_PutGet(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	if _, ok, err := db.GetState(ctx, "timers"); err != nil || ok {
		t.Fatalf("GetState on empty db: ok=%v err=%v", ok, err)
	}

	if err := db.PutState(ctx, "timers", `[]`); err != nil {
		t.Fatal(err)
	}
	if err := db.PutState(ctx, "timers", `[{"id":"a"}]`); err != nil {
		t.Fatal(err)
	}

	got, ok, err := db.GetState(ctx, "timers")
	if err != nil || !ok {
		t.Fatalf("GetState: ok=%v err=%v", ok, err)
	}
	if got != `[{"id":"a"}]` {
		t.Errorf("value = %q", got)
	}
}

func TestState_PutStatesAndDelete(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	err := db.PutStates(ctx, map[string]string{"timers": "[]", "history": "[]"})
	if err != nil {
		t.Fatal(err)
	}

	if err := db.DeleteState(ctx, "timers", "missing"); err != nil {
		t.Fatal(err)
	}

	if _, ok, _ := db.GetState(ctx, "timers"); ok {
		t.Error("timers still present after delete")
	}
	if _, ok, _ := db.GetState(ctx, "history"); !ok {
		t.Error("history removed unexpectedly")
	}
}

func TestOpen_ReopenKeepsData(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.db")
	ctx := context.Background()

	db, err := Open(path)
	if err != nil {
		t.Fatal(err)
	}
	if err := db.PutState(ctx, "k", "v"); err != nil {
		t.Fatal(err)
	}
	_ = db.Close()

	db, err = Open(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer db.Close()

	if v, ok, _ := db.GetState(ctx, "k"); !ok || v != "v" {
		t.Errorf("after reopen: %q ok=%v", v, ok)
	}
}
