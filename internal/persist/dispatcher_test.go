package persist

import (
	"errors"
	"sync/atomic"
	"testing"
)

func TestDispatcher_PreservesOrder(t *testing.T) {
	rec := &recordingStrategy{}
	d := NewDispatcher(rec)
	defer d.Close()

	want := []ChangeKind{ChangeAdd, ChangeToggle, ChangeTick, ChangeDeduct, ChangeDelete}
	for _, k := range want {
		d.Dispatch(Change{Kind: k})
	}
	d.Flush()

	got := rec.kinds()
	if len(got) != len(want) {
		t.Fatalf("committed %d changes, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("change %d = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestDispatcher_FailureDoesNotStopQueue(t *testing.T) {
	rec := &recordingStrategy{fail: func(c Change) error {
		if c.Kind == ChangeAdd {
			return errors.New("remote unavailable")
		}
		return nil
	}}
	d := NewDispatcher(rec)
	defer d.Close()

	var failures atomic.Int32
	d.SetOnError(func(c Change, err error) { failures.Add(1) })

	d.Dispatch(Change{Kind: ChangeAdd})
	d.Dispatch(Change{Kind: ChangeToggle})
	d.Flush()

	if failures.Load() != 1 {
		t.Errorf("failures = %d, want 1", failures.Load())
	}
	if got := rec.kinds(); len(got) != 2 {
		t.Errorf("committed = %v, want both changes attempted", got)
	}
}

func TestDispatcher_CloseDrainsAndDropsLater(t *testing.T) {
	rec := &recordingStrategy{}
	d := NewDispatcher(rec)

	d.Dispatch(Change{Kind: ChangeAdd})
	d.Close()
	d.Dispatch(Change{Kind: ChangeDelete})
	d.Close()

	if got := rec.kinds(); len(got) != 1 || got[0] != ChangeAdd {
		t.Errorf("committed = %v, want [add]", got)
	}
}
