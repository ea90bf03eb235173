package tracker

import (
	"testing"
	"time"

	"github.com/existflow/weektrack/internal/model"
)

func TestParseSchedule(t *testing.T) {
	if _, err := ParseSchedule("0 0 * * 1"); err != nil {
		t.Errorf("valid schedule rejected: %v", err)
	}
	if _, err := ParseSchedule("every monday"); err == nil {
		t.Error("invalid schedule accepted")
	}
}

func TestScheduler_Next(t *testing.T) {
	tr, _, _ := newTestTracker(t)
	s, err := NewScheduler(tr, "0 0 * * 1")
	if err != nil {
		t.Fatal(err)
	}

	// Sunday evening
	now := time.Date(2026, 10, 18, 20, 0, 0, 0, time.Local)
	next := s.Next(now)

	want := time.Date(2026, 10, 19, 0, 0, 0, 0, time.Local)
	if !next.Equal(want) {
		t.Errorf("Next = %v, want %v", next, want)
	}
}

func TestScheduler_ArchiveCallback(t *testing.T) {
	tr, _, _ := newTestTracker(t)
	tr.AddTimer(goal("Work", 60))

	s, err := NewScheduler(tr, "0 0 * * 1")
	if err != nil {
		t.Fatal(err)
	}

	called := 0
	s.SetOnArchive(func(model.WeekHistory) { called++ })
	s.archive()

	if called != 1 {
		t.Errorf("callback called %d times, want 1", called)
	}
	if n := len(tr.History()); n != 1 {
		t.Errorf("history = %d, want 1", n)
	}
}
