package model

import "testing"

func TestTimer_CompletedSeconds(t *testing.T) {
	tests := []struct {
		name  string
		timer Timer
		want  int64
	}{
		{"goal partial", Timer{Type: TypeGoal, TotalSeconds: 3600, RemainingSeconds: 600}, 3000},
		{"goal untouched", Timer{Type: TypeGoal, TotalSeconds: 3600, RemainingSeconds: 3600}, 0},
		{"stopwatch", Timer{Type: TypeStopwatch, ElapsedSeconds: 42}, 42},
	}

	for _, tt := range tests {
		if got := tt.timer.CompletedSeconds(); got != tt.want {
			t.Errorf("%s: CompletedSeconds() = %d, want %d", tt.name, got, tt.want)
		}
	}
}

func TestTimer_StartStop(t *testing.T) {
	var timer Timer
	timer.Start(1000)
	if !timer.IsRunning || timer.LastTickAt == nil || *timer.LastTickAt != 1000 {
		t.Fatalf("after Start: running=%v lastTickAt=%v", timer.IsRunning, timer.LastTickAt)
	}

	timer.Stop()
	if timer.IsRunning || timer.LastTickAt != nil {
		t.Errorf("after Stop: running=%v lastTickAt=%v", timer.IsRunning, timer.LastTickAt)
	}
}

func TestTimer_CloneIsDeep(t *testing.T) {
	orig := Timer{ID: "a"}
	orig.Start(5000)

	cp := orig.Clone()
	*cp.LastTickAt = 9000

	if *orig.LastTickAt != 5000 {
		t.Errorf("original LastTickAt = %d, want 5000", *orig.LastTickAt)
	}
}

func TestTimerUpdate_Apply(t *testing.T) {
	title := "Reading"
	total := int64(7200)
	timer := Timer{Type: TypeGoal, Title: "Old", TotalSeconds: 3600, RemainingSeconds: 1800}

	fields := TimerUpdate{Title: &title, TotalSeconds: &total}.Apply(&timer)

	if timer.Title != "Reading" {
		t.Errorf("Title = %q, want Reading", timer.Title)
	}
	if timer.TotalSeconds != 7200 {
		t.Errorf("TotalSeconds = %d, want 7200", timer.TotalSeconds)
	}
	// remaining passes through untouched
	if timer.RemainingSeconds != 1800 {
		t.Errorf("RemainingSeconds = %d, want 1800", timer.RemainingSeconds)
	}
	if len(fields) != 2 || fields[0] != FieldTitle || fields[1] != FieldTotal {
		t.Errorf("fields = %v, want [title total]", fields)
	}
}

func TestSnapshot(t *testing.T) {
	timers := []Timer{
		{Title: "Work", Type: TypeGoal, TotalSeconds: 100, RemainingSeconds: 40, Color: "#fff"},
		{Title: "Play", Type: TypeStopwatch, ElapsedSeconds: 30},
	}

	snap := Snapshot(timers)
	if len(snap) != 2 {
		t.Fatalf("len = %d, want 2", len(snap))
	}
	if snap[0].CompletedSeconds != 60 || snap[0].Color != "#fff" {
		t.Errorf("snap[0] = %+v", snap[0])
	}
	if snap[1].CompletedSeconds != 30 || snap[1].TotalSeconds != 0 {
		t.Errorf("snap[1] = %+v", snap[1])
	}

	h := WeekHistory{Timers: snap}
	if got := h.TotalCompleted(); got != 90 {
		t.Errorf("TotalCompleted() = %d, want 90", got)
	}
}
