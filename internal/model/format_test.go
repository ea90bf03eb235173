package model

import "testing"

func TestParseDuration(t *testing.T) {
	tests := []struct {
		in      string
		want    int64
		wantErr bool
	}{
		{"45", 2700, false},
		{"90m", 5400, false},
		{"1h30m", 5400, false},
		{" 2h ", 7200, false},
		{"30s", 30, false},
		{"1.5h", 5400, false},
		{"", 0, true},
		{"0", 0, true},
		{"-5", 0, true},
		{"500ms", 0, true},
		{"soon", 0, true},
	}

	for _, tt := range tests {
		got, err := ParseDuration(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseDuration(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseDuration(%q) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestFormatSeconds(t *testing.T) {
	tests := []struct {
		in   int64
		want string
	}{
		{0, "0:00"},
		{59, "0:59"},
		{61, "1:01"},
		{3600, "1:00:00"},
		{3725, "1:02:05"},
		{-3, "0:00"},
	}

	for _, tt := range tests {
		if got := FormatSeconds(tt.in); got != tt.want {
			t.Errorf("FormatSeconds(%d) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestFormatHours(t *testing.T) {
	if got := FormatHours(7500); got != "2h 05m" {
		t.Errorf("FormatHours(7500) = %q", got)
	}
	if got := FormatHours(300); got != "5m" {
		t.Errorf("FormatHours(300) = %q", got)
	}
}

func TestProgress(t *testing.T) {
	g := Timer{Type: TypeGoal, TotalSeconds: 100, RemainingSeconds: 25}
	if got := g.Progress(); got != 0.75 {
		t.Errorf("Progress = %v, want 0.75", got)
	}

	edited := Timer{Type: TypeGoal, TotalSeconds: 50, RemainingSeconds: 80}
	if got := edited.Progress(); got != 0 {
		t.Errorf("Progress with remaining > total = %v, want 0", got)
	}

	sw := Timer{Type: TypeStopwatch, ElapsedSeconds: 90}
	if got := sw.Progress(); got != 0 {
		t.Errorf("stopwatch Progress = %v, want 0", got)
	}
	if got := sw.Display(); got != "1:30" {
		t.Errorf("Display = %q, want 1:30", got)
	}
}
