package logger

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want Level
	}{
		{"DEBUG", DEBUG},
		{"debug", DEBUG},
		{" Warning ", WARN},
		{"WARN", WARN},
		{"ERROR", ERROR},
		{"bogus", INFO},
	}

	for _, tt := range tests {
		if got := ParseLevel(tt.in); got != tt.want {
			t.Errorf("ParseLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestLogger_LevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	l, err := New(Config{Level: WARN, Output: &buf})
	if err != nil {
		t.Fatal(err)
	}

	l.Info("hidden")
	l.Warn("shown", F("id", "t1"))

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("INFO entry written at WARN level: %q", out)
	}
	if !strings.Contains(out, "WARN") || !strings.Contains(out, "id=t1") {
		t.Errorf("missing WARN entry with field: %q", out)
	}
}

func TestLogger_WithFieldsDoesNotLeak(t *testing.T) {
	var buf bytes.Buffer
	l, err := New(Config{Level: DEBUG, Output: &buf})
	if err != nil {
		t.Fatal(err)
	}

	child := l.WithFields(F("scope", "remote"))
	child.Error("write failed", Err(errors.New("boom")))
	l.Info("plain")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("got %d lines, want 2: %q", len(lines), buf.String())
	}
	if !strings.Contains(lines[0], "scope=remote") || !strings.Contains(lines[0], "error=boom") {
		t.Errorf("child line = %q", lines[0])
	}
	if strings.Contains(lines[1], "scope=remote") {
		t.Errorf("parent picked up child field: %q", lines[1])
	}
}

func TestLogger_WritesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "weektrack.log")
	l, err := New(Config{Level: INFO, FilePath: path, MaxSize: 1 << 20, MaxAge: 7, MaxBackups: 2})
	if err != nil {
		t.Fatal(err)
	}
	l.Info("hello")
	if err := l.Close(); err != nil {
		t.Fatal(err)
	}
}

func TestLogger_JSONLines(t *testing.T) {
	var buf bytes.Buffer
	l, err := New(Config{Level: INFO, JSON: true, Output: &buf})
	if err != nil {
		t.Fatal(err)
	}

	l.WithFields(F("scope", "local")).Error("commit failed", F("timers", 3), Err(errors.New("disk full")))

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("entry is not JSON: %v: %q", err, buf.String())
	}
	if entry["level"] != "ERROR" || entry["msg"] != "commit failed" {
		t.Errorf("entry = %v", entry)
	}
	if entry["scope"] != "local" || entry["error"] != "disk full" || entry["timers"] != float64(3) {
		t.Errorf("fields = %v", entry)
	}
}

func TestLogger_RotatesBySize(t *testing.T) {
	path := filepath.Join(t.TempDir(), "weektrack.log")
	l, err := New(Config{Level: INFO, FilePath: path, MaxSize: 64, MaxBackups: 2})
	if err != nil {
		t.Fatal(err)
	}
	defer l.Close()

	for i := 0; i < 3; i++ {
		l.Info("a line long enough to fill the log file past its limit")
	}

	if _, err := os.Stat(path + ".1"); err != nil {
		t.Errorf("expected a rotated backup: %v", err)
	}
	if _, err := os.Stat(path + ".3"); !os.IsNotExist(err) {
		t.Errorf("kept more than MaxBackups files: %v", err)
	}
}

func TestWithFields_BeforeInitIsSafe(t *testing.T) {
	l := WithFields(F("scope", "remote"))
	l.Info("dropped while no global logger is set")

	var nilLogger *Logger
	nilLogger.Warn("ignored")
	if err := nilLogger.Close(); err != nil {
		t.Errorf("Close on nil logger = %v", err)
	}
}
