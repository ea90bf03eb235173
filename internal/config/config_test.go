package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	t.Setenv("WEEKTRACK_ARCHIVE_SCHEDULE", "")
	t.Setenv("WEEKTRACK_LOG_LEVEL", "")

	cfg := DefaultConfig()

	if cfg.ArchiveSchedule != DefaultArchiveSchedule {
		t.Errorf("ArchiveSchedule = %q, want %q", cfg.ArchiveSchedule, DefaultArchiveSchedule)
	}
	if cfg.LogLevel != "INFO" {
		t.Errorf("LogLevel = %q, want INFO", cfg.LogLevel)
	}
	if !cfg.ConfirmDelete {
		t.Error("ConfirmDelete = false, want true")
	}
}

func TestDefaultConfig_EnvOverride(t *testing.T) {
	t.Setenv("WEEKTRACK_LOG_LEVEL", "DEBUG")
	t.Setenv("WEEKTRACK_AUTO_ARCHIVE", "false")

	cfg := DefaultConfig()

	if cfg.LogLevel != "DEBUG" {
		t.Errorf("LogLevel = %q, want DEBUG", cfg.LogLevel)
	}
	if cfg.AutoArchive {
		t.Error("AutoArchive = true, want false")
	}
}

func TestLoadFile_Missing(t *testing.T) {
	cfg, err := LoadFile(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatal(err)
	}
	if cfg.ArchiveSchedule == "" {
		t.Error("expected defaults for a missing file")
	}
}

func TestLoadFile_FromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
data_dir: /tmp/wt
archive_schedule: "30 6 * * 0"
confirm_delete: false
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFile(path)
	if err != nil {
		t.Fatal(err)
	}

	if cfg.DataDir != "/tmp/wt" {
		t.Errorf("DataDir = %q, want /tmp/wt", cfg.DataDir)
	}
	if cfg.ArchiveSchedule != "30 6 * * 0" {
		t.Errorf("ArchiveSchedule = %q", cfg.ArchiveSchedule)
	}
	if cfg.ConfirmDelete {
		t.Error("ConfirmDelete = true, want false")
	}
}

func TestSaveFile_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")
	cfg := DefaultConfig()
	cfg.LogLevel = "WARN"

	if err := cfg.SaveFile(path); err != nil {
		t.Fatal(err)
	}

	got, err := LoadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if got.LogLevel != "WARN" {
		t.Errorf("LogLevel = %q, want WARN", got.LogLevel)
	}
}

func TestLoadFile_Invalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("log_level: [unterminated"), 0644); err != nil {
		t.Fatal(err)
	}

	if _, err := LoadFile(path); err == nil {
		t.Error("expected parse error")
	}
}
