package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"

	"github.com/san-kum/flowvis/internal/logging"
)

func resetFlags(t *testing.T) {
	t.Helper()
	t.Cleanup(func() {
		configFile, preset, dataDir, logFile = "", "", "", ""
		fieldPath, seedName, synthetic = "", "", false
		closeLogging()
	})
}

func TestLoadConfig_PresetThenFile(t *testing.T) {
	resetFlags(t)
	path := filepath.Join(t.TempDir(), "over.yaml")
	if err := os.WriteFile(path, []byte("advection:\n  density: 12\n"), 0644); err != nil {
		t.Fatal(err)
	}
	preset, configFile, seedName = "small", path, "grid"

	cfg, err := loadConfig()
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Advection.Density != 12 {
		t.Errorf("density = %d, want 12 from file", cfg.Advection.Density)
	}
	if cfg.Screen.Width != 320 {
		t.Errorf("screen width = %d, want 320 from preset", cfg.Screen.Width)
	}
	if cfg.Advection.Seed != "grid" {
		t.Errorf("seed = %q, want grid from flag", cfg.Advection.Seed)
	}
}

func TestLoadConfig_UnknownPreset(t *testing.T) {
	resetFlags(t)
	preset = "nope"
	if _, err := loadConfig(); err == nil || !strings.Contains(err.Error(), "unknown preset") {
		t.Errorf("expected unknown preset error, got %v", err)
	}
}

func TestLogFile_ClosedAfterRun(t *testing.T) {
	resetFlags(t)
	logFile = filepath.Join(t.TempDir(), "flowvis.log")

	if err := setupLogging(&cobra.Command{Use: "render"}); err != nil {
		t.Fatal(err)
	}
	if logOut == nil {
		t.Fatal("log file not kept open")
	}
	f := logOut
	logging.Logger().Info("hello")

	if err := closeLogging(); err != nil {
		t.Fatal(err)
	}
	if logOut != nil {
		t.Error("handle not cleared")
	}
	if _, err := f.WriteString("x"); err == nil {
		t.Error("log file still open")
	}
	if err := closeLogging(); err != nil {
		t.Errorf("second close: %v", err)
	}

	data, err := os.ReadFile(logFile)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "hello") {
		t.Errorf("log file missing record: %q", data)
	}
}
