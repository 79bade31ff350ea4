package logger

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/nathoo/escaperoom/config"
)

func TestNew_TextByDefault(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf, &config.Config{Environment: "development", LogLevel: slog.LevelInfo})

	l.Debug("hidden")
	l.Info("content loaded", "rooms", 2)

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("debug line leaked at info level: %q", out)
	}
	if !strings.Contains(out, "msg=\"content loaded\"") || !strings.Contains(out, "rooms=2") {
		t.Errorf("unexpected text output: %q", out)
	}
}

func TestNew_JSONInProduction(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf, &config.Config{Environment: "production", LogLevel: slog.LevelDebug})

	l.Debug("saved", "slot", "kids")

	var rec map[string]any
	if err := json.Unmarshal(buf.Bytes(), &rec); err != nil {
		t.Fatalf("output is not JSON: %v (%q)", err, buf.String())
	}
	if rec["msg"] != "saved" || rec["slot"] != "kids" {
		t.Errorf("record = %v", rec)
	}
}

func TestSetup_LogFile(t *testing.T) {
	prev := slog.Default()
	t.Cleanup(func() { slog.SetDefault(prev) })

	path := filepath.Join(t.TempDir(), "logs", "escaperoom.log")
	l, closer, err := Setup(&config.Config{LogFile: path, LogLevel: slog.LevelInfo})
	if err != nil {
		t.Fatalf("Setup: %v", err)
	}
	l.Info("hello")
	if err := closer.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading log: %v", err)
	}
	if !strings.Contains(string(data), "msg=hello") {
		t.Errorf("log file = %q", data)
	}
}

func TestSetupFullscreen_DefaultsToLogFile(t *testing.T) {
	prev := slog.Default()
	t.Cleanup(func() { slog.SetDefault(prev) })

	home := t.TempDir()
	t.Setenv("HOME", home)

	cfg := &config.Config{LogLevel: slog.LevelInfo}
	l, closer, err := SetupFullscreen(cfg)
	if err != nil {
		t.Fatalf("SetupFullscreen: %v", err)
	}
	l.Info("content loaded")
	if err := closer.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(home, ".escaperoom", "escaperoom.log"))
	if err != nil {
		t.Fatalf("reading default log: %v", err)
	}
	if !strings.Contains(string(data), "content loaded") {
		t.Errorf("log file = %q", data)
	}
	if cfg.LogFile != "" {
		t.Errorf("caller config was modified: LogFile = %q", cfg.LogFile)
	}
}

func TestSetupFullscreen_KeepsConfiguredFile(t *testing.T) {
	prev := slog.Default()
	t.Cleanup(func() { slog.SetDefault(prev) })

	path := filepath.Join(t.TempDir(), "game.log")
	l, closer, err := SetupFullscreen(&config.Config{LogFile: path, LogLevel: slog.LevelInfo})
	if err != nil {
		t.Fatalf("SetupFullscreen: %v", err)
	}
	l.Info("hello")
	closer.Close()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading log: %v", err)
	}
	if !strings.Contains(string(data), "msg=hello") {
		t.Errorf("log file = %q", data)
	}
}
