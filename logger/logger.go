package logger

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/nathoo/escaperoom/config"
)

// Setup builds the process logger and installs it as the slog default.
// Output goes to cfg.LogFile when set, stderr otherwise. The returned closer
// releases the log file.
func Setup(cfg *config.Config) (*slog.Logger, io.Closer, error) {
	var w io.Writer = os.Stderr
	var closer io.Closer = nopCloser{}

	if cfg.LogFile != "" {
		if err := os.MkdirAll(filepath.Dir(cfg.LogFile), 0o755); err != nil {
			return nil, nil, fmt.Errorf("creating log dir: %w", err)
		}
		f, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, nil, fmt.Errorf("opening log file: %w", err)
		}
		w, closer = f, f
	}

	l := New(w, cfg)
	slog.SetDefault(l)
	return l, closer, nil
}

// SetupFullscreen is Setup for a front end that owns the terminal. Stderr is
// the same screen, so an unset log file falls back to config.DefaultLogFile,
// and to a discarding logger when there is no home directory.
func SetupFullscreen(cfg *config.Config) (*slog.Logger, io.Closer, error) {
	c := *cfg
	if c.LogFile == "" {
		c.LogFile = config.DefaultLogFile()
	}
	if c.LogFile == "" {
		l := Discard()
		slog.SetDefault(l)
		return l, nopCloser{}, nil
	}
	return Setup(&c)
}

// New builds a logger writing to w. JSON in production, text otherwise.
func New(w io.Writer, cfg *config.Config) *slog.Logger {
	opts := &slog.HandlerOptions{
		Level: cfg.LogLevel,
	}

	var handler slog.Handler
	if cfg.Environment == "production" {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = slog.NewTextHandler(w, opts)
	}
	return slog.New(handler)
}

// Discard returns a logger that drops everything.
func Discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
