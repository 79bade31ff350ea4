package storage

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
)

// FileSlot stores the document at <dir>/<slot>.json.
type FileSlot struct {
	name   string
	path   string
	logger *slog.Logger
}

var _ Slot = (*FileSlot)(nil)

// DefaultDir returns ~/.escaperoom/saves, or a relative fallback when the
// home directory is unknown.
func DefaultDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".escaperoom", "saves")
	}
	return filepath.Join(home, ".escaperoom", "saves")
}

// NewFileSlot creates a file slot, creating dir if needed.
func NewFileSlot(dir, name string, logger *slog.Logger) (*FileSlot, error) {
	if dir == "" {
		dir = DefaultDir()
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, &PersistenceError{Op: "open", Slot: name, Err: err}
	}
	return &FileSlot{
		name:   name,
		path:   filepath.Join(dir, name+".json"),
		logger: logger,
	}, nil
}

func (f *FileSlot) Name() string { return f.name }

// Path returns the file backing the slot.
func (f *FileSlot) Path() string { return f.path }

func (f *FileSlot) Read(ctx context.Context) ([]byte, error) {
	data, err := os.ReadFile(f.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, ErrNotFound
		}
		return nil, &PersistenceError{Op: "read", Slot: f.name, Err: err}
	}
	if len(data) == 0 {
		return nil, ErrNotFound
	}
	return data, nil
}

// Write replaces the file atomically via a temp file and rename.
func (f *FileSlot) Write(ctx context.Context, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(f.path), f.name+".*.tmp")
	if err != nil {
		return &PersistenceError{Op: "write", Slot: f.name, Err: err}
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return &PersistenceError{Op: "write", Slot: f.name, Err: err}
	}
	if err := tmp.Close(); err != nil {
		return &PersistenceError{Op: "write", Slot: f.name, Err: err}
	}
	if err := os.Rename(tmp.Name(), f.path); err != nil {
		return &PersistenceError{Op: "write", Slot: f.name, Err: fmt.Errorf("rename: %w", err)}
	}
	f.logger.Debug("save written", "slot", f.name, "path", f.path, "bytes", len(data))
	return nil
}

func (f *FileSlot) Delete(ctx context.Context) error {
	if err := os.Remove(f.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return &PersistenceError{Op: "delete", Slot: f.name, Err: err}
	}
	return nil
}

func (f *FileSlot) Close() error { return nil }
