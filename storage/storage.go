// Package storage persists save documents in a named slot. Backends: a JSON
// file per slot, a Redis key, or a row in a SQLite table.
package storage

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
)

// DefaultSlot is the version-tagged slot name used when none is configured.
const DefaultSlot = "escape_room_save_v2"

// ErrNotFound is returned by Read when the slot holds nothing.
var ErrNotFound = errors.New("save slot is empty")

// Slot reads and writes one save document.
type Slot interface {
	Name() string
	Read(ctx context.Context) ([]byte, error)
	Write(ctx context.Context, data []byte) error
	Delete(ctx context.Context) error
	Close() error
}

// PersistenceError reports a failed slot operation. It is recoverable: the
// game continues with in-memory state.
type PersistenceError struct {
	Op   string
	Slot string
	Err  error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("%s save slot %q: %v", e.Op, e.Slot, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }

// Backend names accepted by Open.
const (
	BackendFile   = "file"
	BackendRedis  = "redis"
	BackendSQLite = "sqlite"
)

// Options selects and configures a backend.
type Options struct {
	Backend    string
	Slot       string
	Dir        string // file backend
	RedisAddr  string // redis backend
	SQLitePath string // sqlite backend
}

// Open creates the slot described by opts.
func Open(ctx context.Context, opts Options, logger *slog.Logger) (Slot, error) {
	if logger == nil {
		logger = slog.Default()
	}
	name := opts.Slot
	if name == "" {
		name = DefaultSlot
	}
	switch opts.Backend {
	case "", BackendFile:
		return NewFileSlot(opts.Dir, name, logger)
	case BackendRedis:
		return NewRedisSlot(ctx, opts.RedisAddr, name, logger)
	case BackendSQLite:
		return NewSQLiteSlot(ctx, opts.SQLitePath, name, logger)
	default:
		return nil, fmt.Errorf("unknown storage backend %q", opts.Backend)
	}
}

// MemorySlot keeps the document in memory. Used when no persistent backend
// can be opened, and in tests.
type MemorySlot struct {
	name string
	data []byte
}

var _ Slot = (*MemorySlot)(nil)

// NewMemorySlot creates an empty in-memory slot.
func NewMemorySlot(name string) *MemorySlot {
	if name == "" {
		name = DefaultSlot
	}
	return &MemorySlot{name: name}
}

func (m *MemorySlot) Name() string { return m.name }

func (m *MemorySlot) Read(ctx context.Context) ([]byte, error) {
	if m.data == nil {
		return nil, ErrNotFound
	}
	return append([]byte(nil), m.data...), nil
}

func (m *MemorySlot) Write(ctx context.Context, data []byte) error {
	m.data = append([]byte(nil), data...)
	return nil
}

func (m *MemorySlot) Delete(ctx context.Context) error {
	m.data = nil
	return nil
}

func (m *MemorySlot) Close() error { return nil }
