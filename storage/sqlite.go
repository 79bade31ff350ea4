package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS save_slots (
	name TEXT PRIMARY KEY,
	data TEXT NOT NULL,
	updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
);`

// SQLiteSlot stores the document as one row of save_slots.
type SQLiteSlot struct {
	db     *sql.DB
	name   string
	logger *slog.Logger
}

var _ Slot = (*SQLiteSlot)(nil)

// DefaultSQLitePath returns ~/.escaperoom/saves.db.
func DefaultSQLitePath() string {
	return filepath.Join(filepath.Dir(DefaultDir()), "saves.db")
}

// NewSQLiteSlot opens (or creates) the database at path.
func NewSQLiteSlot(ctx context.Context, path, name string, logger *slog.Logger) (*SQLiteSlot, error) {
	if path == "" {
		path = DefaultSQLitePath()
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, &PersistenceError{Op: "open", Slot: name, Err: err}
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, &PersistenceError{Op: "open", Slot: name, Err: err}
	}
	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, &PersistenceError{Op: "open", Slot: name, Err: fmt.Errorf("init schema: %w", err)}
	}
	logger.Info("sqlite save slot ready", "path", path, "slot", name)
	return &SQLiteSlot{db: db, name: name, logger: logger}, nil
}

func (s *SQLiteSlot) Name() string { return s.name }

func (s *SQLiteSlot) Read(ctx context.Context) ([]byte, error) {
	var data string
	err := s.db.QueryRowContext(ctx, `SELECT data FROM save_slots WHERE name = ?`, s.name).Scan(&data)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, &PersistenceError{Op: "read", Slot: s.name, Err: err}
	}
	return []byte(data), nil
}

func (s *SQLiteSlot) Write(ctx context.Context, data []byte) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO save_slots (name, data, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(name) DO UPDATE SET data = excluded.data, updated_at = excluded.updated_at`,
		s.name, string(data), time.Now().UTC())
	if err != nil {
		return &PersistenceError{Op: "write", Slot: s.name, Err: err}
	}
	s.logger.Debug("save written", "slot", s.name, "bytes", len(data))
	return nil
}

func (s *SQLiteSlot) Delete(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM save_slots WHERE name = ?`, s.name); err != nil {
		return &PersistenceError{Op: "delete", Slot: s.name, Err: err}
	}
	return nil
}

func (s *SQLiteSlot) Close() error {
	return s.db.Close()
}
