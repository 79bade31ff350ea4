// Package session binds an engine to a save slot: restoring at startup,
// saving on request, and wiping on a confirmed reset.
package session

import (
	"context"
	"errors"
	"log/slog"

	"github.com/nathoo/escaperoom/engine"
	"github.com/nathoo/escaperoom/engine/save"
	"github.com/nathoo/escaperoom/storage"
	"github.com/nathoo/escaperoom/types"
)

// Session owns the engine and its slot. The engine may be nil when content
// failed to load; the session is then uninitialized and only Reset works.
type Session struct {
	Engine *engine.Engine
	Slot   storage.Slot
	logger *slog.Logger
}

// New creates a session. A nil slot keeps progress in memory only.
func New(eng *engine.Engine, slot storage.Slot, logger *slog.Logger) *Session {
	if slot == nil {
		slot = storage.NewMemorySlot("")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Session{Engine: eng, Slot: slot, logger: logger}
}

// Ready reports whether content is loaded.
func (s *Session) Ready() bool {
	return s.Engine.Ready()
}

// Restore loads the slot into the engine. It reports whether a save was
// found. Read or decode failures leave a fresh state and are returned so the
// caller can toast them; the session keeps going either way.
func (s *Session) Restore(ctx context.Context) (bool, error) {
	sd, found, err := s.Read(ctx)
	if !found || err != nil {
		return false, err
	}
	s.Apply(sd)
	return true, nil
}

// Read fetches and decodes the slot without touching the engine, so it can run
// off the UI goroutine. found is false for an empty slot.
func (s *Session) Read(ctx context.Context) (sd *save.SaveData, found bool, err error) {
	if !s.Ready() {
		return nil, false, nil
	}
	data, err := s.Slot.Read(ctx)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, false, nil
	}
	if err != nil {
		s.logger.Warn("could not read save", "slot", s.Slot.Name(), "error", err)
		return nil, false, err
	}
	sd, err = save.Load(data)
	if err != nil {
		s.logger.Warn("discarding unreadable save", "slot", s.Slot.Name(), "error", err)
		return nil, false, &storage.PersistenceError{Op: "read", Slot: s.Slot.Name(), Err: err}
	}
	return sd, true, nil
}

// Apply installs a decoded save into the engine.
func (s *Session) Apply(sd *save.SaveData) {
	if !s.Ready() || sd == nil {
		return
	}
	s.Engine.Restore(save.ApplySave(sd, s.Engine.Defs))
	s.logger.Info("save restored", "slot", s.Slot.Name(), "room_index", s.Engine.State.RoomIndex, "version", sd.Version)
}

// Save writes the current state. Failures become a toast.
func (s *Session) Save(ctx context.Context) types.Result {
	if !s.Ready() {
		return types.Result{}
	}
	data, err := s.Snapshot()
	if err != nil {
		return s.saveFailed(err)
	}
	return s.Write(ctx, data)
}

// Snapshot encodes the current state.
func (s *Session) Snapshot() ([]byte, error) {
	if !s.Ready() {
		return nil, errors.New("no content loaded")
	}
	return save.Save(s.Engine.State)
}

// Write stores an encoded snapshot. It only touches the slot, so it can run
// off the UI goroutine.
func (s *Session) Write(ctx context.Context, data []byte) types.Result {
	if err := s.Slot.Write(ctx, data); err != nil {
		return s.saveFailed(err)
	}
	s.logger.Debug("game saved", "slot", s.Slot.Name(), "bytes", len(data))
	return types.Result{Events: []types.Event{{Kind: types.EventToast, Text: "Saved ✅"}}}
}

func (s *Session) saveFailed(err error) types.Result {
	s.logger.Error("save failed", "slot", s.Slot.Name(), "error", err)
	return types.Result{Events: []types.Event{{
		Kind: types.EventToast,
		Text: "Could not save here. Progress is kept until you quit.",
	}}}
}

// Reset asks confirm, then clears the slot and the engine state. Reset works
// even when content failed to load.
func (s *Session) Reset(ctx context.Context, confirm func() bool) types.Result {
	var result types.Result
	if confirm != nil && !confirm() {
		return result
	}
	result.Events = append(result.Events, s.Clear(ctx).Events...)
	if s.Engine != nil {
		result.Events = append(result.Events, s.Engine.Reset().Events...)
	}
	return result
}

// Clear deletes the slot. Failures become a toast.
func (s *Session) Clear(ctx context.Context) types.Result {
	var result types.Result
	if err := s.Slot.Delete(ctx); err != nil {
		s.logger.Error("could not clear save", "slot", s.Slot.Name(), "error", err)
		result.Events = append(result.Events, types.Event{
			Kind: types.EventToast,
			Text: "Could not clear the saved game.",
		})
		return result
	}
	s.logger.Info("progress reset", "slot", s.Slot.Name())
	return result
}

// Close releases the slot.
func (s *Session) Close() error {
	return s.Slot.Close()
}
