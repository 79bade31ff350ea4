// Package save implements JSON serialization and deserialization of game state.
package save

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/nathoo/escaperoom/engine/state"
	"github.com/nathoo/escaperoom/types"
)

// Version is the current save format.
const Version = 2

// BagData is the JSON form of one room bag.
type BagData struct {
	Inventory  map[string]bool `json:"inventory"`
	Clues      []string        `json:"clues"`
	Flags      map[string]bool `json:"flags"`
	ActiveItem string          `json:"activeItem,omitempty"`
}

// SaveData is the JSON-serializable save format. The top-level Inventory,
// Clues and Flags fields only appear in first-version saves, which kept a
// single global bag.
type SaveData struct {
	Version   int                 `json:"version"`
	RoomIndex int                 `json:"roomIndex"`
	Rooms     map[string]*BagData `json:"rooms"`
	Solved    map[string]bool     `json:"solved"`

	Inventory map[string]bool `json:"inventory,omitempty"`
	Clues     []string        `json:"clues,omitempty"`
	Flags     map[string]bool `json:"flags,omitempty"`
}

// Save serializes game state to JSON bytes.
func Save(s *types.GameState) ([]byte, error) {
	data := SaveData{
		Version:   Version,
		RoomIndex: s.RoomIndex,
		Rooms:     make(map[string]*BagData, len(s.Rooms)),
		Solved:    s.Solved,
	}
	if data.Solved == nil {
		data.Solved = map[string]bool{}
	}
	for id := range s.Rooms {
		bag := state.RoomState(s, id)
		data.Rooms[id] = &BagData{
			Inventory:  bag.Inventory,
			Clues:      bag.Clues,
			Flags:      bag.Flags,
			ActiveItem: bag.ActiveItem,
		}
	}
	return json.MarshalIndent(data, "", "  ")
}

// Load deserializes JSON bytes into SaveData, backfilling anything an older
// save left out. A field of the wrong type falls back to its default and the
// rest of the save is kept; only malformed JSON or a non-object is an error.
func Load(data []byte) (*SaveData, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return nil, errors.New("decoding save: not a JSON object")
	}
	var sd SaveData
	if err := json.Unmarshal(trimmed, &sd); err != nil {
		var typeErr *json.UnmarshalTypeError
		if !errors.As(err, &typeErr) {
			return nil, fmt.Errorf("decoding save: %w", err)
		}
	}
	if sd.RoomIndex < 0 {
		sd.RoomIndex = 0
	}
	if sd.Rooms == nil {
		sd.Rooms = map[string]*BagData{}
	}
	if sd.Solved == nil {
		sd.Solved = map[string]bool{}
	}
	sd.Clues = compactClues(sd.Clues)
	for id, bag := range sd.Rooms {
		if bag == nil {
			bag = &BagData{}
			sd.Rooms[id] = bag
		}
		if bag.Inventory == nil {
			bag.Inventory = map[string]bool{}
		}
		bag.Clues = compactClues(bag.Clues)
		if bag.Flags == nil {
			bag.Flags = map[string]bool{}
		}
	}
	return &sd, nil
}

// compactClues drops empty entries, which is what a wrongly typed clue
// decodes to.
func compactClues(clues []string) []string {
	out := make([]string, 0, len(clues))
	for _, c := range clues {
		if c != "" {
			out = append(out, c)
		}
	}
	return out
}

// Legacy reports whether sd carries a first-version global bag.
func (sd *SaveData) Legacy() bool {
	return len(sd.Inventory) > 0 || len(sd.Clues) > 0 || len(sd.Flags) > 0
}

// ApplySave builds a game state from loaded save data. A first-version
// global bag is merged into the bag of the saved current room.
func ApplySave(sd *SaveData, defs *state.Defs) *types.GameState {
	s := state.NewState()
	s.RoomIndex = sd.RoomIndex
	for id, v := range sd.Solved {
		if v {
			s.Solved[id] = true
		}
	}
	for id, bd := range sd.Rooms {
		if bd == nil {
			continue
		}
		bag := state.RoomState(s, id)
		for k, v := range bd.Inventory {
			if v {
				bag.Inventory[k] = true
			}
		}
		bag.Clues = append(bag.Clues, bd.Clues...)
		for k, v := range bd.Flags {
			if v {
				bag.Flags[k] = true
			}
		}
		bag.ActiveItem = bd.ActiveItem
	}

	if sd.Legacy() {
		if room, ok := defs.CurrentRoom(s); ok {
			migrate(state.RoomState(s, room.ID), sd)
		}
	}
	return s
}

func migrate(bag *types.RoomBag, sd *SaveData) {
	for k, v := range sd.Inventory {
		if v {
			bag.Inventory[k] = true
		}
	}
	seen := make(map[string]bool, len(bag.Clues))
	for _, c := range bag.Clues {
		seen[c] = true
	}
	for _, c := range sd.Clues {
		if !seen[c] {
			bag.Clues = append(bag.Clues, c)
			seen[c] = true
		}
	}
	for k, v := range sd.Flags {
		if v {
			bag.Flags[k] = true
		}
	}
}
