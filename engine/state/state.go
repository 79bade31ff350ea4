// Package state manages the mutable game state and lookups into the
// immutable room definitions. Every function takes the state explicitly.
package state

import "github.com/nathoo/escaperoom/types"

// Defs holds the immutable content loaded once at startup.
type Defs struct {
	Source string // where the content came from, for diagnostics
	Rooms  []types.RoomDef
}

// Room returns the room at index i.
func (d *Defs) Room(i int) (types.RoomDef, bool) {
	if d == nil || i < 0 || i >= len(d.Rooms) {
		return types.RoomDef{}, false
	}
	return d.Rooms[i], true
}

// CurrentRoom returns the room the player is in.
func (d *Defs) CurrentRoom(s *types.GameState) (types.RoomDef, bool) {
	return d.Room(s.RoomIndex)
}

// IsLastRoom reports whether index i is the final room.
func (d *Defs) IsLastRoom(i int) bool {
	return d == nil || i >= len(d.Rooms)-1
}

// ItemDef finds an item defined on the room.
func ItemDef(room types.RoomDef, itemID string) (types.ItemDef, bool) {
	for _, it := range room.Items {
		if it.ID == itemID {
			return it, true
		}
	}
	return types.ItemDef{}, false
}

// ObjectDef finds an object defined on the room.
func ObjectDef(room types.RoomDef, objectID string) (types.ObjectDef, bool) {
	for _, obj := range room.Objects {
		if obj.ID == objectID {
			return obj, true
		}
	}
	return types.ObjectDef{}, false
}

// ItemName returns the display name of an item, or fallback if the item
// cannot be resolved on the room.
func ItemName(room types.RoomDef, itemID, fallback string) string {
	if def, ok := ItemDef(room, itemID); ok && def.Name != "" {
		return def.Name
	}
	return fallback
}

// NewState creates an empty game state.
func NewState() *types.GameState {
	return &types.GameState{
		RoomIndex: 0,
		Rooms:     map[string]*types.RoomBag{},
		Solved:    map[string]bool{},
	}
}

// RoomState returns the bag for roomID, creating an empty one on first access.
func RoomState(s *types.GameState, roomID string) *types.RoomBag {
	if s.Rooms == nil {
		s.Rooms = map[string]*types.RoomBag{}
	}
	bag, ok := s.Rooms[roomID]
	if !ok || bag == nil {
		bag = &types.RoomBag{}
		s.Rooms[roomID] = bag
	}
	if bag.Inventory == nil {
		bag.Inventory = map[string]bool{}
	}
	if bag.Flags == nil {
		bag.Flags = map[string]bool{}
	}
	if bag.Clues == nil {
		bag.Clues = []string{}
	}
	return bag
}

// HasItem returns true if the room bag owns the item.
func HasItem(s *types.GameState, roomID, itemID string) bool {
	return RoomState(s, roomID).Inventory[itemID]
}

// AddItem grants an item defined on the room. Returns the definition and
// true only when the inventory actually changed.
func AddItem(s *types.GameState, room types.RoomDef, itemID string) (types.ItemDef, bool) {
	if HasItem(s, room.ID, itemID) {
		return types.ItemDef{}, false
	}
	def, ok := ItemDef(room, itemID)
	if !ok {
		return types.ItemDef{}, false
	}
	RoomState(s, room.ID).Inventory[itemID] = true
	return def, true
}

// AddItemOnce grants an item the first time key fires in this room. The key
// is consumed even when the item cannot be granted.
func AddItemOnce(s *types.GameState, room types.RoomDef, key, itemID string) (types.ItemDef, bool) {
	bag := RoomState(s, room.ID)
	if bag.Flags[key] {
		return types.ItemDef{}, false
	}
	bag.Flags[key] = true
	return AddItem(s, room, itemID)
}

// AddClueOnce appends a clue the first time key fires in this room.
func AddClueOnce(s *types.GameState, roomID, key, text string) bool {
	bag := RoomState(s, roomID)
	if bag.Flags[key] {
		return false
	}
	bag.Flags[key] = true
	bag.Clues = append(bag.Clues, text)
	return true
}

// ActiveItem returns the held item for the room, "" if none.
func ActiveItem(s *types.GameState, roomID string) string {
	return RoomState(s, roomID).ActiveItem
}

// SetActiveItem holds an owned item. Unowned ids leave the state unchanged.
func SetActiveItem(s *types.GameState, roomID, itemID string) bool {
	bag := RoomState(s, roomID)
	if !bag.Inventory[itemID] {
		return false
	}
	bag.ActiveItem = itemID
	return true
}

// ToggleActiveItem holds itemID, or releases it if it is already held.
// Returns the item held afterwards.
func ToggleActiveItem(s *types.GameState, roomID, itemID string) string {
	bag := RoomState(s, roomID)
	if bag.ActiveItem == itemID {
		bag.ActiveItem = ""
		return ""
	}
	SetActiveItem(s, roomID, itemID)
	return bag.ActiveItem
}

// ClearActiveItem releases the held item.
func ClearActiveItem(s *types.GameState, roomID string) {
	RoomState(s, roomID).ActiveItem = ""
}

// CompleteRoom marks a room solved.
func CompleteRoom(s *types.GameState, roomID string) {
	if s.Solved == nil {
		s.Solved = map[string]bool{}
	}
	s.Solved[roomID] = true
}

// IsSolved reports whether a room has been completed.
func IsSolved(s *types.GameState, roomID string) bool {
	return s.Solved[roomID]
}

// SolvedCount returns how many of the defined rooms are solved.
func SolvedCount(s *types.GameState, defs *Defs) int {
	n := 0
	for _, r := range defs.Rooms {
		if s.Solved[r.ID] {
			n++
		}
	}
	return n
}

// CanAdvance reports whether the "next room" control should be enabled.
func CanAdvance(s *types.GameState, defs *Defs) bool {
	room, ok := defs.CurrentRoom(s)
	if !ok {
		return false
	}
	return IsSolved(s, room.ID) && !defs.IsLastRoom(s.RoomIndex)
}

// OwnedItems returns the room's items the bag owns, in definition order.
func OwnedItems(s *types.GameState, room types.RoomDef) []types.ItemDef {
	bag := RoomState(s, room.ID)
	var owned []types.ItemDef
	for _, it := range room.Items {
		if bag.Inventory[it.ID] {
			owned = append(owned, it)
		}
	}
	return owned
}
