package rules

import (
	"github.com/nathoo/escaperoom/types"
)

// MatchesGuard checks a guard against the held item and the room bag.
// It never mutates state. Unknown guard types never match.
func MatchesGuard(g types.Guard, activeItem string, bag *types.RoomBag) bool {
	switch g := g.(type) {
	case types.Inspect:
		return activeItem == ""
	case types.UseItem:
		return g.ItemID != "" && activeItem == g.ItemID
	case types.HasItem:
		return bag != nil && bag.Inventory[g.ItemID]
	case types.Always:
		return true
	default:
		return false
	}
}
