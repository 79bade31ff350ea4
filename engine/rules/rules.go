// Package rules selects which interaction of an object fires.
package rules

import (
	"fmt"

	"github.com/nathoo/escaperoom/types"
)

// Select returns the first interaction, in declaration order, whose guard
// matches. The bool is false when nothing matches.
func Select(interactions []types.Interaction, activeItem string, bag *types.RoomBag) (types.Interaction, bool) {
	for _, in := range interactions {
		if MatchesGuard(in.When, activeItem, bag) {
			return in, true
		}
	}
	return types.Interaction{}, false
}

// Fallback produces the dialog shown when no interaction matched.
// heldName is the display name of the held item, "" if it cannot be resolved.
func Fallback(heldName string, holding bool) types.Event {
	if holding {
		text := "That item doesn't work here."
		if heldName != "" {
			text = fmt.Sprintf("The %s doesn't work here.", heldName)
		}
		return types.Event{Kind: types.EventDialog, Title: "Hmm…", Text: text}
	}
	return types.Event{
		Kind:  types.EventDialog,
		Title: "Nothing new",
		Text:  "There is nothing new here.",
	}
}
