// Package effects implements centralized state mutation via the Apply function.
// Every action type is one atomic operation.
package effects

import (
	"github.com/nathoo/escaperoom/engine/state"
	"github.com/nathoo/escaperoom/types"
)

// Apply runs actions in order against the room, mutating the state.
// Returns the events the presentation layer should act on.
func Apply(s *types.GameState, room types.RoomDef, actions []types.Action) []types.Event {
	var events []types.Event

	for _, act := range actions {
		switch a := act.(type) {
		case types.AddClueOnce:
			if state.AddClueOnce(s, room.ID, a.Key, a.Text) {
				events = append(events, toast("New clue ✨"))
			}

		case types.AddItemOnce:
			if def, ok := state.AddItemOnce(s, room, a.Key, a.ItemID); ok {
				events = append(events, toast("New item: "+def.Name))
			}

		case types.ShowMessage:
			events = append(events, types.Event{
				Kind:  types.EventDialog,
				Title: a.Title,
				Text:  a.HTML,
			})

		case types.OpenPuzzle:
			p := a.Puzzle
			events = append(events, types.Event{
				Kind:   types.EventPuzzleOpened,
				Puzzle: &p,
				RoomID: room.ID,
			})

		case types.CompleteRoom:
			state.CompleteRoom(s, room.ID)

		default:
			// Compiled content never reaches here.
		}
	}

	return events
}

func toast(text string) types.Event {
	return types.Event{Kind: types.EventToast, Text: text}
}
