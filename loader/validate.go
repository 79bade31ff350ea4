package loader

import (
	"fmt"
	"strings"

	"github.com/nathoo/escaperoom/engine/state"
	"github.com/nathoo/escaperoom/engine/puzzle"
	"github.com/nathoo/escaperoom/types"
)

// ValidationError collects all validation errors and warnings.
type ValidationError struct {
	Errors   []string
	Warnings []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed with %d error(s):\n  %s",
		len(e.Errors), strings.Join(e.Errors, "\n  "))
}

// validate checks the compiled defs. Only an empty room list and missing
// once-keys are errors; dangling references are warnings.
func validate(defs *state.Defs) *ValidationError {
	ve := &ValidationError{}

	if len(defs.Rooms) == 0 {
		ve.Errors = append(ve.Errors, "content defines no rooms")
		return ve
	}

	roomIDs := map[string]bool{}
	for i, room := range defs.Rooms {
		if room.ID == "" {
			ve.Warnings = append(ve.Warnings, fmt.Sprintf("room #%d has no id", i+1))
		}
		if roomIDs[room.ID] {
			ve.Warnings = append(ve.Warnings, fmt.Sprintf("duplicate room id %q", room.ID))
		}
		roomIDs[room.ID] = true
		validateRoom(room, ve)
	}
	return ve
}

func validateRoom(room types.RoomDef, ve *ValidationError) {
	itemIDs := map[string]bool{}
	for _, it := range room.Items {
		if it.ID == "" {
			ve.Warnings = append(ve.Warnings, fmt.Sprintf("room %q has an item without id", room.ID))
			continue
		}
		if itemIDs[it.ID] {
			ve.Warnings = append(ve.Warnings, fmt.Sprintf("room %q duplicate item id %q", room.ID, it.ID))
		}
		itemIDs[it.ID] = true
	}

	objIDs := map[string]bool{}
	for _, obj := range room.Objects {
		if obj.ID == "" {
			ve.Warnings = append(ve.Warnings, fmt.Sprintf("room %q has an object without id", room.ID))
		} else if objIDs[obj.ID] {
			ve.Warnings = append(ve.Warnings, fmt.Sprintf("room %q duplicate object id %q", room.ID, obj.ID))
		}
		objIDs[obj.ID] = true

		where := fmt.Sprintf("room %q object %q", room.ID, obj.ID)
		for _, in := range obj.Interactions {
			switch g := in.When.(type) {
			case types.UseItem:
				checkItemRef(g.ItemID, itemIDs, where+" useItem", ve)
			case types.HasItem:
				checkItemRef(g.ItemID, itemIDs, where+" requiresItem", ve)
			}
			validateActions(in.Actions, itemIDs, where, ve)
		}
	}
}

func validateActions(actions []types.Action, itemIDs map[string]bool, where string, ve *ValidationError) {
	for _, a := range actions {
		switch act := a.(type) {
		case types.AddClueOnce:
			if act.Key == "" {
				ve.Errors = append(ve.Errors, fmt.Sprintf("%s: addClue without onceKey", where))
			}
		case types.AddItemOnce:
			if act.Key == "" {
				ve.Errors = append(ve.Errors, fmt.Sprintf("%s: addItem without onceKey", where))
			}
			checkItemRef(act.ItemID, itemIDs, where+" addItem", ve)
		case types.OpenPuzzle:
			validatePuzzle(act.Puzzle, itemIDs, where, ve)
		}
	}
}

func validatePuzzle(p types.PuzzleDef, itemIDs map[string]bool, where string, ve *ValidationError) {
	if p.Type == types.PuzzleSum {
		if len(p.SumItemIDs) == 0 {
			ve.Warnings = append(ve.Warnings, fmt.Sprintf("%s: sum puzzle lists no items", where))
		}
		for _, id := range p.SumItemIDs {
			checkItemRef(id, itemIDs, where+" sumItemIds", ve)
		}
	} else if puzzle.Normalize(p.Answer) == "" {
		ve.Warnings = append(ve.Warnings, fmt.Sprintf("%s: puzzle answer is empty", where))
	}
	if p.OnSuccess != "" && p.OnSuccess != types.OnSuccessCompleteRoom {
		ve.Warnings = append(ve.Warnings, fmt.Sprintf("%s: unknown onSuccess %q does nothing", where, p.OnSuccess))
	}
}

func checkItemRef(id string, itemIDs map[string]bool, where string, ve *ValidationError) {
	if !itemIDs[id] {
		ve.Warnings = append(ve.Warnings, fmt.Sprintf(
			"%s references item %q not defined on the room", where, id))
	}
}
