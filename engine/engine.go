// Package engine wires state, rules, effects, and the puzzle evaluator into
// the gestures a front end can forward: activate an object, hold an item,
// answer the active puzzle, advance to the next room, reset.
package engine

import (
	"github.com/nathoo/escaperoom/engine/effects"
	"github.com/nathoo/escaperoom/engine/puzzle"
	"github.com/nathoo/escaperoom/engine/rules"
	"github.com/nathoo/escaperoom/engine/state"
	"github.com/nathoo/escaperoom/types"
)

// Default dialog texts.
const (
	defaultSuccessTitle = "Well done!"
	defaultSuccessText  = "You did it!"
	failTitle           = "Oops…"
	failText            = "That doesn't work yet. Check your clues and try again. 💪"
)

// ActivePuzzle is the puzzle currently awaiting an answer.
type ActivePuzzle struct {
	Puzzle types.PuzzleDef
	RoomID string
}

// Engine holds the content definitions and the mutable state.
type Engine struct {
	Defs   *state.Defs
	State  *types.GameState
	active *ActivePuzzle
}

// New creates an engine with an empty state.
func New(defs *state.Defs) *Engine {
	return &Engine{
		Defs:  defs,
		State: state.NewState(),
	}
}

// Ready reports whether content is loaded. Gestures on an engine that is not
// ready are ignored.
func (e *Engine) Ready() bool {
	return e != nil && e.Defs != nil && len(e.Defs.Rooms) > 0
}

// Room returns the current room.
func (e *Engine) Room() (types.RoomDef, bool) {
	if !e.Ready() {
		return types.RoomDef{}, false
	}
	return e.Defs.CurrentRoom(e.State)
}

// Bag returns the current room's bag.
func (e *Engine) Bag() *types.RoomBag {
	room, ok := e.Room()
	if !ok {
		return &types.RoomBag{}
	}
	return state.RoomState(e.State, room.ID)
}

// ActivePuzzle returns the open puzzle, if any.
func (e *Engine) ActivePuzzle() (ActivePuzzle, bool) {
	if e == nil || e.active == nil {
		return ActivePuzzle{}, false
	}
	return *e.active, true
}

// CanAdvance reports whether the "next room" control is enabled.
func (e *Engine) CanAdvance() bool {
	return e.Ready() && state.CanAdvance(e.State, e.Defs)
}

// Activate handles a click on objectID in the current room, using the item
// the player is holding there.
func (e *Engine) Activate(objectID string) types.Result {
	var result types.Result

	room, ok := e.Room()
	if !ok {
		return result
	}
	obj, ok := state.ObjectDef(room, objectID)
	if !ok {
		return result
	}

	bag := state.RoomState(e.State, room.ID)
	held := bag.ActiveItem

	// 1. Select the first interaction whose guard matches.
	in, matched := rules.Select(obj.Interactions, held, bag)

	// 2. No match: explain, no mutation.
	if !matched {
		name := ""
		if held != "" {
			name = state.ItemName(room, held, "")
		}
		result.Events = append(result.Events, rules.Fallback(name, held != ""))
		result.Events = append(result.Events, types.Event{Kind: types.EventStateChanged})
		return result
	}

	// 3. Run the actions. The held item stays held.
	evts := effects.Apply(e.State, room, in.Actions)
	for _, ev := range evts {
		if ev.Kind == types.EventPuzzleOpened && ev.Puzzle != nil {
			e.active = &ActivePuzzle{Puzzle: *ev.Puzzle, RoomID: ev.RoomID}
		}
	}
	result.Events = append(result.Events, evts...)

	// 4. Re-render.
	result.Events = append(result.Events, types.Event{Kind: types.EventStateChanged})
	return result
}

// Submit answers the active puzzle with raw input.
func (e *Engine) Submit(input string) types.Result {
	var result types.Result

	if !e.Ready() || e.active == nil {
		return result
	}
	p := e.active.Puzzle
	room, ok := e.roomByID(e.active.RoomID)
	if !ok {
		e.active = nil
		return result
	}

	if !puzzle.Check(p, room, input) {
		result.Events = append(result.Events,
			types.Event{Kind: types.EventDialog, Title: failTitle, Text: failText},
			types.Event{Kind: types.EventPuzzleFailed, RoomID: room.ID},
		)
		return result
	}

	if p.OnSuccess == types.OnSuccessCompleteRoom {
		state.CompleteRoom(e.State, room.ID)
	}
	e.active = nil

	title, text := p.SuccessTitle, p.SuccessText
	if title == "" {
		title = defaultSuccessTitle
	}
	if text == "" {
		text = defaultSuccessText
	}
	result.Events = append(result.Events,
		types.Event{Kind: types.EventPuzzleClosed, RoomID: room.ID},
		types.Event{Kind: types.EventDialog, Title: title, Text: text},
		types.Event{Kind: types.EventPuzzleSolved, RoomID: room.ID},
		types.Event{Kind: types.EventStateChanged},
	)
	return result
}

// ClosePuzzle dismisses the active puzzle without answering it.
func (e *Engine) ClosePuzzle() types.Result {
	var result types.Result
	if e == nil || e.active == nil {
		return result
	}
	roomID := e.active.RoomID
	e.active = nil
	result.Events = append(result.Events,
		types.Event{Kind: types.EventPuzzleClosed, RoomID: roomID},
		types.Event{Kind: types.EventStateChanged},
	)
	return result
}

// Hold toggles itemID as the held item in the current room.
func (e *Engine) Hold(itemID string) types.Result {
	var result types.Result
	room, ok := e.Room()
	if !ok {
		return result
	}
	if !state.HasItem(e.State, room.ID, itemID) {
		return result
	}
	if held := state.ToggleActiveItem(e.State, room.ID, itemID); held != "" {
		result.Events = append(result.Events, types.Event{
			Kind: types.EventToast,
			Text: "Holding: " + state.ItemName(room, held, held),
		})
	}
	result.Events = append(result.Events, types.Event{Kind: types.EventStateChanged})
	return result
}

// Drop releases the held item.
func (e *Engine) Drop() types.Result {
	var result types.Result
	room, ok := e.Room()
	if !ok {
		return result
	}
	state.ClearActiveItem(e.State, room.ID)
	result.Events = append(result.Events, types.Event{Kind: types.EventStateChanged})
	return result
}

// Advance moves to the next room once the current one is solved.
func (e *Engine) Advance() types.Result {
	var result types.Result
	room, ok := e.Room()
	if !ok {
		return result
	}

	if !state.IsSolved(e.State, room.ID) {
		result.Events = append(result.Events, types.Event{
			Kind:  types.EventDialog,
			Title: "Not yet",
			Text:  "First you have to complete this room.",
		})
		return result
	}
	if e.Defs.IsLastRoom(e.State.RoomIndex) {
		result.Events = append(result.Events, types.Event{
			Kind:  types.EventDialog,
			Title: "The end!",
			Text:  "You escaped from every room. 🎉",
		})
		return result
	}

	e.State.RoomIndex++
	e.active = nil
	next, _ := e.Room()
	result.Events = append(result.Events,
		types.Event{Kind: types.EventPuzzleClosed},
		types.Event{Kind: types.EventToast, Text: "New room 🏠"},
		types.Event{Kind: types.EventRoomChanged, RoomID: next.ID},
		types.Event{Kind: types.EventStateChanged},
	)
	return result
}

// Reset discards all progress. Callers are responsible for confirming with
// the player and clearing persisted state.
func (e *Engine) Reset() types.Result {
	var result types.Result
	if e == nil {
		return result
	}
	e.State = state.NewState()
	e.active = nil
	if !e.Ready() {
		return result
	}
	room, _ := e.Room()
	result.Events = append(result.Events,
		types.Event{Kind: types.EventPuzzleClosed},
		types.Event{Kind: types.EventToast, Text: "Progress reset 🧹"},
		types.Event{Kind: types.EventRoomChanged, RoomID: room.ID},
		types.Event{Kind: types.EventStateChanged},
	)
	return result
}

// Restore replaces the state with a loaded one. Held items that the bag no
// longer owns are released, and an index past the last room is clamped.
func (e *Engine) Restore(s *types.GameState) {
	if s == nil {
		s = state.NewState()
	}
	if s.Rooms == nil {
		s.Rooms = map[string]*types.RoomBag{}
	}
	if s.Solved == nil {
		s.Solved = map[string]bool{}
	}
	if e.Defs != nil && s.RoomIndex >= len(e.Defs.Rooms) && len(e.Defs.Rooms) > 0 {
		s.RoomIndex = len(e.Defs.Rooms) - 1
	}
	if s.RoomIndex < 0 {
		s.RoomIndex = 0
	}
	for id := range s.Rooms {
		bag := state.RoomState(s, id)
		if bag.ActiveItem != "" && !bag.Inventory[bag.ActiveItem] {
			bag.ActiveItem = ""
		}
	}
	e.State = s
	e.active = nil
}

func (e *Engine) roomByID(id string) (types.RoomDef, bool) {
	for _, r := range e.Defs.Rooms {
		if r.ID == id {
			return r, true
		}
	}
	return types.RoomDef{}, false
}
