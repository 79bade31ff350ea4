package engine

import (
	"strings"
	"testing"

	"github.com/nathoo/escaperoom/engine/state"
	"github.com/nathoo/escaperoom/types"
)

func float(v float64) *float64 { return &v }

// testDefs builds a small two-room game: a kitchen with a drawer that hides a
// clue and a key, a locked box opened with the key, and a code lock; and a
// garden with a coin-sum puzzle.
func testDefs() *state.Defs {
	return &state.Defs{
		Rooms: []types.RoomDef{
			{
				ID:   "kitchen",
				Name: "Kitchen",
				Items: []types.ItemDef{
					{ID: "key", Name: "Little Key", Icon: "🔑"},
					{ID: "spoon", Name: "Spoon"},
				},
				Objects: []types.ObjectDef{
					{
						ID:   "drawer",
						Name: "Drawer",
						Interactions: []types.Interaction{
							{
								When: types.Inspect{},
								Actions: []types.Action{
									types.AddClueOnce{Key: "drawer_clue", Text: "A key glints inside"},
									types.AddItemOnce{Key: "drawer_key", ItemID: "key"},
								},
							},
						},
					},
					{
						ID:   "box",
						Name: "Box",
						Interactions: []types.Interaction{
							{
								When:    types.UseItem{ItemID: "key"},
								Actions: []types.Action{types.AddItemOnce{Key: "box_spoon", ItemID: "spoon"}},
							},
							{
								When:    types.Inspect{},
								Actions: []types.Action{types.ShowMessage{Title: "Box", HTML: "It is locked."}},
							},
						},
					},
					{
						ID:   "lock",
						Name: "Code Lock",
						Interactions: []types.Interaction{
							{
								When: types.Inspect{},
								Actions: []types.Action{types.OpenPuzzle{Puzzle: types.PuzzleDef{
									Type:      "code",
									Prompt:    "Enter the code",
									Answer:    "AB 12",
									OnSuccess: types.OnSuccessCompleteRoom,
								}}},
							},
						},
					},
				},
			},
			{
				ID:   "garden",
				Name: "Garden",
				Items: []types.ItemDef{
					{ID: "coinA", Name: "Coin A", Value: float(2)},
					{ID: "coinB", Name: "Coin B", Value: float(4)},
				},
				Objects: []types.ObjectDef{
					{
						ID:   "chest",
						Name: "Chest",
						Interactions: []types.Interaction{
							{
								When: types.Inspect{},
								Actions: []types.Action{types.OpenPuzzle{Puzzle: types.PuzzleDef{
									Type:         types.PuzzleSum,
									Prompt:       "How much are the coins worth?",
									SumItemIDs:   []string{"coinA", "coinB"},
									SuccessTitle: "Rich!",
									OnSuccess:    types.OnSuccessCompleteRoom,
								}}},
							},
						},
					},
				},
			},
		},
	}
}

func kinds(r types.Result) []types.EventKind {
	out := make([]types.EventKind, len(r.Events))
	for i, ev := range r.Events {
		out[i] = ev.Kind
	}
	return out
}

func find(r types.Result, kind types.EventKind) (types.Event, bool) {
	for _, ev := range r.Events {
		if ev.Kind == kind {
			return ev, true
		}
	}
	return types.Event{}, false
}

func lastIsStateChanged(t *testing.T, r types.Result) {
	t.Helper()
	if len(r.Events) == 0 || r.Events[len(r.Events)-1].Kind != types.EventStateChanged {
		t.Errorf("result should end with StateChanged, got %v", kinds(r))
	}
}

func TestActivate_DrawerRevealsClueOnce(t *testing.T) {
	e := New(testDefs())

	r := e.Activate("drawer")
	lastIsStateChanged(t, r)
	toasts := 0
	for _, ev := range r.Events {
		if ev.Kind == types.EventToast {
			toasts++
		}
	}
	if toasts != 2 {
		t.Errorf("expected clue and item toasts, got %v", r.Events)
	}

	r = e.Activate("drawer")
	if _, ok := find(r, types.EventToast); ok {
		t.Errorf("second activation should be silent, got %v", r.Events)
	}

	bag := e.Bag()
	if len(bag.Clues) != 1 || bag.Clues[0] != "A key glints inside" {
		t.Errorf("clues = %v", bag.Clues)
	}
	if !bag.Inventory["key"] {
		t.Error("expected key in inventory")
	}
}

func TestActivate_UseItemKeepsItemHeld(t *testing.T) {
	e := New(testDefs())
	e.Activate("drawer")
	e.Hold("key")

	r := e.Activate("box")
	ev, ok := find(r, types.EventToast)
	if !ok || ev.Text != "New item: Spoon" {
		t.Errorf("expected spoon toast, got %v", r.Events)
	}
	if e.Bag().ActiveItem != "key" {
		t.Errorf("active item = %q, want key to stay held", e.Bag().ActiveItem)
	}
}

func TestActivate_HeldItemWithNoMatch(t *testing.T) {
	e := New(testDefs())
	e.Activate("drawer")
	e.Hold("key")

	r := e.Activate("drawer")
	ev, ok := find(r, types.EventDialog)
	if !ok || ev.Text != "The Little Key doesn't work here." {
		t.Errorf("fallback = %+v", r.Events)
	}
	lastIsStateChanged(t, r)
}

func TestActivate_UnknownObjectIsNoop(t *testing.T) {
	e := New(testDefs())
	if r := e.Activate("ghost"); len(r.Events) != 0 {
		t.Errorf("expected empty result, got %v", r.Events)
	}
}

func TestNotReady_IgnoresGestures(t *testing.T) {
	var nilEngine *Engine
	empty := New(nil)

	for _, e := range []*Engine{nilEngine, empty} {
		if e.Ready() {
			t.Fatal("engine without content should not be ready")
		}
		for name, r := range map[string]types.Result{
			"activate": e.Activate("drawer"),
			"submit":   e.Submit("x"),
			"hold":     e.Hold("key"),
			"drop":     e.Drop(),
			"advance":  e.Advance(),
		} {
			if len(r.Events) != 0 {
				t.Errorf("%s on uninitialized engine produced %v", name, r.Events)
			}
		}
	}
}

func TestHold_Toggle(t *testing.T) {
	e := New(testDefs())

	if r := e.Hold("key"); len(r.Events) != 0 {
		t.Errorf("holding an unowned item should be ignored, got %v", r.Events)
	}

	e.Activate("drawer")
	r := e.Hold("key")
	ev, ok := find(r, types.EventToast)
	if !ok || !strings.Contains(ev.Text, "Little Key") {
		t.Errorf("hold toast = %v", r.Events)
	}
	if e.Bag().ActiveItem != "key" {
		t.Fatal("key should be held")
	}

	e.Hold("key")
	if e.Bag().ActiveItem != "" {
		t.Error("second hold should release the key")
	}

	e.Hold("key")
	e.Drop()
	if e.Bag().ActiveItem != "" {
		t.Error("drop should release the key")
	}
}

func TestSubmit_CodePuzzle(t *testing.T) {
	e := New(testDefs())

	if r := e.Submit("AB12"); len(r.Events) != 0 {
		t.Errorf("submit without a puzzle should be ignored, got %v", r.Events)
	}

	r := e.Activate("lock")
	if _, ok := find(r, types.EventPuzzleOpened); !ok {
		t.Fatalf("expected PuzzleOpened, got %v", kinds(r))
	}
	if _, ok := e.ActivePuzzle(); !ok {
		t.Fatal("puzzle should be active")
	}

	r = e.Submit("ab 13")
	if _, ok := find(r, types.EventPuzzleFailed); !ok {
		t.Errorf("expected failure, got %v", kinds(r))
	}
	if _, ok := e.ActivePuzzle(); !ok {
		t.Error("puzzle should stay active after a wrong answer")
	}
	if state.IsSolved(e.State, "kitchen") {
		t.Error("wrong answer must not solve the room")
	}

	r = e.Submit("  a b1 2 ")
	ev, ok := find(r, types.EventDialog)
	if !ok || ev.Title != defaultSuccessTitle || ev.Text != defaultSuccessText {
		t.Errorf("success dialog = %v", r.Events)
	}
	if _, ok := find(r, types.EventPuzzleClosed); !ok {
		t.Error("expected PuzzleClosed")
	}
	lastIsStateChanged(t, r)
	if _, ok := e.ActivePuzzle(); ok {
		t.Error("puzzle should be closed after success")
	}
	if !state.IsSolved(e.State, "kitchen") {
		t.Error("kitchen should be solved")
	}
}

func TestOpenPuzzle_ReplacesActive(t *testing.T) {
	e := New(testDefs())
	e.Activate("lock")
	e.Activate("lock")

	ap, ok := e.ActivePuzzle()
	if !ok || ap.RoomID != "kitchen" || ap.Puzzle.Answer != "AB 12" {
		t.Errorf("active puzzle = %+v", ap)
	}

	e.ClosePuzzle()
	if _, ok := e.ActivePuzzle(); ok {
		t.Error("ClosePuzzle should clear the active puzzle")
	}
}

func TestAdvance(t *testing.T) {
	e := New(testDefs())

	r := e.Advance()
	ev, ok := find(r, types.EventDialog)
	if !ok || ev.Title != "Not yet" {
		t.Errorf("advance before solving = %v", r.Events)
	}
	if e.State.RoomIndex != 0 {
		t.Fatal("index must not change")
	}
	if e.CanAdvance() {
		t.Error("CanAdvance should be false before solving")
	}

	state.CompleteRoom(e.State, "kitchen")
	e.Activate("lock")
	if !e.CanAdvance() {
		t.Error("CanAdvance should be true once solved")
	}

	r = e.Advance()
	if e.State.RoomIndex != 1 {
		t.Fatalf("index = %d, want 1", e.State.RoomIndex)
	}
	ev, ok = find(r, types.EventRoomChanged)
	if !ok || ev.RoomID != "garden" {
		t.Errorf("RoomChanged = %v", r.Events)
	}
	if _, ok := e.ActivePuzzle(); ok {
		t.Error("advance should close the active puzzle")
	}
}

func TestAdvance_LastRoomStays(t *testing.T) {
	e := New(testDefs())
	e.State.RoomIndex = 1
	state.CompleteRoom(e.State, "garden")

	r := e.Advance()
	if _, ok := find(r, types.EventDialog); !ok {
		t.Errorf("expected a closing dialog, got %v", r.Events)
	}
	if e.State.RoomIndex != 1 {
		t.Errorf("index = %d, want 1", e.State.RoomIndex)
	}
}

func TestScenario_SumPuzzle(t *testing.T) {
	e := New(testDefs())
	state.CompleteRoom(e.State, "kitchen")
	e.Advance()

	room, _ := e.Room()
	state.AddItem(e.State, room, "coinA")
	state.AddItem(e.State, room, "coinB")

	e.Activate("chest")
	r := e.Submit("five")
	if _, ok := find(r, types.EventPuzzleFailed); !ok {
		t.Errorf("'five' should fail, got %v", kinds(r))
	}

	r = e.Submit("6")
	ev, ok := find(r, types.EventDialog)
	if !ok || ev.Title != "Rich!" || ev.Text != defaultSuccessText {
		t.Errorf("success dialog = %v", r.Events)
	}
	if !state.IsSolved(e.State, "garden") {
		t.Error("garden should be solved")
	}
	if state.SolvedCount(e.State, e.Defs) != 2 {
		t.Errorf("SolvedCount = %d, want 2", state.SolvedCount(e.State, e.Defs))
	}
}

func TestReset(t *testing.T) {
	e := New(testDefs())
	e.Activate("drawer")
	state.CompleteRoom(e.State, "kitchen")
	e.Advance()
	e.Activate("chest")

	r := e.Reset()
	if _, ok := find(r, types.EventRoomChanged); !ok {
		t.Errorf("expected RoomChanged, got %v", kinds(r))
	}
	if e.State.RoomIndex != 0 || len(e.State.Solved) != 0 || len(e.State.Rooms) != 0 {
		t.Errorf("state not reset: %+v", e.State)
	}
	if _, ok := e.ActivePuzzle(); ok {
		t.Error("reset should close the active puzzle")
	}
}

func TestRestore_Sanitizes(t *testing.T) {
	e := New(testDefs())
	e.Activate("lock")

	e.Restore(&types.GameState{
		RoomIndex: 9,
		Rooms: map[string]*types.RoomBag{
			"kitchen": {ActiveItem: "key"},
		},
	})

	if e.State.RoomIndex != 1 {
		t.Errorf("index = %d, want clamp to 1", e.State.RoomIndex)
	}
	if e.State.Solved == nil {
		t.Error("solved map should be backfilled")
	}
	if got := state.ActiveItem(e.State, "kitchen"); got != "" {
		t.Errorf("unowned held item should be released, got %q", got)
	}
	if _, ok := e.ActivePuzzle(); ok {
		t.Error("restore should close the active puzzle")
	}
}
