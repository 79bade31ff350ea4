// Package types defines the shared data structures for the escape-room engine.
// This package contains only type definitions and the marker methods that
// seal the Guard and Action unions. No game logic.
package types

// RoomDef is the immutable definition of one room. Rooms are played in order.
type RoomDef struct {
	ID       string
	Name     string
	Subtitle string
	Desc     string
	Cast     string
	Mood     string
	Goal     string
	Objects  []ObjectDef
	Items    []ItemDef
}

// ItemDef is an inventory item that can be granted in a room.
type ItemDef struct {
	ID    string
	Name  string
	Icon  string
	Value *float64 // optional; used by sum puzzles
}

// ObjectDef is a clickable thing in a room.
type ObjectDef struct {
	ID           string
	Name         string
	Icon         string
	Hint         string // authored HTML
	Interactions []Interaction
}

// Interaction pairs a guard with the actions to run when it matches.
type Interaction struct {
	When    Guard
	Actions []Action
}

// Guard decides whether an interaction applies to the current activation.
type Guard interface {
	guard()
}

// Inspect matches when the player is not holding any item.
type Inspect struct{}

// UseItem matches when the player holds exactly ItemID.
type UseItem struct {
	ItemID string
}

// HasItem matches when the room bag owns ItemID, held or not.
type HasItem struct {
	ItemID string
}

// Always matches unconditionally.
type Always struct{}

func (Inspect) guard() {}
func (UseItem) guard() {}
func (HasItem) guard() {}
func (Always) guard()  {}

// Action is a single scripted operation in an interaction.
type Action interface {
	action()
}

// AddClueOnce appends Text to the clue log the first time Key fires.
type AddClueOnce struct {
	Key  string
	Text string
}

// AddItemOnce grants ItemID the first time Key fires.
type AddItemOnce struct {
	Key    string
	ItemID string
}

// ShowMessage opens a blocking informational dialog.
type ShowMessage struct {
	Title string
	HTML  string
}

// OpenPuzzle makes Puzzle the active puzzle for the current room.
type OpenPuzzle struct {
	Puzzle PuzzleDef
}

// CompleteRoom marks the current room solved.
type CompleteRoom struct{}

func (AddClueOnce) action()  {}
func (AddItemOnce) action()  {}
func (ShowMessage) action()  {}
func (OpenPuzzle) action()   {}
func (CompleteRoom) action() {}

// Puzzle types and success effects understood by the evaluator.
const (
	PuzzleSum             = "sum"
	OnSuccessCompleteRoom = "completeRoom"
)

// PuzzleDef describes a typed-answer challenge.
type PuzzleDef struct {
	Type         string // "sum", otherwise literal
	Prompt       string
	Answer       string
	SumItemIDs   []string
	SuccessTitle string
	SuccessText  string
	OnSuccess    string // effect type; only "completeRoom" is defined
}

// RoomBag is the mutable per-room slice of the game state.
type RoomBag struct {
	Inventory  map[string]bool // owned item ids
	Clues      []string        // append-only
	Flags      map[string]bool // fired once-keys
	ActiveItem string          // "" when nothing is held
}

// GameState is the complete mutable player progress.
type GameState struct {
	RoomIndex int
	Rooms     map[string]*RoomBag
	Solved    map[string]bool
}

// EventKind identifies what a front end should do with an Event.
type EventKind int

const (
	EventStateChanged EventKind = iota
	EventRoomChanged
	EventToast
	EventDialog
	EventPuzzleOpened
	EventPuzzleClosed
	EventPuzzleSolved
	EventPuzzleFailed
)

// Event is emitted by the engine for the presentation layer.
type Event struct {
	Kind   EventKind
	Title  string     // dialogs
	Text   string     // toast text, dialog body (HTML)
	Puzzle *PuzzleDef // EventPuzzleOpened
	RoomID string
}

// Result is the output of a single player gesture.
type Result struct {
	Events []Event
}
