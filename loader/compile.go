// Package loader loads room content from a JSON document or Lua scripts and
// compiles it into typed definitions. The Lua VM is discarded after loading.
package loader

import (
	"fmt"
	"strings"

	"github.com/nathoo/escaperoom/engine/state"
	"github.com/nathoo/escaperoom/types"
)

// Guard tags.
const (
	whenInspect = "inspect"
	whenUseItem = "useItem"
)

// Action tags.
const (
	actionAddClue      = "addClue"
	actionAddItem      = "addItem"
	actionShowMessage  = "showMessage"
	actionOpenPuzzle   = "openPuzzle"
	actionCompleteRoom = "completeRoom"
)

const (
	lockedTitle = "Locked"
	lockedText  = "You need an item from your inventory."
)

// compiler converts raw records into definitions and collects warnings about
// content it had to drop.
type compiler struct {
	warnings []string
}

func (c *compiler) warnf(format string, args ...any) {
	c.warnings = append(c.warnings, fmt.Sprintf(format, args...))
}

// compile converts a raw document into a Defs struct.
func compile(doc *rawDoc, source string) (*state.Defs, []string) {
	c := &compiler{}
	defs := &state.Defs{Source: source}
	for i, raw := range doc.Rooms {
		defs.Rooms = append(defs.Rooms, c.compileRoom(raw, i))
	}
	return defs, c.warnings
}

func (c *compiler) compileRoom(raw rawRoom, index int) types.RoomDef {
	room := types.RoomDef{
		ID:       strings.TrimSpace(string(raw.ID)),
		Name:     string(raw.Name),
		Subtitle: string(raw.Subtitle),
		Desc:     string(raw.Desc),
		Cast:     string(raw.Cast),
		Mood:     string(raw.Mood),
		Goal:     string(raw.Goal),
	}
	if room.ID == "" {
		room.ID = fmt.Sprintf("room_%d", index+1)
		c.warnf("room #%d has no id, using %q", index+1, room.ID)
	}
	label := room.ID

	for _, it := range raw.Items {
		room.Items = append(room.Items, types.ItemDef{
			ID:    string(it.ID),
			Name:  string(it.Name),
			Icon:  string(it.Icon),
			Value: it.Value.ptr(),
		})
	}
	for _, obj := range raw.Objects {
		room.Objects = append(room.Objects, c.compileObject(obj, label))
	}
	return room
}

func (c *compiler) compileObject(raw rawObject, room string) types.ObjectDef {
	obj := types.ObjectDef{
		ID:   string(raw.ID),
		Name: string(raw.Name),
		Icon: string(raw.Icon),
		Hint: string(raw.Hint),
	}
	where := fmt.Sprintf("room %q object %q", room, obj.ID)

	if raw.Interactions == nil && raw.Actions != nil {
		obj.Interactions = c.compileLegacy(raw, where)
		return obj
	}

	for i, in := range raw.Interactions {
		guard, ok := c.compileGuard(in, fmt.Sprintf("%s interaction %d", where, i+1))
		if !ok {
			continue
		}
		obj.Interactions = append(obj.Interactions, types.Interaction{
			When:    guard,
			Actions: c.compileActions(in.Actions, where, nil),
		})
	}
	return obj
}

func (c *compiler) compileGuard(in rawInteraction, where string) (types.Guard, bool) {
	switch in.When.Type {
	case whenInspect:
		return types.Inspect{}, true
	case whenUseItem:
		id := in.When.ItemID
		if id == "" {
			id = string(in.ItemID)
		}
		if id == "" {
			c.warnf("%s: useItem without itemId never matches", where)
			return nil, false
		}
		return types.UseItem{ItemID: id}, true
	case "":
		c.warnf("%s: missing \"when\", interaction dropped", where)
		return nil, false
	default:
		c.warnf("%s: unknown guard %q, interaction dropped", where, in.When.Type)
		return nil, false
	}
}

// compileLegacy maps the first-version object shape, where an object had a
// flat action list optionally gated on owning an item, onto interactions.
func (c *compiler) compileLegacy(raw rawObject, where string) []types.Interaction {
	objID := string(raw.ID)
	actions := c.compileActions(raw.Actions, where, func(i int, tag string) string {
		if tag == actionAddClue {
			return fmt.Sprintf("%s_clue_%d", objID, i)
		}
		return fmt.Sprintf("%s_item_%d", objID, i)
	})

	req := string(raw.RequiresItem)
	if req == "" {
		return []types.Interaction{{When: types.Always{}, Actions: actions}}
	}

	locked := string(raw.LockedText)
	if locked == "" {
		locked = lockedText
	}
	return []types.Interaction{
		{When: types.HasItem{ItemID: req}, Actions: actions},
		{When: types.Always{}, Actions: []types.Action{types.ShowMessage{Title: lockedTitle, HTML: locked}}},
	}
}

// compileActions converts an action list, dropping unknown tags. When
// defaultKey is non-nil it supplies once-keys the content left out.
func (c *compiler) compileActions(raws []rawAction, where string, defaultKey func(i int, tag string) string) []types.Action {
	var out []types.Action
	for i, a := range raws {
		tag := string(a.Type)
		key := string(a.OnceKey)
		if key == "" && defaultKey != nil && (tag == actionAddClue || tag == actionAddItem) {
			key = defaultKey(i, tag)
		}

		switch tag {
		case actionAddClue:
			out = append(out, types.AddClueOnce{Key: key, Text: string(a.Text)})
		case actionAddItem:
			out = append(out, types.AddItemOnce{Key: key, ItemID: string(a.ItemID)})
		case actionShowMessage:
			out = append(out, types.ShowMessage{Title: string(a.Title), HTML: string(a.HTML)})
		case actionOpenPuzzle:
			if a.Puzzle == nil {
				c.warnf("%s: openPuzzle without a puzzle, action dropped", where)
				continue
			}
			out = append(out, types.OpenPuzzle{Puzzle: compilePuzzle(*a.Puzzle)})
		case actionCompleteRoom:
			out = append(out, types.CompleteRoom{})
		default:
			c.warnf("%s: unknown action %q ignored", where, tag)
		}
	}
	return out
}

func compilePuzzle(raw rawPuzzle) types.PuzzleDef {
	p := types.PuzzleDef{
		Type:         string(raw.Type),
		Prompt:       string(raw.Prompt),
		Answer:       string(raw.Answer),
		SuccessTitle: string(raw.SuccessTitle),
		SuccessText:  string(raw.SuccessText),
		OnSuccess:    string(raw.OnSuccess),
	}
	for _, id := range raw.SumItemIDs {
		p.SumItemIDs = append(p.SumItemIDs, string(id))
	}
	return p
}
