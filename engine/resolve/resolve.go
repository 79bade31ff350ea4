// Package resolve maps names typed by the player to object and item IDs in
// the current room.
package resolve

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/nathoo/escaperoom/engine/state"
	"github.com/nathoo/escaperoom/types"
)

// AmbiguityError indicates multiple candidates matched a name.
type AmbiguityError struct {
	Name       string
	Candidates []string
}

func (e *AmbiguityError) Error() string {
	names := strings.Join(e.Candidates, ", ")
	return fmt.Sprintf("which %s? (%s)", e.Name, names)
}

// NotFoundError indicates nothing matched a name.
type NotFoundError struct {
	Name string
	Kind string // "object" or "item"
}

func (e *NotFoundError) Error() string {
	if e.Kind == "item" {
		return fmt.Sprintf("you don't have %q", e.Name)
	}
	return fmt.Sprintf("you don't see %q here", e.Name)
}

type candidate struct {
	id, name string
}

// Object resolves name to an object in room. A number selects the object
// by its 1-based position.
func Object(room types.RoomDef, name string) (string, error) {
	cands := make([]candidate, len(room.Objects))
	for i, obj := range room.Objects {
		cands[i] = candidate{id: obj.ID, name: obj.Name}
	}
	return resolveName(cands, name, "object")
}

// Item resolves name to an item the room bag owns. A number selects the item
// by its 1-based position in the inventory.
func Item(s *types.GameState, room types.RoomDef, name string) (string, error) {
	owned := state.OwnedItems(s, room)
	cands := make([]candidate, len(owned))
	for i, it := range owned {
		cands[i] = candidate{id: it.ID, name: it.Name}
	}
	return resolveName(cands, name, "item")
}

func resolveName(cands []candidate, name, kind string) (string, error) {
	nameLower := strings.ToLower(strings.TrimSpace(name))
	if nameLower == "" {
		return "", &NotFoundError{Name: name, Kind: kind}
	}

	if n, err := strconv.Atoi(nameLower); err == nil {
		if n >= 1 && n <= len(cands) {
			return cands[n-1].id, nil
		}
		return "", &NotFoundError{Name: name, Kind: kind}
	}

	// 1. Exact ID or full name wins outright.
	for _, c := range cands {
		if strings.ToLower(c.id) == nameLower || strings.ToLower(c.name) == nameLower {
			return c.id, nil
		}
	}

	// 2. Partial matches.
	var matches []candidate
	for _, c := range cands {
		if matchesName(c, nameLower) {
			matches = append(matches, c)
		}
	}

	switch len(matches) {
	case 0:
		return "", &NotFoundError{Name: name, Kind: kind}
	case 1:
		return matches[0].id, nil
	default:
		names := make([]string, len(matches))
		for i, m := range matches {
			names[i] = m.name
			if names[i] == "" {
				names[i] = m.id
			}
		}
		return "", &AmbiguityError{Name: name, Candidates: names}
	}
}

// matchesName checks a candidate against the query (case-insensitive).
// Supports word-based partial match and underscore-normalized IDs.
func matchesName(c candidate, nameLower string) bool {
	// Word-based partial match: query matches any word in the name.
	// e.g. "key" matches "little key", "lock" matches "code lock".
	for _, word := range strings.Fields(strings.ToLower(c.name)) {
		if word == nameLower {
			return true
		}
	}
	// Underscore normalization: "code lock" matches ID "code_lock".
	return strings.ReplaceAll(nameLower, " ", "_") == strings.ToLower(c.id)
}
