// Package puzzle evaluates typed answers against a puzzle definition.
package puzzle

import (
	"strconv"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/nathoo/escaperoom/engine/state"
	"github.com/nathoo/escaperoom/types"
)

// Normalize removes every whitespace rune and upper-cases the rest.
func Normalize(s string) string {
	s = strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, s)
	return cases.Upper(language.Und).String(s)
}

// Expected returns the raw expected answer for the puzzle in room.
// Sum puzzles add the value of each listed item defined on the room;
// items without a value count as zero and unresolved ids are skipped.
func Expected(p types.PuzzleDef, room types.RoomDef) string {
	if p.Type != types.PuzzleSum {
		return p.Answer
	}
	var sum float64
	for _, id := range p.SumItemIDs {
		if def, ok := state.ItemDef(room, id); ok && def.Value != nil {
			sum += *def.Value
		}
	}
	return strconv.FormatFloat(sum, 'f', -1, 64)
}

// Check reports whether input answers the puzzle. There is no numeric
// coercion: "08" does not answer a sum of 8.
func Check(p types.PuzzleDef, room types.RoomDef, input string) bool {
	return Normalize(input) == Normalize(Expected(p, room))
}
