package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/nathoo/escaperoom/engine/state"
	"github.com/nathoo/escaperoom/types"
)

// roomDisplayName returns the authored room name, or one derived from the
// ID: "great_hall" -> "Great Hall".
func roomDisplayName(room types.RoomDef) string {
	if room.Name != "" {
		return room.Name
	}
	return cases.Title(language.Und).String(strings.ReplaceAll(room.ID, "_", " "))
}

// renderStatusBar produces a full-width inverted status line showing the
// room position, held item, and solved count.
func (m Model) renderStatusBar() string {
	eng := m.sess.Engine
	room, _ := eng.Room()

	left := fmt.Sprintf(" Room %d/%d · %s", eng.State.RoomIndex+1, len(eng.Defs.Rooms), roomDisplayName(room))
	right := fmt.Sprintf("Solved %d/%d ", state.SolvedCount(eng.State, eng.Defs), len(eng.Defs.Rooms))

	// Show the held item if it fits.
	if held := eng.Bag().ActiveItem; held != "" {
		candidate := fmt.Sprintf("Holding: %s | %s", state.ItemName(room, held, held), right)
		if lipgloss.Width(left)+lipgloss.Width(candidate)+2 < m.width {
			right = candidate
		} else {
			right = "✋ | " + right
		}
	}

	gap := m.width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 0 {
		gap = 0
	}

	bar := left + strings.Repeat(" ", gap) + right
	return styleStatusBar.Width(m.width).Render(bar)
}
