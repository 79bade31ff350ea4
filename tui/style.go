package tui

import (
	"github.com/charmbracelet/lipgloss"
)

// Styles used throughout the TUI.
var (
	styleStatusBar = lipgloss.NewStyle().
			Background(lipgloss.Color("236")).
			Foreground(lipgloss.Color("252")).
			Bold(true)

	styleTitle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("229")).
			Bold(true)

	styleSubtitle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("249")).
			Italic(true)

	stylePaneTitle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("243")).
			Underline(true)

	stylePaneTitleFocused = stylePaneTitle.
				Foreground(lipgloss.Color("34"))

	styleRow = lipgloss.NewStyle().
			Foreground(lipgloss.Color("255"))

	styleSelected = lipgloss.NewStyle().
			Foreground(lipgloss.Color("16")).
			Background(lipgloss.Color("34")).
			Bold(true)

	styleHeld = lipgloss.NewStyle().
			Foreground(lipgloss.Color("228")).
			Bold(true)

	styleClue = lipgloss.NewStyle().
			Foreground(lipgloss.Color("228"))

	styleEmph = lipgloss.NewStyle().
			Bold(true)

	styleSolved = lipgloss.NewStyle().
			Foreground(lipgloss.Color("16")).
			Background(lipgloss.Color("42")).
			Bold(true)

	styleToast = lipgloss.NewStyle().
			Foreground(lipgloss.Color("16")).
			Background(lipgloss.Color("221"))

	styleInputPrompt = lipgloss.NewStyle().
				Foreground(lipgloss.Color("34"))

	stylePuzzle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("34")).
			Padding(0, 1)

	styleDialog = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("221")).
			Padding(1, 2)

	styleDialogTitle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("221")).
				Bold(true)

	styleFooter = lipgloss.NewStyle().
			Foreground(lipgloss.Color("243"))

	styleError = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")).
			Bold(true)
)

// emph renders bold/em runs from authored markup.
func emph(s string) string {
	return styleEmph.Render(s)
}
