package tui

import (
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
)

type keyMap struct {
	Up     key.Binding
	Down   key.Binding
	Switch key.Binding
	Use    key.Binding
	Drop   key.Binding
	Hint   key.Binding
	Next   key.Binding
	Save   key.Binding
	Reset  key.Binding
	Close  key.Binding
	Yes    key.Binding
	No     key.Binding
	Quit   key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Up:     key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:   key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		Switch: key.NewBinding(key.WithKeys("tab", "left", "right"), key.WithHelp("tab", "things/bag")),
		Use:    key.NewBinding(key.WithKeys("enter", " "), key.WithHelp("enter", "click")),
		Drop:   key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "drop")),
		Hint:   key.NewBinding(key.WithKeys("h", "?"), key.WithHelp("h", "hint")),
		Next:   key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "next room")),
		Save:   key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "save")),
		Reset:  key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "reset")),
		Close:  key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "close")),
		Yes:    key.NewBinding(key.WithKeys("y"), key.WithHelp("y", "yes")),
		No:     key.NewBinding(key.WithKeys("n", "esc"), key.WithHelp("n", "no")),
		Quit:   key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

// ShortHelp implements help.KeyMap.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Switch, k.Use, k.Drop, k.Hint, k.Next, k.Save, k.Reset, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Switch, k.Use},
		{k.Drop, k.Hint, k.Next},
		{k.Save, k.Reset, k.Close, k.Quit},
	}
}

// puzzleKeys is the help shown while the answer box has focus.
type puzzleKeys struct {
	Submit  key.Binding
	History key.Binding
	Close   key.Binding
}

func (k puzzleKeys) ShortHelp() []key.Binding {
	return []key.Binding{k.Submit, k.History, k.Close}
}

func (k puzzleKeys) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp()}
}

func defaultPuzzleKeys() puzzleKeys {
	return puzzleKeys{
		Submit:  key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "answer")),
		History: key.NewBinding(key.WithKeys("up", "down"), key.WithHelp("↑/↓", "earlier answers")),
		Close:   key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "step back")),
	}
}

// viewportKeyMap returns a viewport keymap with Up/Down disabled
// (we use those for list selection).
func viewportKeyMap() viewport.KeyMap {
	return viewport.KeyMap{
		PageDown:     key.NewBinding(key.WithKeys("pgdown")),
		PageUp:       key.NewBinding(key.WithKeys("pgup")),
		HalfPageDown: key.NewBinding(key.WithKeys("ctrl+d")),
		HalfPageUp:   key.NewBinding(key.WithKeys("ctrl+u")),
		Up:           key.NewBinding(key.WithDisabled()),
		Down:         key.NewBinding(key.WithDisabled()),
	}
}
