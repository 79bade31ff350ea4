// Package tui provides a Bubble Tea point-and-click terminal UI for the
// escape-room engine.
package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/wordwrap"

	"github.com/nathoo/escaperoom/engine"
	"github.com/nathoo/escaperoom/engine/save"
	"github.com/nathoo/escaperoom/engine/state"
	"github.com/nathoo/escaperoom/markup"
	"github.com/nathoo/escaperoom/session"
	"github.com/nathoo/escaperoom/types"
)

const (
	toastDuration = 2500 * time.Millisecond

	// listTop is the screen row of the first object/item row: title,
	// subtitle, pane titles.
	listTop = 3
)

const howToPlay = "Pick things with the arrow keys or the mouse and press <b>enter</b> to look at them. " +
	"Items you find go in your bag: select one to hold it, then click a thing to use it. " +
	"Press <b>h</b> for a hint, <b>s</b> to save and <b>n</b> for the next room."

// Loader fetches content. It runs off the UI goroutine.
type Loader func(ctx context.Context) (*state.Defs, error)

type pane int

const (
	paneObjects pane = iota
	paneItems
)

type dialog struct {
	title   string
	text    string // HTML
	confirm bool   // yes/no reset prompt
}

// Model is the Bubble Tea model for the escape-room TUI.
type Model struct {
	ctx     context.Context
	sess    *session.Session
	load    Loader
	loadErr error

	viewport   viewport.Model
	input      textinput.Model
	answers    *answerHistory
	help       help.Model
	keys       keyMap
	puzzleKeys puzzleKeys

	focus      pane
	objCursor  int
	itemCursor int
	dialogs    []dialog
	toast      string
	toastSeq   int

	width    int
	height   int
	ready    bool
	quitting bool
}

// contentLoadedMsg carries the result of the startup content load.
type contentLoadedMsg struct {
	defs *state.Defs
	err  error
}

// restoredMsg carries the decoded save slot.
type restoredMsg struct {
	sd    *save.SaveData
	found bool
	err   error
}

// resultMsg carries events produced off the UI goroutine (slot writes).
type resultMsg struct {
	result types.Result
}

type toastExpiredMsg struct {
	seq int
}

// New creates a TUI model. When sess has no engine yet, load is run at
// startup and gestures are ignored until it resolves.
func New(ctx context.Context, sess *session.Session, load Loader) Model {
	ti := textinput.New()
	ti.Prompt = "answer> "
	ti.CharLimit = 64
	ti.PromptStyle = styleInputPrompt

	return Model{
		ctx:        ctx,
		sess:       sess,
		load:       load,
		input:      ti,
		answers:    newAnswerHistory(20),
		help:       help.New(),
		keys:       defaultKeyMap(),
		puzzleKeys: defaultPuzzleKeys(),
	}
}

// Run starts the Bubble Tea program.
func Run(ctx context.Context, sess *session.Session, load Loader) error {
	m := New(ctx, sess, load)
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseCellMotion(), tea.WithContext(ctx))
	_, err := p.Run()
	return err
}

// Init loads content if needed, then restores the save slot.
func (m Model) Init() tea.Cmd {
	if m.sess.Ready() {
		return m.restoreCmd()
	}
	if m.load == nil {
		return nil
	}
	ctx, load := m.ctx, m.load
	return func() tea.Msg {
		defs, err := load(ctx)
		return contentLoadedMsg{defs: defs, err: err}
	}
}

func (m Model) restoreCmd() tea.Cmd {
	ctx, sess := m.ctx, m.sess
	return func() tea.Msg {
		sd, found, err := sess.Read(ctx)
		return restoredMsg{sd: sd, found: found, err: err}
	}
}

// Update handles messages (key presses, mouse, window resize, I/O results).
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width

		if !m.ready {
			m.viewport = viewport.New(m.width, 1)
			m.viewport.KeyMap = viewportKeyMap()
			m.ready = true
		}
		m.refreshViewport()
		return m, nil

	case contentLoadedMsg:
		if msg.err != nil {
			m.loadErr = msg.err
			return m, nil
		}
		m.sess.Engine = engine.New(msg.defs)
		m.refreshViewport()
		return m, m.restoreCmd()

	case restoredMsg:
		var cmd tea.Cmd
		switch {
		case msg.err != nil:
			cmd = m.showToast("Could not load the saved game. Starting fresh.")
		case msg.found:
			m.sess.Apply(msg.sd)
			cmd = m.showToast("Welcome back! 👋")
		default:
			m.dialogs = append(m.dialogs, dialog{title: "How to play", text: howToPlay})
		}
		m.clampCursors()
		m.refreshViewport()
		return m, cmd

	case resultMsg:
		return m, m.apply(msg.result)

	case toastExpiredMsg:
		if msg.seq == m.toastSeq {
			m.toast = ""
		}
		return m, nil

	case tea.MouseMsg:
		return m.handleMouse(msg)

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	// Cursor blink and other textinput internals.
	if m.input.Focused() {
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Type == tea.KeyCtrlC {
		m.quitting = true
		return m, tea.Quit
	}

	if len(m.dialogs) > 0 {
		return m.handleDialogKey(msg)
	}

	// Content failed or is still loading: only quit and reset work.
	if !m.sess.Ready() {
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, tea.Quit
		case key.Matches(msg, m.keys.Reset):
			m.dialogs = append(m.dialogs, resetPrompt())
		}
		return m, nil
	}

	eng := m.sess.Engine
	if _, open := eng.ActivePuzzle(); open {
		return m.handlePuzzleKey(msg)
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		m.quitting = true
		return m, tea.Quit
	case key.Matches(msg, m.keys.Up):
		m.moveCursor(-1)
	case key.Matches(msg, m.keys.Down):
		m.moveCursor(1)
	case key.Matches(msg, m.keys.Switch):
		if m.focus == paneObjects {
			m.focus = paneItems
		} else {
			m.focus = paneObjects
		}
	case key.Matches(msg, m.keys.Use):
		return m, m.activateSelection()
	case key.Matches(msg, m.keys.Drop):
		return m, m.apply(eng.Drop())
	case key.Matches(msg, m.keys.Hint):
		m.showHint()
	case key.Matches(msg, m.keys.Next):
		return m, m.apply(eng.Advance())
	case key.Matches(msg, m.keys.Save):
		return m, m.saveCmd()
	case key.Matches(msg, m.keys.Reset):
		m.dialogs = append(m.dialogs, resetPrompt())
	default:
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m Model) handleDialogKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	top := m.dialogs[0]
	if top.confirm {
		switch {
		case key.Matches(msg, m.keys.Yes):
			m.dialogs = m.dialogs[1:]
			return m, m.reset()
		case key.Matches(msg, m.keys.No):
			m.dialogs = m.dialogs[1:]
		}
		return m, nil
	}
	if key.Matches(msg, m.keys.Use) || key.Matches(msg, m.keys.Close) {
		m.dialogs = m.dialogs[1:]
	}
	return m, nil
}

func (m Model) handlePuzzleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	eng := m.sess.Engine
	switch msg.Type {
	case tea.KeyEsc:
		return m, m.apply(eng.ClosePuzzle())
	case tea.KeyEnter:
		answer := m.input.Value()
		if strings.TrimSpace(answer) == "" {
			return m, nil
		}
		m.answers.Add(answer)
		// A wrong answer stays in the box; EventPuzzleClosed clears it.
		return m, m.apply(eng.Submit(answer))
	case tea.KeyUp:
		if prev, ok := m.answers.Older(); ok {
			m.input.SetValue(prev)
			m.input.CursorEnd()
		}
		return m, nil
	case tea.KeyDown:
		if next, ok := m.answers.Newer(); ok {
			m.input.SetValue(next)
			m.input.CursorEnd()
		} else {
			m.input.SetValue("")
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// handleMouse clicks objects and items, dismisses dialogs, and scrolls the
// clue log.
func (m Model) handleMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	if msg.Action != tea.MouseActionPress {
		return m, nil
	}
	if len(m.dialogs) > 0 {
		if msg.Button == tea.MouseButtonLeft && !m.dialogs[0].confirm {
			m.dialogs = m.dialogs[1:]
		}
		return m, nil
	}
	if !m.sess.Ready() {
		return m, nil
	}
	if msg.Button != tea.MouseButtonLeft {
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return m, cmd
	}

	row := msg.Y - listTop
	if row < 0 || row >= m.listRows() {
		return m, nil
	}
	if msg.X < m.colWidth()+1 {
		m.focus, m.objCursor = paneObjects, row
	} else {
		m.focus, m.itemCursor = paneItems, row
	}
	return m, m.activateSelection()
}

// activateSelection clicks the selected object or toggles the selected item.
func (m *Model) activateSelection() tea.Cmd {
	eng := m.sess.Engine
	room, ok := eng.Room()
	if !ok {
		return nil
	}
	switch m.focus {
	case paneObjects:
		if m.objCursor >= len(room.Objects) {
			return nil
		}
		return m.apply(eng.Activate(room.Objects[m.objCursor].ID))
	default:
		items := state.OwnedItems(eng.State, room)
		if m.itemCursor >= len(items) {
			return nil
		}
		return m.apply(eng.Hold(items[m.itemCursor].ID))
	}
}

func (m *Model) showHint() {
	room, ok := m.sess.Engine.Room()
	if !ok || m.focus != paneObjects || m.objCursor >= len(room.Objects) {
		return
	}
	obj := room.Objects[m.objCursor]
	text := obj.Hint
	if text == "" {
		text = "No hint for this one."
	}
	m.dialogs = append(m.dialogs, dialog{title: "Hint: " + label(obj.Icon, obj.Name, obj.ID), text: text})
}

// saveCmd snapshots on the UI goroutine and writes the slot off it.
func (m *Model) saveCmd() tea.Cmd {
	data, err := m.sess.Snapshot()
	if err != nil {
		return m.showToast("Could not save here. Progress is kept until you quit.")
	}
	ctx, sess := m.ctx, m.sess
	return func() tea.Msg {
		return resultMsg{result: sess.Write(ctx, data)}
	}
}

// reset wipes in-memory progress now and clears the slot in the background.
func (m *Model) reset() tea.Cmd {
	ctx, sess := m.ctx, m.sess
	clearSlot := func() tea.Msg {
		return resultMsg{result: sess.Clear(ctx)}
	}
	if sess.Engine == nil {
		return tea.Batch(m.showToast("Saved game cleared 🧹"), clearSlot)
	}
	return tea.Batch(m.apply(sess.Engine.Reset()), clearSlot)
}

// apply folds engine events into the view.
func (m *Model) apply(result types.Result) tea.Cmd {
	var cmds []tea.Cmd
	for _, ev := range result.Events {
		switch ev.Kind {
		case types.EventToast:
			cmds = append(cmds, m.showToast(ev.Text))
		case types.EventDialog:
			m.dialogs = append(m.dialogs, dialog{title: ev.Title, text: ev.Text})
		case types.EventPuzzleOpened:
			m.answers.Clear()
			m.input.SetValue("")
			m.input.Placeholder = placeholder(ev.Puzzle)
			cmds = append(cmds, m.input.Focus())
		case types.EventPuzzleClosed:
			m.input.Blur()
			m.input.SetValue("")
		case types.EventRoomChanged:
			m.focus, m.objCursor, m.itemCursor = paneObjects, 0, 0
		}
	}
	m.clampCursors()
	m.refreshViewport()
	return tea.Batch(cmds...)
}

func (m *Model) showToast(text string) tea.Cmd {
	m.toast = text
	m.toastSeq++
	seq := m.toastSeq
	return tea.Tick(toastDuration, func(time.Time) tea.Msg {
		return toastExpiredMsg{seq: seq}
	})
}

func (m *Model) moveCursor(delta int) {
	if m.focus == paneObjects {
		m.objCursor += delta
	} else {
		m.itemCursor += delta
	}
	m.clampCursors()
}

func (m *Model) clampCursors() {
	if !m.sess.Ready() {
		return
	}
	room, _ := m.sess.Engine.Room()
	m.objCursor = clamp(m.objCursor, len(room.Objects))
	m.itemCursor = clamp(m.itemCursor, len(state.OwnedItems(m.sess.Engine.State, room)))
}

func clamp(i, n int) int {
	if i >= n {
		i = n - 1
	}
	if i < 0 {
		i = 0
	}
	return i
}

func (m Model) colWidth() int {
	w := m.width/2 - 1
	if w < 8 {
		w = 8
	}
	return w
}

func (m Model) listRows() int {
	if !m.sess.Ready() {
		return 1
	}
	room, _ := m.sess.Engine.Room()
	n := max(len(room.Objects), len(state.OwnedItems(m.sess.Engine.State, room)))
	return max(n, 1)
}

// refreshViewport re-wraps the clue log at the current width and resizes
// the viewport to the space left by the other panels.
func (m *Model) refreshViewport() {
	if !m.ready || !m.sess.Ready() {
		return
	}

	// title, subtitle, pane titles, rows, blank, clue title ... toast, status, help
	used := listTop + m.listRows() + 2 + 3
	if _, open := m.sess.Engine.ActivePuzzle(); open {
		used += lipgloss.Height(m.renderPuzzle())
	}
	m.viewport.Width = m.width
	m.viewport.Height = max(m.height-used, 1)

	width := max(m.width-2, 10)
	clues := m.sess.Engine.Bag().Clues
	if len(clues) == 0 {
		m.viewport.SetContent(styleFooter.Render("No clues yet. Click things to look around!"))
		return
	}
	lines := make([]string, 0, len(clues))
	for _, clue := range clues {
		text := wordwrap.String("• "+markup.Render(clue, emph), width)
		lines = append(lines, styleClue.Render(text))
	}
	m.viewport.SetContent(strings.Join(lines, "\n"))
	m.viewport.GotoBottom()
}

// View renders the room header, object and item lists, clue log, puzzle
// box, toast, status bar and key help. Dialogs replace the whole screen.
func (m Model) View() string {
	if m.quitting {
		return ""
	}
	if !m.ready {
		return "Loading..."
	}
	if len(m.dialogs) > 0 {
		return m.renderDialog(m.dialogs[0])
	}
	if m.loadErr != nil {
		return m.renderError()
	}
	if !m.sess.Ready() {
		return "Loading rooms..."
	}

	eng := m.sess.Engine
	room, _ := eng.Room()

	title := styleTitle.Render(roomDisplayName(room))
	if state.IsSolved(eng.State, room.ID) {
		title += "  " + styleSolved.Render(" solved ")
		if eng.CanAdvance() {
			title += styleFooter.Render("  press n for the next room")
		}
	}
	subtitle := room.Subtitle
	if subtitle == "" {
		subtitle = room.Goal
	}
	subtitle = lipgloss.NewStyle().MaxWidth(m.width).Render(styleSubtitle.Render(markup.Render(firstLine(subtitle), nil)))

	var b strings.Builder
	b.WriteString(title + "\n")
	b.WriteString(subtitle + "\n")
	b.WriteString(m.renderLists() + "\n\n")
	b.WriteString(stylePaneTitle.Render("Clues") + "\n")
	b.WriteString(m.viewport.View() + "\n")
	if _, open := eng.ActivePuzzle(); open {
		b.WriteString(m.renderPuzzle() + "\n")
	}
	b.WriteString(m.renderToast() + "\n")
	b.WriteString(m.renderStatusBar() + "\n")
	if _, open := eng.ActivePuzzle(); open {
		b.WriteString(m.help.View(m.puzzleKeys))
	} else {
		b.WriteString(m.help.View(m.keys))
	}
	return b.String()
}

func (m Model) renderLists() string {
	eng := m.sess.Engine
	room, _ := eng.Room()
	items := state.OwnedItems(eng.State, room)
	held := eng.Bag().ActiveItem
	w := m.colWidth()
	rows := m.listRows()

	objTitle, itemTitle := stylePaneTitle, stylePaneTitle
	if m.focus == paneObjects {
		objTitle = stylePaneTitleFocused
	} else {
		itemTitle = stylePaneTitleFocused
	}

	left := []string{lipgloss.NewStyle().Width(w).Render(objTitle.Render("Things to click"))}
	right := []string{itemTitle.Render("Your bag")}
	for i := 0; i < rows; i++ {
		var l, r string
		if i < len(room.Objects) {
			obj := room.Objects[i]
			l = m.row(label(obj.Icon, obj.Name, obj.ID), m.focus == paneObjects && i == m.objCursor, styleRow, w)
		} else {
			l = strings.Repeat(" ", w)
		}
		switch {
		case i < len(items):
			it := items[i]
			text, style := label(it.Icon, it.Name, it.ID), styleRow
			if it.ID == held {
				text, style = "✋ "+text, styleHeld
			}
			r = m.row(text, m.focus == paneItems && i == m.itemCursor, style, w)
		case i == 0:
			r = styleFooter.Render("(empty)")
		}
		left = append(left, l)
		right = append(right, r)
	}
	return lipgloss.JoinHorizontal(lipgloss.Top,
		strings.Join(left, "\n"), " ", strings.Join(right, "\n"))
}

func (m Model) row(text string, selected bool, style lipgloss.Style, w int) string {
	if selected {
		style = styleSelected
		text = "› " + text
	} else {
		text = "  " + text
	}
	return style.Width(w).MaxWidth(w).Render(text)
}

func (m Model) renderPuzzle() string {
	ap, ok := m.sess.Engine.ActivePuzzle()
	if !ok {
		return ""
	}
	width := max(m.width-4, 10)
	prompt := ap.Puzzle.Prompt
	if prompt == "" {
		prompt = "What is the answer?"
	}
	body := wordwrap.String(markup.Render(prompt, emph), width) + "\n" + m.input.View()
	return stylePuzzle.Width(max(m.width-2, 10)).Render(body)
}

func (m Model) renderToast() string {
	if m.toast == "" {
		return ""
	}
	return styleToast.Render(" " + m.toast + " ")
}

func (m Model) renderDialog(d dialog) string {
	width := min(56, max(m.width-8, 20))
	body := wordwrap.String(markup.Render(d.text, emph), width)

	footer := "enter to continue"
	if d.confirm {
		footer = "y = yes · n = no"
	}
	box := styleDialog.Render(styleDialogTitle.Render(d.title) + "\n\n" + body + "\n\n" + styleFooter.Render(footer))
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, box)
}

func (m Model) renderError() string {
	width := min(60, max(m.width-8, 20))
	body := wordwrap.String(fmt.Sprintf("The rooms could not be loaded: %v", m.loadErr), width)
	box := styleDialog.Render(
		styleError.Render("Something went wrong") + "\n\n" + body + "\n\n" +
			styleFooter.Render("q to quit · r to clear the saved game"))
	if t := m.renderToast(); t != "" {
		box += "\n" + t
	}
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, box)
}

func resetPrompt() dialog {
	return dialog{
		title:   "Start over?",
		text:    "All progress in every room will be lost.",
		confirm: true,
	}
}

func placeholder(p *types.PuzzleDef) string {
	if p != nil && p.Type == types.PuzzleSum {
		return "a number"
	}
	return "your answer"
}

func label(icon, name, id string) string {
	if name == "" {
		name = id
	}
	if icon == "" {
		return name
	}
	return icon + " " + name
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}
