// Package cli provides the plain line-oriented front end: terminal I/O,
// output formatting, and command dispatch for the escape-room engine.
package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/muesli/reflow/wordwrap"

	"github.com/nathoo/escaperoom/engine/parser"
	"github.com/nathoo/escaperoom/engine/resolve"
	"github.com/nathoo/escaperoom/engine/state"
	"github.com/nathoo/escaperoom/markup"
	"github.com/nathoo/escaperoom/session"
	"github.com/nathoo/escaperoom/types"
)

const defaultWidth = 72

// CLI handles terminal interaction with the player.
type CLI struct {
	Session   *session.Session
	In        io.Reader
	Out       io.Writer
	Width     int
	EchoInput bool   // echo each input line after the prompt (for script playback)
	lastCmd   string // for "again"/"g" repeat

	scanner *bufio.Scanner
}

// New creates a CLI wired to the given session.
func New(sess *session.Session) *CLI {
	return &CLI{
		Session: sess,
		In:      os.Stdin,
		Out:     os.Stdout,
		Width:   defaultWidth,
	}
}

// Run restores any saved game, describes the current room, then loops:
// prompt → input → dispatch → output. It returns when input ends or the
// player quits.
func (c *CLI) Run(ctx context.Context) {
	if c.Width <= 0 {
		c.Width = defaultWidth
	}
	if !c.Session.Ready() {
		c.printSystem("No rooms are loaded.")
		return
	}

	found, err := c.Session.Restore(ctx)
	switch {
	case err != nil:
		c.printSystem("Could not load the saved game. Starting fresh.")
	case found:
		c.printSystem("Welcome back! Your progress was restored.")
	}

	c.cmdLook()
	if !found {
		c.printLine("")
		c.printLine("Type \"help\" to see what you can do.")
	}

	c.scanner = bufio.NewScanner(c.In)
	for {
		c.print(c.prompt())
		if !c.scanner.Scan() {
			break
		}
		input := strings.TrimSpace(c.scanner.Text())
		if input == "" {
			continue
		}
		// Skip comment lines (for script files).
		if strings.HasPrefix(input, "#") {
			continue
		}
		if c.EchoInput {
			c.printLine(input)
		}

		_, puzzleOpen := c.Session.Engine.ActivePuzzle()
		lower := strings.ToLower(input)
		if !puzzleOpen && (lower == "again" || lower == "g") {
			if c.lastCmd == "" {
				c.printLine("Nothing to repeat.")
				continue
			}
			input = c.lastCmd
		} else {
			c.lastCmd = input
		}

		if c.dispatch(ctx, input) {
			return
		}
	}
}

func (c *CLI) prompt() string {
	if _, open := c.Session.Engine.ActivePuzzle(); open {
		return "answer> "
	}
	return "> "
}

// dispatch runs one line. Returns true if the game should exit.
func (c *CLI) dispatch(ctx context.Context, input string) bool {
	eng := c.Session.Engine
	if _, open := eng.ActivePuzzle(); open && !strings.HasPrefix(input, "/") {
		if answer, ok := puzzleAnswer(input); ok {
			c.cmdAnswer(answer)
			return false
		}
	}
	cmd := parser.Parse(strings.TrimPrefix(input, "/"))

	switch cmd.Verb {
	case parser.VerbQuit:
		c.printSystem("Goodbye.")
		return true
	case parser.VerbHelp:
		c.cmdHelp()
	case parser.VerbLook:
		c.cmdLook()
	case parser.VerbUse:
		c.cmdUse(cmd)
	case parser.VerbHold:
		c.cmdHold(cmd.Object)
	case parser.VerbDrop:
		c.cmdDrop()
	case parser.VerbAnswer:
		c.cmdAnswer(cmd.Object)
	case parser.VerbClose:
		if _, open := eng.ActivePuzzle(); !open {
			c.printLine("There is no puzzle open.")
			break
		}
		c.printResult(eng.ClosePuzzle())
		c.printLine("You step back from the puzzle.")
	case parser.VerbInventory:
		c.cmdInventory()
	case parser.VerbClues:
		c.cmdClues()
	case parser.VerbHint:
		c.cmdHint(cmd.Object)
	case parser.VerbSave:
		c.printResult(c.Session.Save(ctx))
	case parser.VerbReset:
		c.printResult(c.Session.Reset(ctx, c.confirm))
	case parser.VerbNext:
		c.printResult(eng.Advance())
	default:
		c.printLine(fmt.Sprintf("I don't understand %q. Type \"help\" for commands.", input))
	}
	return false
}

func (c *CLI) cmdUse(cmd parser.Command) {
	eng := c.Session.Engine
	room, _ := eng.Room()

	if cmd.Object == "" {
		c.printLine("Use what?")
		return
	}

	// "use key on box" holds the key, then activates the box.
	target := cmd.Object
	if cmd.Target != "" {
		itemID, err := resolve.Item(eng.State, room, cmd.Object)
		if err != nil {
			c.printError(err)
			return
		}
		if eng.Bag().ActiveItem != itemID {
			c.printResult(eng.Hold(itemID))
		}
		target = cmd.Target
	}

	objectID, err := resolve.Object(room, target)
	if err != nil {
		c.printError(err)
		return
	}
	result := eng.Activate(objectID)
	if len(result.Events) == 1 && result.Events[0].Kind == types.EventStateChanged {
		c.printLine("Nothing else happens.")
		return
	}
	c.printResult(result)
}

func (c *CLI) cmdHold(name string) {
	eng := c.Session.Engine
	room, _ := eng.Room()

	if name == "" {
		c.printLine("Hold what?")
		return
	}
	itemID, err := resolve.Item(eng.State, room, name)
	if err != nil {
		c.printError(err)
		return
	}
	c.printResult(eng.Hold(itemID))
	if eng.Bag().ActiveItem == "" {
		c.printLine("Your hands are empty.")
	}
}

func (c *CLI) cmdDrop() {
	eng := c.Session.Engine
	room, _ := eng.Room()

	held := eng.Bag().ActiveItem
	if held == "" {
		c.printLine("You aren't holding anything.")
		return
	}
	c.printResult(eng.Drop())
	c.printLine(fmt.Sprintf("You put the %s away.", state.ItemName(room, held, held)))
}

func (c *CLI) cmdAnswer(answer string) {
	eng := c.Session.Engine
	if _, open := eng.ActivePuzzle(); !open {
		c.printLine("There is no puzzle open.")
		return
	}
	if strings.TrimSpace(answer) == "" {
		c.printLine("Answer what?")
		return
	}
	c.printResult(eng.Submit(answer))
}

func (c *CLI) cmdLook() {
	eng := c.Session.Engine
	room, ok := eng.Room()
	if !ok {
		return
	}

	title := room.Name
	if title == "" {
		title = room.ID
	}
	c.printLine("")
	c.printLine(fmt.Sprintf("== %s (room %d of %d) ==", title, eng.State.RoomIndex+1, len(eng.Defs.Rooms)))
	if room.Subtitle != "" {
		c.printWrapped(markup.ToText(room.Subtitle))
	}
	if room.Desc != "" {
		c.printWrapped(markup.ToText(room.Desc))
	}
	if room.Goal != "" {
		c.printWrapped("Goal: " + markup.ToText(room.Goal))
	}

	c.printLine("")
	c.printLine("You can look at:")
	for i, obj := range room.Objects {
		c.printLine(fmt.Sprintf("  %d. %s", i+1, label(obj.Icon, obj.Name, obj.ID)))
	}

	if held := eng.Bag().ActiveItem; held != "" {
		c.printLine("")
		c.printLine("Holding: " + state.ItemName(room, held, held))
	}
	if state.IsSolved(eng.State, room.ID) {
		c.printLine("")
		c.printLine("This room is solved! Type \"next\" to go on.")
	}
	if ap, open := eng.ActivePuzzle(); open {
		c.printPuzzle(ap.Puzzle)
	}
}

func (c *CLI) cmdInventory() {
	eng := c.Session.Engine
	room, _ := eng.Room()

	items := state.OwnedItems(eng.State, room)
	if len(items) == 0 {
		c.printLine("Your bag is empty.")
		return
	}
	held := eng.Bag().ActiveItem
	c.printLine("In your bag:")
	for i, it := range items {
		mark := ""
		if it.ID == held {
			mark = "  (holding)"
		}
		c.printLine(fmt.Sprintf("  %d. %s%s", i+1, label(it.Icon, it.Name, it.ID), mark))
	}
}

func (c *CLI) cmdClues() {
	clues := c.Session.Engine.Bag().Clues
	if len(clues) == 0 {
		c.printLine("No clues yet. Look around!")
		return
	}
	c.printLine("Clues:")
	for _, clue := range clues {
		c.printWrapped("  - " + markup.ToText(clue))
	}
}

func (c *CLI) cmdHint(name string) {
	eng := c.Session.Engine
	room, _ := eng.Room()

	if name == "" {
		c.printLine("Hint for what?")
		return
	}
	objectID, err := resolve.Object(room, name)
	if err != nil {
		c.printError(err)
		return
	}
	obj, _ := state.ObjectDef(room, objectID)
	if obj.Hint == "" {
		c.printLine("No hint for that one.")
		return
	}
	c.printWrapped(markup.ToText(obj.Hint))
}

func (c *CLI) cmdHelp() {
	help := []string{
		"Commands:",
		"  look (l)               - Show the room again",
		"  use <thing> (or a #)    - Look at or click something",
		"  use <item> on <thing>  - Try an item from your bag",
		"  hold <item>            - Pick an item to hold (again to let go)",
		"  drop                   - Stop holding the item",
		"  answer <text>          - Answer the open puzzle",
		"  close                  - Step back from the puzzle",
		"                           (while a puzzle is open, just type your answer;",
		"                            start with / to use any other command)",
		"  inventory (i)          - Check your bag",
		"  clues                  - Read your clues",
		"  hint <thing>           - Get a hint",
		"  next                   - Go to the next room",
		"  save                   - Save your progress",
		"  reset                  - Start over from the beginning",
		"  again (g)              - Repeat your last command",
		"  quit (q)               - Stop playing",
	}
	for _, line := range help {
		c.printLine(line)
	}
}

// confirm asks before a reset. Anything but yes is a no.
func (c *CLI) confirm() bool {
	c.print("Really start over? All progress will be lost. (y/n) ")
	if c.scanner == nil || !c.scanner.Scan() {
		c.printLine("")
		return false
	}
	answer := strings.ToLower(strings.TrimSpace(c.scanner.Text()))
	if c.EchoInput {
		c.printLine(answer)
	}
	return answer == "y" || answer == "yes"
}

func (c *CLI) printResult(result types.Result) {
	for _, ev := range result.Events {
		switch ev.Kind {
		case types.EventToast:
			c.printSystem(ev.Text)
		case types.EventDialog:
			c.printLine("")
			c.printLine("** " + ev.Title + " **")
			c.printWrapped(markup.ToText(ev.Text))
		case types.EventPuzzleOpened:
			if ev.Puzzle != nil {
				c.printPuzzle(*ev.Puzzle)
			}
		case types.EventRoomChanged:
			c.cmdLook()
		}
	}
}

func (c *CLI) printPuzzle(p types.PuzzleDef) {
	c.printLine("")
	c.printLine("-- Puzzle --")
	if p.Prompt != "" {
		c.printWrapped(markup.ToText(p.Prompt))
	}
	c.printLine("(Type your answer, or \"close\" to step back.)")
}

func (c *CLI) printError(err error) {
	var amb *resolve.AmbiguityError
	if errors.As(err, &amb) {
		c.printLine(fmt.Sprintf("Which one do you mean: %s?", strings.Join(amb.Candidates, ", ")))
		return
	}
	msg := err.Error()
	if msg == "" {
		c.printLine("Something went wrong.")
		return
	}
	c.printLine(strings.ToUpper(msg[:1]) + msg[1:] + ".")
}

func (c *CLI) printWrapped(text string) {
	c.printLine(wordwrap.String(text, c.Width))
}

func (c *CLI) printLine(text string) {
	fmt.Fprintln(c.Out, text)
}

func (c *CLI) print(text string) {
	fmt.Fprint(c.Out, text)
}

func (c *CLI) printSystem(text string) {
	fmt.Fprintf(c.Out, "[%s]\n", text)
}

// puzzleCommands are the words that stay commands while a puzzle is open.
var puzzleCommands = map[string]bool{
	"close": true, "cancel": true, "help": true, "save": true, "quit": true, "exit": true,
}

// puzzleAnswer reads a line typed while a puzzle is open. Every line is an
// answer except a bare puzzle command; "answer <text>" answers <text>.
func puzzleAnswer(input string) (string, bool) {
	fields := strings.Fields(strings.ToLower(input))
	if len(fields) == 1 && puzzleCommands[fields[0]] {
		return "", false
	}
	if cmd := parser.Parse(input); cmd.Verb == parser.VerbAnswer && cmd.Object != "" {
		return cmd.Object, true
	}
	return input, true
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
