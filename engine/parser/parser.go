// Package parser converts typed commands into Command structs.
// Intentionally dumb: no NLP, just pattern matching.
package parser

import (
	"strings"
)

// Canonical verbs.
const (
	VerbLook      = "look"
	VerbUse       = "use"
	VerbHold      = "hold"
	VerbDrop      = "drop"
	VerbAnswer    = "answer"
	VerbClose     = "close"
	VerbInventory = "inventory"
	VerbClues     = "clues"
	VerbHint      = "hint"
	VerbSave      = "save"
	VerbReset     = "reset"
	VerbNext      = "next"
	VerbHelp      = "help"
	VerbQuit      = "quit"
)

// Command is one parsed line. For answers, Object keeps the raw text after
// the verb.
type Command struct {
	Verb   string
	Object string
	Target string
}

var verbAliases = map[string]string{
	// Look
	"l":     VerbLook,
	"room":  VerbLook,
	"where": VerbLook,

	// Activate an object
	"click":   VerbUse,
	"tap":     VerbUse,
	"open":    VerbUse,
	"inspect": VerbUse,
	"examine": VerbUse,
	"x":       VerbUse,
	"check":   VerbUse,
	"search":  VerbUse,
	"touch":   VerbUse,
	"press":   VerbUse,
	"push":    VerbUse,
	"pull":    VerbUse,
	"try":     VerbUse,

	// Select an item
	"take":   VerbHold,
	"grab":   VerbHold,
	"select": VerbHold,
	"equip":  VerbHold,
	"carry":  VerbHold,

	// Release the item
	"release": VerbDrop,
	"unhold":  VerbDrop,

	// Puzzle
	"say":    VerbAnswer,
	"type":   VerbAnswer,
	"enter":  VerbAnswer,
	"guess":  VerbAnswer,
	"solve":  VerbAnswer,
	"code":   VerbAnswer,
	"cancel": VerbClose,

	// Miscellaneous
	"i":        VerbInventory,
	"inv":      VerbInventory,
	"items":    VerbInventory,
	"bag":      VerbInventory,
	"notes":    VerbClues,
	"clue":     VerbClues,
	"restart":  VerbReset,
	"advance":  VerbNext,
	"continue": VerbNext,
	"onward":   VerbNext,
	"h":        VerbHelp,
	"?":        VerbHelp,
	"q":        VerbQuit,
	"exit":     VerbQuit,
	"bye":      VerbQuit,
}

var prepositions = map[string]bool{
	"on": true, "at": true, "to": true,
	"with": true, "in": true, "into": true,
}

var articles = map[string]bool{
	"the": true, "a": true, "an": true,
}

// Parse converts a raw command string into a Command. A bare number is
// shorthand for activating the object with that number.
func Parse(input string) Command {
	input = strings.TrimSpace(input)
	if input == "" {
		return Command{}
	}

	fields := strings.Fields(input)
	words := strings.Fields(strings.ToLower(input))

	if len(words) == 1 && isNumber(words[0]) {
		return Command{Verb: VerbUse, Object: words[0]}
	}

	words = expandMultiWordVerbs(words)
	if alias, ok := verbAliases[words[0]]; ok {
		words[0] = alias
	}

	verb := words[0]
	if verb == VerbAnswer {
		return Command{Verb: verb, Object: rawRemainder(input, fields)}
	}

	rest := stripArticles(words[1:])
	object, target := splitOnPreposition(rest)

	return Command{
		Verb:   verb,
		Object: object,
		Target: target,
	}
}

// expandMultiWordVerbs handles "look at", "pick up", "put down" etc.
func expandMultiWordVerbs(words []string) []string {
	if len(words) < 2 {
		return words
	}

	switch words[0] {
	case "look":
		if words[1] == "at" || words[1] == "in" || words[1] == "under" {
			return append([]string{VerbUse}, words[2:]...)
		}
	case "pick":
		if words[1] == "up" {
			return append([]string{VerbHold}, words[2:]...)
		}
	case "put":
		if words[1] == "down" || words[1] == "away" {
			return append([]string{VerbDrop}, words[2:]...)
		}
	case "let":
		if words[1] == "go" {
			return append([]string{VerbDrop}, words[2:]...)
		}
	case "next":
		if words[1] == "room" {
			return []string{VerbNext}
		}
	case "close", "leave":
		if words[1] == "puzzle" {
			return []string{VerbClose}
		}
	}

	return words
}

// rawRemainder returns the input after its first word, with inner spacing
// preserved.
func rawRemainder(input string, fields []string) string {
	if len(fields) < 2 {
		return ""
	}
	return strings.TrimSpace(input[len(fields[0]):])
}

// stripArticles removes articles ("the", "a", "an") from the word list.
func stripArticles(words []string) []string {
	result := make([]string, 0, len(words))
	for _, w := range words {
		if !articles[w] {
			result = append(result, w)
		}
	}
	return result
}

// splitOnPreposition splits words on the first preposition.
// Words before the preposition become the object, words after become the target.
// If no preposition is found, all words become the object.
func splitOnPreposition(words []string) (object, target string) {
	for i, w := range words {
		if prepositions[w] {
			object = strings.Join(words[:i], " ")
			target = strings.Join(words[i+1:], " ")
			return object, target
		}
	}
	return strings.Join(words, " "), ""
}

func isNumber(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
