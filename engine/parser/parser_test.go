package parser

import "testing"

func TestParse(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  Command
	}{
		// Empty / whitespace
		{
			name:  "empty string",
			input: "",
			want:  Command{},
		},
		{
			name:  "whitespace only",
			input: "   ",
			want:  Command{},
		},

		// Bare verbs
		{
			name:  "look",
			input: "look",
			want:  Command{Verb: VerbLook},
		},
		{
			name:  "l → look",
			input: "l",
			want:  Command{Verb: VerbLook},
		},
		{
			name:  "i → inventory",
			input: "i",
			want:  Command{Verb: VerbInventory},
		},
		{
			name:  "notes → clues",
			input: "notes",
			want:  Command{Verb: VerbClues},
		},
		{
			name:  "? → help",
			input: "?",
			want:  Command{Verb: VerbHelp},
		},
		{
			name:  "exit → quit",
			input: "exit",
			want:  Command{Verb: VerbQuit},
		},
		{
			name:  "restart → reset",
			input: "restart",
			want:  Command{Verb: VerbReset},
		},
		{
			name:  "next room → next",
			input: "next room",
			want:  Command{Verb: VerbNext},
		},
		{
			name:  "close puzzle → close",
			input: "close puzzle",
			want:  Command{Verb: VerbClose},
		},

		// Activate an object
		{
			name:  "click drawer → use drawer",
			input: "click drawer",
			want:  Command{Verb: VerbUse, Object: "drawer"},
		},
		{
			name:  "open the drawer → use drawer",
			input: "open the drawer",
			want:  Command{Verb: VerbUse, Object: "drawer"},
		},
		{
			name:  "look at code lock → use code lock",
			input: "look at code lock",
			want:  Command{Verb: VerbUse, Object: "code lock"},
		},
		{
			name:  "bare number → use object number",
			input: "2",
			want:  Command{Verb: VerbUse, Object: "2"},
		},
		{
			name:  "case insensitive",
			input: "CLICK Drawer",
			want:  Command{Verb: VerbUse, Object: "drawer"},
		},

		// Use X on Y
		{
			name:  "use key on box",
			input: "use key on box",
			want:  Command{Verb: VerbUse, Object: "key", Target: "box"},
		},
		{
			name:  "use the little key with the box",
			input: "use the little key with the box",
			want:  Command{Verb: VerbUse, Object: "little key", Target: "box"},
		},

		// Items
		{
			name:  "hold key",
			input: "hold key",
			want:  Command{Verb: VerbHold, Object: "key"},
		},
		{
			name:  "pick up the key → hold key",
			input: "pick up the key",
			want:  Command{Verb: VerbHold, Object: "key"},
		},
		{
			name:  "put down → drop",
			input: "put down",
			want:  Command{Verb: VerbDrop},
		},
		{
			name:  "let go of key → drop",
			input: "let go",
			want:  Command{Verb: VerbDrop},
		},

		// Answers keep their raw text
		{
			name:  "answer preserves case and spacing",
			input: "answer  Ab 12 ",
			want:  Command{Verb: VerbAnswer, Object: "Ab 12"},
		},
		{
			name:  "say → answer",
			input: "say The Moon",
			want:  Command{Verb: VerbAnswer, Object: "The Moon"},
		},
		{
			name:  "answer without text",
			input: "answer",
			want:  Command{Verb: VerbAnswer},
		},

		// Unknown verbs pass through
		{
			name:  "unknown verb",
			input: "dance wildly",
			want:  Command{Verb: "dance", Object: "wildly"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Parse(tt.input)
			if got != tt.want {
				t.Errorf("Parse(%q) = %+v, want %+v", tt.input, got, tt.want)
			}
		})
	}
}
