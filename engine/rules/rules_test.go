package rules

import (
	"strings"
	"testing"

	"github.com/nathoo/escaperoom/types"
)

func drawerInteractions() []types.Interaction {
	return []types.Interaction{
		{
			When:    types.UseItem{ItemID: "key"},
			Actions: []types.Action{types.CompleteRoom{}},
		},
		{
			When:    types.Inspect{},
			Actions: []types.Action{types.AddClueOnce{Key: "k1", Text: "A key glints inside"}},
		},
		{
			When:    types.Inspect{},
			Actions: []types.Action{types.ShowMessage{Title: "never", HTML: "shadowed"}},
		},
	}
}

func TestSelect_FirstMatchWins(t *testing.T) {
	in, ok := Select(drawerInteractions(), "", nil)
	if !ok {
		t.Fatal("expected a match")
	}
	if _, isClue := in.Actions[0].(types.AddClueOnce); !isClue {
		t.Errorf("selected %T, want the first inspect interaction", in.Actions[0])
	}
}

func TestSelect_UseItem(t *testing.T) {
	in, ok := Select(drawerInteractions(), "key", nil)
	if !ok {
		t.Fatal("expected a match")
	}
	if _, isComplete := in.Actions[0].(types.CompleteRoom); !isComplete {
		t.Errorf("selected %T, want CompleteRoom", in.Actions[0])
	}
}

func TestSelect_NoMatch(t *testing.T) {
	if _, ok := Select(drawerInteractions(), "spoon", nil); ok {
		t.Error("holding an unused item should not match")
	}
	if _, ok := Select(nil, "", nil); ok {
		t.Error("object without interactions should not match")
	}
}

func TestFallback(t *testing.T) {
	tests := []struct {
		name     string
		held     string
		holding  bool
		wantText string
	}{
		{name: "nothing held", wantText: "nothing new"},
		{name: "named item", held: "Spoon", holding: true, wantText: "The Spoon doesn't work here."},
		{name: "unresolvable item", holding: true, wantText: "That item doesn't work here."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ev := Fallback(tt.held, tt.holding)
			if ev.Kind != types.EventDialog {
				t.Errorf("Kind = %v, want dialog", ev.Kind)
			}
			if !strings.Contains(ev.Text, tt.wantText) {
				t.Errorf("Text = %q, want it to contain %q", ev.Text, tt.wantText)
			}
		})
	}
}
