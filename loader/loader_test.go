package loader

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/nathoo/escaperoom/engine/state"
	"github.com/nathoo/escaperoom/types"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func load(t *testing.T, source string) *state.Defs {
	t.Helper()
	defs, err := Load(context.Background(), source, quietLogger())
	if err != nil {
		t.Fatalf("Load(%s) failed: %v", source, err)
	}
	return defs
}

func loadErr(t *testing.T, source string) *ContentLoadError {
	t.Helper()
	_, err := Load(context.Background(), source, quietLogger())
	if err == nil {
		t.Fatalf("Load(%s) should fail", source)
	}
	var cle *ContentLoadError
	if !errors.As(err, &cle) {
		t.Fatalf("expected ContentLoadError, got %T: %v", err, err)
	}
	if cle.Source != source {
		t.Errorf("Source = %q, want %q", cle.Source, source)
	}
	return cle
}

func TestLoad_JSONDocument(t *testing.T) {
	defs := load(t, "testdata/rooms.json")

	if len(defs.Rooms) != 2 {
		t.Fatalf("expected 2 rooms, got %d", len(defs.Rooms))
	}
	kitchen := defs.Rooms[0]
	if kitchen.ID != "kitchen" || kitchen.Cast != "Mia and Leo" || kitchen.Goal != "Open the code lock" {
		t.Errorf("kitchen = %+v", kitchen)
	}
	if defs.Source != "testdata/rooms.json" {
		t.Errorf("Source = %q", defs.Source)
	}

	drawer, ok := state.ObjectDef(kitchen, "drawer")
	if !ok {
		t.Fatal("drawer not found")
	}
	if drawer.Hint != "Try <b>opening</b> it." {
		t.Errorf("hint = %q, authored HTML should be kept", drawer.Hint)
	}
	if len(drawer.Interactions) != 1 {
		t.Fatalf("drawer interactions = %d", len(drawer.Interactions))
	}
	in := drawer.Interactions[0]
	if _, ok := in.When.(types.Inspect); !ok {
		t.Errorf("drawer guard = %T, want Inspect", in.When)
	}
	want := []types.Action{
		types.AddClueOnce{Key: "drawer_clue", Text: "A key glints inside"},
		types.AddItemOnce{Key: "drawer_key", ItemID: "key"},
	}
	if !reflect.DeepEqual(in.Actions, want) {
		t.Errorf("drawer actions = %#v", in.Actions)
	}

	box, _ := state.ObjectDef(kitchen, "box")
	if g, ok := box.Interactions[0].When.(types.UseItem); !ok || g.ItemID != "key" {
		t.Errorf("box guard = %#v", box.Interactions[0].When)
	}
	if _, ok := box.Interactions[1].When.(types.Inspect); !ok {
		t.Errorf("object-form inspect guard = %#v", box.Interactions[1].When)
	}

	lock, _ := state.ObjectDef(kitchen, "lock")
	op, ok := lock.Interactions[0].Actions[0].(types.OpenPuzzle)
	if !ok {
		t.Fatalf("lock action = %T", lock.Interactions[0].Actions[0])
	}
	if op.Puzzle.Answer != "AB12" || op.Puzzle.OnSuccess != types.OnSuccessCompleteRoom {
		t.Errorf("puzzle = %+v", op.Puzzle)
	}

	coin, _ := state.ItemDef(defs.Rooms[1], "coinB")
	if coin.Value == nil || *coin.Value != 4 {
		t.Errorf("coinB value = %v", coin.Value)
	}
	key, _ := state.ItemDef(kitchen, "key")
	if key.Value != nil {
		t.Errorf("key should have no value, got %v", *key.Value)
	}
}

func TestLoad_LuaMatchesJSON(t *testing.T) {
	fromJSON := load(t, "testdata/rooms.json")
	fromLua := load(t, "testdata/lua")

	fromJSON.Source, fromLua.Source = "", ""
	if !reflect.DeepEqual(fromJSON, fromLua) {
		t.Errorf("Lua and JSON content differ:\njson: %#v\nlua:  %#v", fromJSON.Rooms, fromLua.Rooms)
	}
}

func TestLoad_LuaSingleFile(t *testing.T) {
	defs := load(t, "testdata/lua/garden.lua")
	if len(defs.Rooms) != 1 || defs.Rooms[0].ID != "garden" {
		t.Errorf("rooms = %+v", defs.Rooms)
	}
}

func TestLoad_LuaSandbox(t *testing.T) {
	cle := loadErr(t, "testdata/bad_lua")
	if !strings.Contains(cle.Error(), "game.lua") {
		t.Errorf("error should name the script: %v", cle)
	}
}

func TestLoad_LegacyObjects(t *testing.T) {
	defs := load(t, "testdata/legacy.json")
	attic := defs.Rooms[0]

	shelf, _ := state.ObjectDef(attic, "shelf")
	if len(shelf.Interactions) != 1 {
		t.Fatalf("shelf interactions = %d", len(shelf.Interactions))
	}
	if _, ok := shelf.Interactions[0].When.(types.Always); !ok {
		t.Errorf("ungated legacy object should use Always, got %T", shelf.Interactions[0].When)
	}
	want := []types.Action{
		types.AddClueOnce{Key: "shelf_clue_0", Text: "Dust everywhere"},
		types.AddItemOnce{Key: "shelf_item_1", ItemID: "torch"},
	}
	if !reflect.DeepEqual(shelf.Interactions[0].Actions, want) {
		t.Errorf("shelf actions = %#v", shelf.Interactions[0].Actions)
	}

	trunk, _ := state.ObjectDef(attic, "trunk")
	if len(trunk.Interactions) != 2 {
		t.Fatalf("trunk interactions = %d", len(trunk.Interactions))
	}
	if g, ok := trunk.Interactions[0].When.(types.HasItem); !ok || g.ItemID != "torch" {
		t.Errorf("trunk gate = %#v", trunk.Interactions[0].When)
	}
	if len(trunk.Interactions[0].Actions) != 1 {
		t.Errorf("unknown action should be dropped, got %#v", trunk.Interactions[0].Actions)
	}
	locked := trunk.Interactions[1].Actions[0].(types.ShowMessage)
	if locked.Title != "Locked" || locked.HTML != "It is too dark to see inside." {
		t.Errorf("locked message = %+v", locked)
	}

	window, _ := state.ObjectDef(attic, "window")
	if window.Name != "42" {
		t.Errorf("numeric name should degrade to text, got %q", window.Name)
	}
	msg := window.Interactions[1].Actions[0].(types.ShowMessage)
	if msg.HTML != "You need an item from your inventory." {
		t.Errorf("default locked text = %q", msg.HTML)
	}

	m, _ := state.ItemDef(attic, "map")
	if m.Value != nil {
		t.Errorf("string value should not count as a number, got %v", *m.Value)
	}
}

func TestLoad_MissingOnceKey(t *testing.T) {
	cle := loadErr(t, "testdata/missing_once_key.json")

	var ve *ValidationError
	if !errors.As(cle, &ve) {
		t.Fatalf("expected ValidationError, got %v", cle.Err)
	}
	if len(ve.Errors) != 2 {
		t.Errorf("expected 2 errors, got %v", ve.Errors)
	}
	for _, e := range ve.Errors {
		if !strings.Contains(e, "onceKey") || !strings.Contains(e, `"rug"`) {
			t.Errorf("error should name the object and the missing key: %s", e)
		}
	}
}

func TestLoad_Failures(t *testing.T) {
	tests := []struct {
		name   string
		source string
	}{
		{"empty room list", "testdata/empty.json"},
		{"truncated document", "testdata/truncated.json"},
		{"missing file", "testdata/nope.json"},
		{"missing directory", "testdata/nope"},
		{"directory without scripts", "testdata"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			loadErr(t, tt.source)
		})
	}
}

func TestLoad_HTTP(t *testing.T) {
	doc, err := os.ReadFile("testdata/rooms.json")
	if err != nil {
		t.Fatal(err)
	}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/rooms.json":
			w.Header().Set("Content-Type", "application/json")
			w.Write(doc)
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	defs := load(t, srv.URL+"/rooms.json")
	if len(defs.Rooms) != 2 {
		t.Errorf("expected 2 rooms over HTTP, got %d", len(defs.Rooms))
	}

	cle := loadErr(t, srv.URL+"/missing.json")
	if !strings.Contains(cle.Error(), "404") {
		t.Errorf("error should carry the status: %v", cle)
	}
}

func TestLoad_WarningsAreNotFatal(t *testing.T) {
	dir := t.TempDir()
	path := dir + "/warn.json"
	content := `{"rooms":[{"id":"a","objects":[{"id":"o","interactions":[
		{"when":"wiggle","actions":[]},
		{"when":"useItem","itemId":"ghost","actions":[{"type":"teleport"}]}
	]}]},{"name":"Kitchen"}]}`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	defs := load(t, path)
	obj := defs.Rooms[0].Objects[0]
	if len(obj.Interactions) != 1 {
		t.Fatalf("unknown guard should drop its interaction, got %d", len(obj.Interactions))
	}
	if len(obj.Interactions[0].Actions) != 0 {
		t.Errorf("unknown action should be dropped, got %#v", obj.Interactions[0].Actions)
	}
	if len(defs.Rooms) != 2 {
		t.Fatalf("room without id should still load, got %d rooms", len(defs.Rooms))
	}
	if defs.Rooms[1].ID != "room_2" || defs.Rooms[1].Name != "Kitchen" {
		t.Errorf("room without id = %+v, want derived id room_2", defs.Rooms[1])
	}
}

func TestLoad_MalformedCollections(t *testing.T) {
	path := filepath.Join(t.TempDir(), "odd.json")
	content := `{"rooms":[
		{"id":"a","items":{"id":"key"},"objects":[
			"not an object",
			{"id":"drawer","interactions":{"when":"inspect"}},
			{"id":"box","interactions":[{"when":"inspect","actions":[
				{"type":"showMessage","title":"Box","html":"Empty."},
				{"type":"openPuzzle","puzzle":"soon"}
			]}]}
		]},
		{"id":"b","objects":"none"}
	]}`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	defs := load(t, path)
	if len(defs.Rooms) != 2 {
		t.Fatalf("expected 2 rooms, got %d", len(defs.Rooms))
	}
	a := defs.Rooms[0]
	if len(a.Items) != 0 {
		t.Errorf("items that are not a list should read as empty, got %+v", a.Items)
	}
	if len(a.Objects) != 2 {
		t.Fatalf("the bad object should be skipped, got %+v", a.Objects)
	}
	if len(a.Objects[0].Interactions) != 0 {
		t.Errorf("drawer interactions = %+v, want none", a.Objects[0].Interactions)
	}
	box := a.Objects[1]
	if len(box.Interactions) != 1 || len(box.Interactions[0].Actions) != 1 {
		t.Fatalf("box interactions = %+v", box.Interactions)
	}
	if _, ok := box.Interactions[0].Actions[0].(types.ShowMessage); !ok {
		t.Errorf("box action = %T, want ShowMessage", box.Interactions[0].Actions[0])
	}
	if len(defs.Rooms[1].Objects) != 0 {
		t.Errorf("room b objects = %+v", defs.Rooms[1].Objects)
	}
}

func TestLoad_BundledContent(t *testing.T) {
	var logs strings.Builder
	defs, err := Load(context.Background(), "../content/rooms.json", slog.New(slog.NewTextHandler(&logs, nil)))
	if err != nil {
		t.Fatalf("bundled content failed to load: %v", err)
	}
	if strings.Contains(logs.String(), "content warning") {
		t.Errorf("bundled content has warnings:\n%s", logs.String())
	}
	if len(defs.Rooms) != 3 {
		t.Fatalf("expected 3 rooms, got %d", len(defs.Rooms))
	}

	// Every room ends in a puzzle that completes it.
	for _, room := range defs.Rooms {
		found := false
		for _, obj := range room.Objects {
			for _, in := range obj.Interactions {
				for _, a := range in.Actions {
					if p, ok := a.(types.OpenPuzzle); ok && p.Puzzle.OnSuccess == types.OnSuccessCompleteRoom {
						found = true
					}
				}
			}
		}
		if !found {
			t.Errorf("room %q has no completing puzzle", room.ID)
		}
	}
}
