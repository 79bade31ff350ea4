package loader

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	lua "github.com/yuin/gopher-lua"
)

// collector accumulates Room tables during file execution.
type collector struct {
	rooms []rawLuaRoom
}

type rawLuaRoom struct {
	id    string
	table *lua.LTable
}

// loadLua runs every .lua file under path (a directory or a single file) in
// a sandboxed VM and returns the rooms in registration order.
func loadLua(path string) (*rawDoc, error) {
	files, err := luaFiles(path)
	if err != nil {
		return nil, err
	}

	L := lua.NewState(lua.Options{SkipOpenLibs: true})
	defer L.Close()
	openSafeLibs(L)
	sandbox(L)

	coll := &collector{}
	registerAPI(L, coll)

	for _, f := range files {
		if err := L.DoFile(f); err != nil {
			return nil, fmt.Errorf("executing %s: %w", filepath.Base(f), err)
		}
	}

	doc := &rawDoc{}
	for _, r := range coll.rooms {
		room, err := decodeLuaRoom(r)
		if err != nil {
			return nil, fmt.Errorf("room %s: %w", r.id, err)
		}
		doc.Rooms = append(doc.Rooms, room)
	}
	return doc, nil
}

func luaFiles(path string) ([]string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return []string{path}, nil
	}

	entries, err := os.ReadDir(path)
	if err != nil {
		return nil, fmt.Errorf("reading content directory %s: %w", path, err)
	}
	var names []string
	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(e.Name(), ".lua") {
			names = append(names, e.Name())
		}
	}
	if len(names) == 0 {
		return nil, fmt.Errorf("no .lua files found in %s", path)
	}

	names = sortedLuaFiles(names)
	files := make([]string, len(names))
	for i, n := range names {
		files[i] = filepath.Join(path, n)
	}
	return files, nil
}

// sortedLuaFiles returns game.lua first (if present), then the rest alphabetically.
func sortedLuaFiles(files []string) []string {
	var hasGame bool
	var rest []string
	for _, f := range files {
		if f == "game.lua" {
			hasGame = true
		} else {
			rest = append(rest, f)
		}
	}
	sort.Strings(rest)
	if hasGame {
		return append([]string{"game.lua"}, rest...)
	}
	return rest
}

// openSafeLibs opens only the safe subset of Lua standard libraries.
func openSafeLibs(L *lua.LState) {
	lua.OpenBase(L)
	lua.OpenTable(L)
	lua.OpenString(L)
	lua.OpenMath(L)
}

// sandbox removes dangerous globals and functions.
func sandbox(L *lua.LState) {
	dangerous := []string{
		"dofile", "loadfile", "load", "loadstring",
		"rawset", "rawget", "rawequal",
		"collectgarbage", "require", "module",
	}
	for _, name := range dangerous {
		L.SetGlobal(name, lua.LNil)
	}
}

// decodeLuaRoom converts a Room table into the raw record used for JSON
// content, so both formats compile through the same path.
func decodeLuaRoom(r rawLuaRoom) (rawRoom, error) {
	v, _ := toGoValue(r.table).(map[string]any)
	if v == nil {
		v = map[string]any{}
	}
	v["id"] = r.id

	data, err := json.Marshal(v)
	if err != nil {
		return rawRoom{}, err
	}
	var room rawRoom
	if err := json.Unmarshal(data, &room); err != nil {
		return rawRoom{}, err
	}
	return room, nil
}

// toGoValue converts a Lua value to a Go value recursively. Tables with a
// sequence part become slices; empty tables become nil.
func toGoValue(v lua.LValue) any {
	switch val := v.(type) {
	case lua.LBool:
		return bool(val)
	case lua.LNumber:
		f := float64(val)
		if f == float64(int(f)) {
			return int(f)
		}
		return f
	case lua.LString:
		return string(val)
	case *lua.LTable:
		if maxN := val.MaxN(); maxN > 0 {
			arr := make([]any, 0, maxN)
			for i := 1; i <= maxN; i++ {
				arr = append(arr, toGoValue(val.RawGetInt(i)))
			}
			return arr
		}
		m := map[string]any{}
		val.ForEach(func(k, v lua.LValue) {
			if ks, ok := k.(lua.LString); ok {
				m[string(ks)] = toGoValue(v)
			}
		})
		if len(m) == 0 {
			return nil
		}
		return m
	default:
		return nil
	}
}
