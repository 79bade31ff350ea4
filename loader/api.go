package loader

import (
	lua "github.com/yuin/gopher-lua"
)

// registerAPI registers all Lua constructors and helpers as globals.
func registerAPI(L *lua.LState, coll *collector) {
	registerConstructors(L, coll)
	registerGuardHelpers(L)
	registerActionHelpers(L)
}

func registerConstructors(L *lua.LState, coll *collector) {
	// Room "id" { ... } is curried: Room("id") returns a function that takes a table.
	L.SetGlobal("Room", L.NewFunction(func(L *lua.LState) int {
		id := L.CheckString(1)
		L.Push(L.NewFunction(func(L *lua.LState) int {
			tbl := L.CheckTable(1)
			coll.rooms = append(coll.rooms, rawLuaRoom{id: id, table: tbl})
			return 0
		}))
		return 1
	}))

	// Item "id" { name = ..., icon = ..., value = ... } returns the item record.
	L.SetGlobal("Item", L.NewFunction(func(L *lua.LState) int {
		id := L.CheckString(1)
		L.Push(L.NewFunction(func(L *lua.LState) int {
			tbl := L.CheckTable(1)
			out := copyFields(L, tbl)
			out.RawSetString("id", lua.LString(id))
			L.Push(out)
			return 1
		}))
		return 1
	}))

	// Object "id" { name = ..., Inspect{...}, UseItem "key" {...} }: the
	// sequence part of the table holds the interactions in order.
	L.SetGlobal("Object", L.NewFunction(func(L *lua.LState) int {
		id := L.CheckString(1)
		L.Push(L.NewFunction(func(L *lua.LState) int {
			tbl := L.CheckTable(1)
			out := copyFields(L, tbl)
			out.RawSetString("id", lua.LString(id))
			if tbl.MaxN() > 0 && out.RawGetString("interactions") == lua.LNil {
				interactions := L.NewTable()
				for i := 1; i <= tbl.MaxN(); i++ {
					interactions.Append(tbl.RawGetInt(i))
				}
				out.RawSetString("interactions", interactions)
			}
			L.Push(out)
			return 1
		}))
		return 1
	}))
}

func registerGuardHelpers(L *lua.LState) {
	// Inspect { action, ... }
	L.SetGlobal("Inspect", L.NewFunction(func(L *lua.LState) int {
		actions := L.CheckTable(1)
		tbl := L.NewTable()
		tbl.RawSetString("when", lua.LString(whenInspect))
		tbl.RawSetString("actions", actions)
		L.Push(tbl)
		return 1
	}))

	// UseItem "id" { action, ... } is curried.
	L.SetGlobal("UseItem", L.NewFunction(func(L *lua.LState) int {
		item := L.CheckString(1)
		L.Push(L.NewFunction(func(L *lua.LState) int {
			actions := L.CheckTable(1)
			tbl := L.NewTable()
			tbl.RawSetString("when", lua.LString(whenUseItem))
			tbl.RawSetString("itemId", lua.LString(item))
			tbl.RawSetString("actions", actions)
			L.Push(tbl)
			return 1
		}))
		return 1
	}))
}

func registerActionHelpers(L *lua.LState) {
	// AddClue("onceKey", "text")
	L.SetGlobal("AddClue", L.NewFunction(func(L *lua.LState) int {
		key := L.CheckString(1)
		text := L.CheckString(2)
		tbl := L.NewTable()
		tbl.RawSetString("type", lua.LString(actionAddClue))
		tbl.RawSetString("onceKey", lua.LString(key))
		tbl.RawSetString("text", lua.LString(text))
		L.Push(tbl)
		return 1
	}))

	// AddItem("onceKey", "itemId")
	L.SetGlobal("AddItem", L.NewFunction(func(L *lua.LState) int {
		key := L.CheckString(1)
		item := L.CheckString(2)
		tbl := L.NewTable()
		tbl.RawSetString("type", lua.LString(actionAddItem))
		tbl.RawSetString("onceKey", lua.LString(key))
		tbl.RawSetString("itemId", lua.LString(item))
		L.Push(tbl)
		return 1
	}))

	// ShowMessage("title", "html")
	L.SetGlobal("ShowMessage", L.NewFunction(func(L *lua.LState) int {
		title := L.CheckString(1)
		html := L.OptString(2, "")
		tbl := L.NewTable()
		tbl.RawSetString("type", lua.LString(actionShowMessage))
		tbl.RawSetString("title", lua.LString(title))
		tbl.RawSetString("html", lua.LString(html))
		L.Push(tbl)
		return 1
	}))

	// OpenPuzzle { type = ..., prompt = ..., answer = ..., onSuccess = "completeRoom" }
	L.SetGlobal("OpenPuzzle", L.NewFunction(func(L *lua.LState) int {
		puzzle := L.CheckTable(1)
		tbl := L.NewTable()
		tbl.RawSetString("type", lua.LString(actionOpenPuzzle))
		tbl.RawSetString("puzzle", puzzle)
		L.Push(tbl)
		return 1
	}))

	// CompleteRoom()
	L.SetGlobal("CompleteRoom", L.NewFunction(func(L *lua.LState) int {
		tbl := L.NewTable()
		tbl.RawSetString("type", lua.LString(actionCompleteRoom))
		L.Push(tbl)
		return 1
	}))
}

// copyFields returns a new table with the string-keyed fields of tbl.
func copyFields(L *lua.LState, tbl *lua.LTable) *lua.LTable {
	out := L.NewTable()
	tbl.ForEach(func(k, v lua.LValue) {
		if ks, ok := k.(lua.LString); ok {
			out.RawSetString(string(ks), v)
		}
	})
	return out
}
