package content

import (
	lua "github.com/yuin/gopher-lua"
)

// registerAPI registers the pack constructors as Lua globals. Constructors
// taking an identifier are curried: Pool("move", 1) returns a function that
// takes the table of lines, so packs read as declarations.
func registerAPI(L *lua.LState, coll *collector) {
	// Game { title = "...", terminal = "...", start = {x=, y=}, intro = ... }
	L.SetGlobal("Game", L.NewFunction(func(L *lua.LState) int {
		coll.game = L.CheckTable(1)
		return 0
	}))

	// Starter { {name=..., icon=..., description=...}, ... }
	L.SetGlobal("Starter", L.NewFunction(func(L *lua.LState) int {
		coll.starter = L.CheckTable(1)
		return 0
	}))

	// Locations(act) { "Name", ... }
	L.SetGlobal("Locations", L.NewFunction(func(L *lua.LState) int {
		act := L.CheckInt(1)
		L.Push(L.NewFunction(func(L *lua.LState) int {
			coll.locations[act] = L.CheckTable(1)
			return 0
		}))
		return 1
	}))

	// Pool("name") { lines } or Pool("name", act) { lines }
	L.SetGlobal("Pool", L.NewFunction(func(L *lua.LState) int {
		name := L.CheckString(1)
		act := 0
		if L.GetTop() >= 2 {
			act = L.CheckInt(2)
		}
		L.Push(L.NewFunction(func(L *lua.LState) int {
			coll.pools = append(coll.pools, rawPool{name: name, act: act, table: L.CheckTable(1)})
			return 0
		}))
		return 1
	}))

	// Ambush(act) { lines }
	L.SetGlobal("Ambush", L.NewFunction(func(L *lua.LState) int {
		act := L.CheckInt(1)
		L.Push(L.NewFunction(func(L *lua.LState) int {
			coll.ambush[act] = L.CheckTable(1)
			return 0
		}))
		return 1
	}))

	// Items(act) { {name=..., icon=..., description=...}, ... }
	L.SetGlobal("Items", L.NewFunction(func(L *lua.LState) int {
		act := L.CheckInt(1)
		L.Push(L.NewFunction(func(L *lua.LState) int {
			coll.items[act] = L.CheckTable(1)
			return 0
		}))
		return 1
	}))

	// QuestItem("id") { name=..., icon=..., description=..., act=N }
	L.SetGlobal("QuestItem", L.NewFunction(func(L *lua.LState) int {
		id := L.CheckString(1)
		L.Push(L.NewFunction(func(L *lua.LState) int {
			coll.questItems = append(coll.questItems, rawQuest{id: id, table: L.CheckTable(1)})
			return 0
		}))
		return 1
	}))

	// Lore("id") { title=..., content=..., act=N, tile="x,y" }
	L.SetGlobal("Lore", L.NewFunction(func(L *lua.LState) int {
		id := L.CheckString(1)
		L.Push(L.NewFunction(func(L *lua.LState) int {
			coll.lore = append(coll.lore, rawLore{id: id, table: L.CheckTable(1)})
			return 0
		}))
		return 1
	}))
}
