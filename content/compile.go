package content

import (
	"fmt"

	"github.com/nathoo/edencore/types"
	lua "github.com/yuin/gopher-lua"
)

// compile converts collected Lua tables into an immutable Pack.
func compile(coll *collector) (*Pack, error) {
	if coll.game == nil {
		return nil, fmt.Errorf("no Game{} declaration found")
	}

	pack := &Pack{
		Title:        getString(coll.game, "title"),
		Version:      getString(coll.game, "version"),
		Author:       getString(coll.game, "author"),
		TerminalName: getString(coll.game, "terminal"),
		Intro:        getString(coll.game, "intro"),
		IntroMood:    types.Mood(getString(coll.game, "intro_mood")),
		Locations:    map[int][]string{},
		ItemPools:    map[int][]types.Item{},
		QuestItems:   map[string]QuestItem{},
		pools:        map[poolKey][]string{},
		ambush:       map[int][]string{},
		loreByTile:   map[string]types.LoreEntry{},
	}
	if pack.IntroMood == "" {
		pack.IntroMood = types.MoodNeutral
	}

	if start := getTable(coll.game, "start"); start != nil {
		pack.StartX = getInt(start, "x")
		pack.StartY = getInt(start, "y")
		pack.StartName = getString(start, "name")
	}

	if coll.starter != nil {
		items, err := tableToItems(coll.starter)
		if err != nil {
			return nil, fmt.Errorf("starter items: %w", err)
		}
		pack.StarterItems = items
	}

	for act, tbl := range coll.locations {
		pack.Locations[act] = tableToStrings(tbl)
	}

	for _, rp := range coll.pools {
		lines := tableToStrings(rp.table)
		if len(lines) == 0 {
			return nil, fmt.Errorf("pool %q act %d is empty", rp.name, rp.act)
		}
		key := poolKey{rp.name, rp.act}
		pack.pools[key] = append(pack.pools[key], lines...)
	}

	for act, tbl := range coll.ambush {
		pack.ambush[act] = tableToStrings(tbl)
	}

	for act, tbl := range coll.items {
		items, err := tableToItems(tbl)
		if err != nil {
			return nil, fmt.Errorf("item pool act %d: %w", act, err)
		}
		pack.ItemPools[act] = items
	}

	for _, rq := range coll.questItems {
		if _, dup := pack.QuestItems[rq.id]; dup {
			return nil, fmt.Errorf("duplicate quest item %q", rq.id)
		}
		pack.QuestItems[rq.id] = QuestItem{
			ID:  rq.id,
			Act: getInt(rq.table, "act"),
			Item: types.Item{
				Name:        getString(rq.table, "name"),
				Icon:        getString(rq.table, "icon"),
				Description: getString(rq.table, "description"),
			},
		}
	}

	seenLore := map[string]bool{}
	for _, rl := range coll.lore {
		if seenLore[rl.id] {
			return nil, fmt.Errorf("duplicate lore entry %q", rl.id)
		}
		seenLore[rl.id] = true
		entry := types.LoreEntry{
			ID:      rl.id,
			Title:   getString(rl.table, "title"),
			Content: getString(rl.table, "content"),
			Act:     getInt(rl.table, "act"),
			TileKey: getString(rl.table, "tile"),
		}
		pack.Lore = append(pack.Lore, entry)
		if entry.TileKey != "" {
			pack.loreByTile[entry.TileKey] = entry
		}
	}

	return pack, nil
}

// tableToStrings converts a Lua array table to a string slice, skipping
// non-string entries.
func tableToStrings(tbl *lua.LTable) []string {
	var out []string
	tbl.ForEach(func(_, v lua.LValue) {
		if s, ok := v.(lua.LString); ok {
			out = append(out, string(s))
		}
	})
	return out
}

// tableToItems converts a Lua array of item tables to item templates.
func tableToItems(tbl *lua.LTable) ([]types.Item, error) {
	var out []types.Item
	var convErr error
	tbl.ForEach(func(_, v lua.LValue) {
		if convErr != nil {
			return
		}
		t, ok := v.(*lua.LTable)
		if !ok {
			convErr = fmt.Errorf("item entry is not a table")
			return
		}
		item := types.Item{
			Name:        getString(t, "name"),
			Icon:        getString(t, "icon"),
			Description: getString(t, "description"),
		}
		if item.Name == "" {
			convErr = fmt.Errorf("item entry missing a name")
			return
		}
		out = append(out, item)
	})
	return out, convErr
}

// getString returns a string field from a Lua table, or "" if missing.
func getString(tbl *lua.LTable, key string) string {
	if s, ok := tbl.RawGetString(key).(lua.LString); ok {
		return string(s)
	}
	return ""
}

// getInt returns an int field from a Lua table, or 0 if missing.
func getInt(tbl *lua.LTable, key string) int {
	if n, ok := tbl.RawGetString(key).(lua.LNumber); ok {
		return int(n)
	}
	return 0
}

// getTable returns a table field from a Lua table, or nil if missing.
func getTable(tbl *lua.LTable, key string) *lua.LTable {
	if t, ok := tbl.RawGetString(key).(*lua.LTable); ok {
		return t
	}
	return nil
}
