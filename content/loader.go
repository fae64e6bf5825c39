package content

import (
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	lua "github.com/yuin/gopher-lua"
)

//go:embed packs/eden.lua
var edenPack string

// collector accumulates Lua declarations during file execution.
type collector struct {
	game       *lua.LTable
	starter    *lua.LTable
	locations  map[int]*lua.LTable
	pools      []rawPool
	ambush     map[int]*lua.LTable
	items      map[int]*lua.LTable
	questItems []rawQuest
	lore       []rawLore
}

type rawPool struct {
	name  string
	act   int
	table *lua.LTable
}

type rawQuest struct {
	id    string
	table *lua.LTable
}

type rawLore struct {
	id    string
	table *lua.LTable
}

func newCollector() *collector {
	return &collector{
		locations: map[int]*lua.LTable{},
		ambush:    map[int]*lua.LTable{},
		items:     map[int]*lua.LTable{},
	}
}

// Load reads all .lua files from dir, compiles them into a content pack,
// and validates completeness. The Lua VM is discarded after loading.
func Load(dir string) (*Pack, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading content directory %s: %w", dir, err)
	}

	var luaFiles []string
	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(e.Name(), ".lua") {
			luaFiles = append(luaFiles, e.Name())
		}
	}
	if len(luaFiles) == 0 {
		return nil, fmt.Errorf("no .lua files found in %s", dir)
	}
	sort.Strings(luaFiles)

	coll := newCollector()
	L := newVM(coll)
	defer L.Close()

	for _, f := range luaFiles {
		if err := L.DoFile(filepath.Join(dir, f)); err != nil {
			return nil, fmt.Errorf("executing %s: %w", f, err)
		}
	}

	return finish(coll)
}

// LoadDefault compiles the embedded Eden v9.0 campaign pack.
func LoadDefault() (*Pack, error) {
	coll := newCollector()
	L := newVM(coll)
	defer L.Close()

	if err := L.DoString(edenPack); err != nil {
		return nil, fmt.Errorf("executing embedded pack: %w", err)
	}
	return finish(coll)
}

func finish(coll *collector) (*Pack, error) {
	pack, err := compile(coll)
	if err != nil {
		return nil, fmt.Errorf("compiling content: %w", err)
	}
	if err := validate(pack); err != nil {
		return nil, err
	}
	return pack, nil
}

// newVM creates a sandboxed Lua state with the pack API registered.
func newVM(coll *collector) *lua.LState {
	L := lua.NewState(lua.Options{SkipOpenLibs: true})

	// Open safe libs only.
	lua.OpenBase(L)
	lua.OpenTable(L)
	lua.OpenString(L)
	lua.OpenMath(L)

	// Sandbox: remove dangerous globals.
	for _, name := range []string{
		"dofile", "loadfile", "load", "loadstring",
		"rawset", "rawget", "rawequal",
		"collectgarbage",
	} {
		L.SetGlobal(name, lua.LNil)
	}
	// Remove math.randomseed to preserve determinism.
	if mathTbl, ok := L.GetGlobal("math").(*lua.LTable); ok {
		mathTbl.RawSetString("randomseed", lua.LNil)
	}

	registerAPI(L, coll)
	return L
}
