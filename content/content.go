// Package content loads game content packs (narrative pools, item pools,
// quest items, lore entries, and campaign metadata) from sandboxed Lua
// files. The Lua VM is discarded after loading; the compiled Pack is
// immutable at runtime.
package content

import (
	"fmt"

	"github.com/nathoo/edencore/types"
	"github.com/nathoo/edencore/world"
)

// Pool names that are act-independent (stored under act 0).
const (
	PoolHackSuccess    = "hack_success"
	PoolHackFail       = "hack_fail"
	PoolMagic          = "magic"
	PoolSearchEmpty    = "search_empty"
	PoolUnknown        = "unknown"
	PoolLogoutReject   = "logout_reject"
	PoolLogoutVictory  = "logout_victory"
	PoolDeath          = "death"
	PoolHunter         = "hunter"
	PoolItemFound      = "item_found" // lines carry a %s for the item name
	PoolTrapFound      = "trap_found"
	PoolGateFirewall   = "gate_firewall"
	PoolGateSource     = "gate_source"
	PoolGateSkip       = "gate_skip"
	PoolEnergyDepleted = "energy_depleted"
	PoolRestCooldown   = "rest_cooldown"
)

// Per-act pool names (acts 1–3).
const (
	PoolMove   = "move"
	PoolAttack = "attack"
	PoolRest   = "rest"
	PoolSearch = "search"
)

// Quest item identifiers. Exactly these two must exist in a valid pack.
const (
	QuestFirewallKey  = "firewall_key"
	QuestAdminKeycard = "admin_keycard"
)

type poolKey struct {
	name string
	act  int
}

// QuestItem is a unique, act-bound key item.
type QuestItem struct {
	ID   string
	Act  int
	Item types.Item // template: no ID until granted
}

// Pack is a compiled, immutable content pack.
type Pack struct {
	Title        string
	Version      string
	Author       string
	TerminalName string
	StartX       int
	StartY       int
	StartName    string
	Intro        string
	IntroMood    types.Mood

	StarterItems []types.Item           // templates, ids assigned by the store
	Locations    map[int][]string       // act → location name pool
	ItemPools    map[int][]types.Item   // act → droppable item templates
	QuestItems   map[string]QuestItem   // id → quest item
	Lore         []types.LoreEntry

	pools      map[poolKey][]string
	ambush     map[int][]string
	loreByTile map[string]types.LoreEntry
}

// Pool returns the narrative pool for a name and act. Act-independent pools
// are stored under act 0; a missing per-act pool falls back to act 0.
func (p *Pack) Pool(name string, act int) []string {
	if lines, ok := p.pools[poolKey{name, act}]; ok {
		return lines
	}
	return p.pools[poolKey{name, 0}]
}

// AmbushPool returns the ambush/interrupt lines for an act. Act 1 has none.
func (p *Pack) AmbushPool(act int) []string {
	return p.ambush[act]
}

// LocationName returns the stable display name for a coordinate. The
// terminal tile always maps to the pack's terminal name, and an authored
// start name overrides the hash on the start tile.
func (p *Pack) LocationName(x, y int) string {
	if world.IsTerminal(x, y) {
		return p.TerminalName
	}
	if x == p.StartX && y == p.StartY && p.StartName != "" {
		return p.StartName
	}
	pool := p.Locations[world.Act(x, y)]
	if len(pool) == 0 {
		return fmt.Sprintf("Sector %s", world.TileKey(x, y))
	}
	return pool[world.NameIndex(x, y, len(pool))]
}

// StartLocation returns the campaign's starting location.
func (p *Pack) StartLocation() types.Location {
	return types.Location{X: p.StartX, Y: p.StartY, Name: p.LocationName(p.StartX, p.StartY)}
}

// LoreForTile returns the lore entry hidden on a tile, if any.
func (p *Pack) LoreForTile(key string) (types.LoreEntry, bool) {
	e, ok := p.loreByTile[key]
	return e, ok
}

// Quest returns a quest item definition by id.
func (p *Pack) Quest(id string) (QuestItem, bool) {
	q, ok := p.QuestItems[id]
	return q, ok
}
