// Package state holds the mutable session: player vitals, inventory,
// world position, story progress, and the transcript. All transitions go
// through methods so clamping and one-way rules hold everywhere.
package state

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/nathoo/edencore/content"
	"github.com/nathoo/edencore/types"
	"github.com/nathoo/edencore/world"
)

// Vital and trace bounds. Sessions start below the mana ceiling.
const (
	MaxHP       = 100
	MaxMana     = 100
	InitialMana = 80

	TraceMax = 100
	// TraceFloor is where the trace meter lands after a hunter spike, so a
	// second spike is never immediate.
	TraceFloor = 40

	keyEventCap = 10
)

var (
	ErrNoItem    = errors.New("no such item")
	ErrNotUsable = errors.New("item is not usable")
)

// ItemEffect reports what using a consumable did.
type ItemEffect struct {
	Item         types.Item
	HPDelta      int
	ManaDelta    int
	TraceDelta   int
	ArmedExploit bool
}

// Game is the full session state.
type Game struct {
	HP     int
	Mana   int
	Status types.Status

	Location    types.Location
	Visited     map[string]bool
	Inventory   []types.Item
	ActiveEnemy *types.Enemy

	Progress types.StoryProgress
	History  []types.HistoryEntry

	// LastRestTile blocks back-to-back rests on the same tile.
	LastRestTile string
	// ExploitArmed makes the next hack auto-succeed.
	ExploitArmed bool
}

// New creates a fresh session at the pack's starting location, with the
// pack's starter inventory and intro already in the transcript.
func New(pack *content.Pack) *Game {
	g := &Game{
		HP:      MaxHP,
		Mana:    InitialMana,
		Status:  types.StatusPlaying,
		Visited: map[string]bool{},
	}
	g.Location = pack.StartLocation()
	g.Visited[world.TileKey(g.Location.X, g.Location.Y)] = true
	g.Progress.CurrentAct = world.Act(g.Location.X, g.Location.Y)
	g.Progress.TilesExplored = 1

	for _, tmpl := range pack.StarterItems {
		g.AddItem(tmpl)
	}
	g.AddMessage(types.RoleNarrator, pack.Intro, pack.IntroMood)
	return g
}

// ApplyHP adjusts HP by delta, clamped to [0, MaxHP]. It reports whether
// this call killed the player; the playing→dead transition fires at most
// once.
func (g *Game) ApplyHP(delta int) (died bool) {
	g.HP = world.Clamp(g.HP+delta, 0, MaxHP)
	if g.HP == 0 && g.Status == types.StatusPlaying {
		g.Status = types.StatusDead
		return true
	}
	return false
}

// ApplyMana adjusts mana by delta, clamped to [0, MaxMana].
func (g *Game) ApplyMana(delta int) {
	g.Mana = world.Clamp(g.Mana+delta, 0, MaxMana)
}

// SetStatus applies a lifecycle transition. Only playing sessions can
// transition; dead and victory are terminal.
func (g *Game) SetStatus(s types.Status) bool {
	if g.Status != types.StatusPlaying || s == types.StatusPlaying {
		return false
	}
	g.Status = s
	return true
}

// AddItem assigns an id to an item template and adds it to the inventory.
// Quest flags are derived from the item name so a granted key is
// immediately visible to gate checks.
func (g *Game) AddItem(tmpl types.Item) types.Item {
	item := tmpl
	item.ID = uuid.NewString()
	g.Inventory = append(g.Inventory, item)

	lower := strings.ToLower(item.Name)
	if strings.Contains(lower, "firewall key") {
		g.Progress.HasFirewallKey = true
	}
	if strings.Contains(lower, "admin keycard") {
		g.Progress.HasAdminKeycard = true
	}
	return item
}

// RemoveItem removes an inventory item by id.
func (g *Game) RemoveItem(id string) bool {
	for i, item := range g.Inventory {
		if item.ID == id {
			g.Inventory = append(g.Inventory[:i], g.Inventory[i+1:]...)
			return true
		}
	}
	return false
}

// FindItem looks up an inventory item by id, then by case-insensitive
// name match.
func (g *Game) FindItem(ref string) (types.Item, bool) {
	for _, item := range g.Inventory {
		if item.ID == ref {
			return item, true
		}
	}
	lower := strings.ToLower(ref)
	for _, item := range g.Inventory {
		if strings.ToLower(item.Name) == lower {
			return item, true
		}
	}
	return types.Item{}, false
}

// UseItem consumes a usable item and applies its effect. Quest items and
// other inert icons return ErrNotUsable and stay in the inventory.
func (g *Game) UseItem(ref string) (ItemEffect, error) {
	item, ok := g.FindItem(ref)
	if !ok {
		return ItemEffect{}, ErrNoItem
	}

	eff := ItemEffect{Item: item}
	switch item.Icon {
	case "patch":
		eff.HPDelta = 15
	case "firewall":
		eff.HPDelta = 10
	case "memory":
		eff.ManaDelta = 20
	case "debug":
		eff.TraceDelta = -20
	case "proxy":
		eff.TraceDelta = -35
	case "exploit":
		eff.ArmedExploit = true
	default:
		return ItemEffect{}, ErrNotUsable
	}

	g.RemoveItem(item.ID)
	g.Progress.ItemsUsed++
	if eff.HPDelta != 0 {
		g.ApplyHP(eff.HPDelta)
	}
	if eff.ManaDelta != 0 {
		g.ApplyMana(eff.ManaDelta)
	}
	if eff.TraceDelta != 0 {
		g.AddTrace(eff.TraceDelta)
	}
	if eff.ArmedExploit {
		g.ExploitArmed = true
	}
	return eff, nil
}

// QuestFlags returns the quest-key subset of progress for the resolver.
func (g *Game) QuestFlags() types.QuestFlags {
	return types.QuestFlags{
		FirewallKey:  g.Progress.HasFirewallKey,
		AdminKeycard: g.Progress.HasAdminKeycard,
	}
}

// SetLocation moves the player and records the visit. It reports whether
// the tile was new.
func (g *Game) SetLocation(loc types.Location) (first bool) {
	g.Location = loc
	g.Progress.CurrentAct = world.Act(loc.X, loc.Y)
	key := world.TileKey(loc.X, loc.Y)
	if g.Visited[key] {
		return false
	}
	g.Visited[key] = true
	g.Progress.TilesExplored++
	return true
}

// TileKey returns the key of the current tile.
func (g *Game) TileKey() string {
	return world.TileKey(g.Location.X, g.Location.Y)
}

// CanRestHere reports whether resting is allowed on the current tile.
func (g *Game) CanRestHere() bool {
	return g.LastRestTile != g.TileKey()
}

// MarkRestTile records a rest on the current tile.
func (g *Game) MarkRestTile() {
	g.LastRestTile = g.TileKey()
}

// AddTrace adjusts the trace meter by delta, clamped to [0, TraceMax],
// and returns the new level.
func (g *Game) AddTrace(delta int) int {
	g.Progress.TraceLevel = world.Clamp(g.Progress.TraceLevel+delta, 0, TraceMax)
	return g.Progress.TraceLevel
}

// ResetTraceAfterSpike drops the trace meter to the post-spike floor.
func (g *Game) ResetTraceAfterSpike() {
	g.Progress.TraceLevel = TraceFloor
}

// SetActiveEnemy replaces the single active enemy slot.
func (g *Game) SetActiveEnemy(e *types.Enemy) {
	g.ActiveEnemy = e
}

// DamageEnemy applies damage to the active enemy. A kill clears the slot
// and counts toward progress.
func (g *Game) DamageEnemy(dmg int) (killed bool) {
	if g.ActiveEnemy == nil {
		return false
	}
	g.ActiveEnemy.HP -= dmg
	if g.ActiveEnemy.HP <= 0 {
		g.ActiveEnemy = nil
		g.Progress.EnemiesDefeated++
		return true
	}
	return false
}

// AddStoryEvent appends a key event, keeping only the most recent few.
func (g *Game) AddStoryEvent(description string) {
	g.Progress.KeyEvents = append(g.Progress.KeyEvents, types.StoryEvent{
		ID:          uuid.NewString(),
		Description: description,
		Act:         g.Progress.CurrentAct,
		Timestamp:   time.Now().Unix(),
	})
	if n := len(g.Progress.KeyEvents); n > keyEventCap {
		g.Progress.KeyEvents = g.Progress.KeyEvents[n-keyEventCap:]
	}
}

// DiscoverLore records a lore id. It reports whether the entry was new.
func (g *Game) DiscoverLore(id string) bool {
	for _, seen := range g.Progress.DiscoveredLore {
		if seen == id {
			return false
		}
	}
	g.Progress.DiscoveredLore = append(g.Progress.DiscoveredLore, id)
	return true
}

// AddMessage appends a transcript entry.
func (g *Game) AddMessage(role types.Role, content string, mood types.Mood) {
	g.History = append(g.History, types.HistoryEntry{Role: role, Content: content, Mood: mood})
}

// RecentNarration returns the last n narrator lines, oldest first.
func (g *Game) RecentNarration(n int) []string {
	var out []string
	for i := len(g.History) - 1; i >= 0 && len(out) < n; i-- {
		if g.History[i].Role == types.RoleNarrator {
			out = append(out, g.History[i].Content)
		}
	}
	// reverse into chronological order
	for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
		out[i], out[j] = out[j], out[i]
	}
	return out
}

// HasItemNamed reports whether the inventory holds an item with this
// exact name (case-insensitive).
func (g *Game) HasItemNamed(name string) bool {
	lower := strings.ToLower(name)
	for _, item := range g.Inventory {
		if strings.ToLower(item.Name) == lower {
			return true
		}
	}
	return false
}
