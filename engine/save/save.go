// Package save snapshots a session to JSON and restores it, including the
// RNG stream position so a reloaded game replays identically.
package save

import (
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"github.com/nathoo/edencore/engine/rng"
	"github.com/nathoo/edencore/engine/state"
	"github.com/nathoo/edencore/types"
)

// Version guards against loading snapshots from incompatible builds.
const Version = 1

// Data is the serialized session snapshot.
type Data struct {
	Version int   `json:"version"`
	SavedAt int64 `json:"saved_at"`

	HP     int          `json:"hp"`
	Mana   int          `json:"mana"`
	Status types.Status `json:"status"`

	Location  types.Location       `json:"location"`
	Visited   []string             `json:"visited"`
	Inventory []types.Item         `json:"inventory"`
	Enemy     *types.Enemy         `json:"enemy,omitempty"`
	Progress  types.StoryProgress  `json:"progress"`
	History   []types.HistoryEntry `json:"history"`

	LastRestTile string `json:"last_rest_tile,omitempty"`
	ExploitArmed bool   `json:"exploit_armed,omitempty"`

	RNGSeed     int64 `json:"rng_seed"`
	RNGPosition int64 `json:"rng_position"`
}

// Capture snapshots the current session.
func Capture(g *state.Game, r *rng.RNG) *Data {
	visited := make([]string, 0, len(g.Visited))
	for key := range g.Visited {
		visited = append(visited, key)
	}
	sort.Strings(visited)

	var enemy *types.Enemy
	if g.ActiveEnemy != nil {
		e := *g.ActiveEnemy
		enemy = &e
	}

	return &Data{
		Version:      Version,
		SavedAt:      time.Now().Unix(),
		HP:           g.HP,
		Mana:         g.Mana,
		Status:       g.Status,
		Location:     g.Location,
		Visited:      visited,
		Inventory:    append([]types.Item(nil), g.Inventory...),
		Enemy:        enemy,
		Progress:     g.Progress,
		History:      append([]types.HistoryEntry(nil), g.History...),
		LastRestTile: g.LastRestTile,
		ExploitArmed: g.ExploitArmed,
		RNGSeed:      r.Seed(),
		RNGPosition:  r.Position(),
	}
}

// Encode marshals a snapshot to JSON.
func Encode(d *Data) ([]byte, error) {
	raw, err := json.MarshalIndent(d, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encoding save: %w", err)
	}
	return raw, nil
}

// Decode unmarshals and sanity-checks a snapshot.
func Decode(raw []byte) (*Data, error) {
	var d Data
	if err := json.Unmarshal(raw, &d); err != nil {
		return nil, fmt.Errorf("decoding save: %w", err)
	}
	if d.Version != Version {
		return nil, fmt.Errorf("save version %d not supported", d.Version)
	}
	if d.Status != types.StatusPlaying && d.Status != types.StatusDead && d.Status != types.StatusVictory {
		return nil, fmt.Errorf("save has invalid status %q", d.Status)
	}
	return &d, nil
}

// Restore rebuilds the session and RNG from a snapshot.
func Restore(d *Data) (*state.Game, *rng.RNG) {
	g := &state.Game{
		HP:           d.HP,
		Mana:         d.Mana,
		Status:       d.Status,
		Location:     d.Location,
		Visited:      map[string]bool{},
		Inventory:    append([]types.Item(nil), d.Inventory...),
		Progress:     d.Progress,
		History:      append([]types.HistoryEntry(nil), d.History...),
		LastRestTile: d.LastRestTile,
		ExploitArmed: d.ExploitArmed,
	}
	for _, key := range d.Visited {
		g.Visited[key] = true
	}
	if d.Enemy != nil {
		e := *d.Enemy
		g.ActiveEnemy = &e
	}
	return g, rng.Restore(d.RNGSeed, d.RNGPosition)
}
