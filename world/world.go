// Package world maps grid coordinates to acts, name-pool indices, and tile
// visuals. Everything here is a pure function of the coordinates: terrain is
// derived from coordinate hashes instead of stored per-tile data, so the map
// never needs a world-sized structure.
package world

import "fmt"

// Grid bounding box. Moves that would leave it are clamped to the edge.
const (
	MinX = -1
	MaxX = 5
	MinY = -1
	MaxY = 5
)

// Act thresholds on Manhattan distance from the origin.
const (
	act1Distance = 5
	act2Distance = 2
)

// NodeKind classifies a tile's visual type.
type NodeKind string

const (
	NodeTerminal NodeKind = "terminal"
	NodeRecycle  NodeKind = "recycle"
	NodeNeon     NodeKind = "neon"
	NodeSource   NodeKind = "source"
	NodeFirewall NodeKind = "firewall"
	NodeTrap     NodeKind = "trap"
)

// Act returns the zone tier for a coordinate: 1 (outer) through 3 (core).
// Farther from the origin is never a higher act number.
func Act(x, y int) int {
	d := abs(x) + abs(y)
	switch {
	case d >= act1Distance:
		return 1
	case d >= act2Distance:
		return 2
	default:
		return 3
	}
}

// NameIndex returns a stable index into a location-name pool of the given
// size. Same coordinates always yield the same index.
func NameIndex(x, y, poolSize int) int {
	if poolSize <= 0 {
		return 0
	}
	return abs(x*7+y*13+x*y*3) % poolSize
}

// NodeType returns the tile's visual classification. (0,0) is always the
// terminal node regardless of the hash.
func NodeType(x, y int) NodeKind {
	if x == 0 && y == 0 {
		return NodeTerminal
	}
	seed := abs(x*7919+y*6271+x*y*31) % 100
	switch Act(x, y) {
	case 1:
		if seed < 20 {
			return NodeFirewall
		}
		if seed < 35 {
			return NodeTrap
		}
		return NodeRecycle
	case 2:
		if seed < 25 {
			return NodeFirewall
		}
		if seed < 40 {
			return NodeTrap
		}
		return NodeNeon
	default:
		if seed < 30 {
			return NodeTrap
		}
		return NodeSource
	}
}

// Clamp constrains a value to [lo, hi]. Callers use it both for
// coordinates against the bounding box and for stat deltas.
func Clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// InBounds reports whether the coordinate lies inside the bounding box.
func InBounds(x, y int) bool {
	return x >= MinX && x <= MaxX && y >= MinY && y <= MaxY
}

// TileKey returns the canonical map key for a coordinate.
func TileKey(x, y int) string {
	return fmt.Sprintf("%d,%d", x, y)
}

// IsTerminal reports whether the coordinate is the unique extraction tile.
func IsTerminal(x, y int) bool {
	return x == 0 && y == 0
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
