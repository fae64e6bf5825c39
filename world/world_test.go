package world

import "testing"

func TestAct(t *testing.T) {
	tests := []struct {
		x, y int
		want int
	}{
		{4, 4, 1},
		{5, 0, 1},
		{-1, 4, 1},
		{3, 2, 1},
		{2, 2, 2},
		{0, 2, 2},
		{1, 1, 2},
		{-1, -1, 2},
		{3, 1, 2},
		{0, 0, 3},
		{1, 0, 3},
		{0, -1, 3},
	}
	for _, tt := range tests {
		if got := Act(tt.x, tt.y); got != tt.want {
			t.Errorf("Act(%d,%d) = %d, want %d", tt.x, tt.y, got, tt.want)
		}
	}
}

// Increasing distance from the origin never increases the act number.
func TestActMonotonicInDistance(t *testing.T) {
	for x := MinX; x <= MaxX; x++ {
		for y := MinY; y <= MaxY; y++ {
			near := Act(x, y)
			// Step one tile outward along x.
			fx := x + 1
			if x < 0 {
				fx = x - 1
			}
			if !InBounds(fx, y) {
				continue
			}
			far := Act(fx, y)
			if far > near {
				t.Errorf("Act(%d,%d)=%d but farther Act(%d,%d)=%d", x, y, near, fx, y, far)
			}
		}
	}
}

func TestNameIndexStable(t *testing.T) {
	for x := MinX; x <= MaxX; x++ {
		for y := MinY; y <= MaxY; y++ {
			a := NameIndex(x, y, 9)
			b := NameIndex(x, y, 9)
			if a != b {
				t.Fatalf("NameIndex(%d,%d) unstable: %d vs %d", x, y, a, b)
			}
			if a < 0 || a >= 9 {
				t.Fatalf("NameIndex(%d,%d) = %d out of range", x, y, a)
			}
		}
	}
}

func TestNameIndexEmptyPool(t *testing.T) {
	if got := NameIndex(3, 3, 0); got != 0 {
		t.Errorf("NameIndex with empty pool = %d, want 0", got)
	}
}

func TestNodeTypeTerminal(t *testing.T) {
	if got := NodeType(0, 0); got != NodeTerminal {
		t.Errorf("NodeType(0,0) = %q, want terminal", got)
	}
}

func TestNodeTypeMatchesActFamily(t *testing.T) {
	for x := MinX; x <= MaxX; x++ {
		for y := MinY; y <= MaxY; y++ {
			if IsTerminal(x, y) {
				continue
			}
			kind := NodeType(x, y)
			switch Act(x, y) {
			case 1:
				if kind != NodeRecycle && kind != NodeFirewall && kind != NodeTrap {
					t.Errorf("NodeType(%d,%d) = %q, not an act-1 kind", x, y, kind)
				}
			case 2:
				if kind != NodeNeon && kind != NodeFirewall && kind != NodeTrap {
					t.Errorf("NodeType(%d,%d) = %q, not an act-2 kind", x, y, kind)
				}
			case 3:
				if kind != NodeSource && kind != NodeTrap {
					t.Errorf("NodeType(%d,%d) = %q, not an act-3 kind", x, y, kind)
				}
			}
		}
	}
}

func TestClamp(t *testing.T) {
	tests := []struct {
		v, lo, hi, want int
	}{
		{0, MinX, MaxX, 0},
		{-5, MinX, MaxX, -1},
		{9, MinY, MaxY, 5},
		{5, MinX, MaxX, 5},
		{150, 0, 100, 100},
		{-40, 0, 100, 0},
	}
	for _, tt := range tests {
		if got := Clamp(tt.v, tt.lo, tt.hi); got != tt.want {
			t.Errorf("Clamp(%d,%d,%d) = %d, want %d", tt.v, tt.lo, tt.hi, got, tt.want)
		}
	}
}

func TestTileKey(t *testing.T) {
	if got := TileKey(-1, 4); got != "-1,4" {
		t.Errorf("TileKey(-1,4) = %q", got)
	}
}
