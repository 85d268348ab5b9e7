// Package wfc fills a grid with tiles by wave function collapse, recovering from
// contradictions with checkpoints and regenerating only newly exposed cells when the
// window scrolls.
package wfc

import "math/bits"

// Cell is one grid position and the set of tiles it may still become.
type Cell struct {
	X, Y     int    // Grid-local position
	Possible uint64 // Bit k set means tile k+1 is still possible
	ID       int    // Resolved tile id, 0 while unresolved
}

// Entropy returns the number of tiles the cell may still become.
func (c Cell) Entropy() int {
	return bits.OnesCount64(c.Possible)
}

// Resolved reports whether the cell has been collapsed to a single tile.
func (c Cell) Resolved() bool {
	return c.ID != 0
}

// Contradicted reports whether an unresolved cell has no possible tile left.
func (c Cell) Contradicted() bool {
	return c.ID == 0 && c.Possible == 0
}

// Grid is a fixed-size window of cells. OriginX/OriginY is the absolute world
// coordinate of local cell (0, 0).
type Grid struct {
	Width, Height    int
	OriginX, OriginY int
	cells            []Cell
}

// NewGrid creates a grid where every cell may be any tile in open.
func NewGrid(width, height, originX, originY int, open uint64) Grid {
	g := Grid{
		Width:   width,
		Height:  height,
		OriginX: originX,
		OriginY: originY,
		cells:   make([]Cell, width*height),
	}
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			g.cells[y*width+x] = Cell{X: x, Y: y, Possible: open}
		}
	}
	return g
}

// Clone returns an independent deep copy of the grid.
func (g Grid) Clone() Grid {
	c := g
	c.cells = make([]Cell, len(g.cells))
	copy(c.cells, g.cells)
	return c
}

// InBounds reports whether a local position lies inside the grid.
func (g Grid) InBounds(x, y int) bool {
	return x >= 0 && x < g.Width && y >= 0 && y < g.Height
}

// At returns the cell at a local position. It panics when out of bounds.
func (g Grid) At(x, y int) Cell {
	return g.cells[y*g.Width+x]
}

func (g Grid) cell(x, y int) *Cell {
	return &g.cells[y*g.Width+x]
}

// ToWorld converts a local position to absolute world coordinates.
func (g Grid) ToWorld(x, y int) (int, int) {
	return x + g.OriginX, y + g.OriginY
}

// ToLocal converts absolute world coordinates to a local position.
func (g Grid) ToLocal(wx, wy int) (int, int) {
	return wx - g.OriginX, wy - g.OriginY
}

// IsDone reports whether every cell is resolved.
func (g Grid) IsDone() bool {
	for i := range g.cells {
		if g.cells[i].ID == 0 {
			return false
		}
	}
	return true
}

// Contradicted reports whether any unresolved cell has run out of possibilities.
func (g Grid) Contradicted() bool {
	for i := range g.cells {
		if g.cells[i].Contradicted() {
			return true
		}
	}
	return false
}

// Unresolved returns the number of cells still waiting to be collapsed.
func (g Grid) Unresolved() int {
	n := 0
	for i := range g.cells {
		if g.cells[i].ID == 0 {
			n++
		}
	}
	return n
}

// Slot names one of the two checkpoints a solver keeps.
type Slot int

const (
	// Recent is taken often during an attempt and restored after every dead end.
	Recent Slot = iota
	// KnownGood is taken only when the grid is fully resolved (or freshly seeded) and
	// is the escape hatch after too many failed restarts.
	KnownGood
)

// String returns a human-readable slot name.
func (s Slot) String() string {
	switch s {
	case Recent:
		return "recent"
	case KnownGood:
		return "known_good"
	default:
		return "unknown"
	}
}
