// Package rules parses tile adjacency rule text into a finished adjacency table.
package rules

// Side is one of the four compass sides of a tile.
type Side int

const (
	Top Side = iota
	Right
	Bottom
	Left
)

// Sides lists every side in index order.
var Sides = [4]Side{Top, Right, Bottom, Left}

// Opposite returns the side facing this one across a shared edge.
func (s Side) Opposite() Side {
	return (s + 2) % 4
}

// Delta returns the offset to the neighbour on this side. Y grows downward.
func (s Side) Delta() (dx, dy int) {
	switch s {
	case Top:
		return 0, -1
	case Right:
		return 1, 0
	case Bottom:
		return 0, 1
	case Left:
		return -1, 0
	default:
		return 0, 0
	}
}

// String returns a human-readable side name.
func (s Side) String() string {
	switch s {
	case Top:
		return "top"
	case Right:
		return "right"
	case Bottom:
		return "bottom"
	case Left:
		return "left"
	default:
		return "unknown"
	}
}

// TileDefinition is one tile variant and its four edge signatures.
type TileDefinition struct {
	ID       int       // Sequential id assigned by Export (0 until then)
	Label    int       // Id as written in the rule text; rotations keep their base label
	Rotation int       // Quarter turns clockwise from the base tile
	Edges    [4]string // Edge signatures indexed by Side
}

// Edge returns the signature on the given side.
func (t TileDefinition) Edge(s Side) string {
	return t.Edges[s]
}

// Rotated returns the tile turned clockwise by k quarter turns.
// Each turn moves every signature one side clockwise, so the new top is the old left.
func (t TileDefinition) Rotated(k int) TileDefinition {
	k = ((k % 4) + 4) % 4
	r := TileDefinition{
		Label:    t.Label,
		Rotation: (t.Rotation + k) % 4,
	}
	for _, s := range Sides {
		r.Edges[(int(s)+k)%4] = t.Edges[s]
	}
	return r
}

// Mask returns the singleton bitmask for this tile's id, or 0 if no id is assigned.
func (t TileDefinition) Mask() uint64 {
	if t.ID <= 0 || t.ID > MaxTiles {
		return 0
	}
	return 1 << uint(t.ID-1)
}

// reverse returns s with its characters in reverse order.
func reverse(s string) string {
	r := []rune(s)
	for i, j := 0, len(r)-1; i < j; i, j = i+1, j-1 {
		r[i], r[j] = r[j], r[i]
	}
	return string(r)
}

// Compatible reports whether b may sit on side s of a: a's signature on s must equal
// the reverse of b's signature on the opposite side.
func Compatible(a TileDefinition, s Side, b TileDefinition) bool {
	return a.Edges[s] == reverse(b.Edges[s.Opposite()])
}
