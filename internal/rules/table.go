package rules

// MaxTiles is the number of distinct tile ids a 64-bit mask can address.
const MaxTiles = 64

// AllBits is the mask with every tile possible.
const AllBits = ^uint64(0)

// Table maps (tile id, side) to the bitmask of tiles allowed as the neighbour on that side.
// Bit k set means tile k+1 is allowed. Id 0 is the open boundary tile and allows everything.
type Table struct {
	masks [][4]uint64
	tiles []TileDefinition
}

// Allowed returns the neighbour mask for tile id on side s.
// Unknown ids behave like the boundary tile.
func (t *Table) Allowed(id int, s Side) uint64 {
	if id <= 0 || id >= len(t.masks) {
		return AllBits
	}
	return t.masks[id][s]
}

// Count returns the number of real tiles (excluding the boundary tile).
func (t *Table) Count() int {
	return len(t.tiles)
}

// AllMask returns the mask with one bit for every real tile.
func (t *Table) AllMask() uint64 {
	if len(t.tiles) >= MaxTiles {
		return AllBits
	}
	return (uint64(1) << uint(len(t.tiles))) - 1
}

// Tiles returns a copy of the tile definitions, indexed by id-1.
func (t *Table) Tiles() []TileDefinition {
	out := make([]TileDefinition, len(t.tiles))
	copy(out, t.tiles)
	return out
}

// Tile returns the definition with the given id.
func (t *Table) Tile(id int) (TileDefinition, bool) {
	if id <= 0 || id > len(t.tiles) {
		return TileDefinition{}, false
	}
	return t.tiles[id-1], true
}

// IDsForLabel returns every id whose tile was written with the given label.
func (t *Table) IDsForLabel(label int) []int {
	var ids []int
	for _, def := range t.tiles {
		if def.Label == label {
			ids = append(ids, def.ID)
		}
	}
	return ids
}

// newTable builds the table for tiles whose ids are already assigned.
func newTable(tiles []TileDefinition) *Table {
	t := &Table{
		masks: make([][4]uint64, len(tiles)+1),
		tiles: tiles,
	}
	for _, s := range Sides {
		t.masks[0][s] = AllBits
	}

	for _, t1 := range tiles {
		for _, t2 := range tiles {
			for _, s := range Sides {
				if Compatible(t1, s, t2) {
					t.masks[t1.ID][s] |= t2.Mask()
					t.masks[t2.ID][s.Opposite()] |= t1.Mask()
				}
			}
		}
	}
	return t
}
