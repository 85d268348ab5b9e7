package wfc

import (
	"sort"

	"github.com/samdwyer/tileweave/internal/rules"
)

// ExportMap maps a resolved cell's singleton bitmask to an external world tile id.
// Several rotations usually map to the same world tile.
type ExportMap map[uint64]uint64

// Lookup returns the world tile for a singleton mask.
func (m ExportMap) Lookup(mask uint64) (uint64, bool) {
	id, ok := m[mask]
	return id, ok
}

// ExportEntry maps every tile written with Label to world tile Tile. When Rotations is
// non-empty only those quarter turns are mapped; rotation-specific entries win over
// label-wide ones regardless of order.
type ExportEntry struct {
	Label     int    `json:"label"`
	Rotations []int  `json:"rotations,omitempty"`
	Tile      uint64 `json:"tile"`
}

// NewExportMap builds an export map for the tiles of a table.
func NewExportMap(table *rules.Table, entries []ExportEntry) ExportMap {
	sorted := make([]ExportEntry, len(entries))
	copy(sorted, entries)
	sort.SliceStable(sorted, func(i, j int) bool {
		return len(sorted[i].Rotations) == 0 && len(sorted[j].Rotations) > 0
	})

	m := make(ExportMap, table.Count())
	for _, e := range sorted {
		for _, def := range table.Tiles() {
			if def.Label != e.Label || !hasRotation(e.Rotations, def.Rotation) {
				continue
			}
			m[def.Mask()] = e.Tile
		}
	}
	return m
}

func hasRotation(rotations []int, r int) bool {
	if len(rotations) == 0 {
		return true
	}
	for _, want := range rotations {
		if want == r {
			return true
		}
	}
	return false
}

// ExportToUlongs returns the world tile ids of the window, indexed [x][y].
func (s *Solver) ExportToUlongs(m ExportMap) ([][]uint64, error) {
	return s.ExportToUlongsWith(m, nil)
}

// ExportToUlongsWith is ExportToUlongs with an override applied to every cell after
// lookup. The override receives absolute world coordinates, so callers can stamp fixed
// features onto known positions.
func (s *Solver) ExportToUlongsWith(m ExportMap, override func(x, y int, id uint64) uint64) ([][]uint64, error) {
	out := make([][]uint64, s.grid.Width)
	for x := range out {
		out[x] = make([]uint64, s.grid.Height)
	}

	for y := 0; y < s.grid.Height; y++ {
		for x := 0; x < s.grid.Width; x++ {
			c := s.grid.At(x, y)
			wx, wy := s.grid.ToWorld(x, y)

			id, ok := m.Lookup(c.Possible)
			if !c.Resolved() || !ok {
				return nil, &ExportError{X: wx, Y: wy, Mask: c.Possible}
			}
			if override != nil {
				id = override(wx, wy, id)
			}
			out[x][y] = id
		}
	}
	return out, nil
}
