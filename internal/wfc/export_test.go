package wfc

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/samdwyer/tileweave/internal/rules"
)

const (
	worldFloor uint64 = 1
	worldWall  uint64 = 2
	worldDoor  uint64 = 3
)

func dungeonExports() []ExportEntry {
	return []ExportEntry{
		{Label: 2, Tile: worldFloor},
		{Label: 4, Tile: worldWall},
		{Label: 5, Tile: worldFloor},
		{Label: 6, Tile: worldFloor},
		{Label: 7, Tile: worldFloor},
	}
}

func TestNewExportMap(t *testing.T) {
	table, err := rules.ParseRules(dungeonRules)
	require.NoError(t, err)

	entries := append([]ExportEntry{{Label: 7, Rotations: []int{0, 2}, Tile: worldDoor}}, dungeonExports()...)
	m := NewExportMap(table, entries)
	assert.Len(t, m, table.Count())

	for _, def := range table.Tiles() {
		got, ok := m.Lookup(def.Mask())
		require.True(t, ok, "tile %d unmapped", def.ID)
		switch {
		case def.Label == 4:
			assert.Equal(t, worldWall, got)
		case def.Label == 7 && (def.Rotation == 0 || def.Rotation == 2):
			assert.Equal(t, worldDoor, got)
		default:
			assert.Equal(t, worldFloor, got)
		}
	}

	_, ok := m.Lookup(0)
	assert.False(t, ok)
}

func TestExportToUlongs(t *testing.T) {
	s := solvedDungeon(t, 7, 4, 21)
	m := NewExportMap(s.Rules(), dungeonExports())

	out, err := s.ExportToUlongs(m)
	require.NoError(t, err)
	require.Len(t, out, 7)
	for x := range out {
		require.Len(t, out[x], 4)
		for y := range out[x] {
			want, _ := m.Lookup(s.Cell(x, y).Possible)
			assert.Equal(t, want, out[x][y], "(%d,%d)", x, y)
		}
	}
}

func TestExportOverrideUsesWorldCoordinates(t *testing.T) {
	s := solvedDungeon(t, 5, 5, 13)
	_, err := s.Translate(context.Background(), 2, 3)
	require.NoError(t, err)

	m := NewExportMap(s.Rules(), dungeonExports())
	var seen [][2]int
	out, err := s.ExportToUlongsWith(m, func(x, y int, id uint64) uint64 {
		seen = append(seen, [2]int{x, y})
		if x == 4 && y == 5 {
			return worldDoor
		}
		return id
	})
	require.NoError(t, err)

	assert.Len(t, seen, 25)
	assert.Equal(t, [2]int{2, 3}, seen[0])
	assert.Equal(t, [2]int{6, 7}, seen[24])
	assert.Equal(t, worldDoor, out[2][2])
}

func TestExportErrors(t *testing.T) {
	s := solvedDungeon(t, 4, 4, 1)

	// Walls only: every corridor cell is unmapped.
	partial := NewExportMap(s.Rules(), []ExportEntry{{Label: 4, Tile: worldWall}})
	full := NewExportMap(s.Rules(), dungeonExports())
	if len(partial) == len(full) {
		t.Fatal("partial map unexpectedly complete")
	}

	hasCorridor := false
	g := s.Grid()
	for y := 0; y < 4; y++ {
		for x := 0; x < 4; x++ {
			if _, ok := partial.Lookup(g.At(x, y).Possible); !ok {
				hasCorridor = true
			}
		}
	}
	require.True(t, hasCorridor, "seeded corridor must exist")

	_, err := s.ExportToUlongs(partial)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnmapped))

	var ee *ExportError
	require.True(t, errors.As(err, &ee))
	assert.NotZero(t, ee.Mask)

	open := newTestSolver(t, dungeonRules, 2, 2, 1)
	_, err = open.ExportToUlongs(full)
	assert.True(t, errors.Is(err, ErrUnmapped))
}
