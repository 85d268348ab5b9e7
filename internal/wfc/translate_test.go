package wfc

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func solvedDungeon(t *testing.T, width, height int, seed int64) *Solver {
	t.Helper()
	s := newTestSolver(t, dungeonRules, width, height, seed)
	require.NoError(t, s.CollapseCell(0, 0, 1))
	require.NoError(t, s.GenerateEverything(context.Background()))
	return s
}

// worldIDs indexes the resolved ids of a grid by absolute position.
func worldIDs(g Grid) map[[2]int]int {
	ids := make(map[[2]int]int, g.Width*g.Height)
	for y := 0; y < g.Height; y++ {
		for x := 0; x < g.Width; x++ {
			wx, wy := g.ToWorld(x, y)
			ids[[2]int{wx, wy}] = g.At(x, y).ID
		}
	}
	return ids
}

func TestTranslateKeepsVisibleCells(t *testing.T) {
	s := solvedDungeon(t, 10, 8, 3)
	before := worldIDs(s.Grid())

	placed, err := s.Translate(context.Background(), 2, 1)
	require.NoError(t, err)
	assertSolved(t, s)

	ox, oy := s.Origin()
	assert.Equal(t, 2, ox)
	assert.Equal(t, 1, oy)

	after := worldIDs(s.Grid())
	for pos, id := range after {
		if old, ok := before[pos]; ok {
			assert.Equal(t, old, id, "carried cell %v re-rolled", pos)
		}
	}

	// Exposed: 2 columns x 8 rows plus 1 row x 8 remaining columns.
	assert.Len(t, placed, 2*8+1*8)
	for _, p := range placed {
		_, wasVisible := before[[2]int{p.X, p.Y}]
		assert.False(t, wasVisible, "placement %v was already visible", p)
		assert.Equal(t, after[[2]int{p.X, p.Y}], p.ID)
		assert.Equal(t, uint64(1)<<uint(p.ID-1), p.Mask())
	}
}

func TestTranslateRoundTripPersistence(t *testing.T) {
	s := solvedDungeon(t, 10, 6, 9)
	original := worldIDs(s.Grid())

	_, err := s.Translate(context.Background(), 3, 0)
	require.NoError(t, err)
	_, err = s.Translate(context.Background(), -3, 0)
	require.NoError(t, err)
	assertSolved(t, s)

	ox, oy := s.Origin()
	assert.Equal(t, 0, ox)
	assert.Equal(t, 0, oy)

	back := worldIDs(s.Grid())
	for y := 0; y < 6; y++ {
		for x := 3; x < 10; x++ {
			pos := [2]int{x, y}
			assert.Equal(t, original[pos], back[pos], "cell %v changed across round trip", pos)
		}
	}
}

func TestTranslateStoresKnownGood(t *testing.T) {
	s := solvedDungeon(t, 6, 6, 4)
	_, err := s.Translate(context.Background(), 0, -2)
	require.NoError(t, err)

	solved := s.Grid()
	s.Restore(KnownGood)
	assert.Equal(t, solved, s.Grid())
}

func TestTranslateOutsideWindowRegeneratesEverything(t *testing.T) {
	s := solvedDungeon(t, 4, 4, 8)
	placed, err := s.Translate(context.Background(), 10, 0)
	require.NoError(t, err)
	assert.Len(t, placed, 16)
	assertSolved(t, s)
}

func TestTranslateCancelledLeavesSolverUnchanged(t *testing.T) {
	s := solvedDungeon(t, 6, 4, 11)
	before := s.Grid()
	slots := [2]Grid{s.slots[Recent].Clone(), s.slots[KnownGood].Clone()}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	placed, err := s.Translate(ctx, 1, 0)
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.Canceled))
	assert.Nil(t, placed)

	ox, oy := s.Origin()
	assert.Equal(t, 0, ox)
	assert.Equal(t, 0, oy)
	assert.Equal(t, before, s.Grid())
	assert.True(t, s.IsDone())

	assert.Equal(t, slots, s.slots)

	// The window still accepts the column next to its original edge.
	placed, err = s.GenerateTileColumn(context.Background(), 6)
	require.NoError(t, err)
	assert.Len(t, placed, 4)
	assertSolved(t, s)
}

func TestGenerateTileColumn(t *testing.T) {
	s := solvedDungeon(t, 8, 5, 5)
	ctx := context.Background()

	placed, err := s.GenerateTileColumn(ctx, 8)
	require.NoError(t, err)
	require.Len(t, placed, 5)
	for i, p := range placed {
		assert.Equal(t, 8, p.X)
		assert.Equal(t, i, p.Y)
	}
	ox, _ := s.Origin()
	assert.Equal(t, 1, ox)

	placed, err = s.GenerateTileColumn(ctx, 0)
	require.NoError(t, err)
	require.Len(t, placed, 5)
	assert.Equal(t, 0, placed[0].X)
	ox, _ = s.Origin()
	assert.Equal(t, 0, ox)
}

func TestGenerateTileRow(t *testing.T) {
	s := solvedDungeon(t, 5, 8, 6)
	ctx := context.Background()

	placed, err := s.GenerateTileRow(ctx, -1)
	require.NoError(t, err)
	require.Len(t, placed, 5)
	for i, p := range placed {
		assert.Equal(t, i, p.X)
		assert.Equal(t, -1, p.Y)
	}
	_, oy := s.Origin()
	assert.Equal(t, -1, oy)

	placed, err = s.GenerateTileRow(ctx, 7)
	require.NoError(t, err)
	assert.Len(t, placed, 5)
	_, oy = s.Origin()
	assert.Equal(t, 0, oy)
}

func TestGenerateTileRowColumnRejectsNonAdjacent(t *testing.T) {
	s := solvedDungeon(t, 6, 6, 2)
	before := s.Grid()
	ctx := context.Background()

	for _, v := range []int{-2, 0, 3, 5, 7} {
		_, err := s.GenerateTileRow(ctx, v)
		require.Error(t, err, "row %d", v)
		assert.True(t, errors.Is(err, ErrUsage))

		_, err = s.GenerateTileColumn(ctx, v)
		require.Error(t, err, "column %d", v)

		var ue *UsageError
		require.True(t, errors.As(err, &ue))
		assert.Contains(t, ue.Reason, "-1 and 6")
	}
	assert.Equal(t, before, s.Grid())
}
