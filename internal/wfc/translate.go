package wfc

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

// Placement is a newly generated cell reported by Translate.
type Placement struct {
	X, Y int // Absolute world position
	ID   int // Resolved tile id
}

// Mask returns the singleton bitmask for the placement's tile id.
func (p Placement) Mask() uint64 {
	return 1 << uint(p.ID-1)
}

// Translate slides the window by (dx, dy). Cells that stay visible keep their tiles:
// they are re-seeded into a fresh grid and never re-rolled. Only the newly exposed cells
// are generated, and they are returned in row-major order with absolute coordinates.
// If generation is interrupted the solver is left exactly as it was before the call.
func (s *Solver) Translate(ctx context.Context, dx, dy int) ([]Placement, error) {
	ctx, span := s.tracer.Start(ctx, "wfc.translate")
	defer span.End()
	span.SetAttributes(attribute.Int("wfc.dx", dx), attribute.Int("wfc.dy", dy))

	old, slots := s.grid, s.slots
	s.grid = NewGrid(old.Width, old.Height, old.OriginX+dx, old.OriginY+dy, s.table.AllMask())

	carried := make([]bool, len(s.grid.cells))
	for y := 0; y < old.Height; y++ {
		for x := 0; x < old.Width; x++ {
			c := old.At(x, y)
			nx, ny := x-dx, y-dy
			if !c.Resolved() || !s.grid.InBounds(nx, ny) {
				continue
			}
			s.collapse(nx, ny, c.ID)
			carried[ny*s.grid.Width+nx] = true
		}
	}

	// generate stores the re-seeded grid as known-good before searching.
	if err := s.generate(ctx); err != nil {
		s.grid, s.slots = old, slots
		span.RecordError(err)
		span.SetStatus(codes.Error, "translate interrupted")
		return nil, err
	}

	placed := make([]Placement, 0, len(carried))
	for i, c := range s.grid.cells {
		if carried[i] {
			continue
		}
		wx, wy := s.grid.ToWorld(c.X, c.Y)
		placed = append(placed, Placement{X: wx, Y: wy, ID: c.ID})
	}

	span.SetAttributes(
		attribute.Int("wfc.placed", len(placed)),
		attribute.Int("wfc.restores", s.stats.Restores),
	)
	return placed, nil
}

// GenerateTileRow extends the window by the world row y, which must be directly above
// or below it.
func (s *Solver) GenerateTileRow(ctx context.Context, y int) ([]Placement, error) {
	switch y {
	case s.grid.OriginY - 1:
		return s.Translate(ctx, 0, -1)
	case s.grid.OriginY + s.grid.Height:
		return s.Translate(ctx, 0, 1)
	default:
		return nil, &UsageError{
			Op:     "generate row",
			Reason: fmt.Sprintf("only y-values %d and %d are valid in the current state, got %d", s.grid.OriginY-1, s.grid.OriginY+s.grid.Height, y),
		}
	}
}

// GenerateTileColumn extends the window by the world column x, which must be directly
// left or right of it.
func (s *Solver) GenerateTileColumn(ctx context.Context, x int) ([]Placement, error) {
	switch x {
	case s.grid.OriginX - 1:
		return s.Translate(ctx, -1, 0)
	case s.grid.OriginX + s.grid.Width:
		return s.Translate(ctx, 1, 0)
	default:
		return nil, &UsageError{
			Op:     "generate column",
			Reason: fmt.Sprintf("only x-values %d and %d are valid in the current state, got %d", s.grid.OriginX-1, s.grid.OriginX+s.grid.Width, x),
		}
	}
}
