// Package world turns a solver's grid into a scrollable map of world tiles.
package world

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/samdwyer/tileweave/internal/rules"
	"github.com/samdwyer/tileweave/internal/telemetry"
	"github.com/samdwyer/tileweave/internal/tileset"
	"github.com/samdwyer/tileweave/internal/wfc"
)

const (
	// Default window dimensions
	DefaultWidth  = 60
	DefaultHeight = 20
)

// World is a generated window onto an unbounded tile map.
type World struct {
	Width  int
	Height int
	Spawn  *Room

	tileset *tileset.Tileset
	table   *rules.Table
	exports wfc.ExportMap
	seedID  int

	solver *wfc.Solver
	window window
	rng    *rand.Rand

	log                logrus.FieldLogger
	tracer             trace.Tracer
	checkpointInterval int
}

// Option configures a World.
type Option func(*World)

// WithLogger sets the logger for the world and its solver.
func WithLogger(l logrus.FieldLogger) Option {
	return func(w *World) {
		if l != nil {
			w.log = l
		}
	}
}

// WithTracer overrides the tracer for the world and its solver.
func WithTracer(t trace.Tracer) Option {
	return func(w *World) {
		if t != nil {
			w.tracer = t
		}
	}
}

// WithCheckpointInterval is passed through to the solver.
func WithCheckpointInterval(n int) Option {
	return func(w *World) {
		w.checkpointInterval = n
	}
}

// New compiles the tileset and prepares an ungenerated world.
func New(ts *tileset.Tileset, width, height int, rng *rand.Rand, opts ...Option) (*World, error) {
	table, exports, err := ts.Compile()
	if err != nil {
		return nil, err
	}
	return NewWithRules(ts, table, exports, width, height, rng, opts...)
}

// NewWithRules prepares a world from an already compiled rule table.
func NewWithRules(ts *tileset.Tileset, table *rules.Table, exports wfc.ExportMap, width, height int, rng *rand.Rand, opts ...Option) (*World, error) {
	seedID, err := ts.SeedID(table)
	if err != nil {
		return nil, err
	}

	w := &World{
		Width:   width,
		Height:  height,
		tileset: ts,
		table:   table,
		exports: exports,
		seedID:  seedID,
		rng:     rng,
		log:     logrus.StandardLogger(),
		tracer:  telemetry.Tracer("world"),
	}
	for _, opt := range opts {
		opt(w)
	}

	if ts.Spawn != nil {
		w.Spawn = &Room{X: ts.Spawn.X, Y: ts.Spawn.Y, Width: ts.Spawn.Width, Height: ts.Spawn.Height}
	}

	// Validate the dimensions and random source up front.
	if _, err := w.newSolver(); err != nil {
		return nil, err
	}
	return w, nil
}

func (w *World) newSolver() (*wfc.Solver, error) {
	return wfc.New(w.Width, w.Height, w.table, w.rng,
		wfc.WithLogger(w.log),
		wfc.WithTracer(w.tracer),
		wfc.WithCheckpointInterval(w.checkpointInterval),
	)
}

// Tileset returns the tileset the world is drawn with.
func (w *World) Tileset() *tileset.Tileset {
	return w.tileset
}

// Origin returns the absolute position of the window's top-left cell.
func (w *World) Origin() (int, int) {
	return w.window.originX, w.window.originY
}

// Generated reports whether Generate has completed at least once.
func (w *World) Generated() bool {
	return w.window.ids != nil
}

// Stats returns the solver statistics of the last generation pass.
func (w *World) Stats() wfc.Stats {
	if w.solver == nil {
		return wfc.Stats{}
	}
	return w.solver.Stats()
}

// Generate discards the current map and generates a fresh window at the origin,
// starting from the tileset's seed tile.
func (w *World) Generate(ctx context.Context) error {
	ctx, span := w.tracer.Start(ctx, "world.generate")
	defer span.End()

	startTime := time.Now()

	solver, err := w.newSolver()
	if err != nil {
		return err
	}
	seed := w.tileset.Seed
	if seed.X >= 0 && seed.X < w.Width && seed.Y >= 0 && seed.Y < w.Height {
		if err := solver.CollapseCell(seed.X, seed.Y, w.seedID); err != nil {
			return err
		}
	}

	if err := solver.GenerateEverything(ctx); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "generation interrupted")
		return fmt.Errorf("generate %s: %w", w.tileset.ID, err)
	}

	ids, err := solver.ExportToUlongsWith(w.exports, w.stamp)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "export failed")
		return err
	}

	w.solver = solver
	w.window = window{width: w.Width, height: w.Height, ids: ids}

	stats := solver.Stats()
	span.SetAttributes(
		attribute.String("world.tileset", w.tileset.ID),
		attribute.Int("world.width", w.Width),
		attribute.Int("world.height", w.Height),
		attribute.Int("world.restores", stats.Restores),
		attribute.Int64("world.generation_ms", time.Since(startTime).Milliseconds()),
	)
	w.log.WithFields(logrus.Fields{
		"tileset":  w.tileset.ID,
		"width":    w.Width,
		"height":   w.Height,
		"steps":    stats.Steps,
		"restores": stats.Restores,
	}).Info("World generated")
	return nil
}

// Scroll moves the window by (dx, dy) one row or column at a time. Tiles that stay in
// view are kept; only the newly generated cells are exported. It returns every placement
// made, in generation order.
func (w *World) Scroll(ctx context.Context, dx, dy int) ([]wfc.Placement, error) {
	if w.solver == nil {
		return nil, &wfc.UsageError{Op: "scroll", Reason: "world has not been generated"}
	}

	ctx, span := w.tracer.Start(ctx, "world.scroll")
	defer span.End()
	span.SetAttributes(attribute.Int("world.dx", dx), attribute.Int("world.dy", dy))

	var all []wfc.Placement
	for dx != 0 || dy != 0 {
		ox, oy := w.solver.Origin()

		var placed []wfc.Placement
		var err error
		switch {
		case dx > 0:
			placed, err = w.solver.GenerateTileColumn(ctx, ox+w.Width)
			dx--
		case dx < 0:
			placed, err = w.solver.GenerateTileColumn(ctx, ox-1)
			dx++
		case dy > 0:
			placed, err = w.solver.GenerateTileRow(ctx, oy+w.Height)
			dy--
		default:
			placed, err = w.solver.GenerateTileRow(ctx, oy-1)
			dy++
		}
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "scroll failed")
			return all, err
		}

		if err := w.apply(placed); err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "export failed")
			return all, err
		}
		all = append(all, placed...)
	}

	ox, oy := w.Origin()
	span.SetAttributes(
		attribute.Int("world.origin_x", ox),
		attribute.Int("world.origin_y", oy),
		attribute.Int("world.placed", len(all)),
	)
	return all, nil
}

// apply shifts the window to the solver's origin and exports the given placements
// into the cells it exposed.
func (w *World) apply(placed []wfc.Placement) error {
	ox, oy := w.solver.Origin()
	next := w.window.shifted(ox, oy)

	for _, p := range placed {
		id, ok := w.exports.Lookup(p.Mask())
		if !ok {
			return &wfc.ExportError{X: p.X, Y: p.Y, Mask: p.Mask()}
		}
		next.set(p.X, p.Y, w.stamp(p.X, p.Y, id))
	}

	w.window = next
	return nil
}

// stamp overrides exported tiles inside the spawn room.
func (w *World) stamp(x, y int, id uint64) uint64 {
	if w.Spawn != nil && w.Spawn.Contains(x, y) {
		return w.tileset.Spawn.Tile
	}
	return id
}

// InView reports whether the absolute position is inside the window.
func (w *World) InView(x, y int) bool {
	_, ok := w.window.get(x, y)
	return ok
}

// GetTile returns the tile at the given absolute position. Positions outside the
// window read as the tileset's blocking tile.
func (w *World) GetTile(x, y int) tileset.TileType {
	id, ok := w.window.get(x, y)
	if !ok {
		return w.tileset.Blocked()
	}
	t, ok := w.tileset.TileType(id)
	if !ok {
		return w.tileset.Blocked()
	}
	return t
}

// IsPassable returns true if the given absolute position can be walked on.
func (w *World) IsPassable(x, y int) bool {
	if !w.InView(x, y) {
		return false
	}
	return w.GetTile(x, y).Passable
}

// StartPosition returns where an explorer should appear: the spawn room's center when
// it is in view, otherwise the first passable tile in reading order.
func (w *World) StartPosition() (int, int) {
	if w.Spawn != nil {
		if x, y := w.Spawn.Center(); w.IsPassable(x, y) {
			return x, y
		}
	}

	ox, oy := w.Origin()
	for y := oy; y < oy+w.Height; y++ {
		for x := ox; x < ox+w.Width; x++ {
			if w.IsPassable(x, y) {
				return x, y
			}
		}
	}
	return ox, oy
}
