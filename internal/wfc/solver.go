package wfc

import (
	"fmt"
	"math/bits"
	"math/rand"

	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/trace"

	"github.com/samdwyer/tileweave/internal/rules"
	"github.com/samdwyer/tileweave/internal/telemetry"
)

// Stats counts the work done by the most recent generation pass.
type Stats struct {
	Steps             int // Cells collapsed by Step
	Restores          int // Restores of the recent checkpoint
	KnownGoodRestores int // Escapes to the known-good checkpoint
}

// Solver resolves every cell of its grid to a tile consistent with an adjacency table.
// A Solver is not safe for concurrent use; it owns its grid and checkpoints.
type Solver struct {
	grid  Grid
	slots [2]Grid
	table *rules.Table
	rng   *rand.Rand

	log                logrus.FieldLogger
	tracer             trace.Tracer
	checkpointInterval int

	stats      Stats
	candidates []int
}

// Option configures a Solver.
type Option func(*Solver)

// WithLogger sets the logger used for checkpoint and generation events.
func WithLogger(l logrus.FieldLogger) Option {
	return func(s *Solver) {
		if l != nil {
			s.log = l
		}
	}
}

// WithTracer overrides the tracer used for generation spans.
func WithTracer(t trace.Tracer) Option {
	return func(s *Solver) {
		if t != nil {
			s.tracer = t
		}
	}
}

// WithCheckpointInterval takes a recent checkpoint every n successful steps during a
// generation pass. Zero disables periodic checkpoints.
func WithCheckpointInterval(n int) Option {
	return func(s *Solver) {
		if n >= 0 {
			s.checkpointInterval = n
		}
	}
}

// New creates a solver over an all-open width x height grid whose origin is (0, 0).
// Both checkpoints start out holding the open grid.
func New(width, height int, table *rules.Table, rng *rand.Rand, opts ...Option) (*Solver, error) {
	if width <= 0 || height <= 0 {
		return nil, &UsageError{Op: "new solver", Reason: fmt.Sprintf("grid size %dx%d must be positive", width, height)}
	}
	if table == nil {
		return nil, &UsageError{Op: "new solver", Reason: "nil adjacency table"}
	}
	if rng == nil {
		return nil, &UsageError{Op: "new solver", Reason: "nil random source"}
	}

	s := &Solver{
		grid:   NewGrid(width, height, 0, 0, table.AllMask()),
		table:  table,
		rng:    rng,
		log:    logrus.StandardLogger(),
		tracer: telemetry.Tracer("wfc"),
	}
	for _, opt := range opts {
		opt(s)
	}

	s.Store(Recent)
	s.Store(KnownGood)
	return s, nil
}

// SetRules installs a new adjacency table. Resolved cells keep their ids; every
// unresolved cell is reopened to all tiles of the new table.
func (s *Solver) SetRules(table *rules.Table) {
	if table == nil {
		return
	}
	s.table = table
	for i := range s.grid.cells {
		if s.grid.cells[i].ID == 0 {
			s.grid.cells[i].Possible = table.AllMask()
		}
	}
}

// Rules returns the installed adjacency table.
func (s *Solver) Rules() *rules.Table {
	return s.table
}

// Width returns the grid width.
func (s *Solver) Width() int { return s.grid.Width }

// Height returns the grid height.
func (s *Solver) Height() int { return s.grid.Height }

// Origin returns the absolute world coordinate of local cell (0, 0).
func (s *Solver) Origin() (int, int) { return s.grid.OriginX, s.grid.OriginY }

// Grid returns a snapshot of the working grid.
func (s *Solver) Grid() Grid { return s.grid.Clone() }

// Cell returns the cell at a local position.
func (s *Solver) Cell(x, y int) Cell { return s.grid.At(x, y) }

// Stats returns the counters of the most recent generation pass.
func (s *Solver) Stats() Stats { return s.stats }

// IsDone reports whether every cell is resolved.
func (s *Solver) IsDone() bool { return s.grid.IsDone() }

// Contradicted reports whether the working grid currently holds a contradiction.
func (s *Solver) Contradicted() bool { return s.grid.Contradicted() }

// Store snapshots the working grid into a checkpoint slot.
func (s *Solver) Store(slot Slot) {
	s.slots[slot] = s.grid.Clone()
}

// Restore replaces the working grid with a copy of a checkpoint slot.
func (s *Solver) Restore(slot Slot) {
	s.grid = s.slots[slot].Clone()
}

// CollapseCell forces the cell at a local position to tile id and narrows its four
// direct neighbours. Use it to seed fixed tiles before generating. A tile that does not
// fit an already resolved neighbour is rejected and the grid is left untouched.
func (s *Solver) CollapseCell(x, y, id int) error {
	if !s.grid.InBounds(x, y) {
		return &UsageError{Op: "collapse cell", Reason: fmt.Sprintf("(%d,%d) outside %dx%d grid", x, y, s.grid.Width, s.grid.Height)}
	}
	if id <= 0 || id > s.table.Count() {
		return &UsageError{Op: "collapse cell", Reason: fmt.Sprintf("tile id %d not in 1..%d", id, s.table.Count())}
	}
	for _, side := range rules.Sides {
		dx, dy := side.Delta()
		if !s.grid.InBounds(x+dx, y+dy) {
			continue
		}
		n := s.grid.At(x+dx, y+dy)
		if n.ID != 0 && s.table.Allowed(id, side)&n.Possible == 0 {
			return &UsageError{
				Op:     "collapse cell",
				Reason: fmt.Sprintf("tile id %d at (%d,%d) does not fit tile %d on its %s side", id, x, y, n.ID, side),
			}
		}
	}
	s.collapse(x, y, id)
	return nil
}

// collapse resolves one cell and propagates exactly one hop: each unresolved in-bounds
// neighbour is intersected with the tiles allowed next to id on that side, and nothing
// further. Resolved neighbours keep their single bit.
func (s *Solver) collapse(x, y, id int) {
	c := s.grid.cell(x, y)
	c.Possible = 1 << uint(id-1)
	c.ID = id

	for _, side := range rules.Sides {
		dx, dy := side.Delta()
		nx, ny := x+dx, y+dy
		if !s.grid.InBounds(nx, ny) {
			continue
		}
		n := s.grid.cell(nx, ny)
		if n.ID != 0 {
			continue
		}
		n.Possible &= s.table.Allowed(id, side)
	}
}

// Step collapses one minimum-entropy cell to a random remaining tile. It returns false
// without touching the grid when no unresolved cell is left or when the minimum entropy
// is zero (a contradiction the caller must back out of).
func (s *Solver) Step() bool {
	minEntropy := rules.MaxTiles + 1
	s.candidates = s.candidates[:0]

	for i := range s.grid.cells {
		c := &s.grid.cells[i]
		if c.ID != 0 {
			continue
		}
		e := bits.OnesCount64(c.Possible)
		if e < minEntropy {
			minEntropy = e
			s.candidates = s.candidates[:0]
		}
		if e == minEntropy {
			s.candidates = append(s.candidates, i)
		}
	}

	if len(s.candidates) == 0 || minEntropy == 0 {
		return false
	}

	c := s.grid.cells[s.candidates[s.rng.Intn(len(s.candidates))]]
	possible := c.Possible
	for skips := s.rng.Intn(bits.OnesCount64(possible)); skips > 0; skips-- {
		possible &= possible - 1
	}

	s.collapse(c.X, c.Y, bits.TrailingZeros64(possible)+1)
	s.stats.Steps++
	return true
}
