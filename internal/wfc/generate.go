package wfc

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

// GenerateEverything runs Step until every cell is resolved, backing out of dead ends.
//
// Each attempt restarts from the recent checkpoint. After more than width*height/10
// failed attempts the solver falls back to the known-good checkpoint (the state on entry
// or the last fully resolved grid) and starts counting again. A known-good checkpoint is
// stored once the grid is done.
//
// A rule set with no solution loops until ctx is cancelled; with a background context
// it loops forever.
func (s *Solver) GenerateEverything(ctx context.Context) error {
	ctx, span := s.tracer.Start(ctx, "wfc.generate")
	defer span.End()

	startTime := time.Now()
	unresolved := s.grid.Unresolved()

	err := s.generate(ctx)

	span.SetAttributes(
		attribute.Int("wfc.width", s.grid.Width),
		attribute.Int("wfc.height", s.grid.Height),
		attribute.Int("wfc.unresolved", unresolved),
		attribute.Int("wfc.steps", s.stats.Steps),
		attribute.Int("wfc.restores", s.stats.Restores),
		attribute.Int("wfc.known_good_restores", s.stats.KnownGoodRestores),
		attribute.Int64("wfc.generation_ms", time.Since(startTime).Milliseconds()),
	)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "generation interrupted")
		return err
	}
	return nil
}

// generate checkpoints the current grid in both slots and searches from it.
func (s *Solver) generate(ctx context.Context) error {
	s.stats = Stats{}
	s.Store(KnownGood)
	s.Store(Recent)
	return s.search(ctx)
}

// search is the backtracking loop over whatever the two slots currently hold.
func (s *Solver) search(ctx context.Context) error {
	budget := s.grid.Width * s.grid.Height / 10
	attempts := 0
	steps := 0

	for !s.IsDone() {
		if err := ctx.Err(); err != nil {
			return err
		}

		s.Restore(Recent)
		s.stats.Restores++
		attempts++
		if attempts > budget {
			s.log.WithFields(logrus.Fields{
				"attempts":   attempts,
				"unresolved": s.slots[KnownGood].Unresolved(),
			}).Debug("Restoring known-good checkpoint")

			s.Restore(KnownGood)
			s.Store(Recent)
			s.stats.KnownGoodRestores++
			attempts = 0
			steps = 0
		}

		for s.Step() {
			steps++
			if s.checkpointInterval > 0 && steps%s.checkpointInterval == 0 {
				s.Store(Recent)
			}
		}
	}

	s.Store(KnownGood)
	s.log.WithFields(logrus.Fields{
		"width":               s.grid.Width,
		"height":              s.grid.Height,
		"steps":               s.stats.Steps,
		"restores":            s.stats.Restores,
		"known_good_restores": s.stats.KnownGoodRestores,
	}).Debug("Grid resolved")
	return nil
}
