package game

import (
	"context"
	"errors"

	"github.com/gdamore/tcell/v2"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"

	"github.com/samdwyer/tileweave/internal/entity"
	"github.com/samdwyer/tileweave/internal/telemetry"
	"github.com/samdwyer/tileweave/internal/ui"
	"github.com/samdwyer/tileweave/internal/world"
)

// Game holds the viewer state.
//
// Generation and scrolling run on a worker goroutine so the event loop keeps reading
// keys: the terminal is in raw mode, so Ctrl-C arrives as a key rather than a signal.
// While a job runs the world belongs to the worker and the loop only redraws the
// status line.
type Game struct {
	screen   *ui.Screen
	renderer *ui.Renderer
	world    *world.World
	explorer *entity.Explorer
	state    State
	message  string
	running  bool
	log      logrus.FieldLogger

	busy     bool
	cancel   context.CancelFunc
	quitting bool
}

// jobDone is posted to the event queue when a worker job returns.
type jobDone struct {
	tcell.EventTime
	ctx  context.Context // Context the job was started from
	err  error
	then func()
}

// New creates a viewer for w on the terminal.
func New(w *world.World, log logrus.FieldLogger) (*Game, error) {
	screen, err := ui.NewScreen()
	if err != nil {
		return nil, err
	}
	return newGame(w, screen, log), nil
}

func newGame(w *world.World, screen *ui.Screen, log logrus.FieldLogger) *Game {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Game{
		screen:   screen,
		renderer: ui.NewRenderer(screen),
		world:    w,
		state:    StateExplore,
		running:  true,
		log:      log,
	}
}

// Run executes the main viewer loop until the user quits.
func (g *Game) Run(ctx context.Context) error {
	defer g.screen.Close()

	if !g.world.Generated() {
		g.regenerate(ctx)
	} else {
		g.placeExplorer(ctx)
	}

	for g.running {
		g.render()
		g.handleInput(ctx)
	}
	return nil
}

// State returns the current viewer state.
func (g *Game) State() State {
	return g.state
}

func (g *Game) render() {
	if g.busy {
		g.renderer.RenderStatus(g.message, g.world.Height)
		return
	}
	status := ui.Status(g.world, g.explorer)
	if g.message != "" {
		status = g.message
	}
	g.renderer.Render(g.world, g.explorer, status)
}

// start runs job on a worker goroutine. then runs on the event loop if the job succeeds.
// Only one job runs at a time; further requests are dropped until it finishes.
func (g *Game) start(ctx context.Context, label string, job func(context.Context) error, then func()) {
	if g.busy {
		return
	}
	jobCtx, cancel := context.WithCancel(ctx)
	g.busy = true
	g.cancel = cancel
	g.message = label + "... (Esc to cancel)"

	go func() {
		done := &jobDone{ctx: ctx, err: job(jobCtx), then: then}
		done.SetEventNow()
		if err := g.screen.PostEvent(done); err != nil {
			g.log.WithError(err).Error("Dropped job result")
		}
	}()
}

// finish handles a job result on the event loop.
func (g *Game) finish(ev *jobDone) {
	g.busy = false
	g.cancel()
	g.cancel = nil

	switch {
	case ev.err == nil:
		g.state = StateExplore
		g.message = ""
		if ev.then != nil {
			ev.then()
		}
	case errors.Is(ev.err, context.Canceled):
		g.message = "cancelled"
		if ev.ctx.Err() != nil {
			// The viewer itself is shutting down.
			g.running = false
		}
	default:
		g.fail(ev.err)
	}

	if g.quitting {
		g.running = false
	}
}

// regenerate builds a fresh map and puts the explorer at its start position.
func (g *Game) regenerate(ctx context.Context) {
	g.start(ctx, "Generating", g.world.Generate, func() {
		g.placeExplorer(ctx)
	})
}

func (g *Game) placeExplorer(ctx context.Context) {
	_, span := telemetry.Tracer("game").Start(ctx, "game.place_explorer")
	defer span.End()

	startX, startY := g.world.StartPosition()
	g.explorer = entity.NewExplorer(startX, startY)
	g.state = StateExplore
	g.message = ""

	span.SetAttributes(
		attribute.Int("explorer.start_x", startX),
		attribute.Int("explorer.start_y", startY),
	)
}

func (g *Game) fail(err error) {
	g.state = StateFailed
	g.message = "error: " + err.Error()
	g.log.WithError(err).Error("World update failed")
}

// handleInput processes a single input event.
func (g *Game) handleInput(ctx context.Context) {
	ev := g.screen.PollEvent()

	switch ev := ev.(type) {
	case *jobDone:
		g.finish(ev)
	case *tcell.EventKey:
		if g.busy {
			g.handleBusyKey(ev)
		} else {
			g.handleKeyEvent(ctx, ev)
		}
	case *tcell.EventResize:
		g.screen.Sync()
	case nil:
		// Screen finalized.
		g.running = false
	}
}

// handleBusyKey lets the user abandon a running job. Quitting waits for the worker to
// hand the world back.
func (g *Game) handleBusyKey(ev *tcell.EventKey) {
	switch {
	case ev.Key() == tcell.KeyEscape, ev.Key() == tcell.KeyCtrlC:
		g.cancel()
	case ev.Key() == tcell.KeyRune && (ev.Rune() == 'q' || ev.Rune() == 'Q'):
		g.quitting = true
		g.cancel()
	}
}

// handleKeyEvent processes keyboard input.
func (g *Game) handleKeyEvent(ctx context.Context, ev *tcell.EventKey) {
	switch ev.Key() {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		g.running = false

	case tcell.KeyUp:
		g.tryMove(ctx, 0, -1)
	case tcell.KeyDown:
		g.tryMove(ctx, 0, 1)
	case tcell.KeyLeft:
		g.tryMove(ctx, -1, 0)
	case tcell.KeyRight:
		g.tryMove(ctx, 1, 0)

	case tcell.KeyRune:
		switch ev.Rune() {
		case 'q', 'Q':
			g.running = false
		case 'r', 'R':
			g.regenerate(ctx)
		case 'w':
			g.scroll(ctx, 0, -1, nil)
		case 'a':
			g.scroll(ctx, -1, 0, nil)
		case 's':
			g.scroll(ctx, 0, 1, nil)
		case 'd':
			g.scroll(ctx, 1, 0, nil)
		}
	}
}

// tryMove attempts to move the explorer by the given delta. Stepping off the edge of
// the window scrolls it first and moves once the new strip is in.
func (g *Game) tryMove(ctx context.Context, dx, dy int) {
	if g.explorer == nil {
		return
	}
	newX := g.explorer.X + dx
	newY := g.explorer.Y + dy

	step := func() {
		if g.world.IsPassable(newX, newY) {
			g.explorer.Move(dx, dy)
		}
	}
	if !g.world.InView(newX, newY) {
		g.scroll(ctx, dx, dy, step)
		return
	}
	step()
}

// scroll moves the window on the worker; then runs once it has moved.
func (g *Game) scroll(ctx context.Context, dx, dy int, then func()) {
	g.start(ctx, "Scrolling", func(ctx context.Context) error {
		_, err := g.world.Scroll(ctx, dx, dy)
		return err
	}, then)
}
