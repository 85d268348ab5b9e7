package ui

import (
	"fmt"

	"github.com/gdamore/tcell/v2"

	"github.com/samdwyer/tileweave/internal/entity"
	"github.com/samdwyer/tileweave/internal/world"
)

// Renderer handles drawing the world window to the screen.
type Renderer struct {
	screen *Screen
}

// NewRenderer creates a new renderer for the given screen.
func NewRenderer(screen *Screen) *Renderer {
	return &Renderer{screen: screen}
}

// Render draws the visible window and the explorer. Screen row 0 holds the top of the
// window; the status line goes directly beneath it.
func (r *Renderer) Render(w *world.World, explorer *entity.Explorer, status string) {
	r.screen.Clear()

	ox, oy := w.Origin()
	for y := 0; y < w.Height; y++ {
		for x := 0; x < w.Width; x++ {
			tile := w.GetTile(ox+x, oy+y)
			style := tcell.StyleDefault.Foreground(tile.TCellColor())
			if explorer != nil && explorer.Visited(ox+x, oy+y) {
				style = style.Bold(true)
			}
			r.screen.SetContent(x, y, tile.GlyphRune(), style)
		}
	}

	// Draw explorer on top
	if explorer != nil && w.InView(explorer.X, explorer.Y) {
		explorerStyle := tcell.StyleDefault.
			Foreground(tcell.ColorYellow).
			Bold(true)
		r.screen.SetContent(explorer.X-ox, explorer.Y-oy, explorer.Symbol, explorerStyle)
	}

	r.RenderMessage(status, w.Height)
	r.screen.Show()
}

// Status formats the status line for the current view.
func Status(w *world.World, explorer *entity.Explorer) string {
	ox, oy := w.Origin()
	msg := fmt.Sprintf("%s  origin (%d,%d)", w.Tileset().Name, ox, oy)
	if explorer != nil {
		msg += fmt.Sprintf("  @ (%d,%d)  explored %d", explorer.X, explorer.Y, explorer.Explored())
	}
	return msg + "  [arrows move, wasd scroll, r regenerate, q quit, Esc cancels]"
}

// RenderStatus replaces only the status row, leaving the last drawn map in place.
func (r *Renderer) RenderStatus(msg string, y int) {
	width, _ := r.screen.Size()
	for x := 0; x < width; x++ {
		r.screen.SetContent(x, y, ' ', tcell.StyleDefault)
	}
	r.RenderMessage(msg, y)
	r.screen.Show()
}

// RenderMessage displays a message at the given row.
func (r *Renderer) RenderMessage(msg string, y int) {
	style := tcell.StyleDefault.Foreground(tcell.ColorWhite)
	for i, ch := range []rune(msg) {
		r.screen.SetContent(i, y, ch, style)
	}
}
