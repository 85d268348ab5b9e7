package ui

import (
	"bufio"
	"io"

	"github.com/samdwyer/tileweave/internal/world"
)

// Dump writes the visible window as plain glyphs, one line per row.
func Dump(out io.Writer, w *world.World) error {
	buf := bufio.NewWriter(out)
	ox, oy := w.Origin()
	for y := oy; y < oy+w.Height; y++ {
		for x := ox; x < ox+w.Width; x++ {
			buf.WriteRune(w.GetTile(x, y).GlyphRune())
		}
		buf.WriteByte('\n')
	}
	return buf.Flush()
}
