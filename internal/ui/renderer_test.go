package ui

import (
	"context"
	"io"
	"math/rand"
	"strings"
	"testing"

	"github.com/gdamore/tcell/v2"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/samdwyer/tileweave/internal/entity"
	"github.com/samdwyer/tileweave/internal/telemetry"
	"github.com/samdwyer/tileweave/internal/tileset"
	"github.com/samdwyer/tileweave/internal/world"
)

func TestRenderDrawsWindowAndExplorer(t *testing.T) {
	log := logrus.New()
	log.SetOutput(io.Discard)

	ts := tileset.MustLoadRegistry().GetByID("dungeon")
	w, err := world.New(ts, 12, 6, rand.New(rand.NewSource(5)),
		world.WithLogger(log), world.WithTracer(telemetry.NoopTracer()))
	require.NoError(t, err)
	require.NoError(t, w.Generate(context.Background()))

	screen, sim, err := NewSimulationScreen(80, 10)
	require.NoError(t, err)
	defer screen.Close()

	x, y := w.StartPosition()
	explorer := entity.NewExplorer(x, y)
	r := NewRenderer(screen)
	r.Render(w, explorer, Status(w, explorer))

	cells, width, _ := sim.GetContents()
	at := func(x, y int) rune {
		c := cells[y*width+x]
		if len(c.Runes) == 0 {
			return ' '
		}
		return c.Runes[0]
	}

	for sy := 0; sy < w.Height; sy++ {
		for sx := 0; sx < w.Width; sx++ {
			if sx == x && sy == y {
				assert.Equal(t, '@', at(sx, sy))
				continue
			}
			assert.Equal(t, w.GetTile(sx, sy).GlyphRune(), at(sx, sy), "(%d,%d)", sx, sy)
		}
	}

	// Status line starts with the tileset name.
	assert.Equal(t, 'D', at(0, w.Height))
}

func TestDump(t *testing.T) {
	ts := tileset.MustLoadRegistry().GetByID("dungeon")
	w, err := world.New(ts, 5, 3, rand.New(rand.NewSource(2)), world.WithTracer(telemetry.NoopTracer()))
	require.NoError(t, err)
	require.NoError(t, w.Generate(context.Background()))

	var sb strings.Builder
	require.NoError(t, Dump(&sb, w))

	lines := strings.Split(strings.TrimSuffix(sb.String(), "\n"), "\n")
	require.Len(t, lines, 3)
	for y, line := range lines {
		require.Len(t, []rune(line), 5)
		for x, r := range line {
			assert.Equal(t, w.GetTile(x, y).GlyphRune(), r)
		}
	}
}

func TestRenderStatusKeepsMap(t *testing.T) {
	screen, sim, err := NewSimulationScreen(20, 4)
	require.NoError(t, err)
	defer screen.Close()

	r := NewRenderer(screen)
	screen.SetContent(0, 0, '#', tcell.StyleDefault)
	r.RenderMessage("a much longer message", 2)
	r.RenderStatus("busy", 2)

	cells, width, _ := sim.GetContents()
	row := func(y int) string {
		var sb strings.Builder
		for x := 0; x < width; x++ {
			c := cells[y*width+x]
			if len(c.Runes) == 0 {
				sb.WriteRune(' ')
				continue
			}
			sb.WriteRune(c.Runes[0])
		}
		return strings.TrimRight(sb.String(), " ")
	}

	assert.Equal(t, "#", row(0))
	assert.Equal(t, "busy", row(2))
}
