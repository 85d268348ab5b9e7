package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExplorerMove(t *testing.T) {
	e := NewExplorer(2, 3)
	assert.Equal(t, '@', e.Symbol)
	assert.True(t, e.Visited(2, 3))
	assert.Equal(t, 1, e.Explored())

	e.Move(1, 0)
	e.Move(0, -1)
	e.Move(-1, 0)
	e.Move(0, 1)

	x, y := e.Position()
	assert.Equal(t, 2, x)
	assert.Equal(t, 3, y)
	assert.True(t, e.Visited(3, 2))
	assert.False(t, e.Visited(0, 0))
	assert.Equal(t, 4, e.Explored())
}
