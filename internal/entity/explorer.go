// Package entity provides the explorer that walks the generated map.
package entity

import "github.com/zyedidia/generic/mapset"

// Explorer is the player's marker on the map.
type Explorer struct {
	X, Y   int  // Current absolute position
	Symbol rune // Display symbol

	visited mapset.Set[[2]int]
}

// NewExplorer creates an explorer at the given position.
func NewExplorer(x, y int) *Explorer {
	e := &Explorer{
		X:       x,
		Y:       y,
		Symbol:  '@',
		visited: mapset.New[[2]int](),
	}
	e.visited.Put([2]int{x, y})
	return e
}

// Move updates the explorer position by the given delta.
func (e *Explorer) Move(dx, dy int) {
	e.X += dx
	e.Y += dy
	e.visited.Put([2]int{e.X, e.Y})
}

// Position returns the current x, y coordinates.
func (e *Explorer) Position() (int, int) {
	return e.X, e.Y
}

// Visited reports whether the explorer has stood on the given position.
func (e *Explorer) Visited(x, y int) bool {
	return e.visited.Has([2]int{x, y})
}

// Explored returns the number of distinct positions visited.
func (e *Explorer) Explored() int {
	return e.visited.Size()
}
