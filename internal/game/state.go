// Package game runs the interactive world viewer.
package game

// State represents the current viewer state.
type State int

const (
	// StateExplore is the default mode: the explorer walks and the window scrolls.
	StateExplore State = iota
	// StateFailed means the last generation or scroll returned an error.
	StateFailed
)

// String returns a human-readable state name.
func (s State) String() string {
	switch s {
	case StateExplore:
		return "explore"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}
