package wfc

import (
	"errors"
	"fmt"
)

var (
	// ErrUsage matches every *UsageError.
	ErrUsage = errors.New("wfc: usage error")
	// ErrUnmapped matches every *ExportError.
	ErrUnmapped = errors.New("wfc: cell has no export mapping")
)

// UsageError reports a call the solver cannot honour in its current state, such as a
// scroll request that is not adjacent to the window.
type UsageError struct {
	Op     string
	Reason string
}

func (e *UsageError) Error() string {
	return fmt.Sprintf("wfc: %s: %s", e.Op, e.Reason)
}

// Is makes errors.Is(err, ErrUsage) work for any UsageError.
func (e *UsageError) Is(target error) bool {
	return target == ErrUsage
}

// ExportError reports a cell that cannot be mapped to a world tile.
type ExportError struct {
	X, Y int    // Absolute world position
	Mask uint64 // The cell's bitmask at export time
}

func (e *ExportError) Error() string {
	return fmt.Sprintf("wfc: no world tile for mask %#x at (%d,%d)", e.Mask, e.X, e.Y)
}

// Is makes errors.Is(err, ErrUnmapped) work for any ExportError.
func (e *ExportError) Is(target error) bool {
	return target == ErrUnmapped
}
