package rules

import (
	"errors"
	"fmt"
)

var (
	// ErrParse matches every *ParseError.
	ErrParse = errors.New("rules: parse error")
	// ErrCapacityExceeded matches every *CapacityError.
	ErrCapacityExceeded = errors.New("rules: tile capacity exceeded")
)

// ParseError reports a malformed rule line.
type ParseError struct {
	Line   int    // 1-based line number within the rule text (0 if unknown)
	Text   string // Offending line
	Reason string
}

func (e *ParseError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("rules: line %d: %s: %q", e.Line, e.Reason, e.Text)
	}
	return fmt.Sprintf("rules: %s: %q", e.Reason, e.Text)
}

// Is makes errors.Is(err, ErrParse) work for any ParseError.
func (e *ParseError) Is(target error) bool {
	return target == ErrParse
}

// CapacityError reports a rule set with more tiles than a bitmask can address.
type CapacityError struct {
	Tiles int
}

func (e *CapacityError) Error() string {
	return fmt.Sprintf("rules: %d tiles after rotation expansion, at most %d supported", e.Tiles, MaxTiles)
}

// Is makes errors.Is(err, ErrCapacityExceeded) work for any CapacityError.
func (e *CapacityError) Is(target error) bool {
	return target == ErrCapacityExceeded
}
