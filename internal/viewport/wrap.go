package viewport

import (
	"fmt"
	"strings"
)

// WrapIndex maps any integer x into [0, m). Unlike Go's truncating %, the
// result is non-negative for negative x. m must be positive.
func WrapIndex(x, m int) int {
	return ((x % m) + m) % m
}

// Direction is a single-step move of the viewport center.
type Direction int

const (
	Up Direction = iota
	Down
	Left
	Right
)

// String returns the lowercase direction name.
func (d Direction) String() string {
	switch d {
	case Up:
		return "up"
	case Down:
		return "down"
	case Left:
		return "left"
	case Right:
		return "right"
	default:
		return fmt.Sprintf("direction(%d)", int(d))
	}
}

// ParseDirection accepts up/down/left/right in any case.
func ParseDirection(s string) (Direction, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "up":
		return Up, nil
	case "down":
		return Down, nil
	case "left":
		return Left, nil
	case "right":
		return Right, nil
	}
	return 0, fmt.Errorf("unknown direction %q", s)
}

// delta returns the row and column offsets of a single step.
func (d Direction) delta() (dRow, dCol int) {
	switch d {
	case Up:
		return -1, 0
	case Down:
		return 1, 0
	case Left:
		return 0, -1
	case Right:
		return 0, 1
	}
	return 0, 0
}
