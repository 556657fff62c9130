package tape

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/Gaurav-Gosain/toroid/internal/viewport"
)

// CommandType represents the type of a tape command
type CommandType string

const (
	CommandType_Move     CommandType = "Move"
	CommandType_Goto     CommandType = "Goto"
	CommandType_Reload   CommandType = "Reload"
	CommandType_Sync     CommandType = "Sync"
	CommandType_Snapshot CommandType = "Snapshot"
	CommandType_Sleep    CommandType = "Sleep"
)

// Command represents a parsed tape command
type Command struct {
	Type CommandType

	Direction viewport.Direction // Move
	Count     int                // Move repetitions, at least 1
	Row, Col  int                // Goto
	Text      string             // Sync
	Duration  time.Duration      // Sleep

	Line int // Source line number
}

// String returns the command in tape syntax.
func (c *Command) String() string {
	switch c.Type {
	case CommandType_Move:
		name := directionKeyword(c.Direction)
		if c.Count > 1 {
			return fmt.Sprintf("%s %d", name, c.Count)
		}
		return name
	case CommandType_Goto:
		return fmt.Sprintf("Goto %d %d", c.Row, c.Col)
	case CommandType_Sync:
		return "Sync " + strconv.Quote(c.Text)
	case CommandType_Sleep:
		return "Sleep " + c.Duration.String()
	default:
		return string(c.Type)
	}
}

var directionTokens = map[TokenType]viewport.Direction{
	TOKEN_UP:    viewport.Up,
	TOKEN_DOWN:  viewport.Down,
	TOKEN_LEFT:  viewport.Left,
	TOKEN_RIGHT: viewport.Right,
}

// directionKeyword maps a direction back to its tape keyword, e.g. "Left".
func directionKeyword(d viewport.Direction) string {
	s := d.String()
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
