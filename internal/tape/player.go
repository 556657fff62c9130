package tape

import "fmt"

// Player steps through a parsed script one command at a time.
type Player struct {
	commands []Command
	index    int
}

// NewPlayer creates a new script player from a list of commands
func NewPlayer(commands []Command) *Player {
	return &Player{commands: commands}
}

// NextCommand returns the next command to execute without advancing.
// It returns nil once the script is finished.
func (p *Player) NextCommand() *Command {
	if p.index >= len(p.commands) {
		return nil
	}
	return &p.commands[p.index]
}

// Advance moves to the next command
func (p *Player) Advance() {
	if p.index < len(p.commands) {
		p.index++
	}
}

// IsFinished returns true if all commands have been executed
func (p *Player) IsFinished() bool {
	return p.index >= len(p.commands)
}

// Reset rewinds to the first command.
func (p *Player) Reset() {
	p.index = 0
}

// CurrentIndex returns the index of the next command
func (p *Player) CurrentIndex() int {
	return p.index
}

// TotalCommands returns the number of commands in the script
func (p *Player) TotalCommands() int {
	return len(p.commands)
}

// Progress returns playback progress as a percentage (0-100)
func (p *Player) Progress() int {
	if len(p.commands) == 0 {
		return 100
	}
	return p.index * 100 / len(p.commands)
}

// String returns a short status such as "3/10".
func (p *Player) String() string {
	return fmt.Sprintf("%d/%d", p.index, len(p.commands))
}
