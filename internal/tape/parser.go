package tape

import (
	"fmt"
	"strconv"
	"time"
)

// MaxCount bounds the repeat count of a single move command.
const MaxCount = 10000

// Parser parses .tape files into commands
type Parser struct {
	lexer   *Lexer
	curTok  Token
	peekTok Token
	errors  []string
}

// NewParser creates a new parser from a lexer
func NewParser(l *Lexer) *Parser {
	p := &Parser{lexer: l}
	p.nextToken()
	p.nextToken()
	return p
}

func (p *Parser) nextToken() {
	p.curTok = p.peekTok
	p.peekTok = p.lexer.NextToken()
}

// Parse parses the entire tape file and returns all valid commands.
// Invalid lines are skipped and reported through Errors.
func (p *Parser) Parse() []Command {
	var commands []Command

	for p.curTok.Type != TOKEN_EOF {
		if p.curTok.Type == TOKEN_NEWLINE {
			p.nextToken()
			continue
		}

		cmd, ok := p.parseCommand()
		if ok && p.expectEndOfLine() {
			commands = append(commands, cmd)
		}
		p.skipToNextLine()
	}

	return commands
}

func (p *Parser) parseCommand() (Command, bool) {
	tok := p.curTok
	cmd := Command{Line: tok.Line}

	if dir, ok := directionTokens[tok.Type]; ok {
		cmd.Type = CommandType_Move
		cmd.Direction = dir
		cmd.Count = 1
		if p.peekTok.Type == TOKEN_NUMBER {
			p.nextToken()
			n, ok := p.parseCount()
			if !ok {
				return cmd, false
			}
			cmd.Count = n
		}
		p.nextToken()
		return cmd, true
	}

	switch tok.Type {
	case TOKEN_GOTO:
		cmd.Type = CommandType_Goto
		p.nextToken()
		row, ok := p.parseInt()
		if !ok {
			return cmd, false
		}
		col, ok := p.parseInt()
		if !ok {
			return cmd, false
		}
		cmd.Row, cmd.Col = row, col
		return cmd, true

	case TOKEN_RELOAD, TOKEN_SNAPSHOT:
		cmd.Type = CommandType(tok.Type)
		p.nextToken()
		return cmd, true

	case TOKEN_SYNC:
		cmd.Type = CommandType_Sync
		p.nextToken()
		if p.curTok.Type != TOKEN_STRING {
			p.addError(fmt.Sprintf("Sync expects a string, got %s", p.curTok.Type))
			return cmd, false
		}
		cmd.Text = p.curTok.Literal
		p.nextToken()
		return cmd, true

	case TOKEN_SLEEP:
		cmd.Type = CommandType_Sleep
		p.nextToken()
		if p.curTok.Type != TOKEN_DURATION {
			p.addError(fmt.Sprintf("Sleep expects a duration like 500ms, got %q", p.curTok.Literal))
			return cmd, false
		}
		d, err := time.ParseDuration(p.curTok.Literal)
		if err != nil || d < 0 {
			p.addError(fmt.Sprintf("invalid duration %q", p.curTok.Literal))
			return cmd, false
		}
		cmd.Duration = d
		p.nextToken()
		return cmd, true
	}

	p.addError(fmt.Sprintf("unknown command %q", tok.Literal))
	return cmd, false
}

// parseCount reads a positive repeat count from the current token.
func (p *Parser) parseCount() (int, bool) {
	n, err := strconv.Atoi(p.curTok.Literal)
	if err != nil || n < 1 || n > MaxCount {
		p.addError(fmt.Sprintf("count must be between 1 and %d, got %q", MaxCount, p.curTok.Literal))
		return 0, false
	}
	return n, true
}

// parseInt reads an optionally negative integer and advances past it.
func (p *Parser) parseInt() (int, bool) {
	sign := 1
	if p.curTok.Type == TOKEN_MINUS {
		sign = -1
		p.nextToken()
	}
	if p.curTok.Type != TOKEN_NUMBER {
		p.addError(fmt.Sprintf("expected a number, got %q", p.curTok.Literal))
		return 0, false
	}
	n, err := strconv.Atoi(p.curTok.Literal)
	if err != nil {
		p.addError(fmt.Sprintf("invalid number %q", p.curTok.Literal))
		return 0, false
	}
	p.nextToken()
	return sign * n, true
}

func (p *Parser) expectEndOfLine() bool {
	if p.curTok.Type == TOKEN_NEWLINE || p.curTok.Type == TOKEN_EOF {
		return true
	}
	p.addError(fmt.Sprintf("unexpected %q after command", p.curTok.Literal))
	return false
}

func (p *Parser) skipToNextLine() {
	for p.curTok.Type != TOKEN_NEWLINE && p.curTok.Type != TOKEN_EOF {
		p.nextToken()
	}
}

func (p *Parser) addError(msg string) {
	p.errors = append(p.errors, fmt.Sprintf("line %d: %s", p.curTok.Line, msg))
}

// Errors returns all parse errors
func (p *Parser) Errors() []string {
	return p.errors
}

// ParseFile parses tape content and returns the commands and any errors
func ParseFile(content string) ([]Command, []string) {
	p := NewParser(NewLexer(content))
	commands := p.Parse()
	return commands, p.Errors()
}
