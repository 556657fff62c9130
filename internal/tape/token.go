package tape

// TokenType represents the type of a token in a .tape file
type TokenType string

const (
	// Special tokens
	TOKEN_EOF     TokenType = "EOF"
	TOKEN_ILLEGAL TokenType = "ILLEGAL"
	TOKEN_NEWLINE TokenType = "NEWLINE"

	// Literals
	TOKEN_STRING     TokenType = "STRING"
	TOKEN_NUMBER     TokenType = "NUMBER"
	TOKEN_DURATION   TokenType = "DURATION"
	TOKEN_IDENTIFIER TokenType = "IDENTIFIER"
	TOKEN_MINUS      TokenType = "MINUS"

	// Commands - Navigation
	TOKEN_UP    TokenType = "Up"
	TOKEN_DOWN  TokenType = "Down"
	TOKEN_LEFT  TokenType = "Left"
	TOKEN_RIGHT TokenType = "Right"
	TOKEN_GOTO  TokenType = "Goto"

	// Commands - Source
	TOKEN_RELOAD TokenType = "Reload"
	TOKEN_SYNC   TokenType = "Sync"

	// Commands - Output and timing
	TOKEN_SNAPSHOT TokenType = "Snapshot"
	TOKEN_SLEEP    TokenType = "Sleep"
)

// Token represents a lexical token
type Token struct {
	Type    TokenType
	Literal string
	Line    int
	Column  int
}

// IsCommand returns true if the token type starts a command
func (tt TokenType) IsCommand() bool {
	switch tt {
	case TOKEN_UP, TOKEN_DOWN, TOKEN_LEFT, TOKEN_RIGHT, TOKEN_GOTO,
		TOKEN_RELOAD, TOKEN_SYNC, TOKEN_SNAPSHOT, TOKEN_SLEEP:
		return true
	}
	return false
}

// IsNavigationKey returns true if the token moves the center one step
func (tt TokenType) IsNavigationKey() bool {
	switch tt {
	case TOKEN_UP, TOKEN_DOWN, TOKEN_LEFT, TOKEN_RIGHT:
		return true
	}
	return false
}

// KeywordTokenMap maps string keywords to token types
var KeywordTokenMap = map[string]TokenType{
	"Up":       TOKEN_UP,
	"Down":     TOKEN_DOWN,
	"Left":     TOKEN_LEFT,
	"Right":    TOKEN_RIGHT,
	"Goto":     TOKEN_GOTO,
	"Reload":   TOKEN_RELOAD,
	"Sync":     TOKEN_SYNC,
	"Snapshot": TOKEN_SNAPSHOT,
	"Sleep":    TOKEN_SLEEP,
}

// LookupKeyword returns the token type for a keyword, or TOKEN_IDENTIFIER if not a keyword
func LookupKeyword(ident string) TokenType {
	if tt, ok := KeywordTokenMap[ident]; ok {
		return tt
	}
	return TOKEN_IDENTIFIER
}
