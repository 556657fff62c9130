package tape

import (
	"strconv"
	"unicode"
)

// Lexer tokenizes .tape file input
type Lexer struct {
	input   string
	pos     int  // current position
	nextPos int  // next position
	ch      byte // current character
	line    int
	column  int
}

// NewLexer creates a new Lexer for the given input
func NewLexer(input string) *Lexer {
	l := &Lexer{
		input: input,
		line:  1,
	}
	l.readChar()
	return l
}

func (l *Lexer) readChar() {
	if l.nextPos >= len(l.input) {
		l.ch = 0 // EOF
	} else {
		l.ch = l.input[l.nextPos]
	}

	l.pos = l.nextPos
	l.nextPos++
	l.column++
}

// skipWhitespace skips spaces and tabs (not newlines)
func (l *Lexer) skipWhitespace() {
	for l.ch == ' ' || l.ch == '\t' || l.ch == '\r' {
		l.readChar()
	}
}

func (l *Lexer) skipComment() {
	for l.ch != '\n' && l.ch != 0 {
		l.readChar()
	}
}

// readString reads a quoted string. Backtick strings are raw and may span
// lines. Double-quoted strings use Go escape syntax, so anything written by
// strconv.Quote reads back unchanged.
func (l *Lexer) readString(quote byte) string {
	l.readChar() // skip opening quote
	start := l.pos

	for l.ch != quote && l.ch != 0 {
		if l.ch == '\n' {
			l.line++
			l.column = 0
		}
		if l.ch == '\\' && quote != '`' {
			l.readChar()
			if l.ch == 0 {
				break
			}
		}
		l.readChar()
	}

	body := l.input[start:l.pos]
	if l.ch == quote {
		l.readChar() // skip closing quote
	}
	if quote == '`' {
		return body
	}
	if s, err := strconv.Unquote(`"` + body + `"`); err == nil {
		return s
	}
	// Malformed escapes or raw newlines: keep the text as written.
	return body
}

func (l *Lexer) readWhile(pred func(byte) bool) string {
	start := l.pos
	for l.ch != 0 && pred(l.ch) {
		l.readChar()
	}
	return l.input[start:l.pos]
}

// NextToken returns the next token in the input
func (l *Lexer) NextToken() Token {
	l.skipWhitespace()

	tok := Token{Line: l.line, Column: l.column}

	switch l.ch {
	case 0:
		tok.Type = TOKEN_EOF

	case '\n':
		tok.Type = TOKEN_NEWLINE
		tok.Literal = "\n"
		l.readChar()
		l.line++
		l.column = 1

	case '#':
		l.skipComment()
		return l.NextToken()

	case '-':
		tok.Type = TOKEN_MINUS
		tok.Literal = "-"
		l.readChar()

	case '"', '`':
		tok.Type = TOKEN_STRING
		tok.Literal = l.readString(l.ch)

	default:
		switch {
		case isDigit(l.ch):
			num := l.readWhile(func(c byte) bool { return isDigit(c) || c == '.' })
			if isLetter(l.ch) {
				// A unit suffix makes it a duration (500ms, 1.5s, 1m30s).
				tok.Type = TOKEN_DURATION
				tok.Literal = num + l.readWhile(isDurationChar)
			} else {
				tok.Type = TOKEN_NUMBER
				tok.Literal = num
			}
		case isIdentifierChar(l.ch):
			tok.Literal = l.readWhile(isIdentifierChar)
			tok.Type = LookupKeyword(tok.Literal)
		default:
			tok.Type = TOKEN_ILLEGAL
			tok.Literal = string(l.ch)
			l.readChar()
		}
	}

	return tok
}

func isDigit(ch byte) bool {
	return ch >= '0' && ch <= '9'
}

func isLetter(ch byte) bool {
	return unicode.IsLetter(rune(ch))
}

func isDurationChar(ch byte) bool {
	return isLetter(ch) || isDigit(ch) || ch == '.'
}

func isIdentifierChar(ch byte) bool {
	return isLetter(ch) || isDigit(ch) || ch == '_'
}

// Tokenize returns all tokens from the input (useful for testing)
func Tokenize(input string) []Token {
	l := NewLexer(input)
	var tokens []Token
	for {
		tok := l.NextToken()
		tokens = append(tokens, tok)
		if tok.Type == TOKEN_EOF {
			break
		}
	}
	return tokens
}
