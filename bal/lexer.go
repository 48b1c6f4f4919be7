// Package bal implements the front-end for BAL (Baleybots Assembly
// Language): a lexer and parser that turn BAL source text into an AST,
// plus extraction of entity configurations and pipeline order.
package bal

import "fmt"

// TokenType represents the type of a lexer token.
type TokenType int

const (
	TokenEOF TokenType = iota
	TokenLBrace   // {
	TokenRBrace   // }
	TokenLBracket // [
	TokenRBracket // ]
	TokenColon    // :
	TokenComma    // ,
	TokenKeyword  // chain, parallel, when
	TokenIdent    // entity names
	TokenString   // "..."
	TokenNumber   // 123, -456
	TokenError    // unterminated string, illegal byte
)

var keywords = map[string]bool{
	"chain":    true,
	"parallel": true,
	"when":     true,
}

// Token represents a single token from the lexer.
type Token struct {
	Type    TokenType
	Literal string
	Pos     int // byte offset into the source
	Line    int // 1-based line number
}

func (t Token) String() string {
	return fmt.Sprintf("Token{%v, %q, %d}", t.Type, t.Literal, t.Pos)
}

// Lexer tokenizes BAL source input.
type Lexer struct {
	input   string
	pos     int
	readPos int
	ch      byte
	line    int
}

// NewLexer creates a new lexer for the given input.
func NewLexer(input string) *Lexer {
	l := &Lexer{input: input, line: 1}
	l.readChar()
	return l
}

func (l *Lexer) readChar() {
	if l.ch == '\n' {
		l.line++
	}
	if l.readPos >= len(l.input) {
		l.ch = 0
	} else {
		l.ch = l.input[l.readPos]
	}
	l.pos = l.readPos
	l.readPos++
}

func (l *Lexer) peekChar() byte {
	if l.readPos >= len(l.input) {
		return 0
	}
	return l.input[l.readPos]
}

func (l *Lexer) skipWhitespace() {
	for l.ch == ' ' || l.ch == '\t' || l.ch == '\n' || l.ch == '\r' {
		l.readChar()
	}
}

func (l *Lexer) skipComment() {
	// Skip to end of line
	for l.ch != 0 && l.ch != '\n' {
		l.readChar()
	}
}

// NextToken returns the next token from the input. It never fails:
// malformed input is reported as a TokenError token so the parser can
// turn it into a diagnostic instead of crashing.
func (l *Lexer) NextToken() Token {
	for {
		l.skipWhitespace()

		if l.ch == '#' {
			l.skipComment()
			continue
		}
		if l.ch == '/' && l.peekChar() == '/' {
			l.skipComment()
			continue
		}
		break
	}

	pos := l.pos
	line := l.line
	var tok Token

	switch l.ch {
	case 0:
		tok = Token{Type: TokenEOF, Pos: pos, Line: line}
	case '{':
		tok = Token{Type: TokenLBrace, Literal: "{", Pos: pos, Line: line}
		l.readChar()
	case '}':
		tok = Token{Type: TokenRBrace, Literal: "}", Pos: pos, Line: line}
		l.readChar()
	case '[':
		tok = Token{Type: TokenLBracket, Literal: "[", Pos: pos, Line: line}
		l.readChar()
	case ']':
		tok = Token{Type: TokenRBracket, Literal: "]", Pos: pos, Line: line}
		l.readChar()
	case ':':
		tok = Token{Type: TokenColon, Literal: ":", Pos: pos, Line: line}
		l.readChar()
	case ',':
		tok = Token{Type: TokenComma, Literal: ",", Pos: pos, Line: line}
		l.readChar()
	case '"':
		l.readChar() // consume opening quote
		literal, ok := l.readString('"')
		if !ok {
			return Token{Type: TokenError, Literal: "unterminated string", Pos: pos, Line: line}
		}
		tok = Token{Type: TokenString, Literal: literal, Pos: pos, Line: line}
	case '-':
		if isDigit(l.peekChar()) {
			l.readChar()
			num := "-" + l.readNumber()
			return Token{Type: TokenNumber, Literal: num, Pos: pos, Line: line}
		}
		l.readChar()
		return Token{Type: TokenError, Literal: "unexpected character '-'", Pos: pos, Line: line}
	default:
		if isDigit(l.ch) {
			num := l.readNumber()
			return Token{Type: TokenNumber, Literal: num, Pos: pos, Line: line}
		}
		if isIdentStart(l.ch) {
			ident := l.readIdent()
			typ := TokenIdent
			if keywords[ident] {
				typ = TokenKeyword
			}
			return Token{Type: typ, Literal: ident, Pos: pos, Line: line}
		}
		ch := l.ch
		l.readChar()
		return Token{Type: TokenError, Literal: fmt.Sprintf("unexpected character %q", string(ch)), Pos: pos, Line: line}
	}

	return tok
}

func (l *Lexer) readIdent() string {
	start := l.pos
	for isIdentChar(l.ch) {
		l.readChar()
	}
	return l.input[start:l.pos]
}

func (l *Lexer) readNumber() string {
	start := l.pos
	for isDigit(l.ch) {
		l.readChar()
	}
	return l.input[start:l.pos]
}

// readString reads until the closing quote, handling escapes. The second
// return value is false when the input ends before the string closes.
func (l *Lexer) readString(quote byte) (string, bool) {
	var result []byte
	for l.ch != 0 && l.ch != quote {
		if l.ch == '\\' {
			l.readChar()
			switch l.ch {
			case 'n':
				result = append(result, '\n')
			case 't':
				result = append(result, '\t')
			case 'r':
				result = append(result, '\r')
			case '\\':
				result = append(result, '\\')
			case '"':
				result = append(result, '"')
			default:
				result = append(result, l.ch)
			}
		} else {
			result = append(result, l.ch)
		}
		l.readChar()
	}
	if l.ch != quote {
		return "", false
	}
	l.readChar() // consume closing quote
	return string(result), true
}

// Identifiers are ASCII. Bytes >= 0x80 fall through to the error token
// rather than being classified byte by byte, which would split a
// multibyte rune into garbage identifiers.
func isIdentStart(ch byte) bool {
	return ch == '_' || (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z')
}

func isIdentChar(ch byte) bool {
	return isIdentStart(ch) || isDigit(ch) || ch == '-' || ch == '.'
}

func isDigit(ch byte) bool {
	return ch >= '0' && ch <= '9'
}

// Tokenize returns all tokens from the input, ending with an EOF token.
func Tokenize(input string) []Token {
	l := NewLexer(input)
	var tokens []Token
	for {
		tok := l.NextToken()
		tokens = append(tokens, tok)
		if tok.Type == TokenEOF {
			break
		}
	}
	return tokens
}
