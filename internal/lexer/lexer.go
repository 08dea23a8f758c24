package lexer

import (
	"unicode"
	"unicode/utf8"

	"github.com/matexlang/matex/internal/token"
)

type Lexer struct {
	input        string
	position     int  // current position in input (points to current char)
	readPosition int  // current reading position in input (after current char)
	ch           rune // current char under examination
	line         int
	column       int
	// prevType drives the transpose-vs-string decision for a quote: after a
	// value-like token a quote is the transpose operator, otherwise it opens
	// a string.
	prevType token.Type
}

func New(input string) *Lexer {
	l := &Lexer{input: input, line: 1, column: 0}
	l.readChar()
	return l
}

func (l *Lexer) readChar() {
	if l.ch == '\n' {
		l.line++
		l.column = 0
	}
	if l.readPosition >= len(l.input) {
		l.ch = 0
		l.position = l.readPosition
		l.readPosition++
		l.column++
		return
	}
	r, w := utf8.DecodeRuneInString(l.input[l.readPosition:])
	l.ch = r
	l.position = l.readPosition
	l.readPosition += w
	l.column++
}

func (l *Lexer) peekChar() rune {
	if l.readPosition >= len(l.input) {
		return 0
	}
	r, _ := utf8.DecodeRuneInString(l.input[l.readPosition:])
	return r
}

func (l *Lexer) peekCharAt(n int) rune {
	pos := l.readPosition
	for i := 0; i < n; i++ {
		if pos >= len(l.input) {
			return 0
		}
		_, w := utf8.DecodeRuneInString(l.input[pos:])
		pos += w
	}
	if pos >= len(l.input) {
		return 0
	}
	r, _ := utf8.DecodeRuneInString(l.input[pos:])
	return r
}

func (l *Lexer) NextToken() token.Token {
	space := l.skipSpaceAndComments()

	tok := token.Token{Line: l.line, Column: l.column, SpaceBefore: space}

	switch {
	case l.ch == 0:
		tok.Type = token.EOF
	case l.ch == '\n':
		tok.Type = token.NEWLINE
		tok.Literal = "\n"
		l.readChar()
	case l.ch == '\'':
		if l.transposable() {
			tok.Type = token.TRANSPOSE
			tok.Literal = "'"
			l.readChar()
		} else {
			return l.readString(tok)
		}
	case isDigit(l.ch) || (l.ch == '.' && isDigit(l.peekChar())):
		return l.readNumber(tok)
	case isLetter(l.ch):
		lit := l.readIdentifier()
		tok.Type = token.LookupIdent(lit)
		tok.Literal = lit
		l.prevType = tok.Type
		return tok
	default:
		l.readOperator(&tok)
	}

	l.prevType = tok.Type
	return tok
}

// skipSpaceAndComments consumes spaces, %-comments and ...-continuations,
// reporting whether anything was skipped.
func (l *Lexer) skipSpaceAndComments() bool {
	skipped := false
	for {
		switch {
		case l.ch == ' ' || l.ch == '\t' || l.ch == '\r':
			l.readChar()
			skipped = true
		case l.ch == '%':
			for l.ch != '\n' && l.ch != 0 {
				l.readChar()
			}
			skipped = true
		case l.ch == '.' && l.peekChar() == '.' && l.peekCharAt(1) == '.':
			// Line continuation: swallow through the newline.
			for l.ch != '\n' && l.ch != 0 {
				l.readChar()
			}
			if l.ch == '\n' {
				l.readChar()
			}
			skipped = true
		default:
			return skipped
		}
	}
}

func (l *Lexer) transposable() bool {
	switch l.prevType {
	case token.IDENT, token.NUMBER, token.STRING, token.RPAREN, token.RBRACKET,
		token.END, token.TRANSPOSE, token.DOT_TRANSPOSE:
		return true
	}
	return false
}

func (l *Lexer) readString(tok token.Token) token.Token {
	l.readChar() // opening quote
	var out []rune
	for {
		if l.ch == 0 || l.ch == '\n' {
			tok.Type = token.ILLEGAL
			tok.Literal = "unterminated string"
			l.prevType = token.ILLEGAL
			return tok
		}
		if l.ch == '\'' {
			if l.peekChar() == '\'' {
				out = append(out, '\'')
				l.readChar()
				l.readChar()
				continue
			}
			l.readChar() // closing quote
			break
		}
		out = append(out, l.ch)
		l.readChar()
	}
	tok.Type = token.STRING
	tok.Literal = string(out)
	l.prevType = token.STRING
	return tok
}

func (l *Lexer) readNumber(tok token.Token) token.Token {
	start := l.position
	for isDigit(l.ch) {
		l.readChar()
	}
	if l.ch == '.' && isDigit(l.peekChar()) {
		l.readChar()
		for isDigit(l.ch) {
			l.readChar()
		}
	}
	if l.ch == 'e' || l.ch == 'E' {
		next := l.peekChar()
		if isDigit(next) || ((next == '+' || next == '-') && isDigit(l.peekCharAt(1))) {
			l.readChar()
			if l.ch == '+' || l.ch == '-' {
				l.readChar()
			}
			for isDigit(l.ch) {
				l.readChar()
			}
		}
	}
	if (l.ch == 'i' || l.ch == 'j') && !isLetter(l.peekChar()) && !isDigit(l.peekChar()) {
		l.readChar()
	}
	tok.Type = token.NUMBER
	tok.Literal = l.input[start:l.position]
	l.prevType = token.NUMBER
	return tok
}

func (l *Lexer) readIdentifier() string {
	start := l.position
	for isLetter(l.ch) || isDigit(l.ch) {
		l.readChar()
	}
	return l.input[start:l.position]
}

func (l *Lexer) readOperator(tok *token.Token) {
	two := string(l.ch) + string(l.peekChar())
	switch two {
	case "==", "~=", "<=", ">=", "&&", "||", "+=", "-=", "*=", "/=", "^=", ".*", "./", ".^", ".'":
		tok.Type = token.Type(two)
		tok.Literal = two
		l.readChar()
		l.readChar()
		return
	}
	switch l.ch {
	case '=':
		tok.Type = token.ASSIGN
	case '+':
		tok.Type = token.PLUS
	case '-':
		tok.Type = token.MINUS
	case '*':
		tok.Type = token.ASTERISK
	case '/':
		tok.Type = token.SLASH
	case '\\':
		tok.Type = token.BACKSLASH
	case '^':
		tok.Type = token.CARET
	case '<':
		tok.Type = token.LT
	case '>':
		tok.Type = token.GT
	case '&':
		tok.Type = token.AMP
	case '|':
		tok.Type = token.PIPE
	case '~':
		tok.Type = token.TILDE
	case '!':
		tok.Type = token.BANG
	case '(':
		tok.Type = token.LPAREN
	case ')':
		tok.Type = token.RPAREN
	case '[':
		tok.Type = token.LBRACKET
	case ']':
		tok.Type = token.RBRACKET
	case ',':
		tok.Type = token.COMMA
	case ';':
		tok.Type = token.SEMICOLON
	case ':':
		tok.Type = token.COLON
	default:
		tok.Type = token.ILLEGAL
	}
	tok.Literal = string(l.ch)
	l.readChar()
}

func isLetter(ch rune) bool {
	return ch == '_' || unicode.IsLetter(ch)
}

func isDigit(ch rune) bool {
	return ch >= '0' && ch <= '9'
}
