package token

type Type string

const (
	ILLEGAL = "ILLEGAL"
	EOF     = "EOF"
	NEWLINE = "NEWLINE"

	IDENT  = "IDENT"
	NUMBER = "NUMBER"
	STRING = "STRING"

	// Operators
	ASSIGN        = "="
	PLUS          = "+"
	MINUS         = "-"
	ASTERISK      = "*"
	SLASH         = "/"
	BACKSLASH     = "\\"
	CARET         = "^"
	DOT_ASTERISK  = ".*"
	DOT_SLASH     = "./"
	DOT_CARET     = ".^"
	TRANSPOSE     = "'"
	DOT_TRANSPOSE = ".'"

	PLUS_ASSIGN     = "+="
	MINUS_ASSIGN    = "-="
	ASTERISK_ASSIGN = "*="
	SLASH_ASSIGN    = "/="
	CARET_ASSIGN    = "^="

	EQ     = "=="
	NOT_EQ = "~="
	LT     = "<"
	LE     = "<="
	GT     = ">"
	GE     = ">="

	AMP     = "&"
	PIPE    = "|"
	AMPAMP  = "&&"
	PIPEPIPE = "||"
	TILDE   = "~"
	BANG    = "!"

	// Delimiters
	LPAREN    = "("
	RPAREN    = ")"
	LBRACKET  = "["
	RBRACKET  = "]"
	COMMA     = ","
	SEMICOLON = ";"
	COLON     = ":"

	// Keywords
	END = "END"
)

type Token struct {
	Type    Type
	Literal string
	Line    int
	Column  int
	// SpaceBefore reports whether whitespace separated this token from the
	// previous one. Matrix rows need it to tell `[1 -2]` from `[1 - 2]`.
	SpaceBefore bool
}

var keywords = map[string]Type{
	"end": END,
}

// LookupIdent returns the keyword type for ident, or IDENT.
func LookupIdent(ident string) Type {
	if t, ok := keywords[ident]; ok {
		return t
	}
	return IDENT
}
