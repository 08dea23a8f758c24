package evaluator

// Status is the outcome of running a chunk of source, ordered by severity.
type Status int

const (
	OK Status = iota
	Warning
	LexError
	ParseError
	EvalError
	External
)

func (s Status) String() string {
	switch s {
	case OK:
		return "ok"
	case Warning:
		return "warning"
	case LexError:
		return "lex error"
	case ParseError:
		return "parse error"
	case EvalError:
		return "evaluation error"
	case External:
		return "external"
	default:
		return "unknown"
	}
}
