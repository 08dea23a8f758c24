// Package matex is the embedding surface: a Session wraps one interpreter
// instance behind a small, stable API.
package matex

import (
	"errors"
	"io"

	"github.com/matexlang/matex/internal/ast"
	"github.com/matexlang/matex/internal/evaluator"
	"github.com/matexlang/matex/internal/parser"
	"github.com/matexlang/matex/internal/unparser"
)

// Status re-exports the interpreter run status.
type Status = evaluator.Status

const (
	OK         = evaluator.OK
	Warning    = evaluator.Warning
	LexError   = evaluator.LexError
	ParseError = evaluator.ParseError
	EvalError  = evaluator.EvalError
	External   = evaluator.External
)

// Options re-exports interpreter configuration.
type Options = evaluator.Options

// Session is one interpreter instance with its own name table. Sessions are
// independent of each other; a Session is not safe for concurrent use.
type Session struct {
	interp *evaluator.Interp
}

// New creates a session. A nil opts means defaults.
func New(opts *Options) (*Session, error) {
	in, err := evaluator.New(opts)
	if err != nil {
		return nil, err
	}
	return &Session{interp: in}, nil
}

// NewFromYAML creates a session configured from yaml option data.
func NewFromYAML(data []byte) (*Session, error) {
	opts, err := evaluator.ParseOptions(data)
	if err != nil {
		return nil, err
	}
	return New(opts)
}

// ID returns the unique identifier of this session.
func (s *Session) ID() string { return s.interp.ID.String() }

// SetOutput directs display output (unsuppressed results, disp, commands).
func (s *Session) SetOutput(w io.Writer) { s.interp.Out = w }

// Run evaluates a chunk of source. Display output goes to the session writer;
// the returned status reports the most severe thing that happened.
func (s *Session) Run(src string) (Status, error) {
	_, status, err := s.interp.Run(src)
	return status, err
}

// Evaluate runs a chunk of source and returns the text of its last value.
func (s *Session) Evaluate(src string) (string, error) {
	res, _, err := s.interp.Run(src)
	if err != nil {
		return "", err
	}
	if res == nil {
		return "", nil
	}
	return unparser.Text(res), nil
}

// Parse parses source without evaluating it.
func Parse(src string) (*ast.ExpressionList, error) {
	prog, errs := parser.Parse(src)
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return prog, nil
}

// Unparse renders source back from its parsed form.
func (s *Session) Unparse(src string) (string, error) {
	prog, err := Parse(src)
	if err != nil {
		return "", err
	}
	return unparser.Text(prog), nil
}

// UnparseMathML renders parsed source as MathML.
func (s *Session) UnparseMathML(src string, block bool) (string, error) {
	prog, err := Parse(src)
	if err != nil {
		return "", err
	}
	display := unparser.Inline
	if block {
		display = unparser.Block
	}
	return unparser.MathML(prog, display), nil
}

// Clear removes bindings; with no names, all non-constant bindings.
func (s *Session) Clear(names ...string) error { return s.interp.Clear(names...) }

// Names lists the session's variable and function names.
func (s *Session) Names() []string { return s.interp.Names() }
