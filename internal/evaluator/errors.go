package evaluator

import (
	"errors"
	"fmt"

	"github.com/matexlang/matex/internal/parser"
	"github.com/matexlang/matex/internal/tensor"
)

// Kind classifies evaluation failures for callers that need more than text.
type Kind int

const (
	EvaluationError Kind = iota
	SyntaxError
	DimensionMismatch
	IndexOutOfBounds
)

func (k Kind) String() string {
	switch k {
	case SyntaxError:
		return "syntax error"
	case DimensionMismatch:
		return "dimension mismatch"
	case IndexOutOfBounds:
		return "index out of bounds"
	default:
		return "evaluation error"
	}
}

type Error struct {
	Kind Kind
	Msg  string
}

func (e *Error) Error() string { return e.Kind.String() + ": " + e.Msg }

func errf(kind Kind, format string, a ...interface{}) error {
	return &Error{Kind: kind, Msg: fmt.Sprintf(format, a...)}
}

// wrapErr lifts tensor-level failures into classified evaluation errors.
func wrapErr(err error) error {
	if err == nil {
		return nil
	}
	var ee *Error
	if errors.As(err, &ee) {
		return err
	}
	var pe *parser.Error
	if errors.As(err, &pe) {
		return &Error{Kind: SyntaxError, Msg: pe.Msg}
	}
	var se *tensor.ShapeError
	if errors.As(err, &se) {
		return &Error{Kind: DimensionMismatch, Msg: se.Msg}
	}
	var be *tensor.BoundsError
	if errors.As(err, &be) {
		return &Error{Kind: IndexOutOfBounds, Msg: be.Msg}
	}
	return &Error{Kind: EvaluationError, Msg: err.Error()}
}
