package evaluator

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/google/uuid"
	"github.com/matexlang/matex/internal/ast"
	"github.com/matexlang/matex/internal/config"
	"github.com/matexlang/matex/internal/number"
	"github.com/matexlang/matex/internal/tensor"
)

// NameEntry binds a name to either a value or a function definition. A
// non-nil Args slice marks a function; Expr is then the unevaluated body,
// otherwise a reduced value node.
type NameEntry struct {
	Args []*ast.Identifier
	Expr ast.Node
}

// IsFunction reports whether the entry defines a function.
func (e *NameEntry) IsFunction() bool { return e.Args != nil }

type frame struct {
	fn   string
	vars map[string]ast.Node
}

// Interp is one interpreter instance: a name table, seeded constants, alias
// rules and a call stack. Instances are independent; nothing is shared.
type Interp struct {
	ID  uuid.UUID
	Out io.Writer

	names    map[string]*NameEntry
	readOnly map[string]bool
	aliases  []aliasRule
	builtins map[string]*builtin
	commands map[string]command
	frames   []*frame

	formatLong bool
	maxDepth   int
	nargout    int
	depth      int
	warned     bool
	external   bool
}

// New builds an interpreter seeded with the standard constants. A nil opts is
// the default configuration.
func New(opts *Options) (*Interp, error) {
	if opts == nil {
		opts = &Options{}
	}
	if err := opts.validate(); err != nil {
		return nil, err
	}

	in := &Interp{
		ID:       uuid.New(),
		Out:      io.Discard,
		names:    map[string]*NameEntry{},
		readOnly: map[string]bool{},
		aliases:  opts.compileAliases(),
		maxDepth: config.MaxEvalDepth,
		nargout:  1,
	}
	if opts.EvalDepth > 0 {
		in.maxDepth = opts.EvalDepth
	}
	in.formatLong = opts.Format == "long"

	in.builtins = make(map[string]*builtin, len(builtins)+len(opts.Builtins))
	for name, b := range builtins {
		in.builtins[name] = b
	}
	for name, f := range opts.Builtins {
		in.builtins[name] = externalBuiltin(name, f)
	}
	in.commands = make(map[string]command, len(defaultCommands)+len(opts.Commands))
	for name, c := range defaultCommands {
		in.commands[name] = c
	}
	for name, f := range opts.Commands {
		f := f
		in.commands[name] = func(in *Interp, args []string) error { return f(in.Out, args) }
	}

	in.seed("pi", number.Pi())
	in.seed("e", number.E())
	in.seed("eps", number.Eps())
	in.seed("i", number.Imaginary())
	in.seed("j", number.Imaginary())
	in.seed("Inf", number.Infinity(1))
	in.seed("NaN", number.NaN())
	in.seed("true", number.Bool(true))
	in.seed("false", number.Bool(false))
	for name, text := range opts.Constants {
		n, err := number.Parse(text)
		if err != nil {
			return nil, fmt.Errorf("options: constant %q: invalid literal %q", name, text)
		}
		in.seed(name, n)
	}
	return in, nil
}

func (in *Interp) seed(name string, n number.Number) {
	in.names[name] = &NameEntry{Expr: &ast.NumberLiteral{Value: n}}
	in.readOnly[name] = true
}

// lookup resolves a name, innermost call frame first.
func (in *Interp) lookup(name string) (*NameEntry, bool) {
	if len(in.frames) > 0 {
		if v, ok := in.frames[len(in.frames)-1].vars[name]; ok {
			return &NameEntry{Expr: v}, true
		}
	}
	e, ok := in.names[name]
	return e, ok
}

// lookupValue resolves a name to a bound value, ignoring function entries.
func (in *Interp) lookupValue(name string) (ast.Node, bool) {
	e, ok := in.lookup(name)
	if !ok || e.IsFunction() {
		return nil, false
	}
	return e.Expr, true
}

func (in *Interp) store(name string, value ast.Node) error {
	if in.readOnly[name] {
		return errf(EvaluationError, "cannot assign to built-in constant '%s'", name)
	}
	if len(in.frames) > 0 {
		in.frames[len(in.frames)-1].vars[name] = value
		return nil
	}
	in.names[name] = &NameEntry{Expr: value}
	return nil
}

func (in *Interp) storeFunction(name string, args []*ast.Identifier, body ast.Node) error {
	if in.readOnly[name] {
		return errf(EvaluationError, "cannot assign to built-in constant '%s'", name)
	}
	if args == nil {
		args = []*ast.Identifier{}
	}
	in.names[name] = &NameEntry{Args: args, Expr: body}
	return nil
}

// Clear removes bindings. With no names it removes every non-constant
// binding; clearing a constant is an error.
func (in *Interp) Clear(names ...string) error {
	if len(names) == 0 {
		for name := range in.names {
			if !in.readOnly[name] {
				delete(in.names, name)
			}
		}
		return nil
	}
	for _, name := range names {
		if in.readOnly[name] {
			return errf(EvaluationError, "cannot clear built-in constant '%s'", name)
		}
		delete(in.names, name)
	}
	return nil
}

// Names returns the sorted non-constant binding names.
func (in *Interp) Names() []string {
	var out []string
	for name := range in.names {
		if !in.readOnly[name] {
			out = append(out, name)
		}
	}
	sort.Strings(out)
	return out
}

// Lookup exposes name resolution to embedders; the second result reports
// whether the name is bound.
func (in *Interp) Lookup(name string) (*NameEntry, bool) {
	e, ok := in.names[name]
	return e, ok
}

func (in *Interp) resolveBuiltin(name string) (*builtin, bool) {
	if b, ok := in.builtins[name]; ok {
		return b, true
	}
	for _, rule := range in.aliases {
		if rule.re.MatchString(name) {
			if b, ok := in.builtins[rule.target]; ok {
				return b, true
			}
		}
	}
	return nil, false
}

func (in *Interp) resolveCommand(name string) (command, bool) {
	if c, ok := in.commands[name]; ok {
		return c, true
	}
	for _, rule := range in.aliases {
		if rule.re.MatchString(name) {
			if c, ok := in.commands[rule.target]; ok {
				return c, true
			}
		}
	}
	return nil, false
}

// displayPlaces is the decimal-place rounding of the current format mode.
func (in *Interp) displayPlaces() int32 {
	if in.formatLong {
		return -1
	}
	return 4
}

func (in *Interp) renderValue(node ast.Node) string {
	switch v := node.(type) {
	case *ast.NumberLiteral:
		return v.Value.Text(in.displayPlaces())
	case *ast.StringLiteral:
		return "'" + strings.ReplaceAll(v.Value, "'", "''") + "'"
	case *ast.MatrixLiteral:
		if v.IsReduced() {
			return v.Value.Text(in.displayPlaces())
		}
	}
	return config.RenderPlaceholder
}

func (in *Interp) printf(format string, a ...interface{}) {
	fmt.Fprintf(in.Out, format, a...)
}

// valueTensor views a reduced node as a tensor, without evaluating anything.
func valueTensor(node ast.Node) (*tensor.Tensor, bool) {
	switch v := node.(type) {
	case *ast.NumberLiteral:
		return tensor.Scalar(v.Value), true
	case *ast.StringLiteral:
		return tensor.FromString(v.Value), true
	case *ast.MatrixLiteral:
		if v.IsReduced() {
			return v.Value, true
		}
	}
	return nil, false
}

// reduced wraps a tensor as a value node, demoting 1x1 results to a bare
// number.
func reduced(t *tensor.Tensor) ast.Node {
	if t.IsScalar() {
		return &ast.NumberLiteral{Value: t.First()}
	}
	return &ast.MatrixLiteral{Value: t}
}
