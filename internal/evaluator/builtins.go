package evaluator

import (
	"github.com/matexlang/matex/internal/ast"
	"github.com/matexlang/matex/internal/number"
	"github.com/matexlang/matex/internal/tensor"
	"github.com/matexlang/matex/internal/unparser"
)

// builtin is one built-in function. Exactly one of mapper, fn and selective
// is set: mappers broadcast a scalar function over the argument element-wise,
// fn receives evaluated tensors, and selective builtins receive the raw call
// to control evaluation of their arguments themselves.
type builtin struct {
	name    string
	minArgs int
	maxArgs int // -1 is variadic

	mapper    func(number.Number) (number.Number, error)
	fn        func(in *Interp, args []*tensor.Tensor) (ast.Node, error)
	selective func(in *Interp, call *ast.CallExpression) (ast.Node, error)
}

var builtins = map[string]*builtin{}

func register(b *builtin) { builtins[b.name] = b }

// BuiltinFunc is an externally supplied built-in function over evaluated
// arguments. A nil result tensor means no value.
type BuiltinFunc func(args []*tensor.Tensor) (*tensor.Tensor, error)

// externalBuiltin wraps an option-supplied function as a table entry.
func externalBuiltin(name string, f BuiltinFunc) *builtin {
	return &builtin{
		name: name, minArgs: 0, maxArgs: -1,
		fn: func(in *Interp, args []*tensor.Tensor) (ast.Node, error) {
			out, err := f(args)
			if err != nil {
				return nil, wrapErr(err)
			}
			if out == nil {
				return nil, nil
			}
			return reduced(out), nil
		},
	}
}

func mapper(name string, f func(number.Number) number.Number) {
	register(&builtin{
		name: name, minArgs: 1, maxArgs: 1,
		mapper: func(n number.Number) (number.Number, error) { return f(n), nil },
	})
}

func fn(name string, min, max int, f func(*Interp, []*tensor.Tensor) (ast.Node, error)) {
	register(&builtin{name: name, minArgs: min, maxArgs: max, fn: f})
}

func (in *Interp) callBuiltin(name string, b *builtin, call *ast.CallExpression) (ast.Node, error) {
	n := len(call.Arguments)
	if n < b.minArgs || (b.maxArgs >= 0 && n > b.maxArgs) {
		return nil, errf(EvaluationError, "wrong number of arguments for '%s'", name)
	}
	if b.selective != nil {
		return b.selective(in, call)
	}
	args := make([]*tensor.Tensor, n)
	for i, arg := range call.Arguments {
		t, err := in.evalTensor(arg)
		if err != nil {
			return nil, err
		}
		args[i] = t
	}
	if b.mapper != nil {
		out, err := args[0].Map(b.mapper)
		if err != nil {
			return nil, wrapErr(err)
		}
		return reduced(out), nil
	}
	return b.fn(in, args)
}

func init() {
	mapper("sin", number.Number.Sin)
	mapper("cos", number.Number.Cos)
	mapper("tan", number.Number.Tan)
	mapper("asin", number.Number.Asin)
	mapper("acos", number.Number.Acos)
	mapper("atan", number.Number.Atan)
	mapper("exp", number.Number.Exp)
	mapper("log", number.Number.Log)
	mapper("log2", number.Number.Log2)
	mapper("log10", number.Number.Log10)
	mapper("sqrt", number.Number.Sqrt)
	mapper("abs", number.Number.Abs)
	mapper("floor", number.Number.Floor)
	mapper("ceil", number.Number.Ceil)
	mapper("round", number.Number.Round)
	mapper("fix", number.Number.Fix)
	mapper("real", number.Number.RealPart)
	mapper("imag", number.Number.ImagPart)
	mapper("conj", number.Number.Conj)
	mapper("angle", number.Number.Angle)
	mapper("gamma", number.Number.Gamma)
	mapper("factorial", number.Number.Factorial)
	mapper("double", number.Number.AsReal)
	mapper("not", number.Number.Not)

	register(&builtin{
		name: "logical", minArgs: 1, maxArgs: 1,
		mapper: func(n number.Number) (number.Number, error) {
			if n.IsNaN() {
				return n, errf(EvaluationError, "NaN cannot be converted to logical")
			}
			return number.Bool(n.True()), nil
		},
	})

	fn("size", 1, 2, builtinSize)
	fn("length", 1, 1, builtinLength)
	fn("numel", 1, 1, func(in *Interp, args []*tensor.Tensor) (ast.Node, error) {
		return scalarResult(int64(args[0].Len())), nil
	})
	fn("ndims", 1, 1, func(in *Interp, args []*tensor.Tensor) (ast.Node, error) {
		return scalarResult(int64(args[0].Rank())), nil
	})
	fn("zeros", 0, -1, func(in *Interp, args []*tensor.Tensor) (ast.Node, error) {
		return builtinFill(args, number.Zero())
	})
	fn("ones", 0, -1, func(in *Interp, args []*tensor.Tensor) (ast.Node, error) {
		return builtinFill(args, number.One())
	})
	fn("eye", 0, 2, builtinEye)
	fn("linspace", 2, 3, builtinLinspace)
	fn("sum", 1, 1, func(in *Interp, args []*tensor.Tensor) (ast.Node, error) {
		return builtinFold(args[0], number.Zero(), number.Number.Add)
	})
	fn("prod", 1, 1, func(in *Interp, args []*tensor.Tensor) (ast.Node, error) {
		return builtinFold(args[0], number.One(), number.Number.Mul)
	})
	fn("min", 1, 2, func(in *Interp, args []*tensor.Tensor) (ast.Node, error) {
		return builtinExtremum(in, args, func(a, b number.Number) bool { return a.Compare(b) < 0 })
	})
	fn("max", 1, 2, func(in *Interp, args []*tensor.Tensor) (ast.Node, error) {
		return builtinExtremum(in, args, func(a, b number.Number) bool { return a.Compare(b) > 0 })
	})
	fn("transpose", 1, 1, func(in *Interp, args []*tensor.Tensor) (ast.Node, error) {
		if args[0].Rank() > 2 {
			return nil, errf(DimensionMismatch, "transpose is only defined for matrices")
		}
		return reduced(args[0].Transpose(false)), nil
	})
	fn("reshape", 2, -1, builtinReshape)
	fn("isreal", 1, 1, func(in *Interp, args []*tensor.Tensor) (ast.Node, error) {
		for _, n := range args[0].Elements() {
			if !n.IsReal() {
				return boolResult(false), nil
			}
		}
		return boolResult(true), nil
	})
	fn("ischar", 1, 1, func(in *Interp, args []*tensor.Tensor) (ast.Node, error) {
		return boolResult(args[0].IsChar()), nil
	})
	fn("islogical", 1, 1, func(in *Interp, args []*tensor.Tensor) (ast.Node, error) {
		return boolResult(args[0].IsLogical()), nil
	})
	fn("isempty", 1, 1, func(in *Interp, args []*tensor.Tensor) (ast.Node, error) {
		return boolResult(args[0].IsEmpty()), nil
	})
	fn("disp", 1, 1, func(in *Interp, args []*tensor.Tensor) (ast.Node, error) {
		in.printf("%s\n", in.renderValue(reduced(args[0])))
		return nil, nil
	})
	fn("num2str", 1, 1, func(in *Interp, args []*tensor.Tensor) (ast.Node, error) {
		t := args[0]
		if t.IsScalar() {
			return &ast.StringLiteral{Value: t.First().Text(in.displayPlaces())}, nil
		}
		return &ast.StringLiteral{Value: t.Text(in.displayPlaces())}, nil
	})
	fn("mod", 2, 2, func(in *Interp, args []*tensor.Tensor) (ast.Node, error) {
		out, err := tensor.Zip(args[0], args[1], lift(number.Number.Mod))
		if err != nil {
			return nil, wrapErr(err)
		}
		return reduced(out), nil
	})
	fn("rem", 2, 2, func(in *Interp, args []*tensor.Tensor) (ast.Node, error) {
		out, err := tensor.Zip(args[0], args[1], lift(number.Number.Rem))
		if err != nil {
			return nil, wrapErr(err)
		}
		return reduced(out), nil
	})
	fn("deal", 1, -1, builtinDeal)

	register(&builtin{name: "exist", minArgs: 1, maxArgs: 1, selective: builtinExist})
	register(&builtin{name: "unparse", minArgs: 1, maxArgs: 1, selective: builtinUnparse})
	register(&builtin{name: "mathml", minArgs: 1, maxArgs: 2, selective: builtinMathML})
}

func scalarResult(v int64) ast.Node {
	return &ast.NumberLiteral{Value: number.FromInt(v)}
}

func boolResult(b bool) ast.Node {
	return &ast.NumberLiteral{Value: number.Bool(b)}
}

// builtinSize returns the dimension vector, a single dimension with a second
// argument, or one dimension per requested output in a multiple assignment.
func builtinSize(in *Interp, args []*tensor.Tensor) (ast.Node, error) {
	t := args[0]
	if len(args) == 2 {
		k, err := dimArg(args[1])
		if err != nil {
			return nil, err
		}
		dims := t.Dims()
		if k > len(dims) {
			return scalarResult(1), nil
		}
		return scalarResult(int64(dims[k-1])), nil
	}
	dims := t.Dims()
	if in.nargout > 1 {
		out := make([]ast.Node, in.nargout)
		for k := 0; k < in.nargout; k++ {
			switch {
			case k == in.nargout-1 && in.nargout < len(dims):
				// The last output absorbs the remaining dimensions.
				rest := 1
				for _, d := range dims[k:] {
					rest *= d
				}
				out[k] = scalarResult(int64(rest))
			case k >= len(dims):
				out[k] = scalarResult(1)
			default:
				out[k] = scalarResult(int64(dims[k]))
			}
		}
		return &ast.ReturnList{Values: out}, nil
	}
	data := make([]number.Number, len(dims))
	for i, d := range dims {
		data[i] = number.FromInt(int64(d))
	}
	return reduced(tensor.Row(data)), nil
}

func builtinLength(in *Interp, args []*tensor.Tensor) (ast.Node, error) {
	t := args[0]
	if t.IsEmpty() {
		return scalarResult(0), nil
	}
	max := 0
	for _, d := range t.Dims() {
		if d > max {
			max = d
		}
	}
	return scalarResult(int64(max)), nil
}

func dimArg(t *tensor.Tensor) (int, error) {
	if !t.IsScalar() || !t.First().IsInteger() || t.First().Int() < 1 {
		return 0, errf(EvaluationError, "dimension argument must be a positive integer")
	}
	return int(t.First().Int()), nil
}

// fillDims interprets size arguments: none is 1x1, one scalar n is n x n,
// otherwise one size per argument (vectors contribute all their elements).
func fillDims(args []*tensor.Tensor) ([]int, error) {
	var sizes []int
	for _, a := range args {
		for _, n := range a.Elements() {
			if !n.IsInteger() || n.Int() < 0 {
				return nil, errf(EvaluationError, "size arguments must be non-negative integers")
			}
			sizes = append(sizes, int(n.Int()))
		}
	}
	switch len(sizes) {
	case 0:
		return []int{1, 1}, nil
	case 1:
		return []int{sizes[0], sizes[0]}, nil
	}
	return sizes, nil
}

func builtinFill(args []*tensor.Tensor, v number.Number) (ast.Node, error) {
	dims, err := fillDims(args)
	if err != nil {
		return nil, err
	}
	return reduced(tensor.FillDims(dims, v)), nil
}

func builtinEye(in *Interp, args []*tensor.Tensor) (ast.Node, error) {
	dims, err := fillDims(args)
	if err != nil {
		return nil, err
	}
	if len(dims) != 2 {
		return nil, errf(EvaluationError, "eye builds matrices only")
	}
	out := tensor.FillDims(dims, number.Zero())
	diag := dims[0]
	if dims[1] < diag {
		diag = dims[1]
	}
	for k := 1; k <= diag; k++ {
		var err error
		out, err = out.SetSubs([][]int{{k}, {k}}, tensor.Scalar(number.One()))
		if err != nil {
			return nil, wrapErr(err)
		}
	}
	return reduced(out), nil
}

func builtinLinspace(in *Interp, args []*tensor.Tensor) (ast.Node, error) {
	if !args[0].IsScalar() || !args[1].IsScalar() {
		return nil, errf(DimensionMismatch, "linspace endpoints must be scalars")
	}
	a, b := args[0].First(), args[1].First()
	count := int64(100)
	if len(args) == 3 {
		n, err := dimArg(args[2])
		if err != nil {
			return nil, err
		}
		count = int64(n)
	}
	if count == 1 {
		return reduced(tensor.Scalar(b)), nil
	}
	step := b.Sub(a).Div(number.FromInt(count - 1))
	data := make([]number.Number, count)
	acc := a
	for i := range data {
		data[i] = acc
		acc = acc.Add(step)
	}
	data[count-1] = b
	return reduced(tensor.Row(data)), nil
}

// builtinFold reduces vectors to a scalar and matrices column-wise to a row.
func builtinFold(t *tensor.Tensor, init number.Number, f func(number.Number, number.Number) number.Number) (ast.Node, error) {
	if t.IsEmpty() {
		return &ast.NumberLiteral{Value: init}, nil
	}
	if t.IsVector() {
		return &ast.NumberLiteral{Value: t.Reduce(init, f)}, nil
	}
	rows, cols := t.Rows(), t.Cols()
	data := make([]number.Number, cols)
	for c := 0; c < cols; c++ {
		acc := init
		for r := 0; r < rows; r++ {
			v, err := t.At(r + c*rows + 1)
			if err != nil {
				return nil, wrapErr(err)
			}
			acc = f(acc, v)
		}
		data[c] = acc
	}
	return reduced(tensor.Row(data)), nil
}

func builtinExtremum(in *Interp, args []*tensor.Tensor, better func(a, b number.Number) bool) (ast.Node, error) {
	if len(args) == 2 {
		out, err := tensor.Zip(args[0], args[1], func(x, y number.Number) (number.Number, error) {
			if better(y, x) {
				return y, nil
			}
			return x, nil
		})
		if err != nil {
			return nil, wrapErr(err)
		}
		return reduced(out), nil
	}

	t := args[0]
	if t.IsEmpty() {
		return reduced(tensor.Empty()), nil
	}
	if t.IsVector() {
		els := t.Elements()
		best, bestAt := els[0], 1
		for i, n := range els[1:] {
			if better(n, best) {
				best, bestAt = n, i+2
			}
		}
		if in.nargout > 1 {
			return &ast.ReturnList{Values: []ast.Node{
				&ast.NumberLiteral{Value: best},
				scalarResult(int64(bestAt)),
			}}, nil
		}
		return &ast.NumberLiteral{Value: best}, nil
	}

	rows, cols := t.Rows(), t.Cols()
	data := make([]number.Number, cols)
	for c := 0; c < cols; c++ {
		best, err := t.At(c*rows + 1)
		if err != nil {
			return nil, wrapErr(err)
		}
		for r := 1; r < rows; r++ {
			v, err := t.At(r + c*rows + 1)
			if err != nil {
				return nil, wrapErr(err)
			}
			if better(v, best) {
				best = v
			}
		}
		data[c] = best
	}
	return reduced(tensor.Row(data)), nil
}

func builtinReshape(in *Interp, args []*tensor.Tensor) (ast.Node, error) {
	if len(args) == 2 && args[1].IsScalar() {
		return nil, errf(EvaluationError, "reshape needs at least two target sizes")
	}
	dims, err := fillDims(args[1:])
	if err != nil {
		return nil, err
	}
	out, err := args[0].Reshape(dims)
	if err != nil {
		return nil, wrapErr(err)
	}
	return reduced(out), nil
}

// builtinDeal spreads its arguments across the requested outputs; one
// argument replicates.
func builtinDeal(in *Interp, args []*tensor.Tensor) (ast.Node, error) {
	n := in.nargout
	if n < 1 {
		n = 1
	}
	if len(args) != 1 && len(args) != n {
		return nil, errf(EvaluationError, "deal: %d outputs requested but %d inputs given", n, len(args))
	}
	out := make([]ast.Node, n)
	for i := range out {
		src := args[0]
		if len(args) > 1 {
			src = args[i]
		}
		out[i] = reduced(src)
	}
	if n == 1 {
		return out[0], nil
	}
	return &ast.ReturnList{Values: out}, nil
}

// builtinExist checks a name without evaluating it, so probing an unbound
// identifier is not an error.
func builtinExist(in *Interp, call *ast.CallExpression) (ast.Node, error) {
	var name string
	switch arg := call.Arguments[0].(type) {
	case *ast.Identifier:
		name = arg.Value
	case *ast.StringLiteral:
		name = arg.Value
	default:
		return nil, errf(EvaluationError, "exist expects a name")
	}
	if _, ok := in.lookup(name); ok {
		return boolResult(true), nil
	}
	if _, ok := in.resolveBuiltin(name); ok {
		return boolResult(true), nil
	}
	return boolResult(false), nil
}

// builtinUnparse renders its argument back to source text, untouched.
func builtinUnparse(in *Interp, call *ast.CallExpression) (ast.Node, error) {
	return &ast.StringLiteral{Value: unparser.Text(call.Arguments[0])}, nil
}

func builtinMathML(in *Interp, call *ast.CallExpression) (ast.Node, error) {
	display := unparser.Block
	if len(call.Arguments) == 2 {
		mode, ok := call.Arguments[1].(*ast.StringLiteral)
		if !ok {
			return nil, errf(EvaluationError, "mathml display mode must be 'block' or 'inline'")
		}
		switch mode.Value {
		case "block":
			display = unparser.Block
		case "inline":
			display = unparser.Inline
		default:
			return nil, errf(EvaluationError, "mathml display mode must be 'block' or 'inline'")
		}
	}
	return &ast.StringLiteral{Value: unparser.MathML(call.Arguments[0], display)}, nil
}
