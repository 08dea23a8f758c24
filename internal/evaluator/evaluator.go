package evaluator

import (
	"errors"

	"github.com/matexlang/matex/internal/ast"
	"github.com/matexlang/matex/internal/config"
	"github.com/matexlang/matex/internal/number"
	"github.com/matexlang/matex/internal/parser"
	"github.com/matexlang/matex/internal/tensor"
)

const maxRangeLen = 1 << 24

// Run parses and evaluates a chunk of source, reporting the most severe
// thing that happened. Display output goes to in.Out.
func (in *Interp) Run(src string) (ast.Node, Status, error) {
	prog, errs := parser.Parse(src)
	if len(errs) > 0 {
		var pe *parser.Error
		if errors.As(errs[0], &pe) && pe.Lexical {
			return nil, LexError, wrapErr(errs[0])
		}
		return nil, ParseError, wrapErr(errs[0])
	}

	in.warned = false
	in.external = false
	res, err := in.Eval(prog)
	if err != nil {
		return nil, EvalError, err
	}
	switch {
	case in.warned:
		return res, Warning, nil
	case in.external:
		return res, External, nil
	}
	return res, OK, nil
}

// Eval reduces a node to a value node. Results are literal-bearing nodes, so
// they can be stored, re-indexed and rendered like any other tree.
func (in *Interp) Eval(node ast.Node) (ast.Node, error) {
	in.depth++
	defer func() { in.depth-- }()
	if in.depth > in.maxDepth {
		return nil, errf(EvaluationError, "maximum recursion depth exceeded")
	}

	switch n := node.(type) {
	case *ast.ExpressionList:
		return in.evalList(n)
	case *ast.NumberLiteral:
		return n, nil
	case *ast.StringLiteral:
		return n, nil
	case *ast.MatrixLiteral:
		if n.IsReduced() {
			return n, nil
		}
		return in.evalMatrix(n)
	case *ast.Identifier:
		return in.evalIdentifier(n)
	case *ast.RangeExpression:
		return in.evalRange(n)
	case *ast.PrefixExpression:
		return in.evalPrefix(n)
	case *ast.PostfixExpression:
		return in.evalPostfix(n)
	case *ast.InfixExpression:
		return in.evalInfix(n)
	case *ast.ParenExpression:
		return in.Eval(n.Inner)
	case *ast.CallExpression:
		return in.evalCall(n)
	case *ast.AssignExpression:
		return in.evalAssign(n)
	case *ast.CommandStatement:
		return in.evalCommand(n)
	case *ast.EndLiteral:
		return in.evalEnd(n)
	case *ast.ColonLiteral:
		return nil, errf(EvaluationError, "':' is only valid inside an indexing expression")
	case *ast.ReturnList:
		return n, nil
	case nil:
		return nil, errf(EvaluationError, "cannot evaluate empty expression")
	}
	return nil, errf(EvaluationError, "cannot evaluate %T", node)
}

// evalTensor reduces a node and views the result as a tensor.
func (in *Interp) evalTensor(node ast.Node) (*tensor.Tensor, error) {
	res, err := in.Eval(node)
	if err != nil {
		return nil, err
	}
	if rl, ok := res.(*ast.ReturnList); ok {
		if len(rl.Values) == 0 {
			return nil, errf(EvaluationError, "expression produced no value")
		}
		res = rl.Values[0]
	}
	t, ok := valueTensor(res)
	if !ok {
		return nil, errf(EvaluationError, "expression did not produce a value")
	}
	return t, nil
}

func (in *Interp) evalScalar(node ast.Node) (number.Number, error) {
	t, err := in.evalTensor(node)
	if err != nil {
		return number.Number{}, err
	}
	if !t.IsScalar() {
		return number.Number{}, errf(DimensionMismatch, "expected a scalar value")
	}
	return t.First(), nil
}

func (in *Interp) evalList(list *ast.ExpressionList) (ast.Node, error) {
	var last ast.Node
	for i, item := range list.Items {
		res, err := in.Eval(item)
		if err != nil {
			return nil, err
		}
		suppressed := i < len(list.Suppressed) && list.Suppressed[i]
		in.finishStatement(item, res, suppressed)
		if res != nil {
			last = res
		}
	}
	return last, nil
}

// finishStatement applies the display and `ans` conventions of a top-level
// statement.
func (in *Interp) finishStatement(stmt, res ast.Node, suppressed bool) {
	switch s := stmt.(type) {
	case *ast.AssignExpression:
		if suppressed {
			return
		}
		for _, name := range assignedNames(s.Left) {
			if v, ok := in.lookupValue(name); ok {
				in.printf("%s = %s\n", name, in.renderValue(v))
			}
		}
	case *ast.CommandStatement:
		// Commands print their own output.
	case *ast.Identifier:
		if res == nil {
			return
		}
		if !suppressed {
			in.printf("%s = %s\n", s.Value, in.renderValue(res))
		}
	default:
		if res == nil {
			return
		}
		if rl, ok := res.(*ast.ReturnList); ok {
			if len(rl.Values) == 0 {
				return
			}
			res = rl.Values[0]
		}
		in.names[config.LastResultName] = &NameEntry{Expr: res}
		if !suppressed {
			in.printf("%s = %s\n", config.LastResultName, in.renderValue(res))
		}
	}
}

func (in *Interp) evalIdentifier(id *ast.Identifier) (ast.Node, error) {
	if id.Value == "~" {
		return nil, errf(EvaluationError, "'~' is only valid as an assignment target")
	}
	e, ok := in.lookup(id.Value)
	if !ok {
		// A bare unbound name that spells a command word is a command
		// invocation with no arguments.
		if _, isCmd := in.resolveCommand(id.Value); isCmd {
			return in.evalCommand(&ast.CommandStatement{Token: id.Token, Name: id.Value})
		}
		if _, isBuiltin := in.resolveBuiltin(id.Value); isBuiltin {
			return nil, errf(EvaluationError, "'%s' is a function; call it with arguments", id.Value)
		}
		return nil, errf(EvaluationError, "'%s' undefined", id.Value)
	}
	if e.IsFunction() {
		if len(e.Args) == 0 {
			return in.callFunction(id.Value, e, nil)
		}
		return nil, errf(EvaluationError, "function '%s' called without arguments", id.Value)
	}
	if _, isValue := valueTensor(e.Expr); isValue {
		return e.Expr, nil
	}
	// A deferred right-hand side left behind by a failed assignment
	// re-evaluates on every read.
	return in.Eval(e.Expr)
}

func (in *Interp) evalMatrix(m *ast.MatrixLiteral) (ast.Node, error) {
	acc := tensor.Empty()
	for _, row := range m.Rows {
		blocks := make([]*tensor.Tensor, len(row))
		for i, el := range row {
			t, err := in.evalTensor(el)
			if err != nil {
				return nil, err
			}
			blocks[i] = t
		}
		rowT, err := tensor.ConcatRow(blocks)
		if err != nil {
			return nil, wrapErr(err)
		}
		acc, err = tensor.AppendRow(acc, rowT)
		if err != nil {
			return nil, wrapErr(err)
		}
	}
	return reduced(acc), nil
}

func (in *Interp) evalRange(r *ast.RangeExpression) (ast.Node, error) {
	start, err := in.evalScalar(r.Start)
	if err != nil {
		return nil, err
	}
	stop, err := in.evalScalar(r.Stop)
	if err != nil {
		return nil, err
	}
	stride := number.One()
	if r.Stride != nil {
		stride, err = in.evalScalar(r.Stride)
		if err != nil {
			return nil, err
		}
	}
	if !start.IsFinite() || !stop.IsFinite() || !stride.IsFinite() ||
		!start.IsReal() || !stop.IsReal() || !stride.IsReal() {
		return nil, errf(EvaluationError, "range endpoints must be finite real numbers")
	}
	if stride.IsZero() {
		return reduced(tensor.Empty()), nil
	}

	q := stop.Sub(start).Div(stride)
	if q.Compare(number.Zero()) < 0 {
		return reduced(tensor.Empty()), nil
	}
	count := q.Floor().Int() + 1
	if count > maxRangeLen {
		return nil, errf(EvaluationError, "range produces too many elements")
	}
	data := make([]number.Number, count)
	acc := start
	for i := range data {
		data[i] = acc
		acc = acc.Add(stride)
	}
	return reduced(tensor.Row(data)), nil
}

func (in *Interp) evalPrefix(p *ast.PrefixExpression) (ast.Node, error) {
	t, err := in.evalTensor(p.Right)
	if err != nil {
		return nil, err
	}
	switch p.Operator {
	case "+":
		return reduced(t), nil
	case "-":
		out, err := t.Map(func(n number.Number) (number.Number, error) { return n.Neg(), nil })
		if err != nil {
			return nil, wrapErr(err)
		}
		return reduced(out), nil
	case "~", "!":
		out, err := t.Map(func(n number.Number) (number.Number, error) { return n.Not(), nil })
		if err != nil {
			return nil, wrapErr(err)
		}
		return reduced(out), nil
	}
	return nil, errf(EvaluationError, "unknown prefix operator '%s'", p.Operator)
}

func (in *Interp) evalPostfix(p *ast.PostfixExpression) (ast.Node, error) {
	t, err := in.evalTensor(p.Left)
	if err != nil {
		return nil, err
	}
	if t.Rank() > 2 {
		return nil, errf(DimensionMismatch, "transpose is only defined for matrices")
	}
	switch p.Operator {
	case "'":
		return reduced(t.Transpose(true)), nil
	case ".'":
		return reduced(t.Transpose(false)), nil
	}
	return nil, errf(EvaluationError, "unknown postfix operator '%s'", p.Operator)
}

func (in *Interp) evalInfix(e *ast.InfixExpression) (ast.Node, error) {
	if e.Operator == "&&" || e.Operator == "||" {
		return in.evalShortCircuit(e)
	}

	a, err := in.evalTensor(e.Left)
	if err != nil {
		return nil, err
	}
	b, err := in.evalTensor(e.Right)
	if err != nil {
		return nil, err
	}

	var out *tensor.Tensor
	switch e.Operator {
	case "+":
		out, err = tensor.Zip(a, b, lift(number.Number.Add))
	case "-":
		out, err = tensor.Zip(a, b, lift(number.Number.Sub))
	case ".*":
		out, err = tensor.Zip(a, b, lift(number.Number.Mul))
	case "./":
		out, err = tensor.Zip(a, b, lift(number.Number.Div))
	case ".^":
		out, err = tensor.Zip(a, b, lift(number.Number.Pow))
	case "*":
		if a.IsScalar() || b.IsScalar() {
			out, err = tensor.Zip(a, b, lift(number.Number.Mul))
		} else {
			out, err = tensor.MatMul(a, b)
		}
	case "/":
		if !b.IsScalar() {
			return nil, errf(DimensionMismatch, "'/' requires a scalar divisor; use './' for element-wise division")
		}
		out, err = tensor.Zip(a, b, lift(number.Number.Div))
	case "\\":
		if !a.IsScalar() {
			return nil, errf(DimensionMismatch, "'\\' requires a scalar divisor; use './' for element-wise division")
		}
		out, err = tensor.Zip(b, a, lift(number.Number.Div))
	case "^":
		return in.evalPower(a, b)
	case "==":
		out, err = tensor.Zip(a, b, cmp(func(x, y number.Number) bool { return x.Equal(y) }))
	case "~=", "!=":
		out, err = tensor.Zip(a, b, cmp(func(x, y number.Number) bool { return !x.Equal(y) }))
	case "<":
		out, err = tensor.Zip(a, b, cmp(func(x, y number.Number) bool { return x.Compare(y) < 0 }))
	case "<=":
		out, err = tensor.Zip(a, b, cmp(func(x, y number.Number) bool { return x.Compare(y) <= 0 }))
	case ">":
		out, err = tensor.Zip(a, b, cmp(func(x, y number.Number) bool { return x.Compare(y) > 0 }))
	case ">=":
		out, err = tensor.Zip(a, b, cmp(func(x, y number.Number) bool { return x.Compare(y) >= 0 }))
	case "&":
		out, err = tensor.Zip(a, b, lift(number.Number.And))
	case "|":
		out, err = tensor.Zip(a, b, lift(number.Number.Or))
	default:
		return nil, errf(EvaluationError, "unknown operator '%s'", e.Operator)
	}
	if err != nil {
		return nil, wrapErr(err)
	}
	return reduced(out), nil
}

func lift(f func(number.Number, number.Number) number.Number) func(number.Number, number.Number) (number.Number, error) {
	return func(x, y number.Number) (number.Number, error) { return f(x, y), nil }
}

func cmp(f func(number.Number, number.Number) bool) func(number.Number, number.Number) (number.Number, error) {
	return func(x, y number.Number) (number.Number, error) { return number.Bool(f(x, y)), nil }
}

func (in *Interp) evalShortCircuit(e *ast.InfixExpression) (ast.Node, error) {
	left, err := in.evalScalar(e.Left)
	if err != nil {
		return nil, err
	}
	if e.Operator == "&&" && !left.True() {
		return &ast.NumberLiteral{Value: number.Bool(false)}, nil
	}
	if e.Operator == "||" && left.True() {
		return &ast.NumberLiteral{Value: number.Bool(true)}, nil
	}
	right, err := in.evalScalar(e.Right)
	if err != nil {
		return nil, err
	}
	return &ast.NumberLiteral{Value: number.Bool(right.True())}, nil
}

func (in *Interp) evalPower(a, b *tensor.Tensor) (ast.Node, error) {
	if a.IsScalar() && b.IsScalar() {
		return &ast.NumberLiteral{Value: a.First().Pow(b.First())}, nil
	}
	if !b.IsScalar() {
		return nil, errf(DimensionMismatch, "'^' requires a scalar exponent; use '.^' for element-wise power")
	}
	exp := b.First()
	if !exp.IsInteger() || exp.Int() < 0 {
		return nil, errf(EvaluationError, "matrix power requires a non-negative integer exponent")
	}
	if a.Rows() != a.Cols() || a.Rank() > 2 {
		return nil, errf(DimensionMismatch, "matrix power requires a square matrix")
	}
	out := tensor.Identity(a.Rows())
	var err error
	for k := int64(0); k < exp.Int(); k++ {
		out, err = tensor.MatMul(out, a)
		if err != nil {
			return nil, wrapErr(err)
		}
	}
	return reduced(out), nil
}

func (in *Interp) evalCall(call *ast.CallExpression) (ast.Node, error) {
	id, ok := call.Callee.(*ast.Identifier)
	if !ok {
		// Anything else evaluates to a value which is then indexed.
		t, err := in.evalTensor(call.Callee)
		if err != nil {
			return nil, err
		}
		return in.evalIndex(t, call)
	}

	if e, bound := in.lookup(id.Value); bound {
		if e.IsFunction() {
			return in.callFunction(id.Value, e, call.Arguments)
		}
		t, ok := valueTensor(e.Expr)
		if !ok {
			return nil, errf(EvaluationError, "'%s' cannot be indexed", id.Value)
		}
		return in.evalIndex(t, call)
	}

	if b, isBuiltin := in.resolveBuiltin(id.Value); isBuiltin {
		return in.callBuiltin(id.Value, b, call)
	}
	return nil, errf(EvaluationError, "'%s' undefined", id.Value)
}

func (in *Interp) callFunction(name string, e *NameEntry, args []ast.Node) (ast.Node, error) {
	if len(args) != len(e.Args) {
		return nil, errf(EvaluationError, "function '%s' expects %d arguments, got %d",
			name, len(e.Args), len(args))
	}
	vars := make(map[string]ast.Node, len(args))
	for i, arg := range args {
		v, err := in.Eval(arg)
		if err != nil {
			return nil, err
		}
		if t, ok := valueTensor(v); ok {
			v = reduced(t)
		} else {
			return nil, errf(EvaluationError, "argument %d of '%s' did not produce a value", i+1, name)
		}
		vars[e.Args[i].Value] = v
	}
	in.frames = append(in.frames, &frame{fn: name, vars: vars})
	defer func() { in.frames = in.frames[:len(in.frames)-1] }()
	return in.Eval(e.Expr)
}

// evalIndex applies subscripts to a tensor value.
func (in *Interp) evalIndex(t *tensor.Tensor, call *ast.CallExpression) (ast.Node, error) {
	nsubs := len(call.Arguments)
	if nsubs == 0 {
		return reduced(t), nil
	}

	if nsubs == 1 {
		if _, isColon := call.Arguments[0].(*ast.ColonLiteral); isColon {
			col, err := t.Linearize().Reshape([]int{t.Len(), 1})
			if err != nil {
				return nil, wrapErr(err)
			}
			return reduced(col), nil
		}
		arg, err := in.evalTensor(call.Arguments[0])
		if err != nil {
			return nil, err
		}
		if arg.IsLogical() {
			out, err := t.MaskSelect(arg)
			if err != nil {
				return nil, wrapErr(err)
			}
			return reduced(out), nil
		}
		idx, err := indexList(arg)
		if err != nil {
			return nil, err
		}
		out, err := t.SelectLinear(idx)
		if err != nil {
			return nil, wrapErr(err)
		}
		return reduced(out), nil
	}

	sets, err := in.subscriptSets(t, call)
	if err != nil {
		return nil, err
	}
	out, err := t.SelectSubs(sets)
	if err != nil {
		return nil, wrapErr(err)
	}
	return reduced(out), nil
}

// subscriptSets evaluates each subscript of a multi-subscript indexing
// expression into a 1-based index vector.
func (in *Interp) subscriptSets(t *tensor.Tensor, call *ast.CallExpression) ([][]int, error) {
	nsubs := len(call.Arguments)
	sets := make([][]int, nsubs)
	for k, arg := range call.Arguments {
		if _, isColon := arg.(*ast.ColonLiteral); isColon {
			size := t.DimSize(k, nsubs)
			all := make([]int, size)
			for i := range all {
				all[i] = i + 1
			}
			sets[k] = all
			continue
		}
		v, err := in.evalTensor(arg)
		if err != nil {
			return nil, err
		}
		if v.IsLogical() {
			sets[k] = truePositions(v)
			continue
		}
		idx, err := indexList(v)
		if err != nil {
			return nil, err
		}
		sets[k] = idx
	}
	return sets, nil
}

func indexList(v *tensor.Tensor) ([]int, error) {
	idx := make([]int, 0, v.Len())
	for _, n := range v.Elements() {
		if !n.IsInteger() || n.Int() < 1 {
			return nil, errf(IndexOutOfBounds, "subscripts must be positive integers or logicals, got %s", n.String())
		}
		idx = append(idx, int(n.Int()))
	}
	return idx, nil
}

func truePositions(mask *tensor.Tensor) []int {
	var idx []int
	for i, n := range mask.Elements() {
		if n.True() {
			idx = append(idx, i+1)
		}
	}
	return idx
}

// evalEnd resolves `end` by walking the parent chain to the nearest enclosing
// indexing expression over a bound value, then asking the indexed tensor for
// the size of the subscript slot the walk passed through.
func (in *Interp) evalEnd(e *ast.EndLiteral) (ast.Node, error) {
	var child ast.Node = e
	for {
		parent := child.Parent()
		if parent == nil {
			return nil, errf(EvaluationError, "'end' is only valid inside an indexing expression")
		}
		if call, ok := parent.(*ast.CallExpression); ok && child.Position() >= 0 {
			if t, indexed := in.indexTarget(call); indexed {
				size := t.DimSize(child.Position(), len(call.Arguments))
				return &ast.NumberLiteral{Value: number.FromInt(int64(size))}, nil
			}
		}
		child = parent
	}
}

// indexTarget reports the tensor a call expression indexes, if its callee is
// a name bound to a value.
func (in *Interp) indexTarget(call *ast.CallExpression) (*tensor.Tensor, bool) {
	id, ok := call.Callee.(*ast.Identifier)
	if !ok {
		return nil, false
	}
	v, ok := in.lookupValue(id.Value)
	if !ok {
		return nil, false
	}
	return valueTensor(v)
}

func (in *Interp) evalCommand(cmd *ast.CommandStatement) (ast.Node, error) {
	c, ok := in.resolveCommand(cmd.Name)
	if !ok {
		return nil, errf(EvaluationError, "unknown command '%s'", cmd.Name)
	}
	in.external = true
	return nil, c(in, cmd.Args)
}
