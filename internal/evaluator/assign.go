package evaluator

import (
	"strings"

	"github.com/matexlang/matex/internal/ast"
	"github.com/matexlang/matex/internal/number"
	"github.com/matexlang/matex/internal/tensor"
)

func (in *Interp) evalAssign(a *ast.AssignExpression) (ast.Node, error) {
	if a.Operator != "=" {
		return in.evalCompoundAssign(a)
	}

	switch left := a.Left.(type) {
	case *ast.Identifier:
		value, err := in.evalValue(a.Right)
		if err != nil {
			in.deferAssign(left, a.Right)
			return nil, err
		}
		if left.Value == "~" {
			return nil, nil
		}
		return value, in.store(left.Value, value)

	case *ast.CallExpression:
		if args, ok := in.functionDefArgs(left); ok {
			name := left.Callee.(*ast.Identifier).Value
			return nil, in.storeFunction(name, args, a.Right)
		}
		value, err := in.evalValue(a.Right)
		if err != nil {
			return nil, err
		}
		return value, in.indexedAssign(left, value)

	case *ast.MatrixLiteral:
		return in.evalMultiAssign(left, a.Right)
	}
	return nil, errf(EvaluationError, "invalid assignment target")
}

// evalCompoundAssign rewrites `x op= e` as `x = x op e`. The synthetic infix
// node shares the target subtree without relinking it, so `end` inside the
// target still resolves through its original parents.
func (in *Interp) evalCompoundAssign(a *ast.AssignExpression) (ast.Node, error) {
	if _, multi := a.Left.(*ast.MatrixLiteral); multi {
		return nil, errf(EvaluationError, "compound assignment cannot have multiple targets")
	}
	op := strings.TrimSuffix(a.Operator, "=")
	rhs := &ast.InfixExpression{Token: a.Token, Operator: op, Left: a.Left, Right: a.Right}
	value, err := in.evalValue(rhs)
	if err != nil {
		return nil, err
	}
	switch left := a.Left.(type) {
	case *ast.Identifier:
		if left.Value == "~" {
			return nil, errf(EvaluationError, "'~' is not a compound assignment target")
		}
		return value, in.store(left.Value, value)
	case *ast.CallExpression:
		return value, in.indexedAssign(left, value)
	}
	return nil, errf(EvaluationError, "invalid assignment target")
}

// deferAssign re-binds a failed assignment's target to the unevaluated
// right-hand expression; reading the name re-evaluates it.
func (in *Interp) deferAssign(target *ast.Identifier, rhs ast.Node) {
	if target.Value == "~" || in.readOnly[target.Value] {
		return
	}
	_ = in.store(target.Value, rhs)
}

// evalValue reduces the right-hand side to a single canonical value node.
func (in *Interp) evalValue(node ast.Node) (ast.Node, error) {
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
		return nil, errf(EvaluationError, "right-hand side did not produce a value")
	}
	return reduced(t), nil
}

// functionDefArgs reports whether an assignment target of call form defines a
// function: every argument must be a bare identifier that is not currently
// bound to a value. `f(x) = x^2` defines f; with x bound it writes into f.
func (in *Interp) functionDefArgs(call *ast.CallExpression) ([]*ast.Identifier, bool) {
	id, ok := call.Callee.(*ast.Identifier)
	if !ok {
		return nil, false
	}
	if _, bound := in.lookupValue(id.Value); bound {
		return nil, false
	}
	seen := map[string]bool{}
	args := make([]*ast.Identifier, 0, len(call.Arguments))
	for _, arg := range call.Arguments {
		p, ok := arg.(*ast.Identifier)
		if !ok || p.Value == "~" {
			return nil, false
		}
		if _, bound := in.lookupValue(p.Value); bound {
			return nil, false
		}
		if seen[p.Value] {
			return nil, false
		}
		seen[p.Value] = true
		args = append(args, p)
	}
	return args, true
}

func (in *Interp) evalMultiAssign(targets *ast.MatrixLiteral, rhs ast.Node) (ast.Node, error) {
	if len(targets.Rows) != 1 {
		return nil, errf(EvaluationError, "assignment targets must form a single row")
	}
	list := targets.Rows[0]
	for _, tgt := range list {
		switch t := tgt.(type) {
		case *ast.Identifier:
		case *ast.CallExpression:
			if _, ok := t.Callee.(*ast.Identifier); !ok {
				return nil, errf(EvaluationError, "invalid assignment target")
			}
		default:
			return nil, errf(EvaluationError, "invalid assignment target")
		}
	}

	saved := in.nargout
	in.nargout = len(list)
	res, err := in.Eval(rhs)
	in.nargout = saved
	if err != nil {
		return nil, err
	}

	values := []ast.Node{res}
	if rl, ok := res.(*ast.ReturnList); ok {
		values = rl.Values
	}
	if len(values) < len(list) {
		return nil, errf(EvaluationError, "too many output arguments: %d requested, %d produced",
			len(list), len(values))
	}
	for i, tgt := range list {
		value, err := in.canonicalValue(values[i])
		if err != nil {
			return nil, err
		}
		if err := in.assignTo(tgt, value); err != nil {
			return nil, err
		}
	}
	return res, nil
}

func (in *Interp) canonicalValue(node ast.Node) (ast.Node, error) {
	t, ok := valueTensor(node)
	if !ok {
		return nil, errf(EvaluationError, "expression did not produce a value")
	}
	return reduced(t), nil
}

func (in *Interp) assignTo(target, value ast.Node) error {
	switch t := target.(type) {
	case *ast.Identifier:
		if t.Value == "~" {
			return nil
		}
		return in.store(t.Value, value)
	case *ast.CallExpression:
		return in.indexedAssign(t, value)
	}
	return errf(EvaluationError, "invalid assignment target")
}

// indexedAssign writes a value through subscripts, growing or deleting as the
// index form demands, and rebinds the name to the updated tensor.
func (in *Interp) indexedAssign(call *ast.CallExpression, value ast.Node) error {
	id, ok := call.Callee.(*ast.Identifier)
	if !ok {
		return errf(EvaluationError, "invalid assignment target")
	}
	if e, bound := in.lookup(id.Value); bound && e.IsFunction() {
		return errf(EvaluationError, "'%s' is a function; cannot assign into it", id.Value)
	}

	base := tensor.Empty()
	if v, bound := in.lookupValue(id.Value); bound {
		t, ok := valueTensor(v)
		if !ok {
			return errf(EvaluationError, "'%s' cannot be indexed", id.Value)
		}
		base = t
	}
	rhs, ok := valueTensor(value)
	if !ok {
		return errf(EvaluationError, "right-hand side did not produce a value")
	}

	out, err := in.applySubscriptWrite(base, call, rhs)
	if err != nil {
		return err
	}
	return in.store(id.Value, reduced(out))
}

func (in *Interp) applySubscriptWrite(base *tensor.Tensor, call *ast.CallExpression, rhs *tensor.Tensor) (*tensor.Tensor, error) {
	nsubs := len(call.Arguments)
	if nsubs == 0 {
		return rhs, nil
	}

	if nsubs == 1 {
		if _, isColon := call.Arguments[0].(*ast.ColonLiteral); isColon {
			if rhs.IsEmpty() {
				return tensor.Empty(), nil
			}
			all := make([]int, base.Len())
			for i := range all {
				all[i] = i + 1
			}
			out, err := base.SetLinear(all, rhs)
			return out, wrapErr(err)
		}
		arg, err := in.evalTensor(call.Arguments[0])
		if err != nil {
			return nil, err
		}
		if arg.IsLogical() {
			out, err := base.MaskSet(arg, rhs)
			return out, wrapErr(err)
		}
		idx, err := indexList(arg)
		if err != nil {
			return nil, err
		}
		if rhs.IsEmpty() {
			return in.deleteLinear(base, idx)
		}
		out, err := base.SetLinear(idx, rhs)
		return out, wrapErr(err)
	}

	if rhs.IsEmpty() {
		return in.deleteSubs(base, call)
	}
	sets, err := in.subscriptSets(base, call)
	if err != nil {
		return nil, err
	}
	out, err := base.SetSubs(sets, rhs)
	return out, wrapErr(err)
}

// deleteLinear removes the elements at 1-based linear indices, via the mask
// path so vectors keep their orientation.
func (in *Interp) deleteLinear(base *tensor.Tensor, idx []int) (*tensor.Tensor, error) {
	if len(idx) == 0 {
		return base, nil
	}
	mask := make([]bool, base.Len())
	for _, i := range idx {
		if i < 1 || i > base.Len() {
			return nil, errf(IndexOutOfBounds, "index %d out of bounds in deletion", i)
		}
		mask[i-1] = true
	}
	if !base.IsVector() && !allTrue(mask) {
		return nil, errf(EvaluationError, "a null assignment on a matrix needs whole rows or columns")
	}
	return maskDelete(base, mask)
}

// deleteSubs handles `A(idx, :) = []` style row or column deletion.
func (in *Interp) deleteSubs(base *tensor.Tensor, call *ast.CallExpression) (*tensor.Tensor, error) {
	if len(call.Arguments) != 2 {
		return nil, errf(EvaluationError, "deletion needs one subscript, or a matrix row/column form")
	}
	_, colon0 := call.Arguments[0].(*ast.ColonLiteral)
	_, colon1 := call.Arguments[1].(*ast.ColonLiteral)
	switch {
	case colon0 && colon1:
		return tensor.Empty(), nil
	case colon0:
		idx, err := in.deletionIndices(call.Arguments[1])
		if err != nil {
			return nil, err
		}
		out, err := base.DeleteAlong(1, idx)
		return out, wrapErr(err)
	case colon1:
		idx, err := in.deletionIndices(call.Arguments[0])
		if err != nil {
			return nil, err
		}
		out, err := base.DeleteAlong(0, idx)
		return out, wrapErr(err)
	}
	return nil, errf(EvaluationError, "a null assignment needs ':' in all but one subscript")
}

func (in *Interp) deletionIndices(arg ast.Node) ([]int, error) {
	v, err := in.evalTensor(arg)
	if err != nil {
		return nil, err
	}
	if v.IsLogical() {
		return truePositions(v), nil
	}
	return indexList(v)
}

// allTrue limits linear deletion from a matrix to the everything case.
func allTrue(mask []bool) bool {
	for _, m := range mask {
		if !m {
			return false
		}
	}
	return true
}

func maskDelete(base *tensor.Tensor, drop []bool) (*tensor.Tensor, error) {
	data := make([]number.Number, len(drop))
	for i, d := range drop {
		data[i] = number.Bool(d)
	}
	res, err := base.MaskSet(tensor.Row(data), tensor.Empty())
	return res, wrapErr(err)
}

// assignedNames lists the variable names an assignment target touches, for
// result display.
func assignedNames(left ast.Node) []string {
	switch t := left.(type) {
	case *ast.Identifier:
		if t.Value == "~" {
			return nil
		}
		return []string{t.Value}
	case *ast.CallExpression:
		if id, ok := t.Callee.(*ast.Identifier); ok {
			return []string{id.Value}
		}
	case *ast.MatrixLiteral:
		var names []string
		for _, row := range t.Rows {
			for _, tgt := range row {
				names = append(names, assignedNames(tgt)...)
			}
		}
		return names
	}
	return nil
}
