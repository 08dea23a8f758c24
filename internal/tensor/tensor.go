package tensor

import (
	"fmt"

	"github.com/matexlang/matex/internal/number"
)

// Tensor is a dense rectangular array of numbers with explicit dimension
// sizes. Storage is column-major, like the language it models. Tensors are
// value types: mutating operations return a fresh tensor.
type Tensor struct {
	dims []int
	data []number.Number
}

// ShapeError reports a dimension mismatch between operands or rows.
type ShapeError struct{ Msg string }

func (e *ShapeError) Error() string { return e.Msg }

// BoundsError reports an out-of-range subscript.
type BoundsError struct{ Msg string }

func (e *BoundsError) Error() string { return e.Msg }

func shapeErrf(format string, a ...interface{}) error {
	return &ShapeError{Msg: fmt.Sprintf(format, a...)}
}

func boundsErrf(format string, a ...interface{}) error {
	return &BoundsError{Msg: fmt.Sprintf(format, a...)}
}

func newTensor(dims []int, data []number.Number) *Tensor {
	n := 1
	for _, d := range dims {
		n *= d
	}
	if n != len(data) {
		panic(fmt.Sprintf("tensor: %v dims with %d elements", dims, len(data)))
	}
	return &Tensor{dims: dims, data: data}
}

// Empty returns the 0×0 tensor.
func Empty() *Tensor { return &Tensor{dims: []int{0, 0}} }

// Scalar wraps a number as a 1×1 tensor.
func Scalar(n number.Number) *Tensor {
	return newTensor([]int{1, 1}, []number.Number{n})
}

// Row builds a 1×N tensor from numbers.
func Row(ns []number.Number) *Tensor {
	data := make([]number.Number, len(ns))
	copy(data, ns)
	return newTensor([]int{1, len(ns)}, data)
}

// Column builds an N×1 tensor from numbers.
func Column(ns []number.Number) *Tensor {
	data := make([]number.Number, len(ns))
	copy(data, ns)
	return newTensor([]int{len(ns), 1}, data)
}

// FromString builds the 1×N char tensor of a string.
func FromString(s string) *Tensor {
	rs := []rune(s)
	data := make([]number.Number, len(rs))
	for i, r := range rs {
		data[i] = number.FromRune(r)
	}
	return newTensor([]int{1, len(rs)}, data)
}

// Fill builds a rows×cols tensor of copies of n.
func Fill(rows, cols int, n number.Number) *Tensor {
	data := make([]number.Number, rows*cols)
	for i := range data {
		data[i] = n
	}
	return newTensor([]int{rows, cols}, data)
}

// FillDims builds a tensor of copies of n with the given dimension vector.
func FillDims(dims []int, n number.Number) *Tensor {
	total := 1
	for _, d := range dims {
		total *= d
	}
	data := make([]number.Number, total)
	for i := range data {
		data[i] = n
	}
	return newTensor(append([]int(nil), dims...), data)
}

// Identity builds the n×n identity matrix.
func Identity(n int) *Tensor {
	t := Fill(n, n, number.Zero())
	for i := 0; i < n; i++ {
		t.data[i+i*n] = number.One()
	}
	return t
}

func (t *Tensor) Dims() []int {
	d := make([]int, len(t.dims))
	copy(d, t.dims)
	return d
}

func (t *Tensor) Rank() int { return len(t.dims) }
func (t *Tensor) Len() int  { return len(t.data) }

func (t *Tensor) Rows() int {
	if len(t.dims) == 0 {
		return 0
	}
	return t.dims[0]
}

func (t *Tensor) Cols() int {
	if len(t.dims) < 2 {
		return 1
	}
	n := 1
	for _, d := range t.dims[1:] {
		n *= d
	}
	return n
}

func (t *Tensor) IsEmpty() bool  { return len(t.data) == 0 }
func (t *Tensor) IsScalar() bool { return len(t.data) == 1 }

// IsVector reports a single row or single column (scalars included).
func (t *Tensor) IsVector() bool {
	return !t.IsEmpty() && (t.Rows() == 1 || t.Cols() == 1)
}

func (t *Tensor) isRow() bool { return t.Rows() == 1 }

// IsLogical reports whether every element carries the Logical kind.
func (t *Tensor) IsLogical() bool {
	if t.IsEmpty() {
		return false
	}
	for _, n := range t.data {
		if n.Kind() != number.Logical {
			return false
		}
	}
	return true
}

// IsChar reports whether every element carries the Char kind.
func (t *Tensor) IsChar() bool {
	if t.IsEmpty() {
		return false
	}
	for _, n := range t.data {
		if n.Kind() != number.Char {
			return false
		}
	}
	return true
}

// At returns the element at the 1-based linear index.
func (t *Tensor) At(i int) (number.Number, error) {
	if i < 1 || i > len(t.data) {
		return number.Number{}, boundsErrf("index %d out of bounds for %s", i, t.shapeText())
	}
	return t.data[i-1], nil
}

// First returns the first element of a non-empty tensor.
func (t *Tensor) First() number.Number { return t.data[0] }

// Linearize flattens to a single row, preserving column-major storage order.
func (t *Tensor) Linearize() *Tensor {
	data := make([]number.Number, len(t.data))
	copy(data, t.data)
	return newTensor([]int{1, len(data)}, data)
}

// SameShape reports dimension-by-dimension equality.
func SameShape(a, b *Tensor) bool {
	if len(a.dims) != len(b.dims) {
		return false
	}
	for i := range a.dims {
		if a.dims[i] != b.dims[i] {
			return false
		}
	}
	return true
}

// ConcatRow concatenates items horizontally into one row block. Every
// non-empty item must have the same number of rows.
func ConcatRow(items []*Tensor) (*Tensor, error) {
	rows := -1
	cols := 0
	for _, it := range items {
		if it.IsEmpty() {
			continue
		}
		if rows == -1 {
			rows = it.Rows()
		} else if it.Rows() != rows {
			return nil, shapeErrf("horizontal dimensions mismatch (%d rows vs %d rows)", rows, it.Rows())
		}
		cols += it.Cols()
	}
	if rows == -1 {
		return Empty(), nil
	}
	data := make([]number.Number, 0, rows*cols)
	for _, it := range items {
		if !it.IsEmpty() {
			data = append(data, it.data...)
		}
	}
	return newTensor([]int{rows, cols}, data), nil
}

// AppendRow concatenates row below m. Column counts must agree.
func AppendRow(m, row *Tensor) (*Tensor, error) {
	if m.IsEmpty() {
		return row, nil
	}
	if row.IsEmpty() {
		return m, nil
	}
	if m.Cols() != row.Cols() {
		return nil, shapeErrf("vertical dimensions mismatch (%d columns vs %d columns)", m.Cols(), row.Cols())
	}
	rows := m.Rows() + row.Rows()
	cols := m.Cols()
	data := make([]number.Number, rows*cols)
	for c := 0; c < cols; c++ {
		for r := 0; r < m.Rows(); r++ {
			data[r+c*rows] = m.data[r+c*m.Rows()]
		}
		for r := 0; r < row.Rows(); r++ {
			data[m.Rows()+r+c*rows] = row.data[r+c*row.Rows()]
		}
	}
	return newTensor([]int{rows, cols}, data), nil
}

// Map applies f element-wise, preserving dims.
func (t *Tensor) Map(f func(number.Number) (number.Number, error)) (*Tensor, error) {
	data := make([]number.Number, len(t.data))
	for i, n := range t.data {
		v, err := f(n)
		if err != nil {
			return nil, err
		}
		data[i] = v
	}
	return newTensor(t.Dims(), data), nil
}

// Zip combines two tensors element-wise. A scalar operand broadcasts against
// the other shape; otherwise shapes must match.
func Zip(a, b *Tensor, f func(x, y number.Number) (number.Number, error)) (*Tensor, error) {
	switch {
	case a.IsScalar() && !b.IsScalar():
		x := a.First()
		return b.Map(func(y number.Number) (number.Number, error) { return f(x, y) })
	case b.IsScalar() && !a.IsScalar():
		y := b.First()
		return a.Map(func(x number.Number) (number.Number, error) { return f(x, y) })
	}
	if !SameShape(a, b) {
		return nil, shapeErrf("nonconformant operands (%s vs %s)", a.shapeText(), b.shapeText())
	}
	data := make([]number.Number, len(a.data))
	for i := range a.data {
		v, err := f(a.data[i], b.data[i])
		if err != nil {
			return nil, err
		}
		data[i] = v
	}
	return newTensor(a.Dims(), data), nil
}

// MatMul is the matrix product of an m×k and a k×n tensor.
func MatMul(a, b *Tensor) (*Tensor, error) {
	m, k := a.Rows(), a.Cols()
	k2, n := b.Rows(), b.Cols()
	if k != k2 {
		return nil, shapeErrf("nonconformant matrix product (%s by %s)", a.shapeText(), b.shapeText())
	}
	data := make([]number.Number, m*n)
	for c := 0; c < n; c++ {
		for r := 0; r < m; r++ {
			acc := number.Zero()
			for j := 0; j < k; j++ {
				acc = acc.Add(a.data[r+j*m].Mul(b.data[j+c*k]))
			}
			data[r+c*m] = acc
		}
	}
	return newTensor([]int{m, n}, data), nil
}

// Transpose flips rows and columns; conj additionally conjugates elements.
func (t *Tensor) Transpose(conj bool) *Tensor {
	rows, cols := t.Rows(), t.Cols()
	data := make([]number.Number, len(t.data))
	for c := 0; c < cols; c++ {
		for r := 0; r < rows; r++ {
			v := t.data[r+c*rows]
			if conj {
				v = v.Conj()
			}
			data[c+r*cols] = v
		}
	}
	return newTensor([]int{cols, rows}, data)
}

// Reshape reinterprets the storage under new dims; the element count must be
// preserved.
func (t *Tensor) Reshape(dims []int) (*Tensor, error) {
	n := 1
	for _, d := range dims {
		if d < 0 {
			return nil, shapeErrf("invalid dimension %d", d)
		}
		n *= d
	}
	if n != len(t.data) {
		return nil, shapeErrf("reshape cannot change element count (%d to %d)", len(t.data), n)
	}
	data := make([]number.Number, len(t.data))
	copy(data, t.data)
	return newTensor(append([]int(nil), dims...), data), nil
}

func (t *Tensor) shapeText() string {
	s := ""
	for i, d := range t.dims {
		if i > 0 {
			s += "x"
		}
		s += fmt.Sprintf("%d", d)
	}
	return s
}
