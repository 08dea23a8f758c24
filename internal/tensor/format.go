package tensor

import (
	"strings"

	"github.com/matexlang/matex/internal/number"
)

// Elements returns a copy of the storage, in column-major order.
func (t *Tensor) Elements() []number.Number {
	data := make([]number.Number, len(t.data))
	copy(data, t.data)
	return data
}

// Reduce folds f over the elements in storage order, starting from init.
func (t *Tensor) Reduce(init number.Number, f func(acc, x number.Number) number.Number) number.Number {
	acc := init
	for _, v := range t.data {
		acc = f(acc, v)
	}
	return acc
}

// String renders `[1, 2; 3, 4]` bracket form; char tensors render as a
// quoted string, the empty tensor as [].
func (t *Tensor) String() string { return t.Text(-1) }

// Text is String with elements rounded to places decimal places (negative
// keeps full precision).
func (t *Tensor) Text(places int32) string {
	if t.IsEmpty() {
		return "[]"
	}
	if t.IsChar() && t.isRow() {
		var b strings.Builder
		b.WriteByte('\'')
		for _, n := range t.data {
			r := n.Rune()
			if r == '\'' {
				b.WriteString("''")
			} else {
				b.WriteRune(r)
			}
		}
		b.WriteByte('\'')
		return b.String()
	}
	rows, cols := t.Rows(), t.Cols()
	var b strings.Builder
	b.WriteByte('[')
	for r := 0; r < rows; r++ {
		if r > 0 {
			b.WriteString("; ")
		}
		for c := 0; c < cols; c++ {
			if c > 0 {
				b.WriteString(", ")
			}
			b.WriteString(t.data[r+c*rows].Text(places))
		}
	}
	b.WriteByte(']')
	return b.String()
}
