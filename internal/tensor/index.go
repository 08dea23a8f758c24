package tensor

import "github.com/matexlang/matex/internal/number"

// Subscripts are 1-based throughout, matching the language.

// DimSize answers the `end` question: the size a subscript position resolves
// to, given how many subscripts the indexing expression carries. With a single
// subscript it is the linear length; a trailing subscript collapses any
// remaining dimensions; positions past the rank are size 1.
func (t *Tensor) DimSize(k, nsubs int) int {
	if nsubs <= 1 {
		return len(t.data)
	}
	if k >= len(t.dims) {
		return 1
	}
	if k == nsubs-1 && nsubs < len(t.dims) {
		n := 1
		for _, d := range t.dims[k:] {
			n *= d
		}
		return n
	}
	return t.dims[k]
}

// effDims is the dimension vector seen by an indexing expression with nsubs
// subscripts: padded with ones past the rank, trailing dimensions collapsed.
func (t *Tensor) effDims(nsubs int) []int {
	eff := make([]int, nsubs)
	for k := 0; k < nsubs; k++ {
		eff[k] = t.DimSize(k, nsubs)
	}
	return eff
}

// SelectLinear gathers elements by 1-based linear indices into a row.
func (t *Tensor) SelectLinear(idx []int) (*Tensor, error) {
	data := make([]number.Number, len(idx))
	for j, i := range idx {
		v, err := t.At(i)
		if err != nil {
			return nil, err
		}
		data[j] = v
	}
	return newTensor([]int{1, len(idx)}, data), nil
}

// SelectSubs gathers a sub-tensor: one index vector per subscript position.
func (t *Tensor) SelectSubs(sets [][]int) (*Tensor, error) {
	nsubs := len(sets)
	eff := t.effDims(nsubs)
	for k, set := range sets {
		for _, i := range set {
			if i < 1 || i > eff[k] {
				return nil, boundsErrf("index %d out of bounds for dimension %d (size %d)", i, k+1, eff[k])
			}
		}
	}
	rd := make([]int, nsubs)
	total := 1
	for k, set := range sets {
		rd[k] = len(set)
		total *= len(set)
	}
	strides := stridesOf(eff)
	data := make([]number.Number, total)
	for j := 0; j < total; j++ {
		rem := j
		src := 0
		for k := 0; k < nsubs; k++ {
			c := rem % rd[k]
			rem /= rd[k]
			src += (sets[k][c] - 1) * strides[k]
		}
		data[j] = t.data[src]
	}
	if nsubs == 1 {
		return newTensor([]int{1, total}, data), nil
	}
	return newTensor(rd, data), nil
}

// MaskSelect picks elements at true positions of a logical mask, in storage
// order. The mask may not be longer than the tensor.
func (t *Tensor) MaskSelect(mask *Tensor) (*Tensor, error) {
	if mask.Len() > len(t.data) {
		return nil, boundsErrf("logical index too long (%d for %s)", mask.Len(), t.shapeText())
	}
	var data []number.Number
	for i, m := range mask.data {
		if m.True() {
			data = append(data, t.data[i])
		}
	}
	return newTensor([]int{1, len(data)}, data), nil
}

// SetLinear writes rhs through 1-based linear indices, returning a new tensor.
// Indices past the current bounds grow vectors (and the empty tensor), filling
// new cells with zero; growing a matrix linearly is out of bounds.
func (t *Tensor) SetLinear(idx []int, rhs *Tensor) (*Tensor, error) {
	if !rhs.IsScalar() && rhs.Len() != len(idx) {
		return nil, shapeErrf("assignment count mismatch (%d indices, %d values)", len(idx), rhs.Len())
	}
	max := 0
	for _, i := range idx {
		if i < 1 {
			return nil, boundsErrf("index %d out of bounds (must be positive)", i)
		}
		if i > max {
			max = i
		}
	}
	dims := t.Dims()
	data := make([]number.Number, len(t.data))
	copy(data, t.data)
	if max > len(data) {
		if !t.IsEmpty() && !t.IsVector() {
			return nil, boundsErrf("index %d out of bounds for %s", max, t.shapeText())
		}
		grown := make([]number.Number, max)
		for i := range grown {
			grown[i] = number.Zero()
		}
		copy(grown, data)
		data = grown
		if !t.IsEmpty() && t.Cols() == 1 && t.Rows() > 1 {
			dims = []int{max, 1}
		} else {
			dims = []int{1, max}
		}
	}
	for j, i := range idx {
		if rhs.IsScalar() {
			data[i-1] = rhs.First()
		} else {
			data[i-1] = rhs.data[j]
		}
	}
	return newTensor(dims, data), nil
}

// SetSubs writes rhs through per-dimension index vectors, growing dimensions
// as needed with zero fill.
func (t *Tensor) SetSubs(sets [][]int, rhs *Tensor) (*Tensor, error) {
	nsubs := len(sets)
	if nsubs < len(t.dims) {
		// Writing through collapsed trailing dimensions never grows.
		eff := t.effDims(nsubs)
		for k, set := range sets {
			for _, i := range set {
				if i < 1 || i > eff[k] {
					return nil, boundsErrf("index %d out of bounds for dimension %d (size %d)", i, k+1, eff[k])
				}
			}
		}
		return t.scatter(eff, sets, rhs)
	}
	newDims := make([]int, nsubs)
	grow := false
	for k := 0; k < nsubs; k++ {
		cur := 1
		if k < len(t.dims) {
			cur = t.dims[k]
		}
		newDims[k] = cur
		for _, i := range sets[k] {
			if i < 1 {
				return nil, boundsErrf("index %d out of bounds (must be positive)", i)
			}
			if i > newDims[k] {
				newDims[k] = i
			}
		}
		if newDims[k] != cur {
			grow = true
		}
	}
	base := t
	if grow || nsubs != len(t.dims) {
		var err error
		base, err = t.growTo(newDims)
		if err != nil {
			return nil, err
		}
	}
	return base.scatter(base.dims, sets, rhs)
}

func (t *Tensor) scatter(eff []int, sets [][]int, rhs *Tensor) (*Tensor, error) {
	rd := make([]int, len(sets))
	total := 1
	for k, set := range sets {
		rd[k] = len(set)
		total *= len(set)
	}
	if !rhs.IsScalar() && rhs.Len() != total {
		return nil, shapeErrf("assignment shape mismatch (%d positions, %d values)", total, rhs.Len())
	}
	strides := stridesOf(eff)
	data := make([]number.Number, len(t.data))
	copy(data, t.data)
	for j := 0; j < total; j++ {
		rem := j
		dst := 0
		for k := range sets {
			c := rem % rd[k]
			rem /= rd[k]
			dst += (sets[k][c] - 1) * strides[k]
		}
		if rhs.IsScalar() {
			data[dst] = rhs.First()
		} else {
			data[dst] = rhs.data[j]
		}
	}
	return newTensor(t.Dims(), data), nil
}

// growTo embeds t into a zero-filled tensor of at least dims newDims.
func (t *Tensor) growTo(newDims []int) (*Tensor, error) {
	total := 1
	for _, d := range newDims {
		total *= d
	}
	data := make([]number.Number, total)
	for i := range data {
		data[i] = number.Zero()
	}
	if !t.IsEmpty() {
		oldStrides := stridesOf(t.dims)
		newStrides := stridesOf(newDims)
		for i := range t.data {
			rem := i
			dst := 0
			for k, d := range t.dims {
				c := (rem / oldStrides[k]) % d
				if k >= len(newDims) && c > 0 {
					return nil, shapeErrf("cannot embed %s into %v", t.shapeText(), newDims)
				}
				if k < len(newDims) {
					dst += c * newStrides[k]
				}
			}
			data[dst] = t.data[i]
		}
	}
	return newTensor(append([]int(nil), newDims...), data), nil
}

// MaskSet writes rhs at the true positions of a logical mask. An empty rhs
// deletes the selected elements instead, reshaping the result to a row.
func (t *Tensor) MaskSet(mask, rhs *Tensor) (*Tensor, error) {
	if mask.Len() > len(t.data) {
		return nil, boundsErrf("logical index too long (%d for %s)", mask.Len(), t.shapeText())
	}
	if rhs.IsEmpty() {
		var kept []number.Number
		for i, v := range t.data {
			if i < mask.Len() && mask.data[i].True() {
				continue
			}
			kept = append(kept, v)
		}
		if t.Cols() == 1 && t.Rows() > 1 {
			return newTensor([]int{len(kept), 1}, kept), nil
		}
		return newTensor([]int{1, len(kept)}, kept), nil
	}
	count := 0
	for _, m := range mask.data {
		if m.True() {
			count++
		}
	}
	if !rhs.IsScalar() && rhs.Len() != count {
		return nil, shapeErrf("assignment count mismatch (%d selected, %d values)", count, rhs.Len())
	}
	data := make([]number.Number, len(t.data))
	copy(data, t.data)
	j := 0
	for i, m := range mask.data {
		if !m.True() {
			continue
		}
		if rhs.IsScalar() {
			data[i] = rhs.First()
		} else {
			data[i] = rhs.data[j]
		}
		j++
	}
	return newTensor(t.Dims(), data), nil
}

// DeleteAlong removes the 1-based slices idx from dimension dim of a matrix,
// e.g. deleting rows (dim 0) or columns (dim 1).
func (t *Tensor) DeleteAlong(dim int, idx []int) (*Tensor, error) {
	if len(t.dims) > 2 {
		return nil, shapeErrf("deletion is only defined for matrices")
	}
	if dim != 0 && dim != 1 {
		return nil, shapeErrf("invalid deletion dimension %d", dim+1)
	}
	size := t.dims[dim]
	drop := make([]bool, size)
	for _, i := range idx {
		if i < 1 || i > size {
			return nil, boundsErrf("index %d out of bounds for dimension %d (size %d)", i, dim+1, size)
		}
		drop[i-1] = true
	}
	kept := 0
	for _, d := range drop {
		if !d {
			kept++
		}
	}
	rows, cols := t.Rows(), t.Cols()
	var data []number.Number
	var dims []int
	if dim == 0 {
		dims = []int{kept, cols}
		for c := 0; c < cols; c++ {
			for r := 0; r < rows; r++ {
				if !drop[r] {
					data = append(data, t.data[r+c*rows])
				}
			}
		}
	} else {
		dims = []int{rows, kept}
		for c := 0; c < cols; c++ {
			if drop[c] {
				continue
			}
			data = append(data, t.data[c*rows:(c+1)*rows]...)
		}
	}
	if len(data) == 0 {
		return Empty(), nil
	}
	return newTensor(dims, data), nil
}

// stridesOf returns column-major strides for dims.
func stridesOf(dims []int) []int {
	strides := make([]int, len(dims))
	s := 1
	for k, d := range dims {
		strides[k] = s
		s *= d
	}
	return strides
}
