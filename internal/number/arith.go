package number

import (
	"math"

	"github.com/shopspring/decimal"

	"github.com/matexlang/matex/internal/config"
)

func partAdd(a, b part) part {
	if a.isFinite() && b.isFinite() {
		return finitePart(a.dec.Add(b.dec))
	}
	return floatPart(a.float() + b.float())
}

func partSub(a, b part) part {
	if a.isFinite() && b.isFinite() {
		return finitePart(a.dec.Sub(b.dec))
	}
	return floatPart(a.float() - b.float())
}

func partMul(a, b part) part {
	if a.isFinite() && b.isFinite() {
		return finitePart(a.dec.Mul(b.dec))
	}
	return floatPart(a.float() * b.float())
}

// partDiv follows IEEE conventions for zero divisors instead of failing:
// x/0 is signed infinity, 0/0 is NaN.
func partDiv(a, b part) part {
	if a.isFinite() && b.isFinite() {
		if b.dec.IsZero() {
			switch {
			case a.dec.IsZero():
				return part{f: nan}
			case a.dec.Sign() > 0:
				return part{f: posInf}
			default:
				return part{f: negInf}
			}
		}
		return finitePart(a.dec.DivRound(b.dec, config.DivisionPrecision))
	}
	return floatPart(a.float() / b.float())
}

func partNeg(a part) part {
	switch a.f {
	case posInf:
		return part{f: negInf}
	case negInf:
		return part{f: posInf}
	case nan:
		return part{f: nan}
	}
	return finitePart(a.dec.Neg())
}

// partCmp orders parts, with -Inf below and +Inf above all finite values.
// NaN sorts above everything so the order stays total.
func partCmp(a, b part) int {
	if a.f == nan || b.f == nan {
		switch {
		case a.f == nan && b.f == nan:
			return 0
		case a.f == nan:
			return 1
		default:
			return -1
		}
	}
	if a.f != finite || b.f != finite {
		as, bs := infRank(a), infRank(b)
		switch {
		case as < bs:
			return -1
		case as > bs:
			return 1
		default:
			return 0
		}
	}
	return a.dec.Cmp(b.dec)
}

func infRank(p part) int {
	switch p.f {
	case negInf:
		return -1
	case posInf:
		return 1
	}
	return 0
}

func (n Number) Add(m Number) Number {
	return Number{re: partAdd(n.re, m.re), im: partAdd(n.im, m.im)}.normalize()
}

func (n Number) Sub(m Number) Number {
	return Number{re: partSub(n.re, m.re), im: partSub(n.im, m.im)}.normalize()
}

// Mul applies the complex product (ac-bd, ad+bc); the real/real fast path
// avoids the extra zero products.
func (n Number) Mul(m Number) Number {
	if n.IsReal() && m.IsReal() {
		return Number{re: partMul(n.re, m.re)}
	}
	re := partSub(partMul(n.re, m.re), partMul(n.im, m.im))
	im := partAdd(partMul(n.re, m.im), partMul(n.im, m.re))
	return Number{re: re, im: im, kind: Complex}.normalize()
}

func (n Number) Div(m Number) Number {
	if n.IsReal() && m.IsReal() {
		return Number{re: partDiv(n.re, m.re)}
	}
	denom := partAdd(partMul(m.re, m.re), partMul(m.im, m.im))
	re := partDiv(partAdd(partMul(n.re, m.re), partMul(n.im, m.im)), denom)
	im := partDiv(partSub(partMul(n.im, m.re), partMul(n.re, m.im)), denom)
	return Number{re: re, im: im, kind: Complex}.normalize()
}

func (n Number) Neg() Number {
	return Number{re: partNeg(n.re), im: partNeg(n.im), kind: n.kind.arithKind()}.normalize()
}

// arithKind maps the result class of arithmetic on tagged values: operating on
// logical or char values produces plain real numbers, MATLAB-style.
func (k Kind) arithKind() Kind {
	if k == Complex {
		return Complex
	}
	return Real
}

// Pow computes n^m. Small integer exponents on finite values stay exact in
// decimal; everything else goes through the float complex plane.
func (n Number) Pow(m Number) Number {
	if m.IsInteger() && n.IsFinite() && m.re.isFinite() {
		if e := m.Int(); e >= -256 && e <= 256 {
			return n.intPow(e)
		}
	}
	if n.IsReal() && m.IsReal() {
		base, exp := n.re.float(), m.re.float()
		if base >= 0 || exp == math.Trunc(exp) {
			return FromFloat(math.Pow(base, exp))
		}
	}
	return fromComplex128(cmplxPow(n.complex128(), m.complex128()))
}

func (n Number) intPow(e int64) Number {
	if e == 0 {
		return One()
	}
	neg := e < 0
	if neg {
		e = -e
	}
	acc := One()
	base := n.AsReal()
	for i := int64(0); i < e; i++ {
		acc = acc.Mul(base)
	}
	if neg {
		return One().Div(acc)
	}
	return acc
}

// Abs is the magnitude: |re| for reals, sqrt(re²+im²) for complex values.
func (n Number) Abs() Number {
	if n.IsReal() {
		if n.re.f == negInf || n.re.f == posInf {
			return Infinity(1)
		}
		if n.re.f == nan {
			return NaN()
		}
		return Number{re: finitePart(n.re.dec.Abs())}
	}
	return FromFloat(math.Hypot(n.re.float(), n.im.float()))
}

func (n Number) Conj() Number {
	return Number{re: n.re, im: partNeg(n.im), kind: n.kind}.normalize()
}

// Compare orders values by real part, then imaginary part.
func (n Number) Compare(m Number) int {
	if c := partCmp(n.re, m.re); c != 0 {
		return c
	}
	return partCmp(n.im, m.im)
}

// Equal requires both parts equal; NaN never equals anything.
func (n Number) Equal(m Number) bool {
	if n.IsNaN() || m.IsNaN() {
		return false
	}
	return n.Compare(m) == 0
}

// Mod is the modulo with the sign of the divisor, a - floor(a/b)*b.
// Mod by zero returns the dividend, as the source language defines.
func (n Number) Mod(m Number) Number {
	if m.IsZero() {
		return n.AsReal()
	}
	q := n.Div(m)
	return n.Sub(q.Floor().Mul(m)).AsReal()
}

// Rem is the remainder with the sign of the dividend, a - fix(a/b)*b.
func (n Number) Rem(m Number) Number {
	if m.IsZero() {
		return NaN()
	}
	q := n.Div(m)
	return n.Sub(q.Fix().Mul(m)).AsReal()
}

func (n Number) Floor() Number { return n.mapDecimal(decimal.Decimal.Floor) }
func (n Number) Ceil() Number  { return n.mapDecimal(decimal.Decimal.Ceil) }

func (n Number) Round() Number {
	return n.mapDecimal(func(d decimal.Decimal) decimal.Decimal { return d.Round(0) })
}

// Fix truncates toward zero.
func (n Number) Fix() Number {
	return n.mapDecimal(func(d decimal.Decimal) decimal.Decimal { return d.Truncate(0) })
}

func (n Number) mapDecimal(f func(decimal.Decimal) decimal.Decimal) Number {
	mp := func(p part) part {
		if !p.isFinite() {
			return p
		}
		return finitePart(f(p.dec))
	}
	return Number{re: mp(n.re), im: mp(n.im), kind: n.kind.arithKind()}.normalize()
}

// Logical connectives. Operands are truthy-tested; results are Logical kind.

func (n Number) And(m Number) Number { return Bool(n.True() && m.True()) }
func (n Number) Or(m Number) Number  { return Bool(n.True() || m.True()) }
func (n Number) Xor(m Number) Number { return Bool(n.True() != m.True()) }
func (n Number) Not() Number         { return Bool(!n.True()) }
