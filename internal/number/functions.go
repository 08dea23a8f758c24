package number

import (
	"math"
	"math/cmplx"

	"github.com/shopspring/decimal"

	"github.com/matexlang/matex/internal/config"
)

// The transcendental family delegates to the float64 libm and, for values off
// the real line or out of real domain, to math/cmplx. The decimal engine only
// carries exact field arithmetic; this split is documented in DESIGN.md.

func cmplxPow(a, b complex128) complex128 { return cmplx.Pow(a, b) }

func (n Number) mapFloat(rf func(float64) float64, cf func(complex128) complex128) Number {
	if n.IsReal() {
		v := rf(n.re.float())
		if !math.IsNaN(v) || n.IsNaN() {
			return FromFloat(v)
		}
		// Real input left the real domain (e.g. sqrt(-1)): retry complex.
	}
	return fromComplex128(cf(n.complex128()))
}

func (n Number) Sin() Number  { return n.mapFloat(math.Sin, cmplx.Sin) }
func (n Number) Cos() Number  { return n.mapFloat(math.Cos, cmplx.Cos) }
func (n Number) Tan() Number  { return n.mapFloat(math.Tan, cmplx.Tan) }
func (n Number) Asin() Number { return n.mapFloat(math.Asin, cmplx.Asin) }
func (n Number) Acos() Number { return n.mapFloat(math.Acos, cmplx.Acos) }
func (n Number) Atan() Number { return n.mapFloat(math.Atan, cmplx.Atan) }
func (n Number) Exp() Number  { return n.mapFloat(math.Exp, cmplx.Exp) }
func (n Number) Log() Number  { return n.mapFloat(math.Log, cmplx.Log) }
func (n Number) Log2() Number { return n.mapFloat(math.Log2, func(z complex128) complex128 { return cmplx.Log(z) / complex(math.Ln2, 0) }) }
func (n Number) Log10() Number {
	return n.mapFloat(math.Log10, cmplx.Log10)
}

// Sqrt of a finite non-negative real stays in decimal-representable floats;
// negative reals produce the expected imaginary result.
func (n Number) Sqrt() Number { return n.mapFloat(math.Sqrt, cmplx.Sqrt) }

// Angle is the phase of the value in radians.
func (n Number) Angle() Number {
	return FromFloat(math.Atan2(n.im.float(), n.re.float()))
}

// Gamma is the gamma function, through float64.
func (n Number) Gamma() Number {
	if !n.IsReal() {
		return NaN()
	}
	return FromFloat(math.Gamma(n.re.float()))
}

// Factorial computes n! exactly in decimal for non-negative integers up to
// the configured limit; anything else goes through gamma(n+1).
func (n Number) Factorial() Number {
	if n.IsInteger() && n.re.sign() >= 0 && n.Int() <= config.FactorialLimit {
		acc := decimal.New(1, 0)
		for i := int64(2); i <= n.Int(); i++ {
			acc = acc.Mul(decimal.NewFromInt(i))
		}
		return FromDecimal(acc)
	}
	return n.Add(One()).Gamma()
}
