package number

import (
	"fmt"
	"math"
	"strings"

	"github.com/shopspring/decimal"
)

// Kind tags the numeric class of a value. Logical and Char values still carry
// their payload in the real part (0/1, or a code point).
type Kind uint8

const (
	Real Kind = iota
	Complex
	Logical
	Char
)

func (k Kind) String() string {
	switch k {
	case Real:
		return "real"
	case Complex:
		return "complex"
	case Logical:
		return "logical"
	case Char:
		return "char"
	}
	return "unknown"
}

// form marks the non-finite states a decimal cannot represent.
type form uint8

const (
	finite form = iota
	posInf
	negInf
	nan
)

type part struct {
	dec decimal.Decimal
	f   form
}

// Number is an arbitrary-precision complex scalar with a kind tag.
// Values are immutable; every operation returns a new Number.
type Number struct {
	re, im part
	kind   Kind
}

// ParseError reports invalid numeric literal text.
type ParseError struct {
	Text string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("invalid numeric literal %q", e.Text)
}

func finitePart(d decimal.Decimal) part {
	return part{dec: d}
}

func floatPart(f float64) part {
	switch {
	case math.IsNaN(f):
		return part{f: nan}
	case math.IsInf(f, 1):
		return part{f: posInf}
	case math.IsInf(f, -1):
		return part{f: negInf}
	}
	return part{dec: decimal.NewFromFloat(f)}
}

func (p part) float() float64 {
	switch p.f {
	case posInf:
		return math.Inf(1)
	case negInf:
		return math.Inf(-1)
	case nan:
		return math.NaN()
	}
	return p.dec.InexactFloat64()
}

func (p part) isZero() bool   { return p.f == finite && p.dec.IsZero() }
func (p part) isFinite() bool { return p.f == finite }

func (p part) sign() int {
	switch p.f {
	case posInf:
		return 1
	case negInf:
		return -1
	case nan:
		return 0
	}
	return p.dec.Sign()
}

// normalize demotes a complex value with a zero imaginary part back to real.
func (n Number) normalize() Number {
	if n.kind == Complex && n.im.isZero() {
		n.kind = Real
	}
	if !n.im.isZero() {
		n.kind = Complex
	}
	return n
}

// Parse constructs a Number from literal text. A trailing 'i' or 'j' marks an
// imaginary literal.
func Parse(text string) (Number, error) {
	s := strings.TrimSpace(text)
	if s == "" {
		return Number{}, &ParseError{Text: text}
	}
	imag := false
	if c := s[len(s)-1]; c == 'i' || c == 'j' {
		imag = true
		s = s[:len(s)-1]
		if s == "" {
			s = "1"
		}
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Number{}, &ParseError{Text: text}
	}
	if imag {
		return Number{im: finitePart(d), kind: Complex}.normalize(), nil
	}
	return Number{re: finitePart(d)}, nil
}

// MustParse is Parse for trusted constant text.
func MustParse(text string) Number {
	n, err := Parse(text)
	if err != nil {
		panic(err)
	}
	return n
}

func FromInt(v int64) Number {
	return Number{re: finitePart(decimal.NewFromInt(v))}
}

func FromFloat(v float64) Number {
	return Number{re: floatPart(v)}
}

func FromDecimal(d decimal.Decimal) Number {
	return Number{re: finitePart(d)}
}

// FromComplex composes a complex Number out of two real parts.
func FromComplex(re, im Number) Number {
	return Number{re: re.re, im: im.re, kind: Complex}.normalize()
}

func fromComplex128(v complex128) Number {
	return Number{re: floatPart(real(v)), im: floatPart(imag(v)), kind: Complex}.normalize()
}

func Bool(b bool) Number {
	n := Number{kind: Logical}
	if b {
		n.re = finitePart(decimal.New(1, 0))
	}
	return n
}

// FromRune builds a character value carrying the code point.
func FromRune(r rune) Number {
	return Number{re: finitePart(decimal.NewFromInt(int64(r))), kind: Char}
}

func Zero() Number { return Number{} }
func One() Number  { return FromInt(1) }

func Infinity(sign int) Number {
	if sign < 0 {
		return Number{re: part{f: negInf}}
	}
	return Number{re: part{f: posInf}}
}

func NaN() Number { return Number{re: part{f: nan}} }

// Imaginary returns the imaginary unit.
func Imaginary() Number {
	return Number{im: finitePart(decimal.New(1, 0)), kind: Complex}
}

const (
	piDigits  = "3.14159265358979323846264338327950288419716939937510582097494459"
	eDigits   = "2.71828182845904523536028747135266249775724709369995957496696763"
	epsDigits = "2.220446049250313080847263336181640625e-16"
)

func Pi() Number  { return MustParse(piDigits) }
func E() Number   { return MustParse(eDigits) }
func Eps() Number { return MustParse(epsDigits) }

func (n Number) Kind() Kind { return n.kind }

// IsReal reports whether the imaginary part is zero.
func (n Number) IsReal() bool { return n.im.isZero() }

func (n Number) IsZero() bool { return n.re.isZero() && n.im.isZero() }

func (n Number) IsFinite() bool { return n.re.isFinite() && n.im.isFinite() }

func (n Number) IsNaN() bool { return n.re.f == nan || n.im.f == nan }

// IsZeroOrOne reports whether the value is a valid logical payload.
func (n Number) IsZeroOrOne() bool {
	if !n.im.isZero() || !n.re.isFinite() {
		return false
	}
	return n.re.dec.IsZero() || n.re.dec.Equal(decimal.New(1, 0))
}

// IsInteger reports a finite real integer value.
func (n Number) IsInteger() bool {
	return n.IsReal() && n.re.isFinite() && n.re.dec.IsInteger()
}

// Int returns the integer value of a finite real integer Number.
func (n Number) Int() int64 { return n.re.dec.IntPart() }

// Rune returns the code point of a Char value.
func (n Number) Rune() rune { return rune(n.re.dec.IntPart()) }

// True reports the truth of a value in a logical context: any nonzero value.
func (n Number) True() bool { return !n.IsZero() }

// AsLogical coerces to Logical kind; the value must be 0 or 1.
func (n Number) AsLogical() (Number, bool) {
	if !n.IsZeroOrOne() {
		return n, false
	}
	return Number{re: n.re, kind: Logical}, true
}

// AsReal strips Logical/Char tagging, keeping the numeric payload.
func (n Number) AsReal() Number {
	return Number{re: n.re, im: n.im, kind: Real}.normalize()
}

// RealPart returns the real component as a real Number.
func (n Number) RealPart() Number { return Number{re: n.re} }

// ImagPart returns the imaginary component as a real Number.
func (n Number) ImagPart() Number { return Number{re: n.im} }

func (n Number) complex128() complex128 {
	return complex(n.re.float(), n.im.float())
}
