package number

import (
	"strings"
	"testing"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"integer", "42", "42"},
		{"decimal", "2.5", "2.5"},
		{"exponent", "1e3", "1000"},
		{"negative exponent", "25e-1", "2.5"},
		{"imaginary i", "2i", "2i"},
		{"imaginary j", "3j", "3i"},
		{"bare i", "i", "i"},
		{"fractional imaginary", "0.5i", "0.5i"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n, err := Parse(tt.input)
			if err != nil {
				t.Fatalf("Parse(%q): %v", tt.input, err)
			}
			if got := n.String(); got != tt.want {
				t.Errorf("Parse(%q) = %s, want %s", tt.input, got, tt.want)
			}
		})
	}
}

func TestParseErrors(t *testing.T) {
	for _, input := range []string{"", "abc", "1.2.3", "--1"} {
		if _, err := Parse(input); err == nil {
			t.Errorf("Parse(%q) succeeded, want error", input)
		}
	}
}

func TestArithmetic(t *testing.T) {
	tests := []struct {
		name string
		got  Number
		want string
	}{
		{"add", MustParse("2").Add(MustParse("3")), "5"},
		{"sub", MustParse("2").Sub(MustParse("5")), "-3"},
		{"mul", MustParse("4").Mul(MustParse("2.5")), "10"},
		{"div exact", MustParse("6").Div(MustParse("2")), "3"},
		{"neg", MustParse("7").Neg(), "-7"},
		{"complex add", MustParse("2i").Add(MustParse("3")), "3 + 2i"},
		{"complex mul", FromComplex(One(), MustParse("2")).Mul(FromComplex(One(), MustParse("-2"))), "5"},
		{"complex conj", FromComplex(MustParse("3"), MustParse("4")).Conj(), "3 - 4i"},
		{"abs complex", FromComplex(MustParse("3"), MustParse("4")).Abs(), "5"},
		{"int pow", MustParse("2").Pow(MustParse("10")), "1024"},
		{"neg base pow", MustParse("-2").Pow(MustParse("2")), "4"},
		{"inverse pow", MustParse("2").Pow(MustParse("-1")), "0.5"},
		{"mod", MustParse("7").Mod(MustParse("3")), "1"},
		{"mod negative", MustParse("-1").Mod(MustParse("3")), "2"},
		{"rem negative", MustParse("-7").Rem(MustParse("3")), "-1"},
		{"floor", MustParse("2.7").Floor(), "2"},
		{"ceil", MustParse("-2.1").Ceil(), "-2"},
		{"round", MustParse("2.5").Round(), "3"},
		{"fix", MustParse("-2.7").Fix(), "-2"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.got.String(); got != tt.want {
				t.Errorf("got %s, want %s", got, tt.want)
			}
		})
	}
}

func TestDivisionByZero(t *testing.T) {
	if got := One().Div(Zero()).String(); got != "Inf" {
		t.Errorf("1/0 = %s, want Inf", got)
	}
	if got := MustParse("-1").Div(Zero()).String(); got != "-Inf" {
		t.Errorf("-1/0 = %s, want -Inf", got)
	}
	if got := Zero().Div(Zero()); !got.IsNaN() {
		t.Errorf("0/0 = %s, want NaN", got)
	}
}

func TestInfinityArithmetic(t *testing.T) {
	inf := Infinity(1)
	if got := inf.Add(One()); got.String() != "Inf" {
		t.Errorf("Inf + 1 = %s", got)
	}
	if got := inf.Sub(inf); !got.IsNaN() {
		t.Errorf("Inf - Inf = %s, want NaN", got)
	}
	if got := inf.Neg().String(); got != "-Inf" {
		t.Errorf("-Inf = %s", got)
	}
}

func TestCompare(t *testing.T) {
	tests := []struct {
		name string
		a, b Number
		want int
	}{
		{"less", One(), MustParse("2"), -1},
		{"equal", MustParse("2.0"), MustParse("2"), 0},
		{"greater", MustParse("3"), MustParse("2"), 1},
		{"inf greatest", Infinity(1), MustParse("1e30"), 1},
		{"neg inf least", Infinity(-1), MustParse("-1e30"), -1},
		// Total order compares real parts first, then imaginary parts.
		{"complex by real", MustParse("1i"), One(), -1},
		{"complex by imag", One().Add(MustParse("1i")), One(), 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.a.Compare(tt.b); got != tt.want {
				t.Errorf("Compare = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestKindTagging(t *testing.T) {
	if !Bool(true).True() || Bool(false).True() {
		t.Error("Bool truthiness broken")
	}
	if got := FromRune('A'); got.Kind() != Char || got.String() != "A" {
		t.Errorf("FromRune('A') = %s kind %v", got, got.Kind())
	}
	if got := FromRune('A').AsReal(); got.String() != "65" || got.Kind() != Real {
		t.Errorf("double('A') = %s kind %v", got, got.Kind())
	}
	if n, ok := One().AsLogical(); !ok || n.Kind() != Logical {
		t.Error("AsLogical(1) failed")
	}
	if _, ok := MustParse("2").AsLogical(); ok {
		t.Error("AsLogical(2) should fail")
	}
	// Arithmetic on logical and char operands produces plain numbers.
	if got := Bool(true).Add(Bool(true)); got.Kind() != Real || got.String() != "2" {
		t.Errorf("true + true = %s kind %v", got, got.Kind())
	}
}

func TestFunctions(t *testing.T) {
	tests := []struct {
		name string
		got  Number
		want string
	}{
		{"sin zero", Zero().Sin(), "0"},
		{"exp zero", Zero().Exp(), "1"},
		{"sqrt", MustParse("4").Sqrt(), "2"},
		{"sqrt negative", MustParse("-4").Sqrt(), "2i"},
		{"log2", MustParse("8").Log2(), "3"},
		{"factorial", MustParse("5").Factorial(), "120"},
		{"factorial zero", Zero().Factorial(), "1"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.got.String(); got != tt.want {
				t.Errorf("got %s, want %s", got, tt.want)
			}
		})
	}
}

func TestString(t *testing.T) {
	tests := []struct {
		name string
		n    Number
		want string
	}{
		{"complex both parts", FromComplex(MustParse("3"), MustParse("4")), "3 + 4i"},
		{"complex negative imag", FromComplex(MustParse("3"), MustParse("-4")), "3 - 4i"},
		{"pure imaginary", MustParse("4i"), "4i"},
		{"char", FromRune('x'), "x"},
		{"nan", NaN(), "NaN"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.n.String(); got != tt.want {
				t.Errorf("String = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestText(t *testing.T) {
	if got := Pi().Text(4); got != "3.1416" {
		t.Errorf("pi rounded = %s", got)
	}
	if got := Pi().Text(-1); !strings.HasPrefix(got, "3.14159265358979") {
		t.Errorf("pi full = %s", got)
	}
	if got := MustParse("2").Text(4); got != "2" {
		t.Errorf("integer rounded = %s", got)
	}
}

func TestMathML(t *testing.T) {
	if got := Infinity(1).MathML(); got != "<mi>&#x221E;</mi>" {
		t.Errorf("Inf MathML = %s", got)
	}
	if got := FromComplex(MustParse("3"), MustParse("4")).MathML(); !strings.Contains(got, "<mi>i</mi>") {
		t.Errorf("complex MathML = %s", got)
	}
	if got := FromRune('<').MathML(); !strings.Contains(got, "&lt;") {
		t.Errorf("char MathML not escaped: %s", got)
	}
}
