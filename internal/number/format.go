package number

import "strings"

func (p part) text() string {
	switch p.f {
	case posInf:
		return "Inf"
	case negInf:
		return "-Inf"
	case nan:
		return "NaN"
	}
	return p.dec.String()
}

// String renders the canonical text of the value. Char values render as the
// bare character; quoting is the renderers' concern.
func (n Number) String() string {
	if n.kind == Char {
		return string(n.Rune())
	}
	if n.IsReal() {
		return n.re.text()
	}
	im := n.im.text()
	if n.re.isZero() {
		return im + "i"
	}
	if strings.HasPrefix(im, "-") {
		return n.re.text() + " - " + im[1:] + "i"
	}
	return n.re.text() + " + " + im + "i"
}

// Text renders the value with finite parts rounded to places decimal places.
// Negative places keeps full precision, same as String.
func (n Number) Text(places int32) string {
	if places < 0 || n.kind == Char || n.kind == Logical {
		return n.String()
	}
	if n.re.f == finite {
		n.re.dec = n.re.dec.Round(places)
	}
	if n.im.f == finite {
		n.im.dec = n.im.dec.Round(places)
	}
	return n.String()
}

// MathML renders the value as a MathML fragment.
func (n Number) MathML() string {
	if n.kind == Char {
		return "<mtext>" + escapeMathML(string(n.Rune())) + "</mtext>"
	}
	if n.IsReal() {
		return partMathML(n.re)
	}
	var b strings.Builder
	b.WriteString("<mrow>")
	b.WriteString(partMathML(n.re))
	if strings.HasPrefix(n.im.text(), "-") {
		b.WriteString("<mo>-</mo>")
		b.WriteString(partMathML(partNeg(n.im)))
	} else {
		b.WriteString("<mo>+</mo>")
		b.WriteString(partMathML(n.im))
	}
	b.WriteString("<mo>&#x2062;</mo><mi>i</mi></mrow>")
	return b.String()
}

func partMathML(p part) string {
	switch p.f {
	case posInf:
		return "<mi>&#x221E;</mi>"
	case negInf:
		return "<mrow><mo>-</mo><mi>&#x221E;</mi></mrow>"
	case nan:
		return "<mtext>NaN</mtext>"
	}
	s := p.dec.String()
	if strings.HasPrefix(s, "-") {
		return "<mrow><mo>-</mo><mn>" + s[1:] + "</mn></mrow>"
	}
	return "<mn>" + s + "</mn>"
}

func escapeMathML(s string) string {
	r := strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;")
	return r.Replace(s)
}
