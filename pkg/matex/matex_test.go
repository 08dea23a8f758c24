package matex

import (
	"bytes"
	"reflect"
	"strings"
	"testing"
)

func TestEvaluate(t *testing.T) {
	s, err := New(nil)
	if err != nil {
		t.Fatal(err)
	}
	got, err := s.Evaluate("1 + 1")
	if err != nil {
		t.Fatal(err)
	}
	if got != "2" {
		t.Errorf("Evaluate = %q, want 2", got)
	}

	// State persists between calls.
	if _, err := s.Evaluate("x = [1 2 3];"); err != nil {
		t.Fatal(err)
	}
	got, err = s.Evaluate("sum(x)")
	if err != nil {
		t.Fatal(err)
	}
	if got != "6" {
		t.Errorf("sum(x) = %q, want 6", got)
	}
}

func TestRunStatus(t *testing.T) {
	s, err := New(nil)
	if err != nil {
		t.Fatal(err)
	}
	if status, err := s.Run("2 + 2;"); err != nil || status != OK {
		t.Errorf("Run = %v, %v", status, err)
	}
	if status, _ := s.Run("1 +"); status != ParseError {
		t.Errorf("parse status = %v", status)
	}
	if status, _ := s.Run("nope"); status != EvalError {
		t.Errorf("eval status = %v", status)
	}
}

func TestOutput(t *testing.T) {
	s, err := New(nil)
	if err != nil {
		t.Fatal(err)
	}
	var buf bytes.Buffer
	s.SetOutput(&buf)
	if _, err := s.Run("y = 6 * 7"); err != nil {
		t.Fatal(err)
	}
	if got := buf.String(); got != "y = 42\n" {
		t.Errorf("output = %q", got)
	}
}

func TestUnparse(t *testing.T) {
	s, err := New(nil)
	if err != nil {
		t.Fatal(err)
	}
	got, err := s.Unparse("1+2 * 3")
	if err != nil {
		t.Fatal(err)
	}
	if got != "1 + 2 * 3" {
		t.Errorf("Unparse = %q", got)
	}
	if _, err := s.Unparse("1 +"); err == nil {
		t.Error("Unparse of broken source should fail")
	}
}

func TestUnparseMathML(t *testing.T) {
	s, err := New(nil)
	if err != nil {
		t.Fatal(err)
	}
	got, err := s.UnparseMathML("a/b", true)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(got, `display="block"`) || !strings.Contains(got, "<mfrac>") {
		t.Errorf("MathML = %s", got)
	}
	got, err = s.UnparseMathML("x", false)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(got, `display="inline"`) {
		t.Errorf("inline MathML = %s", got)
	}
}

func TestClearAndNames(t *testing.T) {
	s, err := New(nil)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := s.Run("b = 2; a = 1;"); err != nil {
		t.Fatal(err)
	}
	if got := s.Names(); !reflect.DeepEqual(got, []string{"a", "b"}) {
		t.Errorf("Names = %v", got)
	}
	if err := s.Clear("a"); err != nil {
		t.Fatal(err)
	}
	if got := s.Names(); !reflect.DeepEqual(got, []string{"b"}) {
		t.Errorf("Names after clear = %v", got)
	}
	if err := s.Clear(); err != nil {
		t.Fatal(err)
	}
	if got := s.Names(); len(got) != 0 {
		t.Errorf("Names after full clear = %v", got)
	}
}

func TestNewFromYAML(t *testing.T) {
	s, err := NewFromYAML([]byte("aliases:\n  - {pattern: 'sine?', target: sin}\n"))
	if err != nil {
		t.Fatal(err)
	}
	got, err := s.Evaluate("sine(0)")
	if err != nil {
		t.Fatal(err)
	}
	if got != "0" {
		t.Errorf("aliased sine(0) = %q", got)
	}

	if _, err := NewFromYAML([]byte("format: bogus\n")); err == nil {
		t.Error("invalid yaml options should fail")
	}
}

func TestSessionIDs(t *testing.T) {
	a, _ := New(nil)
	b, _ := New(nil)
	if a.ID() == "" || a.ID() == b.ID() {
		t.Errorf("IDs = %q, %q", a.ID(), b.ID())
	}
}
