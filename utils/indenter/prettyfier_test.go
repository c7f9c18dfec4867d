package indenter

import "testing"

func TestNesting(t *testing.T) {
	i := New(0)
	i.Line("b: 2").Nest("a:", func(i *Indenter) {
		i.Line("d: 4")
		i.Nest("c:", func(i *Indenter) {
			i.Line("f: 6")
		})
	}).Line("x: 1")

	expected := "b: 2\na:\n  d: 4\n  c:\n    f: 6\nx: 1"
	if res := i.String(); res != expected {
		t.Errorf("String() = %q, expected %q", res, expected)
	}
	if i.Len() != 6 {
		t.Errorf("Len() = %d, expected 6", i.Len())
	}
}

func TestStartLevel(t *testing.T) {
	var zero Indenter
	zero.Line("a")
	if zero.String() != "a" {
		t.Errorf("zero value indented its first line: %q", zero.String())
	}

	lines := New(2).Line("a").Lines()
	if len(lines) != 1 || lines[0] != "    a" {
		t.Errorf("Lines() = %q, expected [\"    a\"]", lines)
	}
}
