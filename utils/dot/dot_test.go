package dot

import (
	"bytes"
	"strings"
	"testing"
)

func TestWriteDot(t *testing.T) {
	g := &DotGraph{Title: "m", Options: map[string]string{"rankdir": "TB"}}
	root := g.AddNode("n0", "AttMap")
	child := g.AddNode("n1", "b: 2")
	g.AddEdge(root, child, "b")

	var buf bytes.Buffer
	if err := g.WriteDot(&buf); err != nil {
		t.Fatal(err)
	}

	out := buf.String()
	for _, expected := range []string{
		`digraph "m" {`,
		`rankdir="TB";`,
		`"n0" [ label="AttMap"; ]`,
		`"n1" [ label="b: 2"; ]`,
		`"n0" -> "n1" [ label="b"; ]`,
	} {
		if !strings.Contains(out, expected) {
			t.Errorf("output lacks %q:\n%s", expected, out)
		}
	}
}

func TestAttrsAreSorted(t *testing.T) {
	attrs := DotAttrs{"shape": "box", "color": "red", "label": "x"}
	expected := `color="red"; label="x"; shape="box";`
	if attrs.String() != expected {
		t.Errorf("String() = %s, expected %s", attrs.String(), expected)
	}
}
