package attmap

import (
	"encoding/base64"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/cs-au-dk/attmap/utils/indenter"
	"github.com/fatih/color"
	"gopkg.in/yaml.v3"
)

var keyColor = color.New(color.FgYellow).SprintFunc()

func (m *AttMap) String() string {
	return m.Render()
}

// Render prints the map headed by its variant name:
//
//	OrdAttMap:
//	  a: 1
//	  b:
//	    c: [x, y]
//
// An empty map renders as "OrdAttMap: {}". Keys excluded through
// WithExcludeFromRepr are left out at every level.
func (m *AttMap) Render() string {
	name := m.variant.String()
	ind := indenter.New(1)
	m.renderEntries(ind, m.conf().color)
	if ind.Len() == 0 {
		return name + ": {}"
	}
	return name + ":\n" + ind.String()
}

// RenderLines renders the entries without a header, one line per key. Each
// non-empty nested map puts its key on a line of its own, followed by its
// entries indented two spaces deeper. An empty map yields ["{}"].
func (m *AttMap) RenderLines() []string {
	ind := indenter.New(0)
	m.renderEntries(ind, false)
	if ind.Len() == 0 {
		return []string{"{}"}
	}
	return ind.Lines()
}

// ToYAML joins RenderLines into a YAML document.
func (m *AttMap) ToYAML(trailingNewline bool) string {
	s := strings.Join(m.RenderLines(), "\n")
	if trailingNewline {
		s += "\n"
	}
	return s
}

func (m *AttMap) WriteYAML(w io.Writer) error {
	_, err := io.WriteString(w, m.ToYAML(true))
	return err
}

func (m *AttMap) renderEntries(ind *indenter.Indenter, colorize bool) {
	cfg := m.conf()
	m.each(func(k string, v Value) bool {
		if cfg.excludeRepr(k) {
			return true
		}

		key := quoteText(k, false)
		if colorize {
			key = keyColor(key)
		}

		if sub, ok := v.(*AttMap); ok && sub.visibleLen() > 0 {
			ind.Nest(key+":", func(i *indenter.Indenter) {
				sub.renderEntries(i, colorize)
			})
		} else {
			ind.Line(key + ": " + flowRepr(v, false))
		}
		return true
	})
}

func (m *AttMap) visibleLen() (n int) {
	cfg := m.conf()
	m.each(func(k string, _ Value) bool {
		if !cfg.excludeRepr(k) {
			n++
		}
		return true
	})
	return
}

// flowRepr renders v on a single line. inFlow is set inside flow
// collections, where separators and brackets must be quoted.
func flowRepr(v Value, inFlow bool) string {
	switch x := v.(type) {
	case Seq:
		parts := make([]string, len(x))
		for i, e := range x {
			parts[i] = flowRepr(e, true)
		}
		return "[" + strings.Join(parts, ", ") + "]"
	case *Set:
		members := x.Members()
		parts := make([]string, len(members))
		for i, e := range members {
			parts[i] = flowRepr(e, true)
		}
		return "!!set {" + strings.Join(parts, ", ") + "}"
	case *AttMap:
		cfg := x.conf()
		var parts []string
		x.each(func(k string, e Value) bool {
			if !cfg.excludeRepr(k) {
				parts = append(parts, quoteText(k, true)+": "+flowRepr(e, true))
			}
			return true
		})
		return "{" + strings.Join(parts, ", ") + "}"
	case Opaque:
		return quoteText(fmt.Sprint(x.V), inFlow)
	}
	return scalarRepr(v, inFlow)
}

func scalarRepr(v Value, inFlow bool) string {
	switch x := v.(type) {
	case nil, Null:
		return "null"
	case Bool:
		return strconv.FormatBool(bool(x))
	case Int:
		return strconv.FormatInt(int64(x), 10)
	case Float:
		return formatFloat(float64(x))
	case Text:
		return quoteText(string(x), inFlow)
	case Bytes:
		return "!!binary " + base64.StdEncoding.EncodeToString(x)
	}
	return ""
}

// formatFloat renders f so that it reads back as a float, never an int.
func formatFloat(f float64) string {
	switch {
	case math.IsInf(f, 1):
		return ".inf"
	case math.IsInf(f, -1):
		return "-.inf"
	case math.IsNaN(f):
		return ".nan"
	}

	s := strconv.FormatFloat(f, 'g', -1, 64)
	if !strings.ContainsAny(s, ".e") {
		s += ".0"
	}
	return s
}

// quoteText leaves s bare when it would read back as the same string, and
// double-quotes it otherwise.
func quoteText(s string, inFlow bool) string {
	if s == "" || (inFlow && strings.ContainsAny(s, ",[]{}")) || !plainSafe(s) {
		return strconv.Quote(s)
	}
	return s
}

func plainSafe(s string) bool {
	if strings.ContainsAny(s, "\n\r\t") || strings.TrimSpace(s) != s {
		return false
	}

	var doc yaml.Node
	if err := yaml.Unmarshal([]byte(s), &doc); err != nil {
		return false
	}
	if doc.Kind != yaml.DocumentNode || len(doc.Content) != 1 {
		return false
	}
	n := doc.Content[0]
	return n.Kind == yaml.ScalarNode && n.Style == 0 && n.Tag == "!!str" && n.Value == s
}
