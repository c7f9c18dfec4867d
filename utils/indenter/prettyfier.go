package indenter

import (
	"strings"
)

const step = "  "

// Indenter collects lines of nested text. Each nesting level is indented by
// two spaces. The zero value is ready for use.
type Indenter struct {
	level int
	lines []string
}

// New returns an Indenter whose first line sits at the given level.
func New(level int) *Indenter {
	return &Indenter{level: level}
}

func (i *Indenter) indent() string {
	return strings.Repeat(step, i.level)
}

// Line appends str at the current level.
func (i *Indenter) Line(str string) *Indenter {
	i.lines = append(i.lines, i.indent()+str)
	return i
}

// Nest appends the header line, then runs body one level deeper.
func (i *Indenter) Nest(header string, body func(*Indenter)) *Indenter {
	i.Line(header)
	i.level++
	body(i)
	i.level--
	return i
}

// Lines returns the collected lines.
func (i *Indenter) Lines() []string {
	return append([]string(nil), i.lines...)
}

// Len is the number of collected lines.
func (i *Indenter) Len() int {
	return len(i.lines)
}

// String joins the collected lines with newlines.
func (i *Indenter) String() string {
	return strings.Join(i.lines, "\n")
}
