package dot

import (
	"bytes"
	"fmt"
	"io"
	"sort"
	"strings"
	"text/template"

	"github.com/goccy/go-graphviz"
	"github.com/pkg/errors"
)

const tmplEdge = `{{define "edge" -}}
	{{printf "%q -> %q [ %s ]" .From .To .Attrs}}
{{- end}}`

const tmplNode = `{{define "node" -}}
	{{printf "%q [ %s ]" .ID .Attrs}}
{{- end}}`

const tmplGraph = `digraph {{printf "%q" .Title}} {
	label={{printf "%q" .Title}};
	labeljust="l";
	fontname="Arial";
	fontsize="14";
	rankdir="{{or .Options.rankdir "LR"}}";
	nodesep="{{or .Options.nodesep "0.35"}}";

	node [shape="box" style="rounded,filled" fillcolor="honeydew" fontname="Verdana" penwidth="1.0" margin="0.05,0.0"];
	edge [minlen="{{or .Options.minlen "1"}}"]

	{{- range .Nodes}}
	{{template "node" .}}
	{{- end}}

	{{- range .Edges}}
	{{template "edge" .}}
	{{- end}}
}
`

// ==[ type def/func: DotNode    ]===============================================
type DotNode struct {
	ID    string
	Attrs DotAttrs
}

func (n *DotNode) String() string {
	return n.ID
}

// ==[ type def/func: DotEdge    ]===============================================
type DotEdge struct {
	From  *DotNode
	To    *DotNode
	Attrs DotAttrs
}

// ==[ type def/func: DotAttrs   ]===============================================
type DotAttrs map[string]string

// List renders the attributes sorted by name, so output is reproducible.
func (p DotAttrs) List() []string {
	keys := make([]string, 0, len(p))
	for k := range p {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	l := make([]string, 0, len(keys))
	for _, k := range keys {
		l = append(l, fmt.Sprintf("%s=%q;", k, p[k]))
	}
	return l
}

func (p DotAttrs) String() string {
	return strings.Join(p.List(), " ")
}

// ==[ type def/func: DotGraph   ]===============================================
type DotGraph struct {
	Title   string
	Nodes   []*DotNode
	Edges   []*DotEdge
	Options map[string]string
}

// AddNode appends a node with the given identifier and label.
func (g *DotGraph) AddNode(id, label string) *DotNode {
	n := &DotNode{ID: id, Attrs: DotAttrs{"label": label}}
	g.Nodes = append(g.Nodes, n)
	return n
}

// AddEdge connects two nodes, labelling the edge.
func (g *DotGraph) AddEdge(from, to *DotNode, label string) *DotEdge {
	e := &DotEdge{From: from, To: to, Attrs: DotAttrs{"label": label}}
	g.Edges = append(g.Edges, e)
	return e
}

func (g *DotGraph) WriteDot(w io.Writer) error {
	t := template.New("dot")
	t.Option("missingkey=zero") // Make missing map keys return the zero value of appropriate type
	for _, s := range []string{tmplNode, tmplEdge, tmplGraph} {
		if _, err := t.Parse(s); err != nil {
			return err
		}
	}
	var buf bytes.Buffer
	if err := t.Execute(&buf, g); err != nil {
		return err
	}
	_, err := buf.WriteTo(w)
	return err
}

// ToImage renders the graph with the embedded graphviz library to path, in
// the given format (e.g. "svg" or "png").
func (g *DotGraph) ToImage(path, format string) error {
	var buf bytes.Buffer
	if err := g.WriteDot(&buf); err != nil {
		return err
	}

	gv := graphviz.New()
	defer gv.Close()

	graph, err := graphviz.ParseBytes(buf.Bytes())
	if err != nil {
		return errors.Wrap(err, "parsing generated dot")
	}
	defer graph.Close()

	if err := gv.RenderFilename(graph, graphviz.Format(format), path); err != nil {
		return errors.Wrapf(err, "rendering %s", path)
	}
	return nil
}
