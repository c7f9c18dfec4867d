package attmap

import (
	"fmt"
	"io"

	"github.com/cs-au-dk/attmap/utils/dot"
	"github.com/cs-au-dk/attmap/utils/worklist"
)

type dotJob struct {
	m    *AttMap
	node *dot.DotNode
}

// Graph describes the nesting of m: one node per map, labelled with its
// variant, and one node per other value, labelled with its rendering. Edges
// carry keys. Keys hidden from rendering are left out.
func (m *AttMap) Graph(title string) *dot.DotGraph {
	g := &dot.DotGraph{Title: title}
	root := g.AddNode("n0", m.variant.String())

	worklist.Start(dotJob{m, root}, func(job dotJob, add func(dotJob)) {
		cfg := job.m.conf()
		job.m.each(func(k string, v Value) bool {
			if cfg.excludeRepr(k) {
				return true
			}

			id := fmt.Sprintf("n%d", len(g.Nodes))
			if sub, ok := v.(*AttMap); ok {
				n := g.AddNode(id, sub.variant.String())
				g.AddEdge(job.node, n, k)
				add(dotJob{sub, n})
			} else {
				g.AddEdge(job.node, g.AddNode(id, flowRepr(v, false)), k)
			}
			return true
		})
	})
	return g
}

// WriteDot writes Graph(m) in Graphviz DOT syntax.
func (m *AttMap) WriteDot(w io.Writer) error {
	return m.Graph(m.variant.String()).WriteDot(w)
}
