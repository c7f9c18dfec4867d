package main

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/cs-au-dk/attmap/attmap"
	"github.com/cs-au-dk/attmap/utils/worklist"
	"github.com/fatih/color"
)

type structureMetrics struct {
	maps     int
	maxDepth int
	kinds    map[attmap.Kind]int
}

func measure(m *attmap.AttMap) structureMetrics {
	res := structureMetrics{kinds: make(map[attmap.Kind]int)}

	w := worklist.Empty[attmap.Value]()
	w.Add(m)
	w.Process(func(next attmap.Value, depth int, add func(attmap.Value)) {
		if depth > res.maxDepth {
			res.maxDepth = depth
		}
		res.kinds[next.Kind()]++

		switch v := next.(type) {
		case *attmap.AttMap:
			res.maps++
			for _, item := range v.Items() {
				add(item.Value.(attmap.Value))
			}
		case attmap.Seq:
			for _, e := range v {
				add(e)
			}
		}
	})

	return res
}

// gatherMetrics prints a summary of the merged structure to stderr when
// asked for one.
func gatherMetrics(m *attmap.AttMap) {
	if !opts.Metrics() {
		return
	}
	res := measure(m)

	kinds := make([]attmap.Kind, 0, len(res.kinds))
	for k := range res.kinds {
		kinds = append(kinds, k)
	}
	sort.Slice(kinds, func(i, j int) bool { return kinds[i] < kinds[j] })

	var sb strings.Builder
	sb.WriteString("================ Metrics =====================\n")
	fmt.Fprintln(&sb, "Variant:", color.BlueString(m.Variant().String()))
	fmt.Fprintln(&sb, "Top level keys:", color.GreenString("%d", m.Len()))
	fmt.Fprintln(&sb, "Maps:", color.GreenString("%d", res.maps))
	fmt.Fprintln(&sb, "Maximum depth:", color.GreenString("%d", res.maxDepth))
	sb.WriteString("Values by kind:\n")
	for _, k := range kinds {
		fmt.Fprintf(&sb, "  %-8s %d\n", k, res.kinds[k])
	}

	fmt.Fprint(os.Stderr, sb.String())
}
