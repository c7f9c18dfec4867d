package attmap

import (
	"github.com/cs-au-dk/attmap/utils/worklist"
)

type plainJob struct {
	src *AttMap
	dst map[string]any
}

// ToPlainMap converts m into map[string]any. No *AttMap survives anywhere in
// the result, not even inside slices: nested maps become map[string]any, Seq
// and Set become []any and scalars become nil, bool, int64, float64, string
// or []byte. Opaque values yield what they wrap.
//
// With expandPaths, every string passes through the map's path expander,
// regardless of variant.
func (m *AttMap) ToPlainMap(expandPaths bool) map[string]any {
	var expand PathExpander
	if expandPaths {
		expand = m.conf().expander
	}

	root := make(map[string]any, m.Len())
	drainPlain([]plainJob{{m, root}}, expand)
	return root
}

// drainPlain fills in the pending maps breadth first rather than
// recursively.
func drainPlain(jobs []plainJob, expand PathExpander) {
	worklist.StartV(jobs, func(job plainJob, add func(plainJob)) {
		job.src.each(func(k string, v Value) bool {
			job.dst[k] = plainValue(v, expand, add)
			return true
		})
	})
}

// ToMap is ToPlainMap, expanding paths iff m is PathExpanding.
func (m *AttMap) ToMap() map[string]any {
	return m.ToPlainMap(m.variant.Has(PathExpanding))
}

func plainValue(v Value, expand PathExpander, add func(plainJob)) any {
	switch x := v.(type) {
	case *AttMap:
		dst := make(map[string]any, x.Len())
		add(plainJob{x, dst})
		return dst
	case Seq:
		out := make([]any, len(x))
		for i, e := range x {
			out[i] = plainValue(e, expand, add)
		}
		return out
	case *Set:
		members := x.Members()
		out := make([]any, len(members))
		for i, e := range members {
			out[i] = plainValue(e, expand, add)
		}
		return out
	case Text:
		if expand != nil {
			return expand(string(x))
		}
		return string(x)
	case Bool:
		return bool(x)
	case Int:
		return int64(x)
	case Float:
		return float64(x)
	case Bytes:
		return append([]byte(nil), x...)
	case Opaque:
		return x.V
	}
	return nil
}
