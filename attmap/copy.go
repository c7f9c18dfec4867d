package attmap

import (
	"github.com/mitchellh/copystructure"
)

// Copy returns a deep copy of m with the same variant and options. Opaque
// payloads are deep copied with copystructure where it can handle them and
// shared otherwise.
func (m *AttMap) Copy() *AttMap {
	c := m.spawn()
	m.each(func(k string, v Value) bool {
		c.store.set(k, copyValue(v))
		return true
	})
	return c
}

func copyValue(v Value) Value {
	switch x := v.(type) {
	case *AttMap:
		return x.Copy()
	case Seq:
		out := make(Seq, len(x))
		for i, e := range x {
			out[i] = copyValue(e)
		}
		return out
	case *Set:
		return x.clone()
	case Bytes:
		return append(Bytes(nil), x...)
	case Opaque:
		if cp, err := copystructure.Copy(x.V); err == nil {
			return Opaque{cp}
		}
	}
	return v
}
