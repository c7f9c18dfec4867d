package attmap

import (
	"bytes"
	"reflect"

	"github.com/google/go-cmp/cmp"
)

// Comparer decides whether two stored values are equal. A Comparer may
// panic on values it cannot compare; Equal treats that as inequality.
type Comparer func(a, b Value) bool

// DefaultComparer is structural equality. Kinds must match, so Int(1) and
// Float(1) differ. Maps compare with their own Equal. Opaque values compare
// with == when their dynamic types are comparable and reflect.DeepEqual
// otherwise.
func DefaultComparer(a, b Value) bool {
	return structuralEqual(a, b, DefaultComparer, opaqueEqual)
}

// CmpComparer compares Opaque values with go-cmp under the given options,
// e.g. cmpopts.EquateApprox for numeric arrays. Everything else compares as
// with DefaultComparer. cmp.Equal panics on unexported fields it was not
// told about; that counts as inequality.
func CmpComparer(opts ...cmp.Option) Comparer {
	var self Comparer
	self = func(a, b Value) bool {
		return structuralEqual(a, b, self, func(x, y any) bool {
			return cmp.Equal(x, y, opts...)
		})
	}
	return self
}

func structuralEqual(a, b Value, elem Comparer, opaque func(x, y any) bool) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	if a.Kind() != b.Kind() {
		return false
	}

	switch x := a.(type) {
	case Null:
		return true
	case Bool, Int, Float, Text:
		return a == b
	case Bytes:
		return bytes.Equal(x, b.(Bytes))
	case Seq:
		y := b.(Seq)
		if len(x) != len(y) {
			return false
		}
		for i := range x {
			if !safeCompare(elem, x[i], y[i]) {
				return false
			}
		}
		return true
	case *Set:
		return x.Equal(b.(*Set))
	case *AttMap:
		return x.Equal(b.(*AttMap))
	case Opaque:
		return opaque(x.V, b.(Opaque).V)
	}
	return false
}

func opaqueEqual(x, y any) bool {
	if x == nil || y == nil {
		return x == nil && y == nil
	}
	if reflect.TypeOf(x) != reflect.TypeOf(y) {
		return false
	}
	if reflect.TypeOf(x).Comparable() {
		// May still panic on interface fields holding uncomparable values.
		return x == y
	}
	return reflect.DeepEqual(x, y)
}

func safeCompare(c Comparer, a, b Value) (eq bool) {
	defer func() {
		if recover() != nil {
			eq = false
		}
	}()
	return c(a, b)
}

// EqualConfig adjusts EqualWith.
type EqualConfig struct {
	// IgnoreVariant lets maps of different variants compare equal. Order
	// still matters when both sides are Ordered.
	IgnoreVariant bool
}

// Equal reports whether m and other hold the same entries.
//
// other may be an *AttMap, which must be of the same variant, or any
// mapping accepted by Set, which is first converted to m's variant. Entries
// either side excludes through WithExcludeFromEq are skipped on that side.
// Values are compared with m's Comparer. Ordered maps also require the same
// key order. Equal never panics.
func (m *AttMap) Equal(other any) bool {
	return m.EqualWith(other, EqualConfig{})
}

func (m *AttMap) EqualWith(other any, c EqualConfig) bool {
	o, isMap := other.(*AttMap)
	if !isMap {
		if m == nil {
			return false
		}
		pairs, isMapping, err := mappingPairs(other)
		if !isMapping || err != nil {
			return false
		}
		o = m.spawn()
		if err := o.apply(pairs, 0); err != nil {
			return false
		}
	}
	if m == nil || o == nil {
		return m == o
	}
	return equalMaps(m, o, c)
}

func equalMaps(a, b *AttMap, c EqualConfig) bool {
	if a == b {
		return true
	}
	if !c.IgnoreVariant && a.variant != b.variant {
		return false
	}
	if a.Len() != b.Len() {
		return false
	}

	ca, cb := a.conf(), b.conf()
	eq := true
	a.each(func(k string, v Value) bool {
		if ca.excludeEq(k) {
			return true
		}
		w, found := b.st().get(k)
		eq = found && compareEntry(ca.comparer, v, w, c)
		return eq
	})
	if !eq {
		return false
	}
	b.each(func(k string, v Value) bool {
		if cb.excludeEq(k) {
			return true
		}
		w, found := a.st().get(k)
		switch {
		case !found:
			eq = false
		case ca.excludeEq(k):
			// a skipped this key, so b decides for itself.
			eq = compareEntry(cb.comparer, w, v, c)
		}
		return eq
	})
	if !eq {
		return false
	}

	if a.variant.Has(Ordered) && b.variant.Has(Ordered) {
		ka, kb := a.Keys(), b.Keys()
		for i := range ka {
			if ka[i] != kb[i] {
				return false
			}
		}
	}
	return true
}

// compareEntry compares maps, including maps inside sequences, under the
// same EqualConfig as their parents and everything else with compare.
func compareEntry(compare Comparer, v, w Value, c EqualConfig) bool {
	switch x := v.(type) {
	case *AttMap:
		if y, ok := w.(*AttMap); ok {
			return equalMaps(x, y, c)
		}
	case Seq:
		if y, ok := w.(Seq); ok {
			if len(x) != len(y) {
				return false
			}
			for i := range x {
				if !compareEntry(compare, x[i], y[i], c) {
					return false
				}
			}
			return true
		}
	}
	return safeCompare(compare, v, w)
}
