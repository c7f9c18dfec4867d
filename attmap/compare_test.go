package attmap_test

import (
	"math"
	"testing"

	"github.com/cs-au-dk/attmap/attmap"
	tu "github.com/cs-au-dk/attmap/testutil"
	"github.com/google/go-cmp/cmp/cmpopts"
)

func TestEqualityIsStrictInVariant(t *testing.T) {
	entries := map[string]any{
		"a": 1,
		"b": map[string]any{"c": []any{1, "x"}},
		"l": []any{map[string]any{"d": 1}, []any{map[string]any{"e": 2}}},
	}

	for _, v := range allVariants {
		for _, w := range allVariants {
			m1, m2 := tu.MapOf(t, v, entries), tu.MapOf(t, w, entries)
			if eq := m1.Equal(m2); eq != (v == w) {
				t.Errorf("%s.Equal(%s) = %v", v, w, eq)
			}
			if !m1.EqualWith(m2, attmap.EqualConfig{IgnoreVariant: true}) {
				t.Errorf("%s.EqualWith(%s, IgnoreVariant) = false", v, w)
			}
		}
	}
}

func TestIgnoreVariantReachesSequences(t *testing.T) {
	plain := tu.MapOf(t, attmap.Plain, map[string]any{"l": []any{map[string]any{"a": 1}}})
	ordered := tu.MapOf(t, attmap.Ordered, map[string]any{"l": []any{map[string]any{"a": 1}}})
	other := tu.MapOf(t, attmap.Ordered, map[string]any{"l": []any{map[string]any{"a": 2}}})

	ignore := attmap.EqualConfig{IgnoreVariant: true}
	if !plain.EqualWith(ordered, ignore) || !ordered.EqualWith(plain, ignore) {
		t.Error("IgnoreVariant did not reach maps inside sequences")
	}
	if plain.EqualWith(other, ignore) {
		t.Error("IgnoreVariant hid a differing value inside a sequence")
	}
}

func TestOrderedEqualityComparesOrder(t *testing.T) {
	ab := []attmap.Pair{{"a", 1}, {"b", 2}}
	ba := []attmap.Pair{{"b", 2}, {"a", 1}}

	if tu.MapOf(t, attmap.Ordered, ab).Equal(tu.MapOf(t, attmap.Ordered, ba)) {
		t.Error("ordered maps with different key order are equal")
	}
	if !tu.MapOf(t, attmap.Plain, ab).Equal(tu.MapOf(t, attmap.Plain, ba)) {
		t.Error("unordered maps with different insertion order are unequal")
	}
	if !tu.MapOf(t, attmap.Ordered, ab).Equal(tu.MapOf(t, attmap.Ordered, ab)) {
		t.Error("identical ordered maps are unequal")
	}
}

func TestEqualValues(t *testing.T) {
	tests := []struct {
		name string
		a, b any
		eq   bool
	}{
		{"ints", 1, 1, true},
		{"int vs float", 1, 1.0, false},
		{"text", "x", "x", true},
		{"null vs absent-ish", nil, "", false},
		{"nulls", nil, nil, true},
		{"bytes", []byte("ab"), []byte("ab"), true},
		{"seqs", []any{1, "x"}, []any{1, "x"}, true},
		{"seq lengths", []any{1}, []any{1, 1}, false},
		{"nan", math.NaN(), math.NaN(), false},
		{"opaque comparable", struct{ N int }{1}, struct{ N int }{1}, true},
		{"opaque slices", attmap.Opaque{V: []float64{1, 2}}, attmap.Opaque{V: []float64{1, 2}}, true},
		{"opaque shapes", attmap.Opaque{V: []float64{1}}, attmap.Opaque{V: []float64{1, 2}}, false},
		{"opaque types", struct{ N int }{1}, struct{ M int }{1}, false},
	}

	for _, test := range tests {
		m1 := tu.MapOf(t, attmap.Plain, map[string]any{"k": test.a})
		m2 := tu.MapOf(t, attmap.Plain, map[string]any{"k": test.b})
		if eq := m1.Equal(m2); eq != test.eq {
			t.Errorf("%s: Equal() = %v, expected %v", test.name, eq, test.eq)
		}
	}
}

func TestEqualNonMappings(t *testing.T) {
	m := tu.MapOf(t, attmap.Plain, map[string]any{"a": 1})
	for _, other := range []any{nil, 42, "a", []any{"a", 1}, map[int]int{1: 1}} {
		if m.Equal(other) {
			t.Errorf("Equal(%v) = true", other)
		}
	}
	if !m.Equal(map[string]int{"a": 1}) {
		t.Error("Equal() rejected an equivalent raw mapping")
	}
}

func TestExcludeFromEq(t *testing.T) {
	volatile := attmap.WithExcludeFromEq(func(key string) bool {
		return key == "stamp"
	})

	m1 := tu.MapOf(t, attmap.Plain, map[string]any{"x": 1, "stamp": 1}, volatile)
	m2 := tu.MapOf(t, attmap.Plain, map[string]any{"x": 1, "stamp": 2}, volatile)
	if !m1.Equal(m2) {
		t.Error("excluded keys were compared")
	}

	// Each side decides for itself.
	strict := tu.MapOf(t, attmap.Plain, map[string]any{"x": 1, "stamp": 2})
	if m1.Equal(strict) || strict.Equal(m1) {
		t.Error("a side without the exclusion ignored a differing key")
	}

	// Lengths must still agree.
	m3 := tu.MapOf(t, attmap.Plain, map[string]any{"x": 1}, volatile)
	if m1.Equal(m3) {
		t.Error("maps of different lengths are equal")
	}
}

func TestComparers(t *testing.T) {
	near := map[string]any{"arr": attmap.Opaque{V: []float64{1, 2}}}
	closer := map[string]any{"arr": attmap.Opaque{V: []float64{1, 2 + 1e-12}}}

	if tu.MapOf(t, attmap.Plain, near).Equal(tu.MapOf(t, attmap.Plain, closer)) {
		t.Error("default comparer treated distinct floats as equal")
	}

	approx := attmap.WithComparer(attmap.CmpComparer(cmpopts.EquateApprox(0, 1e-9)))
	if !tu.MapOf(t, attmap.Plain, near, approx).Equal(tu.MapOf(t, attmap.Plain, closer, approx)) {
		t.Error("CmpComparer ignored its options")
	}

	// The comparer carries over to nested maps.
	nested := func(v any) *attmap.AttMap {
		return tu.MapOf(t, attmap.Plain, map[string]any{"n": v}, approx)
	}
	if !nested(near).Equal(nested(closer)) {
		t.Error("nested maps did not use the comparer")
	}
}

func TestPanickingComparer(t *testing.T) {
	boom := attmap.WithComparer(func(a, b attmap.Value) bool {
		panic("incomparable")
	})

	m1 := tu.MapOf(t, attmap.Plain, map[string]any{"k": 1}, boom)
	m2 := tu.MapOf(t, attmap.Plain, map[string]any{"k": 1}, boom)
	if m1.Equal(m2) {
		t.Error("Equal() = true with a panicking comparer")
	}

	// Opaque values whose dynamic type is comparable may still panic on ==.
	type holder struct{ v any }
	m3 := tu.MapOf(t, attmap.Plain, map[string]any{"k": attmap.Opaque{V: holder{[]int{1}}}})
	m4 := tu.MapOf(t, attmap.Plain, map[string]any{"k": attmap.Opaque{V: holder{[]int{1}}}})
	if m3.Equal(m4) {
		t.Error("Equal() = true on values that cannot be compared")
	}
}
