package attmap_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"math"
	"strings"
	"testing"
	"time"

	"github.com/cs-au-dk/attmap/attmap"
	tu "github.com/cs-au-dk/attmap/testutil"
	"github.com/google/go-cmp/cmp"
	"gopkg.in/yaml.v3"
)

func TestMarshalJSON(t *testing.T) {
	m := tu.MapOf(t, attmap.Ordered, []attmap.Pair{
		{"b", 1},
		{"a", map[string]any{"c": []any{1, 2.5, "x y"}}},
		{"n", nil},
		{"f", 2.0},
		{"raw", []byte("hi")},
	})

	data, err := json.Marshal(m)
	if err != nil {
		t.Fatal(err)
	}
	expected := `{"b":1,"a":{"c":[1,2.5,"x y"]},"n":null,"f":2.0,"raw":"aGk="}`
	if string(data) != expected {
		t.Errorf("json.Marshal() = %s, expected %s", data, expected)
	}

	if _, err := json.Marshal(tu.MapOf(t, attmap.Plain, map[string]any{"nan": math.NaN()})); err == nil {
		t.Error("NaN was encoded")
	}
}

func TestUnmarshalJSON(t *testing.T) {
	data := []byte(`{"z": 1, "y": {"x": 1.5, "w": [true, null, {"v": "u"}]}, "big": 2.0}`)

	m, err := attmap.FromJSON(attmap.Ordered, data)
	if err != nil {
		t.Fatal(err)
	}
	tu.CheckLowerBound(t, m)

	y, _ := m.GetMap("y")
	if keys := strings.Join(append(m.Keys(), y.Keys()...), ","); keys != "z,y,big,x,w" {
		t.Errorf("keys = %s, expected document order", keys)
	}
	if z, _ := m.Get("z"); z != attmap.Int(1) {
		t.Errorf("z = %#v, expected Int(1)", z)
	}
	if big, _ := m.Get("big"); big != attmap.Float(2) {
		t.Errorf("big = %#v, expected Float(2)", big)
	}

	// json.Unmarshal merges into an existing map.
	if err := json.Unmarshal([]byte(`{"y": {"t": 0}}`), m); err != nil {
		t.Fatal(err)
	}
	if y.Len() != 3 {
		t.Errorf("y = %s, expected a merge", y)
	}

	for _, bad := range []string{`[1, 2]`, `{"a": }`, `{"a": 1} {}`} {
		if _, err := attmap.FromJSON(attmap.Plain, []byte(bad)); err == nil {
			t.Errorf("FromJSON(%s) succeeded", bad)
		}
	}
}

func TestJSONRoundTrip(t *testing.T) {
	m := tu.MapOf(t, attmap.Ordered, map[string]any{
		"a": 1,
		"b": map[string]any{"c": []any{"x", 1.5, map[string]any{"d": nil}}},
	})
	data, err := json.Marshal(m)
	if err != nil {
		t.Fatal(err)
	}
	back, err := attmap.FromJSON(attmap.Ordered, data)
	if err != nil {
		t.Fatal(err)
	}
	if !back.Equal(m) {
		t.Errorf("round trip changed the map:\n%s\n%s", m, back)
	}
}

func TestYAMLMarshaling(t *testing.T) {
	m := tu.MapOf(t, attmap.Ordered, []attmap.Pair{
		{"b", 1},
		{"a", map[string]any{"c": "x"}},
		{"s", "1"},
	})

	data, err := yaml.Marshal(m)
	if err != nil {
		t.Fatal(err)
	}
	expected := "b: 1\na:\n    c: x\ns: \"1\"\n"
	if string(data) != expected {
		t.Errorf("yaml.Marshal() = %q, expected %q", data, expected)
	}

	// A zero map decodes as Plain.
	var zero attmap.AttMap
	if err := yaml.Unmarshal(data, &zero); err != nil {
		t.Fatal(err)
	}
	if !zero.EqualWith(m, attmap.EqualConfig{IgnoreVariant: true}) || zero.Variant() != attmap.Plain {
		t.Errorf("yaml.Unmarshal() = %s", &zero)
	}

	ordered := attmap.Empty(attmap.Ordered)
	if err := yaml.Unmarshal(data, ordered); err != nil {
		t.Fatal(err)
	}
	if !ordered.Equal(m) {
		t.Errorf("yaml.Unmarshal() = %s, expected %s", ordered, m)
	}
}

func TestFromYAMLErrors(t *testing.T) {
	tests := []struct {
		doc string
		err error
	}{
		{"- a\n- b\n", attmap.ErrTypeMismatch},
		{"just text\n", attmap.ErrTypeMismatch},
		{"? [a, b]\n: 1\n", attmap.ErrTypeMismatch},
		{"n: !!int 99999999999999999999\n", attmap.ErrTypeMismatch},
	}

	for _, test := range tests {
		if _, err := attmap.FromYAML(attmap.Plain, []byte(test.doc)); !errors.Is(err, test.err) {
			t.Errorf("FromYAML(%q) = %v, expected %v", test.doc, err, test.err)
		}
	}

	if m, err := attmap.FromYAML(attmap.Plain, nil); err != nil || m.Len() != 0 {
		t.Errorf("FromYAML(nil) = %v, %v", m, err)
	}
	if _, err := attmap.FromYAML(attmap.Plain, []byte("a: [")); err == nil {
		t.Error("FromYAML accepted malformed input")
	}

	// Nesting beyond the limit is refused while parsing, aliases included.
	deep := attmap.WithMaxDepth(2)
	if _, err := attmap.FromYAML(attmap.Plain, []byte("a: &x {b: 1}\nd: {e: *x}\n"), deep); !errors.Is(err, attmap.ErrDepthExceeded) {
		t.Errorf("FromYAML() = %v, expected %v", err, attmap.ErrDepthExceeded)
	}
}

func TestYAMLMergeKeys(t *testing.T) {
	doc := []byte(`base: &b {x: 1, y: 1}
other: &o {z: 3, x: 9}
derived:
  <<: [*b, *o]
  y: 2
single:
  <<: *b
quoted:
  "<<": 1
`)

	m, err := attmap.FromYAML(attmap.Ordered, doc)
	if err != nil {
		t.Fatal(err)
	}
	tu.CheckLowerBound(t, m)

	derived, _ := m.GetMap("derived")
	if keys := strings.Join(derived.Keys(), ","); keys != "x,z,y" {
		t.Errorf("derived keys = %s, expected x,z,y", keys)
	}
	tests := []struct {
		path  []string
		value attmap.Value
	}{
		{[]string{"derived", "x"}, attmap.Int(1)},
		{[]string{"derived", "y"}, attmap.Int(2)},
		{[]string{"derived", "z"}, attmap.Int(3)},
		{[]string{"single", "y"}, attmap.Int(1)},
		{[]string{"quoted", "<<"}, attmap.Int(1)},
	}
	for _, test := range tests {
		if v, err := m.AttrPath(test.path...); err != nil || v != test.value {
			t.Errorf("%v = %v (%v), expected %v", test.path, v, err, test.value)
		}
	}

	single, _ := m.GetMap("single")
	if single.Contains("<<") || single.Len() != 2 {
		t.Errorf("single = %s, expected the merged entries only", single)
	}

	if _, err := attmap.FromYAML(attmap.Plain, []byte("a:\n  <<: 1\n")); !errors.Is(err, attmap.ErrTypeMismatch) {
		t.Errorf("merging a scalar = %v, expected %v", err, attmap.ErrTypeMismatch)
	}
}

func TestToPlainMap(t *testing.T) {
	set, _ := attmap.NewSet("b", "a")
	m := tu.MapOf(t, attmap.Ordered|attmap.Echo, map[string]any{
		"n":    map[string]any{"deep": map[string]any{"x": 1}},
		"list": []any{map[string]any{"in": "seq"}, []any{map[string]any{}}},
		"set":  set,
		"f":    1.5,
		"raw":  []byte("hi"),
		"null": nil,
	})

	plain := m.ToPlainMap(false)
	tu.CheckPlain(t, plain)

	expected := map[string]any{
		"n":    map[string]any{"deep": map[string]any{"x": int64(1)}},
		"list": []any{map[string]any{"in": "seq"}, []any{map[string]any{}}},
		"set":  []any{"a", "b"},
		"f":    1.5,
		"raw":  []byte("hi"),
		"null": nil,
	}
	if diff := cmp.Diff(expected, plain); diff != "" {
		t.Errorf("ToPlainMap() mismatch (-expected +got):\n%s", diff)
	}

	if diff := cmp.Diff(expected["n"], attmap.ToPlain(mustGet(t, m, "n"))); diff != "" {
		t.Errorf("ToPlain() mismatch (-expected +got):\n%s", diff)
	}
	if diff := cmp.Diff(expected["list"], attmap.ToPlain(mustGet(t, m, "list"))); diff != "" {
		t.Errorf("ToPlain() mismatch (-expected +got):\n%s", diff)
	}
}

func mustGet(t *testing.T, m *attmap.AttMap, key string) attmap.Value {
	t.Helper()
	v, err := m.Get(key)
	if err != nil {
		t.Fatal(err)
	}
	return v
}

func TestCopy(t *testing.T) {
	type payload struct{ N int }
	p := &payload{1}

	m := tu.MapOf(t, attmap.Ordered, map[string]any{
		"n": map[string]any{"x": 1},
		"l": []any{1, map[string]any{"y": 2}},
	})
	c := m.Copy()
	if !c.Equal(m) || c.Variant() != m.Variant() {
		t.Fatalf("Copy() = %s, expected %s", c, m)
	}

	n, _ := c.GetMap("n")
	n.Set("x", 2)
	if orig, _ := m.AttrPath("n", "x"); orig != attmap.Int(1) {
		t.Errorf("copy shares nested maps: n.x = %v", orig)
	}

	o := tu.MapOf(t, attmap.Plain, map[string]any{"ptr": attmap.Opaque{V: p}})
	if cp := mustGet(t, o.Copy(), "ptr").(attmap.Opaque).V.(*payload); cp == p || cp.N != 1 {
		t.Errorf("opaque payload copied as %p (%v), original %p", cp, cp, p)
	}
}

func TestDecode(t *testing.T) {
	type inner struct {
		X int64
	}
	type config struct {
		Name    string
		Port    int
		Timeout time.Duration
		Tags    []string
		Home    string `mapstructure:"home_dir"`
		Inner   inner
	}

	m := tu.MapOf(t, attmap.PathExpanding, map[string]any{
		"name":     "svc",
		"port":     8080,
		"timeout":  "1m30s",
		"tags":     []any{"a", "b"},
		"home_dir": "$ROOT/svc",
		"inner":    map[string]any{"x": 3},
		"ignored":  true,
	}, attmap.WithPathExpander(func(s string) string {
		return strings.ReplaceAll(s, "$ROOT", "/srv")
	}))

	var cfg config
	if err := m.Decode(&cfg); err != nil {
		t.Fatal(err)
	}
	expected := config{
		Name:    "svc",
		Port:    8080,
		Timeout: 90 * time.Second,
		Tags:    []string{"a", "b"},
		Home:    "/srv/svc",
		Inner:   inner{3},
	}
	if diff := cmp.Diff(expected, cfg); diff != "" {
		t.Errorf("Decode() mismatch (-expected +got):\n%s", diff)
	}

	var wrong struct{ Port bool }
	if err := m.Decode(&wrong); err == nil {
		t.Error("Decode() accepted an int for a bool")
	}
}

func TestFromStruct(t *testing.T) {
	in := struct {
		Name  string
		Count int
	}{"x", 2}

	m, err := attmap.FromStruct(attmap.Ordered, in)
	if err != nil {
		t.Fatal(err)
	}
	if v, _ := m.Get("Count"); v != attmap.Int(2) {
		t.Errorf("Count = %v", v)
	}

	if _, err := attmap.FromStruct(attmap.Plain, 42); !errors.Is(err, attmap.ErrTypeMismatch) {
		t.Errorf("FromStruct(42) = %v", err)
	}
}

func TestWriteDot(t *testing.T) {
	m := tu.MapOf(t, attmap.Ordered, []attmap.Pair{
		{"a", 1},
		{"b", map[string]any{"c": "two words"}},
	})

	var buf bytes.Buffer
	if err := m.WriteDot(&buf); err != nil {
		t.Fatal(err)
	}

	out := buf.String()
	for _, expected := range []string{
		`digraph "OrdAttMap" {`,
		`"n0" [ label="OrdAttMap"; ]`,
		`"n1" [ label="1"; ]`,
		`"n2" [ label="OrdAttMap"; ]`,
		`"n3" [ label="two words"; ]`,
		`"n0" -> "n1" [ label="a"; ]`,
		`"n0" -> "n2" [ label="b"; ]`,
		`"n2" -> "n3" [ label="c"; ]`,
	} {
		if !strings.Contains(out, expected) {
			t.Errorf("output lacks %q:\n%s", expected, out)
		}
	}
}
