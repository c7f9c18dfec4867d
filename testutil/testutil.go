package testutil

import (
	"os"
	"path/filepath"
	"reflect"
	"sort"
	"strconv"
	"strings"
	"testing"

	"github.com/cs-au-dk/attmap/attmap"
	"github.com/sebdah/goldie/v2"
)

// MapOf builds a map of the given variant, failing the test on any error.
func MapOf(t *testing.T, variant attmap.Variant, entries any, opts ...attmap.Option) *attmap.AttMap {
	t.Helper()
	m, err := attmap.New(variant, entries, opts...)
	if err != nil {
		t.Fatalf("building %s: %v", variant, err)
	}
	return m
}

// CheckLowerBound fails the test if any map reachable from m, including maps
// inside sequences, is of a different variant than m.
func CheckLowerBound(t *testing.T, m *attmap.AttMap) {
	t.Helper()
	var walk func(path string, v attmap.Value)
	walk = func(path string, v attmap.Value) {
		switch x := v.(type) {
		case *attmap.AttMap:
			if x.Variant() != m.Variant() {
				t.Errorf("%s is a %s, expected %s", path, x.Variant(), m.Variant())
			}
			for _, p := range x.Items() {
				walk(path+"."+p.Key, p.Value.(attmap.Value))
			}
		case attmap.Seq:
			for i, e := range x {
				walk(path+"["+strconv.Itoa(i)+"]", e)
			}
		}
	}
	walk("$", m)
}

// CheckPlain fails the test if v holds an attmap type anywhere.
func CheckPlain(t *testing.T, v any) {
	t.Helper()
	var walk func(path string, rv reflect.Value)
	walk = func(path string, rv reflect.Value) {
		if !rv.IsValid() {
			return
		}
		if rv.Kind() == reflect.Interface {
			rv = rv.Elem()
			if !rv.IsValid() {
				return
			}
		}
		if pkg := rv.Type().PkgPath(); strings.HasSuffix(pkg, "/attmap") ||
			(rv.Kind() == reflect.Pointer && strings.HasSuffix(rv.Type().Elem().PkgPath(), "/attmap")) {
			t.Errorf("%s holds %s", path, rv.Type())
			return
		}
		switch rv.Kind() {
		case reflect.Map:
			for it := rv.MapRange(); it.Next(); {
				walk(path+"."+it.Key().String(), it.Value())
			}
		case reflect.Slice:
			if rv.Type().Elem().Kind() == reflect.Uint8 {
				return
			}
			for i := 0; i < rv.Len(); i++ {
				walk(path+"["+strconv.Itoa(i)+"]", rv.Index(i))
			}
		}
	}
	walk("$", reflect.ValueOf(v))
}

// Golden compares data against testdata/<test name>.golden. Run the tests
// with -update to rewrite the files.
func Golden(t *testing.T, data []byte) {
	t.Helper()
	goldie.New(t, goldie.WithFixtureDir("testdata")).Assert(t, t.Name(), data)
}

// ListFixtures lists the files in testdata with the given extension, sorted.
func ListFixtures(t *testing.T, ext string) []string {
	t.Helper()
	entries, err := os.ReadDir("testdata")
	if err != nil {
		t.Fatal(err)
	}

	var res []string
	for _, e := range entries {
		if !e.IsDir() && filepath.Ext(e.Name()) == ext {
			res = append(res, filepath.Join("testdata", e.Name()))
		}
	}
	sort.Strings(res)
	return res
}
