package attmap

import (
	"reflect"
	"sort"

	"github.com/hashicorp/go-multierror"
	"github.com/pkg/errors"
	yaml2 "gopkg.in/yaml.v2"
)

var errorType = reflect.TypeOf((*error)(nil)).Elem()

// AddEntries merges entries into m key by key, in iteration order, and
// returns m.
//
// entries may be nil, a mapping (see Set), a slice of pairs ([]Pair,
// [][2]any, or []any holding two-element slices) or a function with no
// arguments returning one of those, optionally with an error. For each pair,
// a mapping value merges into a map already stored at its key; anything else
// is stored as by Set. Keys of Go maps are applied in sorted order.
//
// Invalid pairs do not stop the others from being applied. Their errors are
// collected and returned together.
func (m *AttMap) AddEntries(entries any) (*AttMap, error) {
	var result *multierror.Error

	pairs, err := normalizeEntries(entries)
	if err != nil {
		result = multierror.Append(result, err)
	}
	if err := m.apply(pairs, 0); err != nil {
		result = multierror.Append(result, err)
	}
	return m, result.ErrorOrNil()
}

func (m *AttMap) apply(pairs []Pair, depth int) error {
	var result *multierror.Error
	for _, p := range pairs {
		if err := m.set(p.Key, p.Value, depth, true); err != nil {
			if errors.Is(err, ErrDepthExceeded) {
				return err
			}
			result = multierror.Append(result, err)
		}
	}
	return result.ErrorOrNil()
}

func normalizeEntries(entries any) ([]Pair, error) {
	if m, ok := entries.(*AttMap); entries == nil || ok && m == nil {
		return nil, nil
	}

	if fn := reflect.ValueOf(entries); fn.Kind() == reflect.Func {
		produced, err := callProducer(fn)
		if err != nil {
			return nil, err
		}
		if produced == nil {
			return nil, nil
		}
		if reflect.ValueOf(produced).Kind() == reflect.Func {
			return nil, errors.Wrap(ErrTypeMismatch, "entries producer returned a function")
		}
		entries = produced
	}

	if pairs, isMapping, err := mappingPairs(entries); isMapping {
		return pairs, err
	}
	return pairList(entries)
}

func callProducer(fn reflect.Value) (any, error) {
	if fn.IsNil() {
		return nil, nil
	}

	t := fn.Type()
	if t.NumIn() != 0 || t.NumOut() == 0 || t.NumOut() > 2 ||
		(t.NumOut() == 2 && t.Out(1) != errorType) {
		return nil, errors.Wrapf(ErrTypeMismatch, "entries producer %s must take no arguments", t)
	}

	out := fn.Call(nil)
	if len(out) == 2 && !out[1].IsNil() {
		return nil, out[1].Interface().(error)
	}
	return out[0].Interface(), nil
}

func textKey(k any) (string, error) {
	if s, ok := k.(string); ok {
		return s, nil
	}
	if rv := reflect.ValueOf(k); rv.Kind() == reflect.String {
		return rv.String(), nil
	}
	return "", errors.Wrapf(ErrTypeMismatch, "key %v of type %T is not text", k, k)
}

// mappingPairs reports whether v is mapping-shaped and, if so, lists its
// entries. Entries with non-text keys are reported as errors and left out.
func mappingPairs(v any) ([]Pair, bool, error) {
	switch x := v.(type) {
	case *AttMap:
		// A nil map is stored as Null, never merged.
		if x == nil {
			return nil, false, nil
		}
		return x.rawItems(), true, nil
	case []Pair:
		return append([]Pair(nil), x...), true, nil
	case yaml2.MapSlice:
		var result *multierror.Error
		pairs := make([]Pair, 0, len(x))
		for _, item := range x {
			key, err := textKey(item.Key)
			if err != nil {
				result = multierror.Append(result, err)
				continue
			}
			pairs = append(pairs, Pair{key, item.Value})
		}
		return pairs, true, result.ErrorOrNil()
	}

	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Map {
		return nil, false, nil
	}

	var result *multierror.Error
	pairs := make([]Pair, 0, rv.Len())
	for it := rv.MapRange(); it.Next(); {
		key, err := textKey(it.Key().Interface())
		if err != nil {
			result = multierror.Append(result, err)
			continue
		}
		pairs = append(pairs, Pair{key, it.Value().Interface()})
	}
	sort.Slice(pairs, func(i, j int) bool {
		return pairs[i].Key < pairs[j].Key
	})
	return pairs, true, result.ErrorOrNil()
}

func pairList(entries any) ([]Pair, error) {
	rv := reflect.ValueOf(entries)
	if k := rv.Kind(); k != reflect.Slice && k != reflect.Array {
		return nil, errors.Wrapf(ErrTypeMismatch, "entries of type %T are neither a mapping nor pairs", entries)
	}

	var result *multierror.Error
	pairs := make([]Pair, 0, rv.Len())
	for i := 0; i < rv.Len(); i++ {
		p, err := pairOf(rv.Index(i).Interface())
		if err != nil {
			result = multierror.Append(result, errors.Wrapf(err, "entry %d", i))
			continue
		}
		pairs = append(pairs, p)
	}
	return pairs, result.ErrorOrNil()
}

func pairOf(e any) (Pair, error) {
	switch x := e.(type) {
	case Pair:
		return x, nil
	case yaml2.MapItem:
		key, err := textKey(x.Key)
		return Pair{key, x.Value}, err
	}

	rv := reflect.ValueOf(e)
	if k := rv.Kind(); (k == reflect.Slice || k == reflect.Array) && rv.Len() == 2 {
		key, err := textKey(rv.Index(0).Interface())
		return Pair{key, rv.Index(1).Interface()}, err
	}
	return Pair{}, errors.Wrapf(ErrTypeMismatch, "%T is not a key-value pair", e)
}

// convert turns v into a Value owned by m. Mappings become maps of m's
// variant. depth counts the levels of nesting above v within one insertion.
func (m *AttMap) convert(v any, depth int) (Value, error) {
	if limit := m.conf().maxDepth; depth > limit {
		return nil, errors.Wrapf(ErrDepthExceeded, "limit %d", limit)
	}

	switch x := v.(type) {
	case *AttMap:
		if x == nil {
			return Null{}, nil
		}
		return m.promote(x.rawItems(), depth)
	case *Set:
		if x == nil {
			return Null{}, nil
		}
		return x.clone(), nil
	case Seq:
		return m.convertSeq(len(x), func(i int) any { return x[i] }, depth)
	case Opaque:
		return x, nil
	}

	if val, isScalar, err := scalarOf(v); isScalar {
		return val, err
	}

	if pairs, isMapping, err := mappingPairs(v); isMapping {
		if err != nil {
			return nil, err
		}
		return m.promote(pairs, depth)
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		return m.convertSeq(rv.Len(), func(i int) any { return rv.Index(i).Interface() }, depth)
	case reflect.Pointer, reflect.Interface:
		if rv.IsNil() {
			return Null{}, nil
		}
	}
	return Opaque{V: v}, nil
}

func (m *AttMap) convertSeq(n int, at func(int) any, depth int) (Value, error) {
	seq := make(Seq, n)
	for i := range seq {
		v, err := m.convert(at(i), depth+1)
		if err != nil {
			return nil, errors.Wrapf(err, "index %d", i)
		}
		seq[i] = v
	}
	return seq, nil
}

func (m *AttMap) promote(pairs []Pair, depth int) (Value, error) {
	child := m.spawn()
	if err := child.apply(pairs, depth+1); err != nil {
		return nil, err
	}
	return child, nil
}
