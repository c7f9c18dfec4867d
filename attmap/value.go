package attmap

import (
	"fmt"
	"math"
	"reflect"

	"github.com/pkg/errors"
)

// Kind enumerates the shapes a stored Value can take.
type Kind uint8

const (
	NullKind Kind = iota
	BoolKind
	IntKind
	FloatKind
	TextKind
	BytesKind
	SeqKind
	SetKind
	MapKind
	OpaqueKind
)

var kindNames = [...]string{
	NullKind:   "null",
	BoolKind:   "bool",
	IntKind:    "int",
	FloatKind:  "float",
	TextKind:   "text",
	BytesKind:  "bytes",
	SeqKind:    "seq",
	SetKind:    "set",
	MapKind:    "map",
	OpaqueKind: "opaque",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("Kind(%d)", k)
}

// Value is anything an AttMap stores. The set of implementations is closed:
// Null, Bool, Int, Float, Text, Bytes, Seq, *Set, *AttMap and Opaque.
type Value interface {
	Kind() Kind
	isValue()
}

type (
	// Null is a key explicitly bound to nothing. It is distinct from absence.
	Null struct{}
	Bool bool
	Int  int64
	// Float values compare with Go float semantics, so NaN never equals NaN.
	Float float64
	Text  string
	Bytes []byte
	// Seq is an ordered sequence. Mappings inside a sequence are promoted to
	// the owning map's variant like any other nested mapping.
	Seq []Value
	// Opaque wraps a value the map stores without interpreting it, e.g. an
	// array-like type with its own notion of equality. Comparison goes
	// through the map's Comparer.
	Opaque struct {
		V any
	}
)

func (Null) Kind() Kind   { return NullKind }
func (Bool) Kind() Kind   { return BoolKind }
func (Int) Kind() Kind    { return IntKind }
func (Float) Kind() Kind  { return FloatKind }
func (Text) Kind() Kind   { return TextKind }
func (Bytes) Kind() Kind  { return BytesKind }
func (Seq) Kind() Kind    { return SeqKind }
func (Opaque) Kind() Kind { return OpaqueKind }

func (Null) isValue()   {}
func (Bool) isValue()   {}
func (Int) isValue()    {}
func (Float) isValue()  {}
func (Text) isValue()   {}
func (Bytes) isValue()  {}
func (Seq) isValue()    {}
func (Opaque) isValue() {}

// Pair is a single key-value entry. Value holds either a Value or any Go
// value accepted by ValueOf.
type Pair struct {
	Key   string
	Value any
}

// scalarOf converts Go scalars, including named types with a scalar
// underlying kind. The boolean is false for non-scalar input.
func scalarOf(v any) (Value, bool, error) {
	switch x := v.(type) {
	case nil:
		return Null{}, true, nil
	case Null, Bool, Int, Float, Text:
		return x.(Value), true, nil
	case Bytes:
		return append(Bytes(nil), x...), true, nil
	case bool:
		return Bool(x), true, nil
	case int:
		return Int(x), true, nil
	case int64:
		return Int(x), true, nil
	case float64:
		return Float(x), true, nil
	case string:
		return Text(x), true, nil
	case []byte:
		return append(Bytes(nil), x...), true, nil
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Bool:
		return Bool(rv.Bool()), true, nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return Int(rv.Int()), true, nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		u := rv.Uint()
		if u > math.MaxInt64 {
			return nil, true, errors.Wrapf(ErrTypeMismatch, "integer %d overflows int64", u)
		}
		return Int(int64(u)), true, nil
	case reflect.Float32, reflect.Float64:
		return Float(rv.Float()), true, nil
	case reflect.String:
		return Text(rv.String()), true, nil
	case reflect.Slice:
		if rv.Type().Elem().Kind() == reflect.Uint8 {
			return Bytes(append([]byte(nil), rv.Bytes()...)), true, nil
		}
	}
	return nil, false, nil
}

// ValueOf converts a Go value into a Value. Mappings become Plain maps. See
// (*AttMap).Set for the conversion rules.
func ValueOf(v any) (Value, error) {
	return Empty(Plain).convert(v, 0)
}

// ToPlain converts a Value back into ordinary Go data: nil, bool, int64,
// float64, string, []byte, []any and map[string]any. Sets become []any in
// canonical order and Opaque values yield what they wrap.
func ToPlain(v Value) any {
	var pending []plainJob
	res := plainValue(v, nil, func(job plainJob) {
		pending = append(pending, job)
	})
	drainPlain(pending, nil)
	return res
}
