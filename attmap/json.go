package attmap

import (
	"bytes"
	"encoding/json"
	"io"
	"math"
	"strconv"

	"github.com/pkg/errors"
)

// MarshalJSON encodes m as an object with keys in iteration order. Floats
// keep a fractional part so they decode as floats again. NaN and infinities
// have no JSON form and fail with ErrTypeMismatch.
func (m *AttMap) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	if err := writeJSON(&buf, m); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// UnmarshalJSON merges a JSON object into m, in document order. Integral
// numbers become Int, others Float.
func (m *AttMap) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	return m.decodeJSON(dec)
}

// FromJSON parses a JSON object into a new map.
func FromJSON(variant Variant, data []byte, opts ...Option) (*AttMap, error) {
	m := Empty(variant, opts...)
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	if err := m.decodeJSON(dec); err != nil {
		return m, err
	}
	if _, err := dec.Token(); err != io.EOF {
		return m, errors.New("parsing json: data after the top-level object")
	}
	return m, nil
}

func (m *AttMap) decodeJSON(dec *json.Decoder) error {
	v, err := readJSON(dec, 0, m.conf().maxDepth)
	if err != nil {
		return errors.Wrap(err, "parsing json")
	}
	switch x := v.(type) {
	case nil:
		return nil
	case []Pair:
		return m.apply(x, 0)
	}
	return errors.Wrap(ErrTypeMismatch, "json document is not an object")
}

func readJSON(dec *json.Decoder, depth, limit int) (any, error) {
	if depth > limit {
		return nil, errors.Wrapf(ErrDepthExceeded, "limit %d", limit)
	}

	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}

	switch t := tok.(type) {
	case json.Delim:
		switch t {
		case '{':
			pairs := []Pair{}
			for dec.More() {
				kt, err := dec.Token()
				if err != nil {
					return nil, err
				}
				v, err := readJSON(dec, depth+1, limit)
				if err != nil {
					return nil, err
				}
				pairs = append(pairs, Pair{kt.(string), v})
			}
			_, err := dec.Token()
			return pairs, err
		case '[':
			seq := []any{}
			for dec.More() {
				v, err := readJSON(dec, depth+1, limit)
				if err != nil {
					return nil, err
				}
				seq = append(seq, v)
			}
			_, err := dec.Token()
			return seq, err
		}
	case json.Number:
		if i, err := t.Int64(); err == nil {
			return i, nil
		}
		return t.Float64()
	case string, bool, nil:
		return t, nil
	}
	return nil, errors.Errorf("unexpected json token %v", tok)
}

func writeJSON(buf *bytes.Buffer, v Value) error {
	switch x := v.(type) {
	case nil, Null:
		buf.WriteString("null")
	case Bool:
		buf.WriteString(strconv.FormatBool(bool(x)))
	case Int:
		buf.WriteString(strconv.FormatInt(int64(x), 10))
	case Float:
		if f := float64(x); math.IsNaN(f) || math.IsInf(f, 0) {
			return errors.Wrapf(ErrTypeMismatch, "%v has no json form", f)
		}
		buf.WriteString(formatFloat(float64(x)))
	case Text:
		return writeJSONValue(buf, string(x))
	case Bytes:
		return writeJSONValue(buf, []byte(x))
	case Seq:
		return writeJSONArray(buf, x)
	case *Set:
		return writeJSONArray(buf, x.Members())
	case *AttMap:
		buf.WriteByte('{')
		var err error
		first := true
		x.each(func(k string, e Value) bool {
			if !first {
				buf.WriteByte(',')
			}
			first = false
			if err = writeJSONValue(buf, k); err != nil {
				return false
			}
			buf.WriteByte(':')
			if err = writeJSON(buf, e); err != nil {
				err = keyErr("marshal", k, err)
				return false
			}
			return true
		})
		if err != nil {
			return err
		}
		buf.WriteByte('}')
	case Opaque:
		return writeJSONValue(buf, x.V)
	}
	return nil
}

func writeJSONArray(buf *bytes.Buffer, vs []Value) error {
	buf.WriteByte('[')
	for i, e := range vs {
		if i > 0 {
			buf.WriteByte(',')
		}
		if err := writeJSON(buf, e); err != nil {
			return errors.Wrapf(err, "index %d", i)
		}
	}
	buf.WriteByte(']')
	return nil
}

// writeJSONValue encodes a leaf with encoding/json, without HTML escaping.
func writeJSONValue(buf *bytes.Buffer, v any) error {
	enc := json.NewEncoder(buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return err
	}
	// Encode terminates every value with a newline.
	buf.Truncate(buf.Len() - 1)
	return nil
}
