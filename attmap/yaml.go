package attmap

import (
	"encoding/base64"
	"fmt"
	"strconv"

	"github.com/hashicorp/go-multierror"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// MarshalYAML encodes m as a mapping node in iteration order. Unlike
// ToYAML it writes every key, including those hidden from rendering.
func (m *AttMap) MarshalYAML() (interface{}, error) {
	return toNode(m)
}

// UnmarshalYAML merges a YAML mapping into m. Key order is kept, so Ordered
// maps follow the document. A zero AttMap decodes as a Plain map.
func (m *AttMap) UnmarshalYAML(node *yaml.Node) error {
	v, err := fromNode(node, 0, m.conf().maxDepth)
	if errors.Is(err, ErrDepthExceeded) {
		return err
	}

	// Entries that decoded cleanly are applied even if others failed.
	var result *multierror.Error
	if err != nil {
		result = multierror.Append(result, err)
	}
	switch x := v.(type) {
	case nil:
	case []Pair:
		if err := m.apply(x, 0); err != nil {
			result = multierror.Append(result, err)
		}
	default:
		return errors.Wrapf(ErrTypeMismatch, "line %d: document is a %s, not a mapping", node.Line, kindName(node))
	}
	return result.ErrorOrNil()
}

// FromYAML parses a YAML document holding a mapping into a new map. An
// empty document yields an empty map.
func FromYAML(variant Variant, data []byte, opts ...Option) (*AttMap, error) {
	m := Empty(variant, opts...)
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, errors.Wrap(err, "parsing yaml")
	}
	if doc.Kind == 0 {
		return m, nil
	}
	return m, m.UnmarshalYAML(&doc)
}

func kindName(n *yaml.Node) string {
	switch n.Kind {
	case yaml.DocumentNode:
		if len(n.Content) == 1 {
			return kindName(n.Content[0])
		}
		return "document"
	case yaml.SequenceNode:
		return "sequence"
	case yaml.MappingNode:
		return "mapping"
	case yaml.ScalarNode:
		return "scalar"
	case yaml.AliasNode:
		return "alias"
	}
	return "node"
}

func scalarNode(tag, value string) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: tag, Value: value}
}

func toNode(v Value) (*yaml.Node, error) {
	switch x := v.(type) {
	case nil, Null:
		return scalarNode("!!null", "null"), nil
	case Bool:
		return scalarNode("!!bool", strconv.FormatBool(bool(x))), nil
	case Int:
		return scalarNode("!!int", strconv.FormatInt(int64(x), 10)), nil
	case Float:
		return scalarNode("!!float", formatFloat(float64(x))), nil
	case Text:
		return scalarNode("!!str", string(x)), nil
	case Bytes:
		return scalarNode("!!binary", base64.StdEncoding.EncodeToString(x)), nil
	case Seq:
		n := &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq"}
		for _, e := range x {
			c, err := toNode(e)
			if err != nil {
				return nil, err
			}
			n.Content = append(n.Content, c)
		}
		return n, nil
	case *Set:
		n := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!set"}
		for _, e := range x.Members() {
			c, err := toNode(e)
			if err != nil {
				return nil, err
			}
			n.Content = append(n.Content, c, scalarNode("!!null", ""))
		}
		return n, nil
	case *AttMap:
		n := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
		var err error
		x.each(func(k string, e Value) bool {
			var c *yaml.Node
			if c, err = toNode(e); err != nil {
				err = keyErr("marshal", k, err)
				return false
			}
			n.Content = append(n.Content, scalarNode("!!str", k), c)
			return true
		})
		return n, err
	case Opaque:
		n := &yaml.Node{}
		if err := n.Encode(x.V); err != nil {
			return scalarNode("!!str", fmt.Sprint(x.V)), nil
		}
		return n, nil
	}
	return nil, errors.Wrapf(ErrTypeMismatch, "cannot encode %T", v)
}

// fromNode decodes n into data accepted by Set: mappings become []Pair so
// their order survives, !!set mappings become *Set.
func fromNode(n *yaml.Node, depth, limit int) (any, error) {
	if depth > limit {
		return nil, errors.Wrapf(ErrDepthExceeded, "line %d: limit %d", n.Line, limit)
	}

	switch n.Kind {
	case yaml.DocumentNode:
		if len(n.Content) == 0 {
			return nil, nil
		}
		return fromNode(n.Content[0], depth, limit)
	case yaml.AliasNode:
		return fromNode(n.Alias, depth+1, limit)
	case yaml.SequenceNode:
		seq := make([]any, 0, len(n.Content))
		for _, c := range n.Content {
			v, err := fromNode(c, depth+1, limit)
			if err != nil {
				return nil, err
			}
			seq = append(seq, v)
		}
		return seq, nil
	case yaml.MappingNode:
		if n.ShortTag() == "!!set" {
			return setFromNode(n)
		}
		return pairsFromNode(n, depth, limit)
	case yaml.ScalarNode:
		return scalarFromNode(n)
	}
	return nil, errors.Wrapf(ErrTypeMismatch, "line %d: unexpected node", n.Line)
}

// pairsFromNode lists the entries of a mapping node. Merge keys (<<) pull in
// the entries of the mappings they refer to, ahead of the explicit entries.
// Explicit keys win over merged ones, and earlier merge sources win over
// later ones.
func pairsFromNode(n *yaml.Node, depth, limit int) ([]Pair, error) {
	var result *multierror.Error
	var merged []Pair
	pairs := make([]Pair, 0, len(n.Content)/2)
	explicit := make(map[string]bool, len(n.Content)/2)
	for i := 0; i+1 < len(n.Content); i += 2 {
		kn, vn := n.Content[i], n.Content[i+1]
		if kn.Kind != yaml.ScalarNode {
			result = multierror.Append(result,
				errors.Wrapf(ErrTypeMismatch, "line %d: %s key", kn.Line, kindName(kn)))
			continue
		}

		if kn.ShortTag() == "!!merge" {
			src, err := mergeSources(vn, depth, limit)
			if err != nil {
				if errors.Is(err, ErrDepthExceeded) {
					return nil, err
				}
				result = multierror.Append(result, err)
				continue
			}
			merged = append(merged, src...)
			continue
		}

		v, err := fromNode(vn, depth+1, limit)
		if err != nil {
			if errors.Is(err, ErrDepthExceeded) {
				return nil, err
			}
			result = multierror.Append(result, keyErr("decode", kn.Value, err))
			continue
		}
		pairs = append(pairs, Pair{kn.Value, v})
		explicit[kn.Value] = true
	}

	if len(merged) == 0 {
		return pairs, result.ErrorOrNil()
	}
	out := make([]Pair, 0, len(merged)+len(pairs))
	for _, p := range merged {
		if explicit[p.Key] {
			continue
		}
		explicit[p.Key] = true
		out = append(out, p)
	}
	return append(out, pairs...), result.ErrorOrNil()
}

// mergeSources resolves the value of a merge key: a mapping or a sequence of
// mappings, usually given through aliases.
func mergeSources(vn *yaml.Node, depth, limit int) ([]Pair, error) {
	v, err := fromNode(vn, depth+1, limit)
	if err != nil {
		return nil, err
	}

	switch x := v.(type) {
	case []Pair:
		return x, nil
	case []any:
		var all []Pair
		for _, e := range x {
			pairs, ok := e.([]Pair)
			if !ok {
				return nil, errors.Wrapf(ErrTypeMismatch, "line %d: merge sequence holds a non-mapping", vn.Line)
			}
			all = append(all, pairs...)
		}
		return all, nil
	}
	return nil, errors.Wrapf(ErrTypeMismatch, "line %d: merge value is a %s, not a mapping", vn.Line, kindName(vn))
}

func setFromNode(n *yaml.Node) (*Set, error) {
	s := &Set{}
	for i := 0; i < len(n.Content); i += 2 {
		v, err := scalarFromNode(n.Content[i])
		if err == nil {
			err = s.Add(v)
		}
		if err != nil {
			return nil, errors.Wrapf(err, "line %d", n.Content[i].Line)
		}
	}
	return s, nil
}

func scalarFromNode(n *yaml.Node) (any, error) {
	if n.Kind != yaml.ScalarNode {
		return nil, errors.Wrapf(ErrTypeMismatch, "line %d: %s where a scalar was expected", n.Line, kindName(n))
	}

	switch n.ShortTag() {
	case "!!null":
		return nil, nil
	case "!!str":
		return n.Value, nil
	case "!!bool":
		var b bool
		err := n.Decode(&b)
		return b, err
	case "!!int":
		var i int64
		if err := n.Decode(&i); err != nil {
			return nil, errors.Wrapf(ErrTypeMismatch, "line %d: integer %s overflows int64", n.Line, n.Value)
		}
		return i, nil
	case "!!float":
		var f float64
		err := n.Decode(&f)
		return f, err
	case "!!binary":
		var b []byte
		err := n.Decode(&b)
		return b, err
	}
	// Timestamps and custom tags keep their text.
	return n.Value, nil
}
