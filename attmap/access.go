package attmap

import (
	"strings"

	"github.com/pkg/errors"
)

// accessPolicy holds the behavior a variant adds on top of storage: what a
// field-style lookup of an unmapped name yields, and how stored values are
// transformed on the way out.
type accessPolicy struct {
	miss     func(name string) (Value, error)
	retrieve func(cfg *config, v Value) Value
}

func policyFor(variant Variant) accessPolicy {
	p := accessPolicy{
		miss:     strictMiss,
		retrieve: identity,
	}
	if variant.Has(Echo) {
		p.miss = echoMiss
	}
	if variant.Has(PathExpanding) {
		p.retrieve = expandText
	}
	return p
}

func strictMiss(name string) (Value, error) {
	return nil, keyErr("attr", name, ErrMissingKey)
}

func echoMiss(name string) (Value, error) {
	if IsProtected(name) {
		return nil, keyErr("attr", name, ErrProtectedName)
	}
	return Text(name), nil
}

func identity(_ *config, v Value) Value {
	return v
}

func expandText(cfg *config, v Value) Value {
	if t, ok := v.(Text); ok {
		return Text(cfg.expander(string(t)))
	}
	return v
}

// IsProtected reports whether name looks reserved: it starts and ends with
// a double underscore.
func IsProtected(name string) bool {
	return len(name) >= 4 && strings.HasPrefix(name, "__") && strings.HasSuffix(name, "__")
}

// Attr is the field-style lookup. An unmapped name fails with ErrMissingKey,
// except on Echo maps, where it yields the name itself as Text. Echo maps
// still refuse protected names with ErrProtectedName.
func (m *AttMap) Attr(name string) (Value, error) {
	if v, found := m.st().get(name); found {
		return m.policy.retrieve(m.cfg, v), nil
	}
	return m.policy.miss(name)
}

// AttrOr is Attr with a fallback. When name is unmapped, def is returned if
// non-nil; a nil def falls back to the variant's miss behavior. Echo maps
// refuse protected names regardless of def.
func (m *AttMap) AttrOr(name string, def Value) (Value, error) {
	if v, found := m.st().get(name); found {
		return m.policy.retrieve(m.cfg, v), nil
	}
	if m.variant.Has(Echo) && IsProtected(name) {
		return nil, keyErr("attr", name, ErrProtectedName)
	}
	if def != nil {
		return def, nil
	}
	return m.policy.miss(name)
}

// SetAttr is the field-style counterpart of Set.
func (m *AttMap) SetAttr(name string, value any) error {
	return m.Set(name, value)
}

// DelAttr is the field-style counterpart of Delete.
func (m *AttMap) DelAttr(name string) {
	m.Delete(name)
}

// AttrPath follows names through nested maps with field-style lookups.
func (m *AttMap) AttrPath(names ...string) (Value, error) {
	var cur Value = m
	for i, name := range names {
		sub, ok := cur.(*AttMap)
		if !ok {
			return nil, keyErr("attr", strings.Join(names[:i+1], "."), typeMismatch(MapKind, cur))
		}
		v, err := sub.Attr(name)
		if err != nil {
			if i > 0 {
				err = errors.Wrapf(err, "under %q", strings.Join(names[:i], "."))
			}
			return nil, err
		}
		cur = v
	}
	return cur, nil
}
