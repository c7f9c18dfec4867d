// Package attmap implements nested attribute maps: string-keyed containers
// over a recursive Value type, with indexed and field-style access.
//
// A map's behavior is fixed by its Variant, a combination of three
// capabilities chosen at construction:
//
//   - Ordered: iteration and rendering follow insertion order.
//   - Echo: field-style lookups of unmapped names return the name itself.
//   - PathExpanding: Text values are path-expanded when retrieved.
//
// Every mapping stored in a map, at any depth, is converted into a map of the
// same variant and options when it is inserted. Inserting a mapping where a
// map is already stored merges the two.
package attmap

import (
	"strings"
)

// Variant is a set of capabilities. The zero value is the plain, unordered,
// strict map.
type Variant uint8

const (
	Ordered Variant = 1 << iota
	Echo
	PathExpanding
)

const Plain Variant = 0

func (v Variant) Has(c Variant) bool {
	return v&c == c
}

// String names the variant, e.g. AttMap, OrdAttMap, AttMapEcho or
// OrdPathExAttMap.
func (v Variant) String() string {
	var b strings.Builder
	if v.Has(Ordered) {
		b.WriteString("Ord")
	}
	if v.Has(PathExpanding) {
		b.WriteString("PathEx")
	}
	b.WriteString("AttMap")
	if v.Has(Echo) {
		b.WriteString("Echo")
	}
	return b.String()
}

// AttMap is a nested attribute map. The zero value is an empty Plain map with
// default options. An AttMap is not safe for concurrent use.
type AttMap struct {
	variant Variant
	store   store
	cfg     *config
	policy  accessPolicy
}

// New builds a map of the given variant and applies entries to it, as
// AddEntries does. The map is returned even when some entries failed.
func New(variant Variant, entries any, opts ...Option) (*AttMap, error) {
	m := Empty(variant, opts...)
	_, err := m.AddEntries(entries)
	return m, err
}

// Empty builds a map of the given variant with no entries.
func Empty(variant Variant, opts ...Option) *AttMap {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}
	return &AttMap{
		variant: variant,
		store:   newStore(variant),
		cfg:     cfg,
		policy:  policyFor(variant),
	}
}

// Must panics on a construction error.
func Must(m *AttMap, err error) *AttMap {
	if err != nil {
		panic(err)
	}
	return m
}

func NewPlain(entries any, opts ...Option) (*AttMap, error) {
	return New(Plain, entries, opts...)
}

func NewOrdered(entries any, opts ...Option) (*AttMap, error) {
	return New(Ordered, entries, opts...)
}

func NewEcho(entries any, opts ...Option) (*AttMap, error) {
	return New(Echo, entries, opts...)
}

func NewPathEx(entries any, opts ...Option) (*AttMap, error) {
	return New(PathExpanding, entries, opts...)
}

func NewOrdPathEx(entries any, opts ...Option) (*AttMap, error) {
	return New(Ordered|PathExpanding, entries, opts...)
}

func (m *AttMap) st() store {
	if m.store == nil {
		*m = *Empty(m.variant)
	}
	return m.store
}

func (m *AttMap) conf() *config {
	m.st()
	return m.cfg
}

// spawn creates an empty map sharing the variant and options of m.
func (m *AttMap) spawn() *AttMap {
	return &AttMap{
		variant: m.variant,
		store:   newStore(m.variant),
		cfg:     m.conf(),
		policy:  m.policy,
	}
}

func (m *AttMap) Variant() Variant {
	return m.variant
}

func (*AttMap) Kind() Kind { return MapKind }
func (*AttMap) isValue()   {}

// Get returns the value stored at key. Indexed access never echoes: an
// unmapped key fails with ErrMissingKey on every variant.
func (m *AttMap) Get(key string) (Value, error) {
	v, found := m.st().get(key)
	if !found {
		return nil, keyErr("get", key, ErrMissingKey)
	}
	return m.policy.retrieve(m.cfg, v), nil
}

// Set stores value at key.
//
// Mappings (any map with string keys, []Pair, yaml.v2 MapSlice or an *AttMap
// of any variant) are converted into fresh maps of this map's variant,
// recursively, including mappings inside slices. If key already holds a map
// and value is a mapping, the two are merged and incoming keys win.
func (m *AttMap) Set(key string, value any) error {
	return m.set(key, value, 0, true)
}

// Replace stores value at key like Set, but never merges.
func (m *AttMap) Replace(key string, value any) error {
	return m.set(key, value, 0, false)
}

func (m *AttMap) set(key string, value any, depth int, merge bool) error {
	if merge {
		if cur, found := m.st().get(key); found {
			if sub, ok := cur.(*AttMap); ok {
				if pairs, isMapping, err := mappingPairs(value); isMapping {
					if err != nil {
						return keyErr("set", key, err)
					}
					if err := sub.apply(pairs, depth+1); err != nil {
						return keyErr("set", key, err)
					}
					return nil
				}
			}
		}
	}

	v, err := m.convert(value, depth)
	if err != nil {
		return keyErr("set", key, err)
	}
	m.st().set(key, v)
	return nil
}

// Delete removes key. Deleting an unmapped key does nothing but log.
func (m *AttMap) Delete(key string) {
	if !m.st().del(key) {
		m.cfg.logger.Debug("no item to delete", "key", key)
	}
}

func (m *AttMap) Contains(key string) bool {
	_, found := m.st().get(key)
	return found
}

func (m *AttMap) Len() int {
	return m.st().len()
}

// IsNull reports whether key is present and bound to Null.
func (m *AttMap) IsNull(key string) bool {
	v, found := m.st().get(key)
	return found && v.Kind() == NullKind
}

// NonNull reports whether key is present and not bound to Null.
func (m *AttMap) NonNull(key string) bool {
	v, found := m.st().get(key)
	return found && v.Kind() != NullKind
}

// Keys lists keys in iteration order.
func (m *AttMap) Keys() []string {
	keys := make([]string, 0, m.Len())
	m.st().each(func(k string, _ Value) bool {
		keys = append(keys, k)
		return true
	})
	return keys
}

// Range calls fn for every entry in iteration order until fn returns false.
// Values are seen as Get returns them. fn may modify m.
func (m *AttMap) Range(fn func(key string, v Value) bool) {
	for _, p := range m.rawItems() {
		if !fn(p.Key, m.policy.retrieve(m.cfg, p.Value.(Value))) {
			return
		}
	}
}

// Items lists entries in iteration order, with values as Get returns them.
// The result can be fed back to AddEntries.
func (m *AttMap) Items() []Pair {
	items := m.rawItems()
	for i := range items {
		items[i].Value = m.policy.retrieve(m.cfg, items[i].Value.(Value))
	}
	return items
}

// rawItems snapshots the stored entries.
func (m *AttMap) rawItems() []Pair {
	items := make([]Pair, 0, m.Len())
	m.st().each(func(k string, v Value) bool {
		items = append(items, Pair{k, v})
		return true
	})
	return items
}

// each visits the stored entries. fn must not modify m.
func (m *AttMap) each(fn func(string, Value) bool) {
	m.st().each(fn)
}

// GetMap returns the map stored at key.
func (m *AttMap) GetMap(key string) (*AttMap, error) {
	v, err := m.Get(key)
	if err != nil {
		return nil, err
	}
	sub, ok := v.(*AttMap)
	if !ok {
		return nil, keyErr("get", key, typeMismatch(MapKind, v))
	}
	return sub, nil
}
