package hmap

import "github.com/cs-au-dk/attmap/utils"

// A simple implementation of a mutable hash map for keys that Go's maps
// cannot index directly, e.g. interface values holding slices.
// Uses linked lists to resolve hash collisions. Iteration follows insertion
// order, so two maps built from the same sequence of insertions iterate
// identically.

type node[K, V any] struct {
	key   K
	value V
	next  *node[K, V]
}

type Map[K, V any] struct {
	hasher utils.Hasher[K]
	mp     map[uint32]*node[K, V]
	order  []*node[K, V]
}

// Order of V and K are swapped since K can be inferred by the argument.
func NewMap[V, K any](hasher utils.Hasher[K]) *Map[K, V] {
	return &Map[K, V]{
		hasher: hasher,
		mp:     make(map[uint32]*node[K, V]),
	}
}

// Set binds key to value. It reports whether the key was new.
func (m *Map[K, V]) Set(key K, value V) bool {
	h := m.hasher.Hash(key)
	snode, found := m.mp[h]
	if !found {
		n := &node[K, V]{key, value, nil}
		m.mp[h] = n
		m.order = append(m.order, n)
		return true
	}

	for {
		if m.hasher.Equal(key, snode.key) {
			snode.value = value
			return false
		}

		if next := snode.next; next == nil {
			// Hash collision :(
			n := &node[K, V]{key, value, nil}
			snode.next = n
			m.order = append(m.order, n)
			return true
		} else {
			snode = next
		}
	}
}

func (m *Map[K, V]) GetOk(key K) (res V, ok bool) {
	for node := m.mp[m.hasher.Hash(key)]; node != nil; node = node.next {
		if m.hasher.Equal(key, node.key) {
			return node.value, true
		}
	}

	return
}

func (m *Map[K, V]) Get(key K) V {
	v, _ := m.GetOk(key)
	return v
}

// Delete removes the binding for key. It reports whether one existed.
func (m *Map[K, V]) Delete(key K) bool {
	h := m.hasher.Hash(key)
	var prev *node[K, V]
	for n := m.mp[h]; n != nil; prev, n = n, n.next {
		if !m.hasher.Equal(key, n.key) {
			continue
		}

		switch {
		case prev != nil:
			prev.next = n.next
		case n.next != nil:
			m.mp[h] = n.next
		default:
			delete(m.mp, h)
		}

		for i, o := range m.order {
			if o == n {
				m.order = append(m.order[:i], m.order[i+1:]...)
				break
			}
		}
		return true
	}

	return false
}

func (m *Map[K, V]) Len() int {
	return len(m.order)
}

// ForEach calls do on every binding in insertion order until do returns false.
func (m *Map[K, V]) ForEach(do func(K, V) bool) {
	for _, n := range m.order {
		if !do(n.key, n.value) {
			return
		}
	}
}
