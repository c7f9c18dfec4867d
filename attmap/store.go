package attmap

import (
	"github.com/benbjohnson/immutable"
	"github.com/cs-au-dk/attmap/utils"
	"github.com/emirpasic/gods/maps/linkedhashmap"
)

// store is the key-value backend of a map. Callers must not mutate a store
// from inside each.
type store interface {
	get(key string) (Value, bool)
	// set binds key. Rebinding an existing key keeps its position.
	set(key string, v Value)
	// del reports whether key was bound.
	del(key string) bool
	len() int
	each(fn func(key string, v Value) bool)
}

func newStore(variant Variant) store {
	if variant.Has(Ordered) {
		return &orderedStore{linkedhashmap.New()}
	}
	return &hashStore{immutable.NewMap[string, Value](keyHasher{})}
}

type keyHasher struct{}

func (keyHasher) Hash(key string) uint32 {
	return utils.HashString(key)
}

func (keyHasher) Equal(a, b string) bool {
	return a == b
}

// hashStore iterates in hash order: arbitrary but stable for a given key set.
type hashStore struct {
	mp *immutable.Map[string, Value]
}

func (s *hashStore) get(key string) (Value, bool) {
	return s.mp.Get(key)
}

func (s *hashStore) set(key string, v Value) {
	s.mp = s.mp.Set(key, v)
}

func (s *hashStore) del(key string) bool {
	if _, found := s.mp.Get(key); !found {
		return false
	}
	s.mp = s.mp.Delete(key)
	return true
}

func (s *hashStore) len() int {
	return s.mp.Len()
}

func (s *hashStore) each(fn func(string, Value) bool) {
	for itr := s.mp.Iterator(); !itr.Done(); {
		k, v, _ := itr.Next()
		if !fn(k, v) {
			return
		}
	}
}

// orderedStore keeps insertion order. The linked hash map removes a key from
// its table and its ordering together.
type orderedStore struct {
	lm *linkedhashmap.Map
}

func (s *orderedStore) get(key string) (Value, bool) {
	v, found := s.lm.Get(key)
	if !found {
		return nil, false
	}
	return v.(Value), true
}

func (s *orderedStore) set(key string, v Value) {
	s.lm.Put(key, v)
}

func (s *orderedStore) del(key string) bool {
	if _, found := s.lm.Get(key); !found {
		return false
	}
	s.lm.Remove(key)
	return true
}

func (s *orderedStore) len() int {
	return s.lm.Size()
}

func (s *orderedStore) each(fn func(string, Value) bool) {
	for it := s.lm.Iterator(); it.Next(); {
		if !fn(it.Key().(string), it.Value().(Value)) {
			return
		}
	}
}
