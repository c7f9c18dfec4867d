package utils

import (
	"hash/fnv"

	"github.com/benbjohnson/immutable"
)

// Hasher hashes and compares keys. It has the same shape as
// immutable.Hasher, so either can be handed to the maps in this module.
type Hasher[K any] interface {
	Hash(K) uint32
	Equal(a, b K) bool
}

var _ immutable.Hasher[string] = Hasher[string](nil)

// HashString computes a 32-bit FNV-1a hash of s.
func HashString(s string) uint32 {
	h := fnv.New32a()
	h.Write([]byte(s))
	return h.Sum32()
}

// HashBytes computes a 32-bit FNV-1a hash of b.
func HashBytes(b []byte) uint32 {
	h := fnv.New32a()
	h.Write(b)
	return h.Sum32()
}

// HashCombine uses the C++ boost algorithm for combining multiple hash values.
func HashCombine(hs ...uint32) (seed uint32) {
	for _, v := range hs {
		seed = v + 0x9e3779b9 + (seed << 6) + (seed >> 2)
	}

	return
}
