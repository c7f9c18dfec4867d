package attmap

import (
	"math"
	"sort"
	"strconv"

	"github.com/cs-au-dk/attmap/utils"
	"github.com/cs-au-dk/attmap/utils/hmap"
	"github.com/pkg/errors"
)

// Set is an unordered collection of unique scalar values. Members are Null,
// Bool, Int, Float, Text or Bytes.
type Set struct {
	members *hmap.Map[Value, struct{}]
}

type scalarHasher struct{}

func (scalarHasher) Hash(v Value) uint32 {
	var h uint32
	switch x := v.(type) {
	case Bool:
		if x {
			h = 1
		}
	case Int:
		h = utils.HashString(strconv.FormatInt(int64(x), 10))
	case Float:
		f := float64(x)
		if f == 0 {
			// -0.0 == 0.0, so both must hash alike.
			f = 0
		}
		h = utils.HashString(strconv.FormatUint(math.Float64bits(f), 16))
	case Text:
		h = utils.HashString(string(x))
	case Bytes:
		h = utils.HashBytes(x)
	}
	return utils.HashCombine(uint32(v.Kind()), h)
}

func (scalarHasher) Equal(a, b Value) bool {
	return DefaultComparer(a, b)
}

// NewSet builds a set from Go scalars or scalar Values.
func NewSet(elems ...any) (*Set, error) {
	s := &Set{}
	for _, e := range elems {
		if err := s.Add(e); err != nil {
			return nil, err
		}
	}
	return s, nil
}

func (s *Set) init() *hmap.Map[Value, struct{}] {
	if s.members == nil {
		s.members = hmap.NewMap[struct{}](utils.Hasher[Value](scalarHasher{}))
	}
	return s.members
}

func setMember(v any) (Value, error) {
	val, ok, err := scalarOf(v)
	switch {
	case err != nil:
		return nil, err
	case !ok:
		return nil, errors.Wrapf(ErrTypeMismatch, "set member of type %T is not a scalar", v)
	}
	return val, nil
}

// Add inserts v. Adding a member twice has no effect.
func (s *Set) Add(v any) error {
	val, err := setMember(v)
	if err != nil {
		return err
	}
	s.init().Set(val, struct{}{})
	return nil
}

func (s *Set) Contains(v any) bool {
	val, err := setMember(v)
	if err != nil || s.members == nil {
		return false
	}
	_, ok := s.members.GetOk(val)
	return ok
}

// Remove deletes v and reports whether it was a member.
func (s *Set) Remove(v any) bool {
	val, err := setMember(v)
	if err != nil || s.members == nil {
		return false
	}
	return s.members.Delete(val)
}

func (s *Set) Len() int {
	if s.members == nil {
		return 0
	}
	return s.members.Len()
}

// Members lists the set in canonical order: by kind, then by rendered form.
func (s *Set) Members() []Value {
	res := make([]Value, 0, s.Len())
	if s.members != nil {
		s.members.ForEach(func(v Value, _ struct{}) bool {
			res = append(res, v)
			return true
		})
	}
	sort.SliceStable(res, func(i, j int) bool {
		if ki, kj := res[i].Kind(), res[j].Kind(); ki != kj {
			return ki < kj
		}
		return scalarRepr(res[i], false) < scalarRepr(res[j], false)
	})
	return res
}

func (s *Set) Equal(o *Set) bool {
	if s.Len() != o.Len() {
		return false
	}
	eq := true
	if s.members != nil {
		s.members.ForEach(func(v Value, _ struct{}) bool {
			_, eq = o.members.GetOk(v)
			return eq
		})
	}
	return eq
}

func (s *Set) clone() *Set {
	c := &Set{}
	if s.members != nil {
		s.members.ForEach(func(v Value, _ struct{}) bool {
			if b, ok := v.(Bytes); ok {
				v = append(Bytes(nil), b...)
			}
			c.init().Set(v, struct{}{})
			return true
		})
	}
	return c
}

func (*Set) Kind() Kind { return SetKind }
func (*Set) isValue()   {}

func (s *Set) String() string {
	return flowRepr(s, false)
}
