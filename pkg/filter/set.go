package filter

import "sort"

// Set is a set of facet values. The zero value is an empty, usable set.
type Set struct {
	m map[string]struct{}
}

// NewSet returns a set holding values.
func NewSet(values ...string) Set {
	var s Set
	for _, v := range values {
		s.Add(v)
	}
	return s
}

func (s *Set) Add(v string) {
	if s.m == nil {
		s.m = make(map[string]struct{})
	}
	s.m[v] = struct{}{}
}

func (s *Set) Remove(v string) {
	delete(s.m, v)
}

// Toggle removes v if present and adds it otherwise. It reports whether v is
// in the set afterwards.
func (s *Set) Toggle(v string) bool {
	if s.Has(v) {
		s.Remove(v)
		return false
	}
	s.Add(v)
	return true
}

func (s *Set) Clear() {
	s.m = nil
}

func (s Set) Has(v string) bool {
	_, ok := s.m[v]
	return ok
}

func (s Set) Len() int { return len(s.m) }

// HasAny reports whether at least one of values is in the set.
func (s Set) HasAny(values []string) bool {
	for _, v := range values {
		if s.Has(v) {
			return true
		}
	}
	return false
}

// Sorted returns the members in ascending order.
func (s Set) Sorted() []string {
	out := make([]string, 0, len(s.m))
	for v := range s.m {
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}

func (s Set) Clone() Set {
	var c Set
	for v := range s.m {
		c.Add(v)
	}
	return c
}

// Equal reports whether both sets hold the same members.
func (s Set) Equal(o Set) bool {
	if s.Len() != o.Len() {
		return false
	}
	for v := range s.m {
		if !o.Has(v) {
			return false
		}
	}
	return true
}
