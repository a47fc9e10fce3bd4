// Package favorites holds the in-memory set of favorited event identifiers.
package favorites

import "slices"

// State is the lifecycle of a favorites set within one session.
type State int

const (
	// StateEmpty means no identity is active.
	StateEmpty State = iota
	// StateLoading means the initial load is in flight.
	StateLoading
	// StateReady means the set is populated and may be mutated.
	StateReady
)

func (s State) String() string {
	switch s {
	case StateEmpty:
		return "empty"
	case StateLoading:
		return "loading"
	case StateReady:
		return "ready"
	default:
		return "unknown"
	}
}

// Set is an unordered set of event ids. The zero value is not usable; use NewSet.
type Set struct {
	ids map[int64]struct{}
}

// NewSet builds a set from ids, dropping duplicates.
func NewSet(ids ...int64) Set {
	s := Set{ids: make(map[int64]struct{}, len(ids))}
	for _, id := range ids {
		s.ids[id] = struct{}{}
	}
	return s
}

// Add inserts id and reports whether the set changed.
func (s Set) Add(id int64) bool {
	if _, ok := s.ids[id]; ok {
		return false
	}
	s.ids[id] = struct{}{}
	return true
}

// Remove deletes id and reports whether the set changed.
func (s Set) Remove(id int64) bool {
	if _, ok := s.ids[id]; !ok {
		return false
	}
	delete(s.ids, id)
	return true
}

// Contains is an O(1) membership test.
func (s Set) Contains(id int64) bool {
	_, ok := s.ids[id]
	return ok
}

// Len returns the number of ids.
func (s Set) Len() int { return len(s.ids) }

// IDs returns the ids in ascending order.
func (s Set) IDs() []int64 {
	out := make([]int64, 0, len(s.ids))
	for id := range s.ids {
		out = append(out, id)
	}
	slices.Sort(out)
	return out
}
