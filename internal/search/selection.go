package search

import (
	"maps"
	"slices"
)

// Selection is a set of conversation indices. It is not safe for
// concurrent use.
type Selection struct {
	set map[int]struct{}
}

// NewSelection returns an empty selection.
func NewSelection() *Selection {
	return &Selection{set: make(map[int]struct{})}
}

// SelectAllOf returns a selection holding 0..n-1, the state after a new
// archive is loaded.
func SelectAllOf(n int) *Selection {
	s := NewSelection()
	for i := range n {
		s.set[i] = struct{}{}
	}
	return s
}

// Has reports whether idx is selected.
func (s *Selection) Has(idx int) bool {
	_, ok := s.set[idx]
	return ok
}

// Toggle flips idx and reports whether it is now selected.
func (s *Selection) Toggle(idx int) bool {
	if s.Has(idx) {
		delete(s.set, idx)
		return false
	}
	s.set[idx] = struct{}{}
	return true
}

// SelectAll adds every visible index.
func (s *Selection) SelectAll(visible []int) {
	for _, idx := range visible {
		s.set[idx] = struct{}{}
	}
}

// DeselectAll removes every visible index. Hidden selections stay.
func (s *Selection) DeselectAll(visible []int) {
	for _, idx := range visible {
		delete(s.set, idx)
	}
}

// Invert flips every visible index.
func (s *Selection) Invert(visible []int) {
	for _, idx := range visible {
		s.Toggle(idx)
	}
}

// Clear empties the selection.
func (s *Selection) Clear() {
	clear(s.set)
}

// Len returns the number of selected indices.
func (s *Selection) Len() int {
	return len(s.set)
}

// Sorted returns the selected indices in ascending order.
func (s *Selection) Sorted() []int {
	return slices.Sorted(maps.Keys(s.set))
}
