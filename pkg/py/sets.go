// Copyright 2025 The Go A2A Authors
// SPDX-License-Identifier: Apache-2.0

package py

import (
	"cmp"
	"maps"
	"slices"
)

// Empty is the zero-size value type for [Set] entries.
type Empty struct{}

// Set is a set of comparable elements, implemented as a map with zero-size
// values.
type Set[T comparable] map[T]Empty

// NewSet creates a [Set] from a list of values.
func NewSet[T comparable](items ...T) Set[T] {
	s := make(Set[T], len(items))
	s.Insert(items...)
	return s
}

// KeySet creates a [Set] from the keys of a map.
func KeySet[T comparable, V any](m map[T]V) Set[T] {
	s := make(Set[T], len(m))
	for k := range m {
		s[k] = Empty{}
	}
	return s
}

// Insert adds items to the set.
func (s Set[T]) Insert(items ...T) Set[T] {
	for _, item := range items {
		s[item] = Empty{}
	}
	return s
}

// Delete removes items from the set, if present.
func (s Set[T]) Delete(items ...T) Set[T] {
	for _, item := range items {
		delete(s, item)
	}
	return s
}

// Clear removes all items from the set.
func (s Set[T]) Clear() Set[T] {
	clear(s)
	return s
}

// Has reports whether item is contained in the set.
func (s Set[T]) Has(item T) bool {
	_, ok := s[item]
	return ok
}

// HasAll reports whether all items are contained in the set.
func (s Set[T]) HasAll(items ...T) bool {
	for _, item := range items {
		if !s.Has(item) {
			return false
		}
	}
	return true
}

// HasAny reports whether any of the items is contained in the set.
func (s Set[T]) HasAny(items ...T) bool {
	for _, item := range items {
		if s.Has(item) {
			return true
		}
	}
	return false
}

// Union returns a new set containing the elements of s and s2.
func (s Set[T]) Union(s2 Set[T]) Set[T] {
	result := s.Clone()
	for key := range s2 {
		result[key] = Empty{}
	}
	return result
}

// Intersection returns a new set containing the elements common to s and s2.
func (s Set[T]) Intersection(s2 Set[T]) Set[T] {
	var walk, other Set[T]
	result := make(Set[T])
	if len(s) < len(s2) {
		walk, other = s, s2
	} else {
		walk, other = s2, s
	}
	for key := range walk {
		if other.Has(key) {
			result[key] = Empty{}
		}
	}
	return result
}

// Difference returns a new set containing the elements of s that are not in s2.
func (s Set[T]) Difference(s2 Set[T]) Set[T] {
	result := make(Set[T])
	for key := range s {
		if !s2.Has(key) {
			result[key] = Empty{}
		}
	}
	return result
}

// SymmetricDifference returns a new set containing the elements that are in
// exactly one of s and s2.
func (s Set[T]) SymmetricDifference(s2 Set[T]) Set[T] {
	return s.Difference(s2).Union(s2.Difference(s))
}

// Equal reports whether s and s2 contain the same elements.
func (s Set[T]) Equal(s2 Set[T]) bool {
	return len(s) == len(s2) && s.IsSuperset(s2)
}

// IsSuperset reports whether every element of s2 is contained in s.
func (s Set[T]) IsSuperset(s2 Set[T]) bool {
	for item := range s2 {
		if !s.Has(item) {
			return false
		}
	}
	return true
}

// Clone returns a copy of the set. The returned set is never nil.
func (s Set[T]) Clone() Set[T] {
	result := make(Set[T], len(s))
	for key := range s {
		result[key] = Empty{}
	}
	return result
}

// PopAny removes and returns an arbitrary element of the set. The second
// return value is false when the set is empty.
func (s Set[T]) PopAny() (T, bool) {
	for key := range s {
		s.Delete(key)
		return key, true
	}
	var zero T
	return zero, false
}

// Len returns the number of elements in the set.
func (s Set[T]) Len() int {
	return len(s)
}

// UnsortedList returns the elements of the set in arbitrary order.
func (s Set[T]) UnsortedList() []T {
	return slices.Collect(maps.Keys(s))
}

// List returns the elements of s as a sorted slice.
func List[T cmp.Ordered](s Set[T]) []T {
	result := s.UnsortedList()
	slices.Sort(result)
	return result
}
