// Copyright 2025 The Go A2A Authors
// SPDX-License-Identifier: Apache-2.0

package xmaps

import (
	"cmp"
	"maps"
	"slices"
)

// SortedKeys returns the keys of m as a sorted slice.
//
// Use it to walk a map in deterministic order, such as when emitting map
// contents on the wire.
func SortedKeys[Map ~map[K]V, K cmp.Ordered, V any](m Map) []K {
	return slices.Sorted(maps.Keys(m))
}

// Contains reports whether key is present in m.
func Contains[Map ~map[K]V, K cmp.Ordered, V any](m Map, key K) bool {
	return slices.Contains(SortedKeys(m), key)
}
