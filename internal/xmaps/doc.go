// Copyright 2025 The Go A2A Authors
// SPDX-License-Identifier: Apache-2.0

// Package xmaps provides extended utility functions for working with maps,
// complementing the standard [maps] package.
//
// The helpers center on ordered access: protocol emission must walk state
// documents and deltas in a stable order so identical state produces
// identical wire bytes, and [SortedKeys] is the canonical way to do that.
//
//	for _, key := range xmaps.SortedKeys(delta) {
//		emit(key, delta[key])
//	}
//
// [Contains] answers key membership through the same ordered view. For a
// plain existence check on a hot path, the two-value map read is cheaper;
// use Contains where generic code already works with ordered keys.
//
// All functions are read-only and safe for concurrent use as long as the
// map is not being written concurrently.
package xmaps
