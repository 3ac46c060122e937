// Copyright 2025 The Go A2A Authors
// SPDX-License-Identifier: Apache-2.0

package xiter

import (
	"iter"
)

// Error returns an iterator that yields a single (zero T, err) pair.
//
// It is the canned error form of an [iter.Seq2] stream, for operations that
// fail before producing any values.
func Error[T any](err error) iter.Seq2[T, error] {
	return func(yield func(T, error) bool) {
		var zero T
		yield(zero, err)
	}
}
