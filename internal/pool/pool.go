// Copyright 2025 The Go A2A Authors
// SPDX-License-Identifier: Apache-2.0

package pool

import (
	"bytes"
	"strings"
	"sync"
)

// Pool is a generics wrapper around [sync.Pool] that clears values on their
// way back in.
type Pool[T any] struct {
	pool  sync.Pool
	reset func(T)
}

// New returns a new [Pool] for T, using fn to construct new T's when the
// pool is empty and reset to clear values handed back through Put. A nil
// reset stores values as returned.
func New[T any](fn func() T, reset func(T)) *Pool[T] {
	return &Pool[T]{
		pool: sync.Pool{
			New: func() any {
				return fn()
			},
		},
		reset: reset,
	}
}

// Get gets a T from the pool, or creates a new one if the pool is empty.
func (p *Pool[T]) Get() T {
	return p.pool.Get().(T)
}

// Put resets x and returns it to the pool. Callers must extract any result
// before putting; the next Get on another goroutine may receive x.
func (p *Pool[T]) Put(x T) {
	if p.reset != nil {
		p.reset(x)
	}
	p.pool.Put(x)
}

// Buffer pools [*bytes.Buffer] values, used for SSE frame assembly.
var Buffer = New(
	func() *bytes.Buffer { return &bytes.Buffer{} },
	func(b *bytes.Buffer) { b.Reset() },
)

// String pools [*strings.Builder] values, used for joining streamed text
// parts.
var String = New(
	func() *strings.Builder { return &strings.Builder{} },
	func(b *strings.Builder) { b.Reset() },
)
