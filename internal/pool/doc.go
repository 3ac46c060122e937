// Copyright 2025 The Go A2A Authors
// SPDX-License-Identifier: Apache-2.0

// Package pool provides strongly-typed object pooling on top of [sync.Pool],
// with predefined pools for the byte buffers and string builders the bridge
// allocates on its hot paths.
//
// A bridge run touches a pool once per streamed event: every Server-Sent
// Events frame is assembled in a pooled [*bytes.Buffer], and every runtime
// event that carries text joins its parts in a pooled [*strings.Builder].
// Pooling keeps those per-event allocations off the garbage collector during
// long streams.
//
// # Generic Pools
//
// Pool[T] wraps [sync.Pool] so callers get their own type back without
// assertions. The reset function passed to [New] runs on every Put, so
// values always re-enter the pool cleared:
//
//	framePool := pool.New(
//		func() *bytes.Buffer { return &bytes.Buffer{} },
//		func(b *bytes.Buffer) { b.Reset() },
//	)
//
//	buf := framePool.Get()
//	defer framePool.Put(buf)
//	// ... use buf ...
//
// # Predefined Pools
//
// [Buffer] and [String] are the shared pools used by the encode paths:
//
//	buf := pool.Buffer.Get()
//	defer pool.Buffer.Put(buf)
//
//	buf.WriteString("data: ")
//	buf.Write(payload)
//	buf.WriteString("\n\n")
//	w.Write(buf.Bytes())
//
// The same shape applies to [String] when concatenating the text parts of a
// runtime event before translation.
//
// # Contract
//
// Put clears the object, so never retain a reference or a view of its
// contents past the Put: the next Get on another goroutine may receive the
// same object.
//
//	// WRONG: reads the buffer after returning it.
//	buf := pool.Buffer.Get()
//	buf.Write(payload)
//	pool.Buffer.Put(buf)
//	send(buf.Bytes())
//
//	// CORRECT: extract the result first.
//	buf := pool.Buffer.Get()
//	buf.Write(payload)
//	frame := buf.String()
//	pool.Buffer.Put(buf)
//	send(frame)
//
// All pool operations are safe for concurrent use.
package pool
