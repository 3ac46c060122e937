// Copyright 2025 The Go A2A Authors
// SPDX-License-Identifier: Apache-2.0

// Package py provides Python-style container types used across the bridge.
//
// The primary type is [Set], a type-safe set backed by a map with zero-size
// values:
//
//	type Set[T comparable] map[T]Empty
//
// Sets are used for membership testing and deduplication, such as tracking
// long-running tool call IDs and processed message IDs:
//
//	pending := py.NewSet("call_1", "call_2")
//	pending.Delete("call_1")
//	if pending.Has("call_2") {
//		// still waiting on the client
//	}
//
// Sets are NOT safe for concurrent use. Guard shared sets with external
// synchronization.
//
// # Attribution
//
// The Set implementation is adapted from Kubernetes' utility library
// (https://github.com/kubernetes/kubernetes/tree/master/staging/src/k8s.io/apimachinery/pkg/util/sets)
// and is used under the Apache 2.0 license. The original copyright is:
//
//	Copyright 2022 The Kubernetes Authors
package py
