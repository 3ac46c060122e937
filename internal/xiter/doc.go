// Copyright 2025 The Go A2A Authors
// SPDX-License-Identifier: Apache-2.0

// Package xiter contains additional stdlib [iter] helpers for the
// error-carrying iter.Seq2 streams the bridge and its runners speak.
package xiter
