// Copyright 2025 The Go A2A Authors
// SPDX-License-Identifier: Apache-2.0

package types

import (
	"context"
	"time"

	"google.golang.org/genai"
)

// MemoryService is long-term conversation recall across sessions.
//
// The bridge archives a session into memory before deleting it, so agents
// can still search prior conversations after the session itself is gone.
// Adding the same session more than once over its lifetime is allowed.
type MemoryService interface {
	// AddSessionToMemory archives the session's transcript for later
	// recall.
	AddSessionToMemory(ctx context.Context, session Session) error

	// SearchMemory finds archived conversation pieces relevant to the
	// query, scoped to one app and user.
	SearchMemory(ctx context.Context, appName, userID, query string) (*SearchMemoryResponse, error)
}

// MemoryEntry is one recalled piece of a past conversation.
type MemoryEntry struct {
	// Content is the recalled conversation content.
	Content *genai.Content

	// Author is who produced the content.
	Author string

	// Timestamp is when the original content happened.
	Timestamp time.Time
}

// SearchMemoryResponse is the result of a memory search.
type SearchMemoryResponse struct {
	// Memories are the entries matching the search.
	Memories []*MemoryEntry `json:"memories"`
}
