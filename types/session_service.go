// Copyright 2025 The Go A2A Authors
// SPDX-License-Identifier: Apache-2.0

package types

import (
	"context"
	"time"
)

// GetSessionConfig narrows the transcript returned with a session.
type GetSessionConfig struct {
	// NumRecentEvents, when positive, keeps only that many trailing events.
	NumRecentEvents int

	// AfterTimestamp, when non-zero, drops events recorded at or before it.
	AfterTimestamp time.Time
}

// SessionService stores conversational threads and their transcripts.
//
// Implementations route prefixed state keys on every write: "app:" keys to
// state shared across the app, "user:" keys to state shared across the
// user's sessions, "temp:" keys nowhere. Reads hand back the merged view.
type SessionService interface {
	// CreateSession creates a session seeded with state. An empty sessionID
	// asks the store to mint one.
	CreateSession(ctx context.Context, appName, userID, sessionID string, state map[string]any) (Session, error)

	// GetSession retrieves a session, with its transcript narrowed by config
	// when non-nil. A missing session is reported via [ErrSessionNotFound].
	GetSession(ctx context.Context, appName, userID, sessionID string, config *GetSessionConfig) (Session, error)

	// ListSessions lists a user's sessions within an app. The returned
	// sessions carry identity and update time only, no transcript or state.
	ListSessions(ctx context.Context, appName, userID string) ([]Session, error)

	// DeleteSession removes a session. Deleting a missing session is not an
	// error.
	DeleteSession(ctx context.Context, appName, userID, sessionID string) error

	// AppendEvent records an event on the session and applies its state
	// delta, routing prefixed keys to their scope; a nil delta value deletes
	// the key. Partial events pass through without being persisted.
	AppendEvent(ctx context.Context, ses Session, event *Event) (*Event, error)

	// ListEvents retrieves a session's events, oldest first. A maxEvents of
	// zero or less means no limit; a non-nil since drops events at or before
	// that time.
	ListEvents(ctx context.Context, appName, userID, sessionID string, maxEvents int, since *time.Time) ([]*Event, error)
}
