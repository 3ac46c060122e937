// Copyright 2025 The Go A2A Authors
// SPDX-License-Identifier: Apache-2.0

package session

import (
	"time"

	"github.com/go-a2a/adk-agui/types"
)

// session is the concrete [types.Session] the stores in this package hand
// out. It is a plain data holder; scope merging and persistence live in the
// services.
type session struct {
	id             string
	appName        string
	userID         string
	events         []*types.Event
	state          map[string]any
	lastUpdateTime time.Time
}

var _ types.Session = (*session)(nil)

// NewSession creates a session view. A nil state gets an empty map so
// callers can write to it without checking.
func NewSession(appName, userID, id string, state map[string]any, lastUpdateTime time.Time) types.Session {
	if state == nil {
		state = make(map[string]any)
	}

	return &session{
		id:             id,
		appName:        appName,
		userID:         userID,
		events:         []*types.Event{},
		state:          state,
		lastUpdateTime: lastUpdateTime,
	}
}

// ID returns the session ID.
func (s *session) ID() string {
	return s.id
}

// AppName returns the application name.
func (s *session) AppName() string {
	return s.appName
}

// UserID returns the user ID.
func (s *session) UserID() string {
	return s.userID
}

// Events returns the events in this session.
func (s *session) Events() []*types.Event {
	return s.events
}

// State returns the state of this session.
func (s *session) State() map[string]any {
	return s.state
}

// LastUpdateTime returns the last time this session was updated.
func (s *session) LastUpdateTime() time.Time {
	return s.lastUpdateTime
}

// SetLastUpdateTime sets the last update time of this session.
func (s *session) SetLastUpdateTime(t time.Time) {
	s.lastUpdateTime = t
}

// AddEvent adds an event to this session.
func (s *session) AddEvent(events ...*types.Event) {
	s.events = append(s.events, events...)
}

// filterEvents narrows events to the window config describes: events after
// config.AfterTimestamp first, then at most the config.NumRecentEvents most
// recent of those.
func filterEvents(events []*types.Event, config *types.GetSessionConfig) []*types.Event {
	if config == nil {
		return events
	}
	if !config.AfterTimestamp.IsZero() {
		// Events are appended in order; find the first survivor.
		idx := len(events)
		for i, event := range events {
			if event.Timestamp.After(config.AfterTimestamp) {
				idx = i
				break
			}
		}
		events = events[idx:]
	}
	if n := config.NumRecentEvents; n > 0 && n < len(events) {
		events = events[len(events)-n:]
	}
	return events
}
