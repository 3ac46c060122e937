// Copyright 2025 The Go A2A Authors
// SPDX-License-Identifier: Apache-2.0

package types

import (
	"time"
)

// Session is one conversational thread as the runtime sees it: a state
// document plus the ordered transcript of runtime events.
//
// Sessions handed out by a [SessionService] are read views; durable
// mutations flow through [SessionService.AppendEvent], which applies the
// event's Actions.StateDelta to the stored document. Writing to the map
// returned by State changes only the view.
type Session interface {
	// ID returns the session ID. The bridge keys sessions by the protocol
	// thread ID.
	ID() string

	// AppName returns the application the session belongs to.
	AppName() string

	// UserID returns the owning user.
	UserID() string

	// State returns the state document. Stores fold the shared "app:" and
	// "user:" scopes into the view under their prefixed keys.
	State() map[string]any

	// Events returns the transcript in append order.
	Events() []*Event

	// LastUpdateTime returns when the session last changed. Expiry and
	// quota eviction order sessions by it.
	LastUpdateTime() time.Time

	// AddEvent appends events to this view of the transcript.
	AddEvent(events ...*Event)

	// SetLastUpdateTime stamps the session, refreshing its lifetime.
	SetLastUpdateTime(time.Time)
}
