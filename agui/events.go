// Copyright 2025 The Go A2A Authors
// SPDX-License-Identifier: Apache-2.0

package agui

import (
	"time"
)

// EventType identifies the kind of an AG-UI event on the wire.
type EventType string

const (
	EventTypeRunStarted         EventType = "RUN_STARTED"
	EventTypeRunFinished        EventType = "RUN_FINISHED"
	EventTypeRunError           EventType = "RUN_ERROR"
	EventTypeTextMessageStart   EventType = "TEXT_MESSAGE_START"
	EventTypeTextMessageContent EventType = "TEXT_MESSAGE_CONTENT"
	EventTypeTextMessageEnd     EventType = "TEXT_MESSAGE_END"
	EventTypeToolCallStart      EventType = "TOOL_CALL_START"
	EventTypeToolCallArgs       EventType = "TOOL_CALL_ARGS"
	EventTypeToolCallEnd        EventType = "TOOL_CALL_END"
	EventTypeToolCallResult     EventType = "TOOL_CALL_RESULT"
	EventTypeStateSnapshot      EventType = "STATE_SNAPSHOT"
	EventTypeStateDelta         EventType = "STATE_DELTA"
	EventTypeCustom             EventType = "CUSTOM"
)

// Event is implemented by all AG-UI protocol events.
type Event interface {
	// Type returns the wire type tag of the event.
	Type() EventType

	// Validate checks that the event satisfies the protocol's required fields.
	Validate() error

	// ToJSON serializes the event to its wire representation.
	ToJSON() ([]byte, error)
}

// BaseEvent carries the fields shared by all AG-UI events.
//
// It is embedded by each concrete event type; the embedded EventType field is
// what lands in the wire 'type' tag.
type BaseEvent struct {
	EventType   EventType `json:"type"`
	TimestampMs *int64    `json:"timestamp,omitempty"`
}

// Type returns the wire type tag of the event.
func (e *BaseEvent) Type() EventType {
	return e.EventType
}

// Timestamp returns the event timestamp in Unix milliseconds, if set.
func (e *BaseEvent) Timestamp() *int64 {
	return e.TimestampMs
}

// SetTimestamp sets the event timestamp in Unix milliseconds.
func (e *BaseEvent) SetTimestamp(ms int64) {
	e.TimestampMs = &ms
}

func newBaseEvent(t EventType) BaseEvent {
	now := time.Now().UnixMilli()
	return BaseEvent{
		EventType:   t,
		TimestampMs: &now,
	}
}
