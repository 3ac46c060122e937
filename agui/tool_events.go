// Copyright 2025 The Go A2A Authors
// SPDX-License-Identifier: Apache-2.0

package agui

import (
	"errors"

	"github.com/bytedance/sonic"
)

// ToolCallStartEvent opens a streamed tool call.
type ToolCallStartEvent struct {
	BaseEvent

	ToolCallID      string  `json:"toolCallId"`
	ToolCallName    string  `json:"toolCallName"`
	ParentMessageID *string `json:"parentMessageId,omitempty"`
}

var _ Event = (*ToolCallStartEvent)(nil)

// ToolCallStartOption configures an optional field of a [ToolCallStartEvent].
type ToolCallStartOption func(*ToolCallStartEvent)

// WithParentMessageID attaches the ID of the assistant message the tool call
// belongs to.
func WithParentMessageID(messageID string) ToolCallStartOption {
	return func(e *ToolCallStartEvent) {
		e.ParentMessageID = &messageID
	}
}

// NewToolCallStartEvent creates a [ToolCallStartEvent].
func NewToolCallStartEvent(toolCallID, toolCallName string, opts ...ToolCallStartOption) *ToolCallStartEvent {
	e := &ToolCallStartEvent{
		BaseEvent:    newBaseEvent(EventTypeToolCallStart),
		ToolCallID:   toolCallID,
		ToolCallName: toolCallName,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Validate implements [Event].
func (e *ToolCallStartEvent) Validate() error {
	if e.ToolCallID == "" {
		return errors.New("ToolCallStartEvent: toolCallId is required")
	}
	if e.ToolCallName == "" {
		return errors.New("ToolCallStartEvent: toolCallName is required")
	}
	return nil
}

// ToJSON implements [Event].
func (e *ToolCallStartEvent) ToJSON() ([]byte, error) {
	return sonic.ConfigFastest.Marshal(e)
}

// ToolCallArgsEvent carries a chunk of the JSON-encoded arguments of an open
// tool call.
type ToolCallArgsEvent struct {
	BaseEvent

	ToolCallID string `json:"toolCallId"`
	Delta      string `json:"delta"`
}

var _ Event = (*ToolCallArgsEvent)(nil)

// NewToolCallArgsEvent creates a [ToolCallArgsEvent] carrying delta.
func NewToolCallArgsEvent(toolCallID, delta string) *ToolCallArgsEvent {
	return &ToolCallArgsEvent{
		BaseEvent:  newBaseEvent(EventTypeToolCallArgs),
		ToolCallID: toolCallID,
		Delta:      delta,
	}
}

// Validate implements [Event].
func (e *ToolCallArgsEvent) Validate() error {
	if e.ToolCallID == "" {
		return errors.New("ToolCallArgsEvent: toolCallId is required")
	}
	return nil
}

// ToJSON implements [Event].
func (e *ToolCallArgsEvent) ToJSON() ([]byte, error) {
	return sonic.ConfigFastest.Marshal(e)
}

// ToolCallEndEvent closes a streamed tool call.
type ToolCallEndEvent struct {
	BaseEvent

	ToolCallID string `json:"toolCallId"`
}

var _ Event = (*ToolCallEndEvent)(nil)

// NewToolCallEndEvent creates a [ToolCallEndEvent].
func NewToolCallEndEvent(toolCallID string) *ToolCallEndEvent {
	return &ToolCallEndEvent{
		BaseEvent:  newBaseEvent(EventTypeToolCallEnd),
		ToolCallID: toolCallID,
	}
}

// Validate implements [Event].
func (e *ToolCallEndEvent) Validate() error {
	if e.ToolCallID == "" {
		return errors.New("ToolCallEndEvent: toolCallId is required")
	}
	return nil
}

// ToJSON implements [Event].
func (e *ToolCallEndEvent) ToJSON() ([]byte, error) {
	return sonic.ConfigFastest.Marshal(e)
}

// ToolCallResultEvent reports the result of a completed tool call back to the
// client.
type ToolCallResultEvent struct {
	BaseEvent

	MessageID  string `json:"messageId"`
	ToolCallID string `json:"toolCallId"`
	Content    string `json:"content"`
	Role       string `json:"role,omitempty"`
}

var _ Event = (*ToolCallResultEvent)(nil)

// NewToolCallResultEvent creates a [ToolCallResultEvent] carrying the
// serialized tool output.
func NewToolCallResultEvent(messageID, toolCallID, content string) *ToolCallResultEvent {
	return &ToolCallResultEvent{
		BaseEvent:  newBaseEvent(EventTypeToolCallResult),
		MessageID:  messageID,
		ToolCallID: toolCallID,
		Content:    content,
		Role:       RoleTool,
	}
}

// Validate implements [Event].
func (e *ToolCallResultEvent) Validate() error {
	if e.MessageID == "" {
		return errors.New("ToolCallResultEvent: messageId is required")
	}
	if e.ToolCallID == "" {
		return errors.New("ToolCallResultEvent: toolCallId is required")
	}
	return nil
}

// ToJSON implements [Event].
func (e *ToolCallResultEvent) ToJSON() ([]byte, error) {
	return sonic.ConfigFastest.Marshal(e)
}
