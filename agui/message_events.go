// Copyright 2025 The Go A2A Authors
// SPDX-License-Identifier: Apache-2.0

package agui

import (
	"errors"

	"github.com/bytedance/sonic"
)

// TextMessageStartEvent opens a streamed assistant text message.
type TextMessageStartEvent struct {
	BaseEvent

	MessageID string `json:"messageId"`
	Role      string `json:"role"`
}

var _ Event = (*TextMessageStartEvent)(nil)

// TextMessageStartOption configures an optional field of a [TextMessageStartEvent].
type TextMessageStartOption func(*TextMessageStartEvent)

// WithRole overrides the message role. The protocol expects "assistant".
func WithRole(role string) TextMessageStartOption {
	return func(e *TextMessageStartEvent) {
		e.Role = role
	}
}

// NewTextMessageStartEvent creates a [TextMessageStartEvent] with the
// "assistant" role.
func NewTextMessageStartEvent(messageID string, opts ...TextMessageStartOption) *TextMessageStartEvent {
	e := &TextMessageStartEvent{
		BaseEvent: newBaseEvent(EventTypeTextMessageStart),
		MessageID: messageID,
		Role:      RoleAssistant,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Validate implements [Event].
func (e *TextMessageStartEvent) Validate() error {
	if e.MessageID == "" {
		return errors.New("TextMessageStartEvent: messageId is required")
	}
	return nil
}

// ToJSON implements [Event].
func (e *TextMessageStartEvent) ToJSON() ([]byte, error) {
	return sonic.ConfigFastest.Marshal(e)
}

// TextMessageContentEvent carries one streamed chunk of an open text message.
type TextMessageContentEvent struct {
	BaseEvent

	MessageID string `json:"messageId"`
	Delta     string `json:"delta"`
}

var _ Event = (*TextMessageContentEvent)(nil)

// NewTextMessageContentEvent creates a [TextMessageContentEvent] carrying delta.
func NewTextMessageContentEvent(messageID, delta string) *TextMessageContentEvent {
	return &TextMessageContentEvent{
		BaseEvent: newBaseEvent(EventTypeTextMessageContent),
		MessageID: messageID,
		Delta:     delta,
	}
}

// Validate implements [Event].
func (e *TextMessageContentEvent) Validate() error {
	if e.MessageID == "" {
		return errors.New("TextMessageContentEvent: messageId is required")
	}
	if e.Delta == "" {
		return errors.New("TextMessageContentEvent: delta must not be empty")
	}
	return nil
}

// ToJSON implements [Event].
func (e *TextMessageContentEvent) ToJSON() ([]byte, error) {
	return sonic.ConfigFastest.Marshal(e)
}

// TextMessageEndEvent closes a streamed text message.
type TextMessageEndEvent struct {
	BaseEvent

	MessageID string `json:"messageId"`
}

var _ Event = (*TextMessageEndEvent)(nil)

// NewTextMessageEndEvent creates a [TextMessageEndEvent].
func NewTextMessageEndEvent(messageID string) *TextMessageEndEvent {
	return &TextMessageEndEvent{
		BaseEvent: newBaseEvent(EventTypeTextMessageEnd),
		MessageID: messageID,
	}
}

// Validate implements [Event].
func (e *TextMessageEndEvent) Validate() error {
	if e.MessageID == "" {
		return errors.New("TextMessageEndEvent: messageId is required")
	}
	return nil
}

// ToJSON implements [Event].
func (e *TextMessageEndEvent) ToJSON() ([]byte, error) {
	return sonic.ConfigFastest.Marshal(e)
}
