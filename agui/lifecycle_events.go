// Copyright 2025 The Go A2A Authors
// SPDX-License-Identifier: Apache-2.0

package agui

import (
	"errors"

	"github.com/bytedance/sonic"
)

// RunStartedEvent signals that an agent run has been accepted and started.
//
// It is always the first event of a run.
type RunStartedEvent struct {
	BaseEvent

	ThreadID string `json:"threadId"`
	RunID    string `json:"runId"`
}

var _ Event = (*RunStartedEvent)(nil)

// NewRunStartedEvent creates a [RunStartedEvent] for the given thread and run.
func NewRunStartedEvent(threadID, runID string) *RunStartedEvent {
	return &RunStartedEvent{
		BaseEvent: newBaseEvent(EventTypeRunStarted),
		ThreadID:  threadID,
		RunID:     runID,
	}
}

// Validate implements [Event].
func (e *RunStartedEvent) Validate() error {
	if e.ThreadID == "" {
		return errors.New("RunStartedEvent: threadId is required")
	}
	if e.RunID == "" {
		return errors.New("RunStartedEvent: runId is required")
	}
	return nil
}

// ToJSON implements [Event].
func (e *RunStartedEvent) ToJSON() ([]byte, error) {
	return sonic.ConfigFastest.Marshal(e)
}

// RunFinishedEvent signals that an agent run completed successfully.
//
// It is always the last event of a successful run.
type RunFinishedEvent struct {
	BaseEvent

	ThreadID string `json:"threadId"`
	RunID    string `json:"runId"`
	Result   any    `json:"result,omitempty"`
}

var _ Event = (*RunFinishedEvent)(nil)

// RunFinishedOption configures an optional field of a [RunFinishedEvent].
type RunFinishedOption func(*RunFinishedEvent)

// WithResult attaches a result payload to the run completion.
func WithResult(result any) RunFinishedOption {
	return func(e *RunFinishedEvent) {
		e.Result = result
	}
}

// NewRunFinishedEvent creates a [RunFinishedEvent] for the given thread and run.
func NewRunFinishedEvent(threadID, runID string, opts ...RunFinishedOption) *RunFinishedEvent {
	e := &RunFinishedEvent{
		BaseEvent: newBaseEvent(EventTypeRunFinished),
		ThreadID:  threadID,
		RunID:     runID,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Validate implements [Event].
func (e *RunFinishedEvent) Validate() error {
	if e.ThreadID == "" {
		return errors.New("RunFinishedEvent: threadId is required")
	}
	if e.RunID == "" {
		return errors.New("RunFinishedEvent: runId is required")
	}
	return nil
}

// ToJSON implements [Event].
func (e *RunFinishedEvent) ToJSON() ([]byte, error) {
	return sonic.ConfigFastest.Marshal(e)
}

// RunErrorEvent signals that an agent run failed.
//
// It terminates the run; no further events follow it.
type RunErrorEvent struct {
	BaseEvent

	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

var _ Event = (*RunErrorEvent)(nil)

// RunErrorOption configures an optional field of a [RunErrorEvent].
type RunErrorOption func(*RunErrorEvent)

// WithErrorCode attaches a machine-readable error code.
func WithErrorCode(code string) RunErrorOption {
	return func(e *RunErrorEvent) {
		e.Code = code
	}
}

// NewRunErrorEvent creates a [RunErrorEvent] with the given human-readable message.
func NewRunErrorEvent(message string, opts ...RunErrorOption) *RunErrorEvent {
	e := &RunErrorEvent{
		BaseEvent: newBaseEvent(EventTypeRunError),
		Message:   message,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Validate implements [Event].
func (e *RunErrorEvent) Validate() error {
	if e.Message == "" {
		return errors.New("RunErrorEvent: message is required")
	}
	return nil
}

// ToJSON implements [Event].
func (e *RunErrorEvent) ToJSON() ([]byte, error) {
	return sonic.ConfigFastest.Marshal(e)
}
