// Copyright 2025 The Go A2A Authors
// SPDX-License-Identifier: Apache-2.0

package agui

import (
	"errors"
	"fmt"

	"github.com/bytedance/sonic"
)

// JSON Patch operations used in [StateDeltaEvent] deltas (RFC 6902).
const (
	OpAdd     = "add"
	OpReplace = "replace"
	OpRemove  = "remove"
)

// JSONPatchOperation is a single RFC 6902 patch operation against the shared
// state document.
type JSONPatchOperation struct {
	Op    string `json:"op"`
	Path  string `json:"path"`
	Value any    `json:"value,omitempty"`
}

// StateSnapshotEvent replaces the client's copy of the shared state wholesale.
type StateSnapshotEvent struct {
	BaseEvent

	Snapshot any `json:"snapshot"`
}

var _ Event = (*StateSnapshotEvent)(nil)

// NewStateSnapshotEvent creates a [StateSnapshotEvent].
func NewStateSnapshotEvent(snapshot any) *StateSnapshotEvent {
	return &StateSnapshotEvent{
		BaseEvent: newBaseEvent(EventTypeStateSnapshot),
		Snapshot:  snapshot,
	}
}

// Validate implements [Event].
func (e *StateSnapshotEvent) Validate() error {
	if e.Snapshot == nil {
		return errors.New("StateSnapshotEvent: snapshot is required")
	}
	return nil
}

// ToJSON implements [Event].
func (e *StateSnapshotEvent) ToJSON() ([]byte, error) {
	return sonic.ConfigFastest.Marshal(e)
}

// StateDeltaEvent applies incremental JSON Patch operations to the client's
// copy of the shared state.
type StateDeltaEvent struct {
	BaseEvent

	Delta []JSONPatchOperation `json:"delta"`
}

var _ Event = (*StateDeltaEvent)(nil)

// NewStateDeltaEvent creates a [StateDeltaEvent] from patch operations.
func NewStateDeltaEvent(delta []JSONPatchOperation) *StateDeltaEvent {
	return &StateDeltaEvent{
		BaseEvent: newBaseEvent(EventTypeStateDelta),
		Delta:     delta,
	}
}

// Validate implements [Event].
func (e *StateDeltaEvent) Validate() error {
	if len(e.Delta) == 0 {
		return errors.New("StateDeltaEvent: delta must not be empty")
	}
	for i, op := range e.Delta {
		switch op.Op {
		case OpAdd, OpReplace, OpRemove:
		default:
			return fmt.Errorf("StateDeltaEvent: delta[%d] has unsupported op %q", i, op.Op)
		}
		if op.Path == "" {
			return fmt.Errorf("StateDeltaEvent: delta[%d] path is required", i)
		}
	}
	return nil
}

// ToJSON implements [Event].
func (e *StateDeltaEvent) ToJSON() ([]byte, error) {
	return sonic.ConfigFastest.Marshal(e)
}

// CustomEvent carries application-defined payloads that have no dedicated
// protocol event.
type CustomEvent struct {
	BaseEvent

	Name  string `json:"name"`
	Value any    `json:"value,omitempty"`
}

var _ Event = (*CustomEvent)(nil)

// NewCustomEvent creates a [CustomEvent] with the given name and payload.
func NewCustomEvent(name string, value any) *CustomEvent {
	return &CustomEvent{
		BaseEvent: newBaseEvent(EventTypeCustom),
		Name:      name,
		Value:     value,
	}
}

// Validate implements [Event].
func (e *CustomEvent) Validate() error {
	if e.Name == "" {
		return errors.New("CustomEvent: name is required")
	}
	return nil
}

// ToJSON implements [Event].
func (e *CustomEvent) ToJSON() ([]byte, error) {
	return sonic.ConfigFastest.Marshal(e)
}
