// Copyright 2025 The Go A2A Authors
// SPDX-License-Identifier: Apache-2.0

package session

import (
	"strings"
)

// StateKeyPendingToolCalls is the session state key holding the IDs of
// client tool calls that were announced to the client but have not received
// a result yet. A session with pending tool calls is waiting on a human or
// frontend action and must not be expired by the cleanup loop.
const StateKeyPendingToolCalls = "pending_tool_calls"

// Key builds the registry key for a session. Session IDs are scoped by
// application name so that two applications can use the same thread ID
// without colliding.
func Key(appName, sessionID string) string {
	return appName + ":" + sessionID
}

// SplitKey splits a registry key produced by [Key] back into its application
// name and session ID. Session IDs may contain ':' themselves; only the first
// separator belongs to the key.
func SplitKey(key string) (appName, sessionID string, ok bool) {
	return strings.Cut(key, ":")
}

// PendingToolCalls extracts the pending tool call IDs from a session state.
//
// The value is stored as a list of strings but can come back as []any after
// a serialization round trip, so both shapes are accepted. Entries that are
// not strings are dropped.
func PendingToolCalls(state map[string]any) []string {
	if state == nil {
		return nil
	}
	switch v := state[StateKeyPendingToolCalls].(type) {
	case []string:
		return v
	case []any:
		ids := make([]string, 0, len(v))
		for _, item := range v {
			if id, ok := item.(string); ok {
				ids = append(ids, id)
			}
		}
		return ids
	default:
		return nil
	}
}
