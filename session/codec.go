// Copyright 2025 The Go A2A Authors
// SPDX-License-Identifier: Apache-2.0

package session

import (
	"fmt"
	"strings"
	"time"

	"github.com/bytedance/sonic"

	"github.com/go-a2a/adk-agui/types"
)

// storedSession is the wire form of a session record in persistent stores.
// Events live in their own append-only structure; the record carries only the
// session-scoped state and the update clock.
type storedSession struct {
	State          map[string]any `json:"state"`
	LastUpdateTime time.Time      `json:"lastUpdateTime"`
}

func encodeStoredSession(blob storedSession) ([]byte, error) {
	raw, err := sonic.ConfigFastest.Marshal(blob)
	if err != nil {
		return nil, fmt.Errorf("encode session record: %w", err)
	}
	return raw, nil
}

func decodeStoredSession(raw []byte) (storedSession, error) {
	var blob storedSession
	if err := sonic.ConfigFastest.Unmarshal(raw, &blob); err != nil {
		return storedSession{}, fmt.Errorf("decode session record: %w", err)
	}
	if blob.State == nil {
		blob.State = make(map[string]any)
	}
	return blob, nil
}

func sonicMarshalState(state map[string]any) ([]byte, error) {
	if state == nil {
		state = map[string]any{}
	}
	raw, err := sonic.ConfigFastest.Marshal(state)
	if err != nil {
		return nil, fmt.Errorf("encode state: %w", err)
	}
	return raw, nil
}

func sonicUnmarshalState(raw []byte) (map[string]any, error) {
	state := make(map[string]any)
	if len(raw) == 0 {
		return state, nil
	}
	if err := sonic.ConfigFastest.Unmarshal(raw, &state); err != nil {
		return nil, fmt.Errorf("decode state: %w", err)
	}
	return state, nil
}

func encodeEvent(event *types.Event) ([]byte, error) {
	raw, err := sonic.ConfigFastest.Marshal(event)
	if err != nil {
		return nil, fmt.Errorf("encode event %s: %w", event.ID, err)
	}
	return raw, nil
}

func decodeEvent(raw []byte) (*types.Event, error) {
	event := new(types.Event)
	if err := sonic.ConfigFastest.Unmarshal(raw, event); err != nil {
		return nil, fmt.Errorf("decode event: %w", err)
	}
	// The embedded response stays nil when none of its fields were stored;
	// allocate it so readers can dereference without checking.
	if event.LLMResponse == nil {
		event.LLMResponse = new(types.LLMResponse)
	}
	return event, nil
}

// splitStateScopes partitions a flat prefixed state map into the three
// storage scopes. "temp:" keys are dropped; the prefixes are stripped from
// the shared scopes. Nil values survive the split, so the result of routing
// a delta keeps its delete markers.
func splitStateScopes(state map[string]any) (appState, userState, sessionState map[string]any) {
	appState = make(map[string]any)
	userState = make(map[string]any)
	sessionState = make(map[string]any)
	for key, value := range state {
		switch {
		case strings.HasPrefix(key, types.AppPrefix):
			appState[strings.TrimPrefix(key, types.AppPrefix)] = value
		case strings.HasPrefix(key, types.UserPrefix):
			userState[strings.TrimPrefix(key, types.UserPrefix)] = value
		case strings.HasPrefix(key, types.TempPrefix):
			// Never persisted.
		default:
			sessionState[key] = value
		}
	}
	return appState, userState, sessionState
}

// mergeStateScopes overlays the shared scopes onto a copy of the session
// state, re-attaching the scope prefixes.
func mergeStateScopes(sessionState, appState, userState map[string]any) map[string]any {
	merged := make(map[string]any, len(sessionState)+len(appState)+len(userState))
	for key, value := range sessionState {
		merged[key] = value
	}
	for key, value := range appState {
		merged[types.AppPrefix+key] = value
	}
	for key, value := range userState {
		merged[types.UserPrefix+key] = value
	}
	return merged
}
