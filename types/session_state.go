// Copyright 2025 The Go A2A Authors
// SPDX-License-Identifier: Apache-2.0

package types

import (
	"maps"
	"sync"
)

// State key prefixes. Session stores route prefixed keys to the matching
// scope on every write.
const (
	// AppPrefix marks keys shared across the whole app.
	AppPrefix = "app:"

	// UserPrefix marks keys shared across one user's sessions.
	UserPrefix = "user:"

	// TempPrefix marks keys that live for the current turn only and are
	// never persisted.
	TempPrefix = "temp:"
)

// State is a session state dictionary with staged, uncommitted changes.
//
// Runner implementations use it to accumulate the mutations of one turn on
// top of the stored session state: reads see the staged values immediately,
// while [State.CommitActions] turns the staged delta into the [EventActions]
// of the event that carries the mutation into the session store.
type State struct {
	mu sync.RWMutex

	// value is the committed base state.
	value map[string]any

	// delta holds the staged changes not yet committed through an event.
	delta map[string]any
}

// NewState creates a new State over the given base value and staged delta.
// Either map may be nil.
func NewState(value, delta map[string]any) *State {
	if value == nil {
		value = make(map[string]any)
	}
	if delta == nil {
		delta = make(map[string]any)
	}

	return &State{
		value: value,
		delta: delta,
	}
}

// Get returns the value for the given key. Staged values win over the base.
func (s *State) Get(key string) (any, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if val, ok := s.delta[key]; ok {
		return val, true
	}
	val, ok := s.value[key]
	return val, ok
}

// GetWithDefault returns the value for the given key, or the default value if
// the key doesn't exist.
func (s *State) GetWithDefault(key string, defaultVal any) any {
	if val, ok := s.Get(key); ok {
		return val
	}
	return defaultVal
}

// Set stages the value for the given key, updating both value and delta.
func (s *State) Set(key string, val any) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.value[key] = val
	s.delta[key] = val
}

// Delete removes the key from both value and delta.
func (s *State) Delete(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.value, key)
	delete(s.delta, key)
}

// Has reports whether the key exists in the base or the staged values.
func (s *State) Has(key string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	_, inValue := s.value[key]
	_, inDelta := s.delta[key]

	return inValue || inDelta
}

// HasDelta reports whether any changes are staged.
func (s *State) HasDelta() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.delta) > 0
}

// Update stages every entry of update, affecting both value and delta.
func (s *State) Update(update map[string]any) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for k, v := range update {
		s.value[k] = v
		s.delta[k] = v
	}
}

// ToMap returns a map representation of the state, with staged values taking
// precedence over base values.
func (s *State) ToMap() map[string]any {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make(map[string]any, len(s.value)+len(s.delta))
	maps.Copy(result, s.value)
	maps.Copy(result, s.delta)

	return result
}

// ClearDelta drops the staged changes without committing them.
func (s *State) ClearDelta() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.delta = make(map[string]any)
}

// GetDelta returns a copy of the staged changes.
func (s *State) GetDelta() map[string]any {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make(map[string]any, len(s.delta))
	maps.Copy(result, s.delta)

	return result
}

// ApplyDelta applies all staged changes to the base state and clears the delta.
func (s *State) ApplyDelta() {
	s.mu.Lock()
	defer s.mu.Unlock()

	maps.Copy(s.value, s.delta)

	s.delta = make(map[string]any)
}

// CommitActions returns the staged changes as [EventActions] and clears the
// delta. Attaching the result to the event appended for this turn is what
// persists the mutations: session stores apply Actions.StateDelta, they never
// see the State value itself.
//
// It returns nil when nothing is staged, so callers can attach the result
// unconditionally.
func (s *State) CommitActions() *EventActions {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.delta) == 0 {
		return nil
	}
	delta := make(map[string]any, len(s.delta))
	maps.Copy(delta, s.delta)
	s.delta = make(map[string]any)

	return NewEventActions().WithStateDelta(delta)
}

// GetApp retrieves a value with the app prefix.
func (s *State) GetApp(key string) (any, bool) {
	return s.Get(AppPrefix + key)
}

// SetApp sets a value with the app prefix.
func (s *State) SetApp(key string, val any) {
	s.Set(AppPrefix+key, val)
}

// GetUser retrieves a value with the user prefix.
func (s *State) GetUser(key string) (any, bool) {
	return s.Get(UserPrefix + key)
}

// SetUser sets a value with the user prefix.
func (s *State) SetUser(key string, val any) {
	s.Set(UserPrefix+key, val)
}

// GetTemp retrieves a value with the temp prefix.
func (s *State) GetTemp(key string) (any, bool) {
	return s.Get(TempPrefix + key)
}

// SetTemp sets a value with the temp prefix.
func (s *State) SetTemp(key string, val any) {
	s.Set(TempPrefix+key, val)
}
