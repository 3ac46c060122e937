// Copyright 2025 The Go A2A Authors
// SPDX-License-Identifier: Apache-2.0

package types_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/go-a2a/adk-agui/types"
)

func TestStateStagedReads(t *testing.T) {
	t.Parallel()

	state := types.NewState(
		map[string]any{"mode": "base", "keep": 1},
		map[string]any{"mode": "staged"},
	)

	if got, ok := state.Get("mode"); !ok || got != "staged" {
		t.Errorf("Get(mode) = (%v, %t), want (staged, true)", got, ok)
	}
	if got, ok := state.Get("keep"); !ok || got != 1 {
		t.Errorf("Get(keep) = (%v, %t), want (1, true)", got, ok)
	}
	if got := state.GetWithDefault("missing", "fallback"); got != "fallback" {
		t.Errorf("GetWithDefault(missing) = %v, want fallback", got)
	}
	if !state.Has("mode") || state.Has("missing") {
		t.Error("Has() disagrees with Get()")
	}

	want := map[string]any{"mode": "staged", "keep": 1}
	if diff := cmp.Diff(want, state.ToMap()); diff != "" {
		t.Errorf("ToMap() mismatch (-want +got):\n%s", diff)
	}
}

func TestStateCommitActions(t *testing.T) {
	t.Parallel()

	state := types.NewState(map[string]any{"turns": 1}, nil)

	if actions := state.CommitActions(); actions != nil {
		t.Fatalf("CommitActions() with nothing staged = %v, want nil", actions)
	}

	state.Set("turns", 2)
	state.Update(map[string]any{"status": "active"})
	if !state.HasDelta() {
		t.Fatal("HasDelta() = false after Set and Update")
	}

	actions := state.CommitActions()
	if actions == nil {
		t.Fatal("CommitActions() = nil, want staged delta")
	}
	want := map[string]any{"turns": 2, "status": "active"}
	if diff := cmp.Diff(want, actions.StateDelta); diff != "" {
		t.Errorf("CommitActions().StateDelta mismatch (-want +got):\n%s", diff)
	}

	if state.HasDelta() {
		t.Error("HasDelta() = true after commit")
	}
	if got, ok := state.Get("turns"); !ok || got != 2 {
		t.Errorf("Get(turns) after commit = (%v, %t), want (2, true)", got, ok)
	}
	if again := state.CommitActions(); again != nil {
		t.Errorf("second CommitActions() = %v, want nil", again)
	}
}

func TestStateDeltaLifecycle(t *testing.T) {
	t.Parallel()

	state := types.NewState(nil, nil)
	state.Set("a", 1)
	state.Set("b", 2)

	delta := state.GetDelta()
	delta["a"] = 99
	if got, _ := state.Get("a"); got != 1 {
		t.Errorf("GetDelta() returned a live reference; Get(a) = %v, want 1", got)
	}

	state.ApplyDelta()
	if state.HasDelta() {
		t.Error("HasDelta() = true after ApplyDelta")
	}
	if got, ok := state.Get("b"); !ok || got != 2 {
		t.Errorf("Get(b) after ApplyDelta = (%v, %t), want (2, true)", got, ok)
	}

	state.Set("c", 3)
	state.ClearDelta()
	if state.HasDelta() {
		t.Error("HasDelta() = true after ClearDelta")
	}

	state.Delete("b")
	if state.Has("b") {
		t.Error("Has(b) = true after Delete")
	}
}

func TestStatePrefixHelpers(t *testing.T) {
	t.Parallel()

	state := types.NewState(nil, nil)
	state.SetApp("version", "1.2.0")
	state.SetUser("theme", "dark")
	state.SetTemp("scratch", 42)

	if got, ok := state.GetApp("version"); !ok || got != "1.2.0" {
		t.Errorf("GetApp(version) = (%v, %t), want (1.2.0, true)", got, ok)
	}
	if got, ok := state.GetUser("theme"); !ok || got != "dark" {
		t.Errorf("GetUser(theme) = (%v, %t), want (dark, true)", got, ok)
	}
	if got, ok := state.GetTemp("scratch"); !ok || got != 42 {
		t.Errorf("GetTemp(scratch) = (%v, %t), want (42, true)", got, ok)
	}

	// The helpers write plain prefixed keys, the shape the session services
	// route into their storage scopes.
	for _, key := range []string{
		types.AppPrefix + "version",
		types.UserPrefix + "theme",
		types.TempPrefix + "scratch",
	} {
		if !state.Has(key) {
			t.Errorf("Has(%q) = false, want true", key)
		}
	}
}
