// Copyright 2025 The Go A2A Authors
// SPDX-License-Identifier: Apache-2.0

package adkagui

import (
	"context"
	"errors"
	"testing"

	"github.com/go-a2a/adk-agui/agui"
	"github.com/go-a2a/adk-agui/types"
)

func TestSystemInstruction(t *testing.T) {
	t.Parallel()

	content := func(s string) *string { return &s }

	tests := map[string]struct {
		messages []agui.Message
		want     string
	}{
		"LeadingSystemMessage": {
			messages: []agui.Message{
				{ID: "s1", Role: agui.RoleSystem, Content: content("be concise")},
				{ID: "u1", Role: agui.RoleUser, Content: content("hi")},
			},
			want: "be concise",
		},
		"NoMessages": {
			want: "",
		},
		"SystemMessageNotFirst": {
			messages: []agui.Message{
				{ID: "u1", Role: agui.RoleUser, Content: content("hi")},
				{ID: "s1", Role: agui.RoleSystem, Content: content("be concise")},
			},
			want: "",
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			input := &agui.RunAgentInput{ThreadID: "thread_1", RunID: "run_1", Messages: tt.messages}
			if got := systemInstruction(input); got != tt.want {
				t.Errorf("systemInstruction() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestSuffixInstruction(t *testing.T) {
	t.Parallel()
	ctx := t.Context()

	got, err := suffixInstruction(nil, "be concise")(ctx)
	if err != nil || got != "be concise" {
		t.Errorf("nil base = (%q, %v), want the suffix alone", got, err)
	}

	got, err = suffixInstruction(types.StaticInstruction("be helpful"), "be concise")(ctx)
	if err != nil || got != "be helpful\n\nbe concise" {
		t.Errorf("static base = (%q, %v), want base and suffix", got, err)
	}

	got, err = suffixInstruction(types.StaticInstruction(""), "be concise")(ctx)
	if err != nil || got != "be concise" {
		t.Errorf("empty base = (%q, %v), want the suffix alone", got, err)
	}

	wantErr := errors.New("provider broken")
	failing := func(ctx context.Context) (string, error) { return "", wantErr }
	if _, err := suffixInstruction(failing, "be concise")(ctx); !errors.Is(err, wantErr) {
		t.Errorf("failing base error = %v, want %v", err, wantErr)
	}
}
