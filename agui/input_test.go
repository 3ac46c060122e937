// Copyright 2025 The Go A2A Authors
// SPDX-License-Identifier: Apache-2.0

package agui_test

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/go-a2a/adk-agui/agui"
)

func TestParseRunAgentInput(t *testing.T) {
	t.Parallel()

	data := []byte(`{
		"threadId": "thread_1",
		"runId": "run_1",
		"state": {"counter": 1},
		"messages": [
			{"id": "msg_1", "role": "user", "content": "hello"},
			{
				"id": "msg_2",
				"role": "assistant",
				"toolCalls": [
					{"id": "call_1", "type": "function", "function": {"name": "confirm", "arguments": "{}"}}
				]
			},
			{"id": "msg_3", "role": "tool", "toolCallId": "call_1", "content": "approved"}
		],
		"tools": [{"name": "confirm", "description": "ask the user", "parameters": {"type": "object"}}],
		"context": [{"description": "locale", "value": "ja-JP"}]
	}`)

	in, err := agui.ParseRunAgentInput(data)
	if err != nil {
		t.Fatalf("ParseRunAgentInput() error = %v", err)
	}

	if in.ThreadID != "thread_1" || in.RunID != "run_1" {
		t.Errorf("ids = (%q, %q), want (thread_1, run_1)", in.ThreadID, in.RunID)
	}
	if diff := cmp.Diff(map[string]any{"counter": float64(1)}, in.State); diff != "" {
		t.Errorf("state mismatch (-want +got):\n%s", diff)
	}
	if len(in.Messages) != 3 {
		t.Fatalf("len(messages) = %d, want 3", len(in.Messages))
	}
	if got := in.Messages[0].ContentString(); got != "hello" {
		t.Errorf("messages[0].ContentString() = %q, want hello", got)
	}
	if in.Messages[1].IsToolResult() {
		t.Errorf("messages[1].IsToolResult() = true, want false")
	}
	if !in.Messages[2].IsToolResult() {
		t.Errorf("messages[2].IsToolResult() = false, want true")
	}
	if got := in.Messages[1].ToolCalls[0].Function.Name; got != "confirm" {
		t.Errorf("toolCalls[0].Function.Name = %q, want confirm", got)
	}
	if len(in.Tools) != 1 || in.Tools[0].Name != "confirm" {
		t.Errorf("tools = %+v, want single confirm tool", in.Tools)
	}
}

func TestRunAgentInputValidate(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		input   *agui.RunAgentInput
		wantErr string
	}{
		"MissingThreadID": {
			input:   &agui.RunAgentInput{RunID: "run_1"},
			wantErr: "threadId",
		},
		"MissingRunID": {
			input:   &agui.RunAgentInput{ThreadID: "thread_1"},
			wantErr: "runId",
		},
		"MessageUnknownRole": {
			input: &agui.RunAgentInput{
				ThreadID: "thread_1",
				RunID:    "run_1",
				Messages: []agui.Message{{ID: "msg_1", Role: "robot"}},
			},
			wantErr: "unknown role",
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			err := tt.input.Validate()
			if err == nil {
				t.Fatalf("Validate() = nil, want error containing %q", tt.wantErr)
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Validate() = %q, want error containing %q", err, tt.wantErr)
			}
		})
	}
}

func TestRunAgentInputValidateAllowsMessagesWithoutID(t *testing.T) {
	t.Parallel()

	in := &agui.RunAgentInput{
		ThreadID: "thread_1",
		RunID:    "run_1",
		Messages: []agui.Message{{Role: agui.RoleUser}},
	}
	if err := in.Validate(); err != nil {
		t.Errorf("Validate() = %v, want nil (message IDs are optional)", err)
	}
}

func TestMessageHasContent(t *testing.T) {
	t.Parallel()

	empty := ""
	hello := "hello"

	tests := map[string]struct {
		msg  agui.Message
		want bool
	}{
		"NilContent":   {agui.Message{ID: "m", Role: agui.RoleUser}, false},
		"EmptyContent": {agui.Message{ID: "m", Role: agui.RoleUser, Content: &empty}, false},
		"WithContent":  {agui.Message{ID: "m", Role: agui.RoleUser, Content: &hello}, true},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			if got := tt.msg.HasContent(); got != tt.want {
				t.Errorf("HasContent() = %t, want %t", got, tt.want)
			}
		})
	}
}
