// Copyright 2025 The Go A2A Authors
// SPDX-License-Identifier: Apache-2.0

package agui

import (
	"errors"
	"fmt"

	"github.com/bytedance/sonic"
)

// Message roles defined by the protocol.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
	RoleSystem    = "system"
	RoleTool      = "tool"
	RoleDeveloper = "developer"
)

// FunctionCall is the function invocation recorded inside a [ToolCall].
//
// Arguments is the JSON-encoded argument object, streamed by the backend as
// TOOL_CALL_ARGS deltas and echoed back by clients verbatim.
type FunctionCall struct {
	Name      string `json:"name"`
	Arguments string `json:"arguments"`
}

// ToolCall records one tool invocation requested by the assistant.
type ToolCall struct {
	ID       string       `json:"id"`
	Type     string       `json:"type"`
	Function FunctionCall `json:"function"`
}

// Message is one entry of the conversation history carried by
// [RunAgentInput].
type Message struct {
	ID         string     `json:"id"`
	Role       string     `json:"role"`
	Content    *string    `json:"content,omitempty"`
	Name       string     `json:"name,omitempty"`
	ToolCalls  []ToolCall `json:"toolCalls,omitempty"`
	ToolCallID string     `json:"toolCallId,omitempty"`
}

// ContentString returns the message content, or "" when content is absent.
func (m *Message) ContentString() string {
	if m.Content == nil {
		return ""
	}
	return *m.Content
}

// HasContent reports whether the message carries non-empty content.
func (m *Message) HasContent() bool {
	return m.Content != nil && *m.Content != ""
}

// IsToolResult reports whether the message submits the result of a tool call.
func (m *Message) IsToolResult() bool {
	return m.Role == RoleTool && m.ToolCallID != ""
}

// Tool describes a frontend tool offered to the agent for the duration of a
// run.
type Tool struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Parameters  any    `json:"parameters,omitempty"`
}

// Context is one piece of contextual information provided by the client.
type Context struct {
	Description string `json:"description,omitempty"`
	Value       string `json:"value"`
}

// RunAgentInput is the request that starts (or resumes) an agent run on a
// thread.
type RunAgentInput struct {
	// ThreadID identifies the conversation. All runs with the same ThreadID
	// share session state and history.
	ThreadID string `json:"threadId"`

	// RunID identifies this run within the thread.
	RunID string `json:"runId"`

	// State is the client's copy of the shared state document.
	State map[string]any `json:"state,omitempty"`

	// Messages is the full conversation history as the client knows it.
	Messages []Message `json:"messages,omitempty"`

	// Tools are frontend tools valid for this run only.
	Tools []Tool `json:"tools,omitempty"`

	// Context is additional contextual information for the agent.
	Context []Context `json:"context,omitempty"`

	// ForwardedProps carries application-defined properties the bridge passes
	// through untouched.
	ForwardedProps any `json:"forwardedProps,omitempty"`
}

// Validate checks the structural requirements of the input.
func (in *RunAgentInput) Validate() error {
	if in.ThreadID == "" {
		return errors.New("RunAgentInput: threadId is required")
	}
	if in.RunID == "" {
		return errors.New("RunAgentInput: runId is required")
	}
	for i, msg := range in.Messages {
		// A missing message ID is tolerated; such messages are simply never
		// recorded as processed and replay on every request that carries them.
		switch msg.Role {
		case RoleUser, RoleAssistant, RoleSystem, RoleTool, RoleDeveloper:
		default:
			return fmt.Errorf("RunAgentInput: messages[%d] has unknown role %q", i, msg.Role)
		}
	}
	return nil
}

// ParseRunAgentInput decodes a [RunAgentInput] from JSON and validates it.
func ParseRunAgentInput(data []byte) (*RunAgentInput, error) {
	var in RunAgentInput
	if err := sonic.ConfigFastest.Unmarshal(data, &in); err != nil {
		return nil, fmt.Errorf("decode run input: %w", err)
	}
	if err := in.Validate(); err != nil {
		return nil, err
	}
	return &in, nil
}
