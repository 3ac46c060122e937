// Copyright 2025 The Go A2A Authors
// SPDX-License-Identifier: Apache-2.0

package aguiconv

import (
	"errors"
	"fmt"
	"strings"

	"github.com/bytedance/sonic"
	"github.com/go-json-experiment/json"
	"github.com/go-json-experiment/json/jsontext"
	"github.com/google/uuid"
	"google.golang.org/genai"

	"github.com/go-a2a/adk-agui/agui"
	"github.com/go-a2a/adk-agui/internal/pool"
	"github.com/go-a2a/adk-agui/internal/xmaps"
	"github.com/go-a2a/adk-agui/types"
)

// unknownToolName is reported for tool results whose call ID matches no tool
// call in the conversation history.
const unknownToolName = "unknown"

// LatestUserMessage returns the newest user message with content converted to
// runner input, or nil when the history holds no usable user message.
func LatestUserMessage(messages []agui.Message) *genai.Content {
	for i := len(messages) - 1; i >= 0; i-- {
		msg := &messages[i]
		if msg.Role == agui.RoleUser && msg.HasContent() {
			return genai.NewContentFromText(msg.ContentString(), genai.RoleUser)
		}
	}
	return nil
}

// ToolResult is one frontend tool result extracted from the conversation
// history.
type ToolResult struct {
	// MessageID is the ID of the tool message that carried the result.
	MessageID string

	// ToolCallID is the ID of the tool call the result answers.
	ToolCallID string

	// ToolName is the function name of the answered call, or "unknown" when
	// the call is not present in the history.
	ToolName string

	// Content is the raw result payload as submitted by the client.
	Content string
}

// ExtractToolResults collects the tool results present in candidates.
//
// Tool names are resolved against the tool calls recorded anywhere in all,
// since the call and its result usually arrive in different runs.
func ExtractToolResults(all, candidates []agui.Message) []ToolResult {
	callNames := make(map[string]string)
	for i := range all {
		for _, tc := range all[i].ToolCalls {
			callNames[tc.ID] = tc.Function.Name
		}
	}

	var results []ToolResult
	for i := range candidates {
		msg := &candidates[i]
		if !msg.IsToolResult() {
			continue
		}
		name, ok := callNames[msg.ToolCallID]
		if !ok {
			name = unknownToolName
		}
		results = append(results, ToolResult{
			MessageID:  msg.ID,
			ToolCallID: msg.ToolCallID,
			ToolName:   name,
			Content:    msg.ContentString(),
		})
	}
	return results
}

// ToolResultContent converts tool results into the function response content
// submitted to the runner. Returns nil when results is empty.
func ToolResultContent(results []ToolResult) *genai.Content {
	if len(results) == 0 {
		return nil
	}

	parts := make([]*genai.Part, 0, len(results))
	for _, r := range results {
		parts = append(parts, &genai.Part{
			FunctionResponse: &genai.FunctionResponse{
				ID:       r.ToolCallID,
				Name:     r.ToolName,
				Response: ToolResultPayload(r.Content),
			},
		})
	}
	return &genai.Content{
		Role:  "function",
		Parts: parts,
	}
}

// ToolResultPayload parses a raw tool result into a function response payload.
//
// Parsing never fails: an empty submission acknowledges success, invalid JSON
// becomes a structured error payload carrying the raw content, and valid
// non-object JSON is wrapped under a "result" key.
func ToolResultPayload(content string) map[string]any {
	if strings.TrimSpace(content) == "" {
		return map[string]any{
			"success": true,
			"result":  nil,
		}
	}

	var v any
	if err := json.Unmarshal([]byte(content), &v, json.DefaultOptionsV2()); err != nil {
		line, col := errorPosition(content, err)
		return map[string]any{
			"error":       fmt.Sprintf("Invalid JSON in tool result: %v", err),
			"raw_content": content,
			"error_type":  "JSON_DECODE_ERROR",
			"line":        line,
			"column":      col,
		}
	}

	if m, ok := v.(map[string]any); ok {
		return m
	}
	return map[string]any{"result": v}
}

// errorPosition derives the 1-based line and column of a JSON decode error.
func errorPosition(content string, err error) (line, col int) {
	var syn *jsontext.SyntacticError
	if !errors.As(err, &syn) {
		return 1, 1
	}

	offset := int(syn.ByteOffset)
	if offset > len(content) {
		offset = len(content)
	}
	prefix := content[:offset]
	line = 1 + strings.Count(prefix, "\n")
	col = offset - strings.LastIndex(prefix, "\n")
	return line, col
}

// ExtractText returns the concatenated text parts of content.
func ExtractText(content *genai.Content) string {
	if content == nil {
		return ""
	}

	sb := pool.String.Get()
	defer pool.String.Put(sb)
	for _, part := range content.Parts {
		if part != nil && part.Text != "" {
			sb.WriteString(part.Text)
		}
	}
	return sb.String()
}

// MarshalArgs serializes function call arguments for the wire. A nil or empty
// argument map serializes to "{}"; serialization failures degrade to "{}".
func MarshalArgs(args map[string]any) string {
	if len(args) == 0 {
		return "{}"
	}
	data, err := sonic.ConfigFastest.Marshal(args)
	if err != nil {
		return "{}"
	}
	return string(data)
}

// MessagesToEvents reshapes protocol history messages into runtime events,
// the inverse of [EventToMessages]. Runners can use it to seed a session
// transcript from the history a client carries.
//
// User and system messages become text content under their own role.
// Assistant messages become "model" content holding a text part and one
// function call part per tool call; arguments that fail to decode degrade to
// an empty argument map. Tool messages become "function" responses keyed by
// the answered call ID. A message with nothing to carry still produces its
// event, with nil content.
func MessagesToEvents(messages []agui.Message) []*types.Event {
	events := make([]*types.Event, 0, len(messages))
	for i := range messages {
		msg := &messages[i]
		event := types.NewEvent().WithAuthor(msg.Role)
		event.ID = msg.ID
		if content := messageContent(msg); content != nil {
			event.WithContent(content)
		}
		events = append(events, event)
	}
	return events
}

// messageContent builds the runtime content for one history message, or nil
// when the message carries neither text nor tool traffic.
func messageContent(msg *agui.Message) *genai.Content {
	switch msg.Role {
	case agui.RoleAssistant:
		var parts []*genai.Part
		if msg.HasContent() {
			parts = append(parts, genai.NewPartFromText(msg.ContentString()))
		}
		for _, tc := range msg.ToolCalls {
			args := make(map[string]any)
			if raw := tc.Function.Arguments; raw != "" {
				if err := sonic.ConfigFastest.Unmarshal([]byte(raw), &args); err != nil {
					args = make(map[string]any)
				}
			}
			parts = append(parts, &genai.Part{
				FunctionCall: &genai.FunctionCall{
					ID:   tc.ID,
					Name: tc.Function.Name,
					Args: args,
				},
			})
		}
		if len(parts) == 0 {
			return nil
		}
		return &genai.Content{Role: string(genai.RoleModel), Parts: parts}

	case agui.RoleTool:
		if msg.ToolCallID == "" {
			return nil
		}
		return &genai.Content{
			Role: "function",
			Parts: []*genai.Part{{
				FunctionResponse: &genai.FunctionResponse{
					ID:       msg.ToolCallID,
					Name:     msg.ToolCallID,
					Response: toolMessagePayload(msg.ContentString()),
				},
			}},
		}

	default:
		if !msg.HasContent() {
			return nil
		}
		return &genai.Content{
			Role:  msg.Role,
			Parts: []*genai.Part{genai.NewPartFromText(msg.ContentString())},
		}
	}
}

// toolMessagePayload shapes a history tool message's content as a function
// response payload: a JSON object passes through decoded, anything else is
// wrapped under a "result" key.
func toolMessagePayload(content string) map[string]any {
	var m map[string]any
	if err := sonic.ConfigFastest.Unmarshal([]byte(content), &m); err == nil && m != nil {
		return m
	}
	return map[string]any{"result": content}
}

// EventToMessages reshapes a runtime event into the protocol messages it
// represents, for history snapshots.
//
// A single event can expand to several messages: assistant text, an assistant
// message carrying tool calls, and one tool message per function response.
func EventToMessages(event *types.Event) []agui.Message {
	if event == nil || event.LLMResponse == nil || event.Content == nil {
		return nil
	}

	role := agui.RoleAssistant
	if event.Author == "user" {
		role = agui.RoleUser
	}

	var msgs []agui.Message

	if text := ExtractText(event.Content); text != "" {
		msgs = append(msgs, agui.Message{
			ID:      event.ID,
			Role:    role,
			Content: &text,
		})
	}

	if calls := event.GetFunctionCalls(); len(calls) > 0 {
		toolCalls := make([]agui.ToolCall, 0, len(calls))
		for _, call := range calls {
			id := call.ID
			if id == "" {
				id = uuid.NewString()
			}
			toolCalls = append(toolCalls, agui.ToolCall{
				ID:   id,
				Type: "function",
				Function: agui.FunctionCall{
					Name:      call.Name,
					Arguments: MarshalArgs(call.Args),
				},
			})
		}
		msgs = append(msgs, agui.Message{
			ID:        event.ID + "_tools",
			Role:      agui.RoleAssistant,
			ToolCalls: toolCalls,
		})
	}

	for _, resp := range event.GetFunctionResponses() {
		content := MarshalArgs(resp.Response)
		msgs = append(msgs, agui.Message{
			ID:         uuid.NewString(),
			Role:       agui.RoleTool,
			Content:    &content,
			ToolCallID: resp.ID,
		})
	}

	return msgs
}

// StateToJSONPatch converts a state delta into RFC 6902 patch operations
// against top-level document keys, in sorted key order.
//
// A nil value removes the key; any other value is written with "add", which
// upserts regardless of whether the key already exists.
func StateToJSONPatch(delta map[string]any) []agui.JSONPatchOperation {
	if len(delta) == 0 {
		return nil
	}

	ops := make([]agui.JSONPatchOperation, 0, len(delta))
	for _, key := range xmaps.SortedKeys(delta) {
		value := delta[key]
		if value == nil {
			ops = append(ops, agui.JSONPatchOperation{
				Op:   agui.OpRemove,
				Path: escapePointer(key),
			})
			continue
		}
		ops = append(ops, agui.JSONPatchOperation{
			Op:    agui.OpAdd,
			Path:  escapePointer(key),
			Value: value,
		})
	}
	return ops
}

// JSONPatchToState converts top-level patch operations back into a state
// delta. Removals become nil tombstones so downstream merges drop the key.
func JSONPatchToState(ops []agui.JSONPatchOperation) map[string]any {
	if len(ops) == 0 {
		return nil
	}

	delta := make(map[string]any, len(ops))
	for _, op := range ops {
		key := unescapePointer(op.Path)
		switch op.Op {
		case agui.OpAdd, agui.OpReplace:
			delta[key] = op.Value
		case agui.OpRemove:
			delta[key] = nil
		}
	}
	return delta
}

// escapePointer builds a JSON Pointer for a top-level key per RFC 6901.
func escapePointer(key string) string {
	key = strings.ReplaceAll(key, "~", "~0")
	key = strings.ReplaceAll(key, "/", "~1")
	return "/" + key
}

// unescapePointer reverses [escapePointer] for a top-level pointer.
func unescapePointer(path string) string {
	key := strings.TrimPrefix(path, "/")
	key = strings.ReplaceAll(key, "~1", "/")
	key = strings.ReplaceAll(key, "~0", "~")
	return key
}
