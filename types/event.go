// Copyright 2025 The Go A2A Authors
// SPDX-License-Identifier: Apache-2.0

package types

import (
	rand "math/rand/v2"
	"time"
	"unsafe"

	"google.golang.org/genai"

	"github.com/go-a2a/adk-agui/pkg/py"
)

// Event is one entry of the runtime transcript: a model response, a tool
// interaction, or a state mutation, as appended to a session. The embedded
// [LLMResponse] carries the model-facing half; the fields here say who
// produced it and what it did to the session.
type Event struct {
	*LLMResponse

	// InvocationID groups every event produced by one runner invocation.
	InvocationID string

	// Author is who appended the event: "user", the producing agent's
	// name, or "system" for synthetic state updates. The translator skips
	// user-authored events since the client already has them.
	Author string

	// Actions is what the event does to the session beyond its content:
	// state deltas and snapshots, artifact versions, control flags.
	Actions *EventActions

	// LongRunningToolIDs holds the IDs of function calls the runtime will
	// not resolve itself. The bridge announces such calls to the client
	// and leaves their results open. Only set on function call events.
	LongRunningToolIDs py.Set[string]

	// Branch scopes the event in a multi-agent tree, formatted
	// agent_1.agent_2.agent_3 from root to leaf, so sibling agents do not
	// see each other's history. The bridge stores it untouched.
	Branch string

	// ID is the unique identifier of the event, assigned at construction.
	ID string

	// Timestamp is when the event was produced. Stores stamp it on append
	// when the runtime left it zero.
	Timestamp time.Time
}

// NewEvent creates a new event with a unique ID and timestamp.
func NewEvent() *Event {
	ev := &Event{
		ID:        NewEventID(),
		Timestamp: time.Now(),
	}
	return ev
}

// WithLLMResponse sets the LLMResponse for the event.
func (e *Event) WithLLMResponse(response *LLMResponse) *Event {
	e.LLMResponse = response
	return e
}

// WithContent sets the content of the event's LLMResponse.
func (e *Event) WithContent(content *genai.Content) *Event {
	if e.LLMResponse == nil {
		e.LLMResponse = new(LLMResponse)
	}
	e.LLMResponse.Content = content
	return e
}

// WithInvocationID sets the invocation ID of the event.
func (e *Event) WithInvocationID(id string) *Event {
	e.InvocationID = id
	return e
}

// WithAuthor sets the author of the event.
func (e *Event) WithAuthor(author string) *Event {
	e.Author = author
	return e
}

// WithActions sets the actions of the event.
func (e *Event) WithActions(actions *EventActions) *Event {
	e.Actions = actions
	return e
}

// WithLongRunningToolIDs sets the long running tool IDs of the event.
func (e *Event) WithLongRunningToolIDs(ids ...string) *Event {
	if e.LongRunningToolIDs == nil {
		e.LongRunningToolIDs = py.NewSet[string]()
	}
	e.LongRunningToolIDs.Insert(ids...)
	return e
}

// WithBranch sets the branch of the event.
func (e *Event) WithBranch(branch string) *Event {
	e.Branch = branch
	return e
}

// IsFinalResponse reports whether the event closes the runtime's turn:
// either it explicitly defers to the client (skip-summarization, long
// running calls) or it carries no tool traffic, is not a partial chunk,
// and does not end in code-execution output awaiting a follow-up.
func (e *Event) IsFinalResponse() bool {
	if e.Actions != nil && e.Actions.SkipSummarization || len(e.LongRunningToolIDs) > 0 {
		return true
	}

	return len(e.GetFunctionCalls()) == 0 && len(e.GetFunctionResponses()) == 0 &&
		!e.IsPartial() && !e.HasTrailingCodeExecutionResult()
}

// IsPartial reports whether the event carries an unfinished chunk of a text stream.
func (e *Event) IsPartial() bool {
	return e.LLMResponse != nil && e.LLMResponse.Partial
}

// HasTrailingCodeExecutionResult reports whether the event's last content
// part is a code execution result, which means the runtime still owes the
// model a follow-up turn.
func (e *Event) HasTrailingCodeExecutionResult() bool {
	if e.LLMResponse == nil || e.Content == nil || len(e.Content.Parts) == 0 {
		return false
	}
	return e.Content.Parts[len(e.Content.Parts)-1].CodeExecutionResult != nil
}

// GetFunctionCalls returns the function calls in the event.
func (e *Event) GetFunctionCalls() []*genai.FunctionCall {
	var funcCalls []*genai.FunctionCall

	if e.LLMResponse != nil && e.Content != nil && len(e.Content.Parts) > 0 {
		for _, part := range e.Content.Parts {
			if part.FunctionCall != nil {
				funcCalls = append(funcCalls, part.FunctionCall)
			}
		}
	}

	return funcCalls
}

// GetFunctionResponses returns the function responses in the event.
func (e *Event) GetFunctionResponses() []*genai.FunctionResponse {
	var funcResponse []*genai.FunctionResponse

	if e.LLMResponse != nil && e.Content != nil && len(e.Content.Parts) > 0 {
		for _, part := range e.Content.Parts {
			if part.FunctionResponse != nil {
				funcResponse = append(funcResponse, part.FunctionResponse)
			}
		}
	}

	return funcResponse
}

const (
	letterBytes   = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	letterIdxBits = 6                    // 6 bits to represent a letter index
	letterIdxMask = 1<<letterIdxBits - 1 // All 1-bits, as many as letterIdxBits
	letterIdxMax  = 63 / letterIdxBits   // # of letter indices fitting in 63 bits
)

// NewEventID returns a random 8 character alphanumeric event ID.
func NewEventID() string {
	b := make([]byte, 8)
	for i, cache, remain := 8-1, rand.Int64(), letterIdxMax; i >= 0; {
		if remain == 0 {
			cache = rand.Int64()
			remain = letterIdxMax
		}
		if idx := int(cache & letterIdxMask); idx < len(letterBytes) {
			b[i] = letterBytes[idx]
			i--
		}
		cache >>= letterIdxBits
		remain--
	}

	return *(*string)(unsafe.Pointer(&b))
}
