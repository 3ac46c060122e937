// Copyright 2025 The Go A2A Authors
// SPDX-License-Identifier: Apache-2.0

package tool

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"google.golang.org/genai"

	"github.com/go-a2a/adk-agui/agui"
	"github.com/go-a2a/adk-agui/aguiconv"
	"github.com/go-a2a/adk-agui/types"
)

// Emitter delivers a protocol event onto the active run's event stream. It
// blocks until the event is queued and returns an error when the stream is no
// longer accepting events.
type Emitter func(ctx context.Context, event agui.Event) error

// ClientProxyTool wraps one frontend-declared tool as a runtime-callable
// stub.
//
// Invoking the stub announces the tool call on the event stream and then
// suspends: the client executes the tool and submits the result as a tool
// message in a follow-up run request, so the stub itself never produces a
// value. Proxy tools always report IsLongRunning() == true, which lets
// runtimes that honor the long-running contract finish the turn instead of
// waiting.
type ClientProxyTool struct {
	*Tool

	emit        Emitter
	declaration *genai.FunctionDeclaration
	timeout     time.Duration
}

var _ types.Tool = (*ClientProxyTool)(nil)

// NewClientProxyTool returns a proxy stub for the declared tool t emitting
// through emit.
//
// timeout bounds how long an invocation may stay suspended before it fails;
// a non-positive timeout suspends until the run context is cancelled.
func NewClientProxyTool(t agui.Tool, emit Emitter, timeout time.Duration) *ClientProxyTool {
	return &ClientProxyTool{
		Tool: NewTool(t.Name, t.Description, true),
		emit: emit,
		declaration: &genai.FunctionDeclaration{
			Name:        t.Name,
			Description: t.Description,
			Parameters:  SchemaFromJSON(t.Parameters),
		},
		timeout: timeout,
	}
}

// GetDeclaration implements [types.Tool].
func (t *ClientProxyTool) GetDeclaration() *genai.FunctionDeclaration {
	return t.declaration
}

// Run implements [types.Tool].
//
// It emits TOOL_CALL_START, TOOL_CALL_ARGS and TOOL_CALL_END for the
// invocation and then blocks. The returned error is ctx.Err() once the run
// is cancelled, or a timeout error when the configured suspension budget is
// exhausted first.
func (t *ClientProxyTool) Run(ctx context.Context, args map[string]any) (any, error) {
	toolCallID := uuid.NewString()

	if err := t.emit(ctx, agui.NewToolCallStartEvent(toolCallID, t.Name())); err != nil {
		return nil, fmt.Errorf("announce tool call %q: %w", t.Name(), err)
	}
	if err := t.emit(ctx, agui.NewToolCallArgsEvent(toolCallID, aguiconv.MarshalArgs(args))); err != nil {
		return nil, fmt.Errorf("announce tool call %q args: %w", t.Name(), err)
	}
	if err := t.emit(ctx, agui.NewToolCallEndEvent(toolCallID)); err != nil {
		return nil, fmt.Errorf("announce tool call %q end: %w", t.Name(), err)
	}

	// The client owns execution from here. The result arrives as a tool
	// message in a separate run request, so the invocation only ends by
	// cancellation or by exhausting the suspension budget.
	if t.timeout > 0 {
		timer := time.NewTimer(t.timeout)
		defer timer.Stop()

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-timer.C:
			return nil, fmt.Errorf("tool %q: no client result within %s", t.Name(), t.timeout)
		}
	}

	<-ctx.Done()
	return nil, ctx.Err()
}
