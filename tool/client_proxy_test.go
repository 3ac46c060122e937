// Copyright 2025 The Go A2A Authors
// SPDX-License-Identifier: Apache-2.0

package tool_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/bytedance/sonic"
	"github.com/google/go-cmp/cmp"

	"github.com/go-a2a/adk-agui/agui"
	"github.com/go-a2a/adk-agui/pkg/py"
	"github.com/go-a2a/adk-agui/tool"
)

// chanEmitter queues emitted events for inspection.
func chanEmitter(events chan agui.Event) tool.Emitter {
	return func(ctx context.Context, event agui.Event) error {
		select {
		case events <- event:
			return nil
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

func TestClientProxyToolAnnouncesCall(t *testing.T) {
	t.Parallel()

	declared := agui.Tool{
		Name:        "confirm_changes",
		Description: "Ask the user to confirm pending changes",
		Parameters: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"summary": map[string]any{"type": "string"},
			},
		},
	}
	events := make(chan agui.Event, 3)
	proxy := tool.NewClientProxyTool(declared, chanEmitter(events), 0)

	if !proxy.IsLongRunning() {
		t.Fatal("proxy tool must report long running")
	}
	decl := proxy.GetDeclaration()
	if decl == nil || decl.Name != "confirm_changes" || decl.Parameters == nil {
		t.Fatalf("declaration = %+v, want confirm_changes with parameters", decl)
	}

	ctx, cancel := context.WithCancel(t.Context())
	result := make(chan error, 1)
	go func() {
		got, err := proxy.Run(ctx, map[string]any{"summary": "drop table"})
		if got != nil {
			err = errors.Join(err, errors.New("proxy run returned a value"))
		}
		result <- err
	}()

	start := (<-events).(*agui.ToolCallStartEvent)
	if start.ToolCallName != "confirm_changes" || start.ToolCallID == "" {
		t.Errorf("start = %+v, want named call with generated ID", start)
	}

	args := (<-events).(*agui.ToolCallArgsEvent)
	if args.ToolCallID != start.ToolCallID {
		t.Errorf("args call ID = %q, want %q", args.ToolCallID, start.ToolCallID)
	}
	var decoded map[string]any
	if err := sonic.ConfigFastest.Unmarshal([]byte(args.Delta), &decoded); err != nil {
		t.Fatalf("args delta is not JSON: %v", err)
	}
	if diff := cmp.Diff(map[string]any{"summary": "drop table"}, decoded); diff != "" {
		t.Errorf("args mismatch (-want +got):\n%s", diff)
	}

	end := (<-events).(*agui.ToolCallEndEvent)
	if end.ToolCallID != start.ToolCallID {
		t.Errorf("end call ID = %q, want %q", end.ToolCallID, start.ToolCallID)
	}

	// The stub stays suspended until the run is cancelled.
	select {
	case err := <-result:
		t.Fatalf("proxy run returned before cancellation: %v", err)
	case <-time.After(20 * time.Millisecond):
	}
	cancel()
	if err := <-result; !errors.Is(err, context.Canceled) {
		t.Fatalf("proxy run error = %v, want context.Canceled", err)
	}
}

func TestClientProxyToolTimeout(t *testing.T) {
	t.Parallel()

	events := make(chan agui.Event, 3)
	proxy := tool.NewClientProxyTool(agui.Tool{Name: "slow_tool"}, chanEmitter(events), 10*time.Millisecond)

	got, err := proxy.Run(t.Context(), nil)
	if got != nil {
		t.Errorf("result = %v, want nil", got)
	}
	if err == nil || !strings.Contains(err.Error(), "no client result") {
		t.Fatalf("error = %v, want suspension budget error", err)
	}
}

func TestClientProxyToolEmitFailure(t *testing.T) {
	t.Parallel()

	emitErr := errors.New("stream closed")
	emit := func(ctx context.Context, event agui.Event) error { return emitErr }
	proxy := tool.NewClientProxyTool(agui.Tool{Name: "broken"}, emit, 0)

	if _, err := proxy.Run(t.Context(), nil); !errors.Is(err, emitErr) {
		t.Fatalf("error = %v, want wrapped emit failure", err)
	}
}

func TestClientProxyToolsetFiltering(t *testing.T) {
	t.Parallel()

	declared := []agui.Tool{
		{Name: "get_weather", Description: "frontend weather"},
		{Name: "search_docs"},
		{Name: "transfer_to_agent"},
		{Name: "confirm_changes"},
	}
	emit := func(ctx context.Context, event agui.Event) error { return nil }

	toolset := tool.NewClientProxyToolset(declared, emit,
		tool.WithExcludedTools(py.NewSet("search_docs")),
	)
	tools, err := toolset.GetTools(t.Context())
	if err != nil {
		t.Fatal(err)
	}

	var names []string
	for _, tl := range tools {
		names = append(names, tl.Name())
		if !tl.IsLongRunning() {
			t.Errorf("tool %s is not long running", tl.Name())
		}
	}
	if want := []string{"get_weather", "confirm_changes"}; !cmp.Equal(want, names) {
		t.Errorf("proxied tools = %v, want %v", names, want)
	}

	if err := toolset.Close(); err != nil {
		t.Errorf("close: %v", err)
	}
}
