// Copyright 2025 The Go A2A Authors
// SPDX-License-Identifier: Apache-2.0

// Package tool provides the tool surface the bridge hands to agent runtimes.
//
// # Client Proxy Tools
//
// Tools declared in a run request belong to the frontend: the runtime can
// request them, but only the client can execute them. ClientProxyTool wraps
// one declared tool as a runtime-callable stub. When the runtime invokes it,
// the stub announces the call on the run's event stream as a
// TOOL_CALL_START / TOOL_CALL_ARGS / TOOL_CALL_END sequence and then
// suspends until the context is cancelled. The stub never fabricates a
// result; the real result arrives from the client as a tool message in a
// follow-up run request.
//
//	toolset := tool.NewClientProxyToolset(input.Tools, emit,
//		tool.WithExcludedTools(backendNames),
//		tool.WithToolTimeout(5*time.Minute),
//	)
//	tools, err := toolset.GetTools(ctx)
//
// Every proxy tool reports IsLongRunning() == true so runtimes that honor
// the long-running contract finish the turn instead of waiting for a
// synchronous result.
//
// # Backend Tools
//
// FunctionTool wraps an ordinary Go function as a tool for runtimes that
// dispatch tool calls themselves:
//
//	func getWeather(ctx context.Context, args map[string]any) (any, error) {
//		return map[string]any{"forecast": "sunny"}, nil
//	}
//
//	weather := tool.NewFunctionTool(getWeather,
//		tool.WithName("get_weather"),
//		tool.WithDescription("Get the current weather for a location"),
//	)
//
// NewLongRunningFunctionTool marks such a function as long-running, which
// tells the runtime to treat the returned value as an interim status rather
// than a final result.
//
// # Parameter Schemas
//
// Declared tool parameters arrive as decoded JSON Schema documents.
// SchemaFromJSON converts them into the *genai.Schema shape that function
// declarations require, degrading unknown constructs to permissive schemas
// instead of failing the whole declaration.
package tool
