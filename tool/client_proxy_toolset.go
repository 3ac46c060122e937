// Copyright 2025 The Go A2A Authors
// SPDX-License-Identifier: Apache-2.0

package tool

import (
	"context"
	"slices"
	"time"

	"github.com/go-a2a/adk-agui/agui"
	"github.com/go-a2a/adk-agui/pkg/py"
	"github.com/go-a2a/adk-agui/types"
)

// agentTransferToolName is reserved by agent runtimes for handing a
// conversation off to another agent. A frontend tool with this name is never
// proxied.
const agentTransferToolName = "transfer_to_agent"

// ToolsetOption configures a [ClientProxyToolset].
type ToolsetOption func(*toolsetConfig)

type toolsetConfig struct {
	excluded py.Set[string]
	timeout  time.Duration
}

// WithExcludedTools drops declared tools whose names appear in names,
// typically the names of backend tools. When a tool is defined on both
// sides, the runtime uses only the backend one.
func WithExcludedTools(names py.Set[string]) ToolsetOption {
	return func(c *toolsetConfig) {
		c.excluded = names
	}
}

// WithToolTimeout bounds how long each proxied invocation may stay suspended
// waiting for the client. A non-positive timeout suspends until the run
// context is cancelled.
func WithToolTimeout(timeout time.Duration) ToolsetOption {
	return func(c *toolsetConfig) {
		c.timeout = timeout
	}
}

// ClientProxyToolset materializes the tools declared in a run request as
// [ClientProxyTool] stubs sharing one event stream.
type ClientProxyToolset struct {
	tools []types.Tool
}

var _ types.Toolset = (*ClientProxyToolset)(nil)

// NewClientProxyToolset builds proxy stubs for the declared tools, skipping
// excluded names and the reserved agent-transfer tool.
func NewClientProxyToolset(tools []agui.Tool, emit Emitter, opts ...ToolsetOption) *ClientProxyToolset {
	config := &toolsetConfig{}
	for _, opt := range opts {
		opt(config)
	}

	proxied := make([]types.Tool, 0, len(tools))
	for _, t := range tools {
		if t.Name == agentTransferToolName || config.excluded.Has(t.Name) {
			continue
		}
		proxied = append(proxied, NewClientProxyTool(t, emit, config.timeout))
	}

	return &ClientProxyToolset{tools: proxied}
}

// GetTools implements [types.Toolset].
func (ts *ClientProxyToolset) GetTools(ctx context.Context) ([]types.Tool, error) {
	return slices.Clone(ts.tools), nil
}

// Close implements [types.Toolset]. Proxy stubs hold no resources.
func (ts *ClientProxyToolset) Close() error {
	return nil
}
