// Copyright 2025 The Go A2A Authors
// SPDX-License-Identifier: Apache-2.0

package tool

import (
	"context"
	"errors"

	"google.golang.org/genai"

	"github.com/go-a2a/adk-agui/types"
)

// Tool carries the identity every tool in this package shares. Concrete
// tools embed it and override [Tool.GetDeclaration] and [Tool.Run];
// [FunctionTool] and [ClientProxyTool] both build on it.
type Tool struct {
	name        string
	description string

	// isLongRunning marks operations that return a handle first and
	// complete out of band. The translator announces such calls once and
	// leaves their results to the client.
	isLongRunning bool
}

var _ types.Tool = (*Tool)(nil)

// NewTool returns a tool base with the given identity.
func NewTool(name, description string, isLongRunning bool) *Tool {
	return &Tool{
		name:          name,
		description:   description,
		isLongRunning: isLongRunning,
	}
}

// Name implements [types.Tool].
func (t *Tool) Name() string {
	return t.name
}

// Description implements [types.Tool].
func (t *Tool) Description() string {
	return t.description
}

// IsLongRunning implements [types.Tool].
func (t *Tool) IsLongRunning() bool {
	return t.isLongRunning
}

// SetLongRunning marks the tool as a long running operation.
func (t *Tool) SetLongRunning(longRunning bool) {
	t.isLongRunning = longRunning
}

// GetDeclaration implements [types.Tool]. The base declares nothing;
// embedders expose their schema here.
func (t *Tool) GetDeclaration() *genai.FunctionDeclaration {
	return nil
}

// Run implements [types.Tool].
func (t *Tool) Run(ctx context.Context, args map[string]any) (any, error) {
	return nil, errors.New("not implemented")
}
