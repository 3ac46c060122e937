// Copyright 2025 The Go A2A Authors
// SPDX-License-Identifier: Apache-2.0

package tool

import (
	"context"
	"maps"
	"reflect"
	"runtime"
	"strings"

	"google.golang.org/genai"

	"github.com/go-a2a/adk-agui/types"
)

// Function represents a user-defined function that can be called with a context.
type Function func(ctx context.Context, args map[string]any) (any, error)

// FunctionOption configures the declaration of a [FunctionTool].
type FunctionOption func(*functionConfig)

// functionConfig holds configuration for building function declarations.
type functionConfig struct {
	name        string
	description string
	parameters  *genai.Schema
}

// WithName sets a custom name for the function declaration.
func WithName(name string) FunctionOption {
	return func(c *functionConfig) {
		c.name = name
	}
}

// WithDescription sets a description for the function declaration.
func WithDescription(description string) FunctionOption {
	return func(c *functionConfig) {
		c.description = description
	}
}

// WithParameters sets the parameter schema for the function declaration.
// Functions whose declaration carries no schema take no arguments.
func WithParameters(parameters *genai.Schema) FunctionOption {
	return func(c *functionConfig) {
		c.parameters = parameters
	}
}

// FunctionTool represents a tool that wraps a user-defined function.
type FunctionTool struct {
	*Tool

	fn          Function
	declaration *genai.FunctionDeclaration
}

var _ types.Tool = (*FunctionTool)(nil)

// NewFunctionTool returns the new FunctionTool wrapping fn.
//
// The tool name defaults to the name of fn and can be overridden with
// [WithName].
func NewFunctionTool(fn Function, opts ...FunctionOption) *FunctionTool {
	config := &functionConfig{
		name: functionName(fn),
	}
	for _, opt := range opts {
		opt(config)
	}

	return &FunctionTool{
		Tool: NewTool(config.name, config.description, false),
		fn:   fn,
		declaration: &genai.FunctionDeclaration{
			Name:        config.name,
			Description: config.description,
			Parameters:  config.parameters,
		},
	}
}

// GetDeclaration implements [types.Tool].
func (t *FunctionTool) GetDeclaration() *genai.FunctionDeclaration {
	return t.declaration
}

// Run implements [types.Tool].
func (t *FunctionTool) Run(ctx context.Context, args map[string]any) (any, error) {
	argsToCall := maps.Clone(args)

	return t.fn(ctx, argsToCall)
}

// functionName reports the short name of fn.
func functionName(fn Function) string {
	funcName := runtime.FuncForPC(reflect.ValueOf(fn).Pointer()).Name()
	if idx := strings.LastIndex(funcName, "."); idx > -1 {
		funcName = funcName[idx+1:]
	}
	return funcName
}
