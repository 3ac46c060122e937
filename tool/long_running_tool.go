// Copyright 2025 The Go A2A Authors
// SPDX-License-Identifier: Apache-2.0

package tool

// LongRunningFunctionTool represents a function tool that returns the result asynchronously.
//
// This tool is used for long-running operations that may take a significant
// amount of time to complete. The framework calls the function once, treats
// the returned value as an interim status, and finishes the turn; the final
// response is delivered asynchronously under the same function call ID.
type LongRunningFunctionTool struct {
	*FunctionTool
}

// NewLongRunningFunctionTool returns the new [LongRunningFunctionTool] with the given function.
func NewLongRunningFunctionTool(fn Function, opts ...FunctionOption) *LongRunningFunctionTool {
	t := &LongRunningFunctionTool{
		FunctionTool: NewFunctionTool(fn, opts...),
	}
	t.FunctionTool.Tool.SetLongRunning(true)
	return t
}
