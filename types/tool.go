// Copyright 2025 The Go A2A Authors
// SPDX-License-Identifier: Apache-2.0

package types

import (
	"context"

	"google.golang.org/genai"
)

// Tool is one callable capability a run can expose to the model.
//
// The bridge itself ships only proxy tools: stubs standing in for functions
// the client declared in its run request, which announce their invocation on
// the event stream and leave execution to the client. A [Runner] may add its
// own server-side tools alongside them; both kinds satisfy this interface.
type Tool interface {
	// Name identifies the tool. Function call events carry it back to
	// whoever executes the call.
	Name() string

	// Description tells the model what the tool does and when to call it.
	Description() string

	// IsLongRunning reports whether the tool resolves out of band instead
	// of returning a value from Run. Calls to such tools are announced on
	// the stream and left open for the client to finish.
	IsLongRunning() bool

	// GetDeclaration returns the schema the model sees for this tool, or
	// nil when the tool contributes no declaration.
	GetDeclaration() *genai.FunctionDeclaration

	// Run executes the tool with the arguments the model chose.
	Run(ctx context.Context, args map[string]any) (any, error)
}
