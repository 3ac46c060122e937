// Copyright 2025 The Go A2A Authors
// SPDX-License-Identifier: Apache-2.0

package types

import (
	"context"
)

// Toolset is a group of tools resolved together for a run.
//
// The bridge wraps the tools a client declared in its run request into one
// toolset and hands it to the [Runner] through [RunnerRequest], so the model
// sees exactly that request's toolbox.
type Toolset interface {
	// GetTools resolves the tools currently in the set.
	GetTools(ctx context.Context) ([]Tool, error)

	// Close releases whatever the toolset holds open, such as connections
	// a server-side toolset keeps to its backing service.
	Close() error
}
