// Copyright 2025 The Go A2A Authors
// SPDX-License-Identifier: Apache-2.0

package types

import (
	"context"
	"slices"
)

// InstructionProvider produces the system instruction for an agent turn.
//
// Providers are invoked once per execution, so they may assemble the
// instruction from per-request context.
type InstructionProvider func(ctx context.Context) (string, error)

// StaticInstruction returns an [InstructionProvider] that always returns the
// given instruction.
func StaticInstruction(instruction string) InstructionProvider {
	return func(ctx context.Context) (string, error) {
		return instruction, nil
	}
}

// Agent describes the agent handed to a [Runner].
//
// The bridge treats the agent as data: it clones the agent per execution to
// layer client-provided system instructions and frontend tool stubs on top
// without mutating the configured original.
type Agent struct {
	// Name is the agent's name.
	//
	// Agent name must be an identifier and unique within the agent tree.
	// Agent name cannot be "user", since it's reserved for end-user's input.
	Name string

	// Description is the description about the agent's capability.
	//
	// The model uses this to determine whether to delegate control to the agent.
	// One-line description is enough and preferred.
	Description string

	// Model is the model name the runner should use for this agent.
	Model string

	// Instruction produces the system instruction for the agent.
	Instruction InstructionProvider

	// Tools is the backend tool surface of the agent.
	Tools []Tool
}

// Clone returns a copy of the agent with its own tool slice.
//
// The tools themselves are shared; only the slice is copied so callers can
// append without mutating the original.
func (a *Agent) Clone() *Agent {
	clone := *a
	clone.Tools = slices.Clone(a.Tools)
	return &clone
}

// WithInstruction returns a copy of the agent with the instruction replaced.
func (a *Agent) WithInstruction(provider InstructionProvider) *Agent {
	clone := a.Clone()
	clone.Instruction = provider
	return clone
}

// WithTools returns a copy of the agent with the given tools appended.
func (a *Agent) WithTools(tools ...Tool) *Agent {
	clone := a.Clone()
	clone.Tools = append(clone.Tools, tools...)
	return clone
}
