// Copyright 2025 The Go A2A Authors
// SPDX-License-Identifier: Apache-2.0

package types

import (
	"context"
	"iter"

	"google.golang.org/genai"
)

// Runner executes agent turns against the configured services.
//
// A Runner is the agent-runtime side of the bridge. The bridge constructs one
// runner per execution through a [RunnerFactory], streams the events it
// yields, and closes it when the turn ends.
type Runner interface {
	// Run executes one agent turn and streams the resulting events.
	//
	// newMessage is the content that triggered the turn: the latest user
	// message, or a role "function" message carrying submitted tool results.
	// It is nil when the request carried no usable input.
	Run(ctx context.Context, userID, sessionID string, newMessage *genai.Content, config *RunConfig) iter.Seq2[*Event, error]

	// Close releases resources held by the runner.
	Close(ctx context.Context) error
}

// RunnerRequest carries everything a [RunnerFactory] needs to build a runner
// for one execution.
type RunnerRequest struct {
	// AppName is the application name of the runner.
	AppName string

	// Agent is the agent to run, already decorated with per-request
	// instructions and frontend tool stubs.
	Agent *Agent

	// SessionService manages the sessions the runner appends events to.
	//
	// This is always the same service the bridge tracks sessions with, so
	// runner-side appends and bridge-side reads observe the same store.
	SessionService SessionService

	// ArtifactService stores artifacts produced during the turn. Optional.
	ArtifactService ArtifactService

	// MemoryService provides long-term recall. Optional.
	MemoryService MemoryService

	// CredentialService provides tool credentials. Optional.
	CredentialService CredentialService
}

// RunnerFactory builds a [Runner] for one execution.
type RunnerFactory func(ctx context.Context, req *RunnerRequest) (Runner, error)
