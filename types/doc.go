// Copyright 2025 The Go A2A Authors
// SPDX-License-Identifier: Apache-2.0

// Package types provides core interfaces and contracts for the AG-UI bridge.
//
// The types package defines the agent-runtime side of the bridge: the event
// and session model produced by Agent Development Kit (ADK) style runners,
// and the service abstractions the bridge composes.
//
// # Core Interfaces
//
//   - Runner: executes one agent turn and streams [Event] values back
//   - SessionService: conversation and state persistence
//   - ArtifactService: storage and retrieval of agent-generated content
//   - MemoryService: long-term conversation recall
//   - CredentialService: per-user tool credential storage
//   - Tool/Toolset: tool surface handed to the runner
//
// # Event Model
//
// An [Event] is one item in a conversation between agents and users. Events
// carry model output through the embedded [LLMResponse], plus the actions the
// agent took ([EventActions]) such as state deltas and artifact writes.
// Events stream out of a [Runner] as an iter.Seq2 sequence:
//
//	for event, err := range runner.Run(ctx, userID, sessionID, msg, cfg) {
//		if err != nil {
//			return err
//		}
//		handle(event)
//	}
//
// The bridge package translates these events into the client-facing AG-UI
// protocol.
package types
