// Copyright 2025 The Go A2A Authors
// SPDX-License-Identifier: Apache-2.0

// Package adkagui bridges frontends speaking the AG-UI protocol to agents
// built on an ADK-style runtime.
//
// The bridge accepts [agui.RunAgentInput] requests, replays only the unseen
// suffix of each thread's transcript into the runtime, and streams the
// runtime's events back as AG-UI protocol events: text message lifecycles,
// tool call announcements, and state synchronization. Frontend-declared tools
// are exposed to the agent as long-running client proxies, so a turn can
// suspend mid-run and resume when the client submits the tool result.
//
// [Agent] is the entry point; one Agent serves many concurrent threads.
package adkagui

// Version is the version of the AG-UI bridge.
var Version = "v0.0.0"
