// Copyright 2025 The Go A2A Authors
// SPDX-License-Identifier: Apache-2.0

// Package aguiconv provides bidirectional conversion between AG-UI protocol
// types and the agent-runtime event model.
//
// The package is the data-plumbing layer of the bridge: it turns client
// conversation history into runner input, tool result submissions into
// function responses, and runtime events back into protocol messages.
//
// # Input Conversions
//
// Client-to-runtime helpers extract runner input from a [agui.RunAgentInput]:
//
//	msg := aguiconv.LatestUserMessage(input.Messages)
//	results := aguiconv.ExtractToolResults(input.Messages, unseen)
//	content := aguiconv.ToolResultContent(results)
//
// Tool result payloads are parsed leniently: empty submissions and invalid
// JSON are converted to structured payloads instead of failing the run, so a
// malformed frontend tool never stalls a thread.
//
// # Output Conversions
//
// Runtime-to-client helpers reshape persisted events into protocol messages
// and translate state deltas into RFC 6902 patches:
//
//	msgs := aguiconv.EventToMessages(event)
//	patch := aguiconv.StateToJSONPatch(delta)
//
// All converters are nil-safe: nil input yields nil output.
package aguiconv
