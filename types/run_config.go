// Copyright 2025 The Go A2A Authors
// SPDX-License-Identifier: Apache-2.0

package types

import (
	"google.golang.org/genai"
)

// DefaultMaxLLMCalls caps the model calls of a single run. It guards against
// runaway agent loops.
const DefaultMaxLLMCalls = 500

// StreamingMode selects how a [Runner] delivers model output.
type StreamingMode int

const (
	// StreamingModeNone yields complete events only.
	StreamingModeNone StreamingMode = iota

	// StreamingModeSSE yields partial events as the model produces them.
	// The translator turns the partial chunks into text message deltas, so
	// this is the mode the bridge configures by default.
	StreamingModeSSE

	// StreamingModeBidi streams both directions over a live connection.
	StreamingModeBidi
)

// String returns the mode's name.
func (mode StreamingMode) String() string {
	switch mode {
	case StreamingModeNone:
		return "None"
	case StreamingModeSSE:
		return "sse"
	case StreamingModeBidi:
		return "bidi"
	}
	return ""
}

// RunConfig carries the runtime knobs a handler hands the [Runner] for one
// run. The bridge builds it per request through its configured provider.
type RunConfig struct {
	// StreamingMode selects buffered or streamed model output.
	StreamingMode StreamingMode

	// ResponseModalities asks the model for the given output kinds.
	// Unset means text.
	ResponseModalities []genai.Modality

	// SaveInputBlobsAsArtifacts stores binary parts of the incoming
	// message through the artifact service before the run starts.
	SaveInputBlobsAsArtifacts bool

	// MaxLLMCalls bounds the total model calls the runner may make while
	// serving the run.
	MaxLLMCalls int
}

// NewRunConfig returns a [RunConfig] with SSE streaming, input blob
// archiving and the default call limit.
func NewRunConfig() *RunConfig {
	return &RunConfig{
		StreamingMode:             StreamingModeSSE,
		SaveInputBlobsAsArtifacts: true,
		MaxLLMCalls:               DefaultMaxLLMCalls,
	}
}
