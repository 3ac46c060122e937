// Copyright 2025 The Go A2A Authors
// SPDX-License-Identifier: Apache-2.0

package types

import (
	"google.golang.org/genai"
)

// LLMResponse is the model-facing half of a runtime [Event]: the content a
// model call produced plus the flags that tell the translator where the
// stream stands.
type LLMResponse struct {
	// Content carries the response parts: text chunks, function calls,
	// function responses.
	Content *genai.Content

	// Partial marks text that is one chunk of an unfinished stream rather
	// than a complete response. Stores skip partial events when persisting.
	Partial bool

	// TurnComplete reports that the turn's response is complete. Only
	// meaningful in streaming mode.
	TurnComplete bool

	// FinishReason is why the model stopped generating tokens, set on the
	// closing response of a stream.
	FinishReason genai.FinishReason

	// ErrorCode identifies a failed model call in the runtime's own
	// vocabulary; ErrorMessage carries the human-readable description.
	ErrorCode string

	// ErrorMessage is the error message if the response is an error.
	ErrorMessage string

	// Interrupted records that generation was cut short, typically by the
	// user during a bidirectional stream.
	Interrupted bool

	// CustomMetadata labels the response. The translator forwards it to the
	// client as a custom event, so the entire map must be JSON serializable.
	CustomMetadata map[string]any
}

// WithContent sets the content and returns the response.
func (r *LLMResponse) WithContent(content *genai.Content) *LLMResponse {
	r.Content = content
	return r
}

// WithPartial sets the partial flag and returns the response.
func (r *LLMResponse) WithPartial(partial bool) *LLMResponse {
	r.Partial = partial
	return r
}

// WithTurnComplete sets the turn complete flag and returns the response.
func (r *LLMResponse) WithTurnComplete(complete bool) *LLMResponse {
	r.TurnComplete = complete
	return r
}
