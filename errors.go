// Copyright 2025 The Go A2A Authors
// SPDX-License-Identifier: Apache-2.0

package adkagui

// Error codes carried by RUN_ERROR events.
//
// Protocol errors are reported to the client as events on the run stream, not
// as Go errors: a run that fails still terminates with a well-formed frame.
const (
	// ErrorCodeNoToolResults reports a tool result submission whose messages
	// contained no usable tool results.
	ErrorCodeNoToolResults = "NO_TOOL_RESULTS"

	// ErrorCodeToolResultProcessing reports a tool result submission that
	// could not be processed, such as a tool message missing its tool call
	// ID.
	ErrorCodeToolResultProcessing = "TOOL_RESULT_PROCESSING_ERROR"

	// ErrorCodeExecutionTimeout reports an execution that exceeded the
	// configured execution timeout while the client was waiting for events.
	ErrorCodeExecutionTimeout = "EXECUTION_TIMEOUT"

	// ErrorCodeExecution reports a failure to start or finish an execution.
	ErrorCodeExecution = "EXECUTION_ERROR"

	// ErrorCodeBackgroundExecution reports a failure inside the background
	// producer, such as a runner error or panic.
	ErrorCodeBackgroundExecution = "BACKGROUND_EXECUTION_ERROR"
)
