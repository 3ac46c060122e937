// Copyright 2025 The Go A2A Authors
// SPDX-License-Identifier: Apache-2.0

package adkagui

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"google.golang.org/genai"

	"github.com/go-a2a/adk-agui/agui"
	"github.com/go-a2a/adk-agui/aguiconv"
	"github.com/go-a2a/adk-agui/pkg/logging"
	"github.com/go-a2a/adk-agui/pkg/py"
	"github.com/go-a2a/adk-agui/tool"
	"github.com/go-a2a/adk-agui/translator"
	"github.com/go-a2a/adk-agui/types"
)

// runInBackground is the producer goroutine of one execution. It owns the
// event queue: when the producer returns the queue is closed, which is the
// end-of-stream signal for the drain loop.
//
// Failures never escape: they are reported to the client as a RUN_ERROR event
// on the queue. Cancellation is silent, the consumer already left.
func (a *Agent) runInBackground(ctx context.Context, exec *execution, input *agui.RunAgentInput, appName, userID string, toolResults []aguiconv.ToolResult, batch []agui.Message) {
	logger := logging.FromContext(ctx)

	defer exec.finish()
	defer func() {
		if r := recover(); r != nil {
			logger.ErrorContext(ctx, "background execution panic",
				slog.String("thread_id", input.ThreadID),
				slog.Any("panic", r),
			)
			exec.emit(ctx, agui.NewRunErrorEvent(
				fmt.Sprintf("background execution panic: %v", r),
				agui.WithErrorCode(ErrorCodeBackgroundExecution),
			))
		}
	}()

	if err := a.produce(ctx, exec, input, appName, userID, toolResults, batch); err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			logger.DebugContext(ctx, "background execution cancelled",
				slog.String("thread_id", input.ThreadID),
			)
			return
		}
		logger.ErrorContext(ctx, "background execution error",
			slog.String("thread_id", input.ThreadID),
			slog.Any("error", err),
		)
		exec.emit(ctx, agui.NewRunErrorEvent(err.Error(), agui.WithErrorCode(ErrorCodeBackgroundExecution)))
	}
}

// produce runs one agent turn against the runtime and emits the translated
// protocol events onto the execution queue.
func (a *Agent) produce(ctx context.Context, exec *execution, input *agui.RunAgentInput, appName, userID string, toolResults []aguiconv.ToolResult, batch []agui.Message) error {
	logger := logging.FromContext(ctx)

	agent, err := a.prepareAgent(ctx, exec, input)
	if err != nil {
		return err
	}

	runner, err := a.config.RunnerFactory(ctx, &types.RunnerRequest{
		AppName:           appName,
		Agent:             agent,
		SessionService:    a.sessions.Service(),
		ArtifactService:   a.artifacts,
		MemoryService:     a.memory,
		CredentialService: a.credentials,
	})
	if err != nil {
		return fmt.Errorf("create runner: %w", err)
	}
	defer func() {
		if err := runner.Close(ctx); err != nil {
			logger.WarnContext(ctx, "close runner",
				slog.String("thread_id", input.ThreadID),
				slog.Any("error", err),
			)
		}
	}()

	if _, err := a.sessions.GetOrCreate(ctx, appName, userID, input.ThreadID, input.State); err != nil {
		return err
	}

	// The client's state document wins: keys it carries overwrite whatever
	// the backend accumulated, so UI-side edits are never lost.
	a.sessions.UpdateState(ctx, appName, userID, input.ThreadID, input.State)

	unseen := batch
	if unseen == nil {
		unseen = a.unseenMessages(appName, input)
	}

	results := toolResults
	if results == nil && isToolResultSubmission(unseen) {
		results = aguiconv.ExtractToolResults(input.Messages, unseen)
	}

	if len(results) > 0 {
		ids := make([]string, 0, len(results))
		for _, r := range results {
			ids = append(ids, r.MessageID)
		}
		a.sessions.MarkMessagesProcessed(appName, input.ThreadID, ids...)
	} else if len(unseen) > 0 {
		ids := make([]string, 0, len(unseen))
		for i := range unseen {
			ids = append(ids, unseen[i].ID)
		}
		a.sessions.MarkMessagesProcessed(appName, input.ThreadID, ids...)
	}

	newMessage := aguiconv.ToolResultContent(results)
	if newMessage == nil {
		source := input.Messages
		if batch != nil {
			source = unseen
		}
		newMessage = aguiconv.LatestUserMessage(source)
	}

	tr := translator.New()
	runConfig := a.config.RunConfigProvider(input)

	for event, err := range runner.Run(ctx, userID, input.ThreadID, newMessage, runConfig) {
		if err != nil {
			return err
		}
		suspended, err := a.emitTranslated(ctx, exec, tr, input, event)
		if err != nil {
			return err
		}
		if suspended {
			// A long-running tool call went out; the turn resumes when the
			// client submits its result in a later request.
			return nil
		}
	}

	for _, ev := range tr.ForceCloseStreamingMessage(ctx) {
		if err := exec.emit(ctx, ev); err != nil {
			return err
		}
	}

	// The terminal snapshot trails the stream closure so clients never
	// receive state for a message that is still open.
	state := a.sessions.GetState(ctx, appName, userID, input.ThreadID)
	if state == nil {
		state = map[string]any{}
	}
	return exec.emit(ctx, agui.NewStateSnapshotEvent(state))
}

// emitTranslated routes one runtime event to the translator and queues the
// resulting protocol events. Long-running tool calls take the announce-only
// path: their START/ARGS/END go out, suspended reports true, and the turn
// stops there. Everything else streams through the regular translation.
func (a *Agent) emitTranslated(ctx context.Context, exec *execution, tr *translator.Translator, input *agui.RunAgentInput, event *types.Event) (suspended bool, err error) {
	hasContent := event.LLMResponse != nil && event.Content != nil && len(event.Content.Parts) > 0

	var partial, turnComplete bool
	var finishReason genai.FinishReason
	if event.LLMResponse != nil {
		partial = event.Partial
		turnComplete = event.TurnComplete
		finishReason = event.FinishReason
	}
	streamingChunk := partial || !turnComplete || !event.IsFinalResponse()

	hasLRO := false
	if event.LongRunningToolIDs.Len() > 0 {
		for _, call := range event.GetFunctionCalls() {
			if call.ID != "" && event.LongRunningToolIDs.Has(call.ID) {
				hasLRO = true
				break
			}
		}
	}

	if !hasLRO && (streamingChunk || (hasContent && finishReason == "")) {
		for _, ev := range tr.Translate(ctx, event, input.ThreadID, input.RunID) {
			if err := exec.emit(ctx, ev); err != nil {
				return false, err
			}
		}
		return false, nil
	}

	// TEXT_MESSAGE_END must reach the wire before the tool call opens.
	for _, ev := range tr.ForceCloseStreamingMessage(ctx) {
		if err := exec.emit(ctx, ev); err != nil {
			return false, err
		}
	}
	for _, ev := range tr.TranslateLRO(ctx, event) {
		if err := exec.emit(ctx, ev); err != nil {
			return false, err
		}
		if ev.Type() == agui.EventTypeToolCallEnd {
			suspended = true
		}
	}
	return suspended, nil
}

// prepareAgent derives the per-turn agent: the request's leading system
// message is appended to the configured instruction, and the frontend's
// declared tools are materialized as client proxy stubs emitting onto the
// execution queue.
//
// The configured agent is never mutated; a request without adjustments runs
// it as is.
func (a *Agent) prepareAgent(ctx context.Context, exec *execution, input *agui.RunAgentInput) (*types.Agent, error) {
	agent := a.agent

	if instruction := systemInstruction(input); instruction != "" {
		agent = agent.WithInstruction(suffixInstruction(agent.Instruction, instruction))
	}

	if len(input.Tools) > 0 {
		// A tool defined on both sides runs on the backend; the frontend
		// declaration is dropped.
		backend := py.NewSet[string]()
		for _, t := range agent.Tools {
			backend.Insert(t.Name())
		}
		toolset := tool.NewClientProxyToolset(input.Tools, exec.emit,
			tool.WithExcludedTools(backend),
			tool.WithToolTimeout(a.config.ToolTimeout),
		)
		proxies, err := toolset.GetTools(ctx)
		if err != nil {
			return nil, fmt.Errorf("materialize frontend tools: %w", err)
		}
		agent = agent.WithTools(proxies...)
	}

	return agent, nil
}

// isToolResultSubmission reports whether the newest unseen message is a tool
// result, meaning the request resumes a suspended turn rather than starting a
// new one.
func isToolResultSubmission(unseen []agui.Message) bool {
	if len(unseen) == 0 {
		return false
	}
	return unseen[len(unseen)-1].Role == agui.RoleTool
}
