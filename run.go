// Copyright 2025 The Go A2A Authors
// SPDX-License-Identifier: Apache-2.0

package adkagui

import (
	"context"
	"fmt"
	"iter"
	"log/slog"
	"slices"
	"time"

	"github.com/go-a2a/adk-agui/agui"
	"github.com/go-a2a/adk-agui/aguiconv"
	"github.com/go-a2a/adk-agui/internal/xiter"
	"github.com/go-a2a/adk-agui/pkg/logging"
)

// Run executes one protocol request and streams the resulting events.
//
// The unseen suffix of the request transcript is dispatched in order:
// consecutive tool result messages resume the thread's suspended turn,
// anything else starts a fresh turn. Each dispatched turn emits RUN_STARTED
// first and closes with exactly one of RUN_FINISHED or RUN_ERROR. A fully
// replayed transcript is acknowledged with an empty run instead of executing
// the same messages twice.
//
// The sequence yields a non-nil error only when the request fails validation
// before any event is produced; runtime failures surface as RUN_ERROR events.
func (a *Agent) Run(ctx context.Context, input *agui.RunAgentInput) iter.Seq2[agui.Event, error] {
	if err := input.Validate(); err != nil {
		return xiter.Error[agui.Event](err)
	}

	return func(yield func(agui.Event, error) bool) {
		appName := a.config.resolveAppName(input)
		userID := a.config.resolveUserID(input)

		unseen := a.unseenMessages(appName, input)
		if len(unseen) == 0 {
			// Everything in the transcript already ran. Acknowledge without
			// touching the runtime so replayed requests stay idempotent.
			if yield(agui.NewRunStartedEvent(input.ThreadID, input.RunID), nil) {
				yield(agui.NewRunFinishedEvent(input.ThreadID, input.RunID), nil)
			}
			return
		}

		skipToolBatch := false
		i := 0
		for i < len(unseen) {
			if unseen[i].Role == agui.RoleTool {
				start := i
				for i < len(unseen) && unseen[i].Role == agui.RoleTool {
					i++
				}
				if !a.runToolResults(ctx, input, appName, userID, unseen[start:i], !skipToolBatch, yield) {
					return
				}
				skipToolBatch = false
				continue
			}

			var batch []agui.Message
			var assistantIDs []string
			for i < len(unseen) && unseen[i].Role != agui.RoleTool {
				msg := unseen[i]
				if msg.Role == agui.RoleAssistant && msg.ID != "" {
					assistantIDs = append(assistantIDs, msg.ID)
				} else {
					batch = append(batch, msg)
				}
				i++
			}

			// Assistant messages are the agent's own output echoed back by
			// the client; record them as seen without executing them.
			if len(assistantIDs) > 0 {
				a.sessions.MarkMessagesProcessed(appName, input.ThreadID, assistantIDs...)
			}

			if len(batch) == 0 {
				// Tool results that follow re-sent assistant history resume
				// the turn from the session, not from the echoed batch.
				skipToolBatch = true
				continue
			}
			skipToolBatch = false

			if !a.startExecution(ctx, input, appName, userID, nil, batch, yield) {
				return
			}
		}
	}
}

// unseenMessages returns the suffix of the transcript that has not been
// executed yet. The walk runs newest to oldest and stops at the first message
// already recorded in the ledger; everything after it is new. Messages
// without an ID never enter the ledger, so they are always unseen.
func (a *Agent) unseenMessages(appName string, input *agui.RunAgentInput) []agui.Message {
	if len(input.Messages) == 0 {
		return nil
	}

	processed := a.sessions.ProcessedMessageIDs(appName, input.ThreadID)
	var unseen []agui.Message
	for i := len(input.Messages) - 1; i >= 0; i-- {
		if id := input.Messages[i].ID; id != "" && processed.Has(id) {
			break
		}
		unseen = append(unseen, input.Messages[i])
	}
	slices.Reverse(unseen)
	return unseen
}

// runToolResults resumes the thread's suspended turn with submitted tool
// results. When includeBatch is false the batch is not forwarded and the
// producer recomputes the unseen suffix from the ledger instead, skipping the
// assistant history the client echoed back alongside the results.
func (a *Agent) runToolResults(ctx context.Context, input *agui.RunAgentInput, appName, userID string, batch []agui.Message, includeBatch bool, yield func(agui.Event, error) bool) bool {
	logger := logging.FromContext(ctx)

	for i := range batch {
		if batch[i].ToolCallID == "" {
			logger.ErrorContext(ctx, "tool message without tool call ID",
				slog.String("thread_id", input.ThreadID),
				slog.String("message_id", batch[i].ID),
			)
			msg := fmt.Sprintf("Failed to process tool results: tool message %s has no tool call ID", batch[i].ID)
			return yield(agui.NewRunErrorEvent(msg, agui.WithErrorCode(ErrorCodeToolResultProcessing)), nil)
		}
	}

	results := aguiconv.ExtractToolResults(input.Messages, batch)
	if len(results) == 0 {
		logger.ErrorContext(ctx, "tool result submission without tool results",
			slog.String("thread_id", input.ThreadID),
		)
		return yield(agui.NewRunErrorEvent("No tool results found in submission", agui.WithErrorCode(ErrorCodeNoToolResults)), nil)
	}

	for _, result := range results {
		a.removePendingToolCall(ctx, input.ThreadID, result.ToolCallID)
	}

	logger.InfoContext(ctx, "resuming turn with tool results",
		slog.String("thread_id", input.ThreadID),
		slog.Int("results", len(results)),
	)

	if !includeBatch {
		batch = nil
	}
	return a.startExecution(ctx, input, appName, userID, results, batch, yield)
}

// startExecution runs one turn: it spawns the producer goroutine, drains its
// event queue to the consumer, then settles the turn's tool call bookkeeping.
// It reports false when the consumer stopped accepting events.
func (a *Agent) startExecution(ctx context.Context, input *agui.RunAgentInput, appName, userID string, toolResults []aguiconv.ToolResult, batch []agui.Message, yield func(agui.Event, error) bool) bool {
	if !yield(agui.NewRunStartedEvent(input.ThreadID, input.RunID), nil) {
		return false
	}

	// The producer outlives the request context: a client disconnect must
	// not abort a turn that is already writing to the session.
	prodCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	exec := newExecution(input.ThreadID, a.config.EventQueueSize, cancel)

	prior, err := a.registerExecution(ctx, exec)
	if err != nil {
		cancel()
		return yield(agui.NewRunErrorEvent(err.Error(), agui.WithErrorCode(ErrorCodeExecution)), nil)
	}

	if err := a.awaitExecution(ctx, prior); err != nil {
		exec.finish()
		a.releaseExecution(ctx, exec)
		return yield(agui.NewRunErrorEvent(err.Error(), agui.WithErrorCode(ErrorCodeExecution)), nil)
	}

	go a.runInBackground(prodCtx, exec, input, appName, userID, toolResults, batch)
	defer a.releaseExecution(ctx, exec)

	var (
		errored    bool
		pendingIDs []string
	)
	completed := a.streamEvents(ctx, exec, func(event agui.Event) bool {
		switch ev := event.(type) {
		case *agui.ToolCallEndEvent:
			pendingIDs = append(pendingIDs, ev.ToolCallID)
		case *agui.ToolCallResultEvent:
			// Backend tools answer their own calls in the same turn; only
			// unanswered calls stay pending for the client.
			pendingIDs = slices.DeleteFunc(pendingIDs, func(id string) bool { return id == ev.ToolCallID })
		case *agui.RunErrorEvent:
			errored = true
		}
		return yield(event, nil)
	})
	if !completed {
		return false
	}

	for _, id := range pendingIDs {
		a.addPendingToolCall(ctx, appName, userID, input.ThreadID, id)
	}

	if errored {
		// The error event already terminated this turn on the wire.
		return true
	}
	return yield(agui.NewRunFinishedEvent(input.ThreadID, input.RunID), nil)
}

// streamEvents drains the execution queue into forward until the producer
// closes it, checking staleness once per second. It reports false when the
// consumer stopped accepting events or ctx ended; the producer is cancelled
// in that case since nobody is left reading it.
func (a *Agent) streamEvents(ctx context.Context, exec *execution, forward func(agui.Event) bool) bool {
	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	for {
		select {
		case event, ok := <-exec.events:
			if !ok {
				return true
			}
			if !forward(event) {
				exec.cancel()
				return false
			}
		case <-ticker.C:
			if !exec.isStale(a.config.ExecutionTimeout) {
				continue
			}
			logging.FromContext(ctx).ErrorContext(ctx, "execution timed out",
				slog.String("thread_id", exec.threadID),
			)
			exec.cancel()
			return forward(agui.NewRunErrorEvent("Execution timed out", agui.WithErrorCode(ErrorCodeExecutionTimeout)))
		case <-ctx.Done():
			exec.cancel()
			return false
		}
	}
}
