// Copyright 2025 The Go A2A Authors
// SPDX-License-Identifier: Apache-2.0

package translator

import (
	"context"
	"log/slog"

	"github.com/google/uuid"
	"google.golang.org/genai"

	"github.com/go-a2a/adk-agui/agui"
	"github.com/go-a2a/adk-agui/aguiconv"
	"github.com/go-a2a/adk-agui/internal/pool"
	"github.com/go-a2a/adk-agui/internal/xmaps"
	"github.com/go-a2a/adk-agui/pkg/logging"
	"github.com/go-a2a/adk-agui/pkg/py"
	"github.com/go-a2a/adk-agui/types"
)

// MetadataEventName is the name of the [agui.CustomEvent] carrying runtime
// event metadata.
const MetadataEventName = "adk_metadata"

// Translator converts [types.Event] values emitted by a runner into the
// protocol events a client consumes.
//
// Not safe for concurrent use. Each run owns its Translator.
type Translator struct {
	// activeToolCalls tracks tool calls between their START and END events,
	// keyed by tool call ID.
	activeToolCalls map[string]string

	streamingMessageID string
	isStreaming        bool
	currentStreamText  string

	// lastStreamedText and lastStreamedRunID remember the text most recently
	// delivered through a chunked stream so the aggregated final event the
	// runner replays afterwards can be suppressed.
	lastStreamedText  string
	lastStreamedRunID string

	longRunningToolIDs py.Set[string]
}

// New creates a Translator with empty state.
func New() *Translator {
	return &Translator{
		activeToolCalls:    make(map[string]string),
		longRunningToolIDs: py.NewSet[string](),
	}
}

// LongRunningToolIDs returns the IDs of the long-running tool calls announced
// through [Translator.TranslateLRO] so far.
func (t *Translator) LongRunningToolIDs() py.Set[string] {
	return t.longRunningToolIDs
}

// Translate converts a single runtime event into zero or more protocol
// events, in delivery order.
//
// User-authored events are skipped: the client already has them. Long-running
// tool calls are skipped as well, [Translator.TranslateLRO] handles those.
func (t *Translator) Translate(ctx context.Context, event *types.Event, threadID, runID string) []agui.Event {
	if event == nil {
		return nil
	}
	logger := logging.FromContext(ctx)

	if event.Author == "user" {
		logger.Debug("skipping user-authored event", slog.String("event_id", event.ID))
		return nil
	}

	var out []agui.Event

	if event.LLMResponse != nil && event.Content != nil && len(event.Content.Parts) > 0 {
		out = append(out, t.translateTextContent(ctx, event, runID)...)
	}

	if calls := event.GetFunctionCalls(); len(calls) > 0 {
		nonLRO := make([]*genai.FunctionCall, 0, len(calls))
		for _, call := range calls {
			if !event.LongRunningToolIDs.Has(call.ID) {
				nonLRO = append(nonLRO, call)
			}
		}
		if len(nonLRO) > 0 {
			// TEXT_MESSAGE_END must precede TOOL_CALL_START on the wire.
			out = append(out, t.ForceCloseStreamingMessage(ctx)...)
			out = append(out, t.translateFunctionCalls(nonLRO)...)
		}
	}

	if responses := event.GetFunctionResponses(); len(responses) > 0 {
		out = append(out, t.translateFunctionResponses(ctx, responses)...)
	}

	if event.Actions != nil {
		if len(event.Actions.StateDelta) > 0 {
			out = append(out, stateDeltaEvent(event.Actions.StateDelta))
		}
		if event.Actions.StateSnapshot != nil {
			out = append(out, agui.NewStateSnapshotEvent(event.Actions.StateSnapshot))
		}
	}

	if event.LLMResponse != nil && len(event.CustomMetadata) > 0 {
		out = append(out, agui.NewCustomEvent(MetadataEventName, event.CustomMetadata))
	}

	return out
}

// translateTextContent maps the text carried by event onto the streamed text
// message lifecycle.
//
// Chunked runner output opens one message and appends a CONTENT event per
// chunk. The aggregated final response the runner emits afterwards only
// closes the message; if the stream was already closed, an identical final
// response within the same run is dropped as a duplicate. Text that never
// streamed is delivered as a complete START/CONTENT/END triple keyed by the
// runtime event ID.
func (t *Translator) translateTextContent(ctx context.Context, event *types.Event, runID string) []agui.Event {
	logger := logging.FromContext(ctx)

	// An empty final response is still a valid stream-closing signal.
	isFinal := event.IsFinalResponse()

	sb := pool.String.Get()
	defer pool.String.Put(sb)
	for _, part := range event.Content.Parts {
		if part.Text != "" {
			sb.WriteString(part.Text)
		}
	}
	text := sb.String()

	if text == "" && !isFinal {
		return nil
	}

	isPartial := event.IsPartial()
	turnComplete := event.TurnComplete
	hasFinishReason := event.FinishReason != ""
	shouldSendEnd := (turnComplete && !isPartial) ||
		(isFinal && !isPartial) ||
		(hasFinishReason && t.isStreaming)

	if isFinal {
		if t.isStreaming && t.streamingMessageID != "" {
			// The stream already carried this text chunk by chunk. Snapshot it
			// for duplicate detection and close the message.
			if t.currentStreamText != "" {
				t.lastStreamedText = t.currentStreamText
				t.lastStreamedRunID = runID
			}
			t.currentStreamText = ""

			end := agui.NewTextMessageEndEvent(t.streamingMessageID)
			t.streamingMessageID = ""
			t.isStreaming = false
			logger.Debug("closed active text stream on final response", slog.String("message_id", end.MessageID))
			return []agui.Event{end}
		}

		var out []agui.Event
		duplicate := t.lastStreamedRunID == runID &&
			t.lastStreamedText != "" &&
			text == t.lastStreamedText
		switch {
		case duplicate:
			logger.Debug("suppressing final response duplicating the finished stream",
				slog.String("event_id", event.ID),
				slog.String("run_id", runID),
			)
		case text != "":
			out = append(out,
				agui.NewTextMessageStartEvent(event.ID),
				agui.NewTextMessageContentEvent(event.ID, text),
				agui.NewTextMessageEndEvent(event.ID),
			)
		}

		// Text handling for this turn is over either way.
		t.currentStreamText = ""
		t.lastStreamedText = ""
		t.lastStreamedRunID = ""
		return out
	}

	var out []agui.Event
	if !t.isStreaming {
		t.streamingMessageID = uuid.NewString()
		t.isStreaming = true
		t.currentStreamText = ""
		out = append(out, agui.NewTextMessageStartEvent(t.streamingMessageID))
	}
	if text != "" {
		t.currentStreamText += text
		out = append(out, agui.NewTextMessageContentEvent(t.streamingMessageID, text))
	}
	if shouldSendEnd {
		out = append(out, agui.NewTextMessageEndEvent(t.streamingMessageID))
		if t.currentStreamText != "" {
			t.lastStreamedText = t.currentStreamText
			t.lastStreamedRunID = runID
		}
		t.currentStreamText = ""
		t.streamingMessageID = ""
		t.isStreaming = false
	}
	return out
}

// TranslateLRO announces the first long-running tool call carried by event.
//
// The call is remembered so that backend-produced results for it are not
// forwarded: the client owns the call until it submits a result of its own.
func (t *Translator) TranslateLRO(ctx context.Context, event *types.Event) []agui.Event {
	if event == nil || event.LLMResponse == nil || event.Content == nil || len(event.LongRunningToolIDs) == 0 {
		return nil
	}

	for _, part := range event.Content.Parts {
		call := part.FunctionCall
		if call == nil || !event.LongRunningToolIDs.Has(call.ID) {
			continue
		}

		t.longRunningToolIDs.Insert(call.ID)

		out := []agui.Event{
			agui.NewToolCallStartEvent(call.ID, call.Name),
			agui.NewToolCallArgsEvent(call.ID, aguiconv.MarshalArgs(call.Args)),
			agui.NewToolCallEndEvent(call.ID),
		}

		delete(t.activeToolCalls, call.ID)
		logging.FromContext(ctx).Debug("announced long-running tool call",
			slog.String("tool_call_id", call.ID),
			slog.String("tool_call_name", call.Name),
		)
		return out
	}

	return nil
}

func (t *Translator) translateFunctionCalls(calls []*genai.FunctionCall) []agui.Event {
	out := make([]agui.Event, 0, 3*len(calls))
	for _, call := range calls {
		id := call.ID
		if id == "" {
			id = uuid.NewString()
		}
		t.activeToolCalls[id] = call.Name

		out = append(out,
			agui.NewToolCallStartEvent(id, call.Name),
			agui.NewToolCallArgsEvent(id, aguiconv.MarshalArgs(call.Args)),
			agui.NewToolCallEndEvent(id),
		)

		delete(t.activeToolCalls, id)
	}
	return out
}

func (t *Translator) translateFunctionResponses(ctx context.Context, responses []*genai.FunctionResponse) []agui.Event {
	logger := logging.FromContext(ctx)

	var out []agui.Event
	for _, resp := range responses {
		id := resp.ID
		if id == "" {
			id = uuid.NewString()
		}
		// Long-running tool calls are resolved by the client, not the backend.
		if t.longRunningToolIDs.Has(id) {
			logger.Debug("skipping result for long-running tool call", slog.String("tool_call_id", id))
			continue
		}
		out = append(out, agui.NewToolCallResultEvent(uuid.NewString(), id, SerializeToolResponse(resp.Response)))
	}
	return out
}

// stateDeltaEvent renders a state delta as a JSON Patch, one "add" operation
// per key. "add" replaces existing paths, so it covers updates too; keys are
// sorted for a deterministic wire order.
func stateDeltaEvent(delta map[string]any) *agui.StateDeltaEvent {
	ops := make([]agui.JSONPatchOperation, 0, len(delta))
	for _, key := range xmaps.SortedKeys(delta) {
		ops = append(ops, agui.JSONPatchOperation{
			Op:    agui.OpAdd,
			Path:  "/" + key,
			Value: delta[key],
		})
	}
	return agui.NewStateDeltaEvent(ops)
}

// ForceCloseStreamingMessage closes the open text message stream, if any.
//
// Call it before tool call events and before finishing a run so the client
// never observes an unterminated message. The closed text is deliberately not
// recorded for duplicate suppression: a force-closed stream never completed,
// so a later final response carrying the full text must still be delivered.
func (t *Translator) ForceCloseStreamingMessage(ctx context.Context) []agui.Event {
	if !t.isStreaming || t.streamingMessageID == "" {
		return nil
	}

	logging.FromContext(ctx).Warn("force-closing unterminated text message",
		slog.String("message_id", t.streamingMessageID),
	)

	end := agui.NewTextMessageEndEvent(t.streamingMessageID)
	t.currentStreamText = ""
	t.streamingMessageID = ""
	t.isStreaming = false
	return []agui.Event{end}
}

// Reset clears all translator state, including the long-running tool call
// registry. Call it between runs that reuse the same Translator.
func (t *Translator) Reset() {
	clear(t.activeToolCalls)
	t.streamingMessageID = ""
	t.isStreaming = false
	t.currentStreamText = ""
	t.lastStreamedText = ""
	t.lastStreamedRunID = ""
	t.longRunningToolIDs.Clear()
}
