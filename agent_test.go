// Copyright 2025 The Go A2A Authors
// SPDX-License-Identifier: Apache-2.0

package adkagui_test

import (
	"context"
	"errors"
	"iter"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"google.golang.org/genai"

	adkagui "github.com/go-a2a/adk-agui"
	"github.com/go-a2a/adk-agui/agui"
	"github.com/go-a2a/adk-agui/session"
	"github.com/go-a2a/adk-agui/types"
)

// fakeRuntime scripts the runner side of the bridge. Every execution consumes
// the next script in order and records what it was asked to run.
type fakeRuntime struct {
	mu         sync.Mutex
	scripts    [][]*types.Event
	runErr     error // yielded after the current script's events
	factoryErr error
	requests   []*types.RunnerRequest
	runs       []recordedRun
	closed     int
}

type recordedRun struct {
	userID     string
	sessionID  string
	newMessage *genai.Content
}

func (rt *fakeRuntime) factory() types.RunnerFactory {
	return func(ctx context.Context, req *types.RunnerRequest) (types.Runner, error) {
		rt.mu.Lock()
		defer rt.mu.Unlock()
		if rt.factoryErr != nil {
			return nil, rt.factoryErr
		}
		rt.requests = append(rt.requests, req)
		return &scriptedRunner{rt: rt}, nil
	}
}

type scriptedRunner struct {
	rt *fakeRuntime
}

func (r *scriptedRunner) Run(ctx context.Context, userID, sessionID string, newMessage *genai.Content, config *types.RunConfig) iter.Seq2[*types.Event, error] {
	r.rt.mu.Lock()
	var script []*types.Event
	if len(r.rt.scripts) > 0 {
		script = r.rt.scripts[0]
		r.rt.scripts = r.rt.scripts[1:]
	}
	r.rt.runs = append(r.rt.runs, recordedRun{userID: userID, sessionID: sessionID, newMessage: newMessage})
	runErr := r.rt.runErr
	r.rt.mu.Unlock()

	return func(yield func(*types.Event, error) bool) {
		for _, ev := range script {
			if !yield(ev, nil) {
				return
			}
		}
		if runErr != nil {
			yield(nil, runErr)
		}
	}
}

func (r *scriptedRunner) Close(ctx context.Context) error {
	r.rt.mu.Lock()
	defer r.rt.mu.Unlock()
	r.rt.closed++
	return nil
}

// blockingRunner never produces an event; it unblocks only when the run
// context is cancelled.
type blockingRunner struct{}

func (blockingRunner) Run(ctx context.Context, userID, sessionID string, newMessage *genai.Content, config *types.RunConfig) iter.Seq2[*types.Event, error] {
	return func(yield func(*types.Event, error) bool) {
		<-ctx.Done()
		yield(nil, ctx.Err())
	}
}

func (blockingRunner) Close(ctx context.Context) error { return nil }

// staticTool is a minimal backend tool.
type staticTool struct {
	name string
}

func (t staticTool) Name() string        { return t.name }
func (t staticTool) Description() string { return "backend " + t.name }
func (t staticTool) IsLongRunning() bool { return false }

func (t staticTool) GetDeclaration() *genai.FunctionDeclaration {
	return &genai.FunctionDeclaration{Name: t.name}
}

func (t staticTool) Run(ctx context.Context, args map[string]any) (any, error) {
	return nil, nil
}

func newTestAgent(t *testing.T, rt *fakeRuntime, opts ...func(*adkagui.Config)) *adkagui.Agent {
	t.Helper()

	cfg := adkagui.Config{
		Agent: &types.Agent{
			Name:        "test_agent",
			Instruction: types.StaticInstruction("be helpful"),
		},
		RunnerFactory:       rt.factory(),
		UseInMemoryServices: true,
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	agent, err := adkagui.New(t.Context(), cfg)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	t.Cleanup(func() {
		if err := agent.Close(context.Background()); err != nil {
			t.Errorf("Close() error = %v", err)
		}
	})
	return agent
}

func collectEvents(t *testing.T, seq iter.Seq2[agui.Event, error]) []agui.Event {
	t.Helper()

	var events []agui.Event
	for ev, err := range seq {
		if err != nil {
			t.Fatalf("Run() yielded error: %v", err)
		}
		events = append(events, ev)
	}
	return events
}

func eventTypes(events []agui.Event) []agui.EventType {
	out := make([]agui.EventType, 0, len(events))
	for _, ev := range events {
		out = append(out, ev.Type())
	}
	return out
}

func runInput(threadID, runID string, messages ...agui.Message) *agui.RunAgentInput {
	return &agui.RunAgentInput{ThreadID: threadID, RunID: runID, Messages: messages}
}

func userMessage(id, content string) agui.Message {
	return agui.Message{ID: id, Role: agui.RoleUser, Content: &content}
}

func systemMessage(id, content string) agui.Message {
	return agui.Message{ID: id, Role: agui.RoleSystem, Content: &content}
}

func assistantToolCall(id, toolCallID, name string) agui.Message {
	return agui.Message{
		ID:   id,
		Role: agui.RoleAssistant,
		ToolCalls: []agui.ToolCall{{
			ID:       toolCallID,
			Type:     "function",
			Function: agui.FunctionCall{Name: name, Arguments: "{}"},
		}},
	}
}

func toolMessage(id, toolCallID, content string) agui.Message {
	return agui.Message{ID: id, Role: agui.RoleTool, Content: &content, ToolCallID: toolCallID}
}

func textChunk(text string) *types.Event {
	ev := types.NewEvent().
		WithAuthor("test_agent").
		WithContent(genai.NewContentFromText(text, genai.RoleModel))
	ev.Partial = true
	return ev
}

func finalTurn(text string) *types.Event {
	ev := types.NewEvent().
		WithAuthor("test_agent").
		WithContent(genai.NewContentFromText(text, genai.RoleModel))
	ev.TurnComplete = true
	return ev
}

// clientCall is a runtime event announcing a long-running (client-executed)
// tool call.
func clientCall(toolCallID, name string, args map[string]any) *types.Event {
	return types.NewEvent().
		WithAuthor("test_agent").
		WithContent(&genai.Content{
			Role:  string(genai.RoleModel),
			Parts: []*genai.Part{{FunctionCall: &genai.FunctionCall{ID: toolCallID, Name: name, Args: args}}},
		}).
		WithLongRunningToolIDs(toolCallID)
}

func contentText(content *genai.Content) string {
	if content == nil {
		return ""
	}
	var sb strings.Builder
	for _, part := range content.Parts {
		sb.WriteString(part.Text)
	}
	return sb.String()
}

func TestRunPlainTextTurn(t *testing.T) {
	t.Parallel()

	rt := &fakeRuntime{scripts: [][]*types.Event{
		{textChunk("Hel"), textChunk("lo"), finalTurn("Hello")},
	}}
	agent := newTestAgent(t, rt)

	got := collectEvents(t, agent.Run(t.Context(), runInput("thread_1", "run_1", userMessage("u1", "hi"))))

	want := []agui.EventType{
		agui.EventTypeRunStarted,
		agui.EventTypeTextMessageStart,
		agui.EventTypeTextMessageContent,
		agui.EventTypeTextMessageContent,
		agui.EventTypeTextMessageEnd,
		agui.EventTypeStateSnapshot,
		agui.EventTypeRunFinished,
	}
	if !cmp.Equal(want, eventTypes(got)) {
		t.Fatalf("events = %v, want %v", eventTypes(got), want)
	}

	if started := got[0].(*agui.RunStartedEvent); started.ThreadID != "thread_1" || started.RunID != "run_1" {
		t.Errorf("RUN_STARTED = %+v, want thread_1/run_1", started)
	}
	if first := got[2].(*agui.TextMessageContentEvent); first.Delta != "Hel" {
		t.Errorf("first delta = %q, want Hel", first.Delta)
	}
	snapshot := got[5].(*agui.StateSnapshotEvent)
	if state, ok := snapshot.Snapshot.(map[string]any); !ok || len(state) != 0 {
		t.Errorf("snapshot = %#v, want empty state document", snapshot.Snapshot)
	}

	if len(rt.runs) != 1 {
		t.Fatalf("runner runs = %d, want 1", len(rt.runs))
	}
	run := rt.runs[0]
	if run.userID != "thread_user_thread_1" || run.sessionID != "thread_1" {
		t.Errorf("run identity = %s/%s, want thread_user_thread_1/thread_1", run.userID, run.sessionID)
	}
	if text := contentText(run.newMessage); text != "hi" {
		t.Errorf("new message text = %q, want hi", text)
	}
	if rt.closed != 1 {
		t.Errorf("runner closed %d times, want 1", rt.closed)
	}
}

func TestRunClientToolRoundTrip(t *testing.T) {
	t.Parallel()

	rt := &fakeRuntime{scripts: [][]*types.Event{
		{clientCall("c1", "search", map[string]any{"query": "cats"})},
		{finalTurn("Found it")},
	}}
	agent := newTestAgent(t, rt)
	ctx := t.Context()

	got := collectEvents(t, agent.Run(ctx, runInput("thread_1", "run_1", userMessage("u1", "search for cats"))))
	want := []agui.EventType{
		agui.EventTypeRunStarted,
		agui.EventTypeToolCallStart,
		agui.EventTypeToolCallArgs,
		agui.EventTypeToolCallEnd,
		agui.EventTypeRunFinished,
	}
	if !cmp.Equal(want, eventTypes(got)) {
		t.Fatalf("suspension events = %v, want %v", eventTypes(got), want)
	}
	if start := got[1].(*agui.ToolCallStartEvent); start.ToolCallID != "c1" || start.ToolCallName != "search" {
		t.Errorf("TOOL_CALL_START = %+v, want c1/search", start)
	}

	state := agent.SessionManager().GetState(ctx, "test_agent", "thread_user_thread_1", "thread_1")
	if pending := session.PendingToolCalls(state); !cmp.Equal([]string{"c1"}, pending) {
		t.Fatalf("pending tool calls = %v, want [c1]", pending)
	}

	// The client answers the call: it resends the transcript plus the tool
	// result message.
	resume := runInput("thread_1", "run_2",
		userMessage("u1", "search for cats"),
		assistantToolCall("a1", "c1", "search"),
		toolMessage("t1", "c1", `{"r":42}`),
	)
	got = collectEvents(t, agent.Run(ctx, resume))
	want = []agui.EventType{
		agui.EventTypeRunStarted,
		agui.EventTypeTextMessageStart,
		agui.EventTypeTextMessageContent,
		agui.EventTypeTextMessageEnd,
		agui.EventTypeStateSnapshot,
		agui.EventTypeRunFinished,
	}
	if !cmp.Equal(want, eventTypes(got)) {
		t.Fatalf("resume events = %v, want %v", eventTypes(got), want)
	}

	state = agent.SessionManager().GetState(ctx, "test_agent", "thread_user_thread_1", "thread_1")
	if pending := session.PendingToolCalls(state); len(pending) != 0 {
		t.Errorf("pending tool calls after result = %v, want none", pending)
	}

	if len(rt.runs) != 2 {
		t.Fatalf("runner runs = %d, want 2", len(rt.runs))
	}
	resumeMsg := rt.runs[1].newMessage
	if resumeMsg == nil || resumeMsg.Role != "function" || len(resumeMsg.Parts) != 1 {
		t.Fatalf("resume message = %+v, want single function response", resumeMsg)
	}
	resp := resumeMsg.Parts[0].FunctionResponse
	if resp == nil || resp.ID != "c1" || resp.Name != "search" {
		t.Fatalf("function response = %+v, want c1/search", resp)
	}
	if r := resp.Response["r"]; r != float64(42) {
		t.Errorf("response payload r = %v, want 42", r)
	}
}

func TestRunReplayedTranscript(t *testing.T) {
	t.Parallel()

	rt := &fakeRuntime{scripts: [][]*types.Event{{finalTurn("Hello")}}}
	agent := newTestAgent(t, rt)
	ctx := t.Context()

	collectEvents(t, agent.Run(ctx, runInput("thread_1", "run_1", userMessage("u1", "hi"))))

	got := collectEvents(t, agent.Run(ctx, runInput("thread_1", "run_2", userMessage("u1", "hi"))))
	want := []agui.EventType{agui.EventTypeRunStarted, agui.EventTypeRunFinished}
	if !cmp.Equal(want, eventTypes(got)) {
		t.Fatalf("replay events = %v, want acknowledgement only", eventTypes(got))
	}
	if len(rt.runs) != 1 {
		t.Errorf("runner runs = %d, want 1 (a replay must not re-execute)", len(rt.runs))
	}
}

func TestRunMessageWithoutIDAlwaysUnseen(t *testing.T) {
	t.Parallel()

	rt := &fakeRuntime{scripts: [][]*types.Event{{finalTurn("Hello")}, {finalTurn("Hello again")}}}
	agent := newTestAgent(t, rt)
	ctx := t.Context()

	// A message without an ID never enters the ledger, so resending it is a
	// new turn, not a replay.
	collectEvents(t, agent.Run(ctx, runInput("thread_1", "run_1", userMessage("", "hi"))))
	got := collectEvents(t, agent.Run(ctx, runInput("thread_1", "run_2", userMessage("", "hi"))))

	if types := eventTypes(got); len(types) < 2 || types[len(types)-1] != agui.EventTypeRunFinished {
		t.Fatalf("second run events = %v, want a full turn ending in RUN_FINISHED", types)
	}
	if len(rt.runs) != 2 {
		t.Errorf("runner runs = %d, want 2 (ID-less messages are always unseen)", len(rt.runs))
	}
}

func TestRunMalformedToolResultPayload(t *testing.T) {
	t.Parallel()

	rt := &fakeRuntime{scripts: [][]*types.Event{
		{clientCall("c1", "lookup", nil)},
		{finalTurn("recovered")},
	}}
	agent := newTestAgent(t, rt)

	input := runInput("thread_1", "run_1",
		userMessage("u1", "look it up"),
		assistantToolCall("a1", "c1", "lookup"),
		toolMessage("t1", "c1", "not json"),
	)
	got := collectEvents(t, agent.Run(t.Context(), input))

	// Two sub-executions: the turn that announces the call, then the turn
	// resumed by the (malformed) result. The bad payload is reported to the
	// agent, never as a RUN_ERROR.
	want := []agui.EventType{
		agui.EventTypeRunStarted,
		agui.EventTypeToolCallStart,
		agui.EventTypeToolCallArgs,
		agui.EventTypeToolCallEnd,
		agui.EventTypeRunFinished,
		agui.EventTypeRunStarted,
		agui.EventTypeTextMessageStart,
		agui.EventTypeTextMessageContent,
		agui.EventTypeTextMessageEnd,
		agui.EventTypeStateSnapshot,
		agui.EventTypeRunFinished,
	}
	if !cmp.Equal(want, eventTypes(got)) {
		t.Fatalf("events = %v, want %v", eventTypes(got), want)
	}

	// An argument-less call still announces its (empty) arguments.
	if args := got[2].(*agui.ToolCallArgsEvent); args.Delta != "{}" {
		t.Errorf("args delta = %q, want {}", args.Delta)
	}

	if len(rt.runs) != 2 {
		t.Fatalf("runner runs = %d, want 2", len(rt.runs))
	}
	resp := rt.runs[1].newMessage.Parts[0].FunctionResponse
	if resp.Response["error_type"] != "JSON_DECODE_ERROR" {
		t.Errorf("payload error_type = %v, want JSON_DECODE_ERROR", resp.Response["error_type"])
	}
	if resp.Response["raw_content"] != "not json" {
		t.Errorf("payload raw_content = %v, want the original content", resp.Response["raw_content"])
	}
}

func TestRunToolMessageWithoutCallID(t *testing.T) {
	t.Parallel()

	rt := &fakeRuntime{}
	agent := newTestAgent(t, rt)

	got := collectEvents(t, agent.Run(t.Context(), runInput("thread_1", "run_1", toolMessage("t1", "", "{}"))))

	if len(got) != 1 {
		t.Fatalf("events = %v, want single RUN_ERROR", eventTypes(got))
	}
	runErr := got[0].(*agui.RunErrorEvent)
	if runErr.Code != adkagui.ErrorCodeToolResultProcessing {
		t.Errorf("code = %q, want %q", runErr.Code, adkagui.ErrorCodeToolResultProcessing)
	}
	if want := "Failed to process tool results: tool message t1 has no tool call ID"; runErr.Message != want {
		t.Errorf("message = %q, want %q", runErr.Message, want)
	}
	if len(rt.requests) != 0 {
		t.Errorf("runner factory calls = %d, want 0", len(rt.requests))
	}
}

func TestRunRunnerFactoryError(t *testing.T) {
	t.Parallel()

	rt := &fakeRuntime{factoryErr: errors.New("no quota")}
	agent := newTestAgent(t, rt)

	got := collectEvents(t, agent.Run(t.Context(), runInput("thread_1", "run_1", userMessage("u1", "hi"))))
	want := []agui.EventType{agui.EventTypeRunStarted, agui.EventTypeRunError}
	if !cmp.Equal(want, eventTypes(got)) {
		t.Fatalf("events = %v, want %v", eventTypes(got), want)
	}
	runErr := got[1].(*agui.RunErrorEvent)
	if runErr.Code != adkagui.ErrorCodeBackgroundExecution {
		t.Errorf("code = %q, want %q", runErr.Code, adkagui.ErrorCodeBackgroundExecution)
	}
	if want := "create runner: no quota"; runErr.Message != want {
		t.Errorf("message = %q, want %q", runErr.Message, want)
	}
}

func TestRunRunnerStreamError(t *testing.T) {
	t.Parallel()

	rt := &fakeRuntime{
		scripts: [][]*types.Event{{textChunk("Hel")}},
		runErr:  errors.New("model quota exceeded"),
	}
	agent := newTestAgent(t, rt)

	got := collectEvents(t, agent.Run(t.Context(), runInput("thread_1", "run_1", userMessage("u1", "hi"))))
	want := []agui.EventType{
		agui.EventTypeRunStarted,
		agui.EventTypeTextMessageStart,
		agui.EventTypeTextMessageContent,
		agui.EventTypeRunError,
	}
	if !cmp.Equal(want, eventTypes(got)) {
		t.Fatalf("events = %v, want RUN_ERROR terminal without RUN_FINISHED", eventTypes(got))
	}
	runErr := got[3].(*agui.RunErrorEvent)
	if runErr.Code != adkagui.ErrorCodeBackgroundExecution || runErr.Message != "model quota exceeded" {
		t.Errorf("RUN_ERROR = %+v, want the runner error", runErr)
	}
}

func TestRunExecutionTimeout(t *testing.T) {
	t.Parallel()

	agent := newTestAgent(t, &fakeRuntime{}, func(cfg *adkagui.Config) {
		cfg.RunnerFactory = func(ctx context.Context, req *types.RunnerRequest) (types.Runner, error) {
			return blockingRunner{}, nil
		}
		cfg.ExecutionTimeout = 50 * time.Millisecond
	})

	got := collectEvents(t, agent.Run(t.Context(), runInput("thread_1", "run_1", userMessage("u1", "hi"))))
	want := []agui.EventType{agui.EventTypeRunStarted, agui.EventTypeRunError}
	if !cmp.Equal(want, eventTypes(got)) {
		t.Fatalf("events = %v, want %v", eventTypes(got), want)
	}
	runErr := got[1].(*agui.RunErrorEvent)
	if runErr.Code != adkagui.ErrorCodeExecutionTimeout {
		t.Errorf("code = %q, want %q", runErr.Code, adkagui.ErrorCodeExecutionTimeout)
	}
	if runErr.Message != "Execution timed out" {
		t.Errorf("message = %q, want Execution timed out", runErr.Message)
	}
}

func TestRunConcurrencyCap(t *testing.T) {
	t.Parallel()

	rt := &fakeRuntime{scripts: [][]*types.Event{
		{clientCall("c1", "ask_human", nil)},
	}}
	agent := newTestAgent(t, rt, func(cfg *adkagui.Config) {
		cfg.MaxConcurrentExecutions = 1
	})
	ctx := t.Context()

	// A turn suspended on a client tool call keeps its execution slot.
	collectEvents(t, agent.Run(ctx, runInput("thread_1", "run_1", userMessage("u1", "ask"))))

	got := collectEvents(t, agent.Run(ctx, runInput("thread_2", "run_2", userMessage("u2", "hi"))))
	want := []agui.EventType{agui.EventTypeRunStarted, agui.EventTypeRunError}
	if !cmp.Equal(want, eventTypes(got)) {
		t.Fatalf("events = %v, want %v", eventTypes(got), want)
	}
	runErr := got[1].(*agui.RunErrorEvent)
	if runErr.Code != adkagui.ErrorCodeExecution {
		t.Errorf("code = %q, want %q", runErr.Code, adkagui.ErrorCodeExecution)
	}
	if want := "maximum concurrent executions (1) reached"; runErr.Message != want {
		t.Errorf("message = %q, want %q", runErr.Message, want)
	}
}

func TestRunEvictsStaleExecutions(t *testing.T) {
	t.Parallel()

	rt := &fakeRuntime{scripts: [][]*types.Event{
		{clientCall("c1", "ask_human", nil)},
		{finalTurn("fresh thread")},
	}}
	agent := newTestAgent(t, rt, func(cfg *adkagui.Config) {
		cfg.MaxConcurrentExecutions = 1
		cfg.ExecutionTimeout = 10 * time.Millisecond
	})
	ctx := t.Context()

	collectEvents(t, agent.Run(ctx, runInput("thread_1", "run_1", userMessage("u1", "ask"))))
	time.Sleep(20 * time.Millisecond)

	// The suspended slot is past the execution timeout, so the new thread
	// evicts it instead of failing on the cap.
	got := collectEvents(t, agent.Run(ctx, runInput("thread_2", "run_2", userMessage("u2", "hi"))))
	if types := eventTypes(got); types[len(types)-1] != agui.EventTypeRunFinished {
		t.Fatalf("events = %v, want RUN_FINISHED terminal", types)
	}
}

func TestRunPreparesAgentPerRequest(t *testing.T) {
	t.Parallel()

	rt := &fakeRuntime{scripts: [][]*types.Event{{finalTurn("hello")}}}
	base := &types.Agent{
		Name:        "test_agent",
		Instruction: types.StaticInstruction("be helpful"),
		Tools:       []types.Tool{staticTool{name: "get_weather"}},
	}
	agent := newTestAgent(t, rt, func(cfg *adkagui.Config) {
		cfg.Agent = base
	})

	input := runInput("thread_1", "run_1",
		systemMessage("s1", "be concise"),
		userMessage("u1", "hi"),
	)
	input.Tools = []agui.Tool{
		{Name: "get_weather", Description: "frontend duplicate"},
		{Name: "confirm", Description: "ask the user to confirm"},
		{Name: "transfer_to_agent", Description: "reserved"},
	}
	collectEvents(t, agent.Run(t.Context(), input))

	if len(rt.requests) != 1 {
		t.Fatalf("runner factory calls = %d, want 1", len(rt.requests))
	}
	prepared := rt.requests[0].Agent

	instruction, err := prepared.Instruction(t.Context())
	if err != nil {
		t.Fatalf("Instruction() error = %v", err)
	}
	if want := "be helpful\n\nbe concise"; instruction != want {
		t.Errorf("instruction = %q, want %q", instruction, want)
	}

	// The backend get_weather wins over the frontend duplicate; confirm is
	// proxied; the reserved transfer tool is dropped.
	names := make([]string, 0, len(prepared.Tools))
	for _, tl := range prepared.Tools {
		names = append(names, tl.Name())
	}
	if want := []string{"get_weather", "confirm"}; !cmp.Equal(want, names) {
		t.Fatalf("prepared tools = %v, want %v", names, want)
	}
	if prepared.Tools[0].IsLongRunning() {
		t.Error("backend tool became long-running")
	}
	if !prepared.Tools[1].IsLongRunning() {
		t.Error("frontend proxy tool is not long-running")
	}

	// The configured agent itself is never mutated.
	if len(base.Tools) != 1 {
		t.Errorf("base agent tools = %d, want 1", len(base.Tools))
	}
	if baseInstruction, _ := base.Instruction(t.Context()); baseInstruction != "be helpful" {
		t.Errorf("base instruction = %q, want unchanged", baseInstruction)
	}
}

func TestRunSyncsClientState(t *testing.T) {
	t.Parallel()

	rt := &fakeRuntime{scripts: [][]*types.Event{{finalTurn("noted")}}}
	agent := newTestAgent(t, rt)

	input := runInput("thread_1", "run_1", userMessage("u1", "remember this"))
	input.State = map[string]any{"theme": "dark"}
	got := collectEvents(t, agent.Run(t.Context(), input))

	snapshot, ok := got[len(got)-2].(*agui.StateSnapshotEvent)
	if !ok {
		t.Fatalf("penultimate event = %v, want STATE_SNAPSHOT", got[len(got)-2].Type())
	}
	state, ok := snapshot.Snapshot.(map[string]any)
	if !ok || state["theme"] != "dark" {
		t.Errorf("snapshot = %#v, want the client state document", snapshot.Snapshot)
	}
}

func TestRunValidatesInput(t *testing.T) {
	t.Parallel()

	agent := newTestAgent(t, &fakeRuntime{})

	var events int
	var gotErr error
	for _, err := range agent.Run(t.Context(), &agui.RunAgentInput{RunID: "run_1"}) {
		if err != nil {
			gotErr = err
			continue
		}
		events++
	}
	if gotErr == nil || !strings.Contains(gotErr.Error(), "threadId") {
		t.Fatalf("error = %v, want threadId validation failure", gotErr)
	}
	if events != 0 {
		t.Errorf("events = %d, want none", events)
	}
}

func TestNewRequiresExplicitServices(t *testing.T) {
	t.Parallel()

	rt := &fakeRuntime{}
	_, err := adkagui.New(t.Context(), adkagui.Config{
		Agent:         &types.Agent{Name: "test_agent"},
		RunnerFactory: rt.factory(),
	})
	if err == nil || !strings.Contains(err.Error(), "UseInMemoryServices") {
		t.Fatalf("New() error = %v, want missing services failure", err)
	}
}
