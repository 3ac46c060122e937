// Copyright 2025 The Go A2A Authors
// SPDX-License-Identifier: Apache-2.0

package adkagui

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"sync"

	"github.com/go-a2a/adk-agui/artifact"
	"github.com/go-a2a/adk-agui/credential"
	"github.com/go-a2a/adk-agui/memory"
	"github.com/go-a2a/adk-agui/pkg/logging"
	"github.com/go-a2a/adk-agui/session"
	"github.com/go-a2a/adk-agui/types"
)

// Agent bridges a frontend speaking the AG-UI protocol to an agent runtime.
//
// One Agent serves many threads concurrently. Each run request is dispatched
// into background executions whose events are streamed back to the caller;
// per-thread state, message bookkeeping and tool call tracking live in the
// session layer.
type Agent struct {
	config Config

	agent       *types.Agent
	sessions    *session.Manager
	artifacts   types.ArtifactService
	memory      types.MemoryService
	credentials types.CredentialService

	mu         sync.Mutex
	executions map[string]*execution
}

// New creates an [Agent] from cfg.
//
// The session cleanup loop starts immediately and runs until [Agent.Close];
// ctx bounds only the construction itself.
func New(ctx context.Context, cfg Config) (*Agent, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	cfg.setDefaults()

	if cfg.UseInMemoryServices {
		if cfg.ArtifactService == nil {
			cfg.ArtifactService = artifact.NewInMemoryService()
		}
		if cfg.MemoryService == nil {
			cfg.MemoryService = memory.NewInMemoryService()
		}
		if cfg.CredentialService == nil {
			cfg.CredentialService = credential.NewInMemoryService()
		}
	}

	manager := cfg.SessionManager
	if manager == nil {
		service := cfg.SessionService
		if service == nil {
			service = session.NewInMemoryService()
		}
		var err error
		manager, err = session.NewManager(session.ManagerConfig{
			Service:            service,
			MemoryService:      cfg.MemoryService,
			SessionTimeout:     cfg.SessionTimeout,
			CleanupInterval:    cfg.CleanupInterval,
			MaxSessionsPerUser: cfg.MaxSessionsPerUser,
		})
		if err != nil {
			return nil, err
		}
	}

	a := &Agent{
		config:      cfg,
		agent:       cfg.Agent,
		sessions:    manager,
		artifacts:   cfg.ArtifactService,
		memory:      cfg.MemoryService,
		credentials: cfg.CredentialService,
		executions:  make(map[string]*execution),
	}
	a.sessions.StartCleanup(context.WithoutCancel(ctx))

	return a, nil
}

// SessionManager returns the session registry backing the agent.
func (a *Agent) SessionManager() *session.Manager {
	return a.sessions
}

// Close cancels all active executions and stops the session cleanup loop.
func (a *Agent) Close(ctx context.Context) error {
	a.mu.Lock()
	executions := make([]*execution, 0, len(a.executions))
	for _, exec := range a.executions {
		executions = append(executions, exec)
	}
	clear(a.executions)
	a.mu.Unlock()

	for _, exec := range executions {
		exec.cancel()
	}
	for _, exec := range executions {
		select {
		case <-exec.done:
		case <-ctx.Done():
			return ctx.Err()
		}
	}

	a.sessions.Stop()
	return nil
}

// registerExecution makes exec the thread's active execution after enforcing
// the concurrency cap. It returns the execution it replaces, if any.
func (a *Agent) registerExecution(ctx context.Context, exec *execution) (*execution, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if len(a.executions) >= a.config.MaxConcurrentExecutions {
		a.cleanupStaleExecutionsLocked(ctx)

		if len(a.executions) >= a.config.MaxConcurrentExecutions {
			return nil, fmt.Errorf("maximum concurrent executions (%d) reached", a.config.MaxConcurrentExecutions)
		}
	}

	prior := a.executions[exec.threadID]
	a.executions[exec.threadID] = exec
	return prior, nil
}

// cleanupStaleExecutionsLocked cancels and drops executions that outlived the
// execution timeout. Callers must hold a.mu.
func (a *Agent) cleanupStaleExecutionsLocked(ctx context.Context) {
	logger := logging.FromContext(ctx)
	for threadID, exec := range a.executions {
		if exec.isStale(a.config.ExecutionTimeout) {
			exec.cancel()
			delete(a.executions, threadID)
			logger.InfoContext(ctx, "cleaned up stale execution", slog.String("thread_id", threadID))
		}
	}
}

// releaseExecution drops the thread's execution entry once the run is over,
// unless the session still has pending tool calls: those keep the entry so a
// later tool result resumes against the same thread (human-in-the-loop).
func (a *Agent) releaseExecution(ctx context.Context, exec *execution) {
	pending := len(a.pendingToolCalls(ctx, exec.threadID)) > 0

	a.mu.Lock()
	defer a.mu.Unlock()
	if current, ok := a.executions[exec.threadID]; ok && current == exec && !pending {
		delete(a.executions, exec.threadID)
	}
}

// pendingToolCalls returns the tool call IDs recorded as awaiting client
// results for the thread.
func (a *Agent) pendingToolCalls(ctx context.Context, threadID string) []string {
	appName, userID, ok := a.sessions.Lookup(threadID)
	if !ok {
		return nil
	}
	state := a.sessions.GetState(ctx, appName, userID, threadID)
	return session.PendingToolCalls(state)
}

// addPendingToolCall records toolCallID as awaiting a client result.
func (a *Agent) addPendingToolCall(ctx context.Context, appName, userID, threadID, toolCallID string) {
	state := a.sessions.GetState(ctx, appName, userID, threadID)
	pending := session.PendingToolCalls(state)
	if slices.Contains(pending, toolCallID) {
		return
	}
	pending = append(pending, toolCallID)
	if a.sessions.SetStateValue(ctx, appName, userID, threadID, session.StateKeyPendingToolCalls, pending) {
		logging.FromContext(ctx).InfoContext(ctx, "added pending tool call",
			slog.String("thread_id", threadID),
			slog.String("tool_call_id", toolCallID),
		)
	}
}

// removePendingToolCall clears toolCallID from the thread's pending list once
// its result arrives. Unknown IDs are ignored.
func (a *Agent) removePendingToolCall(ctx context.Context, threadID, toolCallID string) {
	appName, userID, ok := a.sessions.Lookup(threadID)
	if !ok {
		return
	}
	state := a.sessions.GetState(ctx, appName, userID, threadID)
	pending := session.PendingToolCalls(state)
	if !slices.Contains(pending, toolCallID) {
		logging.FromContext(ctx).WarnContext(ctx, "no pending tool call for submitted result",
			slog.String("thread_id", threadID),
			slog.String("tool_call_id", toolCallID),
		)
		return
	}
	pending = slices.DeleteFunc(pending, func(id string) bool { return id == toolCallID })
	a.sessions.SetStateValue(ctx, appName, userID, threadID, session.StateKeyPendingToolCalls, pending)
}

// awaitExecution waits for a prior execution of the same thread to finish,
// serializing runs per thread.
func (a *Agent) awaitExecution(ctx context.Context, prior *execution) error {
	if prior == nil || prior.finished() {
		return nil
	}
	logging.FromContext(ctx).DebugContext(ctx, "waiting for prior execution",
		slog.String("thread_id", prior.threadID),
	)
	select {
	case <-prior.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
