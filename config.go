// Copyright 2025 The Go A2A Authors
// SPDX-License-Identifier: Apache-2.0

package adkagui

import (
	"errors"
	"fmt"
	"time"

	"github.com/go-a2a/adk-agui/agui"
	"github.com/go-a2a/adk-agui/session"
	"github.com/go-a2a/adk-agui/types"
)

// Defaults applied by [New] when the corresponding [Config] field is zero.
const (
	// DefaultExecutionTimeout bounds one background execution.
	DefaultExecutionTimeout = 600 * time.Second

	// DefaultToolTimeout bounds one proxied frontend tool invocation.
	DefaultToolTimeout = 300 * time.Second

	// DefaultMaxConcurrentExecutions caps concurrently running executions.
	DefaultMaxConcurrentExecutions = 10

	// DefaultEventQueueSize is the capacity of each execution's event queue.
	DefaultEventQueueSize = 100
)

// IdentityExtractor derives an identity dimension, such as the application
// name or the user ID, from a run request.
type IdentityExtractor func(input *agui.RunAgentInput) string

// RunConfigProvider builds the runner configuration for one request.
type RunConfigProvider func(input *agui.RunAgentInput) *types.RunConfig

// Config configures an [Agent].
type Config struct {
	// Agent is the agent definition handed to runners. Required.
	Agent *types.Agent

	// AppName is a static application name for all requests. Mutually
	// exclusive with AppNameFn. When neither is set, the agent name is used.
	AppName string

	// AppNameFn derives the application name per request.
	AppNameFn IdentityExtractor

	// UserID is a static user ID for all requests. Mutually exclusive with
	// UserIDFn. When neither is set, the user is derived from the thread ID.
	UserID string

	// UserIDFn derives the user ID per request.
	UserIDFn IdentityExtractor

	// RunnerFactory builds the runner for each execution. Required.
	RunnerFactory types.RunnerFactory

	// RunConfigProvider builds the runner configuration per request.
	// Defaults to [types.NewRunConfig].
	RunConfigProvider RunConfigProvider

	// SessionManager is a pre-built session registry to use instead of
	// constructing one from SessionService. When set, SessionService,
	// SessionTimeout, CleanupInterval and MaxSessionsPerUser are ignored.
	SessionManager *session.Manager

	// SessionService is the backing session store.
	SessionService types.SessionService

	// ArtifactService stores artifacts produced during turns.
	ArtifactService types.ArtifactService

	// MemoryService provides long-term recall and receives expired sessions.
	MemoryService types.MemoryService

	// CredentialService provides tool credentials to runners.
	CredentialService types.CredentialService

	// UseInMemoryServices fills every unset service with an in-memory
	// implementation. This must be requested explicitly: when false, all
	// services are required and [New] fails on any missing one, so a
	// production deployment cannot silently run on process-local state.
	UseInMemoryServices bool

	// SessionTimeout is the idle age after which sessions expire. Defaults
	// to [session.DefaultSessionTimeout].
	SessionTimeout time.Duration

	// CleanupInterval is how often expired sessions are collected. Defaults
	// to [session.DefaultCleanupInterval].
	CleanupInterval time.Duration

	// ExecutionTimeout bounds one background execution. Defaults to
	// [DefaultExecutionTimeout].
	ExecutionTimeout time.Duration

	// ToolTimeout bounds one proxied frontend tool invocation. Defaults to
	// [DefaultToolTimeout].
	ToolTimeout time.Duration

	// MaxConcurrentExecutions caps concurrently running executions. Defaults
	// to [DefaultMaxConcurrentExecutions].
	MaxConcurrentExecutions int

	// EventQueueSize is the capacity of each execution's event queue.
	// Defaults to [DefaultEventQueueSize].
	EventQueueSize int

	// MaxSessionsPerUser caps sessions per user; creating beyond the cap
	// evicts the user's least recently updated session. Zero or negative
	// means unlimited.
	MaxSessionsPerUser int
}

// validate checks the mutually exclusive and required fields.
func (c *Config) validate() error {
	if c.Agent == nil {
		return errors.New("adkagui: Config.Agent is required")
	}
	if c.Agent.Name == "" {
		return errors.New("adkagui: Config.Agent must have a name")
	}
	if c.RunnerFactory == nil {
		return errors.New("adkagui: Config.RunnerFactory is required")
	}
	if c.AppName != "" && c.AppNameFn != nil {
		return errors.New("adkagui: cannot specify both AppName and AppNameFn")
	}
	if c.UserID != "" && c.UserIDFn != nil {
		return errors.New("adkagui: cannot specify both UserID and UserIDFn")
	}

	if !c.UseInMemoryServices {
		var missing []string
		if c.SessionService == nil && c.SessionManager == nil {
			missing = append(missing, "SessionService")
		}
		if c.ArtifactService == nil {
			missing = append(missing, "ArtifactService")
		}
		if c.MemoryService == nil {
			missing = append(missing, "MemoryService")
		}
		if c.CredentialService == nil {
			missing = append(missing, "CredentialService")
		}
		if len(missing) > 0 {
			return fmt.Errorf("adkagui: UseInMemoryServices is false and %v not supplied", missing)
		}
	}

	return nil
}

// setDefaults fills the zero-valued tunables.
func (c *Config) setDefaults() {
	if c.RunConfigProvider == nil {
		c.RunConfigProvider = func(input *agui.RunAgentInput) *types.RunConfig {
			return types.NewRunConfig()
		}
	}
	if c.ExecutionTimeout <= 0 {
		c.ExecutionTimeout = DefaultExecutionTimeout
	}
	if c.ToolTimeout <= 0 {
		c.ToolTimeout = DefaultToolTimeout
	}
	if c.MaxConcurrentExecutions <= 0 {
		c.MaxConcurrentExecutions = DefaultMaxConcurrentExecutions
	}
	if c.EventQueueSize <= 0 {
		c.EventQueueSize = DefaultEventQueueSize
	}
}

// resolveAppName resolves the application name for input: the static name,
// then the extractor, then the agent name.
func (c *Config) resolveAppName(input *agui.RunAgentInput) string {
	switch {
	case c.AppName != "":
		return c.AppName
	case c.AppNameFn != nil:
		return c.AppNameFn(input)
	default:
		return c.Agent.Name
	}
}

// resolveUserID resolves the user ID for input: the static ID, then the
// extractor, then a thread-derived default (one user per thread).
func (c *Config) resolveUserID(input *agui.RunAgentInput) string {
	switch {
	case c.UserID != "":
		return c.UserID
	case c.UserIDFn != nil:
		return c.UserIDFn(input)
	default:
		return "thread_user_" + input.ThreadID
	}
}
