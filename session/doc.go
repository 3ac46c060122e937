// Copyright 2025 The Go A2A Authors
// SPDX-License-Identifier: Apache-2.0

// Package session provides stateful conversation tracking and state
// management for bridged agent runs.
//
// The package implements the [types.SessionService] interface over three
// backends and layers a [Manager] on top that owns session lifecycle for the
// bridge: creation with per-user quotas, state updates through synthetic
// events, the processed message ledger, and background expiry.
//
// # Services
//
//   - [InMemoryService]: reference implementation, suitable for development
//     and tests
//   - [RedisService]: sessions and events in Redis with optional TTL
//   - [PostgresService]: sessions and events in PostgreSQL via pgx
//
// # Session Organization
//
// Sessions are organized hierarchically:
//
//	{appName} -> {userID} -> {sessionID} -> Session
//
// Each level isolates its scope: applications never see each other's
// sessions, and users never see each other's.
//
// # State Management
//
// Session state is a flat string-keyed map split into three tiers by key
// prefix:
//
//   - "app:" keys are shared across all users of an application
//   - "user:" keys are shared across all sessions of a user
//   - unprefixed keys belong to the single session
//   - "temp:" keys are never persisted
//
// Reads return the merged view with the prefixes attached; writes route each
// delta key to its tier. A nil delta value deletes the key.
//
// # Manager
//
// [Manager] wraps a service with the lifecycle the bridge needs:
//
//	manager, err := session.NewManager(session.ManagerConfig{
//		Service:        session.NewInMemoryService(),
//		SessionTimeout: 20 * time.Minute,
//	})
//	if err != nil {
//		log.Fatal(err)
//	}
//	manager.StartCleanup(ctx)
//	defer manager.Stop()
//
//	ses, err := manager.GetOrCreate(ctx, "myapp", "user123", "thread456", nil)
//
// Every state mutation goes through a synthetic event authored by
// [StateUpdateAuthor], so the event record stays a complete account of how
// the state evolved. The cleanup loop deletes sessions idle longer than the
// session timeout, except sessions whose state carries
// [StateKeyPendingToolCalls]: those are waiting on a client tool result and
// stay alive until the result arrives.
//
// When a [types.MemoryService] is configured, deleted sessions are archived
// there before removal so old conversations remain searchable.
package session
