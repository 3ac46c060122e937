// Copyright 2025 The Go A2A Authors
// SPDX-License-Identifier: Apache-2.0

// Package logging provides context-carried structured logging on Go's
// standard [log/slog] package.
//
// The bridge never owns a logger. Callers install one on the context, and
// every layer below (dispatch, translation, session management) retrieves
// it with FromContext. A context without a logger yields a discard logger,
// so the library is silent by default and log calls never need nil checks.
//
// # Basic Usage
//
// Install a logger at the edge, typically once per process or per request:
//
//	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
//		Level: slog.LevelInfo,
//	}))
//	ctx := logging.NewContext(ctx, logger)
//
// Retrieve it anywhere downstream:
//
//	logger := logging.FromContext(ctx)
//	logger.Info("run finished",
//		slog.String("thread_id", input.ThreadID),
//		slog.String("run_id", input.RunID),
//	)
//
// # Conventions
//
// Log with typed attrs ([slog.String], [slog.Any]) rather than loose
// key-value pairs, and carry the identifiers that make a line traceable:
// thread ID, run ID, session ID, tool call ID. Avoid logging message
// content or tool arguments; they can carry user data.
//
// The package is safe for concurrent use: contexts are immutable and
// [*slog.Logger] is itself goroutine-safe.
package logging
