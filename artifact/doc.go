// Copyright 2025 The Go A2A Authors
// SPDX-License-Identifier: Apache-2.0

// Package artifact provides storage services for agent-generated artifacts
// with versioning support.
//
// The artifact package implements the [types.ArtifactService] interface with
// multiple storage backends for files and content generated or consumed by
// agent runs. Artifacts are organized by application, user, and session for
// proper isolation.
//
// # Supported Backends
//
// The package provides two storage implementations:
//
//   - InMemoryService: in-memory storage for development and testing
//   - GCSService: Google Cloud Storage backend for production
//
// # Artifact Organization
//
// Artifacts are organized hierarchically:
//
//	{appName}/{userID}/{sessionID}/{filename}  // Session-scoped artifacts
//	{appName}/{userID}/user/{filename}         // User-scoped artifacts (user: prefix)
//
// Filenames carrying the "user:" prefix persist across sessions of the same
// user; all other artifacts live and die with their session.
//
// # Versioning
//
// Every save creates a new version identified by an incremental integer.
// Loading with a negative version returns the latest one, and the full
// version history of a filename can be listed.
//
// # Basic Usage
//
//	// In-memory for development
//	service := artifact.NewInMemoryService()
//
//	// Google Cloud Storage for production
//	service, err := artifact.NewGCSService(ctx, "my-bucket")
//	if err != nil {
//		log.Fatal(err)
//	}
//	defer service.Close()
//
//	// Save a text artifact
//	version, err := service.SaveArtifact(ctx, "myapp", "user123", "session456",
//		"report.txt", &genai.Part{Text: "Generated report content"})
//
//	// Load the latest version
//	part, err := service.LoadArtifact(ctx, "myapp", "user123", "session456",
//		"report.txt", -1)
//
// # Integration with the Bridge
//
// The bridge does not read or write artifacts itself. The configured service
// is handed to the agent runtime on every [types.RunnerRequest], so runner
// implementations can persist tool outputs and load prior content:
//
//	func newRunner(ctx context.Context, req *types.RunnerRequest) (types.Runner, error) {
//		return &myRunner{artifacts: req.ArtifactService}, nil
//	}
//
// # Thread Safety
//
// All service implementations are safe for concurrent use. The in-memory
// service uses internal locking; GCS operations are atomic per object.
package artifact
