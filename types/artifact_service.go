// Copyright 2025 The Go A2A Authors
// SPDX-License-Identifier: Apache-2.0

package types

import (
	"context"

	"google.golang.org/genai"
)

// ArtifactService stores the versioned files runners attach to sessions.
//
// The bridge never reads or writes artifacts itself; the configured service
// rides into the runner through [RunnerRequest]. Artifacts are keyed by
// (appName, userID, sessionID, filename), with filenames prefixed "user:"
// shared across all of a user's sessions. Saving the same filename again
// adds a version; versions count densely from 0.
type ArtifactService interface {
	// SaveArtifact stores a new version of the artifact and returns its
	// version number.
	SaveArtifact(ctx context.Context, appName, userID, sessionID, filename string, artifact *genai.Part) (int, error)

	// LoadArtifact retrieves one version of the artifact. A negative version
	// loads the latest one; a missing artifact or version yields (nil, nil).
	LoadArtifact(ctx context.Context, appName, userID, sessionID, filename string, version int) (*genai.Part, error)

	// ListArtifactKey lists the filenames visible from a session, its own
	// and the user-scoped ones, sorted.
	ListArtifactKey(ctx context.Context, appName, userID, sessionID string) ([]string, error)

	// DeleteArtifact removes an artifact with all its versions.
	DeleteArtifact(ctx context.Context, appName, userID, sessionID, filename string) error

	// ListVersions lists the stored versions of an artifact, ascending.
	ListVersions(ctx context.Context, appName, userID, sessionID, filename string) ([]int, error)

	// Close releases any backend connection the service holds.
	Close() error
}
