// Copyright 2025 The Go A2A Authors
// SPDX-License-Identifier: Apache-2.0

package artifact

import (
	"context"
	"slices"
	"strings"
	"sync"

	"google.golang.org/genai"

	"github.com/go-a2a/adk-agui/types"
)

// InMemoryService keeps artifacts in process memory, one dense version slice
// per file. Intended for tests and single-process deployments.
type InMemoryService struct {
	mu sync.RWMutex

	// files maps an object directory to its versions in save order.
	files map[string][]*genai.Part
}

var _ types.ArtifactService = (*InMemoryService)(nil)

// NewInMemoryService creates an empty in-memory artifact store.
func NewInMemoryService() *InMemoryService {
	return &InMemoryService{
		files: make(map[string][]*genai.Part),
	}
}

// SaveArtifact implements [types.ArtifactService]. The returned version is
// the position of the new revision, counted from 0.
func (s *InMemoryService) SaveArtifact(ctx context.Context, appName, userID, sessionID, filename string, artifact *genai.Part) (int, error) {
	dir := objectDir(appName, userID, sessionID, filename)

	s.mu.Lock()
	defer s.mu.Unlock()

	version := len(s.files[dir])
	s.files[dir] = append(s.files[dir], artifact)

	return version, nil
}

// LoadArtifact implements [types.ArtifactService]. A negative version loads
// the latest revision; unknown files and out-of-range versions yield nil.
func (s *InMemoryService) LoadArtifact(ctx context.Context, appName, userID, sessionID, filename string, version int) (*genai.Part, error) {
	dir := objectDir(appName, userID, sessionID, filename)

	s.mu.RLock()
	defer s.mu.RUnlock()

	revisions := s.files[dir]
	if version < 0 {
		version = len(revisions) - 1
	}
	if version < 0 || version >= len(revisions) {
		return nil, nil
	}

	return revisions[version], nil
}

// ListArtifactKey implements [types.ArtifactService]. The result merges the
// session's own files with the user-scoped ones, sorted by filename.
func (s *InMemoryService) ListArtifactKey(ctx context.Context, appName, userID, sessionID string) ([]string, error) {
	sessionScope, userScope := scopePrefixes(appName, userID, sessionID)

	s.mu.RLock()
	defer s.mu.RUnlock()

	filenames := []string{}
	for dir := range s.files {
		if name, ok := strings.CutPrefix(dir, sessionScope); ok {
			filenames = append(filenames, name)
			continue
		}
		if name, ok := strings.CutPrefix(dir, userScope); ok {
			filenames = append(filenames, name)
		}
	}
	slices.Sort(filenames)

	return filenames, nil
}

// DeleteArtifact implements [types.ArtifactService]. Every version of the
// file goes with it; deleting an unknown file is a no-op.
func (s *InMemoryService) DeleteArtifact(ctx context.Context, appName, userID, sessionID, filename string) error {
	dir := objectDir(appName, userID, sessionID, filename)

	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.files, dir)

	return nil
}

// ListVersions implements [types.ArtifactService].
func (s *InMemoryService) ListVersions(ctx context.Context, appName, userID, sessionID, filename string) ([]int, error) {
	dir := objectDir(appName, userID, sessionID, filename)

	s.mu.RLock()
	defer s.mu.RUnlock()

	versions := make([]int, len(s.files[dir]))
	for i := range versions {
		versions[i] = i
	}

	return versions, nil
}

// Close implements [types.ArtifactService].
func (s *InMemoryService) Close() error {
	return nil
}
