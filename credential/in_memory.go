// Copyright 2025 The Go A2A Authors
// SPDX-License-Identifier: Apache-2.0

package credential

import (
	"context"
	"sync"

	"github.com/go-a2a/adk-agui/types"
)

type (
	// Credentials represents a map of application names to their respective user credentials.
	Credentials map[string]AppCredentials // appName -> appCredentials

	// AppCredentials represents a map of user IDs to their respective user credentials.
	AppCredentials map[string]UserCredentials // userID -> userCredentials

	// UserCredentials represents a map of credential keys to their respective authentication credentials.
	UserCredentials map[string]*types.AuthCredential // credential key -> *types.AuthCredential
)

// InMemoryService is an in-memory implementation of [types.CredentialService].
//
// Credentials are stored per application and user and are lost when the
// process exits.
type InMemoryService struct {
	mu          sync.RWMutex
	credentials Credentials
}

var _ types.CredentialService = (*InMemoryService)(nil)

// NewInMemoryService returns a new [InMemoryService].
func NewInMemoryService() *InMemoryService {
	return &InMemoryService{
		credentials: make(Credentials),
	}
}

// LoadCredential implements [types.CredentialService].
//
// A missing credential is not an error; it returns (nil, nil).
func (s *InMemoryService) LoadCredential(ctx context.Context, appName, userID, key string) (*types.AuthCredential, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.credentials[appName][userID][key], nil
}

// SaveCredential implements [types.CredentialService].
func (s *InMemoryService) SaveCredential(ctx context.Context, appName, userID, key string, credential *types.AuthCredential) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.bucket(appName, userID)[key] = credential
	return nil
}

// DeleteCredential implements [types.CredentialService].
func (s *InMemoryService) DeleteCredential(ctx context.Context, appName, userID, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if users, ok := s.credentials[appName]; ok {
		delete(users[userID], key)
	}
	return nil
}

// bucket returns the credential bucket for the given app and user, creating
// the intermediate maps if needed. Callers must hold mu.
func (s *InMemoryService) bucket(appName, userID string) UserCredentials {
	if _, ok := s.credentials[appName]; !ok {
		s.credentials[appName] = make(AppCredentials)
	}
	if _, ok := s.credentials[appName][userID]; !ok {
		s.credentials[appName][userID] = make(UserCredentials)
	}

	return s.credentials[appName][userID]
}
