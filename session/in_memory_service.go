// Copyright 2025 The Go A2A Authors
// SPDX-License-Identifier: Apache-2.0

package session

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	deepcopy "github.com/tiendc/go-deepcopy"

	"github.com/go-a2a/adk-agui/types"
)

// InMemoryService is an in-memory implementation of the
// [types.SessionService].
//
// Session state is split three ways: keys prefixed "app:" are shared across
// an app, keys prefixed "user:" are shared across a user's sessions, and the
// rest belong to the single session. Reads return a copy with the shared
// scopes merged in; "temp:" keys are never persisted.
type InMemoryService struct {
	// sessions is a map from app name to a map from user ID to a map from session ID to session.
	sessions map[string]map[string]map[string]*session

	// userState is a map from app name to a map from user ID to a map from key to value.
	userState map[string]map[string]map[string]any

	// appState is a map from app name to a map from key to value.
	appState map[string]map[string]any

	logger *slog.Logger
	mu     sync.RWMutex
}

var _ types.SessionService = (*InMemoryService)(nil)

// InMemoryOption configures an [InMemoryService].
type InMemoryOption func(*InMemoryService)

// WithLogger sets the logger used by the service.
func WithLogger(logger *slog.Logger) InMemoryOption {
	return func(s *InMemoryService) {
		s.logger = logger
	}
}

// NewInMemoryService creates a new [InMemoryService].
func NewInMemoryService(opts ...InMemoryOption) *InMemoryService {
	s := &InMemoryService{
		sessions:  make(map[string]map[string]map[string]*session),
		userState: make(map[string]map[string]map[string]any),
		appState:  make(map[string]map[string]any),
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}

	return s
}

// CreateSession creates a new session.
//
// Prefixed keys in the initial state are routed to their scope: "app:" keys
// to app state, "user:" keys to user state, "temp:" keys dropped.
func (s *InMemoryService) CreateSession(ctx context.Context, appName, userID, sessionID string, state map[string]any) (types.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if sessionID == "" {
		sessionID = uuid.NewString()
	}

	s.logger.InfoContext(ctx, "Creating session",
		slog.String("app_name", appName),
		slog.String("user_id", userID),
		slog.String("session_id", sessionID),
	)

	sessionState := make(map[string]any)
	for key, value := range state {
		switch {
		case strings.HasPrefix(key, types.AppPrefix):
			s.appStateFor(appName)[strings.TrimPrefix(key, types.AppPrefix)] = value
		case strings.HasPrefix(key, types.UserPrefix):
			s.userStateFor(appName, userID)[strings.TrimPrefix(key, types.UserPrefix)] = value
		case strings.HasPrefix(key, types.TempPrefix):
			// Never persisted.
		default:
			sessionState[key] = value
		}
	}

	ses := NewSession(appName, userID, sessionID, sessionState, time.Now()).(*session)

	if _, ok := s.sessions[appName]; !ok {
		s.sessions[appName] = make(map[string]map[string]*session)
	}
	if _, ok := s.sessions[appName][userID]; !ok {
		s.sessions[appName][userID] = make(map[string]*session)
	}
	s.sessions[appName][userID][sessionID] = ses

	copied, err := copySession(ses, nil)
	if err != nil {
		return nil, err
	}

	return s.mergeState(appName, userID, copied), nil
}

// GetSession retrieves a session by ID.
func (s *InMemoryService) GetSession(ctx context.Context, appName, userID, sessionID string, config *types.GetSessionConfig) (types.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ses, err := s.lookup(appName, userID, sessionID)
	if err != nil {
		return nil, err
	}

	copied, err := copySession(ses, config)
	if err != nil {
		return nil, err
	}

	return s.mergeState(appName, userID, copied), nil
}

// ListSessions lists all sessions for a user.
//
// The returned sessions carry no events and no state.
func (s *InMemoryService) ListSessions(ctx context.Context, appName, userID string) ([]types.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sessions := make([]types.Session, 0, len(s.sessions[appName][userID]))
	for _, ses := range s.sessions[appName][userID] {
		sessions = append(sessions, NewSession(ses.appName, ses.userID, ses.id, nil, ses.lastUpdateTime))
	}

	return sessions, nil
}

// DeleteSession deletes a session. Deleting a missing session is not an
// error.
func (s *InMemoryService) DeleteSession(ctx context.Context, appName, userID, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.logger.InfoContext(ctx, "Deleting session",
		slog.String("app_name", appName),
		slog.String("user_id", userID),
		slog.String("session_id", sessionID),
	)

	if users, ok := s.sessions[appName]; ok {
		delete(users[userID], sessionID)
	}
	return nil
}

// AppendEvent appends an event to a session and applies its state delta.
//
// Partial events are returned untouched without being persisted. Within the
// delta, "temp:" keys are dropped, "app:" and "user:" keys update their
// shared scope, and the rest update the session state; a nil value deletes
// the key.
func (s *InMemoryService) AppendEvent(ctx context.Context, ses types.Session, event *types.Event) (*types.Event, error) {
	if event.IsPartial() {
		return event, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	appName := ses.AppName()
	userID := ses.UserID()
	sessionID := ses.ID()

	s.logger.InfoContext(ctx, "Appending event to session",
		slog.String("app_name", appName),
		slog.String("user_id", userID),
		slog.String("session_id", sessionID),
		slog.String("event_id", event.ID),
	)

	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}

	// Update the caller's view.
	ses.AddEvent(event)
	ses.SetLastUpdateTime(event.Timestamp)

	stored, err := s.lookup(appName, userID, sessionID)
	if err != nil {
		// The caller holds a session that is no longer stored; the event still
		// applied to their copy.
		return event, nil
	}

	stored.AddEvent(event)
	stored.SetLastUpdateTime(event.Timestamp)

	if event.Actions != nil {
		for key, value := range event.Actions.StateDelta {
			switch {
			case strings.HasPrefix(key, types.TempPrefix):
			case strings.HasPrefix(key, types.AppPrefix):
				applyStateValue(s.appStateFor(appName), strings.TrimPrefix(key, types.AppPrefix), value)
			case strings.HasPrefix(key, types.UserPrefix):
				applyStateValue(s.userStateFor(appName, userID), strings.TrimPrefix(key, types.UserPrefix), value)
			default:
				applyStateValue(stored.state, key, value)
			}
		}
	}

	return event, nil
}

// ListEvents lists events for a session, oldest first. A maxEvents of zero or
// less means no limit; a non-nil since drops events at or before that time.
func (s *InMemoryService) ListEvents(ctx context.Context, appName, userID, sessionID string, maxEvents int, since *time.Time) ([]*types.Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ses, err := s.lookup(appName, userID, sessionID)
	if err != nil {
		return nil, err
	}

	config := &types.GetSessionConfig{NumRecentEvents: maxEvents}
	if since != nil {
		config.AfterTimestamp = *since
	}

	events := filterEvents(ses.events, config)
	out := make([]*types.Event, len(events))
	copy(out, events)
	return out, nil
}

// lookup returns the stored session. Callers must hold mu.
func (s *InMemoryService) lookup(appName, userID, sessionID string) (*session, error) {
	ses, ok := s.sessions[appName][userID][sessionID]
	if !ok {
		return nil, fmt.Errorf("session %s for user %s in app %s: %w", sessionID, userID, appName, types.ErrSessionNotFound)
	}
	return ses, nil
}

// appStateFor returns the app state map, creating it if needed. Callers must
// hold mu.
func (s *InMemoryService) appStateFor(appName string) map[string]any {
	state, ok := s.appState[appName]
	if !ok {
		state = make(map[string]any)
		s.appState[appName] = state
	}
	return state
}

// userStateFor returns the user state map, creating it if needed. Callers
// must hold mu.
func (s *InMemoryService) userStateFor(appName, userID string) map[string]any {
	if _, ok := s.userState[appName]; !ok {
		s.userState[appName] = make(map[string]map[string]any)
	}
	state, ok := s.userState[appName][userID]
	if !ok {
		state = make(map[string]any)
		s.userState[appName][userID] = state
	}
	return state
}

// applyStateValue writes one delta entry; nil deletes the key.
func applyStateValue(state map[string]any, key string, value any) {
	if value == nil {
		delete(state, key)
		return
	}
	state[key] = value
}

// copySession clones a stored session so callers cannot mutate shared state.
// Events are immutable once appended, so the slice is copied but the events
// themselves are shared.
func copySession(ses *session, config *types.GetSessionConfig) (*session, error) {
	var stateCopy map[string]any
	if err := deepcopy.Copy(&stateCopy, ses.state); err != nil {
		return nil, fmt.Errorf("copy session state: %w", err)
	}
	if stateCopy == nil {
		stateCopy = make(map[string]any)
	}

	copied := NewSession(ses.appName, ses.userID, ses.id, stateCopy, ses.lastUpdateTime).(*session)
	copied.AddEvent(filterEvents(ses.events, config)...)
	return copied, nil
}

// mergeState merges app and user state into the session state.
func (s *InMemoryService) mergeState(appName, userID string, ses *session) types.Session {
	for key, value := range s.appState[appName] {
		ses.state[types.AppPrefix+key] = value
	}
	if userStateByApp, ok := s.userState[appName]; ok {
		for key, value := range userStateByApp[userID] {
			ses.state[types.UserPrefix+key] = value
		}
	}
	return ses
}
