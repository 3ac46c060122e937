// Copyright 2025 The Go A2A Authors
// SPDX-License-Identifier: Apache-2.0

package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/go-a2a/adk-agui/pkg/logging"
	"github.com/go-a2a/adk-agui/pkg/py"
	"github.com/go-a2a/adk-agui/types"
)

// Default lifecycle settings for managed sessions.
const (
	// DefaultSessionTimeout is the idle age after which a session expires.
	DefaultSessionTimeout = 1200 * time.Second

	// DefaultCleanupInterval is how often the cleanup loop scans for
	// expired sessions.
	DefaultCleanupInterval = 300 * time.Second
)

// StateUpdateAuthor is the author recorded on synthetic state update events.
const StateUpdateAuthor = "system"

// sessionMeta records which application and user own a session ID.
type sessionMeta struct {
	appName string
	userID  string
}

// ManagerConfig configures a [Manager].
type ManagerConfig struct {
	// Service is the backing session store. Required.
	Service types.SessionService

	// MemoryService, when set, receives the events of deleted sessions so
	// past conversations stay searchable after expiry.
	MemoryService types.MemoryService

	// SessionTimeout is the idle age after which a session expires.
	// Defaults to [DefaultSessionTimeout].
	SessionTimeout time.Duration

	// CleanupInterval is how often the cleanup loop runs.
	// Defaults to [DefaultCleanupInterval].
	CleanupInterval time.Duration

	// MaxSessionsPerUser caps how many sessions a single user may hold at
	// once. Creating a session beyond the cap evicts the user's least
	// recently updated session. Zero or negative means unlimited.
	MaxSessionsPerUser int
}

// Manager tracks live sessions on top of a [types.SessionService] and owns
// their lifecycle: creation with per-user quota enforcement, state updates
// through synthetic events, a processed message ID ledger, and background
// expiry of idle sessions.
//
// All store failures on non-creating paths are logged and swallowed so a
// flaky backend degrades reads to "not found" instead of failing a run.
//
// Manager is safe for concurrent use.
type Manager struct {
	service types.SessionService
	memory  types.MemoryService

	sessionTimeout     time.Duration
	cleanupInterval    time.Duration
	maxSessionsPerUser int

	mu        sync.RWMutex
	keys      py.Set[string]            // tracked "{app}:{id}" keys
	userKeys  map[string]py.Set[string] // userID -> tracked keys
	processed map[string]py.Set[string] // tracked key -> processed message IDs
	meta      map[string]sessionMeta    // sessionID -> owning app/user

	cleanupCancel context.CancelFunc
	cleanupDone   chan struct{}
}

// NewManager creates a [Manager] backed by config.Service.
//
// The cleanup loop is not started; call [Manager.StartCleanup].
func NewManager(config ManagerConfig) (*Manager, error) {
	if config.Service == nil {
		return nil, errors.New("session: manager requires a session service")
	}
	if config.SessionTimeout <= 0 {
		config.SessionTimeout = DefaultSessionTimeout
	}
	if config.CleanupInterval <= 0 {
		config.CleanupInterval = DefaultCleanupInterval
	}

	return &Manager{
		service:            config.Service,
		memory:             config.MemoryService,
		sessionTimeout:     config.SessionTimeout,
		cleanupInterval:    config.CleanupInterval,
		maxSessionsPerUser: config.MaxSessionsPerUser,
		keys:               py.NewSet[string](),
		userKeys:           make(map[string]py.Set[string]),
		processed:          make(map[string]py.Set[string]),
		meta:               make(map[string]sessionMeta),
	}, nil
}

// Service returns the backing session store.
func (m *Manager) Service() types.SessionService {
	return m.service
}

// GetOrCreate returns the session identified by (appName, userID, sessionID),
// creating it with initialState if it does not exist. Existing sessions are
// re-tracked so the registry recovers after a restart.
func (m *Manager) GetOrCreate(ctx context.Context, appName, userID, sessionID string, initialState map[string]any) (types.Session, error) {
	logger := logging.FromContext(ctx)
	key := Key(appName, sessionID)

	sess, err := m.service.GetSession(ctx, appName, userID, sessionID, nil)
	switch {
	case err == nil && sess != nil:
		m.track(appName, userID, sessionID)
		return sess, nil
	case err != nil && !errors.Is(err, types.ErrSessionNotFound):
		return nil, fmt.Errorf("get session %s: %w", key, err)
	}

	m.enforceUserQuota(ctx, userID)

	sess, err = m.service.CreateSession(ctx, appName, userID, sessionID, initialState)
	if err != nil {
		return nil, fmt.Errorf("create session %s: %w", key, err)
	}
	m.track(appName, userID, sessionID)
	logger.Debug("created session", slog.String("session_key", key), slog.String("user_id", userID))

	return sess, nil
}

// enforceUserQuota evicts the user's least recently updated session when the
// user is at the per-user cap and a new session is about to be created.
func (m *Manager) enforceUserQuota(ctx context.Context, userID string) {
	if m.maxSessionsPerUser <= 0 {
		return
	}

	m.mu.RLock()
	keys := m.userKeys[userID].UnsortedList()
	m.mu.RUnlock()
	if len(keys) < m.maxSessionsPerUser {
		return
	}

	logger := logging.FromContext(ctx)
	var (
		oldestApp, oldestID string
		oldestTime          time.Time
		found               bool
	)
	for _, key := range keys {
		appName, sessionID, ok := SplitKey(key)
		if !ok {
			continue
		}
		sess, err := m.service.GetSession(ctx, appName, userID, sessionID, nil)
		if err != nil || sess == nil {
			// The store no longer has it; drop the stale registry entry.
			m.untrack(appName, userID, sessionID)
			continue
		}
		if !found || sess.LastUpdateTime().Before(oldestTime) {
			oldestApp, oldestID, oldestTime = appName, sessionID, sess.LastUpdateTime()
			found = true
		}
	}
	if !found {
		return
	}

	logger.Info("evicting session over user quota",
		slog.String("session_key", Key(oldestApp, oldestID)),
		slog.String("user_id", userID),
		slog.Int("max_sessions", m.maxSessionsPerUser),
	)
	m.DeleteSession(ctx, oldestApp, userID, oldestID)
}

// UpdateState applies delta to the session state by appending a synthetic
// state update event, so every mutation stays on the event record. Reports
// whether the update was applied; an empty delta and store failures both
// report false.
func (m *Manager) UpdateState(ctx context.Context, appName, userID, sessionID string, delta map[string]any) bool {
	if len(delta) == 0 {
		return false
	}
	logger := logging.FromContext(ctx)

	sess, err := m.service.GetSession(ctx, appName, userID, sessionID, nil)
	if err != nil || sess == nil {
		logger.Warn("state update on unavailable session",
			slog.String("session_key", Key(appName, sessionID)),
			slog.Any("error", err),
		)
		return false
	}

	event := types.NewEvent().
		WithInvocationID(fmt.Sprintf("state_update_%d", time.Now().Unix())).
		WithAuthor(StateUpdateAuthor).
		WithActions(types.NewEventActions().WithStateDelta(delta))
	if _, err := m.service.AppendEvent(ctx, sess, event); err != nil {
		logger.Warn("append state update event",
			slog.String("session_key", Key(appName, sessionID)),
			slog.Any("error", err),
		)
		return false
	}

	return true
}

// GetState returns the merged state of the session, or nil if the session is
// unavailable.
func (m *Manager) GetState(ctx context.Context, appName, userID, sessionID string) map[string]any {
	sess, err := m.service.GetSession(ctx, appName, userID, sessionID, nil)
	if err != nil || sess == nil {
		return nil
	}
	return sess.State()
}

// GetStateValue returns the value stored under key in the session state, or
// def when the session or the key is missing.
func (m *Manager) GetStateValue(ctx context.Context, appName, userID, sessionID, key string, def any) any {
	state := m.GetState(ctx, appName, userID, sessionID)
	if state == nil {
		return def
	}
	value, ok := state[key]
	if !ok {
		return def
	}
	return value
}

// SetStateValue stores a single value in the session state.
func (m *Manager) SetStateValue(ctx context.Context, appName, userID, sessionID, key string, value any) bool {
	return m.UpdateState(ctx, appName, userID, sessionID, map[string]any{key: value})
}

// RemoveStateKeys deletes the given keys from the session state. Missing keys
// are ignored by the store.
func (m *Manager) RemoveStateKeys(ctx context.Context, appName, userID, sessionID string, keys ...string) bool {
	if len(keys) == 0 {
		return false
	}
	delta := make(map[string]any, len(keys))
	for _, key := range keys {
		delta[key] = nil
	}
	return m.UpdateState(ctx, appName, userID, sessionID, delta)
}

// ClearState deletes every key from the session state except those starting
// with one of preservePrefixes. Pass [types.AppPrefix] or [types.UserPrefix]
// to keep the shared tiers intact.
func (m *Manager) ClearState(ctx context.Context, appName, userID, sessionID string, preservePrefixes ...string) bool {
	state := m.GetState(ctx, appName, userID, sessionID)
	if len(state) == 0 {
		return false
	}

	delta := make(map[string]any, len(state))
	for key := range state {
		preserved := false
		for _, prefix := range preservePrefixes {
			if strings.HasPrefix(key, prefix) {
				preserved = true
				break
			}
		}
		if !preserved {
			delta[key] = nil
		}
	}

	return m.UpdateState(ctx, appName, userID, sessionID, delta)
}

// InitializeState seeds the session state with initialState, creating the
// session if needed. An existing non-empty state is left untouched unless
// overwrite is true. Reports whether the state was applied.
func (m *Manager) InitializeState(ctx context.Context, appName, userID, sessionID string, initialState map[string]any, overwrite bool) bool {
	sess, err := m.GetOrCreate(ctx, appName, userID, sessionID, nil)
	if err != nil {
		logging.FromContext(ctx).Warn("initialize state",
			slog.String("session_key", Key(appName, sessionID)),
			slog.Any("error", err),
		)
		return false
	}
	if !overwrite && len(sess.State()) > 0 {
		return false
	}
	return m.UpdateState(ctx, appName, userID, sessionID, initialState)
}

// BulkUpdateUserState applies one state delta to every session tracked for
// the user. A non-empty appName restricts the fan-out to that application's
// sessions; the others are left untouched and absent from the result. The
// result maps each session key to whether its update was applied.
func (m *Manager) BulkUpdateUserState(ctx context.Context, userID string, delta map[string]any, appName string) map[string]bool {
	m.mu.RLock()
	keys := m.userKeys[userID].UnsortedList()
	m.mu.RUnlock()

	results := make(map[string]bool, len(keys))
	for _, key := range keys {
		app, sessionID, ok := SplitKey(key)
		if !ok {
			continue
		}
		if appName != "" && app != appName {
			continue
		}
		results[key] = m.UpdateState(ctx, app, userID, sessionID, delta)
	}

	return results
}

// MarkMessagesProcessed records message IDs as already forwarded to the
// runtime for the given session, so later runs only replay the unseen suffix
// of the client transcript. Empty IDs are ignored; a message without an ID
// cannot be recognized on replay and stays unseen.
func (m *Manager) MarkMessagesProcessed(appName, sessionID string, messageIDs ...string) {
	if len(messageIDs) == 0 {
		return
	}
	key := Key(appName, sessionID)

	m.mu.Lock()
	defer m.mu.Unlock()
	ids, ok := m.processed[key]
	if !ok {
		ids = py.NewSet[string]()
		m.processed[key] = ids
	}
	for _, id := range messageIDs {
		if id != "" {
			ids.Insert(id)
		}
	}
}

// ProcessedMessageIDs returns a copy of the processed message ID ledger for
// the given session.
func (m *Manager) ProcessedMessageIDs(appName, sessionID string) py.Set[string] {
	m.mu.RLock()
	defer m.mu.RUnlock()
	ids, ok := m.processed[Key(appName, sessionID)]
	if !ok {
		return py.NewSet[string]()
	}
	return ids.Clone()
}

// Lookup resolves a bare session ID to the application and user that own it,
// consulting the metadata cache first and falling back to a scan of the
// tracked keys.
func (m *Manager) Lookup(sessionID string) (appName, userID string, ok bool) {
	m.mu.RLock()
	if sm, found := m.meta[sessionID]; found {
		m.mu.RUnlock()
		return sm.appName, sm.userID, true
	}
	var key string
	for k := range m.keys {
		if app, id, valid := SplitKey(k); valid && id == sessionID {
			appName, key = app, k
			break
		}
	}
	if key != "" {
		for user, keys := range m.userKeys {
			if keys.Has(key) {
				userID = user
				break
			}
		}
	}
	m.mu.RUnlock()

	if key == "" || userID == "" {
		return "", "", false
	}

	m.mu.Lock()
	m.meta[sessionID] = sessionMeta{appName: appName, userID: userID}
	m.mu.Unlock()
	return appName, userID, true
}

// DeleteSession removes a session from the store and the registry. When a
// memory service is configured, the session's events are archived there
// first. Store failures are logged; the registry entry is dropped either way
// so a broken backend cannot pin sessions forever.
func (m *Manager) DeleteSession(ctx context.Context, appName, userID, sessionID string) bool {
	logger := logging.FromContext(ctx)
	key := Key(appName, sessionID)

	if m.memory != nil {
		sess, err := m.service.GetSession(ctx, appName, userID, sessionID, nil)
		if err == nil && sess != nil && len(sess.Events()) > 0 {
			if err := m.memory.AddSessionToMemory(ctx, sess); err != nil {
				logger.Warn("archive session to memory", slog.String("session_key", key), slog.Any("error", err))
			}
		}
	}

	deleted := true
	if err := m.service.DeleteSession(ctx, appName, userID, sessionID); err != nil {
		logger.Warn("delete session", slog.String("session_key", key), slog.Any("error", err))
		deleted = false
	}
	m.untrack(appName, userID, sessionID)
	logger.Debug("removed session", slog.String("session_key", key))

	return deleted
}

// SessionCount returns how many sessions the manager currently tracks.
func (m *Manager) SessionCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.keys.Len()
}

// UserSessionCount returns how many tracked sessions belong to userID.
func (m *Manager) UserSessionCount(userID string) int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.userKeys[userID].Len()
}

// track registers a session in the registry and primes the lookup cache.
func (m *Manager) track(appName, userID, sessionID string) {
	key := Key(appName, sessionID)

	m.mu.Lock()
	defer m.mu.Unlock()
	m.keys.Insert(key)
	keys, ok := m.userKeys[userID]
	if !ok {
		keys = py.NewSet[string]()
		m.userKeys[userID] = keys
	}
	keys.Insert(key)
	m.meta[sessionID] = sessionMeta{appName: appName, userID: userID}
}

// untrack removes a session from the registry, its ledger, and the lookup
// cache. Leaving a stale lookup entry would resurrect deleted sessions under
// the wrong identity, so the cache entry goes with the registration.
func (m *Manager) untrack(appName, userID, sessionID string) {
	key := Key(appName, sessionID)

	m.mu.Lock()
	defer m.mu.Unlock()
	m.keys.Delete(key)
	if keys, ok := m.userKeys[userID]; ok {
		keys.Delete(key)
		if keys.Len() == 0 {
			delete(m.userKeys, userID)
		}
	}
	delete(m.processed, key)
	delete(m.meta, sessionID)
}

// StartCleanup launches the background expiry loop. The loop stops when ctx
// is canceled or [Manager.Stop] is called. Calling StartCleanup again while
// the loop runs is a no-op.
func (m *Manager) StartCleanup(ctx context.Context) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.cleanupCancel != nil {
		return
	}

	cctx, cancel := context.WithCancel(ctx)
	m.cleanupCancel = cancel
	m.cleanupDone = make(chan struct{})
	go m.cleanupLoop(cctx, m.cleanupDone)
}

// Stop halts the cleanup loop and waits for it to exit. Safe to call when
// the loop was never started.
func (m *Manager) Stop() {
	m.mu.Lock()
	cancel, done := m.cleanupCancel, m.cleanupDone
	m.cleanupCancel, m.cleanupDone = nil, nil
	m.mu.Unlock()

	if cancel == nil {
		return
	}
	cancel()
	<-done
}

func (m *Manager) cleanupLoop(ctx context.Context, done chan<- struct{}) {
	defer close(done)
	logger := logging.FromContext(ctx)

	ticker := time.NewTicker(m.cleanupInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := m.CleanupExpiredSessions(ctx); n > 0 {
				logger.Debug("cleaned up expired sessions", slog.Int("count", n))
			}
		}
	}
}

// CleanupExpiredSessions deletes every tracked session whose idle age exceeds
// the session timeout and returns how many were removed. Sessions with
// pending tool calls are waiting on the client and never expire here; they
// are reaped once the result arrives and the pending marker clears.
func (m *Manager) CleanupExpiredSessions(ctx context.Context) int {
	logger := logging.FromContext(ctx)

	m.mu.RLock()
	tracked := make([]sessionMeta, 0, len(m.meta))
	ids := make([]string, 0, len(m.meta))
	for sessionID, sm := range m.meta {
		tracked = append(tracked, sm)
		ids = append(ids, sessionID)
	}
	m.mu.RUnlock()

	removed := 0
	for i, sm := range tracked {
		sessionID := ids[i]
		sess, err := m.service.GetSession(ctx, sm.appName, sm.userID, sessionID, nil)
		if err != nil || sess == nil {
			m.untrack(sm.appName, sm.userID, sessionID)
			continue
		}
		if time.Since(sess.LastUpdateTime()) <= m.sessionTimeout {
			continue
		}
		if pending := PendingToolCalls(sess.State()); len(pending) > 0 {
			logger.Debug("skipping expiry of session awaiting tool results",
				slog.String("session_key", Key(sm.appName, sessionID)),
				slog.Int("pending_tool_calls", len(pending)),
			)
			continue
		}
		if m.DeleteSession(ctx, sm.appName, sm.userID, sessionID) {
			removed++
		}
	}

	return removed
}
