// Copyright 2025 The Go A2A Authors
// SPDX-License-Identifier: Apache-2.0

package session

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/go-a2a/adk-agui/types"
)

// DefaultRedisKeyPrefix namespaces every key written by [RedisService].
const DefaultRedisKeyPrefix = "adk:"

// RedisService is a Redis-backed implementation of [types.SessionService].
//
// Each session is stored as two keys: a JSON record with the session state
// and update clock, and a list holding the serialized events in append order.
// App and user scoped state live in their own keys so they are shared across
// sessions and survive session expiry.
//
// The service does not guard concurrent writers of the same session with
// transactions; the bridge serializes executions per thread, so each session
// has a single writer.
type RedisService struct {
	client redis.UniversalClient
	prefix string
	ttl    time.Duration
}

var _ types.SessionService = (*RedisService)(nil)

// RedisOption configures a [RedisService].
type RedisOption func(*RedisService)

// WithRedisKeyPrefix overrides the key namespace. The default is
// [DefaultRedisKeyPrefix].
func WithRedisKeyPrefix(prefix string) RedisOption {
	return func(s *RedisService) {
		s.prefix = prefix
	}
}

// WithRedisTTL sets an expiry on session records and their event lists.
// Shared app and user state never expires. Zero means no expiry.
func WithRedisTTL(ttl time.Duration) RedisOption {
	return func(s *RedisService) {
		s.ttl = ttl
	}
}

// NewRedisService creates a [RedisService] on top of client. The client is
// owned by the caller.
func NewRedisService(client redis.UniversalClient, opts ...RedisOption) *RedisService {
	s := &RedisService{
		client: client,
		prefix: DefaultRedisKeyPrefix,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *RedisService) sessionKey(appName, userID, sessionID string) string {
	return fmt.Sprintf("%ssession:%s:%s:%s", s.prefix, appName, userID, sessionID)
}

func (s *RedisService) eventsKey(appName, userID, sessionID string) string {
	return fmt.Sprintf("%sevents:%s:%s:%s", s.prefix, appName, userID, sessionID)
}

func (s *RedisService) appStateKey(appName string) string {
	return s.prefix + "appstate:" + appName
}

func (s *RedisService) userStateKey(appName, userID string) string {
	return fmt.Sprintf("%suserstate:%s:%s", s.prefix, appName, userID)
}

// CreateSession creates a session record, routing prefixed keys of the
// initial state into their shared scopes. An existing record with the same ID
// is replaced.
func (s *RedisService) CreateSession(ctx context.Context, appName, userID, sessionID string, state map[string]any) (types.Session, error) {
	if sessionID == "" {
		sessionID = uuid.NewString()
	}

	appDelta, userDelta, sessionState := splitStateScopes(state)
	appState, err := s.updateSharedState(ctx, s.appStateKey(appName), appDelta)
	if err != nil {
		return nil, err
	}
	userState, err := s.updateSharedState(ctx, s.userStateKey(appName, userID), userDelta)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	raw, err := encodeStoredSession(storedSession{State: sessionState, LastUpdateTime: now})
	if err != nil {
		return nil, err
	}
	if err := s.client.Set(ctx, s.sessionKey(appName, userID, sessionID), raw, s.ttl).Err(); err != nil {
		return nil, fmt.Errorf("store session %s: %w", sessionID, err)
	}

	return NewSession(appName, userID, sessionID, mergeStateScopes(sessionState, appState, userState), now), nil
}

// GetSession loads a session with its events, the shared scopes merged into
// the state under their prefixes.
func (s *RedisService) GetSession(ctx context.Context, appName, userID, sessionID string, config *types.GetSessionConfig) (types.Session, error) {
	raw, err := s.client.Get(ctx, s.sessionKey(appName, userID, sessionID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, fmt.Errorf("session %s for user %s in app %s: %w", sessionID, userID, appName, types.ErrSessionNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("load session %s: %w", sessionID, err)
	}
	blob, err := decodeStoredSession(raw)
	if err != nil {
		return nil, err
	}

	events, err := s.loadEvents(ctx, appName, userID, sessionID)
	if err != nil {
		return nil, err
	}
	appState, err := s.loadState(ctx, s.appStateKey(appName))
	if err != nil {
		return nil, err
	}
	userState, err := s.loadState(ctx, s.userStateKey(appName, userID))
	if err != nil {
		return nil, err
	}

	ses := NewSession(appName, userID, sessionID, mergeStateScopes(blob.State, appState, userState), blob.LastUpdateTime)
	ses.AddEvent(filterEvents(events, config)...)
	return ses, nil
}

// ListSessions lists the user's sessions by scanning the session keyspace.
//
// The returned sessions carry no events and no state.
func (s *RedisService) ListSessions(ctx context.Context, appName, userID string) ([]types.Session, error) {
	keyPrefix := s.sessionKey(appName, userID, "")

	var keys []string
	iter := s.client.Scan(ctx, 0, keyPrefix+"*", 100).Iterator()
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("scan sessions for %s/%s: %w", appName, userID, err)
	}
	if len(keys) == 0 {
		return nil, nil
	}

	raws, err := s.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, fmt.Errorf("load sessions for %s/%s: %w", appName, userID, err)
	}

	sessions := make([]types.Session, 0, len(keys))
	for i, raw := range raws {
		text, ok := raw.(string)
		if !ok {
			// Key expired between SCAN and MGET.
			continue
		}
		blob, err := decodeStoredSession([]byte(text))
		if err != nil {
			return nil, err
		}
		sessionID := strings.TrimPrefix(keys[i], keyPrefix)
		sessions = append(sessions, NewSession(appName, userID, sessionID, nil, blob.LastUpdateTime))
	}
	return sessions, nil
}

// DeleteSession removes the session record and its events. Deleting a missing
// session is not an error.
func (s *RedisService) DeleteSession(ctx context.Context, appName, userID, sessionID string) error {
	err := s.client.Del(ctx,
		s.sessionKey(appName, userID, sessionID),
		s.eventsKey(appName, userID, sessionID),
	).Err()
	if err != nil {
		return fmt.Errorf("delete session %s: %w", sessionID, err)
	}
	return nil
}

// AppendEvent appends an event to the session's event list and applies its
// state delta across the three scopes.
//
// Partial events are returned untouched without being persisted. If the
// session record no longer exists, the event still applies to the caller's
// copy, mirroring the in-memory service.
func (s *RedisService) AppendEvent(ctx context.Context, ses types.Session, event *types.Event) (*types.Event, error) {
	if event.IsPartial() {
		return event, nil
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}

	ses.AddEvent(event)
	ses.SetLastUpdateTime(event.Timestamp)

	appName, userID, sessionID := ses.AppName(), ses.UserID(), ses.ID()
	raw, err := s.client.Get(ctx, s.sessionKey(appName, userID, sessionID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return event, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load session %s: %w", sessionID, err)
	}
	blob, err := decodeStoredSession(raw)
	if err != nil {
		return nil, err
	}

	if event.Actions != nil && len(event.Actions.StateDelta) > 0 {
		appDelta, userDelta, sessionDelta := splitStateScopes(event.Actions.StateDelta)
		for key, value := range sessionDelta {
			applyStateValue(blob.State, key, value)
		}
		if len(appDelta) > 0 {
			if _, err := s.updateSharedState(ctx, s.appStateKey(appName), appDelta); err != nil {
				return nil, err
			}
		}
		if len(userDelta) > 0 {
			if _, err := s.updateSharedState(ctx, s.userStateKey(appName, userID), userDelta); err != nil {
				return nil, err
			}
		}
	}
	blob.LastUpdateTime = event.Timestamp

	encodedBlob, err := encodeStoredSession(blob)
	if err != nil {
		return nil, err
	}
	encodedEvent, err := encodeEvent(event)
	if err != nil {
		return nil, err
	}

	eventsKey := s.eventsKey(appName, userID, sessionID)
	pipe := s.client.TxPipeline()
	pipe.Set(ctx, s.sessionKey(appName, userID, sessionID), encodedBlob, s.ttl)
	pipe.RPush(ctx, eventsKey, encodedEvent)
	if s.ttl > 0 {
		pipe.Expire(ctx, eventsKey, s.ttl)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return nil, fmt.Errorf("append event to session %s: %w", sessionID, err)
	}

	return event, nil
}

// ListEvents lists events for a session, oldest first. A maxEvents of zero or
// less means no limit; a non-nil since drops events at or before that time.
func (s *RedisService) ListEvents(ctx context.Context, appName, userID, sessionID string, maxEvents int, since *time.Time) ([]*types.Event, error) {
	if err := s.client.Get(ctx, s.sessionKey(appName, userID, sessionID)).Err(); errors.Is(err, redis.Nil) {
		return nil, fmt.Errorf("session %s for user %s in app %s: %w", sessionID, userID, appName, types.ErrSessionNotFound)
	} else if err != nil {
		return nil, fmt.Errorf("load session %s: %w", sessionID, err)
	}

	events, err := s.loadEvents(ctx, appName, userID, sessionID)
	if err != nil {
		return nil, err
	}

	config := &types.GetSessionConfig{NumRecentEvents: maxEvents}
	if since != nil {
		config.AfterTimestamp = *since
	}
	return filterEvents(events, config), nil
}

func (s *RedisService) loadEvents(ctx context.Context, appName, userID, sessionID string) ([]*types.Event, error) {
	raws, err := s.client.LRange(ctx, s.eventsKey(appName, userID, sessionID), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("load events for session %s: %w", sessionID, err)
	}
	events := make([]*types.Event, 0, len(raws))
	for _, raw := range raws {
		event, err := decodeEvent([]byte(raw))
		if err != nil {
			return nil, err
		}
		events = append(events, event)
	}
	return events, nil
}

func (s *RedisService) loadState(ctx context.Context, key string) (map[string]any, error) {
	raw, err := s.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return make(map[string]any), nil
	}
	if err != nil {
		return nil, fmt.Errorf("load state %s: %w", key, err)
	}
	blob, err := decodeStoredSession(raw)
	if err != nil {
		return nil, err
	}
	return blob.State, nil
}

// updateSharedState applies already-stripped delta keys onto the shared state
// stored at key and persists the result. Shared scopes never expire. The
// returned map is the state after the update.
func (s *RedisService) updateSharedState(ctx context.Context, key string, delta map[string]any) (map[string]any, error) {
	state, err := s.loadState(ctx, key)
	if err != nil {
		return nil, err
	}
	if len(delta) == 0 {
		return state, nil
	}
	for k, v := range delta {
		applyStateValue(state, k, v)
	}
	raw, err := encodeStoredSession(storedSession{State: state})
	if err != nil {
		return nil, err
	}
	if err := s.client.Set(ctx, key, raw, 0).Err(); err != nil {
		return nil, fmt.Errorf("store state %s: %w", key, err)
	}
	return state, nil
}
