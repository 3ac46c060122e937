// Copyright 2025 The Go A2A Authors
// SPDX-License-Identifier: Apache-2.0

package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/go-a2a/adk-agui/types"
)

// postgresSchema creates the tables used by [PostgresService]. Events are
// append-only; their serial ID preserves insertion order across identical
// timestamps.
const postgresSchema = `
CREATE TABLE IF NOT EXISTS adk_app_state (
	app_name TEXT PRIMARY KEY,
	state JSONB NOT NULL DEFAULT '{}'::jsonb
);

CREATE TABLE IF NOT EXISTS adk_user_state (
	app_name TEXT NOT NULL,
	user_id TEXT NOT NULL,
	state JSONB NOT NULL DEFAULT '{}'::jsonb,
	PRIMARY KEY (app_name, user_id)
);

CREATE TABLE IF NOT EXISTS adk_sessions (
	app_name TEXT NOT NULL,
	user_id TEXT NOT NULL,
	session_id TEXT NOT NULL,
	state JSONB NOT NULL DEFAULT '{}'::jsonb,
	last_update_time TIMESTAMPTZ NOT NULL DEFAULT now(),
	PRIMARY KEY (app_name, user_id, session_id)
);

CREATE TABLE IF NOT EXISTS adk_session_events (
	id BIGSERIAL PRIMARY KEY,
	app_name TEXT NOT NULL,
	user_id TEXT NOT NULL,
	session_id TEXT NOT NULL,
	event JSONB NOT NULL,
	created_at TIMESTAMPTZ NOT NULL
);

CREATE INDEX IF NOT EXISTS adk_session_events_session_idx
	ON adk_session_events (app_name, user_id, session_id, id);
`

// pgxQuerier is the querying surface shared by *pgxpool.Pool and pgx.Tx, so
// the same helpers run inside and outside transactions.
type pgxQuerier interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// PostgresService is a PostgreSQL-backed implementation of
// [types.SessionService] on top of a pgx connection pool.
//
// Sessions, their events, and the shared app and user state scopes each live
// in their own table; multi-row writes run in a transaction. The pool is
// owned by the caller.
type PostgresService struct {
	pool *pgxpool.Pool
}

var _ types.SessionService = (*PostgresService)(nil)

// NewPostgresService creates a [PostgresService] on top of pool.
func NewPostgresService(pool *pgxpool.Pool) *PostgresService {
	return &PostgresService{pool: pool}
}

// CreateSchema creates the backing tables if they do not exist.
func (s *PostgresService) CreateSchema(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, postgresSchema); err != nil {
		return fmt.Errorf("create session schema: %w", err)
	}
	return nil
}

// CreateSession creates a session row, routing prefixed keys of the initial
// state into their shared scope tables. An existing row with the same ID is
// replaced.
func (s *PostgresService) CreateSession(ctx context.Context, appName, userID, sessionID string, state map[string]any) (types.Session, error) {
	if sessionID == "" {
		sessionID = uuid.NewString()
	}

	appDelta, userDelta, sessionState := splitStateScopes(state)
	now := time.Now()

	var appState, userState map[string]any
	err := s.withTx(ctx, func(tx pgx.Tx) error {
		var err error
		if appState, err = s.updateAppState(ctx, tx, appName, appDelta); err != nil {
			return err
		}
		if userState, err = s.updateUserState(ctx, tx, appName, userID, userDelta); err != nil {
			return err
		}

		raw, err := sonicMarshalState(sessionState)
		if err != nil {
			return err
		}
		_, err = tx.Exec(ctx, `
			INSERT INTO adk_sessions (app_name, user_id, session_id, state, last_update_time)
			VALUES ($1, $2, $3, $4, $5)
			ON CONFLICT (app_name, user_id, session_id)
			DO UPDATE SET state = EXCLUDED.state, last_update_time = EXCLUDED.last_update_time`,
			appName, userID, sessionID, raw, now,
		)
		if err != nil {
			return fmt.Errorf("store session %s: %w", sessionID, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return NewSession(appName, userID, sessionID, mergeStateScopes(sessionState, appState, userState), now), nil
}

// GetSession loads a session row with its events, the shared scopes merged
// into the state under their prefixes.
func (s *PostgresService) GetSession(ctx context.Context, appName, userID, sessionID string, config *types.GetSessionConfig) (types.Session, error) {
	var (
		raw        []byte
		lastUpdate time.Time
	)
	err := s.pool.QueryRow(ctx, `
		SELECT state, last_update_time FROM adk_sessions
		WHERE app_name = $1 AND user_id = $2 AND session_id = $3`,
		appName, userID, sessionID,
	).Scan(&raw, &lastUpdate)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("session %s for user %s in app %s: %w", sessionID, userID, appName, types.ErrSessionNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("load session %s: %w", sessionID, err)
	}
	sessionState, err := sonicUnmarshalState(raw)
	if err != nil {
		return nil, err
	}

	events, err := s.loadEvents(ctx, appName, userID, sessionID)
	if err != nil {
		return nil, err
	}
	appState, err := s.loadAppState(ctx, s.pool, appName)
	if err != nil {
		return nil, err
	}
	userState, err := s.loadUserState(ctx, s.pool, appName, userID)
	if err != nil {
		return nil, err
	}

	ses := NewSession(appName, userID, sessionID, mergeStateScopes(sessionState, appState, userState), lastUpdate)
	ses.AddEvent(filterEvents(events, config)...)
	return ses, nil
}

// ListSessions lists the user's sessions.
//
// The returned sessions carry no events and no state.
func (s *PostgresService) ListSessions(ctx context.Context, appName, userID string) ([]types.Session, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT session_id, last_update_time FROM adk_sessions
		WHERE app_name = $1 AND user_id = $2`,
		appName, userID,
	)
	if err != nil {
		return nil, fmt.Errorf("list sessions for %s/%s: %w", appName, userID, err)
	}
	defer rows.Close()

	var sessions []types.Session
	for rows.Next() {
		var (
			sessionID  string
			lastUpdate time.Time
		)
		if err := rows.Scan(&sessionID, &lastUpdate); err != nil {
			return nil, fmt.Errorf("scan session row: %w", err)
		}
		sessions = append(sessions, NewSession(appName, userID, sessionID, nil, lastUpdate))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list sessions for %s/%s: %w", appName, userID, err)
	}
	return sessions, nil
}

// DeleteSession removes the session row and its events. Deleting a missing
// session is not an error.
func (s *PostgresService) DeleteSession(ctx context.Context, appName, userID, sessionID string) error {
	return s.withTx(ctx, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `
			DELETE FROM adk_session_events
			WHERE app_name = $1 AND user_id = $2 AND session_id = $3`,
			appName, userID, sessionID,
		); err != nil {
			return fmt.Errorf("delete events for session %s: %w", sessionID, err)
		}
		if _, err := tx.Exec(ctx, `
			DELETE FROM adk_sessions
			WHERE app_name = $1 AND user_id = $2 AND session_id = $3`,
			appName, userID, sessionID,
		); err != nil {
			return fmt.Errorf("delete session %s: %w", sessionID, err)
		}
		return nil
	})
}

// AppendEvent inserts an event row and applies its state delta across the
// three scopes in one transaction.
//
// Partial events are returned untouched without being persisted. If the
// session row no longer exists, the event still applies to the caller's copy,
// mirroring the in-memory service.
func (s *PostgresService) AppendEvent(ctx context.Context, ses types.Session, event *types.Event) (*types.Event, error) {
	if event.IsPartial() {
		return event, nil
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}

	ses.AddEvent(event)
	ses.SetLastUpdateTime(event.Timestamp)

	appName, userID, sessionID := ses.AppName(), ses.UserID(), ses.ID()
	encodedEvent, err := encodeEvent(event)
	if err != nil {
		return nil, err
	}

	err = s.withTx(ctx, func(tx pgx.Tx) error {
		var raw []byte
		err := tx.QueryRow(ctx, `
			SELECT state FROM adk_sessions
			WHERE app_name = $1 AND user_id = $2 AND session_id = $3
			FOR UPDATE`,
			appName, userID, sessionID,
		).Scan(&raw)
		if errors.Is(err, pgx.ErrNoRows) {
			// The caller holds a session that is no longer stored; the event
			// still applied to their copy.
			return nil
		}
		if err != nil {
			return fmt.Errorf("load session %s: %w", sessionID, err)
		}
		sessionState, err := sonicUnmarshalState(raw)
		if err != nil {
			return err
		}

		if event.Actions != nil && len(event.Actions.StateDelta) > 0 {
			appDelta, userDelta, sessionDelta := splitStateScopes(event.Actions.StateDelta)
			for key, value := range sessionDelta {
				applyStateValue(sessionState, key, value)
			}
			if _, err := s.updateAppState(ctx, tx, appName, appDelta); err != nil {
				return err
			}
			if _, err := s.updateUserState(ctx, tx, appName, userID, userDelta); err != nil {
				return err
			}
		}

		updated, err := sonicMarshalState(sessionState)
		if err != nil {
			return err
		}
		if _, err := tx.Exec(ctx, `
			UPDATE adk_sessions SET state = $4, last_update_time = $5
			WHERE app_name = $1 AND user_id = $2 AND session_id = $3`,
			appName, userID, sessionID, updated, event.Timestamp,
		); err != nil {
			return fmt.Errorf("update session %s: %w", sessionID, err)
		}
		if _, err := tx.Exec(ctx, `
			INSERT INTO adk_session_events (app_name, user_id, session_id, event, created_at)
			VALUES ($1, $2, $3, $4, $5)`,
			appName, userID, sessionID, encodedEvent, event.Timestamp,
		); err != nil {
			return fmt.Errorf("insert event for session %s: %w", sessionID, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return event, nil
}

// ListEvents lists events for a session, oldest first. A maxEvents of zero or
// less means no limit; a non-nil since drops events at or before that time.
func (s *PostgresService) ListEvents(ctx context.Context, appName, userID, sessionID string, maxEvents int, since *time.Time) ([]*types.Event, error) {
	var exists bool
	err := s.pool.QueryRow(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM adk_sessions
			WHERE app_name = $1 AND user_id = $2 AND session_id = $3
		)`,
		appName, userID, sessionID,
	).Scan(&exists)
	if err != nil {
		return nil, fmt.Errorf("load session %s: %w", sessionID, err)
	}
	if !exists {
		return nil, fmt.Errorf("session %s for user %s in app %s: %w", sessionID, userID, appName, types.ErrSessionNotFound)
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

// withTx runs fn in a transaction, committing on success.
func (s *PostgresService) withTx(ctx context.Context, fn func(tx pgx.Tx) error) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if err := fn(tx); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

func (s *PostgresService) loadEvents(ctx context.Context, appName, userID, sessionID string) ([]*types.Event, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT event FROM adk_session_events
		WHERE app_name = $1 AND user_id = $2 AND session_id = $3
		ORDER BY id`,
		appName, userID, sessionID,
	)
	if err != nil {
		return nil, fmt.Errorf("load events for session %s: %w", sessionID, err)
	}
	defer rows.Close()

	var events []*types.Event
	for rows.Next() {
		var raw []byte
		if err := rows.Scan(&raw); err != nil {
			return nil, fmt.Errorf("scan event row: %w", err)
		}
		event, err := decodeEvent(raw)
		if err != nil {
			return nil, err
		}
		events = append(events, event)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("load events for session %s: %w", sessionID, err)
	}
	return events, nil
}

func (s *PostgresService) loadAppState(ctx context.Context, q pgxQuerier, appName string) (map[string]any, error) {
	var raw []byte
	err := q.QueryRow(ctx, `SELECT state FROM adk_app_state WHERE app_name = $1`, appName).Scan(&raw)
	if errors.Is(err, pgx.ErrNoRows) {
		return make(map[string]any), nil
	}
	if err != nil {
		return nil, fmt.Errorf("load app state for %s: %w", appName, err)
	}
	return sonicUnmarshalState(raw)
}

func (s *PostgresService) loadUserState(ctx context.Context, q pgxQuerier, appName, userID string) (map[string]any, error) {
	var raw []byte
	err := q.QueryRow(ctx, `
		SELECT state FROM adk_user_state
		WHERE app_name = $1 AND user_id = $2`,
		appName, userID,
	).Scan(&raw)
	if errors.Is(err, pgx.ErrNoRows) {
		return make(map[string]any), nil
	}
	if err != nil {
		return nil, fmt.Errorf("load user state for %s/%s: %w", appName, userID, err)
	}
	return sonicUnmarshalState(raw)
}

// updateAppState applies already-stripped delta keys onto the app scope and
// persists the result. The returned map is the state after the update.
func (s *PostgresService) updateAppState(ctx context.Context, q pgxQuerier, appName string, delta map[string]any) (map[string]any, error) {
	state, err := s.loadAppState(ctx, q, appName)
	if err != nil {
		return nil, err
	}
	if len(delta) == 0 {
		return state, nil
	}
	for key, value := range delta {
		applyStateValue(state, key, value)
	}
	raw, err := sonicMarshalState(state)
	if err != nil {
		return nil, err
	}
	if _, err := q.Exec(ctx, `
		INSERT INTO adk_app_state (app_name, state) VALUES ($1, $2)
		ON CONFLICT (app_name) DO UPDATE SET state = EXCLUDED.state`,
		appName, raw,
	); err != nil {
		return nil, fmt.Errorf("store app state for %s: %w", appName, err)
	}
	return state, nil
}

// updateUserState applies already-stripped delta keys onto the user scope and
// persists the result. The returned map is the state after the update.
func (s *PostgresService) updateUserState(ctx context.Context, q pgxQuerier, appName, userID string, delta map[string]any) (map[string]any, error) {
	state, err := s.loadUserState(ctx, q, appName, userID)
	if err != nil {
		return nil, err
	}
	if len(delta) == 0 {
		return state, nil
	}
	for key, value := range delta {
		applyStateValue(state, key, value)
	}
	raw, err := sonicMarshalState(state)
	if err != nil {
		return nil, err
	}
	if _, err := q.Exec(ctx, `
		INSERT INTO adk_user_state (app_name, user_id, state) VALUES ($1, $2, $3)
		ON CONFLICT (app_name, user_id) DO UPDATE SET state = EXCLUDED.state`,
		appName, userID, raw,
	); err != nil {
		return nil, fmt.Errorf("store user state for %s/%s: %w", appName, userID, err)
	}
	return state, nil
}
