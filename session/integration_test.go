// Copyright 2025 The Go A2A Authors
// SPDX-License-Identifier: Apache-2.0

package session_test

import (
	"errors"
	"os"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"google.golang.org/genai"

	"github.com/go-a2a/adk-agui/session"
	"github.com/go-a2a/adk-agui/types"
)

// exerciseService drives a service through the common session lifecycle so
// every backend honors the same contract.
func exerciseService(t *testing.T, svc types.SessionService) {
	t.Helper()
	ctx := t.Context()

	appName := "it_app"
	userID := "it_user"
	sessionID := "it_" + uuid.NewString()

	created, err := svc.CreateSession(ctx, appName, userID, sessionID, map[string]any{
		"step":      1,
		"app:tier":  "test",
		"user:lang": "en",
		"temp:junk": true,
	})
	if err != nil {
		t.Fatalf("CreateSession() error = %v", err)
	}
	if _, ok := created.State()["temp:junk"]; ok {
		t.Error("temp: key survived creation")
	}

	event := types.NewEvent().
		WithAuthor("assistant").
		WithContent(genai.NewContentFromText("hello", genai.RoleModel)).
		WithActions(types.NewEventActions().WithStateDelta(map[string]any{
			"step":      2,
			"user:lang": "ja",
		}))
	if _, err := svc.AppendEvent(ctx, created, event); err != nil {
		t.Fatalf("AppendEvent() error = %v", err)
	}

	got, err := svc.GetSession(ctx, appName, userID, sessionID, nil)
	if err != nil {
		t.Fatalf("GetSession() error = %v", err)
	}
	want := map[string]any{
		"step":      float64(2), // numbers come back as JSON numbers
		"app:tier":  "test",
		"user:lang": "ja",
	}
	if diff := cmp.Diff(want, got.State()); diff != "" {
		t.Errorf("state mismatch (-want +got):\n%s", diff)
	}
	events := got.Events()
	if len(events) != 1 {
		t.Fatalf("len(events) = %d, want 1", len(events))
	}
	if events[0].Author != "assistant" {
		t.Errorf("event author = %q, want assistant", events[0].Author)
	}
	if text := events[0].Content.Parts[0].Text; text != "hello" {
		t.Errorf("event text = %q, want hello", text)
	}

	listed, err := svc.ListSessions(ctx, appName, userID)
	if err != nil {
		t.Fatalf("ListSessions() error = %v", err)
	}
	found := false
	for _, ses := range listed {
		if ses.ID() == sessionID {
			found = true
			break
		}
	}
	if !found {
		t.Errorf("ListSessions() did not include %s", sessionID)
	}

	since := time.Now().Add(time.Minute)
	none, err := svc.ListEvents(ctx, appName, userID, sessionID, 0, &since)
	if err != nil {
		t.Fatalf("ListEvents() error = %v", err)
	}
	if len(none) != 0 {
		t.Errorf("ListEvents(future since) = %d events, want 0", len(none))
	}

	if err := svc.DeleteSession(ctx, appName, userID, sessionID); err != nil {
		t.Fatalf("DeleteSession() error = %v", err)
	}
	if _, err := svc.GetSession(ctx, appName, userID, sessionID, nil); err == nil {
		t.Error("GetSession() after delete error = nil, want not found")
	}
}

func TestInMemoryServiceEdgeBehavior(t *testing.T) {
	t.Parallel()

	appName := "edge_app"
	userID := "edge_user"

	t.Run("MintsSessionID", func(t *testing.T) {
		t.Parallel()

		svc := session.NewInMemoryService()
		ses, err := svc.CreateSession(t.Context(), appName, userID, "", nil)
		if err != nil {
			t.Fatalf("CreateSession() error = %v", err)
		}
		if ses.ID() == "" {
			t.Error("CreateSession() with empty ID minted nothing")
		}
	})

	t.Run("PartialEventsNotPersisted", func(t *testing.T) {
		t.Parallel()

		svc := session.NewInMemoryService()
		ctx := t.Context()
		ses, err := svc.CreateSession(ctx, appName, userID, "s1", nil)
		if err != nil {
			t.Fatalf("CreateSession() error = %v", err)
		}

		partial := types.NewEvent().
			WithAuthor("assistant").
			WithLLMResponse(&types.LLMResponse{
				Content: genai.NewContentFromText("chu", genai.RoleModel),
				Partial: true,
			})
		if _, err := svc.AppendEvent(ctx, ses, partial); err != nil {
			t.Fatalf("AppendEvent(partial) error = %v", err)
		}

		got, err := svc.GetSession(ctx, appName, userID, "s1", nil)
		if err != nil {
			t.Fatalf("GetSession() error = %v", err)
		}
		if n := len(got.Events()); n != 0 {
			t.Errorf("persisted %d events from a partial chunk, want 0", n)
		}
	})

	t.Run("NilDeltaValueDeletesKey", func(t *testing.T) {
		t.Parallel()

		svc := session.NewInMemoryService()
		ctx := t.Context()
		ses, err := svc.CreateSession(ctx, appName, userID, "s2", map[string]any{"keep": 1, "drop": 2})
		if err != nil {
			t.Fatalf("CreateSession() error = %v", err)
		}

		tombstone := types.NewEvent().
			WithAuthor("system").
			WithActions(types.NewEventActions().WithStateDelta(map[string]any{"drop": nil}))
		if _, err := svc.AppendEvent(ctx, ses, tombstone); err != nil {
			t.Fatalf("AppendEvent() error = %v", err)
		}

		got, err := svc.GetSession(ctx, appName, userID, "s2", nil)
		if err != nil {
			t.Fatalf("GetSession() error = %v", err)
		}
		if diff := cmp.Diff(map[string]any{"keep": 1}, got.State()); diff != "" {
			t.Errorf("state mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("ListEventsKeepsNewest", func(t *testing.T) {
		t.Parallel()

		svc := session.NewInMemoryService()
		ctx := t.Context()
		ses, err := svc.CreateSession(ctx, appName, userID, "s3", nil)
		if err != nil {
			t.Fatalf("CreateSession() error = %v", err)
		}

		for _, text := range []string{"one", "two", "three"} {
			ev := types.NewEvent().
				WithAuthor("assistant").
				WithContent(genai.NewContentFromText(text, genai.RoleModel))
			if _, err := svc.AppendEvent(ctx, ses, ev); err != nil {
				t.Fatalf("AppendEvent(%s) error = %v", text, err)
			}
		}

		events, err := svc.ListEvents(ctx, appName, userID, "s3", 2, nil)
		if err != nil {
			t.Fatalf("ListEvents() error = %v", err)
		}
		if len(events) != 2 {
			t.Fatalf("len(events) = %d, want 2", len(events))
		}
		if first, second := events[0].Content.Parts[0].Text, events[1].Content.Parts[0].Text; first != "two" || second != "three" {
			t.Errorf("ListEvents(max 2) = [%s, %s], want newest two oldest first", first, second)
		}
	})

	t.Run("MissingSessionIsNotFound", func(t *testing.T) {
		t.Parallel()

		svc := session.NewInMemoryService()
		_, err := svc.GetSession(t.Context(), appName, userID, "nope", nil)
		if !errors.Is(err, types.ErrSessionNotFound) {
			t.Errorf("GetSession() error = %v, want ErrSessionNotFound", err)
		}
	})
}

func TestRedisServiceIntegration(t *testing.T) {
	addr := os.Getenv("TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("TEST_REDIS_ADDR not set, skipping Redis integration test")
	}

	client := redis.NewClient(&redis.Options{Addr: addr})
	t.Cleanup(func() { client.Close() })
	if err := client.Ping(t.Context()).Err(); err != nil {
		t.Fatalf("ping redis at %s: %v", addr, err)
	}

	svc := session.NewRedisService(client,
		session.WithRedisKeyPrefix("adktest:"),
		session.WithRedisTTL(time.Hour),
	)
	exerciseService(t, svc)
}

func TestPostgresServiceIntegration(t *testing.T) {
	dsn := os.Getenv("TEST_POSTGRES_DSN")
	if dsn == "" {
		t.Skip("TEST_POSTGRES_DSN not set, skipping PostgreSQL integration test")
	}

	pool, err := pgxpool.New(t.Context(), dsn)
	if err != nil {
		t.Fatalf("connect to postgres: %v", err)
	}
	t.Cleanup(pool.Close)

	svc := session.NewPostgresService(pool)
	if err := svc.CreateSchema(t.Context()); err != nil {
		t.Fatalf("CreateSchema() error = %v", err)
	}
	exerciseService(t, svc)
}

func TestInMemoryServiceContract(t *testing.T) {
	t.Parallel()

	svc := session.NewInMemoryService()
	ctx := t.Context()

	appName := "it_app"
	userID := "it_user"
	sessionID := "it_session"

	created, err := svc.CreateSession(ctx, appName, userID, sessionID, map[string]any{
		"step":      1,
		"app:tier":  "test",
		"user:lang": "en",
		"temp:junk": true,
	})
	if err != nil {
		t.Fatalf("CreateSession() error = %v", err)
	}
	if _, ok := created.State()["temp:junk"]; ok {
		t.Error("temp: key survived creation")
	}

	event := types.NewEvent().
		WithAuthor("assistant").
		WithContent(genai.NewContentFromText("hello", genai.RoleModel)).
		WithActions(types.NewEventActions().WithStateDelta(map[string]any{
			"step":      2,
			"user:lang": "ja",
		}))
	if _, err := svc.AppendEvent(ctx, created, event); err != nil {
		t.Fatalf("AppendEvent() error = %v", err)
	}

	got, err := svc.GetSession(ctx, appName, userID, sessionID, nil)
	if err != nil {
		t.Fatalf("GetSession() error = %v", err)
	}
	// The in-memory store keeps Go values as-is; no JSON round trip.
	want := map[string]any{
		"step":      2,
		"app:tier":  "test",
		"user:lang": "ja",
	}
	if diff := cmp.Diff(want, got.State()); diff != "" {
		t.Errorf("state mismatch (-want +got):\n%s", diff)
	}

	if err := svc.DeleteSession(ctx, appName, userID, sessionID); err != nil {
		t.Fatalf("DeleteSession() error = %v", err)
	}
	if _, err := svc.GetSession(ctx, appName, userID, sessionID, nil); err == nil {
		t.Error("GetSession() after delete error = nil, want not found")
	}
}
