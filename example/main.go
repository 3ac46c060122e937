// Copyright 2025 The Go A2A Authors
// SPDX-License-Identifier: Apache-2.0

// Command example runs a minimal AG-UI bridge server backed by an echoing
// demo runner and in-memory services.
//
//	go run ./example
//	curl -N -X POST localhost:8080/run \
//	  -d '{"threadId":"t1","runId":"r1","messages":[{"id":"m1","role":"user","content":"hello"}]}'
//
// The response is a text/event-stream of AG-UI protocol events.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"iter"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/MakeNowJust/heredoc/v2"
	"golang.org/x/sync/errgroup"
	"google.golang.org/genai"

	adkagui "github.com/go-a2a/adk-agui"
	"github.com/go-a2a/adk-agui/agui"
	"github.com/go-a2a/adk-agui/pkg/logging"
	"github.com/go-a2a/adk-agui/types"
)

func main() {
	addr := flag.String("addr", ":8080", "listen address")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	ctx := logging.NewContext(context.Background(), logger)
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, *addr); err != nil {
		logger.Error("server exited", slog.Any("error", err))
		os.Exit(1)
	}
}

func run(ctx context.Context, addr string) error {
	agent, err := adkagui.New(ctx, adkagui.Config{
		Agent: &types.Agent{
			Name:        "echo_agent",
			Description: "Echoes user messages and counts turns.",
			Instruction: types.StaticInstruction(heredoc.Doc(`
				You are a friendly echo agent.
				Repeat what the user says and keep count of the turns taken.
			`)),
		},
		RunnerFactory:       newEchoRunner,
		UseInMemoryServices: true,
	})
	if err != nil {
		return err
	}

	mux := http.NewServeMux()
	mux.Handle("POST /run", runHandler(agent))

	srv := &http.Server{
		Addr:        addr,
		Handler:     mux,
		BaseContext: func(net.Listener) context.Context { return ctx },
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logging.FromContext(ctx).Info("listening", slog.String("addr", addr))
		if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		return agent.Close(shutdownCtx)
	})
	return g.Wait()
}

// runHandler decodes a [agui.RunAgentInput] from the request body and streams
// the resulting run as Server-Sent Events.
func runHandler(agent *adkagui.Agent) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, err := io.ReadAll(r.Body)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		input, err := agui.ParseRunAgentInput(body)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		flusher, ok := w.(http.Flusher)
		if !ok {
			http.Error(w, "streaming unsupported", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "text/event-stream")
		w.Header().Set("Cache-Control", "no-cache")
		w.Header().Set("Connection", "keep-alive")

		logger := logging.FromContext(r.Context())
		for event, err := range agent.Run(r.Context(), input) {
			if err != nil {
				// Validation errors surface before any event is written.
				http.Error(w, err.Error(), http.StatusBadRequest)
				return
			}
			if err := agui.WriteSSE(w, event); err != nil {
				logger.Warn("write event", slog.Any("error", err))
				return
			}
			flusher.Flush()
		}
	})
}

// echoRunner is a stand-in agent runtime. It streams the user's text back in
// chunks, acknowledges tool result submissions, and keeps a turn counter in
// session state so the terminal snapshot has something to show.
type echoRunner struct {
	appName  string
	sessions types.SessionService
}

func newEchoRunner(ctx context.Context, req *types.RunnerRequest) (types.Runner, error) {
	return &echoRunner{appName: req.AppName, sessions: req.SessionService}, nil
}

var _ types.Runner = (*echoRunner)(nil)

func (r *echoRunner) Run(ctx context.Context, userID, sessionID string, newMessage *genai.Content, config *types.RunConfig) iter.Seq2[*types.Event, error] {
	return func(yield func(*types.Event, error) bool) {
		reply := "Hello! Send me a message and I will echo it."
		if text := messageText(newMessage); text != "" {
			reply = "You said: " + text
		}

		// Stream the reply in two chunks, the way a model would.
		half := len(reply) / 2
		for _, chunk := range []string{reply[:half], reply[half:]} {
			ev := types.NewEvent().
				WithAuthor("echo_agent").
				WithLLMResponse((&types.LLMResponse{}).
					WithContent(genai.NewContentFromText(chunk, genai.RoleModel)).
					WithPartial(true))
			if !yield(ev, nil) {
				return
			}
		}

		final := types.NewEvent().
			WithAuthor("echo_agent").
			WithLLMResponse((&types.LLMResponse{}).
				WithContent(genai.NewContentFromText(reply, genai.RoleModel)).
				WithTurnComplete(true)).
			WithActions(types.NewEventActions().WithStateDelta(map[string]any{
				"turns": r.bumpTurns(ctx, userID, sessionID),
			}))
		yield(final, nil)
	}
}

func (r *echoRunner) Close(ctx context.Context) error { return nil }

// bumpTurns persists the incremented turn counter the way a real runtime
// applies its state deltas, so the snapshot at the end of the run reflects it.
func (r *echoRunner) bumpTurns(ctx context.Context, userID, sessionID string) int {
	sess, err := r.sessions.GetSession(ctx, r.appName, userID, sessionID, nil)
	if err != nil || sess == nil {
		return 1
	}
	state := types.NewState(sess.State(), nil)
	turns := 1
	switch v := state.GetWithDefault("turns", nil).(type) {
	case int:
		turns = v + 1
	case float64:
		// Counters come back as float64 after a JSON round trip.
		turns = int(v) + 1
	}
	state.Set("turns", turns)
	event := types.NewEvent().
		WithAuthor("echo_agent").
		WithActions(state.CommitActions())
	if _, err := r.sessions.AppendEvent(ctx, sess, event); err != nil {
		logging.FromContext(ctx).Warn("append turn counter", slog.Any("error", err))
	}
	return turns
}

func messageText(content *genai.Content) string {
	if content == nil {
		return ""
	}
	var parts []string
	for _, part := range content.Parts {
		if part.Text != "" {
			parts = append(parts, part.Text)
		}
		if part.FunctionResponse != nil {
			parts = append(parts, fmt.Sprintf("%s returned %v", part.FunctionResponse.Name, part.FunctionResponse.Response))
		}
	}
	return strings.Join(parts, " ")
}
