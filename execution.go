// Copyright 2025 The Go A2A Authors
// SPDX-License-Identifier: Apache-2.0

package adkagui

import (
	"context"
	"time"

	"github.com/go-a2a/adk-agui/agui"
)

// execution tracks one background run for a thread: the producer goroutine,
// its bounded event queue, liveness and cancellation.
type execution struct {
	threadID string

	// events carries protocol events from the producer to the drain loop.
	// The producer closes it when the turn ends; closure is the end-of-stream
	// signal.
	events chan agui.Event

	// done is closed when the producer goroutine returns. A new run for the
	// same thread waits on it to serialize executions per thread.
	done chan struct{}

	// cancel stops the producer.
	cancel context.CancelFunc

	startTime time.Time
}

func newExecution(threadID string, queueSize int, cancel context.CancelFunc) *execution {
	return &execution{
		threadID:  threadID,
		events:    make(chan agui.Event, queueSize),
		done:      make(chan struct{}),
		cancel:    cancel,
		startTime: time.Now(),
	}
}

// emit queues event for the drain loop. It blocks while the queue is full and
// fails once ctx is cancelled.
func (e *execution) emit(ctx context.Context, event agui.Event) error {
	select {
	case e.events <- event:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// finish closes the event stream and marks the producer as returned. Must be
// called exactly once, by the producer.
func (e *execution) finish() {
	close(e.events)
	close(e.done)
}

// finished reports whether the producer has returned.
func (e *execution) finished() bool {
	select {
	case <-e.done:
		return true
	default:
		return false
	}
}

// isStale reports whether the execution has outlived timeout.
func (e *execution) isStale(timeout time.Duration) bool {
	return time.Since(e.startTime) > timeout
}
