// Copyright 2025 The Go A2A Authors
// SPDX-License-Identifier: Apache-2.0

package agui

import (
	"fmt"
	"io"

	"github.com/go-a2a/adk-agui/internal/pool"
)

// WriteSSE writes the event to w using Server-Sent Events framing:
//
//	data: <event JSON>\n\n
//
// Callers streaming over HTTP should flush after each event.
func WriteSSE(w io.Writer, event Event) error {
	data, err := event.ToJSON()
	if err != nil {
		return fmt.Errorf("encode %s event: %w", event.Type(), err)
	}

	buf := pool.Buffer.Get()
	defer pool.Buffer.Put(buf)

	buf.WriteString("data: ")
	buf.Write(data)
	buf.WriteString("\n\n")

	if _, err := w.Write(buf.Bytes()); err != nil {
		return fmt.Errorf("write %s event: %w", event.Type(), err)
	}
	return nil
}
