// Copyright 2025 The Go A2A Authors
// SPDX-License-Identifier: Apache-2.0

// Package agui implements the client-facing AG-UI protocol types.
//
// AG-UI is an event-streaming protocol between agent backends and user
// interfaces. A run is requested with a [RunAgentInput] and answered with an
// ordered stream of events, each tagged with an [EventType]. The protocol
// uses camelCase JSON field names on the wire.
//
// Every event implements the [Event] interface:
//
//	ev := agui.NewTextMessageContentEvent("msg_1", "hello")
//	if err := ev.Validate(); err != nil {
//		return err
//	}
//	data, err := ev.ToJSON()
//
// Event constructors stamp the current time in milliseconds; callers can
// override it through SetTimestamp.
//
// The package is transport-agnostic. [WriteSSE] is provided for the common
// Server-Sent Events framing, but callers are free to carry events over any
// transport.
package agui
