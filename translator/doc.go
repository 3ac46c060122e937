// Copyright 2025 The Go A2A Authors
// SPDX-License-Identifier: Apache-2.0

// Package translator converts agent runtime events into client protocol
// events.
//
// A [Translator] is stateful. It tracks the text message stream currently
// open on the wire, the most recently delivered text for duplicate
// suppression, and the long-running tool calls that were announced to the
// client so their backend results are not replayed at them. Use one
// Translator per run; call [Translator.Reset] before reusing it for another
// run on the same connection.
//
// Translation never fails: malformed runtime events are logged and produce
// no output rather than aborting the stream.
package translator
