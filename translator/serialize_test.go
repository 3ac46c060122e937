// Copyright 2025 The Go A2A Authors
// SPDX-License-Identifier: Apache-2.0

package translator_test

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/bytedance/sonic"
	"github.com/google/go-cmp/cmp"

	"github.com/go-a2a/adk-agui/translator"
)

func TestSerializeToolResponse(t *testing.T) {
	t.Parallel()

	type report struct {
		Name  string
		Count int

		internal string
	}

	tests := map[string]struct {
		response any
		want     any
	}{
		"Nil":        {response: nil, want: nil},
		"String":     {response: "done", want: "done"},
		"Number":     {response: 42, want: float64(42)},
		"Bool":       {response: true, want: true},
		"Map":        {response: map[string]any{"ok": true, "n": 1}, want: map[string]any{"ok": true, "n": float64(1)}},
		"Slice":      {response: []string{"a", "b"}, want: []any{"a", "b"}},
		"TextBytes":  {response: []byte("hello"), want: "hello"},
		"RawBytes":   {response: []byte{0xff, 0xfe}, want: []any{float64(255), float64(254)}},
		"Error":      {response: errors.New("boom"), want: "boom"},
		"CustomInt":  {response: time.Duration(5), want: float64(5)},
		"StructPtr":  {response: &report{Name: "r", Count: 2, internal: "hidden"}, want: map[string]any{"Name": "r", "Count": float64(2)}},
		"NestedMap":  {response: map[string]any{"inner": map[string]int{"x": 1}}, want: map[string]any{"inner": map[string]any{"x": float64(1)}}},
		"Marshaler":  {response: time.Date(2025, 1, 2, 15, 4, 5, 0, time.UTC), want: "2025-01-02T15:04:05Z"},
		"NilPointer": {response: (*report)(nil), want: nil},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			raw := translator.SerializeToolResponse(tt.response)

			var got any
			if err := sonic.ConfigFastest.Unmarshal([]byte(raw), &got); err != nil {
				t.Fatalf("result %q is not valid JSON: %v", raw, err)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("SerializeToolResponse(%v) mismatch (-want +got):\n%s", tt.response, diff)
			}
		})
	}
}

func TestSerializeToolResponseCycle(t *testing.T) {
	t.Parallel()

	type node struct {
		Name string
		Next *node
	}
	n := &node{Name: "a"}
	n.Next = n

	raw := translator.SerializeToolResponse(n)

	var got map[string]any
	if err := sonic.ConfigFastest.Unmarshal([]byte(raw), &got); err != nil {
		t.Fatalf("result %q is not valid JSON: %v", raw, err)
	}
	if got["Name"] != "a" {
		t.Errorf("Name = %v, want a", got["Name"])
	}
	// The back reference degrades to its string form instead of recursing.
	next, ok := got["Next"].(string)
	if !ok || !strings.HasPrefix(next, "&{a ") {
		t.Errorf("Next = %v, want stringified pointer", got["Next"])
	}
}

func TestSerializeToolResponseEmptyStruct(t *testing.T) {
	t.Parallel()

	type opaque struct {
		hidden int
	}

	raw := translator.SerializeToolResponse(opaque{hidden: 7})
	if raw != `"{7}"` {
		t.Errorf("SerializeToolResponse(opaque) = %s, want quoted string form", raw)
	}
}
