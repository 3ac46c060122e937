// Copyright 2025 The Go A2A Authors
// SPDX-License-Identifier: Apache-2.0

package tool_test

import (
	"context"
	"testing"

	"github.com/google/go-cmp/cmp"
	"google.golang.org/genai"

	"github.com/go-a2a/adk-agui/tool"
)

func echoArgs(ctx context.Context, args map[string]any) (any, error) {
	return args, nil
}

func TestNewFunctionToolDerivesName(t *testing.T) {
	t.Parallel()

	ft := tool.NewFunctionTool(echoArgs)
	if got := ft.Name(); got != "echoArgs" {
		t.Errorf("name = %q, want echoArgs", got)
	}
	if ft.IsLongRunning() {
		t.Error("function tool must not be long running by default")
	}
}

func TestFunctionToolDeclarationAndRun(t *testing.T) {
	t.Parallel()

	params := &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"text": {Type: genai.TypeString},
		},
	}
	ft := tool.NewFunctionTool(echoArgs,
		tool.WithName("echo"),
		tool.WithDescription("Echo the arguments back"),
		tool.WithParameters(params),
	)

	decl := ft.GetDeclaration()
	if decl.Name != "echo" || decl.Description != "Echo the arguments back" {
		t.Errorf("declaration = %+v, want custom name and description", decl)
	}
	if diff := cmp.Diff(params, decl.Parameters); diff != "" {
		t.Errorf("parameters mismatch (-want +got):\n%s", diff)
	}

	args := map[string]any{"text": "hi"}
	got, err := ft.Run(t.Context(), args)
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(args, got); diff != "" {
		t.Errorf("run result mismatch (-want +got):\n%s", diff)
	}
}

func TestNewLongRunningFunctionTool(t *testing.T) {
	t.Parallel()

	lt := tool.NewLongRunningFunctionTool(echoArgs, tool.WithName("start_job"))
	if !lt.IsLongRunning() {
		t.Error("long running tool must report long running")
	}
	if got := lt.Name(); got != "start_job" {
		t.Errorf("name = %q, want start_job", got)
	}
}
