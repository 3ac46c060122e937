// Copyright 2025 The Go A2A Authors
// SPDX-License-Identifier: Apache-2.0

package adkagui

import (
	"context"

	"github.com/go-a2a/adk-agui/agui"
	"github.com/go-a2a/adk-agui/types"
)

// systemInstruction returns the content of the leading system message of
// input, or "" when the history does not start with one. Clients use the
// leading system message to extend the agent's instruction for the thread.
func systemInstruction(input *agui.RunAgentInput) string {
	if len(input.Messages) == 0 {
		return ""
	}
	first := &input.Messages[0]
	if first.Role != agui.RoleSystem {
		return ""
	}
	return first.ContentString()
}

// suffixInstruction decorates base so the resolved instruction ends with
// suffix, separated by a blank line. A nil or empty base resolves to the
// suffix alone.
func suffixInstruction(base types.InstructionProvider, suffix string) types.InstructionProvider {
	return func(ctx context.Context) (string, error) {
		if base == nil {
			return suffix, nil
		}
		instruction, err := base(ctx)
		if err != nil {
			return "", err
		}
		if instruction == "" {
			return suffix, nil
		}
		return instruction + "\n\n" + suffix, nil
	}
}
