// Copyright 2025 The Go A2A Authors
// SPDX-License-Identifier: Apache-2.0

package credential_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/go-a2a/adk-agui/credential"
	"github.com/go-a2a/adk-agui/types"
)

func TestInMemoryServiceRoundTrip(t *testing.T) {
	t.Parallel()

	ctx := t.Context()
	svc := credential.NewInMemoryService()

	want := &types.AuthCredential{
		AuthType: types.APIKeyCredentialTypes,
		APIKey:   "secret-key",
	}
	if err := svc.SaveCredential(ctx, "app", "alice", "weather_api", want); err != nil {
		t.Fatalf("SaveCredential() error = %v", err)
	}

	got, err := svc.LoadCredential(ctx, "app", "alice", "weather_api")
	if err != nil {
		t.Fatalf("LoadCredential() error = %v", err)
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("LoadCredential() mismatch (-want +got):\n%s", diff)
	}
}

func TestInMemoryServiceIsolation(t *testing.T) {
	t.Parallel()

	ctx := t.Context()
	svc := credential.NewInMemoryService()

	cred := &types.AuthCredential{AuthType: types.APIKeyCredentialTypes, APIKey: "k"}
	if err := svc.SaveCredential(ctx, "app", "alice", "key", cred); err != nil {
		t.Fatalf("SaveCredential() error = %v", err)
	}

	tests := map[string]struct {
		appName string
		userID  string
		key     string
	}{
		"OtherApp":  {"other", "alice", "key"},
		"OtherUser": {"app", "bob", "key"},
		"OtherKey":  {"app", "alice", "other"},
	}
	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			got, err := svc.LoadCredential(ctx, tt.appName, tt.userID, tt.key)
			if err != nil {
				t.Fatalf("LoadCredential() error = %v", err)
			}
			if got != nil {
				t.Errorf("LoadCredential() = %+v, want nil", got)
			}
		})
	}
}

func TestInMemoryServiceDelete(t *testing.T) {
	t.Parallel()

	ctx := t.Context()
	svc := credential.NewInMemoryService()

	cred := &types.AuthCredential{AuthType: types.APIKeyCredentialTypes, APIKey: "k"}
	if err := svc.SaveCredential(ctx, "app", "alice", "key", cred); err != nil {
		t.Fatalf("SaveCredential() error = %v", err)
	}
	if err := svc.DeleteCredential(ctx, "app", "alice", "key"); err != nil {
		t.Fatalf("DeleteCredential() error = %v", err)
	}

	got, err := svc.LoadCredential(ctx, "app", "alice", "key")
	if err != nil {
		t.Fatalf("LoadCredential() error = %v", err)
	}
	if got != nil {
		t.Errorf("LoadCredential() after delete = %+v, want nil", got)
	}

	// Deleting a missing credential is a no-op.
	if err := svc.DeleteCredential(ctx, "app", "missing", "key"); err != nil {
		t.Errorf("DeleteCredential() on missing bucket error = %v", err)
	}
}
