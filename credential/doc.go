// Copyright 2025 The Go A2A Authors
// SPDX-License-Identifier: Apache-2.0

// Package credential provides storage for per-user tool credentials.
//
// Credentials are organized in a three-tier hierarchy:
//
//	{appName} -> {userID} -> {credentialKey} -> AuthCredential
//
// so applications and users stay isolated from each other. The bridge never
// interprets credential contents; it passes the configured
// [types.CredentialService] through to the agent runner, which hands
// credentials to the tools that need them.
package credential
