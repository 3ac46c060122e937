// Copyright 2025 The Go A2A Authors
// SPDX-License-Identifier: Apache-2.0

package types

import (
	"context"
)

// AuthCredentialTypes represents the type of authentication credential.
type AuthCredentialTypes string

const (
	// APIKeyCredentialTypes is an API key credential:
	// https://swagger.io/docs/specification/v3_0/authentication/api-keys/
	APIKeyCredentialTypes AuthCredentialTypes = "apiKey"

	// HTTPCredentialTypes is a credential for HTTP Auth schemes:
	// https://www.iana.org/assignments/http-authschemes/http-authschemes.xhtml
	HTTPCredentialTypes AuthCredentialTypes = "http"

	// OAuth2CredentialTypes is an OAuth2 credential:
	// https://swagger.io/docs/specification/v3_0/authentication/oauth2/
	OAuth2CredentialTypes AuthCredentialTypes = "oauth2"
)

// HTTPCredentials represents the credential value for HTTP authentication.
type HTTPCredentials struct {
	Username string `json:"username,omitzero"`
	Password string `json:"password,omitzero"`
	Token    string `json:"token,omitzero"`
}

// HTTPAuth represents a credential and metadata for HTTP authentication.
//
// Scheme is the name of the HTTP Authorization scheme to be used in the
// Authorization header as defined in RFC7235, e.g. 'basic', 'bearer'.
type HTTPAuth struct {
	Scheme      string          `json:"scheme"`
	Credentials HTTPCredentials `json:"credentials"`
}

// OAuth2Auth represents a credential value and its metadata for an OAuth2 credential.
type OAuth2Auth struct {
	ClientID     string `json:"client_id,omitzero"`
	ClientSecret string `json:"client_secret,omitzero"`
	AccessToken  string `json:"access_token,omitzero"`
	RefreshToken string `json:"refresh_token,omitzero"`
}

// AuthCredential represents an authentication credential a tool can use.
type AuthCredential struct {
	AuthType AuthCredentialTypes `json:"auth_type,omitzero"`

	APIKey string      `json:"api_key,omitzero"`
	HTTP   *HTTPAuth   `json:"http,omitzero"`
	OAuth2 *OAuth2Auth `json:"oauth2,omitzero"`
}

// CredentialService stores and retrieves per-user tool credentials.
//
// Credentials are scoped by application name, user ID, and a caller-chosen
// key, usually the tool name.
type CredentialService interface {
	// LoadCredential returns the credential stored under the given key, or
	// nil when no credential is stored.
	LoadCredential(ctx context.Context, appName, userID, key string) (*AuthCredential, error)

	// SaveCredential stores the credential under the given key, replacing any
	// previous value.
	SaveCredential(ctx context.Context, appName, userID, key string, credential *AuthCredential) error

	// DeleteCredential removes the credential stored under the given key.
	DeleteCredential(ctx context.Context, appName, userID, key string) error
}
