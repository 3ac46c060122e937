// Copyright 2025 The Go A2A Authors
// SPDX-License-Identifier: Apache-2.0

package types

import "errors"

// ErrSessionNotFound is returned by [SessionService] implementations when the
// requested session does not exist for the given app and user.
var ErrSessionNotFound = errors.New("session not found")
