// Copyright 2025 The Go A2A Authors
// SPDX-License-Identifier: Apache-2.0

package artifact

import (
	"fmt"
	"strings"
)

// userNamespace marks filenames whose artifacts belong to the user as a
// whole rather than to a single session.
const userNamespace = "user:"

// hasUserNamespace reports whether filename addresses the user scope.
func hasUserNamespace(filename string) bool {
	return strings.HasPrefix(filename, userNamespace)
}

// objectDir returns the storage directory holding every version of filename,
// without a trailing separator. Session files live under their session,
// user-scoped files under the shared "user" segment.
func objectDir(appName, userID, sessionID, filename string) string {
	if hasUserNamespace(filename) {
		return fmt.Sprintf("%s/%s/user/%s", appName, userID, filename)
	}
	return fmt.Sprintf("%s/%s/%s/%s", appName, userID, sessionID, filename)
}

// objectName returns the storage object name for one version of filename.
func objectName(appName, userID, sessionID, filename string, version int) string {
	return fmt.Sprintf("%s/%d", objectDir(appName, userID, sessionID, filename), version)
}

// scopePrefixes returns the two directory prefixes enumerated when listing a
// session's files: its own scope and the user scope shared with its siblings.
func scopePrefixes(appName, userID, sessionID string) (sessionScope, userScope string) {
	return fmt.Sprintf("%s/%s/%s/", appName, userID, sessionID),
		fmt.Sprintf("%s/%s/user/", appName, userID)
}
