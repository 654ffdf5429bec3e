// Copyright Mia srl
// SPDX-License-Identifier: AGPL-3.0-only or Commercial

package artifact

import (
	"context"
)

// Uploader copies the local files of a run to a remote storage.
type Uploader interface {
	// Upload stores every file in paths under a location dedicated to runID and returns that
	// location.
	Upload(ctx context.Context, runID string, paths ...string) (string, error)
}
