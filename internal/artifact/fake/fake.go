// Copyright Mia srl
// SPDX-License-Identifier: AGPL-3.0-only or Commercial

package fake

import (
	"context"
	"sync"
	"testing"

	"github.com/mia-platform/mlingest/internal/artifact"
)

var _ artifact.Uploader = &FakeUploader{}

// Upload records a single call to FakeUploader.Upload.
type Upload struct {
	RunID string
	Paths []string
}

type FakeUploader struct {
	tb       testing.TB
	location string
	err      error

	lock    sync.Mutex
	Uploads []Upload
}

// NewFakeUploader returns an uploader that records every call and reports location/<runID>.
func NewFakeUploader(tb testing.TB, location string) *FakeUploader {
	tb.Helper()
	return &FakeUploader{tb: tb, location: location}
}

// NewFailingUploader returns an uploader that rejects every call with err.
func NewFailingUploader(tb testing.TB, err error) *FakeUploader {
	tb.Helper()
	return &FakeUploader{tb: tb, err: err}
}

func (f *FakeUploader) Upload(_ context.Context, runID string, paths ...string) (string, error) {
	f.tb.Helper()
	if f.err != nil {
		return "", f.err
	}

	f.lock.Lock()
	defer f.lock.Unlock()
	f.Uploads = append(f.Uploads, Upload{RunID: runID, Paths: paths})
	return f.location + "/" + runID, nil
}
