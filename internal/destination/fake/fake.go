// Copyright Mia srl
// SPDX-License-Identifier: AGPL-3.0-only or Commercial

package fake

import (
	"context"
	"sync"
	"testing"

	"github.com/mia-platform/mlingest/internal/destination"
)

var _ destination.Sender = &FakeDestination{}

type FakeDestination struct {
	tb  testing.TB
	err error

	lock     sync.Mutex
	SentData []*destination.Data
}

func NewFakeDestination(tb testing.TB) *FakeDestination {
	tb.Helper()
	return &FakeDestination{tb: tb}
}

// NewFailingDestination returns a destination that rejects every handoff with err.
func NewFailingDestination(tb testing.TB, err error) *FakeDestination {
	tb.Helper()
	return &FakeDestination{tb: tb, err: err}
}

func (f *FakeDestination) SendArtifacts(_ context.Context, data *destination.Data) error {
	f.tb.Helper()
	if f.err != nil {
		return f.err
	}

	f.lock.Lock()
	defer f.lock.Unlock()
	f.SentData = append(f.SentData, data)
	return nil
}
