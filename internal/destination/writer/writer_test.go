// Copyright Mia srl
// SPDX-License-Identifier: AGPL-3.0-only or Commercial

package writer

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mia-platform/mlingest/internal/destination"
)

func TestNewWriterDestination(t *testing.T) {
	t.Parallel()

	buffer := new(bytes.Buffer)
	testDestination := NewDestination(buffer)

	completedAt := time.Date(2026, time.March, 4, 10, 30, 0, 0, time.UTC)
	require.NoError(t, testDestination.SendArtifacts(t.Context(), &destination.Data{
		RunID:       "run-1",
		RawPath:     "artifacts/raw.csv",
		TrainPath:   "artifacts/train.csv",
		TestPath:    "artifacts/test.csv",
		TrainRows:   8,
		TestRows:    2,
		Columns:     8,
		CompletedAt: completedAt,
	}))

	require.NoError(t, testDestination.SendArtifacts(t.Context(), &destination.Data{
		RunID:          "run-2",
		RawPath:        "artifacts/raw.csv",
		TrainPath:      "artifacts/train.csv",
		TestPath:       "artifacts/test.csv",
		TrainRows:      80,
		TestRows:       20,
		Columns:        3,
		RemoteLocation: "https://account.blob.core.windows.net/datasets/run-2",
		CompletedAt:    completedAt,
	}))

	expectedOutput := `Ingestion completed:
	Run ID: run-1
	Completed At: 2026-03-04T10:30:00Z
	Raw Data: artifacts/raw.csv
	Train Data: artifacts/train.csv (8 rows)
	Test Data: artifacts/test.csv (2 rows)
	Columns: 8

Ingestion completed:
	Run ID: run-2
	Completed At: 2026-03-04T10:30:00Z
	Raw Data: artifacts/raw.csv
	Train Data: artifacts/train.csv (80 rows)
	Test Data: artifacts/test.csv (20 rows)
	Columns: 3
	Remote Location: https://account.blob.core.windows.net/datasets/run-2

`

	assert.Equal(t, expectedOutput, buffer.String())
}
