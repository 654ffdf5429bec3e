// Copyright Mia srl
// SPDX-License-Identifier: AGPL-3.0-only or Commercial

package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mia-platform/mlingest/internal/destination"
	"github.com/mia-platform/mlingest/internal/located"
	"github.com/mia-platform/mlingest/internal/logger"
)

type runnerFunc func(ctx context.Context) (*destination.Data, error)

func (f runnerFunc) Run(ctx context.Context) (*destination.Data, error) {
	return f(ctx)
}

var testData = &destination.Data{
	RunID:       "run-1",
	RawPath:     "artifacts/raw.csv",
	TrainPath:   "artifacts/train.csv",
	TestPath:    "artifacts/test.csv",
	Rows:        10,
	TrainRows:   8,
	TestRows:    2,
	Columns:     8,
	CompletedAt: time.Date(2026, time.March, 4, 10, 30, 0, 0, time.UTC),
}

func TestStatusRoutes(t *testing.T) {
	t.Parallel()

	srv := newServer(t.Context(), config{HTTPPort: 3000}, nil)
	for _, path := range []string{healthzPath, readyPath} {
		t.Run(path, func(t *testing.T) {
			t.Parallel()

			response, err := srv.app.Test(httptest.NewRequest(http.MethodGet, path, nil))
			require.NoError(t, err)
			defer response.Body.Close()

			require.Equal(t, http.StatusOK, response.StatusCode)
			var status statusResponse
			require.NoError(t, json.NewDecoder(response.Body).Decode(&status))
			assert.Equal(t, "OK", status.Status)
			assert.Equal(t, serviceName, status.Name)
		})
	}
}

func TestIngestionRoute(t *testing.T) {
	t.Parallel()

	failure := located.Errorf("data ingestion failed: %w", errors.New("missing source"))
	testCases := map[string]struct {
		runner          runnerFunc
		expectedStatus  int
		expectedBody    string
		expectedLogLine string
	}{
		"successful run": {
			runner: func(context.Context) (*destination.Data, error) {
				return testData, nil
			},
			expectedStatus: http.StatusCreated,
			expectedBody:   `{"runId":"run-1","rawPath":"artifacts/raw.csv","trainPath":"artifacts/train.csv","testPath":"artifacts/test.csv","rows":10,"trainRows":8,"testRows":2,"columns":8,"completedAt":"2026-03-04T10:30:00Z","stage":"ingestion"}`,
		},
		"failed run": {
			runner: func(context.Context) (*destination.Data, error) {
				return nil, failure
			},
			expectedStatus:  http.StatusInternalServerError,
			expectedBody:    `{"statusCode":500,"error":"Internal Server Error","message":` + mustMarshal(t, failure.Error()) + `}`,
			expectedLogLine: "ingestion run failed",
		},
	}

	for testName, test := range testCases {
		t.Run(testName, func(t *testing.T) {
			t.Parallel()

			buffer := new(bytes.Buffer)
			ctx := logger.WithContext(t.Context(), logger.NewLogger(buffer))
			srv := newServer(ctx, config{HTTPPort: 3000}, test.runner)

			response, err := srv.app.Test(httptest.NewRequest(http.MethodPost, ingestionsPath, nil), -1)
			require.NoError(t, err)
			defer response.Body.Close()

			assert.Equal(t, test.expectedStatus, response.StatusCode)
			body, err := io.ReadAll(response.Body)
			require.NoError(t, err)
			assert.JSONEq(t, test.expectedBody, string(body))

			if test.expectedLogLine != "" {
				assert.Contains(t, buffer.String(), test.expectedLogLine)
				assert.Contains(t, buffer.String(), `"file":`)
				assert.Contains(t, buffer.String(), `"line":`)
			}
		})
	}
}

func TestIngestionRouteRejectsConcurrentRuns(t *testing.T) {
	t.Parallel()

	started := make(chan struct{})
	release := make(chan struct{})
	runner := runnerFunc(func(context.Context) (*destination.Data, error) {
		close(started)
		<-release
		return testData, nil
	})

	srv := newServer(t.Context(), config{HTTPPort: 3000}, runner)

	firstStatus := make(chan int, 1)
	go func() {
		response, err := srv.app.Test(httptest.NewRequest(http.MethodPost, ingestionsPath, nil), -1)
		if err != nil {
			firstStatus <- 0
			return
		}
		defer response.Body.Close()
		firstStatus <- response.StatusCode
	}()

	<-started
	response, err := srv.app.Test(httptest.NewRequest(http.MethodPost, ingestionsPath, nil), -1)
	require.NoError(t, err)
	defer response.Body.Close()
	assert.Equal(t, http.StatusConflict, response.StatusCode)

	close(release)
	assert.Equal(t, http.StatusCreated, <-firstStatus)
}

func TestStartAndStop(t *testing.T) {
	t.Parallel()

	srv := newServer(t.Context(), config{DisableStartupMessage: true, HTTPHost: "127.0.0.1", HTTPPort: 38417}, nil)

	errChan := make(chan error, 1)
	go func() {
		errChan <- srv.Start()
	}()

	require.Eventually(t, func() bool {
		conn, err := net.Dial("tcp", "127.0.0.1:38417")
		if err != nil {
			return false
		}
		conn.Close()
		return true
	}, 5*time.Second, 50*time.Millisecond)

	require.NoError(t, srv.Stop())
	require.NoError(t, <-errChan)
}

func TestNewServerInvalidEnv(t *testing.T) {
	t.Setenv("HTTP_PORT", "0")

	srv, err := NewServer(t.Context(), nil)
	assert.ErrorIs(t, err, ErrEnvVariablesNotValid)
	assert.Nil(t, srv)
}

func mustMarshal(t *testing.T, value string) string {
	t.Helper()

	encoded, err := json.Marshal(value)
	require.NoError(t, err)
	return string(encoded)
}
