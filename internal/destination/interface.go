// Copyright Mia srl
// SPDX-License-Identifier: AGPL-3.0-only or Commercial

package destination

import (
	"context"
	"encoding/json"
	"time"
)

// Stage is the name of the pipeline stage that produces the handed over artifacts.
const Stage = "ingestion"

// Sender delivers the artifacts of a completed ingestion run to the next stage.
type Sender interface {
	SendArtifacts(ctx context.Context, data *Data) error
}

// Data describes the artifacts handed to the transformation stage.
type Data struct {
	RunID          string    `json:"runId"`
	RawPath        string    `json:"rawPath"`
	TrainPath      string    `json:"trainPath"`
	TestPath       string    `json:"testPath"`
	Rows           int       `json:"rows"`
	TrainRows      int       `json:"trainRows"`
	TestRows       int       `json:"testRows"`
	Columns        int       `json:"columns"`
	RemoteLocation string    `json:"remoteLocation,omitempty"`
	CompletedAt    time.Time `json:"completedAt"`
}

// internalData breaks the recursion when customizing JSON marshaling.
type internalData Data

// MarshalJSON labels the payload with the stage that produced it.
func (d Data) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		internalData

		Stage string `json:"stage"`
	}{
		internalData: internalData(d),
		Stage:        Stage,
	})
}

// Attributes returns the metadata that message based destinations attach to the payload.
func (d Data) Attributes() map[string]string {
	return map[string]string{
		"runId": d.RunID,
		"stage": Stage,
	}
}
