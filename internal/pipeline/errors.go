// Copyright Mia srl
// SPDX-License-Identifier: AGPL-3.0-only or Commercial

package pipeline

import "fmt"

const (
	StageIngestion = "ingestion"
	StageUpload    = "upload"
	StageHandoff   = "handoff"
)

// StageError signals which stage of the pipeline has failed.
type StageError struct {
	Stage string
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("%s stage failed: %s", e.Stage, e.Err)
}

func (e *StageError) Unwrap() error {
	return e.Err
}
