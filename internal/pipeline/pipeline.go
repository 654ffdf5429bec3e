// Copyright Mia srl
// SPDX-License-Identifier: AGPL-3.0-only or Commercial

package pipeline

import (
	"context"

	"github.com/mia-platform/mlingest/internal/artifact"
	"github.com/mia-platform/mlingest/internal/destination"
	"github.com/mia-platform/mlingest/internal/ingestion"
	"github.com/mia-platform/mlingest/internal/logger"
)

const (
	loggerName = "mlingest:pipeline"
)

// Ingestion produces the artifacts of a run.
type Ingestion interface {
	Run(ctx context.Context) (ingestion.Artifacts, error)
}

type Pipeline struct {
	ingestion   Ingestion
	uploader    artifact.Uploader
	destination destination.Sender
}

// New returns a Pipeline; uploader may be nil to keep the artifacts only on the local disk.
func New(ingestion Ingestion, uploader artifact.Uploader, destination destination.Sender) *Pipeline {
	return &Pipeline{
		ingestion:   ingestion,
		uploader:    uploader,
		destination: destination,
	}
}

// Run executes a single ingestion, uploads its artifacts when an uploader is configured and hands
// them over to the destination. The returned data is the one received by the destination.
func (p *Pipeline) Run(ctx context.Context) (*destination.Data, error) {
	log := logger.FromContext(ctx).WithName(loggerName)

	log.Trace("starting ingestion pipeline")
	artifacts, err := p.ingestion.Run(ctx)
	if err != nil {
		return nil, &StageError{Stage: StageIngestion, Err: err}
	}

	data := &destination.Data{
		RunID:       artifacts.RunID,
		RawPath:     artifacts.RawPath,
		TrainPath:   artifacts.TrainPath,
		TestPath:    artifacts.TestPath,
		Rows:        artifacts.Rows,
		TrainRows:   artifacts.TrainRows,
		TestRows:    artifacts.TestRows,
		Columns:     artifacts.Columns,
		CompletedAt: artifacts.CompletedAt,
	}

	if p.uploader != nil {
		log.Debug("uploading artifacts", "runId", artifacts.RunID)
		location, err := p.uploader.Upload(ctx, artifacts.RunID, artifacts.RawPath, artifacts.TrainPath, artifacts.TestPath)
		if err != nil {
			return nil, &StageError{Stage: StageUpload, Err: err}
		}
		data.RemoteLocation = location
	} else {
		log.Debug("no uploader configured, skipping artifacts upload")
	}

	log.Debug("handing artifacts over", "runId", artifacts.RunID)
	if err := p.destination.SendArtifacts(ctx, data); err != nil {
		return nil, &StageError{Stage: StageHandoff, Err: err}
	}

	log.Trace("ingestion pipeline completed", "runId", artifacts.RunID)
	return data, nil
}
