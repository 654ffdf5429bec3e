// Copyright Mia srl
// SPDX-License-Identifier: AGPL-3.0-only or Commercial

package ingestion

import (
	"context"
	"errors"
	"os"
	"time"

	"github.com/google/uuid"

	"github.com/mia-platform/mlingest/internal/config"
	"github.com/mia-platform/mlingest/internal/dataset"
	"github.com/mia-platform/mlingest/internal/located"
	"github.com/mia-platform/mlingest/internal/logger"
)

const (
	loggerName = "mlingest:ingestion"
)

var (
	// ErrIngestion is the single error kind returned by a failed ingestion run.
	ErrIngestion = errors.New("data ingestion failed")
)

// Artifacts describes the files produced by a successful ingestion run.
type Artifacts struct {
	RunID       string    `json:"runId"`
	RawPath     string    `json:"rawPath"`
	TrainPath   string    `json:"trainPath"`
	TestPath    string    `json:"testPath"`
	Rows        int       `json:"rows"`
	Columns     int       `json:"columns"`
	TrainRows   int       `json:"trainRows"`
	TestRows    int       `json:"testRows"`
	CompletedAt time.Time `json:"completedAt"`
}

// Ingestion reads a CSV dataset and persists its raw copy and its train/test partitions.
type Ingestion struct {
	config config.Ingestion

	now      func() time.Time
	newRunID func() (uuid.UUID, error)
}

// New returns an Ingestion for cfg, or an error if cfg is not valid.
func New(cfg config.Ingestion) (*Ingestion, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &Ingestion{
		config:   cfg,
		now:      time.Now,
		newRunID: uuid.NewRandom,
	}, nil
}

// Run executes the ingestion and returns the produced artifacts. Output files are replaced on
// every run. Any failure is returned as an ErrIngestion carrying the location where it happened;
// files already written before the failure are left on disk.
func (i *Ingestion) Run(ctx context.Context) (Artifacts, error) {
	log := logger.FromContext(ctx).WithName(loggerName)
	log.Info("entered the data ingestion component", "source", i.config.SourcePath)

	runID, err := i.newRunID()
	if err != nil {
		return Artifacts{}, located.Errorf("%w: generating run id: %w", ErrIngestion, err)
	}

	if err := ctx.Err(); err != nil {
		return Artifacts{}, located.Errorf("%w: %w", ErrIngestion, err)
	}

	data, err := dataset.LoadFile(i.config.SourcePath)
	if err != nil {
		return Artifacts{}, located.Errorf("%w: %w", ErrIngestion, err)
	}
	log.Info("read the dataset", "rows", data.Rows(), "columns", data.Columns())

	if err := os.MkdirAll(i.config.OutputDir, 0o755); err != nil {
		return Artifacts{}, located.Errorf("%w: creating output directory: %w", ErrIngestion, err)
	}

	if err := data.WriteFile(i.config.RawPath()); err != nil {
		return Artifacts{}, located.Errorf("%w: %w", ErrIngestion, err)
	}
	log.Debug("raw data saved", "path", i.config.RawPath())

	if err := ctx.Err(); err != nil {
		return Artifacts{}, located.Errorf("%w: %w", ErrIngestion, err)
	}

	log.Info("train test split initiated", "testRatio", i.config.TestRatio, "seed", i.config.Seed)
	train, test, err := dataset.Split(data, i.config.TestRatio, i.config.Seed)
	if err != nil {
		return Artifacts{}, located.Errorf("%w: %w", ErrIngestion, err)
	}

	if err := train.WriteFile(i.config.TrainPath()); err != nil {
		return Artifacts{}, located.Errorf("%w: %w", ErrIngestion, err)
	}

	if err := test.WriteFile(i.config.TestPath()); err != nil {
		return Artifacts{}, located.Errorf("%w: %w", ErrIngestion, err)
	}

	artifacts := Artifacts{
		RunID:       runID.String(),
		RawPath:     i.config.RawPath(),
		TrainPath:   i.config.TrainPath(),
		TestPath:    i.config.TestPath(),
		Rows:        data.Rows(),
		Columns:     data.Columns(),
		TrainRows:   train.Rows(),
		TestRows:    test.Rows(),
		CompletedAt: i.now().UTC(),
	}

	log.Info("ingestion of the data completed",
		"runId", artifacts.RunID,
		"trainPath", artifacts.TrainPath,
		"testPath", artifacts.TestPath,
		"trainRows", artifacts.TrainRows,
		"testRows", artifacts.TestRows,
	)
	return artifacts, nil
}
