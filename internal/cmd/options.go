// Copyright Mia srl
// SPDX-License-Identifier: AGPL-3.0-only or Commercial

package cmd

import (
	"context"
	"sync"

	"github.com/mia-platform/mlingest/internal/artifact"
	"github.com/mia-platform/mlingest/internal/config"
	"github.com/mia-platform/mlingest/internal/destination"
	"github.com/mia-platform/mlingest/internal/ingestion"
	"github.com/mia-platform/mlingest/internal/logger"
	"github.com/mia-platform/mlingest/internal/pipeline"
	"github.com/mia-platform/mlingest/internal/server"
)

// options configures the pipeline executed by the ingest and serve commands.
type options struct {
	config      config.Ingestion
	destination destination.Sender
	uploader    artifact.Uploader
	newServer   func(context.Context, server.Runner) (server.Server, error)

	lock sync.Mutex
}

// validate checks the configured values and reports invalid setups.
func (o *options) validate() error {
	return o.config.Validate()
}

// execute runs the pipeline once.
func (o *options) execute(ctx context.Context) error {
	if !o.lock.TryLock() {
		return errRunInProgress
	}
	defer o.lock.Unlock()
	defer o.closeDestination(ctx)

	p, err := o.pipeline()
	if err != nil {
		return err
	}

	_, err = p.Run(ctx)
	return err
}

// serve exposes the pipeline over HTTP until ctx is cancelled.
func (o *options) serve(ctx context.Context) error {
	if !o.lock.TryLock() {
		return errRunInProgress
	}
	defer o.lock.Unlock()
	defer o.closeDestination(ctx)

	log := logger.FromContext(ctx).WithName(loggerName)
	p, err := o.pipeline()
	if err != nil {
		return err
	}

	srv, err := o.newServer(ctx, p)
	if err != nil {
		return err
	}

	log.Info("starting ingestion server")
	srv.StartAsync(ctx)

	<-ctx.Done()
	log.Info("stopping ingestion server")
	return srv.Stop()
}

// pipeline assembles a pipeline from the configured ingestion, uploader, and destination.
func (o *options) pipeline() (*pipeline.Pipeline, error) {
	ingest, err := ingestion.New(o.config)
	if err != nil {
		return nil, err
	}

	return pipeline.New(ingest, o.uploader, o.destination), nil
}

// closeDestination releases the destination resources, if any.
func (o *options) closeDestination(ctx context.Context) {
	closable, ok := o.destination.(closer)
	if !ok {
		return
	}

	if err := closable.Close(context.WithoutCancel(ctx)); err != nil {
		logger.FromContext(ctx).WithName(loggerName).Warn("error closing destination", "error", err.Error())
	}
}
