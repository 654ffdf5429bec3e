// Copyright Mia srl
// SPDX-License-Identifier: AGPL-3.0-only or Commercial

package cmd

import (
	"context"
	"errors"

	"github.com/spf13/cobra"

	"github.com/mia-platform/mlingest/internal/located"
	"github.com/mia-platform/mlingest/internal/logger"
)

const (
	loggerName = "mlingest:cmd"
)

// closer is implemented by destinations that hold resources to release after the runs.
type closer interface {
	Close(ctx context.Context) error
}

// handleError prints err on the command error output, logs it with the location where it has
// been raised when available, and returns it so that the command exits with a failure.
func handleError(cmd *cobra.Command, err error) error {
	cmd.PrintErrln(err)

	log := logger.FromContext(cmd.Context()).WithName(loggerName)
	args := []any{"error", unwrappedError(err).Error()}
	args = append(args, located.LogArgs(err)...)
	log.Error("command failed", args...)
	return err
}

// unwrappedError returns the cause carried by a located error, otherwise it returns the original error.
func unwrappedError(err error) error {
	if locatedErr, ok := located.From(err); ok && locatedErr.Err != nil {
		return locatedErr.Err
	}

	if unwrapped := errors.Unwrap(err); unwrapped != nil {
		return unwrapped
	}

	return err
}
