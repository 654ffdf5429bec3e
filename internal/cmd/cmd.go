// Copyright Mia srl
// SPDX-License-Identifier: AGPL-3.0-only or Commercial

package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/spf13/cobra"
)

const (
	ingestCmdUsage = "ingest"
	ingestCmdShort = "run the data ingestion stage once"
	ingestCmdLong  = `Run the data ingestion stage once.
	The source CSV dataset is copied unmodified in the output directory, then its rows
	are shuffled with a fixed seed and split in a train and a test partition that are
	written next to the raw copy. The resulting artifacts are finally handed over to
	the transformation stage.

	Every parameter can be set with an environment variable, a YAML configuration file
	or a flag; flags take precedence over the file that takes precedence over the
	environment.`

	ingestCmdExample = `# Split a dataset and print the artifacts summary
	mlingest ingest --source data/stud.csv --local-output

	# Use a configuration file and publish the artifacts on Pub/Sub
	mlingest ingest --config ingestion.yaml`

	serveCmdUsage = "serve"
	serveCmdShort = "expose the data ingestion stage over HTTP"
	serveCmdLong  = `Expose the data ingestion stage over HTTP.
	A new ingestion run is started for every POST request received on /ingestions,
	only one run at a time is allowed. The server accepts the same configuration of
	the ingest command and listens on HTTP_HOST and HTTP_PORT.`

	serveCmdExample = `# Serve ingestion runs writing the artifacts summary on stdout
	mlingest serve --source data/stud.csv --local-output`
)

// IngestCmd returns the Cobra command that executes a single ingestion run.
func IngestCmd() *cobra.Command {
	flags := &flags{}
	cmd := &cobra.Command{
		Use:     ingestCmdUsage,
		Short:   heredoc.Doc(ingestCmdShort),
		Long:    heredoc.Doc(ingestCmdLong),
		Example: heredoc.Doc(ingestCmdExample),

		SilenceErrors: true,
		SilenceUsage:  true,

		Args:              cobra.NoArgs,
		ValidArgsFunction: cobra.NoFileCompletions,
		RunE: func(cmd *cobra.Command, _ []string) error {
			opts, err := flags.toOptions(cmd)
			if err != nil {
				return handleError(cmd, err)
			}

			if err := opts.validate(); err != nil {
				return handleError(cmd, err)
			}

			if err := opts.execute(cmd.Context()); err != nil {
				return handleError(cmd, err)
			}

			return nil
		},
	}

	flags.addFlags(cmd)
	return cmd
}

// ServeCmd returns the Cobra command that exposes ingestion runs over HTTP.
func ServeCmd() *cobra.Command {
	flags := &flags{}
	cmd := &cobra.Command{
		Use:     serveCmdUsage,
		Short:   heredoc.Doc(serveCmdShort),
		Long:    heredoc.Doc(serveCmdLong),
		Example: heredoc.Doc(serveCmdExample),

		SilenceErrors: true,
		SilenceUsage:  true,

		Args:              cobra.NoArgs,
		ValidArgsFunction: cobra.NoFileCompletions,
		RunE: func(cmd *cobra.Command, _ []string) error {
			opts, err := flags.toOptions(cmd)
			if err != nil {
				return handleError(cmd, err)
			}

			if err := opts.validate(); err != nil {
				return handleError(cmd, err)
			}

			ctx, stop := signalContext(cmd.Context())
			defer stop()

			if err := opts.serve(ctx); err != nil {
				return handleError(cmd, err)
			}

			return nil
		},
	}

	flags.addFlags(cmd)
	return cmd
}

// signalContext returns a context cancelled when the process receives an interrupt or a
// termination signal.
func signalContext(ctx context.Context) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
}
